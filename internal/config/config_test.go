package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "unsafescan.toml", `
[scan]
include_impls = true
exclude = ["vendor/", "*_generated.rs"]
jobs = 4

[output]
format = "json"
path_mode = "relative"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Scan.IncludeImpls)
	assert.Equal(t, []string{"vendor/", "*_generated.rs"}, cfg.Scan.Exclude)
	assert.Equal(t, 4, cfg.Scan.Jobs)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "relative", cfg.Output.PathMode)
	// не заданные ключи сохраняют значения по умолчанию
	assert.True(t, cfg.Scan.FollowMods)
	assert.True(t, cfg.Scan.Gitignore)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Equal(t, path, cfg.Path)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".unsafescan.yaml", `
scan:
  follow_mods: false
  expand_macro_args: true
output:
  color: "off"
  lenient: true
  min_severity: info
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Scan.FollowMods)
	assert.True(t, cfg.Scan.ExpandMacroArgs)
	assert.Equal(t, "off", cfg.Output.Color)
	assert.True(t, cfg.Output.Lenient)
	assert.Equal(t, "info", cfg.Output.MinSeverity)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".unsafescan.yml", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Scan, cfg.Scan)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "unsafescan.toml", "[scan]\nfollow_modules = true\n"))
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.ErrorContains(t, err, "scan.follow_modules")

	_, err = Load(writeFile(t, dir, "x.yaml", "scan:\n  bogus: 1\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "bogus")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"color", "[output]\ncolor = \"always\"\n", "output.color"},
		{"path mode", "[output]\npath_mode = \"short\"\n", "output.path_mode"},
		{"jobs", "[scan]\njobs = -1\n", "scan.jobs"},
		{"diag format", "[output]\ndiag_format = \"xml\"\n", "output.diag_format"},
		{"min severity", "[output]\nmin_severity = \"fatal\"\n", "output.min_severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), "unsafescan.toml", tt.content))
			require.ErrorIs(t, err, ErrInvalid)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := Load(writeFile(t, t.TempDir(), "unsafescan.toml", "[scan\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse TOML")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, t.TempDir(), "unsafescan.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, ".unsafescan.toml", "")
	file := writeFile(t, root, "crate/src/lib.rs", "")

	got, ok, err := Find(file)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	got, ok, err = Find(filepath.Dir(file))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFindPrefersNearestAndOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "unsafescan.toml", "")
	writeFile(t, root, "sub/.unsafescan.yml", "")
	nearest := writeFile(t, root, "sub/unsafescan.toml", "")

	got, ok, err := Find(filepath.Join(root, "sub"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, nearest, got)
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	explicit := writeFile(t, root, "custom.yaml", "output:\n  format: msgpack\n")

	cfg, err := Resolve(root, explicit)
	require.NoError(t, err)
	assert.Equal(t, "msgpack", cfg.Output.Format)

	writeFile(t, root, "unsafescan.toml", "[output]\nformat = \"json\"\n")
	cfg, err = Resolve(root, "")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}
