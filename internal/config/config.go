// Package config loads the optional unsafescan configuration file.
//
// The file is TOML (unsafescan.toml, .unsafescan.toml) or YAML
// (.unsafescan.yaml, .unsafescan.yml). Unknown keys are rejected in both
// formats. Keys missing from the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"unsafescan/internal/diag"
	"unsafescan/internal/source"
)

var (
	// ErrUnknownKey is returned when a file sets a key the config does not have.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("invalid config")
)

// FileNames are looked up in this order in every directory.
var FileNames = []string{
	"unsafescan.toml",
	".unsafescan.toml",
	".unsafescan.yaml",
	".unsafescan.yml",
}

type Config struct {
	Scan   Scan   `toml:"scan" yaml:"scan"`
	Output Output `toml:"output" yaml:"output"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

type Scan struct {
	IncludeImpls    bool     `toml:"include_impls" yaml:"include_impls"`
	ExpandMacroArgs bool     `toml:"expand_macro_args" yaml:"expand_macro_args"`
	FollowMods      bool     `toml:"follow_mods" yaml:"follow_mods"`
	Exclude         []string `toml:"exclude" yaml:"exclude"` // gitignore syntax
	Gitignore       bool     `toml:"gitignore" yaml:"gitignore"`
	Jobs            int      `toml:"jobs" yaml:"jobs"`
	MaxDiagnostics  int      `toml:"max_diagnostics" yaml:"max_diagnostics"`
}

type Output struct {
	Format   string `toml:"format" yaml:"format"` // text|json|msgpack
	Color    string `toml:"color" yaml:"color"`   // auto|on|off
	PathMode string `toml:"path_mode" yaml:"path_mode"`
	Lenient  bool   `toml:"lenient" yaml:"lenient"`
	// MinSeverity hides diagnostics below it: info|warning|error.
	MinSeverity string `toml:"min_severity" yaml:"min_severity"`
	// DiagFormat is auto|pretty|short|json. auto means json next to a
	// machine readable report, pretty otherwise.
	DiagFormat string `toml:"diag_format" yaml:"diag_format"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Scan: Scan{
			FollowMods:     true,
			Gitignore:      true,
			MaxDiagnostics: 100,
		},
		Output: Output{
			Format:      "text",
			Color:       "auto",
			PathMode:    "auto",
			MinSeverity: "warning",
			DiagFormat:  "auto",
		},
	}
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	var problems []string
	switch c.Output.Format {
	case "text", "json", "msgpack":
	default:
		problems = append(problems, fmt.Sprintf("output.format %q (expected text|json|msgpack)", c.Output.Format))
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		problems = append(problems, fmt.Sprintf("output.color %q (expected auto|on|off)", c.Output.Color))
	}
	if _, ok := source.ParsePathMode(c.Output.PathMode); !ok {
		problems = append(problems, fmt.Sprintf("output.path_mode %q (expected auto|relative|absolute|basename)", c.Output.PathMode))
	}
	switch c.Output.DiagFormat {
	case "auto", "pretty", "short", "json":
	default:
		problems = append(problems, fmt.Sprintf("output.diag_format %q (expected auto|pretty|short|json)", c.Output.DiagFormat))
	}
	if _, err := diag.ParseSeverity(c.Output.MinSeverity); err != nil {
		problems = append(problems, "output.min_severity: "+err.Error())
	}
	if c.Scan.Jobs < 0 {
		problems = append(problems, fmt.Sprintf("scan.jobs %d (must be >= 0)", c.Scan.Jobs))
	}
	if c.Scan.MaxDiagnostics < 0 {
		problems = append(problems, fmt.Sprintf("scan.max_diagnostics %d (must be >= 0)", c.Scan.MaxDiagnostics))
	}
	if len(problems) == 0 {
		return nil
	}
	where := c.Path
	if where == "" {
		where = "config"
	}
	return fmt.Errorf("%s: %w: %s", where, ErrInvalid, strings.Join(problems, "; "))
}

// Load reads and validates the file at path. The format is chosen by
// extension.
func Load(path string) (Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(path, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(path, &cfg)
	default:
		return Config{}, fmt.Errorf("%s: unsupported config format (want .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return Config{}, err
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeTOML(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	return nil
}

// Find walks up from start (a file or a directory) and returns the first
// config file, if any.
func Find(start string) (path string, ok bool, err error) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if st, err := os.Stat(dir); err == nil && !st.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads explicit when it is set, otherwise the file found above
// target, otherwise the defaults.
func Resolve(target, explicit string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(target)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
