package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"unsafescan/internal/audit"
	"unsafescan/internal/config"
	"unsafescan/internal/diag"
	"unsafescan/internal/driver"
	"unsafescan/internal/source"
)

// settings is the config file merged with the flags the user set.
type settings struct {
	cfg      config.Config
	quiet    bool
	timings  bool
	colorOut bool
	colorErr bool
	pathMode source.PathMode
	minSev   diag.Severity
}

func addScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("format", "text", "report format (text|json|msgpack)")
	f.Bool("impls", false, "also report unsafe impl and unsafe trait items")
	f.Bool("expand-macro-args", false, "look for unsafe code inside ()/[] macro arguments")
	f.Bool("follow-mods", true, "follow out-of-line `mod foo;` declarations of a single crate")
	f.Int("jobs", 0, "max parallel workers for directory scans (0=auto)")
	f.Bool("lenient", false, "print a placeholder instead of failing when a snippet is unavailable")
	f.String("path-mode", "auto", "how paths are printed (auto|relative|absolute|basename)")
	f.StringSlice("exclude", nil, "gitignore-style patterns to skip in directory scans")
	f.Bool("no-gitignore", false, "do not honour the .gitignore of the scanned directory")
	f.String("ui", "auto", "progress view on stderr for directory scans (auto|on|off)")
}

// loadSettings resolves the config for target and applies every flag the
// user set explicitly. Scan flags are only read when scanFlags is set.
func loadSettings(cmd *cobra.Command, target string, scanFlags bool) (*settings, error) {
	flags := cmd.Flags()
	explicit, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Resolve(target, explicit)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	var errs []error
	getString := func(name string, dst *string) {
		if changed(name) {
			v, err := flags.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	getBool := func(name string, dst *bool) {
		if changed(name) {
			v, err := flags.GetBool(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	getInt := func(name string, dst *int) {
		if changed(name) {
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	getString("color", &cfg.Output.Color)
	getInt("max-diagnostics", &cfg.Scan.MaxDiagnostics)
	getString("min-severity", &cfg.Output.MinSeverity)
	getString("diag-format", &cfg.Output.DiagFormat)
	if scanFlags {
		getString("format", &cfg.Output.Format)
		getBool("impls", &cfg.Scan.IncludeImpls)
		getBool("expand-macro-args", &cfg.Scan.ExpandMacroArgs)
		getBool("follow-mods", &cfg.Scan.FollowMods)
		getInt("jobs", &cfg.Scan.Jobs)
		getBool("lenient", &cfg.Output.Lenient)
		getString("path-mode", &cfg.Output.PathMode)
		if changed("exclude") {
			v, err := flags.GetStringSlice("exclude")
			errs = append(errs, err)
			cfg.Scan.Exclude = append(cfg.Scan.Exclude, v...)
		}
		if changed("no-gitignore") {
			v, err := flags.GetBool("no-gitignore")
			errs = append(errs, err)
			cfg.Scan.Gitignore = !v
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg}
	s.pathMode, _ = source.ParsePathMode(cfg.Output.PathMode)
	s.minSev, _ = diag.ParseSeverity(cfg.Output.MinSeverity)
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}
	s.colorOut = wantColor(cfg.Output.Color, cmd.OutOrStdout())
	s.colorErr = wantColor(cfg.Output.Color, cmd.ErrOrStderr())
	return s, nil
}

func (s *settings) machineReadable() bool {
	return s.cfg.Output.Format != "text"
}

func (s *settings) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics:  s.cfg.Scan.MaxDiagnostics,
		ExpandMacroArgs: s.cfg.Scan.ExpandMacroArgs,
		FollowMods:      s.cfg.Scan.FollowMods,
		Audit:           audit.Options{IncludeImpls: s.cfg.Scan.IncludeImpls},
		PathMode:        s.pathMode,
		Phase:           driver.PhaseCollect,
		Jobs:            s.cfg.Scan.Jobs,
		Exclude:         s.cfg.Scan.Exclude,
		Gitignore:       s.cfg.Scan.Gitignore,
	}
}
