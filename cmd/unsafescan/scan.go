package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"unsafescan/internal/audit"
	"unsafescan/internal/auditfmt"
	"unsafescan/internal/driver"
	"unsafescan/internal/observ"
	"unsafescan/internal/source"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [flags] <file.rs|directory>",
		Short: "Report unsafe blocks and functions",
		Long: `Scan a crate root (following its out-of-line modules) or every *.rs file
of a directory, and print each unsafe block and unsafe fn with its location
and source text.`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}
	addScanFlags(cmd)
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]
	s, err := loadSettings(cmd, target, true)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	opts := s.driverOptions()
	var timer *observ.Timer
	if s.timings {
		timer = observ.NewTimer()
		opts.Observer = driver.TimerObserver(timer)
	}

	if st.IsDir() {
		err = scanDir(cmd, target, s, opts, timer, mode)
	} else {
		err = scanFile(cmd, target, s, opts, timer)
	}
	if timer != nil {
		timer.WriteSummary(cmd.ErrOrStderr())
	}
	return err
}

func scanFile(cmd *cobra.Command, path string, s *settings, opts driver.Options, timer *observ.Timer) error {
	errOut := cmd.ErrOrStderr()
	an, err := driver.AnalyzeFile(cmd.Context(), path, opts)
	if an != nil {
		// предупреждения печатаем и при успешном разборе
		if printErr := printDiagnostics(errOut, an.Bag, an.FileSet, s, s.machineReadable()); printErr != nil {
			return printErr
		}
	}
	if err != nil {
		return err
	}
	return measure(timer, "report", func() error {
		return writeReport(cmd.OutOrStdout(), an.Result, an.FileSet, s)
	})
}

func scanDir(cmd *cobra.Command, dir string, s *settings, opts driver.Options, timer *observ.Timer, mode uiMode) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var (
		res *driver.DirAnalysis
		err error
	)
	if shouldUseTUI(mode, s.quiet, errOut) {
		res, err = runScanWithUI(cmd.Context(), errOut, "scanning "+dir, dir, opts)
	} else {
		res, err = driver.AnalyzeDir(cmd.Context(), dir, opts)
	}
	if res != nil {
		for i := range res.Files {
			f := &res.Files[i]
			if printErr := printDiagnostics(errOut, f.Bag, res.FileSet, s, s.machineReadable()); printErr != nil {
				return printErr
			}
		}
	}
	if err != nil {
		if errors.Is(err, driver.ErrParseFailed) && !s.quiet {
			fmt.Fprintf(errOut, "%d of %d files failed to parse, no report written\n", res.FailedFiles(), len(res.Files))
		}
		return err
	}

	return measure(timer, "report", func() error {
		return writeDirReport(out, res, s)
	})
}

func writeReport(w io.Writer, res *audit.Result, fs *source.FileSet, s *settings) error {
	opts := auditfmt.Options{Color: s.colorOut, Lenient: s.cfg.Output.Lenient}
	switch s.cfg.Output.Format {
	case "json":
		return auditfmt.JSON(w, res, fs, opts)
	case "msgpack":
		return auditfmt.MsgPack(w, res, fs, opts)
	default:
		return auditfmt.Text(w, res, fs, opts)
	}
}

func writeDirReport(w io.Writer, res *driver.DirAnalysis, s *settings) error {
	opts := auditfmt.Options{Color: s.colorOut, Lenient: s.cfg.Output.Lenient}
	if s.cfg.Output.Format != "text" {
		files := make([]auditfmt.FileResult, 0, len(res.Files))
		for _, f := range res.Files {
			files = append(files, auditfmt.FileResult{File: f.FileID, Result: f.Result})
		}
		rep, err := auditfmt.BuildDirReport(files, res.FileSet, opts)
		if err != nil {
			return err
		}
		if s.cfg.Output.Format == "msgpack" {
			return auditfmt.EncodeMsgPack(w, rep)
		}
		return auditfmt.EncodeJSON(w, rep)
	}

	for _, f := range res.Files {
		if !s.quiet {
			if _, err := fmt.Fprintf(w, "== %s ==\n", res.FileSet.DisplayPath(f.FileID)); err != nil {
				return err
			}
		}
		if err := auditfmt.Text(w, f.Result, res.FileSet, opts); err != nil {
			return err
		}
	}
	if !s.quiet {
		_, err := fmt.Fprintf(w, "Total: %d unsafe blocks or functions in %d files.\n", res.Total(), len(res.Files))
		return err
	}
	return nil
}

// measure runs fn as a timer phase when timings are enabled.
func measure(timer *observ.Timer, name string, fn func() error) error {
	if timer == nil {
		return fn()
	}
	return timer.Measure(name, fn)
}
