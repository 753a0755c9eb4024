package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"unsafescan/internal/diagfmt"
	"unsafescan/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.rs",
		Short: "Parse a Rust source file and print its outline",
		Long: `Parse runs the front end only: it prints the diagnostics and an outline
of the syntax tree. Out-of-line modules are not followed.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "tree", "output format (tree|json)")
	cmd.Flags().Bool("expand-macro-args", false, "parse ()/[] macro arguments as expressions")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	s, err := loadSettings(cmd, filePath, false)
	if err != nil {
		return err
	}
	opts := s.driverOptions()
	opts.FollowMods = false
	if cmd.Flags().Changed("expand-macro-args") {
		if opts.ExpandMacroArgs, err = cmd.Flags().GetBool("expand-macro-args"); err != nil {
			return err
		}
	}

	opts.Phase = driver.PhaseParse

	an, err := driver.AnalyzeFile(cmd.Context(), filePath, opts)
	if err != nil && !errors.Is(err, driver.ErrParseFailed) {
		return fmt.Errorf("parsing failed: %w", err)
	}
	result := an.ParseResult
	if err := printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, s, format == "json"); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatASTJSON(out, result.Builder, result.FileID)
	} else {
		err = diagfmt.FormatASTPretty(out, result.Builder, result.FileID, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Failed() {
		return driver.ErrParseFailed
	}
	return nil
}
