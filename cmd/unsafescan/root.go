package main

import (
	"github.com/spf13/cobra"

	"unsafescan/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "unsafescan [flags] <file.rs|directory>",
		Short: "Report unsafe blocks and functions in Rust sources",
		Long: `unsafescan lists every unsafe block and unsafe fn of a Rust crate or
directory, with its location and the exact source text.

Running it with a path is the same as "unsafescan scan <path>".`,
		Version:       version.Current().Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runScan(cmd, args)
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information on stderr")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("min-severity", "warning", "hide diagnostics below this severity (info|warning|error)")
	pf.String("diag-format", "auto", "diagnostics format on stderr (auto|pretty|short|json)")
	pf.String("config", "", "config file (default: nearest unsafescan.toml or .unsafescan.{toml,yaml,yml})")

	addScanFlags(root)
	root.AddCommand(newScanCmd(), newTokenizeCmd(), newParseCmd(), newVersionCmd())
	return root
}
