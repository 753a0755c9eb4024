package main

import (
	"fmt"
	"io"

	"unsafescan/internal/diag"
	"unsafescan/internal/diagfmt"
	"unsafescan/internal/source"
)

// printDiagnostics writes the diagnostics of bag at or above the configured
// severity to w. With diag_format auto they are JSON when the output itself
// is machine readable and pretty otherwise.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, s *settings, machine bool) error {
	if bag == nil {
		return nil
	}
	bag = bag.Filter(s.minSev)
	if bag.Len() == 0 {
		return nil
	}
	bag.Sort()

	format := s.cfg.Output.DiagFormat
	if format == "auto" {
		format = "pretty"
		if machine {
			format = "json"
		}
	}
	switch format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     true,
		})
	case "short":
		_, err := fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), fs, s.pathMode, false))
		return err
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     s.colorErr,
			Context:   2,
			PathMode:  s.pathMode,
			ShowNotes: true,
		})
		return nil
	}
}
