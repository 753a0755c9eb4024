package driver

import (
	"fortio.org/safecast"

	"unsafescan/internal/audit"
	"unsafescan/internal/diag"
	"unsafescan/internal/parser"
	"unsafescan/internal/source"
)

// Options configures a run of the front end and the collector.
type Options struct {
	MaxDiagnostics  int
	ExpandMacroArgs bool
	// FollowMods loads out-of-line `mod foo;` bodies in crate mode.
	// Directory scans never follow modules.
	FollowMods bool
	Audit      audit.Options
	PathMode   source.PathMode
	// Phase is the last phase AnalyzeFile and AnalyzeSource run.
	// PhaseParse stops before collection and leaves Analysis.Result nil.
	Phase Phase
	// BaseDir is used for relative paths; empty means the working directory.
	BaseDir string

	// directory scans
	Jobs      int
	Exclude   []string // gitignore syntax
	Gitignore bool

	Observer PhaseObserver
	Progress ProgressSink
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxDiagnostics: 100,
		FollowMods:     true,
		Gitignore:      true,
		Phase:          PhaseCollect,
	}
}

func (o Options) parserOptions(r diag.Reporter) (parser.Options, error) {
	maxErrors, err := safecast.Conv[uint](max(o.MaxDiagnostics, 0))
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{
		Reporter:        r,
		MaxErrors:       maxErrors,
		ExpandMacroArgs: o.ExpandMacroArgs,
	}, nil
}

func (o Options) newFileSet() *source.FileSet {
	fs := source.NewFileSetWithBase(o.BaseDir)
	fs.SetPathMode(o.PathMode)
	return fs
}

// newFileReporter drops repeated diagnostics before they reach bag and
// counts errors even when bag is already full.
func newFileReporter(bag *diag.Bag) *diag.DedupReporter {
	return diag.NewDedupReporter(diag.BagReporter{Bag: bag})
}
