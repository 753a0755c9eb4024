package driver

import (
	"context"
	"fmt"

	"unsafescan/internal/audit"
)

// ErrParseFailed means the input had syntax errors, so there is no tree to
// collect from. It wraps audit.ErrNoAST.
var ErrParseFailed = fmt.Errorf("parse failed: %w", audit.ErrNoAST)

// Analysis is a parsed crate together with its collected regions.
type Analysis struct {
	*ParseResult
	Result *audit.Result
}

// AnalyzeFile parses a crate root and collects its unsafe regions. On
// ErrParseFailed the returned Analysis still carries the diagnostics.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Analysis, error) {
	pr, err := Parse(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return Collect(pr, opts)
}

// AnalyzeSource is AnalyzeFile for in-memory content.
func AnalyzeSource(ctx context.Context, name string, content []byte, opts Options) (*Analysis, error) {
	pr, err := ParseSource(ctx, name, content, opts)
	if err != nil {
		return nil, err
	}
	return Collect(pr, opts)
}

// Collect runs the collector over an already parsed crate.
func Collect(pr *ParseResult, opts Options) (*Analysis, error) {
	an := &Analysis{ParseResult: pr}
	if pr.Failed() {
		return an, ErrParseFailed
	}
	if opts.Phase < PhaseCollect {
		return an, nil
	}
	var note string
	run := phaseRunner{observe: opts.Observer}
	err := run.run("collect", &note, func() error {
		res, err := audit.Collect(pr.Builder, pr.FileID, opts.Audit)
		if err != nil {
			return err
		}
		an.Result = res
		note = fmt.Sprintf("%d regions", res.Len())
		return nil
	})
	if err != nil {
		return an, err
	}
	return an, nil
}
