package driver

import (
	"context"
	"fmt"

	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/lexer"
	"unsafescan/internal/parser"
	"unsafescan/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
	// Errors counts error diagnostics, including the ones the bag dropped.
	Errors int
}

// Failed reports whether any parsed file had errors.
func (r *ParseResult) Failed() bool {
	return r.Errors > 0 || r.Bag.HasErrors()
}

// Parse loads and parses one crate root. With opts.FollowMods the
// out-of-line module bodies are parsed into the same builder.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := opts.newFileSet()
	run := phaseRunner{observe: opts.Observer}

	var fileID source.FileID
	err := run.run("load", nil, func() error {
		var err error
		fileID, err = fs.Load(path)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return parseRoot(ctx, fs, fileID, opts, opts.FollowMods)
}

// ParseSource parses in-memory content as a crate root. Modules are never
// followed since there is no directory to resolve them against.
func ParseSource(ctx context.Context, name string, content []byte, opts Options) (*ParseResult, error) {
	fs := opts.newFileSet()
	return parseRoot(ctx, fs, fs.AddVirtual(name, content), opts, false)
}

func parseRoot(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options, followMods bool) (*ParseResult, error) {
	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := newFileReporter(bag)
	// свой interner на каждый builder: Interner не потокобезопасен
	builder := ast.NewBuilder(ast.Hints{}, nil)

	var (
		root ast.FileID
		note string
	)
	run := phaseRunner{observe: opts.Observer}
	err := run.run("parse", &note, func() error {
		popts, err := opts.parserOptions(rep)
		if err != nil {
			return err
		}
		root = parseOne(ctx, fs, fileID, builder, popts)
		if followMods {
			ml := newModLoader(ctx, fs, builder, rep, popts)
			ml.crate(root, fileID)
			note = fmt.Sprintf("%d files", ml.files)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		FileSet: fs,
		File:    fs.Get(fileID),
		Builder: builder,
		FileID:  root,
		Bag:     bag,
		Errors:  rep.Errors(),
	}, nil
}

func parseOne(ctx context.Context, fs *source.FileSet, fileID source.FileID, builder *ast.Builder, opts parser.Options) ast.FileID {
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: opts.Reporter})
	return parser.ParseFile(ctx, fs, lx, builder, opts).File
}
