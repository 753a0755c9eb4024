package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"unsafescan/internal/ast"
	"unsafescan/internal/audit"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
)

// FileAnalysis is the outcome for one file of a directory scan.
type FileAnalysis struct {
	Path    string        // путь, как его вернул обход каталога
	FileID  source.FileID // ID файла в общем FileSet
	Builder *ast.Builder  // собственный builder на каждый файл
	ASTFile ast.FileID
	Bag     *diag.Bag
	Errors  int
	Result  *audit.Result // nil, если файл не загрузился или не разобрался
}

// Failed reports whether the file could not be loaded or parsed.
func (f *FileAnalysis) Failed() bool {
	return f.Errors > 0 || (f.Bag != nil && f.Bag.HasErrors())
}

// DirAnalysis holds per-file results in sorted path order.
type DirAnalysis struct {
	FileSet *source.FileSet
	Files   []FileAnalysis
}

// Total returns the number of regions over all files.
func (d *DirAnalysis) Total() int {
	n := 0
	for i := range d.Files {
		n += d.Files[i].Result.Len()
	}
	return n
}

// FailedFiles returns the number of files that did not parse.
func (d *DirAnalysis) FailedFiles() int {
	n := 0
	for i := range d.Files {
		if d.Files[i].Failed() {
			n++
		}
	}
	return n
}

// AnalyzeDir analyses every *.rs file under dir independently and in
// parallel. Modules are not followed. When any file fails, the full
// DirAnalysis is returned together with an error wrapping ErrParseFailed.
func AnalyzeDir(ctx context.Context, dir string, opts Options) (*DirAnalysis, error) {
	run := phaseRunner{observe: opts.Observer}
	fileSet := opts.newFileSet()
	out := &DirAnalysis{FileSet: fileSet}

	var files []string
	note := ""
	err := run.run("load", &note, func() error {
		var err error
		files, err = ListRustFiles(ctx, dir, opts)
		note = fmt.Sprintf("%d files", len(files))
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return out, nil
	}
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Предзагружаем все файлы: после этого FileSet только читается
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустая запись, чтобы диагностике было на что указывать
			loadErrors[path] = err
			fileID = fileSet.AddVirtual(path, nil)
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	out.Files = make([]FileAnalysis, len(files))

	err = run.run("analyze", nil, func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(files)))
		for i, path := range files {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out.Files[i] = analyzeOne(gctx, fileSet, path, fileIDs, loadErrors, opts)
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return out, err
	}

	if n := out.FailedFiles(); n > 0 {
		return out, fmt.Errorf("%d of %d files: %w", n, len(files), ErrParseFailed)
	}
	return out, nil
}

func analyzeOne(ctx context.Context, fileSet *source.FileSet, path string, fileIDs map[string]source.FileID, loadErrors map[string]error, opts Options) FileAnalysis {
	start := time.Now()
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := FileAnalysis{Path: path, FileID: fileIDs[path], Bag: bag}

	if loadErr, ok := loadErrors[path]; ok {
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: res.FileID}, "failed to load file: "+loadErr.Error()))
		res.Errors = 1
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr, Elapsed: time.Since(start)})
		return res
	}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	rep := newFileReporter(bag)
	popts, err := opts.parserOptions(rep)
	if err != nil {
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: res.FileID}, err.Error()))
		res.Errors = 1
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return res
	}
	res.Builder = ast.NewBuilder(ast.Hints{}, nil)
	res.ASTFile = parseOne(ctx, fileSet, res.FileID, res.Builder, popts)
	res.Errors = rep.Errors()
	if res.Failed() {
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusError, Err: ErrParseFailed, Elapsed: time.Since(start)})
		return res
	}

	emit(opts.Progress, Event{File: path, Stage: StageCollect, Status: StatusWorking})
	collected, err := audit.Collect(res.Builder, res.ASTFile, opts.Audit)
	if err != nil {
		res.Errors++
		emit(opts.Progress, Event{File: path, Stage: StageCollect, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return res
	}
	res.Result = collected
	emit(opts.Progress, Event{File: path, Stage: StageCollect, Status: StatusDone, Elapsed: time.Since(start), Regions: collected.Len()})
	return res
}
