package driver

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unsafescan/internal/diag"
)

type recordSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordSink) last() map[string]Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Event)
	for _, ev := range s.events {
		out[ev.File] = ev
	}
	return out
}

func dirTree() map[string]string {
	return map[string]string{
		"a.rs":     "unsafe fn a() {}\n",
		"b/b.rs":   "fn b() { unsafe { x() }; unsafe { y() } }\n",
		"c.rs":     "fn c() {}\n",
		"d/mod.rs": "mod not_followed;\n",
	}
}

func TestAnalyzeDir(t *testing.T) {
	root := writeTree(t, dirTree())
	res, err := AnalyzeDir(context.Background(), root, testOptions())
	require.NoError(t, err)

	require.Len(t, res.Files, 4)
	assert.Equal(t, []string{"a.rs", "b/b.rs", "c.rs", "d/mod.rs"}, relPaths(t, root, filePaths(res)))
	assert.Equal(t, 3, res.Total())
	assert.Equal(t, 1, res.Files[0].Result.Len())
	assert.Equal(t, 2, res.Files[1].Result.Len())
	assert.Equal(t, 0, res.Files[3].Result.Len(), "directory scans do not follow modules")
	assert.Equal(t, 0, res.FailedFiles())
}

func TestAnalyzeDirDeterministic(t *testing.T) {
	root := writeTree(t, dirTree())
	render := func(jobs int) []string {
		opts := testOptions()
		opts.Jobs = jobs
		res, err := AnalyzeDir(context.Background(), root, opts)
		require.NoError(t, err)
		var out []string
		for _, f := range res.Files {
			for _, r := range f.Result.Regions {
				out = append(out, res.FileSet.Render(r.Span))
			}
		}
		return out
	}
	want := render(1)
	for range 5 {
		assert.Equal(t, want, render(8))
	}
}

func TestAnalyzeDirParseFailure(t *testing.T) {
	files := dirTree()
	files["broken.rs"] = "fn broken( {\n"
	root := writeTree(t, files)

	res, err := AnalyzeDir(context.Background(), root, testOptions())
	require.ErrorIs(t, err, ErrParseFailed)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.FailedFiles())

	var broken *FileAnalysis
	for i := range res.Files {
		if res.Files[i].Failed() {
			broken = &res.Files[i]
		}
	}
	require.NotNil(t, broken)
	assert.Nil(t, broken.Result)
	assert.True(t, broken.Bag.HasErrors())
	assert.Equal(t, 3, res.Total(), "other files are still analysed")
}

func TestAnalyzeDirEmpty(t *testing.T) {
	root := writeTree(t, map[string]string{"README.md": "no rust here"})
	res, err := AnalyzeDir(context.Background(), root, testOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Equal(t, 0, res.Total())
}

func TestAnalyzeDirCanceled(t *testing.T) {
	root := writeTree(t, dirTree())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AnalyzeDir(ctx, root, testOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeDirProgress(t *testing.T) {
	files := dirTree()
	files["broken.rs"] = "fn broken( {\n"
	root := writeTree(t, files)
	sink := &recordSink{}
	opts := testOptions()
	opts.Progress = sink

	res, err := AnalyzeDir(context.Background(), root, opts)
	require.ErrorIs(t, err, ErrParseFailed)

	last := sink.last()
	for _, f := range res.Files {
		ev, ok := last[f.Path]
		require.True(t, ok, f.Path)
		if f.Failed() {
			assert.Equal(t, StatusError, ev.Status, f.Path)
			assert.ErrorIs(t, ev.Err, ErrParseFailed)
		} else {
			assert.Equal(t, StatusDone, ev.Status, f.Path)
			assert.Equal(t, StageCollect, ev.Stage, f.Path)
			assert.Equal(t, f.Result.Len(), ev.Regions, f.Path)
		}
	}
}

func TestAnalyzeDirLoadErrorDiagnostic(t *testing.T) {
	fa := analyzeOne(context.Background(), testOptions().newFileSet(), "gone.rs", nil,
		map[string]error{"gone.rs": assert.AnError}, testOptions())
	assert.True(t, fa.Failed())
	assert.Equal(t, []diag.Code{diag.IOLoadFileError}, codes(fa.Bag))
}

func filePaths(res *DirAnalysis) []string {
	out := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		out = append(out, f.Path)
	}
	return out
}
