package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("lib.rs", []byte("fn a() {}"), 0)
	id2 := fs.Add("lib.rs", []byte("fn b() {}"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("lib.rs")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "fn a() {}" {
		t.Errorf("first content = %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Errorf("expected nil for unknown id")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.rs", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, expected)
	}
	for i, v := range expected {
		if file.LineIdx[i] != v {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], v)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestLoadStripsBOMKeepsCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	content := []byte("\xEF\xBB\xBFfn main() {\r\n    unsafe {}\r\n}\r\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM")
	}
	if f.Flags&FileHasCRLF == 0 {
		t.Error("expected FileHasCRLF")
	}
	if string(f.Content) != string(content[3:]) {
		t.Errorf("content was modified beyond BOM removal: %q", f.Content)
	}
	if got := f.GetLine(2); got != "    unsafe {}" {
		t.Errorf("GetLine(2) = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.rs")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolveAndRender(t *testing.T) {
	fs := NewFileSet()
	src := "fn f() {\n    unsafe { g() }\n}\n"
	id := fs.AddVirtual("src/lib.rs", []byte(src))

	// позиция `unsafe` на второй строке
	start := uint32(len("fn f() {\n    "))
	end := start + uint32(len("unsafe { g() }"))
	span := Span{File: id, Start: start, End: end}

	lo, hi := fs.Resolve(span)
	if lo != (LineCol{Line: 2, Col: 5}) || hi != (LineCol{Line: 2, Col: 19}) {
		t.Fatalf("Resolve = %v %v", lo, hi)
	}
	if got, want := fs.Render(span), "src/lib.rs:2:5: 2:19"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderCountsCharacters(t *testing.T) {
	fs := NewFileSet()
	src := "let s = \"привет\"; unsafe {}"
	id := fs.AddVirtual("u.rs", []byte(src))
	start := uint32(len("let s = \"привет\"; "))
	span := Span{File: id, Start: start, End: uint32(len(src))}

	// 18 символов до unsafe, а в байтах больше
	if got, want := fs.Render(span), "u.rs:1:19: 1:28"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	lo, _ := fs.Resolve(span)
	if lo.Col == 19 {
		t.Errorf("Resolve should report byte columns, got %d", lo.Col)
	}
}

func TestSnippetRoundTrip(t *testing.T) {
	fs := NewFileSet()
	src := "unsafe {\r\n  // comment\r\n  x()\r\n}"
	id := fs.AddVirtual("a.rs", []byte(src))
	got, err := fs.Snippet(Span{File: id, Start: 0, End: uint32(len(src))})
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	if got != src {
		t.Errorf("Snippet = %q, want %q", got, src)
	}
}

func TestSnippetUnavailable(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.rs", []byte("unsafe {}"))

	if _, err := fs.Snippet(Span{File: id, Start: 0, End: 100}); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("out of range: err = %v", err)
	}
	if _, err := fs.Snippet(Span{File: 7, Start: 0, End: 1}); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("unknown file: err = %v", err)
	}

	span := Span{File: id, Start: 0, End: 9}
	fs.Release(id)
	if _, err := fs.Snippet(span); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("released: err = %v", err)
	}
	// рендер локации работает и после Release
	if got, want := fs.Render(span), "a.rs:1:1: 1:10"; got != want {
		t.Errorf("Render after release = %q, want %q", got, want)
	}
}

func TestFormatPathModes(t *testing.T) {
	f := &File{Path: "/very/long/absolute/path/to/some/crate/src/module/file.rs"}
	if got := f.FormatPath(PathModeBasename, ""); got != "file.rs" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath(PathModeAuto, ""); got != "file.rs" {
		t.Errorf("auto long = %q", got)
	}
	short := &File{Path: "src/main.rs"}
	if got := short.FormatPath(PathModeAuto, ""); got != "src/main.rs" {
		t.Errorf("auto short = %q", got)
	}
	rel := &File{Path: "/work/crate/src/lib.rs"}
	if got := rel.FormatPath(PathModeRelative, "/work/crate"); got != "src/lib.rs" {
		t.Errorf("relative = %q", got)
	}
}

func TestParsePathMode(t *testing.T) {
	for _, name := range []string{"auto", "absolute", "relative", "basename"} {
		m, ok := ParsePathMode(name)
		if !ok || m.String() != name {
			t.Errorf("ParsePathMode(%q) = %v,%v", name, m, ok)
		}
	}
	if _, ok := ParsePathMode("full"); ok {
		t.Error("expected failure for unknown mode")
	}
}
