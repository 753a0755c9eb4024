package auditfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"unsafescan/internal/ast"
	"unsafescan/internal/audit"
	"unsafescan/internal/diag"
	"unsafescan/internal/lexer"
	"unsafescan/internal/parser"
	"unsafescan/internal/source"
)

func analyze(t *testing.T, name, src string) (*source.FileSet, *audit.Result) {
	t.Helper()
	fs := source.NewFileSet()
	return fs, analyzeInto(t, fs, name, src)
}

func analyzeInto(t *testing.T, fs *source.FileSet, name, src string) *audit.Result {
	t.Helper()
	fileID := fs.AddVirtual(name, []byte(src))
	bag := diag.NewBag(10)
	reporter := &diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	parsed := parser.ParseFile(context.Background(), fs, lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), builder, parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %d", bag.ErrorCount())
	}
	res, err := audit.Collect(builder, parsed.File, audit.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestTextReport(t *testing.T) {
	src := "unsafe fn f() {\n    unsafe { g() }\n}\n"
	fs, res := analyze(t, "src/lib.rs", src)

	var buf bytes.Buffer
	if err := Text(&buf, res, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	want := "Found 2 unsafe blocks or functions.\n\n" +
		"src/lib.rs:1:1: 3:2:\nunsafe fn f() {\n    unsafe { g() }\n}\n\n" +
		"src/lib.rs:2:5: 2:19:\nunsafe { g() }\n\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestTextReportEmpty(t *testing.T) {
	fs, res := analyze(t, "lib.rs", "struct S { x: u8 }\n")
	var buf bytes.Buffer
	if err := Text(&buf, res, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Found 0 unsafe blocks or functions.\n\n" {
		t.Fatalf("got %q", got)
	}
}

func TestTextReportColor(t *testing.T) {
	fs, res := analyze(t, "lib.rs", "fn f() { unsafe { g() } }")
	var plain, colored bytes.Buffer
	if err := Text(&plain, res, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	if err := Text(&colored, res, fs, Options{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("escape codes without color: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("no escape codes with color: %q", colored.String())
	}
	// цвет только у строки локации
	if !strings.Contains(colored.String(), "\nunsafe { g() }\n\n") {
		t.Errorf("snippet must stay uncolored: %q", colored.String())
	}
}

func TestTextReportReleasedSource(t *testing.T) {
	fs, res := analyze(t, "lib.rs", "fn f() { unsafe { g() } }")
	fs.Release(0)

	var buf bytes.Buffer
	err := Text(&buf, res, fs, Options{})
	if !errors.Is(err, source.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
	var se *SnippetError
	if !errors.As(err, &se) || se.Location != "lib.rs:1:10: 1:24" {
		t.Fatalf("err = %#v", err)
	}
	// заголовок уже записан, а запись региона - нет
	if buf.String() != "Found 1 unsafe blocks or functions.\n\n" {
		t.Errorf("partial entry written: %q", buf.String())
	}
}

func TestTextReportLenient(t *testing.T) {
	fs, res := analyze(t, "lib.rs", "fn f() { unsafe { g() } }")
	fs.Release(0)

	var buf bytes.Buffer
	if err := Text(&buf, res, fs, Options{Lenient: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "lib.rs:1:10: 1:24:\n<source unavailable: ") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestJSONReport(t *testing.T) {
	fs, res := analyze(t, "lib.rs", "unsafe fn f() {}\nfn g() { unsafe { h() } }\n")

	var buf bytes.Buffer
	if err := JSON(&buf, res, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	var rep Report
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if rep.Count != 2 || len(rep.Regions) != 2 {
		t.Fatalf("report = %+v", rep)
	}
	fn, blk := rep.Regions[0], rep.Regions[1]
	if fn.Kind != "fn" || fn.Name != "f" || fn.Snippet != "unsafe fn f() {}" {
		t.Errorf("fn region = %+v", fn)
	}
	if blk.Kind != "block" || blk.StartLine != 2 || blk.StartCol != 10 || blk.Snippet != "unsafe { h() }" {
		t.Errorf("block region = %+v", blk)
	}
	if blk.File != "lib.rs" || blk.Location != "lib.rs:2:10: 2:24" {
		t.Errorf("block location = %q %q", blk.File, blk.Location)
	}
}

func TestJSONReportEmptyHasRegionsArray(t *testing.T) {
	fs, res := analyze(t, "lib.rs", "")
	var buf bytes.Buffer
	if err := JSON(&buf, res, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"regions": []`) {
		t.Fatalf("got %s", buf.String())
	}
}

func TestMsgPackReport(t *testing.T) {
	fs, res := analyze(t, "lib.rs", "fn g() { unsafe { h() } }")

	var buf bytes.Buffer
	if err := MsgPack(&buf, res, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := msgpack.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	regions, ok := decoded["regions"].([]any)
	if !ok || len(regions) != 1 {
		t.Fatalf("regions = %#v", decoded["regions"])
	}
	region := regions[0].(map[string]any)
	if region["snippet"] != "unsafe { h() }" || region["kind"] != "block" {
		t.Errorf("region = %#v", region)
	}
}

// brokenMap отдаёт ошибку на каждый snippet.
type brokenMap struct{ *source.FileSet }

func (brokenMap) Snippet(source.Span) (string, error) {
	return "", source.ErrSourceUnavailable
}

func TestBuildReportStrictAndLenient(t *testing.T) {
	fs, res := analyze(t, "lib.rs", "unsafe fn f() {}")
	sm := brokenMap{fs}

	if _, err := BuildReport(res, sm, Options{}); !errors.Is(err, source.ErrSourceUnavailable) {
		t.Fatalf("strict err = %v", err)
	}
	rep, err := BuildReport(res, sm, Options{Lenient: true})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Regions[0].Error == "" || !strings.HasPrefix(rep.Regions[0].Snippet, "<source unavailable") {
		t.Errorf("lenient region = %+v", rep.Regions[0])
	}
}

func TestBuildDirReport(t *testing.T) {
	fs := source.NewFileSet()
	a := analyzeInto(t, fs, "a.rs", "unsafe fn a() {}\nunsafe fn b() {}\n")
	b := analyzeInto(t, fs, "b.rs", "fn c() {}\n")

	dir, err := BuildDirReport([]FileResult{{File: 0, Result: a}, {File: 1, Result: b}}, fs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if dir.FileCount != 2 || dir.Total != 2 {
		t.Fatalf("dir report = %+v", dir)
	}
	if dir.Files[0].File != "a.rs" || dir.Files[1].File != "b.rs" || dir.Files[1].Count != 0 {
		t.Errorf("files = %+v", dir.Files)
	}
	if dir.Files[0].Regions[1].Location != "a.rs:2:1: 2:17" {
		t.Errorf("location = %q", dir.Files[0].Regions[1].Location)
	}
}
