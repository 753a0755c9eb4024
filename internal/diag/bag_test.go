package diag

import (
	"testing"

	"unsafescan/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(NewError(SynUnexpectedToken, source.Span{Start: uint32(i), End: uint32(i + 1)}, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if !b.Full() || b.Len() != 2 {
		t.Fatalf("bag should be full with 2 items, got %d", b.Len())
	}
	if !b.HasErrors() || b.ErrorCount() != 2 {
		t.Fatalf("expected 2 errors")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	sp := source.Span{File: 0, Start: 5, End: 6}
	b.Add(New(SevWarning, SynMacroArgsNotParsed, sp, "w"))
	b.Add(NewError(SynExpectSemicolon, source.Span{File: 0, Start: 1, End: 2}, "e1"))
	b.Add(NewError(SynUnexpectedToken, sp, "e2"))
	b.Add(NewError(SynUnexpectedToken, sp, "e2 again"))

	b.Sort()
	items := b.Items()
	if items[0].Code != SynExpectSemicolon {
		t.Fatalf("first item should be at offset 1, got %v", items[0].Code)
	}
	// на одном месте ошибка раньше предупреждения
	if items[1].Severity != SevError || items[3].Severity != SevWarning {
		t.Fatalf("severity ordering is wrong: %+v", items)
	}

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("Dedup left %d items, want 3", b.Len())
	}
}

func TestBagMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(LexBadNumber, source.Span{}, "a"))
	other := NewBag(5)
	other.Add(NewError(LexUnknownChar, source.Span{}, "b"))
	other.Add(NewError(LexUnknownChar, source.Span{}, "c"))

	a.Merge(other)
	if a.Len() != 3 || a.Cap() < 3 {
		t.Fatalf("Merge: len=%d cap=%d", a.Len(), a.Cap())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	rep := NewDedupReporter(BagReporter{Bag: bag})

	b := ReportError(rep, IOModuleNotFound, source.Span{Start: 3, End: 9}, "file not found for module `foo`").
		WithNote(source.Span{Start: 0, End: 2}, "to create the module `foo`, create file \"src/foo.rs\"")
	b.Emit()
	b.Emit()
	// дубль через другой builder тоже отфильтрован
	ReportError(rep, IOModuleNotFound, source.Span{Start: 3, End: 9}, "file not found for module `foo`").Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note was lost")
	}
}

func TestDedupReporterCounts(t *testing.T) {
	bag := NewBag(1)
	rep := NewDedupReporter(BagReporter{Bag: bag})
	span := source.Span{File: 1, Start: 4, End: 6}

	rep.Report(SynUnexpectedToken, SevError, span, "x", nil)
	rep.Report(SynUnexpectedToken, SevError, span, "x", nil)
	// тот же текст в другом файле - уже не повтор
	rep.Report(SynUnexpectedToken, SevError, source.Span{File: 2, Start: 4, End: 6}, "x", nil)
	rep.Report(SynUnexpectedToken, SevWarning, span, "x", nil)

	if bag.Len() != 1 {
		t.Fatalf("bag len = %d, want 1", bag.Len())
	}
	if rep.Errors() != 2 || rep.Count(SevWarning) != 1 || rep.Count(SevInfo) != 0 {
		t.Fatalf("counts: errors=%d warnings=%d infos=%d", rep.Errors(), rep.Count(SevWarning), rep.Count(SevInfo))
	}
	if rep.Suppressed() != 1 {
		t.Fatalf("suppressed = %d, want 1", rep.Suppressed())
	}

	var nilRep *DedupReporter
	nilRep.Report(SynUnexpectedToken, SevError, span, "x", nil)
	if nilRep.Errors() != 0 || nilRep.Suppressed() != 0 {
		t.Fatal("nil reporter must count nothing")
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:     "LEX1001",
		SynUnexpectedToken: "SYN2001",
		IOModuleNotFound:   "IO4002",
		UnknownCode:        "E0000",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("ID(%d) = %q, want %q", c, got, want)
		}
	}
	if SynExpectSemicolon.Title() != "Expected semicolon" {
		t.Errorf("unexpected title %q", SynExpectSemicolon.Title())
	}
}

func TestBagFilter(t *testing.T) {
	b := NewBag(4)
	b.Add(New(SevInfo, SynMacroArgsNotParsed, source.Span{Start: 0, End: 1}, "i"))
	b.Add(New(SevWarning, SynDeprecatedSyntax, source.Span{Start: 1, End: 2}, "w"))
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 2, End: 3}, "e"))

	if got := b.Filter(SevWarning).Len(); got != 2 {
		t.Errorf("Filter(warning) = %d items, want 2", got)
	}
	if got := b.Filter(SevError); got.Len() != 1 || got.Cap() != 4 {
		t.Errorf("Filter(error) = %d items cap %d, want 1 and 4", got.Len(), got.Cap())
	}
	if b.Len() != 3 {
		t.Errorf("source bag changed: %d items", b.Len())
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		err  bool
	}{
		{"info", SevInfo, false},
		{"Warning", SevWarning, false},
		{"warn", SevWarning, false},
		{" error ", SevError, false},
		{"fatal", SevInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseSeverity(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
