package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 9}, Span{File: 1, Start: 2, End: 9}},
		{"nested", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 4}, Span{File: 1, Start: 0, End: 10}},
		{"other file", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 0, Start: 10, End: 50}
	if !outer.Contains(Span{File: 0, Start: 10, End: 50}) {
		t.Error("span should contain itself")
	}
	if !outer.Contains(Span{File: 0, Start: 20, End: 30}) {
		t.Error("expected inner span to be contained")
	}
	if outer.Contains(Span{File: 0, Start: 40, End: 60}) {
		t.Error("overlapping span is not contained")
	}
	if outer.Contains(Span{File: 1, Start: 20, End: 30}) {
		t.Error("span from another file is not contained")
	}
}

func TestSpanZeroAt(t *testing.T) {
	s := Span{File: 3, Start: 5, End: 9}
	z := s.ZeroAt()
	if !z.Empty() || z.Start != 9 || z.File != 3 {
		t.Errorf("ZeroAt = %v", z)
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d", s.Len())
	}
}
