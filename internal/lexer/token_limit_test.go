package lexer

import (
	"strings"
	"testing"

	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

func TestTokenTooLongTriggersDiagnostic(t *testing.T) {
	content := strings.Repeat("a", maxTokenLength+1)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("long.rs", []byte(content)))

	bag := diag.NewBag(4)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %+v", bag.Items())
	}
}

func TestTokenAtLimitIsAccepted(t *testing.T) {
	content := strings.Repeat("b", maxTokenLength)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("limit.rs", []byte(content)))

	bag := diag.NewBag(4)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})
	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("expected ident at the limit, got %v", tok.Kind)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestLongStringIsNotLimited(t *testing.T) {
	content := `"` + strings.Repeat("s", maxTokenLength*2) + `"`
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("str.rs", []byte(content)))
	lx := New(file, Options{})
	if tok := lx.Next(); tok.Kind != token.StringLit {
		t.Fatalf("expected string literal, got %v", tok.Kind)
	}
}
