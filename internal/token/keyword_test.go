package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"fn":     KwFn,
		"unsafe": KwUnsafe,
		"impl":   KwImpl,
		"extern": KwExtern,
		"self":   KwSelf,
		"Self":   KwSelfType,
		"match":  KwMatch,
		"true":   KwTrue,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// слабые ключевые слова остаются идентификаторами
	notKw := []string{
		"union", "auto", "default", "macro_rules", "safe",
		"Unsafe", "FN",
		"u8", "usize", "str",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}
