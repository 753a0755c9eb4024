package token_test

import (
	"testing"

	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.IntLit, token.FloatLit, token.CharLit, token.ByteLit,
		token.StringLit, token.RawStringLit, token.ByteStringLit,
		token.RawByteStringLit, token.CStringLit, token.RawCStringLit,
	}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwTrue, token.Plus, token.Lifetime}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.ShlAssign, token.ShrAssign, token.EqEq, token.BangEq,
		token.AndAnd, token.OrOr, token.ColonColon, token.Arrow, token.FatArrow,
		token.Pound, token.Dollar, token.Tilde, token.Question, token.Underscore,
		token.DotDotDot, token.DotDotEq, token.LParen, token.RBrace,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwUnsafe, token.IntLit, token.EOF}
	for _, k := range non {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct/op", k)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	keywords := []token.Kind{
		token.KwAs, token.KwFn, token.KwUnsafe, token.KwImpl, token.KwTrait,
		token.KwExtern, token.KwMod, token.KwSelfType, token.KwSelf, token.KwYield,
	}
	for _, k := range keywords {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
	if tok(token.Ident).IsKeyword() || tok(token.IntLit).IsKeyword() {
		t.Fatalf("ident/literal must not be keywords")
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.KwUnsafe:   "unsafe",
		token.KwSelfType: "Self",
		token.ShrAssign:  ">>=",
		token.Ident:      "Ident",
		token.StringLit:  "StringLit",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", k, got, want)
		}
	}
}

func TestClosingDelim(t *testing.T) {
	if token.ClosingDelim(token.LBrace) != token.RBrace {
		t.Error("{ must close with }")
	}
	if token.ClosingDelim(token.Ident) != token.Invalid {
		t.Error("ident has no closing delimiter")
	}
	if !tok(token.LBracket).IsOpenDelim() || !tok(token.RParen).IsCloseDelim() {
		t.Error("delimiter predicates are wrong")
	}
}
