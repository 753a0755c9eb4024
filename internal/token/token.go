package token

import (
	"unsafescan/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, character, or string literal.
// `true` and `false` are keywords and are not included.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, CharLit, ByteLit, StringLit, RawStringLit,
		ByteStringLit, RawByteStringLit, CStringLit, RawCStringLit:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= RBrace
}

// IsKeyword reports whether the token is a strict keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsOpenDelim reports whether the token opens a delimited group.
func (t Token) IsOpenDelim() bool {
	return t.Kind == LParen || t.Kind == LBracket || t.Kind == LBrace
}

// IsCloseDelim reports whether the token closes a delimited group.
func (t Token) IsCloseDelim() bool {
	return t.Kind == RParen || t.Kind == RBracket || t.Kind == RBrace
}

// ClosingDelim returns the closing kind for an opening delimiter, or Invalid.
func ClosingDelim(open Kind) Kind {
	switch open {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	default:
		return Invalid
	}
}
