package lexer

import (
	"unsafescan/internal/diag"
	"unsafescan/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.emit(token.Invalid, start)
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			lx.bumpRune()
			return lx.invalid(start, diag.LexUnknownChar, "unknown start of token")
		}
		lx.bumpRune()
	}
	lx.eatIdentContinue()

	tok := lx.emit(token.Ident, start)
	if tok.Span.Len() > maxTokenLength {
		tok.Kind = token.Invalid
		lx.errLex(diag.LexTokenTooLong, tok.Span, "identifier is too long")
		return tok
	}
	if tok.Text == "_" {
		tok.Kind = token.Underscore
		return tok
	}
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

func (lx *Lexer) eatIdentContinue() {
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}

// scanPrefixed распознаёт литералы и raw-идентификаторы с буквенным префиксом.
// Возвращает false, если впереди обычный идентификатор.
func (lx *Lexer) scanPrefixed() (token.Token, bool) {
	start := lx.cursor.Mark()
	b0 := lx.cursor.Peek()
	b1 := lx.cursor.PeekAt(1)
	b2 := lx.cursor.PeekAt(2)

	switch b0 {
	case 'b':
		switch {
		case b1 == '\'':
			lx.cursor.Bump()
			return lx.scanChar(start, token.ByteLit), true
		case b1 == '"':
			lx.cursor.Bump()
			return lx.scanString(start, token.ByteStringLit), true
		case b1 == 'r' && (b2 == '"' || b2 == '#'):
			lx.cursor.BumpN(2)
			return lx.scanRawString(start, token.RawByteStringLit), true
		}
	case 'c':
		switch {
		case b1 == '"':
			lx.cursor.Bump()
			return lx.scanString(start, token.CStringLit), true
		case b1 == 'r' && (b2 == '"' || b2 == '#'):
			lx.cursor.BumpN(2)
			return lx.scanRawString(start, token.RawCStringLit), true
		}
	case 'r':
		switch {
		case b1 == '"':
			lx.cursor.Bump()
			return lx.scanRawString(start, token.RawStringLit), true
		case b1 == '#' && (b2 == '"' || b2 == '#'):
			lx.cursor.Bump()
			return lx.scanRawString(start, token.RawStringLit), true
		case b1 == '#' && (isIdentStartByte(b2) || b2 >= utf8RuneSelf):
			// r#ident: ключевое слово как идентификатор
			lx.cursor.BumpN(2)
			lx.eatIdentContinue()
			return lx.emit(token.Ident, start), true
		}
	}
	return token.Token{}, false
}
