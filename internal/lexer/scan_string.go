package lexer

import (
	"unsafescan/internal/diag"
	"unsafescan/internal/token"
)

// scanString читает "..." начиная с открывающей кавычки.
// Перевод строки внутри строки разрешён; escape не валидируется, только пропускается.
func (lx *Lexer) scanString(start Mark, kind token.Kind) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			lx.eatSuffix()
			return lx.emit(kind, start)
		case '\\':
			lx.cursor.Bump()
		}
	}
	return lx.invalid(start, diag.LexUnterminatedString, "unterminated double quote string")
}

// scanRawString читает r#"..."# начиная с первого '#' или кавычки.
func (lx *Lexer) scanRawString(start Mark, kind token.Kind) token.Token {
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if hashes > 255 {
		return lx.invalid(start, diag.LexBadRawString, "too many `#` symbols: raw strings may be delimited by up to 255 `#` symbols")
	}
	if !lx.cursor.Eat('"') {
		return lx.invalid(start, diag.LexBadRawString, "found invalid character; only `#` is allowed in raw string delimitation")
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			lx.eatSuffix()
			return lx.emit(kind, start)
		}
	}
	return lx.invalid(start, diag.LexUnterminatedString, "unterminated raw string")
}

// scanCharOrLifetime различает 'x' (char) и 'a (lifetime/label).
func (lx *Lexer) scanCharOrLifetime() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''

	if lx.cursor.Peek() == '\\' {
		lx.cursor.Reset(start)
		return lx.scanChar(start, token.CharLit)
	}

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.invalid(start, diag.LexUnterminatedChar, "unterminated character literal")
	}
	if r == '\'' {
		lx.cursor.Bump()
		return lx.invalid(start, diag.LexEmptyChar, "empty character literal")
	}
	afterRune := lx.cursor.Mark()
	lx.bumpRune()
	if lx.cursor.Peek() == '\'' {
		lx.cursor.Bump()
		lx.eatSuffix()
		return lx.emit(token.CharLit, start)
	}

	isStart := (r < utf8RuneSelf && isIdentStartByte(byte(r))) || (r >= utf8RuneSelf && isIdentStartRune(r))
	if isStart || (r < utf8RuneSelf && isDec(byte(r))) {
		lx.cursor.Reset(afterRune)
		if lx.cursor.Peek() == 'r' && lx.cursor.PeekAt(1) == '#' {
			lx.cursor.BumpN(2)
		}
		lx.bumpRune()
		lx.eatIdentContinue()
		if lx.cursor.Peek() == '\'' {
			// 'abc' - многосимвольный char
			lx.cursor.Bump()
			return lx.invalid(start, diag.LexUnterminatedChar, "character literal may only contain one codepoint")
		}
		if isStart {
			return lx.emit(token.Lifetime, start)
		}
		return lx.invalid(start, diag.LexUnknownChar, "lifetimes cannot start with a number")
	}

	return lx.invalid(start, diag.LexUnterminatedChar, "unterminated character literal")
}

// scanChar читает 'x' или b'x' начиная с кавычки.
func (lx *Lexer) scanChar(start Mark, kind token.Kind) token.Token {
	lx.cursor.Bump() // '\''
	if lx.cursor.Peek() == '\'' {
		lx.cursor.Bump()
		return lx.invalid(start, diag.LexEmptyChar, "empty character literal")
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '\'':
			lx.cursor.Bump()
			lx.eatSuffix()
			return lx.emit(kind, start)
		case '\\':
			lx.cursor.BumpN(2)
		case '\n':
			return lx.invalid(start, diag.LexUnterminatedChar, "unterminated character literal")
		default:
			lx.bumpRune()
		}
	}
	return lx.invalid(start, diag.LexUnterminatedChar, "unterminated character literal")
}

// eatSuffix съедает суффикс литерала ("foo"bar), что Rust лексит как часть токена.
func (lx *Lexer) eatSuffix() {
	b := lx.cursor.Peek()
	if isIdentStartByte(b) {
		lx.eatIdentContinue()
	}
}
