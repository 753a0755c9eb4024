package lexer

import (
	"unsafescan/internal/diag"
	"unsafescan/internal/token"
)

// Поддержка: 123, 1_000, 0b.., 0o.., 0x.., 1.0, 1e-3, 2.5E+10, суффиксы (u8, i64, f32, usize).
// Суффикс остаётся в Token.Text. `1.` - float, но `1..2` и `1.foo` - нет.
// В `x.0.1` получается FloatLit `0.1`, его расщепляет парсер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		case 'o':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'x':
			digit = isHex
		}
		if digit != nil {
			lx.cursor.BumpN(2)
			n := 0
			for {
				b := lx.cursor.Peek()
				if b == '_' {
					lx.cursor.Bump()
					continue
				}
				if !digit(b) {
					break
				}
				lx.cursor.Bump()
				n++
			}
			if n == 0 {
				lx.eatIdentContinue()
				return lx.invalid(start, diag.LexBadNumber, "no valid digits found for number")
			}
			// для 0b/0o десятичные цифры после - ошибка
			if isDec(lx.cursor.Peek()) {
				lx.eatIdentContinue()
				return lx.invalid(start, diag.LexBadNumber, "invalid digit for a base literal")
			}
			lx.eatIdentContinue()
			return lx.finishNumber(start, kind)
		}
	}

	lx.eatDecDigits()

	// дробная часть
	if lx.cursor.Peek() == '.' {
		next := lx.cursor.PeekAt(1)
		notFloat := next == '.' || isIdentStartByte(next) || next >= utf8RuneSelf
		if !notFloat {
			lx.cursor.Bump() // '.'
			kind = token.FloatLit
			if isDec(lx.cursor.Peek()) {
				lx.eatDecDigits()
			}
		}
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		for lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			lx.eatDecDigits()
		} else {
			// не экспонента: например `1else` или суффикс, начинающийся с e
			lx.cursor.Reset(mark)
		}
	}

	if isIdentStartByte(lx.cursor.Peek()) {
		suffixStart := lx.cursor.Off
		lx.eatIdentContinue()
		if suffix := string(lx.file.Content[suffixStart:lx.cursor.Off]); suffix == "f32" || suffix == "f64" {
			kind = token.FloatLit
		}
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) eatDecDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	tok := lx.emit(kind, start)
	if tok.Span.Len() > maxTokenLength {
		tok.Kind = token.Invalid
		lx.errLex(diag.LexTokenTooLong, tok.Span, "number literal is too long")
	}
	return tok
}
