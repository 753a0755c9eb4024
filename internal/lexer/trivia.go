package lexer

import (
	"unsafescan/internal/diag"
	"unsafescan/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - пробелы, '\t' и '\r' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... до \n -> TriviaLineComment, ///... и //!... -> TriviaDocLine
//   - /* ... */ -> TriviaBlockComment (с вложенностью), /** */ и /*! */ -> TriviaDocBlock
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if isSpaceByte(b) || lx.atUnicodeSpace() {
			for isSpaceByte(lx.cursor.Peek()) || lx.atUnicodeSpace() {
				lx.bumpRune()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}
		break
	}
}

func (lx *Lexer) atUnicodeSpace() bool {
	if lx.cursor.Peek() < utf8RuneSelf {
		return false
	}
	r, _ := lx.peekRune()
	return isSpaceRune(r)
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b1, b2 := lx.cursor.PeekAt(1), lx.cursor.PeekAt(2)

	switch b1 {
	case '/':
		// "///x" - doc, "////" - обычный комментарий, "//!" - inner doc
		kind := token.TriviaLineComment
		if (b2 == '/' && lx.cursor.PeekAt(3) != '/') || b2 == '!' {
			kind = token.TriviaDocLine
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
		return true

	case '*':
		kind := token.TriviaBlockComment
		b3 := lx.cursor.PeekAt(3)
		if (b2 == '*' && b3 != '*' && b3 != '/') || b2 == '!' {
			kind = token.TriviaDocBlock
		}
		lx.cursor.BumpN(2)
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			switch {
			case lx.try2('/', '*'):
				depth++
			case lx.try2('*', '/'):
				depth--
			default:
				lx.cursor.Bump()
			}
		}
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(kind, start)
		return true

	default:
		// не комментарий - пусть сканируется как оператор '/'
		return false
	}
}

// scanShebang пропускает `#!...` в начале файла, если это не `#![inner_attr]`.
func (lx *Lexer) scanShebang() {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '#' || b1 != '!' {
		return
	}
	i := uint32(2)
	for isSpaceByte(lx.cursor.PeekAt(i)) || lx.cursor.PeekAt(i) == '\n' {
		i++
	}
	if lx.cursor.PeekAt(i) == '[' {
		return
	}
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	lx.pushTrivia(token.TriviaShebang, start)
}
