package token

import (
	"strconv"

	"unsafescan/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine  // /// и //!
	TriviaDocBlock // /** */ и /*! */
	TriviaShebang
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocLine:
		return "DocLine"
	case TriviaDocBlock:
		return "DocBlock"
	case TriviaShebang:
		return "Shebang"
	default:
		return "TriviaKind(" + strconv.Itoa(int(k)) + ")"
	}
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
