package lexer

import (
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
)

// maxTokenLength ограничивает длину идентификаторов и чисел.
// Строковые литералы не ограничены.
const maxTokenLength = 4096

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
