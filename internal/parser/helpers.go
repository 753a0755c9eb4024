package parser

import (
	"slices"

	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// advance - съедает текущий токен и обновляет lastSpan. EOF не съедается.
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// spanFrom - от начала start до конца последнего съеденного токена.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

// splitFirst отрезает первый символ составного токена (`>>`, `&&`, `||`, `<<`):
// возвращает его как отдельный токен first, а в потоке оставляет rest.
func (p *Parser) splitFirst(first, rest token.Kind) token.Token {
	tok := p.toks[p.pos]
	head := token.Token{
		Kind:    first,
		Span:    source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start + 1},
		Text:    tok.Text[:1],
		Leading: tok.Leading,
	}
	p.toks[p.pos] = token.Token{
		Kind: rest,
		Span: source.Span{File: tok.Span.File, Start: tok.Span.Start + 1, End: tok.Span.End},
		Text: tok.Text[1:],
	}
	p.lastSpan = head.Span
	return head
}

// eatGt закрывает список generic-аргументов, расщепляя `>>`, `>=` и `>>=`.
func (p *Parser) eatGt() bool {
	switch p.peek().Kind {
	case token.Gt:
		p.advance()
	case token.Shr:
		p.splitFirst(token.Gt, token.Gt)
	case token.GtEq:
		p.splitFirst(token.Gt, token.Assign)
	case token.ShrAssign:
		p.splitFirst(token.Gt, token.GtEq)
	default:
		return false
	}
	return true
}

func (p *Parser) atGt() bool {
	return p.atOr(token.Gt, token.Shr, token.GtEq, token.ShrAssign)
}

// eatLt открывает generic-аргументы или qualified path, расщепляя `<<`.
func (p *Parser) eatLt() bool {
	switch p.peek().Kind {
	case token.Lt:
		p.advance()
	case token.Shl:
		p.splitFirst(token.Lt, token.Lt)
	default:
		return false
	}
	return true
}

// eatAmp съедает один `&`, расщепляя `&&`.
func (p *Parser) eatAmp() bool {
	switch p.peek().Kind {
	case token.Amp:
		p.advance()
	case token.AndAnd:
		p.splitFirst(token.Amp, token.Amp)
	default:
		return false
	}
	return true
}

// eatPipe съедает один `|`, расщепляя `||`.
func (p *Parser) eatPipe() bool {
	switch p.peek().Kind {
	case token.Pipe:
		p.advance()
	case token.OrOr:
		p.splitFirst(token.Pipe, token.Pipe)
	default:
		return false
	}
	return true
}

// splitFloatField расщепляет `0.1` после точки на поле `0`, точку и `1`,
// чтобы `x.0.1` разбиралось как два доступа к полям кортежа.
func (p *Parser) splitFloatField() (token.Token, bool) {
	tok := p.toks[p.pos]
	dot := -1
	for i := 0; i < len(tok.Text); i++ {
		c := tok.Text[i]
		if c == '.' {
			if dot >= 0 {
				return tok, false
			}
			dot = i
			continue
		}
		if c < '0' || c > '9' {
			return tok, false
		}
	}
	if dot <= 0 || dot == len(tok.Text)-1 {
		return tok, false
	}
	off := tok.Span.Start + uint32(dot)
	head := token.Token{Kind: token.IntLit, Span: source.Span{File: tok.Span.File, Start: tok.Span.Start, End: off}, Text: tok.Text[:dot]}
	dotTok := token.Token{Kind: token.Dot, Span: source.Span{File: tok.Span.File, Start: off, End: off + 1}, Text: "."}
	tail := token.Token{Kind: token.IntLit, Span: source.Span{File: tok.Span.File, Start: off + 1, End: tok.Span.End}, Text: tok.Text[dot+1:]}
	p.toks[p.pos] = tail
	p.toks = slices.Insert(p.toks, p.pos, dotTok)
	p.lastSpan = head.Span
	return head, true
}

// getDiagnosticSpan - возвращает лучший span для диагностики.
// На EOF используем позицию сразу после последнего съеденного токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.ZeroAt()
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// expectClose ожидает закрывающий разделитель; код ошибки выбирается по его виду,
// а заметка указывает на открывающий.
func (p *Parser) expectClose(open token.Token) (token.Token, bool) {
	closeKind := token.ClosingDelim(open.Kind)
	if p.at(closeKind) {
		return p.advance(), true
	}
	var code diag.Code
	var msg string
	switch closeKind {
	case token.RParen:
		code, msg = diag.SynUnclosedParen, "expected ')'"
	case token.RBracket:
		code, msg = diag.SynUnclosedBracket, "expected ']'"
	default:
		code, msg = diag.SynUnclosedBrace, "expected '}'"
	}
	if !p.at(token.EOF) {
		msg += ", got \"" + p.peek().Text + "\""
	}
	p.reportWithNotes(code, diag.SevError, p.getDiagnosticSpan(), msg, []diag.Note{
		{Span: open.Span, Msg: "unclosed delimiter opened here"},
	})
	return token.Token{Kind: token.Invalid, Span: p.getDiagnosticSpan()}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

// репортует warning и передает текущий спан
func (p *Parser) warn(code diag.Code, msg string) bool {
	return p.report(code, diag.SevWarning, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	return p.reportWithNotes(code, sev, sp, msg, nil)
}

func (p *Parser) reportWithNotes(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) bool {
	if sev == diag.SevError {
		p.errs++
	}
	if p.opts.Reporter == nil {
		return false // нет reporter - ничего не записали
	}
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	p.opts.Reporter.Report(code, sev, sp, msg, notes)
	return true
}
