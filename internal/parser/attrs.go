package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseOuterAttrs собирает `#[...]`. Doc-комментарии остаются trivia.
func (p *Parser) parseOuterAttrs() []ast.Attr {
	var attrs []ast.Attr
	for p.at(token.Pound) && p.nthIs(1, token.LBracket) {
		if a, ok := p.parseAttr(ast.AttrOuter); ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// parseInnerAttrs собирает `#![...]` в начале файла, модуля, блока или impl.
func (p *Parser) parseInnerAttrs() []ast.Attr {
	var attrs []ast.Attr
	for p.at(token.Pound) && p.nthIs(1, token.Bang) && p.nthIs(2, token.LBracket) {
		if a, ok := p.parseAttr(ast.AttrInner); ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

func (p *Parser) parseAttr(style ast.AttrStyle) (ast.Attr, bool) {
	start := p.advance().Span // '#'
	if style == ast.AttrInner {
		p.advance() // '!'
	}
	open, _ := p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '['")
	attr := ast.Attr{Style: style}

	if p.at(token.KwUnsafe) && p.nthIs(1, token.LParen) {
		p.advance()
		inner := p.advance()
		attr.Unsafe = true
		if !p.parseAttrMeta(&attr) {
			p.skipUntilClose(open)
			return attr, false
		}
		if _, ok := p.expectClose(inner); !ok {
			p.skipUntilClose(open)
			return attr, false
		}
	} else if !p.parseAttrMeta(&attr) {
		p.skipUntilClose(open)
		return attr, false
	}

	if _, ok := p.expectClose(open); !ok {
		p.skipUntilClose(open)
		return attr, false
	}
	attr.Span = p.spanFrom(start)
	return attr, true
}

// parseAttrMeta: `path`, `path(tokens)`, `path = expr`.
func (p *Parser) parseAttrMeta(attr *ast.Attr) bool {
	path, ok := p.parsePath(pathMod)
	if !ok {
		return false
	}
	attr.Path = path
	switch {
	case p.peek().IsOpenDelim():
		inner, ok := p.skipTokenTree()
		if !ok {
			return false
		}
		attr.ArgsKind = ast.AttrArgsDelimited
		attr.Args = inner
	case p.at(token.Assign):
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return false
		}
		attr.ArgsKind = ast.AttrArgsEq
		attr.Value = value
	}
	return true
}

// skipTokenTree съедает сбалансированное дерево токенов, начиная с открывающего
// разделителя, и возвращает span содержимого между разделителями.
func (p *Parser) skipTokenTree() (source.Span, bool) {
	open := p.advance()
	stack := []token.Token{open}
	innerStart := open.Span.End
	for len(stack) > 0 {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF:
			top := stack[len(stack)-1]
			p.reportWithNotes(diag.SynUnclosedDelimiter, diag.SevError, p.getDiagnosticSpan(),
				"unclosed delimiter", []diag.Note{{Span: top.Span, Msg: "opened here"}})
			return source.Span{}, false
		case tok.IsOpenDelim():
			stack = append(stack, p.advance())
		case tok.IsCloseDelim():
			top := stack[len(stack)-1]
			if tok.Kind != token.ClosingDelim(top.Kind) {
				p.reportWithNotes(diag.SynUnclosedDelimiter, diag.SevError, tok.Span,
					"mismatched closing delimiter \""+tok.Text+"\"", []diag.Note{{Span: top.Span, Msg: "unclosed delimiter opened here"}})
				return source.Span{}, false
			}
			stack = stack[:len(stack)-1]
			closeTok := p.advance()
			if len(stack) == 0 {
				return source.Span{File: open.Span.File, Start: innerStart, End: closeTok.Span.Start}, true
			}
		default:
			p.advance()
		}
	}
	return source.Span{}, false
}

// skipTokenOrTree съедает один токен или целое дерево, если токен открывающий.
// Закрывающий разделитель без пары съедается как обычный токен.
func (p *Parser) skipTokenOrTree() {
	if p.peek().IsOpenDelim() {
		before := p.pos
		if _, ok := p.skipTokenTree(); !ok && p.pos == before {
			p.advance()
		}
		return
	}
	p.advance()
}

// skipUntilClose - восстановление внутри группы: прокручиваем до парного
// закрывающего разделителя для open и съедаем его.
func (p *Parser) skipUntilClose(open token.Token) {
	closeKind := token.ClosingDelim(open.Kind)
	for !p.at(token.EOF) {
		if p.at(closeKind) {
			p.advance()
			return
		}
		if p.peek().IsCloseDelim() {
			return
		}
		p.skipTokenOrTree()
	}
}
