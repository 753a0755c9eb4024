package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseMacCallRest разбирает `!( ... )`, `![ ... ]` или `!{ ... }` после пути.
// Тело хранится как span; с ExpandMacroArgs аргументы в `()`/`[]`
// дополнительно разбираются как список выражений.
func (p *Parser) parseMacCallRest(start source.Span, path ast.Path) (ast.MacCall, bool) {
	p.advance() // '!'
	mac := ast.MacCall{Path: path}
	switch p.peek().Kind {
	case token.LParen:
		mac.Delim = ast.MacParen
	case token.LBracket:
		mac.Delim = ast.MacBracket
	case token.LBrace:
		mac.Delim = ast.MacBrace
	default:
		p.err(diag.SynMacroExpectDelim, "expected '(', '[' or '{' after macro path, got \""+p.peek().Text+"\"")
		return mac, false
	}
	from := p.pos + 1
	inner, ok := p.skipTokenTree()
	if !ok {
		return mac, false
	}
	mac.Inner = inner
	mac.Span = p.spanFrom(start)
	if p.opts.ExpandMacroArgs && mac.Delim != ast.MacBrace {
		p.expandMacroArgs(&mac, from, p.pos-1)
	}
	return mac, true
}

// expandMacroArgs пробует разобрать токены [from, to) как выражения через `,` или `;`.
// Разбор идёт отдельным парсером над копией токенов и без Reporter: неудача
// оставляет вызов неразвёрнутым и порождает одну info-диагностику.
func (p *Parser) expandMacroArgs(mac *ast.MacCall, from, to int) {
	toks := make([]token.Token, to-from, to-from+1)
	copy(toks, p.toks[from:to])
	closing := p.toks[to].Span
	eof := source.Span{File: closing.File, Start: closing.Start, End: closing.Start}
	toks = append(toks, token.Token{Kind: token.EOF, Span: eof})

	sub := newParser(p.fs, toks, p.arenas, Options{ExpandMacroArgs: true})
	sub.file = p.file
	var args []ast.ExprID
	for !sub.at(token.EOF) {
		e, ok := sub.parseExpr()
		if !ok {
			break
		}
		args = append(args, e)
		if !sub.eat(token.Comma) && !sub.eat(token.Semicolon) {
			break
		}
	}
	if sub.errs != 0 || !sub.at(token.EOF) {
		p.report(diag.SynMacroArgsNotParsed, diag.SevInfo, mac.Span,
			"arguments of macro '"+p.pathString(mac.Path)+"!' are not an expression list; left unexpanded")
		return
	}
	mac.Args = args
	mac.Expanded = true
}

func (p *Parser) pathString(path ast.Path) string {
	s := ""
	if path.Global {
		s = "::"
	}
	for i, seg := range path.Segments {
		if i > 0 {
			s += "::"
		}
		s += p.arenas.Name(seg.Ident.Name)
	}
	return s
}
