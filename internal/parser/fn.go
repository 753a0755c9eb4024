package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseFnHeader читает квалификаторы в порядке Rust:
// `const`, `async`, `unsafe` | `safe`, `extern "abi"`.
func (p *Parser) parseFnHeader() ast.FnHeader {
	var h ast.FnHeader
	h.Const = p.eat(token.KwConst)
	h.Async = p.eat(token.KwAsync)
	switch {
	case p.eat(token.KwUnsafe):
		h.Unsafety = ast.Unsafe
	case p.atWord("safe"):
		p.advance()
		h.Unsafety = ast.Safe
	}
	if p.eat(token.KwExtern) {
		h.Extern = true
		if p.atOr(token.StringLit, token.RawStringLit) {
			h.ABI = p.advance().Text
		}
	}
	return h
}

// parseFn: `[qualifiers] fn name<G>(params) [-> T] [where ..] { body }` или `;`.
func (p *Parser) parseFn(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	fn := ast.FnItem{Header: p.parseFnHeader()}
	if _, ok := p.expect(token.KwFn, diag.SynExpectFnAfterQual, "expected 'fn' after function qualifiers, got \""+p.peek().Text+"\""); !ok {
		return ast.NoItemID, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	fn.Ident = name

	generics, ok := p.parseGenerics()
	if !ok {
		return ast.NoItemID, false
	}
	params, variadic, ok := p.parseFnParams()
	if !ok {
		return ast.NoItemID, false
	}
	fn.Params = params
	fn.Variadic = variadic

	if p.eat(token.Arrow) {
		out, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		fn.Output = out
	}
	if !p.parseWhereClause(&generics) {
		return ast.NoItemID, false
	}
	fn.Generics = generics

	if !p.eat(token.Semicolon) {
		body, ok := p.parseBlock(p.peek().Span, ast.BlockDefault)
		if !ok {
			return ast.NoItemID, false
		}
		fn.Body = body
	}
	return p.arenas.Items.NewFn(p.spanFrom(start), attrs, vis, fn), true
}

// parseFnParams: `(self, a: A, mut b: B, ...)`.
func (p *Parser) parseFnParams() ([]ast.Param, bool, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name, got \""+p.peek().Text+"\"")
	if !ok {
		return nil, false, false
	}
	var params []ast.Param
	variadic := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		attrs := p.parseOuterAttrs()
		start := p.peek().Span
		if p.at(token.DotDotDot) {
			p.advance()
			variadic = true
			p.eat(token.Comma)
			if !p.at(token.RParen) {
				p.err(diag.SynVariadicMustBeLast, "'...' must be the last parameter")
				return nil, false, false
			}
			break
		}

		var param ast.Param
		if p.atSelfParam() {
			param, ok = p.parseSelfParam()
		} else {
			param, ok = p.parseTypedParam()
		}
		if !ok {
			return nil, false, false
		}
		param.Attrs = attrs
		param.Span = p.spanFrom(start)
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return nil, false, false
	}
	return params, variadic, true
}

// atSelfParam: `self`, `mut self`, `&self`, `&mut self`, `&'a self`, `&'a mut self`.
func (p *Parser) atSelfParam() bool {
	isSelf := func(n int) bool {
		return p.nthIs(n, token.KwSelf) && !p.nthIs(n+1, token.ColonColon)
	}
	switch p.peek().Kind {
	case token.KwSelf:
		return isSelf(0)
	case token.KwMut:
		return isSelf(1)
	case token.Amp:
		n := 1
		if p.nthIs(n, token.Lifetime) {
			n++
		}
		if p.nthIs(n, token.KwMut) {
			n++
		}
		return isSelf(n)
	default:
		return false
	}
}

func (p *Parser) parseSelfParam() (ast.Param, bool) {
	start := p.peek().Span
	param := ast.Param{Self: ast.SelfValue}
	if p.eat(token.Amp) {
		param.Self = ast.SelfRef
		if p.at(token.Lifetime) {
			param.Lifetime = p.identFrom(p.advance())
		}
	}
	if p.eat(token.KwMut) {
		param.Mut = ast.Mut
	}
	selfIdent := p.identFrom(p.advance())
	mut := param.Mut
	if param.Self == ast.SelfRef {
		mut = ast.Not
	}
	param.Pat = p.arenas.Pats.NewIdent(p.spanFrom(start), ast.PatIdentData{Mut: mut, Ident: selfIdent})
	if param.Self == ast.SelfValue && p.eat(token.Colon) {
		ty, ok := p.parseType()
		if !ok {
			return param, false
		}
		param.Self = ast.SelfExplicit
		param.Type = ty
	}
	return param, true
}

func (p *Parser) parseTypedParam() (ast.Param, bool) {
	var param ast.Param
	pat, ok := p.parsePatNoTopAlt()
	if !ok {
		return param, false
	}
	param.Pat = pat
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after parameter pattern, got \""+p.peek().Text+"\""); !ok {
		return param, false
	}
	ty, ok := p.parseType()
	if !ok {
		return param, false
	}
	param.Type = ty
	return param, true
}
