package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseConst: `const NAME<G>: T = expr;`; в trait значение может отсутствовать.
func (p *Parser) parseConst(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	p.advance() // const
	name, ok := p.parseIdentOrUnderscore()
	if !ok {
		return ast.NoItemID, false
	}
	data := ast.ConstItem{Ident: name}
	generics, ok := p.parseGenerics()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after const name"); !ok {
		return ast.NoItemID, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	data.Type = ty
	if p.eat(token.Assign) {
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoItemID, false
		}
		data.Value = value
	}
	if !p.parseWhereClause(&generics) {
		return ast.NoItemID, false
	}
	data.Generics = generics
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after const item, got \""+p.peek().Text+"\""); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewConst(p.spanFrom(start), attrs, vis, data), true
}

// parseStatic: `[safe|unsafe] static [mut] NAME: T [= expr];`.
// Квалификатор допустим только внутри extern-блока, но парсер его не проверяет.
func (p *Parser) parseStatic(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	data := ast.StaticItem{}
	switch {
	case p.atWord("safe"):
		p.advance()
		data.Safety = ast.Safe
	case p.at(token.KwUnsafe):
		p.advance()
		data.Safety = ast.Unsafe
	}
	p.advance() // static
	if p.eat(token.KwMut) {
		data.Mut = ast.Mut
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	data.Ident = name
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after static name"); !ok {
		return ast.NoItemID, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	data.Type = ty
	if p.eat(token.Assign) {
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoItemID, false
		}
		data.Value = value
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after static item, got \""+p.peek().Text+"\""); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewStatic(p.spanFrom(start), attrs, vis, data), true
}

// parseTypeAlias: `type Name<G>: Bounds where .. = T;`; в trait тип может отсутствовать.
func (p *Parser) parseTypeAlias(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	p.advance() // type
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	data := ast.TypeAliasItem{Ident: name}
	generics, ok := p.parseGenerics()
	if !ok {
		return ast.NoItemID, false
	}
	if p.eat(token.Colon) {
		bounds, ok := p.parseBounds()
		if !ok {
			return ast.NoItemID, false
		}
		data.Bounds = bounds
	}
	if !p.parseWhereClause(&generics) {
		return ast.NoItemID, false
	}
	if p.eat(token.Assign) {
		ty, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		data.Type = ty
		if !p.parseWhereClause(&generics) {
			return ast.NoItemID, false
		}
	}
	data.Generics = generics
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after type alias, got \""+p.peek().Text+"\""); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewTypeAlias(p.spanFrom(start), attrs, vis, data), true
}
