package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseTrait: `[unsafe] [auto] trait Name<G>: Bounds where .. { items }`
// и алиас `trait Name<G> = Bounds;`.
func (p *Parser) parseTrait(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	data := ast.TraitItem{}
	if p.eat(token.KwUnsafe) {
		data.Unsafety = ast.Unsafe
	}
	if p.atWord("auto") {
		p.advance()
		data.Auto = true
	}
	p.advance() // trait
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	data.Ident = name
	generics, ok := p.parseGenerics()
	if !ok {
		return ast.NoItemID, false
	}

	if p.eat(token.Assign) {
		bounds, ok := p.parseBounds()
		if !ok {
			return ast.NoItemID, false
		}
		if !p.parseWhereClause(&generics) {
			return ast.NoItemID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after trait alias"); !ok {
			return ast.NoItemID, false
		}
		alias := ast.TraitAliasItem{Ident: name, Generics: generics, Bounds: bounds}
		return p.arenas.Items.NewTraitAlias(p.spanFrom(start), attrs, vis, alias), true
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
	data.Generics = generics

	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' to start trait body, got \""+p.peek().Text+"\"")
	if !ok {
		return ast.NoItemID, false
	}
	p.parseInnerAttrs()
	items, ok := p.parseItemList(open)
	data.Items = items
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewTrait(p.spanFrom(start), attrs, vis, data), true
}

// parseImpl: `[default] [unsafe] impl<G> [const] [!]Trait for Type where .. { items }`
// или inherent `impl<G> Type { items }`.
func (p *Parser) parseImpl(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	data := ast.ImplItem{}
	if p.atWord("default") {
		p.advance()
		data.Default = true
	}
	if p.eat(token.KwUnsafe) {
		data.Unsafety = ast.Unsafe
	}
	p.advance() // impl

	generics := ast.Generics{}
	if p.atOr(token.Lt, token.Shl) && !p.nthIs(1, token.ColonColon) {
		g, ok := p.parseGenerics()
		if !ok {
			return ast.NoItemID, false
		}
		generics = g
	}
	data.Const = p.eat(token.KwConst)
	data.Negative = p.eat(token.Bang)

	ty, ok := p.parseTypeNoPlus()
	if !ok {
		return ast.NoItemID, false
	}
	if p.eat(token.KwFor) {
		tp, isPath := p.arenas.Types.Path(ty)
		if !isPath {
			p.err(diag.SynExpectPathSeg, "expected trait path before 'for' in impl")
			return ast.NoItemID, false
		}
		trait := tp.Path
		data.Trait = &trait
		selfTy, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		data.SelfType = selfTy
	} else {
		data.SelfType = ty
	}
	if !p.parseWhereClause(&generics) {
		return ast.NoItemID, false
	}
	data.Generics = generics

	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' to start impl body, got \""+p.peek().Text+"\"")
	if !ok {
		return ast.NoItemID, false
	}
	p.parseInnerAttrs()
	items, ok := p.parseItemList(open)
	data.Items = items
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewImpl(p.spanFrom(start), attrs, vis, data), true
}
