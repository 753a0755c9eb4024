package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseMod: `[unsafe] mod name;` или `mod name { items }`.
// Внешний модуль подгружается драйвером; здесь остаётся только объявление.
func (p *Parser) parseMod(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	data := ast.ModItem{}
	if p.eat(token.KwUnsafe) {
		data.Unsafety = ast.Unsafe
	}
	p.advance() // mod
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	data.Ident = name
	if p.eat(token.Semicolon) {
		return p.arenas.Items.NewMod(p.spanFrom(start), attrs, vis, data), true
	}
	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' or ';' after module name, got \""+p.peek().Text+"\"")
	if !ok {
		return ast.NoItemID, false
	}
	data.Inline = true
	data.InnerAttrs = p.parseInnerAttrs()
	items, ok := p.parseItemList(open)
	data.Items = items
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewMod(p.spanFrom(start), attrs, vis, data), true
}

// parseForeignMod: `[unsafe] extern ["abi"] { foreign items }`.
func (p *Parser) parseForeignMod(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	data := ast.ForeignModItem{}
	if p.eat(token.KwUnsafe) {
		data.Unsafety = ast.Unsafe
	}
	p.advance() // extern
	if p.atOr(token.StringLit, token.RawStringLit) {
		data.ABI = p.advance().Text
	}
	open := p.advance() // '{'
	data.InnerAttrs = p.parseInnerAttrs()
	items, ok := p.parseItemList(open)
	data.Items = items
	if !ok {
		return ast.NoItemID, false
	}
	for _, id := range items {
		switch p.arenas.Items.Get(id).Kind {
		case ast.ItemFn, ast.ItemStatic, ast.ItemTypeAlias, ast.ItemMacCall:
		default:
			p.report(diag.SynIllegalItemInExtern, diag.SevError, p.arenas.Items.Get(id).Span, "item not allowed in extern block")
		}
	}
	return p.arenas.Items.NewForeignMod(p.spanFrom(start), attrs, vis, data), true
}

// parseExternCrate: `extern crate name [as alias];`.
func (p *Parser) parseExternCrate(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	p.advance() // extern
	p.advance() // crate
	data := ast.ExternCrateItem{}
	if p.at(token.KwSelf) {
		data.Ident = p.identFrom(p.advance())
	} else {
		name, ok := p.parseIdent()
		if !ok {
			return ast.NoItemID, false
		}
		data.Ident = name
	}
	if p.eat(token.KwAs) {
		rename, ok := p.parseIdentOrUnderscore()
		if !ok {
			return ast.NoItemID, false
		}
		data.Rename = rename
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after extern crate"); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewExternCrate(p.spanFrom(start), attrs, vis, data), true
}

func (p *Parser) parseUse(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	p.advance() // use
	tree, ok := p.parseUseTree()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after use declaration, got \""+p.peek().Text+"\""); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewUse(p.spanFrom(start), attrs, vis, ast.UseItem{Tree: tree}), true
}

// parseUseTree: `a::b`, `a::b as c`, `a::*`, `a::{b, c::d}`, `::{..}`, `*`.
func (p *Parser) parseUseTree() (ast.UseTree, bool) {
	start := p.peek().Span
	tree := ast.UseTree{Kind: ast.UseSimple}

	if p.at(token.ColonColon) && (p.nthIs(1, token.LBrace) || p.nthIs(1, token.Star)) {
		p.advance()
		tree.Prefix.Global = true
	} else if !p.atOr(token.LBrace, token.Star) {
		path, ok := p.parsePath(pathMod)
		if !ok {
			return tree, false
		}
		tree.Prefix = path
		if !p.eat(token.ColonColon) {
			if p.eat(token.KwAs) {
				rename, ok := p.parseIdentOrUnderscore()
				if !ok {
					return tree, false
				}
				tree.Rename = rename
			}
			tree.Span = p.spanFrom(start)
			return tree, true
		}
	}

	switch {
	case p.eat(token.Star):
		tree.Kind = ast.UseGlob
	case p.at(token.LBrace):
		open := p.advance()
		tree.Kind = ast.UseNested
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			sub, ok := p.parseUseTree()
			if !ok {
				return tree, false
			}
			tree.Nested = append(tree.Nested, sub)
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expectClose(open); !ok {
			return tree, false
		}
	default:
		p.err(diag.SynEmptyUseGroup, "expected '{' or '*' after '::' in use path, got \""+p.peek().Text+"\"")
		return tree, false
	}
	tree.Span = p.spanFrom(start)
	return tree, true
}
