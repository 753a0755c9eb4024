package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseItem разбирает один item после его внешних атрибутов. Span item'а
// начинается с видимости или первого квалификатора, атрибуты в него не входят.
func (p *Parser) parseItem(attrs []ast.Attr) (ast.ItemID, bool) {
	start := p.peek().Span
	vis, ok := p.parseVisibility()
	if !ok {
		return ast.NoItemID, false
	}
	return p.parseItemKind(start, attrs, vis)
}

func (p *Parser) parseItemKind(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	next := p.nth(1).Kind
	switch p.peek().Kind {
	case token.KwFn, token.KwAsync:
		return p.parseFn(start, attrs, vis)

	case token.KwConst:
		if next == token.Ident || next == token.Underscore {
			return p.parseConst(start, attrs, vis)
		}
		if next == token.KwImpl || next == token.KwTrait {
			p.err(diag.SynModifierNotAllowed, "'const' is not supported before '"+p.nth(1).Text+"'")
			return ast.NoItemID, false
		}
		return p.parseFn(start, attrs, vis)

	case token.KwUnsafe:
		switch {
		case next == token.KwImpl:
			return p.parseImpl(start, attrs, vis)
		case next == token.KwTrait || p.nthWord(1, "auto"):
			return p.parseTrait(start, attrs, vis)
		case next == token.KwMod:
			return p.parseMod(start, attrs, vis)
		case next == token.KwStatic:
			return p.parseStatic(start, attrs, vis)
		case next == token.KwExtern && p.atForeignModAfter(2):
			return p.parseForeignMod(start, attrs, vis)
		}
		return p.parseFn(start, attrs, vis)

	case token.KwExtern:
		switch {
		case next == token.KwCrate:
			return p.parseExternCrate(start, attrs, vis)
		case p.atForeignModAfter(1):
			return p.parseForeignMod(start, attrs, vis)
		}
		return p.parseFn(start, attrs, vis)

	case token.KwStruct:
		return p.parseStruct(start, attrs, vis, ast.ItemStruct)
	case token.KwEnum:
		return p.parseEnum(start, attrs, vis)
	case token.KwType:
		return p.parseTypeAlias(start, attrs, vis)
	case token.KwMod:
		return p.parseMod(start, attrs, vis)
	case token.KwTrait:
		return p.parseTrait(start, attrs, vis)
	case token.KwImpl:
		return p.parseImpl(start, attrs, vis)
	case token.KwUse:
		return p.parseUse(start, attrs, vis)
	case token.KwStatic:
		return p.parseStatic(start, attrs, vis)
	}

	switch {
	case p.atWord("union") && next == token.Ident:
		return p.parseStruct(start, attrs, vis, ast.ItemUnion)
	case p.atWord("auto") && next == token.KwTrait:
		return p.parseTrait(start, attrs, vis)
	case p.atWord("default") && p.atOrAfterDefault():
		if next == token.KwImpl || (next == token.KwUnsafe && p.nthIs(2, token.KwImpl)) {
			return p.parseImpl(start, attrs, vis)
		}
		p.advance() // специализация: `default fn`, `default type`
		return p.parseItemKind(start, attrs, vis)
	case p.atWord("safe") && next == token.KwFn:
		return p.parseFn(start, attrs, vis)
	case p.atWord("safe") && next == token.KwStatic:
		return p.parseStatic(start, attrs, vis)
	case p.atWord("macro_rules") && next == token.Bang:
		return p.parseMacroRules(start, attrs, vis)
	case p.atWord("macro") && next == token.Ident:
		return p.parseMacro2(start, attrs, vis)
	case isPathStart(p.peek().Kind):
		return p.parseItemMacCall(start, attrs, vis)
	}
	p.err(diag.SynUnexpectedTopLevel, "expected item, got \""+p.peek().Text+"\"")
	return ast.NoItemID, false
}

// atForeignModAfter: `extern {` или `extern "C" {`, где extern стоит на позиции n-1.
func (p *Parser) atForeignModAfter(n int) bool {
	k := p.nth(n).Kind
	if k == token.LBrace {
		return true
	}
	return (k == token.StringLit || k == token.RawStringLit) && p.nthIs(n+1, token.LBrace)
}

// parseVisibility: `pub`, `pub(crate)`, `pub(self)`, `pub(super)`, `pub(in path)`.
func (p *Parser) parseVisibility() (ast.Visibility, bool) {
	if !p.at(token.KwPub) {
		return ast.Visibility{}, true
	}
	start := p.advance().Span
	vis := ast.Visibility{Kind: ast.VisPublic}
	if p.at(token.LParen) {
		restricted := p.nthIs(1, token.KwIn) ||
			(p.atPathKeyword(1) && p.nthIs(2, token.RParen))
		if restricted {
			open := p.advance()
			p.eat(token.KwIn)
			path, ok := p.parsePath(pathMod)
			if !ok {
				return vis, false
			}
			if _, ok := p.expectClose(open); !ok {
				return vis, false
			}
			vis.Kind = ast.VisRestricted
			vis.Path = path
		}
	}
	vis.Span = p.spanFrom(start)
	return vis, true
}

func (p *Parser) atPathKeyword(n int) bool {
	switch p.nth(n).Kind {
	case token.KwCrate, token.KwSelf, token.KwSuper:
		return true
	default:
		return false
	}
}

// parseItemList - items до закрывающей скобки open; используется в mod, trait,
// impl и extern-блоках.
func (p *Parser) parseItemList(open token.Token) ([]ast.ItemID, bool) {
	var items []ast.ItemID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			continue
		}
		before := p.pos
		attrs := p.parseOuterAttrs()
		itemID, ok := p.parseItem(attrs)
		if !ok {
			p.resyncItem(before)
			continue
		}
		items = append(items, itemID)
	}
	if _, ok := p.expectClose(open); !ok {
		return items, false
	}
	return items, true
}

// parseItemMacCall: `path! { ... }`, `path!(...);`, `path![...];`.
func (p *Parser) parseItemMacCall(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	path, ok := p.parsePath(pathMod)
	if !ok {
		return ast.NoItemID, false
	}
	if !p.at(token.Bang) {
		p.err(diag.SynUnexpectedTopLevel, "expected item, got path without '!'")
		return ast.NoItemID, false
	}
	mac, ok := p.parseMacCallRest(start, path)
	if !ok {
		return ast.NoItemID, false
	}
	if mac.Delim != ast.MacBrace {
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after macro invocation"); !ok {
			return ast.NoItemID, false
		}
	}
	return p.arenas.Items.NewMacCall(p.spanFrom(start), attrs, vis, mac), true
}

// parseMacroRules: `macro_rules! name { ... }`; тело не разбирается.
func (p *Parser) parseMacroRules(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	p.advance() // macro_rules
	p.advance() // '!'
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	data := ast.MacroRulesItem{Ident: name}
	switch p.peek().Kind {
	case token.LParen:
		data.Delim = ast.MacParen
	case token.LBracket:
		data.Delim = ast.MacBracket
	case token.LBrace:
		data.Delim = ast.MacBrace
	default:
		p.err(diag.SynMacroExpectDelim, "expected macro body, got \""+p.peek().Text+"\"")
		return ast.NoItemID, false
	}
	body, ok := p.skipTokenTree()
	if !ok {
		return ast.NoItemID, false
	}
	data.Body = body
	if data.Delim != ast.MacBrace {
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after macro_rules definition"); !ok {
			return ast.NoItemID, false
		}
	}
	return p.arenas.Items.NewMacroRules(p.spanFrom(start), attrs, vis, data), true
}

// parseMacro2: `macro name(args) { body }` или `macro name { rules }`.
func (p *Parser) parseMacro2(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	p.advance() // macro
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	data := ast.MacroRulesItem{Ident: name, Macro2: true, Delim: ast.MacBrace}
	if p.at(token.LParen) {
		if _, ok := p.skipTokenTree(); !ok {
			return ast.NoItemID, false
		}
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynExpectBlock, "expected '{' to start macro body")
		return ast.NoItemID, false
	}
	body, ok := p.skipTokenTree()
	if !ok {
		return ast.NoItemID, false
	}
	data.Body = body
	return p.arenas.Items.NewMacroRules(p.spanFrom(start), attrs, vis, data), true
}
