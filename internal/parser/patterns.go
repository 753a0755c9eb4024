package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parsePat - паттерн с альтернативами верхнего уровня (`A | B`), ведущий `|` допустим.
func (p *Parser) parsePat() (ast.PatID, bool) {
	start := p.peek().Span
	leading := p.at(token.Pipe)
	if leading {
		p.advance()
	}
	first, ok := p.parsePatNoTopAlt()
	if !ok {
		return ast.NoPatID, false
	}
	if !p.at(token.Pipe) {
		if leading {
			return p.arenas.Pats.NewList(ast.PatOr, p.spanFrom(start), []ast.PatID{first}), true
		}
		return first, true
	}
	alts := []ast.PatID{first}
	for p.eat(token.Pipe) {
		alt, ok := p.parsePatNoTopAlt()
		if !ok {
			return ast.NoPatID, false
		}
		alts = append(alts, alt)
	}
	return p.arenas.Pats.NewList(ast.PatOr, p.spanFrom(start), alts), true
}

func (p *Parser) parsePatNoTopAlt() (ast.PatID, bool) {
	start := p.peek().Span
	pats := p.arenas.Pats

	switch p.peek().Kind {
	case token.Underscore:
		p.advance()
		return pats.NewSimple(ast.PatWild, start), true

	case token.DotDot:
		p.advance()
		if p.atRangeEndStart() {
			end, ok := p.parseRangeEnd()
			if !ok {
				return ast.NoPatID, false
			}
			return pats.NewRange(p.spanFrom(start), ast.NoExprID, end, false), true
		}
		return pats.NewSimple(ast.PatRest, start), true

	case token.DotDotEq:
		p.advance()
		end, ok := p.parseRangeEnd()
		if !ok {
			return ast.NoPatID, false
		}
		return pats.NewRange(p.spanFrom(start), ast.NoExprID, end, true), true

	case token.Amp, token.AndAnd:
		p.eatAmp()
		mut := ast.Not
		if p.eat(token.KwMut) {
			mut = ast.Mut
		}
		inner, ok := p.parsePatNoTopAlt()
		if !ok {
			return ast.NoPatID, false
		}
		return pats.NewInner(ast.PatRef, p.spanFrom(start), mut, inner), true

	case token.LParen:
		open := p.advance()
		elems, trailing, ok := p.parsePatList(open)
		if !ok {
			return ast.NoPatID, false
		}
		if len(elems) == 1 && !trailing {
			if inner := pats.Get(elems[0]); inner != nil && inner.Kind != ast.PatRest {
				return pats.NewInner(ast.PatParen, p.spanFrom(start), ast.Not, elems[0]), true
			}
		}
		return pats.NewList(ast.PatTuple, p.spanFrom(start), elems), true

	case token.LBracket:
		open := p.advance()
		elems, _, ok := p.parsePatList(open)
		if !ok {
			return ast.NoPatID, false
		}
		return pats.NewList(ast.PatSlice, p.spanFrom(start), elems), true

	case token.KwRef, token.KwMut:
		return p.parseIdentPat(start)

	case token.KwConst:
		if !p.nthIs(1, token.LBrace) {
			break
		}
		e, ok := p.parseConstBlockExpr()
		if !ok {
			return ast.NoPatID, false
		}
		return pats.NewExpr(p.spanFrom(start), e), true

	case token.Minus, token.KwTrue, token.KwFalse:
		return p.parseLitPat(start)
	}

	if p.peek().IsLiteral() {
		return p.parseLitPat(start)
	}

	if p.atWord("box") && p.canBeginPatAfterBox() {
		p.advance()
		inner, ok := p.parsePatNoTopAlt()
		if !ok {
			return ast.NoPatID, false
		}
		return pats.NewInner(ast.PatBox, p.spanFrom(start), ast.Not, inner), true
	}

	if !isPathStart(p.peek().Kind) {
		p.err(diag.SynExpectPattern, "expected pattern, got \""+p.peek().Text+"\"")
		return ast.NoPatID, false
	}

	// просто имя - привязка, если дальше не идёт путь/конструктор/макрос/диапазон
	if p.atOr(token.Ident, token.KwSelf) && !p.nthPathContinues(1) {
		return p.parseIdentPat(start)
	}

	path, ok := p.parsePath(pathExpr)
	if !ok {
		return ast.NoPatID, false
	}
	switch p.peek().Kind {
	case token.Bang:
		mac, ok := p.parseMacCallRest(start, path)
		if !ok {
			return ast.NoPatID, false
		}
		return pats.NewMacCall(p.spanFrom(start), mac), true
	case token.LParen:
		open := p.advance()
		elems, _, ok := p.parsePatList(open)
		if !ok {
			return ast.NoPatID, false
		}
		return pats.NewTupleStruct(p.spanFrom(start), path, elems), true
	case token.LBrace:
		return p.parseStructPat(start, path)
	case token.DotDot, token.DotDotEq, token.DotDotDot:
		lo := p.arenas.Exprs.NewPath(path.Span, path)
		return p.parseRangePatRest(start, lo)
	}
	return pats.NewPath(p.spanFrom(start), path), true
}

// nthPathContinues: за именем идёт `::`, `(`, `{`, `!`, `<` (qself не бывает) или диапазон.
func (p *Parser) nthPathContinues(n int) bool {
	switch p.nth(n).Kind {
	case token.ColonColon, token.LParen, token.LBrace, token.Bang,
		token.DotDot, token.DotDotEq, token.DotDotDot:
		return true
	default:
		return false
	}
}

func (p *Parser) canBeginPatAfterBox() bool {
	switch p.nth(1).Kind {
	case token.Ident, token.LParen, token.LBracket, token.Amp, token.KwRef, token.KwMut, token.Underscore:
		return true
	default:
		return false
	}
}

// parseIdentPat: `ref mut name @ sub`.
func (p *Parser) parseIdentPat(start source.Span) (ast.PatID, bool) {
	data := ast.PatIdentData{}
	if p.eat(token.KwRef) {
		data.ByRef = true
	}
	if p.eat(token.KwMut) {
		data.Mut = ast.Mut
	}
	if p.at(token.KwSelf) {
		data.Ident = p.identFrom(p.advance())
	} else {
		name, ok := p.parseIdent()
		if !ok {
			return ast.NoPatID, false
		}
		data.Ident = name
	}
	if p.eat(token.At) {
		sub, ok := p.parsePatNoTopAlt()
		if !ok {
			return ast.NoPatID, false
		}
		data.Sub = sub
	}
	return p.arenas.Pats.NewIdent(p.spanFrom(start), data), true
}

func (p *Parser) parseLitPat(start source.Span) (ast.PatID, bool) {
	lit, ok := p.parseRangeEnd()
	if !ok {
		return ast.NoPatID, false
	}
	if p.atOr(token.DotDot, token.DotDotEq, token.DotDotDot) {
		return p.parseRangePatRest(start, lit)
	}
	return p.arenas.Pats.NewExpr(p.spanFrom(start), lit), true
}

// parseRangePatRest продолжает `lo..hi`, `lo..=hi`, `lo...hi` и `lo..`.
func (p *Parser) parseRangePatRest(start source.Span, lo ast.ExprID) (ast.PatID, bool) {
	inclusive := !p.at(token.DotDot)
	if p.at(token.DotDotDot) {
		p.warn(diag.SynDeprecatedSyntax, "'...' range patterns are deprecated, use '..='")
	}
	p.advance()
	end := ast.NoExprID
	if inclusive || p.atRangeEndStart() {
		e, ok := p.parseRangeEnd()
		if !ok {
			return ast.NoPatID, false
		}
		end = e
	}
	return p.arenas.Pats.NewRange(p.spanFrom(start), lo, end, inclusive), true
}

func (p *Parser) atRangeEndStart() bool {
	switch p.peek().Kind {
	case token.Minus, token.KwTrue, token.KwFalse:
		return true
	default:
		return p.peek().IsLiteral() || isPathStart(p.peek().Kind)
	}
}

// parseRangeEnd: литерал, `-литерал` или путь.
func (p *Parser) parseRangeEnd() (ast.ExprID, bool) {
	start := p.peek().Span
	if p.at(token.Minus) {
		p.advance()
		lit, ok := p.parseLiteral()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnary(p.spanFrom(start), ast.UnaryNeg, lit), true
	}
	if isPathStart(p.peek().Kind) {
		return p.parsePathExpr()
	}
	return p.parseLiteral()
}

// parsePatList - элементы кортежа, tuple struct или среза до закрывающего open.
func (p *Parser) parsePatList(open token.Token) ([]ast.PatID, bool, bool) {
	var elems []ast.PatID
	trailing := false
	closeKind := token.ClosingDelim(open.Kind)
	for !p.at(closeKind) && !p.at(token.EOF) {
		p.parseOuterAttrs()
		pat, ok := p.parsePat()
		if !ok {
			return elems, false, false
		}
		elems = append(elems, pat)
		trailing = p.eat(token.Comma)
		if !trailing {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return elems, trailing, false
	}
	return elems, trailing, true
}

func (p *Parser) parseStructPat(start source.Span, path ast.Path) (ast.PatID, bool) {
	open := p.advance()
	var fields []ast.PatField
	rest := false
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fstart := p.peek().Span
		attrs := p.parseOuterAttrs()
		if p.at(token.DotDot) {
			p.advance()
			rest = true
			break
		}
		field := ast.PatField{Attrs: attrs}
		switch {
		case (p.at(token.Ident) || p.at(token.IntLit)) && p.nthIs(1, token.Colon):
			field.Ident = p.identFrom(p.advance())
			p.advance()
			pat, ok := p.parsePat()
			if !ok {
				return ast.NoPatID, false
			}
			field.Pat = pat
		default:
			// shorthand: `x`, `ref x`, `mut x`, `box x`
			pstart := p.peek().Span
			boxed := p.atWord("box")
			if boxed {
				p.advance()
			}
			pat, ok := p.parseIdentPat(p.peek().Span)
			if !ok {
				return ast.NoPatID, false
			}
			if data, ok := p.arenas.Pats.Ident(pat); ok {
				field.Ident = data.Ident
			}
			if boxed {
				pat = p.arenas.Pats.NewInner(ast.PatBox, p.spanFrom(pstart), ast.Not, pat)
			}
			field.Pat = pat
			field.Shorthand = true
		}
		field.Span = p.spanFrom(fstart)
		fields = append(fields, field)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoPatID, false
	}
	return p.arenas.Pats.NewStruct(p.spanFrom(start), path, fields, rest), true
}
