package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/token"
)

// parseGenerics разбирает `<...>` после имени item, если он есть.
// Where-clause разбирается отдельно через parseWhereClause.
func (p *Parser) parseGenerics() (ast.Generics, bool) {
	var g ast.Generics
	if !p.atOr(token.Lt, token.Shl) {
		return g, true
	}
	start := p.peek().Span
	params, ok := p.parseGenericParams()
	if !ok {
		return g, false
	}
	g.Params = params
	g.Span = p.spanFrom(start)
	return g, true
}

func (p *Parser) parseGenericParams() ([]ast.GenericParam, bool) {
	p.eatLt()
	var params []ast.GenericParam
	for !p.atGt() && !p.at(token.EOF) {
		param, ok := p.parseGenericParam()
		if !ok {
			return params, false
		}
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.eatGt() {
		p.err(diag.SynUnclosedAngle, "expected '>' to close generic parameters, got \""+p.peek().Text+"\"")
		return params, false
	}
	return params, true
}

func (p *Parser) parseGenericParam() (ast.GenericParam, bool) {
	param := ast.GenericParam{Attrs: p.parseOuterAttrs()}
	start := p.peek().Span
	switch {
	case p.at(token.Lifetime):
		param.Kind = ast.ParamLifetime
		param.Ident = p.identFrom(p.advance())
		if p.eat(token.Colon) {
			for p.at(token.Lifetime) {
				lt := p.identFrom(p.advance())
				param.Bounds = append(param.Bounds, ast.GenericBound{Kind: ast.BoundLifetime, Span: lt.Span, Lifetime: lt})
				if !p.eat(token.Plus) {
					break
				}
			}
		}

	case p.at(token.KwConst):
		p.advance()
		param.Kind = ast.ParamConst
		name, ok := p.parseIdent()
		if !ok {
			return param, false
		}
		param.Ident = name
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after const parameter name"); !ok {
			return param, false
		}
		ty, ok := p.parseType()
		if !ok {
			return param, false
		}
		param.ConstType = ty
		if p.eat(token.Assign) {
			var def ast.ExprID
			if p.atConstArgStart() {
				def, ok = p.parseConstArg()
			} else {
				def, ok = p.parsePathExpr()
			}
			if !ok {
				return param, false
			}
			param.ConstDefault = def
		}

	default:
		param.Kind = ast.ParamType
		name, ok := p.parseIdent()
		if !ok {
			return param, false
		}
		param.Ident = name
		if p.eat(token.Colon) {
			bounds, ok := p.parseBounds()
			if !ok {
				return param, false
			}
			param.Bounds = bounds
		}
		if p.eat(token.Assign) {
			ty, ok := p.parseType()
			if !ok {
				return param, false
			}
			param.Default = ty
		}
	}
	param.Span = p.spanFrom(start)
	return param, true
}

// parseForBinder: `for<'a, 'b>`; вызывается на `for`.
func (p *Parser) parseForBinder() ([]ast.GenericParam, bool) {
	p.advance()
	if !p.atOr(token.Lt, token.Shl) {
		p.err(diag.SynUnexpectedToken, "expected '<' after 'for'")
		return nil, false
	}
	return p.parseGenericParams()
}

// parseWhereClause дописывает предикаты в g. Отсутствие `where` - не ошибка.
func (p *Parser) parseWhereClause(g *ast.Generics) bool {
	if !p.at(token.KwWhere) {
		return true
	}
	start := p.advance().Span
	for p.atWherePredicateStart() {
		pred, ok := p.parseWherePredicate()
		if !ok {
			return false
		}
		g.Where = append(g.Where, pred)
		if !p.eat(token.Comma) {
			break
		}
	}
	if g.Span.Empty() {
		g.Span = p.spanFrom(start)
	} else {
		g.Span = g.Span.Cover(p.lastSpan)
	}
	return true
}

func (p *Parser) atWherePredicateStart() bool {
	switch p.peek().Kind {
	case token.Lifetime, token.KwFor, token.LParen, token.LBracket, token.Amp, token.AndAnd,
		token.Star, token.KwFn, token.KwUnsafe, token.KwExtern, token.KwDyn, token.KwImpl, token.Bang, token.Underscore:
		return true
	default:
		return isPathStart(p.peek().Kind)
	}
}

func (p *Parser) parseWherePredicate() (ast.WherePredicate, bool) {
	start := p.peek().Span
	var pred ast.WherePredicate

	if p.at(token.Lifetime) {
		pred.Kind = ast.PredRegion
		pred.Lifetime = p.identFrom(p.advance())
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after lifetime in where clause"); !ok {
			return pred, false
		}
		for p.at(token.Lifetime) {
			lt := p.identFrom(p.advance())
			pred.Bounds = append(pred.Bounds, ast.GenericBound{Kind: ast.BoundLifetime, Span: lt.Span, Lifetime: lt})
			if !p.eat(token.Plus) {
				break
			}
		}
		pred.Span = p.spanFrom(start)
		return pred, true
	}

	if p.at(token.KwFor) && p.nthIs(1, token.Lt) {
		binder, ok := p.parseForBinder()
		if !ok {
			return pred, false
		}
		pred.BoundGenerics = binder
	}
	ty, ok := p.parseTypeNoPlus()
	if !ok {
		return pred, false
	}
	pred.Type = ty
	switch {
	case p.eat(token.Colon):
		pred.Kind = ast.PredBound
		bounds, ok := p.parseBounds()
		if !ok {
			return pred, false
		}
		pred.Bounds = bounds
	case p.eat(token.Assign) || p.eat(token.EqEq):
		pred.Kind = ast.PredEq
		rhs, ok := p.parseType()
		if !ok {
			return pred, false
		}
		pred.Rhs = rhs
	default:
		p.err(diag.SynExpectColon, "expected ':' in where clause predicate")
		return pred, false
	}
	pred.Span = p.spanFrom(start)
	return pred, true
}

func (p *Parser) atBoundStart() bool {
	switch p.peek().Kind {
	case token.Lifetime, token.Question, token.Tilde, token.KwConst, token.KwAsync,
		token.KwFor, token.LParen, token.Bang:
		return true
	case token.KwUse:
		return p.nthIs(1, token.Lt)
	default:
		return isPathStart(p.peek().Kind)
	}
}

// parseBounds: `Bound + 'a + ?Sized + for<'b> Fn(&'b u8)`. Пустой список допустим.
func (p *Parser) parseBounds() ([]ast.GenericBound, bool) {
	var bounds []ast.GenericBound
	for p.atBoundStart() {
		b, ok := p.parseBound()
		if !ok {
			return bounds, false
		}
		bounds = append(bounds, b)
		if !p.eat(token.Plus) {
			break
		}
	}
	return bounds, true
}

func (p *Parser) parseBound() (ast.GenericBound, bool) {
	start := p.peek().Span
	var b ast.GenericBound

	switch {
	case p.at(token.Lifetime):
		b.Kind = ast.BoundLifetime
		b.Lifetime = p.identFrom(p.advance())
		b.Span = b.Lifetime.Span
		return b, true

	case p.at(token.KwUse):
		// use<'a, T>
		p.advance()
		p.eatLt()
		b.Kind = ast.BoundUse
		for !p.atGt() && !p.at(token.EOF) {
			if !p.atOr(token.Lifetime, token.Ident, token.KwSelfType) {
				p.err(diag.SynUnexpectedToken, "expected lifetime or type parameter in 'use<...>'")
				return b, false
			}
			b.UseArgs = append(b.UseArgs, p.identFrom(p.advance()))
			if !p.eat(token.Comma) {
				break
			}
		}
		if !p.eatGt() {
			p.err(diag.SynUnclosedAngle, "expected '>' to close 'use<...>'")
			return b, false
		}
		b.Span = p.spanFrom(start)
		return b, true

	case p.at(token.LParen):
		open := p.advance()
		inner, ok := p.parseBound()
		if !ok {
			return b, false
		}
		if _, ok := p.expectClose(open); !ok {
			return b, false
		}
		inner.Span = p.spanFrom(start)
		return inner, true
	}

	b.Kind = ast.BoundTrait
modifiers:
	for {
		switch {
		case p.at(token.Tilde) && p.nthIs(1, token.KwConst):
			p.advance()
			p.advance()
			b.Modifiers |= ast.BoundConst
		case p.at(token.KwConst):
			p.advance()
			b.Modifiers |= ast.BoundConst
		case p.at(token.KwAsync):
			p.advance()
			b.Modifiers |= ast.BoundAsync
		case p.at(token.Question):
			p.advance()
			b.Modifiers |= ast.BoundMaybe
		case p.at(token.Bang):
			p.advance()
			b.Modifiers |= ast.BoundNegative
		default:
			break modifiers
		}
	}
	if p.at(token.KwFor) {
		binder, ok := p.parseForBinder()
		if !ok {
			return b, false
		}
		b.BoundGenerics = binder
	}
	path, ok := p.parsePath(pathType)
	if !ok {
		return b, false
	}
	b.Path = path
	b.Span = p.spanFrom(start)
	return b, true
}
