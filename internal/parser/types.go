package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

func (p *Parser) parseType() (ast.TypeID, bool) {
	return p.parseTypeExt(true)
}

// parseTypeNoPlus - тип, в котором `+` не продолжает список bounds
// (`&dyn A`, `as T`, `-> T` у Fn-сахара).
func (p *Parser) parseTypeNoPlus() (ast.TypeID, bool) {
	return p.parseTypeExt(false)
}

func (p *Parser) parseTypeExt(allowPlus bool) (ast.TypeID, bool) {
	start := p.peek().Span
	types := p.arenas.Types

	switch p.peek().Kind {
	case token.LParen:
		return p.parseTupleOrParenType(allowPlus)

	case token.Bang:
		p.advance()
		return types.NewSimple(ast.TypeNever, start), true

	case token.Underscore:
		p.advance()
		return types.NewSimple(ast.TypeInfer, start), true

	case token.DotDotDot:
		p.advance()
		return types.NewSimple(ast.TypeCVarArgs, start), true

	case token.LBracket:
		open := p.advance()
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		if p.eat(token.Semicolon) {
			n, ok := p.parseExpr()
			if !ok {
				return ast.NoTypeID, false
			}
			if _, ok := p.expectClose(open); !ok {
				return ast.NoTypeID, false
			}
			return types.NewArray(p.spanFrom(start), elem, n), true
		}
		if _, ok := p.expectClose(open); !ok {
			return ast.NoTypeID, false
		}
		return types.NewElem(ast.TypeSlice, p.spanFrom(start), elem), true

	case token.Amp, token.AndAnd:
		p.eatAmp()
		var lt ast.Ident
		if p.at(token.Lifetime) {
			lt = p.identFrom(p.advance())
		}
		mut := ast.Not
		if p.eat(token.KwMut) {
			mut = ast.Mut
		}
		elem, ok := p.parseTypeNoPlus()
		if !ok {
			return ast.NoTypeID, false
		}
		return types.NewRef(ast.TypeRef, p.spanFrom(start), lt, mut, elem), true

	case token.Star:
		p.advance()
		mut := ast.Not
		switch {
		case p.eat(token.KwMut):
			mut = ast.Mut
		case p.eat(token.KwConst):
		default:
			p.err(diag.SynExpectType, "expected 'mut' or 'const' after '*' in raw pointer type")
			return ast.NoTypeID, false
		}
		elem, ok := p.parseTypeNoPlus()
		if !ok {
			return ast.NoTypeID, false
		}
		return types.NewRef(ast.TypePtr, p.spanFrom(start), ast.Ident{}, mut, elem), true

	case token.KwFn, token.KwUnsafe, token.KwExtern:
		return p.parseFnPtrType(start, nil)

	case token.KwFor:
		binder, ok := p.parseForBinder()
		if !ok {
			return ast.NoTypeID, false
		}
		if p.atOr(token.KwFn, token.KwUnsafe, token.KwExtern) {
			return p.parseFnPtrType(start, binder)
		}
		// for<'a> Trait - bare trait object
		path, ok := p.parsePath(pathType)
		if !ok {
			return ast.NoTypeID, false
		}
		first := ast.GenericBound{Kind: ast.BoundTrait, Span: p.spanFrom(start), BoundGenerics: binder, Path: path}
		return p.parseBareTraitObject(start, first, allowPlus)

	case token.KwImpl, token.KwDyn:
		kind := ast.TypeImplTrait
		dyn := p.at(token.KwDyn)
		if dyn {
			kind = ast.TypeTraitObject
		}
		p.advance()
		var bounds []ast.GenericBound
		if allowPlus {
			bs, ok := p.parseBounds()
			if !ok {
				return ast.NoTypeID, false
			}
			bounds = bs
		} else {
			b, ok := p.parseBound()
			if !ok {
				return ast.NoTypeID, false
			}
			bounds = []ast.GenericBound{b}
		}
		if len(bounds) == 0 {
			p.err(diag.SynExpectType, "expected at least one trait bound")
			return ast.NoTypeID, false
		}
		return types.NewBounds(kind, p.spanFrom(start), dyn, bounds), true

	}

	if !isPathStart(p.peek().Kind) {
		p.err(diag.SynExpectType, "expected type, got \""+p.peek().Text+"\"")
		return ast.NoTypeID, false
	}
	path, ok := p.parsePath(pathType)
	if !ok {
		return ast.NoTypeID, false
	}
	if p.at(token.Bang) {
		mac, ok := p.parseMacCallRest(start, path)
		if !ok {
			return ast.NoTypeID, false
		}
		return types.NewMacCall(p.spanFrom(start), mac), true
	}
	if allowPlus && p.at(token.Plus) {
		first := ast.GenericBound{Kind: ast.BoundTrait, Span: path.Span, Path: path}
		return p.parseBareTraitObject(start, first, allowPlus)
	}
	return types.NewPath(p.spanFrom(start), path), true
}

// parseBareTraitObject: `Trait + Send + 'a` без `dyn` (редакция 2015).
func (p *Parser) parseBareTraitObject(start source.Span, first ast.GenericBound, allowPlus bool) (ast.TypeID, bool) {
	bounds := []ast.GenericBound{first}
	if allowPlus && p.eat(token.Plus) {
		rest, ok := p.parseBounds()
		if !ok {
			return ast.NoTypeID, false
		}
		bounds = append(bounds, rest...)
	}
	return p.arenas.Types.NewBounds(ast.TypeTraitObject, p.spanFrom(start), false, bounds), true
}

func (p *Parser) parseTupleOrParenType(allowPlus bool) (ast.TypeID, bool) {
	start := p.peek().Span
	open := p.advance()
	var elems []ast.TypeID
	trailingComma := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		ty, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		elems = append(elems, ty)
		trailingComma = p.eat(token.Comma)
		if !trailingComma {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoTypeID, false
	}
	if len(elems) == 1 && !trailingComma {
		paren := p.arenas.Types.NewElem(ast.TypeParen, p.spanFrom(start), elems[0])
		if allowPlus && p.at(token.Plus) {
			// (Trait) + Send
			if tp, ok := p.arenas.Types.Elem(paren); ok {
				if inner, ok := p.arenas.Types.Path(tp.Elem); ok {
					first := ast.GenericBound{Kind: ast.BoundTrait, Span: inner.Path.Span, Path: inner.Path}
					return p.parseBareTraitObject(start, first, allowPlus)
				}
			}
		}
		return paren, true
	}
	return p.arenas.Types.NewTuple(p.spanFrom(start), elems), true
}

// parseFnPtrType: `[unsafe] [extern "abi"] fn(A, b: B, ...) -> R`.
// Указатели на функции - типы, а не функции: unsafety здесь только запоминается.
func (p *Parser) parseFnPtrType(start source.Span, binder []ast.GenericParam) (ast.TypeID, bool) {
	data := ast.TypeFnPtrData{BoundGenerics: binder}
	if p.eat(token.KwUnsafe) {
		data.Unsafety = ast.Unsafe
	}
	if p.eat(token.KwExtern) {
		data.Extern = true
		if p.atOr(token.StringLit, token.RawStringLit) {
			data.ABI = p.advance().Text
		}
	}
	if _, ok := p.expect(token.KwFn, diag.SynExpectFnAfterQual, "expected 'fn' in function pointer type"); !ok {
		return ast.NoTypeID, false
	}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'fn'")
	if !ok {
		return ast.NoTypeID, false
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		pstart := p.peek().Span
		param := ast.FnPtrParam{Attrs: p.parseOuterAttrs()}
		if p.at(token.DotDotDot) {
			p.advance()
			data.Variadic = true
			if !p.at(token.RParen) && !(p.at(token.Comma) && p.nthIs(1, token.RParen)) {
				p.err(diag.SynVariadicMustBeLast, "'...' must be the last parameter")
				return ast.NoTypeID, false
			}
			p.eat(token.Comma)
			break
		}
		if p.atOr(token.Ident, token.Underscore) && p.nthIs(1, token.Colon) {
			param.Name = p.identFrom(p.advance())
			p.advance()
		}
		ty, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		param.Type = ty
		param.Span = p.spanFrom(pstart)
		data.Params = append(data.Params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoTypeID, false
	}
	if p.eat(token.Arrow) {
		out, ok := p.parseTypeNoPlus()
		if !ok {
			return ast.NoTypeID, false
		}
		data.Output = out
	}
	return p.arenas.Types.NewFnPtr(p.spanFrom(start), data), true
}
