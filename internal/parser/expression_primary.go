package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parsePrimaryExpr обрабатывает первичные выражения: литералы, пути, макросы,
// struct-литералы, скобки, массивы, блоки и управляющие конструкции.
func (p *Parser) parsePrimary(res restrictions) (ast.ExprID, bool) {
	start := p.peek().Span
	tok := p.peek()
	exprs := p.arenas.Exprs

	if tok.IsLiteral() {
		return p.parseLiteral()
	}

	switch tok.Kind {
	case token.KwTrue, token.KwFalse:
		return p.parseLiteral()

	case token.LParen:
		return p.parseParenOrTuple()

	case token.LBracket:
		return p.parseArrayExpr()

	case token.LBrace:
		return p.parseBlockExpr(start, ast.Ident{}, ast.BlockDefault)

	case token.KwUnsafe:
		p.advance()
		if !p.at(token.LBrace) {
			p.err(diag.SynExpectBlock, "expected '{' after 'unsafe'")
			return ast.NoExprID, false
		}
		return p.parseBlockExpr(start, ast.Ident{}, ast.BlockUnsafe)

	case token.Lifetime:
		if !p.nthIs(1, token.Colon) {
			break
		}
		label := p.identFrom(p.advance())
		p.advance() // ':'
		return p.parseLabeled(start, label)

	case token.KwLoop, token.KwWhile:
		return p.parseLabeled(start, ast.Ident{})

	case token.KwFor:
		if p.nthIs(1, token.Lt) {
			return p.parseClosure(start, res)
		}
		return p.parseLabeled(start, ast.Ident{})

	case token.KwIf:
		return p.parseIf()

	case token.KwMatch:
		return p.parseMatch()

	case token.KwLet:
		return p.parseLetExpr(res)

	case token.KwAsync:
		if p.nthIs(1, token.LBrace) || (p.nthIs(1, token.KwMove) && p.nthIs(2, token.LBrace)) {
			p.advance()
			move := p.eat(token.KwMove)
			blk, ok := p.parseBlock(p.peek().Span, ast.BlockDefault)
			if !ok {
				return ast.NoExprID, false
			}
			return exprs.NewBlock(ast.ExprAsync, p.spanFrom(start), ast.Ident{}, move, blk), true
		}
		return p.parseClosure(start, res)

	case token.KwConst:
		if p.nthIs(1, token.LBrace) {
			return p.parseConstBlockExpr()
		}
		return p.parseClosure(start, res)

	case token.KwStatic, token.KwMove, token.Pipe, token.OrOr:
		return p.parseClosure(start, res)

	case token.KwReturn, token.KwYield:
		kind := ast.ExprReturn
		if p.advance().Kind == token.KwYield {
			kind = ast.ExprYield
		}
		value := ast.NoExprID
		if p.atExprStart(res) {
			v, ok := p.parseExprRes(res)
			if !ok {
				return ast.NoExprID, false
			}
			value = v
		}
		return exprs.NewWrap(kind, p.spanFrom(start), value), true

	case token.KwBreak, token.KwContinue:
		kind := ast.ExprBreak
		if p.advance().Kind == token.KwContinue {
			kind = ast.ExprContinue
		}
		var label ast.Ident
		if p.at(token.Lifetime) {
			label = p.identFrom(p.advance())
		}
		value := ast.NoExprID
		if kind == ast.ExprBreak && p.atExprStart(res) {
			v, ok := p.parseExprRes(res)
			if !ok {
				return ast.NoExprID, false
			}
			value = v
		}
		return exprs.NewJump(kind, p.spanFrom(start), label, value), true

	case token.Underscore:
		p.advance()
		return exprs.NewSimple(ast.ExprUnderscore, start), true
	}

	if p.atWord("become") && isPathStart(p.nth(1).Kind) {
		p.advance()
		callee, ok := p.parseExprRes(res)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewWrap(ast.ExprBecome, p.spanFrom(start), callee), true
	}

	if !isPathStart(tok.Kind) {
		p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
		return ast.NoExprID, false
	}
	path, ok := p.parsePath(pathExpr)
	if !ok {
		return ast.NoExprID, false
	}
	switch {
	case p.at(token.Bang):
		mac, ok := p.parseMacCallRest(start, path)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewMacCall(p.spanFrom(start), mac), true
	case p.at(token.LBrace) && res&resNoStruct == 0:
		return p.parseStructLit(start, path)
	}
	return exprs.NewPath(p.spanFrom(start), path), true
}

// parseBlockExpr: `{ ... }` или `unsafe { ... }`. Span блока начинается со start,
// так что у unsafe-блока он покрывает и ключевое слово.
func (p *Parser) parseBlockExpr(start source.Span, label ast.Ident, rules ast.BlockRules) (ast.ExprID, bool) {
	blk, ok := p.parseBlock(start, rules)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewBlock(ast.ExprBlock, p.spanFrom(start), label, false, blk), true
}

func (p *Parser) parseConstBlockExpr() (ast.ExprID, bool) {
	start := p.advance().Span // 'const'
	blk, ok := p.parseBlock(p.peek().Span, ast.BlockDefault)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewBlock(ast.ExprConstBlock, p.spanFrom(start), ast.Ident{}, false, blk), true
}

func (p *Parser) parseParenOrTuple() (ast.ExprID, bool) {
	start := p.peek().Span
	open := p.advance()
	var elems []ast.ExprID
	trailing := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, e)
		trailing = p.eat(token.Comma)
		if !trailing {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoExprID, false
	}
	if len(elems) == 1 && !trailing {
		return p.arenas.Exprs.NewWrap(ast.ExprParen, p.spanFrom(start), elems[0]), true
	}
	return p.arenas.Exprs.NewList(ast.ExprTuple, p.spanFrom(start), elems), true
}

// parseArrayExpr: `[a, b, c]` или `[elem; count]`.
func (p *Parser) parseArrayExpr() (ast.ExprID, bool) {
	start := p.peek().Span
	open := p.advance()
	var elems []ast.ExprID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if len(elems) == 0 && p.eat(token.Semicolon) {
			count, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expectClose(open); !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewRepeat(p.spanFrom(start), e, count), true
		}
		elems = append(elems, e)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewList(ast.ExprArray, p.spanFrom(start), elems), true
}

// parseStructLit: `Path { a: x, b, ..base }`.
func (p *Parser) parseStructLit(start source.Span, path ast.Path) (ast.ExprID, bool) {
	open := p.advance()
	data := ast.ExprStructData{Path: path}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fstart := p.peek().Span
		attrs := p.parseOuterAttrs()
		if p.eat(token.DotDot) {
			if p.at(token.RBrace) {
				data.Rest = ast.StructRestRest
				break
			}
			base, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			data.Rest = ast.StructRestBase
			data.Base = base
			break
		}
		field := ast.ExprStructField{Attrs: attrs}
		switch {
		case p.atOr(token.Ident, token.IntLit) && p.nthIs(1, token.Colon):
			field.Ident = p.identFrom(p.advance())
			p.advance()
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			field.Expr = e
		case p.at(token.Ident):
			field.Ident = p.identFrom(p.advance())
			seg := ast.PathSegment{Ident: field.Ident}
			field.Expr = p.arenas.Exprs.NewPath(field.Ident.Span, ast.Path{Span: field.Ident.Span, Segments: []ast.PathSegment{seg}})
			field.Shorthand = true
		default:
			p.err(diag.SynExpectIdentifier, "expected field name in struct literal, got \""+p.peek().Text+"\"")
			return ast.NoExprID, false
		}
		field.Span = p.spanFrom(fstart)
		data.Fields = append(data.Fields, field)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewStruct(p.spanFrom(start), data), true
}

// parseClosure: `[for<..>] [const] [static] [async] [move] |params| [-> T] body`.
func (p *Parser) parseClosure(start source.Span, res restrictions) (ast.ExprID, bool) {
	var data ast.ExprClosureData
	if p.at(token.KwFor) {
		binder, ok := p.parseForBinder()
		if !ok {
			return ast.NoExprID, false
		}
		data.Binder = binder
	}
	data.Const = p.eat(token.KwConst)
	data.Static = p.eat(token.KwStatic)
	data.Async = p.eat(token.KwAsync)
	data.Move = p.eat(token.KwMove)

	switch {
	case p.eat(token.OrOr):
	case p.eatPipe():
		for !p.atOr(token.Pipe, token.OrOr) && !p.at(token.EOF) {
			pstart := p.peek().Span
			param := ast.ClosureParam{Attrs: p.parseOuterAttrs()}
			pat, ok := p.parsePatNoTopAlt()
			if !ok {
				return ast.NoExprID, false
			}
			param.Pat = pat
			if p.eat(token.Colon) {
				ty, ok := p.parseType()
				if !ok {
					return ast.NoExprID, false
				}
				param.Type = ty
			}
			param.Span = p.spanFrom(pstart)
			data.Params = append(data.Params, param)
			if !p.eat(token.Comma) {
				break
			}
		}
		if !p.eatPipe() {
			p.err(diag.SynUnexpectedToken, "expected '|' to close closure parameters, got \""+p.peek().Text+"\"")
			return ast.NoExprID, false
		}
	default:
		p.err(diag.SynUnexpectedToken, "expected closure parameters, got \""+p.peek().Text+"\"")
		return ast.NoExprID, false
	}

	if p.eat(token.Arrow) {
		out, ok := p.parseTypeNoPlus()
		if !ok {
			return ast.NoExprID, false
		}
		data.Output = out
		if !p.at(token.LBrace) {
			p.err(diag.SynExpectBlock, "expected '{' after closure return type")
			return ast.NoExprID, false
		}
		body, ok := p.parseBlockExpr(p.peek().Span, ast.Ident{}, ast.BlockDefault)
		if !ok {
			return ast.NoExprID, false
		}
		data.Body = body
	} else {
		body, ok := p.parseExprRes(res)
		if !ok {
			return ast.NoExprID, false
		}
		data.Body = body
	}
	return p.arenas.Exprs.NewClosure(p.spanFrom(start), data), true
}
