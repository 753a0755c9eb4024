package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// restrictions - контекстные ограничения разбора выражений.
type restrictions uint8

const (
	// resNoStruct запрещает struct-литерал `Path { .. }`: условие if/while,
	// итератор for и scrutinee match, где `{` открывает тело.
	resNoStruct restrictions = 1 << iota
)

// parseExpr - главная точка входа для парсинга выражений
// Возвращает ExprID и флаг успеха
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseExprRes(0)
}

func (p *Parser) parseExprRes(res restrictions) (ast.ExprID, bool) {
	return p.parseAssign(ast.NoExprID, res)
}

// parseAssign - `=` и составные присваивания, правоассоциативны.
// lhs, если задан, уже разобран вызывающим (выражение-оператор с блоком в начале).
func (p *Parser) parseAssign(lhs ast.ExprID, res restrictions) (ast.ExprID, bool) {
	left, ok := p.parseRange(lhs, res)
	if !ok {
		return ast.NoExprID, false
	}
	kind := p.peek().Kind
	op, compound := compoundAssignOp(kind)
	if kind != token.Assign && !compound {
		return left, true
	}
	p.advance()
	right, ok := p.parseAssign(ast.NoExprID, res)
	if !ok {
		return ast.NoExprID, false
	}
	exprKind := ast.ExprAssign
	if compound {
		exprKind = ast.ExprAssignOp
	}
	return p.arenas.Exprs.NewBinary(exprKind, p.cover(left, right), op, left, right), true
}

// parseRange - `a..b`, `a..=b`, `..b`, `a..`, `..`.
func (p *Parser) parseRange(lhs ast.ExprID, res restrictions) (ast.ExprID, bool) {
	if !lhs.IsValid() && p.atOr(token.DotDot, token.DotDotEq) {
		start := p.peek().Span
		inclusive := p.advance().Kind == token.DotDotEq
		end := ast.NoExprID
		if inclusive || p.atExprStart(res) {
			e, ok := p.parseBinary(ast.NoExprID, precLogicalOr, res)
			if !ok {
				return ast.NoExprID, false
			}
			end = e
		}
		return p.arenas.Exprs.NewRange(p.spanFrom(start), ast.NoExprID, end, inclusive), true
	}

	left, ok := p.parseBinary(lhs, precLogicalOr, res)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.atOr(token.DotDot, token.DotDotEq) {
		return left, true
	}
	inclusive := p.advance().Kind == token.DotDotEq
	end := ast.NoExprID
	if inclusive || p.atExprStart(res) {
		e, ok := p.parseBinary(ast.NoExprID, precLogicalOr, res)
		if !ok {
			return ast.NoExprID, false
		}
		end = e
	}
	span := p.arenas.Exprs.Get(left).Span.Cover(p.lastSpan)
	return p.arenas.Exprs.NewRange(span, left, end, inclusive), true
}

// parseBinary реализует precedence climbing для бинарных операторов и `as`.
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinary(lhs ast.ExprID, minPrec int, res restrictions) (ast.ExprID, bool) {
	left := lhs
	if !left.IsValid() {
		var ok bool
		left, ok = p.parseUnary(res)
		if !ok {
			return ast.NoExprID, false
		}
	}

	lastWasCmp := false
	for {
		tok := p.peek()
		prec := getBinaryOperatorPrec(tok.Kind)
		if prec < minPrec {
			break // приоритет слишком низкий
		}
		p.advance()

		if tok.Kind == token.KwAs {
			ty, ok := p.parseTypeNoPlus()
			if !ok {
				return ast.NoExprID, false
			}
			span := p.arenas.Exprs.Get(left).Span.Cover(p.lastSpan)
			left = p.arenas.Exprs.NewCast(span, left, ty)
			continue
		}

		if prec == precComparison {
			if lastWasCmp {
				p.report(diag.SynChainedComparison, diag.SevError, tok.Span, "comparison operators cannot be chained")
			}
			lastWasCmp = true
		}

		right, ok := p.parseBinary(ast.NoExprID, prec+1, res)
		if !ok {
			return ast.NoExprID, false
		}
		left = p.arenas.Exprs.NewBinary(ast.ExprBinary, p.cover(left, right), tokenKindToBinaryOp(tok.Kind), left, right)
	}
	return left, true
}

// parseUnary обрабатывает префиксы `-`, `!`, `*`, `&`, `&mut`, `&raw const|mut`
// и внешние атрибуты выражения.
func (p *Parser) parseUnary(res restrictions) (ast.ExprID, bool) {
	start := p.peek().Span
	exprs := p.arenas.Exprs

	switch p.peek().Kind {
	case token.Pound:
		if p.nthIs(1, token.LBracket) {
			p.parseOuterAttrs()
			return p.parseUnary(res)
		}

	case token.Minus, token.Bang, token.Star:
		op := ast.UnaryNeg
		switch p.advance().Kind {
		case token.Bang:
			op = ast.UnaryNot
		case token.Star:
			op = ast.UnaryDeref
		}
		operand, ok := p.parseUnary(res)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewUnary(p.spanFrom(start), op, operand), true

	case token.Amp, token.AndAnd:
		p.eatAmp()
		raw := false
		mut := ast.Not
		if p.atWord("raw") && (p.nthIs(1, token.KwConst) || p.nthIs(1, token.KwMut)) {
			p.advance()
			raw = true
			if p.advance().Kind == token.KwMut {
				mut = ast.Mut
			}
		} else if p.eat(token.KwMut) {
			mut = ast.Mut
		}
		operand, ok := p.parseUnary(res)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewAddrOf(p.spanFrom(start), raw, mut, operand), true
	}

	expr, ok := p.parsePrimary(res)
	if !ok {
		return ast.NoExprID, false
	}
	return p.parsePostfixFrom(expr)
}

// parsePostfixFrom обрабатывает постфиксные операторы: `?`, `.await`, поля,
// вызовы методов, вызовы и индексацию.
func (p *Parser) parsePostfixFrom(expr ast.ExprID) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	start := exprs.Get(expr).Span
	for {
		switch p.peek().Kind {
		case token.Question:
			p.advance()
			expr = exprs.NewWrap(ast.ExprTry, p.spanFrom(start), expr)

		case token.Dot:
			p.advance()
			next, ok := p.parseDotSuffix(start, expr)
			if !ok {
				return ast.NoExprID, false
			}
			expr = next

		case token.LParen:
			args, ok := p.parseCallArgs()
			if !ok {
				return ast.NoExprID, false
			}
			expr = exprs.NewCall(p.spanFrom(start), expr, args)

		case token.LBracket:
			open := p.advance()
			index, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expectClose(open); !ok {
				return ast.NoExprID, false
			}
			expr = exprs.NewIndex(p.spanFrom(start), expr, index)

		default:
			return expr, true
		}
	}
}

// parseDotSuffix разбирает то, что идёт после `.`.
func (p *Parser) parseDotSuffix(start source.Span, recv ast.ExprID) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	switch p.peek().Kind {
	case token.KwAwait:
		p.advance()
		return exprs.NewWrap(ast.ExprAwait, p.spanFrom(start), recv), true

	case token.Ident:
		seg := ast.PathSegment{Ident: p.identFrom(p.advance())}
		if p.at(token.ColonColon) && (p.nthIs(1, token.Lt) || p.nthIs(1, token.Shl)) {
			p.advance()
			args, ok := p.parseAngleArgs()
			if !ok {
				return ast.NoExprID, false
			}
			seg.Args = args
		}
		if p.at(token.LParen) {
			args, ok := p.parseCallArgs()
			if !ok {
				return ast.NoExprID, false
			}
			return exprs.NewMethodCall(p.spanFrom(start), recv, seg, args), true
		}
		if seg.Args != nil {
			p.err(diag.SynUnexpectedToken, "expected '(' after method generic arguments")
			return ast.NoExprID, false
		}
		return exprs.NewField(p.spanFrom(start), recv, seg.Ident), true

	case token.IntLit:
		field := p.identFrom(p.advance())
		return exprs.NewField(p.spanFrom(start), recv, field), true

	case token.FloatLit:
		head, ok := p.splitFloatField()
		if !ok {
			p.err(diag.SynInvalidTupleIndex, "invalid tuple index \""+p.peek().Text+"\"")
			return ast.NoExprID, false
		}
		return exprs.NewField(p.spanFrom(start), recv, p.identFrom(head)), true
	}
	p.err(diag.SynExpectIdentifier, "expected field or method name after '.', got \""+p.peek().Text+"\"")
	return ast.NoExprID, false
}

func (p *Parser) parseCallArgs() ([]ast.ExprID, bool) {
	open := p.advance()
	var args []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return nil, false
	}
	return args, true
}

// atExprStart - может ли с текущего токена начаться выражение
// (операнд `return`, `break`, правая граница диапазона).
func (p *Parser) atExprStart(res restrictions) bool {
	tok := p.peek()
	if tok.IsLiteral() {
		return true
	}
	switch tok.Kind {
	case token.LParen, token.LBracket, token.Minus, token.Bang, token.Star, token.Amp, token.AndAnd,
		token.Pipe, token.OrOr, token.DotDot, token.DotDotEq, token.Lifetime, token.Pound, token.Underscore,
		token.KwIf, token.KwMatch, token.KwLoop, token.KwWhile, token.KwFor, token.KwUnsafe, token.KwAsync,
		token.KwMove, token.KwReturn, token.KwBreak, token.KwContinue, token.KwYield, token.KwLet,
		token.KwTrue, token.KwFalse, token.KwConst, token.KwStatic:
		return true
	case token.LBrace:
		return res&resNoStruct == 0
	default:
		return isPathStart(tok.Kind)
	}
}

// cover - span от начала a до конца b.
func (p *Parser) cover(a, b ast.ExprID) source.Span {
	return p.arenas.Exprs.Get(a).Span.Cover(p.arenas.Exprs.Get(b).Span)
}

// parseLiteral: числа, символы, строки всех видов и `true`/`false`.
func (p *Parser) parseLiteral() (ast.ExprID, bool) {
	tok := p.peek()
	kind, ok := litKindOf(tok.Kind)
	if !ok {
		p.err(diag.SynExpectExpression, "expected literal, got \""+tok.Text+"\"")
		return ast.NoExprID, false
	}
	p.advance()
	text := p.arenas.StringsInterner.Intern(tok.Text)
	return p.arenas.Exprs.NewLit(tok.Span, kind, text), true
}

// parsePathExpr - путь без макро-вызова и struct-литерала.
func (p *Parser) parsePathExpr() (ast.ExprID, bool) {
	start := p.peek().Span
	path, ok := p.parsePath(pathExpr)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewPath(p.spanFrom(start), path), true
}
