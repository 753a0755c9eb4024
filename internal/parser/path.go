package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/token"
)

type pathStyle uint8

const (
	pathExpr pathStyle = iota // generic-аргументы только после `::` (turbofish)
	pathType                  // `<` сразу после сегмента, сахар `Fn(A) -> B`
	pathMod                   // без generic-аргументов: use, pub(in ..), атрибуты
)

func isPathSegmentStart(k token.Kind) bool {
	switch k {
	case token.Ident, token.KwSelf, token.KwSelfType, token.KwSuper, token.KwCrate:
		return true
	default:
		return false
	}
}

// isPathStart - может ли с токена начаться путь (включая `::x` и `<T as Tr>::x`).
func isPathStart(k token.Kind) bool {
	return isPathSegmentStart(k) || k == token.ColonColon || k == token.Lt || k == token.Shl
}

func (p *Parser) parsePath(style pathStyle) (ast.Path, bool) {
	start := p.peek().Span
	var path ast.Path

	if style != pathMod && p.atOr(token.Lt, token.Shl) {
		qself, trait, ok := p.parseQSelf()
		if !ok {
			return path, false
		}
		path.QSelf = qself
		path.Segments = trait
		if _, ok := p.expect(token.ColonColon, diag.SynExpectPathSeg, "expected '::' after qualified path"); !ok {
			return path, false
		}
	} else if p.eat(token.ColonColon) {
		path.Global = true
	}

	for {
		seg, ok := p.parsePathSegment(style)
		if !ok {
			return path, false
		}
		path.Segments = append(path.Segments, seg)
		if !p.at(token.ColonColon) || !isPathSegmentStart(p.nth(1).Kind) {
			break
		}
		p.advance()
	}
	path.Span = p.spanFrom(start)
	return path, true
}

// parseQSelf: `<Type as Trait>` или `<Type>`.
func (p *Parser) parseQSelf() (*ast.QSelf, []ast.PathSegment, bool) {
	start := p.peek().Span
	p.eatLt()
	ty, ok := p.parseType()
	if !ok {
		return nil, nil, false
	}
	var trait []ast.PathSegment
	if p.eat(token.KwAs) {
		tp, ok := p.parsePath(pathType)
		if !ok {
			return nil, nil, false
		}
		trait = tp.Segments
	}
	if !p.eatGt() {
		p.err(diag.SynUnclosedAngle, "expected '>' to close qualified path")
		return nil, nil, false
	}
	return &ast.QSelf{Span: p.spanFrom(start), Type: ty, Position: len(trait)}, trait, true
}

func (p *Parser) parsePathSegment(style pathStyle) (ast.PathSegment, bool) {
	if !isPathSegmentStart(p.peek().Kind) {
		p.err(diag.SynExpectPathSeg, "expected path segment, got \""+p.peek().Text+"\"")
		return ast.PathSegment{}, false
	}
	seg := ast.PathSegment{Ident: p.identFrom(p.advance())}
	switch style {
	case pathExpr:
		if p.at(token.ColonColon) && (p.nthIs(1, token.Lt) || p.nthIs(1, token.Shl)) {
			p.advance()
			args, ok := p.parseAngleArgs()
			if !ok {
				return seg, false
			}
			seg.Args = args
		}
	case pathType:
		if p.at(token.ColonColon) && (p.nthIs(1, token.Lt) || p.nthIs(1, token.Shl)) {
			p.advance()
		}
		switch {
		case p.atOr(token.Lt, token.Shl):
			args, ok := p.parseAngleArgs()
			if !ok {
				return seg, false
			}
			seg.Args = args
		case p.at(token.LParen):
			args, ok := p.parseParenArgs()
			if !ok {
				return seg, false
			}
			seg.Args = args
		}
	}
	return seg, true
}

// parseAngleArgs: `<'a, T, N, { expr }, Item = T, Item: Bound>`.
func (p *Parser) parseAngleArgs() (*ast.GenericArgs, bool) {
	start := p.peek().Span
	p.eatLt()
	args := &ast.GenericArgs{Kind: ast.GenericArgsAngle}
	for !p.atGt() {
		if p.at(token.EOF) {
			break
		}
		arg, ok := p.parseGenericArg()
		if !ok {
			return args, false
		}
		args.Args = append(args.Args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.eatGt() {
		p.err(diag.SynUnclosedAngle, "expected '>' to close generic arguments, got \""+p.peek().Text+"\"")
		return args, false
	}
	args.Span = p.spanFrom(start)
	return args, true
}

func (p *Parser) parseGenericArg() (ast.GenericArg, bool) {
	start := p.peek().Span
	arg := ast.GenericArg{}
	switch {
	case p.at(token.Lifetime):
		arg.Kind = ast.ArgLifetime
		arg.Lifetime = p.identFrom(p.advance())

	case p.at(token.Ident) && p.isAssocConstraintAhead():
		arg.Name = p.identFrom(p.advance())
		if p.atOr(token.Lt, token.Shl) {
			ga, ok := p.parseAngleArgs()
			if !ok {
				return arg, false
			}
			arg.NameArgs = ga
		}
		if p.eat(token.Colon) {
			arg.Kind = ast.ArgAssocBound
			bounds, ok := p.parseBounds()
			if !ok {
				return arg, false
			}
			arg.Bounds = bounds
			break
		}
		p.advance() // '='
		if p.atConstArgStart() {
			arg.Kind = ast.ArgAssocConst
			e, ok := p.parseConstArg()
			if !ok {
				return arg, false
			}
			arg.Const = e
			break
		}
		arg.Kind = ast.ArgAssocEq
		ty, ok := p.parseType()
		if !ok {
			return arg, false
		}
		arg.Type = ty

	case p.atConstArgStart():
		arg.Kind = ast.ArgConst
		e, ok := p.parseConstArg()
		if !ok {
			return arg, false
		}
		arg.Const = e

	default:
		arg.Kind = ast.ArgType
		ty, ok := p.parseType()
		if !ok {
			return arg, false
		}
		arg.Type = ty
	}
	arg.Span = p.spanFrom(start)
	return arg, true
}

// isAssocConstraintAhead: `Name =`, `Name:` или `Name<...> =` / `Name<...>:`.
func (p *Parser) isAssocConstraintAhead() bool {
	next := p.nth(1).Kind
	if next == token.Assign || next == token.Colon {
		return true
	}
	if next != token.Lt {
		return false
	}
	depth := 0
	for i := 1; ; i++ {
		switch p.nth(i).Kind {
		case token.Lt:
			depth++
		case token.Shl:
			depth += 2
		case token.Gt:
			depth--
		case token.Shr:
			depth -= 2
		case token.EOF, token.Semicolon, token.LBrace, token.RBrace:
			return false
		}
		if depth <= 0 {
			k := p.nth(i + 1).Kind
			return depth == 0 && (k == token.Assign || k == token.Colon)
		}
	}
}

func (p *Parser) atConstArgStart() bool {
	switch p.peek().Kind {
	case token.LBrace, token.KwTrue, token.KwFalse, token.Minus:
		return true
	default:
		return p.peek().IsLiteral()
	}
}

// parseConstArg: литерал, `-литерал` или блок `{ expr }`.
func (p *Parser) parseConstArg() (ast.ExprID, bool) {
	if p.at(token.LBrace) {
		start := p.peek().Span
		blk, ok := p.parseBlock(start, ast.BlockDefault)
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewBlock(ast.ExprBlock, p.spanFrom(start), ast.Ident{}, false, blk), true
	}
	if p.at(token.Minus) {
		start := p.advance().Span
		lit, ok := p.parseLiteral()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnary(p.spanFrom(start), ast.UnaryNeg, lit), true
	}
	return p.parseLiteral()
}

// parseParenArgs: `(A, B) -> C` у Fn-трейтов или `(..)` (return type notation).
func (p *Parser) parseParenArgs() (*ast.GenericArgs, bool) {
	start := p.peek().Span
	open := p.advance()
	args := &ast.GenericArgs{Kind: ast.GenericArgsParen}
	if p.at(token.DotDot) && p.nthIs(1, token.RParen) {
		p.advance()
		p.advance()
		args.Kind = ast.GenericArgsReturn
		args.Span = p.spanFrom(start)
		return args, true
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		ty, ok := p.parseType()
		if !ok {
			return args, false
		}
		args.Inputs = append(args.Inputs, ty)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return args, false
	}
	if p.eat(token.Arrow) {
		out, ok := p.parseTypeNoPlus()
		if !ok {
			return args, false
		}
		args.Output = out
	}
	args.Span = p.spanFrom(start)
	return args, true
}
