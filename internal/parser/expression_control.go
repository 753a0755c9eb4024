package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseLabeled - `loop`, `while`, `for` и блок, возможно после метки `'a:`.
func (p *Parser) parseLabeled(start source.Span, label ast.Ident) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	switch p.peek().Kind {
	case token.KwLoop:
		p.advance()
		body, ok := p.parseBlock(p.peek().Span, ast.BlockDefault)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewBlock(ast.ExprLoop, p.spanFrom(start), label, false, body), true

	case token.KwWhile:
		p.advance()
		cond, ok := p.parseExprRes(resNoStruct)
		if !ok {
			return ast.NoExprID, false
		}
		body, ok := p.parseBlock(p.peek().Span, ast.BlockDefault)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewWhile(p.spanFrom(start), label, cond, body), true

	case token.KwFor:
		p.advance()
		data := ast.ExprForData{Label: label}
		pat, ok := p.parsePat()
		if !ok {
			return ast.NoExprID, false
		}
		data.Pat = pat
		if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' after for pattern"); !ok {
			return ast.NoExprID, false
		}
		iter, ok := p.parseExprRes(resNoStruct)
		if !ok {
			return ast.NoExprID, false
		}
		data.Iter = iter
		body, ok := p.parseBlock(p.peek().Span, ast.BlockDefault)
		if !ok {
			return ast.NoExprID, false
		}
		data.Body = body
		return exprs.NewFor(p.spanFrom(start), data), true

	case token.LBrace:
		return p.parseBlockExpr(start, label, ast.BlockDefault)

	case token.KwUnsafe:
		// 'a: unsafe { ... }
		ustart := p.advance().Span
		blk, ok := p.parseBlock(ustart, ast.BlockUnsafe)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewBlock(ast.ExprBlock, p.spanFrom(start), label, false, blk), true
	}
	p.err(diag.SynUnexpectedToken, "expected 'loop', 'while', 'for' or block after label")
	return ast.NoExprID, false
}

// parseIf: `if cond { } else if cond { } else { }`.
func (p *Parser) parseIf() (ast.ExprID, bool) {
	start := p.advance().Span // 'if'
	cond, ok := p.parseExprRes(resNoStruct)
	if !ok {
		return ast.NoExprID, false
	}
	then, ok := p.parseBlock(p.peek().Span, ast.BlockDefault)
	if !ok {
		return ast.NoExprID, false
	}
	els := ast.NoExprID
	if p.eat(token.KwElse) {
		switch {
		case p.at(token.KwIf):
			els, ok = p.parseIf()
		case p.at(token.LBrace):
			els, ok = p.parseBlockExpr(p.peek().Span, ast.Ident{}, ast.BlockDefault)
		default:
			p.err(diag.SynExpectBlock, "expected '{' or 'if' after 'else'")
			return ast.NoExprID, false
		}
		if !ok {
			return ast.NoExprID, false
		}
	}
	return p.arenas.Exprs.NewIf(p.spanFrom(start), cond, then, els), true
}

// parseLetExpr - `let PAT = EXPR` в условиях if/while и let-цепочках.
// Scrutinee не захватывает `&&` и `||`.
func (p *Parser) parseLetExpr(res restrictions) (ast.ExprID, bool) {
	start := p.advance().Span // 'let'
	pat, ok := p.parsePat()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after let pattern"); !ok {
		return ast.NoExprID, false
	}
	scrutinee, ok := p.parseBinary(ast.NoExprID, precComparison, res)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewLet(p.spanFrom(start), pat, scrutinee), true
}

// parseMatch: `match x { PAT [if guard] => body, ... }`.
func (p *Parser) parseMatch() (ast.ExprID, bool) {
	start := p.advance().Span // 'match'
	scrutinee, ok := p.parseExprRes(resNoStruct)
	if !ok {
		return ast.NoExprID, false
	}
	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' after match scrutinee")
	if !ok {
		return ast.NoExprID, false
	}
	p.parseInnerAttrs()
	var arms []ast.MatchArm
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		arm, ok := p.parseMatchArm()
		if !ok {
			p.skipUntilClose(open)
			return ast.NoExprID, false
		}
		arms = append(arms, arm)
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewMatch(p.spanFrom(start), scrutinee, arms), true
}

func (p *Parser) parseMatchArm() (ast.MatchArm, bool) {
	arm := ast.MatchArm{Attrs: p.parseOuterAttrs()}
	start := p.peek().Span
	pat, ok := p.parsePat()
	if !ok {
		return arm, false
	}
	arm.Pat = pat
	if p.eat(token.KwIf) {
		guard, ok := p.parseExpr()
		if !ok {
			return arm, false
		}
		arm.Guard = guard
	}
	if _, ok := p.expect(token.FatArrow, diag.SynExpectFatArrow, "expected '=>' in match arm, got \""+p.peek().Text+"\""); !ok {
		return arm, false
	}
	body, blockLike, ok := p.parseStmtLikeExpr()
	if !ok {
		return arm, false
	}
	arm.Body = body
	arm.Span = p.spanFrom(start)
	switch {
	case p.eat(token.Comma):
	case blockLike || p.at(token.RBrace):
	default:
		p.err(diag.SynUnexpectedToken, "expected ',' after match arm, got \""+p.peek().Text+"\"")
		return arm, false
	}
	return arm, true
}
