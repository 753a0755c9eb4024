package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseBlock разбирает `{ stmts }`. Span блока начинается со start: для
// `unsafe { }` это ключевое слово, иначе открывающая скобка.
func (p *Parser) parseBlock(start source.Span, rules ast.BlockRules) (ast.BlockID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{', got \""+p.peek().Text+"\"")
	if !ok {
		return ast.NoBlockID, false
	}
	p.parseInnerAttrs()

	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		stmtID, ok := p.parseStmt()
		if !ok {
			p.resyncStmt(before)
			continue
		}
		stmts = append(stmts, stmtID)
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoBlockID, false
	}
	return p.arenas.Blocks.New(p.spanFrom(start), rules, ast.UserProvided, stmts), true
}

// parseStmt - один оператор внутри блока.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	stmts := p.arenas.Stmts
	if p.at(token.Semicolon) {
		tok := p.advance()
		return stmts.NewSimple(ast.StmtEmpty, tok.Span, nil), true
	}

	attrs := p.parseOuterAttrs()
	start := p.peek().Span

	switch {
	case p.at(token.KwLet):
		return p.parseLetStmt(attrs)

	case p.atStmtItemStart():
		itemID, ok := p.parseItem(attrs)
		if !ok {
			return ast.NoStmtID, false
		}
		return stmts.NewItem(p.arenas.Items.Get(itemID).Span, nil, itemID), true
	}

	expr, blockLike, ok := p.parseStmtLikeExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	semi := p.eat(token.Semicolon)
	if !semi && !blockLike && !p.at(token.RBrace) {
		p.err(diag.SynExpectSemicolon, "expected ';' after expression, got \""+p.peek().Text+"\"")
	}
	return stmts.NewExpr(p.spanFrom(start), attrs, expr, semi), true
}

// parseLetStmt: `let PAT [: T] [= EXPR [else { ... }]];`.
func (p *Parser) parseLetStmt(attrs []ast.Attr) (ast.StmtID, bool) {
	start := p.advance().Span // 'let'
	var data ast.StmtLetData
	pat, ok := p.parsePat()
	if !ok {
		return ast.NoStmtID, false
	}
	data.Pat = pat
	if p.eat(token.Colon) {
		ty, ok := p.parseType()
		if !ok {
			return ast.NoStmtID, false
		}
		data.Type = ty
	}
	if p.eat(token.Assign) {
		init, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		data.Init = init
		if p.eat(token.KwElse) {
			els, ok := p.parseBlock(p.peek().Span, ast.BlockDefault)
			if !ok {
				return ast.NoStmtID, false
			}
			data.Else = els
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after let statement, got \""+p.peek().Text+"\""); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLet(p.spanFrom(start), attrs, data), true
}

// parseStmtLikeExpr разбирает выражение в позиции оператора или тела match-ветки.
// Выражение-блок (`{}`, `unsafe {}`, `if`, `match`, циклы, `m! {}`) завершает
// оператор, если за ним не идёт `.` или `?`; blockLike сообщает об этом вызывающему.
func (p *Parser) parseStmtLikeExpr() (ast.ExprID, bool, bool) {
	if !p.atBlockLikeStart() {
		e, ok := p.parseExpr()
		return e, false, ok
	}
	e, ok := p.parsePrimary(0)
	if !ok {
		return ast.NoExprID, false, false
	}
	if !p.atOr(token.Dot, token.Question) {
		return e, true, true
	}
	e, ok = p.parsePostfixFrom(e)
	if !ok {
		return ast.NoExprID, false, false
	}
	e, ok = p.parseAssign(e, 0)
	return e, false, ok
}

func (p *Parser) atBlockLikeStart() bool {
	switch p.peek().Kind {
	case token.LBrace, token.KwIf, token.KwMatch, token.KwLoop, token.KwWhile:
		return true
	case token.KwFor:
		return !p.nthIs(1, token.Lt)
	case token.KwUnsafe, token.KwConst:
		return p.nthIs(1, token.LBrace)
	case token.KwAsync:
		return p.nthIs(1, token.LBrace) || (p.nthIs(1, token.KwMove) && p.nthIs(2, token.LBrace))
	case token.Lifetime:
		return p.nthIs(1, token.Colon)
	case token.Ident:
		// m! { ... }
		return p.nthIs(1, token.Bang) && p.nthIs(2, token.LBrace)
	default:
		return false
	}
}

// atStmtItemStart - начинается ли в блоке item, а не выражение.
func (p *Parser) atStmtItemStart() bool {
	next := p.nth(1).Kind
	switch p.peek().Kind {
	case token.KwFn, token.KwStruct, token.KwEnum, token.KwTrait, token.KwImpl,
		token.KwMod, token.KwUse, token.KwType, token.KwExtern, token.KwPub:
		return true
	case token.KwStatic:
		return next != token.Pipe && next != token.OrOr && next != token.KwMove && next != token.KwAsync
	case token.KwConst:
		switch next {
		case token.LBrace, token.Pipe, token.OrOr, token.KwMove, token.KwStatic:
			return false
		case token.KwAsync:
			return p.nthIs(2, token.KwFn) || p.nthIs(2, token.KwUnsafe) || p.nthIs(2, token.KwExtern)
		}
		return true
	case token.KwUnsafe:
		return next != token.LBrace
	case token.KwAsync:
		return next == token.KwFn || next == token.KwUnsafe || next == token.KwExtern
	case token.Ident:
		return p.atContextualItemStart()
	default:
		return false
	}
}

// atContextualItemStart - item, начинающийся со слабого ключевого слова.
func (p *Parser) atContextualItemStart() bool {
	switch {
	case p.atWord("union"):
		return p.nthIs(1, token.Ident)
	case p.atWord("auto"):
		return p.nthIs(1, token.KwTrait)
	case p.atWord("default"):
		return p.atOrAfterDefault()
	case p.atWord("macro_rules"):
		return p.nthIs(1, token.Bang) && p.nthIs(2, token.Ident)
	case p.atWord("macro"):
		return p.nthIs(1, token.Ident)
	case p.atWord("safe"):
		return p.nthIs(1, token.KwFn) || p.nthIs(1, token.KwStatic)
	default:
		return false
	}
}

func (p *Parser) atOrAfterDefault() bool {
	switch p.nth(1).Kind {
	case token.KwFn, token.KwImpl, token.KwUnsafe, token.KwConst, token.KwAsync, token.KwType, token.KwExtern, token.KwPub:
		return true
	default:
		return false
	}
}
