package parser

import (
	"testing"

	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
)

func TestStatementKinds(t *testing.T) {
	builder, stmts := bodyStmts(t, "let x: u8 = 1; let Some(y) = o else { return }; ; fn inner() {} match x {} x")
	want := []ast.StmtKind{ast.StmtLet, ast.StmtLet, ast.StmtEmpty, ast.StmtItem, ast.StmtExpr, ast.StmtExpr}
	if len(stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(stmts))
	}
	for i, id := range stmts {
		if got := builder.Stmts.Get(id).Kind; got != want[i] {
			t.Errorf("stmt %d: kind = %v, want %v", i, got, want[i])
		}
	}

	first, _ := builder.Stmts.Let(stmts[0])
	if !first.Type.IsValid() || !first.Init.IsValid() || first.Else.IsValid() {
		t.Errorf("first let = %+v", first)
	}
	letElse, _ := builder.Stmts.Let(stmts[1])
	if !letElse.Else.IsValid() {
		t.Error("let-else lost its else block")
	}
	if m, _ := builder.Stmts.Expr(stmts[4]); m.Semi {
		t.Error("block-like match statement must not report a semicolon")
	}
	if tail, _ := builder.Stmts.Expr(stmts[5]); tail.Semi {
		t.Error("tail expression must not report a semicolon")
	}
}

func TestUnsafeBlockSpanStartsAtKeyword(t *testing.T) {
	input := "fn f() {\n    let v = unsafe { *p } + 1;\n    unsafe { g() }\n}"
	builder, fileID := mustParse(t, input)
	fn := fnItem(t, builder, singleItem(t, builder, fileID))
	stmts := builder.Blocks.Get(fn.Body).Stmts
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}

	let, _ := builder.Stmts.Let(stmts[0])
	sum, ok := builder.Exprs.Binary(let.Init)
	if !ok {
		t.Fatalf("let init = %v, want Binary", exprKind(builder, let.Init))
	}
	blk, ok := builder.Exprs.Block(sum.Left)
	if !ok {
		t.Fatalf("left operand = %v, want Block", exprKind(builder, sum.Left))
	}
	first := builder.Blocks.Get(blk.Block)
	if !first.IsUnsafe() || first.Source != ast.UserProvided {
		t.Errorf("first block rules = %v source = %v", first.Rules, first.Source)
	}
	if got := snippet(input, first.Span); got != "unsafe { *p }" {
		t.Errorf("first block span = %q", got)
	}

	tail, _ := builder.Stmts.Expr(stmts[1])
	tailBlk, _ := builder.Exprs.Block(tail.Expr)
	if got := snippet(input, builder.Blocks.Get(tailBlk.Block).Span); got != "unsafe { g() }" {
		t.Errorf("tail block span = %q", got)
	}
	if got := snippet(input, builder.Blocks.Get(fn.Body).Span); got[0] != '{' {
		t.Errorf("fn body span must start at '{', got %q", got)
	}
}

func TestNestedUnsafeBlocks(t *testing.T) {
	input := "fn f() { unsafe { unsafe { x } } }"
	builder, _ := mustParse(t, input)
	var spans []string
	for _, blk := range builder.Blocks.Arena.Slice() {
		if blk.IsUnsafe() {
			spans = append(spans, snippet(input, blk.Span))
		}
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 unsafe blocks, got %d", len(spans))
	}
	if spans[0] != "unsafe { x }" || spans[1] != "unsafe { unsafe { x } }" {
		t.Errorf("spans = %q", spans)
	}
}

func TestExpressionStatementNeedsSemicolon(t *testing.T) {
	_, _, bag := parseSource(t, "fn f() { a() b() }")
	if !hasCode(bag, diag.SynExpectSemicolon) {
		t.Fatalf("expected missing ';' error, got %s", diagnosticsSummary(bag))
	}
}

func TestBlockLikeStatementWithPostfix(t *testing.T) {
	builder, stmts := bodyStmts(t, "unsafe { f() }.len(); match x { _ => y }? ;")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	first, _ := builder.Stmts.Expr(stmts[0])
	if exprKind(builder, first.Expr) != ast.ExprMethodCall || !first.Semi {
		t.Errorf("first statement = %v semi=%v", exprKind(builder, first.Expr), first.Semi)
	}
	second, _ := builder.Stmts.Expr(stmts[1])
	if exprKind(builder, second.Expr) != ast.ExprTry {
		t.Errorf("second statement = %v, want Try", exprKind(builder, second.Expr))
	}
}
