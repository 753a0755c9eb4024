package parser

import (
	"testing"

	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
)

func TestBinaryPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOp    ast.BinaryOp
		wantRight ast.ExprKind
		wantLeft  ast.ExprKind
	}{
		{"mul binds tighter", "a + b * c", ast.BinAdd, ast.ExprBinary, ast.ExprPath},
		{"left assoc", "a - b - c", ast.BinSub, ast.ExprPath, ast.ExprBinary},
		{"cast before add", "x as u8 + 1", ast.BinAdd, ast.ExprLit, ast.ExprCast},
		{"and over or", "a || b && c", ast.BinOr, ast.ExprBinary, ast.ExprPath},
		{"shift", "1 << n >> 2", ast.BinShr, ast.ExprLit, ast.ExprBinary},
		{"comparison over and", "a == b && c", ast.BinAnd, ast.ExprPath, ast.ExprBinary},
		{"unary operand", "-a * *b", ast.BinMul, ast.ExprUnary, ast.ExprUnary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, id := parseBodyExpr(t, tt.input)
			bin, ok := builder.Exprs.Binary(id)
			if !ok || exprKind(builder, id) != ast.ExprBinary {
				t.Fatalf("expected binary expression, got %v", exprKind(builder, id))
			}
			if bin.Op != tt.wantOp {
				t.Errorf("op = %v, want %v", bin.Op, tt.wantOp)
			}
			if got := exprKind(builder, bin.Left); got != tt.wantLeft {
				t.Errorf("left = %v, want %v", got, tt.wantLeft)
			}
			if got := exprKind(builder, bin.Right); got != tt.wantRight {
				t.Errorf("right = %v, want %v", got, tt.wantRight)
			}
		})
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	builder, id := parseBodyExpr(t, "a = b += c")
	if exprKind(builder, id) != ast.ExprAssign {
		t.Fatalf("expected assign, got %v", exprKind(builder, id))
	}
	outer, _ := builder.Exprs.Binary(id)
	inner, ok := builder.Exprs.Binary(outer.Right)
	if !ok || exprKind(builder, outer.Right) != ast.ExprAssignOp || inner.Op != ast.BinAdd {
		t.Fatalf("right side = %v, want `+=`", exprKind(builder, outer.Right))
	}
}

func TestCastBindsToUnary(t *testing.T) {
	builder, id := parseBodyExpr(t, "-x as u8")
	cast, ok := builder.Exprs.Cast(id)
	if !ok {
		t.Fatalf("expected cast, got %v", exprKind(builder, id))
	}
	if exprKind(builder, cast.Expr) != ast.ExprUnary {
		t.Errorf("cast operand = %v, want Unary", exprKind(builder, cast.Expr))
	}
}

func TestRangeExpressions(t *testing.T) {
	tests := []struct {
		input     string
		hasStart  bool
		hasEnd    bool
		inclusive bool
	}{
		{"a..b", true, true, false},
		{"a..", true, false, false},
		{"..b", false, true, false},
		{"..=b", false, true, true},
		{"..", false, false, false},
		{"0..n + 1", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			builder, id := parseBodyExpr(t, tt.input)
			r, ok := builder.Exprs.Range(id)
			if !ok {
				t.Fatalf("expected range, got %v", exprKind(builder, id))
			}
			if r.Start.IsValid() != tt.hasStart || r.End.IsValid() != tt.hasEnd || r.Inclusive != tt.inclusive {
				t.Errorf("range = %+v", r)
			}
		})
	}
}

func TestNestedTupleIndex(t *testing.T) {
	input := "fn f() { x.0.1; }"
	builder, fileID := mustParse(t, input)
	fn := fnItem(t, builder, singleItem(t, builder, fileID))
	stmt, _ := builder.Stmts.Expr(builder.Blocks.Get(fn.Body).Stmts[0])

	outer, ok := builder.Exprs.Field(stmt.Expr)
	if !ok {
		t.Fatalf("expected field access, got %v", exprKind(builder, stmt.Expr))
	}
	if got := builder.Name(outer.Field.Name); got != "1" {
		t.Errorf("outer field = %q, want 1", got)
	}
	inner, ok := builder.Exprs.Field(outer.Expr)
	if !ok || builder.Name(inner.Field.Name) != "0" {
		t.Fatalf("inner access = %v", exprKind(builder, outer.Expr))
	}
	if got := snippet(input, builder.Exprs.Get(stmt.Expr).Span); got != "x.0.1" {
		t.Errorf("span = %q", got)
	}
}

func TestPostfixChains(t *testing.T) {
	builder, id := parseBodyExpr(t, "v.iter().map(|x| x + 1).collect::<Vec<Vec<u8>>>()")
	mc, ok := builder.Exprs.MethodCall(id)
	if !ok {
		t.Fatalf("expected method call, got %v", exprKind(builder, id))
	}
	if builder.Name(mc.Segment.Ident.Name) != "collect" || mc.Segment.Args == nil {
		t.Errorf("outer segment = %+v", mc.Segment)
	}
	mapCall, ok := builder.Exprs.MethodCall(mc.Receiver)
	if !ok || len(mapCall.Args) != 1 || exprKind(builder, mapCall.Args[0]) != ast.ExprClosure {
		t.Fatalf("map call = %+v", mapCall)
	}

	builder, id = parseBodyExpr(t, "f(a)?.await[0]")
	idx, ok := builder.Exprs.Index(id)
	if !ok {
		t.Fatalf("expected index, got %v", exprKind(builder, id))
	}
	if exprKind(builder, idx.Expr) != ast.ExprAwait {
		t.Errorf("indexed = %v, want Await", exprKind(builder, idx.Expr))
	}
}

func TestAddrOfForms(t *testing.T) {
	tests := []struct {
		input   string
		raw     bool
		mut     ast.Mutability
		operand ast.ExprKind
	}{
		{"&x", false, ast.Not, ast.ExprPath},
		{"&mut x", false, ast.Mut, ast.ExprPath},
		{"&raw const x", true, ast.Not, ast.ExprPath},
		{"&raw mut x", true, ast.Mut, ast.ExprPath},
		{"&&x", false, ast.Not, ast.ExprAddrOf},
		{"&raw", false, ast.Not, ast.ExprPath},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			builder, id := parseBodyExpr(t, tt.input)
			a, ok := builder.Exprs.AddrOf(id)
			if !ok {
				t.Fatalf("expected addr-of, got %v", exprKind(builder, id))
			}
			if a.Raw != tt.raw || a.Mut != tt.mut || exprKind(builder, a.Operand) != tt.operand {
				t.Errorf("got raw=%v mut=%v operand=%v", a.Raw, a.Mut, exprKind(builder, a.Operand))
			}
		})
	}
}

func TestStructLiteralRestriction(t *testing.T) {
	builder, stmts := bodyStmts(t, "if s == S {} let p = P { a: 1, b, ..Default::default() };")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	ifStmt, _ := builder.Stmts.Expr(stmts[0])
	ifData, ok := builder.Exprs.If(ifStmt.Expr)
	if !ok {
		t.Fatalf("expected if, got %v", exprKind(builder, ifStmt.Expr))
	}
	if exprKind(builder, ifData.Cond) != ast.ExprBinary {
		t.Errorf("condition = %v, want Binary", exprKind(builder, ifData.Cond))
	}

	let, _ := builder.Stmts.Let(stmts[1])
	lit, ok := builder.Exprs.Struct(let.Init)
	if !ok {
		t.Fatalf("expected struct literal, got %v", exprKind(builder, let.Init))
	}
	if len(lit.Fields) != 2 || !lit.Fields[1].Shorthand || lit.Rest != ast.StructRestBase {
		t.Errorf("struct literal = %+v", lit)
	}
}

func TestLetChainsInIf(t *testing.T) {
	builder, id := parseBodyExpr(t, "if let Some(x) = y && z { }")
	ifData, ok := builder.Exprs.If(id)
	if !ok {
		t.Fatalf("expected if, got %v", exprKind(builder, id))
	}
	cond, ok := builder.Exprs.Binary(ifData.Cond)
	if !ok || cond.Op != ast.BinAnd {
		t.Fatalf("condition = %v", exprKind(builder, ifData.Cond))
	}
	if exprKind(builder, cond.Left) != ast.ExprLet {
		t.Errorf("left of && = %v, want Let", exprKind(builder, cond.Left))
	}
}

func TestMatchArms(t *testing.T) {
	builder, id := parseBodyExpr(t, "match x { 1 | 2 => a, _ if c => { b } 3..=5 => {} _ => unsafe { d } }")
	m, ok := builder.Exprs.Match(id)
	if !ok {
		t.Fatalf("expected match, got %v", exprKind(builder, id))
	}
	if len(m.Arms) != 4 {
		t.Fatalf("expected 4 arms, got %d", len(m.Arms))
	}
	if builder.Pats.Get(m.Arms[0].Pat).Kind != ast.PatOr {
		t.Errorf("arm 0 pattern = %v, want Or", builder.Pats.Get(m.Arms[0].Pat).Kind)
	}
	if !m.Arms[1].Guard.IsValid() {
		t.Error("arm 1 lost its guard")
	}
	if builder.Pats.Get(m.Arms[2].Pat).Kind != ast.PatRange {
		t.Errorf("arm 2 pattern = %v, want Range", builder.Pats.Get(m.Arms[2].Pat).Kind)
	}
	body, ok := builder.Exprs.Block(m.Arms[3].Body)
	if !ok || !builder.Blocks.Get(body.Block).IsUnsafe() {
		t.Error("arm 3 body is not an unsafe block")
	}
}

func TestClosureForms(t *testing.T) {
	tests := []struct {
		input  string
		params int
		move   bool
		async  bool
		body   ast.ExprKind
	}{
		{"|| 1", 0, false, false, ast.ExprLit},
		{"|a, b: u8| a + b", 2, false, false, ast.ExprBinary},
		{"move |x| -> u8 { x }", 1, true, false, ast.ExprBlock},
		{"async move || unsafe { f() }", 0, true, true, ast.ExprBlock},
		{"|&(a, b)| a", 1, false, false, ast.ExprPath},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			builder, id := parseBodyExpr(t, tt.input)
			c, ok := builder.Exprs.Closure(id)
			if !ok {
				t.Fatalf("expected closure, got %v", exprKind(builder, id))
			}
			if len(c.Params) != tt.params || c.Move != tt.move || c.Async != tt.async {
				t.Errorf("closure = %+v", c)
			}
			if exprKind(builder, c.Body) != tt.body {
				t.Errorf("body = %v, want %v", exprKind(builder, c.Body), tt.body)
			}
		})
	}
}

func TestControlFlowExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  ast.ExprKind
	}{
		{"'a: loop { break 'a 1; }", ast.ExprLoop},
		{"while x < 3 { x += 1; }", ast.ExprWhile},
		{"for i in 0..n {}", ast.ExprFor},
		{"async move { 1 }", ast.ExprAsync},
		{"const { 1 + 1 }", ast.ExprConstBlock},
		{"return", ast.ExprReturn},
		{"(a, b,)", ast.ExprTuple},
		{"(a)", ast.ExprParen},
		{"[0u8; 16]", ast.ExprRepeat},
		{"[1, 2, 3]", ast.ExprArray},
		{"_ = f()", ast.ExprAssign},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			builder, id := parseBodyExpr(t, tt.input)
			if got := exprKind(builder, id); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChainedComparisonIsRejected(t *testing.T) {
	_, _, bag := parseSource(t, "fn f() { a < b < c; }")
	if !hasCode(bag, diag.SynChainedComparison) {
		t.Fatalf("expected chained comparison error, got %s", diagnosticsSummary(bag))
	}
}
