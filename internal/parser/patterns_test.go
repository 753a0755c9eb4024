package parser

import (
	"testing"

	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
)

// letPat разбирает `let <pat> = v;` и возвращает паттерн.
func letPat(t *testing.T, pat string) (*ast.Builder, ast.PatID) {
	t.Helper()
	builder, stmts := bodyStmts(t, "let "+pat+" = v;")
	let, ok := builder.Stmts.Let(stmts[0])
	if !ok {
		t.Fatalf("expected let statement for %q", pat)
	}
	return builder, let.Pat
}

func TestPatternKinds(t *testing.T) {
	tests := []struct {
		input string
		want  ast.PatKind
	}{
		{"_", ast.PatWild},
		{"x", ast.PatIdent},
		{"ref mut x", ast.PatIdent},
		{"(a, ref mut b, _, ..)", ast.PatTuple},
		{"(a)", ast.PatParen},
		{"(..)", ast.PatTuple},
		{"[first, .., last]", ast.PatSlice},
		{"Point { x, y: py, .. }", ast.PatStruct},
		{"Some(inner)", ast.PatTupleStruct},
		{"E::Unit", ast.PatPath},
		{"&(a, b)", ast.PatRef},
		{"&&x", ast.PatRef},
		{"box x", ast.PatBox},
		{"x @ 1..=5", ast.PatIdent},
		{"-1", ast.PatLit},
		{"b'a'..=b'z'", ast.PatRange},
		{"m!(x)", ast.PatMacCall},
		{"const { N }", ast.PatLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			builder, id := letPat(t, tt.input)
			if got := builder.Pats.Get(id).Kind; got != tt.want {
				t.Errorf("pattern kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentPatternDetails(t *testing.T) {
	builder, id := letPat(t, "ref mut x @ Some(_)")
	data, ok := builder.Pats.Ident(id)
	if !ok {
		t.Fatalf("expected ident pattern, got %v", builder.Pats.Get(id).Kind)
	}
	if !data.ByRef || data.Mut != ast.Mut || builder.Name(data.Ident.Name) != "x" {
		t.Errorf("ident pattern = %+v", data)
	}
	if builder.Pats.Get(data.Sub).Kind != ast.PatTupleStruct {
		t.Errorf("sub-pattern = %v", builder.Pats.Get(data.Sub).Kind)
	}
}

func TestStructPatternFields(t *testing.T) {
	builder, id := letPat(t, "Point { x, y: py, mut z, .. }")
	data, ok := builder.Pats.Struct(id)
	if !ok {
		t.Fatalf("expected struct pattern, got %v", builder.Pats.Get(id).Kind)
	}
	if !data.Rest || len(data.Fields) != 3 {
		t.Fatalf("struct pattern = %+v", data)
	}
	shorthand := []bool{true, false, true}
	for i, f := range data.Fields {
		if f.Shorthand != shorthand[i] {
			t.Errorf("field %d shorthand = %v", i, f.Shorthand)
		}
	}
	if got := builder.Name(data.Fields[2].Ident.Name); got != "z" {
		t.Errorf("third field = %q, want z", got)
	}
}

func TestOrPatternsInMatch(t *testing.T) {
	builder, id := parseBodyExpr(t, "match v { | E::A(..) | E::B { .. } => {} }")
	m, _ := builder.Exprs.Match(id)
	if len(m.Arms) != 1 {
		t.Fatalf("expected 1 arm, got %d", len(m.Arms))
	}
	or, ok := builder.Pats.List(m.Arms[0].Pat)
	if !ok || builder.Pats.Get(m.Arms[0].Pat).Kind != ast.PatOr || len(or.Elems) != 2 {
		t.Fatalf("arm pattern = %v", builder.Pats.Get(m.Arms[0].Pat).Kind)
	}
}

func TestDeprecatedRangePatternWarns(t *testing.T) {
	_, _, bag := parseSource(t, "fn f() { match c { 0...9 => {} _ => {} } }")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(bag))
	}
	if !hasCode(bag, diag.SynDeprecatedSyntax) {
		t.Fatalf("expected deprecation warning, got %s", diagnosticsSummary(bag))
	}
}
