package parser

import (
	"testing"

	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
)

// bodyMacro разбирает тело и возвращает первый макро-вызов выражения.
func bodyMacro(t *testing.T, body string, opts Options) (*ast.Builder, *ast.MacCall, *diag.Bag) {
	t.Helper()
	builder, fileID, bag := parseSourceWithOptions(t, "fn f() { "+body+" }", opts)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(bag))
	}
	fn := fnItem(t, builder, singleItem(t, builder, fileID))
	stmts := builder.Blocks.Get(fn.Body).Stmts
	if len(stmts) == 0 {
		t.Fatal("empty body")
	}
	data, ok := builder.Stmts.Expr(stmts[0])
	if !ok {
		t.Fatalf("first statement is %v", builder.Stmts.Get(stmts[0]).Kind)
	}
	mac, ok := builder.Exprs.MacCall(data.Expr)
	if !ok {
		t.Fatalf("expected macro call, got %v", exprKind(builder, data.Expr))
	}
	return builder, mac, bag
}

func TestMacroArgsStayOpaqueByDefault(t *testing.T) {
	input := `println!("{}", unsafe { x });`
	builder, mac, _ := bodyMacro(t, input, Options{})
	if mac.Expanded || len(mac.Args) != 0 {
		t.Fatalf("macro expanded without ExpandMacroArgs: %+v", mac)
	}
	if mac.Delim != ast.MacParen {
		t.Errorf("delim = %v", mac.Delim)
	}
	src := "fn f() { " + input + " }"
	if got := snippet(src, mac.Inner); got != `"{}", unsafe { x }` {
		t.Errorf("inner span = %q", got)
	}
	for _, blk := range builder.Blocks.Arena.Slice() {
		if blk.IsUnsafe() {
			t.Fatal("unsafe block inside an unexpanded macro must not be parsed")
		}
	}
}

func TestMacroArgsExpansion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  int
		delim ast.MacDelim
	}{
		{"format args", `println!("{}", unsafe { x });`, 2, ast.MacParen},
		{"vec repeat", "vec![0; n];", 2, ast.MacBracket},
		{"trailing comma", "assert_eq!(a, b,);", 2, ast.MacParen},
		{"empty", "todo!();", 0, ast.MacParen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mac, bag := bodyMacro(t, tt.input, Options{ExpandMacroArgs: true})
			if !mac.Expanded {
				t.Fatalf("macro not expanded: %s", diagnosticsSummary(bag))
			}
			if len(mac.Args) != tt.args || mac.Delim != tt.delim {
				t.Errorf("args = %d delim = %v, want %d %v", len(mac.Args), mac.Delim, tt.args, tt.delim)
			}
		})
	}
}

func TestMacroExpansionFindsUnsafeBlock(t *testing.T) {
	input := `fn f() { println!("{}", unsafe { x }); }`
	builder, _, bag := parseSourceWithOptions(t, input, Options{ExpandMacroArgs: true})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(bag))
	}
	var found []string
	for _, blk := range builder.Blocks.Arena.Slice() {
		if blk.IsUnsafe() {
			found = append(found, snippet(input, blk.Span))
		}
	}
	if len(found) != 1 || found[0] != "unsafe { x }" {
		t.Fatalf("unsafe blocks = %q", found)
	}
}

func TestMacroArgsNotAnExpressionList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantInfo bool
	}{
		{"arrow tokens", "m!(a => b);", true},
		{"keyword soup", "m!(struct S);", true},
		{"brace delimited", "m! { unsafe { x } }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mac, bag := bodyMacro(t, tt.input, Options{ExpandMacroArgs: true})
			if mac.Expanded {
				t.Fatal("macro must stay unexpanded")
			}
			if got := hasCode(bag, diag.SynMacroArgsNotParsed); got != tt.wantInfo {
				t.Fatalf("info diagnostic = %v, want %v (%s)", got, tt.wantInfo, diagnosticsSummary(bag))
			}
			for _, d := range bag.Items() {
				if d.Code == diag.SynMacroArgsNotParsed && d.Severity != diag.SevInfo {
					t.Errorf("severity = %v, want info", d.Severity)
				}
			}
		})
	}
}

func TestItemMacroRequiresSemicolon(t *testing.T) {
	_, _, bag := parseSource(t, "thread_local!(static X: u8 = 0)\nfn f() {}")
	if !hasCode(bag, diag.SynExpectSemicolon) {
		t.Fatalf("expected missing ';' error, got %s", diagnosticsSummary(bag))
	}
}
