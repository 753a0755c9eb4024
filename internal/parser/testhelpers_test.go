package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/lexer"
	"unsafescan/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	return parseSourceWithOptions(t, input, Options{})
}

func parseSourceWithOptions(t *testing.T, input string, opts Options) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	if opts.MaxErrors == 0 {
		opts.MaxErrors = 100
	}
	opts.Reporter = reporter
	result := ParseFile(context.Background(), fs, lx, builder, opts)
	return builder, result.File, result.Bag
}

// mustParse падает на любой ошибке разбора.
func mustParse(t *testing.T, input string) (*ast.Builder, ast.FileID) {
	t.Helper()
	builder, fileID, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(bag))
	}
	return builder, fileID
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil || bag.Len() == 0 {
		return "<none>"
	}
	parts := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		parts = append(parts, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return strings.Join(parts, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func fileItems(t *testing.T, builder *ast.Builder, fileID ast.FileID) []ast.ItemID {
	t.Helper()
	file := builder.Files.Get(fileID)
	if file == nil {
		t.Fatalf("file %d not found", fileID)
	}
	return file.Items
}

func singleItem(t *testing.T, builder *ast.Builder, fileID ast.FileID) ast.ItemID {
	t.Helper()
	items := fileItems(t, builder, fileID)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	return items[0]
}

func fnItem(t *testing.T, builder *ast.Builder, id ast.ItemID) *ast.FnItem {
	t.Helper()
	fn, ok := builder.Items.Fn(id)
	if !ok {
		t.Fatalf("item %d is %s, not a fn", id, builder.Items.Get(id).Kind)
	}
	return fn
}

// bodyStmts разбирает `fn f() { body }` и возвращает операторы тела.
func bodyStmts(t *testing.T, body string) (*ast.Builder, []ast.StmtID) {
	t.Helper()
	builder, fileID := mustParse(t, "fn f() { "+body+" }")
	fn := fnItem(t, builder, singleItem(t, builder, fileID))
	return builder, builder.Blocks.Get(fn.Body).Stmts
}

// parseBodyExpr возвращает выражение первого оператора тела функции.
func parseBodyExpr(t *testing.T, expr string) (*ast.Builder, ast.ExprID) {
	t.Helper()
	builder, stmts := bodyStmts(t, expr+";")
	if len(stmts) == 0 {
		t.Fatalf("no statements parsed from %q", expr)
	}
	data, ok := builder.Stmts.Expr(stmts[0])
	if !ok {
		t.Fatalf("first statement of %q is %s, not an expression", expr, builder.Stmts.Get(stmts[0]).Kind)
	}
	return builder, data.Expr
}

func exprKind(builder *ast.Builder, id ast.ExprID) ast.ExprKind {
	return builder.Exprs.Get(id).Kind
}

func snippet(input string, sp source.Span) string {
	return input[sp.Start:sp.End]
}
