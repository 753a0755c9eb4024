package ast

import "testing"

func TestArenaIDsAreOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be reserved")
	}
	first := a.Allocate(10)
	second := a.Allocate(20)
	if first != 1 || second != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first, second)
	}
	if got := *a.Get(second); got != 20 {
		t.Fatalf("Get(%d) = %d, want 20", second, got)
	}
	if a.Get(3) != nil {
		t.Fatalf("out of range index must return nil")
	}
	if a.Len() != 2 || len(a.Slice()) != 2 {
		t.Fatalf("unexpected len %d", a.Len())
	}
}

func TestAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	lit := b.Exprs.NewLit(spanAt(0, 1), LitInt, b.StringsInterner.Intern("1"))
	if _, ok := b.Exprs.Call(lit); ok {
		t.Fatalf("Call accessor accepted a literal")
	}
	data, ok := b.Exprs.Lit(lit)
	if !ok || data.Kind != LitInt || b.Name(data.Text) != "1" {
		t.Fatalf("unexpected literal payload %+v", data)
	}
	paren := b.Exprs.NewWrap(ExprParen, spanAt(0, 3), lit)
	if w, ok := b.Exprs.Wrap(paren); !ok || w.Inner != lit {
		t.Fatalf("expected paren to wrap %d", lit)
	}
	if _, ok := b.Exprs.Wrap(NoExprID); ok {
		t.Fatalf("accessor must reject NoExprID")
	}
}
