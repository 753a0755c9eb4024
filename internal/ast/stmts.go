package ast

import (
	"unsafescan/internal/source"
)

type StmtKind uint8

const (
	StmtEmpty StmtKind = iota
	StmtLet
	StmtItem
	StmtExpr
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtItem:
		return "Item"
	case StmtExpr:
		return "Expr"
	default:
		return "Empty"
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Attrs   []Attr
	Payload PayloadID
}

// StmtLetData is `let pat: ty = init else { ... };`.
type StmtLetData struct {
	Pat  PatID
	Type TypeID
	Init ExprID
	Else BlockID
}

type StmtItemData struct {
	Item ItemID
}

// StmtExprData is an expression statement. Semi is false for a trailing
// expression or a block-like expression without `;`.
type StmtExprData struct {
	Expr ExprID
	Semi bool
}

type Stmts struct {
	Arena    *Arena[Stmt]
	Lets     *Arena[StmtLetData]
	ItemRefs *Arena[StmtItemData]
	ExprRefs *Arena[StmtExprData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Lets:     NewArena[StmtLetData](capHint / 8),
		ItemRefs: NewArena[StmtItemData](capHint / 8),
		ExprRefs: NewArena[StmtExprData](capHint / 8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, attrs []Attr, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Attrs: attrs, Payload: payload}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// NewSimple allocates a node whose kind carries no payload.
func (s *Stmts) NewSimple(kind StmtKind, span source.Span, attrs []Attr) StmtID {
	return s.new(kind, span, attrs, NoPayloadID)
}

func (s *Stmts) NewLet(span source.Span, attrs []Attr, data StmtLetData) StmtID {
	payload := PayloadID(s.Lets.Allocate(data))
	return s.new(StmtLet, span, attrs, payload)
}

func (s *Stmts) Let(id StmtID) (*StmtLetData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(n.Payload)), true
}

func (s *Stmts) NewItem(span source.Span, attrs []Attr, item ItemID) StmtID {
	payload := PayloadID(s.ItemRefs.Allocate(StmtItemData{Item: item}))
	return s.new(StmtItem, span, attrs, payload)
}

func (s *Stmts) Item(id StmtID) (*StmtItemData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtItem {
		return nil, false
	}
	return s.ItemRefs.Get(uint32(n.Payload)), true
}

func (s *Stmts) NewExpr(span source.Span, attrs []Attr, expr ExprID, semi bool) StmtID {
	payload := PayloadID(s.ExprRefs.Allocate(StmtExprData{Expr: expr, Semi: semi}))
	return s.new(StmtExpr, span, attrs, payload)
}

func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	n := s.Get(id)
	if n == nil || n.Kind != StmtExpr {
		return nil, false
	}
	return s.ExprRefs.Get(uint32(n.Payload)), true
}

