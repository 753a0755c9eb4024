package ast

import (
	"unsafescan/internal/source"
)

type PatKind uint8

const (
	PatErr PatKind = iota
	PatWild
	PatIdent
	PatLit
	PatRange
	PatPath
	PatTupleStruct
	PatStruct
	PatTuple
	PatSlice
	PatOr
	PatRef
	PatBox
	PatParen
	PatDeref
	PatRest
	PatMacCall
)

var patKindNames = [...]string{
	PatErr:         "Err",
	PatWild:        "Wild",
	PatIdent:       "Ident",
	PatLit:         "Lit",
	PatRange:       "Range",
	PatPath:        "Path",
	PatTupleStruct: "TupleStruct",
	PatStruct:      "Struct",
	PatTuple:       "Tuple",
	PatSlice:       "Slice",
	PatOr:          "Or",
	PatRef:         "Ref",
	PatBox:         "Box",
	PatParen:       "Paren",
	PatDeref:       "Deref",
	PatRest:        "Rest",
	PatMacCall:     "MacCall",
}

func (k PatKind) String() string {
	if int(k) < len(patKindNames) {
		return patKindNames[k]
	}
	return "PatKind(?)"
}

type Pat struct {
	Kind    PatKind
	Span    source.Span
	Payload PayloadID
}

// PatIdentData is `ref mut name @ sub`.
type PatIdentData struct {
	ByRef bool
	Mut   Mutability
	Ident Ident
	Sub   PatID
}

// PatExprData wraps a literal, a negated literal or a const block.
type PatExprData struct {
	Expr ExprID
}

// PatRangeData is `a..=b`, `a..b`, `a..` or `..=b`.
type PatRangeData struct {
	Start     ExprID
	End       ExprID
	Inclusive bool
}

type PatPathData struct {
	Path Path
}

type PatTupleStructData struct {
	Path  Path
	Elems []PatID
}

type PatField struct {
	Span      source.Span
	Attrs     []Attr
	Ident     Ident
	Pat       PatID
	Shorthand bool
}

type PatStructData struct {
	Path   Path
	Fields []PatField
	Rest   bool
}

type PatListData struct {
	Elems []PatID
}

type PatInnerData struct {
	Mut   Mutability
	Inner PatID
}

type Pats struct {
	Arena        *Arena[Pat]
	Idents       *Arena[PatIdentData]
	Exprs        *Arena[PatExprData]
	Ranges       *Arena[PatRangeData]
	Paths        *Arena[PatPathData]
	TupleStructs *Arena[PatTupleStructData]
	Structs      *Arena[PatStructData]
	Lists        *Arena[PatListData]
	Inners       *Arena[PatInnerData]
	MacCalls     *Arena[MacCall]
}

func NewPats(capHint uint) *Pats {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Pats{
		Arena:        NewArena[Pat](capHint),
		Idents:       NewArena[PatIdentData](capHint / 8),
		Exprs:        NewArena[PatExprData](capHint / 8),
		Ranges:       NewArena[PatRangeData](capHint / 8),
		Paths:        NewArena[PatPathData](capHint / 8),
		TupleStructs: NewArena[PatTupleStructData](capHint / 8),
		Structs:      NewArena[PatStructData](capHint / 8),
		Lists:        NewArena[PatListData](capHint / 8),
		Inners:       NewArena[PatInnerData](capHint / 8),
		MacCalls:     NewArena[MacCall](capHint / 8),
	}
}

func (p *Pats) new(kind PatKind, span source.Span, payload PayloadID) PatID {
	return PatID(p.Arena.Allocate(Pat{Kind: kind, Span: span, Payload: payload}))
}

func (p *Pats) Get(id PatID) *Pat {
	return p.Arena.Get(uint32(id))
}

// NewSimple allocates a node whose kind carries no payload.
func (p *Pats) NewSimple(kind PatKind, span source.Span) PatID {
	return p.new(kind, span, NoPayloadID)
}

func (p *Pats) NewIdent(span source.Span, data PatIdentData) PatID {
	payload := PayloadID(p.Idents.Allocate(data))
	return p.new(PatIdent, span, payload)
}

func (p *Pats) Ident(id PatID) (*PatIdentData, bool) {
	n := p.Get(id)
	if n == nil || n.Kind != PatIdent {
		return nil, false
	}
	return p.Idents.Get(uint32(n.Payload)), true
}

func (p *Pats) NewExpr(span source.Span, expr ExprID) PatID {
	payload := PayloadID(p.Exprs.Allocate(PatExprData{Expr: expr}))
	return p.new(PatLit, span, payload)
}

func (p *Pats) Expr(id PatID) (*PatExprData, bool) {
	n := p.Get(id)
	if n == nil || n.Kind != PatLit {
		return nil, false
	}
	return p.Exprs.Get(uint32(n.Payload)), true
}

func (p *Pats) NewRange(span source.Span, start ExprID, end ExprID, inclusive bool) PatID {
	payload := PayloadID(p.Ranges.Allocate(PatRangeData{Start: start, End: end, Inclusive: inclusive}))
	return p.new(PatRange, span, payload)
}

func (p *Pats) Range(id PatID) (*PatRangeData, bool) {
	n := p.Get(id)
	if n == nil || n.Kind != PatRange {
		return nil, false
	}
	return p.Ranges.Get(uint32(n.Payload)), true
}

func (p *Pats) NewPath(span source.Span, path Path) PatID {
	payload := PayloadID(p.Paths.Allocate(PatPathData{Path: path}))
	return p.new(PatPath, span, payload)
}

func (p *Pats) Path(id PatID) (*PatPathData, bool) {
	n := p.Get(id)
	if n == nil || n.Kind != PatPath {
		return nil, false
	}
	return p.Paths.Get(uint32(n.Payload)), true
}

func (p *Pats) NewTupleStruct(span source.Span, path Path, elems []PatID) PatID {
	payload := PayloadID(p.TupleStructs.Allocate(PatTupleStructData{Path: path, Elems: elems}))
	return p.new(PatTupleStruct, span, payload)
}

func (p *Pats) TupleStruct(id PatID) (*PatTupleStructData, bool) {
	n := p.Get(id)
	if n == nil || n.Kind != PatTupleStruct {
		return nil, false
	}
	return p.TupleStructs.Get(uint32(n.Payload)), true
}

func (p *Pats) NewStruct(span source.Span, path Path, fields []PatField, rest bool) PatID {
	payload := PayloadID(p.Structs.Allocate(PatStructData{Path: path, Fields: fields, Rest: rest}))
	return p.new(PatStruct, span, payload)
}

func (p *Pats) Struct(id PatID) (*PatStructData, bool) {
	n := p.Get(id)
	if n == nil || n.Kind != PatStruct {
		return nil, false
	}
	return p.Structs.Get(uint32(n.Payload)), true
}

func (p *Pats) NewList(kind PatKind, span source.Span, elems []PatID) PatID {
	payload := PayloadID(p.Lists.Allocate(PatListData{Elems: elems}))
	return p.new(kind, span, payload)
}

func (p *Pats) List(id PatID) (*PatListData, bool) {
	n := p.Get(id)
	if n == nil || (n.Kind != PatTuple && n.Kind != PatSlice && n.Kind != PatOr) {
		return nil, false
	}
	return p.Lists.Get(uint32(n.Payload)), true
}

func (p *Pats) NewInner(kind PatKind, span source.Span, mut Mutability, inner PatID) PatID {
	payload := PayloadID(p.Inners.Allocate(PatInnerData{Mut: mut, Inner: inner}))
	return p.new(kind, span, payload)
}

func (p *Pats) Inner(id PatID) (*PatInnerData, bool) {
	n := p.Get(id)
	if n == nil || (n.Kind != PatRef && n.Kind != PatBox && n.Kind != PatParen && n.Kind != PatDeref) {
		return nil, false
	}
	return p.Inners.Get(uint32(n.Payload)), true
}

func (p *Pats) NewMacCall(span source.Span, data MacCall) PatID {
	payload := PayloadID(p.MacCalls.Allocate(data))
	return p.new(PatMacCall, span, payload)
}

func (p *Pats) MacCall(id PatID) (*MacCall, bool) {
	n := p.Get(id)
	if n == nil || n.Kind != PatMacCall {
		return nil, false
	}
	return p.MacCalls.Get(uint32(n.Payload)), true
}

