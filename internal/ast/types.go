package ast

import (
	"unsafescan/internal/source"
)

type TypeKind uint8

const (
	TypeErr TypeKind = iota
	TypePath
	TypeRef
	TypePtr
	TypeSlice
	TypeArray
	TypeTuple
	TypeParen
	TypeNever
	TypeInfer
	TypeFnPtr
	TypeTraitObject
	TypeImplTrait
	TypeMacCall
	TypeCVarArgs
	TypeImplicitSelf
)

var typeKindNames = [...]string{
	TypeErr:          "Err",
	TypePath:         "Path",
	TypeRef:          "Ref",
	TypePtr:          "Ptr",
	TypeSlice:        "Slice",
	TypeArray:        "Array",
	TypeTuple:        "Tuple",
	TypeParen:        "Paren",
	TypeNever:        "Never",
	TypeInfer:        "Infer",
	TypeFnPtr:        "FnPtr",
	TypeTraitObject:  "TraitObject",
	TypeImplTrait:    "ImplTrait",
	TypeMacCall:      "MacCall",
	TypeCVarArgs:     "CVarArgs",
	TypeImplicitSelf: "ImplicitSelf",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "TypeKind(?)"
}

type Type struct {
	Kind    TypeKind
	Span    source.Span
	Payload PayloadID
}

type TypePathData struct {
	Path Path
}

// TypeRefData is `&'a mut T` and `*const T` / `*mut T`.
type TypeRefData struct {
	Lifetime Ident
	Mut      Mutability
	Elem     TypeID
}

type TypeElemData struct {
	Elem TypeID
}

type TypeArrayData struct {
	Elem TypeID
	Len  ExprID
}

type TypeTupleData struct {
	Elems []TypeID
}

type FnPtrParam struct {
	Span  source.Span
	Attrs []Attr
	Name  Ident
	Type  TypeID
}

// TypeFnPtrData is `for<'a> unsafe extern "C" fn(A, ...) -> R`.
type TypeFnPtrData struct {
	BoundGenerics []GenericParam
	Unsafety      Unsafety
	Extern        bool
	ABI           string
	Params        []FnPtrParam
	Variadic      bool
	Output        TypeID
}

type TypeBoundsData struct {
	Dyn    bool
	Bounds []GenericBound
}

type Types struct {
	Arena      *Arena[Type]
	Paths      *Arena[TypePathData]
	Refs       *Arena[TypeRefData]
	Elems      *Arena[TypeElemData]
	Arrays     *Arena[TypeArrayData]
	Tuples     *Arena[TypeTupleData]
	FnPtrs     *Arena[TypeFnPtrData]
	BoundLists *Arena[TypeBoundsData]
	MacCalls   *Arena[MacCall]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Types{
		Arena:      NewArena[Type](capHint),
		Paths:      NewArena[TypePathData](capHint / 8),
		Refs:       NewArena[TypeRefData](capHint / 8),
		Elems:      NewArena[TypeElemData](capHint / 8),
		Arrays:     NewArena[TypeArrayData](capHint / 8),
		Tuples:     NewArena[TypeTupleData](capHint / 8),
		FnPtrs:     NewArena[TypeFnPtrData](capHint / 8),
		BoundLists: NewArena[TypeBoundsData](capHint / 8),
		MacCalls:   NewArena[MacCall](capHint / 8),
	}
}

func (t *Types) new(kind TypeKind, span source.Span, payload PayloadID) TypeID {
	return TypeID(t.Arena.Allocate(Type{Kind: kind, Span: span, Payload: payload}))
}

func (t *Types) Get(id TypeID) *Type {
	return t.Arena.Get(uint32(id))
}

// NewSimple allocates a node whose kind carries no payload.
func (t *Types) NewSimple(kind TypeKind, span source.Span) TypeID {
	return t.new(kind, span, NoPayloadID)
}

func (t *Types) NewPath(span source.Span, path Path) TypeID {
	payload := PayloadID(t.Paths.Allocate(TypePathData{Path: path}))
	return t.new(TypePath, span, payload)
}

func (t *Types) Path(id TypeID) (*TypePathData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypePath {
		return nil, false
	}
	return t.Paths.Get(uint32(n.Payload)), true
}

func (t *Types) NewRef(kind TypeKind, span source.Span, lifetime Ident, mut Mutability, elem TypeID) TypeID {
	payload := PayloadID(t.Refs.Allocate(TypeRefData{Lifetime: lifetime, Mut: mut, Elem: elem}))
	return t.new(kind, span, payload)
}

func (t *Types) Ref(id TypeID) (*TypeRefData, bool) {
	n := t.Get(id)
	if n == nil || (n.Kind != TypeRef && n.Kind != TypePtr) {
		return nil, false
	}
	return t.Refs.Get(uint32(n.Payload)), true
}

func (t *Types) NewElem(kind TypeKind, span source.Span, elem TypeID) TypeID {
	payload := PayloadID(t.Elems.Allocate(TypeElemData{Elem: elem}))
	return t.new(kind, span, payload)
}

func (t *Types) Elem(id TypeID) (*TypeElemData, bool) {
	n := t.Get(id)
	if n == nil || (n.Kind != TypeSlice && n.Kind != TypeParen) {
		return nil, false
	}
	return t.Elems.Get(uint32(n.Payload)), true
}

func (t *Types) NewArray(span source.Span, elem TypeID, length ExprID) TypeID {
	payload := PayloadID(t.Arrays.Allocate(TypeArrayData{Elem: elem, Len: length}))
	return t.new(TypeArray, span, payload)
}

func (t *Types) Array(id TypeID) (*TypeArrayData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeArray {
		return nil, false
	}
	return t.Arrays.Get(uint32(n.Payload)), true
}

func (t *Types) NewTuple(span source.Span, elems []TypeID) TypeID {
	payload := PayloadID(t.Tuples.Allocate(TypeTupleData{Elems: elems}))
	return t.new(TypeTuple, span, payload)
}

func (t *Types) Tuple(id TypeID) (*TypeTupleData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeTuple {
		return nil, false
	}
	return t.Tuples.Get(uint32(n.Payload)), true
}

func (t *Types) NewFnPtr(span source.Span, data TypeFnPtrData) TypeID {
	payload := PayloadID(t.FnPtrs.Allocate(data))
	return t.new(TypeFnPtr, span, payload)
}

func (t *Types) FnPtr(id TypeID) (*TypeFnPtrData, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeFnPtr {
		return nil, false
	}
	return t.FnPtrs.Get(uint32(n.Payload)), true
}

func (t *Types) NewBounds(kind TypeKind, span source.Span, dyn bool, bounds []GenericBound) TypeID {
	payload := PayloadID(t.BoundLists.Allocate(TypeBoundsData{Dyn: dyn, Bounds: bounds}))
	return t.new(kind, span, payload)
}

func (t *Types) Bounds(id TypeID) (*TypeBoundsData, bool) {
	n := t.Get(id)
	if n == nil || (n.Kind != TypeTraitObject && n.Kind != TypeImplTrait) {
		return nil, false
	}
	return t.BoundLists.Get(uint32(n.Payload)), true
}

func (t *Types) NewMacCall(span source.Span, data MacCall) TypeID {
	payload := PayloadID(t.MacCalls.Allocate(data))
	return t.new(TypeMacCall, span, payload)
}

func (t *Types) MacCall(id TypeID) (*MacCall, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != TypeMacCall {
		return nil, false
	}
	return t.MacCalls.Get(uint32(n.Payload)), true
}

