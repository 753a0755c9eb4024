package ast

import (
	"unsafescan/internal/source"
)

type ExprKind uint8

const (
	ExprErr ExprKind = iota
	ExprLit
	ExprPath
	ExprUnary
	ExprAddrOf
	ExprBinary
	ExprAssign
	ExprAssignOp
	ExprCast
	ExprCall
	ExprMethodCall
	ExprField
	ExprIndex
	ExprRange
	ExprTuple
	ExprArray
	ExprRepeat
	ExprStruct
	ExprParen
	ExprBlock
	ExprAsync
	ExprConstBlock
	ExprIf
	ExprLet
	ExprWhile
	ExprLoop
	ExprFor
	ExprMatch
	ExprClosure
	ExprBreak
	ExprContinue
	ExprReturn
	ExprYield
	ExprBecome
	ExprTry
	ExprAwait
	ExprMacCall
	ExprUnderscore
)

var exprKindNames = [...]string{
	ExprErr:        "Err",
	ExprLit:        "Lit",
	ExprPath:       "Path",
	ExprUnary:      "Unary",
	ExprAddrOf:     "AddrOf",
	ExprBinary:     "Binary",
	ExprAssign:     "Assign",
	ExprAssignOp:   "AssignOp",
	ExprCast:       "Cast",
	ExprCall:       "Call",
	ExprMethodCall: "MethodCall",
	ExprField:      "Field",
	ExprIndex:      "Index",
	ExprRange:      "Range",
	ExprTuple:      "Tuple",
	ExprArray:      "Array",
	ExprRepeat:     "Repeat",
	ExprStruct:     "Struct",
	ExprParen:      "Paren",
	ExprBlock:      "Block",
	ExprAsync:      "Async",
	ExprConstBlock: "ConstBlock",
	ExprIf:         "If",
	ExprLet:        "Let",
	ExprWhile:      "While",
	ExprLoop:       "Loop",
	ExprFor:        "For",
	ExprMatch:      "Match",
	ExprClosure:    "Closure",
	ExprBreak:      "Break",
	ExprContinue:   "Continue",
	ExprReturn:     "Return",
	ExprYield:      "Yield",
	ExprBecome:     "Become",
	ExprTry:        "Try",
	ExprAwait:      "Await",
	ExprMacCall:    "MacCall",
	ExprUnderscore: "Underscore",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "ExprKind(?)"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitChar
	LitByte
	LitStr
	LitByteStr
	LitCStr
	LitBool
)

type ExprLitData struct {
	Kind LitKind
	Text source.StringID
}

type ExprPathData struct {
	Path Path
}

type UnaryOp uint8

const (
	UnaryDeref UnaryOp = iota // *x
	UnaryNot                  // !x
	UnaryNeg                  // -x
)

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

// ExprAddrOfData is `&x`, `&mut x`, `&raw const x` and `&raw mut x`.
type ExprAddrOfData struct {
	Raw     bool
	Mut     Mutability
	Operand ExprID
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd // &&
	BinOr  // ||
	BinBitXor
	BinBitAnd
	BinBitOr
	BinShl
	BinShr
	BinEq
	BinLt
	BinLe
	BinNe
	BinGe
	BinGt
)

// ExprBinaryData is shared by ExprBinary, ExprAssign and ExprAssignOp.
// Op is meaningless for plain assignment.
type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprCastData struct {
	Expr ExprID
	Type TypeID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprMethodCallData struct {
	Receiver ExprID
	Segment  PathSegment
	Args     []ExprID
}

// ExprFieldData covers named fields and tuple indices (`x.0`).
type ExprFieldData struct {
	Expr  ExprID
	Field Ident
}

type ExprIndexData struct {
	Expr  ExprID
	Index ExprID
}

type ExprRangeData struct {
	Start     ExprID
	End       ExprID
	Inclusive bool
}

type ExprListData struct {
	Elems []ExprID
}

type ExprRepeatData struct {
	Elem  ExprID
	Count ExprID
}

type StructRest uint8

const (
	StructRestNone StructRest = iota
	StructRestBase            // ..base
	StructRestRest            // .. (default field values)
)

type ExprStructField struct {
	Span      source.Span
	Attrs     []Attr
	Ident     Ident
	Expr      ExprID
	Shorthand bool
}

type ExprStructData struct {
	Path   Path
	Fields []ExprStructField
	Rest   StructRest
	Base   ExprID
}

// ExprWrapData holds the single operand of Paren, Try, Await, Return, Yield
// and Become. Inner is NoExprID for a bare `return` or `yield`.
type ExprWrapData struct {
	Inner ExprID
}

// ExprBlockData is shared by block-bodied expressions: plain and unsafe
// blocks, `async` blocks, `const` blocks and `loop`.
type ExprBlockData struct {
	Label Ident
	Move  bool
	Block BlockID
}

type ExprIfData struct {
	Cond ExprID
	Then BlockID
	Else ExprID
}

type ExprLetData struct {
	Pat  PatID
	Expr ExprID
}

type ExprWhileData struct {
	Label Ident
	Cond  ExprID
	Body  BlockID
}

type ExprForData struct {
	Label Ident
	Pat   PatID
	Iter  ExprID
	Body  BlockID
}

type MatchArm struct {
	Span  source.Span
	Attrs []Attr
	Pat   PatID
	Guard ExprID
	Body  ExprID
}

type ExprMatchData struct {
	Scrutinee ExprID
	Arms      []MatchArm
}

type ClosureParam struct {
	Span  source.Span
	Attrs []Attr
	Pat   PatID
	Type  TypeID
}

type ExprClosureData struct {
	Binder []GenericParam // for<'a> |x: &'a T|
	Const  bool
	Async  bool
	Move   bool
	Static bool
	Params []ClosureParam
	Output TypeID
	Body   ExprID
}

// ExprJumpData is `break 'label value` and `continue 'label`.
type ExprJumpData struct {
	Label Ident
	Value ExprID
}

type Exprs struct {
	Arena       *Arena[Expr]
	Lits        *Arena[ExprLitData]
	Paths       *Arena[ExprPathData]
	Unaries     *Arena[ExprUnaryData]
	AddrOfs     *Arena[ExprAddrOfData]
	Binaries    *Arena[ExprBinaryData]
	Casts       *Arena[ExprCastData]
	Calls       *Arena[ExprCallData]
	MethodCalls *Arena[ExprMethodCallData]
	Fields      *Arena[ExprFieldData]
	Indices     *Arena[ExprIndexData]
	Ranges      *Arena[ExprRangeData]
	Lists       *Arena[ExprListData]
	Repeats     *Arena[ExprRepeatData]
	Structs     *Arena[ExprStructData]
	Wraps       *Arena[ExprWrapData]
	Blocks      *Arena[ExprBlockData]
	Ifs         *Arena[ExprIfData]
	Lets        *Arena[ExprLetData]
	Whiles      *Arena[ExprWhileData]
	Fors        *Arena[ExprForData]
	Matches     *Arena[ExprMatchData]
	Closures    *Arena[ExprClosureData]
	Jumps       *Arena[ExprJumpData]
	MacCalls    *Arena[MacCall]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Exprs{
		Arena:       NewArena[Expr](capHint),
		Lits:        NewArena[ExprLitData](capHint / 8),
		Paths:       NewArena[ExprPathData](capHint / 8),
		Unaries:     NewArena[ExprUnaryData](capHint / 8),
		AddrOfs:     NewArena[ExprAddrOfData](capHint / 8),
		Binaries:    NewArena[ExprBinaryData](capHint / 8),
		Casts:       NewArena[ExprCastData](capHint / 8),
		Calls:       NewArena[ExprCallData](capHint / 8),
		MethodCalls: NewArena[ExprMethodCallData](capHint / 8),
		Fields:      NewArena[ExprFieldData](capHint / 8),
		Indices:     NewArena[ExprIndexData](capHint / 8),
		Ranges:      NewArena[ExprRangeData](capHint / 8),
		Lists:       NewArena[ExprListData](capHint / 8),
		Repeats:     NewArena[ExprRepeatData](capHint / 8),
		Structs:     NewArena[ExprStructData](capHint / 8),
		Wraps:       NewArena[ExprWrapData](capHint / 8),
		Blocks:      NewArena[ExprBlockData](capHint / 8),
		Ifs:         NewArena[ExprIfData](capHint / 8),
		Lets:        NewArena[ExprLetData](capHint / 8),
		Whiles:      NewArena[ExprWhileData](capHint / 8),
		Fors:        NewArena[ExprForData](capHint / 8),
		Matches:     NewArena[ExprMatchData](capHint / 8),
		Closures:    NewArena[ExprClosureData](capHint / 8),
		Jumps:       NewArena[ExprJumpData](capHint / 8),
		MacCalls:    NewArena[MacCall](capHint / 8),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: payload}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewSimple allocates a node whose kind carries no payload.
func (e *Exprs) NewSimple(kind ExprKind, span source.Span) ExprID {
	return e.new(kind, span, NoPayloadID)
}

func (e *Exprs) NewLit(span source.Span, kind LitKind, text source.StringID) ExprID {
	payload := PayloadID(e.Lits.Allocate(ExprLitData{Kind: kind, Text: text}))
	return e.new(ExprLit, span, payload)
}

func (e *Exprs) Lit(id ExprID) (*ExprLitData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprLit {
		return nil, false
	}
	return e.Lits.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewPath(span source.Span, path Path) ExprID {
	payload := PayloadID(e.Paths.Allocate(ExprPathData{Path: path}))
	return e.new(ExprPath, span, payload)
}

func (e *Exprs) Path(id ExprID) (*ExprPathData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprPath {
		return nil, false
	}
	return e.Paths.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := PayloadID(e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
	return e.new(ExprUnary, span, payload)
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewAddrOf(span source.Span, raw bool, mut Mutability, operand ExprID) ExprID {
	payload := PayloadID(e.AddrOfs.Allocate(ExprAddrOfData{Raw: raw, Mut: mut, Operand: operand}))
	return e.new(ExprAddrOf, span, payload)
}

func (e *Exprs) AddrOf(id ExprID) (*ExprAddrOfData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprAddrOf {
		return nil, false
	}
	return e.AddrOfs.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewBinary(kind ExprKind, span source.Span, op BinaryOp, left ExprID, right ExprID) ExprID {
	payload := PayloadID(e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
	return e.new(kind, span, payload)
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	n := e.Get(id)
	if n == nil || (n.Kind != ExprBinary && n.Kind != ExprAssign && n.Kind != ExprAssignOp) {
		return nil, false
	}
	return e.Binaries.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewCast(span source.Span, expr ExprID, typ TypeID) ExprID {
	payload := PayloadID(e.Casts.Allocate(ExprCastData{Expr: expr, Type: typ}))
	return e.new(ExprCast, span, payload)
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := PayloadID(e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
	return e.new(ExprCall, span, payload)
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewMethodCall(span source.Span, receiver ExprID, segment PathSegment, args []ExprID) ExprID {
	payload := PayloadID(e.MethodCalls.Allocate(ExprMethodCallData{Receiver: receiver, Segment: segment, Args: args}))
	return e.new(ExprMethodCall, span, payload)
}

func (e *Exprs) MethodCall(id ExprID) (*ExprMethodCallData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprMethodCall {
		return nil, false
	}
	return e.MethodCalls.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewField(span source.Span, expr ExprID, field Ident) ExprID {
	payload := PayloadID(e.Fields.Allocate(ExprFieldData{Expr: expr, Field: field}))
	return e.new(ExprField, span, payload)
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprField {
		return nil, false
	}
	return e.Fields.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewIndex(span source.Span, expr ExprID, index ExprID) ExprID {
	payload := PayloadID(e.Indices.Allocate(ExprIndexData{Expr: expr, Index: index}))
	return e.new(ExprIndex, span, payload)
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewRange(span source.Span, start ExprID, end ExprID, inclusive bool) ExprID {
	payload := PayloadID(e.Ranges.Allocate(ExprRangeData{Start: start, End: end, Inclusive: inclusive}))
	return e.new(ExprRange, span, payload)
}

func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprRange {
		return nil, false
	}
	return e.Ranges.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewList(kind ExprKind, span source.Span, elems []ExprID) ExprID {
	payload := PayloadID(e.Lists.Allocate(ExprListData{Elems: elems}))
	return e.new(kind, span, payload)
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	n := e.Get(id)
	if n == nil || (n.Kind != ExprTuple && n.Kind != ExprArray) {
		return nil, false
	}
	return e.Lists.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewRepeat(span source.Span, elem ExprID, count ExprID) ExprID {
	payload := PayloadID(e.Repeats.Allocate(ExprRepeatData{Elem: elem, Count: count}))
	return e.new(ExprRepeat, span, payload)
}

func (e *Exprs) Repeat(id ExprID) (*ExprRepeatData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprRepeat {
		return nil, false
	}
	return e.Repeats.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewStruct(span source.Span, data ExprStructData) ExprID {
	payload := PayloadID(e.Structs.Allocate(data))
	return e.new(ExprStruct, span, payload)
}

func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprStruct {
		return nil, false
	}
	return e.Structs.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewWrap(kind ExprKind, span source.Span, inner ExprID) ExprID {
	payload := PayloadID(e.Wraps.Allocate(ExprWrapData{Inner: inner}))
	return e.new(kind, span, payload)
}

func (e *Exprs) Wrap(id ExprID) (*ExprWrapData, bool) {
	n := e.Get(id)
	if n == nil || (n.Kind != ExprParen && n.Kind != ExprTry && n.Kind != ExprAwait && n.Kind != ExprReturn && n.Kind != ExprYield && n.Kind != ExprBecome) {
		return nil, false
	}
	return e.Wraps.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewBlock(kind ExprKind, span source.Span, label Ident, move bool, block BlockID) ExprID {
	payload := PayloadID(e.Blocks.Allocate(ExprBlockData{Label: label, Move: move, Block: block}))
	return e.new(kind, span, payload)
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	n := e.Get(id)
	if n == nil || (n.Kind != ExprBlock && n.Kind != ExprAsync && n.Kind != ExprConstBlock && n.Kind != ExprLoop) {
		return nil, false
	}
	return e.Blocks.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewIf(span source.Span, cond ExprID, then BlockID, els ExprID) ExprID {
	payload := PayloadID(e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els}))
	return e.new(ExprIf, span, payload)
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprIf {
		return nil, false
	}
	return e.Ifs.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewLet(span source.Span, pat PatID, expr ExprID) ExprID {
	payload := PayloadID(e.Lets.Allocate(ExprLetData{Pat: pat, Expr: expr}))
	return e.new(ExprLet, span, payload)
}

func (e *Exprs) Let(id ExprID) (*ExprLetData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprLet {
		return nil, false
	}
	return e.Lets.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewWhile(span source.Span, label Ident, cond ExprID, body BlockID) ExprID {
	payload := PayloadID(e.Whiles.Allocate(ExprWhileData{Label: label, Cond: cond, Body: body}))
	return e.new(ExprWhile, span, payload)
}

func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprWhile {
		return nil, false
	}
	return e.Whiles.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewFor(span source.Span, data ExprForData) ExprID {
	payload := PayloadID(e.Fors.Allocate(data))
	return e.new(ExprFor, span, payload)
}

func (e *Exprs) For(id ExprID) (*ExprForData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprFor {
		return nil, false
	}
	return e.Fors.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewMatch(span source.Span, scrutinee ExprID, arms []MatchArm) ExprID {
	payload := PayloadID(e.Matches.Allocate(ExprMatchData{Scrutinee: scrutinee, Arms: arms}))
	return e.new(ExprMatch, span, payload)
}

func (e *Exprs) Match(id ExprID) (*ExprMatchData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprMatch {
		return nil, false
	}
	return e.Matches.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewClosure(span source.Span, data ExprClosureData) ExprID {
	payload := PayloadID(e.Closures.Allocate(data))
	return e.new(ExprClosure, span, payload)
}

func (e *Exprs) Closure(id ExprID) (*ExprClosureData, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprClosure {
		return nil, false
	}
	return e.Closures.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewJump(kind ExprKind, span source.Span, label Ident, value ExprID) ExprID {
	payload := PayloadID(e.Jumps.Allocate(ExprJumpData{Label: label, Value: value}))
	return e.new(kind, span, payload)
}

func (e *Exprs) Jump(id ExprID) (*ExprJumpData, bool) {
	n := e.Get(id)
	if n == nil || (n.Kind != ExprBreak && n.Kind != ExprContinue) {
		return nil, false
	}
	return e.Jumps.Get(uint32(n.Payload)), true
}

func (e *Exprs) NewMacCall(span source.Span, data MacCall) ExprID {
	payload := PayloadID(e.MacCalls.Allocate(data))
	return e.new(ExprMacCall, span, payload)
}

func (e *Exprs) MacCall(id ExprID) (*MacCall, bool) {
	n := e.Get(id)
	if n == nil || n.Kind != ExprMacCall {
		return nil, false
	}
	return e.MacCalls.Get(uint32(n.Payload)), true
}

