package ast

import (
	"testing"

	"unsafescan/internal/source"
)

func spanAt(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func newExprOfKind(t *testing.T, b *Builder, k ExprKind) ExprID {
	t.Helper()
	sp := spanAt(0, 1)
	e := b.Exprs
	switch k {
	case ExprErr, ExprUnderscore:
		return e.NewSimple(k, sp)
	case ExprLit:
		return e.NewLit(sp, LitBool, b.StringsInterner.Intern("true"))
	case ExprPath:
		return e.NewPath(sp, Path{})
	case ExprUnary:
		return e.NewUnary(sp, UnaryNot, NoExprID)
	case ExprAddrOf:
		return e.NewAddrOf(sp, true, Mut, NoExprID)
	case ExprBinary, ExprAssign, ExprAssignOp:
		return e.NewBinary(k, sp, BinAdd, NoExprID, NoExprID)
	case ExprCast:
		return e.NewCast(sp, NoExprID, NoTypeID)
	case ExprCall:
		return e.NewCall(sp, NoExprID, nil)
	case ExprMethodCall:
		return e.NewMethodCall(sp, NoExprID, PathSegment{}, nil)
	case ExprField:
		return e.NewField(sp, NoExprID, Ident{})
	case ExprIndex:
		return e.NewIndex(sp, NoExprID, NoExprID)
	case ExprRange:
		return e.NewRange(sp, NoExprID, NoExprID, false)
	case ExprTuple, ExprArray:
		return e.NewList(k, sp, nil)
	case ExprRepeat:
		return e.NewRepeat(sp, NoExprID, NoExprID)
	case ExprStruct:
		return e.NewStruct(sp, ExprStructData{})
	case ExprParen, ExprTry, ExprAwait, ExprReturn, ExprYield, ExprBecome:
		return e.NewWrap(k, sp, NoExprID)
	case ExprBlock, ExprAsync, ExprConstBlock, ExprLoop:
		return e.NewBlock(k, sp, Ident{}, false, NoBlockID)
	case ExprIf:
		return e.NewIf(sp, NoExprID, NoBlockID, NoExprID)
	case ExprLet:
		return e.NewLet(sp, NoPatID, NoExprID)
	case ExprWhile:
		return e.NewWhile(sp, Ident{}, NoExprID, NoBlockID)
	case ExprFor:
		return e.NewFor(sp, ExprForData{})
	case ExprMatch:
		return e.NewMatch(sp, NoExprID, []MatchArm{{}})
	case ExprClosure:
		return e.NewClosure(sp, ExprClosureData{})
	case ExprBreak, ExprContinue:
		return e.NewJump(k, sp, Ident{}, NoExprID)
	case ExprMacCall:
		return e.NewMacCall(sp, MacCall{Expanded: true})
	default:
		t.Fatalf("no constructor for expr kind %s", k)
		return NoExprID
	}
}

func newTypeOfKind(t *testing.T, b *Builder, k TypeKind) TypeID {
	t.Helper()
	sp := spanAt(0, 1)
	ty := b.Types
	switch k {
	case TypeErr, TypeNever, TypeInfer, TypeCVarArgs, TypeImplicitSelf:
		return ty.NewSimple(k, sp)
	case TypePath:
		return ty.NewPath(sp, Path{})
	case TypeRef, TypePtr:
		return ty.NewRef(k, sp, Ident{}, Not, NoTypeID)
	case TypeSlice, TypeParen:
		return ty.NewElem(k, sp, NoTypeID)
	case TypeArray:
		return ty.NewArray(sp, NoTypeID, NoExprID)
	case TypeTuple:
		return ty.NewTuple(sp, nil)
	case TypeFnPtr:
		return ty.NewFnPtr(sp, TypeFnPtrData{Params: []FnPtrParam{{}}})
	case TypeTraitObject, TypeImplTrait:
		return ty.NewBounds(k, sp, true, []GenericBound{{}})
	case TypeMacCall:
		return ty.NewMacCall(sp, MacCall{})
	default:
		t.Fatalf("no constructor for type kind %s", k)
		return NoTypeID
	}
}

func newPatOfKind(t *testing.T, b *Builder, k PatKind) PatID {
	t.Helper()
	sp := spanAt(0, 1)
	p := b.Pats
	switch k {
	case PatErr, PatWild, PatRest:
		return p.NewSimple(k, sp)
	case PatIdent:
		return p.NewIdent(sp, PatIdentData{})
	case PatLit:
		return p.NewExpr(sp, NoExprID)
	case PatRange:
		return p.NewRange(sp, NoExprID, NoExprID, true)
	case PatPath:
		return p.NewPath(sp, Path{})
	case PatTupleStruct:
		return p.NewTupleStruct(sp, Path{}, nil)
	case PatStruct:
		return p.NewStruct(sp, Path{}, []PatField{{}}, true)
	case PatTuple, PatSlice, PatOr:
		return p.NewList(k, sp, nil)
	case PatRef, PatBox, PatParen, PatDeref:
		return p.NewInner(k, sp, Not, NoPatID)
	case PatMacCall:
		return p.NewMacCall(sp, MacCall{})
	default:
		t.Fatalf("no constructor for pattern kind %s", k)
		return NoPatID
	}
}

func newItemOfKind(t *testing.T, b *Builder, k ItemKind) ItemID {
	t.Helper()
	sp := spanAt(0, 1)
	it := b.Items
	vis := Visibility{}
	switch k {
	case ItemErr:
		return it.NewSimple(k, sp, nil, vis)
	case ItemFn:
		return it.NewFn(sp, nil, vis, FnItem{Params: []Param{{}}})
	case ItemStruct, ItemUnion:
		return it.NewStruct(k, sp, nil, vis, StructItem{Fields: []FieldDef{{}}})
	case ItemEnum:
		return it.NewEnum(sp, nil, vis, EnumItem{Variants: []Variant{{}}})
	case ItemTrait:
		return it.NewTrait(sp, nil, vis, TraitItem{})
	case ItemTraitAlias:
		return it.NewTraitAlias(sp, nil, vis, TraitAliasItem{})
	case ItemImpl:
		return it.NewImpl(sp, nil, vis, ImplItem{Trait: &Path{}})
	case ItemMod:
		return it.NewMod(sp, nil, vis, ModItem{})
	case ItemForeignMod:
		return it.NewForeignMod(sp, nil, vis, ForeignModItem{})
	case ItemExternCrate:
		return it.NewExternCrate(sp, nil, vis, ExternCrateItem{})
	case ItemUse:
		return it.NewUse(sp, nil, vis, UseItem{Tree: UseTree{Kind: UseNested, Nested: []UseTree{{}}}})
	case ItemConst:
		return it.NewConst(sp, nil, vis, ConstItem{})
	case ItemStatic:
		return it.NewStatic(sp, nil, vis, StaticItem{})
	case ItemTypeAlias:
		return it.NewTypeAlias(sp, nil, vis, TypeAliasItem{})
	case ItemMacCall:
		return it.NewMacCall(sp, nil, vis, MacCall{})
	case ItemMacroRules:
		return it.NewMacroRules(sp, nil, vis, MacroRulesItem{})
	default:
		t.Fatalf("no constructor for item kind %s", k)
		return NoItemID
	}
}

func TestInspectHandlesEveryKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	count := func(root Node) int {
		n := 0
		Inspect(b, root, func(Node) bool { n++; return true })
		return n
	}
	for k := ExprErr; k <= ExprUnderscore; k++ {
		if got := count(ExprNode(newExprOfKind(t, b, k))); got != 1 {
			t.Fatalf("expr %s: visited %d nodes, want 1", k, got)
		}
	}
	for k := TypeErr; k <= TypeImplicitSelf; k++ {
		if got := count(TypeNode(newTypeOfKind(t, b, k))); got != 1 {
			t.Fatalf("type %s: visited %d nodes, want 1", k, got)
		}
	}
	for k := PatErr; k <= PatMacCall; k++ {
		if got := count(PatNode(newPatOfKind(t, b, k))); got != 1 {
			t.Fatalf("pat %s: visited %d nodes, want 1", k, got)
		}
	}
	for k := ItemErr; k <= ItemMacroRules; k++ {
		if got := count(ItemNode(newItemOfKind(t, b, k))); got != 1 {
			t.Fatalf("item %s: visited %d nodes, want 1", k, got)
		}
	}
	empty := b.Stmts.NewSimple(StmtEmpty, spanAt(0, 1), nil)
	let := b.Stmts.NewLet(spanAt(0, 1), nil, StmtLetData{})
	item := b.Stmts.NewItem(spanAt(0, 1), nil, NoItemID)
	expr := b.Stmts.NewExpr(spanAt(0, 1), nil, NoExprID, true)
	for _, st := range []StmtID{empty, let, item, expr} {
		if got := count(StmtNode(st)); got != 1 {
			t.Fatalf("stmt %d: visited %d nodes, want 1", st, got)
		}
	}
}

func TestInspectPanicsOnUnknownKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	bogus := ExprID(b.Exprs.Arena.Allocate(Expr{Kind: ExprKind(250)}))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown expr kind")
		}
	}()
	Inspect(b, ExprNode(bogus), func(Node) bool { return true })
}

// fn f() { unsafe { g() } }
func buildNested(b *Builder) (FileID, ItemID, BlockID, BlockID) {
	g := b.Exprs.NewPath(spanAt(20, 21), Path{Segments: []PathSegment{{Ident: Ident{Name: b.StringsInterner.Intern("g"), Span: spanAt(20, 21)}}}})
	call := b.Exprs.NewCall(spanAt(20, 23), g, nil)
	callStmt := b.Stmts.NewExpr(spanAt(20, 23), nil, call, false)
	inner := b.Blocks.New(spanAt(11, 25), BlockUnsafe, UserProvided, []StmtID{callStmt})
	innerExpr := b.Exprs.NewBlock(ExprBlock, spanAt(11, 25), Ident{}, false, inner)
	stmt := b.Stmts.NewExpr(spanAt(11, 25), nil, innerExpr, false)
	body := b.Blocks.New(spanAt(9, 27), BlockDefault, UserProvided, []StmtID{stmt})
	fn := b.Items.NewFn(spanAt(0, 27), nil, Visibility{}, FnItem{
		Ident: Ident{Name: b.StringsInterner.Intern("f"), Span: spanAt(3, 4)},
		Body:  body,
	})
	file := b.NewFile(spanAt(0, 27))
	b.PushItem(file, fn)
	return file, fn, body, inner
}

func TestInspectPreOrder(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file, fn, body, inner := buildNested(b)

	var kinds []NodeKind
	var blocks []BlockID
	Inspect(b, FileNode(file), func(n Node) bool {
		kinds = append(kinds, n.Kind)
		if n.Kind == NodeBlock {
			blocks = append(blocks, BlockID(n.ID))
		}
		return true
	})
	want := []NodeKind{NodeFile, NodeItem, NodeBlock, NodeStmt, NodeExpr, NodeBlock, NodeStmt, NodeExpr, NodeExpr}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("node %d: got %s, want %s (all: %v)", i, kinds[i], want[i], kinds)
		}
	}
	if len(blocks) != 2 || blocks[0] != body || blocks[1] != inner {
		t.Fatalf("blocks visited in wrong order: %v", blocks)
	}
	if b.Items.Get(fn).Kind != ItemFn {
		t.Fatalf("expected fn item")
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file, _, _, inner := buildNested(b)

	sawInner := false
	Inspect(b, FileNode(file), func(n Node) bool {
		if n.Kind == NodeBlock && BlockID(n.ID) == inner {
			sawInner = true
		}
		return n.Kind != NodeItem
	})
	if sawInner {
		t.Fatalf("children of the fn item must be skipped")
	}
}

func TestInspectFollowsOutOfLineModule(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	modFile, _, _, inner := buildNested(b)
	mod := b.Items.NewMod(spanAt(0, 8), nil, Visibility{}, ModItem{
		Ident: Ident{Name: b.StringsInterner.Intern("m"), Span: spanAt(4, 5)},
		File:  modFile,
	})
	root := b.NewFile(spanAt(0, 8))
	b.PushItem(root, mod)

	found := false
	Inspect(b, FileNode(root), func(n Node) bool {
		if n.Kind == NodeBlock && BlockID(n.ID) == inner {
			found = true
		}
		return true
	})
	if !found {
		t.Fatalf("walk did not descend into the module file")
	}
}

// #[doc::<u8> = "x"] struct S;
func TestInspectAttrPathBeforeValue(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	argType := b.Types.NewPath(spanAt(7, 9), Path{})
	value := b.Exprs.NewLit(spanAt(13, 16), LitStr, b.StringsInterner.Intern(`"x"`))
	attr := Attr{
		Span: spanAt(0, 17),
		Path: Path{Segments: []PathSegment{{
			Ident: Ident{Name: b.StringsInterner.Intern("doc"), Span: spanAt(2, 5)},
			Args:  &GenericArgs{Args: []GenericArg{{Kind: ArgType, Type: argType}}},
		}}},
		ArgsKind: AttrArgsEq,
		Value:    value,
	}
	item := b.Items.NewStruct(ItemStruct, spanAt(0, 27), []Attr{attr}, Visibility{}, StructItem{})

	var kinds []NodeKind
	Inspect(b, ItemNode(item), func(n Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})
	want := []NodeKind{NodeItem, NodeType, NodeExpr}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("node %d: got %s, want %s (all: %v)", i, kinds[i], want[i], kinds)
		}
	}
}
