package ast

import (
	"fmt"
)

type NodeKind uint8

const (
	NodeFile NodeKind = iota
	NodeItem
	NodeStmt
	NodeExpr
	NodeType
	NodePat
	NodeBlock
)

func (k NodeKind) String() string {
	switch k {
	case NodeFile:
		return "file"
	case NodeItem:
		return "item"
	case NodeStmt:
		return "stmt"
	case NodeExpr:
		return "expr"
	case NodeType:
		return "type"
	case NodePat:
		return "pat"
	case NodeBlock:
		return "block"
	default:
		return "node(?)"
	}
}

// Node is a typed reference to one arena entry.
type Node struct {
	Kind NodeKind
	ID   uint32
}

func FileNode(id FileID) Node   { return Node{Kind: NodeFile, ID: uint32(id)} }
func ItemNode(id ItemID) Node   { return Node{Kind: NodeItem, ID: uint32(id)} }
func StmtNode(id StmtID) Node   { return Node{Kind: NodeStmt, ID: uint32(id)} }
func ExprNode(id ExprID) Node   { return Node{Kind: NodeExpr, ID: uint32(id)} }
func TypeNode(id TypeID) Node   { return Node{Kind: NodeType, ID: uint32(id)} }
func PatNode(id PatID) Node     { return Node{Kind: NodePat, ID: uint32(id)} }
func BlockNode(id BlockID) Node { return Node{Kind: NodeBlock, ID: uint32(id)} }

// Inspect visits root and everything reachable from it in depth-first
// pre-order, children in source order. If fn returns false the children of
// that node are skipped. Nodes with an invalid ID are never passed to fn.
//
// Every node kind has an explicit case below; a kind added to the tree
// without one makes Inspect panic instead of silently skipping a subtree.
func Inspect(b *Builder, root Node, fn func(Node) bool) {
	w := walker{b: b, fn: fn}
	w.node(root)
}

type walker struct {
	b  *Builder
	fn func(Node) bool
}

func (w *walker) node(n Node) {
	switch n.Kind {
	case NodeFile:
		w.file(FileID(n.ID))
	case NodeItem:
		w.item(ItemID(n.ID))
	case NodeStmt:
		w.stmt(StmtID(n.ID))
	case NodeExpr:
		w.expr(ExprID(n.ID))
	case NodeType:
		w.typ(TypeID(n.ID))
	case NodePat:
		w.pat(PatID(n.ID))
	case NodeBlock:
		w.block(BlockID(n.ID))
	default:
		panic(fmt.Sprintf("ast: unhandled node kind %d", n.Kind))
	}
}

func (w *walker) file(id FileID) {
	f := w.b.Files.Get(id)
	if f == nil || !w.fn(FileNode(id)) {
		return
	}
	w.attrs(f.Attrs)
	for _, it := range f.Items {
		w.item(it)
	}
}

func (w *walker) attrs(attrs []Attr) {
	for i := range attrs {
		w.path(&attrs[i].Path)
		w.expr(attrs[i].Value)
	}
}

func (w *walker) items(ids []ItemID) {
	for _, id := range ids {
		w.item(id)
	}
}

func (w *walker) item(id ItemID) {
	it := w.b.Items.Get(id)
	if it == nil || !w.fn(ItemNode(id)) {
		return
	}
	items := w.b.Items
	w.attrs(it.Attrs)
	w.path(&it.Vis.Path)
	switch it.Kind {
	case ItemErr, ItemExternCrate, ItemMacroRules:
	case ItemFn:
		fn, _ := items.Fn(id)
		w.generics(&fn.Generics)
		for i := range fn.Params {
			p := &fn.Params[i]
			w.attrs(p.Attrs)
			w.pat(p.Pat)
			w.typ(p.Type)
		}
		w.typ(fn.Output)
		w.wherePreds(fn.Generics.Where)
		w.block(fn.Body)
	case ItemStruct, ItemUnion:
		st, _ := items.Struct(id)
		w.generics(&st.Generics)
		w.wherePreds(st.Generics.Where)
		w.fields(st.Fields)
	case ItemEnum:
		en, _ := items.Enum(id)
		w.generics(&en.Generics)
		w.wherePreds(en.Generics.Where)
		for i := range en.Variants {
			v := &en.Variants[i]
			w.attrs(v.Attrs)
			w.fields(v.Fields)
			w.expr(v.Discriminant)
		}
	case ItemTrait:
		tr, _ := items.Trait(id)
		w.generics(&tr.Generics)
		w.bounds(tr.Bounds)
		w.wherePreds(tr.Generics.Where)
		w.items(tr.Items)
	case ItemTraitAlias:
		ta, _ := items.TraitAlias(id)
		w.generics(&ta.Generics)
		w.bounds(ta.Bounds)
		w.wherePreds(ta.Generics.Where)
	case ItemImpl:
		im, _ := items.Impl(id)
		w.generics(&im.Generics)
		if im.Trait != nil {
			w.path(im.Trait)
		}
		w.typ(im.SelfType)
		w.wherePreds(im.Generics.Where)
		w.items(im.Items)
	case ItemMod:
		md, _ := items.Mod(id)
		w.attrs(md.InnerAttrs)
		w.items(md.Items)
		if md.File.IsValid() {
			w.file(md.File)
		}
	case ItemForeignMod:
		fm, _ := items.ForeignMod(id)
		w.attrs(fm.InnerAttrs)
		w.items(fm.Items)
	case ItemUse:
		u, _ := items.Use(id)
		w.useTree(&u.Tree)
	case ItemConst:
		c, _ := items.Const(id)
		w.generics(&c.Generics)
		w.typ(c.Type)
		w.wherePreds(c.Generics.Where)
		w.expr(c.Value)
	case ItemStatic:
		s, _ := items.Static(id)
		w.typ(s.Type)
		w.expr(s.Value)
	case ItemTypeAlias:
		ta, _ := items.TypeAlias(id)
		w.generics(&ta.Generics)
		w.bounds(ta.Bounds)
		w.wherePreds(ta.Generics.Where)
		w.typ(ta.Type)
	case ItemMacCall:
		mc, _ := items.MacCall(id)
		w.macCall(mc)
	default:
		panic(fmt.Sprintf("ast: unhandled item kind %s", it.Kind))
	}
}

func (w *walker) fields(fields []FieldDef) {
	for i := range fields {
		f := &fields[i]
		w.attrs(f.Attrs)
		w.path(&f.Vis.Path)
		w.typ(f.Type)
		w.expr(f.Default)
	}
}

func (w *walker) useTree(t *UseTree) {
	w.path(&t.Prefix)
	for i := range t.Nested {
		w.useTree(&t.Nested[i])
	}
}

func (w *walker) path(p *Path) {
	if p.QSelf != nil {
		w.typ(p.QSelf.Type)
	}
	for i := range p.Segments {
		w.genericArgs(p.Segments[i].Args)
	}
}

func (w *walker) genericArgs(ga *GenericArgs) {
	if ga == nil {
		return
	}
	for i := range ga.Args {
		a := &ga.Args[i]
		w.typ(a.Type)
		w.expr(a.Const)
		w.genericArgs(a.NameArgs)
		w.bounds(a.Bounds)
	}
	for _, in := range ga.Inputs {
		w.typ(in)
	}
	w.typ(ga.Output)
}

func (w *walker) generics(g *Generics) {
	w.genericParams(g.Params)
}

func (w *walker) genericParams(params []GenericParam) {
	for i := range params {
		p := &params[i]
		w.attrs(p.Attrs)
		w.bounds(p.Bounds)
		w.typ(p.Default)
		w.typ(p.ConstType)
		w.expr(p.ConstDefault)
	}
}

func (w *walker) wherePreds(preds []WherePredicate) {
	for i := range preds {
		p := &preds[i]
		w.genericParams(p.BoundGenerics)
		w.typ(p.Type)
		w.bounds(p.Bounds)
		w.typ(p.Rhs)
	}
}

func (w *walker) bounds(bounds []GenericBound) {
	for i := range bounds {
		bd := &bounds[i]
		w.genericParams(bd.BoundGenerics)
		w.path(&bd.Path)
	}
}

func (w *walker) macCall(mc *MacCall) {
	w.path(&mc.Path)
	if !mc.Expanded {
		return
	}
	for _, a := range mc.Args {
		w.expr(a)
	}
}

func (w *walker) block(id BlockID) {
	blk := w.b.Blocks.Get(id)
	if blk == nil || !w.fn(BlockNode(id)) {
		return
	}
	for _, st := range blk.Stmts {
		w.stmt(st)
	}
}

func (w *walker) stmt(id StmtID) {
	st := w.b.Stmts.Get(id)
	if st == nil || !w.fn(StmtNode(id)) {
		return
	}
	stmts := w.b.Stmts
	w.attrs(st.Attrs)
	switch st.Kind {
	case StmtEmpty:
	case StmtLet:
		l, _ := stmts.Let(id)
		w.pat(l.Pat)
		w.typ(l.Type)
		w.expr(l.Init)
		w.block(l.Else)
	case StmtItem:
		si, _ := stmts.Item(id)
		w.item(si.Item)
	case StmtExpr:
		se, _ := stmts.Expr(id)
		w.expr(se.Expr)
	default:
		panic(fmt.Sprintf("ast: unhandled stmt kind %s", st.Kind))
	}
}

func (w *walker) exprs(ids []ExprID) {
	for _, id := range ids {
		w.expr(id)
	}
}

func (w *walker) expr(id ExprID) {
	e := w.b.Exprs.Get(id)
	if e == nil || !w.fn(ExprNode(id)) {
		return
	}
	exprs := w.b.Exprs
	switch e.Kind {
	case ExprErr, ExprLit, ExprUnderscore:
	case ExprPath:
		p, _ := exprs.Path(id)
		w.path(&p.Path)
	case ExprUnary:
		u, _ := exprs.Unary(id)
		w.expr(u.Operand)
	case ExprAddrOf:
		a, _ := exprs.AddrOf(id)
		w.expr(a.Operand)
	case ExprBinary, ExprAssign, ExprAssignOp:
		bin, _ := exprs.Binary(id)
		w.expr(bin.Left)
		w.expr(bin.Right)
	case ExprCast:
		c, _ := exprs.Cast(id)
		w.expr(c.Expr)
		w.typ(c.Type)
	case ExprCall:
		c, _ := exprs.Call(id)
		w.expr(c.Callee)
		w.exprs(c.Args)
	case ExprMethodCall:
		mc, _ := exprs.MethodCall(id)
		w.expr(mc.Receiver)
		w.genericArgs(mc.Segment.Args)
		w.exprs(mc.Args)
	case ExprField:
		f, _ := exprs.Field(id)
		w.expr(f.Expr)
	case ExprIndex:
		ix, _ := exprs.Index(id)
		w.expr(ix.Expr)
		w.expr(ix.Index)
	case ExprRange:
		r, _ := exprs.Range(id)
		w.expr(r.Start)
		w.expr(r.End)
	case ExprTuple, ExprArray:
		l, _ := exprs.List(id)
		w.exprs(l.Elems)
	case ExprRepeat:
		r, _ := exprs.Repeat(id)
		w.expr(r.Elem)
		w.expr(r.Count)
	case ExprStruct:
		s, _ := exprs.Struct(id)
		w.path(&s.Path)
		for i := range s.Fields {
			w.attrs(s.Fields[i].Attrs)
			w.expr(s.Fields[i].Expr)
		}
		w.expr(s.Base)
	case ExprParen, ExprTry, ExprAwait, ExprReturn, ExprYield, ExprBecome:
		wr, _ := exprs.Wrap(id)
		w.expr(wr.Inner)
	case ExprBlock, ExprAsync, ExprConstBlock, ExprLoop:
		bl, _ := exprs.Block(id)
		w.block(bl.Block)
	case ExprIf:
		f, _ := exprs.If(id)
		w.expr(f.Cond)
		w.block(f.Then)
		w.expr(f.Else)
	case ExprLet:
		l, _ := exprs.Let(id)
		w.pat(l.Pat)
		w.expr(l.Expr)
	case ExprWhile:
		wh, _ := exprs.While(id)
		w.expr(wh.Cond)
		w.block(wh.Body)
	case ExprFor:
		f, _ := exprs.For(id)
		w.pat(f.Pat)
		w.expr(f.Iter)
		w.block(f.Body)
	case ExprMatch:
		m, _ := exprs.Match(id)
		w.expr(m.Scrutinee)
		for i := range m.Arms {
			arm := &m.Arms[i]
			w.attrs(arm.Attrs)
			w.pat(arm.Pat)
			w.expr(arm.Guard)
			w.expr(arm.Body)
		}
	case ExprClosure:
		c, _ := exprs.Closure(id)
		w.genericParams(c.Binder)
		for i := range c.Params {
			p := &c.Params[i]
			w.attrs(p.Attrs)
			w.pat(p.Pat)
			w.typ(p.Type)
		}
		w.typ(c.Output)
		w.expr(c.Body)
	case ExprBreak, ExprContinue:
		j, _ := exprs.Jump(id)
		w.expr(j.Value)
	case ExprMacCall:
		mc, _ := exprs.MacCall(id)
		w.macCall(mc)
	default:
		panic(fmt.Sprintf("ast: unhandled expr kind %s", e.Kind))
	}
}

func (w *walker) typ(id TypeID) {
	t := w.b.Types.Get(id)
	if t == nil || !w.fn(TypeNode(id)) {
		return
	}
	types := w.b.Types
	switch t.Kind {
	case TypeErr, TypeNever, TypeInfer, TypeCVarArgs, TypeImplicitSelf:
	case TypePath:
		p, _ := types.Path(id)
		w.path(&p.Path)
	case TypeRef, TypePtr:
		r, _ := types.Ref(id)
		w.typ(r.Elem)
	case TypeSlice, TypeParen:
		el, _ := types.Elem(id)
		w.typ(el.Elem)
	case TypeArray:
		a, _ := types.Array(id)
		w.typ(a.Elem)
		w.expr(a.Len)
	case TypeTuple:
		tt, _ := types.Tuple(id)
		for _, el := range tt.Elems {
			w.typ(el)
		}
	case TypeFnPtr:
		fp, _ := types.FnPtr(id)
		w.genericParams(fp.BoundGenerics)
		for i := range fp.Params {
			w.attrs(fp.Params[i].Attrs)
			w.typ(fp.Params[i].Type)
		}
		w.typ(fp.Output)
	case TypeTraitObject, TypeImplTrait:
		bd, _ := types.Bounds(id)
		w.bounds(bd.Bounds)
	case TypeMacCall:
		mc, _ := types.MacCall(id)
		w.macCall(mc)
	default:
		panic(fmt.Sprintf("ast: unhandled type kind %s", t.Kind))
	}
}

func (w *walker) pats(ids []PatID) {
	for _, id := range ids {
		w.pat(id)
	}
}

func (w *walker) pat(id PatID) {
	p := w.b.Pats.Get(id)
	if p == nil || !w.fn(PatNode(id)) {
		return
	}
	pats := w.b.Pats
	switch p.Kind {
	case PatErr, PatWild, PatRest:
	case PatIdent:
		pi, _ := pats.Ident(id)
		w.pat(pi.Sub)
	case PatLit:
		pe, _ := pats.Expr(id)
		w.expr(pe.Expr)
	case PatRange:
		r, _ := pats.Range(id)
		w.expr(r.Start)
		w.expr(r.End)
	case PatPath:
		pp, _ := pats.Path(id)
		w.path(&pp.Path)
	case PatTupleStruct:
		ts, _ := pats.TupleStruct(id)
		w.path(&ts.Path)
		w.pats(ts.Elems)
	case PatStruct:
		ps, _ := pats.Struct(id)
		w.path(&ps.Path)
		for i := range ps.Fields {
			w.attrs(ps.Fields[i].Attrs)
			w.pat(ps.Fields[i].Pat)
		}
	case PatTuple, PatSlice, PatOr:
		l, _ := pats.List(id)
		w.pats(l.Elems)
	case PatRef, PatBox, PatParen, PatDeref:
		in, _ := pats.Inner(id)
		w.pat(in.Inner)
	case PatMacCall:
		mc, _ := pats.MacCall(id)
		w.macCall(mc)
	default:
		panic(fmt.Sprintf("ast: unhandled pattern kind %s", p.Kind))
	}
}
