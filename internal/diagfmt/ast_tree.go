package diagfmt

import (
	"fmt"
	"strings"

	"unsafescan/internal/ast"
	"unsafescan/internal/source"
)

// treeNode is one line of the AST outline: files, items, statements and
// blocks. Expressions, types and patterns are folded into their statement.
type treeNode struct {
	typ      string // File, Item, Stmt, Block
	kind     string
	name     string
	unsafe   bool
	span     source.Span
	children []*treeNode
}

// buildOutline walks the file once and nests nodes by span containment.
// Out-of-line module bodies live in another source file, so they are
// attached to the node that was open when the walk reached them.
func buildOutline(builder *ast.Builder, fileID ast.FileID) *treeNode {
	var root *treeNode
	var stack []*treeNode

	attach := func(n *treeNode, byContainment bool) {
		if byContainment {
			for len(stack) > 0 && !stack[len(stack)-1].span.Contains(n.span) {
				stack = stack[:len(stack)-1]
			}
		}
		if len(stack) == 0 {
			if root == nil {
				root = n
			}
		} else {
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
		}
		stack = append(stack, n)
	}

	ast.Inspect(builder, ast.FileNode(fileID), func(n ast.Node) bool {
		switch n.Kind {
		case ast.NodeFile:
			f := builder.Files.Get(ast.FileID(n.ID))
			attach(&treeNode{typ: "File", span: f.Span}, false)
		case ast.NodeItem:
			attach(itemNode(builder, ast.ItemID(n.ID)), true)
		case ast.NodeStmt:
			attach(stmtNode(builder, ast.StmtID(n.ID)), true)
		case ast.NodeBlock:
			blk := builder.Blocks.Get(ast.BlockID(n.ID))
			attach(&treeNode{typ: "Block", unsafe: blk.IsUnsafe(), span: blk.Span}, true)
		}
		return true
	})
	return root
}

func itemNode(builder *ast.Builder, id ast.ItemID) *treeNode {
	it := builder.Items.Get(id)
	n := &treeNode{typ: "Item", kind: it.Kind.String(), span: it.Span}
	items := builder.Items
	switch it.Kind {
	case ast.ItemFn:
		fn, _ := items.Fn(id)
		n.name, n.unsafe = builder.Name(fn.Ident.Name), fn.Header.Unsafety == ast.Unsafe
	case ast.ItemStruct, ast.ItemUnion:
		st, _ := items.Struct(id)
		n.name = builder.Name(st.Ident.Name)
	case ast.ItemEnum:
		en, _ := items.Enum(id)
		n.name = builder.Name(en.Ident.Name)
	case ast.ItemTrait:
		tr, _ := items.Trait(id)
		n.name, n.unsafe = builder.Name(tr.Ident.Name), tr.Unsafety == ast.Unsafe
	case ast.ItemTraitAlias:
		ta, _ := items.TraitAlias(id)
		n.name = builder.Name(ta.Ident.Name)
	case ast.ItemImpl:
		im, _ := items.Impl(id)
		n.unsafe = im.Unsafety == ast.Unsafe
		if im.Trait != nil {
			n.name = formatPath(builder, im.Trait)
		}
	case ast.ItemMod:
		md, _ := items.Mod(id)
		n.name = builder.Name(md.Ident.Name)
	case ast.ItemForeignMod:
		fm, _ := items.ForeignMod(id)
		n.name, n.unsafe = fm.ABI, fm.Unsafety == ast.Unsafe
	case ast.ItemExternCrate:
		ec, _ := items.ExternCrate(id)
		n.name = builder.Name(ec.Ident.Name)
	case ast.ItemConst:
		c, _ := items.Const(id)
		n.name = builder.Name(c.Ident.Name)
	case ast.ItemStatic:
		s, _ := items.Static(id)
		n.name = builder.Name(s.Ident.Name)
	case ast.ItemTypeAlias:
		ta, _ := items.TypeAlias(id)
		n.name = builder.Name(ta.Ident.Name)
	case ast.ItemMacCall:
		mc, _ := items.MacCall(id)
		n.name = formatPath(builder, &mc.Path) + "!"
	case ast.ItemMacroRules:
		mr, _ := items.MacroRules(id)
		n.name = builder.Name(mr.Ident.Name)
	}
	return n
}

func stmtNode(builder *ast.Builder, id ast.StmtID) *treeNode {
	st := builder.Stmts.Get(id)
	n := &treeNode{typ: "Stmt", kind: st.Kind.String(), span: st.Span}
	if data, ok := builder.Stmts.Expr(id); ok {
		if e := builder.Exprs.Get(data.Expr); e != nil {
			n.name = e.Kind.String()
		}
	}
	return n
}

func formatPath(builder *ast.Builder, p *ast.Path) string {
	parts := make([]string, 0, len(p.Segments))
	for _, seg := range p.Segments {
		parts = append(parts, builder.Name(seg.Ident.Name))
	}
	s := strings.Join(parts, "::")
	if p.Global {
		s = "::" + s
	}
	return s
}

func (n *treeNode) label(fs *source.FileSet) string {
	var sb strings.Builder
	sb.WriteString(n.typ)
	if n.kind != "" {
		sb.WriteByte(' ')
		sb.WriteString(n.kind)
	}
	if n.name != "" {
		sb.WriteByte(' ')
		sb.WriteString(n.name)
	}
	if n.unsafe {
		sb.WriteString(" [unsafe]")
	}
	fmt.Fprintf(&sb, " (span: %s)", formatSpan(n.span, fs))
	return sb.String()
}

// formatSpan formats a source.Span into a string.
// If fs is non-nil, it resolves the span to start and end positions and returns "startLine:startCol-endLine:endCol".
// If fs is nil, it returns "span(start-end)".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.ResolveChars(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
