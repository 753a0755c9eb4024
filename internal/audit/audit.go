// Package audit collects the regions of a parsed Rust crate that opt out of
// the compiler's safety checks: `unsafe { ... }` blocks and `unsafe fn`
// items.
package audit

import (
	"errors"

	"unsafescan/internal/ast"
	"unsafescan/internal/source"
)

// ErrNoAST is returned when there is no tree to inspect, usually because
// parsing failed upstream. It is different from an empty Result.
var ErrNoAST = errors.New("audit: no AST to inspect")

type RegionKind uint8

const (
	RegionBlock RegionKind = iota // unsafe { ... }
	RegionFn                      // unsafe fn
	RegionImpl                    // unsafe impl, only with Options.IncludeImpls
	RegionTrait                   // unsafe trait, only with Options.IncludeImpls
)

func (k RegionKind) String() string {
	switch k {
	case RegionBlock:
		return "block"
	case RegionFn:
		return "fn"
	case RegionImpl:
		return "impl"
	case RegionTrait:
		return "trait"
	default:
		return "region(?)"
	}
}

// Region is one recorded construct. Regions may overlap: a block inside an
// unsafe fn gets its own entry.
type Region struct {
	Kind RegionKind
	Span source.Span
	Name string // имя fn или trait; пусто для блоков и impl
}

// Result lists regions in the order the walk first reached them.
type Result struct {
	Root    ast.FileID
	Regions []Region
}

func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Regions)
}

// Count returns how many regions of kind k were recorded.
func (r *Result) Count(k RegionKind) int {
	n := 0
	for _, reg := range r.Regions {
		if reg.Kind == k {
			n++
		}
	}
	return n
}

type Options struct {
	// IncludeImpls also records `unsafe impl` and `unsafe trait` items.
	IncludeImpls bool
}

// Collect walks the tree under root once and records every unsafe block and
// unsafe fn. The tree is only read.
func Collect(b *ast.Builder, root ast.FileID, opts Options) (*Result, error) {
	if b == nil || !root.IsValid() || b.Files.Get(root) == nil {
		return nil, ErrNoAST
	}
	c := collector{b: b, opts: opts, res: &Result{Root: root}}
	ast.Inspect(b, ast.FileNode(root), c.visit)
	return c.res, nil
}

type collector struct {
	b    *ast.Builder
	opts Options
	res  *Result
}

func (c *collector) visit(n ast.Node) bool {
	switch n.Kind {
	case ast.NodeBlock:
		// тело unsafe fn наследует unsafety, но само по себе не помечено
		if blk := c.b.Blocks.Get(ast.BlockID(n.ID)); blk.IsUnsafe() {
			c.add(RegionBlock, blk.Span, "")
		}
	case ast.NodeItem:
		c.item(ast.ItemID(n.ID))
	}
	return true
}

func (c *collector) item(id ast.ItemID) {
	it := c.b.Items.Get(id)
	switch it.Kind {
	case ast.ItemFn:
		fn, _ := c.b.Items.Fn(id)
		if fn.Header.Unsafety == ast.Unsafe {
			c.add(RegionFn, it.Span, c.b.Name(fn.Ident.Name))
		}
	case ast.ItemImpl:
		if !c.opts.IncludeImpls {
			return
		}
		if im, _ := c.b.Items.Impl(id); im.Unsafety == ast.Unsafe {
			c.add(RegionImpl, it.Span, "")
		}
	case ast.ItemTrait:
		if !c.opts.IncludeImpls {
			return
		}
		if tr, _ := c.b.Items.Trait(id); tr.Unsafety == ast.Unsafe {
			c.add(RegionTrait, it.Span, c.b.Name(tr.Ident.Name))
		}
	}
}

func (c *collector) add(kind RegionKind, sp source.Span, name string) {
	c.res.Regions = append(c.res.Regions, Region{Kind: kind, Span: sp, Name: name})
}
