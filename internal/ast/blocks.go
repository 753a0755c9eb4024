package ast

import (
	"unsafescan/internal/source"
)

type BlockRules uint8

const (
	BlockDefault BlockRules = iota
	BlockUnsafe
)

// UnsafeSource tells who wrote the `unsafe` of a block. The parser only
// produces UserProvided; CompilerGenerated is kept for synthesized trees.
type UnsafeSource uint8

const (
	UserProvided UnsafeSource = iota
	CompilerGenerated
)

// Block is `{ stmts }`, optionally preceded by `unsafe`. For unsafe blocks
// Span starts at the keyword.
type Block struct {
	Span   source.Span
	Rules  BlockRules
	Source UnsafeSource
	Stmts  []StmtID
}

func (b *Block) IsUnsafe() bool { return b.Rules == BlockUnsafe }

type Blocks struct {
	Arena *Arena[Block]
}

func NewBlocks(capHint uint) *Blocks {
	return &Blocks{Arena: NewArena[Block](capHint)}
}

func (b *Blocks) New(span source.Span, rules BlockRules, src UnsafeSource, stmts []StmtID) BlockID {
	return BlockID(b.Arena.Allocate(Block{
		Span:   span,
		Rules:  rules,
		Source: src,
		Stmts:  stmts,
	}))
}

func (b *Blocks) Get(id BlockID) *Block {
	return b.Arena.Get(uint32(id))
}
