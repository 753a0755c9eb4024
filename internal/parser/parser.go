package parser

import (
	"context"
	"slices"

	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/lexer"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// ExpandMacroArgs: пытаться разобрать аргументы `m!(...)` / `m![...]`
	// как список выражений.
	ExpandMacroArgs bool
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Parser - состояние парсера на один файл
type Parser struct {
	toks     []token.Token // весь поток значимых токенов, последний всегда EOF
	pos      int
	arenas   *ast.Builder // построитель аренных узлов
	file     ast.FileID   // текущий FileID (в AST)
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	errs     int         // ошибки, включая не записанные в Reporter
}

// ParseFile - входная точка для разбора одного файла.
// Лексер читается целиком до начала разбора.
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := newParser(fs, lx.All(), arenas, opts)
	p.file = arenas.NewFile(p.peek().Span)
	p.parseFile(ctx)

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		File: p.file,
		Bag:  bag,
	}
}

func newParser(fs *source.FileSet, toks []token.Token, arenas *ast.Builder, opts Options) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		var sp source.Span
		if len(toks) > 0 {
			sp = toks[len(toks)-1].Span.ZeroAt()
		}
		toks = append(toks, token.Token{Kind: token.EOF, Span: sp})
	}
	return &Parser{
		toks:     toks,
		arenas:   arenas,
		fs:       fs,
		opts:     opts,
		lastSpan: toks[0].Span.ZeroAt(),
	}
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// nth смотрит на n токенов вперёд. За концом потока всегда EOF.
func (p *Parser) nth(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.toks[p.pos].Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.toks[p.pos].Kind)
}

func (p *Parser) nthIs(n int, k token.Kind) bool {
	return p.nth(n).Kind == k
}

// atWord reports whether the current token is the contextual keyword w
// (`union`, `auto`, `default`, `macro_rules`, `raw`, `safe`).
func (p *Parser) atWord(w string) bool {
	return p.nthWord(0, w)
}

func (p *Parser) nthWord(n int, w string) bool {
	t := p.nth(n)
	return t.Kind == token.Ident && t.Text == w
}

func (p *Parser) IsError() bool {
	return p.errs != 0
}

// parseFile - inner-атрибуты файла, затем items до EOF.
func (p *Parser) parseFile(ctx context.Context) {
	f := p.arenas.Files.Get(p.file)
	startSpan := p.peek().Span
	f.Attrs = p.parseInnerAttrs()
	for !p.at(token.EOF) {
		if ctx.Err() != nil {
			return
		}
		if p.at(token.RBrace) {
			p.err(diag.SynUnexpectedToken, "unexpected closing delimiter '}'")
			p.advance()
			continue
		}
		before := p.pos
		attrs := p.parseOuterAttrs()
		itemID, ok := p.parseItem(attrs)
		if !ok {
			p.resyncItem(before)
			continue
		}
		p.arenas.PushItem(p.file, itemID)
	}
	f.Span = startSpan.Cover(p.lastSpan)
}

// resyncItem - восстановление после ошибки в item: прокручиваем до ';'
// (съедаем), до '}' (не съедаем) или до начала следующего item.
// Гарантирует продвижение хотя бы на один токен.
func (p *Parser) resyncItem(before int) {
	if p.pos == before && !p.at(token.EOF) && !p.at(token.RBrace) {
		p.skipTokenOrTree()
	}
	for !p.at(token.EOF) {
		switch {
		case p.at(token.Semicolon):
			p.advance()
			return
		case p.at(token.RBrace):
			return
		case isItemStarter(p.peek().Kind):
			return
		}
		p.skipTokenOrTree()
	}
}

// resyncStmt - внутри блока: до ';' (съедаем) или до '}'.
func (p *Parser) resyncStmt(before int) {
	if p.pos == before && !p.at(token.EOF) && !p.at(token.RBrace) {
		p.skipTokenOrTree()
	}
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		if p.at(token.Semicolon) {
			p.advance()
			return
		}
		p.skipTokenOrTree()
	}
}

// isItemStarter - токены, с которых может начинаться item.
func isItemStarter(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwStruct, token.KwEnum, token.KwTrait, token.KwImpl,
		token.KwMod, token.KwUse, token.KwType, token.KwExtern, token.KwPub,
		token.KwStatic, token.KwConst, token.KwUnsafe, token.Pound:
		return true
	default:
		return false
	}
}

// parseIdent - ожидает Ident и интернирует его. `r#name` интернируется как `name`.
// На ошибке - репорт SynExpectIdentifier.
func (p *Parser) parseIdent() (ast.Ident, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.identFrom(tok), true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	return ast.Ident{}, false
}

// parseIdentOrUnderscore accepts `_` where Rust allows an anonymous name
// (`const _`, `use x as _`, `extern crate x as _`).
func (p *Parser) parseIdentOrUnderscore() (ast.Ident, bool) {
	if p.at(token.Underscore) {
		tok := p.advance()
		return p.identFrom(tok), true
	}
	return p.parseIdent()
}

func (p *Parser) identFrom(tok token.Token) ast.Ident {
	text := tok.Text
	if len(text) > 2 && text[0] == 'r' && text[1] == '#' {
		text = text[2:]
	}
	return ast.Ident{Name: p.arenas.StringsInterner.Intern(text), Span: tok.Span}
}
