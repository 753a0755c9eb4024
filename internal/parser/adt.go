package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/diag"
	"unsafescan/internal/source"
	"unsafescan/internal/token"
)

// parseStruct: `struct S;`, `struct S(A, B);`, `struct S { a: A }`, а также union.
func (p *Parser) parseStruct(start source.Span, attrs []ast.Attr, vis ast.Visibility, kind ast.ItemKind) (ast.ItemID, bool) {
	p.advance() // struct | union
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	data := ast.StructItem{Ident: name}
	generics, ok := p.parseGenerics()
	if !ok {
		return ast.NoItemID, false
	}

	switch {
	case p.at(token.LParen):
		data.Shape = ast.ShapeTuple
		fields, ok := p.parseTupleFields()
		if !ok {
			return ast.NoItemID, false
		}
		data.Fields = fields
		if !p.parseWhereClause(&generics) {
			return ast.NoItemID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after tuple struct"); !ok {
			return ast.NoItemID, false
		}
	default:
		if !p.parseWhereClause(&generics) {
			return ast.NoItemID, false
		}
		if p.eat(token.Semicolon) {
			data.Shape = ast.ShapeUnit
			break
		}
		data.Shape = ast.ShapeNamed
		fields, ok := p.parseNamedFields()
		if !ok {
			return ast.NoItemID, false
		}
		data.Fields = fields
	}
	data.Generics = generics
	return p.arenas.Items.NewStruct(kind, p.spanFrom(start), attrs, vis, data), true
}

// parseNamedFields: `{ [pub] [unsafe] name: T [= default], ... }`.
func (p *Parser) parseNamedFields() ([]ast.FieldDef, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' or ';' after struct name, got \""+p.peek().Text+"\"")
	if !ok {
		return nil, false
	}
	var fields []ast.FieldDef
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		field := ast.FieldDef{Attrs: p.parseOuterAttrs()}
		start := p.peek().Span
		vis, ok := p.parseVisibility()
		if !ok {
			return nil, false
		}
		field.Vis = vis
		field.Unsafe = p.eat(token.KwUnsafe)
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		field.Ident = name
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		field.Type = ty
		if p.eat(token.Assign) {
			def, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			field.Default = def
		}
		field.Span = p.spanFrom(start)
		fields = append(fields, field)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return nil, false
	}
	return fields, true
}

// parseTupleFields: `([pub] A, [pub] B)`.
func (p *Parser) parseTupleFields() ([]ast.FieldDef, bool) {
	open := p.advance()
	var fields []ast.FieldDef
	for !p.at(token.RParen) && !p.at(token.EOF) {
		field := ast.FieldDef{Attrs: p.parseOuterAttrs()}
		start := p.peek().Span
		vis, ok := p.parseVisibility()
		if !ok {
			return nil, false
		}
		field.Vis = vis
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		field.Type = ty
		field.Span = p.spanFrom(start)
		fields = append(fields, field)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return nil, false
	}
	return fields, true
}

func (p *Parser) parseEnum(start source.Span, attrs []ast.Attr, vis ast.Visibility) (ast.ItemID, bool) {
	p.advance() // enum
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	data := ast.EnumItem{Ident: name}
	generics, ok := p.parseGenerics()
	if !ok {
		return ast.NoItemID, false
	}
	if !p.parseWhereClause(&generics) {
		return ast.NoItemID, false
	}
	data.Generics = generics

	open, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' after enum name, got \""+p.peek().Text+"\"")
	if !ok {
		return ast.NoItemID, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		v, ok := p.parseVariant()
		if !ok {
			p.skipUntilClose(open)
			return ast.NoItemID, false
		}
		data.Variants = append(data.Variants, v)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expectClose(open); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewEnum(p.spanFrom(start), attrs, vis, data), true
}

func (p *Parser) parseVariant() (ast.Variant, bool) {
	v := ast.Variant{Attrs: p.parseOuterAttrs()}
	start := p.peek().Span
	vis, ok := p.parseVisibility()
	if !ok {
		return v, false
	}
	v.Vis = vis
	name, ok := p.parseIdent()
	if !ok {
		return v, false
	}
	v.Ident = name
	switch {
	case p.at(token.LParen):
		v.Shape = ast.ShapeTuple
		v.Fields, ok = p.parseTupleFields()
	case p.at(token.LBrace):
		v.Shape = ast.ShapeNamed
		v.Fields, ok = p.parseNamedFields()
	}
	if !ok {
		return v, false
	}
	if p.eat(token.Assign) {
		disc, ok := p.parseExpr()
		if !ok {
			return v, false
		}
		v.Discriminant = disc
	}
	v.Span = p.spanFrom(start)
	return v, true
}
