package token

import "strconv"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token, raw identifiers (r#name) included.
	Ident
	// Lifetime represents a lifetime or label such as 'a or 'static.
	Lifetime

	// Strict keywords. Weak keywords (union, auto, default, macro_rules, safe)
	// stay identifiers and are recognised by the parser in context.
	KwAs       // as
	KwAsync    // async
	KwAwait    // await
	KwBreak    // break
	KwConst    // const
	KwContinue // continue
	KwCrate    // crate
	KwDyn      // dyn
	KwElse     // else
	KwEnum     // enum
	KwExtern   // extern
	KwFalse    // false
	KwFn       // fn
	KwFor      // for
	KwIf       // if
	KwImpl     // impl
	KwIn       // in
	KwLet      // let
	KwLoop     // loop
	KwMatch    // match
	KwMod      // mod
	KwMove     // move
	KwMut      // mut
	KwPub      // pub
	KwRef      // ref
	KwReturn   // return
	KwSelf     // self
	KwSelfType // Self
	KwStatic   // static
	KwStruct   // struct
	KwSuper    // super
	KwTrait    // trait
	KwTrue     // true
	KwType     // type
	KwUnsafe   // unsafe
	KwUse      // use
	KwWhere    // where
	KwWhile    // while
	KwYield    // yield

	// IntLit represents an integer literal, with an optional suffix.
	IntLit
	// FloatLit represents a float literal, with an optional suffix.
	FloatLit
	// CharLit represents a 'x' character literal.
	CharLit
	// ByteLit represents a b'x' byte literal.
	ByteLit
	// StringLit represents a "..." string literal.
	StringLit
	// RawStringLit represents a r"..." / r#"..."# raw string literal.
	RawStringLit
	// ByteStringLit represents a b"..." byte string literal.
	ByteStringLit
	// RawByteStringLit represents a br"..." raw byte string literal.
	RawByteStringLit
	// CStringLit represents a c"..." C string literal.
	CStringLit
	// RawCStringLit represents a cr"..." raw C string literal.
	RawCStringLit

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Caret         // ^
	Bang          // !
	Amp           // &
	Pipe          // |
	AndAnd        // &&
	OrOr          // ||
	Shl           // <<
	Shr           // >>
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	CaretAssign   // ^=
	AmpAssign     // &=
	PipeAssign    // |=
	ShlAssign     // <<=
	ShrAssign     // >>=
	Assign        // =
	EqEq          // ==
	BangEq        // !=
	Gt            // >
	Lt            // <
	GtEq          // >=
	LtEq          // <=
	At            // @
	Underscore    // _
	Dot           // .
	DotDot        // ..
	DotDotDot     // ...
	DotDotEq      // ..=
	Comma         // ,
	Semicolon     // ;
	Colon         // :
	ColonColon    // ::
	Arrow         // ->
	FatArrow      // =>
	Pound         // #
	Dollar        // $
	Question      // ?
	Tilde         // ~
	LParen        // (
	RParen        // )
	LBracket      // [
	RBracket      // ]
	LBrace        // {
	RBrace        // }
)

var kindNames = map[Kind]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Ident:            "Ident",
	Lifetime:         "Lifetime",
	KwAs:             "as",
	KwAsync:          "async",
	KwAwait:          "await",
	KwBreak:          "break",
	KwConst:          "const",
	KwContinue:       "continue",
	KwCrate:          "crate",
	KwDyn:            "dyn",
	KwElse:           "else",
	KwEnum:           "enum",
	KwExtern:         "extern",
	KwFalse:          "false",
	KwFn:             "fn",
	KwFor:            "for",
	KwIf:             "if",
	KwImpl:           "impl",
	KwIn:             "in",
	KwLet:            "let",
	KwLoop:           "loop",
	KwMatch:          "match",
	KwMod:            "mod",
	KwMove:           "move",
	KwMut:            "mut",
	KwPub:            "pub",
	KwRef:            "ref",
	KwReturn:         "return",
	KwSelf:           "self",
	KwSelfType:       "Self",
	KwStatic:         "static",
	KwStruct:         "struct",
	KwSuper:          "super",
	KwTrait:          "trait",
	KwTrue:           "true",
	KwType:           "type",
	KwUnsafe:         "unsafe",
	KwUse:            "use",
	KwWhere:          "where",
	KwWhile:          "while",
	KwYield:          "yield",
	IntLit:           "IntLit",
	FloatLit:         "FloatLit",
	CharLit:          "CharLit",
	ByteLit:          "ByteLit",
	StringLit:        "StringLit",
	RawStringLit:     "RawStringLit",
	ByteStringLit:    "ByteStringLit",
	RawByteStringLit: "RawByteStringLit",
	CStringLit:       "CStringLit",
	RawCStringLit:    "RawCStringLit",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	Slash:            "/",
	Percent:          "%",
	Caret:            "^",
	Bang:             "!",
	Amp:              "&",
	Pipe:             "|",
	AndAnd:           "&&",
	OrOr:             "||",
	Shl:              "<<",
	Shr:              ">>",
	PlusAssign:       "+=",
	MinusAssign:      "-=",
	StarAssign:       "*=",
	SlashAssign:      "/=",
	PercentAssign:    "%=",
	CaretAssign:      "^=",
	AmpAssign:        "&=",
	PipeAssign:       "|=",
	ShlAssign:        "<<=",
	ShrAssign:        ">>=",
	Assign:           "=",
	EqEq:             "==",
	BangEq:           "!=",
	Gt:               ">",
	Lt:               "<",
	GtEq:             ">=",
	LtEq:             "<=",
	At:               "@",
	Underscore:       "_",
	Dot:              ".",
	DotDot:           "..",
	DotDotDot:        "...",
	DotDotEq:         "..=",
	Comma:            ",",
	Semicolon:        ";",
	Colon:            ":",
	ColonColon:       "::",
	Arrow:            "->",
	FatArrow:         "=>",
	Pound:            "#",
	Dollar:           "$",
	Question:         "?",
	Tilde:            "~",
	LParen:           "(",
	RParen:           ")",
	LBracket:         "[",
	RBracket:         "]",
	LBrace:           "{",
	RBrace:           "}",
}

// String returns the lexeme of punctuation and keywords, and the kind name otherwise.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}
