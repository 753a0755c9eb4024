package ast

import (
	"unsafescan/internal/source"
)

// Ident is an interned name with its span. Raw identifiers keep the `r#`
// prefix stripped; keywords used as path segments (self, super, crate, Self)
// are stored as-is.
type Ident struct {
	Name source.StringID
	Span source.Span
}

func (i Ident) IsValid() bool { return i.Name != source.NoStringID }

// Unsafety is the `unsafe`/`safe` qualifier of fns, traits, impls, extern
// blocks and foreign items.
type Unsafety uint8

const (
	Normal Unsafety = iota
	Unsafe
	Safe // `safe fn` / `safe static` inside `unsafe extern`
)

func (u Unsafety) String() string {
	switch u {
	case Unsafe:
		return "unsafe"
	case Safe:
		return "safe"
	default:
		return ""
	}
}

type Mutability uint8

const (
	Not Mutability = iota
	Mut
)

type AttrStyle uint8

const (
	AttrOuter AttrStyle = iota // #[...]
	AttrInner                  // #![...]
)

type AttrArgsKind uint8

const (
	AttrArgsEmpty     AttrArgsKind = iota // #[inline]
	AttrArgsDelimited                     // #[derive(Debug)]
	AttrArgsEq                            // #[path = "foo.rs"]
)

// Attr is one attribute. Delimited arguments are kept as a raw span, the
// `= expr` form is parsed so its expression can be visited.
type Attr struct {
	Span     source.Span
	Style    AttrStyle
	Unsafe   bool // #[unsafe(no_mangle)]
	Path     Path
	ArgsKind AttrArgsKind
	Args     source.Span // inside the delimiters
	Value    ExprID
}

type Path struct {
	Span     source.Span
	Global   bool // ведущий `::`
	QSelf    *QSelf
	Segments []PathSegment
}

// QSelf is the `<T as Trait>` prefix of a qualified path. Position is the
// number of leading Segments that belong to the trait path.
type QSelf struct {
	Span     source.Span
	Type     TypeID
	Position int
}

type PathSegment struct {
	Ident Ident
	Args  *GenericArgs
}

func (p Path) IsValid() bool { return len(p.Segments) > 0 || p.QSelf != nil }

type GenericArgsKind uint8

const (
	GenericArgsAngle  GenericArgsKind = iota // <T, 'a, N = 3>
	GenericArgsParen                         // Fn(A, B) -> C
	GenericArgsReturn                        // method(..)
)

type GenericArgs struct {
	Span   source.Span
	Kind   GenericArgsKind
	Args   []GenericArg
	Inputs []TypeID
	Output TypeID
}

type GenericArgKind uint8

const (
	ArgLifetime GenericArgKind = iota
	ArgType
	ArgConst
	ArgAssocEq    // Item = T
	ArgAssocConst // N = { 3 }
	ArgAssocBound // Item: Bound
)

type GenericArg struct {
	Kind     GenericArgKind
	Span     source.Span
	Lifetime Ident
	Type     TypeID
	Const    ExprID
	Name     Ident
	NameArgs *GenericArgs
	Bounds   []GenericBound
}

type Generics struct {
	Span   source.Span
	Params []GenericParam
	Where  []WherePredicate
}

type GenericParamKind uint8

const (
	ParamLifetime GenericParamKind = iota
	ParamType
	ParamConst
)

type GenericParam struct {
	Span         source.Span
	Attrs        []Attr
	Kind         GenericParamKind
	Ident        Ident
	Bounds       []GenericBound
	Default      TypeID
	ConstType    TypeID
	ConstDefault ExprID
}

type GenericBoundKind uint8

const (
	BoundTrait GenericBoundKind = iota
	BoundLifetime
	BoundUse // use<'a, T>
)

type BoundModifiers uint8

const (
	BoundMaybe    BoundModifiers = 1 << iota // ?Sized
	BoundNegative                            // !Send
	BoundConst                               // ~const / const
	BoundAsync                               // async Fn
)

type GenericBound struct {
	Kind          GenericBoundKind
	Span          source.Span
	Modifiers     BoundModifiers
	BoundGenerics []GenericParam // for<'a>
	Path          Path
	Lifetime      Ident
	UseArgs       []Ident
}

type WherePredicateKind uint8

const (
	PredBound  WherePredicateKind = iota // T: Bound
	PredRegion                           // 'a: 'b
	PredEq                               // T = U
)

type WherePredicate struct {
	Kind          WherePredicateKind
	Span          source.Span
	BoundGenerics []GenericParam
	Type          TypeID
	Lifetime      Ident
	Bounds        []GenericBound
	Rhs           TypeID
}

type VisKind uint8

const (
	VisInherited  VisKind = iota // приватная по умолчанию
	VisPublic                    // pub
	VisRestricted                // pub(crate), pub(super), pub(in path)
)

type Visibility struct {
	Kind VisKind
	Span source.Span
	Path Path
}

type MacDelim uint8

const (
	MacParen MacDelim = iota
	MacBracket
	MacBrace
)

func (d MacDelim) String() string {
	switch d {
	case MacBracket:
		return "[]"
	case MacBrace:
		return "{}"
	default:
		return "()"
	}
}

// MacCall is a macro invocation `path!(...)`. Its token tree is opaque; when
// the parser is asked to, it tries to read the arguments as a comma separated
// expression list and keeps the result in Args with Expanded set.
type MacCall struct {
	Span     source.Span
	Path     Path
	Delim    MacDelim
	Inner    source.Span
	Args     []ExprID
	Expanded bool
}
