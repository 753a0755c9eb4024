package ast

import (
	"unsafescan/internal/source"
)

type ItemKind uint8

const (
	ItemErr ItemKind = iota
	ItemFn
	ItemStruct
	ItemUnion
	ItemEnum
	ItemTrait
	ItemTraitAlias
	ItemImpl
	ItemMod
	ItemForeignMod
	ItemExternCrate
	ItemUse
	ItemConst
	ItemStatic
	ItemTypeAlias
	ItemMacCall
	ItemMacroRules
)

var itemKindNames = [...]string{
	ItemErr:         "Err",
	ItemFn:          "Fn",
	ItemStruct:      "Struct",
	ItemUnion:       "Union",
	ItemEnum:        "Enum",
	ItemTrait:       "Trait",
	ItemTraitAlias:  "TraitAlias",
	ItemImpl:        "Impl",
	ItemMod:         "Mod",
	ItemForeignMod:  "ForeignMod",
	ItemExternCrate: "ExternCrate",
	ItemUse:         "Use",
	ItemConst:       "Const",
	ItemStatic:      "Static",
	ItemTypeAlias:   "TypeAlias",
	ItemMacCall:     "MacCall",
	ItemMacroRules:  "MacroRules",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "ItemKind(?)"
}

// Item is any item: at module level, inside traits, impls, extern blocks or
// function bodies. Span starts at the visibility (or the first qualifier)
// and does not include outer attributes.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Attrs   []Attr
	Vis     Visibility
	Payload PayloadID
}

// FnHeader carries the qualifiers written before `fn`.
type FnHeader struct {
	Const    bool
	Async    bool
	Unsafety Unsafety
	Extern   bool
	ABI      string
}

type SelfKind uint8

const (
	SelfNone     SelfKind = iota
	SelfValue             // self, mut self
	SelfRef               // &self, &'a mut self
	SelfExplicit          // self: Box<Self>
)

type Param struct {
	Span     source.Span
	Attrs    []Attr
	Pat      PatID
	Type     TypeID
	Self     SelfKind
	Lifetime Ident
	Mut      Mutability
}

type FnItem struct {
	Ident    Ident
	Header   FnHeader
	Generics Generics
	Params   []Param
	Variadic bool
	Output   TypeID
	Body     BlockID // NoBlockID для `fn f();`
}

type VariantShape uint8

const (
	ShapeUnit VariantShape = iota
	ShapeTuple
	ShapeNamed
)

type FieldDef struct {
	Span    source.Span
	Attrs   []Attr
	Vis     Visibility
	Unsafe  bool
	Ident   Ident
	Type    TypeID
	Default ExprID
}

type StructItem struct {
	Ident    Ident
	Generics Generics
	Shape    VariantShape
	Fields   []FieldDef
}

type Variant struct {
	Span         source.Span
	Attrs        []Attr
	Vis          Visibility
	Ident        Ident
	Shape        VariantShape
	Fields       []FieldDef
	Discriminant ExprID
}

type EnumItem struct {
	Ident    Ident
	Generics Generics
	Variants []Variant
}

type TraitItem struct {
	Ident    Ident
	Unsafety Unsafety
	Auto     bool
	Const    bool
	Generics Generics
	Bounds   []GenericBound
	Items    []ItemID
}

type TraitAliasItem struct {
	Ident    Ident
	Generics Generics
	Bounds   []GenericBound
}

type ImplItem struct {
	Unsafety Unsafety
	Default  bool
	Const    bool
	Negative bool
	Generics Generics
	Trait    *Path
	SelfType TypeID
	Items    []ItemID
}

// ModItem is `mod name { ... }` or `mod name;`. For the out-of-line form the
// driver may attach the parsed module body as File.
type ModItem struct {
	Ident      Ident
	Unsafety   Unsafety
	Inline     bool
	InnerAttrs []Attr
	Items      []ItemID
	File       FileID
}

type ForeignModItem struct {
	Unsafety   Unsafety
	ABI        string
	InnerAttrs []Attr
	Items      []ItemID
}

type ExternCrateItem struct {
	Ident  Ident
	Rename Ident
}

type UseTreeKind uint8

const (
	UseSimple UseTreeKind = iota
	UseGlob
	UseNested
)

type UseTree struct {
	Span   source.Span
	Kind   UseTreeKind
	Prefix Path
	Rename Ident
	Nested []UseTree
}

type UseItem struct {
	Tree UseTree
}

type ConstItem struct {
	Ident    Ident
	Generics Generics
	Type     TypeID
	Value    ExprID
}

type StaticItem struct {
	Ident  Ident
	Safety Unsafety
	Mut    Mutability
	Type   TypeID
	Value  ExprID
}

type TypeAliasItem struct {
	Ident    Ident
	Generics Generics
	Bounds   []GenericBound
	Type     TypeID
}

// MacroRulesItem is a `macro_rules!` or `macro` definition. Its body is
// never parsed.
type MacroRulesItem struct {
	Ident  Ident
	Macro2 bool
	Delim  MacDelim
	Body   source.Span
}

type Items struct {
	Arena        *Arena[Item]
	Fns          *Arena[FnItem]
	Structs      *Arena[StructItem]
	Enums        *Arena[EnumItem]
	Traits       *Arena[TraitItem]
	TraitAliases *Arena[TraitAliasItem]
	Impls        *Arena[ImplItem]
	Mods         *Arena[ModItem]
	ForeignMods  *Arena[ForeignModItem]
	ExternCrates *Arena[ExternCrateItem]
	Uses         *Arena[UseItem]
	Consts       *Arena[ConstItem]
	Statics      *Arena[StaticItem]
	TypeAliases  *Arena[TypeAliasItem]
	MacCalls     *Arena[MacCall]
	MacroDefs    *Arena[MacroRulesItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:        NewArena[Item](capHint),
		Fns:          NewArena[FnItem](capHint / 8),
		Structs:      NewArena[StructItem](capHint / 8),
		Enums:        NewArena[EnumItem](capHint / 8),
		Traits:       NewArena[TraitItem](capHint / 8),
		TraitAliases: NewArena[TraitAliasItem](capHint / 8),
		Impls:        NewArena[ImplItem](capHint / 8),
		Mods:         NewArena[ModItem](capHint / 8),
		ForeignMods:  NewArena[ForeignModItem](capHint / 8),
		ExternCrates: NewArena[ExternCrateItem](capHint / 8),
		Uses:         NewArena[UseItem](capHint / 8),
		Consts:       NewArena[ConstItem](capHint / 8),
		Statics:      NewArena[StaticItem](capHint / 8),
		TypeAliases:  NewArena[TypeAliasItem](capHint / 8),
		MacCalls:     NewArena[MacCall](capHint / 8),
		MacroDefs:    NewArena[MacroRulesItem](capHint / 8),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, attrs []Attr, vis Visibility, payload PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: kind, Span: span, Attrs: attrs, Vis: vis, Payload: payload}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// NewSimple allocates a node whose kind carries no payload.
func (i *Items) NewSimple(kind ItemKind, span source.Span, attrs []Attr, vis Visibility) ItemID {
	return i.new(kind, span, attrs, vis, NoPayloadID)
}

func (i *Items) NewFn(span source.Span, attrs []Attr, vis Visibility, data FnItem) ItemID {
	payload := PayloadID(i.Fns.Allocate(data))
	return i.new(ItemFn, span, attrs, vis, payload)
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(n.Payload)), true
}

func (i *Items) NewStruct(kind ItemKind, span source.Span, attrs []Attr, vis Visibility, data StructItem) ItemID {
	payload := PayloadID(i.Structs.Allocate(data))
	return i.new(kind, span, attrs, vis, payload)
}

func (i *Items) Struct(id ItemID) (*StructItem, bool) {
	n := i.Get(id)
	if n == nil || (n.Kind != ItemStruct && n.Kind != ItemUnion) {
		return nil, false
	}
	return i.Structs.Get(uint32(n.Payload)), true
}

func (i *Items) NewEnum(span source.Span, attrs []Attr, vis Visibility, data EnumItem) ItemID {
	payload := PayloadID(i.Enums.Allocate(data))
	return i.new(ItemEnum, span, attrs, vis, payload)
}

func (i *Items) Enum(id ItemID) (*EnumItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemEnum {
		return nil, false
	}
	return i.Enums.Get(uint32(n.Payload)), true
}

func (i *Items) NewTrait(span source.Span, attrs []Attr, vis Visibility, data TraitItem) ItemID {
	payload := PayloadID(i.Traits.Allocate(data))
	return i.new(ItemTrait, span, attrs, vis, payload)
}

func (i *Items) Trait(id ItemID) (*TraitItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemTrait {
		return nil, false
	}
	return i.Traits.Get(uint32(n.Payload)), true
}

func (i *Items) NewTraitAlias(span source.Span, attrs []Attr, vis Visibility, data TraitAliasItem) ItemID {
	payload := PayloadID(i.TraitAliases.Allocate(data))
	return i.new(ItemTraitAlias, span, attrs, vis, payload)
}

func (i *Items) TraitAlias(id ItemID) (*TraitAliasItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemTraitAlias {
		return nil, false
	}
	return i.TraitAliases.Get(uint32(n.Payload)), true
}

func (i *Items) NewImpl(span source.Span, attrs []Attr, vis Visibility, data ImplItem) ItemID {
	payload := PayloadID(i.Impls.Allocate(data))
	return i.new(ItemImpl, span, attrs, vis, payload)
}

func (i *Items) Impl(id ItemID) (*ImplItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemImpl {
		return nil, false
	}
	return i.Impls.Get(uint32(n.Payload)), true
}

func (i *Items) NewMod(span source.Span, attrs []Attr, vis Visibility, data ModItem) ItemID {
	payload := PayloadID(i.Mods.Allocate(data))
	return i.new(ItemMod, span, attrs, vis, payload)
}

func (i *Items) Mod(id ItemID) (*ModItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemMod {
		return nil, false
	}
	return i.Mods.Get(uint32(n.Payload)), true
}

func (i *Items) NewForeignMod(span source.Span, attrs []Attr, vis Visibility, data ForeignModItem) ItemID {
	payload := PayloadID(i.ForeignMods.Allocate(data))
	return i.new(ItemForeignMod, span, attrs, vis, payload)
}

func (i *Items) ForeignMod(id ItemID) (*ForeignModItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemForeignMod {
		return nil, false
	}
	return i.ForeignMods.Get(uint32(n.Payload)), true
}

func (i *Items) NewExternCrate(span source.Span, attrs []Attr, vis Visibility, data ExternCrateItem) ItemID {
	payload := PayloadID(i.ExternCrates.Allocate(data))
	return i.new(ItemExternCrate, span, attrs, vis, payload)
}

func (i *Items) ExternCrate(id ItemID) (*ExternCrateItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemExternCrate {
		return nil, false
	}
	return i.ExternCrates.Get(uint32(n.Payload)), true
}

func (i *Items) NewUse(span source.Span, attrs []Attr, vis Visibility, data UseItem) ItemID {
	payload := PayloadID(i.Uses.Allocate(data))
	return i.new(ItemUse, span, attrs, vis, payload)
}

func (i *Items) Use(id ItemID) (*UseItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemUse {
		return nil, false
	}
	return i.Uses.Get(uint32(n.Payload)), true
}

func (i *Items) NewConst(span source.Span, attrs []Attr, vis Visibility, data ConstItem) ItemID {
	payload := PayloadID(i.Consts.Allocate(data))
	return i.new(ItemConst, span, attrs, vis, payload)
}

func (i *Items) Const(id ItemID) (*ConstItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemConst {
		return nil, false
	}
	return i.Consts.Get(uint32(n.Payload)), true
}

func (i *Items) NewStatic(span source.Span, attrs []Attr, vis Visibility, data StaticItem) ItemID {
	payload := PayloadID(i.Statics.Allocate(data))
	return i.new(ItemStatic, span, attrs, vis, payload)
}

func (i *Items) Static(id ItemID) (*StaticItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemStatic {
		return nil, false
	}
	return i.Statics.Get(uint32(n.Payload)), true
}

func (i *Items) NewTypeAlias(span source.Span, attrs []Attr, vis Visibility, data TypeAliasItem) ItemID {
	payload := PayloadID(i.TypeAliases.Allocate(data))
	return i.new(ItemTypeAlias, span, attrs, vis, payload)
}

func (i *Items) TypeAlias(id ItemID) (*TypeAliasItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemTypeAlias {
		return nil, false
	}
	return i.TypeAliases.Get(uint32(n.Payload)), true
}

func (i *Items) NewMacCall(span source.Span, attrs []Attr, vis Visibility, data MacCall) ItemID {
	payload := PayloadID(i.MacCalls.Allocate(data))
	return i.new(ItemMacCall, span, attrs, vis, payload)
}

func (i *Items) MacCall(id ItemID) (*MacCall, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemMacCall {
		return nil, false
	}
	return i.MacCalls.Get(uint32(n.Payload)), true
}

func (i *Items) NewMacroRules(span source.Span, attrs []Attr, vis Visibility, data MacroRulesItem) ItemID {
	payload := PayloadID(i.MacroDefs.Allocate(data))
	return i.new(ItemMacroRules, span, attrs, vis, payload)
}

func (i *Items) MacroRules(id ItemID) (*MacroRulesItem, bool) {
	n := i.Get(id)
	if n == nil || n.Kind != ItemMacroRules {
		return nil, false
	}
	return i.MacroDefs.Get(uint32(n.Payload)), true
}

