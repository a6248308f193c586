// Package objstore implements the uniform tagged-object system that
// underlies the parsed tree, the type system, and the JIT intermediate
// representation (spec §3/§4.1, "Object").
//
// Objects live in arenas (see arena.go); an object never outlives its
// arena and arenas are never compacted, only freed wholesale once
// unreachable. The store does not know what a "tree" or a "type" is — it
// only knows tags, kinds, and typed item slots, the way the Design Notes
// ask for: domain packages register a schema per (tag, kind) and address
// slots by small integer indices, never by runtime name lookup.
package objstore

import "github.com/nvc-project/nvc-core/ident"

// Tag selects which domain schema table a Kind is looked up in.
type Tag uint8

const (
	// TagTree marks parsed/elaborated syntax objects (declarations,
	// statements, expressions).
	TagTree Tag = iota
	// TagType marks type-system objects.
	TagType
	// TagIRUnit marks compiled JIT IR units.
	TagIRUnit
	// TagRuntime marks runtime objects (signals, processes, scopes) that
	// are never serialized to a library.
	TagRuntime
)

func (t Tag) String() string {
	switch t {
	case TagTree:
		return "tree"
	case TagType:
		return "type"
	case TagIRUnit:
		return "ir-unit"
	case TagRuntime:
		return "runtime"
	default:
		return "tag?"
	}
}

// Kind is a domain-specific integer selecting a schema within a Tag.
// Domain packages (vtype, tree, jit) define their own Kind constants.
type Kind uint16

// MaxSlots bounds the number of item slots any single (tag, kind) schema
// may declare. 48 comfortably covers the widest record-like tree or type
// node while keeping Object a fixed-size, cache-friendly value.
const MaxSlots = 48

// Loc is a source location, carried by every object for diagnostics.
type Loc struct {
	File   ident.ID
	Line   int32
	Col    int16
	Length int16
}

// NoLoc is the zero-valued, "no source location" marker used for
// synthesized objects (e.g. implicit operators).
var NoLoc = Loc{}

// ItemKind distinguishes the payload carried by an Item.
type ItemKind uint8

const (
	// NoItem marks an unset slot.
	NoItem ItemKind = iota
	IntItem
	Int64Item
	RealItem
	IdentItem
	RefItem
	TextItem
	ArrayItem
)

// ArrayElemKind distinguishes the elements of an ArrayItem, matching the
// spec's "homogeneous array of (object | identifier | range | parameter)".
type ArrayElemKind uint8

const (
	ElemObject ArrayElemKind = iota
	ElemIdent
	ElemRange
	ElemParameter
)

// Range is a discrete or scalar range, low/high plus direction, shared by
// array bounds and numeric constraints.
type Range struct {
	Low, High  int64
	Descending bool
}

// Parameter names a formal (subprogram parameter, generic, port) and its
// type, used inside ArrayItem slots such as a subprogram's parameter list.
type Parameter struct {
	Name ident.ID
	Type Handle
}

// ArrayElem is one element of an ArrayItem.
type ArrayElem struct {
	Kind  ArrayElemKind
	Ref   Handle
	Ident ident.ID
	Range Range
	Param Parameter
}

// Item is the tagged union backing one object slot.
type Item struct {
	Kind  ItemKind
	I     int32
	I64   int64
	F     float64
	Ident ident.ID
	Ref   Handle
	Text  string
	Arr   []ArrayElem
}

// Object is the universal node (spec §3, "Object").
type Object struct {
	Tag  Tag
	Kind Kind
	Loc  Loc

	items [MaxSlots]Item
}

// ItemAt returns the raw item at slot without schema validation; used by
// the visitor and serializer, which already know the has-map.
func (o *Object) ItemAt(slot int) Item { return o.items[slot] }

func (o *Object) setItemAt(slot int, v Item) { o.items[slot] = v }
