// Package vtype implements the VHDL type system (spec §3/§4.3) as a
// specialization of objstore.Object: every vtype.Type is an
// objstore.Handle tagged objstore.TagType, so the type system inherits
// arena ownership, serialization, and GC for free and only has to define
// its own kind schemas and the structural rules (equality,
// convertibility, predicates, pretty-printing) layered on top.
package vtype

import "github.com/nvc-project/nvc-core/objstore"

// Kind enumerates the type-system node kinds named in spec §3.
type Kind objstore.Kind

const (
	KindNone Kind = iota
	KindIncomplete
	KindSubtype
	KindInteger
	KindReal
	KindEnum
	KindPhysical
	KindConstrainedArray
	KindUnconstrainedArray
	KindRecord
	KindFile
	KindAccess
	KindFunc
	KindProc
	KindProtected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIncomplete:
		return "incomplete"
	case KindSubtype:
		return "subtype"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindEnum:
		return "enum"
	case KindPhysical:
		return "physical"
	case KindConstrainedArray:
		return "constrained array"
	case KindUnconstrainedArray:
		return "unconstrained array"
	case KindRecord:
		return "record"
	case KindFile:
		return "file"
	case KindAccess:
		return "access"
	case KindFunc:
		return "function"
	case KindProc:
		return "procedure"
	case KindProtected:
		return "protected"
	default:
		return "kind?"
	}
}

// Item slots, stable across the system per spec §3.
const (
	SlotIdent            = 0 // identifier
	SlotBase             = 1 // subtype's base type (ref)
	SlotConstraint       = 2 // scalar/array constraint (array of range)
	SlotElem             = 3 // array/file/access element type (ref)
	SlotIndexConstraints = 4 // array index subtypes (array of object)
	SlotFields           = 5 // record fields / enum literals / protected ops (array of parameter|ident)
	SlotParams           = 6 // subprogram parameters (array of parameter)
	SlotResult           = 7 // function result type (ref)
	SlotResolution       = 8 // resolution function (ref into tree)
	SlotUniversal        = 9 // IntItem: 1 if this is a universal integer/real
)

func init() {
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindNone), objstore.Schema{})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindIncomplete), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent),
		Transitions: map[objstore.Kind]bool{
			objstore.Kind(KindInteger):            true,
			objstore.Kind(KindReal):                true,
			objstore.Kind(KindEnum):                true,
			objstore.Kind(KindPhysical):            true,
			objstore.Kind(KindConstrainedArray):    true,
			objstore.Kind(KindUnconstrainedArray):  true,
			objstore.Kind(KindRecord):              true,
			objstore.Kind(KindFile):                true,
			objstore.Kind(KindAccess):              true,
			objstore.Kind(KindProtected):           true,
		},
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindSubtype), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotBase, SlotConstraint, SlotResolution),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindInteger), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotConstraint, SlotUniversal),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindReal), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotConstraint, SlotUniversal),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindEnum), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotFields),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindPhysical), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotConstraint, SlotFields),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindConstrainedArray), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotElem, SlotConstraint, SlotIndexConstraints),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindUnconstrainedArray), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotElem, SlotIndexConstraints),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindRecord), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotFields),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindFile), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotElem),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindAccess), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotElem),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindFunc), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotParams, SlotResult),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindProc), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotParams),
	})
	objstore.RegisterKind(objstore.TagType, objstore.Kind(KindProtected), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotFields),
	})
}
