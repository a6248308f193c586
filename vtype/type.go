package vtype

import (
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/objstore"
)

// Type is a handle into a Store tagged objstore.TagType, plus the store it
// belongs to (types are cheap, copyable values the same way a Go
// io.Reader is — the interesting state lives in the Store).
type Type struct {
	S *objstore.Store
	H objstore.Handle
}

// Valid reports whether t references an allocated object.
func (t Type) Valid() bool { return t.S != nil && t.H.Valid() }

// Kind returns t's current kind.
func (t Type) Kind() Kind {
	k, err := t.S.Kind(t.H)
	if err != nil {
		return KindNone
	}
	return Kind(k)
}

func (t Type) item(slot int) objstore.Item {
	v, _ := t.S.GetItem(t.H, slot)
	return v
}

// Ident returns the type's name, if it has one (anonymous subtypes and
// array/constraint nodes may not).
func (t Type) Ident() ident.ID {
	return t.item(SlotIdent).Ident
}

// Base returns the immediate base of a subtype; for a non-subtype it
// returns t itself (Base is idempotent on non-subtypes, matching the
// "subtype's base eventually leads to a non-subtype" invariant).
func (t Type) Base() Type {
	if t.Kind() != KindSubtype {
		return t
	}
	ref := t.item(SlotBase).Ref
	return Type{S: t.S, H: ref}
}

// Resolve follows the subtype chain to the first non-subtype ancestor.
func Resolve(t Type) Type {
	for t.Kind() == KindSubtype {
		t = t.Base()
	}
	return t
}

// ElemType returns the element type of an array, file, or access type.
func (t Type) ElemType() Type {
	return Type{S: t.S, H: t.item(SlotElem).Ref}
}

// ResultType returns a function's result type.
func (t Type) ResultType() Type {
	return Type{S: t.S, H: t.item(SlotResult).Ref}
}

// Params returns a subprogram's formal parameter list.
func (t Type) Params() []objstore.Parameter {
	return paramsOf(t.item(SlotParams))
}

// Fields returns a record's fields (or a protected type's operations).
func (t Type) Fields() []objstore.Parameter {
	return paramsOf(t.item(SlotFields))
}

func paramsOf(item objstore.Item) []objstore.Parameter {
	if item.Kind != objstore.ArrayItem {
		return nil
	}
	out := make([]objstore.Parameter, 0, len(item.Arr))
	for _, el := range item.Arr {
		if el.Kind == objstore.ElemParameter {
			out = append(out, el.Param)
		}
	}
	return out
}

// Literals returns an enumeration type's literal identifiers in ordinal
// order (enum literals are stored as ElemIdent entries in SlotFields).
func (t Type) Literals() []ident.ID {
	item := t.item(SlotFields)
	if item.Kind != objstore.ArrayItem {
		return nil
	}
	out := make([]ident.ID, 0, len(item.Arr))
	for _, el := range item.Arr {
		if el.Kind == objstore.ElemIdent {
			out = append(out, el.Ident)
		}
	}
	return out
}

// Constraint returns the scalar/array range constraint, if any.
func (t Type) Constraint() []objstore.Range {
	item := t.item(SlotConstraint)
	if item.Kind != objstore.ArrayItem {
		return nil
	}
	out := make([]objstore.Range, 0, len(item.Arr))
	for _, el := range item.Arr {
		if el.Kind == objstore.ElemRange {
			out = append(out, el.Range)
		}
	}
	return out
}

// IndexConstraints returns an array type's index subtypes.
func (t Type) IndexConstraints() []Type {
	item := t.item(SlotIndexConstraints)
	if item.Kind != objstore.ArrayItem {
		return nil
	}
	out := make([]Type, 0, len(item.Arr))
	for _, el := range item.Arr {
		if el.Kind == objstore.ElemObject {
			out = append(out, Type{S: t.S, H: el.Ref})
		}
	}
	return out
}

// Resolution returns the resolution-function reference attached to a
// resolved subtype, or the zero Handle if unresolved.
func (t Type) Resolution() objstore.Handle {
	return t.item(SlotResolution).Ref
}

// IsUniversal reports whether t is the universal integer or universal
// real type (spec §4.3 convertibility).
func (t Type) IsUniversal() bool {
	base := Resolve(t)
	return base.item(SlotUniversal).I != 0
}

// --- constructors -----------------------------------------------------

func newOf(s *objstore.Store, kind Kind) (Type, error) {
	h, err := s.New(objstore.TagType, objstore.Kind(kind))
	if err != nil {
		return Type{}, err
	}
	return Type{S: s, H: h}, nil
}

func setIdent(t Type, name ident.ID) error {
	return t.S.SetItem(t.H, SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name})
}

// NewIncomplete allocates an incomplete type declaration, later completed
// via Complete.
func NewIncomplete(s *objstore.Store, name ident.ID) (Type, error) {
	t, err := newOf(s, KindIncomplete)
	if err != nil {
		return Type{}, err
	}
	return t, setIdent(t, name)
}

// Complete transitions an incomplete type to its concrete kind. The
// caller still needs to populate the concrete kind's items afterward.
func Complete(t Type, to Kind) error {
	return t.S.SetKind(t.H, objstore.Kind(to))
}

// NewInteger allocates an integer type (possibly universal) with the
// given range constraint.
func NewInteger(s *objstore.Store, name ident.ID, lo, hi int64, universal bool) (Type, error) {
	t, err := newOf(s, KindInteger)
	if err != nil {
		return Type{}, err
	}
	if err := setIdent(t, name); err != nil {
		return Type{}, err
	}
	if err := t.S.SetItem(t.H, SlotConstraint, rangeItem(objstore.Range{Low: lo, High: hi})); err != nil {
		return Type{}, err
	}
	u := int32(0)
	if universal {
		u = 1
	}
	if err := t.S.SetItem(t.H, SlotUniversal, objstore.Item{Kind: objstore.IntItem, I: u}); err != nil {
		return Type{}, err
	}
	return t, nil
}

// NewReal allocates a floating-point type.
func NewReal(s *objstore.Store, name ident.ID, universal bool) (Type, error) {
	t, err := newOf(s, KindReal)
	if err != nil {
		return Type{}, err
	}
	if err := setIdent(t, name); err != nil {
		return Type{}, err
	}
	u := int32(0)
	if universal {
		u = 1
	}
	return t, t.S.SetItem(t.H, SlotUniversal, objstore.Item{Kind: objstore.IntItem, I: u})
}

// NewEnum allocates an enumeration type from an ordered literal list.
func NewEnum(s *objstore.Store, name ident.ID, literals []ident.ID) (Type, error) {
	t, err := newOf(s, KindEnum)
	if err != nil {
		return Type{}, err
	}
	if err := setIdent(t, name); err != nil {
		return Type{}, err
	}
	arr := make([]objstore.ArrayElem, len(literals))
	for i, l := range literals {
		arr[i] = objstore.ArrayElem{Kind: objstore.ElemIdent, Ident: l}
	}
	return t, t.S.SetItem(t.H, SlotFields, objstore.Item{Kind: objstore.ArrayItem, Arr: arr})
}

// NewConstrainedArray allocates an array type with a statically known
// element count per dimension.
func NewConstrainedArray(s *objstore.Store, name ident.ID, elem Type, dims []objstore.Range) (Type, error) {
	t, err := newOf(s, KindConstrainedArray)
	if err != nil {
		return Type{}, err
	}
	if err := setIdent(t, name); err != nil {
		return Type{}, err
	}
	if err := t.S.SetItem(t.H, SlotElem, objstore.Item{Kind: objstore.RefItem, Ref: elem.H}); err != nil {
		return Type{}, err
	}
	arr := make([]objstore.ArrayElem, len(dims))
	for i, d := range dims {
		arr[i] = objstore.ArrayElem{Kind: objstore.ElemRange, Range: d}
	}
	return t, t.S.SetItem(t.H, SlotConstraint, objstore.Item{Kind: objstore.ArrayItem, Arr: arr})
}

// NewUnconstrainedArray allocates an array type whose bounds are supplied
// at each use site (spec §4.5 layout rules key off this kind).
func NewUnconstrainedArray(s *objstore.Store, name ident.ID, elem Type, indexTypes []Type) (Type, error) {
	t, err := newOf(s, KindUnconstrainedArray)
	if err != nil {
		return Type{}, err
	}
	if err := setIdent(t, name); err != nil {
		return Type{}, err
	}
	if err := t.S.SetItem(t.H, SlotElem, objstore.Item{Kind: objstore.RefItem, Ref: elem.H}); err != nil {
		return Type{}, err
	}
	arr := make([]objstore.ArrayElem, len(indexTypes))
	for i, idx := range indexTypes {
		arr[i] = objstore.ArrayElem{Kind: objstore.ElemObject, Ref: idx.H}
	}
	return t, t.S.SetItem(t.H, SlotIndexConstraints, objstore.Item{Kind: objstore.ArrayItem, Arr: arr})
}

// NewRecord allocates a record type from an ordered field list.
func NewRecord(s *objstore.Store, name ident.ID, fields []objstore.Parameter) (Type, error) {
	t, err := newOf(s, KindRecord)
	if err != nil {
		return Type{}, err
	}
	if err := setIdent(t, name); err != nil {
		return Type{}, err
	}
	return t, t.S.SetItem(t.H, SlotFields, paramArrayItem(fields))
}

// NewSubtype allocates a subtype of base with an optional constraint and
// resolution function.
func NewSubtype(s *objstore.Store, name ident.ID, base Type, constraint []objstore.Range, resolution objstore.Handle) (Type, error) {
	t, err := newOf(s, KindSubtype)
	if err != nil {
		return Type{}, err
	}
	if name.Valid() {
		if err := setIdent(t, name); err != nil {
			return Type{}, err
		}
	}
	if err := t.S.SetItem(t.H, SlotBase, objstore.Item{Kind: objstore.RefItem, Ref: base.H}); err != nil {
		return Type{}, err
	}
	if len(constraint) > 0 {
		arr := make([]objstore.ArrayElem, len(constraint))
		for i, c := range constraint {
			arr[i] = objstore.ArrayElem{Kind: objstore.ElemRange, Range: c}
		}
		if err := t.S.SetItem(t.H, SlotConstraint, objstore.Item{Kind: objstore.ArrayItem, Arr: arr}); err != nil {
			return Type{}, err
		}
	}
	if resolution.Valid() {
		if err := t.S.SetItem(t.H, SlotResolution, objstore.Item{Kind: objstore.RefItem, Ref: resolution}); err != nil {
			return Type{}, err
		}
	}
	return t, nil
}

// NewFunc allocates a function type.
func NewFunc(s *objstore.Store, name ident.ID, params []objstore.Parameter, result Type) (Type, error) {
	t, err := newOf(s, KindFunc)
	if err != nil {
		return Type{}, err
	}
	if err := setIdent(t, name); err != nil {
		return Type{}, err
	}
	if err := t.S.SetItem(t.H, SlotParams, paramArrayItem(params)); err != nil {
		return Type{}, err
	}
	return t, t.S.SetItem(t.H, SlotResult, objstore.Item{Kind: objstore.RefItem, Ref: result.H})
}

// NewProc allocates a procedure type.
func NewProc(s *objstore.Store, name ident.ID, params []objstore.Parameter) (Type, error) {
	t, err := newOf(s, KindProc)
	if err != nil {
		return Type{}, err
	}
	if err := setIdent(t, name); err != nil {
		return Type{}, err
	}
	return t, t.S.SetItem(t.H, SlotParams, paramArrayItem(params))
}

func paramArrayItem(params []objstore.Parameter) objstore.Item {
	arr := make([]objstore.ArrayElem, len(params))
	for i, p := range params {
		arr[i] = objstore.ArrayElem{Kind: objstore.ElemParameter, Param: p}
	}
	return objstore.Item{Kind: objstore.ArrayItem, Arr: arr}
}

func rangeItem(r objstore.Range) objstore.Item {
	return objstore.Item{Kind: objstore.ArrayItem, Arr: []objstore.ArrayElem{{Kind: objstore.ElemRange, Range: r}}}
}
