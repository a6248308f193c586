package vtype

import "github.com/nvc-project/nvc-core/objstore"

// StrictEqual implements spec §4.3 "Strict" equality: same kind, same
// identifier when both have one, recursive equality of structural items.
func StrictEqual(a, b Type) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Ident().Valid() && b.Ident().Valid() && !a.Ident().Equal(b.Ident()) {
		return false
	}

	switch a.Kind() {
	case KindSubtype:
		return StrictEqual(a.Base(), b.Base()) && rangesEqual(a.Constraint(), b.Constraint())
	case KindConstrainedArray:
		return StrictEqual(a.ElemType(), b.ElemType()) && rangesEqual(a.Constraint(), b.Constraint())
	case KindUnconstrainedArray:
		return StrictEqual(a.ElemType(), b.ElemType()) && sameLenIndex(a.IndexConstraints(), b.IndexConstraints())
	case KindRecord, KindProtected:
		return paramsStructEqual(a.Fields(), b.Fields())
	case KindFunc:
		return paramsStructEqual(a.Params(), b.Params()) && StrictEqual(a.ResultType(), b.ResultType())
	case KindProc:
		return paramsStructEqual(a.Params(), b.Params())
	case KindFile, KindAccess:
		return StrictEqual(a.ElemType(), b.ElemType())
	case KindInteger, KindReal:
		return rangesEqual(a.Constraint(), b.Constraint())
	default:
		return true
	}
}

// Equal implements spec §4.3 "Liberal" equality: walk through subtype
// chains to the base; treat constrained/unconstrained array pairs as
// equal iff element types are equal; treat INCOMPLETE as equal to any
// completing kind; otherwise defer to strict equality.
func Equal(a, b Type) bool {
	ra, rb := Resolve(a), Resolve(b)

	if ra.Kind() == KindIncomplete || rb.Kind() == KindIncomplete {
		return true
	}

	if isArrayKind(ra.Kind()) && isArrayKind(rb.Kind()) {
		return Equal(ra.ElemType(), rb.ElemType())
	}

	return StrictEqual(ra, rb)
}

func isArrayKind(k Kind) bool {
	return k == KindConstrainedArray || k == KindUnconstrainedArray
}

func rangesEqual(a, b []objstore.Range) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameLenIndex(a, b []Type) bool { return len(a) == len(b) }

// paramsStructEqual compares parameter lists by name and referenced type
// handle. Within one Store each concrete type is allocated once, so
// handle equality already implies structural equality; cross-store
// comparisons should re-resolve each side to a Type and call StrictEqual.
func paramsStructEqual(a, b []objstore.Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Name.Equal(b[i].Name) || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}
