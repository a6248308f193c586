package vtype

// IsArray reports whether t's base is an array type.
func IsArray(t Type) bool { return isArrayKind(Resolve(t).Kind()) }

// IsRecord reports whether t's base is a record type.
func IsRecord(t Type) bool { return Resolve(t).Kind() == KindRecord }

// IsDiscrete reports whether t's base is an integer or enumeration type.
func IsDiscrete(t Type) bool {
	k := Resolve(t).Kind()
	return k == KindInteger || k == KindEnum
}

// IsScalar reports whether t's base is a discrete, physical, or real
// type.
func IsScalar(t Type) bool {
	k := Resolve(t).Kind()
	return IsDiscrete(t) || k == KindPhysical || k == KindReal
}

// IsComposite reports whether t's base is an array or record type.
func IsComposite(t Type) bool { return IsArray(t) || IsRecord(t) }

// IsUnconstrained reports whether t's base is an unconstrained array, or a
// subtype of one carrying no constraint of its own.
func IsUnconstrained(t Type) bool {
	if Resolve(t).Kind() == KindUnconstrainedArray {
		if t.Kind() != KindSubtype {
			return true
		}
		return len(t.Constraint()) == 0
	}
	return false
}

// CanConvertImplicitly implements spec §4.3 convertibility: only a
// universal integer/real may implicitly coerce, and only to a
// non-universal type of the same family (integer<->integer,
// real<->real). All other conversions must be explicit.
func CanConvertImplicitly(from, to Type) bool {
	rf, rt := Resolve(from), Resolve(to)
	if !rf.IsUniversal() || rt.IsUniversal() {
		return false
	}
	if rf.Kind() == KindInteger && rt.Kind() == KindInteger {
		return true
	}
	if rf.Kind() == KindReal && rt.Kind() == KindReal {
		return true
	}
	return false
}
