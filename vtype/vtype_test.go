package vtype_test

import (
	"testing"

	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/vtype"
)

func mustInt(t *testing.T, s *objstore.Store, name string, lo, hi int64, universal bool) vtype.Type {
	t.Helper()
	ty, err := vtype.NewInteger(s, ident.InternString(name), lo, hi, universal)
	if err != nil {
		t.Fatalf("NewInteger(%s): %v", name, err)
	}
	return ty
}

func TestIntegerEqualityIsReflexiveAndSymmetric(t *testing.T) {
	s := objstore.NewStore()
	a := mustInt(t, s, "INTEGER", -2147483648, 2147483647, false)
	b := mustInt(t, s, "INTEGER", -2147483648, 2147483647, false)
	c := mustInt(t, s, "NATURAL", 0, 2147483647, false)

	if !vtype.Equal(a, a) {
		t.Fatal("type_eq(t, t) must hold")
	}
	if vtype.StrictEqual(a, b) == false {
		t.Fatal("same name/range integers should be strictly equal")
	}
	if vtype.Equal(a, b) != vtype.Equal(b, a) {
		t.Fatal("type_eq must be symmetric")
	}
	if vtype.Equal(a, c) {
		t.Fatal("distinct named integer ranges should not compare equal")
	}
	if !vtype.StrictEqual(a, a) {
		t.Fatal("strict_eq(t,t) must hold")
	}
}

func TestStrictEqualImpliesEqual(t *testing.T) {
	s := objstore.NewStore()
	a := mustInt(t, s, "INTEGER", 0, 10, false)
	b := mustInt(t, s, "INTEGER", 0, 10, false)

	if !vtype.StrictEqual(a, b) {
		t.Fatal("expected strict equality")
	}
	if !vtype.Equal(a, b) {
		t.Fatal("strict_eq must imply liberal eq")
	}
}

func TestIncompleteEqualsAnyCompletion(t *testing.T) {
	s := objstore.NewStore()
	incomplete, err := vtype.NewIncomplete(s, ident.InternString("NODE_T"))
	if err != nil {
		t.Fatal(err)
	}
	record, err := vtype.NewRecord(s, ident.InternString("NODE_T_REC"), nil)
	if err != nil {
		t.Fatal(err)
	}

	if !vtype.Equal(incomplete, record) {
		t.Fatal("an incomplete type must compare equal to any completing kind")
	}
}

func TestArrayPairsEqualByElementType(t *testing.T) {
	s := objstore.NewStore()
	elem := mustInt(t, s, "BIT_ELEM", 0, 1, false)

	constrained, err := vtype.NewConstrainedArray(s, ident.InternString("BV8"), elem,
		[]objstore.Range{{Low: 0, High: 7}})
	if err != nil {
		t.Fatal(err)
	}
	unconstrained, err := vtype.NewUnconstrainedArray(s, ident.InternString("BIT_VECTOR"), elem, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !vtype.Equal(constrained, unconstrained) {
		t.Fatal("constrained/unconstrained array pair with equal element types should compare equal")
	}
}

func TestUniversalConvertibility(t *testing.T) {
	s := objstore.NewStore()
	universalInt := mustInt(t, s, "universal_integer", -1<<62, 1<<62, true)
	natural := mustInt(t, s, "NATURAL", 0, 2147483647, false)
	real, err := vtype.NewReal(s, ident.InternString("REAL"), false)
	if err != nil {
		t.Fatal(err)
	}

	if !vtype.CanConvertImplicitly(universalInt, natural) {
		t.Fatal("universal integer should implicitly convert to a non-universal integer")
	}
	if vtype.CanConvertImplicitly(universalInt, real) {
		t.Fatal("universal integer must not implicitly convert to a different family")
	}
	if vtype.CanConvertImplicitly(natural, universalInt) {
		t.Fatal("a non-universal type must never implicitly convert")
	}
}

func TestPredicatesFollowBaseThroughSubtypes(t *testing.T) {
	s := objstore.NewStore()
	integer := mustInt(t, s, "INTEGER", -2147483648, 2147483647, false)
	natural, err := vtype.NewSubtype(s, ident.InternString("NATURAL"), integer,
		[]objstore.Range{{Low: 0, High: 2147483647}}, objstore.Nil)
	if err != nil {
		t.Fatal(err)
	}

	if !vtype.IsDiscrete(natural) {
		t.Fatal("a subtype of an integer type should be discrete")
	}
	if !vtype.IsScalar(natural) {
		t.Fatal("a subtype of an integer type should be scalar")
	}
	if vtype.IsComposite(natural) {
		t.Fatal("an integer subtype must not be composite")
	}
}

func TestPrettyPrintsSubprogramSignature(t *testing.T) {
	s := objstore.NewStore()
	integer := mustInt(t, s, "INTEGER", -2147483648, 2147483647, false)
	boolean, err := vtype.NewEnum(s, ident.InternString("BOOLEAN"),
		[]ident.ID{ident.InternString("FALSE"), ident.InternString("TRUE")})
	if err != nil {
		t.Fatal(err)
	}

	fn, err := vtype.NewFunc(s, ident.InternString("WORK.PKG.\"=\""),
		[]objstore.Parameter{
			{Name: ident.InternString("L"), Type: integer.H},
			{Name: ident.InternString("R"), Type: integer.H},
		}, boolean)
	if err != nil {
		t.Fatal(err)
	}

	got := vtype.Pretty(fn, nil)
	want := `"=" [INTEGER, INTEGER return BOOLEAN]`
	if got != want {
		t.Fatalf("Pretty = %q, want %q", got, want)
	}
}
