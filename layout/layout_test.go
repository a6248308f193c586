package layout_test

import (
	"testing"

	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/layout"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/vtype"
)

func mustInt(t *testing.T, s *objstore.Store, name string, lo, hi int64) vtype.Type {
	t.Helper()
	ty, err := vtype.NewInteger(s, ident.InternString(name), lo, hi, false)
	if err != nil {
		t.Fatalf("NewInteger(%s): %v", name, err)
	}
	return ty
}

func checkPartsFitSize(t *testing.T, l *layout.Layout) {
	t.Helper()
	sum := 0
	for _, p := range l.Parts {
		if p.Align > 0 && p.Offset%p.Align != 0 {
			t.Fatalf("part %+v not aligned", p)
		}
		sum += p.Size * p.Repeat
	}
	if sum > l.Size {
		t.Fatalf("parts overflow layout: sum=%d size=%d", sum, l.Size)
	}
}

func TestIntegerLayoutIsReferentiallyStable(t *testing.T) {
	s := objstore.NewStore()
	i32 := mustInt(t, s, "INTEGER", -2147483648, 2147483647)

	a := layout.LayoutOf(i32)
	b := layout.LayoutOf(i32)
	if a != b {
		t.Fatal("LayoutOf must return the same *Layout for repeated calls on the same type")
	}
	checkPartsFitSize(t, a)
	if a.Size != 4 {
		t.Fatalf("INTEGER size = %d, want 4", a.Size)
	}
}

func TestSmallRangeIntegerPacksToOneByte(t *testing.T) {
	s := objstore.NewStore()
	bitT := mustInt(t, s, "BIT_ELEM", 0, 1)
	l := layout.LayoutOf(bitT)
	checkPartsFitSize(t, l)
	if l.Size != 1 {
		t.Fatalf("0..1 range size = %d, want 1", l.Size)
	}
}

func TestEnumLayoutSizedByLiteralCount(t *testing.T) {
	s := objstore.NewStore()
	lits := make([]ident.ID, 300)
	base := ident.InternString("L")
	for i := range lits {
		lits[i] = ident.Unique(base)
	}
	enumT, err := vtype.NewEnum(s, ident.InternString("BIG_ENUM"), lits)
	if err != nil {
		t.Fatal(err)
	}
	l := layout.LayoutOf(enumT)
	checkPartsFitSize(t, l)
	if l.Size != 2 {
		t.Fatalf("300-literal enum size = %d, want 2", l.Size)
	}
}

func TestConstrainedArrayLayoutMultipliesElementSize(t *testing.T) {
	s := objstore.NewStore()
	elem := mustInt(t, s, "BIT_ELEM2", 0, 1)
	arrT, err := vtype.NewConstrainedArray(s, ident.InternString("BV8"), elem,
		[]objstore.Range{{Low: 0, High: 7}})
	if err != nil {
		t.Fatal(err)
	}
	l := layout.LayoutOf(arrT)
	checkPartsFitSize(t, l)
	if l.Size != 8 {
		t.Fatalf("8-element BIT array size = %d, want 8", l.Size)
	}
}

func TestUnconstrainedArrayLayoutIsPointerPlusBounds(t *testing.T) {
	s := objstore.NewStore()
	elem := mustInt(t, s, "BIT_ELEM3", 0, 1)
	arrT, err := vtype.NewUnconstrainedArray(s, ident.InternString("BIT_VECTOR"), elem, nil)
	if err != nil {
		t.Fatal(err)
	}
	l := layout.LayoutOf(arrT)
	checkPartsFitSize(t, l)
	if l.Parts[0].Class != layout.EXTERNAL {
		t.Fatalf("unconstrained array's first part should be EXTERNAL, got %v", l.Parts[0].Class)
	}
	if l.Parts[1].Class != layout.BOUNDS {
		t.Fatalf("unconstrained array's second part should be BOUNDS, got %v", l.Parts[1].Class)
	}
}

func TestRecordLayoutPacksFieldsInOrder(t *testing.T) {
	s := objstore.NewStore()
	byteT := mustInt(t, s, "BYTE_FIELD", 0, 255)
	wordT := mustInt(t, s, "WORD_FIELD", -2147483648, 2147483647)

	recT, err := vtype.NewRecord(s, ident.InternString("PAIR_T"), []objstore.Parameter{
		{Name: ident.InternString("A"), Type: byteT.H},
		{Name: ident.InternString("B"), Type: wordT.H},
	})
	if err != nil {
		t.Fatal(err)
	}

	l := layout.LayoutOf(recT)
	checkPartsFitSize(t, l)
	if len(l.Parts) != 2 {
		t.Fatalf("expected 2 field parts, got %d", len(l.Parts))
	}
	if l.Parts[1].Offset < l.Parts[0].Offset+l.Parts[0].Size {
		t.Fatal("second field must not overlap the first")
	}
}

func TestSignalLayoutIsAlwaysExternalPlusOffset(t *testing.T) {
	s := objstore.NewStore()
	i32 := mustInt(t, s, "INTEGER2", -2147483648, 2147483647)

	l := layout.SignalLayoutOf(i32)
	checkPartsFitSize(t, l)
	if len(l.Parts) != 2 || l.Parts[0].Class != layout.EXTERNAL || l.Parts[1].Class != layout.OFFSET {
		t.Fatalf("signal layout shape = %+v, want [EXTERNAL, OFFSET]", l.Parts)
	}
}

func TestSubtypeLayoutMatchesBase(t *testing.T) {
	s := objstore.NewStore()
	integer := mustInt(t, s, "INTEGER3", -2147483648, 2147483647)
	natural, err := vtype.NewSubtype(s, ident.InternString("NATURAL2"), integer,
		[]objstore.Range{{Low: 0, High: 2147483647}}, objstore.Nil)
	if err != nil {
		t.Fatal(err)
	}

	l := layout.LayoutOf(natural)
	checkPartsFitSize(t, l)
	if l.Size != 4 {
		t.Fatalf("NATURAL subtype size = %d, want 4 (matches INTEGER base)", l.Size)
	}
}
