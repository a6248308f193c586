package library_test

import (
	"path/filepath"
	"testing"

	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/library"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/vtype"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l, err := library.Open("WORK", filepath.Join(dir, "WORK"))
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Lock(); err != nil {
		t.Fatal(err)
	}
	defer l.Unlock()

	s := objstore.NewStore()
	intT, err := vtype.NewInteger(s, ident.InternString("INTEGER"), -2147483648, 2147483647, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Freeze(intT.H.Arena); err != nil {
		t.Fatal(err)
	}

	if err := l.Save(s, "INTEGER_UNIT", intT.H, nil, nil); err != nil {
		t.Fatal(err)
	}
	if !l.Has("INTEGER_UNIT") {
		t.Fatal("Save should register a catalog entry")
	}

	reopened, err := library.Open("WORK", filepath.Join(dir, "WORK"))
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.Has("INTEGER_UNIT") {
		t.Fatal("catalog should persist across Open calls")
	}

	s2 := objstore.NewStore()
	h, err := reopened.Load(s2, "INTEGER_UNIT", nil)
	if err != nil {
		t.Fatal(err)
	}
	got := vtype.Type{S: s2, H: h}
	if got.Kind() != vtype.KindInteger {
		t.Fatalf("deserialized kind = %v, want integer", got.Kind())
	}
	if !got.Ident().Equal(ident.InternString("INTEGER")) {
		t.Fatal("deserialized identifier not preserved")
	}
}

func TestSaveRecordsCurrentSchemaDigest(t *testing.T) {
	dir := t.TempDir()
	l, err := library.Open("WORK2", filepath.Join(dir, "WORK2"))
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Lock(); err != nil {
		t.Fatal(err)
	}
	defer l.Unlock()

	s := objstore.NewStore()
	intT, err := vtype.NewInteger(s, ident.InternString("INTEGER2"), 0, 255, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Save(s, "U", intT.H, nil, nil); err != nil {
		t.Fatal(err)
	}

	entry, ok := l.Entry("U")
	if !ok {
		t.Fatal("expected catalog entry")
	}
	if entry.Digest != objstore.SchemaDigest() {
		t.Fatal("freshly saved unit's digest should match the current schema digest")
	}
}
