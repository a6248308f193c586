package elab_test

import (
	"testing"

	"github.com/nvc-project/nvc-core/elab"
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/tree"
	"github.com/nvc-project/nvc-core/vtype"
)

func mustInt(t *testing.T, s *objstore.Store, name string) vtype.Type {
	t.Helper()
	ty, err := vtype.NewInteger(s, ident.InternString(name), -2147483648, 2147483647, false)
	if err != nil {
		t.Fatalf("NewInteger: %v", err)
	}
	return ty
}

func TestElaborateEmptyEntity(t *testing.T) {
	s := objstore.NewStore()

	entity, err := tree.NewEntity(s, ident.InternString("EMPTY"), nil, nil)
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	arch, err := tree.NewArchitecture(s, ident.InternString("RTL"), entity, nil, nil)
	if err != nil {
		t.Fatalf("NewArchitecture: %v", err)
	}

	design, err := elab.Elaborate(arch, nil)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	if design.TopName != "EMPTY" {
		t.Fatalf("TopName = %q, want EMPTY", design.TopName)
	}
	if len(design.Signals) != 0 {
		t.Fatalf("len(Signals) = %d, want 0", len(design.Signals))
	}
	if len(design.Processes) != 0 {
		t.Fatalf("len(Processes) = %d, want 0", len(design.Processes))
	}
}

func TestElaborateRejectsNonArchitectureTop(t *testing.T) {
	s := objstore.NewStore()
	entity, err := tree.NewEntity(s, ident.InternString("EMPTY"), nil, nil)
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}

	if _, err := elab.Elaborate(entity, nil); err == nil {
		t.Fatalf("Elaborate on a bare entity should fail")
	}
}

// TestElaborateCounterAllocatesPortAndDeclaredSignals regression-tests the
// port-signal allocation path (allocatePortSignals), which previously
// resolved every port's type to a nil placeholder instead of the port's
// real declared type.
func TestElaborateCounterAllocatesPortAndDeclaredSignals(t *testing.T) {
	s := objstore.NewStore()
	intT := mustInt(t, s, "INTEGER")

	clk := ident.InternString("CLK")
	count := ident.InternString("COUNT")

	entity, err := tree.NewEntity(s, ident.InternString("COUNTER"),
		nil,
		[]objstore.Parameter{{Name: clk, Type: intT.H}})
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}

	sigDecl, err := tree.NewSignalDecl(s, count, intT, tree.Tree{})
	if err != nil {
		t.Fatalf("NewSignalDecl: %v", err)
	}

	clkRef, err := tree.NewNameRef(s, clk, entity)
	if err != nil {
		t.Fatalf("NewNameRef: %v", err)
	}
	wait, err := tree.NewWait(s, []tree.Tree{clkRef}, tree.Tree{}, tree.NoDelay)
	if err != nil {
		t.Fatalf("NewWait: %v", err)
	}

	proc, err := tree.NewProcess(s, ident.InternString("COUNT_PROC"),
		[]tree.Tree{clkRef}, nil, []tree.Tree{wait})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}

	arch, err := tree.NewArchitecture(s, ident.InternString("RTL"), entity,
		[]tree.Tree{sigDecl}, []tree.Tree{proc})
	if err != nil {
		t.Fatalf("NewArchitecture: %v", err)
	}

	design, err := elab.Elaborate(arch, nil)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}

	clkSig, ok := design.Signals["CLK"]
	if !ok {
		t.Fatalf("port signal CLK was not allocated")
	}
	if clkSig.Size <= 0 {
		t.Fatalf("CLK signal size = %d, want > 0 (port type was resolved to its real layout)", clkSig.Size)
	}

	countSig, ok := design.Signals["COUNT"]
	if !ok {
		t.Fatalf("declared signal COUNT was not allocated")
	}
	if countSig.Size != clkSig.Size {
		t.Fatalf("COUNT size = %d, want %d (same integer layout as CLK)", countSig.Size, clkSig.Size)
	}

	if len(design.Processes) != 1 {
		t.Fatalf("len(Processes) = %d, want 1", len(design.Processes))
	}
	if design.Processes[0].Name != "COUNT_PROC" {
		t.Fatalf("process name = %q, want COUNT_PROC", design.Processes[0].Name)
	}
}
