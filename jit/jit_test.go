package jit_test

import (
	"errors"
	"testing"

	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/jit"
)

func unit(blocks ...jit.Block) *jit.Unit {
	return &jit.Unit{Name: ident.InternString("U"), Blocks: blocks}
}

func TestInterpreterAddsTwoImmediatesAndReturns(t *testing.T) {
	u := unit(jit.Block{Instrs: []jit.Instr{
		{Op: jit.OpAdd, Dst: 0, Src1: jit.Operand{IsImm: true, ImmI64: 2}, Src2: jit.Operand{IsImm: true, ImmI64: 3}},
		{Op: jit.OpRet, Src1: jit.Operand{Reg: 0}, Src2: jit.Operand{Reg: jit.NoReg}},
	}})

	ip := &jit.Interpreter{}
	f := jit.NewFrame(u, 1)
	status, err := ip.Step(f)
	if err != nil {
		t.Fatal(err)
	}
	if status != jit.Returned {
		t.Fatalf("status = %v, want Returned", status)
	}
	if f.Result != 5 {
		t.Fatalf("result = %d, want 5", f.Result)
	}
}

func TestInterpreterSuspendsAtWaitAndReportsSensitivity(t *testing.T) {
	u := unit(jit.Block{Instrs: []jit.Instr{
		{Op: jit.OpWait, Wait: jit.WaitSpec{Sensitivity: []jit.Reg{0, 1}, DelayFs: -1}},
		{Op: jit.OpRet, Src1: jit.Operand{IsImm: true, ImmI64: 0}},
	}})

	ip := &jit.Interpreter{}
	f := jit.NewFrame(u, 2)
	status, err := ip.Step(f)
	if err != nil {
		t.Fatal(err)
	}
	if status != jit.Suspended {
		t.Fatalf("status = %v, want Suspended", status)
	}
	if len(f.Wait.Sensitivity) != 2 {
		t.Fatalf("wait sensitivity = %v, want 2 regs", f.Wait.Sensitivity)
	}

	f.PC++
	status, err = ip.Step(f)
	if err != nil {
		t.Fatal(err)
	}
	if status != jit.Returned {
		t.Fatalf("resumed status = %v, want Returned", status)
	}
}

func TestInterpreterDivisionByZeroTraps(t *testing.T) {
	u := unit(jit.Block{Instrs: []jit.Instr{
		{Op: jit.OpDiv, Dst: 0, Src1: jit.Operand{IsImm: true, ImmI64: 1}, Src2: jit.Operand{IsImm: true, ImmI64: 0}},
	}})

	ip := &jit.Interpreter{}
	f := jit.NewFrame(u, 1)
	status, err := ip.Step(f)
	var trap *jit.TrapError
	if !errors.As(err, &trap) {
		t.Fatalf("err = %v, want a *TrapError", err)
	}
	if status != jit.Trapped {
		t.Fatalf("status = %v, want Trapped", status)
	}
}

func TestInterpreterExplicitTrapOpcode(t *testing.T) {
	u := unit(jit.Block{Instrs: []jit.Instr{
		{Op: jit.OpTrap, Imm: 7},
	}})

	ip := &jit.Interpreter{}
	f := jit.NewFrame(u, 0)
	status, err := ip.Step(f)
	if status != jit.Trapped || err == nil {
		t.Fatalf("status=%v err=%v, want Trapped with an error", status, err)
	}
}

func TestInterpreterLoadStoreRoundTrip(t *testing.T) {
	u := unit(jit.Block{Instrs: []jit.Instr{
		{Op: jit.OpStore, Src1: jit.Operand{IsImm: true, ImmI64: 0}, Src2: jit.Operand{IsImm: true, ImmI64: 42}},
		{Op: jit.OpLoad, Dst: 0, Src1: jit.Operand{IsImm: true, ImmI64: 0}},
		{Op: jit.OpRet, Src1: jit.Operand{Reg: 0}},
	}})
	u.Locals = []jit.Local{{Name: ident.InternString("x")}}

	ip := &jit.Interpreter{}
	f := jit.NewFrame(u, 1)
	f.Memory = make([]byte, 8)
	status, err := ip.Step(f)
	if err != nil {
		t.Fatal(err)
	}
	if status != jit.Returned || f.Result != 42 {
		t.Fatalf("status=%v result=%d, want Returned/42", status, f.Result)
	}
}

type fakeSignals struct {
	values map[int64]int64
}

func (fs *fakeSignals) ReadSignal(h int64) int64 { return fs.values[h] }
func (fs *fakeSignals) ScheduleSignal(h, v, _ int64) {
	fs.values[h] = v
}
func (fs *fakeSignals) ResolveSignal(h int64) (int64, error) {
	return fs.values[h], nil
}

func TestInterpreterSignalReadScheduleResolve(t *testing.T) {
	u := unit(jit.Block{Instrs: []jit.Instr{
		{Op: jit.OpSigSchedule, Src1: jit.Operand{IsImm: true, ImmI64: 1}, Src2: jit.Operand{IsImm: true, ImmI64: 9}, Imm: 0},
		{Op: jit.OpSigResolve, Dst: 0, Src1: jit.Operand{IsImm: true, ImmI64: 1}},
		{Op: jit.OpRet, Src1: jit.Operand{Reg: 0}},
	}})

	fs := &fakeSignals{values: make(map[int64]int64)}
	ip := &jit.Interpreter{Signals: fs}
	f := jit.NewFrame(u, 1)
	status, err := ip.Step(f)
	if err != nil {
		t.Fatal(err)
	}
	if status != jit.Returned || f.Result != 9 {
		t.Fatalf("status=%v result=%d, want Returned/9", status, f.Result)
	}
}

func TestFoldPropagatesConstantsAndPreservesTrap(t *testing.T) {
	u := unit(jit.Block{Instrs: []jit.Instr{
		{Op: jit.OpMov, Dst: 0, Src1: jit.Operand{IsImm: true, ImmI64: 10}, Src2: jit.Operand{Reg: jit.NoReg}},
		{Op: jit.OpMov, Dst: 1, Src1: jit.Operand{IsImm: true, ImmI64: 0}, Src2: jit.Operand{Reg: jit.NoReg}},
		{Op: jit.OpDiv, Dst: 2, Src1: jit.Operand{Reg: 0}, Src2: jit.Operand{Reg: 1}},
		{Op: jit.OpRet, Src1: jit.Operand{Reg: 2}},
	}})

	jit.Fold(u)

	ip := &jit.Interpreter{}
	f := jit.NewFrame(u, 3)
	_, err := ip.Step(f)
	var trap *jit.TrapError
	if !errors.As(err, &trap) {
		t.Fatalf("expected division trap to survive folding, got %v", err)
	}
}

func TestNativeStubDelegatesToInterpreter(t *testing.T) {
	u := unit(jit.Block{Instrs: []jit.Instr{
		{Op: jit.OpRet, Src1: jit.Operand{IsImm: true, ImmI64: 3}},
	}})

	n := jit.NewNativeStub(nil)
	f := jit.NewFrame(u, 0)
	status, err := n.Step(f)
	if err != nil {
		t.Fatal(err)
	}
	if status != jit.Returned || f.Result != 3 {
		t.Fatalf("status=%v result=%d, want Returned/3", status, f.Result)
	}
}
