package kernel_test

import (
	"testing"

	gomock "github.com/golang/mock/gomock"

	"github.com/nvc-project/nvc-core/jit"
)

// TestInterpreterUsesSignalAccess drives jit.Interpreter against
// MockSignalAccess instead of a real kernel.Engine, the way the teacher
// mocks akita/v4/sim.Port/Component to isolate api.Driver from a real
// device (api/driver_internal_test.go).
func TestInterpreterUsesSignalAccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSignals := NewMockSignalAccess(ctrl)
	mockSignals.EXPECT().ReadSignal(int64(7)).Return(int64(42))

	unit := &jit.Unit{
		Blocks: []jit.Block{{
			Instrs: []jit.Instr{
				{Op: jit.OpSigRead, Dst: 0, Src1: jit.Operand{IsImm: true, ImmI64: 7}},
				{Op: jit.OpRet, Src1: jit.Operand{Reg: 0}},
			},
		}},
	}
	f := jit.NewFrame(unit, 1)
	ip := &jit.Interpreter{Signals: mockSignals}

	status, err := ip.Step(f)
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if status != jit.Returned {
		t.Fatalf("status = %v, want Returned", status)
	}
	if f.Result != 42 {
		t.Fatalf("Result = %d, want 42 (read through MockSignalAccess)", f.Result)
	}
}
