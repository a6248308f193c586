// Package jit implements the register-based three-address IR that
// elaborated trees lower to (spec §4.7, "IR Unit"), plus two backends: a
// required Interpreter defining reference semantics, and a NativeStub
// seam for an optional native code generator. The opcode table is a
// generalization of the teacher's per-opcode core/emu.go dispatch switch
// (ADD/SUB/MOV/ICMP_*/LOAD/STORE/JMP/BEQ/BNE/RET/…) from a CGRA tile ISA
// to VHDL-level operations: arithmetic, comparison, load/store through
// layout.Part offsets, record/array element access, signal
// read/schedule/resolve, process wait, call/return, and trap.
package jit

// Opcode enumerates IR instruction kinds.
type Opcode int32

const (
	OpNop Opcode = iota

	// Arithmetic / bitwise, operating on Dst = Src1 <op> Src2.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpXor
	OpNot // Dst = !Src1
	OpNeg // Dst = -Src1
	OpMov // Dst = Src1

	// Comparison, Dst = (Src1 <cmp> Src2) as a 0/1 boolean.
	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe

	// Memory, through a layout.Part-relative byte offset carried in Imm.
	OpLoad  // Dst = *(Src1 + Imm)
	OpStore // *(Src1 + Imm) = Src2

	// Control flow.
	OpJmp    // unconditional jump to block Imm
	OpBranch // if Src1 != 0 goto block Imm else fallthrough
	OpCall   // Dst = call unit Imm; the Interpreter does not execute it and traps with an unknown-opcode error
	OpRet    // return Src1 (or nothing)

	// Simulation-kernel surface (spec §4.7/§4.8).
	OpSigRead     // Dst = current value of signal Src1
	OpSigSchedule // schedule Src2 as a new driver value for signal Src1, delay Imm fs
	OpSigResolve  // Dst = resolved value across the driver vector named by Src1
	OpWait        // suspend; resumption condition described out-of-band (see Instr.Wait)

	// Diagnostics.
	OpTrap // fatal assertion failure; Imm carries a message-table index
)

func (op Opcode) String() string {
	switch op {
	case OpNop:
		return "nop"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpXor:
		return "xor"
	case OpNot:
		return "not"
	case OpNeg:
		return "neg"
	case OpMov:
		return "mov"
	case OpCmpEq:
		return "cmp.eq"
	case OpCmpNe:
		return "cmp.ne"
	case OpCmpLt:
		return "cmp.lt"
	case OpCmpLe:
		return "cmp.le"
	case OpCmpGt:
		return "cmp.gt"
	case OpCmpGe:
		return "cmp.ge"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpJmp:
		return "jmp"
	case OpBranch:
		return "branch"
	case OpCall:
		return "call"
	case OpRet:
		return "ret"
	case OpSigRead:
		return "sig.read"
	case OpSigSchedule:
		return "sig.schedule"
	case OpSigResolve:
		return "sig.resolve"
	case OpWait:
		return "wait"
	case OpTrap:
		return "trap"
	default:
		return "op?"
	}
}
