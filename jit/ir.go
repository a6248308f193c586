package jit

import (
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/layout"
	"github.com/nvc-project/nvc-core/objstore"
)

// Reg is a virtual register index, scoped to one IRUnit activation.
type Reg int32

// NoReg marks an unused operand slot.
const NoReg Reg = -1

// Operand is a three-address instruction's source: either a register or
// a scalar immediate carried in IsImm/ImmI64. Array and record
// immediates are not representable.
type Operand struct {
	Reg    Reg
	IsImm  bool
	ImmI64 int64
}

// Instr is one three-address operation.
type Instr struct {
	Op   Opcode
	Dst  Reg
	Src1 Operand
	Src2 Operand
	Imm  int64

	// Wait describes the resumption condition for an OpWait instruction:
	// wake when any of Sensitivity changes, or DelayFs femtoseconds have
	// elapsed, whichever is sooner. Ignored for other opcodes.
	Wait WaitSpec
}

// WaitSpec is an OpWait instruction's resumption condition.
type WaitSpec struct {
	Sensitivity []Reg // registers holding the signal handles to watch
	DelayFs     int64 // -1 if no timeout
}

// Block is an instruction run addressed by index from OpJmp/OpBranch.
// OpWait and an untaken OpBranch fall through to the next instruction,
// so either may appear mid-block.
type Block struct {
	Instrs []Instr
}

// Local is one local variable/temporary slot, typed by its layout so the
// interpreter knows how many bytes to reserve.
type Local struct {
	Name   ident.ID
	Layout *layout.Layout
}

// Unit is a compiled function/process body (spec §3, "IR Unit"):
// parameter types, local slots, basic blocks, and metadata. Produced from
// an elaborated tree by the elaborator (C8) and either kept in memory or
// persisted via the library manager tagged objstore.TagIRUnit.
type Unit struct {
	Name     ident.ID
	Params   []objstore.Parameter
	Locals   []Local
	Blocks   []Block
	Consts   []int64  // captured scalar constants; no opcode reads them (OpMov reads Src1)
	Messages []string // static report/assert text, indexed by an OpTrap's Imm
	IsProc   bool      // true for a VHDL process body (never returns, loops to OpWait)
}

// EntryBlock is the conventional first basic block index.
const EntryBlock = 0
