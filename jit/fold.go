package jit

// Fold applies constant folding and dead-move elimination to every block
// in unit, in place. It never removes or introduces an OpTrap, an
// OpSigRead/OpSigSchedule/OpSigResolve, or an OpWait/OpCall: anything with
// an externally observable effect is left exactly where the elaborator
// placed it, per spec §4.7's requirement that optimization never changes
// trap behavior. Grounded on the teacher's CGRA backend's habit of
// constant-folding register moves ahead of dispatch rather than during it.
func Fold(unit *Unit) {
	for bi := range unit.Blocks {
		foldBlock(&unit.Blocks[bi])
	}
}

func foldBlock(b *Block) {
	known := make(map[Reg]int64)

	out := b.Instrs[:0]
	for _, in := range b.Instrs {
		in.Src1 = substitute(in.Src1, known)
		in.Src2 = substitute(in.Src2, known)

		if folded, v, ok := foldConst(in); ok {
			known[in.Dst] = v
			if in.Dst == NoReg {
				continue
			}
			out = append(out, folded)
			continue
		}

		// A destination write invalidates any previously known constant
		// value for that register (redefinition).
		if in.Dst != NoReg {
			delete(known, in.Dst)
		}
		out = append(out, in)
	}
	b.Instrs = out
}

func substitute(o Operand, known map[Reg]int64) Operand {
	if o.IsImm || o.Reg == NoReg {
		return o
	}
	if v, ok := known[o.Reg]; ok {
		return Operand{IsImm: true, ImmI64: v}
	}
	return o
}

// foldConst evaluates a pure arithmetic/comparison instruction with fully
// immediate operands, returning the rewritten OpMov instruction and the
// constant value now known for its destination register. Anything with a
// side effect (memory, signals, control flow, call, wait, trap) is never
// folded.
func foldConst(in Instr) (Instr, int64, bool) {
	if !isPure(in.Op) || !in.Src1.IsImm || (needsSrc2(in.Op) && !in.Src2.IsImm) {
		return Instr{}, 0, false
	}
	a, b := in.Src1.ImmI64, in.Src2.ImmI64

	var v int64
	switch in.Op {
	case OpMov:
		v = a
	case OpAdd:
		v = a + b
	case OpSub:
		v = a - b
	case OpMul:
		v = a * b
	case OpDiv:
		if b == 0 {
			return Instr{}, 0, false // preserve the runtime trap
		}
		v = a / b
	case OpAnd:
		v = a & b
	case OpOr:
		v = a | b
	case OpXor:
		v = a ^ b
	case OpNot:
		v = boolInt(a == 0)
	case OpNeg:
		v = -a
	case OpCmpEq:
		v = boolInt(a == b)
	case OpCmpNe:
		v = boolInt(a != b)
	case OpCmpLt:
		v = boolInt(a < b)
	case OpCmpLe:
		v = boolInt(a <= b)
	case OpCmpGt:
		v = boolInt(a > b)
	case OpCmpGe:
		v = boolInt(a >= b)
	default:
		return Instr{}, 0, false
	}

	return Instr{Op: OpMov, Dst: in.Dst, Src1: Operand{IsImm: true, ImmI64: v}, Src2: Operand{Reg: NoReg}}, v, true
}

func isPure(op Opcode) bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpAnd, OpOr, OpXor, OpNot, OpNeg, OpMov,
		OpCmpEq, OpCmpNe, OpCmpLt, OpCmpLe, OpCmpGt, OpCmpGe:
		return true
	default:
		return false
	}
}

func needsSrc2(op Opcode) bool {
	switch op {
	case OpNot, OpNeg, OpMov:
		return false
	default:
		return true
	}
}
