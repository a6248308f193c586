package elab

import (
	"fmt"

	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/jit"
	"github.com/nvc-project/nvc-core/tree"
)

// SensEntry records that a compiled wait statement's sensitivity list
// names signal, loaded into register Reg as a constant handle; the
// caller (Elaborate) uses this to build the kernel.Process's reg-to-
// signal map once the signal's runtime handle is assigned.
type SensEntry struct {
	Reg    jit.Reg
	Signal ident.ID
}

// CompileResult is everything Elaborate needs from a compiled process or
// subprogram body beyond the jit.Unit itself.
type CompileResult struct {
	Unit    *jit.Unit
	NumRegs int
	Driven  []ident.ID // signals this body schedules a driver value onto
	SensRegs []SensEntry
}

// compiler lowers one process/subprogram body to a jit.Unit, grounded on
// the three-address shape spec.md §4.7 requires. Control flow compiles to
// explicit basic blocks; branch-true jumps to a dedicated block while the
// false arm falls through in place, since OpBranch has no else-target of
// its own (spec.md's "up to two source operands" leaves no room for a
// second target register).
type compiler struct {
	unit      *jit.Unit
	cur       int
	nextReg   jit.Reg
	varReg    map[ident.ID]jit.Reg
	sigHandle map[ident.ID]int64
	constVal  map[ident.ID]int64
	driven    map[ident.ID]bool
	sensRegs  []SensEntry
}

func newCompiler(sigHandle, constVal map[ident.ID]int64) *compiler {
	c := &compiler{
		unit:      &jit.Unit{Blocks: []jit.Block{{}}},
		varReg:    make(map[ident.ID]jit.Reg),
		sigHandle: sigHandle,
		constVal:  constVal,
		driven:    make(map[ident.ID]bool),
	}
	return c
}

func (c *compiler) newBlock() int {
	c.unit.Blocks = append(c.unit.Blocks, jit.Block{})
	return len(c.unit.Blocks) - 1
}

func (c *compiler) emit(in jit.Instr) {
	c.unit.Blocks[c.cur].Instrs = append(c.unit.Blocks[c.cur].Instrs, in)
}

func (c *compiler) freshReg() jit.Reg {
	r := c.nextReg
	c.nextReg++
	return r
}

func (c *compiler) regFor(name ident.ID) jit.Reg {
	if r, ok := c.varReg[name]; ok {
		return r
	}
	r := c.freshReg()
	c.varReg[name] = r
	return r
}

func (c *compiler) loadConst(v int64) jit.Reg {
	r := c.freshReg()
	c.emit(jit.Instr{Op: jit.OpMov, Dst: r, Src1: jit.Operand{IsImm: true, ImmI64: v}, Src2: jit.Operand{Reg: jit.NoReg}})
	return r
}

func (c *compiler) addMessage(msg string) int64 {
	c.unit.Messages = append(c.unit.Messages, msg)
	return int64(len(c.unit.Messages) - 1)
}

// CompileProcessBody compiles a process statement's sequential statements
// into a looping jit.Unit: the body runs once, then jumps back to its
// entry block, matching a VHDL process's implicit infinite loop (the
// final statement is expected to be a wait, as spec.md requires every
// process path to reach a suspension point between two signal updates).
func CompileProcessBody(proc tree.Tree, sigHandle, constVal map[ident.ID]int64) (*CompileResult, error) {
	c := newCompiler(sigHandle, constVal)
	c.unit.IsProc = true
	if err := c.compileStmts(proc.Body()); err != nil {
		return nil, err
	}
	c.emit(jit.Instr{Op: jit.OpJmp, Imm: int64(jit.EntryBlock)})
	return &CompileResult{Unit: c.unit, NumRegs: int(c.nextReg), Driven: keys(c.driven), SensRegs: c.sensRegs}, nil
}

func keys(m map[ident.ID]bool) []ident.ID {
	out := make([]ident.ID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func (c *compiler) compileStmts(stmts []tree.Tree) error {
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileStmt(t tree.Tree) error {
	switch t.Kind() {
	case tree.KindSignalAssign:
		return c.compileSignalAssign(t)
	case tree.KindVariableAssign:
		return c.compileVariableAssign(t)
	case tree.KindWait:
		return c.compileWait(t)
	case tree.KindIf:
		return c.compileIf(t)
	case tree.KindAssert:
		return c.compileAssert(t)
	case tree.KindProcCall:
		return fmt.Errorf("elab: procedure calls are not supported by the compiler")
	default:
		return fmt.Errorf("elab: unsupported statement kind %v", t.Kind())
	}
}

func (c *compiler) compileSignalAssign(t tree.Tree) error {
	target := t.Left()
	name := target.Ident()
	handle, ok := c.sigHandle[name]
	if !ok {
		return fmt.Errorf("elab: signal assignment to unresolved name %q", name.String())
	}
	val, err := c.compileExpr(t.Right())
	if err != nil {
		return err
	}
	delay := t.DelayFs()
	if delay == tree.NoDelay {
		delay = 0
	}
	c.driven[name] = true
	c.emit(jit.Instr{
		Op:   jit.OpSigSchedule,
		Src1: jit.Operand{IsImm: true, ImmI64: handle},
		Src2: val,
		Imm:  delay,
	})
	return nil
}

func (c *compiler) compileVariableAssign(t tree.Tree) error {
	val, err := c.compileExpr(t.Right())
	if err != nil {
		return err
	}
	reg := c.regFor(t.Left().Ident())
	c.emit(jit.Instr{Op: jit.OpMov, Dst: reg, Src1: val, Src2: jit.Operand{Reg: jit.NoReg}})
	return nil
}

func (c *compiler) compileWait(t tree.Tree) error {
	var sensRegs []jit.Reg
	for _, s := range t.Sensitivity() {
		name := s.Ident()
		handle, ok := c.sigHandle[name]
		if !ok {
			return fmt.Errorf("elab: wait on unresolved signal %q", name.String())
		}
		r := c.loadConst(handle)
		sensRegs = append(sensRegs, r)
		c.sensRegs = append(c.sensRegs, SensEntry{Reg: r, Signal: name})
	}
	delay := t.DelayFs()

	cond := t.Cond()
	if !cond.Valid() {
		c.emit(jit.Instr{Op: jit.OpWait, Wait: jit.WaitSpec{Sensitivity: sensRegs, DelayFs: delay}})
		return nil
	}

	loopBlk := c.newBlock()
	c.emit(jit.Instr{Op: jit.OpJmp, Imm: int64(loopBlk)})
	c.cur = loopBlk
	c.emit(jit.Instr{Op: jit.OpWait, Wait: jit.WaitSpec{Sensitivity: sensRegs, DelayFs: delay}})
	condOp, err := c.compileExpr(cond)
	if err != nil {
		return err
	}
	contBlk := c.newBlock()
	c.emit(jit.Instr{Op: jit.OpBranch, Src1: condOp, Imm: int64(contBlk)})
	c.emit(jit.Instr{Op: jit.OpJmp, Imm: int64(loopBlk)})
	c.cur = contBlk
	return nil
}

func (c *compiler) compileIf(t tree.Tree) error {
	condOp, err := c.compileExpr(t.Cond())
	if err != nil {
		return err
	}
	thenBlk := c.newBlock()
	joinBlk := c.newBlock()
	c.emit(jit.Instr{Op: jit.OpBranch, Src1: condOp, Imm: int64(thenBlk)})
	if err := c.compileStmts(t.Else()); err != nil {
		return err
	}
	c.emit(jit.Instr{Op: jit.OpJmp, Imm: int64(joinBlk)})

	c.cur = thenBlk
	if err := c.compileStmts(t.Body()); err != nil {
		return err
	}
	c.emit(jit.Instr{Op: jit.OpJmp, Imm: int64(joinBlk)})

	c.cur = joinBlk
	return nil
}

func (c *compiler) compileAssert(t tree.Tree) error {
	condOp, err := c.compileExpr(t.Cond())
	if err != nil {
		return err
	}
	passBlk := c.newBlock()
	c.emit(jit.Instr{Op: jit.OpBranch, Src1: condOp, Imm: int64(passBlk)})
	msgIdx := c.addMessage(t.Message())
	c.emit(jit.Instr{Op: jit.OpTrap, Imm: msgIdx})
	c.emit(jit.Instr{Op: jit.OpJmp, Imm: int64(passBlk)})
	c.cur = passBlk
	return nil
}

func (c *compiler) compileExpr(t tree.Tree) (jit.Operand, error) {
	switch t.Kind() {
	case tree.KindLiteral:
		return jit.Operand{IsImm: true, ImmI64: t.IntValue()}, nil

	case tree.KindNameRef:
		return c.compileNameRef(t)

	case tree.KindBinaryExpr:
		return c.compileBinaryExpr(t)

	case tree.KindUnaryExpr:
		return c.compileUnaryExpr(t)

	default:
		return jit.Operand{}, fmt.Errorf("elab: unsupported expression kind %v", t.Kind())
	}
}

func (c *compiler) compileNameRef(t tree.Tree) (jit.Operand, error) {
	decl := t.Decl()
	name := t.Ident()

	switch decl.Kind() {
	case tree.KindSignalDecl:
		handle, ok := c.sigHandle[name]
		if !ok {
			return jit.Operand{}, fmt.Errorf("elab: read of unresolved signal %q", name.String())
		}
		r := c.freshReg()
		c.emit(jit.Instr{Op: jit.OpSigRead, Dst: r, Src1: jit.Operand{IsImm: true, ImmI64: handle}})
		return jit.Operand{Reg: r}, nil

	case tree.KindVariableDecl:
		return jit.Operand{Reg: c.regFor(name)}, nil

	case tree.KindConstantDecl, tree.KindGenericDecl:
		if v, ok := c.constVal[name]; ok {
			return jit.Operand{IsImm: true, ImmI64: v}, nil
		}
		return jit.Operand{}, fmt.Errorf("elab: unresolved constant/generic %q", name.String())

	default:
		return jit.Operand{}, fmt.Errorf("elab: name %q refers to an unsupported declaration kind %v", name.String(), decl.Kind())
	}
}

func (c *compiler) compileBinaryExpr(t tree.Tree) (jit.Operand, error) {
	l, err := c.compileExpr(t.Left())
	if err != nil {
		return jit.Operand{}, err
	}
	r, err := c.compileExpr(t.Right())
	if err != nil {
		return jit.Operand{}, err
	}
	op, err := binOpcode(t.Op())
	if err != nil {
		return jit.Operand{}, err
	}
	dst := c.freshReg()
	c.emit(jit.Instr{Op: op, Dst: dst, Src1: l, Src2: r})
	return jit.Operand{Reg: dst}, nil
}

func (c *compiler) compileUnaryExpr(t tree.Tree) (jit.Operand, error) {
	operand, err := c.compileExpr(t.Left())
	if err != nil {
		return jit.Operand{}, err
	}
	var op jit.Opcode
	switch t.Op() {
	case tree.OpNot:
		op = jit.OpNot
	case tree.OpNeg:
		op = jit.OpNeg
	default:
		return jit.Operand{}, fmt.Errorf("elab: unsupported unary operator %v", t.Op())
	}
	dst := c.freshReg()
	c.emit(jit.Instr{Op: op, Dst: dst, Src1: operand, Src2: jit.Operand{Reg: jit.NoReg}})
	return jit.Operand{Reg: dst}, nil
}

func binOpcode(op tree.Op) (jit.Opcode, error) {
	switch op {
	case tree.OpAdd:
		return jit.OpAdd, nil
	case tree.OpSub:
		return jit.OpSub, nil
	case tree.OpMul:
		return jit.OpMul, nil
	case tree.OpDiv:
		return jit.OpDiv, nil
	case tree.OpEq:
		return jit.OpCmpEq, nil
	case tree.OpNeq:
		return jit.OpCmpNe, nil
	case tree.OpLt:
		return jit.OpCmpLt, nil
	case tree.OpLe:
		return jit.OpCmpLe, nil
	case tree.OpGt:
		return jit.OpCmpGt, nil
	case tree.OpGe:
		return jit.OpCmpGe, nil
	case tree.OpAnd:
		return jit.OpAnd, nil
	case tree.OpOr:
		return jit.OpOr, nil
	case tree.OpXor:
		return jit.OpXor, nil
	default:
		return 0, fmt.Errorf("elab: unsupported binary operator %v", op)
	}
}
