package elab

import (
	"fmt"

	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/jit"
	"github.com/nvc-project/nvc-core/kernel"
	"github.com/nvc-project/nvc-core/layout"
	"github.com/nvc-project/nvc-core/tree"
	"github.com/nvc-project/nvc-core/vtype"
)

// Elaborate instantiates arch's signals and processes against an idle
// kernel.Engine (spec §4.6). The first failure ends elaboration. Errors
// are plain error values whose text names the offending statement kind,
// process or signal; they carry no source location.
func Elaborate(arch tree.Tree, generics map[ident.ID]int64) (*Design, error) {
	if arch.Kind() != tree.KindArchitecture {
		return nil, fmt.Errorf("elab: top unit is a %v, not an architecture", arch.Kind())
	}
	entity := arch.Entity()

	design := &Design{
		Engine:   kernel.NewEngine(),
		TopName:  entity.Ident().String(),
		Signals:  make(map[string]*kernel.Signal),
		handleOf: make(map[ident.ID]int64),
		byHandle: make(map[int64]*kernel.Signal),
	}

	constVal := resolveGenerics(entity, generics)
	sigHandle := make(map[ident.ID]int64)

	if err := allocatePortSignals(design, entity, sigHandle); err != nil {
		return nil, err
	}
	if err := allocateDeclaredSignals(design, arch, sigHandle); err != nil {
		return nil, err
	}
	resolveConstants(arch, constVal)

	for _, stmt := range arch.Body() {
		switch stmt.Kind() {
		case tree.KindProcess:
			if err := elaborateProcess(design, stmt, sigHandle, constVal); err != nil {
				return nil, err
			}
		case tree.KindInstance:
			design.Instances = append(design.Instances, stmt.Ident().String())
		default:
			return nil, fmt.Errorf("elab: unsupported concurrent statement kind %v", stmt.Kind())
		}
	}

	return design, nil
}

// resolveGenerics merges caller-supplied overrides over a zero default
// for every generic the entity declares. Generic default expressions are
// not represented in this module's simplified entity schema (only the
// generic's name and type survive as an objstore.Parameter), so an
// unoverridden generic elaborates to zero.
func resolveGenerics(entity tree.Tree, overrides map[ident.ID]int64) map[ident.ID]int64 {
	constVal := make(map[ident.ID]int64, len(entity.Generics()))
	for _, g := range entity.Generics() {
		if v, ok := overrides[g.Name]; ok {
			constVal[g.Name] = v
			continue
		}
		constVal[g.Name] = 0
	}
	return constVal
}

// resolveConstants evaluates every constant declaration in arch whose
// default expression is a plain integer literal; anything more complex
// (an expression referencing another constant, a function call) is left
// unresolved and any process that reads it will fail to compile, which is
// reported as that process's own UnresolvedName-class error.
func resolveConstants(arch tree.Tree, constVal map[ident.ID]int64) {
	for _, d := range arch.Decls() {
		if d.Kind() != tree.KindConstantDecl {
			continue
		}
		def := d.Default()
		if def.Valid() && def.Kind() == tree.KindLiteral {
			constVal[d.Ident()] = def.IntValue()
		}
	}
}

func allocatePortSignals(design *Design, entity tree.Tree, sigHandle map[ident.ID]int64) error {
	for _, p := range entity.Ports() {
		ty := vtype.Type{S: entity.S, H: p.Type}
		l := layout.SignalLayoutOf(ty)
		if err := addSignal(design, p.Name, design.TopName, l.Size, sigHandle); err != nil {
			return err
		}
	}
	return nil
}

func allocateDeclaredSignals(design *Design, arch tree.Tree, sigHandle map[ident.ID]int64) error {
	for _, d := range arch.Decls() {
		if d.Kind() != tree.KindSignalDecl {
			continue
		}
		l := layout.SignalLayoutOf(d.Type())
		if err := addSignal(design, d.Ident(), design.TopName, l.Size, sigHandle); err != nil {
			return err
		}
	}
	return nil
}

func addSignal(design *Design, name ident.ID, scope string, size int, sigHandle map[ident.ID]int64) error {
	if _, exists := sigHandle[name]; exists {
		return fmt.Errorf("elab: signal %q declared more than once in %s", name.String(), scope)
	}
	sig := kernel.NewSignal(name.String(), scope, size, nil)
	design.Engine.AddSignal(sig)

	handle := int64(len(design.byHandle))
	design.Signals[name.String()] = sig
	design.handleOf[name] = handle
	design.byHandle[handle] = sig
	sigHandle[name] = handle
	return nil
}

func elaborateProcess(design *Design, proc tree.Tree, sigHandle, constVal map[ident.ID]int64) error {
	result, err := CompileProcessBody(proc, sigHandle, constVal)
	if err != nil {
		return fmt.Errorf("elab: compiling process %q: %w", proc.Ident().String(), err)
	}

	driverID := make(map[*kernel.Signal]int, len(result.Driven))
	for _, name := range result.Driven {
		sig, ok := design.Signals[name.String()]
		if !ok {
			return fmt.Errorf("elab: process %q drives unresolved signal %q", proc.Ident().String(), name.String())
		}
		driverID[sig] = sig.NewDriverID(kernel.PriorityNormal)
	}

	regSignal := make(map[jit.Reg]*kernel.Signal, len(result.SensRegs))
	byHandle := make(map[int64]*kernel.Signal, len(design.byHandle))
	for h, sig := range design.byHandle {
		byHandle[h] = sig
	}
	for _, se := range result.SensRegs {
		sig, ok := design.Signals[se.Signal.String()]
		if !ok {
			return fmt.Errorf("elab: process %q is sensitive to unresolved signal %q", proc.Ident().String(), se.Signal.String())
		}
		regSignal[se.Reg] = sig
	}

	access := kernel.NewEngineSignals(design.Engine, driverID, byHandle)
	backend := &jit.Interpreter{Signals: access}

	name := proc.Ident().String()
	if name == "" {
		name = fmt.Sprintf("PROCESS$%d", len(design.Processes))
	}
	p := kernel.NewProcess(name, design.TopName, backend, result.Unit, result.NumRegs, regSignal)

	if err := design.Engine.AddProcess(p); err != nil {
		return err
	}
	design.Processes = append(design.Processes, p)
	return nil
}
