package tree

import (
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/objstore"
)

// NoDelay marks a wait statement with no "for" timeout clause.
const NoDelay int64 = -1

// NewProcess allocates a process statement.
func NewProcess(s *objstore.Store, name ident.ID, sensitivity []Tree, decls, body []Tree) (Tree, error) {
	t, err := newOf(s, KindProcess)
	if err != nil {
		return Tree{}, err
	}
	if name.Valid() {
		if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name}); err != nil {
			return Tree{}, err
		}
	}
	if err := t.setItem(SlotSensitivity, arrayOfObjects(sensitivity)); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotDecls, arrayOfObjects(decls)); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotBody, arrayOfObjects(body))
}

// Sensitivity returns a process or wait statement's sensitivity list.
func (t Tree) Sensitivity() []Tree { return t.children(SlotSensitivity) }

// NewInstance allocates a component/entity instantiation statement.
func NewInstance(s *objstore.Store, label ident.ID, entity Tree, generics, ports []objstore.Parameter) (Tree, error) {
	t, err := newOf(s, KindInstance)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: label}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotEntityRef, objstore.Item{Kind: objstore.RefItem, Ref: entity.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotGenericMap, arrayOfParams(generics)); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotPortMap, arrayOfParams(ports))
}

// InstanceEntity returns the entity an instance statement binds to.
func (t Tree) InstanceEntity() Tree { return t.refSlot(SlotEntityRef) }

// GenericMap returns an instance's generic association list: each
// Parameter's Name is the formal generic, Type is repurposed to carry the
// actual expression's Handle.
func (t Tree) GenericMap() []objstore.Parameter { return paramsOf(t, SlotGenericMap) }

// PortMap returns an instance's port association list, same shape as
// GenericMap but for ports.
func (t Tree) PortMap() []objstore.Parameter { return paramsOf(t, SlotPortMap) }

// NewSignalAssign allocates a concurrent or sequential signal assignment,
// `target <= value [after delayFs]`. Pass NoDelay for no after clause.
func NewSignalAssign(s *objstore.Store, target, value Tree, delayFs int64) (Tree, error) {
	t, err := newOf(s, KindSignalAssign)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotLeft, objstore.Item{Kind: objstore.RefItem, Ref: target.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotRight, objstore.Item{Kind: objstore.RefItem, Ref: value.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotDelayFs, objstore.Item{Kind: objstore.Int64Item, I64: delayFs})
}

// DelayFs returns a signal assignment or wait statement's delay in
// femtoseconds, or NoDelay.
func (t Tree) DelayFs() int64 { return t.item(SlotDelayFs).I64 }

// NewVariableAssign allocates `target := value`.
func NewVariableAssign(s *objstore.Store, target, value Tree) (Tree, error) {
	t, err := newOf(s, KindVariableAssign)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotLeft, objstore.Item{Kind: objstore.RefItem, Ref: target.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotRight, objstore.Item{Kind: objstore.RefItem, Ref: value.H})
}

// NewWait allocates a wait statement: `wait [on sensitivity] [until cond]
// [for delayFs]`. Any of sensitivity, cond may be empty/zero.
func NewWait(s *objstore.Store, sensitivity []Tree, cond Tree, delayFs int64) (Tree, error) {
	t, err := newOf(s, KindWait)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotSensitivity, arrayOfObjects(sensitivity)); err != nil {
		return Tree{}, err
	}
	if cond.Valid() {
		if err := t.setItem(SlotCond, objstore.Item{Kind: objstore.RefItem, Ref: cond.H}); err != nil {
			return Tree{}, err
		}
	}
	return t, t.setItem(SlotDelayFs, objstore.Item{Kind: objstore.Int64Item, I64: delayFs})
}

// Cond returns an if/assert/wait node's condition expression.
func (t Tree) Cond() Tree { return t.refSlot(SlotCond) }

// NewIf allocates an if statement with then/else sequential statement
// lists. elseBody may be nil for a bare if.
func NewIf(s *objstore.Store, cond Tree, thenBody, elseBody []Tree) (Tree, error) {
	t, err := newOf(s, KindIf)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotCond, objstore.Item{Kind: objstore.RefItem, Ref: cond.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotBody, arrayOfObjects(thenBody)); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotElse, arrayOfObjects(elseBody))
}

// Else returns an if statement's else-branch statements.
func (t Tree) Else() []Tree { return t.children(SlotElse) }

// NewAssert allocates an assertion statement with a static report message.
func NewAssert(s *objstore.Store, cond Tree, message string) (Tree, error) {
	t, err := newOf(s, KindAssert)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotCond, objstore.Item{Kind: objstore.RefItem, Ref: cond.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotValueText, objstore.Item{Kind: objstore.TextItem, Text: message})
}

// Message returns an assert statement's report text.
func (t Tree) Message() string { return t.item(SlotValueText).Text }

// NewProcCall allocates a procedure call statement.
func NewProcCall(s *objstore.Store, callee Tree, args []Tree) (Tree, error) {
	t, err := newOf(s, KindProcCall)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotCallee, objstore.Item{Kind: objstore.RefItem, Ref: callee.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotOperands, arrayOfObjects(args))
}
