package tree

import (
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/vtype"
)

// NewIntLiteral allocates an integer/physical literal expression.
func NewIntLiteral(s *objstore.Store, ty vtype.Type, v int64) (Tree, error) {
	t, err := newOf(s, KindLiteral)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotValueI64, objstore.Item{Kind: objstore.Int64Item, I64: v})
}

// NewRealLiteral allocates a floating-point literal expression.
func NewRealLiteral(s *objstore.Store, ty vtype.Type, v float64) (Tree, error) {
	t, err := newOf(s, KindLiteral)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotValueReal, objstore.Item{Kind: objstore.RealItem, F: v})
}

// NewStringLiteral allocates a string/bit-string literal expression.
func NewStringLiteral(s *objstore.Store, ty vtype.Type, v string) (Tree, error) {
	t, err := newOf(s, KindLiteral)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotValueText, objstore.Item{Kind: objstore.TextItem, Text: v})
}

// IntValue returns a literal's integer payload.
func (t Tree) IntValue() int64 { return t.item(SlotValueI64).I64 }

// RealValue returns a literal's real payload.
func (t Tree) RealValue() float64 { return t.item(SlotValueReal).F }

// TextValue returns a literal's text payload.
func (t Tree) TextValue() string { return t.item(SlotValueText).Text }

// NewNameRef allocates a reference to a previously declared name,
// resolved against a Scope during analysis and stored as a direct
// object reference (SlotCallee) once resolution succeeds.
func NewNameRef(s *objstore.Store, name ident.ID, decl Tree) (Tree, error) {
	t, err := newOf(s, KindNameRef)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: decl.item(SlotType).Ref}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotCallee, objstore.Item{Kind: objstore.RefItem, Ref: decl.H})
}

// Decl returns the declaration a name reference resolved to.
func (t Tree) Decl() Tree { return t.refSlot(SlotCallee) }

// NewBinaryExpr allocates a binary operator expression.
func NewBinaryExpr(s *objstore.Store, op Op, ty vtype.Type, l, r Tree) (Tree, error) {
	t, err := newOf(s, KindBinaryExpr)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotOp, objstore.Item{Kind: objstore.IntItem, I: int32(op)}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotLeft, objstore.Item{Kind: objstore.RefItem, Ref: l.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotRight, objstore.Item{Kind: objstore.RefItem, Ref: r.H})
}

// NewUnaryExpr allocates a unary operator expression.
func NewUnaryExpr(s *objstore.Store, op Op, ty vtype.Type, operand Tree) (Tree, error) {
	t, err := newOf(s, KindUnaryExpr)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotOp, objstore.Item{Kind: objstore.IntItem, I: int32(op)}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotLeft, objstore.Item{Kind: objstore.RefItem, Ref: operand.H})
}

// Op returns a binary/unary expression's operator code.
func (t Tree) Op() Op { return Op(t.item(SlotOp).I) }

// Left returns a binary/unary expression's (or assignment's) left
// operand/target.
func (t Tree) Left() Tree { return t.refSlot(SlotLeft) }

// Right returns a binary expression's (or assignment's) right operand.
func (t Tree) Right() Tree { return t.refSlot(SlotRight) }

// NewAggregate allocates an array/record aggregate expression.
func NewAggregate(s *objstore.Store, ty vtype.Type, elems []Tree) (Tree, error) {
	t, err := newOf(s, KindAggregate)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotOperands, arrayOfObjects(elems))
}

// Elements returns an aggregate's constituent expressions.
func (t Tree) Elements() []Tree { return t.children(SlotOperands) }

// NewCall allocates a function/procedure call expression.
func NewCall(s *objstore.Store, ty vtype.Type, callee Tree, args []Tree) (Tree, error) {
	t, err := newOf(s, KindCall)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotCallee, objstore.Item{Kind: objstore.RefItem, Ref: callee.H}); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotOperands, arrayOfObjects(args))
}

// Callee returns a call's target subprogram declaration.
func (t Tree) Callee() Tree { return t.refSlot(SlotCallee) }

// Args returns a call's argument expressions.
func (t Tree) Args() []Tree { return t.children(SlotOperands) }
