package tree

import (
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/vtype"
)

// NewEntity allocates an entity declaration: a name plus its generic and
// port interface lists.
func NewEntity(s *objstore.Store, name ident.ID, generics, ports []objstore.Parameter) (Tree, error) {
	t, err := newOf(s, KindEntity)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotGenerics, arrayOfParams(generics)); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotPorts, arrayOfParams(ports))
}

// Generics returns an entity's generic interface list.
func (t Tree) Generics() []objstore.Parameter { return paramsOf(t, SlotGenerics) }

// Ports returns an entity's port interface list.
func (t Tree) Ports() []objstore.Parameter { return paramsOf(t, SlotPorts) }

// NewArchitecture allocates an architecture body bound to entity.
func NewArchitecture(s *objstore.Store, name ident.ID, entity Tree, decls, body []Tree) (Tree, error) {
	t, err := newOf(s, KindArchitecture)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotArchOf, objstore.Item{Kind: objstore.RefItem, Ref: entity.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotDecls, arrayOfObjects(decls)); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotBody, arrayOfObjects(body))
}

// Entity returns the entity an architecture is bound to.
func (t Tree) Entity() Tree { return t.refSlot(SlotArchOf) }

// Decls returns a region's declarations (architecture, process, or
// subprogram body).
func (t Tree) Decls() []Tree { return t.children(SlotDecls) }

// Body returns a region's statement list (architecture concurrent
// statements, or process/subprogram sequential statements).
func (t Tree) Body() []Tree { return t.children(SlotBody) }

// NewGenericDecl allocates one generic interface declaration with an
// optional default expression.
func NewGenericDecl(s *objstore.Store, name ident.ID, ty vtype.Type, def Tree) (Tree, error) {
	t, err := newOf(s, KindGenericDecl)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	if def.Valid() {
		return t, t.setItem(SlotRight, objstore.Item{Kind: objstore.RefItem, Ref: def.H})
	}
	return t, nil
}

// NewPortDecl allocates one port interface declaration.
func NewPortDecl(s *objstore.Store, name ident.ID, ty vtype.Type, mode Mode, def Tree) (Tree, error) {
	t, err := newOf(s, KindPortDecl)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotOp, objstore.Item{Kind: objstore.IntItem, I: int32(mode)}); err != nil {
		return Tree{}, err
	}
	if def.Valid() {
		return t, t.setItem(SlotRight, objstore.Item{Kind: objstore.RefItem, Ref: def.H})
	}
	return t, nil
}

// Mode returns a port declaration's direction.
func (t Tree) Mode() Mode { return Mode(t.item(SlotOp).I) }

// Default returns a generic/port/signal/variable declaration's default
// expression, or the zero Tree if none was given.
func (t Tree) Default() Tree { return t.refSlot(SlotRight) }

// NewSignalDecl allocates a signal declaration.
func NewSignalDecl(s *objstore.Store, name ident.ID, ty vtype.Type, def Tree) (Tree, error) {
	return newObjectDecl(s, KindSignalDecl, name, ty, def)
}

// NewVariableDecl allocates a variable declaration.
func NewVariableDecl(s *objstore.Store, name ident.ID, ty vtype.Type, def Tree) (Tree, error) {
	return newObjectDecl(s, KindVariableDecl, name, ty, def)
}

// NewConstantDecl allocates a constant declaration.
func NewConstantDecl(s *objstore.Store, name ident.ID, ty vtype.Type, def Tree) (Tree, error) {
	return newObjectDecl(s, KindConstantDecl, name, ty, def)
}

func newObjectDecl(s *objstore.Store, kind Kind, name ident.ID, ty vtype.Type, def Tree) (Tree, error) {
	t, err := newOf(s, kind)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	if def.Valid() {
		return t, t.setItem(SlotRight, objstore.Item{Kind: objstore.RefItem, Ref: def.H})
	}
	return t, nil
}

// NewSubprogramDecl allocates a function/procedure body. ty is the
// subprogram's vtype.Type (KindFunc or KindProc).
func NewSubprogramDecl(s *objstore.Store, name ident.ID, ty vtype.Type, decls, body []Tree) (Tree, error) {
	t, err := newOf(s, KindSubprogramDecl)
	if err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotIdent, objstore.Item{Kind: objstore.IdentItem, Ident: name}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotType, objstore.Item{Kind: objstore.RefItem, Ref: ty.H}); err != nil {
		return Tree{}, err
	}
	if err := t.setItem(SlotDecls, arrayOfObjects(decls)); err != nil {
		return Tree{}, err
	}
	return t, t.setItem(SlotBody, arrayOfObjects(body))
}
