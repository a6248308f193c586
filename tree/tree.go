package tree

import (
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/vtype"
)

// Tree is a handle into a Store tagged objstore.TagTree, the tree
// analogue of vtype.Type: a cheap, copyable reference whose state lives
// in the Store.
type Tree struct {
	S *objstore.Store
	H objstore.Handle
}

// Valid reports whether t references an allocated object.
func (t Tree) Valid() bool { return t.S != nil && t.H.Valid() }

// Kind returns t's node kind.
func (t Tree) Kind() Kind {
	k, err := t.S.Kind(t.H)
	if err != nil {
		return KindNone
	}
	return Kind(k)
}

func (t Tree) item(slot int) objstore.Item {
	v, _ := t.S.GetItem(t.H, slot)
	return v
}

func (t Tree) setItem(slot int, v objstore.Item) error {
	return t.S.SetItem(t.H, slot, v)
}

// Ident returns the node's name, for kinds that carry one.
func (t Tree) Ident() ident.ID { return t.item(SlotIdent).Ident }

// Type returns the vtype.Type this node's value (or declared object)
// has. Trees and types share one Store (only the Tag differs), so the
// type handle resolves directly against t.S.
func (t Tree) Type() vtype.Type {
	return vtype.Type{S: t.S, H: t.item(SlotType).Ref}
}

// Loc returns the node's source location.
func (t Tree) Loc() objstore.Loc {
	l, _ := t.S.Loc(t.H)
	return l
}

func ref(s *objstore.Store, h objstore.Handle) Tree { return Tree{S: s, H: h} }

func (t Tree) refSlot(slot int) Tree { return ref(t.S, t.item(slot).Ref) }

func (t Tree) children(slot int) []Tree {
	item := t.item(slot)
	if item.Kind != objstore.ArrayItem {
		return nil
	}
	out := make([]Tree, 0, len(item.Arr))
	for _, el := range item.Arr {
		if el.Kind == objstore.ElemObject {
			out = append(out, ref(t.S, el.Ref))
		}
	}
	return out
}

func paramsOf(t Tree, slot int) []objstore.Parameter {
	item := t.item(slot)
	if item.Kind != objstore.ArrayItem {
		return nil
	}
	out := make([]objstore.Parameter, 0, len(item.Arr))
	for _, el := range item.Arr {
		if el.Kind == objstore.ElemParameter {
			out = append(out, el.Param)
		}
	}
	return out
}

func arrayOfObjects(trees []Tree) objstore.Item {
	arr := make([]objstore.ArrayElem, len(trees))
	for i, c := range trees {
		arr[i] = objstore.ArrayElem{Kind: objstore.ElemObject, Ref: c.H}
	}
	return objstore.Item{Kind: objstore.ArrayItem, Arr: arr}
}

func arrayOfParams(params []objstore.Parameter) objstore.Item {
	arr := make([]objstore.ArrayElem, len(params))
	for i, p := range params {
		arr[i] = objstore.ArrayElem{Kind: objstore.ElemParameter, Param: p}
	}
	return objstore.Item{Kind: objstore.ArrayItem, Arr: arr}
}

func newOf(s *objstore.Store, kind Kind) (Tree, error) {
	h, err := s.New(objstore.TagTree, objstore.Kind(kind))
	if err != nil {
		return Tree{}, err
	}
	return Tree{S: s, H: h}, nil
}
