package objstore

// Walker is the visitor protocol used by the GC mark phase (spec §4.1
// "expose a visitor protocol that iterates fields by a
// compile-time-generated schema"); Serialize runs its own walk over the
// same schema slots. Visit calls Enter for h before descending into any
// object it references, and Leave after. Enter may return false to prune
// the traversal at h.
type Walker interface {
	Enter(h Handle, o *Object) bool
	Leave(h Handle, o *Object)
}

// Visit performs a depth-first walk of the object graph reachable from
// root, calling w for each reachable object exactly once per distinct
// handle actually descended into.
func (s *Store) Visit(root Handle, w Walker) error {
	seen := make(map[Handle]bool)
	return s.visit(root, w, seen)
}

func (s *Store) visit(h Handle, w Walker, seen map[Handle]bool) error {
	if !h.Valid() || seen[h] {
		return nil
	}
	seen[h] = true

	s.mu.RLock()
	_, o, err := s.resolve(h)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if !w.Enter(h, o) {
		return nil
	}

	schema, _ := schemaFor(o.Tag, o.Kind)
	for slot := 0; slot < MaxSlots; slot++ {
		if !schema.Allows(slot) {
			continue
		}
		item := o.ItemAt(slot)
		switch item.Kind {
		case RefItem:
			if err := s.visit(item.Ref, w, seen); err != nil {
				return err
			}
		case ArrayItem:
			for _, el := range item.Arr {
				if el.Kind == ElemObject {
					if err := s.visit(el.Ref, w, seen); err != nil {
						return err
					}
				}
				if el.Kind == ElemParameter && el.Param.Type.Valid() {
					if err := s.visit(el.Param.Type, w, seen); err != nil {
						return err
					}
				}
			}
		}
	}

	w.Leave(h, o)
	return nil
}

// funcWalker adapts two closures to the Walker interface, for callers
// (like the GC mark phase) that don't need a full visitor type.
type funcWalker struct {
	enter func(Handle, *Object) bool
	leave func(Handle, *Object)
}

func (f funcWalker) Enter(h Handle, o *Object) bool {
	if f.enter == nil {
		return true
	}
	return f.enter(h, o)
}

func (f funcWalker) Leave(h Handle, o *Object) {
	if f.leave != nil {
		f.leave(h, o)
	}
}
