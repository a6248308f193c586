package objstore

import "sync"

// Store owns a growing sequence of arenas and is the unit of object
// identity: a Handle only means something relative to the Store that
// produced it. The cmd/nvcore driver creates one Store for its whole run.
type Store struct {
	mu     sync.RWMutex
	arenas []*Arena
}

// NewStore creates an empty store with one open (unfrozen) arena ready to
// receive objects.
func NewStore() *Store {
	s := &Store{}
	s.NewArena()
	return s
}

// NewArena opens a fresh arena and makes it the current allocation
// target. Callers freeze the previous arena first if they want the
// freeze invariant enforced against it; New only ever allocates into the
// current arena.
func (s *Store) NewArena() *Arena {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &Arena{id: uint32(len(s.arenas)), gen: uint64(len(s.arenas))}
	s.arenas = append(s.arenas, a)
	return a
}

// current returns the most recently created arena, the default target for
// New.
func (s *Store) current() *Arena {
	return s.arenas[len(s.arenas)-1]
}

// New allocates a zero-valued object of the given tag/kind in the current
// arena and returns its handle. The (tag, kind) pair must have been
// registered via RegisterKind.
func (s *Store) New(tag Tag, kind Kind) (Handle, error) {
	if _, ok := schemaFor(tag, kind); !ok {
		return Nil, &SchemaError{Tag: tag, Kind: kind, Slot: -1}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.current()
	if a.frozen {
		return Nil, &FrozenArenaError{Arena: a.id}
	}

	idx := uint32(len(a.objects))
	a.objects = append(a.objects, Object{Tag: tag, Kind: kind})
	return Handle{Arena: a.id, Index: idx}, nil
}

func (s *Store) resolve(h Handle) (*Arena, *Object, error) {
	if int(h.Arena) >= len(s.arenas) {
		return nil, nil, &SchemaError{Slot: -1}
	}
	a := s.arenas[h.Arena]
	if int(h.Index) >= len(a.objects) {
		return nil, nil, &SchemaError{Slot: -1}
	}
	return a, &a.objects[h.Index], nil
}

// Kind returns the current kind of the object at h.
func (s *Store) Kind(h Handle) (Kind, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, o, err := s.resolve(h)
	if err != nil {
		return 0, err
	}
	return o.Kind, nil
}

// Tag returns the tag of the object at h.
func (s *Store) Tag(h Handle) (Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, o, err := s.resolve(h)
	if err != nil {
		return 0, err
	}
	return o.Tag, nil
}

// SetLoc records the source location of the object at h.
func (s *Store) SetLoc(h Handle, loc Loc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, o, err := s.resolve(h)
	if err != nil {
		return err
	}
	if a.frozen {
		return &FrozenArenaError{Arena: a.id}
	}
	o.Loc = loc
	return nil
}

// Loc returns the source location of the object at h.
func (s *Store) Loc(h Handle) (Loc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, o, err := s.resolve(h)
	if err != nil {
		return Loc{}, err
	}
	return o.Loc, nil
}

// GetItem reads slot from the object at h, failing with a SchemaError if
// the (tag, kind) schema does not declare that slot legal.
func (s *Store) GetItem(h Handle, slot int) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, o, err := s.resolve(h)
	if err != nil {
		return Item{}, err
	}
	schema, ok := schemaFor(o.Tag, o.Kind)
	if !ok || !schema.Allows(slot) {
		return Item{}, &SchemaError{Tag: o.Tag, Kind: o.Kind, Slot: slot}
	}
	return o.ItemAt(slot), nil
}

// SetItem writes slot on the object at h.
func (s *Store) SetItem(h Handle, slot int, v Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, o, err := s.resolve(h)
	if err != nil {
		return err
	}
	if a.frozen {
		return &FrozenArenaError{Arena: a.id}
	}
	schema, ok := schemaFor(o.Tag, o.Kind)
	if !ok || !schema.Allows(slot) {
		return &SchemaError{Tag: o.Tag, Kind: o.Kind, Slot: slot}
	}
	if v.Kind == RefItem && v.Ref.Valid() {
		if v.Ref.Arena > h.Arena {
			return &ForwardReferenceError{From: h.Arena, To: v.Ref.Arena}
		}
	}
	o.setItemAt(slot, v)
	return nil
}

// SetKind transitions the object at h to a new kind, consulting the
// current kind's allow-list (spec §4.1, e.g. INCOMPLETE->INTEGER).
func (s *Store) SetKind(h Handle, to Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, o, err := s.resolve(h)
	if err != nil {
		return err
	}
	if a.frozen {
		return &FrozenArenaError{Arena: a.id}
	}
	schema, ok := schemaFor(o.Tag, o.Kind)
	if !ok || !schema.CanTransitionTo(to) {
		return &KindTransitionError{Tag: o.Tag, From: o.Kind, To: to}
	}
	if _, ok := schemaFor(o.Tag, to); !ok {
		return &SchemaError{Tag: o.Tag, Kind: to, Slot: -1}
	}
	o.Kind = to
	return nil
}

// Freeze transitions arena to the frozen state: a one-way transition after
// which no further New/SetItem/SetKind calls against it will succeed, so
// it can be safely shared, serialized, or referenced from newer arenas.
func (s *Store) Freeze(arena uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(arena) >= len(s.arenas) {
		return &SchemaError{Slot: -1}
	}
	s.arenas[arena].frozen = true
	return nil
}

// Arena returns the arena by id for inspection (layout caching, GC roots,
// serialization).
func (s *Store) Arena(id uint32) *Arena {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(id) >= len(s.arenas) {
		return nil
	}
	return s.arenas[id]
}

// NumArenas returns how many arenas the store has ever created (including
// any already garbage collected away; freed arenas leave a nil hole).
func (s *Store) NumArenas() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.arenas)
}
