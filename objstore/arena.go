package objstore

// Arena is a contiguous, bump-allocated region of objects sharing a
// monotonic generation id (spec §3, "Arena"). Objects in one arena may
// reference objects in older arenas but never in newer ones; once frozen,
// an arena's contents never change again, which is what makes
// serialization and cross-goroutine sharing of a frozen design safe.
type Arena struct {
	id      uint32
	gen     uint64
	frozen  bool
	objects []Object
}

// ID returns the arena's index within its owning Store.
func (a *Arena) ID() uint32 { return a.id }

// Generation returns the arena's monotonic creation order. Generations
// are strictly increasing across a Store's lifetime and are what a
// persisted unit's header records (spec §6).
func (a *Arena) Generation() uint64 { return a.gen }

// Frozen reports whether the arena has been frozen.
func (a *Arena) Frozen() bool { return a.frozen }

// Len returns the number of objects currently allocated in the arena.
func (a *Arena) Len() int { return len(a.objects) }
