package objstore

// GCStats summarizes one GC pass.
type GCStats struct {
	FreedArenas int
}

// GC performs mark-sweep collection at arena granularity: compaction is
// not required (spec §4.1), so a whole arena is kept or freed together.
// Roots are pinned object handles (e.g. each live library unit's top
// object, the current elaboration's root) in addition to every currently
// unfrozen arena, which is always implicitly live because it may still be
// mutated. GC() must only be called at quiescent points between phases;
// no handle outside the supplied roots is guaranteed to survive the call.
func (s *Store) GC(roots []Handle) GCStats {
	s.mu.RLock()
	reachable := make(map[uint32]bool, len(s.arenas))
	for i, a := range s.arenas {
		if a != nil && !a.frozen {
			reachable[uint32(i)] = true
		}
	}
	s.mu.RUnlock()

	for _, root := range roots {
		_ = s.Visit(root, funcWalker{
			enter: func(h Handle, o *Object) bool {
				reachable[h.Arena] = true
				return true
			},
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var freed int
	for i, a := range s.arenas {
		if a == nil {
			continue
		}
		if !reachable[uint32(i)] {
			s.arenas[i] = nil
			freed++
		}
	}
	return GCStats{FreedArenas: freed}
}
