package library

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/nvc-project/nvc-core/objstore"
)

// Set is a library search path: a process-lifetime collection of opened
// libraries, shared by every Store it imports into. It implements
// objstore.Importer so that cross-library references encountered during
// Load are resolved by loading the dependency's unit on demand, and
// objstore.Resolver so that Save can mark arenas that belong to an
// already-persisted unit as external rather than inlining them.
type Set struct {
	mu    sync.Mutex
	root  string
	libs  map[string]*Library
	store *objstore.Store

	// arenaOwner maps an arena id in store to the (library, unit, gen)
	// triple it was loaded from, so Resolve can answer for it.
	arenaOwner map[uint32]DepTriple
}

// NewSet opens a library search path rooted at searchPath, sharing store
// for every unit loaded through it.
func NewSet(store *objstore.Store, searchPath string) *Set {
	return &Set{
		root:       searchPath,
		libs:       make(map[string]*Library),
		store:      store,
		arenaOwner: make(map[uint32]DepTriple),
	}
}

// Library opens (or returns the already-open) named library under the
// search path.
func (set *Set) Library(name string) (*Library, error) {
	set.mu.Lock()
	defer set.mu.Unlock()
	if l, ok := set.libs[name]; ok {
		return l, nil
	}
	l, err := Open(name, filepath.Join(set.root, name))
	if err != nil {
		return nil, err
	}
	set.libs[name] = l
	return l, nil
}

// Import implements objstore.Importer: it loads lib/unit if not already
// resident and returns the arena now holding it.
func (set *Set) Import(lib, unit string, gen uint64) (uint32, error) {
	set.mu.Lock()
	for arena, owner := range set.arenaOwner {
		if owner.Library == lib && owner.Unit == unit && owner.Generation == gen {
			set.mu.Unlock()
			return arena, nil
		}
	}
	set.mu.Unlock()

	l, err := set.Library(lib)
	if err != nil {
		return 0, err
	}
	h, err := l.Load(set.store, unit, set)
	if err != nil {
		return 0, fmt.Errorf("library: importing %s.%s: %w", lib, unit, err)
	}

	set.mu.Lock()
	set.arenaOwner[h.Arena] = DepTriple{Library: lib, Unit: unit, Generation: gen}
	set.mu.Unlock()
	return h.Arena, nil
}

// Resolve implements objstore.Resolver: an arena previously recorded by
// Import (or explicitly via MarkSaved) is external and must be referenced
// by triple, not inlined.
func (set *Set) Resolve(arena uint32) (lib, unit string, gen uint64, ok bool) {
	set.mu.Lock()
	defer set.mu.Unlock()
	owner, ok := set.arenaOwner[arena]
	if !ok {
		return "", "", 0, false
	}
	return owner.Library, owner.Unit, owner.Generation, true
}

// MarkSaved records that arena now belongs to the named persisted unit,
// so subsequent Serialize calls that reference it (from a dependent unit
// compiled in the same session) emit a triple instead of inlining it.
func (set *Set) MarkSaved(arena uint32, lib, unit string, gen uint64) {
	set.mu.Lock()
	defer set.mu.Unlock()
	set.arenaOwner[arena] = DepTriple{Library: lib, Unit: unit, Generation: gen}
}
