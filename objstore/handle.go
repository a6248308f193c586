package objstore

import "fmt"

// Handle addresses one object by (arena index, slot index) within a
// Store, per the Design Notes' "arena allocation with cross-arena
// handles" guidance: a per-arena vector indexed by a stable pair rather
// than a bare pointer, so the freeze invariant can be checked cheaply.
type Handle struct {
	Arena uint32
	Index uint32
}

// Nil is the zero Handle, used as "no object".
var Nil = Handle{}

// Valid reports whether h could plausibly reference an object (it does
// not check the handle resolves inside a particular Store).
func (h Handle) Valid() bool { return h != Nil }

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.Arena, h.Index)
}
