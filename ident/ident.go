// Package ident provides an interned, process-global identifier table.
//
// Two identifiers compare equal iff their handles are equal, which makes
// identifier comparison an O(1) pointer comparison regardless of the
// underlying string length. Identifiers are never freed: the table is a
// process-lifetime arena, matching the "Identifiers and objects are owned
// by their arena" ownership rule and the global-interner carve-out in the
// Design Notes (globals are acceptable for the read-mostly interner itself;
// only the *public* API must not require process-wide state).
package ident

import (
	"sync"

	"github.com/rs/xid"
)

// ID is an interned identifier. The zero value is not a valid ID; use
// Intern to obtain one.
type ID struct {
	e *entry
}

type entry struct {
	s string
}

// Sep is the default hierarchical composition separator, matching VHDL's
// extended-name path separator convention.
const Sep = "."

var (
	mu    sync.RWMutex
	table = make(map[string]*entry, 4096)
)

// Intern returns the unique ID for the given byte string, creating the
// table entry the first time it is seen.
func Intern(bytes []byte) ID {
	s := string(bytes)
	return InternString(s)
}

// InternString is the string-argument form of Intern, avoiding an
// allocation when the caller already owns a string.
func InternString(s string) ID {
	mu.RLock()
	e, ok := table[s]
	mu.RUnlock()
	if ok {
		return ID{e}
	}

	mu.Lock()
	defer mu.Unlock()
	if e, ok := table[s]; ok {
		return ID{e}
	}
	e = &entry{s: s}
	table[s] = e
	return ID{e}
}

// Valid reports whether id was produced by this package (as opposed to
// being a zero value).
func (id ID) Valid() bool { return id.e != nil }

// StringOf returns the interned bytes backing id.
func StringOf(id ID) []byte {
	return []byte(id.e.s)
}

// String implements fmt.Stringer.
func (id ID) String() string {
	if id.e == nil {
		return ""
	}
	return id.e.s
}

// Len returns the byte length of the identifier's text.
func (id ID) Len() int {
	if id.e == nil {
		return 0
	}
	return len(id.e.s)
}

// Equal reports identifier equality. Because IDs are interned, this is a
// pointer comparison.
func (id ID) Equal(other ID) bool {
	return id.e == other.e
}

// Prefix composes a and b into a single hierarchical identifier joined by
// sep, e.g. Prefix(Intern("WORK"), Intern("COUNTER"), Sep) -> "WORK.COUNTER".
func Prefix(a, b ID, sep string) ID {
	return InternString(a.String() + sep + b.String())
}

// Unique returns an identifier guaranteed fresh for the lifetime of the
// process, derived from base. It is used by the elaborator to name
// generate/instance copies of a declaration that would otherwise collide
// (e.g. multiple instances of the same generate-for body).
func Unique(base ID) ID {
	tag := xid.New().String()
	return InternString(base.String() + "#" + tag)
}
