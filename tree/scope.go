package tree

import "github.com/nvc-project/nvc-core/ident"

// Scope is a lexical region's symbol table, layered on top of the object
// store the same way the teacher's device hierarchy layers a name->tile
// map on top of its flat component list: the store has no notion of
// "visible here," so name resolution and attribute attachment live in
// this separate, non-persisted structure instead of as object items.
type Scope struct {
	parent *Scope
	names  map[ident.ID]Tree
	attrs  map[ident.ID]map[string]any
}

// NewScope opens a nested scope; parent may be nil for the outermost
// (library-use-clause) scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[ident.ID]Tree)}
}

// Declare binds name to decl in this scope. Shadowing an outer scope's
// binding is allowed; redeclaring within the same scope is not.
func (sc *Scope) Declare(name ident.ID, decl Tree) bool {
	if _, exists := sc.names[name]; exists {
		return false
	}
	sc.names[name] = decl
	return true
}

// Lookup resolves name, searching outward through enclosing scopes.
func (sc *Scope) Lookup(name ident.ID) (Tree, bool) {
	for s := sc; s != nil; s = s.parent {
		if t, ok := s.names[name]; ok {
			return t, true
		}
	}
	return Tree{}, false
}

// SetAttr attaches an arbitrary analysis-time attribute to a declaration
// (e.g. "is-clocked", cached IR handle) without mutating the frozen
// object store.
func (sc *Scope) SetAttr(decl ident.ID, key string, value any) {
	if sc.attrs == nil {
		sc.attrs = make(map[ident.ID]map[string]any)
	}
	m, ok := sc.attrs[decl]
	if !ok {
		m = make(map[string]any)
		sc.attrs[decl] = m
	}
	m[key] = value
}

// Attr retrieves an attribute set by SetAttr, searching outward.
func (sc *Scope) Attr(decl ident.ID, key string) (any, bool) {
	for s := sc; s != nil; s = s.parent {
		if m, ok := s.attrs[decl]; ok {
			if v, ok := m[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}
