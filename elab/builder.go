package elab

import (
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/library"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/tree"
)

// Builder is a fluent elaboration request, mirroring the teacher's
// DeviceBuilder With* value-receiver chain (cgra-new/cgra.go).
type Builder struct {
	searchPath string
	std        string
	topLib     string
	topUnit    string
	generics   map[ident.ID]int64
}

// NewBuilder returns an empty Builder.
func NewBuilder() Builder {
	return Builder{topLib: "WORK", generics: make(map[ident.ID]int64)}
}

// WithSearchPath records a library search root. Build does not read it:
// units come from the library.Set passed to Build.
func (b Builder) WithSearchPath(path string) Builder {
	b.searchPath = path
	return b
}

// WithStd records a standard library name. Build does not read it.
func (b Builder) WithStd(std string) Builder {
	b.std = std
	return b
}

// WithTop sets the root design unit: a library name and an architecture
// unit name within it.
func (b Builder) WithTop(lib, unit string) Builder {
	b.topLib = lib
	b.topUnit = unit
	return b
}

// WithGeneric records an explicit top-level generic override, applied
// during Build in place of the generic's (unmodeled) default expression.
func (b Builder) WithGeneric(name ident.ID, value int64) Builder {
	next := make(map[ident.ID]int64, len(b.generics)+1)
	for k, v := range b.generics {
		next[k] = v
	}
	next[name] = value
	b.generics = next
	return b
}

// Build loads the configured top unit from libs and elaborates it.
func (b Builder) Build(store *objstore.Store, libs *library.Set) (*Design, error) {
	arch, err := LoadArchitecture(libs, store, b.topLib, b.topUnit)
	if err != nil {
		return nil, err
	}
	return Elaborate(arch, b.generics)
}

// LoadArchitecture fetches unitName from the named library and wraps it
// as an architecture Tree.
func LoadArchitecture(libs *library.Set, store *objstore.Store, libName, unitName string) (tree.Tree, error) {
	lib, err := libs.Library(libName)
	if err != nil {
		return tree.Tree{}, err
	}
	h, err := lib.Load(store, unitName, libs)
	if err != nil {
		return tree.Tree{}, err
	}
	return tree.Tree{S: store, H: h}, nil
}
