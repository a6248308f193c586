// Package library implements the named, on-disk design library (spec
// §3/§6 "Library"): a directory holding one serialized file per design
// unit plus a YAML catalog mapping unit name to file, schema digest, and
// dependency triples, the way the teacher's core.LoadProgramFileFromYAML
// loads a structured top-level description from YAML rather than a
// bespoke text format. A flock-based advisory lock enforces the
// single-writer contract of spec §5 while a library is open for writing.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"

	"github.com/nvc-project/nvc-core/objstore"
)

// UnitEntry is one catalog row: a design unit's persisted file and the
// dependency set it was compiled against.
type UnitEntry struct {
	Name    string    `yaml:"name"`
	File    string    `yaml:"file"`
	Digest  uint64    `yaml:"digest"`
	Depends []DepTriple `yaml:"depends,omitempty"`
}

// DepTriple is a (library, unit, generation) dependency reference, the
// on-disk form of the triple spec §6 requires a unit file's header carry.
type DepTriple struct {
	Library    string `yaml:"lib"`
	Unit       string `yaml:"unit"`
	Generation uint64 `yaml:"gen"`
}

type catalog struct {
	Units []UnitEntry `yaml:"units"`
}

// Library is one open named design library rooted at a directory.
type Library struct {
	Name string
	Dir  string

	mu      sync.Mutex
	units   map[string]UnitEntry
	lockFd  int
	locked  bool
}

const catalogFile = "catalog.yaml"
const lockFile = ".lock"

// Open loads dir's catalog (creating an empty one if dir does not yet
// exist) without taking the write lock.
func Open(name, dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("library: %w", err)
	}
	l := &Library{Name: name, Dir: dir, units: make(map[string]UnitEntry)}

	path := filepath.Join(dir, catalogFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("library: reading catalog: %w", err)
	}
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("library: parsing catalog: %w", err)
	}
	for _, u := range c.Units {
		l.units[u.Name] = u
	}
	return l, nil
}

// Lock acquires the advisory single-writer lock for the library, per
// spec §5 "the object store and all libraries are single-writer."
// Blocks until any other writer releases it.
func (l *Library) Lock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked {
		return nil
	}
	fd, err := unix.Open(filepath.Join(l.Dir, lockFile), unix.O_CREAT|unix.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("library: opening lock file: %w", err)
	}
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		unix.Close(fd)
		return fmt.Errorf("library: acquiring lock: %w", err)
	}
	l.lockFd = fd
	l.locked = true
	return nil
}

// Unlock releases the write lock taken by Lock.
func (l *Library) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked {
		return nil
	}
	err := unix.Flock(l.lockFd, unix.LOCK_UN)
	unix.Close(l.lockFd)
	l.locked = false
	return err
}

// Has reports whether name is present in the catalog.
func (l *Library) Has(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.units[name]
	return ok
}

// Entry returns the catalog row for name.
func (l *Library) Entry(name string) (UnitEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.units[name]
	return e, ok
}

// Save serializes root (using s) into a new unit file, records its
// catalog entry, and rewrites catalog.yaml. Must be called while holding
// Lock.
func (l *Library) Save(s *objstore.Store, name string, root objstore.Handle, depends []DepTriple, resolver objstore.Resolver) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked {
		return fmt.Errorf("library: Save called without holding the write lock")
	}

	file := name + ".unit"
	f, err := os.Create(filepath.Join(l.Dir, file))
	if err != nil {
		return fmt.Errorf("library: creating unit file: %w", err)
	}
	defer f.Close()

	if err := s.Serialize(root, f, resolver); err != nil {
		return fmt.Errorf("library: serializing %s: %w", name, err)
	}

	l.units[name] = UnitEntry{
		Name:    name,
		File:    file,
		Digest:  objstore.SchemaDigest(),
		Depends: depends,
	}
	return l.writeCatalogLocked()
}

func (l *Library) writeCatalogLocked() error {
	c := catalog{Units: make([]UnitEntry, 0, len(l.units))}
	for _, u := range l.units {
		c.Units = append(c.Units, u)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("library: marshaling catalog: %w", err)
	}
	tmp := filepath.Join(l.Dir, catalogFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("library: writing catalog: %w", err)
	}
	return os.Rename(tmp, filepath.Join(l.Dir, catalogFile))
}

// Load deserializes name's unit file into s. Returns *objstore.StaleUnitError
// if the stored schema digest disagrees with the currently registered
// schema table, per spec §4.1/§6.
func (l *Library) Load(s *objstore.Store, name string, importer objstore.Importer) (objstore.Handle, error) {
	l.mu.Lock()
	entry, ok := l.units[name]
	l.mu.Unlock()
	if !ok {
		return objstore.Nil, fmt.Errorf("library: no unit named %q in %s", name, l.Name)
	}

	f, err := os.Open(filepath.Join(l.Dir, entry.File))
	if err != nil {
		return objstore.Nil, fmt.Errorf("library: opening unit file: %w", err)
	}
	defer f.Close()

	return s.Deserialize(f, importer)
}

// Depends returns name's recorded dependency triples.
func (l *Library) Depends(name string) []DepTriple {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.units[name].Depends
}
