// Package kernel implements the discrete-event simulation core (spec
// §4.8/§5): a femtosecond event queue with delta cycles, signal drivers
// and resolution, cooperative process scheduling, and a watch/callback
// mechanism. Signals and processes are plain Go structs, not
// objstore-backed objects — nothing under TagRuntime is ever serialized
// to a library, so the generic slot-addressed Object machinery the rest
// of this module depends on (C2) would buy nothing here.
// The watch mechanism and value-change notification reuse
// github.com/sarchlab/akita/v4/sim's Hookable/HookPos machinery and
// Buffer type unchanged, since those concerns are agnostic to the choice
// of time model, grounded on the teacher's core/port.go hook-invocation
// pattern.
package kernel

import (
	"fmt"
	"sort"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosSignalChange marks the instant a signal's resolved value
// changes at the end of a delta cycle.
var HookPosSignalChange = &sim.HookPos{Name: "Signal Value Change"}

// DriverPriority orders same-signal drivers when resolving a multiply
// driven signal; higher wins ties only insofar as Force/Release must
// shadow every ordinary process driver.
type DriverPriority int

const (
	PriorityNormal DriverPriority = iota
	PriorityForce                 // shell `force` command (spec §4.9), supplemented beyond the distilled spec
)

// Driver is one process-scoped contributor to a signal's next value.
type Driver struct {
	ID       int
	Value    []byte
	Priority DriverPriority
	Active   bool // false after `release`; an inactive driver contributes nothing
}

// ResolutionFunc computes a signal's resolved value from its active
// drivers' values, mirroring a VHDL resolution function. With no
// resolution function (nil), a signal driven by exactly one active driver
// resolves to that driver's value; more than one active driver with no
// ResolutionFunc is a fatal multiply-driven error (spec §4.8).
type ResolutionFunc func(drivers [][]byte) []byte

// Watch is a registered (signal, callback) pair (spec §4.8 "Watches").
type Watch struct {
	Callback func(sig *Signal)
}

// Signal is the runtime object backing a VHDL signal (spec §3, "Runtime
// Signal"): current/pending value bytes, a driver vector, a listener
// (watch) list, and the scope it was declared in.
type Signal struct {
	sim.HookableBase

	Name    string
	Scope   string // dotted scope path, for diagnostics and `examine`
	Size    int    // byte width, from layout.Layout.Size
	Resolve ResolutionFunc

	current []byte
	drivers map[int]*Driver
	pending sim.Buffer // queued (driver id, value) updates staged for the next delta
	watches []Watch

	nextDriverID int
}

type pendingUpdate struct {
	driverID int
	value    []byte
	delayFs  int64
}

// NewSignal allocates a zero-valued signal of the given byte width.
func NewSignal(name, scope string, size int, resolve ResolutionFunc) *Signal {
	return &Signal{
		Name:         name,
		Scope:        scope,
		Size:         size,
		Resolve:      resolve,
		current:      make([]byte, size),
		drivers:      make(map[int]*Driver),
		pending:      sim.NewBuffer(name+".Pending", 64),
	}
}

// Current returns the signal's current resolved value bytes.
func (s *Signal) Current() []byte { return s.current }

// NewDriverID allocates a driver slot, used once per process (or the
// shell's force/release synthetic driver) that assigns this signal.
func (s *Signal) NewDriverID(priority DriverPriority) int {
	id := s.nextDriverID
	s.nextDriverID++
	s.drivers[id] = &Driver{ID: id, Priority: priority, Active: false}
	return id
}

// schedule pushes driverID's next value onto the pending buffer;
// applyPending adopts it at the end of the current delta. The engine
// calls it from the event ScheduleDriverUpdate queued, once that event's
// (time, delta) is reached, always with delayFs 0; delayFs is recorded
// but not read.
func (s *Signal) schedule(driverID int, value []byte, delayFs int64) {
	s.pending.Push(pendingUpdate{driverID: driverID, value: value, delayFs: delayFs})
}

// applyPending drains every staged update, marking each one's driver
// active with its value, and resolves the signal. It returns whether the
// resolved value changed.
func (s *Signal) applyPending() (bool, error) {
	changed := false
	for s.pending.Size() > 0 {
		item := s.pending.Pop()
		up := item.(pendingUpdate)
		d, ok := s.drivers[up.driverID]
		if !ok {
			return changed, fmt.Errorf("kernel: signal %s: unknown driver %d", s.Name, up.driverID)
		}
		d.Value = up.value
		d.Active = true
		changed = true
	}
	if !changed {
		return false, nil
	}

	resolved, err := s.resolve()
	if err != nil {
		return false, err
	}
	if bytesEqual(resolved, s.current) {
		return false, nil
	}
	s.current = resolved
	return true, nil
}

// resolve computes the signal's value from its active drivers, visiting
// them in driver-ID order so a non-commutative ResolutionFunc sees a
// stable, reproducible argument order across runs.
func (s *Signal) resolve() ([]byte, error) {
	ids := make([]int, 0, len(s.drivers))
	for id := range s.drivers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var active [][]byte
	var forced []byte
	for _, id := range ids {
		d := s.drivers[id]
		if !d.Active {
			continue
		}
		if d.Priority == PriorityForce {
			forced = d.Value
			continue
		}
		active = append(active, d.Value)
	}
	if forced != nil {
		return forced, nil
	}
	if len(active) == 0 {
		return s.current, nil
	}
	if len(active) == 1 {
		return active[0], nil
	}
	if s.Resolve == nil {
		return nil, fmt.Errorf("kernel: signal %s: multiply driven with no resolution function", s.Name)
	}
	return s.Resolve(active), nil
}

// Release deactivates driverID, e.g. the shell's `release` command.
func (s *Signal) Release(driverID int) {
	if d, ok := s.drivers[driverID]; ok {
		d.Active = false
	}
}

// Watch registers cb to run at the end of every delta in which s's
// resolved value changed, in registration order (spec §4.8 "Watches").
func (s *Signal) Watch(cb func(sig *Signal)) {
	s.watches = append(s.watches, Watch{Callback: cb})
}

func (s *Signal) fireWatches() {
	for _, w := range s.watches {
		w.Callback(s)
	}
	hookCtx := sim.HookCtx{Domain: s, Pos: HookPosSignalChange, Item: s.current}
	s.InvokeHook(hookCtx)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
