// Package elab instantiates an elaborated hierarchy from parsed trees
// (spec §4.6, "Elaborator"): resolving generic/port bindings, compiling
// process bodies to jit.Units, allocating signal storage via layout, and
// registering processes with the simulation kernel. Grounded directly on
// the teacher's cgra-new.DeviceBuilder: Elaborate plays the role of
// DeviceBuilder.Build, createTiles/connectTiles/createSharedMemory map to
// entity instantiation/signal-nexus wiring/layout-backed signal
// allocation respectively.
package elab

import (
	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/kernel"
)

// Design is the product of elaboration: a ready-to-run kernel.Engine plus
// enough of the scope tree for the shell and waveform subsystems to name
// things by path.
type Design struct {
	Engine    *kernel.Engine
	TopName   string
	Signals   map[string]*kernel.Signal
	Processes []*kernel.Process

	// Instances records component/entity instantiation statements found
	// in the architecture body without recursively elaborating them:
	// resolving which architecture binds to which entity is a
	// configuration-specification concern that sits with the parser
	// front end this module treats as an external collaborator, so a
	// nested hierarchy is exposed for introspection (`examine`-style
	// listing) but its own signals/processes are not instantiated here.
	Instances []string

	handleOf map[ident.ID]int64
	byHandle map[int64]*kernel.Signal
}

// Handle returns the runtime signal handle assigned to name, or false if
// name was not elaborated as a signal.
func (d *Design) Handle(name ident.ID) (int64, bool) {
	h, ok := d.handleOf[name]
	return h, ok
}

// SignalAt returns the signal bound to a runtime handle, as used by
// shell commands that operate on a name resolved through Handle first.
func (d *Design) SignalAt(handle int64) (*kernel.Signal, bool) {
	s, ok := d.byHandle[handle]
	return s, ok
}
