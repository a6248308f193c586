package kernel

import (
	"encoding/binary"

	"github.com/nvc-project/nvc-core/jit"
)

// Process is the coroutine-shaped state machine Design Notes call for: a
// jit.Unit activation that the engine resumes up to its next wait,
// carrying the resumption condition (signal sensitivity or a delay)
// between resumptions. Grounded on the teacher's PCInBlock/
// NextPCInBlock resumption loop in core/emu.go, retargeted from a fixed
// instruction group to an arbitrary IR unit.
type Process struct {
	Name    string
	Scope   string
	Backend jit.Backend
	Frame   *jit.Frame

	// regSignal maps a register holding a signal handle (as used by
	// WaitSpec.Sensitivity) to the concrete Signal it names, resolved
	// once at elaboration time since a process's sensitivity list is
	// static.
	regSignal map[jit.Reg]*Signal

	done    bool
	pending *event // the timeout event for an outstanding delayed wait, if any
}

// NewProcess wraps unit's first activation as a runnable process.
func NewProcess(name, scope string, backend jit.Backend, unit *jit.Unit, numRegs int, regSignal map[jit.Reg]*Signal) *Process {
	return &Process{
		Name:      name,
		Scope:     scope,
		Backend:   backend,
		Frame:     jit.NewFrame(unit, numRegs),
		regSignal: regSignal,
	}
}

// sensitiveTo reports whether p's outstanding wait names any signal in
// changed.
func (p *Process) sensitiveTo(changed map[*Signal]bool) bool {
	if p.done {
		return false
	}
	for _, r := range p.Frame.Wait.Sensitivity {
		if sig, ok := p.regSignal[r]; ok && changed[sig] {
			return true
		}
	}
	return false
}

// resume runs p to its next suspension point, scheduling a timeout event
// for a `wait for` clause and propagating a trap as a fatal error (spec
// §4.8 "Cancellation": fatal traps terminate the run immediately).
func (e *Engine) resume(p *Process) error {
	if p.done {
		return nil
	}
	if p.pending != nil {
		removeEvent(&e.queue, p.pending)
		p.pending = nil
	}

	status, err := p.Backend.Step(p.Frame)
	if err != nil {
		e.Stop()
		return err
	}

	switch status {
	case jit.Returned:
		p.done = true
	case jit.Trapped:
		p.done = true
		e.Stop()
	case jit.Suspended:
		p.Frame.PC++ // advance past the OpWait so the next resume continues after it
		if p.Frame.Wait.DelayFs >= 0 {
			ev := &event{timeFs: e.timeFs + p.Frame.Wait.DelayFs, delta: 0, seq: e.seq}
			ev.run = func() error {
				p.pending = nil
				return e.resume(p)
			}
			e.seq++
			p.pending = ev
			pushEvent(&e.queue, ev)
		}
	}
	return nil
}

// signalHandle packs a *Signal pointer's slot index in Engine.signals as
// the int64 handle jit's SignalAccess interface operates on.
type signalHandle = int64

// EngineSignals adapts an Engine's registered signals to jit.SignalAccess
// for a specific driver, so OpSigSchedule writes through that driver's ID
// rather than creating a new one per call.
type EngineSignals struct {
	Engine   *Engine
	DriverID map[*Signal]int
	ByHandle map[signalHandle]*Signal
}

// NewEngineSignals builds a SignalAccess view scoped to one process, given
// the driver id it was assigned on each signal it may drive.
func NewEngineSignals(e *Engine, driverID map[*Signal]int, byHandle map[signalHandle]*Signal) *EngineSignals {
	return &EngineSignals{Engine: e, DriverID: driverID, ByHandle: byHandle}
}

// ReadSignal implements jit.SignalAccess.
func (es *EngineSignals) ReadSignal(handle int64) int64 {
	sig, ok := es.ByHandle[handle]
	if !ok {
		return 0
	}
	return bytesToInt64(sig.Current())
}

// ScheduleSignal implements jit.SignalAccess.
func (es *EngineSignals) ScheduleSignal(handle, value, delayFs int64) {
	sig, ok := es.ByHandle[handle]
	if !ok {
		return
	}
	id, ok := es.DriverID[sig]
	if !ok {
		return
	}
	buf := make([]byte, sig.Size)
	putInt64(buf, value)
	if delayFs < 0 {
		delayFs = 0
	}
	es.Engine.ScheduleDriverUpdate(sig, id, buf, delayFs)
}

// ResolveSignal implements jit.SignalAccess.
func (es *EngineSignals) ResolveSignal(handle int64) (int64, error) {
	sig, ok := es.ByHandle[handle]
	if !ok {
		return 0, nil
	}
	return bytesToInt64(sig.Current()), nil
}

var _ jit.SignalAccess = (*EngineSignals)(nil)

func bytesToInt64(b []byte) int64 {
	var buf [8]byte
	copy(buf[:], b)
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

func putInt64(dst []byte, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	copy(dst, buf[:])
}
