package kernel

import "container/heap"

// FsPerNs is the number of simulation femtoseconds in one nanosecond,
// convenient for process code and tests written against the conventional
// VHDL `ns`/`ps` time literals.
const FsPerNs int64 = 1_000_000

// event is one entry in the engine's time-ordered queue: a (time, delta)
// stamp plus the action to run when it is dequeued and a monotonic
// sequence number that breaks ties within the same stamp by insertion
// order (spec §4.8 "deterministic insertion-order tie-break").
type event struct {
	timeFs int64
	delta  int64
	seq    int64
	run    func() error
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].timeFs != q[j].timeFs {
		return q[i].timeFs < q[j].timeFs
	}
	if q[i].delta != q[j].delta {
		return q[i].delta < q[j].delta
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)        { *q = append(*q, x.(*event)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// Engine is the discrete-event kernel: a 64-bit femtosecond time base, a
// delta-cycle event queue, and the cooperative process scheduler (spec
// §4.8/§5). It is this repo's own event queue type, not a reuse of
// akita's sim.Engine: a float64-seconds engine cannot represent the
// exact-delta-cycle tie-break the simulation cycle contract requires.
type Engine struct {
	timeFs int64
	delta  int64
	queue  eventQueue
	seq    int64

	signals   []*Signal
	processes []*Process

	stopRequested bool
}

// NewEngine returns an idle engine at time 0.
func NewEngine() *Engine {
	e := &Engine{}
	heap.Init(&e.queue)
	return e
}

// Now returns the current simulation time in femtoseconds.
func (e *Engine) Now() int64 { return e.timeFs }

// Delta returns the current delta-cycle index within Now().
func (e *Engine) Delta() int64 { return e.delta }

// AddSignal registers sig so Reset can clear it and RunFor's bookkeeping
// can report it.
func (e *Engine) AddSignal(sig *Signal) { e.signals = append(e.signals, sig) }

// AddProcess registers p with the scheduler and immediately runs it once
// to its first wait, matching VHDL's "every process executes once at time
// zero" elaboration rule.
func (e *Engine) AddProcess(p *Process) error {
	e.processes = append(e.processes, p)
	return e.resume(p)
}

// scheduleAt inserts run to fire at (timeFs, delta).
func (e *Engine) scheduleAt(timeFs, delta int64, run func() error) {
	heap.Push(&e.queue, &event{timeFs: timeFs, delta: delta, seq: e.seq, run: run})
	e.seq++
}

func pushEvent(q *eventQueue, ev *event) { heap.Push(q, ev) }

// removeEvent drops ev from q if still present, used when a process
// resumes (e.g. because its sensitivity list fired) before its `wait for`
// timeout elapsed.
func removeEvent(q *eventQueue, ev *event) {
	for i, e := range *q {
		if e == ev {
			heap.Remove(q, i)
			return
		}
	}
}

// ScheduleDriverUpdate is how jit.SignalAccess.ScheduleSignal reaches the
// engine: sig gets driverID's new value applied delayFs femtoseconds from
// now (0 means the current delta, handled as a same-time next-delta
// event per the simulation cycle contract).
func (e *Engine) ScheduleDriverUpdate(sig *Signal, driverID int, value []byte, delayFs int64) {
	target := e.timeFs + delayFs
	delta := int64(0)
	if delayFs == 0 {
		delta = e.delta + 1
	}
	e.scheduleAt(target, delta, func() error {
		sig.schedule(driverID, value, 0)
		return nil
	})
}

// Stop requests the run loop to stop once the in-flight process group has
// run to its next wait (spec §4.8 "Cancellation").
func (e *Engine) Stop() { e.stopRequested = true }

// Reset clears scheduler state and every registered signal so the shell's
// `reset` command can re-run without re-elaborating (supplemented beyond
// the distilled spec, named but not designed in spec.md §4.9's command
// table).
func (e *Engine) Reset() {
	e.timeFs = 0
	e.delta = 0
	e.seq = 0
	e.queue = nil
	heap.Init(&e.queue)
	e.stopRequested = false
	for _, s := range e.signals {
		for k := range s.current {
			s.current[k] = 0
		}
		s.drivers = make(map[int]*Driver)
		s.nextDriverID = 0
	}
	e.processes = nil
}

// RunFor advances the simulation by durationFs femtoseconds, implementing
// the simulation cycle contract of spec §4.8 step by step.
func (e *Engine) RunFor(durationFs int64) error {
	deadline := e.timeFs + durationFs
	return e.runUntil(deadline)
}

func (e *Engine) runUntil(deadline int64) error {
	for {
		if e.stopRequested {
			return nil
		}
		if e.queue.Len() == 0 {
			if deadline > e.timeFs {
				e.timeFs = deadline
			}
			return nil
		}
		next := e.queue[0]
		if next.timeFs >= deadline {
			// Half-open run interval [start, deadline): an event scheduled
			// exactly at the boundary belongs to the *next* RunFor call,
			// so "run for N" always reports exactly the events strictly
			// inside the requested window.
			e.timeFs = deadline
			return nil
		}

		e.timeFs = next.timeFs
		e.delta = next.delta

		changed, err := e.drainDelta()
		if err != nil {
			return err
		}
		if err := e.wakeSensitiveProcesses(changed); err != nil {
			return err
		}
		for _, sig := range changed {
			sig.fireWatches()
		}
	}
}

// drainDelta dequeues and runs every event at the current (time, delta)
// stamp (step 1), applying driver updates and resolving changed signals
// (step 2), returning the signals whose resolved value changed.
func (e *Engine) drainDelta() ([]*Signal, error) {
	for e.queue.Len() > 0 && e.queue[0].timeFs == e.timeFs && e.queue[0].delta == e.delta {
		ev := heap.Pop(&e.queue).(*event)
		if err := ev.run(); err != nil {
			return nil, err
		}
	}

	var changed []*Signal
	for _, sig := range e.signals {
		if sig.pending.Size() == 0 {
			continue
		}
		did, err := sig.applyPending()
		if err != nil {
			return nil, err
		}
		if did {
			changed = append(changed, sig)
		}
	}
	return changed, nil
}

// wakeSensitiveProcesses marks every process sensitive to a changed
// signal READY and runs it to its next wait (steps 3-4), in scope-tree
// DFS order then insertion order (Process list is already built in that
// order by the elaborator).
func (e *Engine) wakeSensitiveProcesses(changed []*Signal) error {
	if len(changed) == 0 {
		return nil
	}
	changedSet := make(map[*Signal]bool, len(changed))
	for _, s := range changed {
		changedSet[s] = true
	}

	for _, p := range e.processes {
		if !p.sensitiveTo(changedSet) {
			continue
		}
		if err := e.resume(p); err != nil {
			return err
		}
	}
	return nil
}
