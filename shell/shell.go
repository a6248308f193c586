// Package shell implements the interactive command shell of spec §4.9:
// a textual command table invoked between delta cycles (never during
// process execution), publishing output through a handler vector that
// external transports (terminal, WebSocket, an external debug protocol)
// subscribe to. The core does not implement any transport; it only
// publishes through OutputHandlers (spec §6 "Shell transports").
//
// Grounded on the teacher's instr.ISA.nameToBehavior table-of-behaviors
// idiom (a map[string]func constant table rather than a switch), and on
// core/util.go's go-pretty/v6 table rendering for `examine` output.
package shell

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nvc-project/nvc-core/diag"
	"github.com/nvc-project/nvc-core/elab"
	"github.com/nvc-project/nvc-core/kernel"
	"github.com/nvc-project/nvc-core/objstore"
)

// OutputKind selects which handler in the output vector a Shell message
// is routed to (spec §4.9 "a small handler vector").
type OutputKind int

const (
	OutStdout OutputKind = iota
	OutStderr
	OutBackchannel
	OutSignalUpdate
	OutStart
	OutRestart
	OutNextStep
)

// OutputHandlers is the subscriber vector a transport registers against.
// Any field left nil silently drops messages of that kind, so a
// transport that only cares about signal updates need not implement the
// rest.
type OutputHandlers struct {
	Stdout       func(text string)
	Stderr       func(text string)
	Backchannel  func(data []byte)
	SignalUpdate func(sig *kernel.Signal)
	Start        func()
	Restart      func()
	NextStep     func(timeFs int64)
}

func (h OutputHandlers) emit(kind OutputKind, text string) {
	switch kind {
	case OutStdout:
		if h.Stdout != nil {
			h.Stdout(text)
		}
	case OutStderr:
		if h.Stderr != nil {
			h.Stderr(text)
		}
	}
}

// Handler implements one shell command. args is the whitespace-split
// argument list following the command name.
type Handler func(sh *Shell, args []string) error

// Shell is the single-threaded interactive command evaluator of spec
// §4.9. It owns the command table and the current elaborated Design, and
// is invoked between delta cycles: callers must not call Dispatch while
// a RunFor call from another goroutine is in flight (there is none in
// this module's cooperative scheduling model, per spec §5).
type Shell struct {
	Design  *elab.Design
	Out     OutputHandlers
	Render  Renderer
	Diags   *diag.Collector
	Forces  map[string]int // signal name -> force driver id, for release

	commands map[string]Handler
}

// New returns a Shell bound to design, with the default command table
// registered (spec §4.9 command table: reset, run, continue, examine,
// force, release, watch, quit).
func New(design *elab.Design, out OutputHandlers) *Shell {
	sh := &Shell{
		Design:   design,
		Out:      out,
		Render:   TableRenderer{},
		Diags:    diag.NewCollector(),
		Forces:   make(map[string]int),
		commands: make(map[string]Handler, 8),
	}
	sh.commands["reset"] = cmdReset
	sh.commands["run"] = cmdRun
	sh.commands["continue"] = cmdContinue
	sh.commands["examine"] = cmdExamine
	sh.commands["force"] = cmdForce
	sh.commands["release"] = cmdRelease
	sh.commands["watch"] = cmdWatch
	sh.commands["quit"] = cmdQuit
	return sh
}

// ErrQuit is the distinguished sentinel returned by cmdQuit so
// Dispatch's caller (the transport's input loop) knows to stop reading
// commands, without Shell importing os.Exit itself (the driver owns
// process lifetime, per Design Notes' error-return discipline).
var ErrQuit = fmt.Errorf("shell: quit requested")

// Dispatch looks up name in the command table and runs it with args,
// reporting an unknown command as a plain UserSource-class diagnostic
// rather than an error return, matching spec §7 "UserSource... failures
// propagated via a diagnostic collector."
func (sh *Shell) Dispatch(name string, args []string) error {
	h, ok := sh.commands[name]
	if !ok {
		sh.Diags.Errorf("unknown command %q", name)
		sh.Out.emit(OutStderr, sh.Render.RenderDiagnostic(sh.Diags.Diagnostics()[len(sh.Diags.Diagnostics())-1]))
		return nil
	}
	return h(sh, args)
}

func cmdReset(sh *Shell, _ []string) error {
	sh.Design.Engine.Reset()
	sh.Forces = make(map[string]int)
	if sh.Out.Restart != nil {
		sh.Out.Restart()
	}
	sh.Out.emit(OutStdout, "reset complete")
	return nil
}

func cmdRun(sh *Shell, args []string) error {
	if len(args) != 1 {
		sh.Diags.Errorf("run: expected one duration argument")
		return nil
	}
	dur, err := parseDurationFs(args[0])
	if err != nil {
		sh.Diags.Errorf("run: %v", err)
		return nil
	}
	if sh.Out.Start != nil {
		sh.Out.Start()
	}
	if err := sh.Design.Engine.RunFor(dur); err != nil {
		sh.reportTrap(err)
		return nil
	}
	sh.notifyStep()
	return nil
}

func cmdContinue(sh *Shell, _ []string) error {
	// "continue" takes no duration: it runs a fixed window of one second
	// of simulated time (10^15 fs). As with `run`, time ends at the end of
	// the window even when the event queue empties earlier.
	if err := sh.Design.Engine.RunFor(kernel.FsPerNs * 1_000_000_000); err != nil {
		sh.reportTrap(err)
		return nil
	}
	sh.notifyStep()
	return nil
}

func (sh *Shell) notifyStep() {
	if sh.Out.NextStep != nil {
		sh.Out.NextStep(sh.Design.Engine.Now())
	}
}

func (sh *Shell) reportTrap(err error) {
	sh.Diags.Emit(diag.SeverityFatal, diag.KindRuntimeTrap, objstore.Loc{}, false, "%v (at %d fs)", err, sh.Design.Engine.Now())
	last := sh.Diags.Diagnostics()[len(sh.Diags.Diagnostics())-1]
	sh.Out.emit(OutStderr, sh.Render.RenderDiagnostic(last))
}

func cmdExamine(sh *Shell, args []string) error {
	if len(args) == 0 {
		sh.Out.emit(OutStdout, sh.Render.RenderSignalTable(sortedSignals(sh.Design.Signals)))
		return nil
	}
	var rows []*kernel.Signal
	for _, name := range args {
		sig, ok := sh.Design.Signals[name]
		if !ok {
			sh.Diags.Errorf("examine: no signal named %q", name)
			continue
		}
		rows = append(rows, sig)
	}
	sh.Out.emit(OutStdout, sh.Render.RenderSignalTable(rows))
	return nil
}

func cmdForce(sh *Shell, args []string) error {
	if len(args) != 2 {
		sh.Diags.Errorf("force: expected <signal> <value>")
		return nil
	}
	name, valStr := args[0], args[1]
	sig, ok := sh.Design.Signals[name]
	if !ok {
		sh.Diags.Errorf("force: no signal named %q", name)
		return nil
	}
	val, err := strconv.ParseInt(valStr, 10, 64)
	if err != nil {
		sh.Diags.Errorf("force: %v", err)
		return nil
	}
	id, exists := sh.Forces[name]
	if !exists {
		id = sig.NewDriverID(kernel.PriorityForce)
		sh.Forces[name] = id
	}
	buf := make([]byte, sig.Size)
	for i := 0; i < len(buf) && i < 8; i++ {
		buf[i] = byte(val >> (8 * i))
	}
	sh.Design.Engine.ScheduleDriverUpdate(sig, id, buf, 0)
	if sh.Out.SignalUpdate != nil {
		sh.Out.SignalUpdate(sig)
	}
	return nil
}

func cmdRelease(sh *Shell, args []string) error {
	if len(args) != 1 {
		sh.Diags.Errorf("release: expected <signal>")
		return nil
	}
	name := args[0]
	sig, ok := sh.Design.Signals[name]
	if !ok {
		sh.Diags.Errorf("release: no signal named %q", name)
		return nil
	}
	id, exists := sh.Forces[name]
	if !exists {
		sh.Diags.Errorf("release: %q is not forced", name)
		return nil
	}
	sig.Release(id)
	delete(sh.Forces, name)
	return nil
}

func cmdWatch(sh *Shell, args []string) error {
	if len(args) != 1 {
		sh.Diags.Errorf("watch: expected <signal>")
		return nil
	}
	name := args[0]
	sig, ok := sh.Design.Signals[name]
	if !ok {
		sh.Diags.Errorf("watch: no signal named %q", name)
		return nil
	}
	sig.Watch(func(s *kernel.Signal) {
		if sh.Out.SignalUpdate != nil {
			sh.Out.SignalUpdate(s)
		}
		sh.Out.emit(OutStdout, fmt.Sprintf("%s -> %v at %d fs", s.Name, s.Current(), sh.Design.Engine.Now()))
	})
	return nil
}

func cmdQuit(sh *Shell, _ []string) error {
	return ErrQuit
}

func sortedSignals(m map[string]*kernel.Signal) []*kernel.Signal {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*kernel.Signal, len(names))
	for i, n := range names {
		out[i] = m[n]
	}
	return out
}

func parseDurationFs(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected an integer femtosecond count, got %q", s)
	}
	return n, nil
}

// Renderer formats shell output. TableRenderer is the default, rendering
// via go-pretty/v6; a transport may supply its own (e.g. a JSON
// renderer for a WebSocket surface) without Shell's command handlers
// changing.
type Renderer interface {
	RenderSignalTable(sigs []*kernel.Signal) string
	RenderDiagnostic(d diag.Diagnostic) string
}

// TableRenderer renders `examine`-style output as an aligned go-pretty
// table, the way core/util.go's PrintState renders register/buffer
// tables, and diagnostics via diag.FullRenderer.
type TableRenderer struct{}

func (TableRenderer) RenderSignalTable(sigs []*kernel.Signal) string {
	t := table.NewWriter()
	t.SetTitle("Signals")
	t.AppendHeader(table.Row{"Name", "Scope", "Value"})
	for _, s := range sigs {
		t.AppendRow(table.Row{s.Name, s.Scope, fmt.Sprintf("%v", s.Current())})
	}
	return t.Render()
}

func (TableRenderer) RenderDiagnostic(d diag.Diagnostic) string {
	return diag.FullRenderer{}.Render(d)
}
