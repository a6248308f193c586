// Package diag implements the error taxonomy and diagnostic collector of
// spec §7: libraries and the object store never log, they surface errors
// to the caller, and the elaborator/kernel accumulate diagnostics with
// optional hint chains that flush on the next emitted error. Grounded on
// the teacher's error-value discipline (core/port.go's *sim.SendError is
// a returned, typed error rather than a panic or log line) generalized
// from a single error type to a severity/hint taxonomy.
package diag

import (
	"fmt"
	"strings"

	"github.com/nvc-project/nvc-core/objstore"
)

// Severity classifies a Diagnostic for rendering and exit-code purposes.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "?"
	}
}

// Kind names the error taxonomy of spec §7 (kinds, not names).
type Kind int

const (
	KindUserSource Kind = iota
	KindSchema
	KindStaleUnit
	KindRuntimeTrap
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindUserSource:
		return "UserSource"
	case KindSchema:
		return "Schema"
	case KindStaleUnit:
		return "StaleUnit"
	case KindRuntimeTrap:
		return "RuntimeTrap"
	case KindIO:
		return "IO"
	default:
		return "?"
	}
}

// Hint is a supplementary note attached to the next emitted error, per
// spec §7 "hints are queued and flushed on the next emitted error."
type Hint struct {
	Loc     objstore.Loc
	Message string
}

// Diagnostic is one error-carrying unit: severity, an optional source
// location, a primary message, and zero or more hints (spec §7
// "User-visible behavior").
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Loc      objstore.Loc
	HasLoc   bool
	Message  string
	Hints    []Hint
}

// Error implements the error interface so a Diagnostic can be returned
// and wrapped like any other Go error.
func (d *Diagnostic) Error() string {
	return d.Message
}

// Collector accumulates diagnostics across a single `analyse`/`elaborate`
// command invocation (spec §7 "non-fatal until analyse/elaborate
// returns; accumulates an error count"). It is not safe for concurrent
// use: the elaborator and parser are single-threaded (spec §5).
type Collector struct {
	diags        []Diagnostic
	pendingHints []Hint
	errors       int
	fatal        int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Hint queues a hint to be attached to the next diagnostic Emit call
// records, then cleared. A hint that is never followed by an Emit before
// the Collector is discarded is simply dropped, matching "flushed on the
// next emitted error" (there being no next error to flush to).
func (c *Collector) Hint(loc objstore.Loc, format string, args ...any) {
	c.pendingHints = append(c.pendingHints, Hint{Loc: loc, Message: fmt.Sprintf(format, args...)})
}

// Emit records a diagnostic at sev/kind, attaching and clearing any
// queued hints, and updates the accumulated error count used by the
// driver's exit-code decision (spec §7 "Propagation policy").
func (c *Collector) Emit(sev Severity, kind Kind, loc objstore.Loc, hasLoc bool, format string, args ...any) *Diagnostic {
	d := Diagnostic{
		Severity: sev,
		Kind:     kind,
		Loc:      loc,
		HasLoc:   hasLoc,
		Message:  fmt.Sprintf(format, args...),
		Hints:    c.pendingHints,
	}
	c.pendingHints = nil
	c.diags = append(c.diags, d)
	if sev == SeverityFatal {
		c.fatal++
	} else if sev == SeverityError {
		c.errors++
	}
	return &c.diags[len(c.diags)-1]
}

// Errorf is shorthand for Emit(SeverityError, KindUserSource, ...) without
// a source location.
func (c *Collector) Errorf(format string, args ...any) *Diagnostic {
	return c.Emit(SeverityError, KindUserSource, objstore.Loc{}, false, format, args...)
}

// ErrorAt is shorthand for Emit(SeverityError, KindUserSource, ...) with a
// source location.
func (c *Collector) ErrorAt(loc objstore.Loc, format string, args ...any) *Diagnostic {
	return c.Emit(SeverityError, KindUserSource, loc, true, format, args...)
}

// Diagnostics returns every diagnostic recorded so far, in emission order.
func (c *Collector) Diagnostics() []Diagnostic { return c.diags }

// ErrorCount returns the number of Severity >= SeverityError diagnostics
// recorded, the figure the driver uses to decide whether to exit 1 (spec
// §6 exit codes, §7 "the driver decides... based on the accumulated error
// count").
func (c *Collector) ErrorCount() int { return c.errors + c.fatal }

// OK reports whether no error-or-worse diagnostic has been recorded.
func (c *Collector) OK() bool { return c.ErrorCount() == 0 }

// Renderer formats Diagnostics for a particular output surface (the
// terminal, a WebSocket transport's text frames, ...). It is a
// collaborator per spec §7 "the renderer is a collaborator": this
// package ships plain-text implementations (CompactRenderer,
// FullRenderer) and callers may supply their own.
type Renderer interface {
	Render(d Diagnostic) string
}

// CompactRenderer renders a Diagnostic as a single line: severity,
// location if present, and the primary message. Hints are omitted, per
// spec §7 "Compact and full rendering modes."
type CompactRenderer struct{}

func (CompactRenderer) Render(d Diagnostic) string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	if d.HasLoc {
		fmt.Fprintf(&b, "%s:%d:%d: ", d.Loc.File, d.Loc.Line, d.Loc.Col)
	}
	b.WriteString(d.Message)
	return b.String()
}

// FullRenderer renders a Diagnostic with every queued hint on its own
// indented line beneath the primary message, per spec §7 "Compact and
// full rendering modes."
type FullRenderer struct{}

func (FullRenderer) Render(d Diagnostic) string {
	var b strings.Builder
	b.WriteString(CompactRenderer{}.Render(d))
	for _, h := range d.Hints {
		b.WriteString("\n    hint: ")
		if h.Loc.File.Valid() {
			fmt.Fprintf(&b, "%s:%d:%d: ", h.Loc.File, h.Loc.Line, h.Loc.Col)
		}
		b.WriteString(h.Message)
	}
	return b.String()
}
