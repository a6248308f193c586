package jit

// Backend runs a Unit's Frame to its next suspension point. Interpreter is
// the only backend that ships; NativeStub is the seam a future
// machine-code generator would fill, mirroring the teacher's OpMode
// distinction between a SyncOp executed directly and an AsyncOp handed
// off to a pipeline.
type Backend interface {
	Step(f *Frame) (Status, error)
}

var _ Backend = (*Interpreter)(nil)

// NativeStub is a Backend that always defers to an Interpreter. It exists
// so callers can select a backend by value (spec §4.7's "two backends")
// without the rest of the system caring which one is wired in; a real
// native compiler would replace the body of Step with a call into
// generated machine code for units it recognizes, falling back to Fallback
// for anything it hasn't compiled yet.
type NativeStub struct {
	Fallback *Interpreter
}

// NewNativeStub returns a NativeStub that delegates every unit to fallback.
func NewNativeStub(fallback *Interpreter) *NativeStub {
	if fallback == nil {
		fallback = &Interpreter{}
	}
	return &NativeStub{Fallback: fallback}
}

// Step always delegates to the interpreter: no native code generator is
// implemented, so every unit takes this path.
func (n *NativeStub) Step(f *Frame) (Status, error) {
	return n.Fallback.Step(f)
}

var _ Backend = (*NativeStub)(nil)
