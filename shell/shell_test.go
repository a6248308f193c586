package shell_test

import (
	"strings"
	"testing"

	"github.com/nvc-project/nvc-core/elab"
	"github.com/nvc-project/nvc-core/kernel"
	"github.com/nvc-project/nvc-core/shell"
)

func newTestDesign() *elab.Design {
	engine := kernel.NewEngine()
	sig := kernel.NewSignal("CLK", "TOP", 1, nil)
	engine.AddSignal(sig)
	return &elab.Design{
		Engine:  engine,
		TopName: "TOP",
		Signals: map[string]*kernel.Signal{"CLK": sig},
	}
}

func TestForceAndReleaseRoundTrip(t *testing.T) {
	design := newTestDesign()
	sh := shell.New(design, shell.OutputHandlers{})

	if err := sh.Dispatch("force", []string{"CLK", "1"}); err != nil {
		t.Fatalf("force: %v", err)
	}
	if err := design.Engine.RunFor(1); err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if got := design.Signals["CLK"].Current()[0]; got != 1 {
		t.Fatalf("CLK after force = %d, want 1", got)
	}

	if err := sh.Dispatch("release", []string{"CLK"}); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, exists := sh.Forces["CLK"]; exists {
		t.Fatalf("release should clear the force driver bookkeeping")
	}
}

func TestReleaseWithoutForceIsADiagnostic(t *testing.T) {
	design := newTestDesign()
	sh := shell.New(design, shell.OutputHandlers{})

	if err := sh.Dispatch("release", []string{"CLK"}); err != nil {
		t.Fatalf("release: %v", err)
	}
	if sh.Diags.OK() {
		t.Fatalf("releasing an unforced signal should record a diagnostic")
	}
}

func TestQuitPropagatesSentinel(t *testing.T) {
	design := newTestDesign()
	sh := shell.New(design, shell.OutputHandlers{})

	if err := sh.Dispatch("quit", nil); err != shell.ErrQuit {
		t.Fatalf("quit: err = %v, want shell.ErrQuit", err)
	}
}

func TestExamineRendersATable(t *testing.T) {
	design := newTestDesign()
	var out string
	sh := shell.New(design, shell.OutputHandlers{
		Stdout: func(text string) { out = text },
	})

	if err := sh.Dispatch("examine", nil); err != nil {
		t.Fatalf("examine: %v", err)
	}
	if !strings.Contains(out, "CLK") {
		t.Fatalf("examine output missing signal name: %q", out)
	}
}

func TestUnknownCommandIsADiagnosticNotAnError(t *testing.T) {
	design := newTestDesign()
	sh := shell.New(design, shell.OutputHandlers{})

	if err := sh.Dispatch("frobnicate", nil); err != nil {
		t.Fatalf("Dispatch returned an error for an unknown command: %v", err)
	}
	if sh.Diags.OK() {
		t.Fatalf("unknown command should record a diagnostic")
	}
}
