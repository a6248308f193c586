package diag_test

import (
	"strings"
	"testing"

	"github.com/nvc-project/nvc-core/diag"
	"github.com/nvc-project/nvc-core/objstore"
)

func TestCollectorAccumulatesErrorCount(t *testing.T) {
	c := diag.NewCollector()
	if !c.OK() {
		t.Fatalf("fresh collector should be OK")
	}
	c.Errorf("first error")
	c.Emit(diag.SeverityWarning, diag.KindUserSource, objstore.Loc{}, false, "a warning")
	c.Emit(diag.SeverityFatal, diag.KindRuntimeTrap, objstore.Loc{}, false, "fatal trap")

	if c.OK() {
		t.Fatalf("collector with errors should not be OK")
	}
	if got := c.ErrorCount(); got != 2 {
		t.Fatalf("ErrorCount() = %d, want 2 (1 error + 1 fatal, warning excluded)", got)
	}
}

func TestHintsFlushOnNextEmit(t *testing.T) {
	c := diag.NewCollector()
	c.Hint(objstore.Loc{}, "declared here")
	d := c.Errorf("undefined identifier FOO")

	if len(d.Hints) != 1 {
		t.Fatalf("len(Hints) = %d, want 1", len(d.Hints))
	}
	if d.Hints[0].Message != "declared here" {
		t.Fatalf("Hints[0].Message = %q, want %q", d.Hints[0].Message, "declared here")
	}

	// A second Emit with no intervening Hint call should carry no hints:
	// the queue was drained by the first Emit.
	d2 := c.Errorf("second error")
	if len(d2.Hints) != 0 {
		t.Fatalf("len(d2.Hints) = %d, want 0", len(d2.Hints))
	}
}

func TestFullRendererIncludesHints(t *testing.T) {
	c := diag.NewCollector()
	c.Hint(objstore.Loc{}, "see declaration")
	d := c.Errorf("type mismatch")

	rendered := diag.FullRenderer{}.Render(*d)
	if !strings.Contains(rendered, "type mismatch") {
		t.Fatalf("rendered diagnostic missing primary message: %q", rendered)
	}
	if !strings.Contains(rendered, "see declaration") {
		t.Fatalf("rendered diagnostic missing hint: %q", rendered)
	}
}

func TestCompactRendererOmitsHints(t *testing.T) {
	c := diag.NewCollector()
	c.Hint(objstore.Loc{}, "should not appear")
	d := c.Errorf("boom")

	rendered := diag.CompactRenderer{}.Render(*d)
	if strings.Contains(rendered, "should not appear") {
		t.Fatalf("compact rendering should omit hints: %q", rendered)
	}
}
