package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/drawforge/pkg/spec"
)

func TestToDOT(t *testing.T) {
	d := spec.Diagram{
		Title: "Checkout",
		Nodes: []spec.Node{
			{ID: "start", Label: "Start", Type: spec.TypeStart},
			{ID: "check", Label: "Valid?", Type: spec.TypeDecision},
			{ID: "db", Label: "Orders", Type: spec.TypeCylinder, Detail: "postgres"},
		},
		Edges: []spec.Edge{
			{From: "start", To: "check", Style: spec.EdgeSolid},
			{From: "check", To: "db", Style: spec.EdgeDashed, Label: "yes"},
		},
	}

	dot := ToDOT(d)

	for _, want := range []string{
		"digraph diagram {",
		"rankdir=TB",
		`label="Checkout"`,
		`"start" [label="Start", shape=ellipse];`,
		`"check" [label="Valid?", shape=diamond];`,
		"Orders\\npostgres",
		"shape=cylinder",
		`"start" -> "check";`,
		`"check" -> "db" [label="yes", style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDeterministic(t *testing.T) {
	d := spec.Diagram{
		Nodes: []spec.Node{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
		Edges: []spec.Edge{{From: "a", To: "b"}},
	}
	if ToDOT(d) != ToDOT(d) {
		t.Error("same diagram produced different DOT source")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8.5in" height="11in" viewBox="0.00 0.00 612.00 792.00">ok</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 612.00 792.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="612"`) {
		t.Errorf("pixel width missing: %s", out)
	}
}
