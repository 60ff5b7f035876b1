package route

import (
	"testing"

	"github.com/matzehuels/drawforge/pkg/layout"
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

func plan(t *testing.T, d spec.Diagram) []EdgePlan {
	t.Helper()
	cfg, err := theme.Load()
	if err != nil {
		t.Fatalf("theme.Load: %v", err)
	}
	geo, err := layout.Compute(d, cfg)
	if err != nil {
		t.Fatalf("layout.Compute: %v", err)
	}
	plans, err := Edges(d, geo, cfg)
	if err != nil {
		t.Fatalf("Edges: %v", err)
	}
	return plans
}

func branching(n int, edges []spec.Edge) spec.Diagram {
	d := spec.Diagram{Theme: spec.ThemeLight, Layout: spec.LayoutBranching, Edges: edges}
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		d.Nodes = append(d.Nodes, spec.Node{ID: id, Label: id, Type: spec.TypeProcess})
	}
	for i := range d.Edges {
		if d.Edges[i].Style == "" {
			d.Edges[i].Style = spec.EdgeSolid
		}
	}
	return d
}

func TestFanOutCurves(t *testing.T) {
	d := branching(4, []spec.Edge{
		{From: "a", To: "b"},
		{From: "a", To: "c"},
		{From: "c", To: "d"},
	})
	plans := plan(t, d)

	if !plans[0].Curved || !plans[1].Curved {
		t.Error("fan-out edges should be curved")
	}
	if plans[2].Curved {
		t.Error("single-target edge should keep orthogonal routing")
	}
	if _, ok := plans[0].Attrs.Get("curved"); !ok {
		t.Error("curved attribute missing from fan-out descriptor")
	}
	if v, _ := plans[2].Attrs.Get("edgeStyle"); v != "orthogonalEdgeStyle" {
		t.Errorf("straight edge style = %q, want orthogonal", v)
	}
}

func TestExplicitStyleWins(t *testing.T) {
	d := branching(3, []spec.Edge{
		{From: "a", To: "b", Style: spec.EdgeDashed},
		{From: "a", To: "c", Style: spec.EdgeDashed},
	})
	plans := plan(t, d)

	// Fan-out only upgrades the default solid style.
	for i, p := range plans {
		if p.Curved {
			t.Errorf("edge %d: explicit dashed style overridden by fan-out", i)
		}
		if _, ok := p.Attrs.Get("dashed"); !ok {
			t.Errorf("edge %d lost its dashed attribute", i)
		}
	}
}

func TestAnchorsFollowGeometry(t *testing.T) {
	down := branching(2, []spec.Edge{{From: "a", To: "b"}})
	p := plan(t, down)[0]
	if x, _ := p.Attrs.Get("exitY"); x != "1" {
		t.Errorf("downward edge exitY = %q, want 1", x)
	}
	if y, _ := p.Attrs.Get("entryY"); y != "0" {
		t.Errorf("downward edge entryY = %q, want 0", y)
	}

	across := spec.Diagram{Theme: spec.ThemeLight, Layout: spec.LayoutHorizontal,
		Nodes: []spec.Node{
			{ID: "a", Type: spec.TypeProcess},
			{ID: "b", Type: spec.TypeProcess},
		},
		Edges: []spec.Edge{{From: "a", To: "b", Style: spec.EdgeSolid}},
	}
	p = plan(t, across)[0]
	if x, _ := p.Attrs.Get("exitX"); x != "1" {
		t.Errorf("rightward edge exitX = %q, want 1", x)
	}
	if x, _ := p.Attrs.Get("entryX"); x != "0" {
		t.Errorf("rightward edge entryX = %q, want 0", x)
	}
}

func TestLabelBackgroundMatchesSurface(t *testing.T) {
	cfg, err := theme.Load()
	if err != nil {
		t.Fatalf("theme.Load: %v", err)
	}
	pal, err := cfg.Palette(spec.ThemeLight)
	if err != nil {
		t.Fatalf("palette: %v", err)
	}

	d := branching(4, []spec.Edge{
		{From: "a", To: "b", Label: "in group"},
		{From: "c", To: "d", Label: "on page"},
	})
	d.Groups = []spec.Group{{ID: "g", Label: "G", Members: []string{"a", "b"}}}

	plans := plan(t, d)
	if got, _ := plans[0].Attrs.Get("labelBackgroundColor"); got != pal.GroupFill {
		t.Errorf("grouped label background = %q, want group fill %q", got, pal.GroupFill)
	}
	if got, _ := plans[1].Attrs.Get("labelBackgroundColor"); got != pal.Background {
		t.Errorf("page label background = %q, want page background %q", got, pal.Background)
	}
}

func TestNodeLabelSurface(t *testing.T) {
	cfg, err := theme.Load()
	if err != nil {
		t.Fatalf("theme.Load: %v", err)
	}
	pal, err := cfg.Palette(spec.ThemeDark)
	if err != nil {
		t.Fatalf("palette: %v", err)
	}

	d := spec.Diagram{
		Nodes:  []spec.Node{{ID: "a"}, {ID: "b"}},
		Groups: []spec.Group{{ID: "g", Members: []string{"a"}}},
	}
	if got := NodeLabelSurface(d, pal, "a"); got != pal.GroupFill {
		t.Errorf("grouped node surface = %q, want %q", got, pal.GroupFill)
	}
	if got := NodeLabelSurface(d, pal, "b"); got != pal.Background {
		t.Errorf("free node surface = %q, want %q", got, pal.Background)
	}
}
