// Package route turns resolved geometry into connector plans.
//
// Routing never moves boxes. It decides, per edge, how the connector leaves
// its source and enters its target: anchor points from the boxes' relative
// positions, curved rendering for fan-outs, and a label background matched
// to whatever surface the label is drawn over.
package route

import (
	"github.com/matzehuels/drawforge/pkg/layout"
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

// EdgePlan is one fully resolved connector: the input edge plus the style
// descriptor the serializer writes verbatim.
type EdgePlan struct {
	Edge   spec.Edge
	Attrs  theme.Attrs
	Curved bool // fan-out override applied
}

// Edges resolves a connector plan for every edge, in input order.
func Edges(d spec.Diagram, geo *layout.Result, cfg *theme.Config) ([]EdgePlan, error) {
	pal, err := cfg.Palette(d.Theme)
	if err != nil {
		return nil, err
	}
	fanned := fanOutEdges(d, geo)

	plans := make([]EdgePlan, 0, len(d.Edges))
	for i, e := range d.Edges {
		resolved := e
		curved := false
		// Orthogonal elbows stack on top of each other when one source
		// fans out to a level of siblings; curves keep them apart.
		if e.Style == spec.EdgeSolid && fanned[i] {
			resolved.Style = spec.EdgeCurved
			curved = true
		}

		attrs, err := cfg.ResolveEdge(resolved, d.Theme)
		if err != nil {
			return nil, err
		}
		attrs = anchor(attrs, geo.NodeBoxes[e.From], geo.NodeBoxes[e.To])
		if e.Label != "" {
			attrs = attrs.Set("labelBackgroundColor", labelSurface(d, pal, e.From, e.To))
		}
		plans = append(plans, EdgePlan{Edge: e, Attrs: attrs, Curved: curved})
	}
	return plans, nil
}

// fanOutEdges marks the edge indexes that belong to a fan-out: a source
// with two or more targets sitting on the same row.
func fanOutEdges(d spec.Diagram, geo *layout.Result) map[int]bool {
	type slot struct {
		from string
		y    float64
	}
	counts := make(map[slot]int)
	for _, e := range d.Edges {
		counts[slot{e.From, geo.NodeBoxes[e.To].Y}]++
	}

	fanned := make(map[int]bool)
	for i, e := range d.Edges {
		if counts[slot{e.From, geo.NodeBoxes[e.To].Y}] >= 2 {
			fanned[i] = true
		}
	}
	return fanned
}

// anchor pins the connector's exit and entry points to the box sides facing
// each other, based on the dominant axis between the two centers.
func anchor(attrs theme.Attrs, from, to layout.Box) theme.Attrs {
	dx := to.CenterX() - from.CenterX()
	dy := to.CenterY() - from.CenterY()

	horizontal := abs(dx) > abs(dy)
	switch {
	case horizontal && dx >= 0:
		attrs = attrs.Set("exitX", "1").Set("exitY", "0.5")
		attrs = attrs.Set("entryX", "0").Set("entryY", "0.5")
	case horizontal:
		attrs = attrs.Set("exitX", "0").Set("exitY", "0.5")
		attrs = attrs.Set("entryX", "1").Set("entryY", "0.5")
	case dy >= 0:
		attrs = attrs.Set("exitX", "0.5").Set("exitY", "1")
		attrs = attrs.Set("entryX", "0.5").Set("entryY", "0")
	default:
		attrs = attrs.Set("exitX", "0.5").Set("exitY", "0")
		attrs = attrs.Set("entryX", "0.5").Set("entryY", "1")
	}
	return attrs
}

// labelSurface picks the fill the edge label is drawn over: the shared
// group, the shared lane, or the page background.
func labelSurface(d spec.Diagram, pal theme.Palette, from, to string) string {
	if g := d.GroupOf(from); g != "" && g == d.GroupOf(to) {
		return pal.GroupFill
	}
	if fn, ok := d.NodeByID(from); ok {
		if tn, ok := d.NodeByID(to); ok && fn.Lane != "" && fn.Lane == tn.Lane {
			if fill, ok := theme.ParseAttrs(pal.Styles["swimlane"]).Get("fillColor"); ok {
				return fill
			}
		}
	}
	return pal.Background
}

// NodeLabelSurface is labelSurface for a single node, used for shapes whose
// label renders on a background plate (icons).
func NodeLabelSurface(d spec.Diagram, pal theme.Palette, nodeID string) string {
	if d.GroupOf(nodeID) != "" {
		return pal.GroupFill
	}
	if n, ok := d.NodeByID(nodeID); ok && n.Lane != "" {
		if fill, ok := theme.ParseAttrs(pal.Styles["swimlane"]).Get("fillColor"); ok {
			return fill
		}
	}
	return pal.Background
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
