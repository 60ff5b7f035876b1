// Package layout computes 2D geometry for a validated diagram.
//
// Each layout kind has its own engine; all of them share the dimension and
// spacing constants from the palette resource and produce page-absolute
// boxes. Placement is fully deterministic: the same diagram and the same
// configuration always yield the same geometry.
//
// Engines place nodes only. Container geometry (group boxes, lane bands) is
// derived afterwards from the member boxes, so containers can never disagree
// with their contents.
package layout

import (
	"github.com/matzehuels/drawforge/pkg/errors"
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

// Vertical space reserved for the title and subtitle lines, and the label
// band added above a group box.
const (
	titleHeight    = 50
	subtitleHeight = 24
	topMargin      = 20
	minContentTop  = 100
	groupLabelBand = 24
	bottomMargin   = 100
)

// Result is the resolved geometry for one diagram. All boxes are in
// page-absolute coordinates; the serializer converts contained nodes to
// container-relative positions.
type Result struct {
	NodeBoxes  map[string]Box // keyed by node id
	GroupBoxes map[string]Box // keyed by group id
	LaneBoxes  map[string]Box // keyed by lane id, swimlane layout only

	TitleBox    Box
	SubtitleBox Box
	ContentTop  float64

	PageWidth  float64
	PageHeight float64
}

// sized pairs a node with its resolved dimensions.
type sized struct {
	node spec.Node
	w, h float64
}

// Compute resolves geometry for a validated diagram. The diagram must have
// passed spec.Validate; Compute does not re-check referential integrity.
func Compute(d spec.Diagram, cfg *theme.Config) (*Result, error) {
	res := &Result{
		NodeBoxes:  make(map[string]Box, len(d.Nodes)),
		GroupBoxes: make(map[string]Box, len(d.Groups)),
		LaneBoxes:  make(map[string]Box, len(d.Lanes)),
		PageWidth:  float64(cfg.Page.Width),
	}
	res.placeTitle(d, cfg)

	nodes, err := measure(d, cfg)
	if err != nil {
		return nil, err
	}

	switch {
	case d.Layout == spec.LayoutLinear:
		res.placeLinear(nodes, cfg)
	case d.Layout == spec.LayoutHorizontal:
		res.placeHorizontal(nodes, cfg)
	case d.IsTree():
		if err := res.placeTree(d, nodes, cfg); err != nil {
			return nil, err
		}
	case d.Layout == spec.LayoutGrid:
		res.placeGrid(nodes, d.GridColumns, cfg)
	case d.Layout == spec.LayoutFlow:
		res.placeFlow(nodes, d.FlowColumns, cfg)
	case d.Layout == spec.LayoutRows:
		res.placeRows(nodes, cfg)
	case d.Layout == spec.LayoutSwimlane:
		res.placeSwimlanes(d, nodes, cfg)
	case d.Layout == spec.LayoutPipeline:
		res.placePipeline(d, nodes, cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidLayout, "no layout engine for kind %q", d.Layout)
	}

	res.placeGroups(d, cfg)
	res.fitPage(cfg)
	return res, nil
}

// placeTitle reserves the title block and sets the content start line.
func (r *Result) placeTitle(d spec.Diagram, cfg *theme.Config) {
	w := float64(cfg.Page.ContentWidth())
	x := float64(cfg.Page.ContentLeft)
	y := float64(topMargin)

	area := 0.0
	if d.Title != "" {
		r.TitleBox = Box{X: x, Y: y, W: w, H: titleHeight}
		area += titleHeight
	}
	if d.Subtitle != "" {
		r.SubtitleBox = Box{X: x, Y: y + area, W: w, H: subtitleHeight}
		area += subtitleHeight
	}
	if area > 0 {
		area += float64(cfg.Spacing.TitleBottomMargin)
	}
	r.ContentTop = max(topMargin+area, minContentTop)
}

// measure resolves dimensions for every node, preserving input order.
func measure(d spec.Diagram, cfg *theme.Config) ([]sized, error) {
	out := make([]sized, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		w, h, err := cfg.Dims(n)
		if err != nil {
			return nil, err
		}
		out = append(out, sized{node: n, w: float64(w), h: float64(h)})
	}
	return out, nil
}

// placeGroups draws each group box as the union of its member boxes plus
// padding, with a label band on top.
func (r *Result) placeGroups(d spec.Diagram, cfg *theme.Config) {
	for _, g := range d.Groups {
		var box Box
		first := true
		for _, m := range g.Members {
			nb, ok := r.NodeBoxes[m]
			if !ok {
				continue
			}
			if first {
				box, first = nb, false
			} else {
				box = union(box, nb)
			}
		}
		if first {
			continue
		}
		box = box.expand(float64(cfg.Spacing.GroupPadding))
		box.Y -= groupLabelBand
		box.H += groupLabelBand
		r.GroupBoxes[g.ID] = box
	}
}

// fitPage grows the page to cover all content plus a bottom margin.
func (r *Result) fitPage(cfg *theme.Config) {
	bottom := r.ContentTop
	right := float64(cfg.Page.ContentRight)

	extend := func(b Box) {
		bottom = max(bottom, b.Bottom())
		right = max(right, b.Right())
	}
	for _, b := range r.NodeBoxes {
		extend(b)
	}
	for _, b := range r.GroupBoxes {
		extend(b)
	}
	for _, b := range r.LaneBoxes {
		extend(b)
	}

	r.PageHeight = bottom + bottomMargin
	r.PageWidth = max(r.PageWidth, right+float64(cfg.Page.ContentLeft))
}
