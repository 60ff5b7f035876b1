package layout

import (
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

// placeSwimlanes draws one full-width band per declared lane, in declared
// order, stacked contiguously. Lane height reserves the header band on top
// of the member area; members sit below it, in first-seen order, left of
// the band offset by the header's lateral label. Nodes without a lane join
// the first declared lane, so every node gets a position.
func (r *Result) placeSwimlanes(d spec.Diagram, nodes []sized, cfg *theme.Config) {
	byLane := make(map[string][]sized, len(d.Lanes))
	for _, n := range nodes {
		lane := n.node.Lane
		if lane == "" {
			lane = d.Lanes[0].ID
		}
		byLane[lane] = append(byLane[lane], n)
	}

	left := float64(cfg.Page.ContentLeft)
	width := float64(cfg.Page.ContentWidth())
	header := float64(cfg.Spacing.SwimlaneHeader)
	padding := float64(cfg.Spacing.SwimlanePadding)
	gap := float64(cfg.Spacing.HGap)

	y := r.ContentTop
	for _, lane := range d.Lanes {
		members := byLane[lane.ID]
		maxH := rowHeight(members)
		laneH := header + maxH + 2*padding
		r.LaneBoxes[lane.ID] = Box{X: left, Y: y, W: width, H: laneH}

		x := left + header + padding
		for _, n := range members {
			r.NodeBoxes[n.node.ID] = Box{X: x, Y: y + header + padding + (maxH-n.h)/2, W: n.w, H: n.h}
			x += n.w + gap
		}
		y += laneH
	}
}
