package layout

import "github.com/matzehuels/drawforge/pkg/theme"

// rowWidth returns the total width of nodes laid side by side with gap.
func rowWidth(row []sized, gap float64) float64 {
	w := 0.0
	for i, n := range row {
		if i > 0 {
			w += gap
		}
		w += n.w
	}
	return w
}

// rowHeight returns the tallest node in the row.
func rowHeight(row []sized) float64 {
	h := 0.0
	for _, n := range row {
		h = max(h, n.h)
	}
	return h
}

// placeRow lays the nodes side by side centered on centerX, top edge at y,
// each vertically centered against the row's tallest node. A row wider than
// the centering allows starts at minX instead of running past the left page
// edge; the page then grows rightward. Returns the row height.
func (r *Result) placeRow(row []sized, centerX, y, gap, minX float64) float64 {
	h := rowHeight(row)
	x := max(centerX-rowWidth(row, gap)/2, minX)
	for _, n := range row {
		r.NodeBoxes[n.node.ID] = Box{X: x, Y: y + (h-n.h)/2, W: n.w, H: n.h}
		x += n.w + gap
	}
	return h
}

// placeLinear stacks all nodes vertically, centered on the page axis.
func (r *Result) placeLinear(nodes []sized, cfg *theme.Config) {
	centerX := float64(cfg.Page.Width) / 2
	left := float64(cfg.Page.ContentLeft)
	y := r.ContentTop
	for _, n := range nodes {
		r.NodeBoxes[n.node.ID] = Box{X: max(centerX-n.w/2, left), Y: y, W: n.w, H: n.h}
		y += n.h + float64(cfg.Spacing.MinEdgeGap)
	}
}

// placeHorizontal lays all nodes in a single centered row.
func (r *Result) placeHorizontal(nodes []sized, cfg *theme.Config) {
	r.placeRow(nodes, float64(cfg.Page.Width)/2, r.ContentTop,
		float64(cfg.Spacing.HGap), float64(cfg.Page.ContentLeft))
}
