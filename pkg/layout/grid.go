package layout

import (
	"math"

	"github.com/matzehuels/drawforge/pkg/theme"
)

const defaultGridColumns = 3

// Target page proportions for the flow layout's width budget.
const flowAspectW, flowAspectH = 16.0, 9.0

// placeGrid fills fixed-width column cells across the content span, row by
// row in input order. Each node is centered inside its cell; each row is
// vertically centered on its tallest member.
func (r *Result) placeGrid(nodes []sized, columns int, cfg *theme.Config) {
	if columns <= 0 {
		columns = defaultGridColumns
	}
	cellW := float64(cfg.Page.ContentWidth()) / float64(columns)
	left := float64(cfg.Page.ContentLeft)

	y := r.ContentTop
	for i := 0; i < len(nodes); i += columns {
		row := nodes[i:min(i+columns, len(nodes))]
		h := rowHeight(row)
		for c, n := range row {
			cx := left + cellW*float64(c) + cellW/2
			r.NodeBoxes[n.node.ID] = Box{X: cx - n.w/2, Y: y + (h-n.h)/2, W: n.w, H: n.h}
		}
		y += h + float64(cfg.Spacing.MinEdgeGap)
	}
}

// placeFlow packs nodes into rows greedily against a width budget chosen so
// the resulting block approaches the target aspect ratio. A positive column
// override wraps on a fixed node count instead.
func (r *Result) placeFlow(nodes []sized, columns int, cfg *theme.Config) {
	gap := float64(cfg.Spacing.HGap)
	centerX := float64(cfg.Page.Width) / 2
	left := float64(cfg.Page.ContentLeft)
	y := r.ContentTop

	flush := func(row []sized) {
		if len(row) == 0 {
			return
		}
		h := r.placeRow(row, centerX, y, gap, left)
		y += h + float64(cfg.Spacing.MinEdgeGap)
	}

	if columns > 0 {
		for i := 0; i < len(nodes); i += columns {
			flush(nodes[i:min(i+columns, len(nodes))])
		}
		return
	}

	budget := flowBudget(nodes, cfg)
	var row []sized
	width := 0.0
	for _, n := range nodes {
		next := width + n.w
		if len(row) > 0 {
			next += gap
		}
		if len(row) > 0 && next > budget {
			flush(row)
			row, width = nil, 0
			next = n.w
		}
		row = append(row, n)
		width = next
	}
	flush(row)
}

// flowBudget derives the row width that wraps the nodes into a block close
// to the target aspect ratio, clamped to the usable content span.
func flowBudget(nodes []sized, cfg *theme.Config) float64 {
	if len(nodes) == 0 {
		return float64(cfg.Page.ContentWidth())
	}

	gap := float64(cfg.Spacing.HGap)
	total, sumH, maxW := 0.0, 0.0, 0.0
	for _, n := range nodes {
		total += n.w + gap
		sumH += n.h
		maxW = max(maxW, n.w)
	}
	rowH := sumH/float64(len(nodes)) + float64(cfg.Spacing.MinEdgeGap)

	// Rows of width W stack to height total*rowH/W; solving W/H = target
	// aspect for W gives the budget.
	budget := math.Sqrt(flowAspectW / flowAspectH * total * rowH)
	budget = min(budget, float64(cfg.Page.ContentWidth()))
	return max(budget, maxW)
}
