package layout

import (
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

// placePipeline lays ordered steps left to right. A step with several nodes
// becomes a vertical stack; every step is centered on the tallest step's
// vertical midline, and the whole sequence is centered on the page. Nodes
// the ordering does not mention become trailing singleton steps in input
// order, so every node gets a position.
func (r *Result) placePipeline(d spec.Diagram, nodes []sized, cfg *theme.Config) {
	byID := make(map[string]sized, len(nodes))
	for _, n := range nodes {
		byID[n.node.ID] = n
	}

	covered := make(map[string]bool, len(nodes))
	steps := make([]spec.Step, 0, len(d.Pipeline))
	for _, step := range d.Pipeline {
		steps = append(steps, step)
		for _, id := range step {
			covered[id] = true
		}
	}
	for _, n := range nodes {
		if !covered[n.node.ID] {
			steps = append(steps, spec.Step{n.node.ID})
		}
	}

	hGap := float64(cfg.Spacing.HGap)
	vGap := float64(cfg.Spacing.VGap)

	stepW := make([]float64, len(steps))
	stepH := make([]float64, len(steps))
	total, tallest := 0.0, 0.0
	for i, step := range steps {
		if i > 0 {
			total += hGap
		}
		for j, id := range step {
			n := byID[id]
			stepW[i] = max(stepW[i], n.w)
			if j > 0 {
				stepH[i] += vGap
			}
			stepH[i] += n.h
		}
		total += stepW[i]
		tallest = max(tallest, stepH[i])
	}

	x := float64(cfg.Page.Width)/2 - total/2
	midline := r.ContentTop + tallest/2
	for i, step := range steps {
		y := midline - stepH[i]/2
		for _, id := range step {
			n := byID[id]
			r.NodeBoxes[id] = Box{X: x + (stepW[i]-n.w)/2, Y: y, W: n.w, H: n.h}
			y += n.h + vGap
		}
		x += stepW[i] + hGap
	}
}
