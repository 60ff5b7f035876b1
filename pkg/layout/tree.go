package layout

import (
	"sort"
	"strings"

	"github.com/matzehuels/drawforge/pkg/errors"
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

// placeTree levels the graph by edge depth and places each level as a row.
// Merge points sit below their deepest parent; a cycle makes leveling
// undefined and is an error.
func (r *Result) placeTree(d spec.Diagram, nodes []sized, cfg *theme.Config) error {
	levels, err := levelNodes(d)
	if err != nil {
		return err
	}

	maxLevel := 0
	for _, l := range levels {
		maxLevel = max(maxLevel, l)
	}
	byLevel := make([][]sized, maxLevel+1)
	for _, n := range nodes {
		l := levels[n.node.ID]
		byLevel[l] = append(byLevel[l], n)
	}

	parents := make(map[string][]string, len(d.Nodes))
	for _, e := range d.Edges {
		parents[e.To] = append(parents[e.To], e.From)
	}

	y := r.ContentTop
	for _, row := range byLevel {
		r.placeLevel(row, parents, y, cfg)
		y += rowHeight(row) + float64(cfg.Spacing.MinEdgeGap)
	}
	return nil
}

// placeLevel positions one level. Every node wants to sit under the mean
// x-center of its parents (page center if it has none); nodes sharing a
// desired center form a cluster laid out left to right around that point.
// Clusters are processed left to right and shifted right as needed so
// neighbors keep the sibling gap.
func (r *Result) placeLevel(row []sized, parents map[string][]string, y float64, cfg *theme.Config) {
	gap := float64(cfg.Spacing.HGap)
	levelH := rowHeight(row)

	type want struct {
		sized
		at float64
	}
	wants := make([]want, len(row))
	for i, n := range row {
		wants[i] = want{sized: n, at: r.desiredCenter(parents[n.node.ID], cfg)}
	}
	sort.SliceStable(wants, func(i, j int) bool { return wants[i].at < wants[j].at })

	prevRight := 0.0
	placedAny := false
	for i := 0; i < len(wants); {
		j := i
		for j < len(wants) && wants[j].at == wants[i].at {
			j++
		}
		cluster := wants[i:j]

		width := 0.0
		for k, n := range cluster {
			if k > 0 {
				width += gap
			}
			width += n.w
		}
		x := cluster[0].at - width/2
		if placedAny && x < prevRight+gap {
			x = prevRight + gap
		}
		for _, n := range cluster {
			r.NodeBoxes[n.node.ID] = Box{X: x, Y: y + (levelH-n.h)/2, W: n.w, H: n.h}
			x += n.w + gap
		}
		prevRight = x - gap
		placedAny = true
		i = j
	}
}

// desiredCenter is the mean x-center of the already placed parents, or the
// page center when the node has none.
func (r *Result) desiredCenter(parentIDs []string, cfg *theme.Config) float64 {
	sum, count := 0.0, 0
	for _, p := range parentIDs {
		if b, ok := r.NodeBoxes[p]; ok {
			sum += b.CenterX()
			count++
		}
	}
	if count == 0 {
		return float64(cfg.Page.Width) / 2
	}
	return sum / float64(count)
}

// levelNodes assigns each node its edge depth: 0 for roots, otherwise one
// below its deepest parent. Returns a cycle error naming the nodes on the
// cycle when no consistent leveling exists.
func levelNodes(d spec.Diagram) (map[string]int, error) {
	children := make(map[string][]string, len(d.Nodes))
	indeg := make(map[string]int, len(d.Nodes))
	for _, n := range d.Nodes {
		indeg[n.ID] = 0
	}
	for _, e := range d.Edges {
		children[e.From] = append(children[e.From], e.To)
		indeg[e.To]++
	}

	levels := make(map[string]int, len(d.Nodes))
	queue := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if indeg[n.ID] == 0 {
			queue = append(queue, n.ID)
			levels[n.ID] = 0
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, c := range children[id] {
			levels[c] = max(levels[c], levels[id]+1)
			indeg[c]--
			if indeg[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if visited < len(d.Nodes) {
		return nil, errors.New(errors.ErrCodeGraphCycle,
			"edges form a cycle through %s; leveled layouts need an acyclic graph",
			strings.Join(findCycle(d, children), " -> "))
	}
	return levels, nil
}

// findCycle returns the node ids on one cycle, in traversal order. Called
// only after leveling failed, so a cycle is known to exist.
func findCycle(d spec.Diagram, children map[string][]string) []string {
	const (
		unseen = iota
		active
		done
	)
	state := make(map[string]int, len(d.Nodes))
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = active
		stack = append(stack, id)
		for _, c := range children[id] {
			switch state[c] {
			case active:
				for i, s := range stack {
					if s == c {
						cycle = append(cycle, stack[i:]...)
						return true
					}
				}
			case unseen:
				if visit(c) {
					return true
				}
			}
		}
		state[id] = done
		stack = stack[:len(stack)-1]
		return false
	}

	for _, n := range d.Nodes {
		if state[n.ID] == unseen && visit(n.ID) {
			break
		}
	}
	return cycle
}
