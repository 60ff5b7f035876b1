package layout

import (
	"sort"

	"github.com/matzehuels/drawforge/pkg/theme"
)

// placeRows groups nodes by explicit row key and lays each row as a
// centered unit. Rows order numerically when every key is numeric,
// otherwise by first appearance; a node without a key gets its own row.
func (r *Result) placeRows(nodes []sized, cfg *theme.Config) {
	type bucket struct {
		key     string
		num     float64
		numeric bool
		members []sized
	}

	var rows []*bucket
	index := make(map[string]*bucket)
	for _, n := range nodes {
		key := string(n.node.Row)
		if key == "" {
			// Keyless nodes stand alone and never merge with each other.
			rows = append(rows, &bucket{members: []sized{n}})
			continue
		}
		b, ok := index[key]
		if !ok {
			b = &bucket{key: key}
			b.num, b.numeric = n.node.Row.Numeric()
			index[key] = b
			rows = append(rows, b)
		}
		b.members = append(b.members, n)
	}

	allNumeric := len(index) > 0
	for _, b := range rows {
		if b.key == "" || !b.numeric {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].num < rows[j].num })
	}

	centerX := float64(cfg.Page.Width) / 2
	left := float64(cfg.Page.ContentLeft)
	y := r.ContentTop
	for _, b := range rows {
		h := r.placeRow(b.members, centerX, y, float64(cfg.Spacing.HGap), left)
		y += h + float64(cfg.Spacing.MinEdgeGap)
	}
}
