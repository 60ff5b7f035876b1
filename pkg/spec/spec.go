// Package spec defines the diagram description consumed by the engine.
//
// A description arrives as JSON and is decoded into a Diagram. Decoding is a
// two-step gate: a structural JSON Schema check (field shapes) followed by
// semantic validation (referential integrity, closed enumerations, layout
// consistency). Anything that passes both is safe to hand to the layout
// resolver; nothing downstream re-checks these invariants.
//
// The Diagram is immutable after validation: layout and style resolution
// only derive new data from it, they never write back.
package spec

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Theme selects the palette half used for style resolution.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// LayoutKind selects the placement algorithm.
type LayoutKind string

// Supported layout kinds.
const (
	LayoutLinear       LayoutKind = "linear"       // single vertical stack
	LayoutHorizontal   LayoutKind = "horizontal"   // single horizontal row
	LayoutBranching    LayoutKind = "branching"    // BFS-leveled tree
	LayoutHierarchical LayoutKind = "hierarchical" // alias for the tree engine
	LayoutGrid         LayoutKind = "grid"         // fixed column count
	LayoutSwimlane     LayoutKind = "swimlane"     // horizontal lanes
	LayoutRows         LayoutKind = "rows"         // explicit row keys
	LayoutFlow         LayoutKind = "flow"         // wrapping row packing
	LayoutPipeline     LayoutKind = "pipeline"     // ordered steps with stacks
)

// NodeType is the closed set of node shapes.
type NodeType string

// Supported node types.
const (
	TypeStart     NodeType = "start"
	TypeEnd       NodeType = "end"
	TypeProcess   NodeType = "process"
	TypeDecision  NodeType = "decision"
	TypeNote      NodeType = "note"
	TypeSuccess   NodeType = "success"
	TypeDarkPanel NodeType = "dark_panel"
	TypeCylinder  NodeType = "cylinder"
	TypeCloud     NodeType = "cloud"
	TypeActor     NodeType = "actor"
	TypeIcon      NodeType = "icon"
)

// Variant is a semantic color modifier applied to a node type.
type Variant string

// Supported variants.
const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
	VariantAccent    Variant = "accent"
	VariantWarning   Variant = "warning"
	VariantDanger    Variant = "danger"
	VariantNeutral   Variant = "neutral"
)

// EdgeStyle is the closed set of connector styles.
type EdgeStyle string

// Supported edge styles.
const (
	EdgeSolid         EdgeStyle = "solid"
	EdgeCurved        EdgeStyle = "curved"
	EdgeDashed        EdgeStyle = "dashed"
	EdgeDotted        EdgeStyle = "dotted"
	EdgeBidirectional EdgeStyle = "bidirectional"
)

// RowKey is an explicit row assignment for the rows layout. JSON inputs may
// give it as a string or a number; both decode to the string form.
type RowKey string

// UnmarshalJSON accepts both `"1"` and `1` for row keys.
func (r *RowKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RowKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*r = RowKey(n.String())
		return nil
	}
	return fmt.Errorf("row must be a string or number, got %s", string(data))
}

// Numeric reports whether the key parses as a number, and its value.
// Numeric keys order rows numerically; everything else keeps first-seen order.
func (r RowKey) Numeric() (float64, bool) {
	f, err := strconv.ParseFloat(string(r), 64)
	return f, err == nil
}

// Node is one diagram element. Identity fields are set by the input and
// never mutated; geometry and styles are derived elsewhere.
type Node struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Type    NodeType `json:"type,omitempty"`
	Variant Variant  `json:"variant,omitempty"`
	Detail  string   `json:"detail,omitempty"`  // subtext rendered under the label
	Icon    string   `json:"icon,omitempty"`    // path reference for icon nodes
	Row     RowKey   `json:"row,omitempty"`     // rows layout only
	Lane    string   `json:"lane,omitempty"`    // swimlane layout only
}

// Edge is a directed connection between two declared nodes.
type Edge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Style EdgeStyle `json:"style,omitempty"`
	Color string    `json:"color,omitempty"` // semantic color name from the palette
	Label string    `json:"label,omitempty"`
}

// Group is a labeled container drawn around its member nodes.
type Group struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Members []string `json:"members"`
	Color   string   `json:"color,omitempty"` // hex stroke override
}

// Lane is a named horizontal band in the swimlane layout.
type Lane struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// Step is one horizontal position in the pipeline layout: a single node or a
// vertical stack of nodes. JSON inputs give either a string or a string list.
type Step []string

// UnmarshalJSON accepts `"id"` or `["id1", "id2"]`.
func (s *Step) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = Step{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = Step(many)
		return nil
	}
	return fmt.Errorf("pipeline step must be a node id or a list of node ids, got %s", string(data))
}

// Diagram is the complete input description. It is constructed once from a
// fully specified input and consumed exactly once by serialization.
type Diagram struct {
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	Theme    Theme      `json:"theme,omitempty"`
	Layout   LayoutKind `json:"layout,omitempty"`

	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges,omitempty"`
	Groups []Group `json:"groups,omitempty"`
	Lanes  []Lane  `json:"lanes,omitempty"`

	Pipeline []Step `json:"pipeline,omitempty"`

	GridColumns int `json:"grid_columns,omitempty"`
	FlowColumns int `json:"flow_columns,omitempty"`
}

// Decode reads a JSON diagram description, checks it against the structural
// schema, unmarshals it, and applies documented defaults for absent fields
// (theme light, layout linear, node type process). It does not run semantic
// validation; call Validate on the result before layout.
func Decode(r io.Reader) (Diagram, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Diagram{}, err
	}
	return DecodeBytes(raw)
}

// DecodeBytes is Decode for in-memory data.
func DecodeBytes(raw []byte) (Diagram, error) {
	if err := checkStructure(raw); err != nil {
		return Diagram{}, err
	}

	var d Diagram
	if err := json.Unmarshal(raw, &d); err != nil {
		return Diagram{}, err
	}
	d.applyDefaults()
	return d, nil
}

// applyDefaults fills absent optional fields. Defaults are distinct from
// coercion: an unknown value is never rewritten, only an empty one.
func (d *Diagram) applyDefaults() {
	if d.Theme == "" {
		d.Theme = ThemeLight
	}
	if d.Layout == "" {
		d.Layout = LayoutLinear
	}
	for i := range d.Nodes {
		if d.Nodes[i].Type == "" {
			d.Nodes[i].Type = TypeProcess
		}
	}
	for i := range d.Edges {
		if d.Edges[i].Style == "" {
			d.Edges[i].Style = EdgeSolid
		}
	}
}

// NodeByID returns the node with the given id, or false.
func (d Diagram) NodeByID(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// LaneByID returns the declared lane with the given id, or false.
func (d Diagram) LaneByID(id string) (Lane, bool) {
	for _, l := range d.Lanes {
		if l.ID == id {
			return l, true
		}
	}
	return Lane{}, false
}

// GroupOf returns the id of the group containing the node, or "".
// A node belongs to at most one group; validation rejects overlaps.
func (d Diagram) GroupOf(nodeID string) string {
	for _, g := range d.Groups {
		for _, m := range g.Members {
			if m == nodeID {
				return g.ID
			}
		}
	}
	return ""
}

// IsTree reports whether the layout uses the BFS-leveled tree engine.
func (d Diagram) IsTree() bool {
	return d.Layout == LayoutBranching || d.Layout == LayoutHierarchical
}
