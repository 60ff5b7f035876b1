package spec

import (
	"fmt"
	"regexp"

	"github.com/matzehuels/drawforge/pkg/errors"
)

// validTypes is the closed node type enumeration.
var validTypes = map[NodeType]bool{
	TypeStart: true, TypeEnd: true, TypeProcess: true, TypeDecision: true,
	TypeNote: true, TypeSuccess: true, TypeDarkPanel: true, TypeCylinder: true,
	TypeCloud: true, TypeActor: true, TypeIcon: true,
}

// validVariants is the closed variant enumeration.
var validVariants = map[Variant]bool{
	VariantPrimary: true, VariantSecondary: true, VariantAccent: true,
	VariantWarning: true, VariantDanger: true, VariantNeutral: true,
}

// validLayouts is the set of supported layout kinds.
var validLayouts = map[LayoutKind]bool{
	LayoutLinear: true, LayoutHorizontal: true, LayoutBranching: true,
	LayoutHierarchical: true, LayoutGrid: true, LayoutSwimlane: true,
	LayoutRows: true, LayoutFlow: true, LayoutPipeline: true,
}

// validThemes is the set of supported themes.
var validThemes = map[Theme]bool{ThemeLight: true, ThemeDark: true}

// reservedIDs are identifiers the serializer claims for document scaffolding.
var reservedIDs = map[string]bool{"0": true, "1": true, "title": true, "subtitle": true}

// edgeIDPattern matches the ids the serializer assigns to edge cells.
var edgeIDPattern = regexp.MustCompile(`^e[0-9]+$`)

// Validate checks the diagram for referential integrity, closed enumerations,
// and layout consistency. It stops at the first failure and reports the
// offending identifier or field; nothing is coerced or silently dropped.
//
// The checks run in a fixed order: id uniqueness, edge endpoints, lane
// references, enumerations, layout kind, then layout-specific field
// consistency. A nil return means the diagram is safe for layout.
func (d Diagram) Validate() error {
	ids := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeSchema, "node with label %q has an empty id", n.Label)
		}
		if err := checkDocumentID(n.ID, "node"); err != nil {
			return err
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}

	for _, e := range d.Edges {
		if !ids[e.From] {
			return errors.New(errors.ErrCodeUnknownNode, "edge source %q is not a declared node", e.From)
		}
		if !ids[e.To] {
			return errors.New(errors.ErrCodeUnknownNode, "edge target %q is not a declared node", e.To)
		}
	}

	laneIDs := make(map[string]bool, len(d.Lanes))
	for _, l := range d.Lanes {
		if l.ID == "" {
			return errors.New(errors.ErrCodeSchema, "lane with label %q has an empty id", l.Label)
		}
		if err := checkDocumentID(l.ID, "lane"); err != nil {
			return err
		}
		if laneIDs[l.ID] || ids[l.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "duplicate lane id %q", l.ID)
		}
		laneIDs[l.ID] = true
	}
	for _, n := range d.Nodes {
		if n.Lane != "" && !laneIDs[n.Lane] {
			return errors.New(errors.ErrCodeUnknownLane, "node %q references undeclared lane %q", n.ID, n.Lane)
		}
	}

	for _, n := range d.Nodes {
		if !validTypes[n.Type] {
			return errors.New(errors.ErrCodeInvalidType, "node %q has unknown type %q", n.ID, n.Type)
		}
		if n.Variant != "" && !validVariants[n.Variant] {
			return errors.New(errors.ErrCodeInvalidVariant, "node %q has unknown variant %q", n.ID, n.Variant)
		}
		if n.Type == TypeIcon && n.Icon == "" {
			return errors.New(errors.ErrCodeInvalidField, "icon node %q has no icon reference", n.ID)
		}
	}
	for _, e := range d.Edges {
		if !validEdgeStyles[e.Style] {
			return errors.New(errors.ErrCodeInvalidField, "edge %s→%s has unknown style %q", e.From, e.To, e.Style)
		}
	}

	if !validThemes[d.Theme] {
		return errors.New(errors.ErrCodeInvalidField, "unknown theme %q", d.Theme)
	}
	if !validLayouts[d.Layout] {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", d.Layout)
	}

	if err := d.validateGroups(ids); err != nil {
		return err
	}
	return d.validateLayoutFields(ids, laneIDs)
}

var validEdgeStyles = map[EdgeStyle]bool{
	EdgeSolid: true, EdgeCurved: true, EdgeDashed: true,
	EdgeDotted: true, EdgeBidirectional: true,
}

// checkDocumentID rejects identifiers the serializer reserves for itself.
// The output document requires unique ids across every cell, including the
// scaffolding cells and the generated edge ids.
func checkDocumentID(id, kind string) error {
	if reservedIDs[id] {
		return errors.New(errors.ErrCodeInvalidField, "%s id %q is reserved by the document format", kind, id)
	}
	if edgeIDPattern.MatchString(id) {
		return errors.New(errors.ErrCodeInvalidField, "%s id %q collides with generated edge identifiers", kind, id)
	}
	return nil
}

// validateGroups checks group ids, member references, and single ownership.
func (d Diagram) validateGroups(nodeIDs map[string]bool) error {
	groupIDs := make(map[string]bool, len(d.Groups))
	owned := make(map[string]string)

	for _, g := range d.Groups {
		if g.ID == "" {
			return errors.New(errors.ErrCodeSchema, "group with label %q has an empty id", g.Label)
		}
		if err := checkDocumentID(g.ID, "group"); err != nil {
			return err
		}
		if groupIDs[g.ID] || nodeIDs[g.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "duplicate group id %q", g.ID)
		}
		groupIDs[g.ID] = true

		if len(g.Members) == 0 {
			return errors.New(errors.ErrCodeInvalidField, "group %q has no members", g.ID)
		}
		for _, m := range g.Members {
			if !nodeIDs[m] {
				return errors.New(errors.ErrCodeUnknownNode, "group %q member %q is not a declared node", g.ID, m)
			}
			if prev, ok := owned[m]; ok {
				return errors.New(errors.ErrCodeInvalidField, "node %q belongs to both group %q and group %q", m, prev, g.ID)
			}
			owned[m] = g.ID
		}
	}
	return nil
}

// validateLayoutFields rejects layout-specific fields that are inconsistent
// with the declared layout kind: a pipeline ordering outside the pipeline
// layout, row keys outside rows, lanes outside swimlane, and column counts
// outside their grid/flow layouts.
func (d Diagram) validateLayoutFields(nodeIDs, laneIDs map[string]bool) error {
	if len(d.Pipeline) > 0 && d.Layout != LayoutPipeline {
		return errors.New(errors.ErrCodeInvalidField, "pipeline ordering is only valid with the pipeline layout (got %q)", d.Layout)
	}
	if d.GridColumns != 0 && d.Layout != LayoutGrid {
		return errors.New(errors.ErrCodeInvalidField, "grid_columns is only valid with the grid layout (got %q)", d.Layout)
	}
	if d.FlowColumns != 0 && d.Layout != LayoutFlow {
		return errors.New(errors.ErrCodeInvalidField, "flow_columns is only valid with the flow layout (got %q)", d.Layout)
	}
	if len(d.Lanes) > 0 && d.Layout != LayoutSwimlane {
		return errors.New(errors.ErrCodeInvalidField, "lanes are only valid with the swimlane layout (got %q)", d.Layout)
	}
	if d.Layout == LayoutSwimlane && len(d.Lanes) == 0 {
		return errors.New(errors.ErrCodeInvalidField, "swimlane layout requires at least one declared lane")
	}

	for _, n := range d.Nodes {
		if n.Row != "" && d.Layout != LayoutRows {
			return errors.New(errors.ErrCodeInvalidField, "node %q has a row key but the layout is %q", n.ID, d.Layout)
		}
		if n.Lane != "" && d.Layout != LayoutSwimlane {
			return errors.New(errors.ErrCodeInvalidField, "node %q has a lane but the layout is %q", n.ID, d.Layout)
		}
	}

	seen := make(map[string]bool)
	for i, step := range d.Pipeline {
		for _, id := range step {
			if !nodeIDs[id] {
				return errors.New(errors.ErrCodeUnknownNode, "pipeline step %d references unknown node %q", i, id)
			}
			if seen[id] {
				return errors.New(errors.ErrCodeInvalidField, "node %q appears in more than one pipeline step", id)
			}
			seen[id] = true
		}
	}
	return nil
}

// Lint returns advisory notes that do not make the diagram invalid.
// Today that is only singleton groups, which render as a labeled box around
// a single node and rarely add information.
func (d Diagram) Lint() []string {
	var notes []string
	for _, g := range d.Groups {
		if len(g.Members) == 1 {
			notes = append(notes, fmt.Sprintf("group %q has a single member; consider dropping it", g.ID))
		}
	}
	return notes
}
