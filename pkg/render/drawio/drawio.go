// Package drawio serializes resolved diagrams to the draw.io file format.
//
// The output is an mxfile document with a single diagram page. Cell order is
// fixed: the two scaffolding cells, title, subtitle, lane bands, group boxes,
// then every edge, then every node. Writing edges before nodes makes the
// editor paint nodes on top, so connectors never cover shapes.
//
// Serialization is a pure function of its inputs. The same diagram, geometry,
// and palette always produce byte-identical output, including the diagram id,
// which is a content hash of the input description.
package drawio

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"strconv"

	"github.com/matzehuels/drawforge/pkg/errors"
	"github.com/matzehuels/drawforge/pkg/layout"
	"github.com/matzehuels/drawforge/pkg/route"
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

const xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

type mxFile struct {
	XMLName xml.Name  `xml:"mxfile"`
	Host    string    `xml:"host,attr"`
	Type    string    `xml:"type,attr"`
	Diagram mxDiagram `xml:"diagram"`
}

type mxDiagram struct {
	ID    string  `xml:"id,attr"`
	Name  string  `xml:"name,attr"`
	Model mxModel `xml:"mxGraphModel"`
}

type mxModel struct {
	Grid       string `xml:"grid,attr"`
	Page       string `xml:"page,attr"`
	PageScale  string `xml:"pageScale,attr"`
	PageWidth  string `xml:"pageWidth,attr"`
	PageHeight string `xml:"pageHeight,attr"`
	Background string `xml:"background,attr"`
	Math       string `xml:"math,attr"`
	Shadow     string `xml:"shadow,attr"`
	Root       mxRoot `xml:"root"`
}

type mxRoot struct {
	Cells []mxCell `xml:"mxCell"`
}

type mxCell struct {
	ID       string      `xml:"id,attr"`
	Value    string      `xml:"value,attr,omitempty"`
	Style    string      `xml:"style,attr,omitempty"`
	Parent   string      `xml:"parent,attr,omitempty"`
	Vertex   string      `xml:"vertex,attr,omitempty"`
	Edge     string      `xml:"edge,attr,omitempty"`
	Source   string      `xml:"source,attr,omitempty"`
	Target   string      `xml:"target,attr,omitempty"`
	Geometry *mxGeometry `xml:"mxGeometry,omitempty"`
}

type mxGeometry struct {
	X        string `xml:"x,attr,omitempty"`
	Y        string `xml:"y,attr,omitempty"`
	W        string `xml:"width,attr,omitempty"`
	H        string `xml:"height,attr,omitempty"`
	Relative string `xml:"relative,attr,omitempty"`
	As       string `xml:"as,attr"`
}

// DiagramID returns the deterministic identifier for a diagram: a content
// hash of the full input description. Equal inputs share an id; any change
// to the input changes it.
func DiagramID(d spec.Diagram) string {
	raw, err := json.Marshal(d)
	if err != nil {
		// Diagram is plain data decoded from JSON; re-encoding cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}

// Marshal serializes a resolved diagram to draw.io XML.
func Marshal(d spec.Diagram, geo *layout.Result, plans []route.EdgePlan, cfg *theme.Config) ([]byte, error) {
	pal, err := cfg.Palette(d.Theme)
	if err != nil {
		return nil, err
	}

	cells := []mxCell{
		{ID: "0"},
		{ID: "1", Parent: "0"},
	}

	if d.Title != "" {
		cells = append(cells, vertexCell("title", html.EscapeString(d.Title),
			pal.Styles["title"], "1", geo.TitleBox))
	}
	if d.Subtitle != "" {
		cells = append(cells, vertexCell("subtitle", html.EscapeString(d.Subtitle),
			pal.Styles["subtitle"], "1", geo.SubtitleBox))
	}

	for _, lane := range d.Lanes {
		style := theme.ParseAttrs(pal.Styles["swimlane"])
		if lane.Color != "" {
			style = style.Set("strokeColor", lane.Color)
		}
		cells = append(cells, vertexCell(lane.ID, html.EscapeString(lane.Label),
			style.String(), "1", geo.LaneBoxes[lane.ID]))
	}

	for _, g := range d.Groups {
		box, ok := geo.GroupBoxes[g.ID]
		if !ok {
			continue
		}
		style := theme.ParseAttrs(pal.Styles["group"])
		if g.Color != "" {
			style = style.Set("strokeColor", g.Color)
		}
		cells = append(cells, vertexCell(g.ID, html.EscapeString(g.Label),
			style.String(), "1", box))
	}

	for i, p := range plans {
		cells = append(cells, mxCell{
			ID:       fmt.Sprintf("e%d", i),
			Value:    html.EscapeString(p.Edge.Label),
			Style:    p.Attrs.String(),
			Parent:   "1",
			Edge:     "1",
			Source:   p.Edge.From,
			Target:   p.Edge.To,
			Geometry: &mxGeometry{Relative: "1", As: "geometry"},
		})
	}

	for _, n := range d.Nodes {
		cell, err := nodeCell(d, n, geo, pal, cfg)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}

	doc := mxFile{
		Host: "drawforge",
		Type: "device",
		Diagram: mxDiagram{
			ID:   DiagramID(d),
			Name: pageName(d),
			Model: mxModel{
				Grid:       "0",
				Page:       "1",
				PageScale:  "1",
				PageWidth:  num(geo.PageWidth),
				PageHeight: num(geo.PageHeight),
				Background: pal.Background,
				Math:       "0",
				Shadow:     "0",
				Root:       mxRoot{Cells: cells},
			},
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return append([]byte(xmlHeader), append(out, '\n')...), nil
}

// nodeCell builds the vertex cell for one node: resolved style, composed
// label, and geometry relative to its enclosing container, if any.
func nodeCell(d spec.Diagram, n spec.Node, geo *layout.Result, pal theme.Palette, cfg *theme.Config) (mxCell, error) {
	attrs, err := cfg.ResolveNode(n, d.Theme)
	if err != nil {
		return mxCell{}, err
	}
	// Icon labels render on a background plate; match it to the surface
	// the node actually sits on.
	if n.Type == spec.TypeIcon {
		attrs = attrs.Set("labelBackgroundColor", route.NodeLabelSurface(d, pal, n.ID))
	}

	box := geo.NodeBoxes[n.ID]
	parent := parentOf(d, n.ID)
	if parent != "1" {
		origin := containerBox(d, geo, parent)
		box.X -= origin.X
		box.Y -= origin.Y
	}

	cell := vertexCell(n.ID, nodeLabel(n, pal), attrs.String(), parent, box)
	return cell, nil
}

// nodeLabel composes the HTML label: the escaped label text, with detail
// subtext on a second, smaller line.
func nodeLabel(n spec.Node, pal theme.Palette) string {
	label := html.EscapeString(n.Label)
	if n.Detail == "" {
		return label
	}
	return fmt.Sprintf("%s<br><font style=\"font-size: 10px;\" color=\"%s\">%s</font>",
		label, pal.DetailText, html.EscapeString(n.Detail))
}

// parentOf returns the cell id a node belongs to: its group, its lane, or
// the default layer.
func parentOf(d spec.Diagram, id string) string {
	if g := d.GroupOf(id); g != "" {
		return g
	}
	if n, ok := d.NodeByID(id); ok && n.Lane != "" {
		return n.Lane
	}
	return "1"
}

// containerBox returns the page-absolute box of a container cell.
func containerBox(d spec.Diagram, geo *layout.Result, id string) layout.Box {
	if b, ok := geo.GroupBoxes[id]; ok {
		return b
	}
	return geo.LaneBoxes[id]
}

func vertexCell(id, value, style, parent string, box layout.Box) mxCell {
	return mxCell{
		ID:     id,
		Value:  value,
		Style:  style,
		Parent: parent,
		Vertex: "1",
		Geometry: &mxGeometry{
			X:  num(box.X),
			Y:  num(box.Y),
			W:  num(box.W),
			H:  num(box.H),
			As: "geometry",
		},
	}
}

func pageName(d spec.Diagram) string {
	if d.Title != "" {
		return d.Title
	}
	return "Diagram"
}

// num formats a coordinate without a trailing ".0" for whole values.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
