// Package nodelink renders quick diagram previews with Graphviz.
//
// The draw.io document is the engine's real output; this package exists for
// the terminal loop, where a rough node-link SVG or PNG is faster to check
// than opening an editor. Graphviz does its own placement here, so previews
// approximate the diagram's structure, not its final geometry.
//
// Convert a diagram to DOT, then render:
//
//	dot := nodelink.ToDOT(d)
//	svg, err := nodelink.RenderSVG(dot)
//
// PNG conversion requires librsvg (rsvg-convert).
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drawforge/pkg/render"
	"github.com/matzehuels/drawforge/pkg/spec"
)

// ToDOT converts a diagram to Graphviz DOT source. Shapes follow the node
// types loosely; colors and themes are left to Graphviz defaults.
func ToDOT(d spec.Diagram) string {
	var buf strings.Builder
	buf.WriteString("digraph diagram {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	if d.Title != "" {
		fmt.Fprintf(&buf, "  label=%q; labelloc=t; fontsize=18;\n", d.Title)
	}
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", dotLabel(n))}
		if shape := dotShape(n.Type); shape != "" {
			attrs = append(attrs, fmt.Sprintf("shape=%s", shape))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		attrs := dotEdgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n spec.Node) string {
	if n.Detail == "" {
		return n.Label
	}
	return n.Label + "\n" + n.Detail
}

// dotShape maps node types to rough Graphviz equivalents. An empty string
// keeps the default box.
func dotShape(t spec.NodeType) string {
	switch t {
	case spec.TypeStart, spec.TypeEnd:
		return "ellipse"
	case spec.TypeDecision:
		return "diamond"
	case spec.TypeNote:
		return "note"
	case spec.TypeCylinder:
		return "cylinder"
	case spec.TypeCloud:
		return "ellipse"
	case spec.TypeActor:
		return "plaintext"
	default:
		return ""
	}
}

func dotEdgeAttrs(e spec.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Style {
	case spec.EdgeDashed:
		attrs = append(attrs, "style=dashed")
	case spec.EdgeDotted:
		attrs = append(attrs, "style=dotted")
	case spec.EdgeBidirectional:
		attrs = append(attrs, "dir=both")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the viewBox starts at
// the origin, which embeds cleanly in browsers and terminals.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
