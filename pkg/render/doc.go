// Package render provides rendering backends for resolved diagrams.
//
// # Overview
//
// Two backends live in subpackages:
//
//   - [drawio]: the primary output, an editable draw.io XML document
//   - [nodelink]: quick Graphviz previews (SVG/PNG) for terminal workflows
//
// # Format Conversion
//
// The [ToPNG] and [ToPDF] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The preview renderer uses
// them for raster output.
//
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
