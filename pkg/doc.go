// Package pkg provides the core libraries for the drawforge layout engine.
//
// # Overview
//
// Drawforge turns a JSON diagram description into an editable draw.io
// document. The pkg directory is organized along the pipeline:
//
//  1. [spec] - input types, schema validation, and lint checks
//  2. [theme] - palettes, dimensions, and style resolution
//  3. [layout] - deterministic 2D placement engines
//  4. [route] - edge anchoring and label surfaces
//  5. [render] - draw.io serialization and Graphviz previews
//  6. [pipeline] - orchestration with caching
//
// # Architecture
//
// The typical data flow:
//
//	JSON description
//	         ↓
//	    [spec] package (decode + validate)
//	         ↓
//	    [layout] package (geometry)
//	         ↓
//	    [theme] + [route] packages (styles + edges)
//	         ↓
//	    [render] package (draw.io XML, SVG, PNG)
//
// Supporting packages: [cache] for content-addressed artifact caching,
// [observability] for lifecycle hooks, [errors] for coded errors, and
// [buildinfo] for version stamping.
package pkg
