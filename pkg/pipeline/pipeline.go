// Package pipeline runs the complete decode → validate → layout → render
// chain used by both the CLI and the HTTP server. Centralizing it keeps the
// two entry points byte-identical for the same input.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   description,
//	    Formats: []string{"drawio"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Artifacts["drawio"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawforge/pkg/errors"
	"github.com/matzehuels/drawforge/pkg/layout"
	"github.com/matzehuels/drawforge/pkg/spec"
)

// Output formats.
const (
	FormatDrawio = "drawio" // editable draw.io XML, the primary output
	FormatSVG    = "svg"    // Graphviz preview
	FormatPNG    = "png"    // Graphviz preview rasterized via librsvg
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDrawio: true,
	FormatSVG:    true,
	FormatPNG:    true,
}

// DefaultPNGScale is the raster scale for PNG previews.
const DefaultPNGScale = 2.0

// Options configures one pipeline run. The JSON tags support API requests.
type Options struct {
	// Input is the raw diagram description (JSON).
	Input []byte `json:"-"`

	// Theme and Layout override the description's fields when non-empty.
	// Overrides apply before validation, so an invalid override fails the
	// same way an invalid input field would.
	Theme  string `json:"theme,omitempty"`
	Layout string `json:"layout,omitempty"`

	// Formats selects the outputs. Defaults to drawio only.
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the cache for reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives stage-level progress. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Input) == 0 {
		return errors.New(errors.ErrCodeInvalidField, "input description is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDrawio}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidField,
				"invalid format %q (must be one of: drawio, svg, png)", f)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the decoded, validated description with overrides applied.
	Diagram spec.Diagram

	// InputHash is the content hash identifying this input; it is also the
	// diagram id inside the document and the cache key component.
	InputHash string

	// Geometry is the resolved layout.
	Geometry *layout.Result

	// Artifacts holds the rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings are non-fatal lint notes about the input.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	ValidateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits per artifact kind.
type CacheInfo struct {
	DocumentHit bool // draw.io document served from cache
	PreviewHit  bool // all requested previews served from cache
}
