package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawforge/pkg/cache"
	"github.com/matzehuels/drawforge/pkg/errors"
	"github.com/matzehuels/drawforge/pkg/layout"
	"github.com/matzehuels/drawforge/pkg/observability"
	"github.com/matzehuels/drawforge/pkg/render/drawio"
	"github.com/matzehuels/drawforge/pkg/render/nodelink"
	"github.com/matzehuels/drawforge/pkg/route"
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

// Runner executes the pipeline with caching. It is stateless apart from the
// cache, keyer, logger, and palette configuration; one Runner serves many
// concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Config *theme.Config

	loadOnce sync.Once
	loadErr  error
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default keyer, and a nil config loads the embedded palette on
// first use.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// config returns the palette configuration, loading the embedded default
// once if none was supplied.
func (r *Runner) config() (*theme.Config, error) {
	r.loadOnce.Do(func() {
		if r.Config == nil {
			r.Config, r.loadErr = theme.Load()
		}
	})
	return r.Config, r.loadErr
}

// Execute runs the complete decode → validate → layout → render pipeline.
// Any failure is terminal: no partial artifacts are returned.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: decode and validate.
	validateStart := time.Now()
	observability.Pipeline().OnValidateStart(ctx, 0)
	d, err := r.Resolve(opts)
	observability.Pipeline().OnValidateComplete(ctx, len(d.Nodes), time.Since(validateStart), err)
	if err != nil {
		return nil, err
	}
	result.Diagram = d
	result.InputHash = drawio.DiagramID(d)
	result.Warnings = d.Lint()
	result.Stats.ValidateTime = time.Since(validateStart)
	result.Stats.NodeCount = len(d.Nodes)
	result.Stats.EdgeCount = len(d.Edges)

	logger.Info("validated description",
		"nodes", len(d.Nodes),
		"edges", len(d.Edges),
		"layout", d.Layout,
		"duration", result.Stats.ValidateTime)

	// Stage 2: layout.
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, string(d.Layout), len(d.Nodes))
	geo, err := layout.Compute(d, cfg)
	observability.Pipeline().OnLayoutComplete(ctx, string(d.Layout), time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}
	result.Geometry = geo
	result.Stats.LayoutTime = time.Since(layoutStart)

	logger.Info("computed layout",
		"page", geo.PageHeight,
		"duration", result.Stats.LayoutTime)

	// Stage 3: render.
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	err = r.renderAll(ctx, d, geo, cfg, opts, result)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Resolve decodes the input, applies theme/layout overrides, and validates.
func (r *Runner) Resolve(opts Options) (spec.Diagram, error) {
	d, err := spec.DecodeBytes(opts.Input)
	if err != nil {
		return spec.Diagram{}, err
	}
	if opts.Theme != "" {
		d.Theme = spec.Theme(opts.Theme)
	}
	if opts.Layout != "" {
		d.Layout = spec.LayoutKind(opts.Layout)
	}
	if err := d.Validate(); err != nil {
		return spec.Diagram{}, err
	}
	return d, nil
}

// renderAll produces every requested format, consulting the cache first.
func (r *Runner) renderAll(ctx context.Context, d spec.Diagram, geo *layout.Result, cfg *theme.Config, opts Options, result *Result) error {
	previews, previewHits := 0, 0

	for _, format := range opts.Formats {
		key, ttl := r.artifactKey(result.InputHash, format)
		if format != FormatDrawio {
			previews++
		}

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, format)
				result.Artifacts[format] = data
				if format == FormatDrawio {
					result.CacheInfo.DocumentHit = true
				} else {
					previewHits++
				}
				continue
			}
			observability.Cache().OnCacheMiss(ctx, format)
		}

		data, err := r.renderOne(d, geo, cfg, format)
		if err != nil {
			return err
		}
		result.Artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, format, len(data))
		}
	}

	result.CacheInfo.PreviewHit = previews > 0 && previewHits == previews
	return nil
}

// renderOne produces a single artifact.
func (r *Runner) renderOne(d spec.Diagram, geo *layout.Result, cfg *theme.Config, format string) ([]byte, error) {
	switch format {
	case FormatDrawio:
		plans, err := route.Edges(d, geo, cfg)
		if err != nil {
			return nil, err
		}
		return drawio.Marshal(d, geo, plans, cfg)
	case FormatSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(d))
	case FormatPNG:
		return nodelink.RenderPNG(nodelink.ToDOT(d), DefaultPNGScale)
	default:
		return nil, errors.New(errors.ErrCodeInvalidField, "invalid format %q", format)
	}
}

// artifactKey maps a format to its cache key and TTL.
func (r *Runner) artifactKey(inputHash, format string) (string, time.Duration) {
	if format == FormatDrawio {
		return r.Keyer.DocumentKey(inputHash), cache.TTLDocument
	}
	return r.Keyer.PreviewKey(inputHash, format), cache.TTLPreview
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
