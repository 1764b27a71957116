package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stepflow/pkg/cache"
	"github.com/matzehuels/stepflow/pkg/diagram"
	"github.com/matzehuels/stepflow/pkg/errors"
	stepio "github.com/matzehuels/stepflow/pkg/io"
	"github.com/matzehuels/stepflow/pkg/observability"
	"github.com/matzehuels/stepflow/pkg/process"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the default entry lifetime for both layouts and
	// artifacts when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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

// Execute runs layout and render for rec.
func (r *Runner) Execute(ctx context.Context, rec process.Record, opts Options) (*Result, error) {
	return r.execute(ctx, rec, nil, opts)
}

// ExecuteBytes decodes data and runs the full pipeline. Schema diagnostics
// found while decoding are prepended to the diagram's diagnostics.
func (r *Runner) ExecuteBytes(ctx context.Context, data []byte, format stepio.Format, opts Options) (*Result, error) {
	rec, diags, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, rec, diags, opts)
}

func (r *Runner) execute(ctx context.Context, rec process.Record, input process.Diagnostics, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logDiagnostics(opts.Logger, input)

	result := &Result{}

	layoutStart := time.Now()
	d, layoutHit, err := r.LayoutWithCacheInfo(ctx, rec, opts)
	if err != nil {
		return nil, err
	}
	d = withInputDiagnostics(d, input)
	result.Diagram = d
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(d.Nodes)
	result.Stats.EdgeCount = len(d.Edges)
	result.Stats.Diagnostics = len(d.Diagnostics)
	result.CacheInfo.LayoutHit = layoutHit

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Debug("pipeline complete",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the diagram for rec with caching and reports
// whether it came from the cache. Cache failures are logged and never fail
// the layout.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, rec process.Record, opts Options) (diagram.Diagram, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return diagram.Diagram{}, false, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	recordHash, err := cache.HashJSON(rec)
	if err != nil {
		return diagram.Diagram{}, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash record")
	}
	cacheKey := r.Keyer.LayoutKey(recordHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			opts.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		case hit:
			if d, err := diagram.Unmarshal(data); err == nil {
				cacheHooks.OnCacheHit(ctx, cacheKey)
				opts.Logger.Debug("layout cache hit", "key", cacheKey)
				return d, true, nil
			}
			// corrupt entry, recompute and overwrite
		}
		cacheHooks.OnCacheMiss(ctx, cacheKey)
	}

	strategy := string(opts.Layout.Strategy)
	hooks.OnLayoutStart(ctx, strategy, len(rec.Nodes))
	start := time.Now()
	d := BuildDiagram(rec, opts)
	hooks.OnLayoutComplete(ctx, string(d.Strategy), len(d.Nodes), time.Since(start), nil)

	logDiagnostics(opts.Logger, d.Diagnostics)
	opts.Logger.Debug("computed layout",
		"strategy", d.Strategy,
		"nodes", len(d.Nodes),
		"edges", len(d.Edges),
		"duration", time.Since(start))

	if data, err := diagram.Marshal(d); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout)); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	return d, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, rec process.Record, opts Options) (diagram.Diagram, error) {
	d, _, err := r.LayoutWithCacheInfo(ctx, rec, opts)
	return d, err
}

// RenderWithCacheInfo renders every requested format with caching and
// reports whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	diagramHash, err := cache.HashJSON(d)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash diagram")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(diagramHash, opts.ArtifactKeyOpts(format))

		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil {
				opts.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
			}
			if err == nil && hit {
				cacheHooks.OnCacheHit(ctx, cacheKey)
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, cacheKey)
		}
		allCached = false

		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := RenderFormat(ctx, d, format, opts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
