// Package pipeline runs the decode → layout → render flow shared by the CLI
// and the HTTP server.
//
// By centralizing this logic, every entry point adapts records, falls back
// on cycles, logs diagnostics and caches results the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: turn raw JSON, YAML or TOML bytes into a process record
//  2. Layout: adapt the record, compute positions and route connectors
//  3. Render: produce SVG, DOT, Graphviz SVG, JSON, PNG or PDF output
//
// Layout never fails on process content. Malformed steps and transitions are
// defaulted or dropped and reported as diagnostics on the diagram; errors
// are reserved for undecodable input, render engines and cache backends.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, rec, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	d, err := runner.Layout(ctx, rec, opts)
//	artifacts, err := runner.Render(ctx, d, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stepflow/pkg/cache"
	"github.com/matzehuels/stepflow/pkg/diagram"
	"github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/route"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG         = "svg"
	FormatDOT         = "dot"
	FormatGraphvizSVG = "graphviz-svg"
	FormatJSON        = "json"
	FormatPNG         = "png"
	FormatPDF         = "pdf"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatDOT, FormatGraphvizSVG, FormatJSON, FormatPNG, FormatPDF}

// BackgroundNone renders SVG output without a background rectangle.
const BackgroundNone = "none"

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatGraphvizSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. Strategy, when set, overrides Layout.Strategy.
	Strategy layout.StrategyName `json:"strategy,omitempty"`
	Layout   layout.Config       `json:"layout"`
	Route    route.Config        `json:"route"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	// Background is an SVG fill colour. Empty keeps the renderer default;
	// BackgroundNone drops the background.
	Background string   `json:"background,omitempty"`
	FontFamily string   `json:"font_family,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"` // node metadata in DOT labels
	Scale      float64  `json:"scale,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Diagram   diagram.Diagram
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	Diagnostics int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Strategy != "" {
		o.Layout.Strategy = o.Strategy
	}
	o.Layout.SetDefaults()
	o.Route.SetDefaults()
	o.Strategy = o.Layout.Strategy
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidInput, "strategy", string(o.Strategy),
		string(layout.StrategyAuto), string(layout.StrategyLinear), string(layout.StrategyLayered)); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if err := errors.ValidateOneOf(errors.ErrCodeUnsupportedFormat, "format", f, Formats...); err != nil {
			return err
		}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	// both configs are plain structs of scalars, so encoding cannot fail
	h, _ := cache.HashJSON(struct {
		Layout layout.Config `json:"layout"`
		Route  route.Config  `json:"route"`
	}{o.Layout, o.Route})
	return cache.LayoutKeyOpts{
		Strategy:   string(o.Layout.Strategy),
		ConfigHash: h,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		opts.Background = o.Background
		opts.FontFamily = o.FontFamily
		opts.ShowLabels = !o.HideLabels
		if format == FormatPNG {
			opts.Scale = o.Scale
		}
	case FormatDOT, FormatGraphvizSVG:
		opts.ShowLabels = !o.HideLabels
		opts.Detailed = o.Detailed
	}
	return opts
}
