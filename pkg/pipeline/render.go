package pipeline

import (
	"context"

	"github.com/matzehuels/stepflow/pkg/diagram"
	"github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/render"
	"github.com/matzehuels/stepflow/pkg/render/nodelink"
	"github.com/matzehuels/stepflow/pkg/render/svg"
)

// RenderFormat renders d in a single format. Engine failures are wrapped
// with the RENDER code.
func RenderFormat(ctx context.Context, d diagram.Diagram, format string, opts Options) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatSVG:
		data = svg.Render(d, svgOptions(opts)...)
	case FormatDOT:
		data = []byte(nodelink.ToDOT(d, dotOptions(opts)))
	case FormatGraphvizSVG:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(d, dotOptions(opts)))
	case FormatJSON:
		data, err = diagram.Marshal(d)
	case FormatPNG:
		data, err = render.ToPNG(ctx, svg.Render(d, svgOptions(opts)...), opts.Scale)
	case FormatPDF:
		data, err = render.ToPDF(ctx, svg.Render(d, svgOptions(opts)...))
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported format: %s", format)
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	return data, nil
}

// RenderAll renders d in every format of opts.Formats.
func RenderAll(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, d, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options) []svg.Option {
	svgOpts := []svg.Option{svg.WithShowLabels(!opts.HideLabels)}
	switch opts.Background {
	case "":
	case BackgroundNone:
		svgOpts = append(svgOpts, svg.WithBackground(""))
	default:
		svgOpts = append(svgOpts, svg.WithBackground(opts.Background))
	}
	if opts.FontFamily != "" {
		svgOpts = append(svgOpts, svg.WithFontFamily(opts.FontFamily))
	}
	return svgOpts
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, HideLabels: opts.HideLabels}
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatGraphvizSVG:
		return "svg"
	case FormatDOT:
		return "dot"
	}
	return format
}
