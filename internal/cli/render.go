package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepflow/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // svg, dot, graphviz-svg, json, png, pdf
	input      string   // input format override
	background string   // SVG background colour; "none" disables it
	font       string   // SVG font family
	hideLabels bool     // omit edge labels
	detailed   bool     // node metadata in DOT labels
	scale      float64  // PNG resolution multiplier
	refresh    bool     // skip cache reads
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a process record as a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if args[0] == "-" && opts.output == "" {
				return fmt.Errorf("--output is required when reading from stdin")
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().StringVar(&opts.input, "input", "", "input format: json, yaml, toml (default from extension)")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background colour, or \"none\" for transparent")
	cmd.Flags().StringVar(&opts.font, "font", "", "SVG font family")
	cmd.Flags().BoolVar(&opts.hideLabels, "hide-labels", false, "omit edge labels")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node metadata in Graphviz labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if results are cached")

	return cmd
}

// pipelineOptions turns render flags into pipeline options.
func (c *CLI) pipelineOptions(opts renderOpts) pipeline.Options {
	po := c.baseOptions()
	po.Formats = opts.formats
	po.Background = opts.background
	po.FontFamily = opts.font
	po.HideLabels = opts.hideLabels
	po.Detailed = opts.detailed
	po.Scale = opts.scale
	po.Refresh = opts.refresh
	return po
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	data, format, err := c.readInput(input, opts.input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.ExecuteBytes(ctx, data, format, c.pipelineOptions(opts))
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, f := range opts.formats {
		if err := writeArtifact(paths[f], res.Artifacts[f]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %s", input))

	printSuccess("Rendered %s", input)
	for _, f := range opts.formats {
		printFile(paths[f])
	}
	printStats(res.Stats, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	printDiagnostics(res.Diagram.Diagnostics)
	return nil
}

// basePath derives the base output path from the output and input file
// paths. A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(pipeline.Formats, ext) {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPaths maps each format to its file. A single format with an
// explicit output uses that path as is. Otherwise files are named
// base.ext, with graphviz-svg written as base.graphviz.svg so it does not
// collide with the native SVG.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + suffix(f)
	}
	return paths
}

func suffix(format string) string {
	if format == pipeline.FormatGraphvizSVG {
		return ".graphviz.svg"
	}
	return "." + pipeline.Extension(format)
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
