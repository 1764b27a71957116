package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/pipeline"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	renderOpts
	outDir string // directory receiving all outputs
	jobs   int    // concurrent records
}

// batchResult is the outcome for one input file.
type batchResult struct {
	input string
	paths []string
	err   error
}

// batchCommand creates the batch command, which renders many records
// concurrently into one directory.
func (c *CLI) batchCommand() *cobra.Command {
	var formatsStr string
	opts := batchOpts{
		renderOpts: renderOpts{scale: pipeline.DefaultScale},
		outDir:     ".",
		jobs:       runtime.NumCPU(),
	}

	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Render many process records concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if opts.jobs < 1 {
				opts.jobs = 1
			}
			return c.runBatch(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "d", opts.outDir, "output directory")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "records rendered in parallel")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background colour, or \"none\" for transparent")
	cmd.Flags().StringVar(&opts.font, "font", "", "SVG font family")
	cmd.Flags().BoolVar(&opts.hideLabels, "hide-labels", false, "omit edge labels")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node metadata in Graphviz labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if results are cached")

	return cmd
}

// batchOutputs plans the output path of every input and format. Names
// must be plain basenames and must not collide.
func batchOutputs(inputs []string, outDir string, formats []string) (map[string]map[string]string, error) {
	plan := make(map[string]map[string]string, len(inputs))
	owner := make(map[string]string)
	for _, in := range inputs {
		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		if err := errors.ValidateFilename(name); err != nil {
			return nil, fmt.Errorf("%s: %w", in, err)
		}
		paths := make(map[string]string, len(formats))
		for _, f := range formats {
			p := filepath.Join(outDir, name+suffix(f))
			if prev, ok := owner[p]; ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "%s and %s would both write %s", prev, in, p)
			}
			owner[p] = in
			paths[f] = p
		}
		plan[in] = paths
	}
	return plan, nil
}

func (c *CLI) runBatch(ctx context.Context, inputs []string, opts batchOpts) error {
	plan, err := batchOutputs(inputs, opts.outDir, opts.formats)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()
	po := c.pipelineOptions(opts.renderOpts)

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering 0/%d", len(inputs)))
	spin.Start()

	results := make([]batchResult, len(inputs))
	var finished atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, in := range inputs {
		g.Go(func() error {
			results[i] = c.renderOne(gctx, runner, in, plan[in], opts, po)
			spin.SetMessage(fmt.Sprintf("Rendering %d/%d", finished.Add(1), len(inputs)))
			// Per-file failures are reported, not propagated; only
			// cancellation stops the batch.
			return gctx.Err()
		})
	}
	waitErr := g.Wait()
	spin.Stop()
	if waitErr != nil {
		return waitErr
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			printError("%s: %v", r.input, r.err)
			continue
		}
		printSuccess("%s", r.input)
		for _, p := range r.paths {
			printFile(p)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d records", len(inputs)-failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d records failed", failed, len(inputs))
	}
	return nil
}

func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, input string, paths map[string]string, opts batchOpts, po pipeline.Options) batchResult {
	res := batchResult{input: input}

	data, format, err := c.readInput(input, opts.input)
	if err != nil {
		res.err = err
		return res
	}
	out, err := runner.ExecuteBytes(ctx, data, format, po)
	if err != nil {
		res.err = err
		return res
	}
	for _, f := range opts.formats {
		if err := writeArtifact(paths[f], out.Artifacts[f]); err != nil {
			res.err = err
			return res
		}
		res.paths = append(res.paths, paths[f])
	}
	c.Logger.Debug("rendered", "input", input, "nodes", out.Stats.NodeCount, "diagnostics", out.Stats.Diagnostics)
	return res
}
