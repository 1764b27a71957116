package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepflow/pkg/pipeline"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output  string // output file; "" or "-" writes to stdout
	input   string // input format override: json, yaml, toml
	refresh bool   // skip cache reads
}

// layoutCommand creates the layout command, which prints diagram geometry
// as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [file|-]",
		Short: "Compute diagram geometry for a process record",
		Long: `Compute node boxes, edge routes and diagnostics for a process record and
write them as JSON. Use "-" to read the record from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.input, "input", "", "input format: json, yaml, toml (default from extension)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if the layout is cached")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	data, format, err := c.readInput(input, opts.input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	po := c.baseOptions()
	po.Formats = []string{pipeline.FormatJSON}
	po.Refresh = opts.refresh

	res, err := runner.ExecuteBytes(ctx, data, format, po)
	if err != nil {
		return err
	}
	c.Logger.Debug("layout done",
		"strategy", res.Diagram.Strategy,
		"nodes", res.Stats.NodeCount,
		"layout_time", res.Stats.LayoutTime,
		"cached", res.CacheInfo.LayoutHit)

	out := res.Artifacts[pipeline.FormatJSON]
	if opts.output == "" || opts.output == "-" {
		_, err = c.Out.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	printSuccess("Laid out %s (%s)", input, res.Diagram.Strategy)
	printFile(opts.output)
	printStats(res.Stats, res.CacheInfo.LayoutHit)
	printDiagnostics(res.Diagram.Diagnostics)
	printNextStep("Render it", appName+" render "+input)
	return nil
}
