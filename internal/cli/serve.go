package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepflow/internal/server"
	"github.com/matzehuels/stepflow/pkg/buildinfo"
	"github.com/matzehuels/stepflow/pkg/config"
	"github.com/matzehuels/stepflow/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout and render HTTP API",
		Long: `Run the HTTP API:

  POST /v1/layout            record in, diagram JSON out
  POST /v1/render/{format}   record in, rendered artifact out
  GET  /healthz
  GET  /version`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cmd.Flags().Bool("tracing", false, "export OpenTelemetry traces")
	cmd.Flags().String("otlp-endpoint", "", "OTLP gRPC endpoint, e.g. localhost:4317")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	cfg := c.config()

	tp, err := observability.InitTracing(ctx, cfg.Tracing.Observability(buildinfo.Version))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			c.Logger.Warn("tracing shutdown", "error", err)
		}
	}()
	if cfg.Tracing.Enabled {
		hooks := observability.NewTracingHooks(tp.Tracer())
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
		c.Logger.Info("tracing enabled", "endpoint", cfg.Tracing.OTLPEndpoint, "sample_rate", cfg.Tracing.SampleRate)
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	srv := server.New(server.Config{
		Runner:  runner,
		Server:  cfg.Server,
		Options: c.baseOptions(),
		Logger:  c.Logger,
	})
	return srv.Serve(ctx)
}
