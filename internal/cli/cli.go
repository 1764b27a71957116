package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepflow/pkg/buildinfo"
	"github.com/matzehuels/stepflow/pkg/cache"
	"github.com/matzehuels/stepflow/pkg/config"
	stepio "github.com/matzehuels/stepflow/pkg/io"
	"github.com/matzehuels/stepflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completions.
const appName = "stepflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In and Out are the command's standard input and output; they default
	// to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer

	cfgFile string
	verbose bool
	noCache bool
	cfg     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Stepflow lays out and renders process diagrams",
		Long:          `Stepflow turns process records (steps, decisions and transitions) into deterministic diagram geometry and renders it as SVG, Graphviz, PNG or PDF.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default ./"+config.DefaultConfigFileName+" if present)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.String("strategy", "", "layout strategy: auto, layered, linear")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the result cache")
	pf.String("cache-backend", config.BackendFile, "cache backend: "+strings.Join(config.Backends, ", "))
	pf.String("cache-dir", "", "cache directory for the file backend")
	pf.Duration("cache-ttl", 0, "cache entry lifetime (0 keeps the built-in default)")
	pf.String("redis-addr", config.DefaultRedisAddr, "redis address for the redis backend")
	pf.String("mongo-uri", config.DefaultMongoURI, "connection URI for the mongo backend")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig layers defaults, file, env and flags, then applies the log
// level. --verbose wins over the configured level.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.Level()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if f := cfg.File(); f != "" {
		c.Logger.Debug("loaded config", "file", f)
	}
	return nil
}

// config returns the loaded configuration. Commands run without the root
// pre-run (tests) get an empty config with defaults applied.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		cfg := &config.Config{}
		cfg.Layout.SetDefaults()
		cfg.Route.SetDefaults()
		c.cfg = cfg
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened is logged and replaced by a NullCache.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	cfg := c.config()
	r := pipeline.NewRunner(c.openCache(ctx), nil, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r
}

func (c *CLI) openCache(ctx context.Context) cache.Cache {
	if c.noCache || c.cfg == nil {
		return cache.NewNullCache()
	}
	ch, err := c.cfg.Cache.Open(ctx)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.cfg.Cache.Backend, "error", err)
		return cache.NewNullCache()
	}
	return ch
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the configuration.
func (c *CLI) baseOptions() pipeline.Options {
	cfg := c.config()
	return pipeline.Options{
		Layout: cfg.Layout,
		Route:  cfg.Route,
		Logger: c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// readInput reads a record from path, or from In when path is "-". The
// input format comes from the file extension unless format is set; stdin
// defaults to JSON.
func (c *CLI) readInput(path, format string) ([]byte, stepio.Format, error) {
	var f stepio.Format
	if format != "" {
		f = stepio.Format(strings.ToLower(format))
		if f == "yml" {
			f = stepio.FormatYAML
		}
	}
	if path == "-" {
		data, err := io.ReadAll(c.In)
		if f == "" {
			f = stepio.FormatJSON
		}
		return data, f, err
	}
	if f == "" {
		var err error
		if f, err = stepio.DetectFormat(path); err != nil {
			return nil, "", err
		}
	}
	data, err := os.ReadFile(path)
	return data, f, err
}
