// Package cli implements the stepflow command-line interface.
//
// This package provides commands for laying out process records, rendering
// them as diagrams, serving the pipeline over HTTP and managing the result
// cache. The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: compute diagram geometry as JSON
//   - render: generate SVG, DOT, Graphviz SVG, PNG or PDF output
//   - batch: render many records concurrently
//   - watch: re-render a record whenever it changes
//   - inspect: browse a laid-out diagram in the terminal
//   - convert: translate records between JSON, YAML and TOML
//   - serve: run the HTTP API
//   - cache: manage the result cache
//
// # Configuration
//
// Every command reads stepflow.yaml (or --config), STEPFLOW_* environment
// variables and flags, in increasing order of precedence.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --log-level for anything else. Logs go to stderr so piped output stays
// clean.
//
// # Example
//
//	import "github.com/matzehuels/stepflow/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Rendered 12 records (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
