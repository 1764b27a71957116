package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stepflow/pkg/diagram"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/process"
	"github.com/matzehuels/stepflow/pkg/route"
)

// =============================================================================
// Layout Generation
// =============================================================================

// BuildDiagram adapts rec, computes its layout and routes every connector.
// It is pure: the same record and options always produce the same diagram.
func BuildDiagram(rec process.Record, opts Options) diagram.Diagram {
	g := process.Adapt(rec)
	res := layout.Compute(g, opts.Layout)
	return diagram.Build(g, res, route.All(g, res, opts.Route))
}

// logDiagnostics reports diagnostics through the injected logger. The cycle
// fallback is expected behaviour and logged at info; everything else that
// was defaulted, dropped or laid out best-effort is a warning.
func logDiagnostics(logger *log.Logger, ds process.Diagnostics) {
	for _, d := range ds {
		kv := []any{"code", d.Code}
		if d.NodeID != "" {
			kv = append(kv, "node", d.NodeID)
		}
		if d.EdgeID != "" {
			kv = append(kv, "edge", d.EdgeID)
		}
		if d.Code == process.CodeCycleFallback {
			logger.Info(d.Message, kv...)
			continue
		}
		logger.Warn(d.Message, kv...)
	}
}
