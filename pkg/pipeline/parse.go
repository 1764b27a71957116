package pipeline

import (
	"github.com/matzehuels/stepflow/pkg/diagram"
	stepio "github.com/matzehuels/stepflow/pkg/io"
	"github.com/matzehuels/stepflow/pkg/process"
)

// Decode turns raw bytes into a process record. JSON input is also checked
// against the record schema; violations come back as diagnostics.
func Decode(data []byte, format stepio.Format) (process.Record, process.Diagnostics, error) {
	if format == "" {
		format = stepio.FormatJSON
	}
	return stepio.Decode(data, format)
}

// withInputDiagnostics puts decode-time diagnostics ahead of those found
// while laying out.
func withInputDiagnostics(d diagram.Diagram, input process.Diagnostics) diagram.Diagram {
	if len(input) == 0 {
		return d
	}
	merged := make(process.Diagnostics, 0, len(input)+len(d.Diagnostics))
	merged = append(merged, input...)
	d.Diagnostics = append(merged, d.Diagnostics...)
	return d
}
