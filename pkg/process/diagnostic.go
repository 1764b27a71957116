package process

import "fmt"

// Severity ranks a diagnostic. None of them stop a layout.
type Severity string

const (
	// SeverityInfo marks a value that was defaulted or a strategy downgrade.
	SeverityInfo Severity = "info"
	// SeverityWarning marks input that was dropped or rewritten.
	SeverityWarning Severity = "warning"
	// SeverityAnomaly marks a design problem in the process itself that was
	// laid out best-effort.
	SeverityAnomaly Severity = "anomaly"
)

// Code identifies the kind of diagnostic.
type Code string

const (
	CodeEmptyNodeID         Code = "EMPTY_NODE_ID"
	CodeDuplicateNodeID     Code = "DUPLICATE_NODE_ID"
	CodeDuplicateEdgeID     Code = "DUPLICATE_EDGE_ID"
	CodeUnknownStatus       Code = "UNKNOWN_STATUS"
	CodeUnknownKind         Code = "UNKNOWN_KIND"
	CodeUnknownCondition    Code = "UNKNOWN_CONDITION"
	CodeDanglingEdge        Code = "DANGLING_EDGE"
	CodeDecisionExtraBranch Code = "DECISION_EXTRA_BRANCH"
	CodeDuplicateBranch     Code = "DUPLICATE_BRANCH"
	CodeBackwardEdge        Code = "BACKWARD_EDGE"
	CodeSelfLoop            Code = "SELF_LOOP"
	CodeCycleFallback       Code = "CYCLE_FALLBACK"
	CodeSchemaViolation     Code = "SCHEMA_VIOLATION"
)

// Diagnostic is a non-fatal finding about a process, surfaced to the caller
// alongside the layout.
type Diagnostic struct {
	Code     Code     `json:"code" bson:"code"`
	Severity Severity `json:"severity" bson:"severity"`
	NodeID   string   `json:"nodeId,omitempty" bson:"node_id,omitempty"`
	EdgeID   string   `json:"edgeId,omitempty" bson:"edge_id,omitempty"`
	Message  string   `json:"message" bson:"message"`
}

func (d Diagnostic) String() string {
	subject := d.NodeID
	if d.EdgeID != "" {
		subject = d.EdgeID
	}
	if subject == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, subject, d.Message)
}

// Diagnostics is an ordered list of findings.
type Diagnostics []Diagnostic

func (ds *Diagnostics) add(code Code, sev Severity, nodeID, edgeID, format string, args ...any) {
	*ds = append(*ds, Diagnostic{
		Code:     code,
		Severity: sev,
		NodeID:   nodeID,
		EdgeID:   edgeID,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Add appends a diagnostic.
func (ds *Diagnostics) Add(d Diagnostic) { *ds = append(*ds, d) }

// Has reports whether any diagnostic carries the given code.
func (ds Diagnostics) Has(code Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Count returns how many diagnostics have the given severity.
func (ds Diagnostics) Count(sev Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
