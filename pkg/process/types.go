package process

import "strings"

// =============================================================================
// Input Record
// =============================================================================

// Record is a process as supplied by the collaborator that owns it: an
// ordered list of steps and an optional list of transitions.
//
// Edges distinguishes "no edges array" (nil, a chain is synthesized) from
// "an empty edges array" (non-nil and empty, the steps stay unconnected).
type Record struct {
	Name  string        `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Nodes []NodeRecord  `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges *[]EdgeRecord `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`
}

// NodeRecord is one raw process step. Every field except ID is optional and
// missing values are defaulted, never rejected.
type NodeRecord struct {
	ID                 string              `json:"id" yaml:"id" toml:"id"`
	Type               string              `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Kind               string              `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Status             string              `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	Title              string              `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Description        string              `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Actors             []string            `json:"actors,omitempty" yaml:"actors,omitempty" toml:"actors,omitempty"`
	Gap                *string             `json:"gap,omitempty" yaml:"gap,omitempty" toml:"gap,omitempty"`
	OperationalDetails *OperationalDetails `json:"operationalDetails,omitempty" yaml:"operationalDetails,omitempty" toml:"operationalDetails,omitempty"`
}

// EdgeRecord is one raw transition between two steps.
type EdgeRecord struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Source    string `json:"source" yaml:"source" toml:"source"`
	Target    string `json:"target" yaml:"target" toml:"target"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty" toml:"condition,omitempty"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// OperationalDetails is carried through untouched. Layout only cares whether
// it is present.
type OperationalDetails struct {
	RequiredData []string          `json:"requiredData,omitempty" yaml:"requiredData,omitempty" toml:"requiredData,omitempty" bson:"requiredData,omitempty"`
	Actions      []string          `json:"actions,omitempty" yaml:"actions,omitempty" toml:"actions,omitempty" bson:"actions,omitempty"`
	Contacts     map[string]string `json:"contacts,omitempty" yaml:"contacts,omitempty" toml:"contacts,omitempty" bson:"contacts,omitempty"`
	Timeline     string            `json:"timeline,omitempty" yaml:"timeline,omitempty" toml:"timeline,omitempty" bson:"timeline,omitempty"`
}

// SetEdges sets the edges array, marking it as explicitly supplied.
func (r *Record) SetEdges(edges []EdgeRecord) {
	if edges == nil {
		edges = []EdgeRecord{}
	}
	r.Edges = &edges
}

// =============================================================================
// Enumerations
// =============================================================================

// Kind is the closed set of step shapes.
type Kind string

const (
	KindTrigger  Kind = "trigger"
	KindAction   Kind = "action"
	KindDecision Kind = "decision"
	KindEnd      Kind = "end"
)

// parseKind recognizes an explicit type. ok is false for an empty or
// unknown value. "start" is accepted as a trigger.
func parseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trigger", "start":
		return KindTrigger, true
	case "action", "task", "step":
		return KindAction, true
	case "decision":
		return KindDecision, true
	case "end":
		return KindEnd, true
	}
	return "", false
}

// Status drives the visual treatment of a step.
type Status string

const (
	StatusDefault     Status = "default"
	StatusTrigger     Status = "trigger"
	StatusActive      Status = "active"
	StatusWarning     Status = "warning"
	StatusCriticalGap Status = "critical-gap"
	StatusCompleted   Status = "completed"
)

// ParseStatus normalizes a raw status. "current" is an alias of active and
// "critical" of critical-gap. ok is false for unknown values, which map to
// StatusDefault.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return StatusDefault, true
	case "trigger":
		return StatusTrigger, true
	case "current", "active":
		return StatusActive, true
	case "warning":
		return StatusWarning, true
	case "critical-gap", "critical_gap", "critical":
		return StatusCriticalGap, true
	case "completed", "complete", "done":
		return StatusCompleted, true
	}
	return StatusDefault, false
}

// Condition is the outcome a branch edge is taken on.
type Condition string

const (
	ConditionNone Condition = ""
	ConditionYes  Condition = "yes"
	ConditionNo   Condition = "no"
)

// ParseCondition normalizes a raw condition. true and false are accepted as
// yes and no; ok is false for anything else, which maps to ConditionNone.
func ParseCondition(s string) (Condition, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "none":
		return ConditionNone, true
	case "yes", "true":
		return ConditionYes, true
	case "no", "false":
		return ConditionNo, true
	}
	return ConditionNone, false
}

// EdgeKind is the derived classification of a transition.
type EdgeKind string

const (
	EdgeSequential EdgeKind = "sequential"
	EdgeBranch     EdgeKind = "branch"
	EdgeError      EdgeKind = "error"
)

// =============================================================================
// Dimensions
// =============================================================================

// Fixed box sizes in logical units. The core never resizes a box for its text.
const (
	DecisionSize = 128.0
	BoxWidth     = 300.0
	BoxHeight    = 100.0
)

// Dimensions returns the fixed width and height of a step of the given kind.
func Dimensions(k Kind) (width, height float64) {
	if k == KindDecision {
		return DecisionSize, DecisionSize
	}
	return BoxWidth, BoxHeight
}
