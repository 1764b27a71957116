package style

import "github.com/matzehuels/stepflow/pkg/process"

// Edge stroke colours.
const (
	StrokeNeutral = "#94a3b8"
	StrokeGreen   = "#16a34a"
	StrokeRed     = "#dc2626"
)

// EdgeStyle is the rendering hint for one transition.
type EdgeStyle struct {
	Stroke    string `json:"stroke" bson:"stroke"`
	Dashed    bool   `json:"dashed" bson:"dashed"`
	Label     string `json:"label,omitempty" bson:"label,omitempty"`
	ClassName string `json:"className" bson:"class_name"`
}

type edgeKey struct {
	kind process.EdgeKind
	cond process.Condition
}

var edgeStyles = map[edgeKey]EdgeStyle{
	{process.EdgeSequential, process.ConditionNone}: {Stroke: StrokeNeutral, ClassName: "edge--sequential"},
	{process.EdgeBranch, process.ConditionYes}:      {Stroke: StrokeGreen, Label: "Yes", ClassName: "edge--yes"},
	{process.EdgeBranch, process.ConditionNo}:       {Stroke: StrokeRed, Label: "No", ClassName: "edge--no"},
	{process.EdgeError, process.ConditionNone}:      {Stroke: StrokeRed, Dashed: true, ClassName: "edge--error"},
}

// ForEdge looks up the closed edge style table. Combinations outside the
// table render as sequential.
func ForEdge(kind process.EdgeKind, cond process.Condition) EdgeStyle {
	if s, ok := edgeStyles[edgeKey{kind, cond}]; ok {
		return s
	}
	return edgeStyles[edgeKey{process.EdgeSequential, process.ConditionNone}]
}
