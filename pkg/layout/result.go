package layout

import (
	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/process"
)

// NodeBox is the placed box of one step.
type NodeBox struct {
	ID    string
	Rect  geom.Rect
	Rank  int
	Order int
}

// Slot is a vertical lane reserved for a connector while it passes a rank
// it does not stop at.
type Slot struct {
	X      float64
	Top    float64
	Bottom float64
}

// Band is the vertical extent of one rank.
type Band struct {
	Top    float64
	Height float64
}

// Result is the geometry produced by a strategy. Nodes are in input order.
type Result struct {
	Strategy StrategyName
	Width    float64
	Height   float64
	Nodes    []NodeBox
	Bands    []Band
	// Lanes holds, per edge ID, the slots a long edge passes through from
	// top to bottom. Only layered layouts produce lanes.
	Lanes       map[string][]Slot
	Diagnostics process.Diagnostics

	index map[string]int
}

func newResult(strategy StrategyName, n int) *Result {
	return &Result{
		Strategy: strategy,
		Nodes:    make([]NodeBox, 0, n),
		Lanes:    make(map[string][]Slot),
		index:    make(map[string]int, n),
	}
}

func (r *Result) add(b NodeBox) {
	r.index[b.ID] = len(r.Nodes)
	r.Nodes = append(r.Nodes, b)
}

// Box returns the placed box of a step.
func (r *Result) Box(id string) (NodeBox, bool) {
	i, ok := r.index[id]
	if !ok {
		return NodeBox{}, false
	}
	return r.Nodes[i], true
}

// Rects returns every node box in input order.
func (r *Result) Rects() []geom.Rect {
	rects := make([]geom.Rect, len(r.Nodes))
	for i, n := range r.Nodes {
		rects[i] = n.Rect
	}
	return rects
}

// Bounds returns the union of all node boxes.
func (r *Result) Bounds() geom.Rect {
	if len(r.Nodes) == 0 {
		return geom.Rect{}
	}
	b := r.Nodes[0].Rect
	for _, n := range r.Nodes[1:] {
		b = b.Union(n.Rect)
	}
	return b
}
