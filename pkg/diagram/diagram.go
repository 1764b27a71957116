package diagram

import (
	"math"

	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/process"
	"github.com/matzehuels/stepflow/pkg/route"
	"github.com/matzehuels/stepflow/pkg/style"
)

// Margin is kept free to the right of and below the outermost route point.
const Margin = 20.0

// =============================================================================
// Diagram Types
// =============================================================================

// Diagram is a fully laid-out and styled process.
type Diagram struct {
	Name        string              `json:"name,omitempty" bson:"name,omitempty"`
	Strategy    layout.StrategyName `json:"strategy" bson:"strategy"`
	Width       float64             `json:"width" bson:"width"`
	Height      float64             `json:"height" bson:"height"`
	Nodes       []Node              `json:"nodes" bson:"nodes"`
	Edges       []Edge              `json:"edges" bson:"edges"`
	Diagnostics process.Diagnostics `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// Node is a placed, styled step.
type Node struct {
	ID          string                      `json:"id" bson:"id"`
	Kind        process.Kind                `json:"kind" bson:"kind"`
	Status      process.Status              `json:"status" bson:"status"`
	Title       string                      `json:"title,omitempty" bson:"title,omitempty"`
	Description string                      `json:"description,omitempty" bson:"description,omitempty"`
	Actors      []string                    `json:"actors,omitempty" bson:"actors,omitempty"`
	Gap         string                      `json:"gap,omitempty" bson:"gap,omitempty"`
	HasDetails  bool                        `json:"hasDetails" bson:"has_details"`
	Details     *process.OperationalDetails `json:"operationalDetails,omitempty" bson:"operational_details,omitempty"`
	Box         geom.Rect                   `json:"box" bson:"box"`
	Rank        int                         `json:"rank" bson:"rank"`
	Order       int                         `json:"order" bson:"order"`
	Style       style.NodeStyle             `json:"style" bson:"style"`
	Handles     map[geom.Handle]geom.Point  `json:"handles" bson:"handles"`
}

// Edge is a routed, styled transition.
type Edge struct {
	ID           string            `json:"id" bson:"id"`
	Source       string            `json:"source" bson:"source"`
	Target       string            `json:"target" bson:"target"`
	Kind         process.EdgeKind  `json:"kind" bson:"kind"`
	Condition    process.Condition `json:"condition,omitempty" bson:"condition,omitempty"`
	Label        string            `json:"label,omitempty" bson:"label,omitempty"`
	Synthesized  bool              `json:"synthesized,omitempty" bson:"synthesized,omitempty"`
	Points       []geom.Point      `json:"points" bson:"points"`
	Arrow        route.Arrow       `json:"arrow" bson:"arrow"`
	SourceHandle geom.Handle       `json:"sourceHandle" bson:"source_handle"`
	TargetHandle geom.Handle       `json:"targetHandle" bson:"target_handle"`
	Channel      bool              `json:"channel,omitempty" bson:"channel,omitempty"`
	Style        style.EdgeStyle   `json:"style" bson:"style"`
}

// Node returns the step with the given ID.
func (d Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Ranks returns the number of distinct ranks.
func (d Diagram) Ranks() int {
	ranks := make(map[int]struct{})
	for _, n := range d.Nodes {
		ranks[n.Rank] = struct{}{}
	}
	return len(ranks)
}

// =============================================================================
// Building
// =============================================================================

// Build assembles a diagram from an adapted graph, its layout and its routes.
// Graph diagnostics come first, followed by those raised during layout. The
// canvas grows to cover connectors routed outside the node area.
func Build(g *process.Graph, res *layout.Result, routes []route.Route) Diagram {
	d := Diagram{
		Name:     g.Name,
		Strategy: res.Strategy,
		Width:    res.Width,
		Height:   res.Height,
		Nodes:    make([]Node, 0, len(g.Nodes)),
		Edges:    make([]Edge, 0, len(routes)),
	}
	d.Diagnostics = append(d.Diagnostics, g.Diagnostics...)
	d.Diagnostics = append(d.Diagnostics, res.Diagnostics...)

	for _, n := range g.Nodes {
		box, ok := res.Box(n.ID)
		if !ok {
			continue
		}
		handles := make(map[geom.Handle]geom.Point)
		for _, h := range style.Handles(n.Kind) {
			handles[h] = box.Rect.Anchor(h)
		}
		d.Nodes = append(d.Nodes, Node{
			ID:          n.ID,
			Kind:        n.Kind,
			Status:      n.Status,
			Title:       n.Title,
			Description: n.Description,
			Actors:      n.Actors,
			Gap:         n.Gap,
			HasDetails:  n.HasDetails(),
			Details:     n.Details,
			Box:         box.Rect,
			Rank:        box.Rank,
			Order:       box.Order,
			Style:       style.Resolve(n),
			Handles:     handles,
		})
	}

	edges := make(map[string]process.Edge, len(g.Edges))
	for _, e := range g.Edges {
		edges[e.ID] = e
	}
	for _, r := range routes {
		e, ok := edges[r.EdgeID]
		if !ok {
			continue
		}
		d.Edges = append(d.Edges, Edge{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			Kind:         e.Kind,
			Condition:    e.Condition,
			Label:        e.Label,
			Synthesized:  e.Synthesized,
			Points:       r.Points,
			Arrow:        r.Arrow,
			SourceHandle: r.SourceHandle,
			TargetHandle: r.TargetHandle,
			Channel:      r.Channel,
			Style:        r.Style,
		})
		for _, p := range r.Points {
			d.grow(p)
		}
		d.grow(r.Arrow.Left)
		d.grow(r.Arrow.Right)
		d.grow(r.Arrow.Tip)
	}
	return d
}

func (d *Diagram) grow(p geom.Point) {
	d.Width = math.Max(d.Width, p.X+Margin)
	d.Height = math.Max(d.Height, p.Y+Margin)
}
