package route

import (
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/process"
)

// All routes every edge of a laid-out graph in edge order. Edges whose
// endpoints are missing from the layout are skipped.
func All(g *process.Graph, res *layout.Result, cfg Config) []Route {
	router := NewRouter(cfg, res.Rects())
	routes := make([]Route, 0, len(g.Edges))
	for _, e := range g.Edges {
		src, okS := res.Box(e.Source)
		dst, okD := res.Box(e.Target)
		if !okS || !okD {
			continue
		}
		from, _ := g.Node(e.Source)
		routes = append(routes, router.Route(Request{
			EdgeID:       e.ID,
			Source:       src.Rect,
			Target:       dst.Rect,
			Kind:         e.Kind,
			Condition:    e.Condition,
			FromDecision: from.Kind == process.KindDecision,
			SelfLoop:     e.Source == e.Target,
			Lanes:        res.Lanes[e.ID],
		}))
	}
	return routes
}
