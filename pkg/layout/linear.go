package layout

import (
	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/process"
)

// Linear is the single-column strategy. Step i of the order is placed at
//
//	y = TopMargin + i*(rowHeight + LinearSpacing)
//
// where rowHeight is the tallest box, and every box is centred on the same
// vertical axis. Shorter boxes are centred within their row.
type Linear struct{}

// Name implements [Strategy].
func (Linear) Name() StrategyName { return StrategyLinear }

// Layout implements [Strategy] using input order. It never fails.
func (l Linear) Layout(g *process.Graph, cfg Config) (*Result, error) {
	cfg.SetDefaults()
	return l.layoutOrder(g, inputOrder(g), cfg), nil
}

func (Linear) layoutOrder(g *process.Graph, order []string, cfg Config) *Result {
	res := newResult(StrategyLinear, len(order))
	if len(order) == 0 {
		return res
	}

	var rowH, maxW float64
	for _, n := range g.Nodes {
		rowH = max(rowH, n.Height)
		maxW = max(maxW, n.Width)
	}
	axis := cfg.LeftMargin + maxW/2

	res.Bands = make([]Band, len(order))
	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
		res.Bands[i] = Band{Top: cfg.TopMargin + float64(i)*(rowH+cfg.LinearSpacing), Height: rowH}
	}
	for _, n := range g.Nodes {
		i := rank[n.ID]
		top := res.Bands[i].Top
		res.add(NodeBox{
			ID: n.ID,
			Rect: geom.Rect{
				X: axis - n.Width/2,
				Y: top + (rowH-n.Height)/2,
				W: n.Width,
				H: n.Height,
			},
			Rank: i,
		})
	}

	n := float64(len(order))
	res.Width = 2*cfg.LeftMargin + maxW
	res.Height = 2*cfg.TopMargin + n*rowH + (n-1)*cfg.LinearSpacing
	return res
}
