package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/stepflow/pkg/dag"
	"github.com/matzehuels/stepflow/pkg/dag/transform"
	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/process"
)

// Layered is the Sugiyama-style strategy for processes with branches.
//
// # Phases
//
//  1. Ranking: longest path from the sources ([transform.AssignLayers]).
//     Edges spanning several ranks are subdivided into narrow slots so the
//     connector gets a reserved lane.
//  2. Ordering: barycenter sweeps from the top, at most
//     Config.OrderingPasses times or until the order is stable. The best
//     ordering seen (fewest crossings) is kept, then refined by adjacent
//     swaps that strictly reduce crossings.
//  3. Coordinates: each rank is a horizontal band as tall as its tallest
//     step. Within a rank, boxes are packed left to right with the
//     intra-rank gap, each pulled toward the mean centre of its
//     predecessors. Yes-branch targets are pulled to the right of their
//     decision so they do not sit directly beneath it.
type Layered struct{}

// Name implements [Strategy].
func (Layered) Name() StrategyName { return StrategyLayered }

// Layout implements [Strategy]. It returns [ErrCyclic] if the graph has a
// cycle and never produces a partial layout.
func (Layered) Layout(g *process.Graph, cfg Config) (*Result, error) {
	cfg.SetDefaults()
	d := buildDAG(g)
	if err := transform.AssignLayers(d); err != nil {
		return nil, ErrCyclic
	}
	yes := yesEdges(d)
	lanes := transform.Subdivide(d, cfg.DummyWidth)
	for edgeID, chain := range lanes {
		if yes[edgeID] {
			for _, id := range chain {
				yes[id] = true
			}
		}
	}

	l := &layering{g: d, cfg: cfg, yes: yes}
	l.initialOrder()
	l.order()
	l.transpose()
	l.coordinates()

	res := newResult(StrategyLayered, len(g.Nodes))
	res.Bands = l.bands
	for _, n := range g.Nodes {
		node, _ := d.Node(n.ID)
		res.add(NodeBox{ID: n.ID, Rect: l.rects[n.ID], Rank: node.Row, Order: l.pos[n.ID]})
	}
	for edgeID, chain := range lanes {
		slots := make([]Slot, len(chain))
		for i, id := range chain {
			node, _ := d.Node(id)
			r := l.rects[id]
			band := l.bands[node.Row]
			slots[i] = Slot{X: r.CenterX(), Top: band.Top, Bottom: band.Top + band.Height}
		}
		res.Lanes[edgeID] = slots
	}
	res.Width = l.right + cfg.LeftMargin
	if last := len(l.bands) - 1; last >= 0 {
		res.Height = l.bands[last].Top + l.bands[last].Height + cfg.TopMargin
	}
	return res, nil
}

// yesEdges returns the IDs of yes branches leaving a decision.
func yesEdges(d *dag.DAG) map[string]bool {
	yes := make(map[string]bool)
	for _, e := range d.Edges() {
		if b, _ := e.Meta[metaYesBranch].(bool); b {
			yes[e.ID] = true
		}
	}
	return yes
}

type layering struct {
	g   *dag.DAG
	cfg Config
	// yes holds yes-branch edge IDs and the subdivider IDs on their lanes.
	yes map[string]bool
	in  map[string][]dag.Edge

	pos   map[string]int
	bands []Band
	rects map[string]geom.Rect
	right float64
}

// yesSide reports whether a node is the head of a yes-branch segment:
// either the target of a yes edge or a slot on a yes edge's lane.
func (l *layering) yesSide(id string) bool {
	if l.yes[id] {
		return true
	}
	for _, e := range l.incoming(id) {
		if l.yes[e.ID] {
			return true
		}
	}
	return false
}

func (l *layering) incoming(id string) []dag.Edge {
	if l.in == nil {
		l.in = make(map[string][]dag.Edge, l.g.NodeCount())
		for _, e := range l.g.Edges() {
			l.in[e.To] = append(l.in[e.To], e)
		}
	}
	return l.in[id]
}

func (l *layering) initialOrder() {
	for _, r := range l.g.RowIDs() {
		nodes := slices.Clone(l.g.NodesInRow(r))
		slices.SortStableFunc(nodes, func(a, b *dag.Node) int {
			if c := cmp.Compare(a.Order, b.Order); c != 0 {
				return c
			}
			// Slots share their source's order; keep steps first.
			return cmp.Compare(a.Kind, b.Kind)
		})
		l.g.SetRowOrder(r, dag.NodeIDs(nodes))
	}
	l.snapshotPositions()
}

func (l *layering) snapshotPositions() {
	l.pos = make(map[string]int, l.g.NodeCount())
	for _, r := range l.g.RowIDs() {
		for i, n := range l.g.NodesInRow(r) {
			l.pos[n.ID] = i
		}
	}
}

func (l *layering) currentOrders() map[int][]string {
	orders := make(map[int][]string, l.g.RowCount())
	for _, r := range l.g.RowIDs() {
		orders[r] = dag.NodeIDs(l.g.NodesInRow(r))
	}
	return orders
}

func (l *layering) restore(orders map[int][]string) {
	for r, ids := range orders {
		l.g.SetRowOrder(r, ids)
	}
	l.snapshotPositions()
}

// order runs top-down barycenter sweeps. Rank 0 keeps input order so that
// disconnected processes stay left to right as given.
func (l *layering) order() {
	best := l.currentOrders()
	bestCrossings := dag.CountCrossings(l.g)

	for pass := 0; pass < l.cfg.OrderingPasses; pass++ {
		changed := false
		for _, r := range l.g.RowIDs() {
			if r == 0 {
				continue
			}
			if l.sweepRow(r) {
				changed = true
			}
		}
		// Ties go to the later sweep, which has applied the branch-side rule.
		if c := dag.CountCrossings(l.g); c <= bestCrossings {
			best, bestCrossings = l.currentOrders(), c
		}
		if !changed {
			break
		}
	}
	l.restore(best)
}

type ranked struct {
	node  *dag.Node
	bary  float64
	side  int
	index int
}

func (l *layering) sweepRow(r int) bool {
	nodes := l.g.NodesInRow(r)
	items := make([]ranked, len(nodes))
	for i, n := range nodes {
		items[i] = ranked{node: n, bary: l.barycenter(n.ID, float64(i)), index: i}
		if l.yesSide(n.ID) {
			items[i].side = 1
		}
	}
	slices.SortStableFunc(items, func(a, b ranked) int {
		if c := cmp.Compare(a.bary, b.bary); c != 0 {
			return c
		}
		if c := cmp.Compare(a.side, b.side); c != 0 {
			return c
		}
		if c := cmp.Compare(a.node.Order, b.node.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	changed := false
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.node.ID
		if l.pos[it.node.ID] != i {
			changed = true
		}
		l.pos[it.node.ID] = i
	}
	l.g.SetRowOrder(r, ids)
	return changed
}

// barycenter is the mean position of a node's parents in the row above.
// Nodes without parents keep their current position.
func (l *layering) barycenter(id string, fallback float64) float64 {
	parents := l.g.Parents(id)
	if len(parents) == 0 {
		return fallback
	}
	sum := 0.0
	for _, p := range parents {
		sum += float64(l.pos[p])
	}
	return sum / float64(len(parents))
}

// transpose swaps adjacent nodes while that strictly reduces crossings with
// the row above. Bounded by the number of nodes so it always terminates.
func (l *layering) transpose() {
	for iter := 0; iter < l.g.NodeCount(); iter++ {
		improved := false
		for _, r := range l.g.RowIDs() {
			if r == 0 {
				continue
			}
			upper := dag.PosMap(dag.NodeIDs(l.g.NodesInRow(r - 1)))
			ids := dag.NodeIDs(l.g.NodesInRow(r))
			for i := 0; i+1 < len(ids); i++ {
				before := dag.CountPairCrossings(l.g, ids[i], ids[i+1], upper, true)
				after := dag.CountPairCrossings(l.g, ids[i+1], ids[i], upper, true)
				if after < before {
					ids[i], ids[i+1] = ids[i+1], ids[i]
					improved = true
				}
			}
			l.g.SetRowOrder(r, ids)
		}
		if !improved {
			break
		}
	}
	l.snapshotPositions()
}

func (l *layering) coordinates() {
	rows := l.g.RowIDs()
	l.bands = make([]Band, len(rows))
	top := l.cfg.TopMargin
	for i, r := range rows {
		h := 0.0
		for _, n := range l.g.NodesInRow(r) {
			h = max(h, n.Height)
		}
		l.bands[i] = Band{Top: top, Height: h}
		top += h + l.cfg.InterRankGap
	}

	l.rects = make(map[string]geom.Rect, l.g.NodeCount())
	for i, r := range rows {
		band := l.bands[i]
		prevRight, first := 0.0, true
		for _, n := range l.g.NodesInRow(r) {
			x := l.cfg.LeftMargin
			if first {
				if c, ok := l.desiredCenter(n); ok {
					x = c - n.Width/2
				}
			} else {
				x = prevRight + l.cfg.IntraRankGap
				if c, ok := l.desiredCenter(n); ok {
					x = max(x, c-n.Width/2)
				}
			}
			first = false
			l.rects[n.ID] = geom.Rect{X: x, Y: band.Top + (band.Height-n.Height)/2, W: n.Width, H: n.Height}
			prevRight = x + n.Width
		}
	}

	// Shift everything so the leftmost box starts at the margin.
	minX := 0.0
	first := true
	for _, r := range l.rects {
		if first || r.X < minX {
			minX, first = r.X, false
		}
	}
	dx := l.cfg.LeftMargin - minX
	l.right = 0
	for id, r := range l.rects {
		r.X += dx
		l.rects[id] = r
		l.right = max(l.right, r.Right())
	}
}

// desiredCenter is the mean of the predecessors' centres, with yes-branch
// segments leaving a decision shifted right by half the decision, one gap
// and half the node.
func (l *layering) desiredCenter(n *dag.Node) (float64, bool) {
	in := l.incoming(n.ID)
	if len(in) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, e := range in {
		pr := l.rects[e.From]
		c := pr.CenterX()
		if l.isDecision(e.From) && (l.yes[e.ID] || l.yes[n.ID]) {
			c += pr.W/2 + l.cfg.IntraRankGap + n.Width/2
		}
		sum += c
	}
	return sum / float64(len(in)), true
}

func (l *layering) isDecision(id string) bool {
	n, ok := l.g.Node(id)
	if !ok {
		return false
	}
	k, _ := n.Meta["kind"].(process.Kind)
	return k == process.KindDecision
}
