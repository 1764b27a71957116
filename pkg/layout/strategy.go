package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/stepflow/pkg/dag"
	"github.com/matzehuels/stepflow/pkg/dag/transform"
	"github.com/matzehuels/stepflow/pkg/process"
)

// ErrCyclic is returned by [Layered] when the process graph has a cycle.
// [Compute] handles it by falling back to [Linear].
var ErrCyclic = fmt.Errorf("layered layout: %w", dag.ErrGraphHasCycle)

// Strategy places the steps of a process graph.
type Strategy interface {
	Name() StrategyName
	Layout(g *process.Graph, cfg Config) (*Result, error)
}

// Compute lays out a process graph. It never fails: cyclic graphs and
// forced linear layouts use [Linear], simple chains use [Linear] in path
// order, everything else uses [Layered]. The returned diagnostics cover only
// layout findings; the graph's own diagnostics are left on the graph.
func Compute(g *process.Graph, cfg Config) *Result {
	cfg.SetDefaults()
	if len(g.Nodes) == 0 {
		return newResult(StrategyLinear, 0)
	}

	d := buildDAG(g)
	if err := d.Validate(); errors.Is(err, dag.ErrGraphHasCycle) {
		res := Linear{}.layoutOrder(g, inputOrder(g), cfg)
		reportCycle(res, d)
		reportBackward(res, g)
		return res
	}

	var res *Result
	switch cfg.Strategy {
	case StrategyLinear:
		res = Linear{}.layoutOrder(g, inputOrder(g), cfg)
	case StrategyAuto:
		if path, ok := chainOrder(d); ok {
			res = Linear{}.layoutOrder(g, path, cfg)
		}
	}
	if res == nil {
		var err error
		if res, err = (Layered{}).Layout(g, cfg); err != nil {
			// Validate already ruled out cycles; keep the contract anyway.
			res = Linear{}.layoutOrder(g, inputOrder(g), cfg)
			reportCycle(res, d)
		}
	}
	reportBackward(res, g)
	return res
}

func reportCycle(res *Result, d *dag.DAG) {
	back := transform.FindBackEdges(d)
	ids := make([]string, len(back))
	for i, e := range back {
		ids[i] = e.ID
	}
	res.Diagnostics.Add(process.Diagnostic{
		Code:     process.CodeCycleFallback,
		Severity: process.SeverityInfo,
		Message:  fmt.Sprintf("process contains a cycle (closed by %s), using linear layout", strings.Join(ids, ", ")),
	})
}

// reportBackward flags branch edges whose target is not ranked below their
// source. Only linear layouts can produce them.
func reportBackward(res *Result, g *process.Graph) {
	for _, e := range g.Edges {
		if e.Kind != process.EdgeBranch {
			continue
		}
		src, _ := res.Box(e.Source)
		dst, _ := res.Box(e.Target)
		if dst.Rank > src.Rank {
			continue
		}
		res.Diagnostics.Add(process.Diagnostic{
			Code:     process.CodeBackwardEdge,
			Severity: process.SeverityAnomaly,
			NodeID:   e.Source,
			EdgeID:   e.ID,
			Message:  fmt.Sprintf("%s branch leads back to %q", e.Condition, e.Target),
		})
	}
}

// buildDAG mirrors the process graph into a row-indexed DAG. Edge metadata
// records which edges are yes branches leaving a decision.
func buildDAG(g *process.Graph) *dag.DAG {
	d := dag.New(dag.Metadata{"name": g.Name})
	for _, n := range g.Nodes {
		_ = d.AddNode(dag.Node{
			ID:     n.ID,
			Order:  n.Index,
			Width:  n.Width,
			Height: n.Height,
			Meta:   dag.Metadata{"kind": n.Kind},
		})
	}
	for _, e := range g.Edges {
		src, _ := g.Node(e.Source)
		yes := src.Kind == process.KindDecision && e.Condition == process.ConditionYes
		_ = d.AddEdge(dag.Edge{
			ID:   e.ID,
			From: e.Source,
			To:   e.Target,
			Meta: dag.Metadata{metaYesBranch: yes},
		})
	}
	return d
}

const metaYesBranch = "yes_branch"

func inputOrder(g *process.Graph) []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// chainOrder reports whether an acyclic graph is a single simple path and
// returns its nodes in path order.
func chainOrder(d *dag.DAG) ([]string, bool) {
	sources := d.Sources()
	if len(sources) != 1 || d.EdgeCount() != d.NodeCount()-1 {
		return nil, false
	}
	for _, n := range d.Nodes() {
		if d.InDegree(n.ID) > 1 || d.OutDegree(n.ID) > 1 {
			return nil, false
		}
	}
	path := make([]string, 0, d.NodeCount())
	for id := sources[0].ID; ; {
		path = append(path, id)
		children := d.Children(id)
		if len(children) == 0 {
			break
		}
		id = children[0]
	}
	return path, len(path) == d.NodeCount()
}
