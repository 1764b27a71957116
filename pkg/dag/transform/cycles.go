package transform

import "github.com/matzehuels/stepflow/pkg/dag"

// FindBackEdges returns the edges that close a cycle, discovered by a
// depth-first search started from the sources and then from any node not
// yet visited. Both the start nodes and each node's outgoing edges are
// visited in insertion order, so the result is deterministic.
//
// Self loops are always reported. The graph is not modified.
func FindBackEdges(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	out := make(map[string][]dag.Edge)
	for _, e := range g.Edges() {
		out[e.From] = append(out[e.From], e)
	}

	color := make(map[string]int, g.NodeCount())
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, e := range out[node] {
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				backEdges = append(backEdges, e)
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	return backEdges
}

// BreakCycles removes the edges reported by [FindBackEdges] and returns them.
func BreakCycles(g *dag.DAG) []dag.Edge {
	back := FindBackEdges(g)
	for _, e := range back {
		g.RemoveEdge(e.ID)
	}
	return back
}
