package transform

import "github.com/matzehuels/stepflow/pkg/dag"

// AssignLayers assigns every node a row equal to the length of the longest
// path reaching it from a source node.
//
// AssignLayers uses Kahn's topological traversal. Source nodes (in-degree 0)
// start at row 0 and each child is placed at one plus the maximum row of its
// parents, so:
//   - every source is at row 0, including the roots of disconnected parts
//   - all parents are strictly above their children
//   - a fan-in node sits below the deepest branch that reaches it
//
// The queue is seeded and extended in insertion order, which makes the
// traversal and therefore the result deterministic.
//
// # Cycles
//
// If some nodes never reach in-degree zero the graph contains a cycle.
// AssignLayers then leaves the graph's rows untouched and returns
// [dag.ErrGraphHasCycle]; callers use this to fall back to a linear layout
// instead of producing a partial layered one.
//
// # Performance
//
// Time complexity is O(V + E). Space complexity is O(V).
func AssignLayers(g *dag.DAG) error {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		visited++

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if visited < len(nodes) {
		return dag.ErrGraphHasCycle
	}
	g.SetRows(rows)
	return nil
}
