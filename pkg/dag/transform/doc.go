// Package transform provides graph transformations that prepare a process
// graph for layered layout.
//
// # Layer Assignment
//
// [AssignLayers] computes the row (rank) of each node as the longest path
// from a source. It reports [dag.ErrGraphHasCycle] instead of producing a
// partial ranking when the graph is cyclic.
//
// # Back Edges
//
// [FindBackEdges] lists the edges that close cycles, which is what a caller
// reports when it falls back to a linear layout. [BreakCycles] removes them.
//
// # Edge Subdivision
//
// [Subdivide] breaks edges that span several rows into single-row hops by
// inserting narrow subdivider slots. The slots take part in ordering and
// coordinate assignment like regular nodes, which reserves a vertical lane
// for the connector so it does not run through a process step.
//
// # Usage
//
//	if err := transform.AssignLayers(g); err != nil {
//	    // cyclic: use a linear layout
//	}
//	chains := transform.Subdivide(g, 16)
package transform
