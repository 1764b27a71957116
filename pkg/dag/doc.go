// Package dag provides a directed graph organized into rows (ranks), used as
// the substrate for layered process layouts.
//
// # Overview
//
// A process diagram is drawn top to bottom: triggers first, then each step
// below the steps that lead into it. This package provides the data structure
// that holds those steps as nodes, the transitions as edges, and the rank of
// every node as its Row.
//
// Every accessor that returns a slice returns it in insertion order, and each
// row keeps an explicit left-to-right order. Layout algorithms built on this
// package are therefore deterministic: the same input always produces the
// same rows, the same orders and the same coordinates.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "receive", Order: 0})
//	g.AddNode(dag.Node{ID: "approve", Order: 1})
//	g.AddEdge(dag.Edge{ID: "e1", From: "receive", To: "approve"})
//
// Query the structure with [DAG.Children], [DAG.Parents], [DAG.NodesInRow]
// and related methods. [DAG.Validate] reports cycles.
//
// # Node Types
//
//   - [NodeKindRegular]: a process step
//   - [NodeKindSubdivider]: a synthetic slot that breaks an edge spanning
//     several rows into single-row segments
//
// Subdividers keep the ID of the edge they belong to in [Node.MasterID], so a
// router can turn a chain of subdividers back into waypoints of one connector.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between
// consecutive rows with a Fenwick tree in O(E log V). [CountPairCrossings]
// supports local adjacent-swap refinement.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// The [transform] subpackage provides layer assignment, back-edge detection
// and edge subdivision.
//
// [transform]: github.com/matzehuels/stepflow/pkg/dag/transform
package dag
