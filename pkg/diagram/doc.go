// Package diagram defines the canonical wire format of a laid-out process.
//
// A [Diagram] is what leaves the engine: every step with its box, rank,
// resolved style and handle anchors, and every transition with its routed
// polyline, arrowhead and rendering hint. It is the payload of the HTTP API,
// the value stored in the layout cache, and the input of every renderer.
//
// # Building
//
// [Build] assembles a Diagram from the three engine stages:
//
//	g := process.Adapt(rec)
//	res := layout.Compute(g, layout.DefaultConfig())
//	routes := route.All(g, res, route.DefaultConfig())
//	d := diagram.Build(g, res, routes)
//
// # Serialization
//
// Diagrams carry JSON tags in camelCase, matching what a browser-side
// renderer expects, and BSON tags for document stores:
//
//	{
//	  "strategy": "linear",
//	  "width": 380, "height": 440,
//	  "nodes": [{"id": "1", "kind": "trigger", "box": {"x": 40, "y": 40, ...}}],
//	  "edges": [{"id": "1->2", "points": [...], "arrow": {...}}]
//	}
//
// Use [Marshal]/[Unmarshal] for bytes, [Write]/[Read] for streams and
// [WriteFile]/[ReadFile] for files.
//
// # Selection
//
// The diagram holds no selection state. A consumer that needs the full
// record of a clicked step looks it up by [Node.ID] with [Diagram.Node].
package diagram
