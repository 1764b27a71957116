// Package nodelink exports process diagrams as Graphviz node-link graphs.
//
// # Overview
//
// The native [svg] renderer draws the engine's own geometry. This package
// instead hands the diagram's structure to Graphviz, which is useful when a
// diagram should be post-processed with standard Graphviz tooling or
// compared against Graphviz's own layout. Ranks computed by the engine are
// kept as rank=same groups, and node and edge colours come from the
// resolved styles.
//
// # Usage
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include kind, status and actors
//   - HideLabels: connector labels are omitted
//
// [RenderSVG] runs Graphviz in-process through go-graphviz, so no system
// Graphviz installation is needed.
//
// [svg]: github.com/matzehuels/stepflow/pkg/render/svg
package nodelink
