// Package pkg provides the core libraries for Stepflow process diagrams.
//
// # Overview
//
// Stepflow turns a process record (steps, decisions and the transitions
// between them) into diagram geometry: a box for every step, a routed
// orthogonal connector for every transition and a list of diagnostics for
// everything that had to be defaulted, dropped or laid out best-effort. The
// pkg directory is organized into four main areas:
//
//  1. Domain - [process], [layout], [route] and [diagram]
//  2. Graph substrate - [dag], [dag/transform] and [geom]
//  3. Output - [render/svg], [render/nodelink] and [render]
//  4. Plumbing - [pipeline], [cache], [config], [io] and [observability]
//
// # Architecture
//
// The typical data flow through Stepflow:
//
//	JSON / YAML / TOML record
//	         ↓
//	    [io] package (decode + schema check)
//	         ↓
//	    [process] package (adapt: defaults, edge classes, diagnostics)
//	         ↓
//	    [layout] package (layered or linear placement)
//	         ↓
//	    [route] package (connectors, arrowheads, side channels)
//	         ↓
//	    [diagram] package (styled, serializable result)
//	         ↓
//	    SVG / DOT / PNG / PDF / JSON output
//
// # Quick Start
//
// Lay out a record and render it:
//
//	import (
//	    "github.com/matzehuels/stepflow/pkg/pipeline"
//	    "github.com/matzehuels/stepflow/pkg/process"
//	    "github.com/matzehuels/stepflow/pkg/render/svg"
//	)
//
//	rec := process.Record{Nodes: []process.NodeRecord{
//	    {ID: "received", Type: "trigger"},
//	    {ID: "review"},
//	    {ID: "done", Type: "end"},
//	}}
//
//	opts := pipeline.Options{}
//	_ = opts.ValidateAndSetDefaults()
//	d := pipeline.BuildDiagram(rec, opts)
//	out := svg.Render(d)
//
// With caching and several formats at once, use a [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, rec, pipeline.Options{
//	    Formats: []string{"svg", "dot"},
//	})
//
// # Main Packages
//
// [process] - Record types and the adapter that normalizes raw input into a
// process graph. Unknown kinds, statuses and conditions are defaulted and
// reported, never rejected.
//
// [layout] - Strategy selection and placement. The layered strategy ranks
// steps by longest path and orders each rank to reduce crossings; cycles fall
// back to the linear strategy.
//
// [route] - Orthogonal connectors between node handles, including yes/no
// branch stubs and a side channel for backward and skipping edges.
//
// [diagram] - The assembled, styled result and its JSON encoding.
//
// [style] - Palettes for step status and edge class.
//
// [dag] - Directed graph organized into rows, with crossing counting.
// [dag/transform] assigns layers and subdivides long edges.
//
// [render/svg] draws diagrams natively; [render/nodelink] exports Graphviz
// DOT and renders it with go-graphviz; [render] rasterizes SVG to PNG and PDF.
//
// [pipeline] - Decode, layout and render with caching. Used by the CLI and the
// HTTP server so both behave the same.
//
// [cache] - File, Redis and MongoDB result caches behind one interface.
//
// [config] - Layered configuration (defaults, stepflow.yaml, STEPFLOW_*
// environment, flags).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [process]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/process
// [layout]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/layout
// [route]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/route
// [diagram]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/diagram
// [style]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/style
// [dag]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/dag/transform
// [geom]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/geom
// [render]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/stepflow/pkg/observability
package pkg
