// Package render turns laid-out diagrams into files.
//
// # Overview
//
// Renderers consume a [diagram.Diagram] and never compute geometry of their
// own: every box, connector point and colour comes from the diagram. Two
// renderers are provided:
//
//   - [svg]: a native SVG painter that draws exactly the engine's geometry
//   - [nodelink]: a Graphviz DOT export, rendered in-process with go-graphviz
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	out := svg.Render(d)
//	pdf, err := render.ToPDF(out)
//	png, err := render.ToPNG(out, 2.0)  // 2x scale
//
// [diagram.Diagram]: github.com/matzehuels/stepflow/pkg/diagram.Diagram
// [svg]: github.com/matzehuels/stepflow/pkg/render/svg
// [nodelink]: github.com/matzehuels/stepflow/pkg/render/nodelink
package render
