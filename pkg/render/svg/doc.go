// Package svg paints a [diagram.Diagram] as a standalone SVG document.
//
// The painter adds no geometry of its own. Boxes, connector polylines and
// arrowheads are drawn at the coordinates the layout engine produced, and
// colours come from the resolved node and edge styles. Shapes follow the
// step kind:
//
//   - decision: a diamond inscribed in its square box
//   - end: a pill with fully rounded ends
//   - trigger and action: a rounded card
//
// Error connectors are dashed. Branch connectors carry their Yes/No label
// next to the source handle unless labels are turned off with
// [WithShowLabels].
//
//	out := svg.Render(d, svg.WithBackground("#f8fafc"))
//
// [diagram.Diagram]: github.com/matzehuels/stepflow/pkg/diagram.Diagram
package svg
