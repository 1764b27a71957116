package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/stepflow/pkg/diagram"
	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/process"
)

// Defaults for the render options.
const (
	DefaultBackground = "#ffffff"
	DefaultFontFamily = "Inter, ui-sans-serif, system-ui, sans-serif"
)

const (
	cardRadius   = 12.0
	strokeWidth  = 2.0
	edgeWidth    = 2.0
	textPadding  = 16.0
	labelOffset  = 6.0
	detailRadius = 4.0
)

const edgeCSS = `
    .edge { fill: none; stroke-linejoin: round; }
    .node text { pointer-events: none; }
    .node--critical .gap { font-weight: bold; }`

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	background string
	fontFamily string
	showLabels bool
}

// WithBackground sets the canvas fill. An empty string leaves the canvas
// transparent.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithFontFamily sets the CSS font-family used for all text.
func WithFontFamily(family string) Option {
	return func(r *renderer) {
		if family != "" {
			r.fontFamily = family
		}
	}
}

// WithShowLabels toggles connector labels.
func WithShowLabels(show bool) Option { return func(r *renderer) { r.showLabels = show } }

// Render paints d as an SVG document. Nodes are drawn above connectors so
// that arrowheads end cleanly on the box border.
func Render(d diagram.Diagram, opts ...Option) []byte {
	r := renderer{
		background: DefaultBackground,
		fontFamily: DefaultFontFamily,
		showLabels: true,
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		d.Width, d.Height, d.Width, d.Height, escapeXML(r.fontFamily))
	if d.Name != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(d.Name))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", edgeCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range d.Edges {
		r.renderEdge(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range d.Nodes {
		r.renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// Edges
// =============================================================================

func (r *renderer) renderEdge(buf *bytes.Buffer, e diagram.Edge) {
	if len(e.Points) < 2 {
		return
	}
	dash := ""
	if e.Style.Dashed {
		dash = ` stroke-dasharray="6 4"`
	}
	fmt.Fprintf(buf, `    <g id="edge-%s" class="edge-group">`+"\n", escapeXML(e.ID))
	fmt.Fprintf(buf, `      <polyline class="edge %s" points="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		e.Style.ClassName, formatPoints(e.Points), e.Style.Stroke, edgeWidth, dash)
	fmt.Fprintf(buf, `      <polygon class="arrow" points="%s" fill="%s"/>`+"\n",
		formatPoints([]geom.Point{e.Arrow.Tip, e.Arrow.Left, e.Arrow.Right}), e.Style.Stroke)

	if r.showLabels {
		if label := edgeLabel(e); label != "" {
			p := labelAnchor(e)
			fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-size="12" font-weight="600" fill="%s">%s</text>`+"\n",
				p.X, p.Y, e.Style.Stroke, escapeXML(label))
		}
	}
	buf.WriteString("    </g>\n")
}

// edgeLabel prefers the styled branch label over free text.
func edgeLabel(e diagram.Edge) string {
	if e.Style.Label != "" {
		return e.Style.Label
	}
	if e.Synthesized {
		return ""
	}
	return e.Label
}

// labelAnchor places a label just beside the first segment of a connector.
func labelAnchor(e diagram.Edge) geom.Point {
	a, b := e.Points[0], e.Points[1]
	if a.Y == b.Y {
		return geom.Pt((a.X+b.X)/2-labelOffset, a.Y-labelOffset)
	}
	return geom.Pt(a.X+labelOffset, (a.Y+b.Y)/2)
}

func formatPoints(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// Nodes
// =============================================================================

func (r *renderer) renderNode(buf *bytes.Buffer, n diagram.Node) {
	s := n.Style
	fmt.Fprintf(buf, `    <g id="node-%s" class="node %s">`+"\n", escapeXML(n.ID), s.ClassName)
	r.renderShape(buf, n)

	title := n.Title
	if title == "" {
		title = n.ID
	}
	b := n.Box
	switch n.Kind {
	case process.KindDecision:
		// the diamond leaves about half the box width for text
		avail := b.W/2 + textPadding
		fs := fontSizeFor(avail, len(title))
		writeText(buf, b.CenterX(), b.CenterY(), fs, "600", s.Text, truncate(title, avail, fs))
	default:
		avail := b.W - 2*textPadding
		fs := fontSizeFor(avail, len(title))
		y := b.CenterY()
		if n.Description != "" {
			y = b.Y + b.H*0.38
		}
		writeText(buf, b.CenterX(), y, fs, "600", s.Text, truncate(title, avail, fs))
		if n.Description != "" {
			writeText(buf, b.CenterX(), b.Y+b.H*0.62, fontSizeMin+2, "400", s.Text,
				truncate(n.Description, avail, fontSizeMin+2))
		}
		if len(n.Actors) > 0 {
			actors := strings.Join(n.Actors, ", ")
			writeText(buf, b.CenterX(), b.Bottom()-textPadding/2, fontSizeMin, "400", s.Text,
				truncate(actors, avail, fontSizeMin))
		}
	}

	if n.Gap != "" {
		fmt.Fprintf(buf, `      <text class="gap" x="%.1f" y="%.1f" font-size="%.1f" fill="%s"><title>%s</title>!</text>`+"\n",
			b.X+textPadding/2, b.Y+textPadding, fontSizeMax, s.Text, escapeXML(n.Gap))
	}
	if n.HasDetails {
		fmt.Fprintf(buf, `      <circle class="details" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			b.Right()-textPadding/2, b.Y+textPadding/2, detailRadius, s.Stroke)
	}
	buf.WriteString("    </g>\n")
}

func (r *renderer) renderShape(buf *bytes.Buffer, n diagram.Node) {
	b, s := n.Box, n.Style
	switch n.Kind {
	case process.KindDecision:
		pts := []geom.Point{b.Anchor(geom.Top), b.Anchor(geom.Right), b.Anchor(geom.Bottom), b.Anchor(geom.Left)}
		fmt.Fprintf(buf, `      <polygon points="%s" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			formatPoints(pts), s.Fill, s.Stroke, strokeWidth)
	default:
		rx := cardRadius
		if n.Kind == process.KindEnd {
			rx = b.H / 2
		}
		fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			b.X, b.Y, b.W, b.H, rx, s.Fill, s.Stroke, strokeWidth)
	}
}

func writeText(buf *bytes.Buffer, x, y, size float64, weight, fill, text string) {
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-size="%.1f" font-weight="%s" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		x, y, size, weight, fill, escapeXML(text))
}
