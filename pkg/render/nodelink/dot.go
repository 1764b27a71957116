package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stepflow/pkg/diagram"
	"github.com/matzehuels/stepflow/pkg/process"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes kind, status and actors in node labels.
	// When false, only the title is shown.
	Detailed bool
	// HideLabels drops Yes/No and free-text connector labels.
	HideLabels bool
}

// ToDOT converts a diagram to Graphviz DOT format. The resulting DOT string
// can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Decisions become diamonds and ends become pills. Error connectors are
// dashed.
func ToDOT(d diagram.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if d.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", d.Name)
	}
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11, arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	groups := rankGroups(d)
	for _, rank := range slices.Sorted(maps.Keys(groups)) {
		ids := groups[rank]
		if len(ids) < 2 {
			continue
		}
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = strconv.Quote(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts.HideLabels), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rankGroups(d diagram.Diagram) map[int][]string {
	groups := make(map[int][]string)
	for _, n := range d.Nodes {
		groups[n.Rank] = append(groups[n.Rank], n.ID)
	}
	return groups
}

func fmtLabel(n diagram.Node, detailed bool) string {
	label := n.Title
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}

	parts := []string{
		fmt.Sprintf("kind: %s", n.Kind),
		fmt.Sprintf("status: %s", n.Status),
	}
	if len(n.Actors) > 0 {
		parts = append(parts, "actors: "+strings.Join(n.Actors, ", "))
	}
	if n.Gap != "" {
		parts = append(parts, "gap: "+n.Gap)
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func nodeAttrs(n diagram.Node, detailed bool) []string {
	s := n.Style
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("fillcolor=%q", s.Fill),
		fmt.Sprintf("color=%q", s.Stroke),
		fmt.Sprintf("fontcolor=%q", s.Text),
		fmt.Sprintf("class=%q", s.ClassName),
	}
	switch n.Kind {
	case process.KindDecision:
		attrs = append(attrs, "shape=diamond", "style=filled")
	case process.KindEnd:
		attrs = append(attrs, "style=\"rounded,filled\"", "peripheries=2")
	}
	return attrs
}

func edgeAttrs(e diagram.Edge, hideLabels bool) []string {
	attrs := []string{fmt.Sprintf("color=%q", e.Style.Stroke)}
	if e.Style.Dashed {
		attrs = append(attrs, "style=dashed")
	}
	if !hideLabels {
		label := e.Style.Label
		if label == "" && !e.Synthesized {
			label = e.Label
		}
		if label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", label), fmt.Sprintf("fontcolor=%q", e.Style.Stroke))
		}
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// pixel viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
