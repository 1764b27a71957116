package process

import (
	"fmt"
	"strings"
)

// Node is a normalized process step with its kind inferred and its fixed
// dimensions attached.
type Node struct {
	ID          string
	Index       int
	Kind        Kind
	Status      Status
	Title       string
	Description string
	Actors      []string
	Gap         string
	Details     *OperationalDetails
	Width       float64
	Height      float64
}

// HasGap reports whether the step carries a gap note.
func (n Node) HasGap() bool { return n.Gap != "" }

// HasDetails reports whether operational details were supplied.
func (n Node) HasDetails() bool { return n.Details != nil }

// Edge is a validated, classified transition.
type Edge struct {
	ID        string
	Source    string
	Target    string
	Condition Condition
	Label     string
	Kind      EdgeKind
	// Synthesized is set for edges derived from node order.
	Synthesized bool
}

// Graph is the typed process graph consumed by layout. Nodes keep their
// input order; edges keep input order minus dropped ones.
type Graph struct {
	Name        string
	Nodes       []Node
	Edges       []Edge
	Diagnostics Diagnostics

	index map[string]int
}

// Node returns the step with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Outgoing returns the edges leaving the given step in input order.
func (g *Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Adapt normalizes a raw record into a typed graph. It never fails: empty or
// duplicate IDs are rewritten, unknown values are defaulted, dangling edges
// are dropped, and every such decision is recorded in Graph.Diagnostics.
func Adapt(rec Record) *Graph {
	g := &Graph{
		Name:  rec.Name,
		Nodes: make([]Node, 0, len(rec.Nodes)),
		index: make(map[string]int, len(rec.Nodes)),
	}

	n := len(rec.Nodes)
	for i, nr := range rec.Nodes {
		id := g.nodeID(i, nr.ID)

		status, ok := ParseStatus(nr.Status)
		if !ok {
			g.Diagnostics.add(CodeUnknownStatus, SeverityInfo, id, "",
				"unknown status %q, using %s", nr.Status, StatusDefault)
		}

		rawType := nr.Type
		if strings.TrimSpace(rawType) == "" {
			rawType = nr.Kind
		}
		explicit, known := parseKind(rawType)
		if !known && strings.TrimSpace(rawType) != "" {
			g.Diagnostics.add(CodeUnknownKind, SeverityInfo, id, "",
				"unknown type %q, inferring from position", rawType)
		}
		kind := inferKind(i, n, explicit, status)
		w, h := Dimensions(kind)

		var gap string
		if nr.Gap != nil {
			gap = strings.TrimSpace(*nr.Gap)
		}

		g.index[id] = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{
			ID:          id,
			Index:       i,
			Kind:        kind,
			Status:      status,
			Title:       nr.Title,
			Description: nr.Description,
			Actors:      nr.Actors,
			Gap:         gap,
			Details:     nr.OperationalDetails,
			Width:       w,
			Height:      h,
		})
	}

	g.Edges = synthesizeEdges(g, rec.Edges)
	return g
}

// inferKind applies the kind rules in order: trigger (first step, trigger
// status or explicit trigger), end (explicit end or last step), decision
// (explicit), action.
func inferKind(i, n int, explicit Kind, status Status) Kind {
	switch {
	case i == 0 || status == StatusTrigger || explicit == KindTrigger:
		return KindTrigger
	case explicit == KindEnd || i == n-1:
		return KindEnd
	case explicit == KindDecision:
		return KindDecision
	}
	return KindAction
}

func (g *Graph) nodeID(i int, raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		fresh := g.unique(fmt.Sprintf("node-%d", i+1))
		g.Diagnostics.add(CodeEmptyNodeID, SeverityWarning, fresh, "",
			"node at position %d has no id, assigned %q", i, fresh)
		return fresh
	}
	if _, taken := g.index[id]; taken {
		fresh := g.unique(id)
		g.Diagnostics.add(CodeDuplicateNodeID, SeverityWarning, fresh, "",
			"duplicate node id %q at position %d renamed to %q; edges resolve to the first", id, i, fresh)
		return fresh
	}
	return id
}

func (g *Graph) unique(base string) string {
	if _, taken := g.index[base]; !taken {
		return base
	}
	for k := 2; ; k++ {
		id := fmt.Sprintf("%s~%d", base, k)
		if _, taken := g.index[id]; !taken {
			return id
		}
	}
}
