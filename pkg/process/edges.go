package process

import (
	"fmt"
	"strings"
)

// Classify derives an edge kind: branch when a condition is set, error when
// the label mentions "error" (any case), sequential otherwise.
func Classify(cond Condition, label string) EdgeKind {
	switch {
	case cond != ConditionNone:
		return EdgeBranch
	case strings.Contains(strings.ToLower(label), "error"):
		return EdgeError
	}
	return EdgeSequential
}

// SynthesizeChain returns n-1 sequential edges linking the given steps in
// order.
func SynthesizeChain(nodes []Node) []Edge {
	if len(nodes) < 2 {
		return nil
	}
	edges := make([]Edge, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		src, dst := nodes[i].ID, nodes[i+1].ID
		edges = append(edges, Edge{
			ID:          chainEdgeID(src, dst),
			Source:      src,
			Target:      dst,
			Kind:        EdgeSequential,
			Synthesized: true,
		})
	}
	return edges
}

func chainEdgeID(src, dst string) string { return src + "->" + dst }

func synthesizeEdges(g *Graph, raw *[]EdgeRecord) []Edge {
	if raw == nil {
		return SynthesizeChain(g.Nodes)
	}

	used := make(map[string]bool, len(*raw))
	edges := make([]Edge, 0, len(*raw))
	for i, er := range *raw {
		src, dst := strings.TrimSpace(er.Source), strings.TrimSpace(er.Target)
		id := strings.TrimSpace(er.ID)

		_, srcOK := g.index[src]
		_, dstOK := g.index[dst]
		if !srcOK || !dstOK {
			missing := src
			if srcOK {
				missing = dst
			}
			g.Diagnostics.add(CodeDanglingEdge, SeverityWarning, "", edgeLabel(id, i),
				"edge references unknown node %q, dropped", missing)
			continue
		}

		cond, ok := ParseCondition(er.Condition)
		if !ok {
			g.Diagnostics.add(CodeUnknownCondition, SeverityInfo, "", edgeLabel(id, i),
				"unknown condition %q, treated as unconditional", er.Condition)
		}

		switch {
		case id == "":
			id = uniqueEdgeID(used, chainEdgeID(src, dst))
		case used[id]:
			fresh := uniqueEdgeID(used, id)
			g.Diagnostics.add(CodeDuplicateEdgeID, SeverityWarning, "", fresh,
				"duplicate edge id %q renamed to %q", id, fresh)
			id = fresh
		}
		used[id] = true

		if src == dst {
			g.Diagnostics.add(CodeSelfLoop, SeverityAnomaly, src, id, "edge loops back to its own source")
		}

		edges = append(edges, Edge{
			ID:        id,
			Source:    src,
			Target:    dst,
			Condition: cond,
			Label:     er.Label,
			Kind:      Classify(cond, er.Label),
		})
	}

	enforceDecisionFanOut(g, edges)
	return edges
}

// enforceDecisionFanOut keeps at most one yes and one no branch per
// decision, and at most two outgoing edges. Extra edges lose their condition
// and are reported, but stay in the graph.
func enforceDecisionFanOut(g *Graph, edges []Edge) {
	type fanOut struct {
		count   int
		yes, no bool
	}
	seen := make(map[string]*fanOut)

	for i := range edges {
		e := &edges[i]
		src, _ := g.Node(e.Source)
		if src.Kind != KindDecision {
			continue
		}
		f := seen[e.Source]
		if f == nil {
			f = &fanOut{}
			seen[e.Source] = f
		}
		f.count++

		switch {
		case f.count > 2:
			g.Diagnostics.add(CodeDecisionExtraBranch, SeverityAnomaly, e.Source, e.ID,
				"decision has more than two outgoing edges; edge %d treated as sequential", f.count)
			e.Condition = ConditionNone
			e.Kind = Classify(ConditionNone, e.Label)
		case e.Condition == ConditionYes && f.yes, e.Condition == ConditionNo && f.no:
			g.Diagnostics.add(CodeDuplicateBranch, SeverityAnomaly, e.Source, e.ID,
				"decision already has a %q branch; edge treated as sequential", e.Condition)
			e.Condition = ConditionNone
			e.Kind = Classify(ConditionNone, e.Label)
		case e.Condition == ConditionYes:
			f.yes = true
		case e.Condition == ConditionNo:
			f.no = true
		}
	}
}

func uniqueEdgeID(used map[string]bool, base string) string {
	if !used[base] {
		return base
	}
	for k := 2; ; k++ {
		id := fmt.Sprintf("%s~%d", base, k)
		if !used[id] {
			return id
		}
	}
}

func edgeLabel(id string, i int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("#%d", i)
}
