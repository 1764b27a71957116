package transform

import (
	"fmt"

	"github.com/matzehuels/stepflow/pkg/dag"
)

// Subdivide breaks edges that span multiple rows into sequences of single-row
// edges connected by synthetic subdivider nodes, and returns the subdivider
// IDs of each replaced edge from top to bottom, keyed by edge ID.
//
//	Before: check (row 1) → notify (row 3)  [spans 2 rows]
//	After:  check → e7_sub_2 → notify       [2 single-row edges]
//
// Each subdivider has the given width, zero height and MasterID set to the ID
// of the edge it replaces. The final segment keeps the original edge ID and
// metadata; intermediate segments get derived IDs. Parallel edges are
// subdivided independently so each keeps its own lane.
//
// Rows must already be assigned (see [AssignLayers]).
func Subdivide(g *dag.DAG, width float64) map[string][]string {
	gen := newIDGen(g.Nodes())
	chains := make(map[string][]string)

	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			continue
		}

		g.RemoveEdge(e.ID)
		prevID := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := gen.next(e.ID, row)
			mustAdd(g.AddNode(dag.Node{
				ID:       id,
				Row:      row,
				Order:    src.Order,
				Width:    width,
				Kind:     dag.NodeKindSubdivider,
				MasterID: e.ID,
			}))
			mustAdd(g.AddEdge(dag.Edge{ID: gen.next(e.ID+"_seg", row), From: prevID, To: id}))
			chains[e.ID] = append(chains[e.ID], id)
			prevID = id
		}
		mustAdd(g.AddEdge(dag.Edge{ID: e.ID, From: prevID, To: dst.ID, Meta: e.Meta}))
	}
	return chains
}

func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
