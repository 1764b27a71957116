package transform

import (
	"testing"

	"github.com/matzehuels/stepflow/pkg/dag"
)

func graphOf(t *testing.T, ids []string, edges [][3]string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for i, id := range ids {
		if err := g.AddNode(dag.Node{ID: id, Order: i}); err != nil {
			t.Fatalf("AddNode(%q) = %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{ID: e[0], From: e[1], To: e[2]}); err != nil {
			t.Fatalf("AddEdge(%v) = %v", e, err)
		}
	}
	return g
}

func TestFindBackEdges_NoCycles(t *testing.T) {
	g := graphOf(t, []string{"a", "b", "c"}, [][3]string{{"1", "a", "b"}, {"2", "b", "c"}})
	if back := FindBackEdges(g); len(back) != 0 {
		t.Errorf("FindBackEdges() = %v, want none", back)
	}
}

func TestFindBackEdges_SimpleCycle(t *testing.T) {
	g := graphOf(t, []string{"x", "y"}, [][3]string{{"xy", "x", "y"}, {"yx", "y", "x"}})
	back := FindBackEdges(g)
	if len(back) != 1 {
		t.Fatalf("FindBackEdges() returned %d edges, want 1", len(back))
	}
	if back[0].ID != "yx" {
		t.Errorf("FindBackEdges()[0] = %q, want yx", back[0].ID)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2 (graph must not be modified)", g.EdgeCount())
	}
}

func TestFindBackEdges_SelfLoop(t *testing.T) {
	g := graphOf(t, []string{"a"}, [][3]string{{"loop", "a", "a"}})
	back := FindBackEdges(g)
	if len(back) != 1 || back[0].ID != "loop" {
		t.Errorf("FindBackEdges() = %v, want [loop]", back)
	}
}

func TestBreakCycles_TriangleCycle(t *testing.T) {
	g := graphOf(t, []string{"a", "b", "c"}, [][3]string{{"1", "a", "b"}, {"2", "b", "c"}, {"3", "c", "a"}})
	removed := BreakCycles(g)
	if len(removed) != 1 {
		t.Errorf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after BreakCycles = %v", err)
	}
}

func TestBreakCycles_MultipleCycles(t *testing.T) {
	g := graphOf(t, []string{"a", "b", "c", "d"}, [][3]string{
		{"1", "a", "b"}, {"2", "b", "a"}, {"3", "c", "d"}, {"4", "d", "c"},
	})
	if removed := BreakCycles(g); len(removed) != 2 {
		t.Errorf("BreakCycles() removed %d edges, want 2", len(removed))
	}
}
