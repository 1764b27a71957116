package layout

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/stepflow/pkg/process"
)

func rec(nodes []process.NodeRecord, edges ...process.EdgeRecord) process.Record {
	r := process.Record{Nodes: nodes}
	if edges != nil {
		r.SetEdges(edges)
	}
	return r
}

func ids(names ...string) []process.NodeRecord {
	nodes := make([]process.NodeRecord, len(names))
	for i, n := range names {
		nodes[i] = process.NodeRecord{ID: n}
	}
	return nodes
}

func fanOut() process.Record {
	nodes := ids("start", "d", "a", "b")
	nodes[1].Type = "decision"
	return rec(nodes,
		process.EdgeRecord{Source: "start", Target: "d"},
		process.EdgeRecord{Source: "d", Target: "a", Condition: "yes"},
		process.EdgeRecord{Source: "d", Target: "b", Condition: "no"},
	)
}

func fanIn() process.Record {
	nodes := ids("start", "d1", "x", "d2", "y", "z", "merge")
	nodes[1].Type = "decision"
	nodes[3].Type = "decision"
	return rec(nodes,
		process.EdgeRecord{Source: "start", Target: "d1"},
		process.EdgeRecord{Source: "d1", Target: "x", Condition: "yes"},
		process.EdgeRecord{Source: "d1", Target: "d2", Condition: "no"},
		process.EdgeRecord{Source: "d2", Target: "y", Condition: "yes"},
		process.EdgeRecord{Source: "d2", Target: "z", Condition: "no"},
		process.EdgeRecord{Source: "x", Target: "merge"},
		process.EdgeRecord{Source: "y", Target: "merge"},
		process.EdgeRecord{Source: "z", Target: "merge"},
		process.EdgeRecord{Source: "start", Target: "merge", Label: "on error"},
	)
}

func cycle() process.Record {
	return rec(ids("X", "Y"),
		process.EdgeRecord{Source: "X", Target: "Y"},
		process.EdgeRecord{Source: "Y", Target: "X", Condition: "yes"},
	)
}

func scenarios() map[string]process.Record {
	return map[string]process.Record{
		"chain":        rec(ids("1", "2", "3", "4")),
		"fan-out":      fanOut(),
		"fan-in":       fanIn(),
		"cycle":        cycle(),
		"disconnected": rec(ids("a", "b", "c"), process.EdgeRecord{Source: "b", Target: "c"}),
		"single":       rec(ids("only")),
	}
}

func TestCompute_Deterministic(t *testing.T) {
	for name, r := range scenarios() {
		t.Run(name, func(t *testing.T) {
			first := Compute(process.Adapt(r), DefaultConfig())
			for i := 0; i < 5; i++ {
				again := Compute(process.Adapt(r), DefaultConfig())
				if !reflect.DeepEqual(first, again) {
					t.Fatalf("Compute() run %d differs from first run", i+1)
				}
			}
		})
	}
}

func TestCompute_CompleteAndNonOverlapping(t *testing.T) {
	for name, r := range scenarios() {
		t.Run(name, func(t *testing.T) {
			g := process.Adapt(r)
			res := Compute(g, DefaultConfig())
			if len(res.Nodes) != len(g.Nodes) {
				t.Fatalf("len(Nodes) = %d, want %d", len(res.Nodes), len(g.Nodes))
			}
			seen := map[string]bool{}
			for i, n := range res.Nodes {
				if n.ID != g.Nodes[i].ID {
					t.Errorf("Nodes[%d].ID = %q, want input order %q", i, n.ID, g.Nodes[i].ID)
				}
				if seen[n.ID] {
					t.Errorf("node %q placed twice", n.ID)
				}
				seen[n.ID] = true
				if n.Rect.W != g.Nodes[i].Width || n.Rect.H != g.Nodes[i].Height {
					t.Errorf("node %q resized to %vx%v", n.ID, n.Rect.W, n.Rect.H)
				}
			}
			for i := range res.Nodes {
				for j := i + 1; j < len(res.Nodes); j++ {
					a, b := res.Nodes[i], res.Nodes[j]
					if a.Rect.Intersects(b.Rect) {
						t.Errorf("%s %+v overlaps %s %+v", a.ID, a.Rect, b.ID, b.Rect)
					}
				}
			}
		})
	}
}

func TestCompute_ChainIsLinear(t *testing.T) {
	cfg := DefaultConfig()
	res := Compute(process.Adapt(rec(ids("1", "2", "3"))), cfg)
	if res.Strategy != StrategyLinear {
		t.Fatalf("Strategy = %s, want linear", res.Strategy)
	}
	for i, n := range res.Nodes {
		wantY := cfg.TopMargin + float64(i)*(100+cfg.LinearSpacing)
		if n.Rect.Y != wantY {
			t.Errorf("Nodes[%d].Y = %v, want %v", i, n.Rect.Y, wantY)
		}
		if n.Rect.CenterX() != res.Nodes[0].Rect.CenterX() {
			t.Errorf("Nodes[%d] is off the shared axis", i)
		}
	}
}

func TestCompute_DecisionFanOut(t *testing.T) {
	res := Compute(process.Adapt(fanOut()), DefaultConfig())
	if res.Strategy != StrategyLayered {
		t.Fatalf("Strategy = %s, want layered", res.Strategy)
	}
	d, _ := res.Box("d")
	a, _ := res.Box("a")
	b, _ := res.Box("b")
	if a.Rank <= d.Rank || b.Rank <= d.Rank {
		t.Errorf("ranks d=%d a=%d b=%d, want a and b below d", d.Rank, a.Rank, b.Rank)
	}
	if a.Rect.X == b.Rect.X {
		t.Errorf("a.X == b.X == %v, want distinct", a.Rect.X)
	}
	if a.Rect.CenterX() <= d.Rect.CenterX() {
		t.Errorf("yes target centre %v not right of decision centre %v", a.Rect.CenterX(), d.Rect.CenterX())
	}
}

func TestCompute_CycleFallback(t *testing.T) {
	for _, strategy := range []StrategyName{StrategyAuto, StrategyLayered, StrategyLinear} {
		t.Run(string(strategy), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Strategy = strategy
			res := Compute(process.Adapt(cycle()), cfg)
			if res.Strategy != StrategyLinear {
				t.Errorf("Strategy = %s, want linear", res.Strategy)
			}
			if len(res.Nodes) != 2 {
				t.Errorf("len(Nodes) = %d, want 2", len(res.Nodes))
			}
			if !res.Diagnostics.Has(process.CodeCycleFallback) {
				t.Errorf("missing CYCLE_FALLBACK diagnostic")
			}
			if !res.Diagnostics.Has(process.CodeBackwardEdge) {
				t.Errorf("missing BACKWARD_EDGE diagnostic for the yes branch")
			}
		})
	}
}

func TestLayered_RejectsCycle(t *testing.T) {
	if _, err := (Layered{}).Layout(process.Adapt(cycle()), DefaultConfig()); err != ErrCyclic {
		t.Errorf("Layout() error = %v, want ErrCyclic", err)
	}
}

func TestCompute_DisconnectedSideBySide(t *testing.T) {
	res := Compute(process.Adapt(rec(ids("a", "b", "c"), process.EdgeRecord{Source: "b", Target: "c"})), DefaultConfig())
	a, _ := res.Box("a")
	b, _ := res.Box("b")
	if a.Rank != 0 || b.Rank != 0 {
		t.Fatalf("ranks a=%d b=%d, want both 0", a.Rank, b.Rank)
	}
	if a.Rect.Right() > b.Rect.Left() {
		t.Errorf("a %+v not left of b %+v", a.Rect, b.Rect)
	}
}

func TestCompute_LongEdgeLane(t *testing.T) {
	res := Compute(process.Adapt(fanIn()), DefaultConfig())
	var errEdge string
	for id := range res.Lanes {
		if id == "start->merge" {
			errEdge = id
		}
	}
	if errEdge == "" {
		t.Fatalf("Lanes = %v, want a lane for start->merge", res.Lanes)
	}
	for _, slot := range res.Lanes[errEdge] {
		for _, n := range res.Nodes {
			if n.Rect.Left() < slot.X && slot.X < n.Rect.Right() && n.Rect.Top() < slot.Bottom && slot.Top < n.Rect.Bottom() {
				t.Errorf("lane slot %+v runs through %s", slot, n.ID)
			}
		}
	}
}

func TestCompute_ForcedLinear(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyLinear
	res := Compute(process.Adapt(fanOut()), cfg)
	if res.Strategy != StrategyLinear {
		t.Errorf("Strategy = %s, want linear", res.Strategy)
	}
}

func TestCompute_Empty(t *testing.T) {
	res := Compute(process.Adapt(process.Record{}), Config{})
	if len(res.Nodes) != 0 || res.Width != 0 {
		t.Errorf("Compute(empty) = %+v", res)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (Config{Strategy: "force"}).Validate(); err == nil {
		t.Error("Validate() = nil, want error for unknown strategy")
	}
	var c Config
	c.SetDefaults()
	if c != DefaultConfig() {
		t.Errorf("SetDefaults() = %+v, want %+v", c, DefaultConfig())
	}
}

func ExampleCompute() {
	g := process.Adapt(process.Record{Nodes: []process.NodeRecord{
		{ID: "1", Kind: "trigger"}, {ID: "2", Kind: "action"}, {ID: "3", Kind: "end"},
	}})
	res := Compute(g, DefaultConfig())
	fmt.Println(res.Strategy)
	for _, n := range res.Nodes {
		fmt.Printf("%s x=%.0f y=%.0f\n", n.ID, n.Rect.X, n.Rect.Y)
	}
	// Output:
	// linear
	// 1 x=40 y=40
	// 2 x=40 y=220
	// 3 x=40 y=400
}
