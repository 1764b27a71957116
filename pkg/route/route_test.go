package route

import (
	"testing"

	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/process"
	"github.com/matzehuels/stepflow/pkg/style"
)

func box(x, y, w, h float64) geom.Rect { return geom.Rect{X: x, Y: y, W: w, H: h} }

func TestRoute_SequentialStraight(t *testing.T) {
	s := box(40, 40, 300, 100)
	d := box(40, 220, 300, 100)
	r := NewRouter(DefaultConfig(), []geom.Rect{s, d})
	rt := r.Route(Request{EdgeID: "e", Source: s, Target: d, Kind: process.EdgeSequential})

	if len(rt.Points) != 2 {
		t.Fatalf("Points = %v, want a single segment", rt.Points)
	}
	if !rt.Points[0].Eq(geom.Pt(190, 140)) {
		t.Errorf("start = %v, want bottom centre (190,140)", rt.Points[0])
	}
	// gap 80 minus arrow 8
	if got := rt.Points[1].Y - rt.Points[0].Y; got != 72 {
		t.Errorf("segment length = %v, want 72", got)
	}
	if !rt.Arrow.Tip.Eq(geom.Pt(190, 220)) {
		t.Errorf("Arrow.Tip = %v, want top centre (190,220)", rt.Arrow.Tip)
	}
	if w := rt.Arrow.Right.X - rt.Arrow.Left.X; w != 8 && w != -8 {
		t.Errorf("arrow width = %v, want 8", w)
	}
	if rt.SourceHandle != geom.Bottom || rt.TargetHandle != geom.Top {
		t.Errorf("handles = %s→%s, want bottom→top", rt.SourceHandle, rt.TargetHandle)
	}
	if rt.Style.Stroke != style.StrokeNeutral || rt.Style.Dashed {
		t.Errorf("Style = %+v, want solid neutral", rt.Style)
	}
}

func TestRoute_ErrorDashed(t *testing.T) {
	s := box(0, 0, 300, 100)
	d := box(0, 200, 300, 100)
	rt := NewRouter(DefaultConfig(), nil).Route(Request{Source: s, Target: d, Kind: process.EdgeError})
	if !rt.Style.Dashed || rt.Style.Stroke != style.StrokeRed {
		t.Errorf("Style = %+v, want dashed red", rt.Style)
	}
	if rt.SourceHandle != geom.Bottom {
		t.Errorf("SourceHandle = %s, want bottom", rt.SourceHandle)
	}
}

func TestRoute_YesBranchLeavesRight(t *testing.T) {
	d := box(126, 220, 128, 128)
	a := box(400, 428, 300, 100)
	rt := NewRouter(DefaultConfig(), []geom.Rect{d, a}).Route(Request{
		Source: d, Target: a, Kind: process.EdgeBranch, Condition: process.ConditionYes, FromDecision: true,
	})
	if rt.SourceHandle != geom.Right || rt.TargetHandle != geom.Top {
		t.Errorf("handles = %s→%s, want right→top", rt.SourceHandle, rt.TargetHandle)
	}
	if !rt.Points[0].Eq(d.Anchor(geom.Right)) {
		t.Errorf("start = %v, want %v", rt.Points[0], d.Anchor(geom.Right))
	}
	if !rt.Arrow.Tip.Eq(a.Anchor(geom.Top)) {
		t.Errorf("tip = %v, want %v", rt.Arrow.Tip, a.Anchor(geom.Top))
	}
	if rt.Style.Stroke != style.StrokeGreen {
		t.Errorf("Stroke = %s, want green", rt.Style.Stroke)
	}
	assertOrthogonal(t, rt)
}

func TestRoute_NoBranchLeavesBottom(t *testing.T) {
	d := box(126, 220, 128, 128)
	b := box(40, 428, 300, 100)
	rt := NewRouter(DefaultConfig(), nil).Route(Request{
		Source: d, Target: b, Kind: process.EdgeBranch, Condition: process.ConditionNo, FromDecision: true,
	})
	if rt.SourceHandle != geom.Bottom {
		t.Errorf("SourceHandle = %s, want bottom", rt.SourceHandle)
	}
	if rt.Style.Stroke != style.StrokeRed || rt.Style.Dashed {
		t.Errorf("Style = %+v, want solid red", rt.Style)
	}
}

func TestRoute_YesBranchBeside(t *testing.T) {
	d := box(0, 0, 128, 128)
	a := box(300, 14, 300, 100)
	rt := NewRouter(DefaultConfig(), nil).Route(Request{
		Source: d, Target: a, Kind: process.EdgeBranch, Condition: process.ConditionYes, FromDecision: true,
	})
	if rt.SourceHandle != geom.Right || rt.TargetHandle != geom.Left {
		t.Errorf("handles = %s→%s, want right→left", rt.SourceHandle, rt.TargetHandle)
	}
	if !rt.Arrow.Tip.Eq(a.Anchor(geom.Left)) {
		t.Errorf("tip = %v, want %v", rt.Arrow.Tip, a.Anchor(geom.Left))
	}
}

func TestRoute_SkipsBlockingNode(t *testing.T) {
	s := box(40, 40, 300, 100)
	mid := box(40, 220, 300, 100)
	d := box(40, 400, 300, 100)
	rt := NewRouter(DefaultConfig(), []geom.Rect{s, mid, d}).Route(Request{Source: s, Target: d, Kind: process.EdgeSequential})
	if !rt.Channel {
		t.Fatalf("Channel = false, want a side-channel route around %v", mid)
	}
	for i := 0; i+1 < len(rt.Points); i++ {
		if mid.SegmentCrosses(rt.Points[i], rt.Points[i+1]) {
			t.Errorf("segment %v-%v crosses the middle node", rt.Points[i], rt.Points[i+1])
		}
	}
}

func TestRoute_BackwardUsesChannel(t *testing.T) {
	s := box(40, 220, 300, 100)
	d := box(40, 40, 300, 100)
	r := NewRouter(DefaultConfig(), []geom.Rect{s, d})
	first := r.Route(Request{Source: s, Target: d, Kind: process.EdgeSequential})
	second := r.Route(Request{Source: s, Target: d, Kind: process.EdgeSequential})
	if !first.Channel || first.TargetHandle != geom.Right {
		t.Errorf("route = %+v, want channel into right handle", first)
	}
	if first.Points[1].X == second.Points[1].X {
		t.Errorf("two channel routes share lane x=%v", first.Points[1].X)
	}
}

func TestRoute_SelfLoop(t *testing.T) {
	s := box(0, 0, 300, 100)
	rt := NewRouter(DefaultConfig(), []geom.Rect{s}).Route(Request{Source: s, Target: s, SelfLoop: true})
	if rt.SourceHandle != geom.Right || rt.TargetHandle != geom.Right {
		t.Errorf("handles = %s→%s, want right→right", rt.SourceHandle, rt.TargetHandle)
	}
	if rt.Arrow.Tip.X != s.Right() {
		t.Errorf("tip = %v, want on the right edge", rt.Arrow.Tip)
	}
}

func TestRoute_ThroughLanes(t *testing.T) {
	s := box(0, 0, 300, 100)
	d := box(0, 400, 300, 100)
	lanes := []layout.Slot{{X: 400, Top: 180, Bottom: 280}}
	rt := NewRouter(DefaultConfig(), nil).Route(Request{Source: s, Target: d, Lanes: lanes, Kind: process.EdgeError})
	found := false
	for i := 0; i+1 < len(rt.Points); i++ {
		a, b := rt.Points[i], rt.Points[i+1]
		if a.X == 400 && b.X == 400 && min(a.Y, b.Y) <= 180 && max(a.Y, b.Y) >= 280 {
			found = true
		}
	}
	if !found {
		t.Errorf("Points = %v, want to pass the lane at x=400", rt.Points)
	}
	assertOrthogonal(t, rt)
}

func TestAll_Scenario(t *testing.T) {
	g := process.Adapt(process.Record{Nodes: []process.NodeRecord{
		{ID: "1", Kind: "trigger"}, {ID: "2", Kind: "action"}, {ID: "3", Kind: "end"},
	}})
	res := layout.Compute(g, layout.DefaultConfig())
	routes := All(g, res, DefaultConfig())
	if len(routes) != 2 {
		t.Fatalf("len(routes) = %d, want 2", len(routes))
	}
	for _, rt := range routes {
		if len(rt.Points) != 2 || rt.Channel {
			t.Errorf("route %s = %v, want straight", rt.EdgeID, rt.Points)
		}
	}
}

func assertOrthogonal(t *testing.T, rt Route) {
	t.Helper()
	for i := 0; i+1 < len(rt.Points); i++ {
		a, b := rt.Points[i], rt.Points[i+1]
		if a.X != b.X && a.Y != b.Y {
			t.Errorf("segment %v-%v is diagonal", a, b)
		}
	}
}
