// Package route computes connector geometry between placed process steps.
//
// A [Router] turns an edge and the boxes of its two endpoints into an
// orthogonal polyline plus a triangular arrowhead pointing into the target.
// Handles follow the edge classification: sequential and error edges leave
// the bottom centre and enter the top centre, yes branches of a decision
// leave the right centre, no branches leave the bottom centre.
//
// Routes avoid boxes other than their endpoints by construction in layered
// layouts (horizontal runs sit in the gaps between ranks, vertical runs in
// reserved lanes). When a direct route would still cross a box, or the
// target lies above the source, the connector is sent through a side
// channel to the right of the diagram instead.
package route

import (
	"math"

	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/process"
	"github.com/matzehuels/stepflow/pkg/style"
)

// Default routing constants, in logical units.
const (
	DefaultArrowSize     = 8.0
	DefaultBranchStub    = 20.0
	DefaultChannelOffset = 40.0
	DefaultLaneSpacing   = 12.0
)

// Config holds the fixed routing constants.
type Config struct {
	ArrowSize     float64 `json:"arrow_size" koanf:"arrow_size"`
	BranchStub    float64 `json:"branch_stub" koanf:"branch_stub"`
	ChannelOffset float64 `json:"channel_offset" koanf:"channel_offset"`
	LaneSpacing   float64 `json:"lane_spacing" koanf:"lane_spacing"`
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		ArrowSize:     DefaultArrowSize,
		BranchStub:    DefaultBranchStub,
		ChannelOffset: DefaultChannelOffset,
		LaneSpacing:   DefaultLaneSpacing,
	}
}

// SetDefaults replaces zero or negative fields with defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.ArrowSize <= 0 {
		c.ArrowSize = d.ArrowSize
	}
	if c.BranchStub <= 0 {
		c.BranchStub = d.BranchStub
	}
	if c.ChannelOffset <= 0 {
		c.ChannelOffset = d.ChannelOffset
	}
	if c.LaneSpacing <= 0 {
		c.LaneSpacing = d.LaneSpacing
	}
}

// Arrow is a filled triangle whose Tip touches the target box.
type Arrow struct {
	Tip   geom.Point `json:"tip" bson:"tip"`
	Left  geom.Point `json:"left" bson:"left"`
	Right geom.Point `json:"right" bson:"right"`
}

// Route is the geometry of one connector. Points ends at the arrowhead's
// base, so the line and the triangle meet without overlapping.
type Route struct {
	EdgeID       string
	Points       []geom.Point
	Arrow        Arrow
	SourceHandle geom.Handle
	TargetHandle geom.Handle
	Style        style.EdgeStyle
	// Channel is set when the connector was sent around the diagram.
	Channel bool
}

// Request describes one connector to route.
type Request struct {
	EdgeID    string
	Source    geom.Rect
	Target    geom.Rect
	Kind      process.EdgeKind
	Condition process.Condition
	// FromDecision selects the right-centre handle for yes branches.
	FromDecision bool
	SelfLoop     bool
	// Lanes are reserved slots the connector must pass through, top first.
	Lanes []layout.Slot
}

// Router routes connectors among a fixed set of obstacles. Side-channel
// lanes are handed out in call order, so routing the same edges in the same
// order always yields the same geometry.
type Router struct {
	cfg       Config
	obstacles []geom.Rect
	channelX  float64
	lanes     int
}

// NewRouter creates a router for the given node boxes.
func NewRouter(cfg Config, obstacles []geom.Rect) *Router {
	cfg.SetDefaults()
	right := 0.0
	for _, o := range obstacles {
		right = math.Max(right, o.Right())
	}
	return &Router{cfg: cfg, obstacles: obstacles, channelX: right + cfg.ChannelOffset}
}

// Route computes the connector for one request.
func (r *Router) Route(req Request) Route {
	s, t := req.Source, req.Target
	rt := Route{EdgeID: req.EdgeID, Style: style.ForEdge(req.Kind, req.Condition)}

	var pts []geom.Point
	switch {
	case req.SelfLoop:
		pts = r.selfLoop(s)
		rt.SourceHandle, rt.TargetHandle = geom.Right, geom.Right
	case t.Top() >= s.Bottom()-geom.Epsilon:
		rt.SourceHandle, rt.TargetHandle = geom.Bottom, geom.Top
		if req.FromDecision && req.Condition == process.ConditionYes {
			rt.SourceHandle = geom.Right
		}
		pts = r.descend(s, rt.SourceHandle, t, req.Lanes)
		if len(req.Lanes) == 0 && r.blocked(pts, s, t) {
			pts = r.channel(s, t)
			rt.SourceHandle, rt.TargetHandle, rt.Channel = geom.Right, geom.Right, true
		}
	case beside(s, t) && t.Left() >= s.Right():
		rt.SourceHandle, rt.TargetHandle = geom.Right, geom.Left
		pts = sideways(s.Anchor(geom.Right), t.Anchor(geom.Left))
	case beside(s, t) && t.Right() <= s.Left():
		rt.SourceHandle, rt.TargetHandle = geom.Left, geom.Right
		pts = sideways(s.Anchor(geom.Left), t.Anchor(geom.Right))
	default:
		pts = r.channel(s, t)
		rt.SourceHandle, rt.TargetHandle, rt.Channel = geom.Right, geom.Right, true
	}

	rt.Points, rt.Arrow = r.arrowhead(geom.Simplify(pts))
	return rt
}

// descend builds a top-down orthogonal route. Horizontal runs are placed
// halfway through the gap below the previous box or lane, so they never
// cross a rank band.
func (r *Router) descend(s geom.Rect, h geom.Handle, t geom.Rect, lanes []layout.Slot) []geom.Point {
	start := s.Anchor(h)
	pts := []geom.Point{start}
	cur := start
	if h == geom.Right {
		cur = geom.Pt(start.X+r.cfg.BranchStub, start.Y)
		pts = append(pts, cur)
	}

	floor := s.Bottom()
	for _, lane := range lanes {
		mid := (floor + lane.Top) / 2
		pts = append(pts,
			geom.Pt(cur.X, mid),
			geom.Pt(lane.X, mid),
			geom.Pt(lane.X, lane.Bottom),
		)
		cur = geom.Pt(lane.X, lane.Bottom)
		floor = lane.Bottom
	}

	end := t.Anchor(geom.Top)
	if math.Abs(cur.X-end.X) > geom.Epsilon {
		mid := (floor + t.Top()) / 2
		pts = append(pts, geom.Pt(cur.X, mid), geom.Pt(end.X, mid))
	}
	return append(pts, end)
}

// channel sends a connector out to a vertical lane right of every box and
// back into the target's right-centre handle.
func (r *Router) channel(s, t geom.Rect) []geom.Point {
	x := r.channelX + float64(r.lanes)*r.cfg.LaneSpacing
	r.lanes++
	start, end := s.Anchor(geom.Right), t.Anchor(geom.Right)
	return []geom.Point{start, geom.Pt(x, start.Y), geom.Pt(x, end.Y), end}
}

func (r *Router) selfLoop(s geom.Rect) []geom.Point {
	dy := s.H / 4
	x := s.Right() + r.cfg.BranchStub
	cy := s.CenterY()
	return []geom.Point{
		geom.Pt(s.Right(), cy-dy),
		geom.Pt(x, cy-dy),
		geom.Pt(x, cy+dy),
		geom.Pt(s.Right(), cy+dy),
	}
}

func sideways(start, end geom.Point) []geom.Point {
	if math.Abs(start.Y-end.Y) < geom.Epsilon {
		return []geom.Point{start, end}
	}
	mid := (start.X + end.X) / 2
	return []geom.Point{start, geom.Pt(mid, start.Y), geom.Pt(mid, end.Y), end}
}

// beside reports whether two boxes overlap vertically.
func beside(a, b geom.Rect) bool {
	return a.Top() < b.Bottom()-geom.Epsilon && b.Top() < a.Bottom()-geom.Epsilon
}

// blocked reports whether any segment crosses a box other than the two
// endpoints.
func (r *Router) blocked(pts []geom.Point, s, t geom.Rect) bool {
	for _, o := range r.obstacles {
		if o == s || o == t {
			continue
		}
		for i := 0; i+1 < len(pts); i++ {
			if o.SegmentCrosses(pts[i], pts[i+1]) {
				return true
			}
		}
	}
	return false
}

// arrowhead shortens the last segment by the arrow size and returns the
// triangle that fills the gap.
func (r *Router) arrowhead(pts []geom.Point) ([]geom.Point, Arrow) {
	n := len(pts)
	tip := pts[n-1]
	if n < 2 {
		return pts, Arrow{Tip: tip, Left: tip, Right: tip}
	}
	prev := pts[n-2]
	dx, dy := tip.X-prev.X, tip.Y-prev.Y
	length := math.Hypot(dx, dy)
	if length < geom.Epsilon {
		return pts, Arrow{Tip: tip, Left: tip, Right: tip}
	}
	ux, uy := dx/length, dy/length
	size := r.cfg.ArrowSize
	base := geom.Pt(tip.X-ux*size, tip.Y-uy*size)
	half := size / 2

	out := append([]geom.Point(nil), pts[:n-1]...)
	out = append(out, base)
	return out, Arrow{
		Tip:   tip,
		Left:  geom.Pt(base.X-uy*half, base.Y+ux*half),
		Right: geom.Pt(base.X+uy*half, base.Y-ux*half),
	}
}
