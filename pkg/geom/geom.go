// Package geom holds the small set of 2D primitives shared by layout and
// routing: points, axis-aligned boxes and the four side handles of a box.
//
// Coordinates are logical units with the origin at the top-left and y
// growing downward.
package geom

import "math"

// Epsilon is the tolerance used when comparing coordinates.
const Epsilon = 1e-6

// Point is a position in logical units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Eq reports whether two points coincide within [Epsilon].
func (p Point) Eq(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// Handle names a connector attachment point at the centre of a box side.
type Handle string

const (
	Top    Handle = "top"
	Bottom Handle = "bottom"
	Left   Handle = "left"
	Right  Handle = "right"
)

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"width" bson:"width"`
	H float64 `json:"height" bson:"height"`
}

func (r Rect) Left() float64    { return r.X }
func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) Top() float64     { return r.Y }
func (r Rect) Bottom() float64  { return r.Y + r.H }
func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }
func (r Rect) Center() Point    { return Point{r.CenterX(), r.CenterY()} }

// Anchor returns the centre of the side named by h.
func (r Rect) Anchor(h Handle) Point {
	switch h {
	case Top:
		return Point{r.CenterX(), r.Top()}
	case Bottom:
		return Point{r.CenterX(), r.Bottom()}
	case Left:
		return Point{r.Left(), r.CenterY()}
	case Right:
		return Point{r.Right(), r.CenterY()}
	}
	return r.Center()
}

// Intersects reports whether the interiors of r and o overlap. Boxes that
// only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.Left() < o.Right()-Epsilon && o.Left() < r.Right()-Epsilon &&
		r.Top() < o.Bottom()-Epsilon && o.Top() < r.Bottom()-Epsilon
}

// Union returns the smallest box containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.Left(), o.Left())
	y0 := math.Min(r.Top(), o.Top())
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// SegmentCrosses reports whether the axis-aligned segment a-b passes through
// the interior of r. Diagonal segments are tested by their bounding box,
// which is conservative.
func (r Rect) SegmentCrosses(a, b Point) bool {
	seg := Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(a.X - b.X),
		H: math.Abs(a.Y - b.Y),
	}
	return seg.Left() < r.Right()-Epsilon && seg.Right() > r.Left()+Epsilon &&
		seg.Top() < r.Bottom()-Epsilon && seg.Bottom() > r.Top()+Epsilon
}

// Simplify drops consecutive duplicate points and interior points that lie
// on a straight horizontal or vertical run.
func Simplify(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Eq(p) {
			continue
		}
		if len(out) >= 2 {
			a, b := out[len(out)-2], out[len(out)-1]
			sameX := math.Abs(a.X-b.X) < Epsilon && math.Abs(b.X-p.X) < Epsilon
			sameY := math.Abs(a.Y-b.Y) < Epsilon && math.Abs(b.Y-p.Y) < Epsilon
			if sameX || sameY {
				out[len(out)-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
