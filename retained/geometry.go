package retained

import "sort"

// ============================================================================
// Geometry
// ============================================================================

// Point is a position in integer device units.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	Width, Height int
}

// Empty reports whether the size covers no area.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is an axis-aligned rectangle. X/Y is the top-left corner.
type Rect struct {
	X, Y          int
	Width, Height int
}

// RectAt builds a rectangle from an origin and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{r.X, r.Y} }

// Size returns the rectangle dimensions.
func (r Rect) Size() Size { return Size{r.Width, r.Height} }

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains checks if a point is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() &&
		p.Y >= r.Y && p.Y < r.Bottom()
}

// Offset returns r translated by d.
func (r Rect) Offset(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the overlapping area of r and o (empty if disjoint).
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the bounding box of r and o. An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// touches reports overlap or a shared edge/corner.
func (r Rect) touches(o Rect) bool {
	if r.Intersects(o) {
		return true
	}
	hAdj := (r.Right() == o.X || o.Right() == r.X) && !(r.Y > o.Bottom() || r.Bottom() < o.Y)
	vAdj := (r.Bottom() == o.Y || o.Bottom() == r.Y) && !(r.X > o.Right() || r.Right() < o.X)
	return hAdj || vAdj
}

// mergeRects unions overlapping or edge-adjacent rectangles into a compact set.
// The result is sorted top-to-bottom, left-to-right.
func mergeRects(in []Rect) []Rect {
	out := make([]Rect, 0, len(in))
	for _, r := range in {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(out) && !changed; i++ {
			for j := i + 1; j < len(out) && !changed; j++ {
				if out[i].touches(out[j]) {
					out[i] = out[i].Union(out[j])
					out = append(out[:j], out[j+1:]...)
					changed = true
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Insets are per-edge spacing values (margin, padding).
type Insets struct {
	Top, Right, Bottom, Left int
}

// UniformInsets returns insets with the same value on every edge.
func UniformInsets(v int) Insets { return Insets{v, v, v, v} }

// Horizontal is Left + Right.
func (in Insets) Horizontal() int { return in.Left + in.Right }

// Vertical is Top + Bottom.
func (in Insets) Vertical() int { return in.Top + in.Bottom }

func (in Insets) scaled(from, to int) Insets {
	return Insets{
		Top:    ScaleInt(in.Top, from, to),
		Right:  ScaleInt(in.Right, from, to),
		Bottom: ScaleInt(in.Bottom, from, to),
		Left:   ScaleInt(in.Left, from, to),
	}
}
