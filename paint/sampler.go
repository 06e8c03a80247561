package paint

const (
	minThickness = 2.0
	maxThickness = 10.0
	minVelocity  = 0.5
	maxVelocity  = 1.0
)

// Point is a raw pointer position in window (client) coordinates.
type Point struct {
	X, Y float64
}

// Rect is the bounding rectangle of the drawing surface in window coordinates.
type Rect struct {
	Left, Top, Width, Height float64
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width && p.Y >= r.Top && p.Y < r.Top+r.Height
}

// SamplePoint is one instant of a gesture in surface-local coordinates along
// with the attributes derived from its position.
type SamplePoint struct {
	X, Y      float64
	Color     Color
	Thickness float64
	Velocity  float64
}

// Sample converts a pointer position into a SamplePoint on the given surface.
//
// Thickness grows from 2 at the top edge to 10 at the bottom edge, velocity
// from 0.5 at the left edge to 1.0 at the right edge. A zero-sized surface is
// treated as 1 unit wide/high.
func Sample(pos Point, surface Rect, c Color) SamplePoint {
	x := pos.X - surface.Left
	y := pos.Y - surface.Top
	return SamplePoint{
		X:         x,
		Y:         y,
		Color:     c,
		Thickness: minThickness + ratio(y, surface.Height)*(maxThickness-minThickness),
		Velocity:  minVelocity + ratio(x, surface.Width)*(maxVelocity-minVelocity),
	}
}

// ratio returns v/extent clamped to [0,1]; extents below 1 count as 1.
func ratio(v, extent float64) float64 {
	if extent < 1 {
		extent = 1
	}
	r := v / extent
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
