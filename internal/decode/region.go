package decode

import (
	"math"

	"github.com/scenetext/stdetect/internal/geometry"
	"github.com/scenetext/stdetect/internal/utils"
)

// Kind selects the region shape variant.
type Kind int

const (
	// KindAxisAligned is a rectangle described by min/max coordinates.
	KindAxisAligned Kind = iota
	// KindRotated is a rectangle described by center, size and angle.
	KindRotated
)

// Region is a detected text region, a tagged variant over the two shapes.
// Exactly the fields of the active variant are meaningful.
type Region struct {
	Kind Kind

	// Axis-aligned variant.
	Box utils.Box

	// Rotated variant: center, size, and rotation of the width edge in
	// degrees, normalized to (-90, 90]. The width edge is the longer one.
	CX, CY float64
	W, H   float64
	Angle  float64
}

// AxisAligned constructs an axis-aligned region.
func AxisAligned(box utils.Box) Region {
	return Region{Kind: KindAxisAligned, Box: box}
}

// Rotated constructs a rotated region.
func Rotated(cx, cy, w, h, angle float64) Region {
	return Region{Kind: KindRotated, CX: cx, CY: cy, W: w, H: h, Angle: angle}
}

// Width returns the region width (the rotated variant's width edge length).
func (r Region) Width() float64 {
	if r.Kind == KindRotated {
		return r.W
	}
	return r.Box.Width()
}

// Height returns the region height.
func (r Region) Height() float64 {
	if r.Kind == KindRotated {
		return r.H
	}
	return r.Box.Height()
}

// Corners returns the region's four corners in CCW order. For the rotated
// variant the first edge (corner 0 to corner 1) is the width edge.
func (r Region) Corners() [4]utils.Point {
	if r.Kind == KindAxisAligned {
		b := r.Box
		return [4]utils.Point{
			{X: b.MinX, Y: b.MinY},
			{X: b.MaxX, Y: b.MinY},
			{X: b.MaxX, Y: b.MaxY},
			{X: b.MinX, Y: b.MaxY},
		}
	}
	rad := r.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	hw, hh := r.W/2, r.H/2
	var out [4]utils.Point
	for i, d := range [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}} {
		out[i] = utils.Point{
			X: r.CX + d[0]*cos - d[1]*sin,
			Y: r.CY + d[0]*sin + d[1]*cos,
		}
	}
	return out
}

// ToOriginal applies the inverse of the given resize transform to every
// coordinate of the region. For the rotated variant the four corners are
// mapped individually and the rectangle refit from them, which is exact for
// uniform scaling and the closest rectangle under non-uniform scaling.
func (r Region) ToOriginal(t geometry.Transform) Region {
	if r.Kind == KindAxisAligned {
		lo := t.ToOriginal(utils.Point{X: r.Box.MinX, Y: r.Box.MinY})
		hi := t.ToOriginal(utils.Point{X: r.Box.MaxX, Y: r.Box.MaxY})
		return AxisAligned(utils.NewBox(lo.X, lo.Y, hi.X, hi.Y))
	}
	corners := r.Corners()
	var mapped [4]utils.Point
	for i, c := range corners {
		mapped[i] = t.ToOriginal(c)
	}
	return rotatedFromCorners(mapped)
}

// rotatedFromCorners fits a rotated region to four CCW corners whose first
// edge is the width edge.
func rotatedFromCorners(c [4]utils.Point) Region {
	cx := (c[0].X + c[1].X + c[2].X + c[3].X) / 4
	cy := (c[0].Y + c[1].Y + c[2].Y + c[3].Y) / 4
	w := math.Hypot(c[1].X-c[0].X, c[1].Y-c[0].Y)
	h := math.Hypot(c[3].X-c[0].X, c[3].Y-c[0].Y)
	angle := math.Atan2(c[1].Y-c[0].Y, c[1].X-c[0].X) * 180 / math.Pi
	w, h, angle = normalizeRect(w, h, angle)
	return Rotated(cx, cy, w, h, angle)
}

// normalizeRect makes the width edge the longer one and brings the angle
// into (-90, 90]. A rectangle is symmetric under half turns, so the
// normalization never changes the described shape.
func normalizeRect(w, h, angle float64) (float64, float64, float64) {
	if h > w {
		w, h = h, w
		angle += 90
	}
	for angle > 90 {
		angle -= 180
	}
	for angle <= -90 {
		angle += 180
	}
	return w, h, angle
}
