package utils

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyPolygonCollinear(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0.01},
		{X: 2, Y: 0},
		{X: 3, Y: -0.01},
		{X: 4, Y: 0},
	}
	out := SimplifyPolygon(pts, 0.5)
	assert.Len(t, out, 2)
	assert.Equal(t, pts[0], out[0])
	assert.Equal(t, pts[4], out[1])
}

func TestSimplifyPolygonKeepsCorners(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 0},
		{X: 5, Y: 0.1},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}
	out := SimplifyPolygon(pts, 0.5)
	assert.Contains(t, out, Point{X: 10, Y: 0})
	assert.Contains(t, out, Point{X: 10, Y: 10})
	assert.NotContains(t, out, Point{X: 5, Y: 0.1})
}

func TestUnclipPolygonIdentity(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}}
	out := UnclipPolygon(pts, 1.0)
	assert.Equal(t, pts, out)
}

func TestUnclipPolygonDilates(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}}
	out := UnclipPolygon(pts, 2.0)
	require.Len(t, out, 4)
	// centroid (2, 1), every point twice as far from it
	assert.InDelta(t, -2, out[0].X, 1e-9)
	assert.InDelta(t, -1, out[0].Y, 1e-9)
	assert.InDelta(t, 6, out[2].X, 1e-9)
	assert.InDelta(t, 3, out[2].Y, 1e-9)
}

func TestConvexHullSquareWithInterior(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		{X: 5, Y: 5}, {X: 3, Y: 7},
	}
	hull := ConvexHull(pts)
	assert.Len(t, hull, 4)
	for _, p := range []Point{{X: 5, Y: 5}, {X: 3, Y: 7}} {
		assert.NotContains(t, hull, p)
	}
}

func TestMinimumAreaRectangleAxisAligned(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 4}, {X: 0, Y: 4}}
	rect := MinimumAreaRectangle(pts)
	require.Len(t, rect, 4)
	assert.InDelta(t, 40, rectArea(rect), 1e-6)
}

func TestMinimumAreaRectangleRotated(t *testing.T) {
	// 10x4 rectangle rotated by 30 degrees
	rad := 30 * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	base := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 4}, {X: 0, Y: 4}}
	rot := make([]Point, len(base))
	for i, p := range base {
		rot[i] = Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}
	rect := MinimumAreaRectangle(rot)
	require.Len(t, rect, 4)
	assert.InDelta(t, 40, rectArea(rect), 1e-6)
}

func TestMinimumAreaRectangleDegenerate(t *testing.T) {
	single := MinimumAreaRectangle([]Point{{X: 3, Y: 3}})
	assert.Len(t, single, 4)

	pair := MinimumAreaRectangle([]Point{{X: 0, Y: 0}, {X: 5, Y: 0}})
	assert.Len(t, pair, 4)

	assert.Nil(t, MinimumAreaRectangle(nil))
}

func TestMinimumAreaRectangleContainsAllPoints(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("all points inside rectangle", prop.ForAll(
		func(coords []float64) bool {
			if len(coords) < 6 {
				return true
			}
			pts := make([]Point, 0, len(coords)/2)
			for i := 0; i+1 < len(coords); i += 2 {
				pts = append(pts, Point{X: coords[i], Y: coords[i+1]})
			}
			rect := MinimumAreaRectangle(pts)
			if len(rect) != 4 {
				return false
			}
			return rectContainsAll(rect, pts, 1e-6)
		},
		gen.SliceOf(gen.Float64Range(-100, 100)),
	))
	properties.TestingRun(t)
}

func rectArea(rect []Point) float64 {
	w := math.Hypot(rect[1].X-rect[0].X, rect[1].Y-rect[0].Y)
	h := math.Hypot(rect[3].X-rect[0].X, rect[3].Y-rect[0].Y)
	return w * h
}

func rectContainsAll(rect []Point, pts []Point, eps float64) bool {
	w := math.Hypot(rect[1].X-rect[0].X, rect[1].Y-rect[0].Y)
	h := math.Hypot(rect[3].X-rect[0].X, rect[3].Y-rect[0].Y)
	var ux, uy, vx, vy float64
	if w > 0 {
		ux = (rect[1].X - rect[0].X) / w
		uy = (rect[1].Y - rect[0].Y) / w
	}
	if h > 0 {
		vx = (rect[3].X - rect[0].X) / h
		vy = (rect[3].Y - rect[0].Y) / h
	}
	for _, p := range pts {
		s := (p.X-rect[0].X)*ux + (p.Y-rect[0].Y)*uy
		t := (p.X-rect[0].X)*vx + (p.Y-rect[0].Y)*vy
		if s < -eps || s > w+eps || t < -eps || t > h+eps {
			return false
		}
	}
	return true
}
