package decode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenetext/stdetect/internal/geometry"
	"github.com/scenetext/stdetect/internal/utils"
)

func TestAxisAlignedCorners(t *testing.T) {
	r := AxisAligned(utils.NewBox(10, 20, 50, 40))
	c := r.Corners()
	assert.Equal(t, utils.Point{X: 10, Y: 20}, c[0])
	assert.Equal(t, utils.Point{X: 50, Y: 20}, c[1])
	assert.Equal(t, utils.Point{X: 50, Y: 40}, c[2])
	assert.Equal(t, utils.Point{X: 10, Y: 40}, c[3])
	assert.Equal(t, 40.0, r.Width())
	assert.Equal(t, 20.0, r.Height())
}

func TestRotatedCornersZeroAngle(t *testing.T) {
	r := Rotated(50, 30, 40, 20, 0)
	c := r.Corners()
	assert.InDelta(t, 30, c[0].X, 1e-9)
	assert.InDelta(t, 20, c[0].Y, 1e-9)
	assert.InDelta(t, 70, c[1].X, 1e-9)
	assert.InDelta(t, 20, c[1].Y, 1e-9)
	assert.InDelta(t, 70, c[2].X, 1e-9)
	assert.InDelta(t, 40, c[2].Y, 1e-9)
}

func TestRotatedCornersWidthEdge(t *testing.T) {
	r := Rotated(0, 0, 10, 4, 30)
	c := r.Corners()
	// corner 0 to corner 1 is the width edge
	assert.InDelta(t, 10, math.Hypot(c[1].X-c[0].X, c[1].Y-c[0].Y), 1e-9)
	assert.InDelta(t, 4, math.Hypot(c[3].X-c[0].X, c[3].Y-c[0].Y), 1e-9)
	// its direction matches the angle
	assert.InDelta(t, 30, math.Atan2(c[1].Y-c[0].Y, c[1].X-c[0].X)*180/math.Pi, 1e-9)
}

func TestRotatedFromCornersRoundTrip(t *testing.T) {
	orig := Rotated(60, 40, 30, 12, 25)
	refit := rotatedFromCorners(orig.Corners())
	assert.InDelta(t, orig.CX, refit.CX, 1e-9)
	assert.InDelta(t, orig.CY, refit.CY, 1e-9)
	assert.InDelta(t, orig.W, refit.W, 1e-9)
	assert.InDelta(t, orig.H, refit.H, 1e-9)
	assert.InDelta(t, orig.Angle, refit.Angle, 1e-9)
}

func TestNormalizeRectSwapsShortWidth(t *testing.T) {
	w, h, angle := normalizeRect(4, 10, 0)
	assert.Equal(t, 10.0, w)
	assert.Equal(t, 4.0, h)
	assert.InDelta(t, 90, angle, 1e-9)

	_, _, angle = normalizeRect(10, 4, 135)
	assert.InDelta(t, -45, angle, 1e-9)

	_, _, angle = normalizeRect(10, 4, -90)
	assert.InDelta(t, 90, angle, 1e-9)
}

func TestToOriginalAxisAligned(t *testing.T) {
	xform := geometry.Transform{ScaleX: 2, ScaleY: 4}
	r := AxisAligned(utils.NewBox(20, 40, 60, 80)).ToOriginal(xform)
	assert.Equal(t, 10.0, r.Box.MinX)
	assert.Equal(t, 10.0, r.Box.MinY)
	assert.Equal(t, 30.0, r.Box.MaxX)
	assert.Equal(t, 20.0, r.Box.MaxY)
}

func TestToOriginalRotatedUniformScale(t *testing.T) {
	xform := geometry.Transform{ScaleX: 0.5, ScaleY: 0.5}
	r := Rotated(50, 30, 40, 16, 30).ToOriginal(xform)
	require.Equal(t, KindRotated, r.Kind)
	assert.InDelta(t, 100, r.CX, 1e-9)
	assert.InDelta(t, 60, r.CY, 1e-9)
	assert.InDelta(t, 80, r.W, 1e-9)
	assert.InDelta(t, 32, r.H, 1e-9)
	// uniform scaling preserves the angle
	assert.InDelta(t, 30, r.Angle, 1e-9)
}

func TestToOriginalRotatedZeroAngleNonUniform(t *testing.T) {
	xform := geometry.Transform{ScaleX: 2, ScaleY: 4}
	r := Rotated(40, 20, 20, 8, 0).ToOriginal(xform)
	assert.InDelta(t, 20, r.CX, 1e-9)
	assert.InDelta(t, 5, r.CY, 1e-9)
	assert.InDelta(t, 10, r.W, 1e-9)
	assert.InDelta(t, 2, r.H, 1e-9)
	assert.InDelta(t, 0, r.Angle, 1e-9)
}
