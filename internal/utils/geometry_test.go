package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBoxOrdersCorners(t *testing.T) {
	b := NewBox(10, 20, 2, 4)
	assert.Equal(t, Box{MinX: 2, MinY: 4, MaxX: 10, MaxY: 20}, b)
	assert.Equal(t, 8.0, b.Width())
	assert.Equal(t, 16.0, b.Height())
}

func TestBoxToRectClamps(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	rect := Box{MinX: -5.2, MinY: 10.7, MaxX: 120.4, MaxY: 40.1}.ToRect(bounds)
	assert.Equal(t, image.Rect(0, 10, 100, 41), rect)
}

func TestBoxToRectEmptyStaysEmpty(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	rect := Box{MinX: 200, MinY: 200, MaxX: 210, MaxY: 210}.ToRect(bounds)
	assert.True(t, rect.Empty())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(11, 0, 10))
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
}

func TestBoundingBox(t *testing.T) {
	pts := []Point{{X: 3, Y: 7}, {X: -1, Y: 2}, {X: 5, Y: 4}}
	bb := BoundingBox(pts)
	assert.Equal(t, Box{MinX: -1, MinY: 2, MaxX: 5, MaxY: 7}, bb)

	assert.Equal(t, Box{}, BoundingBox(nil))
}

func TestScalePoints(t *testing.T) {
	out := ScalePoints([]Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, 2, 0.5)
	assert.Equal(t, []Point{{X: 2, Y: 1}, {X: 6, Y: 2}}, out)
}

func TestCropImageBox(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), A: 255})
		}
	}

	crop := CropImageBox(img, Box{MinX: 5, MinY: 5, MaxX: 15, MaxY: 10})
	assert.Equal(t, 10, crop.Bounds().Dx())
	assert.Equal(t, 5, crop.Bounds().Dy())

	r, _, _, _ := crop.At(crop.Bounds().Min.X, crop.Bounds().Min.Y).RGBA()
	assert.Equal(t, uint32(50), r>>8)
}

func TestCropImageBoxOutside(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	crop := CropImageBox(img, Box{MinX: 50, MinY: 50, MaxX: 60, MaxY: 60})
	assert.True(t, crop.Bounds().Empty())
}
