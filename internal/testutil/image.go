// Package testutil provides synthetic images and probability maps for
// tests, avoiding any dependency on model files or testdata assets.
package testutil

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// NewSolidImage returns a w x h image filled with a single color.
func NewSolidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// FillRect paints a rectangle onto img, clipped to its bounds.
func FillRect(img *image.NRGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// NewTextImage renders lines of text with the basic 7x13 font on a white
// background, producing realistic row/column structure for orientation
// heuristics.
func NewTextImage(w, h int, lines []string) *image.NRGBA {
	img := NewSolidImage(w, h, color.White)
	face := basicfont.Face7x13
	for i, line := range lines {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P(4, 14+i*16),
		}
		d.DrawString(line)
	}
	return img
}

// ProbMap allocates a zeroed probability map of w x h values.
func ProbMap(w, h int) []float32 {
	return make([]float32, w*h)
}

// SetRect fills a rectangular block of a row-major probability map.
// Coordinates outside the map are ignored.
func SetRect(m []float32, w, h int, r image.Rectangle, v float32) {
	clipped := r.Intersect(image.Rect(0, 0, w, h))
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		for x := clipped.Min.X; x < clipped.Max.X; x++ {
			m[y*w+x] = v
		}
	}
}
