// Package crop extracts horizontally-leveled RGB patches for detected
// regions: a direct clamped crop for axis-aligned regions, an affine warp
// for rotated ones.
package crop

import (
	"image"
	"image/color"
	"math"

	"github.com/scenetext/stdetect/internal/decode"
	"github.com/scenetext/stdetect/internal/utils"
)

// Extract produces the upright image patch for a region in original-image
// coordinates. Coordinates outside the image are clamped, never indexed.
func Extract(img image.Image, region decode.Region) image.Image {
	if region.Kind == decode.KindAxisAligned {
		return utils.CropImageBox(img, region.Box)
	}
	return warpRotated(img, region)
}

// warpRotated resamples the rotated rectangle into an upright patch of the
// rectangle's own size using the inverse affine transform with bilinear
// interpolation.
func warpRotated(img image.Image, region decode.Region) image.Image {
	dstW := int(math.Round(region.W))
	dstH := int(math.Round(region.H))
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	c := region.Corners()
	// Per-pixel steps along the width and height edges. The destination
	// corners map onto the source corners, so stepping is exact.
	var stepWX, stepWY, stepHX, stepHY float64
	if dstW > 1 {
		stepWX = (c[1].X - c[0].X) / float64(dstW-1)
		stepWY = (c[1].Y - c[0].Y) / float64(dstW-1)
	}
	if dstH > 1 {
		stepHX = (c[3].X - c[0].X) / float64(dstH-1)
		stepHY = (c[3].Y - c[0].Y) / float64(dstH-1)
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	for y := 0; y < dstH; y++ {
		rowX := c[0].X + float64(y)*stepHX
		rowY := c[0].Y + float64(y)*stepHY
		for x := 0; x < dstW; x++ {
			sx := rowX + float64(x)*stepWX + float64(bounds.Min.X)
			sy := rowY + float64(x)*stepWY + float64(bounds.Min.Y)
			out.Set(x, y, bilinearSample(img, sx, sy))
		}
	}
	return out
}

// bilinearSample samples src at a fractional position; positions outside the
// image resolve to black.
func bilinearSample(src image.Image, x, y float64) color.Color {
	b := src.Bounds()
	if x < float64(b.Min.X) || y < float64(b.Min.Y) || x > float64(b.Max.X-1) || y > float64(b.Max.Y-1) {
		return color.RGBA{0, 0, 0, 255}
	}
	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= b.Max.X {
		x1 = b.Max.X - 1
	}
	if y1 >= b.Max.Y {
		y1 = b.Max.Y - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)
	c00 := toFloat(src.At(x0, y0))
	c10 := toFloat(src.At(x1, y0))
	c01 := toFloat(src.At(x0, y1))
	c11 := toFloat(src.At(x1, y1))
	r := lerp(lerp(c00.r, c10.r, fx), lerp(c01.r, c11.r, fx), fy)
	g := lerp(lerp(c00.g, c10.g, fx), lerp(c01.g, c11.g, fx), fy)
	bl := lerp(lerp(c00.b, c10.b, fx), lerp(c01.b, c11.b, fx), fy)
	return color.RGBA{uint8(r + 0.5), uint8(g + 0.5), uint8(bl + 0.5), 255}
}

type floatRGB struct{ r, g, b float64 }

func toFloat(c color.Color) floatRGB {
	r, g, b, _ := c.RGBA()
	return floatRGB{r: float64(r >> 8), g: float64(g >> 8), b: float64(b >> 8)}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
