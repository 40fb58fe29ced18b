package crop

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenetext/stdetect/internal/decode"
	"github.com/scenetext/stdetect/internal/testutil"
	"github.com/scenetext/stdetect/internal/utils"
)

func luminanceAt(t *testing.T, img image.Image, x, y int) float64 {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}

func TestExtractAxisAligned(t *testing.T) {
	img := testutil.NewSolidImage(100, 60, color.Black)
	testutil.FillRect(img, image.Rect(20, 10, 60, 30), color.White)

	crop := Extract(img, decode.AxisAligned(utils.NewBox(20, 10, 60, 30)))
	assert.Equal(t, 40, crop.Bounds().Dx())
	assert.Equal(t, 20, crop.Bounds().Dy())

	mid := crop.Bounds().Min
	assert.Greater(t, luminanceAt(t, crop, mid.X+20, mid.Y+10), 200.0)
}

func TestExtractAxisAlignedClampsToImage(t *testing.T) {
	img := testutil.NewSolidImage(50, 50, color.White)
	crop := Extract(img, decode.AxisAligned(utils.NewBox(-10, -10, 20, 20)))
	assert.Equal(t, 20, crop.Bounds().Dx())
	assert.Equal(t, 20, crop.Bounds().Dy())
}

func TestExtractRotatedQuarterTurn(t *testing.T) {
	// vertical white bar, read as a rotated region with a 90-degree angle
	img := testutil.NewSolidImage(120, 160, color.Black)
	testutil.FillRect(img, image.Rect(40, 10, 60, 150), color.White)

	crop := Extract(img, decode.Rotated(50, 70, 100, 10, 90))
	require.Equal(t, 100, crop.Bounds().Dx())
	require.Equal(t, 10, crop.Bounds().Dy())

	for y := 0; y < 10; y++ {
		for x := 0; x < 100; x += 7 {
			assert.Greater(t, luminanceAt(t, crop, x, y), 200.0, "pixel (%d,%d)", x, y)
		}
	}
}

func TestExtractRotatedStripeIsUpright(t *testing.T) {
	// diagonal stripe along y = x, half-thickness 5, centered at (85, 85)
	img := testutil.NewSolidImage(200, 200, color.Black)
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			perp := math.Abs(float64(x-y)) / math.Sqrt2
			along := (float64(x-85) + float64(y-85)) / math.Sqrt2
			if perp <= 5 && math.Abs(along) <= 55 {
				img.Set(x, y, color.White)
			}
		}
	}

	crop := Extract(img, decode.Rotated(85, 85, 100, 12, 45))
	require.Equal(t, 100, crop.Bounds().Dx())
	require.Equal(t, 12, crop.Bounds().Dy())

	// the stripe lands horizontally: the middle rows are bright across
	// the width, the outer rows stay dark
	for x := 10; x < 90; x += 5 {
		assert.Greater(t, luminanceAt(t, crop, x, 5), 200.0, "middle row at x=%d", x)
		assert.Greater(t, luminanceAt(t, crop, x, 6), 200.0, "middle row at x=%d", x)
		assert.Less(t, luminanceAt(t, crop, x, 0), 80.0, "top row at x=%d", x)
		assert.Less(t, luminanceAt(t, crop, x, 11), 80.0, "bottom row at x=%d", x)
	}
}

func TestExtractRotatedOutsideImageIsBlack(t *testing.T) {
	img := testutil.NewSolidImage(50, 50, color.White)
	crop := Extract(img, decode.Rotated(0, 0, 40, 20, 0))
	// region centered at the origin, most of it falls outside the image
	assert.Less(t, luminanceAt(t, crop, 0, 0), 1.0)
}

func TestExtractRotatedTinyRegion(t *testing.T) {
	img := testutil.NewSolidImage(10, 10, color.White)
	crop := Extract(img, decode.Rotated(5, 5, 0.4, 0.2, 15))
	assert.Equal(t, 1, crop.Bounds().Dx())
	assert.Equal(t, 1, crop.Bounds().Dy())
}
