package decode

import (
	"image"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenetext/stdetect/internal/testutil"
)

func axisConfig() Config {
	cfg := DefaultConfig()
	cfg.RotatedBBox = false
	cfg.UnclipRatio = 1.0
	return cfg
}

func TestDecodeEmptyMap(t *testing.T) {
	prob := testutil.ProbMap(64, 64)
	regions, err := DecodeProbabilityMap(prob, 64, 64, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestDecodeSizeMismatch(t *testing.T) {
	_, err := DecodeProbabilityMap(make([]float32, 10), 64, 64, DefaultConfig())
	assert.Error(t, err)

	_, err = DecodeProbabilityMap(nil, 0, 0, DefaultConfig())
	assert.Error(t, err)
}

func TestDecodeSingleRectangle(t *testing.T) {
	w, h := 256, 256
	prob := testutil.ProbMap(w, h)
	testutil.SetRect(prob, w, h, image.Rect(100, 100, 140, 120), 0.9)

	regions, err := DecodeProbabilityMap(prob, w, h, axisConfig())
	require.NoError(t, err)
	require.Len(t, regions, 1)

	r := regions[0]
	assert.InDelta(t, 0.9, r.Score, 1e-6)
	assert.Equal(t, KindAxisAligned, r.Region.Kind)
	assert.InDelta(t, 100, r.Region.Box.MinX, 1.0)
	assert.InDelta(t, 100, r.Region.Box.MinY, 1.0)
	assert.InDelta(t, 140, r.Region.Box.MaxX, 1.0)
	assert.InDelta(t, 120, r.Region.Box.MaxY, 1.0)
}

func TestDecodeDiscoveryOrder(t *testing.T) {
	w, h := 128, 128
	prob := testutil.ProbMap(w, h)
	// lower-left blob has a higher score but is discovered later
	testutil.SetRect(prob, w, h, image.Rect(60, 10, 100, 30), 0.5)
	testutil.SetRect(prob, w, h, image.Rect(10, 60, 50, 80), 0.95)

	regions, err := DecodeProbabilityMap(prob, w, h, axisConfig())
	require.NoError(t, err)
	require.Len(t, regions, 2)

	assert.InDelta(t, 0.5, regions[0].Score, 1e-6)
	assert.InDelta(t, 0.95, regions[1].Score, 1e-6)
}

func TestDecodeScoreFilter(t *testing.T) {
	w, h := 128, 128
	prob := testutil.ProbMap(w, h)
	testutil.SetRect(prob, w, h, image.Rect(10, 10, 50, 30), 0.4)
	testutil.SetRect(prob, w, h, image.Rect(10, 60, 50, 80), 0.8)

	cfg := axisConfig()
	cfg.BoxScoreThresh = 0.6
	regions, err := DecodeProbabilityMap(prob, w, h, cfg)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.InDelta(t, 0.8, regions[0].Score, 1e-6)
}

func TestDecodeMinSizeFilter(t *testing.T) {
	w, h := 128, 128
	prob := testutil.ProbMap(w, h)
	testutil.SetRect(prob, w, h, image.Rect(10, 10, 14, 14), 0.9) // 4x4, below min
	testutil.SetRect(prob, w, h, image.Rect(40, 40, 80, 60), 0.9)

	regions, err := DecodeProbabilityMap(prob, w, h, axisConfig())
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Greater(t, regions[0].Region.Width(), 8.0)
}

func TestDecodeUnclipRecoversSmallRegions(t *testing.T) {
	w, h := 128, 128
	prob := testutil.ProbMap(w, h)
	// 6x6 blob fails min_box_size=8 without dilation
	testutil.SetRect(prob, w, h, image.Rect(40, 40, 46, 46), 0.9)

	cfg := axisConfig()
	regions, err := DecodeProbabilityMap(prob, w, h, cfg)
	require.NoError(t, err)
	assert.Empty(t, regions)

	cfg.UnclipRatio = 1.6
	regions, err = DecodeProbabilityMap(prob, w, h, cfg)
	require.NoError(t, err)
	assert.Len(t, regions, 1)
}

func TestDecodeBorderRegionClamped(t *testing.T) {
	w, h := 64, 64
	prob := testutil.ProbMap(w, h)
	testutil.SetRect(prob, w, h, image.Rect(0, 0, 20, 12), 0.9)

	regions, err := DecodeProbabilityMap(prob, w, h, axisConfig())
	require.NoError(t, err)
	require.Len(t, regions, 1)

	b := regions[0].Region.Box
	assert.GreaterOrEqual(t, b.MinX, 0.0)
	assert.GreaterOrEqual(t, b.MinY, 0.0)
	assert.LessOrEqual(t, b.MaxX, float64(w))
	assert.LessOrEqual(t, b.MaxY, float64(h))
}

func TestDecodeRotatedStripe(t *testing.T) {
	w, h := 128, 128
	prob := testutil.ProbMap(w, h)
	// diagonal stripe along y = x
	for d := 20; d < 90; d++ {
		testutil.SetRect(prob, w, h, image.Rect(d-4, d-1, d+4, d+2), 0.9)
	}

	cfg := DefaultConfig()
	cfg.UnclipRatio = 1.0
	// the stripe is only ~6 px across its minor axis
	cfg.MinBoxSize = 5
	regions, err := DecodeProbabilityMap(prob, w, h, cfg)
	require.NoError(t, err)
	require.Len(t, regions, 1)

	r := regions[0].Region
	assert.Equal(t, KindRotated, r.Kind)
	assert.InDelta(t, 45, r.Angle, 8)
	assert.Greater(t, r.Width(), r.Height())
}

func TestDecodeFilterProperty(t *testing.T) {
	w, h := 128, 128
	prob := testutil.ProbMap(w, h)
	testutil.SetRect(prob, w, h, image.Rect(8, 8, 40, 24), 0.45)
	testutil.SetRect(prob, w, h, image.Rect(60, 8, 120, 40), 0.85)
	testutil.SetRect(prob, w, h, image.Rect(8, 60, 26, 74), 0.65)
	testutil.SetRect(prob, w, h, image.Rect(60, 70, 72, 80), 0.95)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("emitted regions satisfy size and score bounds", prop.ForAll(
		func(minBox float64, thresh float64, rotated bool) bool {
			cfg := DefaultConfig()
			cfg.MinBoxSize = minBox
			cfg.BoxScoreThresh = thresh
			cfg.RotatedBBox = rotated
			regions, err := DecodeProbabilityMap(prob, w, h, cfg)
			if err != nil {
				return false
			}
			for _, r := range regions {
				if r.Score < thresh {
					return false
				}
				if r.Region.Width() < minBox || r.Region.Height() < minBox {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 40),
		gen.Float64Range(0, 1),
		gen.Bool(),
	))
	properties.TestingRun(t)
}
