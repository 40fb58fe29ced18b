// Package decode turns raw detection probability maps into scored text
// regions, either axis-aligned or rotated rectangles.
package decode

import (
	"fmt"
	"math"

	"github.com/scenetext/stdetect/internal/mempool"
	"github.com/scenetext/stdetect/internal/utils"
)

// Config controls probability-map decoding.
type Config struct {
	BinaryThresh   float32 // threshold for the positive-pixel mask
	BoxScoreThresh float64 // minimum mean probability for a region
	MinBoxSize     float64 // minimum width and height of a region
	UnclipRatio    float64 // outward dilation applied before the size filter
	RotatedBBox    bool    // emit rotated rectangles instead of axis-aligned
}

// DefaultConfig returns the default decoding parameters.
func DefaultConfig() Config {
	return Config{
		BinaryThresh:   0.3,
		BoxScoreThresh: 0.3,
		MinBoxSize:     8,
		UnclipRatio:    1.5,
		RotatedBBox:    true,
	}
}

// ScoredRegion is a decoded region with its confidence score.
type ScoredRegion struct {
	Region Region
	Score  float64
}

// DecodeProbabilityMap extracts scored regions from a probability map of
// size w x h. Regions are emitted in discovery order (raster order of their
// seed pixels); no sorting is applied. An empty result is a valid outcome.
func DecodeProbabilityMap(prob []float32, w, h int, cfg Config) ([]ScoredRegion, error) {
	if w <= 0 || h <= 0 || len(prob) != w*h {
		return nil, fmt.Errorf("probability map size mismatch: len %d for %dx%d", len(prob), w, h)
	}

	mask := binarize(prob, w, h, cfg.BinaryThresh)
	defer mempool.PutBool(mask)
	comps, labels := connectedComponents(mask, prob, w, h)

	regions := make([]ScoredRegion, 0, len(comps))
	for i, c := range comps {
		if c.count == 0 {
			continue
		}
		score := c.mean()
		if score < cfg.BoxScoreThresh {
			continue
		}
		region, ok := regionFromComponent(labels, w, h, i+1, c, cfg)
		if !ok {
			continue
		}
		regions = append(regions, ScoredRegion{Region: region, Score: score})
	}
	return regions, nil
}

// regionFromComponent builds the region shape for one labeled component and
// applies the minimum-size filter.
func regionFromComponent(labels []int, w, h, label int, c compStats, cfg Config) (Region, bool) {
	poly := traceContour(labels, w, h, label, c)
	if len(poly) == 0 {
		poly = []utils.Point{
			{X: float64(c.minX), Y: float64(c.minY)},
			{X: float64(c.maxX + 1), Y: float64(c.minY)},
			{X: float64(c.maxX + 1), Y: float64(c.maxY + 1)},
			{X: float64(c.minX), Y: float64(c.maxY + 1)},
		}
	} else {
		// Simplification tolerance relative to component size keeps the
		// polygon stable across scales.
		maxDim := math.Max(float64(c.maxX-c.minX+1), float64(c.maxY-c.minY+1))
		epsilon := math.Max(0.5, 0.01*maxDim)
		poly = utils.SimplifyPolygon(poly, epsilon)
	}

	// Unclip happens before the size filter so a dilated region can pass it.
	poly = utils.UnclipPolygon(poly, cfg.UnclipRatio)

	var region Region
	if cfg.RotatedBBox {
		mar := utils.MinimumAreaRectangle(poly)
		if len(mar) != 4 {
			return Region{}, false
		}
		region = rotatedFromCorners([4]utils.Point{mar[0], mar[1], mar[2], mar[3]})
	} else {
		bb := utils.BoundingBox(poly)
		// contour points are pixel centers; expand to pixel edges and keep
		// border-touching regions by clamping to the map bounds
		region = AxisAligned(utils.NewBox(
			math.Max(0, bb.MinX),
			math.Max(0, bb.MinY),
			math.Min(float64(w), bb.MaxX+1),
			math.Min(float64(h), bb.MaxY+1),
		))
	}

	if region.Width() < cfg.MinBoxSize || region.Height() < cfg.MinBoxSize {
		return Region{}, false
	}
	return region, true
}
