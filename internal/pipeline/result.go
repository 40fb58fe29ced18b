package pipeline

import (
	"image"

	"github.com/scenetext/stdetect/internal/decode"
)

// DetectedText is one text region found in an image.
type DetectedText struct {
	Region       decode.Region
	Score        float64
	CroppedImage image.Image
}

// Result holds the detection output for one input image. Texts appear in
// the decoder's discovery order (top-to-bottom raster order of the
// probability map).
type Result struct {
	// RotatedAngle is the whole-image rotation in degrees that was undone
	// before detection, 0 when auto-rotation is off.
	RotatedAngle float64
	Texts        []DetectedText
}
