// Package geometry normalizes image sizes for fixed-shape model input and
// maps coordinates between resized and original image space.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/scenetext/stdetect/internal/utils"
)

// Stride is the spatial stride of the detection network. Target dimensions
// must be multiples of it.
const Stride = 32

// ResizeSpec describes the target shape images are normalized to before
// inference. Both dimensions must be positive multiples of Stride.
type ResizeSpec struct {
	Height              int
	Width               int
	PreserveAspectRatio bool
}

// DefaultResizeSpec returns the default detection input shape.
func DefaultResizeSpec() ResizeSpec {
	return ResizeSpec{Height: 768, Width: 768, PreserveAspectRatio: true}
}

// Validate checks that the target dimensions are positive.
func (s ResizeSpec) Validate() error {
	if s.Height <= 0 || s.Width <= 0 {
		return &utils.InvalidConfigurationError{
			Option: "resized_shape",
			Err:    fmt.Errorf("dimensions must be positive, got %dx%d", s.Height, s.Width),
		}
	}
	if s.Height%Stride != 0 || s.Width%Stride != 0 {
		return &utils.InvalidConfigurationError{
			Option: "resized_shape",
			Err:    fmt.Errorf("dimensions must be multiples of %d, got %dx%d", Stride, s.Height, s.Width),
		}
	}
	return nil
}

// Transform records the forward mapping from original to resized space.
// It carries enough metadata to invert the transform exactly.
type Transform struct {
	ScaleX    float64
	ScaleY    float64
	PadRight  int
	PadBottom int
}

// ToResized maps a point from original to resized image space.
func (t Transform) ToResized(p utils.Point) utils.Point {
	return utils.Point{X: p.X * t.ScaleX, Y: p.Y * t.ScaleY}
}

// ToOriginal maps a point from resized back to original image space.
// Padding sits at the bottom/right edge, so no offset is involved.
func (t Transform) ToOriginal(p utils.Point) utils.Point {
	return utils.Point{X: p.X / t.ScaleX, Y: p.Y / t.ScaleY}
}

// Resize scales img to exactly spec's target dimensions and returns the
// resized image together with the applied Transform.
//
// With aspect-ratio preservation a single uniform scale factor
// min(targetH/h, targetW/w) is applied and the remainder is padded
// bottom/right with black. Without it, width and height are scaled
// independently to the target.
func Resize(img image.Image, spec ResizeSpec) (image.Image, Transform, error) {
	if img == nil {
		return nil, Transform{}, &utils.ImageProcessingError{Operation: "resize", Err: errors.New("input image is nil")}
	}
	if err := spec.Validate(); err != nil {
		return nil, Transform{}, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, Transform{}, &utils.ImageProcessingError{Operation: "resize", Err: errors.New("empty image")}
	}

	if !spec.PreserveAspectRatio {
		resized := imaging.Resize(img, spec.Width, spec.Height, imaging.Lanczos)
		xform := Transform{
			ScaleX: float64(spec.Width) / float64(width),
			ScaleY: float64(spec.Height) / float64(height),
		}
		return resized, xform, nil
	}

	scale := math.Min(float64(spec.Height)/float64(height), float64(spec.Width)/float64(width))
	newWidth := int(math.Round(float64(width) * scale))
	newHeight := int(math.Round(float64(height) * scale))
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	if newWidth > spec.Width {
		newWidth = spec.Width
	}
	if newHeight > spec.Height {
		newHeight = spec.Height
	}

	resized := imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	xform := Transform{
		// effective scales after rounding, required for exact inversion
		ScaleX:    float64(newWidth) / float64(width),
		ScaleY:    float64(newHeight) / float64(height),
		PadRight:  spec.Width - newWidth,
		PadBottom: spec.Height - newHeight,
	}

	if xform.PadRight == 0 && xform.PadBottom == 0 {
		return resized, xform, nil
	}
	padded := imaging.New(spec.Width, spec.Height, color.Black)
	padded = imaging.Paste(padded, resized, image.Pt(0, 0))
	return padded, xform, nil
}
