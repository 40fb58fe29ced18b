package utils

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/scenetext/stdetect/internal/mempool"
)

// NormalizeImage converts an image into a float32 tensor for inference:
// RGB only (alpha dropped), pixel values scaled from 0-255 to 0-1, channels
// reordered to CHW (planar) layout.
func NormalizeImage(img image.Image) ([]float32, int, int, error) {
	if img == nil {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("input image is nil")}
	}

	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("invalid image dimensions")}
	}

	data := make([]float32, 3*height*width)
	fillCHW(nrgba, data, width, height)
	return data, width, height, nil
}

// NormalizeImagePooled is NormalizeImage with the output buffer taken from the
// memory pool. The caller returns it via mempool.PutFloat32 when done.
func NormalizeImagePooled(img image.Image) ([]float32, int, int, error) {
	if img == nil {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("input image is nil")}
	}

	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("invalid image dimensions")}
	}

	data := mempool.GetFloat32(3 * height * width)
	fillCHW(nrgba, data, width, height)
	return data, width, height, nil
}

func fillCHW(nrgba *image.NRGBA, data []float32, width, height int) {
	plane := width * height
	for y := 0; y < height; y++ {
		row := nrgba.PixOffset(nrgba.Rect.Min.X, nrgba.Rect.Min.Y+y)
		for x := 0; x < width; x++ {
			off := row + 4*x
			idx := y*width + x
			data[idx] = float32(nrgba.Pix[off]) / 255.0
			data[plane+idx] = float32(nrgba.Pix[off+1]) / 255.0
			data[2*plane+idx] = float32(nrgba.Pix[off+2]) / 255.0
		}
	}
}
