package orientation

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// heuristicOrientation estimates orientation without a model by comparing
// binary transition counts along rows and columns of a small grayscale
// thumbnail. Horizontal text produces more transitions per row than per
// column. The heuristic cannot tell 0 from 180 (or 90 from 270), so it
// only reports 0 or 90.
func heuristicOrientation(img image.Image) (int, float64) {
	if img == nil {
		return 0, 0.0
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return 0, 0.0
	}

	thumb := imaging.Resize(img, 128, 128, imaging.Lanczos)
	lum := luminanceGrid(thumb, 128, 128)
	threshold := meanLuminance(lum)

	rowTransitions := countTransitionsInRows(lum, 128, 128, threshold)
	colTransitions := countTransitionsInColumns(lum, 128, 128, threshold)
	total := rowTransitions + colTransitions
	if total == 0 {
		return 0, 0.0
	}

	aspect := float64(w) / float64(h)
	if rowTransitions >= colTransitions {
		conf := float64(rowTransitions) / float64(total)
		if aspect > 1.5 {
			conf = math.Min(1.0, conf+0.15)
		}
		return 0, conf
	}
	conf := float64(colTransitions) / float64(total)
	if aspect < 0.67 {
		conf = math.Min(1.0, conf+0.15)
	}
	return 90, conf
}

func luminanceGrid(img image.Image, w, h int) []float64 {
	lum := make([]float64, w*h)
	bounds := img.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			lum[y*w+x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return lum
}

func meanLuminance(lum []float64) float64 {
	if len(lum) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range lum {
		sum += v
	}
	return sum / float64(len(lum))
}

// countTransitionsInRows counts dark/light flips scanning left to right.
func countTransitionsInRows(lum []float64, w, h int, threshold float64) int {
	count := 0
	for y := 0; y < h; y++ {
		prev := lum[y*w] > threshold
		for x := 1; x < w; x++ {
			cur := lum[y*w+x] > threshold
			if cur != prev {
				count++
			}
			prev = cur
		}
	}
	return count
}

// countTransitionsInColumns counts dark/light flips scanning top to bottom.
func countTransitionsInColumns(lum []float64, w, h int, threshold float64) int {
	count := 0
	for x := 0; x < w; x++ {
		prev := lum[x] > threshold
		for y := 1; y < h; y++ {
			cur := lum[y*w+x] > threshold
			if cur != prev {
				count++
			}
			prev = cur
		}
	}
	return count
}

// softmax converts logits to probabilities, subtracting the max for
// numerical stability.
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	probs := make([]float64, len(logits))
	sum := 0.0
	for i, v := range logits {
		probs[i] = math.Exp(float64(v - maxLogit))
		sum += probs[i]
	}
	if sum > 0 {
		for i := range probs {
			probs[i] /= sum
		}
	}
	return probs
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
