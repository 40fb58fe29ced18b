package stdetect

import (
	"github.com/scenetext/stdetect/internal/geometry"
	"github.com/scenetext/stdetect/internal/pipeline"
)

// DetectOptions are per-call detection parameters. Zero values are filled
// from the Detector's configuration; use the With* options to override.
type DetectOptions struct {
	// ResizedHeight and ResizedWidth set the model input shape. Both must
	// be positive multiples of 32.
	ResizedHeight int
	ResizedWidth  int
	// PreserveAspectRatio scales uniformly and pads bottom/right instead
	// of stretching.
	PreserveAspectRatio bool
	// MinBoxSize drops regions whose width or height falls below it, in
	// resized-image pixels.
	MinBoxSize float64
	// BoxScoreThresh drops regions whose mean probability falls below it.
	BoxScoreThresh float64
	// BatchSize caps how many images go through one inference call.
	BatchSize int
}

// DetectOption mutates DetectOptions.
type DetectOption func(*DetectOptions)

// WithResizedShape sets the model input height and width.
func WithResizedShape(height, width int) DetectOption {
	return func(o *DetectOptions) {
		o.ResizedHeight = height
		o.ResizedWidth = width
	}
}

// WithPreserveAspectRatio toggles aspect-preserving resize.
func WithPreserveAspectRatio(preserve bool) DetectOption {
	return func(o *DetectOptions) { o.PreserveAspectRatio = preserve }
}

// WithMinBoxSize sets the minimum region side length.
func WithMinBoxSize(size float64) DetectOption {
	return func(o *DetectOptions) { o.MinBoxSize = size }
}

// WithBoxScoreThresh sets the region confidence cutoff.
func WithBoxScoreThresh(thresh float64) DetectOption {
	return func(o *DetectOptions) { o.BoxScoreThresh = thresh }
}

// WithBatchSize sets the inference batch size.
func WithBatchSize(n int) DetectOption {
	return func(o *DetectOptions) { o.BatchSize = n }
}

// detectOptions resolves the effective per-call options from the
// detector's configuration plus any overrides.
func (d *Detector) detectOptions(opts []DetectOption) pipeline.Options {
	o := DetectOptions{
		ResizedHeight:       d.cfg.Detection.ResizedHeight,
		ResizedWidth:        d.cfg.Detection.ResizedWidth,
		PreserveAspectRatio: d.cfg.Detection.PreserveAspectRatio,
		MinBoxSize:          d.cfg.Detection.MinBoxSize,
		BoxScoreThresh:      d.cfg.Detection.BoxScoreThresh,
		BatchSize:           d.cfg.Detection.BatchSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return pipeline.Options{
		ResizedShape: geometry.ResizeSpec{
			Height:              o.ResizedHeight,
			Width:               o.ResizedWidth,
			PreserveAspectRatio: o.PreserveAspectRatio,
		},
		MinBoxSize:     o.MinBoxSize,
		BoxScoreThresh: o.BoxScoreThresh,
		BatchSize:      o.BatchSize,
	}
}
