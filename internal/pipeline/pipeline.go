// Package pipeline runs the full detection flow: optional whole-image
// rotation correction, batched resize/normalize/inference, probability-map
// decoding, coordinate remapping and crop extraction.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/scenetext/stdetect/internal/decode"
	"github.com/scenetext/stdetect/internal/detector"
	"github.com/scenetext/stdetect/internal/geometry"
	"github.com/scenetext/stdetect/internal/orientation"
	"github.com/scenetext/stdetect/internal/utils"
)

// Config holds the static pipeline setup. Per-call knobs live in Options.
type Config struct {
	Decode               decode.Config
	AutoRotateWholeImage bool
}

// DefaultConfig provides pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Decode:               decode.DefaultConfig(),
		AutoRotateWholeImage: false,
	}
}

// Options are per-call detection parameters.
type Options struct {
	ResizedShape   geometry.ResizeSpec
	MinBoxSize     float64
	BoxScoreThresh float64
	BatchSize      int
}

// DefaultOptions returns the standard detection parameters.
func DefaultOptions() Options {
	return Options{
		ResizedShape:   geometry.DefaultResizeSpec(),
		MinBoxSize:     8,
		BoxScoreThresh: 0.3,
		BatchSize:      20,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if err := o.ResizedShape.Validate(); err != nil {
		return err
	}
	if o.MinBoxSize < 0 {
		return &utils.InvalidConfigurationError{
			Option: "min_box_size",
			Err:    fmt.Errorf("must be non-negative, got %g", o.MinBoxSize),
		}
	}
	if o.BoxScoreThresh < 0 || o.BoxScoreThresh > 1 {
		return &utils.InvalidConfigurationError{
			Option: "box_score_thresh",
			Err:    fmt.Errorf("must be in [0, 1], got %g", o.BoxScoreThresh),
		}
	}
	if o.BatchSize <= 0 {
		return &utils.InvalidConfigurationError{
			Option: "batch_size",
			Err:    fmt.Errorf("must be positive, got %d", o.BatchSize),
		}
	}
	return nil
}

// Pipeline ties a detection backend together with the decoder and the
// optional orientation classifier.
type Pipeline struct {
	cfg        Config
	backend    detector.Backend
	classifier *orientation.Classifier
}

// New creates a pipeline around an inference backend. The classifier may
// be nil when whole-image rotation correction is not wanted.
func New(cfg Config, backend detector.Backend, classifier *orientation.Classifier) (*Pipeline, error) {
	if backend == nil {
		return nil, errors.New("pipeline requires a detection backend")
	}
	if cfg.AutoRotateWholeImage && classifier == nil {
		return nil, &utils.InvalidConfigurationError{
			Option: "auto_rotate_whole_image",
			Err:    errors.New("requires an orientation classifier"),
		}
	}
	return &Pipeline{cfg: cfg, backend: backend, classifier: classifier}, nil
}

// Classifier exposes the orientation classifier, nil when not configured.
func (p *Pipeline) Classifier() *orientation.Classifier {
	return p.classifier
}

// Close releases the backend and classifier resources.
func (p *Pipeline) Close() error {
	var err error
	if p.backend != nil {
		err = p.backend.Close()
		p.backend = nil
	}
	if p.classifier != nil {
		p.classifier.Close()
		p.classifier = nil
	}
	return err
}
