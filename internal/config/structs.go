// Package config loads and validates detector configuration from files
// and environment variables.
package config

import (
	"fmt"

	"github.com/scenetext/stdetect/internal/models"
	"github.com/scenetext/stdetect/internal/utils"
	"gopkg.in/yaml.v3"
)

// Config is the full file/env-configurable surface of the detector.
type Config struct {
	ModelName            string                `mapstructure:"model_name" yaml:"model_name" json:"model_name"`
	ModelPath            string                `mapstructure:"model_path" yaml:"model_path,omitempty" json:"model_path,omitempty"`
	ModelsDir            string                `mapstructure:"models_dir" yaml:"models_dir,omitempty" json:"models_dir,omitempty"`
	GraphFormat          string                `mapstructure:"graph_format" yaml:"graph_format" json:"graph_format"`
	Context              string                `mapstructure:"context" yaml:"context" json:"context"`
	NumThreads           int                   `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`
	RotatedBBox          bool                  `mapstructure:"rotated_bbox" yaml:"rotated_bbox" json:"rotated_bbox"`
	AutoRotateWholeImage bool                  `mapstructure:"auto_rotate_whole_image" yaml:"auto_rotate_whole_image" json:"auto_rotate_whole_image"`
	Detection            DetectionConfig       `mapstructure:"detection" yaml:"detection" json:"detection"`
	AngleClassifier      AngleClassifierConfig `mapstructure:"angle_classifier" yaml:"angle_classifier" json:"angle_classifier"`
}

// DetectionConfig holds the per-call detection defaults.
type DetectionConfig struct {
	ResizedHeight       int     `mapstructure:"resized_height" yaml:"resized_height" json:"resized_height"`
	ResizedWidth        int     `mapstructure:"resized_width" yaml:"resized_width" json:"resized_width"`
	PreserveAspectRatio bool    `mapstructure:"preserve_aspect_ratio" yaml:"preserve_aspect_ratio" json:"preserve_aspect_ratio"`
	MinBoxSize          float64 `mapstructure:"min_box_size" yaml:"min_box_size" json:"min_box_size"`
	BoxScoreThresh      float64 `mapstructure:"box_score_thresh" yaml:"box_score_thresh" json:"box_score_thresh"`
	BatchSize           int     `mapstructure:"batch_size" yaml:"batch_size" json:"batch_size"`
	UnclipRatio         float64 `mapstructure:"unclip_ratio" yaml:"unclip_ratio" json:"unclip_ratio"`
	BinaryThresh        float64 `mapstructure:"binary_thresh" yaml:"binary_thresh" json:"binary_thresh"`
}

// AngleClassifierConfig configures the 180-degree crop rectifier.
type AngleClassifierConfig struct {
	Enabled             bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	ModelName           string  `mapstructure:"model_name" yaml:"model_name" json:"model_name"`
	ModelPath           string  `mapstructure:"model_path" yaml:"model_path,omitempty" json:"model_path,omitempty"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold" json:"confidence_threshold"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		ModelName:   models.DefaultDetectionModel,
		GraphFormat: models.GraphFormatNative,
		Context:     "cpu",
		RotatedBBox: true,
		Detection: DetectionConfig{
			ResizedHeight:       768,
			ResizedWidth:        768,
			PreserveAspectRatio: true,
			MinBoxSize:          8,
			BoxScoreThresh:      0.3,
			BatchSize:           20,
			UnclipRatio:         1.5,
			BinaryThresh:        0.3,
		},
		AngleClassifier: AngleClassifierConfig{
			Enabled:             false,
			ModelName:           models.AngleClassifierMobile,
			ConfidenceThreshold: 0.9,
		},
	}
}

// Validate checks value ranges and enum fields.
func (c Config) Validate() error {
	if c.ModelPath == "" && !models.IsKnownDetectionModel(c.ModelName) {
		return &utils.InvalidConfigurationError{
			Option: "model_name",
			Err:    fmt.Errorf("unknown model %q", c.ModelName),
		}
	}
	if !models.IsKnownGraphFormat(c.GraphFormat) {
		return &utils.InvalidConfigurationError{
			Option: "graph_format",
			Err:    fmt.Errorf("must be %q or %q, got %q", models.GraphFormatNative, models.GraphFormatPortable, c.GraphFormat),
		}
	}
	if c.Context != "cpu" && c.Context != "gpu" {
		return &utils.InvalidConfigurationError{
			Option: "context",
			Err:    fmt.Errorf("must be \"cpu\" or \"gpu\", got %q", c.Context),
		}
	}
	if c.NumThreads < 0 {
		return &utils.InvalidConfigurationError{
			Option: "num_threads",
			Err:    fmt.Errorf("must be non-negative, got %d", c.NumThreads),
		}
	}
	return c.Detection.validate()
}

func (d DetectionConfig) validate() error {
	if d.ResizedHeight <= 0 || d.ResizedWidth <= 0 || d.ResizedHeight%32 != 0 || d.ResizedWidth%32 != 0 {
		return &utils.InvalidConfigurationError{
			Option: "detection.resized_shape",
			Err:    fmt.Errorf("dimensions must be positive multiples of 32, got %dx%d", d.ResizedHeight, d.ResizedWidth),
		}
	}
	if d.MinBoxSize < 0 {
		return &utils.InvalidConfigurationError{
			Option: "detection.min_box_size",
			Err:    fmt.Errorf("must be non-negative, got %g", d.MinBoxSize),
		}
	}
	if d.BoxScoreThresh < 0 || d.BoxScoreThresh > 1 {
		return &utils.InvalidConfigurationError{
			Option: "detection.box_score_thresh",
			Err:    fmt.Errorf("must be in [0, 1], got %g", d.BoxScoreThresh),
		}
	}
	if d.BinaryThresh < 0 || d.BinaryThresh > 1 {
		return &utils.InvalidConfigurationError{
			Option: "detection.binary_thresh",
			Err:    fmt.Errorf("must be in [0, 1], got %g", d.BinaryThresh),
		}
	}
	if d.BatchSize <= 0 {
		return &utils.InvalidConfigurationError{
			Option: "detection.batch_size",
			Err:    fmt.Errorf("must be positive, got %d", d.BatchSize),
		}
	}
	if d.UnclipRatio < 0 {
		return &utils.InvalidConfigurationError{
			Option: "detection.unclip_ratio",
			Err:    fmt.Errorf("must be non-negative, got %g", d.UnclipRatio),
		}
	}
	return nil
}

// DumpYAML renders the effective configuration, useful for debugging what
// a loaded config resolved to.
func (c Config) DumpYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
