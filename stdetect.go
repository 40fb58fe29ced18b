// Package stdetect detects text regions in natural-scene and document
// images using DBNet-style segmentation models via ONNX Runtime. It covers
// localization only: finding boxes and cutting crops, not reading them.
//
// Basic usage:
//
//	det, err := stdetect.New(stdetect.NewConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer det.Close()
//
//	results, err := det.Detect("photo.jpg")
package stdetect

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/scenetext/stdetect/internal/config"
	"github.com/scenetext/stdetect/internal/decode"
	"github.com/scenetext/stdetect/internal/detector"
	"github.com/scenetext/stdetect/internal/models"
	"github.com/scenetext/stdetect/internal/onnx"
	"github.com/scenetext/stdetect/internal/orientation"
	"github.com/scenetext/stdetect/internal/pipeline"
	"github.com/scenetext/stdetect/internal/utils"
)

// Config configures a Detector. See NewConfig for defaults.
type Config = config.Config

// AngleClassifierConfig configures the optional 180-degree crop rectifier.
type AngleClassifierConfig = config.AngleClassifierConfig

// Region is a detected text region, either axis-aligned or rotated.
type Region = decode.Region

// Kind discriminates the two region representations.
type Kind = decode.Kind

// Region kinds.
const (
	KindAxisAligned = decode.KindAxisAligned
	KindRotated     = decode.KindRotated
)

// DetectedText is one text region with its score and extracted crop.
type DetectedText = pipeline.DetectedText

// Result is the detection output for one input image.
type Result = pipeline.Result

// ModelInfo describes a known model.
type ModelInfo = models.ModelInfo

// Error types returned by construction and detection.
type (
	InvalidConfigurationError = utils.InvalidConfigurationError
	UnsupportedInputTypeError = utils.UnsupportedInputTypeError
	InvalidInputError         = utils.InvalidInputError
)

// NewConfig returns the default configuration: the small ShuffleNet DBNet
// model on CPU with rotated boxes enabled.
func NewConfig() Config {
	return config.Default()
}

// LoadConfig reads a configuration file (YAML), layering STDETECT_*
// environment variables on top. An empty path searches the standard
// locations and falls back to defaults.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// ListAvailableModels enumerates the models this package knows how to
// resolve.
func ListAvailableModels() []ModelInfo {
	return models.ListAvailable()
}

// Detector runs scene-text detection. It is safe for concurrent use;
// Close waits for in-flight Detect calls.
type Detector struct {
	cfg  Config
	pipe *pipeline.Pipeline
	mu   sync.RWMutex
}

// New builds a Detector from cfg, loading the ONNX model eagerly so that
// configuration and model problems surface at construction time.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	modelPath := cfg.ModelPath
	if modelPath == "" {
		var err error
		modelPath, err = models.ResolveDetectionModel(cfg.ModelsDir, cfg.ModelName, cfg.GraphFormat)
		if err != nil {
			return nil, &utils.InvalidConfigurationError{Option: "model_name", Err: err}
		}
	}

	gpu := onnx.DefaultGPUConfig()
	gpu.UseGPU = cfg.Context == "gpu"
	backend, err := detector.NewONNXBackend(detector.Config{
		ModelPath:  modelPath,
		NumThreads: cfg.NumThreads,
		GPU:        gpu,
	})
	if err != nil {
		return nil, fmt.Errorf("load detection model: %w", err)
	}

	var classifier *orientation.Classifier
	if cfg.AutoRotateWholeImage || cfg.AngleClassifier.Enabled {
		ocfg := orientation.DefaultConfig()
		ocfg.Enabled = cfg.AngleClassifier.Enabled
		ocfg.ModelName = cfg.AngleClassifier.ModelName
		ocfg.ModelPath = cfg.AngleClassifier.ModelPath
		ocfg.ModelsDir = cfg.ModelsDir
		if cfg.AngleClassifier.ConfidenceThreshold > 0 {
			ocfg.ConfidenceThreshold = cfg.AngleClassifier.ConfidenceThreshold
		}
		ocfg.NumThreads = cfg.NumThreads
		ocfg.GPU = gpu
		classifier, err = orientation.NewClassifier(ocfg)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
	}

	pipe, err := pipeline.New(pipeline.Config{
		Decode: decode.Config{
			BinaryThresh:   float32(cfg.Detection.BinaryThresh),
			BoxScoreThresh: cfg.Detection.BoxScoreThresh,
			MinBoxSize:     cfg.Detection.MinBoxSize,
			UnclipRatio:    cfg.Detection.UnclipRatio,
			RotatedBBox:    cfg.RotatedBBox,
		},
		AutoRotateWholeImage: cfg.AutoRotateWholeImage,
	}, backend, classifier)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	slog.Debug("Detector ready",
		"model", modelPath,
		"context", cfg.Context,
		"rotated_bbox", cfg.RotatedBBox,
		"angle_classifier", cfg.AngleClassifier.Enabled)

	return &Detector{cfg: cfg, pipe: pipe}, nil
}

// NewFromFile builds a Detector from a configuration file.
func NewFromFile(path string) (*Detector, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Close releases the model sessions. The Detector must not be used after.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pipe == nil {
		return nil
	}
	err := d.pipe.Close()
	d.pipe = nil
	return err
}
