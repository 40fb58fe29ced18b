// Package models resolves model identifiers to local model files.
// Downloading and caching are the responsibility of an external registry;
// this package only deals in resolved paths.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Graph formats a model can be shipped in. "native" is the tensor-graph
// format the model was trained in; "portable" is the interchange format the
// runtime executes directly. Both resolve to ONNX artifacts on disk.
const (
	GraphFormatNative   = "native"
	GraphFormatPortable = "portable"
)

// Known detection model names.
const (
	DetectionDBShuffleNetSmall = "db_shufflenet_v2_small"
	DetectionDBShuffleNet      = "db_shufflenet_v2"
	DetectionDBResNet18        = "db_resnet18"
	DetectionDBMobileNetV3     = "db_mobilenet_v3"
	DetectionPPOCRv3           = "ch_PP-OCRv3_det"
)

// DefaultDetectionModel is used when the caller does not name one.
const DefaultDetectionModel = DetectionDBShuffleNetSmall

// AngleClassifierMobile is the default 180-degree orientation classifier.
const AngleClassifierMobile = "ch_ppocr_mobile_v2.0_cls"

// Model type categories for the on-disk layout.
const (
	TypeDetection = "detection"
	TypeAngleClf  = "angle_clf"
)

// EnvModelsDir overrides the models directory.
const EnvModelsDir = "STDETECT_MODELS_DIR"

// ModelInfo contains metadata about a known model.
type ModelInfo struct {
	Name        string
	Type        string
	Description string
	Filename    string
}

var detectionModels = map[string]ModelInfo{
	DetectionDBShuffleNetSmall: {
		Name:        DetectionDBShuffleNetSmall,
		Type:        TypeDetection,
		Description: "DB detector with a small ShuffleNet-v2 backbone",
		Filename:    DetectionDBShuffleNetSmall + ".onnx",
	},
	DetectionDBShuffleNet: {
		Name:        DetectionDBShuffleNet,
		Type:        TypeDetection,
		Description: "DB detector with a ShuffleNet-v2 backbone",
		Filename:    DetectionDBShuffleNet + ".onnx",
	},
	DetectionDBResNet18: {
		Name:        DetectionDBResNet18,
		Type:        TypeDetection,
		Description: "DB detector with a ResNet-18 backbone",
		Filename:    DetectionDBResNet18 + ".onnx",
	},
	DetectionDBMobileNetV3: {
		Name:        DetectionDBMobileNetV3,
		Type:        TypeDetection,
		Description: "DB detector with a MobileNet-v3 backbone",
		Filename:    DetectionDBMobileNetV3 + ".onnx",
	},
	DetectionPPOCRv3: {
		Name:        DetectionPPOCRv3,
		Type:        TypeDetection,
		Description: "PP-OCRv3 detection model",
		Filename:    DetectionPPOCRv3 + ".onnx",
	},
}

var angleClfModels = map[string]ModelInfo{
	AngleClassifierMobile: {
		Name:        AngleClassifierMobile,
		Type:        TypeAngleClf,
		Description: "Mobile 180-degree text orientation classifier",
		Filename:    AngleClassifierMobile + ".onnx",
	},
}

// DataDir returns the default root directory for model files (~/.stdetect).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stdetect"
	}
	return filepath.Join(home, ".stdetect")
}

// GetModelsDir returns the models directory path.
// Priority: explicit parameter, environment variable, default data dir.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}
	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}
	return DataDir()
}

// IsKnownDetectionModel reports whether name is a registered detection model.
func IsKnownDetectionModel(name string) bool {
	_, ok := detectionModels[name]
	return ok
}

// IsKnownGraphFormat reports whether format is a supported graph format.
func IsKnownGraphFormat(format string) bool {
	return format == GraphFormatNative || format == GraphFormatPortable
}

// ResolveDetectionModel resolves a detection model name to its file path
// under modelsDir. Unknown names or graph formats are rejected.
func ResolveDetectionModel(modelsDir, name, graphFormat string) (string, error) {
	if name == "" {
		name = DefaultDetectionModel
	}
	if graphFormat != "" && !IsKnownGraphFormat(graphFormat) {
		return "", fmt.Errorf("unknown graph format %q", graphFormat)
	}
	info, ok := detectionModels[name]
	if !ok {
		return "", fmt.Errorf("unknown detection model %q", name)
	}
	return resolvePath(modelsDir, TypeDetection, info.Filename), nil
}

// ResolveAngleClassifierModel resolves an orientation classifier model name
// to its file path under modelsDir.
func ResolveAngleClassifierModel(modelsDir, name string) (string, error) {
	if name == "" {
		name = AngleClassifierMobile
	}
	info, ok := angleClfModels[name]
	if !ok {
		return "", fmt.Errorf("unknown angle classifier model %q", name)
	}
	return resolvePath(modelsDir, TypeAngleClf, info.Filename), nil
}

// resolvePath prefers the organized layout (<dir>/<type>/<file>) and falls
// back to a flat layout (<dir>/<file>) for pre-existing installs.
func resolvePath(modelsDir, modelType, filename string) string {
	baseDir := GetModelsDir(modelsDir)
	organized := filepath.Join(baseDir, modelType, filename)
	if _, err := os.Stat(organized); err == nil {
		return organized
	}
	return filepath.Join(baseDir, filename)
}

// ValidateModelExists checks if a model file exists at the given path.
func ValidateModelExists(modelPath string) error {
	if modelPath == "" {
		return errors.New("model path cannot be empty")
	}
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	return nil
}

// ListAvailable returns information about all registered models.
func ListAvailable() []ModelInfo {
	out := make([]ModelInfo, 0, len(detectionModels)+len(angleClfModels))
	for _, name := range []string{
		DetectionDBShuffleNetSmall,
		DetectionDBShuffleNet,
		DetectionDBResNet18,
		DetectionDBMobileNetV3,
		DetectionPPOCRv3,
	} {
		out = append(out, detectionModels[name])
	}
	out = append(out, angleClfModels[AngleClassifierMobile])
	return out
}
