package detector

import (
	"errors"

	"github.com/scenetext/stdetect/internal/onnx"
)

// Config holds configuration for the ONNX detection backend.
type Config struct {
	ModelPath  string         // Path to the ONNX detection model
	NumThreads int            // Number of CPU threads (0 for auto)
	GPU        onnx.GPUConfig // GPU acceleration configuration
}

// DefaultConfig returns a default backend configuration. The model path is
// resolved by the caller via the models registry.
func DefaultConfig() Config {
	return Config{
		ModelPath:  "",
		NumThreads: 0,
		GPU:        onnx.DefaultGPUConfig(),
	}
}

func validateConfig(config Config) error {
	if config.ModelPath == "" {
		return errors.New("model path cannot be empty")
	}
	return onnx.ValidateGPUConfig(config.GPU)
}
