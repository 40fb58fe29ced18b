package detector

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/scenetext/stdetect/internal/models"
	"github.com/scenetext/stdetect/internal/onnx"
	"github.com/yalue/onnxruntime_go"
)

// ONNXBackend is the production Backend backed by an ONNX Runtime session.
type ONNXBackend struct {
	config     Config
	session    *onnxruntime_go.DynamicAdvancedSession
	inputInfo  onnxruntime_go.InputOutputInfo
	outputInfo onnxruntime_go.InputOutputInfo
	mu         sync.RWMutex
}

// NewONNXBackend creates a detection backend from the given configuration.
func NewONNXBackend(config Config) (*ONNXBackend, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if err := models.ValidateModelExists(config.ModelPath); err != nil {
		return nil, err
	}

	slog.Debug("Initializing detection backend",
		"model_path", config.ModelPath,
		"gpu_enabled", config.GPU.UseGPU,
		"num_threads", config.NumThreads)

	if err := setupONNXEnvironment(config.GPU.UseGPU); err != nil {
		return nil, err
	}

	inputInfo, outputInfo, err := modelIOInfo(config.ModelPath)
	if err != nil {
		return nil, err
	}

	session, err := createSession(config, inputInfo, outputInfo)
	if err != nil {
		return nil, err
	}

	slog.Debug("Detection backend initialized")
	return &ONNXBackend{
		config:     config,
		session:    session,
		inputInfo:  inputInfo,
		outputInfo: outputInfo,
	}, nil
}

// setupONNXEnvironment prepares the ONNX Runtime shared library and env.
func setupONNXEnvironment(useGPU bool) error {
	if err := onnx.SetLibraryPath(useGPU); err != nil {
		return fmt.Errorf("failed to set ONNX Runtime library path: %w", err)
	}
	if !onnxruntime_go.IsInitialized() {
		if err := onnxruntime_go.InitializeEnvironment(); err != nil {
			return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
		}
	}
	return nil
}

func modelIOInfo(modelPath string) (onnxruntime_go.InputOutputInfo, onnxruntime_go.InputOutputInfo, error) {
	inputs, outputs, err := onnxruntime_go.GetInputOutputInfo(modelPath)
	if err != nil {
		return onnxruntime_go.InputOutputInfo{}, onnxruntime_go.InputOutputInfo{},
			fmt.Errorf("failed to get model input/output info: %w", err)
	}
	if len(inputs) != 1 {
		return onnxruntime_go.InputOutputInfo{}, onnxruntime_go.InputOutputInfo{},
			fmt.Errorf("expected 1 input, got %d", len(inputs))
	}
	if len(outputs) != 1 {
		return onnxruntime_go.InputOutputInfo{}, onnxruntime_go.InputOutputInfo{},
			fmt.Errorf("expected 1 output, got %d", len(outputs))
	}
	return inputs[0], outputs[0], nil
}

func createSession(config Config, inputInfo, outputInfo onnxruntime_go.InputOutputInfo,
) (*onnxruntime_go.DynamicAdvancedSession, error) {
	sessionOptions, err := onnxruntime_go.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() {
		if err := sessionOptions.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying session options: %v\n", err)
		}
	}()

	if err := onnx.ConfigureSessionForGPU(sessionOptions, config.GPU); err != nil {
		return nil, fmt.Errorf("failed to configure GPU: %w", err)
	}
	if config.NumThreads > 0 {
		if err := sessionOptions.SetIntraOpNumThreads(config.NumThreads); err != nil {
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	session, err := onnxruntime_go.NewDynamicAdvancedSession(config.ModelPath,
		[]string{inputInfo.Name}, []string{outputInfo.Name}, sessionOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	return session, nil
}

// Run performs one batched inference call and splits the 4D output into
// per-image probability maps.
func (b *ONNXBackend) Run(batch onnx.Tensor) (*RawOutput, error) {
	if err := onnx.VerifyImageTensor(batch); err != nil {
		return nil, fmt.Errorf("invalid batch tensor: %w", err)
	}

	b.mu.RLock()
	session := b.session
	b.mu.RUnlock()
	if session == nil {
		return nil, errors.New("backend session is closed")
	}

	inputTensor, err := onnxruntime_go.NewTensor(onnxruntime_go.NewShape(batch.Shape...), batch.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer func() {
		if err := inputTensor.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying input tensor: %v\n", err)
		}
	}()

	outputs := []onnxruntime_go.Value{nil}
	if err := session.Run([]onnxruntime_go.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	defer func() {
		for _, output := range outputs {
			if output == nil {
				continue
			}
			if err := output.Destroy(); err != nil {
				fmt.Fprintf(os.Stderr, "Error destroying output tensor: %v\n", err)
			}
		}
	}()

	if len(outputs) != 1 {
		return nil, fmt.Errorf("expected 1 output, got %d", len(outputs))
	}
	floatTensor, ok := outputs[0].(*onnxruntime_go.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("expected float32 tensor, got %T", outputs[0])
	}

	shape := floatTensor.GetShape()
	if len(shape) != 4 {
		return nil, fmt.Errorf("expected 4D output tensor, got %dD", len(shape))
	}
	batchSize := int(shape[0])
	if batchSize != int(batch.Shape[0]) {
		return nil, fmt.Errorf("output batch size %d doesn't match input batch size %d", batchSize, batch.Shape[0])
	}

	// copy out of the runtime-owned buffer before the tensor is destroyed
	data := floatTensor.GetData()
	maps := make([]float32, len(data))
	copy(maps, data)

	return &RawOutput{
		Maps:      maps,
		BatchSize: batchSize,
		Height:    int(shape[2]),
		Width:     int(shape[3]),
	}, nil
}

// Close releases the underlying session.
func (b *ONNXBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session != nil {
		if err := b.session.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying detection session: %v\n", err)
		}
		b.session = nil
	}
	return nil
}
