// Package orientation classifies text orientation: a 180-degree rectifier
// for detected crops and a whole-image rotation estimator used before
// detection. Both are backed by an ONNX classifier when a model is
// available, with a gradient-projection heuristic fallback.
package orientation

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	"github.com/scenetext/stdetect/internal/models"
	"github.com/scenetext/stdetect/internal/onnx"
	"github.com/scenetext/stdetect/internal/utils"
	onnxrt "github.com/yalue/onnxruntime_go"
)

// Config controls orientation classification behavior.
type Config struct {
	Enabled             bool
	ModelName           string
	ModelPath           string // overrides ModelName resolution when set
	ModelsDir           string
	ConfidenceThreshold float64
	NumThreads          int
	// Falls back to the heuristic when the ONNX model is unavailable or
	// fails to initialize (useful for tests without model/runtime).
	UseHeuristicFallback bool
	GPU                  onnx.GPUConfig
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:              false,
		ModelName:            models.AngleClassifierMobile,
		ConfidenceThreshold:  0.9,
		NumThreads:           0,
		UseHeuristicFallback: true,
		GPU:                  onnx.DefaultGPUConfig(),
	}
}

// Result represents a predicted orientation.
type Result struct {
	Angle      int     // one of {0, 90, 180, 270}
	Confidence float64 // probability for the chosen angle (0..1)
}

// Classifier predicts image orientation.
type Classifier struct {
	cfg        Config
	session    *onnxrt.DynamicAdvancedSession
	inputInfo  onnxrt.InputOutputInfo
	outputInfo onnxrt.InputOutputInfo
	inH, inW   int
	heuristic  bool
}

// NewClassifier creates an ONNX-backed classifier, falling back to the
// heuristic when permitted.
func NewClassifier(cfg Config) (*Classifier, error) {
	if !cfg.Enabled {
		return &Classifier{cfg: cfg, heuristic: true}, nil
	}

	c, err := tryCreateONNXClassifier(cfg)
	if err == nil {
		return c, nil
	}
	if cfg.UseHeuristicFallback {
		slog.Debug("Orientation model unavailable, using heuristic", "error", err)
		return &Classifier{cfg: cfg, heuristic: true}, nil
	}
	return nil, &utils.InvalidConfigurationError{Option: "angle_classifier", Err: err}
}

func tryCreateONNXClassifier(cfg Config) (*Classifier, error) {
	modelPath := cfg.ModelPath
	if modelPath == "" {
		var err error
		modelPath, err = models.ResolveAngleClassifierModel(cfg.ModelsDir, cfg.ModelName)
		if err != nil {
			return nil, err
		}
	}
	if err := models.ValidateModelExists(modelPath); err != nil {
		return nil, err
	}

	if err := onnx.SetLibraryPath(cfg.GPU.UseGPU); err != nil {
		return nil, fmt.Errorf("onnx lib path: %w", err)
	}
	if !onnxrt.IsInitialized() {
		if err := onnxrt.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("init onnx: %w", err)
		}
	}

	inputs, outputs, err := onnxrt.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("io info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("unexpected io (in:%d out:%d)", len(inputs), len(outputs))
	}
	in, out := inputs[0], outputs[0]
	if len(in.Dimensions) != 4 {
		return nil, fmt.Errorf("expected 4D input, got %dD", len(in.Dimensions))
	}

	opts, err := onnxrt.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("session opts: %w", err)
	}
	defer func() {
		if err := opts.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying session options: %v\n", err)
		}
	}()
	if err := onnx.ConfigureSessionForGPU(opts, cfg.GPU); err != nil {
		return nil, fmt.Errorf("failed to configure GPU: %w", err)
	}
	if cfg.NumThreads > 0 {
		_ = opts.SetIntraOpNumThreads(cfg.NumThreads)
	}

	sess, err := onnxrt.NewDynamicAdvancedSession(modelPath, []string{in.Name}, []string{out.Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	c := &Classifier{cfg: cfg, session: sess, inputInfo: in, outputInfo: out}
	if h := in.Dimensions[2]; h > 0 {
		c.inH = int(h)
	}
	if w := in.Dimensions[3]; w > 0 {
		c.inW = int(w)
	}
	return c, nil
}

// Close releases resources.
func (c *Classifier) Close() {
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying session: %v\n", err)
		}
		c.session = nil
	}
}

// Predict returns the orientation of one image. Predictions below the
// confidence threshold resolve to angle 0.
func (c *Classifier) Predict(img image.Image) (Result, error) {
	if img == nil {
		return Result{}, errors.New("nil image")
	}
	results, err := c.BatchPredict([]image.Image{img})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// BatchPredict classifies multiple images in one batched inference call.
// Results align 1:1 with the input order.
func (c *Classifier) BatchPredict(images []image.Image) ([]Result, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if c.heuristic || c.session == nil {
		results := make([]Result, len(images))
		for i, img := range images {
			results[i] = c.applyThreshold(heuristicOrientation(img))
		}
		return results, nil
	}
	return c.batchPredictONNX(images)
}

func (c *Classifier) applyThreshold(angle int, conf float64) Result {
	if conf < c.cfg.ConfidenceThreshold {
		return Result{Angle: 0, Confidence: conf}
	}
	return Result{Angle: angle, Confidence: conf}
}

func (c *Classifier) batchPredictONNX(images []image.Image) ([]Result, error) {
	inH, inW := c.inH, c.inW
	if inH <= 0 || inW <= 0 {
		inH, inW = 48, 192
	}

	buffers := make([][]float32, 0, len(images))
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("nil image at index %d", i)
		}
		resized := imaging.Resize(img, inW, inH, imaging.Lanczos)
		data, _, _, err := utils.NormalizeImage(resized)
		if err != nil {
			return nil, err
		}
		buffers = append(buffers, data)
	}

	batch, err := onnx.NewBatchImageTensor(buffers, 3, inH, inW)
	if err != nil {
		return nil, fmt.Errorf("batch tensor: %w", err)
	}
	input, err := onnxrt.NewTensor(onnxrt.NewShape(batch.Shape...), batch.Data)
	if err != nil {
		return nil, fmt.Errorf("tensor: %w", err)
	}
	defer func() {
		if err := input.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying input tensor: %v\n", err)
		}
	}()

	outputs := []onnxrt.Value{nil}
	if err := c.session.Run([]onnxrt.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o == nil {
				continue
			}
			if err := o.Destroy(); err != nil {
				fmt.Fprintf(os.Stderr, "Error destroying output tensor: %v\n", err)
			}
		}
	}()

	t, ok := outputs[0].(*onnxrt.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}
	shape := t.GetShape()
	if len(shape) != 2 || int(shape[0]) != len(images) || shape[1] < 2 {
		return nil, fmt.Errorf("unexpected output shape %v", shape)
	}

	classes := int(shape[1])
	data := t.GetData()
	results := make([]Result, len(images))
	for i := range images {
		logits := data[i*classes : (i+1)*classes]
		angle, conf := orientationFromLogits(logits)
		results[i] = c.applyThreshold(angle, conf)
	}
	return results, nil
}

// orientationFromLogits maps classifier logits to an angle. Two-class
// models distinguish 0/180; four-class models cover the quarter turns.
func orientationFromLogits(logits []float32) (int, float64) {
	var angles []int
	if len(logits) >= 4 {
		angles = []int{0, 90, 180, 270}
		logits = logits[:4]
	} else {
		angles = []int{0, 180}
		logits = logits[:2]
	}
	probs := softmax(logits)
	idx := argmax(probs)
	return angles[idx], probs[idx]
}
