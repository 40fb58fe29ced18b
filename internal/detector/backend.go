// Package detector provides the batched inference backend consumed by the
// detection pipeline. The production backend is an ONNX Runtime session;
// tests inject fakes through the Backend interface.
package detector

import (
	"fmt"

	"github.com/scenetext/stdetect/internal/onnx"
)

// RawOutput holds the per-image probability maps produced by one batched
// inference call. Maps is laid out [N, 1, H, W].
type RawOutput struct {
	Maps      []float32
	BatchSize int
	Height    int
	Width     int
}

// MapFor returns the probability map slice for image i of the batch.
func (o *RawOutput) MapFor(i int) ([]float32, error) {
	if i < 0 || i >= o.BatchSize {
		return nil, fmt.Errorf("batch index %d out of range [0,%d)", i, o.BatchSize)
	}
	per := o.Height * o.Width
	return o.Maps[i*per : (i+1)*per], nil
}

// Backend runs detection inference on one fixed-shape tensor batch per call.
// Implementations are blocking and produce no partial output.
type Backend interface {
	Run(batch onnx.Tensor) (*RawOutput, error)
	Close() error
}
