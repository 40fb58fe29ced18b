package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/scenetext/stdetect/internal/crop"
	"github.com/scenetext/stdetect/internal/decode"
	"github.com/scenetext/stdetect/internal/geometry"
	"github.com/scenetext/stdetect/internal/mempool"
	"github.com/scenetext/stdetect/internal/onnx"
	"github.com/scenetext/stdetect/internal/utils"
)

// Detect runs text detection on a batch of images. Results align 1:1 with
// the inputs; any failure aborts the whole call and returns no partial
// results.
func (p *Pipeline) Detect(images []image.Image, opts Options) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return []Result{}, nil
	}

	detectCalls.Inc()
	timer := prometheus.NewTimer(detectDuration)
	defer timer.ObserveDuration()

	results := make([]Result, len(images))
	work := make([]image.Image, len(images))
	for i, img := range images {
		if img == nil {
			return nil, &utils.InvalidInputError{Index: i, Err: errors.New("nil image")}
		}
		if p.cfg.AutoRotateWholeImage {
			corrected, angle, err := p.classifier.CorrectWholeImage(img)
			if err != nil {
				return nil, &utils.InvalidInputError{Index: i, Err: fmt.Errorf("rotation correction: %w", err)}
			}
			work[i] = corrected
			results[i].RotatedAngle = angle
		} else {
			work[i] = img
		}
	}

	for start := 0; start < len(work); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(work) {
			end = len(work)
		}
		if err := p.detectChunk(work[start:end], results[start:end], opts); err != nil {
			return nil, err
		}
	}

	imagesProcessed.Add(float64(len(images)))
	return results, nil
}

// detectChunk handles one inference batch. All images are resized to the
// same target shape so they can share a single NCHW tensor.
func (p *Pipeline) detectChunk(images []image.Image, out []Result, opts Options) error {
	buffers := make([][]float32, len(images))
	transforms := make([]geometry.Transform, len(images))
	defer func() {
		for _, buf := range buffers {
			if buf != nil {
				mempool.PutFloat32(buf)
			}
		}
	}()

	for i, img := range images {
		resized, xform, err := geometry.Resize(img, opts.ResizedShape)
		if err != nil {
			return err
		}
		data, _, _, err := utils.NormalizeImagePooled(resized)
		if err != nil {
			return err
		}
		buffers[i] = data
		transforms[i] = xform
	}

	batch, err := onnx.NewBatchImageTensor(buffers, 3, opts.ResizedShape.Height, opts.ResizedShape.Width)
	if err != nil {
		return fmt.Errorf("build batch tensor: %w", err)
	}

	raw, err := p.backend.Run(batch)
	if err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	if raw.BatchSize != len(images) {
		return fmt.Errorf("backend returned %d maps for %d images", raw.BatchSize, len(images))
	}

	dcfg := p.cfg.Decode
	dcfg.BoxScoreThresh = opts.BoxScoreThresh
	dcfg.MinBoxSize = opts.MinBoxSize

	for i, img := range images {
		prob, err := raw.MapFor(i)
		if err != nil {
			return err
		}
		regions, err := decode.DecodeProbabilityMap(prob, raw.Width, raw.Height, dcfg)
		if err != nil {
			return fmt.Errorf("decode map %d: %w", i, err)
		}

		// The output map can be a downsampled view of the network input;
		// fold that ratio into the resize transform before inverting.
		xform := transforms[i]
		if raw.Width != opts.ResizedShape.Width || raw.Height != opts.ResizedShape.Height {
			xform.ScaleX *= float64(raw.Width) / float64(opts.ResizedShape.Width)
			xform.ScaleY *= float64(raw.Height) / float64(opts.ResizedShape.Height)
		}

		texts := make([]DetectedText, 0, len(regions))
		for _, sr := range regions {
			region := sr.Region.ToOriginal(xform)
			texts = append(texts, DetectedText{
				Region:       region,
				Score:        sr.Score,
				CroppedImage: crop.Extract(img, region),
			})
		}
		out[i].Texts = texts
		regionsDetected.Add(float64(len(texts)))
	}
	return nil
}
