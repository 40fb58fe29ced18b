package stdetect

import (
	"errors"
	"fmt"
	"image"

	"github.com/scenetext/stdetect/internal/utils"
)

// Detect localizes text regions in the input. The input may be a single
// item or a slice of items, where each item is a file path (string), a
// decoded image.Image, or raw encoded bytes ([]byte). One Result per input
// image is returned, aligned with input order. A failure on any item
// aborts the whole call: either every image is processed or none is.
func (d *Detector) Detect(input any, opts ...DetectOption) ([]Result, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.pipe == nil {
		return nil, errors.New("detector is closed")
	}
	images, err := resolveInputs(input)
	if err != nil {
		return nil, err
	}

	results, err := d.pipe.Detect(images, d.detectOptions(opts))
	if err != nil {
		return nil, err
	}

	if d.cfg.AngleClassifier.Enabled {
		if err := d.rectifyCrops(results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// DetectOne is Detect for exactly one image, unwrapping the single result.
func (d *Detector) DetectOne(input any, opts ...DetectOption) (Result, error) {
	results, err := d.Detect(input, opts...)
	if err != nil {
		return Result{}, err
	}
	if len(results) != 1 {
		return Result{}, fmt.Errorf("expected a single image, got %d", len(results))
	}
	return results[0], nil
}

// rectifyCrops flips upside-down crops. All crops across all results go
// through one batched classifier call, then land back on their regions in
// order.
func (d *Detector) rectifyCrops(results []Result) error {
	classifier := d.pipe.Classifier()
	if classifier == nil {
		return nil
	}

	var flat []image.Image
	for _, res := range results {
		for _, text := range res.Texts {
			flat = append(flat, text.CroppedImage)
		}
	}
	if len(flat) == 0 {
		return nil
	}

	rectified, _, err := classifier.Rectify(flat)
	if err != nil {
		return fmt.Errorf("angle classification: %w", err)
	}

	k := 0
	for i := range results {
		for j := range results[i].Texts {
			results[i].Texts[j].CroppedImage = rectified[k]
			k++
		}
	}
	return nil
}

// resolveInputs normalizes the polymorphic Detect input into a flat image
// slice. Single items become a one-element batch.
func resolveInputs(input any) ([]image.Image, error) {
	switch v := input.(type) {
	case nil:
		return nil, &utils.UnsupportedInputTypeError{Value: input}
	case string:
		img, err := loadOne(0, v)
		if err != nil {
			return nil, err
		}
		return []image.Image{img}, nil
	case image.Image:
		return []image.Image{v}, nil
	case []byte:
		img, err := decodeOne(0, v)
		if err != nil {
			return nil, err
		}
		return []image.Image{img}, nil
	case []string:
		images := make([]image.Image, len(v))
		for i, path := range v {
			img, err := loadOne(i, path)
			if err != nil {
				return nil, err
			}
			images[i] = img
		}
		return images, nil
	case []image.Image:
		for i, img := range v {
			if img == nil {
				return nil, &utils.InvalidInputError{Index: i, Err: errors.New("nil image")}
			}
		}
		return append([]image.Image(nil), v...), nil
	case [][]byte:
		images := make([]image.Image, len(v))
		for i, data := range v {
			img, err := decodeOne(i, data)
			if err != nil {
				return nil, err
			}
			images[i] = img
		}
		return images, nil
	case []any:
		images := make([]image.Image, len(v))
		for i, item := range v {
			img, err := resolveItem(i, item)
			if err != nil {
				return nil, err
			}
			images[i] = img
		}
		return images, nil
	default:
		return nil, &utils.UnsupportedInputTypeError{Value: input}
	}
}

func resolveItem(index int, item any) (image.Image, error) {
	switch v := item.(type) {
	case string:
		return loadOne(index, v)
	case image.Image:
		if v == nil {
			return nil, &utils.InvalidInputError{Index: index, Err: errors.New("nil image")}
		}
		return v, nil
	case []byte:
		return decodeOne(index, v)
	default:
		return nil, &utils.UnsupportedInputTypeError{Value: item}
	}
}

func loadOne(index int, path string) (image.Image, error) {
	img, _, err := utils.LoadImage(path)
	if err != nil {
		return nil, &utils.InvalidInputError{Index: index, Path: path, Err: err}
	}
	return img, nil
}

func decodeOne(index int, data []byte) (image.Image, error) {
	img, err := utils.DecodeImageBytes(data)
	if err != nil {
		return nil, &utils.InvalidInputError{Index: index, Err: err}
	}
	return img, nil
}
