package utils

import "fmt"

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// InvalidConfigurationError reports a configuration value the pipeline cannot
// work with (bad resize target, unknown model/backend combination). It is
// fatal and surfaced at construction or call time; never retried.
type InvalidConfigurationError struct {
	Option string
	Err    error
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %v", e.Option, e.Err)
}

func (e *InvalidConfigurationError) Unwrap() error { return e.Err }

// UnsupportedInputTypeError reports a caller-provided value outside the
// accepted image-representation set.
type UnsupportedInputTypeError struct {
	Value any
}

func (e *UnsupportedInputTypeError) Error() string {
	return fmt.Sprintf("unsupported input type %T", e.Value)
}

// InvalidInputError identifies an individual image that could not be decoded
// or read, including its position in the caller's input list.
type InvalidInputError struct {
	Index int
	Path  string
	Err   error
}

func (e *InvalidInputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid input image at index %d (%s): %v", e.Index, e.Path, e.Err)
	}
	return fmt.Sprintf("invalid input image at index %d: %v", e.Index, e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }
