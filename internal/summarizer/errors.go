package summarizer

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable matches every *ModelUnavailableError
	ErrModelUnavailable = errors.New("summarization model unavailable")
	// ErrInference matches every *InferenceError
	ErrInference = errors.New("summarization failed")

	ErrEmptyInput  = errors.New("input text is empty")
	ErrEmptyOutput = errors.New("model returned an empty summary")
)

// ModelUnavailableError reports that the model could not be loaded
type ModelUnavailableError struct {
	Backend string
	Model   string
	Err     error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %s (%s) unavailable: %v", e.Model, e.Backend, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

func (e *ModelUnavailableError) Is(target error) bool { return target == ErrModelUnavailable }

// InferenceError reports a failure while generating a summary
type InferenceError struct {
	Backend string
	Err     error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("summarization with %s failed: %v", e.Backend, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

func (e *InferenceError) Is(target error) bool { return target == ErrInference }
