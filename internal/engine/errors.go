package engine

import (
	"errors"
	"fmt"

	"github.com/panekit/panekit/pkg/layout"
)

// ErrorKind classifies adaptation failures for reporting and history.
type ErrorKind string

const (
	ErrorKindCapacityExceeded ErrorKind = "capacity-exceeded"
	ErrorKindInvalidResize    ErrorKind = "invalid-resize"
	ErrorKindInvalidMove      ErrorKind = "invalid-move"
	ErrorKindValidationFailed ErrorKind = "validation-failed"
	ErrorKindUnknown          ErrorKind = "unknown"
)

// ErrValidationFailed indicates a candidate layout violated its constraints
var ErrValidationFailed = errors.New("layout validation failed")

// AdaptationError carries the failure kind across the engine boundary so
// consumers can react without string matching.
type AdaptationError struct {
	Kind    ErrorKind
	Surface string
	Err     error
}

func (e *AdaptationError) Error() string {
	return fmt.Sprintf("adaptation failed on %s (%s): %v", e.Surface, e.Kind, e.Err)
}

func (e *AdaptationError) Unwrap() error {
	return e.Err
}

// ClassifyError maps lower-layer errors onto their kind. Unrecognized
// errors come through as unknown rather than being dropped.
func ClassifyError(surface string, err error) *AdaptationError {
	kind := ErrorKindUnknown
	switch {
	case errors.Is(err, layout.ErrCapacityExceeded):
		kind = ErrorKindCapacityExceeded
	case errors.Is(err, layout.ErrInvalidResize):
		kind = ErrorKindInvalidResize
	case errors.Is(err, layout.ErrInvalidMove):
		kind = ErrorKindInvalidMove
	case errors.Is(err, ErrValidationFailed):
		kind = ErrorKindValidationFailed
	}
	return &AdaptationError{Kind: kind, Surface: surface, Err: err}
}
