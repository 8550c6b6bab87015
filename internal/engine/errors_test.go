package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/panekit/panekit/pkg/layout"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"capacity", layout.ErrCapacityExceeded, ErrorKindCapacityExceeded},
		{"wrapped capacity", fmt.Errorf("add failed: %w", layout.ErrCapacityExceeded), ErrorKindCapacityExceeded},
		{"invalid resize", layout.ErrInvalidResize, ErrorKindInvalidResize},
		{"invalid move", layout.ErrInvalidMove, ErrorKindInvalidMove},
		{"validation", fmt.Errorf("%w: 2 errors", ErrValidationFailed), ErrorKindValidationFailed},
		{"unrecognized", errors.New("something else"), ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError("main", tt.err)
			if classified.Kind != tt.expected {
				t.Errorf("expected kind %s, got %s", tt.expected, classified.Kind)
			}
			if classified.Surface != "main" {
				t.Errorf("expected surface 'main', got %q", classified.Surface)
			}
		})
	}
}

func TestAdaptationErrorUnwraps(t *testing.T) {
	classified := ClassifyError("main", fmt.Errorf("resize: %w", layout.ErrInvalidResize))

	if !errors.Is(classified, layout.ErrInvalidResize) {
		t.Error("classified error should unwrap to the sentinel")
	}

	var ae *AdaptationError
	if !errors.As(error(classified), &ae) {
		t.Error("errors.As should match AdaptationError")
	}
}
