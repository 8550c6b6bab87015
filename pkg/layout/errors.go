package layout

import "errors"

// Sentinel errors for layout operations following Go best practices.
// These enable reliable error checking with errors.Is()
var (
	// ErrPaneNotFound indicates the referenced pane is not in the layout
	ErrPaneNotFound = errors.New("pane not found in layout")

	// ErrDuplicatePane indicates a pane with the same id already exists
	ErrDuplicatePane = errors.New("pane id already exists in layout")

	// ErrCapacityExceeded indicates the layout cannot take another pane
	ErrCapacityExceeded = errors.New("layout capacity exceeded")

	// ErrInvalidResize indicates the resize request cannot be satisfied
	ErrInvalidResize = errors.New("invalid resize request")

	// ErrInvalidMove indicates no collision-free position exists
	ErrInvalidMove = errors.New("invalid move request")
)
