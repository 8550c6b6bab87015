// Package layout implements pane lifecycle operations over split
// layouts. Every operation is copy-on-write: the input layout is never
// modified, and callers receive either a fresh layout or the original
// together with an error.
package layout

import (
	"fmt"

	"github.com/panekit/panekit/pkg/geometry"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/types"
)

// Manager applies pane operations to split layouts.
type Manager struct {
	solver *geometry.Solver
	logger logger.Logger
}

// NewManager creates a layout manager backed by the given solver.
func NewManager(solver *geometry.Solver, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewSimpleLogger("layout", "info")
	}
	return &Manager{
		solver: solver,
		logger: log,
	}
}

// AddPane inserts a pane into the layout. Partitioned split types carve
// out a proportional share of the container; mosaic and custom layouts
// place the pane at the optimal free slot. The new pane receives focus.
func (m *Manager) AddPane(current types.SplitLayout, pane types.Pane) (types.SplitLayout, error) {
	if pane.ID == "" {
		return current, fmt.Errorf("%w: empty pane id", ErrPaneNotFound)
	}
	if current.PaneIndex(pane.ID) >= 0 {
		return current, fmt.Errorf("%w: %q", ErrDuplicatePane, pane.ID)
	}
	if max := current.Constraints.MaxPanes; max > 0 && len(current.Panes) >= max {
		return current, fmt.Errorf("%w: layout holds %d of %d panes", ErrCapacityExceeded, len(current.Panes), max)
	}

	size, err := geometry.ClampSize(pane.Size)
	if err != nil {
		return current, fmt.Errorf("%w: %v", ErrInvalidResize, err)
	}
	pane = pane.Clone()
	pane.Size = size
	pane.State.Visible = true

	out := current.Clone()
	switch current.SplitType {
	case types.SplitHorizontal:
		if err := insertPartitioned(&out, &pane, geometry.AxisX); err != nil {
			return current, err
		}
	case types.SplitVertical:
		if err := insertPartitioned(&out, &pane, geometry.AxisY); err != nil {
			return current, err
		}
	default:
		pos, ok := m.solver.OptimalSlot(out, pane.Size)
		if !ok {
			return current, fmt.Errorf("%w: no free slot for %gx%g pane", ErrCapacityExceeded, pane.Size.Width, pane.Size.Height)
		}
		pane.Position.X = pos.X
		pane.Position.Y = pos.Y
	}

	out.Panes = append(out.Panes, pane)
	out.FocusedPane = pane.ID

	m.logger.Debug("pane added",
		logger.WithField("pane_id", pane.ID),
		logger.WithField("pane_count", len(out.Panes)))
	return out, nil
}

// insertPartitioned makes room for a new pane in a horizontal or
// vertical split by shrinking existing panes proportionally.
func insertPartitioned(out *types.SplitLayout, pane *types.Pane, axis geometry.Axis) error {
	total := out.Container.Width
	if axis == geometry.AxisY {
		total = out.Container.Height
	}
	if total <= 0 {
		for _, p := range out.Panes {
			if axis == geometry.AxisX {
				total += p.Size.Width
			} else {
				total += p.Size.Height
			}
		}
		if axis == geometry.AxisX {
			total += pane.Size.Width
		} else {
			total += pane.Size.Height
		}
	}

	share := total / float64(len(out.Panes)+1)
	if axis == geometry.AxisX {
		pane.Size.Width = share
		pane.Size.Height = out.Container.Height
	} else {
		pane.Size.Height = share
		pane.Size.Width = out.Container.Width
	}
	resolved, err := geometry.ClampSize(pane.Size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResize, err)
	}
	pane.Size = resolved

	// Shrink existing panes to free the new pane's share, then pack.
	shrunk, packErr := geometry.ShrinkInto(*out, axisLength(*pane, axis), axis)
	if packErr != nil {
		return fmt.Errorf("%w: %v", ErrCapacityExceeded, packErr)
	}
	out.Panes = shrunk.Panes

	cursor := 0.0
	for i := range out.Panes {
		if axis == geometry.AxisX {
			out.Panes[i].Position.X = cursor
			cursor += out.Panes[i].Size.Width
		} else {
			out.Panes[i].Position.Y = cursor
			cursor += out.Panes[i].Size.Height
		}
	}
	if axis == geometry.AxisX {
		pane.Position.X = cursor
		pane.Position.Y = 0
	} else {
		pane.Position.Y = cursor
		pane.Position.X = 0
	}
	return nil
}

func axisLength(p types.Pane, axis geometry.Axis) float64 {
	if axis == geometry.AxisX {
		return p.Size.Width
	}
	return p.Size.Height
}

// ResizePane resizes the identified pane, redistributing the difference
// across affected siblings under the layout's split type rule. Resizing
// a pane to its current size is a no-op that returns an equal layout.
func (m *Manager) ResizePane(current types.SplitLayout, paneID string, newSize types.Size) (types.SplitLayout, error) {
	idx := current.PaneIndex(paneID)
	if idx < 0 {
		return current, fmt.Errorf("%w: %q", ErrPaneNotFound, paneID)
	}

	out, err := m.solver.ResolveResize(current, idx, newSize)
	if err != nil {
		return current, fmt.Errorf("%w: %v", ErrInvalidResize, err)
	}

	m.logger.Debug("pane resized",
		logger.WithField("pane_id", paneID),
		logger.WithField("width", out.Panes[idx].Size.Width),
		logger.WithField("height", out.Panes[idx].Size.Height))
	return out, nil
}

// MovePane places the identified pane at the nearest collision-free
// position to the target, snapping to the grid when the pane requests
// it. When no valid position exists within the search radius the layout
// is returned unchanged with ErrInvalidMove.
func (m *Manager) MovePane(current types.SplitLayout, paneID string, target types.Position) (types.SplitLayout, error) {
	idx := current.PaneIndex(paneID)
	if idx < 0 {
		return current, fmt.Errorf("%w: %q", ErrPaneNotFound, paneID)
	}

	pos, ok := m.solver.NearestValidPosition(current, paneID, target)
	if !ok {
		return current, fmt.Errorf("%w: no collision-free position near (%g, %g)", ErrInvalidMove, target.X, target.Y)
	}

	out := current.Clone()
	out.Panes[idx].Position.X = pos.X
	out.Panes[idx].Position.Y = pos.Y

	m.logger.Debug("pane moved",
		logger.WithField("pane_id", paneID),
		logger.WithField("x", pos.X),
		logger.WithField("y", pos.Y))
	return out, nil
}

// RemovePane deletes the identified pane and reflows its extent to
// adjacent panes. Focus transfers to the first remaining pane in
// stacking order when the removed pane held it.
func (m *Manager) RemovePane(current types.SplitLayout, paneID string) (types.SplitLayout, error) {
	idx := current.PaneIndex(paneID)
	if idx < 0 {
		return current, fmt.Errorf("%w: %q", ErrPaneNotFound, paneID)
	}
	if min := current.Constraints.MinPanes; min > 0 && len(current.Panes)-1 < min {
		return current, fmt.Errorf("%w: layout requires at least %d panes", ErrCapacityExceeded, min)
	}

	out := m.solver.ResolveRemoval(current, idx)

	if out.FocusedPane == paneID {
		out.FocusedPane = firstInStackingOrder(out)
	}

	m.logger.Debug("pane removed",
		logger.WithField("pane_id", paneID),
		logger.WithField("pane_count", len(out.Panes)))
	return out, nil
}

// FocusPane marks the identified pane as focused.
func (m *Manager) FocusPane(current types.SplitLayout, paneID string) (types.SplitLayout, error) {
	if current.PaneIndex(paneID) < 0 {
		return current, fmt.Errorf("%w: %q", ErrPaneNotFound, paneID)
	}
	out := current.Clone()
	out.FocusedPane = paneID
	return out, nil
}

// firstInStackingOrder returns the id of the lowest-stacked pane, or an
// empty string for an empty layout.
func firstInStackingOrder(l types.SplitLayout) string {
	bestID := ""
	bestOrder := 0
	for _, p := range l.Panes {
		if bestID == "" || p.Constraints.StackingOrder < bestOrder {
			bestID = p.ID
			bestOrder = p.Constraints.StackingOrder
		}
	}
	return bestID
}
