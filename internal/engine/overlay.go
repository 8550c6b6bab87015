package engine

import (
	"github.com/panekit/panekit/pkg/geometry"
	"github.com/panekit/panekit/pkg/types"
)

// OverlayForTier returns the chrome sizing overlay applied alongside a
// tier transition. Mobile collapses the sidebar and footer to give the
// pane workspace the full surface.
func OverlayForTier(tier types.BreakpointTier) types.StructuralOverlay {
	switch tier {
	case types.TierMobile:
		return types.StructuralOverlay{
			Header:  types.RegionSizing{Height: 48},
			Sidebar: types.RegionSizing{Collapse: true},
			Content: types.RegionSizing{},
			Footer:  types.RegionSizing{Collapse: true},
		}
	case types.TierTablet:
		return types.StructuralOverlay{
			Header:  types.RegionSizing{Height: 56},
			Sidebar: types.RegionSizing{Width: 240},
			Content: types.RegionSizing{},
			Footer:  types.RegionSizing{Height: 32},
		}
	case types.TierWide:
		return types.StructuralOverlay{
			Header:  types.RegionSizing{Height: 64},
			Sidebar: types.RegionSizing{Width: 320},
			Content: types.RegionSizing{},
			Footer:  types.RegionSizing{Height: 40},
		}
	default:
		return types.StructuralOverlay{
			Header:  types.RegionSizing{Height: 64},
			Sidebar: types.RegionSizing{Width: 280},
			Content: types.RegionSizing{},
			Footer:  types.RegionSizing{Height: 40},
		}
	}
}

// WorkspaceWithin returns the pane workspace left inside a surface after
// the overlay's chrome regions claim their space. Collapsed regions
// claim nothing.
func WorkspaceWithin(surface types.Dimensions, overlay types.StructuralOverlay) types.Dimensions {
	workspace := surface
	if !overlay.Header.Collapse {
		workspace.Height -= overlay.Header.Height
	}
	if !overlay.Footer.Collapse {
		workspace.Height -= overlay.Footer.Height
	}
	if !overlay.Sidebar.Collapse {
		workspace.Width -= overlay.Sidebar.Width
	}
	if workspace.Width < 0 {
		workspace.Width = 0
	}
	if workspace.Height < 0 {
		workspace.Height = 0
	}
	return workspace
}

// ReshapeForTier rebuilds the pane arrangement for the target tier and
// container. Mobile surfaces stack every pane full-width; tablet caps
// side-by-side panes at two columns; desktop and wide keep the layout's
// split type and renormalize extents to the container.
func ReshapeForTier(current types.SplitLayout, tier types.BreakpointTier, container types.Dimensions) types.SplitLayout {
	out := current.Clone()
	if container.Width > 0 && container.Height > 0 {
		out.Container = container
	}

	switch tier {
	case types.TierMobile:
		stackVertically(&out)
	case types.TierTablet:
		if out.SplitType == types.SplitHorizontal && len(out.Panes) > 2 {
			out.SplitType = types.SplitGrid
			packGrid(&out, 2)
		} else {
			renormalize(&out)
		}
	default:
		renormalize(&out)
	}
	return out
}

// stackVertically converts the layout to a single full-width column.
func stackVertically(out *types.SplitLayout) {
	out.SplitType = types.SplitVertical
	n := len(out.Panes)
	if n == 0 {
		return
	}

	share := out.Container.Height / float64(n)
	y := 0.0
	for i := range out.Panes {
		p := &out.Panes[i]
		p.Position.X = 0
		p.Position.Y = y
		p.Size.Width = clampExtent(out.Container.Width, p.Size.MinWidth, p.Size.MaxWidth)
		p.Size.Height = clampExtent(share, p.Size.MinHeight, p.Size.MaxHeight)
		y += p.Size.Height
	}
}

// packGrid arranges panes into rows of the given column count, each cell
// an equal share of the container.
func packGrid(out *types.SplitLayout, columns int) {
	n := len(out.Panes)
	if n == 0 || columns <= 0 {
		return
	}
	rows := (n + columns - 1) / columns

	cellW := out.Container.Width / float64(columns)
	cellH := out.Container.Height / float64(rows)
	for i := range out.Panes {
		p := &out.Panes[i]
		col := i % columns
		row := i / columns
		p.Position.X = float64(col) * cellW
		p.Position.Y = float64(row) * cellH
		p.Size.Width = clampExtent(cellW, p.Size.MinWidth, p.Size.MaxWidth)
		p.Size.Height = clampExtent(cellH, p.Size.MinHeight, p.Size.MaxHeight)
	}
}

// renormalize rescales partitioned panes so they fill the container
// axis, preserving their relative shares.
func renormalize(out *types.SplitLayout) {
	switch out.SplitType {
	case types.SplitHorizontal:
		renormalizeAxis(out, geometry.AxisX)
	case types.SplitVertical:
		renormalizeAxis(out, geometry.AxisY)
	}
}

func renormalizeAxis(out *types.SplitLayout, axis geometry.Axis) {
	total := out.Container.Width
	if axis == geometry.AxisY {
		total = out.Container.Height
	}
	if total <= 0 || len(out.Panes) == 0 {
		return
	}

	sum := 0.0
	for _, p := range out.Panes {
		if axis == geometry.AxisX {
			sum += p.Size.Width
		} else {
			sum += p.Size.Height
		}
	}
	if sum <= 0 {
		return
	}

	scale := total / sum
	cursor := 0.0
	for i := range out.Panes {
		p := &out.Panes[i]
		if axis == geometry.AxisX {
			p.Size.Width = clampExtent(p.Size.Width*scale, p.Size.MinWidth, p.Size.MaxWidth)
			p.Size.Height = clampExtent(out.Container.Height, p.Size.MinHeight, p.Size.MaxHeight)
			p.Position.X = cursor
			p.Position.Y = 0
			cursor += p.Size.Width
		} else {
			p.Size.Height = clampExtent(p.Size.Height*scale, p.Size.MinHeight, p.Size.MaxHeight)
			p.Size.Width = clampExtent(out.Container.Width, p.Size.MinWidth, p.Size.MaxWidth)
			p.Position.Y = cursor
			p.Position.X = 0
			cursor += p.Size.Height
		}
	}
}

func clampExtent(v, min, max float64) float64 {
	if v < min {
		v = min
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}

// applyPreferences post-processes a layout for accessibility. Large text
// and touch targets raise effective pane minimums before the final
// validation pass.
func applyPreferences(out *types.SplitLayout, prefs types.UserPreferences) {
	if !prefs.LargeText && prefs.TouchTargetSize <= 0 {
		return
	}

	for i := range out.Panes {
		p := &out.Panes[i]
		if prefs.LargeText {
			if p.Size.MinWidth > 0 {
				p.Size.MinWidth *= 1.25
			}
			if p.Size.MinHeight > 0 {
				p.Size.MinHeight *= 1.25
			}
		}
		if prefs.TouchTargetSize > 0 {
			if p.Size.MinWidth < prefs.TouchTargetSize {
				p.Size.MinWidth = prefs.TouchTargetSize
			}
			if p.Size.MinHeight < prefs.TouchTargetSize {
				p.Size.MinHeight = prefs.TouchTargetSize
			}
		}
		p.Size.Width = clampExtent(p.Size.Width, p.Size.MinWidth, p.Size.MaxWidth)
		p.Size.Height = clampExtent(p.Size.Height, p.Size.MinHeight, p.Size.MaxHeight)
	}
}

// mergePlan folds advisory suggestions into the candidate layout. Only
// panes the layout already holds are touched; a suggested split type
// replaces the current one when recognized.
func mergePlan(out *types.SplitLayout, plan *types.OptimizationPlan) {
	if plan == nil {
		return
	}

	if plan.SplitType != "" {
		if st, err := types.ParseSplitType(string(plan.SplitType)); err == nil {
			out.SplitType = st
		}
	}

	for _, adj := range plan.Adjustments {
		idx := out.PaneIndex(adj.PaneID)
		if idx < 0 {
			continue
		}
		p := &out.Panes[idx]
		if adj.Size != nil {
			p.Size.Width = clampExtent(adj.Size.Width, p.Size.MinWidth, p.Size.MaxWidth)
			p.Size.Height = clampExtent(adj.Size.Height, p.Size.MinHeight, p.Size.MaxHeight)
		}
		if adj.Position != nil {
			p.Position.X = adj.Position.X
			p.Position.Y = adj.Position.Y
		}
		if adj.Hidden {
			p.State.Visible = false
		}
	}
}

// applyOptimizations folds device-specific tuning hints into the layout.
func applyOptimizations(out *types.SplitLayout, opts []types.Optimization) {
	for _, opt := range opts {
		switch opt.Kind {
		case "hide-pane":
			if idx := out.PaneIndex(opt.PaneID); idx >= 0 {
				out.Panes[idx].State.Visible = false
			}
		case "min-width":
			if idx := out.PaneIndex(opt.PaneID); idx >= 0 {
				p := &out.Panes[idx]
				if p.Size.MinWidth < opt.Value {
					p.Size.MinWidth = opt.Value
					p.Size.Width = clampExtent(p.Size.Width, p.Size.MinWidth, p.Size.MaxWidth)
				}
			}
		}
	}
}
