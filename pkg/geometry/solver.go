package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/panekit/panekit/pkg/types"
)

// Axis selects which dimension a geometric operation works on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Solver holds the tunable parameters for geometric resolution. All
// methods are pure: they never mutate their inputs.
type Solver struct {
	GridSize     float64
	SearchRadius float64
}

// NewSolver creates a solver with the given snap grid and collision
// search radius. Non-positive values fall back to defaults.
func NewSolver(gridSize, searchRadius float64) *Solver {
	if gridSize <= 0 {
		gridSize = types.DefaultGridSize
	}
	if searchRadius <= 0 {
		searchRadius = types.DefaultSearchRadius
	}
	return &Solver{GridSize: gridSize, SearchRadius: searchRadius}
}

// ClampSize clamps width and height to the size's own bounds. A
// degenerate bound (min > max) is a configuration error, not a runtime
// condition.
func ClampSize(s types.Size) (types.Size, error) {
	if s.MaxWidth > 0 && s.MinWidth > s.MaxWidth {
		return s, fmt.Errorf("degenerate width bounds: min %.1f > max %.1f", s.MinWidth, s.MaxWidth)
	}
	if s.MaxHeight > 0 && s.MinHeight > s.MaxHeight {
		return s, fmt.Errorf("degenerate height bounds: min %.1f > max %.1f", s.MinHeight, s.MaxHeight)
	}
	out := s
	out.Width = clampValue(s.Width, s.MinWidth, s.MaxWidth)
	out.Height = clampValue(s.Height, s.MinHeight, s.MaxHeight)
	return out, nil
}

// clampValue clamps v into [min, max]; a zero max means unbounded.
func clampValue(v, min, max float64) float64 {
	if v < min {
		v = min
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}

// Snap rounds a coordinate to the nearest grid line.
func (s *Solver) Snap(v float64) float64 {
	return math.Round(v/s.GridSize) * s.GridSize
}

// SnapPosition rounds a position to the nearest grid lines.
func (s *Solver) SnapPosition(p types.Position) types.Position {
	out := p
	out.X = s.Snap(p.X)
	out.Y = s.Snap(p.Y)
	return out
}

// ResizeImpact returns the indices of sibling panes whose extent along
// the axis is affected when the pane at idx is resized, under the
// layout's split type redistribution rule.
//
// Horizontal splits affect only the immediate right neighbor (or the
// left one for the last pane); vertical splits mirror that on the y
// axis. Grid splits affect the full row for width and the full column
// for height. Mosaic and custom splits affect panes sharing the growing
// edge.
func ResizeImpact(layout types.SplitLayout, idx int, axis Axis) []int {
	if idx < 0 || idx >= len(layout.Panes) {
		return nil
	}
	self := RectOf(layout.Panes[idx])

	switch layout.SplitType {
	case types.SplitHorizontal:
		if axis != AxisX {
			return nil
		}
		if idx+1 < len(layout.Panes) {
			return []int{idx + 1}
		}
		if idx > 0 {
			return []int{idx - 1}
		}
		return nil

	case types.SplitVertical:
		if axis != AxisY {
			return nil
		}
		if idx+1 < len(layout.Panes) {
			return []int{idx + 1}
		}
		if idx > 0 {
			return []int{idx - 1}
		}
		return nil

	case types.SplitGrid:
		var impact []int
		for i, p := range layout.Panes {
			if i == idx {
				continue
			}
			other := RectOf(p)
			if axis == AxisX && self.OverlapY(other) > 0 {
				impact = append(impact, i)
			}
			if axis == AxisY && self.OverlapX(other) > 0 {
				impact = append(impact, i)
			}
		}
		return impact

	default: // mosaic, custom
		var impact []int
		for i, p := range layout.Panes {
			if i == idx {
				continue
			}
			other := RectOf(p)
			if axis == AxisX && other.X == self.Right() && self.OverlapY(other) > 0 {
				impact = append(impact, i)
			}
			if axis == AxisY && other.Y == self.Bottom() && self.OverlapX(other) > 0 {
				impact = append(impact, i)
			}
		}
		return impact
	}
}

// axisBound holds one sibling's current extent and bounds on the axis
// being resolved.
type axisBound struct {
	cur, min, max float64
}

// ResolvePartitionedAxis computes new extents for a resized pane and its
// impacted siblings when the impact set partitions a fixed total (the
// container axis minus unaffected panes). Siblings receive the leftover
// proportionally to their current share and are re-clamped; whatever
// they cannot absorb flows back to the resized pane, so the resize is
// partially honored rather than silently failing.
func ResolvePartitionedAxis(resized float64, resizedMin, resizedMax float64, siblings []axisBound, total float64) (float64, []float64) {
	resized = clampValue(resized, resizedMin, resizedMax)
	if len(siblings) == 0 {
		return resized, nil
	}
	if resized > total {
		resized = total
	}

	out := distributeProportionally(total-resized, siblings)

	sum := resized
	for _, v := range out {
		sum += v
	}
	// Remainder the siblings could not absorb returns to the resizer.
	leftover := total - sum
	if leftover != 0 {
		resized = clampValue(resized+leftover, resizedMin, resizedMax)
	}
	return resized, out
}

// AbsorbDelta shrinks (or grows) siblings to absorb a resize delta in a
// non-partitioned layout. It returns the new sibling extents and the
// portion of the delta that could not be absorbed.
func AbsorbDelta(delta float64, siblings []axisBound) ([]float64, float64) {
	if len(siblings) == 0 {
		return nil, delta
	}
	sum := 0.0
	for _, b := range siblings {
		sum += b.cur
	}
	target := sum - delta
	if target < 0 {
		target = 0
	}
	out := distributeProportionally(target, siblings)

	absorbed := 0.0
	for i, b := range siblings {
		absorbed += b.cur - out[i]
	}
	return out, delta - absorbed
}

// distributeProportionally splits available extent among bounds by their
// current share, re-clamping each and redistributing what clamping freed
// or consumed across the still-flexible members.
func distributeProportionally(available float64, bounds []axisBound) []float64 {
	n := len(bounds)
	out := make([]float64, n)
	weightSum := 0.0
	for _, b := range bounds {
		weightSum += b.cur
	}

	for i, b := range bounds {
		var share float64
		if weightSum > 0 {
			share = available * b.cur / weightSum
		} else {
			share = available / float64(n)
		}
		out[i] = clampValue(share, b.min, b.max)
	}

	// Redistribute clamp remainders among members with slack. Bounded
	// passes: each pass settles at least one member at a bound.
	for pass := 0; pass < n; pass++ {
		assigned := 0.0
		for _, v := range out {
			assigned += v
		}
		remainder := available - assigned
		if math.Abs(remainder) < 1e-9 {
			break
		}

		flexSum := 0.0
		for i, b := range bounds {
			if hasSlack(out[i], b, remainder) {
				flexSum += out[i]
			}
		}
		if flexSum == 0 {
			break
		}
		for i, b := range bounds {
			if !hasSlack(out[i], b, remainder) {
				continue
			}
			out[i] = clampValue(out[i]+remainder*out[i]/flexSum, b.min, b.max)
		}
	}
	return out
}

func hasSlack(v float64, b axisBound, remainder float64) bool {
	if remainder > 0 {
		return b.max == 0 || v < b.max
	}
	return v > b.min
}

// widthBound extracts the x-axis bound of a pane.
func widthBound(p types.Pane) axisBound {
	return axisBound{cur: p.Size.Width, min: p.Size.MinWidth, max: p.Size.MaxWidth}
}

// heightBound extracts the y-axis bound of a pane.
func heightBound(p types.Pane) axisBound {
	return axisBound{cur: p.Size.Height, min: p.Size.MinHeight, max: p.Size.MaxHeight}
}

// ResolveResize returns a new layout with the pane at idx resized to
// newSize and the impact set redistributed under the split type's rule.
// The input layout is never modified.
func (s *Solver) ResolveResize(layout types.SplitLayout, idx int, newSize types.Size) (types.SplitLayout, error) {
	out := layout.Clone()
	pane := &out.Panes[idx]

	requested := pane.Size
	requested.Width = newSize.Width
	requested.Height = newSize.Height
	clamped, err := ClampSize(requested)
	if err != nil {
		return layout, err
	}

	if clamped.Width == pane.Size.Width && clamped.Height == pane.Size.Height {
		// No-op resize leaves the layout untouched.
		return layout, nil
	}

	if clamped.Width != pane.Size.Width {
		s.resolveAxisResize(&out, idx, AxisX, clamped.Width)
	}
	if clamped.Height != pane.Size.Height {
		s.resolveAxisResize(&out, idx, AxisY, clamped.Height)
	}

	repackPartitioned(&out)
	return out, nil
}

// resolveAxisResize applies a single-axis resize to the working layout.
func (s *Solver) resolveAxisResize(layout *types.SplitLayout, idx int, axis Axis, extent float64) {
	pane := &layout.Panes[idx]
	impact := ResizeImpact(*layout, idx, axis)

	var bound axisBound
	if axis == AxisX {
		bound = widthBound(*pane)
	} else {
		bound = heightBound(*pane)
	}

	partitioned := layout.SplitType == types.SplitHorizontal ||
		layout.SplitType == types.SplitVertical ||
		layout.SplitType == types.SplitGrid

	siblings := make([]axisBound, len(impact))
	for i, si := range impact {
		if axis == AxisX {
			siblings[i] = widthBound(layout.Panes[si])
		} else {
			siblings[i] = heightBound(layout.Panes[si])
		}
	}

	if partitioned {
		total := s.partitionTotal(*layout, idx, impact, axis)
		resized, newExtents := ResolvePartitionedAxis(extent, bound.min, bound.max, siblings, total)
		setAxisExtent(pane, axis, resized)
		for i, si := range impact {
			setAxisExtent(&layout.Panes[si], axis, newExtents[i])
		}
		return
	}

	// Mosaic and custom: siblings sharing the moving edge absorb the
	// delta and shift to keep edges coincident.
	delta := extent - bound.cur
	newExtents, leftover := AbsorbDelta(delta, siblings)
	applied := clampValue(extent-leftover, bound.min, bound.max)
	edgeShift := applied - bound.cur
	setAxisExtent(pane, axis, applied)
	for i, si := range impact {
		sib := &layout.Panes[si]
		setAxisExtent(sib, axis, newExtents[i])
		if axis == AxisX {
			sib.Position.X += edgeShift
		} else {
			sib.Position.Y += edgeShift
		}
	}
}

// partitionTotal returns the axis extent available to the resized pane
// plus its impact set: the container axis minus all unaffected panes
// sharing that band.
func (s *Solver) partitionTotal(layout types.SplitLayout, idx int, impact []int, axis Axis) float64 {
	var total float64
	if axis == AxisX {
		total = layout.Container.Width
	} else {
		total = layout.Container.Height
	}
	if total <= 0 {
		// No container extent configured: fall back to the span of the
		// involved panes.
		total = axisExtent(layout.Panes[idx], axis)
		for _, si := range impact {
			total += axisExtent(layout.Panes[si], axis)
		}
		return total
	}

	inSet := map[int]bool{idx: true}
	for _, si := range impact {
		inSet[si] = true
	}
	switch layout.SplitType {
	case types.SplitHorizontal, types.SplitVertical:
		for i, p := range layout.Panes {
			if !inSet[i] {
				total -= axisExtent(p, axis)
			}
		}
	case types.SplitGrid:
		// Rows and columns each span the full container axis; panes
		// outside the band do not consume it.
	}
	return total
}

func axisExtent(p types.Pane, axis Axis) float64 {
	if axis == AxisX {
		return p.Size.Width
	}
	return p.Size.Height
}

func setAxisExtent(p *types.Pane, axis Axis, v float64) {
	if axis == AxisX {
		p.Size.Width = v
	} else {
		p.Size.Height = v
	}
}

// repackPartitioned recomputes pane origins for partitioned split types
// so extents and positions stay consistent after redistribution.
func repackPartitioned(layout *types.SplitLayout) {
	switch layout.SplitType {
	case types.SplitHorizontal:
		x := 0.0
		for i := range layout.Panes {
			layout.Panes[i].Position.X = x
			x += layout.Panes[i].Size.Width
		}
	case types.SplitVertical:
		y := 0.0
		for i := range layout.Panes {
			layout.Panes[i].Position.Y = y
			y += layout.Panes[i].Size.Height
		}
	case types.SplitGrid:
		repackGridRows(layout)
	}
}

// repackGridRows packs each row band left-to-right preserving y origins.
func repackGridRows(layout *types.SplitLayout) {
	seen := make([]bool, len(layout.Panes))
	for i := range layout.Panes {
		if seen[i] {
			continue
		}
		band := []int{i}
		seen[i] = true
		self := RectOf(layout.Panes[i])
		for j := i + 1; j < len(layout.Panes); j++ {
			if seen[j] {
				continue
			}
			if self.OverlapY(RectOf(layout.Panes[j])) > 0 {
				band = append(band, j)
				seen[j] = true
			}
		}
		sort.Slice(band, func(a, b int) bool {
			return layout.Panes[band[a]].Position.X < layout.Panes[band[b]].Position.X
		})
		x := 0.0
		for _, bi := range band {
			layout.Panes[bi].Position.X = x
			x += layout.Panes[bi].Size.Width
		}
	}
}

// ResolveRemoval returns a new layout with the pane at idx removed and
// the freed extent reflowed to its adjacent panes, so remaining panes
// grow to fill the gap rather than leaving dead space.
func (s *Solver) ResolveRemoval(layout types.SplitLayout, idx int) types.SplitLayout {
	removed := layout.Panes[idx]
	out := layout.Clone()
	out.Panes = append(out.Panes[:idx], out.Panes[idx+1:]...)

	switch layout.SplitType {
	case types.SplitHorizontal:
		reflowNeighbors(&out, idx, AxisX, removed.Size.Width)
	case types.SplitVertical:
		reflowNeighbors(&out, idx, AxisY, removed.Size.Height)
	case types.SplitGrid:
		reflowGridRow(&out, removed)
	default:
		reflowMosaic(&out, removed)
	}

	repackPartitioned(&out)
	return out
}

// reflowNeighbors distributes a freed extent between the panes that were
// immediately before and after the removed slot, proportionally to their
// current extents.
func reflowNeighbors(layout *types.SplitLayout, removedIdx int, axis Axis, freed float64) {
	var neighbors []int
	if removedIdx-1 >= 0 {
		neighbors = append(neighbors, removedIdx-1)
	}
	if removedIdx < len(layout.Panes) {
		neighbors = append(neighbors, removedIdx)
	}
	if len(neighbors) == 0 {
		return
	}

	bounds := make([]axisBound, len(neighbors))
	sum := 0.0
	for i, ni := range neighbors {
		if axis == AxisX {
			bounds[i] = widthBound(layout.Panes[ni])
		} else {
			bounds[i] = heightBound(layout.Panes[ni])
		}
		sum += bounds[i].cur
	}

	grown := distributeProportionally(sum+freed, bounds)
	for i, ni := range neighbors {
		setAxisExtent(&layout.Panes[ni], axis, grown[i])
	}
}

// reflowGridRow grows the removed pane's row band to reclaim its width.
func reflowGridRow(layout *types.SplitLayout, removed types.Pane) {
	self := RectOf(removed)
	var row []int
	for i, p := range layout.Panes {
		if self.OverlapY(RectOf(p)) > 0 {
			row = append(row, i)
		}
	}
	if len(row) == 0 {
		return
	}

	bounds := make([]axisBound, len(row))
	sum := 0.0
	for i, ri := range row {
		bounds[i] = widthBound(layout.Panes[ri])
		sum += bounds[i].cur
	}
	grown := distributeProportionally(sum+removed.Size.Width, bounds)
	for i, ri := range row {
		setAxisExtent(&layout.Panes[ri], AxisX, grown[i])
	}
}

// reflowMosaic expands edge-adjacent panes into the freed rectangle.
// Left-edge sharers extend right; failing that, right-edge sharers slide
// left; then the same vertically. Each sharer occupies a distinct band
// of the shared edge, so extensions cannot collide.
func reflowMosaic(layout *types.SplitLayout, removed types.Pane) {
	freed := RectOf(removed)

	grew := false
	for i := range layout.Panes {
		r := RectOf(layout.Panes[i])
		if r.Right() == freed.X && r.OverlapY(freed) > 0 {
			w := clampValue(r.W+freed.W, layout.Panes[i].Size.MinWidth, layout.Panes[i].Size.MaxWidth)
			layout.Panes[i].Size.Width = w
			grew = true
		}
	}
	if grew {
		return
	}

	for i := range layout.Panes {
		r := RectOf(layout.Panes[i])
		if r.X == freed.Right() && r.OverlapY(freed) > 0 {
			w := clampValue(r.W+freed.W, layout.Panes[i].Size.MinWidth, layout.Panes[i].Size.MaxWidth)
			layout.Panes[i].Position.X = r.Right() - w
			layout.Panes[i].Size.Width = w
			grew = true
		}
	}
	if grew {
		return
	}

	for i := range layout.Panes {
		r := RectOf(layout.Panes[i])
		if r.Bottom() == freed.Y && r.OverlapX(freed) > 0 {
			h := clampValue(r.H+freed.H, layout.Panes[i].Size.MinHeight, layout.Panes[i].Size.MaxHeight)
			layout.Panes[i].Size.Height = h
			grew = true
		}
	}
	if grew {
		return
	}

	for i := range layout.Panes {
		r := RectOf(layout.Panes[i])
		if r.Y == freed.Bottom() && r.OverlapX(freed) > 0 {
			h := clampValue(r.H+freed.H, layout.Panes[i].Size.MinHeight, layout.Panes[i].Size.MaxHeight)
			layout.Panes[i].Position.Y = r.Bottom() - h
			layout.Panes[i].Size.Height = h
		}
	}
}

// ShrinkInto shrinks every pane along the axis proportionally so the
// given extent becomes free, honoring per-pane minimums. It fails when
// the panes cannot yield enough room.
func ShrinkInto(layout types.SplitLayout, needed float64, axis Axis) (types.SplitLayout, error) {
	out := layout.Clone()
	if len(out.Panes) == 0 || needed <= 0 {
		return out, nil
	}

	bounds := make([]axisBound, len(out.Panes))
	sum := 0.0
	minSum := 0.0
	for i, p := range out.Panes {
		if axis == AxisX {
			bounds[i] = widthBound(p)
		} else {
			bounds[i] = heightBound(p)
		}
		sum += bounds[i].cur
		minSum += bounds[i].min
	}
	target := sum - needed
	if target < minSum {
		return layout, fmt.Errorf("panes can free at most %.1f of the %.1f needed", sum-minSum, needed)
	}

	shrunk := distributeProportionally(target, bounds)
	for i := range out.Panes {
		setAxisExtent(&out.Panes[i], axis, shrunk[i])
	}
	return out, nil
}

// NearestValidPosition searches for a collision-free placement starting
// at target, nudging along the axis of least overlap, then snapping to
// the grid when requested. It reports false when no collision-free
// position exists within the search radius; the caller keeps the prior
// position in that case.
func (s *Solver) NearestValidPosition(layout types.SplitLayout, paneID string, target types.Position) (types.Position, bool) {
	idx := layout.PaneIndex(paneID)
	if idx < 0 {
		return target, false
	}
	pane := layout.Panes[idx]

	pos := s.clampIntoContainer(layout, pane, target)
	if !pane.Constraints.CollisionDetection {
		if pane.Constraints.SnapToGrid {
			pos = s.SnapPosition(pos)
		}
		return pos, true
	}

	origin := pos
	maxIters := int(s.SearchRadius/s.GridSize)*4 + 8
	for iter := 0; iter < maxIters; iter++ {
		overlapping, found := firstOverlap(layout, idx, pane, pos)
		if !found {
			if pane.Constraints.SnapToGrid {
				snapped := s.SnapPosition(pos)
				if _, again := firstOverlap(layout, idx, pane, snapped); again {
					// Snapping reintroduced an overlap; keep nudging from
					// the snapped point.
					pos = snapped
					continue
				}
				pos = snapped
			}
			return pos, true
		}

		pos = nudge(pane, pos, overlapping, s.GridSize)
		pos = s.clampIntoContainer(layout, pane, pos)
		if math.Abs(pos.X-origin.X)+math.Abs(pos.Y-origin.Y) > s.SearchRadius {
			return target, false
		}
	}
	return target, false
}

// firstOverlap returns the rect of the first visible pane overlapping the
// candidate placement, scanning in stacking order for determinism.
func firstOverlap(layout types.SplitLayout, selfIdx int, pane types.Pane, pos types.Position) (Rect, bool) {
	candidate := Rect{X: pos.X, Y: pos.Y, W: pane.Size.Width, H: pane.Size.Height}
	order := stackingOrder(layout)
	for _, i := range order {
		if i == selfIdx || !layout.Panes[i].State.Visible {
			continue
		}
		other := RectOf(layout.Panes[i])
		if candidate.Intersects(other) {
			return other, true
		}
	}
	return Rect{}, false
}

// nudge moves the candidate along the axis of least overlap, away from
// the blocking pane's center. Ties resolve toward positive coordinates.
func nudge(pane types.Pane, pos types.Position, other Rect, step float64) types.Position {
	candidate := Rect{X: pos.X, Y: pos.Y, W: pane.Size.Width, H: pane.Size.Height}
	ox := candidate.OverlapX(other)
	oy := candidate.OverlapY(other)

	out := pos
	if ox <= oy {
		shift := ox + step
		if candidate.X+candidate.W/2 < other.X+other.W/2 {
			out.X -= shift
		} else {
			out.X += shift
		}
	} else {
		shift := oy + step
		if candidate.Y+candidate.H/2 < other.Y+other.H/2 {
			out.Y -= shift
		} else {
			out.Y += shift
		}
	}
	return out
}

// clampIntoContainer keeps the pane inside the container when a
// container extent is configured.
func (s *Solver) clampIntoContainer(layout types.SplitLayout, pane types.Pane, pos types.Position) types.Position {
	out := pos
	if layout.Container.Width > 0 {
		if maxX := layout.Container.Width - pane.Size.Width; out.X > maxX {
			out.X = maxX
		}
	}
	if layout.Container.Height > 0 {
		if maxY := layout.Container.Height - pane.Size.Height; out.Y > maxY {
			out.Y = maxY
		}
	}
	if out.X < 0 {
		out.X = 0
	}
	if out.Y < 0 {
		out.Y = 0
	}
	return out
}

// OptimalSlot finds the placement for a new pane of the given size that
// maximizes the minimum distance to any existing visible pane boundary.
// Ties break toward the lowest (x, y) lexicographically, which keeps
// placement reproducible. It reports false when no slot fits.
func (s *Solver) OptimalSlot(layout types.SplitLayout, size types.Size) (types.Position, bool) {
	cw, ch := layout.Container.Width, layout.Container.Height
	if cw <= 0 || ch <= 0 {
		return types.Position{}, len(layout.Panes) == 0
	}
	if size.Width > cw || size.Height > ch {
		return types.Position{}, false
	}
	if len(layout.Panes) == 0 {
		return types.Position{}, true
	}

	var visible []Rect
	for _, i := range stackingOrder(layout) {
		if layout.Panes[i].State.Visible {
			visible = append(visible, RectOf(layout.Panes[i]))
		}
	}

	best := types.Position{}
	bestDist := -1.0
	found := false
	step := s.GridSize

	for x := 0.0; x <= cw-size.Width+1e-9; x += step {
		for y := 0.0; y <= ch-size.Height+1e-9; y += step {
			candidate := Rect{X: x, Y: y, W: size.Width, H: size.Height}
			minDist := math.Inf(1)
			blocked := false
			for _, r := range visible {
				if candidate.Intersects(r) {
					blocked = true
					break
				}
				if d := rectDistance(candidate, r); d < minDist {
					minDist = d
				}
			}
			if blocked {
				continue
			}
			// Strictly-greater keeps the lexicographically lowest
			// position among ties given the ascending scan order.
			if minDist > bestDist+1e-9 {
				bestDist = minDist
				best = types.Position{X: x, Y: y}
				found = true
			}
		}
	}
	return best, found
}

// rectDistance returns the Euclidean gap between two disjoint rects,
// zero when they touch.
func rectDistance(a, b Rect) float64 {
	dx := math.Max(0, math.Max(b.X-a.Right(), a.X-b.Right()))
	dy := math.Max(0, math.Max(b.Y-a.Bottom(), a.Y-b.Bottom()))
	return math.Hypot(dx, dy)
}

// stackingOrder returns pane indices sorted by stacking order, then by
// slice order for stability.
func stackingOrder(layout types.SplitLayout) []int {
	order := make([]int, len(layout.Panes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return layout.Panes[order[a]].Constraints.StackingOrder < layout.Panes[order[b]].Constraints.StackingOrder
	})
	return order
}

// HasCollision reports whether any two visible collision-aware panes
// overlap.
func HasCollision(layout types.SplitLayout) bool {
	for i := 0; i < len(layout.Panes); i++ {
		a := layout.Panes[i]
		if !a.State.Visible || !a.Constraints.CollisionDetection {
			continue
		}
		for j := i + 1; j < len(layout.Panes); j++ {
			b := layout.Panes[j]
			if !b.State.Visible || !b.Constraints.CollisionDetection {
				continue
			}
			if RectOf(a).Intersects(RectOf(b)) {
				return true
			}
		}
	}
	return false
}
