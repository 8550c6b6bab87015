// Package validation provides layout validation functionality
package validation

import (
	"fmt"
	"strings"

	"github.com/panekit/panekit/pkg/geometry"
	"github.com/panekit/panekit/pkg/types"
)

// LayoutValidator validates split layouts against their constraints
type LayoutValidator struct {
	defaults types.LayoutConstraints
}

// NewLayoutValidator creates a new layout validator. The defaults apply
// wherever a layout carries no constraint of its own.
func NewLayoutValidator(defaults types.LayoutConstraints) *LayoutValidator {
	return &LayoutValidator{
		defaults: defaults,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Pane    string
	Field   string
	Message string
	Level   ValidationLevel
}

// ValidationLevel represents error severity
type ValidationLevel string

const (
	ValidationLevelError   ValidationLevel = "error"
	ValidationLevelWarning ValidationLevel = "warning"
	ValidationLevelInfo    ValidationLevel = "info"
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s.%s: %s", e.Level, e.Pane, e.Field, e.Message)
}

// ValidationResult contains validation results
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// AddError adds an error to the validation result
func (r *ValidationResult) AddError(pane, field, message string, level ValidationLevel) {
	r.Errors = append(r.Errors, ValidationError{
		Pane:    pane,
		Field:   field,
		Message: message,
		Level:   level,
	})
	if level == ValidationLevelError {
		r.Valid = false
	}
}

// Summary returns a single-line digest of all recorded errors.
func (r *ValidationResult) Summary() string {
	if len(r.Errors) == 0 {
		return "layout is valid"
	}
	parts := make([]string, len(r.Errors))
	for i := range r.Errors {
		parts[i] = r.Errors[i].Error()
	}
	return strings.Join(parts, "; ")
}

// Validate checks a layout: pane-count bounds, unique pane ids, every
// pane inside its size bounds and the layout-level size bounds, the
// focused pane existing, and no overlap between collision-aware panes.
func (v *LayoutValidator) Validate(layout types.SplitLayout) *ValidationResult {
	result := &ValidationResult{Valid: true}

	v.validatePaneCount(layout, result)
	v.validatePanes(layout, result)
	v.validateFocus(layout, result)
	v.validateOverlap(layout, result)

	return result
}

func (v *LayoutValidator) constraints(layout types.SplitLayout) types.LayoutConstraints {
	c := layout.Constraints
	if c.MaxPanes == 0 {
		c.MaxPanes = v.defaults.MaxPanes
	}
	if c.MinPanes == 0 {
		c.MinPanes = v.defaults.MinPanes
	}
	if c.MinPaneSize == (types.Dimensions{}) {
		c.MinPaneSize = v.defaults.MinPaneSize
	}
	if c.MaxPaneSize == (types.Dimensions{}) {
		c.MaxPaneSize = v.defaults.MaxPaneSize
	}
	return c
}

func (v *LayoutValidator) validatePaneCount(layout types.SplitLayout, result *ValidationResult) {
	c := v.constraints(layout)

	if c.MinPanes > 0 && len(layout.Panes) < c.MinPanes {
		result.AddError("", "panes",
			fmt.Sprintf("layout has %d panes, minimum is %d", len(layout.Panes), c.MinPanes),
			ValidationLevelError)
	}
	if c.MaxPanes > 0 && len(layout.Panes) > c.MaxPanes {
		result.AddError("", "panes",
			fmt.Sprintf("layout has %d panes, maximum is %d", len(layout.Panes), c.MaxPanes),
			ValidationLevelError)
	}
}

func (v *LayoutValidator) validatePanes(layout types.SplitLayout, result *ValidationResult) {
	c := v.constraints(layout)
	seen := make(map[string]bool)

	for _, p := range layout.Panes {
		if p.ID == "" {
			result.AddError("", "id", "pane id is required", ValidationLevelError)
			continue
		}
		if seen[p.ID] {
			result.AddError(p.ID, "id", "duplicate pane id", ValidationLevelError)
		}
		seen[p.ID] = true

		v.validateSize(p, c, result)
		v.validatePosition(layout, p, result)
	}
}

func (v *LayoutValidator) validateSize(p types.Pane, c types.LayoutConstraints, result *ValidationResult) {
	s := p.Size

	if s.Width <= 0 || s.Height <= 0 {
		result.AddError(p.ID, "size",
			fmt.Sprintf("non-positive size %gx%g", s.Width, s.Height),
			ValidationLevelError)
		return
	}
	if s.MaxWidth > 0 && s.MinWidth > s.MaxWidth {
		result.AddError(p.ID, "size",
			fmt.Sprintf("degenerate width bounds min %g > max %g", s.MinWidth, s.MaxWidth),
			ValidationLevelError)
	}
	if s.MaxHeight > 0 && s.MinHeight > s.MaxHeight {
		result.AddError(p.ID, "size",
			fmt.Sprintf("degenerate height bounds min %g > max %g", s.MinHeight, s.MaxHeight),
			ValidationLevelError)
	}
	if s.Width < s.MinWidth || (s.MaxWidth > 0 && s.Width > s.MaxWidth) {
		result.AddError(p.ID, "size",
			fmt.Sprintf("width %g outside bounds [%g, %g]", s.Width, s.MinWidth, s.MaxWidth),
			ValidationLevelError)
	}
	if s.Height < s.MinHeight || (s.MaxHeight > 0 && s.Height > s.MaxHeight) {
		result.AddError(p.ID, "size",
			fmt.Sprintf("height %g outside bounds [%g, %g]", s.Height, s.MinHeight, s.MaxHeight),
			ValidationLevelError)
	}

	if c.MinPaneSize.Width > 0 && s.Width < c.MinPaneSize.Width {
		result.AddError(p.ID, "size",
			fmt.Sprintf("width %g below layout minimum %g", s.Width, c.MinPaneSize.Width),
			ValidationLevelError)
	}
	if c.MinPaneSize.Height > 0 && s.Height < c.MinPaneSize.Height {
		result.AddError(p.ID, "size",
			fmt.Sprintf("height %g below layout minimum %g", s.Height, c.MinPaneSize.Height),
			ValidationLevelError)
	}
	if c.MaxPaneSize.Width > 0 && s.Width > c.MaxPaneSize.Width {
		result.AddError(p.ID, "size",
			fmt.Sprintf("width %g above layout maximum %g", s.Width, c.MaxPaneSize.Width),
			ValidationLevelError)
	}
	if c.MaxPaneSize.Height > 0 && s.Height > c.MaxPaneSize.Height {
		result.AddError(p.ID, "size",
			fmt.Sprintf("height %g above layout maximum %g", s.Height, c.MaxPaneSize.Height),
			ValidationLevelError)
	}
}

func (v *LayoutValidator) validatePosition(layout types.SplitLayout, p types.Pane, result *ValidationResult) {
	if p.Position.X < 0 || p.Position.Y < 0 {
		result.AddError(p.ID, "position",
			fmt.Sprintf("negative origin (%g, %g)", p.Position.X, p.Position.Y),
			ValidationLevelError)
	}

	cw, ch := layout.Container.Width, layout.Container.Height
	if cw <= 0 || ch <= 0 {
		return
	}
	if p.Position.X+p.Size.Width > cw+1e-6 || p.Position.Y+p.Size.Height > ch+1e-6 {
		result.AddError(p.ID, "position",
			fmt.Sprintf("pane extends beyond %gx%g container", cw, ch),
			ValidationLevelWarning)
	}
}

func (v *LayoutValidator) validateFocus(layout types.SplitLayout, result *ValidationResult) {
	if layout.FocusedPane == "" {
		return
	}
	if layout.PaneIndex(layout.FocusedPane) < 0 {
		result.AddError(layout.FocusedPane, "focus", "focused pane does not exist", ValidationLevelError)
	}
}

func (v *LayoutValidator) validateOverlap(layout types.SplitLayout, result *ValidationResult) {
	if geometry.HasCollision(layout) {
		result.AddError("", "panes", "collision-aware panes overlap", ValidationLevelError)
	}
}
