package validation_test

import (
	"testing"

	"github.com/panekit/panekit/pkg/types"
	"github.com/panekit/panekit/pkg/validation"
)

func validLayout() types.SplitLayout {
	return types.SplitLayout{
		ID:        "workspace",
		SplitType: types.SplitHorizontal,
		Container: types.Dimensions{Width: 1000, Height: 600},
		Panes: []types.Pane{
			{
				ID:    "a",
				Size:  types.Size{Width: 500, Height: 600, MinWidth: 100},
				State: types.PaneState{Visible: true},
			},
			{
				ID:       "b",
				Position: types.Position{X: 500},
				Size:     types.Size{Width: 500, Height: 600, MinWidth: 100},
				State:    types.PaneState{Visible: true},
			},
		},
		FocusedPane: "a",
	}
}

func TestLayoutValidator_Validate(t *testing.T) {
	validator := validation.NewLayoutValidator(types.LayoutConstraints{})

	tests := []struct {
		name    string
		mutate  func(*types.SplitLayout)
		wantOK  bool
		field   string
	}{
		{
			name:   "valid layout",
			mutate: func(l *types.SplitLayout) {},
			wantOK: true,
		},
		{
			name: "duplicate pane id",
			mutate: func(l *types.SplitLayout) {
				l.Panes[1].ID = "a"
				l.Panes[1].Position.X = 500
			},
			wantOK: false,
			field:  "id",
		},
		{
			name: "empty pane id",
			mutate: func(l *types.SplitLayout) {
				l.Panes[0].ID = ""
			},
			wantOK: false,
			field:  "id",
		},
		{
			name: "width below pane minimum",
			mutate: func(l *types.SplitLayout) {
				l.Panes[0].Size.Width = 50
			},
			wantOK: false,
			field:  "size",
		},
		{
			name: "width above pane maximum",
			mutate: func(l *types.SplitLayout) {
				l.Panes[0].Size.MaxWidth = 400
			},
			wantOK: false,
			field:  "size",
		},
		{
			name: "degenerate bounds",
			mutate: func(l *types.SplitLayout) {
				l.Panes[0].Size.MinWidth = 700
				l.Panes[0].Size.MaxWidth = 600
			},
			wantOK: false,
			field:  "size",
		},
		{
			name: "non-positive size",
			mutate: func(l *types.SplitLayout) {
				l.Panes[0].Size.Width = 0
				l.Panes[0].Size.MinWidth = 0
			},
			wantOK: false,
			field:  "size",
		},
		{
			name: "negative position",
			mutate: func(l *types.SplitLayout) {
				l.Panes[0].Position.X = -10
			},
			wantOK: false,
			field:  "position",
		},
		{
			name: "unknown focused pane",
			mutate: func(l *types.SplitLayout) {
				l.FocusedPane = "zzz"
			},
			wantOK: false,
			field:  "focus",
		},
		{
			name: "too many panes",
			mutate: func(l *types.SplitLayout) {
				l.Constraints.MaxPanes = 1
			},
			wantOK: false,
			field:  "panes",
		},
		{
			name: "too few panes",
			mutate: func(l *types.SplitLayout) {
				l.Constraints.MinPanes = 3
			},
			wantOK: false,
			field:  "panes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := validLayout()
			tt.mutate(&layout)

			result := validator.Validate(layout)
			if result.Valid != tt.wantOK {
				t.Fatalf("Valid = %v, want %v (%s)", result.Valid, tt.wantOK, result.Summary())
			}
			if tt.wantOK {
				return
			}
			found := false
			for _, e := range result.Errors {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error recorded for field %q: %s", tt.field, result.Summary())
			}
		})
	}
}

func TestLayoutValidator_OverlapDetection(t *testing.T) {
	validator := validation.NewLayoutValidator(types.LayoutConstraints{})
	layout := types.SplitLayout{
		ID:        "workspace",
		SplitType: types.SplitMosaic,
		Container: types.Dimensions{Width: 1000, Height: 600},
		Panes: []types.Pane{
			{
				ID:          "a",
				Size:        types.Size{Width: 400, Height: 400},
				Constraints: types.PaneConstraints{CollisionDetection: true},
				State:       types.PaneState{Visible: true},
			},
			{
				ID:          "b",
				Position:    types.Position{X: 200, Y: 200},
				Size:        types.Size{Width: 400, Height: 400},
				Constraints: types.PaneConstraints{CollisionDetection: true},
				State:       types.PaneState{Visible: true},
			},
		},
	}

	result := validator.Validate(layout)
	if result.Valid {
		t.Fatal("expected overlap to invalidate the layout")
	}

	// Hidden panes do not collide.
	layout.Panes[1].State.Visible = false
	if result := validator.Validate(layout); !result.Valid {
		t.Errorf("hidden pane still collides: %s", result.Summary())
	}
}

func TestLayoutValidator_DefaultConstraints(t *testing.T) {
	validator := validation.NewLayoutValidator(types.LayoutConstraints{
		MaxPanes:    2,
		MinPaneSize: types.Dimensions{Width: 200, Height: 200},
	})

	layout := validLayout()
	layout.Panes = append(layout.Panes, types.Pane{
		ID:       "c",
		Position: types.Position{X: 0, Y: 0},
		Size:     types.Size{Width: 300, Height: 300},
		State:    types.PaneState{Visible: true},
	})

	result := validator.Validate(layout)
	if result.Valid {
		t.Fatal("expected default max panes to apply")
	}
}

func TestValidationResultSummary(t *testing.T) {
	result := &validation.ValidationResult{Valid: true}
	if result.Summary() != "layout is valid" {
		t.Errorf("unexpected summary: %s", result.Summary())
	}

	result.AddError("a", "size", "width 50 outside bounds [100, 0]", validation.ValidationLevelError)
	if result.Valid {
		t.Error("error level must invalidate the result")
	}
	if result.Summary() == "" {
		t.Error("summary must list recorded errors")
	}
}
