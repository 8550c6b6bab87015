// Package types provides core types and configurations for PaneKit
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// BreakpointTier represents a responsive breakpoint, totally ordered by
// minimum width.
type BreakpointTier string

const (
	TierMobile  BreakpointTier = "mobile"
	TierTablet  BreakpointTier = "tablet"
	TierDesktop BreakpointTier = "desktop"
	TierWide    BreakpointTier = "wide"
)

// tierRank orders tiers for comparison.
var tierRank = map[BreakpointTier]int{
	TierMobile:  0,
	TierTablet:  1,
	TierDesktop: 2,
	TierWide:    3,
}

// Rank returns the ordinal position of the tier (mobile lowest).
// Unknown tiers rank below mobile.
func (t BreakpointTier) Rank() int {
	if r, ok := tierRank[t]; ok {
		return r
	}
	return -1
}

// DeviceType represents the coarse device classification for a surface.
type DeviceType string

const (
	DeviceTypePhone   DeviceType = "phone"
	DeviceTypeTablet  DeviceType = "tablet"
	DeviceTypeDesktop DeviceType = "desktop"
)

// Orientation represents surface orientation.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// NetworkClass represents the connection class reported by the host.
type NetworkClass string

const (
	NetworkWifi    NetworkClass = "wifi"
	Network4G      NetworkClass = "4g"
	Network3G      NetworkClass = "3g"
	Network2G      NetworkClass = "2g"
	NetworkOffline NetworkClass = "offline"
)

// MemoryPressureLevel represents host memory pressure.
type MemoryPressureLevel string

const (
	MemoryPressureLow      MemoryPressureLevel = "low"
	MemoryPressureModerate MemoryPressureLevel = "moderate"
	MemoryPressureHigh     MemoryPressureLevel = "high"
	MemoryPressureCritical MemoryPressureLevel = "critical"
)

// SplitType represents the arrangement rule family for a workspace surface.
type SplitType string

const (
	SplitHorizontal SplitType = "horizontal"
	SplitVertical   SplitType = "vertical"
	SplitGrid       SplitType = "grid"
	SplitMosaic     SplitType = "mosaic"
	SplitCustom     SplitType = "custom"
)

// Anchor represents the reference corner for a pane position.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// ResizeDirection represents an edge a pane may be resized from.
type ResizeDirection string

const (
	ResizeNorth ResizeDirection = "n"
	ResizeSouth ResizeDirection = "s"
	ResizeEast  ResizeDirection = "e"
	ResizeWest  ResizeDirection = "w"
)

// EngineMode represents the adaptation state machine mode.
type EngineMode string

const (
	ModeIdle     EngineMode = "idle"
	ModeAdapting EngineMode = "adapting"
	ModeFallback EngineMode = "fallback"
)

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ScreenSize holds a viewport size in CSS pixels.
type ScreenSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// DeviceSnapshot is an immutable sample of host device capabilities.
// Snapshots are superseded by newer samples, never mutated.
type DeviceSnapshot struct {
	ScreenSize       ScreenSize          `json:"screenSize"`
	PixelRatio       float64             `json:"pixelRatio"`
	TouchSupport     bool                `json:"touchSupport"`
	HoverSupport     bool                `json:"hoverSupport"`
	NetworkClass     NetworkClass        `json:"networkClass"`
	NetworkSpeedMbps float64             `json:"networkSpeedMbps"`
	BatteryPercent   float64             `json:"batteryPercent"`
	MemoryPressure   MemoryPressureLevel `json:"memoryPressure"`
	SampledAt        time.Time           `json:"sampledAt"`
}

// Classification is the result of mapping a snapshot onto a breakpoint tier.
type Classification struct {
	Tier        BreakpointTier `json:"tier"`
	DeviceType  DeviceType     `json:"deviceType"`
	Orientation Orientation    `json:"orientation"`
}

// Position holds pane placement within a surface.
type Position struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Anchor Anchor  `json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// Size holds pane dimensions and their hard bounds. A pane's width and
// height must always satisfy min <= value <= max; writes are clamped.
type Size struct {
	Width             float64 `json:"width" yaml:"width"`
	Height            float64 `json:"height" yaml:"height"`
	MinWidth          float64 `json:"minWidth,omitempty" yaml:"minWidth,omitempty"`
	MinHeight         float64 `json:"minHeight,omitempty" yaml:"minHeight,omitempty"`
	MaxWidth          float64 `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"`
	MaxHeight         float64 `json:"maxHeight,omitempty" yaml:"maxHeight,omitempty"`
	AspectRatioLocked bool    `json:"aspectRatioLocked,omitempty" yaml:"aspectRatioLocked,omitempty"`
}

// PaneConstraints holds per-pane behavioral constraints.
type PaneConstraints struct {
	ResizeDirections   []ResizeDirection `json:"resizeDirections,omitempty" yaml:"resizeDirections,omitempty"`
	SnapToGrid         bool              `json:"snapToGrid,omitempty" yaml:"snapToGrid,omitempty"`
	StackingOrder      int               `json:"stackingOrder" yaml:"stackingOrder"`
	CollisionDetection bool              `json:"collisionDetection,omitempty" yaml:"collisionDetection,omitempty"`
}

// PaneState holds transient per-pane flags.
type PaneState struct {
	Visible  bool `json:"visible" yaml:"visible"`
	Loading  bool `json:"loading,omitempty" yaml:"loading,omitempty"`
	Error    bool `json:"error,omitempty" yaml:"error,omitempty"`
	Resizing bool `json:"resizing,omitempty" yaml:"resizing,omitempty"`
	Dragging bool `json:"dragging,omitempty" yaml:"dragging,omitempty"`
}

// Pane is one resizable, movable region inside a split-screen workspace.
// ContentRef is an opaque handle owned by the presentation layer; the
// engine never inspects it.
type Pane struct {
	ID          string          `json:"id" yaml:"id"`
	Position    Position        `json:"position" yaml:"position"`
	Size        Size            `json:"size" yaml:"size"`
	Constraints PaneConstraints `json:"constraints" yaml:"constraints"`
	State       PaneState       `json:"state" yaml:"state"`
	ContentRef  string          `json:"contentRef,omitempty" yaml:"contentRef,omitempty"`
}

// Clone returns a deep copy of the pane.
func (p Pane) Clone() Pane {
	c := p
	if p.Constraints.ResizeDirections != nil {
		c.Constraints.ResizeDirections = append([]ResizeDirection(nil), p.Constraints.ResizeDirections...)
	}
	return c
}

// Dimensions holds a width/height pair used for layout-level size bounds.
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// LayoutConstraints holds global bounds for a SplitLayout.
type LayoutConstraints struct {
	MinPanes    int        `json:"minPanes" yaml:"minPanes"`
	MaxPanes    int        `json:"maxPanes" yaml:"maxPanes"`
	MinPaneSize Dimensions `json:"minPaneSize" yaml:"minPaneSize"`
	MaxPaneSize Dimensions `json:"maxPaneSize" yaml:"maxPaneSize"`
}

// SplitLayout is an ordered, unique-keyed collection of panes plus their
// arrangement rules. A pane has no existence outside exactly one layout.
type SplitLayout struct {
	ID          string            `json:"id" yaml:"id"`
	SplitType   SplitType         `json:"splitType" yaml:"splitType"`
	Container   Dimensions        `json:"container" yaml:"container"`
	Panes       []Pane            `json:"panes" yaml:"panes"`
	FocusedPane string            `json:"focusedPane,omitempty" yaml:"focusedPane,omitempty"`
	Constraints LayoutConstraints `json:"constraints" yaml:"constraints"`
}

// Clone returns a deep copy of the layout.
func (l SplitLayout) Clone() SplitLayout {
	c := l
	c.Panes = make([]Pane, len(l.Panes))
	for i, p := range l.Panes {
		c.Panes[i] = p.Clone()
	}
	return c
}

// PaneByID returns the pane with the given id and whether it exists.
func (l SplitLayout) PaneByID(id string) (Pane, bool) {
	for _, p := range l.Panes {
		if p.ID == id {
			return p, true
		}
	}
	return Pane{}, false
}

// PaneIndex returns the slice index of the pane with the given id, or -1.
func (l SplitLayout) PaneIndex(id string) int {
	for i, p := range l.Panes {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AdaptationRecord is an immutable history entry appended each time an
// adaptation completes.
type AdaptationRecord struct {
	ID           string
	FromTier     BreakpointTier
	ToTier       BreakpointTier
	StartedAt    time.Time
	Duration     time.Duration
	Succeeded    bool
	UsedFallback bool
}

// adaptationRecordJSON is the persisted form; durations are stored as
// integral milliseconds.
type adaptationRecordJSON struct {
	ID           string         `json:"id"`
	FromTier     BreakpointTier `json:"fromTier"`
	ToTier       BreakpointTier `json:"toTier"`
	StartedAt    time.Time      `json:"startedAt"`
	DurationMs   int64          `json:"durationMs"`
	Succeeded    bool           `json:"succeeded"`
	UsedFallback bool           `json:"usedFallback"`
}

func (r AdaptationRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(adaptationRecordJSON{
		ID:           r.ID,
		FromTier:     r.FromTier,
		ToTier:       r.ToTier,
		StartedAt:    r.StartedAt,
		DurationMs:   r.Duration.Milliseconds(),
		Succeeded:    r.Succeeded,
		UsedFallback: r.UsedFallback,
	})
}

func (r *AdaptationRecord) UnmarshalJSON(data []byte) error {
	var w adaptationRecordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = AdaptationRecord{
		ID:           w.ID,
		FromTier:     w.FromTier,
		ToTier:       w.ToTier,
		StartedAt:    w.StartedAt,
		Duration:     time.Duration(w.DurationMs) * time.Millisecond,
		Succeeded:    w.Succeeded,
		UsedFallback: w.UsedFallback,
	}
	return nil
}

// UserPreferences holds caller-supplied accessibility flags. These are
// read-only inputs to the engine, never owned by it.
type UserPreferences struct {
	ReducedMotion   bool    `json:"reducedMotion" yaml:"reducedMotion"`
	HighContrast    bool    `json:"highContrast" yaml:"highContrast"`
	LargeText       bool    `json:"largeText" yaml:"largeText"`
	TouchTargetSize float64 `json:"touchTargetSize,omitempty" yaml:"touchTargetSize,omitempty"`
}

// RegionSizing holds the structural overlay for one surface region.
type RegionSizing struct {
	Height   float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Width    float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Collapse bool    `json:"collapse,omitempty" yaml:"collapse,omitempty"`
}

// StructuralOverlay holds tier-specific sizing deltas for the chrome
// regions surrounding the pane workspace.
type StructuralOverlay struct {
	Header  RegionSizing `json:"header" yaml:"header"`
	Sidebar RegionSizing `json:"sidebar" yaml:"sidebar"`
	Content RegionSizing `json:"content" yaml:"content"`
	Footer  RegionSizing `json:"footer" yaml:"footer"`
}

// PaneAdjustment is one advisory suggestion for a single pane.
type PaneAdjustment struct {
	PaneID   string    `json:"paneId"`
	Size     *Size     `json:"size,omitempty"`
	Position *Position `json:"position,omitempty"`
	Hidden   bool      `json:"hidden,omitempty"`
}

// OptimizationPlan is an advisory layout suggestion. Plans are hints:
// the engine validates and merges them but never depends on them.
type OptimizationPlan struct {
	PlanID       string           `json:"planId"`
	SplitType    SplitType        `json:"splitType,omitempty"`
	Adjustments  []PaneAdjustment `json:"adjustments,omitempty"`
	MotionBudget float64          `json:"motionBudget,omitempty"`
	Reason       string           `json:"reason,omitempty"`
}

// Optimization is a single device-specific tuning hint.
type Optimization struct {
	Kind   string  `json:"kind"`
	PaneID string  `json:"paneId,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

// SignalKind classifies inbound signals.
type SignalKind string

const (
	SignalViewportResize   SignalKind = "viewport-resize"
	SignalContainerResize  SignalKind = "container-resize"
	SignalHostContext      SignalKind = "host-context"
	SignalPreferenceChange SignalKind = "preference-change"
)

// Signal is one inbound event from the hosting surface.
type Signal struct {
	ID        string           `json:"id"`
	Kind      SignalKind       `json:"kind"`
	Width     float64          `json:"width,omitempty"`
	Height    float64          `json:"height,omitempty"`
	ElementID string           `json:"elementId,omitempty"`
	ContextID string           `json:"contextId,omitempty"`
	Prefs     *UserPreferences `json:"prefs,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// PerformanceSample is one report from the performance monitor.
type PerformanceSample struct {
	FrameRate      float64             `json:"frameRate"`
	MemoryPressure MemoryPressureLevel `json:"memoryPressure"`
	BatteryPercent float64             `json:"batteryPercent"`
	NetworkClass   NetworkClass        `json:"networkClass"`
	SampledAt      time.Time           `json:"sampledAt"`
}

// ParseSplitType validates a split type string.
func ParseSplitType(s string) (SplitType, error) {
	switch SplitType(s) {
	case SplitHorizontal, SplitVertical, SplitGrid, SplitMosaic, SplitCustom:
		return SplitType(s), nil
	default:
		return "", fmt.Errorf("unknown split type: %s", s)
	}
}

// ParseTier validates a breakpoint tier string.
func ParseTier(s string) (BreakpointTier, error) {
	switch BreakpointTier(s) {
	case TierMobile, TierTablet, TierDesktop, TierWide:
		return BreakpointTier(s), nil
	default:
		return "", fmt.Errorf("unknown breakpoint tier: %s", s)
	}
}
