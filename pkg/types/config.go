package types

import "time"

// BreakpointThresholds holds the minimum-width cutoffs between tiers.
// A width below Tablet is mobile, below Desktop is tablet, below Wide is
// desktop, and anything else is wide.
type BreakpointThresholds struct {
	Tablet  float64 `json:"tablet" yaml:"tablet"`
	Desktop float64 `json:"desktop" yaml:"desktop"`
	Wide    float64 `json:"wide" yaml:"wide"`
}

// DebounceConfig holds debounce windows for continuous inbound signals.
type DebounceConfig struct {
	ViewportMs  *int     `json:"viewportMs,omitempty" yaml:"viewportMs,omitempty"`
	ContainerMs *int     `json:"containerMs,omitempty" yaml:"containerMs,omitempty"`
	ThresholdPx *float64 `json:"thresholdPx,omitempty" yaml:"thresholdPx,omitempty"`
}

// GridConfig holds snap-to-grid settings.
type GridConfig struct {
	Size         *float64 `json:"size,omitempty" yaml:"size,omitempty"`
	SearchRadius *float64 `json:"searchRadius,omitempty" yaml:"searchRadius,omitempty"`
}

// HistoryConfig bounds the adaptation record ring and error log.
type HistoryConfig struct {
	RecordCap   *int `json:"recordCap,omitempty" yaml:"recordCap,omitempty"`
	ErrorLogCap *int `json:"errorLogCap,omitempty" yaml:"errorLogCap,omitempty"`
}

// AdvisoryConfig controls the optional optimization collaborator.
type AdvisoryConfig struct {
	Enabled   *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TimeoutMs *int  `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
}

// FallbackConfig controls fallback-mode recovery.
type FallbackConfig struct {
	CooldownMs *int `json:"cooldownMs,omitempty" yaml:"cooldownMs,omitempty"`
}

// MonitorConfig controls the performance monitor loop.
type MonitorConfig struct {
	Enabled      *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	IntervalMs   *int     `json:"intervalMs,omitempty" yaml:"intervalMs,omitempty"`
	MinFrameRate *float64 `json:"minFrameRate,omitempty" yaml:"minFrameRate,omitempty"`
}

// NotificationConfig represents notification preferences
type NotificationConfig struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	File  string   `json:"file" yaml:"file"`
	Level LogLevel `json:"level" yaml:"level"`
}

// EngineConfig is the main configuration for one workspace surface.
type EngineConfig struct {
	Version       string                `json:"version" yaml:"version"`
	Surface       string                `json:"surface" yaml:"surface"`
	SplitType     SplitType             `json:"splitType" yaml:"splitType"`
	Layout        *LayoutConstraints    `json:"layout,omitempty" yaml:"layout,omitempty"`
	Breakpoints   *BreakpointThresholds `json:"breakpoints,omitempty" yaml:"breakpoints,omitempty"`
	Debounce      *DebounceConfig       `json:"debounce,omitempty" yaml:"debounce,omitempty"`
	Grid          *GridConfig           `json:"grid,omitempty" yaml:"grid,omitempty"`
	History       *HistoryConfig        `json:"history,omitempty" yaml:"history,omitempty"`
	Advisory      *AdvisoryConfig       `json:"advisory,omitempty" yaml:"advisory,omitempty"`
	Fallback      *FallbackConfig       `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Monitor       *MonitorConfig        `json:"monitor,omitempty" yaml:"monitor,omitempty"`
	Notifications *NotificationConfig   `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Logging       *LoggingConfig        `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// Default thresholds and windows.
const (
	DefaultTabletMinWidth  = 768
	DefaultDesktopMinWidth = 1024
	DefaultWideMinWidth    = 1440

	DefaultViewportDebounceMs  = 250
	DefaultContainerDebounceMs = 500
	DefaultResizeThresholdPx   = 50

	DefaultGridSize     = 8
	DefaultSearchRadius = 512

	DefaultRecordCap   = 50
	DefaultErrorLogCap = 100

	DefaultAdvisoryTimeoutMs = 2000
	DefaultFallbackCooldown  = 3 * time.Second

	DefaultMonitorIntervalMs = 5000
	DefaultMinFrameRate      = 30
)

// GetBreakpoints returns configured thresholds or the defaults.
func (c *EngineConfig) GetBreakpoints() BreakpointThresholds {
	if c != nil && c.Breakpoints != nil {
		return *c.Breakpoints
	}
	return BreakpointThresholds{
		Tablet:  DefaultTabletMinWidth,
		Desktop: DefaultDesktopMinWidth,
		Wide:    DefaultWideMinWidth,
	}
}

// GetViewportDebounce returns the whole-surface resize debounce window.
func (c *EngineConfig) GetViewportDebounce() time.Duration {
	if c != nil && c.Debounce != nil && c.Debounce.ViewportMs != nil {
		return time.Duration(*c.Debounce.ViewportMs) * time.Millisecond
	}
	return DefaultViewportDebounceMs * time.Millisecond
}

// GetContainerDebounce returns the container-level resize debounce window.
func (c *EngineConfig) GetContainerDebounce() time.Duration {
	if c != nil && c.Debounce != nil && c.Debounce.ContainerMs != nil {
		return time.Duration(*c.Debounce.ContainerMs) * time.Millisecond
	}
	return DefaultContainerDebounceMs * time.Millisecond
}

// GetResizeThreshold returns the minimum size delta that re-triggers
// classification.
func (c *EngineConfig) GetResizeThreshold() float64 {
	if c != nil && c.Debounce != nil && c.Debounce.ThresholdPx != nil {
		return *c.Debounce.ThresholdPx
	}
	return DefaultResizeThresholdPx
}

// GetGridSize returns the snap grid spacing.
func (c *EngineConfig) GetGridSize() float64 {
	if c != nil && c.Grid != nil && c.Grid.Size != nil && *c.Grid.Size > 0 {
		return *c.Grid.Size
	}
	return DefaultGridSize
}

// GetSearchRadius returns the bounded collision search radius.
func (c *EngineConfig) GetSearchRadius() float64 {
	if c != nil && c.Grid != nil && c.Grid.SearchRadius != nil && *c.Grid.SearchRadius > 0 {
		return *c.Grid.SearchRadius
	}
	return DefaultSearchRadius
}

// GetRecordCap returns the adaptation history ring capacity.
func (c *EngineConfig) GetRecordCap() int {
	if c != nil && c.History != nil && c.History.RecordCap != nil && *c.History.RecordCap > 0 {
		return *c.History.RecordCap
	}
	return DefaultRecordCap
}

// GetErrorLogCap returns the bounded error log capacity.
func (c *EngineConfig) GetErrorLogCap() int {
	if c != nil && c.History != nil && c.History.ErrorLogCap != nil && *c.History.ErrorLogCap > 0 {
		return *c.History.ErrorLogCap
	}
	return DefaultErrorLogCap
}

// IsAdvisoryEnabled reports whether the advisory collaborator is consulted.
func (c *EngineConfig) IsAdvisoryEnabled() bool {
	if c != nil && c.Advisory != nil && c.Advisory.Enabled != nil {
		return *c.Advisory.Enabled
	}
	return true
}

// GetAdvisoryTimeout returns the advisory call deadline.
func (c *EngineConfig) GetAdvisoryTimeout() time.Duration {
	if c != nil && c.Advisory != nil && c.Advisory.TimeoutMs != nil && *c.Advisory.TimeoutMs > 0 {
		return time.Duration(*c.Advisory.TimeoutMs) * time.Millisecond
	}
	return DefaultAdvisoryTimeoutMs * time.Millisecond
}

// GetFallbackCooldown returns the fallback auto-recovery cooldown.
func (c *EngineConfig) GetFallbackCooldown() time.Duration {
	if c != nil && c.Fallback != nil && c.Fallback.CooldownMs != nil && *c.Fallback.CooldownMs > 0 {
		return time.Duration(*c.Fallback.CooldownMs) * time.Millisecond
	}
	return DefaultFallbackCooldown
}

// IsMonitorEnabled reports whether the performance monitor runs.
func (c *EngineConfig) IsMonitorEnabled() bool {
	if c != nil && c.Monitor != nil && c.Monitor.Enabled != nil {
		return *c.Monitor.Enabled
	}
	return true
}

// GetMonitorInterval returns the performance sampling interval.
func (c *EngineConfig) GetMonitorInterval() time.Duration {
	if c != nil && c.Monitor != nil && c.Monitor.IntervalMs != nil && *c.Monitor.IntervalMs > 0 {
		return time.Duration(*c.Monitor.IntervalMs) * time.Millisecond
	}
	return DefaultMonitorIntervalMs * time.Millisecond
}

// GetMinFrameRate returns the frame rate below which self-optimization
// kicks in.
func (c *EngineConfig) GetMinFrameRate() float64 {
	if c != nil && c.Monitor != nil && c.Monitor.MinFrameRate != nil && *c.Monitor.MinFrameRate > 0 {
		return *c.Monitor.MinFrameRate
	}
	return DefaultMinFrameRate
}

// GetLayoutConstraints returns configured global bounds or the defaults.
func (c *EngineConfig) GetLayoutConstraints() LayoutConstraints {
	if c != nil && c.Layout != nil {
		return *c.Layout
	}
	return LayoutConstraints{
		MinPanes:    0,
		MaxPanes:    12,
		MinPaneSize: Dimensions{Width: 120, Height: 80},
		MaxPaneSize: Dimensions{Width: 3840, Height: 2160},
	}
}
