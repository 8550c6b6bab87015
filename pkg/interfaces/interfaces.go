// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/panekit/panekit/pkg/types"
)

// ErrAdvisoryUnavailable marks the advisory collaborator as unreachable or
// declining to answer. It is a degraded-path signal, not a failure: callers
// proceed with the un-optimized layout and record usedFallback.
var ErrAdvisoryUnavailable = errors.New("advisory service unavailable")

// AdvisoryClient is the optional external optimization collaborator. Both
// calls are hints; an Unavailable or empty response is a normal outcome.
type AdvisoryClient interface {
	RequestOptimization(
		ctx context.Context,
		layout types.SplitLayout,
		snapshot types.DeviceSnapshot,
		tier types.BreakpointTier,
	) (*types.OptimizationPlan, error)

	RequestDeviceOptimizations(
		ctx context.Context,
		deviceType types.DeviceType,
		layout types.SplitLayout,
	) ([]types.Optimization, error)
}

// LayoutPublisher receives engine output. Callbacks fire synchronously at
// the point of state commit so a consumer always observes a consistent
// engine state.
type LayoutPublisher interface {
	OnLayoutAdapted(layout types.SplitLayout, classification types.Classification)
	OnPaneLayoutChanged(layout types.SplitLayout)
	OnAdaptationError(err error)
}

// LayoutStore persists layouts. The engine emits saves fire-and-forget and
// never blocks a transition on the save succeeding.
type LayoutStore interface {
	SaveLayout(ctx context.Context, surface string, layout types.SplitLayout) error
	LoadLayout(ctx context.Context, surface string) (*types.SplitLayout, error)
}

// DeviceProber abstracts host capability probes. Probe failures degrade to
// documented defaults inside the profiler; probers themselves may error.
type DeviceProber interface {
	ScreenSize() (types.ScreenSize, error)
	PixelRatio() (float64, error)
	PointerCapabilities() (touch bool, hover bool, err error)
	Network() (types.NetworkClass, float64, error)
	Battery() (float64, error)
	MemoryPressure() (types.MemoryPressureLevel, error)
}

// FrameRateSource reports the recent rendering frame rate of the surface.
type FrameRateSource interface {
	FrameRate() (float64, error)
}

// AdaptationNotifier surfaces fallback transitions to the user.
type AdaptationNotifier interface {
	NotifyFallbackEntered(surface string, reason error)
	NotifyFallbackRecovered(surface string)
	NotifyAdaptation(surface string, from, to types.BreakpointTier, duration time.Duration)
}

// PerformanceReporter receives monitor samples.
type PerformanceReporter interface {
	ReportPerformance(sample types.PerformanceSample)
}

// SignalSink consumes debounced, coalesced inbound signals.
type SignalSink interface {
	HandleSignal(signal types.Signal)
}

// LifecycleManager handles surface lifecycle and shutdown.
type LifecycleManager interface {
	RegisterTeardownHandler(handler func())
	Generation() uint64
	Teardown()
	Start(ctx context.Context)
	Stop()
}

// EngineDependencies contains all injectable collaborators.
type EngineDependencies struct {
	Advisory  AdvisoryClient
	Publisher LayoutPublisher
	Store     LayoutStore
	Prober    DeviceProber
	Notifier  AdaptationNotifier
	Lifecycle LifecycleManager
}
