// Package profiler samples host device capabilities into immutable snapshots.
package profiler

import (
	"time"

	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/types"
)

// Documented defaults used when a capability probe is unavailable.
const (
	DefaultScreenWidth   = 1280
	DefaultScreenHeight  = 800
	DefaultPixelRatio    = 1.0
	DefaultNetworkSpeed  = 100.0
	DefaultBatteryLevel  = 100.0
)

// Profiler samples device capabilities through an injected prober.
// Sample never fails: any probe error degrades to a default.
type Profiler struct {
	prober interfaces.DeviceProber
	logger logger.Logger
}

// New creates a profiler. The prober may be nil, in which case every
// capability reports its default.
func New(prober interfaces.DeviceProber, log logger.Logger) *Profiler {
	if log == nil {
		log = logger.NewSimpleLogger("profiler", "info")
	}
	return &Profiler{
		prober: prober,
		logger: log,
	}
}

// Sample produces a fresh immutable snapshot of the host device.
func (p *Profiler) Sample() types.DeviceSnapshot {
	snapshot := types.DeviceSnapshot{
		ScreenSize:       types.ScreenSize{Width: DefaultScreenWidth, Height: DefaultScreenHeight},
		PixelRatio:       DefaultPixelRatio,
		TouchSupport:     false,
		HoverSupport:     true,
		NetworkClass:     types.NetworkWifi,
		NetworkSpeedMbps: DefaultNetworkSpeed,
		BatteryPercent:   DefaultBatteryLevel,
		MemoryPressure:   types.MemoryPressureLow,
		SampledAt:        time.Now(),
	}

	if p.prober == nil {
		return snapshot
	}

	if size, err := p.prober.ScreenSize(); err == nil {
		snapshot.ScreenSize = size
	} else {
		p.logger.Debug("Screen size probe unavailable, using default",
			logger.WithField("error", err))
	}

	if ratio, err := p.prober.PixelRatio(); err == nil && ratio > 0 {
		snapshot.PixelRatio = ratio
	}

	if touch, hover, err := p.prober.PointerCapabilities(); err == nil {
		snapshot.TouchSupport = touch
		snapshot.HoverSupport = hover
	}

	if class, speed, err := p.prober.Network(); err == nil {
		snapshot.NetworkClass = class
		snapshot.NetworkSpeedMbps = speed
	} else {
		p.logger.Debug("Network probe unavailable, assuming wifi",
			logger.WithField("error", err))
	}

	if battery, err := p.prober.Battery(); err == nil && battery >= 0 {
		snapshot.BatteryPercent = battery
	}

	if pressure, err := p.prober.MemoryPressure(); err == nil && pressure != "" {
		snapshot.MemoryPressure = pressure
	}

	return snapshot
}

// SampleWithSize produces a snapshot with an explicit screen size, used
// when a resize signal already carries fresher dimensions than any probe.
func (p *Profiler) SampleWithSize(width, height float64) types.DeviceSnapshot {
	snapshot := p.Sample()
	snapshot.ScreenSize = types.ScreenSize{Width: width, Height: height}
	return snapshot
}
