// Package monitor provides the performance sampling loop for PaneKit.
// Samples combine the surface frame rate with device probes and feed
// the engine's self-optimization path.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/profiler"
	"github.com/panekit/panekit/pkg/types"
)

// Monitor samples performance on a fixed interval and pushes each
// sample to the reporter.
type Monitor struct {
	interval     time.Duration
	minFrameRate float64
	frames       interfaces.FrameRateSource
	profiler     *profiler.Profiler
	reporter     interfaces.PerformanceReporter
	logger       logger.Logger

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// New creates a performance monitor. The frame rate source may be nil;
// samples then carry a zero frame rate and never trigger the
// low-frame-rate path.
func New(
	cfg *types.EngineConfig,
	frames interfaces.FrameRateSource,
	prof *profiler.Profiler,
	reporter interfaces.PerformanceReporter,
	log logger.Logger,
) *Monitor {
	if log == nil {
		log = logger.NewSimpleLogger("monitor", "info")
	}
	return &Monitor{
		interval:     cfg.GetMonitorInterval(),
		minFrameRate: cfg.GetMinFrameRate(),
		frames:       frames,
		profiler:     prof,
		reporter:     reporter,
		logger:       log,
	}
}

// Start launches the sampling loop. It is a no-op when already running.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				m.sample()
			}
		}
	}()
}

// Stop halts the sampling loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stop)
	m.mu.Unlock()

	m.wg.Wait()
}

// Sample takes one performance sample immediately and reports it.
func (m *Monitor) Sample() types.PerformanceSample {
	return m.sample()
}

func (m *Monitor) sample() types.PerformanceSample {
	snapshot := m.profiler.Sample()

	sample := types.PerformanceSample{
		MemoryPressure: snapshot.MemoryPressure,
		BatteryPercent: snapshot.BatteryPercent,
		NetworkClass:   snapshot.NetworkClass,
		SampledAt:      time.Now(),
	}
	if m.frames != nil {
		if rate, err := m.frames.FrameRate(); err == nil {
			sample.FrameRate = rate
		} else {
			m.logger.Debug("Frame rate probe failed", logger.WithField("error", err))
		}
	}

	if sample.FrameRate > 0 && sample.FrameRate < m.minFrameRate {
		m.logger.Warn("Frame rate below threshold",
			logger.WithField("frame_rate", sample.FrameRate),
			logger.WithField("threshold", m.minFrameRate))
	}

	if m.reporter != nil {
		m.reporter.ReportPerformance(sample)
	}
	return sample
}
