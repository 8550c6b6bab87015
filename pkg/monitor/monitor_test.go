package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/profiler"
	"github.com/panekit/panekit/pkg/types"
)

type stubFrames struct {
	rate float64
}

func (s *stubFrames) FrameRate() (float64, error) {
	return s.rate, nil
}

type captureReporter struct {
	mu      sync.Mutex
	samples []types.PerformanceSample
}

func (c *captureReporter) ReportPerformance(sample types.PerformanceSample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, sample)
}

func (c *captureReporter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples)
}

func monitorConfig(intervalMs int) *types.EngineConfig {
	return &types.EngineConfig{
		Monitor: &types.MonitorConfig{IntervalMs: &intervalMs},
	}
}

func testProfiler() *profiler.Profiler {
	return profiler.New(nil, logger.CreateLoggerWithOutput("", "error", nil))
}

func TestSampleReportsToReporter(t *testing.T) {
	reporter := &captureReporter{}
	m := New(monitorConfig(1000), &stubFrames{rate: 60}, testProfiler(), reporter, nil)

	sample := m.Sample()

	if sample.FrameRate != 60 {
		t.Errorf("frame rate = %g, want 60", sample.FrameRate)
	}
	if sample.SampledAt.IsZero() {
		t.Error("sample must carry a timestamp")
	}
	if reporter.count() != 1 {
		t.Errorf("reporter received %d samples, want 1", reporter.count())
	}
}

func TestSampleWithoutFrameSource(t *testing.T) {
	reporter := &captureReporter{}
	m := New(monitorConfig(1000), nil, testProfiler(), reporter, nil)

	sample := m.Sample()
	if sample.FrameRate != 0 {
		t.Errorf("frame rate = %g, want 0 without a source", sample.FrameRate)
	}
}

func TestMonitorLoop(t *testing.T) {
	reporter := &captureReporter{}
	m := New(monitorConfig(10), &stubFrames{rate: 60}, testProfiler(), reporter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	defer m.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if reporter.count() >= 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("loop produced %d samples, want at least 2", reporter.count())
}

func TestMonitorStopIdempotent(t *testing.T) {
	m := New(monitorConfig(10), nil, testProfiler(), &captureReporter{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	m.Stop()
	m.Stop()
}
