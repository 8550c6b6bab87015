package signals

import (
	"sync"
	"testing"
	"time"

	"github.com/panekit/panekit/pkg/types"
)

type captureSink struct {
	mu      sync.Mutex
	signals []types.Signal
}

func (c *captureSink) HandleSignal(signal types.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, signal)
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.signals)
}

func (c *captureSink) last() types.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.signals) == 0 {
		return types.Signal{}
	}
	return c.signals[len(c.signals)-1]
}

func testConfig() *types.EngineConfig {
	viewport, container := 20, 40
	threshold := 50.0
	return &types.EngineConfig{
		Debounce: &types.DebounceConfig{
			ViewportMs:  &viewport,
			ContainerMs: &container,
			ThresholdPx: &threshold,
		},
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSchedulerCoalescesBurst(t *testing.T) {
	sink := &captureSink{}
	s := NewScheduler(testConfig(), sink, nil)
	defer s.Stop()

	// A burst of viewport resizes collapses to the newest one.
	for _, w := range []float64{800, 900, 1000, 1100} {
		s.Submit(types.Signal{Kind: types.SignalViewportResize, Width: w, Height: 600})
	}

	waitFor(t, time.Second, func() bool { return sink.count() > 0 })
	if got := sink.count(); got != 1 {
		t.Fatalf("delivered %d signals, want 1", got)
	}
	if sink.last().Width != 1100 {
		t.Errorf("delivered width = %g, want newest 1100", sink.last().Width)
	}
}

func TestSchedulerAbsorbsSubThresholdResize(t *testing.T) {
	sink := &captureSink{}
	s := NewScheduler(testConfig(), sink, nil)
	defer s.Stop()

	s.Submit(types.Signal{Kind: types.SignalViewportResize, Width: 800, Height: 600})
	waitFor(t, time.Second, func() bool { return sink.count() == 1 })

	// 30px on one axis is under the 50px threshold.
	s.Submit(types.Signal{Kind: types.SignalViewportResize, Width: 830, Height: 600})
	time.Sleep(80 * time.Millisecond)
	if got := sink.count(); got != 1 {
		t.Errorf("delivered %d signals, want jitter absorbed", got)
	}

	// 60px crosses the threshold.
	s.Submit(types.Signal{Kind: types.SignalViewportResize, Width: 860, Height: 600})
	waitFor(t, time.Second, func() bool { return sink.count() == 2 })
}

func TestSchedulerDeliversNonResizeImmediately(t *testing.T) {
	sink := &captureSink{}
	s := NewScheduler(testConfig(), sink, nil)
	defer s.Stop()

	s.Submit(types.Signal{Kind: types.SignalHostContext, ContextID: "external-display"})
	if got := sink.count(); got != 1 {
		t.Fatalf("delivered %d signals, want immediate delivery", got)
	}
	if sink.last().ID == "" {
		t.Error("scheduler must assign a signal id")
	}
}

func TestSchedulerIndependentKinds(t *testing.T) {
	sink := &captureSink{}
	s := NewScheduler(testConfig(), sink, nil)
	defer s.Stop()

	s.Submit(types.Signal{Kind: types.SignalViewportResize, Width: 800, Height: 600})
	s.Submit(types.Signal{Kind: types.SignalContainerResize, ElementID: "sidebar", Width: 300, Height: 600})

	waitFor(t, time.Second, func() bool { return sink.count() == 2 })
}

func TestSchedulerFlush(t *testing.T) {
	sink := &captureSink{}
	s := NewScheduler(testConfig(), sink, nil)
	defer s.Stop()

	s.Submit(types.Signal{Kind: types.SignalViewportResize, Width: 800, Height: 600})
	s.Flush()

	if got := sink.count(); got != 1 {
		t.Fatalf("delivered %d signals after flush, want 1", got)
	}

	// Nothing left pending after the flush.
	time.Sleep(60 * time.Millisecond)
	if got := sink.count(); got != 1 {
		t.Errorf("delivered %d signals, want no trailing duplicate", got)
	}
}

func TestSchedulerStopDropsPending(t *testing.T) {
	sink := &captureSink{}
	s := NewScheduler(testConfig(), sink, nil)

	s.Submit(types.Signal{Kind: types.SignalViewportResize, Width: 800, Height: 600})
	s.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := sink.count(); got != 0 {
		t.Errorf("delivered %d signals after stop, want 0", got)
	}

	// Submissions after stop are ignored.
	s.Submit(types.Signal{Kind: types.SignalViewportResize, Width: 1200, Height: 900})
	time.Sleep(60 * time.Millisecond)
	if got := sink.count(); got != 0 {
		t.Errorf("delivered %d signals after stop, want 0", got)
	}
}
