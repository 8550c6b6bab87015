// Package signals provides debounced signal scheduling for PaneKit.
// Inbound viewport and container events are noisy; the scheduler
// absorbs sub-threshold jitter, debounces bursts per signal kind, and
// delivers only the newest pending signal on the trailing edge.
package signals

import (
	"sync"
	"time"

	pcontext "github.com/panekit/panekit/pkg/context"
	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/types"
)

// Scheduler debounces and coalesces inbound signals before handing
// them to the sink.
type Scheduler struct {
	sink   interfaces.SignalSink
	logger logger.Logger

	viewportDelay   time.Duration
	containerDelay  time.Duration
	resizeThreshold float64

	mu       sync.Mutex
	pending  map[types.SignalKind]types.Signal
	timers   map[types.SignalKind]*time.Timer
	lastSeen map[string]types.Signal
	closed   bool
}

// NewScheduler creates a scheduler delivering to the given sink.
func NewScheduler(cfg *types.EngineConfig, sink interfaces.SignalSink, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewSimpleLogger("signals", "info")
	}
	return &Scheduler{
		sink:            sink,
		logger:          log,
		viewportDelay:   cfg.GetViewportDebounce(),
		containerDelay:  cfg.GetContainerDebounce(),
		resizeThreshold: cfg.GetResizeThreshold(),
		pending:         make(map[types.SignalKind]types.Signal),
		timers:          make(map[types.SignalKind]*time.Timer),
		lastSeen:        make(map[string]types.Signal),
	}
}

// Submit accepts an inbound signal. Resize signals below the movement
// threshold are absorbed. A burst of signals of the same kind collapses
// to the newest one, delivered once the kind's debounce window closes.
// Non-resize signals are delivered immediately.
func (s *Scheduler) Submit(signal types.Signal) {
	if signal.ID == "" {
		signal.ID = pcontext.GenerateSignalID()
	}
	if signal.Timestamp.IsZero() {
		signal.Timestamp = time.Now()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	delay, debounced := s.delayFor(signal.Kind)
	if !debounced {
		s.mu.Unlock()
		s.deliver(signal)
		return
	}

	if s.belowThreshold(signal) {
		s.mu.Unlock()
		s.logger.Debug("signal absorbed below threshold",
			logger.WithField("signal_id", signal.ID),
			logger.WithField("kind", string(signal.Kind)))
		return
	}

	// Latest-wins: the newest signal replaces any pending one and the
	// window restarts, so delivery happens on the trailing edge.
	s.pending[signal.Kind] = signal
	if timer, ok := s.timers[signal.Kind]; ok {
		timer.Stop()
	}
	kind := signal.Kind
	s.timers[kind] = time.AfterFunc(delay, func() {
		s.flush(kind)
	})
	s.mu.Unlock()
}

// Flush delivers all pending signals immediately, bypassing their
// remaining debounce windows.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	var ready []types.Signal
	for kind, signal := range s.pending {
		if timer, ok := s.timers[kind]; ok {
			timer.Stop()
			delete(s.timers, kind)
		}
		delete(s.pending, kind)
		ready = append(ready, signal)
	}
	s.mu.Unlock()

	for _, signal := range ready {
		s.deliver(signal)
	}
}

// Stop cancels all pending timers and drops undelivered signals.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for kind, timer := range s.timers {
		timer.Stop()
		delete(s.timers, kind)
	}
	s.pending = make(map[types.SignalKind]types.Signal)
}

func (s *Scheduler) delayFor(kind types.SignalKind) (time.Duration, bool) {
	switch kind {
	case types.SignalViewportResize:
		return s.viewportDelay, true
	case types.SignalContainerResize:
		return s.containerDelay, true
	default:
		return 0, false
	}
}

// belowThreshold reports whether a resize signal moved less than the
// configured threshold on both axes since the last delivered or pending
// signal for the same source.
func (s *Scheduler) belowThreshold(signal types.Signal) bool {
	key := string(signal.Kind) + "/" + signal.ElementID
	last, ok := s.lastSeen[key]
	if !ok {
		s.lastSeen[key] = signal
		return false
	}

	dw := signal.Width - last.Width
	if dw < 0 {
		dw = -dw
	}
	dh := signal.Height - last.Height
	if dh < 0 {
		dh = -dh
	}
	if dw < s.resizeThreshold && dh < s.resizeThreshold {
		return true
	}
	s.lastSeen[key] = signal
	return false
}

func (s *Scheduler) flush(kind types.SignalKind) {
	s.mu.Lock()
	signal, ok := s.pending[kind]
	if ok {
		delete(s.pending, kind)
	}
	delete(s.timers, kind)
	closed := s.closed
	s.mu.Unlock()

	if !ok || closed {
		return
	}
	s.deliver(signal)
}

func (s *Scheduler) deliver(signal types.Signal) {
	s.logger.Debug("signal delivered",
		logger.WithField("signal_id", signal.ID),
		logger.WithField("kind", string(signal.Kind)))
	s.sink.HandleSignal(signal)
}
