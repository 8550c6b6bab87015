package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/layout"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/mocks"
	"github.com/panekit/panekit/pkg/state"
	"github.com/panekit/panekit/pkg/types"
)

func testLogger() logger.Logger {
	return logger.NewSimpleLogger("test", "error")
}

func newTestEngine(t *testing.T, mutate func(*types.EngineConfig, *interfaces.EngineDependencies)) (*PaneKit, *mocks.MockLayoutPublisher, *mocks.MockLayoutStore, *state.Manager) {
	t.Helper()

	config := &types.EngineConfig{Version: "1.0", Surface: "test"}
	deps, publisher, store := mocks.NewTestDependencies()
	if mutate != nil {
		mutate(config, &deps)
	}

	sm := state.NewManager(t.TempDir(), 0, 0, testLogger())
	p := New(config, testLogger(), deps, sm)
	t.Cleanup(p.Stop)
	return p, publisher, store, sm
}

func twoPaneLayout() types.SplitLayout {
	return types.SplitLayout{
		ID:        "layout-1",
		SplitType: types.SplitHorizontal,
		Container: types.Dimensions{Width: 1280, Height: 800},
		Panes: []types.Pane{
			{
				ID:       "left",
				Position: types.Position{X: 0, Y: 0},
				Size:     types.Size{Width: 640, Height: 800, MinWidth: 120, MinHeight: 80},
				State:    types.PaneState{Visible: true},
			},
			{
				ID:       "right",
				Position: types.Position{X: 640, Y: 0},
				Size:     types.Size{Width: 640, Height: 800, MinWidth: 120, MinHeight: 80},
				State:    types.PaneState{Visible: true},
			},
		},
		FocusedPane: "left",
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
	t.Fatal("condition not met before timeout")
}

func TestStartRunsInitialAdaptation(t *testing.T) {
	p, publisher, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if p.Mode() != types.ModeIdle {
		t.Errorf("expected idle mode after start, got %s", p.Mode())
	}
	if publisher.AdaptedCount() != 1 {
		t.Errorf("expected 1 adapted layout, got %d", publisher.AdaptedCount())
	}

	// Mock prober reports a 1280x800 screen
	c := p.Classification()
	if c.Tier != types.TierDesktop {
		t.Errorf("expected desktop tier, got %s", c.Tier)
	}
	if c.DeviceType != types.DeviceTypeDesktop {
		t.Errorf("expected desktop device type, got %s", c.DeviceType)
	}
}

func TestStartTwiceFails(t *testing.T) {
	p, _, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := p.Start(twoPaneLayout()); err == nil {
		t.Error("expected error starting twice")
	}
}

func TestStartRestoresPersistedLayout(t *testing.T) {
	saved := twoPaneLayout()
	saved.ID = "restored"

	p, _, _, _ := newTestEngine(t, func(_ *types.EngineConfig, deps *interfaces.EngineDependencies) {
		store := mocks.NewMockLayoutStore()
		store.Layouts["test"] = saved
		deps.Store = store
	})

	if err := p.Start(types.SplitLayout{ID: "fresh", Container: types.Dimensions{Width: 1280, Height: 800}, Panes: twoPaneLayout().Panes}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if got := p.CurrentLayout(); got.ID != "restored" {
		t.Errorf("expected restored layout, got %q", got.ID)
	}
}

func TestViewportSignalReclassifiesToMobile(t *testing.T) {
	p, publisher, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	p.HandleSignal(types.Signal{
		ID:        "sig-mobile",
		Kind:      types.SignalViewportResize,
		Width:     480,
		Height:    800,
		Timestamp: time.Now(),
	})

	if c := p.Classification(); c.Tier != types.TierMobile {
		t.Errorf("expected mobile tier, got %s", c.Tier)
	}

	adapted := publisher.LastAdapted()
	if adapted == nil {
		t.Fatal("expected an adapted layout")
	}
	if adapted.SplitType != types.SplitVertical {
		t.Errorf("expected mobile layout stacked vertically, got %s", adapted.SplitType)
	}
	if adapted.Container.Width != 480 {
		t.Errorf("expected container width 480, got %v", adapted.Container.Width)
	}
	for _, pane := range adapted.Panes {
		if pane.Position.X != 0 {
			t.Errorf("pane %s not full-width stacked (x=%v)", pane.ID, pane.Position.X)
		}
	}
}

func TestChromeOverlayShrinksWorkspace(t *testing.T) {
	p, publisher, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Tablet chrome: 56px header, 240px sidebar, 32px footer.
	p.HandleSignal(types.Signal{
		ID:        "sig-tablet",
		Kind:      types.SignalViewportResize,
		Width:     800,
		Height:    600,
		Timestamp: time.Now(),
	})

	adapted := publisher.LastAdapted()
	if adapted == nil {
		t.Fatal("expected an adapted layout")
	}
	if adapted.Container.Width != 560 {
		t.Errorf("expected workspace width 560 after sidebar, got %v", adapted.Container.Width)
	}
	if adapted.Container.Height != 512 {
		t.Errorf("expected workspace height 512 after header and footer, got %v", adapted.Container.Height)
	}

	// A non-viewport signal reuses the full surface; the chrome regions
	// must not claim their space a second time.
	p.HandleSignal(types.Signal{
		ID:        "sig-element",
		Kind:      types.SignalContainerResize,
		Width:     800,
		Height:    600,
		Timestamp: time.Now(),
	})

	again := publisher.LastAdapted()
	if again.Container.Width != 560 || again.Container.Height != 512 {
		t.Errorf("expected stable workspace 560x512, got %vx%v",
			again.Container.Width, again.Container.Height)
	}
}

func TestAdvisoryUnavailableRecordsDegradedPass(t *testing.T) {
	p, publisher, _, sm := newTestEngine(t, func(_ *types.EngineConfig, deps *interfaces.EngineDependencies) {
		advisory := mocks.NewMockAdvisoryClient()
		advisory.PlanErr = interfaces.ErrAdvisoryUnavailable
		deps.Advisory = advisory
	})

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Adaptation proceeds un-optimized
	if publisher.AdaptedCount() != 1 {
		t.Fatalf("expected 1 adapted layout, got %d", publisher.AdaptedCount())
	}

	st, err := sm.ReadState("test")
	if err != nil {
		t.Fatalf("ReadState failed: %v", err)
	}
	if len(st.Records) != 1 {
		t.Fatalf("expected 1 adaptation record, got %d", len(st.Records))
	}
	rec := st.Records[0]
	if !rec.Succeeded {
		t.Error("degraded pass should still succeed")
	}
	if !rec.UsedFallback {
		t.Error("degraded pass should record fallback plan usage")
	}
}

func TestAdvisoryPlanMerged(t *testing.T) {
	p, publisher, _, _ := newTestEngine(t, func(_ *types.EngineConfig, deps *interfaces.EngineDependencies) {
		advisory := mocks.NewMockAdvisoryClient()
		advisory.Plan = &types.OptimizationPlan{
			PlanID:    "plan-1",
			SplitType: types.SplitVertical,
		}
		advisory.Optimizations = []types.Optimization{
			{Kind: "hide-pane", PaneID: "right"},
		}
		deps.Advisory = advisory
	})

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	adapted := publisher.LastAdapted()
	if adapted == nil {
		t.Fatal("expected an adapted layout")
	}
	if adapted.SplitType != types.SplitVertical {
		t.Errorf("expected advisory split override, got %s", adapted.SplitType)
	}
	if pane, ok := adapted.PaneByID("right"); !ok || pane.State.Visible {
		t.Error("expected hide-pane optimization applied")
	}
}

func TestValidationFailureEntersFallback(t *testing.T) {
	cooldownMs := 40
	p, publisher, _, _ := newTestEngine(t, func(config *types.EngineConfig, _ *interfaces.EngineDependencies) {
		config.Layout = &types.LayoutConstraints{
			MinPanes:    3,
			MaxPanes:    12,
			MinPaneSize: types.Dimensions{Width: 120, Height: 80},
			MaxPaneSize: types.Dimensions{Width: 3840, Height: 2160},
		}
		config.Fallback = &types.FallbackConfig{CooldownMs: &cooldownMs}
	})

	// Two panes against a three-pane minimum fails validation
	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if p.Mode() != types.ModeFallback {
		t.Fatalf("expected fallback mode, got %s", p.Mode())
	}
	if publisher.ErrorCount() == 0 {
		t.Error("expected adaptation error published")
	}

	// Last-good layout survives
	if got := p.CurrentLayout(); len(got.Panes) != 2 {
		t.Errorf("expected last-good layout retained, got %d panes", len(got.Panes))
	}

	var classified *AdaptationError
	if !errors.As(publisher.Errors[0], &classified) {
		t.Fatal("expected classified adaptation error")
	}
	if classified.Kind != ErrorKindValidationFailed {
		t.Errorf("expected validation-failed kind, got %s", classified.Kind)
	}
}

// explodingProber panics on the screen probe, standing in for a broken
// injected collaborator.
type explodingProber struct {
	*mocks.MockDeviceProber
}

func (explodingProber) ScreenSize() (types.ScreenSize, error) {
	panic("prober crashed")
}

func TestCollaboratorPanicEntersFallback(t *testing.T) {
	cooldownMs := 40
	p, publisher, _, _ := newTestEngine(t, func(config *types.EngineConfig, deps *interfaces.EngineDependencies) {
		config.Fallback = &types.FallbackConfig{CooldownMs: &cooldownMs}
		deps.Prober = &explodingProber{MockDeviceProber: &mocks.MockDeviceProber{}}
	})

	// The panic must stay inside the transition, not reach the caller.
	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if p.Mode() != types.ModeFallback {
		t.Fatalf("expected fallback mode, got %s", p.Mode())
	}
	if publisher.ErrorCount() == 0 {
		t.Fatal("expected adaptation error published")
	}

	var classified *AdaptationError
	if !errors.As(publisher.Errors[0], &classified) {
		t.Fatal("expected classified adaptation error")
	}
	if classified.Kind != ErrorKindUnknown {
		t.Errorf("expected unknown kind, got %s", classified.Kind)
	}
	if !strings.Contains(classified.Error(), "prober crashed") {
		t.Errorf("expected panic message preserved, got %q", classified.Error())
	}

	// Last-good layout survives the failed pass
	if got := p.CurrentLayout(); len(got.Panes) != 2 {
		t.Errorf("expected last-good layout retained, got %d panes", len(got.Panes))
	}
}

func TestFallbackRecoversAfterCooldown(t *testing.T) {
	cooldownMs := 40
	var notifier *mocks.MockAdaptationNotifier
	p, _, _, _ := newTestEngine(t, func(config *types.EngineConfig, deps *interfaces.EngineDependencies) {
		config.Layout = &types.LayoutConstraints{
			MinPanes:    3,
			MaxPanes:    12,
			MinPaneSize: types.Dimensions{Width: 120, Height: 80},
			MaxPaneSize: types.Dimensions{Width: 3840, Height: 2160},
		}
		config.Fallback = &types.FallbackConfig{CooldownMs: &cooldownMs}
		notifier = mocks.NewMockAdaptationNotifier()
		deps.Notifier = notifier
	})

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if p.Mode() != types.ModeFallback {
		t.Fatalf("expected fallback mode, got %s", p.Mode())
	}
	if notifier.FallbackEnteredCount() != 1 {
		t.Fatalf("expected fallback notification, got %d", notifier.FallbackEnteredCount())
	}

	// Adding a third pane makes the layout satisfy the minimum, so the
	// scheduled recovery attempt succeeds.
	if _, err := p.AddPane(types.Pane{
		ID:   "third",
		Size: types.Size{Width: 300, Height: 800, MinWidth: 120, MinHeight: 80},
	}); err != nil {
		t.Fatalf("AddPane failed: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return p.Mode() == types.ModeIdle
	})

	if notifier.FallbackRecoveredCount() != 1 {
		t.Errorf("expected recovery notification, got %d", notifier.FallbackRecoveredCount())
	}
}

func TestLatestSignalWinsWhileAdapting(t *testing.T) {
	var advisory *mocks.MockAdvisoryClient
	p, _, _, _ := newTestEngine(t, func(_ *types.EngineConfig, deps *interfaces.EngineDependencies) {
		advisory = mocks.NewMockAdvisoryClient()
		deps.Advisory = advisory
	})

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Slow the advisory so the next adaptation stays in flight while
	// further signals arrive.
	advisory.Delay = 150 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.HandleSignal(types.Signal{
			ID: "sig-first", Kind: types.SignalViewportResize,
			Width: 480, Height: 800, Timestamp: time.Now(),
		})
	}()

	time.Sleep(50 * time.Millisecond)

	// These park while the first pass runs; only the newest survives.
	p.HandleSignal(types.Signal{
		ID: "sig-middle", Kind: types.SignalViewportResize,
		Width: 900, Height: 800, Timestamp: time.Now(),
	})
	p.HandleSignal(types.Signal{
		ID: "sig-last", Kind: types.SignalViewportResize,
		Width: 1700, Height: 900, Timestamp: time.Now(),
	})

	<-done
	waitFor(t, 2*time.Second, func() bool {
		return p.Mode() == types.ModeIdle && p.Classification().Tier == types.TierWide
	})
}

func TestTeardownAbandonsInFlightAdaptation(t *testing.T) {
	var advisory *mocks.MockAdvisoryClient
	var lifecycle *mocks.MockLifecycleManager
	p, publisher, _, _ := newTestEngine(t, func(_ *types.EngineConfig, deps *interfaces.EngineDependencies) {
		advisory = mocks.NewMockAdvisoryClient()
		deps.Advisory = advisory
		lifecycle = mocks.NewMockLifecycleManager()
		deps.Lifecycle = lifecycle
	})

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	adaptedBefore := publisher.AdaptedCount()

	advisory.Delay = 150 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.HandleSignal(types.Signal{
			ID: "sig-doomed", Kind: types.SignalViewportResize,
			Width: 480, Height: 800, Timestamp: time.Now(),
		})
	}()

	time.Sleep(50 * time.Millisecond)
	lifecycle.Teardown()
	<-done

	if got := publisher.AdaptedCount(); got != adaptedBefore {
		t.Errorf("expected abandoned commit, got %d adapted layouts (was %d)", got, adaptedBefore)
	}
	if p.Mode() != types.ModeIdle {
		t.Errorf("expected idle mode after abandoned pass, got %s", p.Mode())
	}
}

func TestPaneOperationsPublishAndPersist(t *testing.T) {
	p, publisher, store, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	next, err := p.AddPane(types.Pane{
		ID:   "third",
		Size: types.Size{Width: 300, Height: 800, MinWidth: 120, MinHeight: 80},
	})
	if err != nil {
		t.Fatalf("AddPane failed: %v", err)
	}
	if len(next.Panes) != 3 {
		t.Errorf("expected 3 panes, got %d", len(next.Panes))
	}
	if next.FocusedPane != "third" {
		t.Errorf("expected new pane focused, got %q", next.FocusedPane)
	}
	if publisher.PaneChangeCount() != 1 {
		t.Errorf("expected 1 pane change published, got %d", publisher.PaneChangeCount())
	}

	waitFor(t, 2*time.Second, func() bool {
		saved, _ := store.LoadLayout(context.Background(), "test")
		return saved != nil && len(saved.Panes) == 3
	})
}

func TestPaneOperationErrorLeavesLayoutUntouched(t *testing.T) {
	p, publisher, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	before := p.CurrentLayout()
	got, err := p.RemovePane("nonexistent")
	if err == nil {
		t.Fatal("expected error removing unknown pane")
	}
	if !errors.Is(err, layout.ErrPaneNotFound) {
		t.Errorf("expected pane-not-found error, got %v", err)
	}
	if len(got.Panes) != len(before.Panes) {
		t.Error("failed operation should leave layout untouched")
	}
	if publisher.ErrorCount() != 1 {
		t.Errorf("expected 1 error published, got %d", publisher.ErrorCount())
	}
}

func TestReportPerformanceEnablesReducedMotion(t *testing.T) {
	p, publisher, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	baseline := publisher.AdaptedCount()

	p.ReportPerformance(types.PerformanceSample{FrameRate: 20, SampledAt: time.Now()})

	if !p.Preferences().ReducedMotion {
		t.Error("expected reduced motion after low frame rate sample")
	}
	// Engaging reduced motion runs a preference adaptation the host
	// observes through the publisher.
	if publisher.AdaptedCount() != baseline+1 {
		t.Errorf("expected 1 adaptation after engagement, got %d", publisher.AdaptedCount()-baseline)
	}

	// A healthy frame rate never flips it back on its own, and repeat
	// samples do not re-adapt.
	p.ReportPerformance(types.PerformanceSample{FrameRate: 60, SampledAt: time.Now()})
	p.ReportPerformance(types.PerformanceSample{FrameRate: 20, SampledAt: time.Now()})
	if !p.Preferences().ReducedMotion {
		t.Error("reduced motion should stay enabled")
	}
	if publisher.AdaptedCount() != baseline+1 {
		t.Errorf("expected no further adaptations, got %d", publisher.AdaptedCount()-baseline)
	}
}

func TestReportPerformanceCriticalMemory(t *testing.T) {
	p, _, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	p.ReportPerformance(types.PerformanceSample{
		FrameRate:      60,
		MemoryPressure: types.MemoryPressureHigh,
		SampledAt:      time.Now(),
	})
	if p.Preferences().ReducedMotion {
		t.Error("high memory pressure alone should not enable reduced motion")
	}

	p.ReportPerformance(types.PerformanceSample{
		FrameRate:      60,
		MemoryPressure: types.MemoryPressureCritical,
		SampledAt:      time.Now(),
	})
	if !p.Preferences().ReducedMotion {
		t.Error("expected reduced motion under critical memory pressure")
	}
}

func TestUpdateConfigChangesThresholds(t *testing.T) {
	p, _, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	p.HandleSignal(types.Signal{
		ID: "resize-before", Kind: types.SignalViewportResize,
		Width: 800, Height: 600, Timestamp: time.Now(),
	})
	if got := p.Classification().Tier; got != types.TierTablet {
		t.Fatalf("expected tablet under default thresholds, got %s", got)
	}

	p.UpdateConfig(&types.EngineConfig{
		Version: "1.0",
		Surface: "test",
		Breakpoints: &types.BreakpointThresholds{
			Tablet:  900,
			Desktop: 1024,
			Wide:    1440,
		},
	})

	p.HandleSignal(types.Signal{
		ID: "resize-after", Kind: types.SignalViewportResize,
		Width: 800, Height: 600, Timestamp: time.Now(),
	})
	if got := p.Classification().Tier; got != types.TierMobile {
		t.Errorf("expected mobile under raised tablet threshold, got %s", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	p, _, _, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	p.Stop()
	p.Stop()

	// Signals after stop are dropped
	p.HandleSignal(types.Signal{ID: "sig-late", Kind: types.SignalHostContext, Timestamp: time.Now()})
	if p.Mode() != types.ModeIdle {
		t.Errorf("expected idle after stop, got %s", p.Mode())
	}
}
