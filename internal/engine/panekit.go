package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panekit/panekit/pkg/breakpoint"
	pcontext "github.com/panekit/panekit/pkg/context"
	"github.com/panekit/panekit/pkg/geometry"
	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/layout"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/profiler"
	"github.com/panekit/panekit/pkg/state"
	"github.com/panekit/panekit/pkg/types"
	"github.com/panekit/panekit/pkg/validation"
)

// Adaptation progress checkpoints reported through the state manager.
const (
	progressStarted    = 0
	progressClassified = 25
	progressPlanned    = 75
	progressCommitted  = 100
)

// PaneKit is the main layout adaptation engine. It owns the engine
// state machine for one workspace surface: idle, adapting, fallback.
type PaneKit struct {
	config  *types.EngineConfig
	surface string
	logger  logger.Logger

	profiler     *profiler.Profiler
	classifier   *breakpoint.Classifier
	layouts      *layout.Manager
	solver       *geometry.Solver
	validator    *validation.LayoutValidator
	stateManager *state.Manager

	advisory  interfaces.AdvisoryClient
	publisher interfaces.LayoutPublisher
	store     interfaces.LayoutStore
	notifier  interfaces.AdaptationNotifier
	lifecycle interfaces.LifecycleManager

	mode             types.EngineMode
	classification   types.Classification
	viewport         types.Dimensions
	current          types.SplitLayout
	lastGood         types.SplitLayout
	display          types.SplitLayout
	prefs            types.UserPreferences
	pendingSignal    *types.Signal
	fallbackDeadline time.Time
	fallbackTimer    *time.Timer

	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
}

// New creates a new PaneKit engine for one surface.
func New(
	config *types.EngineConfig,
	log logger.Logger,
	deps interfaces.EngineDependencies,
	stateManager *state.Manager,
) *PaneKit {
	ctx, cancel := context.WithCancel(context.Background())

	// Validate required dependencies
	if deps.Publisher == nil {
		panic("Publisher dependency is required")
	}
	if stateManager == nil {
		panic("state manager is required")
	}

	surface := config.Surface
	if surface == "" {
		surface = "main"
	}

	solver := geometry.NewSolver(config.GetGridSize(), config.GetSearchRadius())

	p := &PaneKit{
		config:       config,
		surface:      surface,
		logger:       log,
		profiler:     profiler.New(deps.Prober, log),
		classifier:   breakpoint.NewClassifier(config.GetBreakpoints()),
		layouts:      layout.NewManager(solver, log),
		solver:       solver,
		validator:    validation.NewLayoutValidator(config.GetLayoutConstraints()),
		stateManager: stateManager,
		advisory:     deps.Advisory,
		publisher:    deps.Publisher,
		store:        deps.Store,
		notifier:     deps.Notifier,
		lifecycle:    deps.Lifecycle,
		mode:         types.ModeIdle,
		ctx:          ctx,
		cancel:       cancel,
	}

	return p
}

// StartWithContext brings the engine up: state is initialized, a
// persisted layout is restored when the store has one, and an initial
// adaptation runs against the probed device.
func (p *PaneKit) StartWithContext(ctx context.Context, initial types.SplitLayout) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return fmt.Errorf("engine is already running")
	}
	p.isRunning = true
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.current = initial.Clone()
	p.lastGood = initial.Clone()
	p.display = initial.Clone()
	p.mu.Unlock()

	p.logger.Info("Starting PaneKit engine",
		logger.WithField("surface", p.surface))

	p.stateManager.StartHeartbeat(p.ctx)
	if _, err := p.stateManager.InitializeState(p.surface); err != nil {
		p.logger.Warn("Failed to initialize surface state",
			logger.WithField("error", err))
	}

	if p.store != nil {
		if saved, err := p.store.LoadLayout(p.ctx, p.surface); err == nil && saved != nil {
			p.mu.Lock()
			p.current = saved.Clone()
			p.lastGood = saved.Clone()
			p.display = saved.Clone()
			p.mu.Unlock()
			p.logger.Info("Restored persisted layout",
				logger.WithField("layout_id", saved.ID),
				logger.WithField("pane_count", len(saved.Panes)))
		}
	}

	if p.lifecycle != nil {
		p.lifecycle.RegisterTeardownHandler(p.teardown)
	}

	// Initial adaptation against the probed device.
	p.HandleSignal(types.Signal{
		ID:        pcontext.GenerateSignalID(),
		Kind:      types.SignalHostContext,
		Timestamp: time.Now(),
	})

	return nil
}

// Start brings the engine up with a background context.
func (p *PaneKit) Start(initial types.SplitLayout) error {
	return p.StartWithContext(context.Background(), initial)
}

// Stop shuts the engine down and flushes final state.
func (p *PaneKit) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	if p.fallbackTimer != nil {
		p.fallbackTimer.Stop()
		p.fallbackTimer = nil
	}
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()

	if err := p.stateManager.Cleanup(); err != nil {
		p.logger.Warn("Failed to clean up state", logger.WithField("error", err))
	}
	p.logger.Info("PaneKit engine stopped", logger.WithField("surface", p.surface))
}

// teardown is invoked by the lifecycle manager when the surface goes
// away. Any in-flight adaptation observes the generation bump and
// abandons its commit.
func (p *PaneKit) teardown() {
	p.mu.Lock()
	p.pendingSignal = nil
	if p.fallbackTimer != nil {
		p.fallbackTimer.Stop()
		p.fallbackTimer = nil
	}
	p.mu.Unlock()
}

// UpdateConfig applies a reloaded configuration. Threshold-bearing
// collaborators are rebuilt in place; an in-flight adaptation finishes
// with the old thresholds and the next pass picks up the new ones.
func (p *PaneKit) UpdateConfig(cfg *types.EngineConfig) {
	if cfg == nil {
		return
	}
	solver := geometry.NewSolver(cfg.GetGridSize(), cfg.GetSearchRadius())

	p.mu.Lock()
	p.config = cfg
	p.classifier = breakpoint.NewClassifier(cfg.GetBreakpoints())
	p.solver = solver
	p.layouts = layout.NewManager(solver, p.logger)
	p.validator = validation.NewLayoutValidator(cfg.GetLayoutConstraints())
	p.mu.Unlock()

	p.logger.Info("Engine configuration updated",
		logger.WithField("surface", p.surface))
}

// cfg returns the active configuration for paths that may run
// concurrently with UpdateConfig.
func (p *PaneKit) cfg() *types.EngineConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config
}

// Mode returns the engine's current state machine mode.
func (p *PaneKit) Mode() types.EngineMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// Classification returns the most recent breakpoint classification.
func (p *PaneKit) Classification() types.Classification {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.classification
}

// CurrentLayout returns a copy of the active layout as presented to the
// host, with accessibility scaling applied.
func (p *PaneKit) CurrentLayout() types.SplitLayout {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.display.Clone()
}

// layoutState returns the layout manager together with the committed
// layout before accessibility scaling. Pane operations build on this so
// preference scaling never compounds across commits.
func (p *PaneKit) layoutState() (*layout.Manager, types.SplitLayout) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.layouts, p.current.Clone()
}

// HandleSignal consumes one debounced inbound signal. While an
// adaptation is in flight, the newest signal parks as pending and runs
// when the current pass finishes; intermediate signals are dropped.
func (p *PaneKit) HandleSignal(signal types.Signal) {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}

	if signal.Kind == types.SignalPreferenceChange && signal.Prefs != nil {
		p.prefs = *signal.Prefs
	}

	switch p.mode {
	case types.ModeAdapting:
		p.pendingSignal = &signal
		p.mu.Unlock()
		return
	case types.ModeFallback:
		if time.Now().Before(p.fallbackDeadline) {
			p.pendingSignal = &signal
			p.mu.Unlock()
			return
		}
	}

	p.mode = types.ModeAdapting
	p.mu.Unlock()

	p.runAdaptation(signal)
}

// runAdaptation drives adaptation passes until no pending signal is
// left or a pass fails into fallback.
func (p *PaneKit) runAdaptation(signal types.Signal) {
	for {
		p.mu.Lock()
		wasFallback := p.fallbackTimer != nil
		p.mu.Unlock()

		err := p.adapt(signal)
		if err != nil {
			p.enterFallback(err)
			return
		}

		if wasFallback {
			p.mu.Lock()
			if p.fallbackTimer != nil {
				p.fallbackTimer.Stop()
				p.fallbackTimer = nil
			}
			p.mu.Unlock()
			if p.notifier != nil {
				p.notifier.NotifyFallbackRecovered(p.surface)
			}
		}

		p.mu.Lock()
		if p.pendingSignal == nil {
			p.mu.Unlock()
			return
		}
		signal = *p.pendingSignal
		p.pendingSignal = nil
		p.mode = types.ModeAdapting
		p.mu.Unlock()
	}
}

// adapt runs one full adaptation pass: probe, classify, reshape,
// consult the advisory, validate, commit.
func (p *PaneKit) adapt(signal types.Signal) (err error) {
	// Collaborators are injected; a panic from any of them is caught
	// here and routed to fallback like any other adaptation failure.
	defer func() {
		if r := recover(); r != nil {
			err = ClassifyError(p.surface, fmt.Errorf("panic during adaptation: %v", r))
		}
	}()

	started := time.Now()
	var generation uint64
	if p.lifecycle != nil {
		generation = p.lifecycle.Generation()
	}

	p.mu.RLock()
	fromTier := p.classification.Tier
	currentLayout := p.current.Clone()
	surface := p.viewport
	prefs := p.prefs
	cfg := p.config
	classifier := p.classifier
	validator := p.validator
	p.mu.RUnlock()

	p.setProgress(types.ModeAdapting, progressStarted)

	// Probe and classify.
	var snapshot types.DeviceSnapshot
	if signal.Width > 0 && signal.Height > 0 {
		snapshot = p.profiler.SampleWithSize(signal.Width, signal.Height)
	} else {
		snapshot = p.profiler.Sample()
	}
	classification := classifier.Classify(snapshot)
	p.setProgress(types.ModeAdapting, progressClassified)

	// Merge the tier's structural overlay: chrome regions claim their
	// space from the full surface and panes reshape into what remains.
	// The full surface is tracked separately from the workspace so the
	// overlay never shrinks an already-shrunken container.
	if signal.Kind == types.SignalViewportResize && signal.Width > 0 && signal.Height > 0 {
		surface = types.Dimensions{Width: signal.Width, Height: signal.Height}
	} else if surface.Width <= 0 || surface.Height <= 0 {
		surface = types.Dimensions{Width: snapshot.ScreenSize.Width, Height: snapshot.ScreenSize.Height}
	}
	overlay := OverlayForTier(classification.Tier)
	workspace := WorkspaceWithin(surface, overlay)
	candidate := ReshapeForTier(currentLayout, classification.Tier, workspace)

	// Advisory consultation is best-effort with a hard deadline. A
	// declined or late answer degrades to the un-optimized layout.
	usedFallbackPlan := false
	if p.advisory != nil && cfg.IsAdvisoryEnabled() {
		if err := p.consultAdvisory(&candidate, snapshot, classification, signal, generation); err != nil {
			usedFallbackPlan = true
			p.logger.Debug("Advisory unavailable, continuing without plan",
				logger.WithField("signal_id", signal.ID),
				logger.WithField("error", err))
		}
	}
	p.setProgress(types.ModeAdapting, progressPlanned)

	// Hard validation gate before any commit.
	if result := validator.Validate(candidate); !result.Valid {
		err := ClassifyError(p.surface, fmt.Errorf("%w: %s", ErrValidationFailed, result.Summary()))
		p.recordAdaptation(signal, fromTier, classification.Tier, started, false, true)
		return err
	}

	// Accessibility scaling applies to the presented layout only; the
	// committed layout keeps base minimums so scaling cannot compound
	// across passes.
	display := candidate.Clone()
	applyPreferences(&display, prefs)

	// A teardown between signal arrival and commit abandons the pass.
	if p.lifecycle != nil && p.lifecycle.Generation() != generation {
		p.logger.Debug("Surface torn down mid-adaptation, abandoning commit",
			logger.WithField("signal_id", signal.ID))
		p.mu.Lock()
		p.mode = types.ModeIdle
		p.mu.Unlock()
		p.setProgress(types.ModeIdle, progressStarted)
		return nil
	}

	// Commit.
	p.mu.Lock()
	p.current = candidate
	p.lastGood = candidate.Clone()
	p.display = display
	p.classification = classification
	p.viewport = surface
	p.mode = types.ModeIdle
	p.mu.Unlock()

	p.setProgress(types.ModeIdle, progressCommitted)
	if err := p.stateManager.SetLayout(p.surface, candidate, classification, true); err != nil {
		p.logger.Warn("Failed to persist layout state", logger.WithField("error", err))
	}
	p.saveLayoutAsync(candidate)

	p.publisher.OnLayoutAdapted(display, classification)
	if p.notifier != nil && fromTier != classification.Tier {
		p.notifier.NotifyAdaptation(p.surface, fromTier, classification.Tier, time.Since(started))
	}
	p.recordAdaptation(signal, fromTier, classification.Tier, started, true, usedFallbackPlan)

	p.logger.Success("Adaptation complete",
		logger.WithField("signal_id", signal.ID),
		logger.WithField("tier", string(classification.Tier)),
		logger.WithField("duration_ms", time.Since(started).Milliseconds()))
	return nil
}

// consultAdvisory requests the optimization plan and device hints
// concurrently under one deadline and merges whatever arrived in time.
func (p *PaneKit) consultAdvisory(candidate *types.SplitLayout, snapshot types.DeviceSnapshot, classification types.Classification, signal types.Signal, generation uint64) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg().GetAdvisoryTimeout())
	defer cancel()

	ctx = pcontext.WithSignalID(ctx, signal.ID)
	ctx = pcontext.WithOperation(ctx, "consult-advisory")
	ctx = pcontext.WithGeneration(ctx, generation)
	ctx = pcontext.WithStartTime(ctx, time.Now())

	var (
		plan *types.OptimizationPlan
		opts []types.Optimization
	)

	g, gctx := NewSafeGroup(ctx, p.logger)
	g.Go(func() error {
		result, err := p.advisory.RequestOptimization(gctx, *candidate, snapshot, classification.Tier)
		if err != nil {
			return err
		}
		plan = result
		return nil
	})
	g.Go(func() error {
		result, err := p.advisory.RequestDeviceOptimizations(gctx, classification.DeviceType, *candidate)
		if err != nil {
			return err
		}
		opts = result
		return nil
	})

	if err := g.Wait(); err != nil {
		if lc, ok := p.logger.(logger.LoggerContext); ok {
			lc.DebugContext(ctx, "Advisory consultation failed", logger.WithField("error", err))
		}
		if errors.Is(err, interfaces.ErrAdvisoryUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", interfaces.ErrAdvisoryUnavailable, err)
	}

	mergePlan(candidate, plan)
	applyOptimizations(candidate, opts)
	return nil
}

// enterFallback reverts to the last-good layout and schedules an
// automatic recovery attempt after the cooldown. A failure during
// recovery restarts the cooldown.
func (p *PaneKit) enterFallback(cause error) {
	cooldown := p.cfg().GetFallbackCooldown()

	p.mu.Lock()
	p.mode = types.ModeFallback
	p.current = p.lastGood.Clone()
	restored := p.lastGood.Clone()
	applyPreferences(&restored, p.prefs)
	p.display = restored
	p.fallbackDeadline = time.Now().Add(cooldown)
	if p.fallbackTimer != nil {
		p.fallbackTimer.Stop()
	}
	p.fallbackTimer = time.AfterFunc(cooldown, p.recoverFromFallback)
	p.mu.Unlock()

	p.logger.Error("Entering fallback mode",
		logger.WithField("surface", p.surface),
		logger.WithField("error", cause))

	p.setProgress(types.ModeFallback, progressStarted)
	if err := p.stateManager.RecordError(p.surface, "adapt", cause.Error()); err != nil {
		p.logger.Debug("Failed to record error", logger.WithField("error", err))
	}

	p.publisher.OnAdaptationError(cause)
	if p.notifier != nil {
		p.notifier.NotifyFallbackEntered(p.surface, cause)
	}
}

// recoverFromFallback fires when the cooldown elapses: the newest
// parked signal, or a fresh probe when none arrived, drives a retry.
func (p *PaneKit) recoverFromFallback() {
	p.mu.Lock()
	if !p.isRunning || p.mode != types.ModeFallback {
		p.mu.Unlock()
		return
	}

	signal := types.Signal{
		ID:        pcontext.GenerateSignalID(),
		Kind:      types.SignalHostContext,
		Timestamp: time.Now(),
	}
	if p.pendingSignal != nil {
		signal = *p.pendingSignal
		p.pendingSignal = nil
	}
	p.mode = types.ModeAdapting
	p.mu.Unlock()

	p.logger.Info("Attempting fallback recovery",
		logger.WithField("surface", p.surface))
	p.runAdaptation(signal)
}

// AddPane inserts a pane into the active layout.
func (p *PaneKit) AddPane(pane types.Pane) (types.SplitLayout, error) {
	lm, cur := p.layoutState()
	next, err := lm.AddPane(cur, pane)
	return p.commitPaneOp("add-pane", next, err)
}

// ResizePane resizes a pane in the active layout.
func (p *PaneKit) ResizePane(paneID string, newSize types.Size) (types.SplitLayout, error) {
	lm, cur := p.layoutState()
	next, err := lm.ResizePane(cur, paneID, newSize)
	return p.commitPaneOp("resize-pane", next, err)
}

// MovePane moves a pane in the active layout.
func (p *PaneKit) MovePane(paneID string, target types.Position) (types.SplitLayout, error) {
	lm, cur := p.layoutState()
	next, err := lm.MovePane(cur, paneID, target)
	return p.commitPaneOp("move-pane", next, err)
}

// RemovePane removes a pane from the active layout.
func (p *PaneKit) RemovePane(paneID string) (types.SplitLayout, error) {
	lm, cur := p.layoutState()
	next, err := lm.RemovePane(cur, paneID)
	return p.commitPaneOp("remove-pane", next, err)
}

// FocusPane focuses a pane in the active layout.
func (p *PaneKit) FocusPane(paneID string) (types.SplitLayout, error) {
	lm, cur := p.layoutState()
	next, err := lm.FocusPane(cur, paneID)
	return p.commitPaneOp("focus-pane", next, err)
}

// commitPaneOp commits a successful pane operation or reports the
// classified failure. Failed operations leave the active layout as-is.
func (p *PaneKit) commitPaneOp(op string, next types.SplitLayout, err error) (types.SplitLayout, error) {
	if err != nil {
		classified := ClassifyError(p.surface, err)
		p.logger.Error("Pane operation failed",
			logger.WithField("operation", op),
			logger.WithField("error", err))
		if recErr := p.stateManager.RecordError(p.surface, op, err.Error()); recErr != nil {
			p.logger.Debug("Failed to record error", logger.WithField("error", recErr))
		}
		p.publisher.OnAdaptationError(classified)
		return p.CurrentLayout(), classified
	}

	p.mu.Lock()
	p.current = next.Clone()
	p.lastGood = next.Clone()
	display := next.Clone()
	applyPreferences(&display, p.prefs)
	p.display = display.Clone()
	classification := p.classification
	p.mu.Unlock()

	if stateErr := p.stateManager.SetLayout(p.surface, next, classification, true); stateErr != nil {
		p.logger.Warn("Failed to persist layout state", logger.WithField("error", stateErr))
	}
	p.saveLayoutAsync(next)
	p.publisher.OnPaneLayoutChanged(display)
	return display, nil
}

// ReportPerformance reacts to monitor samples. A frame rate below the
// configured floor or critical memory pressure flips the engine into
// reduced-motion processing and runs a preference adaptation so the
// host sees the degraded state. Reduced motion is sticky until an
// explicit preference change clears it.
func (p *PaneKit) ReportPerformance(sample types.PerformanceSample) {
	minRate := p.cfg().GetMinFrameRate()
	lowFrames := sample.FrameRate > 0 && sample.FrameRate < minRate
	if !lowFrames && sample.MemoryPressure != types.MemoryPressureCritical {
		return
	}

	p.mu.Lock()
	already := p.prefs.ReducedMotion
	p.prefs.ReducedMotion = true
	updated := p.prefs
	p.mu.Unlock()

	if already {
		return
	}

	p.logger.Warn("Performance degraded, enabling reduced motion",
		logger.WithField("frame_rate", sample.FrameRate),
		logger.WithField("memory_pressure", string(sample.MemoryPressure)),
		logger.WithField("threshold", minRate))

	p.HandleSignal(types.Signal{
		ID:        pcontext.GenerateSignalID(),
		Kind:      types.SignalPreferenceChange,
		Prefs:     &updated,
		Timestamp: time.Now(),
	})
}

// Preferences returns the effective user preferences, including any
// reduced-motion engagement from degraded performance.
func (p *PaneKit) Preferences() types.UserPreferences {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs
}

// saveLayoutAsync persists the layout to the store without blocking the
// transition. Save failures are logged, never propagated.
func (p *PaneKit) saveLayoutAsync(l types.SplitLayout) {
	if p.store == nil {
		return
	}
	snapshot := l.Clone()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.store.SaveLayout(p.ctx, p.surface, snapshot); err != nil {
			p.logger.Warn("Failed to persist layout",
				logger.WithField("error", err))
		}
	}()
}

func (p *PaneKit) setProgress(mode types.EngineMode, progress int) {
	if err := p.stateManager.SetMode(p.surface, mode, progress); err != nil {
		p.logger.Debug("Failed to record progress", logger.WithField("error", err))
	}
}

func (p *PaneKit) recordAdaptation(signal types.Signal, from, to types.BreakpointTier, started time.Time, succeeded, usedFallback bool) {
	rec := types.AdaptationRecord{
		ID:           signal.ID,
		FromTier:     from,
		ToTier:       to,
		StartedAt:    started,
		Duration:     time.Since(started),
		Succeeded:    succeeded,
		UsedFallback: usedFallback,
	}
	if err := p.stateManager.RecordAdaptation(p.surface, rec); err != nil {
		p.logger.Debug("Failed to record adaptation", logger.WithField("error", err))
	}
}
