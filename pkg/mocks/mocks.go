// Package mocks provides mock implementations of interfaces for testing.
// These follow Go best practices for test doubles.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/types"
)

// MockAdvisoryClient is a mock implementation of AdvisoryClient for testing
type MockAdvisoryClient struct {
	mu sync.Mutex

	Plan          *types.OptimizationPlan
	PlanErr       error
	Optimizations []types.Optimization
	OptsErr       error
	Delay         time.Duration

	PlanCalls int
	OptsCalls int
}

// NewMockAdvisoryClient creates a mock advisory client that returns no hints
func NewMockAdvisoryClient() *MockAdvisoryClient {
	return &MockAdvisoryClient{}
}

// RequestOptimization returns the configured plan
func (m *MockAdvisoryClient) RequestOptimization(
	ctx context.Context,
	layout types.SplitLayout,
	snapshot types.DeviceSnapshot,
	tier types.BreakpointTier,
) (*types.OptimizationPlan, error) {
	m.mu.Lock()
	m.PlanCalls++
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlanErr != nil {
		return nil, m.PlanErr
	}
	return m.Plan, nil
}

// RequestDeviceOptimizations returns the configured optimization hints
func (m *MockAdvisoryClient) RequestDeviceOptimizations(
	ctx context.Context,
	deviceType types.DeviceType,
	layout types.SplitLayout,
) ([]types.Optimization, error) {
	m.mu.Lock()
	m.OptsCalls++
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OptsErr != nil {
		return nil, m.OptsErr
	}
	return m.Optimizations, nil
}

// MockLayoutPublisher is a mock implementation of LayoutPublisher for testing
type MockLayoutPublisher struct {
	mu sync.Mutex

	AdaptedLayouts  []types.SplitLayout
	Classifications []types.Classification
	PaneLayouts     []types.SplitLayout
	Errors          []error
}

// NewMockLayoutPublisher creates a mock publisher that records calls
func NewMockLayoutPublisher() *MockLayoutPublisher {
	return &MockLayoutPublisher{}
}

// OnLayoutAdapted records the adapted layout
func (m *MockLayoutPublisher) OnLayoutAdapted(layout types.SplitLayout, classification types.Classification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdaptedLayouts = append(m.AdaptedLayouts, layout)
	m.Classifications = append(m.Classifications, classification)
}

// OnPaneLayoutChanged records the pane layout
func (m *MockLayoutPublisher) OnPaneLayoutChanged(layout types.SplitLayout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PaneLayouts = append(m.PaneLayouts, layout)
}

// OnAdaptationError records the error
func (m *MockLayoutPublisher) OnAdaptationError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, err)
}

// AdaptedCount returns how many adapted layouts were published
func (m *MockLayoutPublisher) AdaptedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AdaptedLayouts)
}

// LastAdapted returns the most recently adapted layout, or nil
func (m *MockLayoutPublisher) LastAdapted() *types.SplitLayout {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.AdaptedLayouts) == 0 {
		return nil
	}
	layout := m.AdaptedLayouts[len(m.AdaptedLayouts)-1]
	return &layout
}

// LastClassification returns the most recent classification, or nil
func (m *MockLayoutPublisher) LastClassification() *types.Classification {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Classifications) == 0 {
		return nil
	}
	c := m.Classifications[len(m.Classifications)-1]
	return &c
}

// ErrorCount returns how many errors were published
func (m *MockLayoutPublisher) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Errors)
}

// PaneChangeCount returns how many pane layout changes were published
func (m *MockLayoutPublisher) PaneChangeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PaneLayouts)
}

// MockLayoutStore is a mock implementation of LayoutStore for testing
type MockLayoutStore struct {
	mu sync.RWMutex

	Layouts   map[string]types.SplitLayout
	SaveErr   error
	LoadErr   error
	SaveCalls int
	LoadCalls int
}

// NewMockLayoutStore creates an in-memory layout store
func NewMockLayoutStore() *MockLayoutStore {
	return &MockLayoutStore{
		Layouts: make(map[string]types.SplitLayout),
	}
}

// SaveLayout stores the layout in memory
func (m *MockLayoutStore) SaveLayout(ctx context.Context, surface string, layout types.SplitLayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Layouts[surface] = layout
	return nil
}

// LoadLayout retrieves a stored layout
func (m *MockLayoutStore) LoadLayout(ctx context.Context, surface string) (*types.SplitLayout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	layout, ok := m.Layouts[surface]
	if !ok {
		return nil, nil
	}
	return &layout, nil
}

// MockDeviceProber is a mock implementation of DeviceProber for testing
type MockDeviceProber struct {
	mu sync.RWMutex

	Screen       types.ScreenSize
	Ratio        float64
	Touch        bool
	Hover        bool
	Net          types.NetworkClass
	NetSpeed     float64
	BatteryLevel float64
	Memory       types.MemoryPressureLevel
	ScreenErr    error
	RatioErr     error
	PointerErr   error
	NetworkErr   error
	BatteryError error
	MemoryErr    error
}

// NewMockDeviceProber creates a prober that reports a desktop host
func NewMockDeviceProber() *MockDeviceProber {
	return &MockDeviceProber{
		Screen:       types.ScreenSize{Width: 1280, Height: 800},
		Ratio:        2.0,
		Hover:        true,
		Net:          types.NetworkWifi,
		NetSpeed:     100,
		BatteryLevel: 100,
		Memory:       types.MemoryPressureLow,
	}
}

// SetScreen updates the reported screen size
func (m *MockDeviceProber) SetScreen(width, height float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Screen = types.ScreenSize{Width: width, Height: height}
}

// ScreenSize returns the configured screen size
func (m *MockDeviceProber) ScreenSize() (types.ScreenSize, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Screen, m.ScreenErr
}

// PixelRatio returns the configured pixel ratio
func (m *MockDeviceProber) PixelRatio() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Ratio, m.RatioErr
}

// PointerCapabilities returns the configured pointer capabilities
func (m *MockDeviceProber) PointerCapabilities() (bool, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Touch, m.Hover, m.PointerErr
}

// Network returns the configured network class and speed
func (m *MockDeviceProber) Network() (types.NetworkClass, float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Net, m.NetSpeed, m.NetworkErr
}

// Battery returns the configured battery level
func (m *MockDeviceProber) Battery() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.BatteryLevel, m.BatteryError
}

// MemoryPressure returns the configured memory pressure
func (m *MockDeviceProber) MemoryPressure() (types.MemoryPressureLevel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Memory, m.MemoryErr
}

// MockAdaptationNotifier is a mock implementation of AdaptationNotifier
type MockAdaptationNotifier struct {
	mu sync.Mutex

	FallbackEntered   []string
	FallbackRecovered []string
	Adaptations       []string
}

// NewMockAdaptationNotifier creates a notifier that records calls
func NewMockAdaptationNotifier() *MockAdaptationNotifier {
	return &MockAdaptationNotifier{}
}

// NotifyFallbackEntered records the fallback entry
func (m *MockAdaptationNotifier) NotifyFallbackEntered(surface string, reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackEntered = append(m.FallbackEntered, surface)
}

// NotifyFallbackRecovered records the recovery
func (m *MockAdaptationNotifier) NotifyFallbackRecovered(surface string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackRecovered = append(m.FallbackRecovered, surface)
}

// NotifyAdaptation records the tier change
func (m *MockAdaptationNotifier) NotifyAdaptation(surface string, from, to types.BreakpointTier, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Adaptations = append(m.Adaptations, surface)
}

// FallbackEnteredCount returns how many fallback entries were notified
func (m *MockAdaptationNotifier) FallbackEnteredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FallbackEntered)
}

// FallbackRecoveredCount returns how many recoveries were notified
func (m *MockAdaptationNotifier) FallbackRecoveredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FallbackRecovered)
}

// MockLifecycleManager is a mock implementation of LifecycleManager
type MockLifecycleManager struct {
	mu         sync.Mutex
	handlers   []func()
	generation uint64
	running    bool
}

// NewMockLifecycleManager creates a mock lifecycle manager
func NewMockLifecycleManager() *MockLifecycleManager {
	return &MockLifecycleManager{}
}

// RegisterTeardownHandler registers a teardown handler
func (m *MockLifecycleManager) RegisterTeardownHandler(handler func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Generation returns the current generation counter
func (m *MockLifecycleManager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Teardown bumps the generation and runs handlers in reverse order
func (m *MockLifecycleManager) Teardown() {
	m.mu.Lock()
	m.generation++
	handlers := make([]func(), len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		handlers[i]()
	}
}

// Start marks the manager as running
func (m *MockLifecycleManager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = true
}

// Stop marks the manager as stopped
func (m *MockLifecycleManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
}

// MockFrameRateSource is a mock implementation of FrameRateSource
type MockFrameRateSource struct {
	mu   sync.RWMutex
	Rate float64
	Err  error
}

// NewMockFrameRateSource creates a source reporting a smooth frame rate
func NewMockFrameRateSource() *MockFrameRateSource {
	return &MockFrameRateSource{Rate: 60}
}

// SetRate updates the reported frame rate
func (m *MockFrameRateSource) SetRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rate = rate
}

// FrameRate returns the configured frame rate
func (m *MockFrameRateSource) FrameRate() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Rate, m.Err
}

// MockPerformanceReporter is a mock implementation of PerformanceReporter
type MockPerformanceReporter struct {
	mu      sync.Mutex
	Samples []types.PerformanceSample
}

// NewMockPerformanceReporter creates a reporter that records samples
func NewMockPerformanceReporter() *MockPerformanceReporter {
	return &MockPerformanceReporter{}
}

// ReportPerformance records the sample
func (m *MockPerformanceReporter) ReportPerformance(sample types.PerformanceSample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Samples = append(m.Samples, sample)
}

// SampleCount returns how many samples were reported
func (m *MockPerformanceReporter) SampleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Samples)
}

// NewTestDependencies returns a full set of mock dependencies for tests
func NewTestDependencies() (interfaces.EngineDependencies, *MockLayoutPublisher, *MockLayoutStore) {
	publisher := NewMockLayoutPublisher()
	store := NewMockLayoutStore()
	deps := interfaces.EngineDependencies{
		Advisory:  NewMockAdvisoryClient(),
		Publisher: publisher,
		Store:     store,
		Prober:    NewMockDeviceProber(),
		Notifier:  NewMockAdaptationNotifier(),
		Lifecycle: NewMockLifecycleManager(),
	}
	return deps, publisher, store
}
