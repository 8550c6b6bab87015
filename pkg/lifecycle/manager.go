// Package lifecycle provides surface lifecycle management utilities
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/panekit/panekit/pkg/logger"
)

// Manager handles surface lifecycle and OS signals. Every teardown
// bumps the generation counter; in-flight work captures the counter
// before starting and abandons its commit when the value moved.
type Manager struct {
	logger           logger.Logger
	teardownHandlers []func()
	generation       atomic.Uint64

	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewManager creates a new lifecycle manager
func NewManager(log logger.Logger) *Manager {
	return &Manager{
		logger:           log,
		teardownHandlers: make([]func(), 0),
	}
}

// RegisterTeardownHandler adds a teardown handler
func (m *Manager) RegisterTeardownHandler(handler func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teardownHandlers = append(m.teardownHandlers, handler)
}

// Generation returns the current teardown generation.
func (m *Manager) Generation() uint64 {
	return m.generation.Load()
}

// Teardown bumps the generation and runs handlers in reverse order.
func (m *Manager) Teardown() {
	m.generation.Add(1)

	m.mu.Lock()
	handlers := make([]func(), len(m.teardownHandlers))
	copy(handlers, m.teardownHandlers)
	m.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		handlers[i]()
	}
}

// Start starts the lifecycle manager with the given context.
// The context controls the lifetime of the manager.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	// Handle OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer signal.Stop(sigChan)

		select {
		case <-ctx.Done():
			m.handleShutdown()
		case sig := <-sigChan:
			m.logger.Info("Received signal", logger.WithField("signal", sig))
			m.handleShutdown()
		}
	}()
}

// Stop stops the lifecycle manager
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()
}

// IsRunning checks if the lifecycle manager is running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Private methods

func (m *Manager) handleShutdown() {
	m.logger.Info("Initiating graceful shutdown...")

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	m.Teardown()
}
