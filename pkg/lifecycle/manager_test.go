package lifecycle

import (
	"context"
	"testing"

	"github.com/panekit/panekit/pkg/logger"
)

func TestTeardownRunsHandlersInReverseOrder(t *testing.T) {
	m := NewManager(logger.CreateLoggerWithOutput("", "error", nil))

	var order []string
	m.RegisterTeardownHandler(func() { order = append(order, "first") })
	m.RegisterTeardownHandler(func() { order = append(order, "second") })

	m.Teardown()

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("handler order = %v, want [second first]", order)
	}
}

func TestTeardownBumpsGeneration(t *testing.T) {
	m := NewManager(logger.CreateLoggerWithOutput("", "error", nil))

	if m.Generation() != 0 {
		t.Fatalf("initial generation = %d, want 0", m.Generation())
	}

	before := m.Generation()
	m.Teardown()
	m.Teardown()
	if got := m.Generation(); got != before+2 {
		t.Errorf("generation = %d, want %d", got, before+2)
	}
}

func TestStartStop(t *testing.T) {
	m := NewManager(logger.CreateLoggerWithOutput("", "error", nil))

	if m.IsRunning() {
		t.Fatal("manager must start stopped")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	if !m.IsRunning() {
		t.Error("manager not running after start")
	}

	// Starting twice is a no-op.
	m.Start(ctx)

	m.Stop()
	if m.IsRunning() {
		t.Error("manager still running after stop")
	}
}
