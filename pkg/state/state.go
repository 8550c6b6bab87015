// Package state provides persistent engine state management for PaneKit
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/types"
)

// ErrorEntry is one entry in the bounded engine error log.
type ErrorEntry struct {
	Time      time.Time `json:"time"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
}

// EngineState represents the persistent state of one workspace surface
type EngineState struct {
	Surface         string                   `json:"surface"`
	Mode            types.EngineMode         `json:"mode"`
	Progress        int                      `json:"progress"`
	Classification  types.Classification     `json:"classification"`
	Layout          *types.SplitLayout       `json:"layout,omitempty"`
	LastGoodLayout  *types.SplitLayout       `json:"lastGoodLayout,omitempty"`
	Records         []types.AdaptationRecord `json:"records,omitempty"`
	ErrorLog        []ErrorEntry             `json:"errorLog,omitempty"`
	AdaptationCount int                      `json:"adaptationCount"`
	FallbackCount   int                      `json:"fallbackCount"`
	ProcessID       int                      `json:"processId"`
	Heartbeat       time.Time                `json:"heartbeat"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// Manager handles persistent state files, one per workspace surface.
// Records and the error log are bounded rings: appending past the cap
// evicts the oldest entry.
type Manager struct {
	stateDir       string
	logger         logger.Logger
	recordCap      int
	errorCap       int
	mu             sync.RWMutex
	states         map[string]*EngineState
	heartbeatStop  chan struct{}
	heartbeatTimer *time.Ticker
}

// NewManager creates a new state manager rooted at the given directory.
func NewManager(root string, recordCap, errorCap int, log logger.Logger) *Manager {
	stateDir := filepath.Join(root, ".panekit", "state")

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		log.Error("Failed to create state directory", logger.WithField("error", err))
	}
	if recordCap <= 0 {
		recordCap = types.DefaultRecordCap
	}
	if errorCap <= 0 {
		errorCap = types.DefaultErrorLogCap
	}

	return &Manager{
		stateDir:  stateDir,
		logger:    log,
		recordCap: recordCap,
		errorCap:  errorCap,
		states:    make(map[string]*EngineState),
	}
}

// InitializeState creates or resumes state for a surface. Adaptation
// history survives restarts; mode always resets to idle.
func (sm *Manager) InitializeState(surface string) (*EngineState, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	st := &EngineState{
		Surface:   surface,
		Mode:      types.ModeIdle,
		ProcessID: os.Getpid(),
		Heartbeat: time.Now(),
		UpdatedAt: time.Now(),
	}

	existing, err := sm.loadStateFile(surface)
	if err == nil && existing != nil {
		st.Records = existing.Records
		st.ErrorLog = existing.ErrorLog
		st.AdaptationCount = existing.AdaptationCount
		st.FallbackCount = existing.FallbackCount
		st.LastGoodLayout = existing.LastGoodLayout
	}

	if err := sm.saveStateFile(st); err != nil {
		return nil, fmt.Errorf("failed to save initial state: %w", err)
	}

	sm.states[surface] = st
	return st, nil
}

// ReadState reads the state for a surface.
func (sm *Manager) ReadState(surface string) (*EngineState, error) {
	sm.mu.RLock()
	if st, ok := sm.states[surface]; ok {
		sm.mu.RUnlock()
		return st, nil
	}
	sm.mu.RUnlock()

	return sm.loadStateFile(surface)
}

// SetMode records a mode transition with its progress percentage.
func (sm *Manager) SetMode(surface string, mode types.EngineMode, progress int) error {
	return sm.update(surface, func(st *EngineState) {
		st.Mode = mode
		st.Progress = progress
	})
}

// SetLayout stores the active layout and classification. A layout that
// passed validation also becomes the last-good layout used for fallback.
func (sm *Manager) SetLayout(surface string, layout types.SplitLayout, c types.Classification, good bool) error {
	return sm.update(surface, func(st *EngineState) {
		snapshot := layout.Clone()
		st.Layout = &snapshot
		st.Classification = c
		if good {
			lastGood := layout.Clone()
			st.LastGoodLayout = &lastGood
		}
	})
}

// RecordAdaptation appends to the bounded adaptation history.
func (sm *Manager) RecordAdaptation(surface string, rec types.AdaptationRecord) error {
	return sm.update(surface, func(st *EngineState) {
		st.Records = append(st.Records, rec)
		if len(st.Records) > sm.recordCap {
			st.Records = st.Records[len(st.Records)-sm.recordCap:]
		}
		st.AdaptationCount++
		if rec.UsedFallback {
			st.FallbackCount++
		}
	})
}

// RecordError appends to the bounded error log.
func (sm *Manager) RecordError(surface, operation, message string) error {
	return sm.update(surface, func(st *EngineState) {
		st.ErrorLog = append(st.ErrorLog, ErrorEntry{
			Time:      time.Now(),
			Operation: operation,
			Message:   message,
		})
		if len(st.ErrorLog) > sm.errorCap {
			st.ErrorLog = st.ErrorLog[len(st.ErrorLog)-sm.errorCap:]
		}
	})
}

func (sm *Manager) update(surface string, apply func(*EngineState)) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	st, ok := sm.states[surface]
	if !ok {
		var err error
		st, err = sm.loadStateFile(surface)
		if err != nil {
			return fmt.Errorf("surface state not found: %s", surface)
		}
		sm.states[surface] = st
	}

	apply(st)
	st.Heartbeat = time.Now()
	st.UpdatedAt = time.Now()

	return sm.saveStateFile(st)
}

// RemoveState removes the state for a surface.
func (sm *Manager) RemoveState(surface string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, surface)

	stateFile := sm.getStateFilePath(surface)
	if err := os.Remove(stateFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}

	return nil
}

// DiscoverStates finds all existing state files
func (sm *Manager) DiscoverStates() (map[string]*EngineState, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	states := make(map[string]*EngineState)

	files, err := os.ReadDir(sm.stateDir)
	if err != nil {
		if os.IsNotExist(err) {
			return states, nil
		}
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}

		surface := file.Name()[:len(file.Name())-5]
		st, err := sm.loadStateFile(surface)
		if err != nil {
			sm.logger.Warn("Failed to load state file",
				logger.WithField("surface", surface),
				logger.WithField("error", err))
			continue
		}

		states[surface] = st
	}

	return states, nil
}

// StartHeartbeat starts the heartbeat updater
func (sm *Manager) StartHeartbeat(ctx context.Context) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.heartbeatTimer != nil {
		return // Already running
	}

	sm.heartbeatStop = make(chan struct{})
	sm.heartbeatTimer = time.NewTicker(10 * time.Second)

	// The goroutine reads the channels through locals; StopHeartbeat
	// nils the fields under the lock while the loop is still running.
	stop := sm.heartbeatStop
	tick := sm.heartbeatTimer.C

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-tick:
				sm.updateHeartbeats()
			}
		}
	}()
}

// StopHeartbeat stops the heartbeat updater
func (sm *Manager) StopHeartbeat() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.heartbeatTimer != nil {
		sm.heartbeatTimer.Stop()
		sm.heartbeatTimer = nil
	}

	if sm.heartbeatStop != nil {
		close(sm.heartbeatStop)
		sm.heartbeatStop = nil
	}
}

// Cleanup marks all tracked surfaces idle and flushes them to disk.
func (sm *Manager) Cleanup() error {
	sm.StopHeartbeat()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, st := range sm.states {
		st.Mode = types.ModeIdle
		st.Progress = 0
		st.ProcessID = 0
		if err := sm.saveStateFile(st); err != nil {
			sm.logger.Warn("Failed to save final state",
				logger.WithField("surface", st.Surface),
				logger.WithField("error", err))
		}
	}

	return nil
}

// Private methods

func (sm *Manager) getStateFilePath(surface string) string {
	return filepath.Join(sm.stateDir, surface+".json")
}

func (sm *Manager) loadStateFile(surface string) (*EngineState, error) {
	stateFile := sm.getStateFilePath(surface)

	data, err := os.ReadFile(stateFile)
	if err != nil {
		return nil, err
	}

	var st EngineState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	return &st, nil
}

func (sm *Manager) saveStateFile(st *EngineState) error {
	stateFile := sm.getStateFilePath(st.Surface)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write atomically
	tempFile := stateFile + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tempFile, stateFile); err != nil {
		os.Remove(tempFile) // Clean up
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}

func (sm *Manager) updateHeartbeats() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for _, st := range sm.states {
		st.Heartbeat = now
		if err := sm.saveStateFile(st); err != nil {
			sm.logger.Debug("Failed to update heartbeat",
				logger.WithField("surface", st.Surface),
				logger.WithField("error", err))
		}
	}
}
