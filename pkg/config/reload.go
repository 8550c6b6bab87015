package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/types"
)

// ReloadCallback is called when configuration changes are detected
type ReloadCallback func(config *types.EngineConfig, err error)

// ReloadEventType represents the type of configuration change
type ReloadEventType string

const (
	// ReloadEventModified indicates the config file was modified
	ReloadEventModified ReloadEventType = "modified"
	// ReloadEventCreated indicates the config file was created
	ReloadEventCreated ReloadEventType = "created"
	// ReloadEventRemoved indicates the config file was removed
	ReloadEventRemoved ReloadEventType = "removed"
	// ReloadEventError indicates an error occurred during reload
	ReloadEventError ReloadEventType = "error"
)

// ReloadEvent contains information about a configuration reload
type ReloadEvent struct {
	Type      ReloadEventType
	Config    *types.EngineConfig
	Error     error
	Timestamp time.Time
}

// ReloadManager watches a config file and reloads it on change
type ReloadManager struct {
	configPath     string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	logger         logger.Logger
	mu             sync.RWMutex
	watching       bool
	stopCh         chan struct{}
	debouncePeriod time.Duration
	debounceTimer  *time.Timer
	lastModTime    time.Time
	lastReload     time.Time
}

// NewReloadManager creates a manager that watches the given config file
func NewReloadManager(configPath string, log logger.Logger) *ReloadManager {
	if log == nil {
		log = logger.NewSimpleLogger("config", "info")
	}
	return &ReloadManager{
		configPath:     configPath,
		logger:         log,
		stopCh:         make(chan struct{}),
		debouncePeriod: 500 * time.Millisecond,
	}
}

// AddCallback registers a callback for configuration changes
func (rm *ReloadManager) AddCallback(callback ReloadCallback) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.callbacks = append(rm.callbacks, callback)
}

// StartWatching begins watching the configuration file for changes
func (rm *ReloadManager) StartWatching() error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.watching {
		return fmt.Errorf("already watching config file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so we survive editors that replace the file
	configDir := filepath.Dir(rm.configPath)
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}

	rm.watcher = watcher
	rm.watching = true
	rm.stopCh = make(chan struct{})

	if info, err := os.Stat(rm.configPath); err == nil {
		rm.lastModTime = info.ModTime()
	}

	go rm.watchLoop()

	rm.logger.Info("Watching config file for changes", logger.WithField("path", rm.configPath))
	return nil
}

// StopWatching stops watching the configuration file
func (rm *ReloadManager) StopWatching() error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if !rm.watching {
		return nil
	}

	close(rm.stopCh)

	if rm.debounceTimer != nil {
		rm.debounceTimer.Stop()
		rm.debounceTimer = nil
	}

	if rm.watcher != nil {
		rm.watcher.Close()
		rm.watcher = nil
	}

	rm.watching = false
	rm.logger.Info("Stopped watching config file")
	return nil
}

// IsWatching reports whether the manager is currently watching
func (rm *ReloadManager) IsWatching() bool {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.watching
}

// TriggerReload forces an immediate reload of the configuration
func (rm *ReloadManager) TriggerReload() {
	rm.handleConfigChange(ReloadEventModified)
}

func (rm *ReloadManager) watchLoop() {
	defer func() {
		if r := recover(); r != nil {
			rm.logger.Error("Config watcher panic", logger.WithField("panic", r))
		}
	}()

	for {
		select {
		case <-rm.stopCh:
			return

		case event, ok := <-rm.watcher.Events:
			if !ok {
				return
			}
			if !rm.isConfigFileEvent(event) {
				continue
			}
			rm.logger.Debug("Config file event", logger.WithField("op", event.Op.String()), logger.WithField("file", event.Name))
			rm.debounceReload(rm.mapFsnotifyEvent(event))

		case err, ok := <-rm.watcher.Errors:
			if !ok {
				return
			}
			rm.logger.Error("Config watcher error", logger.WithField("error", err))
		}
	}
}

// isConfigFileEvent filters directory events down to ones that affect
// our config file. Editors often write to a temp file and rename.
func (rm *ReloadManager) isConfigFileEvent(event fsnotify.Event) bool {
	eventBase := filepath.Base(event.Name)
	configBase := filepath.Base(rm.configPath)

	if eventBase == configBase {
		return true
	}

	// Temp files some editors use while saving
	if strings.HasPrefix(eventBase, configBase) &&
		(strings.HasSuffix(eventBase, ".tmp") || strings.HasSuffix(eventBase, "~")) {
		return true
	}

	return false
}

func (rm *ReloadManager) mapFsnotifyEvent(event fsnotify.Event) ReloadEventType {
	switch {
	case event.Op&fsnotify.Create != 0:
		return ReloadEventCreated
	case event.Op&fsnotify.Remove != 0:
		return ReloadEventRemoved
	default:
		return ReloadEventModified
	}
}

func (rm *ReloadManager) debounceReload(eventType ReloadEventType) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.debounceTimer != nil {
		rm.debounceTimer.Stop()
	}

	rm.debounceTimer = time.AfterFunc(rm.debouncePeriod, func() {
		rm.handleConfigChange(eventType)
	})
}

func (rm *ReloadManager) handleConfigChange(eventType ReloadEventType) {
	rm.mu.Lock()

	if eventType == ReloadEventRemoved {
		rm.mu.Unlock()
		rm.logger.Warn("Config file removed", logger.WithField("path", rm.configPath))
		rm.notifyCallbacks(nil, fmt.Errorf("config file removed"))
		return
	}

	// Skip spurious events that didn't actually change the file
	if info, err := os.Stat(rm.configPath); err == nil {
		if !info.ModTime().After(rm.lastModTime) {
			rm.mu.Unlock()
			return
		}
		rm.lastModTime = info.ModTime()
	}
	rm.lastReload = time.Now()
	rm.mu.Unlock()

	config, err := NewManager().LoadConfig(rm.configPath)
	if err != nil {
		rm.logger.Error("Failed to reload config", logger.WithField("error", err))
	} else {
		rm.logger.Success("Config reloaded", logger.WithField("path", rm.configPath))
	}

	rm.notifyCallbacks(config, err)
}

func (rm *ReloadManager) notifyCallbacks(config *types.EngineConfig, err error) {
	rm.mu.RLock()
	callbacks := make([]ReloadCallback, len(rm.callbacks))
	copy(callbacks, rm.callbacks)
	rm.mu.RUnlock()

	for _, callback := range callbacks {
		go func(cb ReloadCallback) {
			defer func() {
				if r := recover(); r != nil {
					rm.logger.Error("Reload callback panic", logger.WithField("panic", r))
				}
			}()
			cb(config, err)
		}(callback)
	}
}

// SetDebouncePeriod adjusts the reload debounce window
func (rm *ReloadManager) SetDebouncePeriod(period time.Duration) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.debouncePeriod = period
}

// GetLastReloadTime returns when the config was last reloaded
func (rm *ReloadManager) GetLastReloadTime() time.Time {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.lastReload
}

// GetConfigPath returns the watched config file path
func (rm *ReloadManager) GetConfigPath() string {
	return rm.configPath
}
