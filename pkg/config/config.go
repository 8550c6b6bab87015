package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/panekit/panekit/pkg/types"
)

// Manager handles configuration loading and validation
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads configuration from a file (JSON or YAML)
func (m *Manager) LoadConfig(path string) (*types.EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config types.EngineConfig

	// Try JSON first
	if err := json.Unmarshal(data, &config); err != nil {
		// Try YAML - need special handling for pointer-optional sections
		var yamlData map[string]interface{}
		if yamlErr := yaml.Unmarshal(data, &yamlData); yamlErr != nil {
			return nil, fmt.Errorf("failed to parse config as JSON or YAML: JSON error: %v, YAML error: %v", err, yamlErr)
		}

		// Convert YAML to JSON for consistent parsing
		jsonData, convErr := json.Marshal(yamlData)
		if convErr != nil {
			return nil, fmt.Errorf("failed to convert YAML to JSON: %w", convErr)
		}

		if jsonErr := json.Unmarshal(jsonData, &config); jsonErr != nil {
			return nil, fmt.Errorf("failed to parse converted YAML: %w", jsonErr)
		}
	}

	// Validate the configuration
	if err := m.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ValidateConfig validates a configuration without loading it
func (m *Manager) ValidateConfig(config *types.EngineConfig) error {
	return m.validateConfig(config)
}

func (m *Manager) validateConfig(config *types.EngineConfig) error {
	if config.Version == "" {
		return fmt.Errorf("version is required")
	}

	if config.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s", config.Version)
	}

	if config.SplitType != "" {
		if _, err := types.ParseSplitType(string(config.SplitType)); err != nil {
			return fmt.Errorf("invalid split type: %w", err)
		}
	}

	if err := m.validateBreakpoints(config); err != nil {
		return err
	}

	if err := m.validateDebounce(config); err != nil {
		return err
	}

	if err := m.validateLayout(config); err != nil {
		return err
	}

	if err := m.validateGrid(config); err != nil {
		return err
	}

	if config.Advisory != nil && config.Advisory.TimeoutMs != nil && *config.Advisory.TimeoutMs <= 0 {
		return fmt.Errorf("advisory timeout must be positive")
	}

	if config.Monitor != nil {
		if config.Monitor.IntervalMs != nil && *config.Monitor.IntervalMs <= 0 {
			return fmt.Errorf("monitor interval must be positive")
		}
		if config.Monitor.MinFrameRate != nil && *config.Monitor.MinFrameRate <= 0 {
			return fmt.Errorf("minimum frame rate must be positive")
		}
	}

	return nil
}

func (m *Manager) validateBreakpoints(config *types.EngineConfig) error {
	if config.Breakpoints == nil {
		return nil
	}

	bp := config.GetBreakpoints()
	if bp.Tablet <= 0 {
		return fmt.Errorf("tablet breakpoint must be positive")
	}
	if bp.Desktop <= bp.Tablet {
		return fmt.Errorf("desktop breakpoint (%v) must exceed tablet breakpoint (%v)", bp.Desktop, bp.Tablet)
	}
	if bp.Wide <= bp.Desktop {
		return fmt.Errorf("wide breakpoint (%v) must exceed desktop breakpoint (%v)", bp.Wide, bp.Desktop)
	}

	return nil
}

func (m *Manager) validateDebounce(config *types.EngineConfig) error {
	if config.Debounce == nil {
		return nil
	}

	d := config.Debounce
	if d.ViewportMs != nil && *d.ViewportMs < 0 {
		return fmt.Errorf("viewport debounce must not be negative")
	}
	if d.ContainerMs != nil && *d.ContainerMs < 0 {
		return fmt.Errorf("container debounce must not be negative")
	}
	if d.ThresholdPx != nil && *d.ThresholdPx < 0 {
		return fmt.Errorf("resize threshold must not be negative")
	}

	return nil
}

func (m *Manager) validateLayout(config *types.EngineConfig) error {
	if config.Layout == nil {
		return nil
	}

	lc := config.GetLayoutConstraints()
	if lc.MinPanes < 0 {
		return fmt.Errorf("minimum pane count must not be negative")
	}
	if lc.MaxPanes > 0 && lc.MinPanes > lc.MaxPanes {
		return fmt.Errorf("minimum pane count (%d) exceeds maximum (%d)", lc.MinPanes, lc.MaxPanes)
	}
	if lc.MinPaneSize.Width < 0 || lc.MinPaneSize.Height < 0 {
		return fmt.Errorf("minimum pane size must not be negative")
	}

	return nil
}

func (m *Manager) validateGrid(config *types.EngineConfig) error {
	if config.Grid == nil {
		return nil
	}

	if config.Grid.Size != nil && *config.Grid.Size <= 0 {
		return fmt.Errorf("grid size must be positive")
	}
	if config.Grid.SearchRadius != nil && *config.Grid.SearchRadius <= 0 {
		return fmt.Errorf("search radius must be positive")
	}

	return nil
}

// GetDefaultConfig returns a default configuration for a surface
func GetDefaultConfig(surface string) *types.EngineConfig {
	if surface == "" {
		surface = "main"
	}

	return &types.EngineConfig{
		Version:   "1.0",
		Surface:   surface,
		SplitType: types.SplitHorizontal,
	}
}

// FindConfigFile searches for a config file in the given directory
func FindConfigFile(dir string) (string, error) {
	candidates := []string{
		"panekit.json",
		"panekit.yaml",
		"panekit.yml",
	}

	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found in %s (looked for %s)", dir, strings.Join(candidates, ", "))
}
