package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panekit/panekit/pkg/config"
)

func newInitCmd() *cobra.Command {
	var surface string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new PaneKit configuration",
		Long: `Create a PaneKit configuration file in the workspace root with the
default breakpoints, debounce windows, and layout constraints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(surface, force)
		},
	}

	cmd.Flags().StringVarP(&surface, "surface", "s", "main", "workspace surface name")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing configuration")

	return cmd
}

func runInit(surface string, force bool) error {
	configPath := getConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration already exists. Use --force to overwrite")
	}

	cfg := config.GetDefaultConfig(surface)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printSuccess(fmt.Sprintf("Created configuration at %s", configPath))
	printInfo("Edit the configuration to customize breakpoints and layout constraints")

	return nil
}
