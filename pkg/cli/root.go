// Package cli provides the command-line interface for PaneKit
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	workRoot  string
	verbosity string
	version   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "panekit",
	Short: "Adaptive pane layout engine for split-screen workspaces",
	Long: `▦ PaneKit - Adaptive pane and breakpoint layout engine

PaneKit watches your workspace surface and adapts its pane layout to the
device it is running on: breakpoint tiers, structural overlays, collision
resolved pane geometry, and graceful fallback when an adaptation fails.`,

	Run: func(cmd *cobra.Command, args []string) {
		// Check if version flag is set
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("▦ PaneKit v%s\n", version)
			return
		}
		// If no subcommand, show help
		cmd.Help()
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v

	// Initialize the root command explicitly (avoiding init())
	initializeRootCommand()

	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
// This replaces the init() function to make initialization explicit and testable.
func initializeRootCommand() {
	// Set up config initialization
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: panekit.json)")
	rootCmd.PersistentFlags().StringVar(&workRoot, "root", ".", "workspace root directory")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")

	// Add version flag
	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	// Add subcommands
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in workspace root
		viper.AddConfigPath(workRoot)
		viper.SetConfigName("panekit")
		viper.SetConfigType("json")

		// Also try YAML
		viper.SetConfigName("panekit")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables
	viper.SetEnvPrefix("PANEKIT")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		if verbosity == "debug" {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Helper functions

func printSuccess(message string) {
	glyph := "▦"
	fmt.Printf("%s %s %s\n", glyph, color.GreenString("[PaneKit]"), message)
}

func printError(message string) {
	glyph := "▦"
	fmt.Fprintf(os.Stderr, "%s %s %s\n", glyph, color.RedString("[PaneKit]"), message)
}

func printInfo(message string) {
	glyph := "▦"
	fmt.Printf("%s %s %s\n", glyph, color.CyanString("[PaneKit]"), message)
}

func printWarning(message string) {
	glyph := "▦"
	fmt.Printf("%s %s %s\n", glyph, color.YellowString("[PaneKit]"), message)
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(workRoot, "panekit.json")
}
