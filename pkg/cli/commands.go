package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/panekit/panekit/pkg/breakpoint"
	"github.com/panekit/panekit/pkg/config"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/state"
	"github.com/panekit/panekit/pkg/types"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all workspace surfaces",
		Long:  `Display engine mode, classification, and adaptation history for every surface with recorded state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [width] [height]",
		Short: "Classify a viewport size",
		Long:  `Map a viewport size onto its breakpoint tier, device type, and orientation using the configured thresholds.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid width %q: %w", args[0], err)
			}
			height, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid height %q: %w", args[1], err)
			}
			return runClassify(width, height)
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove surface state files",
		Long:  `Remove all persisted surface state and layout files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  `Check the configuration file for syntax and semantic errors without starting the engine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("▦ PaneKit v%s\n", version)
		},
	}
}

func runStatus() error {
	log := logger.NewSimpleLogger("cli", verbosity)
	sm := state.NewManager(workRoot, 0, 0, log)

	states, err := sm.DiscoverStates()
	if err != nil {
		return fmt.Errorf("failed to discover surface states: %w", err)
	}

	if len(states) == 0 {
		printInfo("No surface state found. Run 'panekit watch' to start the engine.")
		return nil
	}

	surfaces := make([]string, 0, len(states))
	for name := range states {
		surfaces = append(surfaces, name)
	}
	sort.Strings(surfaces)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SURFACE\tMODE\tTIER\tPANES\tADAPTATIONS\tFALLBACKS\tLAST UPDATE")
	for _, name := range surfaces {
		st := states[name]

		tier := string(st.Classification.Tier)
		if tier == "" {
			tier = "-"
		}
		panes := "-"
		if st.Layout != nil {
			panes = strconv.Itoa(len(st.Layout.Panes))
		}
		updated := "-"
		if !st.UpdatedAt.IsZero() {
			updated = st.UpdatedAt.Format(time.RFC3339)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			name, st.Mode, tier, panes, st.AdaptationCount, st.FallbackCount, updated)
	}
	return w.Flush()
}

func runClassify(width, height float64) error {
	classifier := breakpoint.NewDefaultClassifier()

	if cfg, err := config.NewManager().LoadConfig(getConfigPath()); err == nil {
		classifier = breakpoint.NewClassifier(cfg.GetBreakpoints())
	}

	c := classifier.ClassifySize(types.ScreenSize{Width: width, Height: height})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Tier:\t%s\n", c.Tier)
	fmt.Fprintf(w, "Device:\t%s\n", c.DeviceType)
	fmt.Fprintf(w, "Orientation:\t%s\n", c.Orientation)
	return w.Flush()
}

func runClean() error {
	log := logger.NewSimpleLogger("cli", verbosity)
	sm := state.NewManager(workRoot, 0, 0, log)

	states, err := sm.DiscoverStates()
	if err != nil {
		return fmt.Errorf("failed to discover surface states: %w", err)
	}

	for name := range states {
		if err := sm.RemoveState(name); err != nil {
			printWarning(fmt.Sprintf("Failed to remove state for %s: %v", name, err))
			continue
		}
		printInfo(fmt.Sprintf("Removed state for surface: %s", name))
	}

	printSuccess(fmt.Sprintf("Cleaned %d surface(s)", len(states)))
	return nil
}

func runValidate() error {
	configPath := getConfigPath()

	cfg, err := config.NewManager().LoadConfig(configPath)
	if err != nil {
		printError(fmt.Sprintf("Configuration invalid: %v", err))
		return err
	}

	printSuccess(fmt.Sprintf("Configuration valid: %s", configPath))
	printInfo(fmt.Sprintf("Surface: %s", cfg.Surface))
	bp := cfg.GetBreakpoints()
	printInfo(fmt.Sprintf("Breakpoints: tablet %.0f, desktop %.0f, wide %.0f", bp.Tablet, bp.Desktop, bp.Wide))
	return nil
}
