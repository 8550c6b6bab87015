package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/panekit/panekit/internal/engine"
	"github.com/panekit/panekit/pkg/config"
	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/signals"
	"github.com/panekit/panekit/pkg/state"
	"github.com/panekit/panekit/pkg/types"
)

func newWatchCmd() *cobra.Command {
	var paneCount int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Start the layout engine for a surface",
		Long: `Start PaneKit in watch mode. The engine adapts the surface layout to
the probed device, reacts to configuration changes, and keeps running
until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(paneCount)
		},
	}

	cmd.Flags().IntVar(&paneCount, "panes", 2, "number of panes in the initial layout")

	return cmd
}

func runWatch(paneCount int) error {
	// Root context for the entire engine lifetime
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := getConfigPath()
	cfg, err := config.NewManager().LoadConfig(configPath)
	if err != nil {
		printWarning(fmt.Sprintf("No usable config at %s, using defaults (%v)", configPath, err))
		cfg = config.GetDefaultConfig("")
	}

	log := logger.CreateLogger("", verbosity)

	// Build dependencies through the factory and wire the engine
	factory := engine.NewDependencyFactory(workRoot, log, cfg)
	deps := watchDependencies(factory)

	sm := state.NewManager(workRoot, cfg.GetRecordCap(), cfg.GetErrorLogCap(), log)
	p := engine.New(cfg, log, deps, sm)

	printInfo(fmt.Sprintf("Starting PaneKit v%s", version))
	printInfo(fmt.Sprintf("Surface: %s", surfaceName(cfg)))

	initial := buildInitialLayout(cfg, paneCount)
	if err := p.StartWithContext(ctx, initial); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	// Debounced signal intake in front of the engine
	scheduler := signals.NewScheduler(cfg, p, log)
	defer scheduler.Stop()

	// Hot-reload: config edits revalidate and re-signal the engine
	reloader := config.NewReloadManager(configPath, log)
	reloader.AddCallback(func(next *types.EngineConfig, reloadErr error) {
		if reloadErr != nil {
			printWarning(fmt.Sprintf("Config reload failed: %v", reloadErr))
			return
		}
		printInfo("Configuration changed, re-evaluating layout")
		p.UpdateConfig(next)
		scheduler.Submit(types.Signal{Kind: types.SignalHostContext})
	})
	if err := reloader.StartWatching(); err != nil {
		printWarning(fmt.Sprintf("Config watching unavailable: %v", err))
	} else {
		defer reloader.StopWatching()
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigChan
	printInfo(fmt.Sprintf("Received signal: %s", sig))

	cancel()
	printInfo("Shutting down gracefully...")
	p.Stop()

	printSuccess("PaneKit stopped gracefully")
	return nil
}

// watchDependencies wires the factory defaults with the console
// publisher. The engine requires a publisher, so watch supplies one
// explicitly rather than relying on a factory default.
func watchDependencies(factory *engine.DependencyFactory) interfaces.EngineDependencies {
	return factory.CreateWithOverrides(interfaces.EngineDependencies{
		Publisher: consolePublisher{},
	})
}

// consolePublisher renders engine commits to the terminal, standing in
// for a host rendering layer during watch mode.
type consolePublisher struct{}

func (consolePublisher) OnLayoutAdapted(layout types.SplitLayout, c types.Classification) {
	printInfo(fmt.Sprintf("Adapted to %s (%s, %s): %d panes in %s split",
		c.Tier, c.DeviceType, c.Orientation, len(layout.Panes), layout.SplitType))
	for _, pane := range layout.Panes {
		fmt.Printf("    %s: pos(%.0f,%.0f) size %.0fx%.0f\n",
			pane.ID, pane.Position.X, pane.Position.Y,
			pane.Size.Width, pane.Size.Height)
	}
}

func (consolePublisher) OnPaneLayoutChanged(layout types.SplitLayout) {
	printInfo(fmt.Sprintf("Pane layout changed: %d panes", len(layout.Panes)))
}

func (consolePublisher) OnAdaptationError(err error) {
	printWarning(fmt.Sprintf("Adaptation error: %v", err))
}

func surfaceName(cfg *types.EngineConfig) string {
	if cfg.Surface != "" {
		return cfg.Surface
	}
	return "main"
}

// buildInitialLayout produces an equal-share horizontal layout sized to
// the profiler defaults; the first adaptation reshapes it immediately.
func buildInitialLayout(cfg *types.EngineConfig, paneCount int) types.SplitLayout {
	if paneCount < 1 {
		paneCount = 1
	}

	container := types.Dimensions{Width: 1280, Height: 800}
	splitType := types.SplitHorizontal
	if cfg.SplitType != "" {
		if st, err := types.ParseSplitType(string(cfg.SplitType)); err == nil {
			splitType = st
		}
	}

	layout := types.SplitLayout{
		ID:          "surface-" + surfaceName(cfg),
		SplitType:   splitType,
		Container:   container,
		Constraints: cfg.GetLayoutConstraints(),
	}

	share := container.Width / float64(paneCount)
	for i := 0; i < paneCount; i++ {
		layout.Panes = append(layout.Panes, types.Pane{
			ID:       fmt.Sprintf("pane-%d", i+1),
			Position: types.Position{X: share * float64(i)},
			Size: types.Size{
				Width:     share,
				Height:    container.Height,
				MinWidth:  cfg.GetLayoutConstraints().MinPaneSize.Width,
				MinHeight: cfg.GetLayoutConstraints().MinPaneSize.Height,
			},
			State: types.PaneState{Visible: true},
		})
	}
	if paneCount > 0 {
		layout.FocusedPane = "pane-1"
	}
	return layout
}
