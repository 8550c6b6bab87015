package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/panekit/panekit/internal/engine"
	"github.com/panekit/panekit/pkg/config"
	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/state"
	"github.com/panekit/panekit/pkg/types"
)

func newSimulateCmd() *cobra.Command {
	var paneCount int
	var asJSON bool
	var scriptFile string

	cmd := &cobra.Command{
		Use:   "simulate [WxH ...]",
		Short: "Run the engine through a sequence of simulated signals",
		Long: `Run one adaptation pass per signal and print the resulting
classification and layout. Signals are viewport sizes given as
WIDTHxHEIGHT, or a full scripted sequence from a JSON file:

  panekit simulate 390x844 1024x768 2560x1440
  panekit simulate --script rotation.json

A script file holds an array of signals, for example:

  [{"kind": "viewport-resize", "width": 390, "height": 844},
   {"kind": "preference-change", "prefs": {"largeText": true}}]`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptFile == "" && len(args) == 0 {
				return fmt.Errorf("provide viewport sizes or --script")
			}

			var script []types.Signal
			if scriptFile != "" {
				loaded, err := loadScript(scriptFile)
				if err != nil {
					return err
				}
				script = loaded
			}
			sizes, err := parseSizes(args)
			if err != nil {
				return err
			}
			for _, size := range sizes {
				script = append(script, types.Signal{
					Kind:   types.SignalViewportResize,
					Width:  size.Width,
					Height: size.Height,
				})
			}
			return runSimulate(script, paneCount, asJSON)
		},
	}

	cmd.Flags().IntVar(&paneCount, "panes", 3, "number of panes in the simulated layout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print resulting layouts as JSON")
	cmd.Flags().StringVar(&scriptFile, "script", "", "JSON file with a scripted signal sequence")

	return cmd
}

func loadScript(path string) ([]types.Signal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var script []types.Signal
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", path, err)
	}
	if len(script) == 0 {
		return nil, fmt.Errorf("script %s holds no signals", path)
	}
	return script, nil
}

func parseSizes(args []string) ([]types.Dimensions, error) {
	sizes := make([]types.Dimensions, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "x", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid size %q, expected WIDTHxHEIGHT", arg)
		}
		width, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid width in %q: %w", arg, err)
		}
		height, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid height in %q: %w", arg, err)
		}
		sizes = append(sizes, types.Dimensions{Width: width, Height: height})
	}
	return sizes, nil
}

func runSimulate(script []types.Signal, paneCount int, asJSON bool) error {
	cfg, err := config.NewManager().LoadConfig(getConfigPath())
	if err != nil {
		cfg = config.GetDefaultConfig("")
	}

	log := logger.NewSimpleLogger("simulate", "error")
	sm := state.NewManager(os.TempDir(), 0, 0, log)

	deps := interfaces.EngineDependencies{Publisher: &silentPublisher{}}
	p := engine.New(cfg, log, deps, sm)
	defer p.Stop()

	if err := p.Start(buildInitialLayout(cfg, paneCount)); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}

	for i, signal := range script {
		if signal.ID == "" {
			signal.ID = fmt.Sprintf("sim-%d", i+1)
		}
		if signal.Timestamp.IsZero() {
			signal.Timestamp = time.Now()
		}
		p.HandleSignal(signal)

		c := p.Classification()
		layout := p.CurrentLayout()

		label := string(signal.Kind)
		if signal.Width > 0 && signal.Height > 0 {
			label = fmt.Sprintf("%.0fx%.0f", signal.Width, signal.Height)
		}
		printInfo(fmt.Sprintf("%s -> %s (%s, %s), %d panes",
			label, c.Tier, c.DeviceType, c.Orientation, len(layout.Panes)))

		if asJSON {
			data, err := json.MarshalIndent(layout, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal layout: %w", err)
			}
			fmt.Println(string(data))
		} else {
			for _, pane := range layout.Panes {
				visibility := ""
				if !pane.State.Visible {
					visibility = " (hidden)"
				}
				fmt.Printf("    %s: pos(%.0f,%.0f) size %.0fx%.0f%s\n",
					pane.ID, pane.Position.X, pane.Position.Y,
					pane.Size.Width, pane.Size.Height, visibility)
			}
		}
	}

	return nil
}

// silentPublisher discards engine output; simulate reads the layout
// back through the engine accessors instead.
type silentPublisher struct{}

func (silentPublisher) OnLayoutAdapted(types.SplitLayout, types.Classification) {}
func (silentPublisher) OnPaneLayoutChanged(types.SplitLayout)                   {}
func (silentPublisher) OnAdaptationError(error)                                 {}
