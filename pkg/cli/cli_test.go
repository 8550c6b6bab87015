package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/panekit/panekit/internal/engine"
	"github.com/panekit/panekit/pkg/config"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/state"
	"github.com/panekit/panekit/pkg/types"
)

func withTempRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	prevRoot, prevCfg := workRoot, cfgFile
	workRoot, cfgFile = dir, ""
	t.Cleanup(func() {
		workRoot, cfgFile = prevRoot, prevCfg
	})
	return dir
}

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes([]string{"390x844", "2560x1440"})
	if err != nil {
		t.Fatalf("parseSizes failed: %v", err)
	}
	if len(sizes) != 2 {
		t.Fatalf("expected 2 sizes, got %d", len(sizes))
	}
	if sizes[0].Width != 390 || sizes[0].Height != 844 {
		t.Errorf("unexpected first size: %+v", sizes[0])
	}

	invalid := []string{"390", "x844", "390x", "wxh"}
	for _, arg := range invalid {
		if _, err := parseSizes([]string{arg}); err == nil {
			t.Errorf("expected error for %q", arg)
		}
	}
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.json")

	content := `[
		{"kind": "viewport-resize", "width": 390, "height": 844},
		{"kind": "preference-change", "prefs": {"largeText": true}}
	]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	script, err := loadScript(path)
	if err != nil {
		t.Fatalf("loadScript failed: %v", err)
	}
	if len(script) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(script))
	}
	if script[0].Kind != types.SignalViewportResize || script[0].Width != 390 {
		t.Errorf("unexpected first signal: %+v", script[0])
	}
	if script[1].Prefs == nil || !script[1].Prefs.LargeText {
		t.Errorf("expected large-text preference in second signal: %+v", script[1])
	}

	if _, err := loadScript(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing script")
	}
	empty := filepath.Join(dir, "empty.json")
	os.WriteFile(empty, []byte(`[]`), 0644)
	if _, err := loadScript(empty); err == nil {
		t.Error("expected error for empty script")
	}
}

func TestWatchDependenciesSatisfyEngine(t *testing.T) {
	dir := withTempRoot(t)
	cfg := config.GetDefaultConfig("editor")
	log := logger.NewSimpleLogger("watch-test", "error")

	factory := engine.NewDependencyFactory(dir, log, cfg)
	deps := watchDependencies(factory)

	if deps.Publisher == nil {
		t.Fatal("watch dependencies must carry a publisher")
	}

	// The engine constructor panics on a missing publisher; watch wiring
	// must construct cleanly.
	sm := state.NewManager(dir, cfg.GetRecordCap(), cfg.GetErrorLogCap(), log)
	p := engine.New(cfg, log, deps, sm)
	if p == nil {
		t.Fatal("expected engine instance")
	}
}

func TestBuildInitialLayout(t *testing.T) {
	cfg := config.GetDefaultConfig("editor")

	layout := buildInitialLayout(cfg, 3)
	if len(layout.Panes) != 3 {
		t.Fatalf("expected 3 panes, got %d", len(layout.Panes))
	}
	if layout.SplitType != types.SplitHorizontal {
		t.Errorf("expected horizontal split, got %s", layout.SplitType)
	}
	if layout.FocusedPane != "pane-1" {
		t.Errorf("expected first pane focused, got %q", layout.FocusedPane)
	}

	// Equal shares across the container
	total := 0.0
	for _, p := range layout.Panes {
		total += p.Size.Width
	}
	if total != layout.Container.Width {
		t.Errorf("pane widths sum to %v, expected %v", total, layout.Container.Width)
	}

	// Zero pane count still yields a usable layout
	single := buildInitialLayout(cfg, 0)
	if len(single.Panes) != 1 {
		t.Errorf("expected pane count floor of 1, got %d", len(single.Panes))
	}
}

func TestRunInitCreatesConfig(t *testing.T) {
	dir := withTempRoot(t)

	if err := runInit("editor", false); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	path := filepath.Join(dir, "panekit.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config at %s: %v", path, err)
	}

	cfg, err := config.NewManager().LoadConfig(path)
	if err != nil {
		t.Fatalf("generated config should load: %v", err)
	}
	if cfg.Surface != "editor" {
		t.Errorf("expected surface 'editor', got %q", cfg.Surface)
	}

	// Second init without force refuses to overwrite
	if err := runInit("other", false); err == nil {
		t.Error("expected error initializing over existing config")
	}
	if err := runInit("other", true); err != nil {
		t.Errorf("forced init failed: %v", err)
	}
}

func TestRunValidate(t *testing.T) {
	withTempRoot(t)

	if err := runValidate(); err == nil {
		t.Error("expected error validating missing config")
	}

	if err := runInit("main", false); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}
	if err := runValidate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestRunStatusEmpty(t *testing.T) {
	withTempRoot(t)

	if err := runStatus(); err != nil {
		t.Errorf("status on empty root should succeed: %v", err)
	}
}

func TestRunClassify(t *testing.T) {
	withTempRoot(t)

	if err := runClassify(390, 844); err != nil {
		t.Errorf("classify failed: %v", err)
	}
}

func TestCommandTree(t *testing.T) {
	initializeRootCommand()

	expected := []string{"watch", "simulate", "classify", "init", "status", "clean", "validate", "version"}
	for _, name := range expected {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
