package engine

import (
	"github.com/panekit/panekit/pkg/interfaces"
	"github.com/panekit/panekit/pkg/lifecycle"
	"github.com/panekit/panekit/pkg/logger"
	"github.com/panekit/panekit/pkg/notifier"
	"github.com/panekit/panekit/pkg/state"
	"github.com/panekit/panekit/pkg/types"
)

// DependencyFactory creates default implementations of dependencies.
// This follows the dependency injection pattern and removes hidden
// concrete fallbacks from constructors.
type DependencyFactory struct {
	root   string
	logger logger.Logger
	config *types.EngineConfig
}

// NewDependencyFactory creates a new dependency factory
func NewDependencyFactory(root string, log logger.Logger, config *types.EngineConfig) *DependencyFactory {
	return &DependencyFactory{
		root:   root,
		logger: log,
		config: config,
	}
}

// CreateDefaults creates all default dependencies for the engine.
// The Publisher, Advisory client, and device Prober have no sensible
// process-local defaults; the caller supplies them (or leaves the
// optional ones nil).
func (f *DependencyFactory) CreateDefaults() interfaces.EngineDependencies {
	deps := interfaces.EngineDependencies{
		Lifecycle: lifecycle.NewManager(f.logger),
		Store:     f.createStore(),
	}

	if f.config.Notifications == nil ||
		f.config.Notifications.Enabled == nil ||
		*f.config.Notifications.Enabled {
		deps.Notifier = f.createNotifier()
	}

	return deps
}

// CreateWithOverrides creates dependencies with specific overrides.
// This is useful for testing or custom configurations.
func (f *DependencyFactory) CreateWithOverrides(overrides interfaces.EngineDependencies) interfaces.EngineDependencies {
	deps := f.CreateDefaults()

	if overrides.Advisory != nil {
		deps.Advisory = overrides.Advisory
	}
	if overrides.Publisher != nil {
		deps.Publisher = overrides.Publisher
	}
	if overrides.Store != nil {
		deps.Store = overrides.Store
	}
	if overrides.Prober != nil {
		deps.Prober = overrides.Prober
	}
	if overrides.Notifier != nil {
		deps.Notifier = overrides.Notifier
	}
	if overrides.Lifecycle != nil {
		deps.Lifecycle = overrides.Lifecycle
	}

	return deps
}

func (f *DependencyFactory) createStore() interfaces.LayoutStore {
	store, err := state.NewFileStore(f.root)
	if err != nil {
		f.logger.Warn("Layout store unavailable, persistence disabled",
			logger.WithField("error", err))
		return nil
	}
	return store
}

func (f *DependencyFactory) createNotifier() interfaces.AdaptationNotifier {
	return notifier.New(notifier.Config{Enabled: true}, f.logger)
}
