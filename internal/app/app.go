// Package app wires configuration, credentials, transports and the
// per-API facades into the services the driving adapters use.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/gfacade/internal/adapters/driven/auth"
	"github.com/custodia-labs/gfacade/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gfacade/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gfacade/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
	"github.com/custodia-labs/gfacade/internal/core/services"
	"github.com/custodia-labs/gfacade/internal/logger"
)

// Options configure New.
type Options struct {
	// ConfigDir holds config.toml or config.yaml. Empty uses the default
	// directory of the file config store.
	ConfigDir string
	// DataDir holds the substitute database. Empty keeps substitute records
	// in memory for the life of the process.
	DataDir string
	// Config overrides the file config store, mainly for tests.
	Config driven.ConfigStore
	// Store overrides the substitute store, mainly for tests.
	Store driven.SubstituteStore
}

// App holds the wired services. Facades are created on first use and cached
// until the configuration changes.
type App struct {
	Config      driven.ConfigStore
	Credentials *services.CredentialsService
	Events      *services.EventBus
	Stats       *services.RequestStats
	Registry    *services.ResourceRegistry
	Facade      *services.FacadeService

	auth   *auth.Factory
	store  driven.SubstituteStore
	db     *sqlite.Store
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	facades map[domain.APIName]any
}

// New wires an App.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		fc, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		cfg = fc
	}

	// Token providers refresh with this context, so it lives as long as
	// the App rather than any one request.
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Config:      cfg,
		Credentials: services.NewCredentialsService(cfg),
		Events:      services.NewEventBus(),
		Stats:       &services.RequestStats{},
		Registry:    services.NewResourceRegistry(),
		auth:        auth.NewFactory(),
		store:       opts.Store,
		ctx:         ctx,
		cancel:      cancel,
		facades:     make(map[domain.APIName]any),
	}
	a.Events.Subscribe(a.Stats.Observe)

	if a.store == nil {
		if opts.DataDir != "" {
			db, err := sqlite.NewStore(opts.DataDir)
			if err != nil {
				cancel()
				return nil, fmt.Errorf("open substitute store: %w", err)
			}
			a.db = db
			a.store = db.SubstituteStore()
		} else {
			a.store = memory.NewSubstituteStore()
		}
	}

	a.registerResources()
	a.Facade = services.NewFacadeService(a.Registry)
	return a, nil
}

// Close releases the substitute database and stops token refreshes.
func (a *App) Close() error {
	a.cancel()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Watch reloads the configuration when its file changes and drops the
// cached facades so the next call picks up new settings. It blocks until
// ctx is done. Stores that cannot watch return immediately.
func (a *App) Watch(ctx context.Context) error {
	w, ok := a.Config.(driven.ConfigWatcher)
	if !ok {
		return nil
	}
	return w.Watch(ctx, a.Reset)
}

// Reset drops every cached facade.
func (a *App) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.facades)
	logger.Debug("facade cache cleared")
}

// Deps resolves the settings of an API and builds what its facade needs:
// the authorized HTTP client, or the substitute store when the API is
// served locally. The client is bound to the App's context, since facades
// outlive the request that first builds them.
func (a *App) Deps(api domain.APIName) (google.Deps, error) {
	settings, err := a.Credentials.ResolveFor(api, string(api))
	if err != nil {
		return google.Deps{}, err
	}
	deps := google.Deps{Settings: settings, Store: a.store}
	if settings.UseSubstitute() {
		logger.Debug("%s served from substitute store", api)
		deps.Local = true
		return deps, nil
	}

	provider, err := a.auth.CreateTokenProvider(a.ctx, settings)
	if err != nil {
		return google.Deps{}, fmt.Errorf("%s credentials: %w", api, err)
	}
	if provider.Kind() == domain.CredentialNone && api != domain.APIAgent {
		logger.Warn("%s: no credentials configured, requests are unauthenticated", api)
	}
	deps.HTTPClient = google.NewHTTPClient(a.ctx, settings, provider, a.Events, google.NewRateLimiterForSettings(settings))
	return deps, nil
}

// facade returns the cached facade for api, building it on first use.
// Failed builds are not cached. ctx only gates the lookup; the facade is
// built with the App's context.
func facade[F any](ctx context.Context, a *App, api domain.APIName, build func(context.Context, google.Deps) (F, error)) (F, error) {
	var zero F
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if f, ok := a.facades[api]; ok {
		typed, ok := f.(F)
		if !ok {
			return zero, errors.New("facade cache type mismatch for " + string(api))
		}
		return typed, nil
	}

	deps, err := a.Deps(api)
	if err != nil {
		return zero, err
	}
	f, err := build(a.ctx, deps)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", api, err)
	}
	a.facades[api] = f
	return f, nil
}
