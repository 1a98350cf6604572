package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/ipforge/internal/buildfs"
	"github.com/specialistvlad/ipforge/internal/config"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/inmemorystore"
	"github.com/specialistvlad/ipforge/internal/notify"
	"github.com/specialistvlad/ipforge/internal/registry"
	"github.com/specialistvlad/ipforge/internal/render"
	"github.com/specialistvlad/ipforge/internal/setup"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger    *slog.Logger
	config    *Config
	loader    config.Loader
	modules   []registry.Module
	registry  *registry.Registry
	publisher notify.Publisher

	httpServer *http.Server
	// health is the outcome of the latest build in watch mode.
	healthMu sync.Mutex
	health   error
}

// NewApp is the constructor for the main application. It loads every
// manifest under the configured library paths into a fresh registry,
// together with the built-in modules, and validates the result. When no
// modules are given the core modules are used.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	a := &App{
		logger:    logger,
		config:    cfg,
		loader:    loader,
		modules:   modules,
		publisher: notify.Nop{},
	}

	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	a.registry = reg

	if cfg.NotifyURL != "" {
		pub, err := notify.DialSocketIO(ctx, cfg.NotifyURL, notify.SocketIOOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to notification server: %w", err)
		}
		logger.Info("Publishing build events.", "url", cfg.NotifyURL, "run_id", pub.RunID())
		a.publisher = pub
	}

	return a, nil
}

// newEngine returns a setup engine with a fresh memo table.
func (a *App) newEngine(reg *registry.Registry) *setup.Engine {
	return setup.New(reg, inmemorystore.New(), render.New(), a.publisher, setup.Options{
		BuildDir: a.config.BuildDir,
		Copy: buildfs.Options{
			LibDir:  a.config.LibDir,
			Exclude: a.config.Exclude,
		},
	})
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Descriptors returns every registered descriptor, sorted by name.
func (a *App) Descriptors() []*descriptor.Descriptor {
	names := a.registry.Names()
	out := make([]*descriptor.Descriptor, 0, len(names))
	for _, name := range names {
		d, _ := a.registry.Descriptor(name)
		out = append(out, d)
	}
	return out
}

// Close releases the notification connection.
func (a *App) Close() error {
	return a.publisher.Close()
}
