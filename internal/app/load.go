package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/registry"
)

// loadRegistry builds a registry from the Go modules and the manifests.
func (a *App) loadRegistry(ctx context.Context) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)

	model, err := a.loader.Load(ctx, a.config.LibraryPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifests: %w", err)
	}
	logger.Debug("Manifests loaded.", "files", len(model.Files), "descriptors", len(model.Descriptors))

	reg := registry.New()
	for _, mod := range a.modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(a.modules))

	if err := reg.PopulateFromModel(model); err != nil {
		return nil, err
	}
	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.", "descriptors", len(reg.Names()))
	return reg, nil
}
