package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/ipforge/internal/buildfs"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
	"github.com/specialistvlad/ipforge/internal/setup"
	"github.com/specialistvlad/ipforge/internal/systemgen"
	"github.com/specialistvlad/ipforge/internal/watch"
)

// Setup builds the named top descriptor and its dependencies and returns
// the build directory.
func (a *App) Setup(ctx context.Context, top string) (string, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	e, err := a.setup(ctx, a.registry, top)
	if err != nil {
		return "", err
	}
	return e.BuildDir(), nil
}

func (a *App) setup(ctx context.Context, reg *registry.Registry, top string) (*setup.Engine, error) {
	a.logger.Info("🚀 Starting build.", "top", top)
	e := a.newEngine(reg)
	if err := e.SetupTop(ctx, top); err != nil {
		return e, fmt.Errorf("build of %s failed: %w", top, err)
	}
	a.logger.Info("🏁 Build finished.", "top", top, "build_dir", e.BuildDir())
	return e, nil
}

// System builds the named top descriptor, then instantiates its system
// template with the peripherals listed in peripheralsPath and writes the
// result to outPath. An empty outPath selects the top's source file in the
// build directory. It returns the written path.
func (a *App) System(ctx context.Context, top, peripheralsPath, outPath string) (string, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	instances, err := systemgen.LoadPeripherals(peripheralsPath)
	if err != nil {
		return "", err
	}

	e, err := a.setup(ctx, a.registry, top)
	if err != nil {
		return "", err
	}
	if outPath == "" {
		outPath = filepath.Join(e.BuildDir(), descriptor.DirHardwareSrc, top+systemgen.GeneratedExt)
	}

	written, err := e.GenerateSystem(ctx, top, instances, outPath)
	if err != nil {
		return "", err
	}
	if !written {
		return "", descriptor.Errorf(top, "no system template %s%s in its setup directory", top, systemgen.TemplateExt)
	}
	a.logger.Info("System generated.", "top", top, "path", outPath, "instances", len(instances))
	return outPath, nil
}

// Watch builds the named top descriptor, then rebuilds it from scratch
// whenever a manifest or a source file changes, until ctx is cancelled. A
// failed build is reported and waits for the next change.
func (a *App) Watch(ctx context.Context, top string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer a.closeHealthCheckServer(ctx)
	}

	buildDir := ""
	build := func(ctx context.Context, reg *registry.Registry) error {
		if err := removeBuildDir(buildDir); err != nil {
			return err
		}
		e, err := a.setup(ctx, reg, top)
		if dir := e.BuildDir(); dir != "" {
			buildDir = dir
		}
		a.setHealth(err)
		return err
	}

	if err := build(ctx, a.registry); err != nil {
		a.logger.Error("Initial build failed.", "error", err)
	}

	w := watch.New(a.watchPaths(), []string{buildDir, a.config.BuildDir}, watch.DefaultDebounce, func(ctx context.Context) error {
		reg, err := a.loadRegistry(ctx)
		if err != nil {
			a.setHealth(err)
			return err
		}
		a.registry = reg
		return build(ctx, reg)
	})
	return w.Run(ctx)
}

// watchPaths returns the library paths and the setup directory of every
// registered descriptor.
func (a *App) watchPaths() []string {
	paths := append([]string{}, a.config.LibraryPaths...)
	if a.config.ConfigPath != "" {
		paths = append(paths, filepath.Dir(a.config.ConfigPath))
	}
	for _, d := range a.Descriptors() {
		if d.SetupDir != "" {
			paths = append(paths, d.SetupDir)
		}
	}
	return paths
}

// removeBuildDir deletes a build directory created by a previous build. A
// directory without the generated build configuration is left alone.
func removeBuildDir(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Join(dir, buildfs.ConfigFileName)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove build directory %s: %w", dir, err)
	}
	return nil
}
