package setup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/ipforge/internal/buildfs"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/ifgen"
	"github.com/specialistvlad/ipforge/internal/notify"
	"github.com/specialistvlad/ipforge/internal/purposestore"
	"github.com/specialistvlad/ipforge/internal/registry"
	"github.com/specialistvlad/ipforge/internal/render"
)

// CtlsDescriptor is the bus-control descriptor every register-bearing
// descriptor depends on.
const CtlsDescriptor = "iob_ctls"

// Options configures an Engine.
type Options struct {
	// BuildDir overrides the build directory of the top descriptor.
	BuildDir string
	// WorkDir is the base of the default build directory. Defaults to ".".
	WorkDir string
	// Copy is passed to source aggregation.
	Copy buildfs.Options
}

// Engine sets up descriptors. It is not safe for concurrent use.
type Engine struct {
	registry  *registry.Registry
	store     purposestore.Store
	renderer  render.Renderer
	publisher notify.Publisher
	opts      Options

	states   map[string]*descriptor.State
	buildDir string
	top      string
}

// New creates an Engine. A nil renderer or publisher selects the stock
// renderer and a no-op publisher.
func New(reg *registry.Registry, store purposestore.Store, rnd render.Renderer, pub notify.Publisher, opts Options) *Engine {
	if rnd == nil {
		rnd = render.New()
	}
	if pub == nil {
		pub = notify.Nop{}
	}
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	return &Engine{
		registry:  reg,
		store:     store,
		renderer:  rnd,
		publisher: pub,
		opts:      opts,
		states:    make(map[string]*descriptor.State),
	}
}

// BuildDir returns the shared build directory, or "" before the top
// descriptor has been set up.
func (e *Engine) BuildDir() string { return e.buildDir }

// State returns the build state of the named descriptor, if it exists.
func (e *Engine) State(name string) (*descriptor.State, bool) {
	st, ok := e.states[name]
	return st, ok
}

// SetupPurpose returns the purpose of the latest setup of the named
// descriptor.
func (e *Engine) SetupPurpose(ctx context.Context, name string) (descriptor.Purpose, error) {
	history, err := e.store.History(ctx, name)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", descriptor.Errorf(name, "module has not been set up")
	}
	return history[len(history)-1], nil
}

// SetupTop sets up the named descriptor as the top of the build, for
// hardware.
func (e *Engine) SetupTop(ctx context.Context, name string) error {
	return e.Setup(ctx, name, descriptor.PurposeHardware, true)
}

// Setup sets up the named descriptor for purpose. It returns immediately if
// the descriptor was already set up for purpose or for hardware.
func (e *Engine) Setup(ctx context.Context, name string, purpose descriptor.Purpose, isTop bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = ctxlog.With(ctx, "descriptor", name, "purpose", purpose)
	logger := ctxlog.FromContext(ctx)

	if _, err := purpose.Dir(); err != nil {
		return descriptor.Errorf(name, "%v", err)
	}

	done, err := e.store.Satisfied(ctx, name, purpose)
	if err != nil {
		return fmt.Errorf("failed to query setup history of %s: %w", name, err)
	}
	if done {
		logger.Debug("Already set up.")
		return nil
	}

	st, err := e.state(name)
	if err != nil {
		return err
	}

	if !st.Initialized {
		if isTop {
			if e.top != "" && e.top != name {
				return descriptor.Errorf(name, "build directory already fixed by top module %s", e.top)
			}
			st.IsTop = true
		}
		if err := e.initAttributes(ctx, st); err != nil {
			return err
		}
	}
	if isTop && len(st.Purposes) == 0 {
		if err := buildfs.CreateBuildDir(ctx, st, e.opts.Copy); err != nil {
			return err
		}
	}

	if err := e.store.Record(ctx, name, purpose); err != nil {
		return fmt.Errorf("failed to record setup of %s: %w", name, err)
	}
	if st.Purposes, err = e.store.History(ctx, name); err != nil {
		return fmt.Errorf("failed to read setup history of %s: %w", name, err)
	}
	logger.Info("Setting up module.", "top", st.IsTop)

	if err := e.setupDependencies(ctx, st, purpose); err != nil {
		return err
	}
	if err := e.runHook(ctx, st, func(b *registry.Behaviour) registry.Hook { return b.CreateInstances }); err != nil {
		return err
	}
	if err := e.runHook(ctx, st, func(b *registry.Behaviour) registry.Hook { return b.SetupBlockGroups }); err != nil {
		return err
	}
	if err := e.postSetup(ctx, st, purpose); err != nil {
		return err
	}

	e.publish(ctx, notify.Event{
		Kind:       notify.EventSetup,
		Descriptor: name,
		Purpose:    string(purpose),
		Top:        st.IsTop,
		BuildDir:   st.BuildDir,
	})
	return nil
}

// state returns the build state of name, creating it on first use.
func (e *Engine) state(name string) (*descriptor.State, error) {
	if st, ok := e.states[name]; ok {
		return st, nil
	}
	chain, err := e.registry.Chain(name)
	if err != nil {
		return nil, err
	}
	st := descriptor.NewState(chain[len(chain)-1], chain)
	e.states[name] = st
	return st, nil
}

func (e *Engine) setupDependencies(ctx context.Context, st *descriptor.State, current descriptor.Purpose) error {
	logger := ctxlog.FromContext(ctx)

	for _, dep := range st.Submodules {
		p := dep.Purpose
		if p == "" {
			p = descriptor.PurposeHardware
		}
		if !st.IsTop && p != descriptor.PurposeHardware {
			logger.Debug("Skipping non-hardware dependency of a non-top module.", "dependency", dep.String(), "dependency_purpose", p)
			continue
		}
		if p == descriptor.PurposeHardware {
			p = current
		}

		switch {
		case dep.Module != "" && dep.Interface == nil:
			if _, ok := e.registry.Descriptor(dep.Module); !ok {
				return descriptor.Errorf(st.Name(), "submodule '%s' is not a known descriptor", dep.Module)
			}
			if err := e.Setup(ctx, dep.Module, p, false); err != nil {
				return fmt.Errorf("failed to set up %s dependency %s: %w", st.Name(), dep.Module, err)
			}
		case dep.Interface != nil && dep.Module == "":
			if err := e.generateInterface(ctx, st, *dep.Interface, p); err != nil {
				return err
			}
		default:
			return descriptor.Errorf(st.Name(), "unknown type in submodule list: %s", dep)
		}
	}
	return nil
}

// generateInterface writes a standard interface snippet into the directory
// of purpose.
func (e *Engine) generateInterface(ctx context.Context, st *descriptor.State, req descriptor.InterfaceRequest, purpose descriptor.Purpose) error {
	if !ifgen.Known(req.Interface) {
		return descriptor.Errorf(st.Name(), "unknown interface '%s'", req.Interface)
	}
	dir, err := purpose.Dir()
	if err != nil {
		return descriptor.Errorf(st.Name(), "%v", err)
	}
	path, err := ifgen.Write(filepath.Join(st.BuildDir, dir), req)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Generated interface snippet.", "interface", req.Interface, "path", path)
	return nil
}

// runHook runs the hook selected by pick for every contributor of st, from
// the most generic to the most specific.
func (e *Engine) runHook(ctx context.Context, st *descriptor.State, pick func(*registry.Behaviour) registry.Hook) error {
	for _, c := range st.Chain {
		if h := pick(e.registry.Behaviour(c.Name)); h != nil {
			if err := h(ctx, st); err != nil {
				return fmt.Errorf("%s hook of %s failed: %w", st.Name(), c.Name, err)
			}
		}
	}
	return nil
}

// override returns the hook selected by pick of the most specific
// contributor that has one.
func (e *Engine) override(st *descriptor.State, pick func(*registry.Behaviour) registry.Hook) registry.Hook {
	for i := len(st.Chain) - 1; i >= 0; i-- {
		if h := pick(e.registry.Behaviour(st.Chain[i].Name)); h != nil {
			return h
		}
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, ev notify.Event) {
	if err := e.publisher.Publish(ctx, ev); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to publish build event.", "event", ev.Kind, "error", err)
	}
}
