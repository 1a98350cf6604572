package setup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/ipforge/internal/buildfs"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/notify"
	"github.com/specialistvlad/ipforge/internal/registry"
	"github.com/specialistvlad/ipforge/internal/systemgen"
)

// postSetup runs once per setup, after the dependencies of st are in place.
func (e *Engine) postSetup(ctx context.Context, st *descriptor.State, purpose descriptor.Purpose) error {
	if err := e.copySources(ctx, st, purpose); err != nil {
		return err
	}
	if err := e.autoAdd(ctx, st, purpose); err != nil {
		return err
	}
	if err := e.generate(ctx, st); err != nil {
		return err
	}
	if err := e.runFlowHooks(ctx, st); err != nil {
		return err
	}

	if !st.IsTop {
		return nil
	}
	if len(st.Instances) > 0 {
		if _, err := e.generateSystem(ctx, st, st.Instances, e.systemOutPath(st)); err != nil {
			return err
		}
	}
	_, err := buildfs.RemoveDuplicates(ctx, st.BuildDir)
	return err
}

func (e *Engine) copySources(ctx context.Context, st *descriptor.State, purpose descriptor.Purpose) error {
	if h := e.override(st, func(b *registry.Behaviour) registry.Hook { return b.CopySources }); h != nil {
		if err := h(ctx, st); err != nil {
			return fmt.Errorf("failed to copy sources of %s: %w", st.Name(), err)
		}
		return nil
	}
	return buildfs.CopySources(ctx, st, purpose, e.opts.Copy)
}

// runFlowHooks runs, for every flow st supports, the flow hook of its most
// specific contributor that registered one.
func (e *Engine) runFlowHooks(ctx context.Context, st *descriptor.State) error {
	logger := ctxlog.FromContext(ctx)
	for _, flow := range st.Flows() {
		for i := len(st.Chain) - 1; i >= 0; i-- {
			h, ok := e.registry.FlowHook(st.Chain[i].Name, flow)
			if !ok {
				continue
			}
			logger.Debug("Running flow hook.", "flow", flow, "contributor", st.Chain[i].Name)
			if err := h(ctx, st); err != nil {
				return fmt.Errorf("%s flow hook of %s failed: %w", flow, st.Name(), err)
			}
			break
		}
	}
	return nil
}

// setupDir returns the source root of the most specific contributor of st
// that has one.
func setupDir(st *descriptor.State) string {
	for i := len(st.Chain) - 1; i >= 0; i-- {
		if st.Chain[i].SetupDir != "" {
			return st.Chain[i].SetupDir
		}
	}
	return ""
}

func (e *Engine) systemOutPath(st *descriptor.State) string {
	return filepath.Join(st.BuildDir, descriptor.DirHardwareSrc, st.Name()+systemgen.GeneratedExt)
}

// GenerateSystem instantiates the system template of the named descriptor
// with instances and writes it to outPath. The descriptor must already be
// set up. It reports false when the descriptor has no template.
func (e *Engine) GenerateSystem(ctx context.Context, name string, instances []descriptor.Instance, outPath string) (bool, error) {
	st, ok := e.states[name]
	if !ok || len(st.Purposes) == 0 {
		return false, descriptor.Errorf(name, "module has not been set up")
	}
	if outPath == "" {
		outPath = e.systemOutPath(st)
	}
	return e.generateSystem(ctxlog.With(ctx, "descriptor", name), st, instances, outPath)
}

func (e *Engine) generateSystem(ctx context.Context, st *descriptor.State, instances []descriptor.Instance, outPath string) (bool, error) {
	dir := setupDir(st)
	if dir == "" {
		ctxlog.FromContext(ctx).Debug("No setup directory, skipping system generation.")
		return false, nil
	}

	sys := systemgen.System{
		Name:        st.Name(),
		Instances:   instances,
		Wires:       st.Wires,
		Peripherals: make(map[string]systemgen.Peripheral),
	}
	for _, inst := range instances {
		if _, done := sys.Peripherals[inst.Type]; done {
			continue
		}
		p, err := e.peripheral(ctx, inst.Type)
		if err != nil {
			return false, fmt.Errorf("instance %s of %s: %w", inst.Name, st.Name(), err)
		}
		sys.Peripherals[inst.Type] = p
	}

	written, err := systemgen.Generate(ctx, systemgen.TemplatePath(dir, st.Name()), outPath, sys)
	if err != nil || !written {
		return written, err
	}
	e.publish(ctx, notify.Event{
		Kind:       notify.EventSystem,
		Descriptor: st.Name(),
		Top:        st.IsTop,
		BuildDir:   st.BuildDir,
		Path:       outPath,
	})
	return true, nil
}

// peripheral returns the port metadata of the named descriptor, initializing
// its attributes if it was never set up.
func (e *Engine) peripheral(ctx context.Context, name string) (systemgen.Peripheral, error) {
	st, err := e.state(name)
	if err != nil {
		return systemgen.Peripheral{}, err
	}
	if err := e.initAttributes(ctxlog.With(ctx, "peripheral", name), st); err != nil {
		return systemgen.Peripheral{}, err
	}
	return systemgen.Peripheral{Top: st.Name(), Ports: st.Ports()}, nil
}
