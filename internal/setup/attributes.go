package setup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
)

// attributeStep merges one declared list of a contributor into the state and
// names the behaviour hook that runs right after.
type attributeStep struct {
	name  string
	merge func(st *descriptor.State, c *descriptor.Descriptor)
	hook  func(*registry.Behaviour) registry.Hook
}

var attributeSteps = []attributeStep{
	{
		name: "init_attributes",
		merge: func(st *descriptor.State, c *descriptor.Descriptor) {
			st.BlockGroups.Merge(c.BlockGroups...)
			st.Wires = mergeWires(st.Wires, c.Wires)
			st.Instances = mergeInstances(st.Instances, c.Instances)
		},
		hook: func(b *registry.Behaviour) registry.Hook { return b.InitAttributes },
	},
	{
		name: "create_submodules",
		merge: func(st *descriptor.State, c *descriptor.Descriptor) {
			st.Submodules = append(st.Submodules, c.Submodules...)
		},
		hook: func(b *registry.Behaviour) registry.Hook { return b.CreateSubmodules },
	},
	{
		name:  "setup_confs",
		merge: func(st *descriptor.State, c *descriptor.Descriptor) { st.Confs.Merge(c.Confs...) },
		hook:  func(b *registry.Behaviour) registry.Hook { return b.SetupConfs },
	},
	{
		name:  "setup_ios",
		merge: func(st *descriptor.State, c *descriptor.Descriptor) { st.IOs.Merge(c.IOs...) },
		hook:  func(b *registry.Behaviour) registry.Hook { return b.SetupIOs },
	},
	{
		name:  "setup_regs",
		merge: func(st *descriptor.State, c *descriptor.Descriptor) { st.Regs.Merge(c.Regs...) },
		hook:  func(b *registry.Behaviour) registry.Hook { return b.SetupRegs },
	},
}

// initAttributes populates the declarative lists of st exactly once.
func (e *Engine) initAttributes(ctx context.Context, st *descriptor.State) error {
	if st.Initialized {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	d := st.Descriptor
	if st.IsTop {
		e.buildDir = e.topBuildDir(d)
		e.top = d.Name
	}
	if e.buildDir == "" {
		return descriptor.Errorf(d.Name, "build directory is not set: the top module must be set up first")
	}
	st.BuildDir = e.buildDir

	st.PreviousVersion = d.PreviousVersion
	if st.PreviousVersion == "" {
		st.PreviousVersion = d.Version
	}

	for _, step := range attributeSteps {
		for _, c := range st.Chain {
			step.merge(st, c)
			if h := step.hook(e.registry.Behaviour(c.Name)); h != nil {
				if err := h(ctx, st); err != nil {
					return fmt.Errorf("%s hook of %s failed for %s: %w", step.name, c.Name, d.Name, err)
				}
			}
		}
	}

	if g, ok := st.Regs.Get(descriptor.GeneralRegGroup); ok {
		if _, reserved := g.Item(descriptor.ReservedVersion); reserved {
			return descriptor.Errorf(d.Name, "register '%s' is reserved, please remove it", descriptor.ReservedVersion)
		}
	}

	st.Initialized = true
	logger.Debug("Initialized attributes.",
		"confs", st.Confs.Len(), "regs", st.Regs.Len(), "ios", st.IOs.Len(), "submodules", len(st.Submodules))
	return nil
}

func (e *Engine) topBuildDir(d *descriptor.Descriptor) string {
	switch {
	case e.opts.BuildDir != "":
		return e.opts.BuildDir
	case d.BuildDir != "":
		return d.BuildDir
	}
	return filepath.Join(e.opts.WorkDir, "..", fmt.Sprintf("%s_%s", d.Name, d.Version))
}

func mergeWires(dst, src []descriptor.Wire) []descriptor.Wire {
	for _, w := range src {
		replaced := false
		for i := range dst {
			if dst[i].Name == w.Name {
				dst[i] = w
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, w)
		}
	}
	return dst
}

func mergeInstances(dst, src []descriptor.Instance) []descriptor.Instance {
	for _, inst := range src {
		replaced := false
		for i := range dst {
			if dst[i].Name == inst.Name {
				dst[i] = inst
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, inst)
		}
	}
	return dst
}
