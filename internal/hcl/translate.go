package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/schema"
)

// translateDescriptor converts the HCL-specific descriptor schema into a
// descriptor declaration.
func translateDescriptor(ctx context.Context, file string, s *schema.Descriptor) (*descriptor.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)
	errf := func(format string, args ...any) error {
		return descriptor.Errorf(s.Name, "%s: %s", file, fmt.Sprintf(format, args...))
	}

	d := &descriptor.Descriptor{
		Name:            s.Name,
		Version:         s.Version,
		PreviousVersion: s.PreviousVersion,
		CSRIf:           s.CSRIf,
		BuildDir:        s.BuildDir,
		Extends:         s.Extends,
		Source:          file,
	}
	if s.SetupDir != "" {
		d.SetupDir = resolve(filepath.Dir(file), s.SetupDir)
	}
	if d.BuildDir != "" {
		d.BuildDir = resolve(filepath.Dir(file), d.BuildDir)
	}

	for _, f := range s.Flows {
		flow, err := descriptor.ParseFlow(f)
		if err != nil {
			return nil, errf("%v", err)
		}
		d.Flows = append(d.Flows, flow)
	}

	var err error
	if d.Confs, err = translateEntries(s.Confs); err != nil {
		return nil, errf("conf: %v", err)
	}
	for _, g := range s.RegGroups {
		group, err := translateGroup(g.Name, "reg", g.Body, g.Regs)
		if err != nil {
			return nil, errf("reg_group %q: %v", g.Name, err)
		}
		d.Regs = append(d.Regs, group)
	}
	for _, g := range s.IOGroups {
		group, err := translateGroup(g.Name, "port", g.Body, g.Ports)
		if err != nil {
			return nil, errf("io_group %q: %v", g.Name, err)
		}
		d.IOs = append(d.IOs, group)
	}
	for _, g := range s.BlockGroups {
		group, err := translateGroup(g.Name, "block", g.Body, g.Blocks)
		if err != nil {
			return nil, errf("block_group %q: %v", g.Name, err)
		}
		d.BlockGroups = append(d.BlockGroups, group)
	}

	if d.Submodules, err = translateDependencies(s.Submodules, s.Interfaces); err != nil {
		return nil, errf("%v", err)
	}

	wires, err := translateEntries(s.Wires)
	if err != nil {
		return nil, errf("wire: %v", err)
	}
	for _, w := range wires {
		d.Wires = append(d.Wires, descriptor.Wire{
			Name:  w.Name,
			Width: w.Attrs.String("n_bits"),
			Descr: w.Attrs.String("descr"),
		})
	}

	for _, in := range s.Instances {
		inst, err := translateInstance(ctx, in)
		if err != nil {
			return nil, errf("instance %q: %v", in.Name, err)
		}
		d.Instances = append(d.Instances, inst)
	}

	logger.Debug("Translated descriptor.", "name", d.Name, "confs", len(d.Confs), "reg_groups", len(d.Regs), "io_groups", len(d.IOs), "submodules", len(d.Submodules))
	return d, nil
}

func translateEntries(in []*schema.Entry) ([]descriptor.Entry, error) {
	var out []descriptor.Entry
	for _, e := range in {
		attrs, err := bodyAttrs(e.Body, "")
		if err != nil {
			return nil, fmt.Errorf("%q: %w", e.Name, err)
		}
		out = append(out, descriptor.Entry{Name: e.Name, Attrs: attrs})
	}
	return out, nil
}

func translateGroup(name, nested string, body hcl.Body, items []*schema.Entry) (descriptor.Group, error) {
	attrs, err := bodyAttrs(body, nested)
	if err != nil {
		return descriptor.Group{}, err
	}
	entries, err := translateEntries(items)
	if err != nil {
		return descriptor.Group{}, err
	}
	if entries == nil {
		// A group declared without items still owns an empty list.
		entries = []descriptor.Entry{}
	}
	return descriptor.Group{Name: name, Attrs: attrs, Items: entries}, nil
}

// translateDependencies merges submodule and interface blocks back into one
// list in source order.
func translateDependencies(subs []*schema.Submodule, ifaces []*schema.Interface) ([]descriptor.Dependency, error) {
	type positioned struct {
		pos int
		dep descriptor.Dependency
	}
	var all []positioned

	for _, s := range subs {
		p, err := optionalPurpose(s.Purpose)
		if err != nil {
			return nil, fmt.Errorf("submodule %q: %w", s.Name, err)
		}
		all = append(all, positioned{
			pos: s.Body.MissingItemRange().Start.Byte,
			dep: descriptor.Dependency{Module: s.Name, Purpose: p},
		})
	}
	for _, i := range ifaces {
		p, err := optionalPurpose(i.Purpose)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", i.Name, err)
		}
		all = append(all, positioned{
			pos: i.Body.MissingItemRange().Start.Byte,
			dep: descriptor.Dependency{
				Interface: &descriptor.InterfaceRequest{
					Interface:  i.Name,
					FilePrefix: i.FilePrefix,
					PortPrefix: i.PortPrefix,
					WirePrefix: i.WirePrefix,
				},
				Purpose: p,
			},
		})
	}

	sort.SliceStable(all, func(a, b int) bool { return all[a].pos < all[b].pos })

	var deps []descriptor.Dependency
	for _, p := range all {
		deps = append(deps, p.dep)
	}
	return deps, nil
}

func optionalPurpose(s string) (descriptor.Purpose, error) {
	if s == "" {
		return "", nil
	}
	return descriptor.ParsePurpose(s)
}

func translateInstance(ctx context.Context, s *schema.Instance) (descriptor.Instance, error) {
	inst := descriptor.Instance{
		Type:        s.Type,
		Name:        s.Name,
		Description: s.Description,
		Connections: make(map[string]string),
	}
	if inst.Name == "" {
		inst.Name = descriptor.DefaultInstanceName(s.Type)
	}

	if isExprDefined(ctx, s.Params, "params") {
		pairs, err := orderedPairs(s.Params)
		if err != nil {
			return inst, fmt.Errorf("params: %w", err)
		}
		for _, p := range pairs {
			inst.Params = append(inst.Params, descriptor.Param{Name: p[0], Value: p[1]})
		}
	}

	if isExprDefined(ctx, s.Connections, "connections") {
		pairs, err := orderedPairs(s.Connections)
		if err != nil {
			return inst, fmt.Errorf("connections: %w", err)
		}
		for _, p := range pairs {
			inst.Connections[p[0]] = p[1]
		}
	}
	return inst, nil
}
