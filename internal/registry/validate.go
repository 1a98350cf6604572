package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/ifgen"
)

// Validate performs a parity check between the Go hooks and the declared
// descriptors, and checks that every reference between descriptors resolves.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for name := range r.behaviours {
		if _, ok := r.descriptors[name]; !ok {
			errs = append(errs, fmt.Sprintf("behaviour registered for unknown descriptor '%s'", name))
		}
	}

	for key := range r.flowHooks {
		d, ok := r.descriptors[key.descriptor]
		if !ok {
			errs = append(errs, fmt.Sprintf("flow hook '%s' registered for unknown descriptor '%s'", key.flow, key.descriptor))
			continue
		}
		if !d.Flows.Has(key.flow) {
			logger.Warn("Flow hook will never run: descriptor does not support the flow.", "descriptor", key.descriptor, "flow", key.flow)
		}
	}

	for _, name := range r.Names() {
		d := r.descriptors[name]
		if _, err := r.Chain(name); err != nil {
			errs = append(errs, err.Error())
		}
		if d.Version != "" {
			if _, err := descriptor.ParseVersion(d.Version); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
		}
		for _, dep := range d.Submodules {
			if msg := r.checkDependency(dep); msg != "" {
				errs = append(errs, fmt.Sprintf("%s: %s", name, msg))
			}
		}
		for _, inst := range d.Instances {
			if _, ok := r.descriptors[inst.Type]; !ok {
				errs = append(errs, fmt.Sprintf("%s: instance '%s' of unknown descriptor '%s'", name, inst.Name, inst.Type))
			}
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return &descriptor.ConfigError{Msg: "registry validation failed:\n- " + strings.Join(errs, "\n- ")}
	}

	logger.Debug("Registry validated.", "descriptors", len(r.descriptors), "behaviours", len(r.behaviours), "flow_hooks", len(r.flowHooks))
	return nil
}

func (r *Registry) checkDependency(dep descriptor.Dependency) string {
	switch {
	case dep.Module != "" && dep.Interface == nil:
		if _, ok := r.descriptors[dep.Module]; !ok {
			return fmt.Sprintf("submodule '%s' is not a known descriptor", dep.Module)
		}
	case dep.Interface != nil && dep.Module == "":
		if !ifgen.Known(dep.Interface.Interface) {
			return fmt.Sprintf("unknown interface '%s'", dep.Interface.Interface)
		}
	default:
		return fmt.Sprintf("unrecognized submodule entry %s", dep)
	}
	if dep.Purpose != "" {
		if _, err := dep.Purpose.Dir(); err != nil {
			return err.Error()
		}
	}
	return ""
}
