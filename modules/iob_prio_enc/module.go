// Package iob_prio_enc provides the priority encoder, which is built on top
// of the bit reverser.
package iob_prio_enc

import (
	"context"
	"slices"

	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
)

const (
	Name    = "iob_prio_enc"
	Reverse = "iob_reverse"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the encoder, the reverser it depends on, and the hook
// that wires the two together.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterDescriptor(&descriptor.Descriptor{
		Name:    Name,
		Version: "V0.10",
		Flows:   descriptor.Flows{descriptor.FlowSim},
	})
	r.RegisterDescriptor(&descriptor.Descriptor{
		Name:    Reverse,
		Version: "V0.10",
		Flows:   descriptor.Flows{descriptor.FlowSim},
	})
	r.RegisterBehaviour(Name, &registry.Behaviour{CreateSubmodules: CreateSubmodules})
}

// CreateSubmodules adds the reverser to the submodule list.
func CreateSubmodules(_ context.Context, st *descriptor.State) error {
	if !slices.ContainsFunc(st.Submodules, func(d descriptor.Dependency) bool { return d.Module == Reverse }) {
		st.Submodules = append(st.Submodules, descriptor.Dependency{Module: Reverse})
	}
	return nil
}
