// Package iob_ram_2p_tiled provides a two-port RAM assembled from tiles of
// the plain two-port RAM.
package iob_ram_2p_tiled

import (
	"context"
	"slices"

	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
)

const (
	Name = "iob_ram_2p_tiled"
	Tile = "iob_ram_2p"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the tiled RAM, its tile, and the dependency hook.
func (m *Module) Register(r *registry.Registry) {
	for _, name := range []string{Name, Tile} {
		r.RegisterDescriptor(&descriptor.Descriptor{
			Name:    name,
			Version: "V0.10",
			Flows:   descriptor.Flows{descriptor.FlowSim},
		})
	}
	r.RegisterBehaviour(Name, &registry.Behaviour{CreateSubmodules: CreateSubmodules})
}

// CreateSubmodules adds the tile RAM to the submodule list.
func CreateSubmodules(_ context.Context, st *descriptor.State) error {
	if slices.ContainsFunc(st.Submodules, func(d descriptor.Dependency) bool { return d.Module == Tile }) {
		return nil
	}
	st.Submodules = append(st.Submodules, descriptor.Dependency{Module: Tile})
	return nil
}
