// Package iob_ctls provides the control-logic descriptor that every module
// with software-accessible registers depends on.
package iob_ctls

import (
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
)

// Name is the descriptor name. The setup engine adds it as a dependency of
// any descriptor that declares registers.
const Name = "iob_ctls"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Descriptor returns the built-in declaration. It has no setup directory; a
// manifest of the same name may replace it to contribute sources.
func Descriptor() *descriptor.Descriptor {
	return &descriptor.Descriptor{
		Name:    Name,
		Version: "V0.10",
		Flows:   descriptor.Flows{descriptor.FlowSim},
	}
}

// Register registers the descriptor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterDescriptor(Descriptor())
}
