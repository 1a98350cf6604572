// Package iob_gray2bin provides the Gray-to-binary converter used by the
// asynchronous FIFOs. It is pure logic: no configuration, registers or
// ports are generated for it.
package iob_gray2bin

import (
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
)

// Name is the descriptor name.
const Name = "iob_gray2bin"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Descriptor returns the built-in declaration.
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
