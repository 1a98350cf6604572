package testutil

import (
	"github.com/specialistvlad/ipforge/internal/registry"
)

// ModuleFunc adapts a function into a registry.Module, for tests that need
// to register a descriptor or behaviour inline.
type ModuleFunc func(r *registry.Registry)

// Register calls f.
func (f ModuleFunc) Register(r *registry.Registry) { f(r) }

// NoOpModule registers nothing. Passing it to the harness replaces the
// built-in modules, leaving the manifests as the only descriptors.
type NoOpModule struct{}

// Register does nothing.
func (m *NoOpModule) Register(r *registry.Registry) {}
