package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/ipforge/internal/descriptor"
)

// Hook is a descriptor-specific step of the setup process. It works directly
// on the descriptor's build state.
type Hook func(ctx context.Context, st *descriptor.State) error

// Behaviour collects the optional Go hooks of one descriptor. Nil hooks are
// skipped.
//
// The attribute hooks run once per type while attributes are initialized, in
// field order, after the contributor's declared lists have been merged. The
// rest run on every setup.
type Behaviour struct {
	InitAttributes   Hook
	CreateSubmodules Hook
	SetupConfs       Hook
	SetupIOs         Hook
	SetupRegs        Hook

	CreateInstances  Hook
	SetupBlockGroups Hook
	// CopySources replaces the default source aggregation.
	CopySources Hook
}

type flowKey struct {
	descriptor string
	flow       descriptor.Flow
}

// RegisterBehaviour registers the hooks of the named descriptor.
func (r *Registry) RegisterBehaviour(name string, b *Behaviour) {
	if _, exists := r.behaviours[name]; exists {
		panic(fmt.Sprintf("behaviour for descriptor '%s' already registered", name))
	}
	slog.Debug("Registering behaviour.", "descriptor", name)
	r.behaviours[name] = b
}

// RegisterFlowHook registers the hook that runs when the named descriptor is
// set up and supports flow.
func (r *Registry) RegisterFlowHook(name string, flow descriptor.Flow, hook Hook) {
	key := flowKey{descriptor: name, flow: flow}
	if _, exists := r.flowHooks[key]; exists {
		panic(fmt.Sprintf("flow hook '%s' for descriptor '%s' already registered", flow, name))
	}
	slog.Debug("Registering flow hook.", "descriptor", name, "flow", flow)
	r.flowHooks[key] = hook
}

// Behaviour returns the hooks of the named descriptor, or an empty Behaviour.
func (r *Registry) Behaviour(name string) *Behaviour {
	if b, ok := r.behaviours[name]; ok {
		return b
	}
	return &Behaviour{}
}

// FlowHook returns the hook registered for the named descriptor and flow.
func (r *Registry) FlowHook(name string, flow descriptor.Flow) (Hook, bool) {
	h, ok := r.flowHooks[flowKey{descriptor: name, flow: flow}]
	return h, ok
}
