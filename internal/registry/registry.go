package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/specialistvlad/ipforge/internal/config"
	"github.com/specialistvlad/ipforge/internal/descriptor"
)

// Module is the interface that all built-in modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds every descriptor, behaviour and flow hook known to one
// application instance.
type Registry struct {
	descriptors map[string]*descriptor.Descriptor
	// manifest records which descriptors came from a manifest, to tell an
	// override of a built-in apart from a duplicate declaration.
	manifest   map[string]bool
	behaviours map[string]*Behaviour
	flowHooks  map[flowKey]Hook
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		descriptors: make(map[string]*descriptor.Descriptor),
		manifest:    make(map[string]bool),
		behaviours:  make(map[string]*Behaviour),
		flowHooks:   make(map[flowKey]Hook),
	}
}

// RegisterDescriptor registers a Go-declared descriptor. Registering the same
// name twice is a programming error.
func (r *Registry) RegisterDescriptor(d *descriptor.Descriptor) {
	if _, exists := r.descriptors[d.Name]; exists {
		panic(fmt.Sprintf("descriptor with name '%s' already registered", d.Name))
	}
	slog.Debug("Registering descriptor.", "name", d.Name)
	r.descriptors[d.Name] = d
}

// AddManifestDescriptor adds a descriptor read from a manifest. It replaces a
// built-in descriptor of the same name; two manifests declaring the same name
// is a configuration error.
func (r *Registry) AddManifestDescriptor(d *descriptor.Descriptor) error {
	if prev, exists := r.descriptors[d.Name]; exists && r.manifest[d.Name] {
		return descriptor.Errorf(d.Name, "declared twice, in %s and %s", prev.Source, d.Source)
	}
	r.descriptors[d.Name] = d
	r.manifest[d.Name] = true
	return nil
}

// PopulateFromModel adds every descriptor of the loaded model.
func (r *Registry) PopulateFromModel(model *config.Model) error {
	for _, d := range model.Descriptors {
		if err := r.AddManifestDescriptor(d); err != nil {
			return err
		}
	}
	return nil
}

// Descriptor returns the named descriptor.
func (r *Registry) Descriptor(name string) (*descriptor.Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns the names of every registered descriptor, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain returns the contributor chain of the named descriptor: its ancestors
// from the most generic one down to the descriptor itself.
func (r *Registry) Chain(name string) ([]*descriptor.Descriptor, error) {
	var chain []*descriptor.Descriptor
	seen := make(map[string]bool)

	for cur := name; cur != ""; {
		if seen[cur] {
			return nil, descriptor.Errorf(name, "extends cycle through %q", cur)
		}
		seen[cur] = true

		d, ok := r.descriptors[cur]
		if !ok {
			if cur == name {
				return nil, descriptor.Errorf(name, "unknown descriptor")
			}
			return nil, descriptor.Errorf(name, "extends unknown descriptor %q", cur)
		}
		chain = append(chain, d)
		cur = d.Extends
	}

	// Collected newest first.
	slices.Reverse(chain)
	return chain, nil
}
