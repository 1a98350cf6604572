// Package notify publishes build events so that editors and dashboards can
// follow a build as it happens. Publishing is best effort: a failure to
// deliver an event never fails the build.
package notify

import (
	"context"
	"sync"
)

// EventSetup is emitted after a descriptor finishes one setup.
const EventSetup = "setup"

// EventSystem is emitted after a system top-level file is generated.
const EventSystem = "system"

// Event describes one build step.
type Event struct {
	Kind       string `json:"kind"`
	RunID      string `json:"run_id"`
	Descriptor string `json:"descriptor"`
	Purpose    string `json:"purpose,omitempty"`
	Top        bool   `json:"top"`
	BuildDir   string `json:"build_dir"`
	Path       string `json:"path,omitempty"`
}

// Publisher delivers build events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

var _ Publisher = Nop{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ Publisher = (*Recorder)(nil)

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Close implements Publisher.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
