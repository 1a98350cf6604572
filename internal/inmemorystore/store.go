package inmemorystore

import (
	"context"
	"slices"
	"sync"

	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/purposestore"
)

// Store is an in-memory implementation of purposestore.Store.
//
// The setup engine itself is single-threaded, but the watch loop may inspect
// a finished build's store while a new one is being populated, so access is
// still guarded by a mutex.
type Store struct {
	mu      sync.RWMutex
	history map[string][]descriptor.Purpose
}

// New creates a new, empty in-memory purpose store.
func New() purposestore.Store {
	return &Store{history: make(map[string][]descriptor.Purpose)}
}

// Record appends purpose to the history of the named descriptor.
func (s *Store) Record(ctx context.Context, name string, purpose descriptor.Purpose) error {
	if _, err := purpose.Dir(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if purpose.Absorbed(s.history[name]) {
		return nil
	}
	s.history[name] = append(s.history[name], purpose)
	return nil
}

// Satisfied reports whether purpose (or hardware) was already recorded.
func (s *Store) Satisfied(ctx context.Context, name string, purpose descriptor.Purpose) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return purpose.Absorbed(s.history[name]), nil
}

// History returns a copy of the recorded purposes, oldest first.
func (s *Store) History(ctx context.Context, name string) ([]descriptor.Purpose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history[name]), nil
}
