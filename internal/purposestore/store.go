// Package purposestore defines the interface of the setup memo table: the
// record of which purposes every descriptor type has already been set up for
// during one build.
//
// # Why a Purpose Store Exists
//
// The store isolates the one piece of process-wide mutable bookkeeping the
// setup engine needs (the setup-purpose history of each descriptor type) from
// the static declarations held by the registry. A fresh store is created for
// every build, so a watch-mode rebuild never sees the previous run's history.
//
// # Lifecycle and Usage
//
//  1. Created once per build, empty.
//  2. Queried by the setup engine before setting a type up (Satisfied).
//  3. Appended to as each purpose is applied (Record).
//  4. Discarded when the build ends.
package purposestore

import (
	"context"

	"github.com/specialistvlad/ipforge/internal/descriptor"
)

// Store is the memo table keyed by (descriptor name, purpose).
//
// The hardware purpose absorbs every other purpose: once recorded for a type,
// Satisfied reports true for any purpose of that type.
type Store interface {
	// Record appends purpose to the history of the named descriptor. Recording
	// a purpose that is already satisfied is a no-op.
	Record(ctx context.Context, name string, purpose descriptor.Purpose) error

	// Satisfied reports whether the named descriptor needs no further setup
	// for purpose.
	Satisfied(ctx context.Context, name string, purpose descriptor.Purpose) (bool, error)

	// History returns the purposes recorded for the named descriptor, oldest
	// first. It returns an empty slice for a type never set up.
	History(ctx context.Context, name string) ([]descriptor.Purpose, error)
}
