// Package inmemorystore provides an ephemeral, in-memory implementation of
// the purposestore.Store interface. It lives exactly as long as one build.
package inmemorystore
