// Package persistence stores snapshot blobs across two tiers: a SQLite
// primary and a plain-file fallback. The engine never touches this package
// directly; hosts wire an Autosaver between the two.
package persistence

import "errors"

// ErrNotFound is returned by Get when no snapshot has been stored.
var ErrNotFound = errors.New("persistence: snapshot not found")

// Store holds a single snapshot blob.
type Store interface {
	// Get returns the stored blob, or ErrNotFound.
	Get() ([]byte, error)
	// Put replaces the stored blob.
	Put(data []byte) error
	// Delete removes the stored blob. Deleting an absent blob is not an
	// error.
	Delete() error
	Close() error
}
