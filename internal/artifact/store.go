// Package artifact provides the versioned per-project artifact store.
//
// Each project owns a directory of named artifacts (design, implementation,
// reports, publication). Writes append a new version; reads always return the
// latest version of a kind. The store holds no pipeline logic.
package artifact

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no artifact of the requested kind exists.
var ErrNotFound = errors.New("artifact not found")

// Store is the durable key→content mapping per project.
//
// Writes are append-only per kind: every write creates a new version and the
// previous versions remain retrievable via History.
type Store interface {
	// Read returns the latest artifact of the given kind, or ErrNotFound.
	Read(ctx context.Context, project string, kind Kind) (*Artifact, error)

	// Write stores content as a new version of the given kind and returns
	// the new version number (starting at 1).
	Write(ctx context.Context, project string, kind Kind, content string) (int, error)

	// History returns all versions of the given kind, oldest first.
	// An unknown kind yields an empty slice, not an error.
	History(ctx context.Context, project string, kind Kind) ([]*Artifact, error)
}
