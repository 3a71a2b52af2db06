package artifact

import (
	"context"
	"sync"
	"time"
)

// MemStore is an in-memory Store. It backs tests and dry runs.
type MemStore struct {
	mu       sync.RWMutex
	projects map[string]map[Kind][]*Artifact
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		projects: make(map[string]map[Kind][]*Artifact),
	}
}

// Read returns the latest artifact of the given kind.
func (s *MemStore) Read(ctx context.Context, project string, kind Kind) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := s.projects[project][kind]
	if len(versions) == 0 {
		return nil, ErrNotFound
	}
	latest := *versions[len(versions)-1]
	return &latest, nil
}

// Write appends a new version of the given kind.
func (s *MemStore) Write(ctx context.Context, project string, kind Kind, content string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds, ok := s.projects[project]
	if !ok {
		kinds = make(map[Kind][]*Artifact)
		s.projects[project] = kinds
	}

	version := len(kinds[kind]) + 1
	kinds[kind] = append(kinds[kind], &Artifact{
		Kind:      kind,
		Content:   content,
		Version:   version,
		CreatedAt: time.Now(),
	})
	return version, nil
}

// History returns all versions of the given kind, oldest first.
func (s *MemStore) History(ctx context.Context, project string, kind Kind) ([]*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := s.projects[project][kind]
	out := make([]*Artifact, len(versions))
	for i, a := range versions {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

var _ Store = (*MemStore)(nil)
