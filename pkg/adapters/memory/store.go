// Package memory provides an in-memory ProgressStore for tests and
// throwaway runs.
package memory

import (
	"context"
	"sync"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// Store implements ports.ProgressStore in memory.
// Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	table *domain.Progress
}

// NewStore creates an empty in-memory store. Load reports no progress until
// the first Save.
func NewStore() *Store {
	return &Store{}
}

// Save replaces the stored table with a private copy of p.
func (s *Store) Save(_ context.Context, p *domain.Progress) error {
	clone := p.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = clone
	return nil
}

// Load returns a private copy of the stored table, so callers can't mutate
// store state through the shared map.
func (s *Store) Load(context.Context) (*domain.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, domain.ErrNoProgress
	}
	return s.table.Clone(), nil
}

// Reset discards the stored table.
func (s *Store) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = nil
	return nil
}
