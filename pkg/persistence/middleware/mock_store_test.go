package middleware_test

import (
	"context"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// MockStore is a simple in-memory store for testing middleware.
type MockStore struct {
	Table *domain.Progress

	SaveErr error
	Saves   int
	Loads   int
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (s *MockStore) Save(ctx context.Context, progress *domain.Progress) error {
	s.Saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Table = progress
	return nil
}

func (s *MockStore) Load(ctx context.Context) (*domain.Progress, error) {
	s.Loads++
	if s.Table == nil {
		return nil, domain.ErrNoProgress
	}
	return s.Table, nil
}

func (s *MockStore) Reset(ctx context.Context) error {
	s.Table = nil
	return nil
}

var _ ports.ProgressStore = (*MockStore)(nil)
