package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// ErrMalformedTable is returned when a progress table fails the integrity
// check, on either side of the store.
var ErrMalformedTable = errors.New("malformed progress table")

type integrityMiddleware struct {
	next   ports.ProgressStore
	retain int
}

// NewIntegrityMiddleware creates a middleware that refuses to persist or
// serve a malformed progress table. Every key must be a canonical strand
// key; anything else would corrupt prune lookups silently. Save also
// compacts entries made redundant by a shorter recorded prefix, so tables
// written by older runs shrink back to the retain frontier on their next
// write. retain follows the profile's retain floor.
func NewIntegrityMiddleware(retain int) Middleware {
	return func(next ports.ProgressStore) ports.ProgressStore {
		return &integrityMiddleware{next: next, retain: retain}
	}
}

func (m *integrityMiddleware) Save(ctx context.Context, progress *domain.Progress) error {
	if err := checkKeys(progress); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	// Compact a clone; the caller's in-memory table is not ours to edit.
	cleaned := progress.Clone()
	cleaned.Compact(m.retain)
	return m.next.Save(ctx, cleaned)
}

func (m *integrityMiddleware) Load(ctx context.Context) (*domain.Progress, error) {
	progress, err := m.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkKeys(progress); err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return progress, nil
}

func (m *integrityMiddleware) Reset(ctx context.Context) error {
	return m.next.Reset(ctx)
}

// checkKeys verifies every key survives a parse round-trip unchanged and
// holds no command that could not have produced it: no embedded periods, no
// stray whitespace. Together that is exactly what canonical form means.
func checkKeys(p *domain.Progress) error {
	if p == nil {
		return fmt.Errorf("%w: nil table", ErrMalformedTable)
	}
	for key := range p.Entries {
		strand := domain.ParseStrandKey(key)
		if key == "" || strand.Key() != key {
			return fmt.Errorf("%w: non-canonical strand key %q", ErrMalformedTable, key)
		}
		for _, command := range strand {
			if strings.Contains(command, ".") || command != strings.TrimSpace(command) {
				return fmt.Errorf("%w: non-canonical strand key %q", ErrMalformedTable, key)
			}
		}
	}
	return nil
}
