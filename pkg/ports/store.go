package ports

import (
	"context"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// ProgressStore persists the explored-strand table between runs, enabling
// "stop & resume" exploration across crashes and restarts. One store
// instance serves one game; Save always rewrites the whole table, mirroring
// the crash-consistency model of a single JSON document.
type ProgressStore interface {
	// Load returns the last saved table. Returns domain.ErrNoProgress when
	// nothing has ever been saved, or the store has been reset.
	Load(ctx context.Context) (*domain.Progress, error)

	// Save atomically replaces the stored table.
	Save(ctx context.Context, progress *domain.Progress) error

	// Reset discards any stored table. Resetting an empty store is not an
	// error.
	Reset(ctx context.Context) error
}
