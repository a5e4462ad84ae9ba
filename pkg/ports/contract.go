package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// RunProgressStoreContract runs a suite of tests verifying that a
// ProgressStore implementation adheres to the interface contract. Adapter
// packages call it with a factory returning a fresh, empty store per
// subtest.
func RunProgressStoreContract(t *testing.T, factory func(t *testing.T) ProgressStore) {
	ctx := context.Background()

	t.Run("Load before any Save", func(t *testing.T) {
		store := factory(t)
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrNoProgress)
	})

	t.Run("Save and Load", func(t *testing.T) {
		store := factory(t)
		p := domain.NewProgress()
		p.Entries["GO NORTH. TAKE LAMP."] = domain.StrandStats{
			DeadEnds:       7,
			Successes:      1,
			TotalMoves:     42,
			ElapsedSeconds: 1.5,
		}
		require.NoError(t, store.Save(ctx, p))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, p.Entries, loaded.Entries)
	})

	t.Run("Save replaces the whole table", func(t *testing.T) {
		store := factory(t)
		first := domain.NewProgress()
		first.Entries["A. B. C. D. E."] = domain.StrandStats{DeadEnds: 1}
		require.NoError(t, store.Save(ctx, first))

		second := domain.NewProgress()
		second.Entries["A. B. C. D."] = domain.StrandStats{DeadEnds: 2}
		require.NoError(t, store.Save(ctx, second))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.Entries, loaded.Entries)
		assert.NotContains(t, loaded.Entries, "A. B. C. D. E.",
			"entries compacted away must not survive a full rewrite")
	})

	t.Run("Saved empty table is still progress", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Save(ctx, domain.NewProgress()))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded.Entries)
	})

	t.Run("Reset", func(t *testing.T) {
		store := factory(t)
		p := domain.NewProgress()
		p.Entries["WAIT."] = domain.StrandStats{}
		require.NoError(t, store.Save(ctx, p))

		require.NoError(t, store.Reset(ctx))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrNoProgress, "Load after Reset should report no progress")
	})

	t.Run("Reset on an empty store", func(t *testing.T) {
		store := factory(t)
		assert.NoError(t, store.Reset(ctx))
	})

	t.Run("Loaded table is a private copy", func(t *testing.T) {
		store := factory(t)
		p := domain.NewProgress()
		p.Entries["LOOK."] = domain.StrandStats{DeadEnds: 3}
		require.NoError(t, store.Save(ctx, p))

		first, err := store.Load(ctx)
		require.NoError(t, err)
		first.Entries["LOOK."] = domain.StrandStats{DeadEnds: 99}
		first.Entries["EXTRA."] = domain.StrandStats{}

		second, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.StrandStats{DeadEnds: 3}, second.Entries["LOOK."])
		assert.NotContains(t, second.Entries, "EXTRA.")
	})
}
