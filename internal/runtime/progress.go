package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// loadProgress pulls the table from the store and rebases the run counters
// on whatever a previous run left behind, so totals keep growing across
// interruptions instead of resetting.
func (e *Engine) loadProgress(ctx context.Context) error {
	table, err := e.store.Load(ctx)
	if errors.Is(err, domain.ErrNoProgress) {
		e.progress = domain.NewProgress()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	e.progress = table
	totals := table.Totals()
	e.deadEnds.Store(totals.DeadEnds)
	e.successes.Store(totals.Successes)
	e.totalMoves.Store(totals.TotalMoves)
	e.runBaseNano.Store(int64(totals.ElapsedSeconds * float64(time.Second)))
	e.logger.InfoContext(ctx, "resuming earlier exploration",
		"entries", len(table.Entries),
		"paths", totals.DeadEnds+totals.Successes,
		"explored", time.Duration(e.runBaseNano.Load()).Round(elapsedResolution))
	return nil
}

// recordStrand marks the strand fully explored, stamps it with the current
// totals, and persists the table.
func (e *Engine) recordStrand(ctx context.Context, strand domain.Strand) {
	stats := domain.StrandStats{
		DeadEnds:       e.deadEnds.Load(),
		Successes:      e.successes.Load(),
		TotalMoves:     e.totalMoves.Load(),
		ElapsedSeconds: e.elapsed().Seconds(),
	}
	e.progress.Record(strand, stats, e.profile.Tuning.RetainFloor)
	if e.chatty(3) {
		e.logger.Debug("strand recorded", "strand", strand.Key(), "entries", len(e.progress.Entries))
	}
	e.persist(ctx, strand.Key())
}

// saveProgress persists the table without recording anything new. Node
// entries use it for interval and operator-requested saves.
func (e *Engine) saveProgress(ctx context.Context) {
	e.persist(ctx, "")
}

// persist writes the table through the store and resets the save timer. The
// timer moves first even on failure: a slow or broken store gets retried on
// the next interval, not hammered on every node.
func (e *Engine) persist(ctx context.Context, key string) {
	e.lastSave = e.clock()
	if err := e.store.Save(ctx, e.progress); err != nil {
		e.logger.Error("progress not saved", "entries", len(e.progress.Entries), "err", err)
		e.document("progress_save_failed", map[string]any{
			"error":   err.Error(),
			"entries": len(e.progress.Entries),
		})
		return
	}
	if e.chatty(2) {
		e.logger.Info("progress saved", "entries", len(e.progress.Entries))
	}
	e.emitStore(key, len(e.progress.Entries))
}
