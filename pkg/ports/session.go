package ports

import (
	"context"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// Session is the play-history surface the search engine explores through: a
// stack of context frames over a live Interpreter, with per-turn checkpoint
// and inventory bookkeeping.
//
// The bottom frame is always the freshly started game (empty Command); Apply
// pushes one frame per command, terminal outcomes included, and Backtrack
// pops exactly one.
type Session interface {
	// Apply types command, classifies the response, captures the per-turn
	// bookkeeping (checkpoint, inventory) for non-terminal outcomes, and
	// pushes the resulting frame.
	Apply(ctx context.Context, command string) (domain.Frame, error)

	// Backtrack rewinds the interpreter to the state before the newest
	// frame, preferring an in-game undo and falling back to a checkpoint
	// restore, then deletes that frame's checkpoint file and pops it. The
	// frame is popped even when the rewind itself fails, so callers can
	// keep unwinding; the returned flag reports that the restore fallback
	// ran.
	Backtrack(ctx context.Context) (restored bool, err error)

	// EnsureCheckpoint returns the newest frame's checkpoint, capturing one
	// first if the frame has none (per-turn saving may be off, or the
	// per-turn save may have failed).
	EnsureCheckpoint(ctx context.Context) (string, error)

	// Snapshot returns the resolved current state for legality predicates.
	Snapshot() domain.Snapshot

	// Depth returns the number of commands applied since game start.
	Depth() int

	// Strand returns the commands applied so far, oldest first.
	Strand() domain.Strand

	// Frames returns the resolved history, game start first. Room,
	// inventory and extras inherit from older frames where a turn did not
	// observe them; commands, outputs, outcomes and checkpoints are always
	// the frame's own.
	Frames() []domain.Frame

	// Close shuts the interpreter down and removes any checkpoint files
	// still owned by live frames.
	Close(ctx context.Context) error
}
