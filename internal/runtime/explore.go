package runtime

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// verboseReportInterval replaces the tuned report interval at verbosity 2
// and above.
const verboseReportInterval = 20

// explore exhausts the subtree rooted at the session's current state.
//
// The node sequence is fixed: prune check, discretionary save, checkpoint,
// then every allowed command in declaration order. Keeping the order
// deterministic means two runs over the same game walk the same tree, which
// is what lets the progress table from one run prune the next.
func (e *Engine) explore(ctx context.Context) {
	if e.halted(ctx) {
		return
	}

	snap := e.session.Snapshot()
	strand := snap.Trail
	depth := snap.Depth()
	e.node.Store(&nodeInfo{depth: depth, room: snap.Room, strand: strand.Key()})

	tuning := e.profile.Tuning
	if e.progress.Covered(strand, tuning.PruneFloor) {
		e.pruned.Add(1)
		e.emitNode(strand, depth, snap.Room, true)
		if e.chatty(3) {
			e.logger.Debug("subtree already explored", "strand", strand.Key(), "depth", depth)
		}
		return
	}
	e.emitNode(strand, depth, snap.Room, false)

	operator := e.control.consumeSave()
	if operator || e.clock().Sub(e.lastSave) >= tuning.SaveInterval.Std() {
		e.saveProgress(ctx)
	}
	if operator {
		// The table just saved stops at the last recorded strand. Carry
		// the request forward so the next strand to finish is recorded
		// too, even past the track width: that is the frontier the
		// operator wants checkpointed.
		e.forceRecord.Store(true)
	}

	if _, err := e.session.EnsureCheckpoint(ctx); err != nil {
		e.logger.Warn("no checkpoint for this node, rewinds here depend on undo",
			"depth", depth, "err", err)
	}

	for i := range e.profile.Commands {
		if e.halted(ctx) {
			return
		}
		cmd := &e.profile.Commands[i]
		if !cmd.Allowed(snap) {
			continue
		}
		e.runCommand(ctx, cmd.Text, depth)
	}
	if e.halted(ctx) {
		// Some descendant quit early, so this subtree is not exhausted
		// and must not be recorded as such.
		return
	}

	key := strand.Key()
	_, recorded := e.progress.Entries[key]
	force := e.forceRecord.CompareAndSwap(true, false) || e.control.consumeSave()
	switch {
	case depth == 0:
		// The root has no key of its own; Run persists the final table.
	case (depth <= tuning.TrackWidth && !recorded) || force:
		e.recordStrand(ctx, strand)
	}
}

// runCommand plays one command from the current node, classifies the result,
// recurses while the game keeps going, and rewinds before returning. Whatever
// goes wrong inside the attempt is converted into a documented dead end; a
// single bad move never takes down the run.
func (e *Engine) runCommand(ctx context.Context, command string, depth int) {
	var pushed, documented, emitted bool

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				documented = true
				e.document("command_panic", map[string]any{
					"command": command,
					"strand":  e.session.Strand().Key(),
					"panic":   fmt.Sprint(r),
					"stack":   string(debug.Stack()),
				})
			}
		}()

		frame, err := e.session.Apply(ctx, command)
		if err != nil {
			return err
		}
		pushed = true
		e.totalMoves.Add(1)
		if e.chatty(3) {
			e.logger.Debug("command tried",
				"command", command, "outcome", frame.Outcome, "depth", depth+1)
		}
		if e.chatty(4) {
			e.logger.Debug("command output", "command", command, "output", frame.Output)
		}
		emitted = true
		e.emitCommand(command, frame.Outcome, depth+1, false)

		switch frame.Outcome {
		case domain.OutcomeSuccess:
			e.recordSolution(ctx)
			e.successes.Add(1)
		case domain.OutcomeMistake, domain.OutcomeFailure:
			e.deadEnds.Add(1)
		default:
			e.explore(ctx)
		}
		return nil
	}()

	if err != nil && !isShuttingDown(err) {
		e.deadEnds.Add(1)
		if !emitted {
			e.emitCommand(command, domain.OutcomeFailure, depth+1, true)
		}
		switch {
		case errors.Is(err, domain.ErrNotRunning):
			// Every move from here on would fail the same way; stop and
			// keep the table instead of grinding out garbage.
			e.logger.Error("interpreter is gone, stopping the run",
				"command", command, "err", err)
			if !documented {
				e.document("interpreter_died", map[string]any{
					"command": command,
					"strand":  e.session.Strand().Key(),
					"error":   err.Error(),
				})
			}
			e.control.Stop()
		case !documented:
			e.document("command_failed", map[string]any{
				"command": command,
				"strand":  e.session.Strand().Key(),
				"error":   err.Error(),
			})
		}
	}

	if pushed {
		restored, rerr := e.session.Backtrack(ctx)
		if restored {
			e.restores.Add(1)
		}
		e.emitRewind(command, depth+1, restored)
		if rerr != nil {
			// A failed rewind leaves the interpreter in an unknown state;
			// every sibling tried after it would be charged to the wrong
			// node. Stop cleanly while the table is still honest.
			e.logger.Error("rewind failed, game state is no longer trustworthy",
				"command", command, "err", rerr)
			e.document("rewind_failed", map[string]any{
				"command": command,
				"strand":  e.session.Strand().Key(),
				"error":   rerr.Error(),
			})
			e.control.Stop()
		}
	}

	e.maybeChatter(ctx)
}

// isShuttingDown separates cancellation from genuine move failures.
func isShuttingDown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// maybeChatter prints a progress summary every ReportInterval complete
// paths (every twenty when the operator has asked for more noise).
func (e *Engine) maybeChatter(ctx context.Context) {
	paths := e.paths()
	if paths == 0 || paths == e.lastChat || e.control.Verbosity() < 1 {
		return
	}
	interval := e.profile.Tuning.ReportInterval
	if e.control.Verbosity() >= 2 {
		interval = verboseReportInterval
	}
	if interval <= 0 || paths%interval != 0 {
		return
	}
	e.lastChat = paths
	n := e.node.Load()
	e.logger.InfoContext(ctx, "progress",
		"paths", paths,
		"dead_ends", e.deadEnds.Load(),
		"successes", e.successes.Load(),
		"pruned", e.pruned.Load(),
		"moves", e.totalMoves.Load(),
		"depth", n.depth,
		"room", n.room,
		"elapsed", e.elapsed().Round(elapsedResolution))
}
