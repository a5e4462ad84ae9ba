package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/patrick-brian-mooney/IF-utils/internal/logging"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// transcriptStamp names native transcript files down to the microsecond,
// with colons replaced so the name is portable.
const transcriptStamp = "2006-01-02T15_04_05.000000"

// Session is the play history of one live interpreter run. The bottom frame
// is the freshly started game; Apply pushes one frame per command and
// Backtrack pops exactly one, keeping the interpreter's state and the stack
// in lockstep.
type Session struct {
	terp        ports.Interpreter
	profile     *game.Profile
	evaluator   *game.Evaluator
	checkpoints *Checkpoints
	reporter    ports.Reporter
	logger      *slog.Logger

	workDir    string
	saveDir    string
	transcript string

	frames []domain.Frame
}

var _ ports.Session = (*Session)(nil)

// New starts a session over a running interpreter: it reads the opening
// text, classifies it as the game-start frame (with the usual checkpoint and
// inventory bookkeeping), sweeps stale checkpoint files out of the save
// directory, and, when the profile asks for it, starts the interpreter's own
// transcript.
//
// The profile must already be resolved. The caller keeps ownership of the
// interpreter's lifetime until New returns; afterwards Close shuts it down.
func New(ctx context.Context, terp ports.Interpreter, profile *game.Profile, opts ...Option) (*Session, error) {
	if terp == nil {
		return nil, errors.New("session: interpreter is required")
	}
	if profile == nil || !profile.Resolved() {
		return nil, fmt.Errorf("session: %w: profile must be resolved first", domain.ErrProfileInvalid)
	}

	s := &Session{
		terp:      terp,
		profile:   profile,
		evaluator: game.NewEvaluator(profile),
		reporter:  ports.NopReporter(),
		logger:    logging.NewNop(),
		workDir:   ".",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.saveDir == "" {
		s.saveDir = s.workDir
	}
	s.checkpoints = NewCheckpoints(terp, s.saveDir, s.logger)

	opening, err := terp.Opening(ctx)
	if err != nil {
		return nil, fmt.Errorf("read opening text: %w", err)
	}
	frame, anomalies := s.evaluator.Evaluate("", opening, 1)
	s.document(anomalies, frame)
	if !frame.Outcome.Terminal() {
		s.bookkeeping(ctx, &frame)
	}
	s.frames = append(s.frames, frame)
	s.logger.Info("game started",
		"room", s.CurrentRoom(),
		"outcome", frame.Outcome,
	)

	s.checkpoints.Sweep(s.liveCheckpoints())
	if profile.Transcript {
		s.startTranscript(ctx)
	}
	return s, nil
}

// Apply types command, classifies the response and pushes the resulting
// frame. Non-terminal outcomes get the per-turn bookkeeping the profile asks
// for: a checkpoint save, and an inventory query neutralized by an undo.
func (s *Session) Apply(ctx context.Context, command string) (domain.Frame, error) {
	output, err := s.terp.ProcessCommand(ctx, command, true)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("apply %q: %w", command, err)
	}
	frame, anomalies := s.evaluator.Evaluate(command, output, len(s.frames)+1)
	s.document(anomalies, frame)
	if !frame.Outcome.Terminal() {
		s.bookkeeping(ctx, &frame)
	}
	s.frames = append(s.frames, frame)
	return frame, nil
}

// Backtrack rewinds the interpreter to the state before the newest frame and
// pops it, removing its checkpoint file. The interpreter's undo is tried
// first; when it is refused, the nearest checkpoint at or above the parent
// frame is restored instead, and the returned flag is true.
//
// The frame is popped even when the rewind fails: the stack must keep
// unwinding so sibling branches and ancestors are not orphaned. The error
// tells the caller the interpreter may have drifted from the history.
func (s *Session) Backtrack(ctx context.Context) (bool, error) {
	if len(s.frames) <= 1 {
		return false, fmt.Errorf("backtrack at game start: %w", domain.ErrNoCheckpoint)
	}
	parent := len(s.frames) - 2
	idx, path := s.ancestorCheckpoint(parent)
	restored, rerr := s.checkpoints.UndoOrRestore(ctx, path)
	if restored && rerr == nil && idx != parent {
		s.logger.Warn("restored a checkpoint older than the parent turn",
			"turns_back", parent-idx,
		)
	}

	top := len(s.frames) - 1
	popped := s.frames[top]
	s.checkpoints.Discard(popped.Checkpoint)
	s.frames = s.frames[:top]

	if rerr != nil {
		return restored, fmt.Errorf("rewind %q: %w", popped.Command, rerr)
	}
	return restored, nil
}

// EnsureCheckpoint returns the newest frame's checkpoint, capturing one
// first if the frame has none.
func (s *Session) EnsureCheckpoint(ctx context.Context) (string, error) {
	top := len(s.frames) - 1
	if s.frames[top].HasCheckpoint() {
		return s.frames[top].Checkpoint, nil
	}
	path, err := s.checkpoints.Capture(ctx)
	if err != nil {
		return "", err
	}
	s.frames[top].Checkpoint = path
	return path, nil
}

// Snapshot returns the resolved current state for legality predicates. Room
// and inventory come from the nearest frame that observed them.
func (s *Session) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{Trail: s.Strand()}
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if snap.Room == "" && f.Room != "" {
			snap.Room = f.Room
		}
		if snap.Inventory == nil && f.Inventory != nil {
			snap.Inventory = append([]string(nil), f.Inventory...)
		}
		if snap.Room != "" && snap.Inventory != nil {
			break
		}
	}
	return snap
}

// Depth returns the number of commands applied since game start.
func (s *Session) Depth() int {
	return len(s.frames) - 1
}

// Strand returns the commands applied so far, oldest first. The game-start
// frame contributes nothing.
func (s *Session) Strand() domain.Strand {
	if len(s.frames) <= 1 {
		return nil
	}
	trail := make(domain.Strand, 0, len(s.frames)-1)
	for _, f := range s.frames[1:] {
		trail = append(trail, f.Command)
	}
	return trail
}

// Frames returns the resolved history, game start first. Room, inventory and
// extras inherit from older frames where a turn did not observe them; the
// command, output, outcome and checkpoint are always the frame's own.
func (s *Session) Frames() []domain.Frame {
	out := make([]domain.Frame, len(s.frames))
	room := ""
	var inventory []string
	extras := make(map[string]string)
	for i, f := range s.frames {
		if f.Room != "" {
			room = f.Room
		}
		if f.Inventory != nil {
			inventory = f.Inventory
		}
		for k, v := range f.Extras {
			extras[k] = v
		}

		resolved := f
		resolved.Room = room
		if inventory != nil {
			resolved.Inventory = append([]string(nil), inventory...)
		}
		if len(extras) > 0 {
			resolved.Extras = make(map[string]string, len(extras))
			for k, v := range extras {
				resolved.Extras[k] = v
			}
		}
		out[i] = resolved
	}
	return out
}

// CurrentRoom returns the most recently observed room, or "[unknown]" when
// no output has named one yet.
func (s *Session) CurrentRoom() string {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Room != "" {
			return s.frames[i].Room
		}
	}
	return "[unknown]"
}

// LastCommand returns the newest frame's command, or "" at game start.
func (s *Session) LastCommand() string {
	return s.frames[len(s.frames)-1].Command
}

// Inventory returns the most recently observed inventory.
func (s *Session) Inventory() []string {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Inventory != nil {
			return append([]string(nil), s.frames[i].Inventory...)
		}
	}
	return nil
}

// Has reports whether the current inventory contains an item matching what,
// compared case-insensitively as a substring.
func (s *Session) Has(what string) bool {
	return s.Snapshot().Has(what)
}

// Walkthrough returns the canonical one-line form of the history so far.
func (s *Session) Walkthrough() string {
	return s.Strand().Key()
}

// Transcript reconstructs a readable play transcript from the recorded
// frames.
func (s *Session) Transcript() string {
	return domain.Transcript(s.frames)
}

// TranscriptFile returns the path of the interpreter's own transcript, or ""
// when none was started.
func (s *Session) TranscriptFile() string {
	return s.transcript
}

// Close shuts the interpreter down and removes the checkpoint files still
// owned by live frames. The history itself stays readable afterwards.
func (s *Session) Close(ctx context.Context) error {
	err := s.terp.Shutdown(ctx)
	for _, f := range s.frames {
		s.checkpoints.Discard(f.Checkpoint)
	}
	return err
}

// bookkeeping captures the per-turn extras for a non-terminal frame: a
// checkpoint save and an inventory reading. Neither failure stops play; a
// frame without a checkpoint backtracks via undo, and a missing inventory
// inherits the previous one.
func (s *Session) bookkeeping(ctx context.Context, frame *domain.Frame) {
	if s.profile.SaveTurns() {
		path, err := s.checkpoints.Capture(ctx)
		if err != nil {
			s.logger.Warn("turn checkpoint not captured", "turn", frame.Turn, "err", err)
		} else {
			frame.Checkpoint = path
		}
	}
	if s.profile.InventoryTurns() {
		frame.Inventory = s.fetchInventory(ctx, frame.Turn)
	}
}

// fetchInventory queries the inventory and undoes the query, since the query
// itself consumes a game turn. A nil result means the answer was unusable;
// the frame then inherits the previous reading.
func (s *Session) fetchInventory(ctx context.Context, turn int) []string {
	output, err := s.terp.ProcessCommand(ctx, "inventory", true)
	if err != nil {
		s.logger.Warn("inventory query failed", "turn", turn, "err", err)
		return nil
	}
	if err := s.terp.Undo(ctx); err != nil {
		s.logger.Warn("unable to undo the inventory query, game state may have drifted",
			"turn", turn, "err", err)
	}
	items := s.evaluator.ParseInventory(output)
	if len(items) == 0 {
		s.report("cannot_get_inventory", map[string]any{
			"turn":   turn,
			"output": output,
		})
		return nil
	}
	return items
}

// startTranscript asks the interpreter for its own transcript inside the
// working directory. Interpreters that refuse are tolerated.
func (s *Session) startTranscript(ctx context.Context) {
	stamp := time.Now().Format(transcriptStamp)
	path := filepath.Join(s.workDir, "transcript_"+stamp)
	for n := 2; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			break
		}
		path = filepath.Join(s.workDir, fmt.Sprintf("transcript_%s.%d", stamp, n))
	}
	if err := s.terp.StartTranscript(ctx, path); err != nil {
		s.logger.Warn("could not start the interpreter transcript", "path", path, "err", err)
		return
	}
	s.transcript = path
	s.logger.Info("interpreter transcript started", "path", path)
}

// liveCheckpoints returns the checkpoint paths owned by frames on the stack.
func (s *Session) liveCheckpoints() map[string]bool {
	keep := make(map[string]bool, len(s.frames))
	for _, f := range s.frames {
		if f.HasCheckpoint() {
			keep[f.Checkpoint] = true
		}
	}
	return keep
}

// ancestorCheckpoint walks down from frame index from towards game start and
// returns the index and path of the first checkpoint found, or (-1, "").
func (s *Session) ancestorCheckpoint(from int) (int, string) {
	for i := from; i >= 0; i-- {
		if s.frames[i].HasCheckpoint() {
			return i, s.frames[i].Checkpoint
		}
	}
	return -1, ""
}

// document files one problem report per anomaly the evaluator flagged.
func (s *Session) document(anomalies []game.Anomaly, frame domain.Frame) {
	for _, a := range anomalies {
		s.report(a.Kind, map[string]any{
			"line":    a.Line,
			"command": frame.Command,
			"output":  frame.Output,
			"turn":    frame.Turn,
		})
	}
}

func (s *Session) report(kind string, data map[string]any) {
	path := s.reporter.Report(kind, data)
	if path != "" {
		s.logger.Warn("problem documented", "kind", kind, "report", path)
		return
	}
	s.logger.Warn("problem documented", "kind", kind)
}
