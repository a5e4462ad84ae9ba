package session_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
	"github.com/patrick-brian-mooney/IF-utils/pkg/session"
)

// fakeTerp scripts interpreter behavior without a child process. Save writes
// a real file so checkpoint lifecycle assertions can watch the file system.
type fakeTerp struct {
	opening    string
	respond    func(command string) string
	undoErr    func() error
	restoreErr error

	commands    []string
	saves       []string
	restores    []string
	undos       int
	transcripts []string
	down        bool
}

func (f *fakeTerp) Opening(context.Context) (string, error) {
	if f.down {
		return "", domain.ErrNotRunning
	}
	return f.opening, nil
}

func (f *fakeTerp) ProcessCommand(_ context.Context, command string, _ bool) (string, error) {
	if f.down {
		return "", domain.ErrNotRunning
	}
	f.commands = append(f.commands, command)
	if f.respond == nil {
		return "", nil
	}
	return f.respond(command), nil
}

func (f *fakeTerp) Save(_ context.Context, path string) error {
	if f.down {
		return domain.ErrNotRunning
	}
	f.saves = append(f.saves, path)
	return os.WriteFile(path, []byte("state"), 0o644)
}

func (f *fakeTerp) Restore(_ context.Context, path string) error {
	if f.down {
		return domain.ErrNotRunning
	}
	f.restores = append(f.restores, path)
	return f.restoreErr
}

func (f *fakeTerp) Undo(context.Context) error {
	if f.down {
		return domain.ErrNotRunning
	}
	f.undos++
	if f.undoErr != nil {
		return f.undoErr()
	}
	return nil
}

func (f *fakeTerp) StartTranscript(_ context.Context, path string) error {
	f.transcripts = append(f.transcripts, path)
	return nil
}

func (f *fakeTerp) Running() bool { return !f.down }

func (f *fakeTerp) Shutdown(context.Context) error {
	f.down = true
	return nil
}

type recordingReporter struct {
	mu    sync.Mutex
	kinds []string
}

func (r *recordingReporter) Report(kind string, _ map[string]any) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	return ""
}

func (r *recordingReporter) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.kinds...)
}

func gameScript(command string) string {
	switch command {
	case "north":
		return "Balcony\nYou step out into the evening air."
	case "wait":
		return "Time passes."
	case "jump":
		return "*** You have failed ***"
	case "inventory":
		return "You are carrying:\n  a brass lantern"
	default:
		return "That's not a verb I recognise."
	}
}

func newProfile(t *testing.T, mutate func(*game.Builder)) *game.Profile {
	t.Helper()
	b := game.NewBuilder("fixture").
		Rooms("library", "balcony").
		Phrases(game.Phrases{
			Failure: []string{"*** you have failed ***"},
			Success: []string{"*** you win ***"},
		}).
		Command("north").
		Command("wait").
		Command("jump").
		Extractor("clock", "4:")
	if mutate != nil {
		mutate(b)
	}
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func startSession(t *testing.T, terp *fakeTerp, p *game.Profile, dir string, opts ...session.Option) *session.Session {
	t.Helper()
	base := []session.Option{session.WithWorkDir(dir), session.WithCheckpointDir(dir)}
	s, err := session.New(context.Background(), terp, p, append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func TestNewBootstrap(t *testing.T) {
	terp := &fakeTerp{
		opening: "THE MANSE\nAn interactive fright.\n\nLibrary  4:05\nShelves sag around you.",
		respond: gameScript,
	}
	s := startSession(t, terp, newProfile(t, nil), t.TempDir())

	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, "library", s.CurrentRoom())
	assert.Empty(t, s.Strand())
	assert.Equal(t, []string{"inventory"}, terp.commands,
		"only the inventory query goes through the command channel at start")
	assert.Equal(t, 1, terp.undos, "the inventory query must be neutralized")

	frames := s.Frames()
	require.Len(t, frames, 1)
	assert.Empty(t, frames[0].Command)
	assert.Equal(t, 1, frames[0].Turn)
	assert.Equal(t, domain.OutcomeContinuing, frames[0].Outcome)
	assert.Equal(t, []string{"a brass lantern"}, frames[0].Inventory)
	assert.Equal(t, "4:05", frames[0].Extras["clock"])
	require.True(t, frames[0].HasCheckpoint())
	assert.FileExists(t, frames[0].Checkpoint)
}

func TestNewRequiresResolvedProfile(t *testing.T) {
	_, err := session.New(context.Background(), &fakeTerp{}, &game.Profile{Name: "raw"})
	assert.ErrorIs(t, err, domain.ErrProfileInvalid)

	_, err = session.New(context.Background(), nil, newProfile(t, nil))
	assert.Error(t, err)
}

func TestNewSweepsStaleCheckpoints(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "leftover.sav")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))

	terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
	s := startSession(t, terp, newProfile(t, nil), dir)

	assert.NoFileExists(t, stale, "stale checkpoints are swept at bootstrap")
	assert.FileExists(t, unrelated, "only checkpoint files are touched")
	assert.FileExists(t, s.Frames()[0].Checkpoint, "the live start checkpoint survives the sweep")
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("continuing move gets full bookkeeping", func(t *testing.T) {
		terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
		s := startSession(t, terp, newProfile(t, nil), t.TempDir())

		frame, err := s.Apply(ctx, "north")
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeContinuing, frame.Outcome)
		assert.Equal(t, "balcony", frame.Room)
		assert.Equal(t, 2, frame.Turn)
		require.True(t, frame.HasCheckpoint())
		assert.FileExists(t, frame.Checkpoint)

		assert.Equal(t, 1, s.Depth())
		assert.Equal(t, domain.Strand{"north"}, s.Strand())
		assert.Equal(t, "north", s.LastCommand())
		assert.Equal(t, "NORTH.", s.Walkthrough())
		assert.Equal(t, "balcony", s.CurrentRoom())
	})

	t.Run("terminal move skips bookkeeping", func(t *testing.T) {
		terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
		s := startSession(t, terp, newProfile(t, nil), t.TempDir())
		saves := len(terp.saves)

		frame, err := s.Apply(ctx, "jump")
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeFailure, frame.Outcome)
		assert.False(t, frame.HasCheckpoint())
		assert.Nil(t, frame.Inventory)
		assert.Len(t, terp.saves, saves, "no checkpoint after a terminal move")
		assert.Equal(t, "jump", terp.commands[len(terp.commands)-1],
			"no inventory query after a terminal move")
	})

	t.Run("mistake is terminal too", func(t *testing.T) {
		terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
		s := startSession(t, terp, newProfile(t, nil), t.TempDir())

		frame, err := s.Apply(ctx, "xyzzy")
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeMistake, frame.Outcome)
		assert.False(t, frame.HasCheckpoint())
	})

	t.Run("dead interpreter surfaces and leaves the stack alone", func(t *testing.T) {
		terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
		s := startSession(t, terp, newProfile(t, nil), t.TempDir())
		terp.down = true

		_, err := s.Apply(ctx, "north")
		assert.ErrorIs(t, err, domain.ErrNotRunning)
		assert.Equal(t, 0, s.Depth())
	})
}

func TestInventoryInheritance(t *testing.T) {
	calls := 0
	terp := &fakeTerp{
		opening: "Library\nShelves sag around you.",
		respond: func(command string) string {
			if command == "inventory" {
				calls++
				if calls == 1 {
					return "You are carrying:\n  a rope"
				}
				return ""
			}
			return gameScript(command)
		},
	}
	rep := &recordingReporter{}
	s := startSession(t, terp, newProfile(t, nil), t.TempDir(), session.WithReporter(rep))

	_, err := s.Apply(context.Background(), "north")
	require.NoError(t, err)

	assert.Equal(t, []string{"cannot_get_inventory"}, rep.seen())
	frames := s.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, []string{"a rope"}, frames[1].Inventory, "an unusable answer inherits the previous reading")
	assert.Equal(t, []string{"a rope"}, s.Inventory())
	assert.True(t, s.Has("rope"))
	assert.False(t, s.Has("lantern"))
}

func TestFramesResolveInheritance(t *testing.T) {
	terp := &fakeTerp{opening: "Library  4:05\nShelves sag around you.", respond: gameScript}
	s := startSession(t, terp, newProfile(t, nil), t.TempDir())
	ctx := context.Background()

	_, err := s.Apply(ctx, "wait")
	require.NoError(t, err)
	_, err = s.Apply(ctx, "north")
	require.NoError(t, err)

	frames := s.Frames()
	require.Len(t, frames, 3)
	assert.Equal(t, "library", frames[1].Room, "wait reveals no room, so the opening's is inherited")
	assert.Equal(t, "4:05", frames[1].Extras["clock"])
	assert.Equal(t, "balcony", frames[2].Room, "a frame's own observation wins")

	snap := s.Snapshot()
	assert.Equal(t, "balcony", snap.Room)
	assert.Equal(t, domain.Strand{"wait", "north"}, snap.Trail)
	assert.Equal(t, []string{"a brass lantern"}, snap.Inventory)
}

func TestBacktrack(t *testing.T) {
	ctx := context.Background()
	quiet := func(b *game.Builder) { b.InventoryTracking(false) }

	t.Run("undo is preferred", func(t *testing.T) {
		terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
		s := startSession(t, terp, newProfile(t, quiet), t.TempDir())
		_, err := s.Apply(ctx, "north")
		require.NoError(t, err)
		top := s.Frames()[1].Checkpoint
		require.FileExists(t, top)

		restored, err := s.Backtrack(ctx)
		require.NoError(t, err)
		assert.False(t, restored)
		assert.Equal(t, 1, terp.undos)
		assert.Empty(t, terp.restores)
		assert.Equal(t, 0, s.Depth())
		assert.Equal(t, "library", s.CurrentRoom())
		assert.NoFileExists(t, top, "popping a frame deletes its checkpoint")
		assert.FileExists(t, s.Frames()[0].Checkpoint)
	})

	t.Run("refused undo falls back to the parent checkpoint", func(t *testing.T) {
		terp := &fakeTerp{
			opening: "Library\nShelves sag around you.",
			respond: gameScript,
			undoErr: func() error { return domain.ErrCannotUndo },
		}
		s := startSession(t, terp, newProfile(t, quiet), t.TempDir())
		start := s.Frames()[0].Checkpoint
		_, err := s.Apply(ctx, "north")
		require.NoError(t, err)

		restored, err := s.Backtrack(ctx)
		require.NoError(t, err)
		assert.True(t, restored)
		assert.Equal(t, []string{start}, terp.restores)
		assert.Equal(t, 0, s.Depth())
	})

	t.Run("at game start there is nothing to pop", func(t *testing.T) {
		terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
		s := startSession(t, terp, newProfile(t, quiet), t.TempDir())

		_, err := s.Backtrack(ctx)
		assert.ErrorIs(t, err, domain.ErrNoCheckpoint)
		assert.Equal(t, 0, s.Depth())
	})

	t.Run("frame pops even when the rewind fails", func(t *testing.T) {
		terp := &fakeTerp{
			opening:    "Library\nShelves sag around you.",
			respond:    gameScript,
			undoErr:    func() error { return domain.ErrCannotUndo },
			restoreErr: domain.ErrRestoreFailed,
		}
		s := startSession(t, terp, newProfile(t, quiet), t.TempDir())
		_, err := s.Apply(ctx, "north")
		require.NoError(t, err)

		restored, err := s.Backtrack(ctx)
		assert.True(t, restored)
		assert.ErrorIs(t, err, domain.ErrRestoreFailed)
		assert.Equal(t, 0, s.Depth(), "the stack must keep unwinding")
	})

	t.Run("no checkpoint anywhere means no fallback", func(t *testing.T) {
		bare := func(b *game.Builder) { b.Saving(false); b.InventoryTracking(false) }
		terp := &fakeTerp{
			opening: "Library\nShelves sag around you.",
			respond: gameScript,
			undoErr: func() error { return domain.ErrCannotUndo },
		}
		s := startSession(t, terp, newProfile(t, bare), t.TempDir())
		_, err := s.Apply(ctx, "north")
		require.NoError(t, err)

		restored, err := s.Backtrack(ctx)
		assert.False(t, restored)
		assert.ErrorIs(t, err, domain.ErrNoCheckpoint)
		assert.Equal(t, 0, s.Depth())
	})
}

func TestEnsureCheckpoint(t *testing.T) {
	ctx := context.Background()
	bare := func(b *game.Builder) { b.Saving(false); b.InventoryTracking(false) }
	terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
	s := startSession(t, terp, newProfile(t, bare), t.TempDir())

	_, err := s.Apply(ctx, "north")
	require.NoError(t, err)
	require.False(t, s.Frames()[1].HasCheckpoint())

	path, err := s.EnsureCheckpoint(ctx)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, path, s.Frames()[1].Checkpoint)

	again, err := s.EnsureCheckpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, path, again, "an existing checkpoint is reused")
	assert.Len(t, terp.saves, 1)

	restored, err := s.Backtrack(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.NoFileExists(t, path, "an ensured checkpoint is owned by its frame")
}

func TestNativeTranscript(t *testing.T) {
	dir := t.TempDir()
	terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
	s := startSession(t, terp, newProfile(t, func(b *game.Builder) { b.Transcript(true) }), dir)

	require.Len(t, terp.transcripts, 1)
	assert.Equal(t, terp.transcripts[0], s.TranscriptFile())
	assert.Equal(t, dir, filepath.Dir(s.TranscriptFile()))
	assert.True(t, strings.HasPrefix(filepath.Base(s.TranscriptFile()), "transcript_"))
}

func TestTranscriptReconstruction(t *testing.T) {
	terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
	s := startSession(t, terp, newProfile(t, nil), t.TempDir())
	_, err := s.Apply(context.Background(), "north")
	require.NoError(t, err)

	text := s.Transcript()
	assert.True(t, strings.HasPrefix(text, "Library"), "the opening block comes first")
	assert.Contains(t, text, "> NORTH")
	assert.Contains(t, text, "You step out into the evening air.")
}

func TestClose(t *testing.T) {
	terp := &fakeTerp{opening: "Library\nShelves sag around you.", respond: gameScript}
	s := startSession(t, terp, newProfile(t, nil), t.TempDir())
	_, err := s.Apply(context.Background(), "north")
	require.NoError(t, err)

	frames := s.Frames()
	require.NoError(t, s.Close(context.Background()))
	assert.False(t, terp.Running())
	for _, f := range frames {
		assert.NoFileExists(t, f.Checkpoint)
	}
	assert.Equal(t, "NORTH.", s.Walkthrough(), "the history stays readable after Close")
}
