package ifexplore_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ifexplore "github.com/patrick-brian-mooney/IF-utils"
	"github.com/patrick-brian-mooney/IF-utils/internal/testutils"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/memory"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
)

// scriptTerp is a canned one-room game: OPEN DOOR wins, anything else keeps
// the game going. It rewinds honestly through save files and undo, counting
// turns as its whole state.
type scriptTerp struct {
	turns int
	down  bool
}

func (f *scriptTerp) Opening(context.Context) (string, error) {
	if f.down {
		return "", domain.ErrNotRunning
	}
	return "Cell\nA bare cell with a heavy door.", nil
}

func (f *scriptTerp) ProcessCommand(_ context.Context, command string, _ bool) (string, error) {
	if f.down {
		return "", domain.ErrNotRunning
	}
	f.turns++
	if command == "open door" {
		return "The door swings wide.\n\n*** You have won ***", nil
	}
	return "Cell\nYou sing tunelessly. The door stays shut.", nil
}

func (f *scriptTerp) Save(_ context.Context, path string) error {
	if f.down {
		return domain.ErrNotRunning
	}
	data, _ := json.Marshal(map[string]int{"turns": f.turns})
	return os.WriteFile(path, data, 0o644)
}

func (f *scriptTerp) Restore(_ context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ErrRestoreFailed
	}
	var st map[string]int
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.ErrRestoreFailed
	}
	f.turns = st["turns"]
	return nil
}

func (f *scriptTerp) Undo(context.Context) error {
	if f.turns == 0 {
		return domain.ErrCannotUndo
	}
	f.turns--
	return nil
}

func (f *scriptTerp) StartTranscript(context.Context, string) error { return nil }

func (f *scriptTerp) Running() bool { return !f.down }

func (f *scriptTerp) Shutdown(context.Context) error {
	f.down = true
	return nil
}

func facadeProfile(t *testing.T) *game.Profile {
	t.Helper()
	p, err := game.NewBuilder("toy").
		Rooms("cell").
		Command("open door").
		Command("sing", game.NoRepeat()).
		InventoryTracking(false).
		Tuning(game.Tuning{PruneFloor: 1, RetainFloor: 2, TrackWidth: 4}).
		Build()
	require.NoError(t, err)
	return p
}

const facadeDoc = `
name: toy
interpreter: dfrotz
story_file: toy.z5
rooms: [cell]
inventory_every_turn: false
commands:
  - text: open door
  - text: sing
    when:
      - name: no-repeat
`

func TestNewLoadsAProfileDocument(t *testing.T) {
	path := testutils.WriteProfile(t, facadeDoc)
	dir := t.TempDir()

	eng, err := ifexplore.New(path, ifexplore.WithWorkDir(dir))
	require.NoError(t, err)

	assert.True(t, eng.Profile().Resolved())
	assert.Equal(t, "toy", eng.Name)
	for _, sub := range []string{"saves", "solutions", "logs"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir(), sub)
	}
}

func TestNewRequiresAProfile(t *testing.T) {
	_, err := ifexplore.New("")
	require.ErrorContains(t, err, "profile path is required")
}

func TestNewRejectsAFileWhereADirectoryShouldBe(t *testing.T) {
	path := testutils.WriteFile(t, "workdir", "not a directory")
	_, err := ifexplore.New("",
		ifexplore.WithProfile(facadeProfile(t)),
		ifexplore.WithWorkDir(path))
	require.ErrorContains(t, err, "not a directory")
}

func TestRunExploresThroughTheFacade(t *testing.T) {
	dir := t.TempDir()
	store := memory.NewStore()

	eng, err := ifexplore.New("",
		ifexplore.WithProfile(facadeProfile(t)),
		ifexplore.WithInterpreter(&scriptTerp{}),
		ifexplore.WithStore(store),
		ifexplore.WithWorkDir(dir),
	)
	require.NoError(t, err)

	report, err := eng.Run(context.Background())
	require.NoError(t, err)

	// OPEN DOOR wins at once; SING then OPEN DOOR wins again; NoRepeat
	// stops a second SING. Two wins, three moves, nothing fatal.
	assert.Equal(t, int64(2), report.Successes)
	assert.Zero(t, report.DeadEnds)
	assert.Equal(t, int64(3), report.TotalMoves)
	assert.Equal(t, int64(2), report.Paths())

	sols, err := ifexplore.ListSolutions(eng.SolutionsDir())
	require.NoError(t, err)
	require.Len(t, sols, 2)
	walkthroughs := []string{sols[0].Solution.Walkthrough(), sols[1].Solution.Walkthrough()}
	assert.ElementsMatch(t, []string{"OPEN DOOR.", "SING. OPEN DOOR."}, walkthroughs)

	table, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, table.Entries, "SING.")
}

func TestRunPersistsToTheDefaultFileStore(t *testing.T) {
	dir := t.TempDir()

	eng, err := ifexplore.New("",
		ifexplore.WithProfile(facadeProfile(t)),
		ifexplore.WithInterpreter(&scriptTerp{}),
		ifexplore.WithWorkDir(dir),
	)
	require.NoError(t, err)

	_, err = eng.Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "progress.json"))
}

func TestStoppedControlShortCircuitsRun(t *testing.T) {
	eng, err := ifexplore.New("",
		ifexplore.WithProfile(facadeProfile(t)),
		ifexplore.WithInterpreter(&scriptTerp{}),
		ifexplore.WithStore(memory.NewStore()),
		ifexplore.WithWorkDir(t.TempDir()),
	)
	require.NoError(t, err)

	eng.Control().Stop()
	report, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Paths())
}

func TestListSolutionsWithoutADirectory(t *testing.T) {
	sols, err := ifexplore.ListSolutions(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, sols)
}

func TestLoadSolutionRejectsGarbage(t *testing.T) {
	path := testutils.WriteFile(t, "solution_bad.json", "{ not json")
	_, err := ifexplore.LoadSolution(path)
	require.ErrorContains(t, err, "parse solution")
}
