package ifexplore_test

import (
	"context"
	"fmt"
	"log"
	"os"

	ifexplore "github.com/patrick-brian-mooney/IF-utils"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/memory"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
)

// ExampleNew demonstrates driving the explorer purely as a Go library,
// with a programmatic profile and an injected interpreter instead of a
// spawned process.
func ExampleNew() {
	dir, err := os.MkdirTemp("", "ifexplore-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// 1. Describe the game in Go instead of YAML.
	profile, err := game.NewBuilder("toy").
		Rooms("cell").
		Command("open door").
		Command("sing", game.NoRepeat()).
		InventoryTracking(false).
		Tuning(game.Tuning{PruneFloor: 1, RetainFloor: 2, TrackWidth: 4}).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Wire the engine with an in-memory progress table and a fake
	// interpreter. A real caller would omit WithInterpreter and let the
	// engine spawn the profile's interpreter binary.
	eng, err := ifexplore.New("",
		ifexplore.WithProfile(profile),
		ifexplore.WithInterpreter(&scriptTerp{}),
		ifexplore.WithStore(memory.NewStore()),
		ifexplore.WithWorkDir(dir),
	)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Explore every reachable command sequence.
	report, err := eng.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("paths %d wins %d moves %d\n", report.Paths(), report.Successes, report.TotalMoves)
	// Output: paths 2 wins 2 moves 3
}

// ExampleReplayer_offline replays a recorded solution from its artifact
// alone, with no interpreter in sight.
func ExampleReplayer_offline() {
	sol := domain.Solution{Frames: []domain.Frame{
		{Output: "Cell"},
		{Command: "open door", Turn: 1, Output: "*** You have won ***"},
	}}

	r := &ifexplore.Replayer{Output: os.Stdout, Offline: true}
	if err := r.Replay(context.Background(), nil, sol); err != nil {
		log.Fatal(err)
	}
	// Output:
	// Cell
	//
	// > OPEN DOOR
	//
	// *** You have won ***
}
