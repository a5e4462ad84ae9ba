/*
Package ifexplore drives a text-adventure interpreter through every command
sequence a game profile allows, hunting for winning paths.

It wraps a terminal interpreter (dfrotz, glulxe, anything that talks over
stdin/stdout) in a non-blocking driver, classifies each response against the
profile's phrase tables, and walks the game tree depth-first, rewinding with
in-game UNDO or save-file restores. Explored subtrees are recorded in a
progress store, so a run that is stopped, crashes, or runs out of weekend
resumes where it left off.

# Concept

The engine treats a game as a tree: each node is a game state, each edge a
typed command. A YAML profile fixes the command vocabulary and the legality
predicates that keep the tree finite (no-repeat, max-uses, in-room, ...).
Everything the engine learns flows out as lifecycle events; everything an
operator needs flows in through a small control handle. This hexagonal split
keeps the search loop testable against a fake interpreter.

# Key Features

  - Resumable exploration: the progress table prunes subtrees finished in
    earlier runs, surviving crashes and restarts.
  - Pluggable persistence: JSON file, in-memory and Redis progress stores,
    with integrity and metrics middleware.
  - Observability: lifecycle hooks, Prometheus metrics, an optional chi
    status server, and JSON problem reports for post-hoc audits.
  - Operator control: cooperative stop, save-soon, runtime verbosity
    adjustment and status snapshots, signal-driven in the CLI.
  - Solution artifacts: every win is written as an ordered frame log, ready
    for `ifexplore solutions show` or a live replay.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		ifexplore "github.com/patrick-brian-mooney/IF-utils"
	)

	func main() {
		eng, err := ifexplore.New("colossal.yaml",
			ifexplore.WithWorkDir("run"),
			ifexplore.WithVerbosity(2),
		)
		if err != nil {
			log.Fatal(err)
		}

		report, err := eng.Run(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("explored %d paths, %d wins, %d moves\n",
			report.Paths(), report.Successes, report.TotalMoves)
	}

The cmd/ifexplore binary wraps the same engine with flags, signals and a
status server; see its help output for the operational surface.
*/
package ifexplore
