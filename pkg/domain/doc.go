/*
Package domain contains the core domain models for the exploration harness.

It defines the vocabulary shared by every other package: the structured
outcome of a single command, the path taken so far, the persisted record of
explored strands, and the artifacts produced when a winning path is found.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Frame: the structured result of executing one command (outcome flags,
    extracted room/inventory, checkpoint reference).
  - Strand: an ordered command sequence from the initial state, with a
    canonical string key used to index progress data.
  - StrandStats / Progress: cumulative run statistics and the table of
    fully explored strands that survives process restarts.
  - Snapshot: the read-only state view consulted by legality predicates.
  - Solution: the ordered frames from game start through a winning move.
*/
package domain
