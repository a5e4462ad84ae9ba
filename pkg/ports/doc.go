/*
Package ports defines the driven ports (interfaces) for the exploration
engine.

These interfaces decouple the search loop from concrete infrastructure, so
the same engine can drive a real interpreter process or an in-memory fake,
and can keep its progress table in a flat file, in memory, or in Redis.

# Key Interfaces

  - Interpreter: drives the story-file interpreter over its console streams.
  - Session: the play-history stack the engine explores through.
  - ProgressStore: persists the explored-strand table between runs.
  - Reporter: documents recoverable problem situations.

RunProgressStoreContract is exported so adapter packages can prove their
store honors the exact semantics the engine depends on.
*/
package ports
