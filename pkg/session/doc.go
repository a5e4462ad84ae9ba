// Package session keeps the play history of one live interpreter run: a
// stack of context frames over a ports.Interpreter, with the per-turn
// checkpoint and inventory bookkeeping the search engine relies on to
// backtrack.
//
// A Session is strictly sequential. The interpreter process and its save
// files are a single non-reentrant resource, so nothing here is safe for
// concurrent use; the engine drives one session from one goroutine.
package session
