package ports

import "context"

// Interpreter drives a running story-file interpreter over its console
// streams. Implementations own the child process (or a fake standing in for
// one) and expose the small command vocabulary the exploration session needs.
//
// All methods return domain.ErrNotRunning once the driver has been shut down
// or the child has exited underneath it.
type Interpreter interface {
	// Opening reads the game's opening text, waiting patiently for the
	// interpreter to finish printing its banner. Called once, before any
	// command.
	Opening(ctx context.Context) (string, error)

	// ProcessCommand types one command and returns the interpreter's
	// response, prompt marker stripped. When patient is true the driver
	// polls through its whole backoff schedule before concluding that no
	// output is coming; when false an empty first read returns "" at once.
	ProcessCommand(ctx context.Context, command string, patient bool) (string, error)

	// Save makes the interpreter write a save file at path and verifies
	// that it appeared. Returns domain.ErrSaveFailed when the interpreter
	// reports failure or the file never shows up.
	Save(ctx context.Context, path string) error

	// Restore rewinds the interpreter to a save file produced by Save.
	// Returns domain.ErrRestoreFailed when the interpreter reports failure.
	Restore(ctx context.Context, path string) error

	// Undo takes back the most recent turn. Returns domain.ErrCannotUndo
	// when the interpreter refuses or answers with nothing recognizable.
	Undo(ctx context.Context) error

	// StartTranscript asks the interpreter to keep its own transcript at
	// path. Interpreters that silently ignore the script command are
	// tolerated.
	StartTranscript(ctx context.Context, path string) error

	// Running reports whether the driver can still accept commands.
	Running() bool

	// Shutdown quits the interpreter politely, reaps the child process and
	// poisons the driver.
	Shutdown(ctx context.Context) error
}
