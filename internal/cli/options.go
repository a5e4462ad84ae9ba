// Package cli implements the run command: it wires a fully equipped engine
// from command-line options and drives it to completion, translating POSIX
// signals into engine control along the way.
package cli

// RunOptions carries everything the run command collects from its flags.
// The zero value explores in the current directory with the file store.
type RunOptions struct {
	ProfilePath string

	// WorkDir is the interpreter's working directory and the default
	// parent of the saves, solutions, logs and progress paths. The
	// specific directories below override their defaults individually.
	WorkDir      string
	SavesDir     string
	SolutionsDir string
	LogsDir      string

	// ProgressPath places the file store somewhere other than
	// WorkDir/progress.json. Ignored when another store is selected.
	ProgressPath string

	// RedisAddr selects the Redis store and run lock. The password and
	// database number only matter when it is set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Ephemeral keeps progress in memory only; nothing survives the run.
	Ephemeral bool

	// Listen starts the status API on this address ("", off).
	Listen string

	// Reset wipes stored progress before exploring.
	Reset bool

	// Bundles archives checkpoint files alongside each solution.
	Bundles bool

	Verbosity int
}
