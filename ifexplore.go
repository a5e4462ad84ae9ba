package ifexplore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/patrick-brian-mooney/IF-utils/internal/diagnostics"
	"github.com/patrick-brian-mooney/IF-utils/internal/logging"
	"github.com/patrick-brian-mooney/IF-utils/internal/runtime"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/file"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/process"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
	"github.com/patrick-brian-mooney/IF-utils/pkg/session"
)

// Control is the handle operators use to steer a run in flight: Stop,
// SaveSoon, verbosity adjustment, StatusSnapshot.
type Control = runtime.Control

// Status is a point-in-time snapshot of a run, as served by Control and the
// status endpoint.
type Status = runtime.Status

// Engine is the high-level entry point for the library. It owns one game
// profile and the directories of one exploration, wraps the internal search
// runtime, and spawns the interpreter process when Run is called.
type Engine struct {
	profile  *game.Profile
	registry *game.Registry

	terp  ports.Interpreter
	store ports.ProgressStore

	workDir      string
	savesDir     string
	solutionsDir string
	logsDir      string

	logger   *slog.Logger
	reporter ports.Reporter
	hooks    domain.LifecycleHooks
	control  *runtime.Control

	verbosity int
	bundles   bool

	// Name labels log lines and defaults to the profile's name.
	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithProfile injects an already-built profile, bypassing the YAML load.
// The profile may be unresolved; New resolves it.
func WithProfile(p *game.Profile) Option {
	return func(e *Engine) {
		e.profile = p
	}
}

// WithRegistry supplies the predicate registry profiles resolve against,
// for callers that register their own predicates.
func WithRegistry(reg *game.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithInterpreter injects a ready interpreter instead of spawning the
// profile's one. The first Run consumes it: Close shuts it down.
func WithInterpreter(terp ports.Interpreter) Option {
	return func(e *Engine) {
		e.terp = terp
	}
}

// WithStore overrides the default JSON-file progress store.
func WithStore(store ports.ProgressStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithReporter overrides the default problem recorder.
func WithReporter(r ports.Reporter) Option {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithHooks registers lifecycle observers. Hooks must not block; the search
// loop calls them inline.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithWorkDir sets the directory the interpreter runs in and the default
// parent of the saves, solutions and logs directories. Defaults to ".".
func WithWorkDir(dir string) Option {
	return func(e *Engine) {
		if dir != "" {
			e.workDir = dir
		}
	}
}

// WithSavesDir overrides where checkpoint files live.
func WithSavesDir(dir string) Option {
	return func(e *Engine) {
		e.savesDir = dir
	}
}

// WithSolutionsDir overrides where winning paths are written.
func WithSolutionsDir(dir string) Option {
	return func(e *Engine) {
		e.solutionsDir = dir
	}
}

// WithLogsDir overrides where problem reports are documented.
func WithLogsDir(dir string) Option {
	return func(e *Engine) {
		e.logsDir = dir
	}
}

// WithVerbosity sets the initial progress-chatter level (0 quiet .. 4
// firehose). Operators can adjust it later through the Control handle.
func WithVerbosity(v int) Option {
	return func(e *Engine) {
		e.verbosity = v
	}
}

// WithCheckpointBundles asks the engine to archive the checkpoint files
// along each winning path next to its solution artifact.
func WithCheckpointBundles(on bool) Option {
	return func(e *Engine) {
		e.bundles = on
	}
}

// New builds an engine for the profile document at profilePath. With the
// WithProfile option the path may be empty. New resolves the profile,
// bootstraps the run directories (missing ones are created; a path that
// exists but is not a directory is a fatal configuration error), and wires
// the default file store and problem recorder for anything not injected.
func New(profilePath string, opts ...Option) (*Engine, error) {
	e := &Engine{
		workDir:   ".",
		verbosity: 1,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.profile == nil {
		if profilePath == "" {
			return nil, errors.New("profile path is required when no profile is injected")
		}
		p, err := game.Load(profilePath)
		if err != nil {
			return nil, err
		}
		e.profile = p
	}
	if !e.profile.Resolved() {
		if err := e.profile.Resolve(e.registry); err != nil {
			return nil, err
		}
	}
	if e.Name == "" {
		e.Name = e.profile.Name
	}

	if e.savesDir == "" {
		e.savesDir = filepath.Join(e.workDir, "saves")
	}
	if e.solutionsDir == "" {
		e.solutionsDir = filepath.Join(e.workDir, "solutions")
	}
	if e.logsDir == "" {
		e.logsDir = filepath.Join(e.workDir, "logs")
	}
	for _, dir := range []string{e.workDir, e.savesDir, e.solutionsDir, e.logsDir} {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	e.logger = e.logger.With("profile", e.Name)

	if e.reporter == nil {
		e.reporter = diagnostics.NewRecorder(e.logsDir, diagnostics.WithLogger(e.logger))
	}
	if e.store == nil {
		e.store = file.New(filepath.Join(e.workDir, file.DefaultPath))
	}
	e.control = runtime.NewControl(e.verbosity)

	return e, nil
}

// Control returns the steering handle. It is valid from New on, so signal
// handlers can be wired before Run starts.
func (e *Engine) Control() *Control { return e.control }

// Profile returns the resolved profile the engine runs.
func (e *Engine) Profile() *game.Profile { return e.profile }

// SolutionsDir returns where this engine writes winning paths.
func (e *Engine) SolutionsDir() string { return e.solutionsDir }

// Run starts the interpreter (unless one was injected), explores every
// command sequence the profile allows, and returns the accumulated report.
// The run resumes from whatever the progress store already holds and
// persists back to it, so a crashed or stopped run picks up where it left
// off on the next call.
//
// Run returns when the tree is exhausted, the context is cancelled, the
// control handle is stopped, or the interpreter dies. The control handle is
// sticky: after Stop, further Runs return immediately.
func (e *Engine) Run(ctx context.Context) (domain.Report, error) {
	terp := e.terp
	if terp == nil {
		t := e.profile.Tuning
		driver, err := process.New(e.profile.Interpreter, e.profile.InterpreterArgs, e.profile.StoryFile,
			process.WithLogger(e.logger),
			process.WithReporter(e.reporter),
			process.WithDir(e.workDir),
			process.WithBackoff(t.RetryBase.Std(), t.RetryGrowth, t.RetryAttempts),
		)
		if err != nil {
			return domain.Report{}, fmt.Errorf("start interpreter: %w", err)
		}
		terp = driver
	}

	sess, err := session.New(ctx, terp, e.profile,
		session.WithLogger(e.logger),
		session.WithReporter(e.reporter),
		session.WithWorkDir(e.workDir),
		session.WithCheckpointDir(e.savesDir),
	)
	if err != nil {
		_ = terp.Shutdown(ctx)
		return domain.Report{}, fmt.Errorf("start session: %w", err)
	}

	eng, err := runtime.New(sess, e.store, e.profile,
		runtime.WithLogger(e.logger),
		runtime.WithReporter(e.reporter),
		runtime.WithHooks(e.hooks),
		runtime.WithSolutionsDir(e.solutionsDir),
		runtime.WithCheckpointBundles(e.bundles),
		runtime.WithControl(e.control),
	)
	if err != nil {
		_ = sess.Close(ctx)
		return domain.Report{}, err
	}

	report, runErr := eng.Run(ctx)
	if closeErr := sess.Close(ctx); closeErr != nil {
		e.logger.Warn("session close", "err", closeErr)
	}
	return report, runErr
}

// ensureDir creates dir if it is missing. A path that exists but is not a
// directory aborts startup; running on would corrupt all later accounting.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return os.MkdirAll(dir, 0o755)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", dir)
	}
	return nil
}
