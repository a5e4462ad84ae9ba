// Package runtime drives the exhaustive exploration of a game. The engine
// walks the tree of command sequences depth-first: at each node it asks the
// session for a checkpoint, tries every command the profile allows, recurses
// into the ones the game lets stand, and rewinds before trying the next.
// Progress lands in a ProgressStore so an interrupted run can skip the
// subtrees it has already exhausted.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/patrick-brian-mooney/IF-utils/internal/logging"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// Engine owns one exploration run: a live session, the progress table that
// survives between runs, and the counters the run report is built from.
//
// An Engine is single-use. Run may be called once; the Control handle and
// the lifecycle hooks are the only parts safe to touch from other
// goroutines while it executes.
type Engine struct {
	session  ports.Session
	store    ports.ProgressStore
	profile  *game.Profile
	reporter ports.Reporter
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	control  *Control

	solutionsDir string
	bundle       bool
	problemTotal func() int64
	clock        func() time.Time

	progress *domain.Progress

	deadEnds   atomic.Int64
	successes  atomic.Int64
	totalMoves atomic.Int64
	pruned     atomic.Int64
	restores   atomic.Int64

	node atomic.Pointer[nodeInfo]

	startedNano atomic.Int64
	runBaseNano atomic.Int64
	forceRecord atomic.Bool
	lastSave    time.Time
	lastChat    int64
	running     atomic.Bool
	ranBefore   bool
}

// nodeInfo is the engine's published position, refreshed at node entry so
// status readers never have to touch the session.
type nodeInfo struct {
	depth  int
	room   string
	strand string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithReporter sets the sink for problem reports.
func WithReporter(r ports.Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithHooks merges hooks into the engine's lifecycle hooks. Repeated use
// chains the callbacks in registration order.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = e.hooks.Merge(hooks) }
}

// WithSolutionsDir sets the directory winning paths are written to.
func WithSolutionsDir(dir string) Option {
	return func(e *Engine) {
		if dir != "" {
			e.solutionsDir = dir
		}
	}
}

// WithCheckpointBundles controls whether each solution is accompanied by a
// tar.gz of the checkpoint files along the winning path.
func WithCheckpointBundles(on bool) Option {
	return func(e *Engine) { e.bundle = on }
}

// WithProblemCounter supplies the count of documented problems for status
// and the final report. Without it the report shows zero problems.
func WithProblemCounter(fn func() int64) Option {
	return func(e *Engine) {
		if fn != nil {
			e.problemTotal = fn
		}
	}
}

// WithVerbosity sets the initial chatter level.
func WithVerbosity(v int) Option {
	return func(e *Engine) { e.control.verbosity.Store(int32(clampVerbosity(v))) }
}

// WithControl attaches a pre-built control handle, so operator plumbing
// (signal handlers, status servers) can be wired up before the engine
// exists. Combine with WithVerbosity with care: verbosity lands on
// whichever control the engine ends up with.
func WithControl(c *Control) Option {
	return func(e *Engine) {
		if c != nil {
			e.control = c
		}
	}
}

// WithClock overrides the time source. Tests use it to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// DefaultSolutionsDir is where winning paths land unless configured away.
const DefaultSolutionsDir = "solutions"

// elapsedResolution is how finely run durations are reported in logs.
const elapsedResolution = time.Second

// New builds an engine over an already-started session. The profile must
// be resolved; its tuning section supplies every knob the run needs.
func New(session ports.Session, store ports.ProgressStore, profile *game.Profile, opts ...Option) (*Engine, error) {
	if session == nil {
		return nil, fmt.Errorf("runtime: session is required")
	}
	if store == nil {
		return nil, fmt.Errorf("runtime: progress store is required")
	}
	if profile == nil || !profile.Resolved() {
		return nil, fmt.Errorf("runtime: %w: profile must be resolved", domain.ErrProfileInvalid)
	}
	e := &Engine{
		session:      session,
		store:        store,
		profile:      profile,
		reporter:     ports.NopReporter(),
		logger:       logging.NewNop(),
		control:      NewControl(1),
		solutionsDir: DefaultSolutionsDir,
		problemTotal: func() int64 { return 0 },
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.control.bind(e.status)
	return e, nil
}

// Control returns the handle operators use to steer the run.
func (e *Engine) Control() *Control { return e.control }

// Run explores every command sequence reachable from the session's current
// state and returns the accumulated report. It exits early when the context
// is cancelled, when Control.Stop is called, or when the game state can no
// longer be trusted; in every case the progress table is persisted before
// returning, so the next run resumes instead of repeating.
func (e *Engine) Run(ctx context.Context) (domain.Report, error) {
	if e.ranBefore {
		return domain.Report{}, fmt.Errorf("runtime: engine is single-use")
	}
	e.ranBefore = true

	if err := e.loadProgress(ctx); err != nil {
		return domain.Report{}, err
	}

	started := e.clock()
	e.startedNano.Store(started.UnixNano())
	e.lastSave = started
	e.running.Store(true)
	defer e.running.Store(false)
	e.publishNode()

	e.logger.InfoContext(ctx, "exploration started",
		"commands", len(e.profile.Commands),
		"prior_paths", e.paths(),
		"verbosity", e.control.Verbosity())

	e.explore(ctx)

	e.saveProgress(ctx)
	report := e.report()
	e.emitRunFinished(report)
	e.logger.InfoContext(ctx, "exploration finished",
		"paths", report.Paths(),
		"dead_ends", report.DeadEnds,
		"successes", report.Successes,
		"pruned", report.Pruned,
		"moves", report.TotalMoves,
		"elapsed", report.ElapsedSeconds)
	return report, ctx.Err()
}

// halted reports whether the run should stop trying new moves.
func (e *Engine) halted(ctx context.Context) bool {
	return ctx.Err() != nil || e.control.Stopped()
}

// chatty reports whether the current verbosity is at least level.
func (e *Engine) chatty(level int) bool {
	return e.control.Verbosity() >= level
}

func (e *Engine) elapsed() time.Duration {
	base := time.Duration(e.runBaseNano.Load())
	started := e.startedNano.Load()
	if started == 0 {
		return base
	}
	return base + e.clock().Sub(time.Unix(0, started))
}

func (e *Engine) paths() int64 {
	return e.deadEnds.Load() + e.successes.Load()
}

func (e *Engine) report() domain.Report {
	return domain.Report{
		DeadEnds:       e.deadEnds.Load(),
		Successes:      e.successes.Load(),
		TotalMoves:     e.totalMoves.Load(),
		Pruned:         e.pruned.Load(),
		Problems:       e.problemTotal(),
		ElapsedSeconds: e.elapsed().Seconds(),
	}
}

func (e *Engine) publishNode() {
	snap := e.session.Snapshot()
	e.node.Store(&nodeInfo{
		depth:  snap.Depth(),
		room:   snap.Room,
		strand: snap.Trail.Key(),
	})
}

func (e *Engine) status() Status {
	st := Status{
		Running:        e.running.Load(),
		Paths:          e.paths(),
		DeadEnds:       e.deadEnds.Load(),
		Successes:      e.successes.Load(),
		Pruned:         e.pruned.Load(),
		TotalMoves:     e.totalMoves.Load(),
		Restores:       e.restores.Load(),
		Problems:       e.problemTotal(),
		Verbosity:      e.control.Verbosity(),
		ElapsedSeconds: e.elapsed().Seconds(),
	}
	if started := e.startedNano.Load(); started != 0 {
		st.Started = time.Unix(0, started)
	}
	if n := e.node.Load(); n != nil {
		st.Depth = n.depth
		st.Room = n.room
		st.Strand = n.strand
	}
	return st
}

// document files a problem report and logs where it landed.
func (e *Engine) document(kind string, data map[string]any) {
	path := e.reporter.Report(kind, data)
	if path != "" {
		e.logger.Warn("problem documented", "kind", kind, "report", path)
	} else {
		e.logger.Warn("problem documented", "kind", kind)
	}
	e.emitProblem(kind, path)
}
