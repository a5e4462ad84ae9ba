package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"

	ifexplore "github.com/patrick-brian-mooney/IF-utils"
	"github.com/patrick-brian-mooney/IF-utils/internal/diagnostics"
	"github.com/patrick-brian-mooney/IF-utils/internal/logging"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/file"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/memory"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/redis"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
	"github.com/patrick-brian-mooney/IF-utils/pkg/observability"
	"github.com/patrick-brian-mooney/IF-utils/pkg/persistence/middleware"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// lockTTL bounds how long a crashed run can wedge a shared Redis namespace.
// Live runs refresh the lock at a third of this.
const lockTTL = 3 * time.Minute

// App bundles a wired engine with the pieces the run loop needs around it.
type App struct {
	Engine    *ifexplore.Engine
	Collector *observability.Collector
	Metrics   *prometheus.Registry
	Logger    *slog.Logger

	lock     *redis.RunLock
	cleanups []func()
}

// Build assembles an engine from opts: profile, progress store with
// integrity and metrics wrapping, problem recorder, and metrics collector.
// The caller owns the result and must Close it.
func Build(ctx context.Context, opts RunOptions) (*App, error) {
	logger := logging.New(logging.LevelFromVerbosity(opts.Verbosity))

	profile, err := game.Load(opts.ProfilePath)
	if err != nil {
		return nil, err
	}
	if err := profile.Resolve(nil); err != nil {
		return nil, err
	}

	app := &App{
		Metrics: prometheus.NewRegistry(),
		Logger:  logger,
	}
	app.Collector = observability.NewCollector(observability.WithRegisterer(app.Metrics))

	store, err := app.buildStore(ctx, opts, profile)
	if err != nil {
		return nil, err
	}
	if opts.Reset {
		if err := store.Reset(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("reset progress: %w", err)
		}
		logger.Info("stored progress wiped")
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	logsDir := opts.LogsDir
	if logsDir == "" {
		logsDir = filepath.Join(workDir, "logs")
	}
	recorder := diagnostics.NewRecorder(logsDir,
		diagnostics.WithLogger(logger),
		diagnostics.WithObserver(app.Collector.ProblemObserver()),
	)

	engineOpts := []ifexplore.Option{
		ifexplore.WithProfile(profile),
		ifexplore.WithStore(store),
		ifexplore.WithLogger(logger),
		ifexplore.WithReporter(recorder),
		ifexplore.WithHooks(app.Collector.Hooks()),
		ifexplore.WithWorkDir(workDir),
		ifexplore.WithLogsDir(logsDir),
		ifexplore.WithVerbosity(opts.Verbosity),
		ifexplore.WithCheckpointBundles(opts.Bundles),
	}
	if opts.SavesDir != "" {
		engineOpts = append(engineOpts, ifexplore.WithSavesDir(opts.SavesDir))
	}
	if opts.SolutionsDir != "" {
		engineOpts = append(engineOpts, ifexplore.WithSolutionsDir(opts.SolutionsDir))
	}

	eng, err := ifexplore.New("", engineOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Engine = eng
	return app, nil
}

// buildStore selects the progress backend and wraps it so every save is
// integrity-checked and counted. Metrics sit outermost: a save the
// integrity check rejects still shows up as an error in the counters.
func (a *App) buildStore(ctx context.Context, opts RunOptions, profile *game.Profile) (ports.ProgressStore, error) {
	var store ports.ProgressStore
	switch {
	case opts.Ephemeral:
		store = memory.NewStore()

	case opts.RedisAddr != "":
		client := backend.NewClient(&backend.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		prefix := "ifexplore:" + profile.Name + ":"
		lock := redis.NewRunLock(client, prefix)
		if err := lock.Acquire(ctx, lockTTL); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		a.lock = lock
		a.cleanups = append(a.cleanups, func() {
			if err := lock.Release(context.Background()); err != nil {
				a.Logger.Warn("release run lock", "err", err)
			}
			_ = client.Close()
		})
		store = redis.NewFromClient(client, redis.WithPrefix(prefix))

	default:
		path := opts.ProgressPath
		if path == "" {
			workDir := opts.WorkDir
			if workDir == "" {
				workDir = "."
			}
			path = filepath.Join(workDir, file.DefaultPath)
		}
		store = file.New(path)
	}

	return middleware.Chain(store,
		middleware.NewMetricsMiddleware(a.Metrics),
		middleware.NewIntegrityMiddleware(profile.Tuning.RetainFloor),
	), nil
}

// Close releases what Build acquired, last first.
func (a *App) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}
