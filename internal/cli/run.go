package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/patrick-brian-mooney/IF-utils/internal/presentation/tui"
	httpAdapter "github.com/patrick-brian-mooney/IF-utils/pkg/adapters/http"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/redis"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// Execute is the whole of the run command: build an engine from opts, run
// it to completion, and keep the optional status API and Redis run lock
// alive alongside it.
func Execute(ctx context.Context, opts RunOptions) error {
	app, err := Build(ctx, opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if opts.Verbosity > 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		tui.PrintBanner()
	}

	runCtx, abort := context.WithCancel(ctx)
	defer abort()
	stop := watchSignals(runCtx, app.Engine.Control(), abort)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	if opts.Listen != "" {
		serveStatus(gctx, g, app, opts.Listen)
	}
	if app.lock != nil {
		g.Go(func() error { return refreshLock(gctx, app.lock) })
	}

	var report domain.Report
	g.Go(func() error {
		defer abort()
		r, err := app.Engine.Run(gctx)
		report = r
		return err
	})

	err = g.Wait()
	printReport(os.Stdout, report, app.Engine.SolutionsDir())
	if errors.Is(err, context.Canceled) {
		// Operator abort; the table was saved on the way out.
		return nil
	}
	return err
}

// serveStatus runs the status API until ctx is done, then drains it.
func serveStatus(ctx context.Context, g *errgroup.Group, app *App, addr string) {
	handler := httpAdapter.NewHandler(app.Collector,
		httpAdapter.WithLogger(app.Logger),
		httpAdapter.WithGatherer(app.Metrics),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		app.Logger.Info("status api listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("status api: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// refreshLock keeps the Redis run lock alive. Losing it means another run
// may own the namespace, and continuing would let the two clobber each
// other's saves; giving up cancels the whole group.
func refreshLock(ctx context.Context, lock *redis.RunLock) error {
	ticker := time.NewTicker(lockTTL / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := lock.Refresh(ctx); err != nil {
				return fmt.Errorf("run lock: %w", err)
			}
		}
	}
}

// printReport prints the end-of-run summary, coloring it when there is
// something to celebrate.
func printReport(w io.Writer, r domain.Report, solutionsDir string) {
	summary := fmt.Sprintf("%d paths: %d wins, %d dead ends (%d pruned, %d moves, %.0fs)",
		r.Paths(), r.Successes, r.DeadEnds, r.Pruned, r.TotalMoves, r.ElapsedSeconds)
	if r.Successes > 0 {
		p := termenv.ColorProfile()
		summary = termenv.String(summary).Foreground(p.Color("#22c55e")).String()
	}
	fmt.Fprintf(w, ">>> %s\n", summary)
	if r.Successes > 0 {
		fmt.Fprintf(w, ">>> walkthroughs in %s\n", solutionsDir)
	}
	if r.Problems > 0 {
		fmt.Fprintf(w, ">>> %d problems documented\n", r.Problems)
	}
}
