package process

import (
	"log/slog"
	"time"

	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// Option configures the Driver.
type Option func(*Driver)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithReporter sets where the driver documents problem situations (missing
// output, failed saves, refused undos). The default discards them.
func WithReporter(reporter ports.Reporter) Option {
	return func(d *Driver) {
		if reporter != nil {
			d.reporter = reporter
		}
	}
}

// WithBackoff shapes the patient-read schedule: up to attempts retries,
// starting at base and growing by the given factor each time. The defaults
// (100ms, 1.48, 20) were tuned empirically against dfrotz.
func WithBackoff(base time.Duration, growth float64, attempts int) Option {
	return func(d *Driver) {
		if base > 0 {
			d.retryBase = base
		}
		if growth > 1 {
			d.retryGrowth = growth
		}
		if attempts > 0 {
			d.retryAttempts = attempts
		}
	}
}

// WithReadGap sets how long a read waits for one more line before treating
// the output block as complete.
func WithReadGap(gap time.Duration) Option {
	return func(d *Driver) {
		if gap > 0 {
			d.gap = gap
		}
	}
}

// WithDir sets the child's working directory. Save and transcript paths are
// typed at the interpreter relative to it.
func WithDir(dir string) Option {
	return func(d *Driver) {
		d.dir = dir
	}
}

// WithGracePeriod sets how long Shutdown waits between SIGTERM and SIGKILL.
func WithGracePeriod(grace time.Duration) Option {
	return func(d *Driver) {
		if grace > 0 {
			d.grace = grace
		}
	}
}
