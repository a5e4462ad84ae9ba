// Package diagnostics documents problem situations as JSON files in a logs
// directory, so a run that must execute unattended for days can be audited
// after the fact instead of interrupted.
package diagnostics

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/patrick-brian-mooney/IF-utils/internal/logging"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// reportStamp names report files down to the microsecond, colons replaced so
// the name is portable.
const reportStamp = "2006-01-02T15_04_05.000000"

// Recorder implements ports.Reporter. Reports are advisory: every failure
// mode inside Report degrades to a log line, never an error or a panic.
// Safe for concurrent use.
type Recorder struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	counts map[string]int64
	onFile func(kind, path string)
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger configures structured logging. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver registers a callback fired after every report, with the
// problem type and the report file path ("" when no file could be written).
// The callback runs inline and must not block.
func WithObserver(fn func(kind, path string)) Option {
	return func(r *Recorder) {
		r.onFile = fn
	}
}

// WithClock overrides the time source used for report names.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder writes reports into dir.
func NewRecorder(dir string, opts ...Option) *Recorder {
	r := &Recorder{
		dir:    dir,
		logger: logging.NewNop(),
		now:    time.Now,
		counts: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.Reporter = (*Recorder)(nil)

// Report documents one problem as <type>_<timestamp>.json inside the logs
// directory, bumps the per-type counter, and returns the file path. Data is
// serialized with sorted keys and two-space indentation; a type and time are
// added when the caller did not include them.
func (r *Recorder) Report(kind string, data map[string]any) string {
	doc := make(map[string]any, len(data)+2)
	for k, v := range data {
		doc[k] = v
	}
	if _, ok := doc["type"]; !ok {
		doc["type"] = kind
	}
	if _, ok := doc["time"]; !ok {
		doc["time"] = r.now().Format(time.RFC3339Nano)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[kind]++

	path := r.write(kind, doc)
	if r.onFile != nil {
		r.onFile(kind, path)
	}
	return path
}

// write serializes one report, returning "" when the file could not be
// produced. Callers hold r.mu, which also serializes the collision probe.
func (r *Recorder) write(kind string, doc map[string]any) string {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		r.logger.Warn("problem report not serializable", "kind", kind, "err", err)
		return ""
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.logger.Warn("problem report directory unavailable", "dir", r.dir, "err", err)
		return ""
	}

	base := kind + "_" + r.now().Format(reportStamp)
	path := filepath.Join(r.dir, base+".json")
	for n := 2; fileExists(path); n++ {
		path = filepath.Join(r.dir, base+"."+strconv.Itoa(n)+".json")
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		r.logger.Warn("problem report not written", "kind", kind, "path", path, "err", err)
		return ""
	}
	r.logger.Warn("problem report written", "kind", kind, "path", path)
	return path
}

// Counts returns a copy of the per-type report counters.
func (r *Recorder) Counts() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Total returns the number of reports filed so far.
func (r *Recorder) Total() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, v := range r.counts {
		total += v
	}
	return total
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
