// Package process drives a console interactive-fiction interpreter (dfrotz,
// glulxe and friends) as a child process, implementing the ports.Interpreter
// contract over its merged stdout/stderr stream.
package process

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/patrick-brian-mooney/IF-utils/internal/logging"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// Undo responses vary by interpreter; these two cover the Z-machine family.
// An undo of the very first turn "fails" in a way that leaves the state
// exactly where we want it, so it counts as success.
const (
	undoneMarker     = "undone.]"
	nothingToUndo    = `you can't "undo" what hasn't been done`
	saveFailedMarker = "save failed"
)

// quit confirmation protocol bounds.
const (
	quitMaxAnswers = 20
	quitMaxWait    = 30 * time.Second
	quitAnswerGap  = 100 * time.Millisecond
)

// Driver talks to one interpreter process over its console streams. It owns
// the child for its whole life: spawn, command/response cycles, polite QUIT,
// reaping. All exported methods are safe for concurrent use, though the
// exploration engine is strictly sequential by design.
type Driver struct {
	logger   *slog.Logger
	reporter ports.Reporter

	// backoff schedule for patient reads.
	retryBase     time.Duration
	retryGrowth   float64
	retryAttempts int
	// gap is how long a read waits for one more line before deciding the
	// current output block is complete.
	gap time.Duration

	grace time.Duration
	dir   string

	cmd    *exec.Cmd // nil when driving bare streams
	stdin  io.WriteCloser
	reader *LineReader

	mu       sync.Mutex // serializes send/read cycles
	stopping atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

var _ ports.Interpreter = (*Driver)(nil)

// New launches the interpreter with the given story file and begins
// draining its output. Stderr is merged into stdout, the way the text flows
// on an actual terminal.
func New(interpreter string, args []string, storyFile string, opts ...Option) (*Driver, error) {
	d := newDriver(opts)

	argv := append(append([]string{}, args...), storyFile)
	cmd := exec.Command(interpreter, argv...)
	cmd.Dir = d.dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("interpreter stdin: %w", err)
	}
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("interpreter output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("start interpreter %s: %w", interpreter, err)
	}
	pw.Close() // the child keeps its own copy; ours would hold the pipe open

	d.cmd = cmd
	d.stdin = stdin
	d.reader = NewLineReader(pr)
	d.logger.Info("interpreter started", "interpreter", interpreter, "story", storyFile, "pid", cmd.Process.Pid)
	return d, nil
}

// NewFromStreams wraps an already connected pair of streams instead of
// spawning a child. Tests drive the adapter through in-memory pipes this
// way; it also covers interpreters reached over sockets or ptys.
func NewFromStreams(stdin io.WriteCloser, output io.Reader, opts ...Option) *Driver {
	d := newDriver(opts)
	d.stdin = stdin
	d.reader = NewLineReader(output)
	return d
}

func newDriver(opts []Option) *Driver {
	d := &Driver{
		logger:        logging.NewNop(),
		reporter:      ports.NopReporter(),
		retryBase:     100 * time.Millisecond,
		retryGrowth:   1.48,
		retryAttempts: 20,
		gap:           100 * time.Millisecond,
		grace:         3 * time.Second,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Running reports whether the driver can still accept commands.
func (d *Driver) Running() bool {
	return !d.stopping.Load()
}

// Opening reads the game's opening banner, waiting patiently for the
// interpreter to finish printing it.
func (d *Driver) Opening(ctx context.Context) (string, error) {
	if !d.Running() {
		return "", domain.ErrNotRunning
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read(ctx, "[game start]", true)
}

// ProcessCommand types one command and returns whatever the interpreter
// prints back, prompt marker stripped. It performs no evaluation of the
// output text, leaving that to the session layer.
func (d *Driver) ProcessCommand(ctx context.Context, command string, patient bool) (string, error) {
	if !d.Running() {
		return "", domain.ErrNotRunning
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.exchange(ctx, command, patient)
}

// Save makes the interpreter write a save file at path and verifies that it
// appeared. The interpreter cannot be expected to answer the save command
// itself: it stops mid-line to wait for the filename, so both writes are
// impatient and only the second response is meaningful.
func (d *Driver) Save(ctx context.Context, path string) error {
	if !d.Running() {
		return domain.ErrNotRunning
	}
	first, err := d.exchange(ctx, "save", false)
	if err != nil {
		return err
	}
	second, err := d.exchange(ctx, d.rel(path), false)
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(second), saveFailedMarker) || !fileExists(path) {
		d.reporter.Report("save_failed", map[string]any{
			"filename": path,
			"output":   []string{first, second},
			"exists":   fileExists(path),
		})
		return fmt.Errorf("save to %s: %w", path, domain.ErrSaveFailed)
	}
	return nil
}

// Restore rewinds the interpreter to a save file produced by Save.
func (d *Driver) Restore(ctx context.Context, path string) error {
	if !d.Running() {
		return domain.ErrNotRunning
	}
	if _, err := d.exchange(ctx, "restore", false); err != nil {
		return err
	}
	out, err := d.exchange(ctx, d.rel(path), true)
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(out), "failed") {
		return fmt.Errorf("restore from %s: %w", path, domain.ErrRestoreFailed)
	}
	return nil
}

// Undo takes back the most recent turn. Refusals and unrecognizable answers
// are documented as problems before the error comes back.
func (d *Driver) Undo(ctx context.Context) error {
	if !d.Running() {
		return domain.ErrNotRunning
	}
	out, err := d.exchange(ctx, "undo", true)
	if err != nil {
		return err
	}
	lower := strings.ToLower(out)
	switch {
	case strings.Contains(lower, nothingToUndo):
		// Nothing was done; as good as a successful undo.
		return nil
	case out == "":
		d.reporter.Report("cannot_undo", map[string]any{"output": nil})
		return domain.ErrCannotUndo
	case strings.Contains(lower, undoneMarker):
		return nil
	default:
		d.reporter.Report("cannot_undo", map[string]any{
			"output": out,
			"note":   fmt.Sprintf("%q not in output", undoneMarker),
		})
		return domain.ErrCannotUndo
	}
}

// StartTranscript asks the interpreter to keep its own transcript at path.
// Like save, the script command waits mid-line for the filename. The
// response is not checked: some interpreters ignore scripting, and the
// reconstructed transcript covers for them.
func (d *Driver) StartTranscript(ctx context.Context, path string) error {
	if !d.Running() {
		return domain.ErrNotRunning
	}
	if _, err := d.exchange(ctx, "script", false); err != nil {
		return err
	}
	_, err := d.exchange(ctx, d.rel(path), true)
	return err
}

// Shutdown quits the interpreter politely (QUIT plus confirmations), closes
// stdin, reaps the child and poisons the driver. Calling it again just waits
// for the first call to finish.
func (d *Driver) Shutdown(ctx context.Context) error {
	d.stopOnce.Do(func() {
		defer close(d.done)
		d.stopping.Store(true) // no new work; quit talks through exchange directly
		d.quit(ctx)
		_ = d.stdin.Close()
		d.terminate(ctx)
		d.reader.Stop()
		d.logger.Debug("interpreter connection closed")
	})
	<-d.done
	return nil
}

// quit runs the polite QUIT protocol: the command itself, then yes answers
// until the interpreter stops asking, bounded by quitMaxAnswers iterations
// and quitMaxWait overall. The first answer is patient, the rest are not.
func (d *Driver) quit(ctx context.Context) {
	if _, err := d.exchange(ctx, "quit", false); err != nil {
		return
	}
	start := time.Now()
	for i := 0; i < quitMaxAnswers && time.Since(start) <= quitMaxWait; i++ {
		if ctx.Err() != nil {
			return
		}
		if _, err := d.exchange(ctx, "y", i == 0); err != nil {
			return
		}
		if i > 0 {
			time.Sleep(quitAnswerGap)
		}
	}
}

// terminate reaps the child: SIGTERM, a grace period, then SIGKILL. No-op
// for stream-backed drivers.
func (d *Driver) terminate(ctx context.Context) {
	if d.cmd == nil || d.cmd.Process == nil {
		return
	}
	_ = d.cmd.Process.Signal(syscall.SIGTERM)
	waited := make(chan error, 1)
	go func() { waited <- d.cmd.Wait() }()
	select {
	case <-waited:
	case <-time.After(d.grace):
		_ = d.cmd.Process.Kill()
		<-waited
	case <-ctx.Done():
		_ = d.cmd.Process.Kill()
		<-waited
	}
}

// exchange is one full command/response cycle. Internal so Shutdown can keep
// talking during the QUIT protocol after the driver stops accepting work.
func (d *Driver) exchange(ctx context.Context, command string, patient bool) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.send(command); err != nil {
		return "", err
	}
	return d.read(ctx, command, patient)
}

func (d *Driver) send(command string) error {
	d.logger.Debug("sending command", "command", strings.ToUpper(command))
	if _, err := io.WriteString(d.stdin, strings.TrimSpace(command)+"\n"); err != nil {
		// A dead pipe means a dead interpreter; poison the driver so the
		// engine sees a consistent ErrNotRunning from here on.
		d.stopping.Store(true)
		return fmt.Errorf("send %q: %w: %w", command, domain.ErrNotRunning, err)
	}
	return nil
}

// read collects the response to command. An empty patient read retries on a
// growing backoff schedule; exhausting it is documented as a no_data problem
// and returns the empty string, never an error, so the caller's evaluation
// logic decides what an unresponsive turn means. A closed stream cuts the
// patience short: nothing more can arrive.
func (d *Driver) read(ctx context.Context, command string, patient bool) (string, error) {
	text := d.reader.ReadText(d.gap)
	if text != "" || !patient {
		return text, nil
	}

	pause := d.retryBase
	for i := 0; i < d.retryAttempts && !d.reader.EOF(); i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(pause):
		}
		pause = time.Duration(float64(pause) * d.retryGrowth)
		if text = d.reader.ReadText(d.gap); text != "" {
			return text, nil
		}
	}
	d.logger.Warn("no output from interpreter despite patience", "command", strings.ToUpper(command))
	d.reporter.Report("no_data", map[string]any{
		"error":   "unable to get any data at all from the interpreter, even after being patient",
		"command": command,
	})
	return "", nil
}

// rel converts path to the form typed at the interpreter's filename prompt.
// Interpreters resolve names against their working directory, and some
// truncate long inputs, so relative is both correct and safer.
func (d *Driver) rel(path string) string {
	base := d.dir
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		}
	}
	if base != "" {
		if rel, err := filepath.Rel(base, path); err == nil {
			return rel
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
