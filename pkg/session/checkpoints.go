package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/patrick-brian-mooney/IF-utils/internal/logging"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// checkpointExt marks the save files this package owns. Sweep only ever
// touches files with this extension, so a checkpoint directory can be shared
// with other material without risk.
const checkpointExt = ".sav"

// placeAttempts bounds the collision probe when naming a new checkpoint.
const placeAttempts = 16

// Checkpoints names, captures and removes interpreter save files inside one
// directory.
type Checkpoints struct {
	terp   ports.Interpreter
	dir    string
	logger *slog.Logger
}

// NewCheckpoints manages save files for terp under dir. A nil logger
// discards output.
func NewCheckpoints(terp ports.Interpreter, dir string, logger *slog.Logger) *Checkpoints {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Checkpoints{terp: terp, dir: dir, logger: logger}
}

// Dir returns the directory checkpoints are written to.
func (c *Checkpoints) Dir() string {
	return c.dir
}

// Capture makes the interpreter save its state to a fresh collision-free
// file and returns the path. The underlying save failure, if any, has
// already been documented by the driver; callers decide whether to degrade
// or give up.
func (c *Checkpoints) Capture(ctx context.Context) (string, error) {
	path, err := c.place()
	if err != nil {
		return "", err
	}
	if err := c.terp.Save(ctx, path); err != nil {
		return "", err
	}
	c.logger.Debug("checkpoint captured", "path", path)
	return path, nil
}

// place picks an unused file name. There is a check-then-use window here; a
// collision inside it costs one overwritten save file, nothing more.
func (c *Checkpoints) place() (string, error) {
	for i := 0; i < placeAttempts; i++ {
		path := filepath.Join(c.dir, uuid.NewString()+checkpointExt)
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe checkpoint name: %w", err)
		}
	}
	return "", fmt.Errorf("no free checkpoint name in %s after %d attempts", c.dir, placeAttempts)
}

// UndoOrRestore rewinds the interpreter by one turn. The native undo is
// preferred: restoring is slower and occasionally fails silently when the
// file system is in a bad state. When undo is refused, path is restored
// instead; the returned flag reports that the fallback ran. An empty path
// with a refused undo is domain.ErrNoCheckpoint.
func (c *Checkpoints) UndoOrRestore(ctx context.Context, path string) (bool, error) {
	err := c.terp.Undo(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrCannotUndo) {
		return false, err
	}
	if path == "" {
		return false, fmt.Errorf("undo refused and no checkpoint to fall back to: %w", domain.ErrNoCheckpoint)
	}
	c.logger.Debug("undo refused, restoring checkpoint", "path", path)
	if err := c.terp.Restore(ctx, path); err != nil {
		return true, err
	}
	return true, nil
}

// Discard removes one checkpoint file. Missing files and empty paths are
// fine; anything else is logged and swallowed, since a leftover save file
// never endangers the run.
func (c *Checkpoints) Discard(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("could not remove checkpoint", "path", path, "err", err)
	}
}

// Sweep removes stale checkpoint files: every file in the directory carrying
// the checkpoint extension whose full path is not in keep. It returns how
// many files were removed.
func (c *Checkpoints) Sweep(keep map[string]bool) int {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Warn("could not sweep checkpoint directory", "dir", c.dir, "err", err)
		return 0
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != checkpointExt {
			continue
		}
		path := filepath.Join(c.dir, e.Name())
		if keep[path] {
			continue
		}
		if err := os.Remove(path); err != nil {
			c.logger.Warn("could not remove stale checkpoint", "path", path, "err", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		c.logger.Info("swept stale checkpoints", "dir", c.dir, "count", removed)
	}
	return removed
}
