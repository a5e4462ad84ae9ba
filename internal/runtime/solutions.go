package runtime

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// solutionStamp names solution artifacts down to the microsecond, with
// colons replaced so the name works on every filesystem.
const solutionStamp = "2006-01-02T15_04_05.000000"

// recordSolution writes the winning path to disk and announces it. It never
// fails the run: a solution that cannot be written is documented as a
// problem and the search keeps going.
func (e *Engine) recordSolution(ctx context.Context) {
	number := int(e.successes.Load()) + 1
	sol := domain.Solution{
		Found:          e.clock(),
		ElapsedSeconds: e.elapsed().Seconds(),
		Frames:         e.session.Frames(),
	}

	artifact, err := writeSolution(e.solutionsDir, sol, e.clock)
	if err != nil {
		e.document("solution_not_recorded", map[string]any{
			"walkthrough": sol.Walkthrough(),
			"error":       err.Error(),
		})
	}
	if e.bundle && artifact != "" {
		bundle, berr := bundleCheckpoints(artifact, sol.Frames)
		switch {
		case berr != nil:
			e.logger.Warn("checkpoint bundle not written", "solution", artifact, "err", berr)
		case bundle != "":
			e.logger.Info("checkpoint bundle written", "bundle", bundle)
		}
	}

	e.logger.InfoContext(ctx, "SOLUTION FOUND",
		"number", number,
		"walkthrough", sol.Walkthrough(),
		"artifact", artifact,
		"elapsed", e.elapsed().Round(elapsedResolution))
	e.emitSolution(number, sol.Walkthrough(), artifact)
}

// writeSolution persists one winning path as indented JSON, probing for a
// free name so two solutions found in the same microsecond both survive.
func writeSolution(dir string, sol domain.Solution, now func() time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create solutions dir: %w", err)
	}
	data, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode solution: %w", err)
	}
	base := "solution_" + now().Format(solutionStamp)
	path := filepath.Join(dir, base+".json")
	for n := 2; exists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s.%d.json", base, n))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write solution: %w", err)
	}
	return path, nil
}

// bundleCheckpoints archives the checkpoint files along a winning path next
// to the solution artifact, so the exact interpreter states can be reloaded
// later. Frames without a checkpoint (the winning move itself, or turns
// played with per-turn saving off) are skipped; a path with no checkpoints
// at all produces no bundle.
func bundleCheckpoints(artifact string, frames []domain.Frame) (string, error) {
	var files []string
	for _, f := range frames {
		if f.HasCheckpoint() {
			files = append(files, f.Checkpoint)
		}
	}
	if len(files) == 0 {
		return "", nil
	}

	path := strings.TrimSuffix(artifact, ".json") + ".tar.gz"
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create bundle: %w", err)
	}
	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)
	for _, file := range files {
		if err := addTarFile(tw, file); err != nil {
			out.Close()
			return "", fmt.Errorf("bundle %s: %w", filepath.Base(file), err)
		}
	}
	for _, c := range []io.Closer{tw, gz, out} {
		if err := c.Close(); err != nil {
			return "", fmt.Errorf("finish bundle: %w", err)
		}
	}
	return path, nil
}

func addTarFile(tw *tar.Writer, file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(file)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	src, err := os.Open(file)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(tw, src)
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
