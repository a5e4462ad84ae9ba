// Package file persists exploration progress as one JSON document on the
// local file system. Every save is a whole-file replacement through a
// temp-file rename, so a run killed mid-write leaves the previous table
// intact rather than a truncated one.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// DefaultPath is used when New is given an empty path.
const DefaultPath = "progress.json"

// Store implements ports.ProgressStore on one JSON file.
type Store struct {
	Path string
}

// New creates a store writing to path. The parent directory is created on
// first save.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: path}
}

// Save atomically replaces the progress file with p: the table is written to
// a temp file in the same directory (same filesystem, so the rename is
// atomic), fsynced, closed, and renamed into place.
func (s *Store) Save(_ context.Context, p *domain.Progress) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure progress directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp progress file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp progress file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp progress file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp progress file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// Load reads the progress file. A file that has never been written is
// domain.ErrNoProgress; a file that exists but cannot be parsed is an error,
// since exploring on top of a half-understood table would corrupt all
// subsequent accounting.
func (s *Store) Load(context.Context) (*domain.Progress, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNoProgress
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	var p domain.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse progress file %s: %w", s.Path, err)
	}
	if p.Entries == nil {
		p.Entries = make(map[string]domain.StrandStats)
	}
	return &p, nil
}

// Reset removes the progress file. A file that never existed is fine.
func (s *Store) Reset(context.Context) error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove progress file: %w", err)
	}
	return nil
}
