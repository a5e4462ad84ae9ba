package ifexplore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// SolutionFile pairs a recorded solution with the artifact holding it.
type SolutionFile struct {
	Path     string
	Solution domain.Solution
}

// ListSolutions reads every solution artifact in dir, oldest first (the
// timestamped names sort chronologically). A missing directory is an empty
// list, not an error: no run has found anything yet.
func ListSolutions(dir string) ([]SolutionFile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []SolutionFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "solution_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(dir, name)
		sol, err := LoadSolution(path)
		if err != nil {
			return nil, fmt.Errorf("solution %s: %w", name, err)
		}
		out = append(out, SolutionFile{Path: path, Solution: sol})
	}
	return out, nil
}

// LoadSolution parses one solution artifact.
func LoadSolution(path string) (domain.Solution, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Solution{}, err
	}
	var sol domain.Solution
	if err := json.Unmarshal(raw, &sol); err != nil {
		return domain.Solution{}, fmt.Errorf("parse solution: %w", err)
	}
	return sol, nil
}
