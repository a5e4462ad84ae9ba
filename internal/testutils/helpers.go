package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteProfile drops a profile document into a temp directory and returns
// its path. The file disappears with the test.
func WriteProfile(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644), "failed to write profile fixture")
	return path
}

// WriteFile is WriteProfile for arbitrary fixture files.
func WriteFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644), "failed to write fixture %s", name)
	return path
}
