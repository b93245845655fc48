// Package testutil provides shared test helpers used across integration
// and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteManifest writes a YAML artifact manifest into a fresh temp
// directory and returns its path.
func WriteManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "libfetch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
