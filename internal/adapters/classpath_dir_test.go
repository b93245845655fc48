package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"
)

func TestDirClasspathInject(t *testing.T) {
	src := filepath.Join(t.TempDir(), "demo-1.0.0.jar")
	require.NoError(t, os.WriteFile(src, []byte("jar"), 0o644))

	dir := filepath.Join(t.TempDir(), "plugins", "libs")
	adapter := NewDirClasspathAdapter(dir)

	require.NoError(t, adapter.Inject(t.Context(), src))
	data, err := os.ReadFile(filepath.Join(dir, "demo-1.0.0.jar"))
	require.NoError(t, err)
	require.Equal(t, []byte("jar"), data)

	// Re-injecting the same jar is a no-op.
	require.NoError(t, adapter.Inject(t.Context(), src))
}

func TestDirClasspathInjectEmptyDir(t *testing.T) {
	err := NewDirClasspathAdapter("").Inject(t.Context(), "/cache/demo.jar")
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestDirClasspathInjectMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := NewDirClasspathAdapter(dir).Inject(t.Context(), filepath.Join(t.TempDir(), "absent.jar"))
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}
