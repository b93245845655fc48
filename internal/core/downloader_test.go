package core

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"libfetch/internal/types"
)

func TestFetchCacheIdempotence(t *testing.T) {
	transport := newStubTransport()
	transport.responses["https://repo.example.com/demo.jar"] = types.HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       []byte("jar bytes"),
	}
	coord := mustCoordinate(t, nil)
	downloader := NewDownloaderCore(transport, t.TempDir(), zerolog.Nop())

	first, err := downloader.Fetch(t.Context(), coord, []string{"https://repo.example.com/demo.jar"})
	require.NoError(t, err)
	require.Equal(t, 1, transport.callCount())

	second, err := downloader.Fetch(t.Context(), coord, []string{"https://repo.example.com/demo.jar"})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, transport.callCount(), "second fetch must not touch the network")

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	require.Equal(t, []byte("jar bytes"), data)
}

func TestFetchFallbackOrdering(t *testing.T) {
	transport := newStubTransport()
	transport.errs["https://one.example.com/demo.jar"] = errors.New("no route to host")
	// two.example.com is absent from the stub and returns 404.
	transport.responses["https://three.example.com/demo.jar"] = types.HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       []byte("third time lucky"),
	}
	coord := mustCoordinate(t, nil)
	downloader := NewDownloaderCore(transport, t.TempDir(), zerolog.Nop())

	path, err := downloader.Fetch(t.Context(), coord, []string{
		"https://one.example.com/demo.jar",
		"https://two.example.com/demo.jar",
		"https://three.example.com/demo.jar",
	})
	require.NoError(t, err)

	want := []string{
		"https://one.example.com/demo.jar",
		"https://two.example.com/demo.jar",
		"https://three.example.com/demo.jar",
	}
	if diff := cmp.Diff(want, transport.requested()); diff != "" {
		t.Fatalf("unexpected attempt order (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("third time lucky"), data)
}

func TestFetchChecksumRejection(t *testing.T) {
	good := []byte("expected payload")
	sum := sha256.Sum256(good)

	transport := newStubTransport()
	transport.responses["https://bad.example.com/demo.jar"] = types.HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       []byte("tampered payload"),
	}
	transport.responses["https://good.example.com/demo.jar"] = types.HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       good,
	}
	coord := mustCoordinate(t, func(b *types.CoordinateBuilder) {
		b.Checksum(sum[:])
	})
	downloader := NewDownloaderCore(transport, t.TempDir(), zerolog.Nop())

	path, err := downloader.Fetch(t.Context(), coord, []string{
		"https://bad.example.com/demo.jar",
		"https://good.example.com/demo.jar",
	})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, good, data)
}

func TestFetchExhaustionLeavesNoFile(t *testing.T) {
	sum := sha256.Sum256([]byte("never served"))
	transport := newStubTransport()
	transport.responses["https://bad.example.com/demo.jar"] = types.HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       []byte("wrong bytes"),
	}
	coord := mustCoordinate(t, func(b *types.CoordinateBuilder) {
		b.Checksum(sum[:])
	})
	saveDir := t.TempDir()
	downloader := NewDownloaderCore(transport, saveDir, zerolog.Nop())

	_, err := downloader.Fetch(t.Context(), coord, []string{"https://bad.example.com/demo.jar"})
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeUnavailable, errbuilder.CodeOf(err))

	target := filepath.Join(saveDir, filepath.FromSlash(coord.Path()))
	_, statErr := os.Stat(target)
	require.True(t, os.IsNotExist(statErr), "no file may exist at the canonical path after exhaustion")

	entries, readErr := os.ReadDir(filepath.Dir(target))
	require.NoError(t, readErr)
	for _, entry := range entries {
		require.False(t, strings.Contains(entry.Name(), ".tmp"), "temp file %s left behind", entry.Name())
	}
}

func TestFetchNoCandidates(t *testing.T) {
	coord := mustCoordinate(t, nil)
	downloader := NewDownloaderCore(newStubTransport(), t.TempDir(), zerolog.Nop())

	_, err := downloader.Fetch(t.Context(), coord, nil)
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	require.Contains(t, err.Error(), "com.example:demo:1.0.0")
}
