package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"

	"libfetch/internal/ports"
	"libfetch/internal/shared"
	"libfetch/internal/types"
)

// DownloaderCore fetches an artifact from an ordered list of candidate URLs
// into the local cache. The file's presence at the coordinate's canonical
// path is the entire cache state: existing files are trusted and returned
// without re-verification.
type DownloaderCore struct {
	Transport ports.TransportPort
	SaveDir   string
	Logger    zerolog.Logger
}

func NewDownloaderCore(transport ports.TransportPort, saveDir string, logger zerolog.Logger) DownloaderCore {
	return DownloaderCore{Transport: transport, SaveDir: saveDir, Logger: logger}
}

// Fetch tries each candidate in order until one yields bytes that pass the
// coordinate's checksum (when declared), publishes them atomically at the
// canonical path and returns that path. Per-candidate failures advance to
// the next candidate; exhausting all of them is fatal.
func (d DownloaderCore) Fetch(ctx context.Context, coord types.Coordinate, candidates []string) (string, error) {
	target := filepath.Join(d.SaveDir, filepath.FromSlash(coord.Path()))
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	if len(candidates) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("artifact %s could not be resolved, add a repository", coord))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create cache directory for %s", coord)).
			WithCause(err)
	}

	for _, url := range candidates {
		body, ok := d.download(ctx, url)
		if !ok {
			continue
		}

		if coord.HasChecksum() {
			sum := sha256.Sum256(body)
			if !bytes.Equal(sum[:], coord.Checksum()) {
				d.Logger.Warn().
					Str("artifact", coord.String()).
					Str("url", url).
					Str("expected", base64.StdEncoding.EncodeToString(coord.Checksum())).
					Str("actual", base64.StdEncoding.EncodeToString(sum[:])).
					Msg("invalid checksum, trying next candidate")
				continue
			}
		}

		if err := publish(body, target); err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to write artifact %s to cache", coord)).
				WithCause(err)
		}
		d.Logger.Info().Str("artifact", coord.String()).Str("url", url).Msg("downloaded artifact")
		return target, nil
	}

	return "", errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(fmt.Sprintf("failed to download artifact %s from every candidate URL", coord))
}

// download returns the body for url, or ok=false when the candidate failed
// and the next one should be attempted.
func (d DownloaderCore) download(ctx context.Context, url string) ([]byte, bool) {
	resp, err := d.Transport.Get(ctx, url)
	if err != nil {
		d.Logger.Debug().Err(err).Str("url", url).Msg("download failed")
		return nil, false
	}
	if !resp.OK() {
		d.Logger.Debug().Err(shared.HTTPStatusError(resp.StatusCode, url)).Msg("download rejected")
		return nil, false
	}
	return resp.Body, true
}

// publish writes data to a temporary sibling of target and renames it into
// place. The rename is the sole publication point; the temporary file is
// removed on every exit path.
func publish(data []byte, target string) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
