package app

import (
	"bytes"
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

type VerifyRequest struct {
	ManifestPath string
	CacheDir     string
	DirName      string
}

type VerifyResult struct {
	Verified   []string
	Missing    []string
	Mismatched []string
	Skipped    []string
}

// defaultCacheDirName mirrors the manager's default cache sub-directory.
const defaultCacheDirName = "libs"

// Verify audits the on-disk cache against the manifest: every artifact with
// a declared checksum is re-hashed and compared. Artifacts without a
// checksum are reported as skipped, absent files as missing.
func (s Service) Verify(ctx context.Context, req VerifyRequest) (VerifyResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return VerifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	cacheDir := strings.TrimSpace(req.CacheDir)
	if cacheDir == "" {
		return VerifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cache directory is required")
	}
	dirName := strings.TrimSpace(req.DirName)
	if dirName == "" {
		dirName = defaultCacheDirName
	}

	manifest, err := s.Manifest.Load(manifestPath)
	if err != nil {
		return VerifyResult{}, err
	}

	saveDir := filepath.Join(cacheDir, dirName)
	result := VerifyResult{}
	for _, coord := range manifest.Artifacts {
		name := coord.String()
		if !coord.HasChecksum() {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		data, err := os.ReadFile(filepath.Join(saveDir, filepath.FromSlash(coord.Path())))
		if err != nil {
			result.Missing = append(result.Missing, name)
			continue
		}
		sum := sha256.Sum256(data)
		if bytes.Equal(sum[:], coord.Checksum()) {
			result.Verified = append(result.Verified, name)
		} else {
			result.Mismatched = append(result.Mismatched, name)
		}
	}

	log.Ctx(ctx).Debug().
		Int("verified", len(result.Verified)).
		Int("missing", len(result.Missing)).
		Int("mismatched", len(result.Mismatched)).
		Msg("verify completed")
	return result, nil
}
