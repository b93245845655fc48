package app

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"libfetch/internal/adapters"
	"libfetch/internal/core"
	"libfetch/internal/ports"
)

type FetchRequest struct {
	ManifestPath string
	CacheDir     string
	DirName      string

	// InjectDir, when set, additionally links every loaded jar into a
	// host-watched classpath directory.
	InjectDir string
}

type FetchResult struct {
	Fetched  int
	Isolated int
	Elapsed  time.Duration
}

// Fetch warms the artifact cache from a manifest: every declared artifact is
// resolved, downloaded and relocated. With an inject directory configured
// the full load pipeline runs instead, including the classpath side effect.
func (s Service) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return FetchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	cacheDir := strings.TrimSpace(req.CacheDir)
	if cacheDir == "" {
		return FetchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cache directory is required")
	}

	manifest, err := s.Manifest.Load(manifestPath)
	if err != nil {
		return FetchResult{}, err
	}

	var classpath ports.ClasspathPort
	injectDir := strings.TrimSpace(req.InjectDir)
	if injectDir != "" {
		classpath = adapters.NewDirClasspathAdapter(injectDir)
	}

	manager, err := core.NewManager(core.ManagerConfig{
		Transport: s.Transport,
		Relocator: s.Relocator,
		Classpath: classpath,
		DataDir:   cacheDir,
		DirName:   req.DirName,
	})
	if err != nil {
		return FetchResult{}, err
	}
	manager.AddRepositories(manifest.Repositories...)

	started := s.Clock()
	result := FetchResult{}
	for _, coord := range manifest.Artifacts {
		if injectDir != "" {
			err = manager.LoadArtifact(ctx, coord)
		} else {
			_, err = manager.PrepareArtifact(ctx, coord)
		}
		if err != nil {
			return FetchResult{}, err
		}
		result.Fetched++
		if coord.Isolated() {
			result.Isolated++
		}
	}
	result.Elapsed = s.Clock().Sub(started)

	log.Ctx(ctx).Debug().
		Int("fetched", result.Fetched).
		Dur("elapsed", result.Elapsed).
		Msg("fetch completed")
	return result, nil
}
