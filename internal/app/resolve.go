package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"libfetch/internal/core"
	"libfetch/internal/types"
)

type ResolveRequest struct {
	ManifestPath string
}

type ResolvedArtifact struct {
	Coordinate string
	Candidates []string
}

// Resolve computes the ordered candidate download URLs for every artifact in
// the manifest without downloading anything. Snapshot versions still need
// the network to read repository metadata.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) ([]ResolvedArtifact, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}

	manifest, err := s.Manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	repos := make([]string, 0, len(manifest.Repositories))
	for _, repo := range manifest.Repositories {
		if normalized := types.NormalizeRepositoryURL(repo); normalized != "" {
			repos = append(repos, normalized)
		}
	}

	resolver := core.NewResolverCore(s.Transport, *log.Ctx(ctx))
	results := make([]ResolvedArtifact, 0, len(manifest.Artifacts))
	for _, coord := range manifest.Artifacts {
		results = append(results, ResolvedArtifact{
			Coordinate: coord.String(),
			Candidates: resolver.Resolve(ctx, coord, repos),
		})
	}
	return results, nil
}
