package core

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"libfetch/internal/ports"
	"libfetch/internal/shared"
	"libfetch/internal/types"
)

// snapshotSuffix marks versions whose latest content is addressed indirectly
// through repository metadata.
const snapshotSuffix = "-SNAPSHOT"

// ResolverCore turns a coordinate plus a repository set into an ordered,
// deduplicated list of candidate download URLs. Direct URLs come first, then
// one derived URL per repository in priority order.
type ResolverCore struct {
	Transport ports.TransportPort
	Logger    zerolog.Logger
}

func NewResolverCore(transport ports.TransportPort, logger zerolog.Logger) ResolverCore {
	return ResolverCore{Transport: transport, Logger: logger}
}

// Resolve produces the candidate URLs for coord against the union of the
// coordinate's own repositories and globalRepos. Snapshot versions require a
// metadata fetch per repository; a repository whose metadata cannot be
// fetched or parsed contributes no candidate and never aborts resolution.
func (r ResolverCore) Resolve(ctx context.Context, coord types.Coordinate, globalRepos []string) []string {
	urls := append([]string(nil), coord.URLs()...)

	var repos []string
	repos = append(repos, coord.Repositories()...)
	for _, repo := range globalRepos {
		repos = append(repos, types.NormalizeRepositoryURL(repo))
	}
	repos = dedupe(repos)

	if !strings.HasSuffix(coord.Version(), snapshotSuffix) {
		for _, repo := range repos {
			urls = append(urls, repo+coord.Path())
		}
		return dedupe(urls)
	}

	for _, repo := range repos {
		candidate, err := r.snapshotCandidate(ctx, repo, coord)
		if err != nil {
			r.Logger.Debug().Err(err).
				Str("repository", repo).
				Str("artifact", coord.String()).
				Msg("snapshot metadata unavailable, skipping repository")
			continue
		}
		urls = append(urls, candidate)
	}
	return dedupe(urls)
}

// mavenMetadata is the subset of a repository maven-metadata.xml document
// needed to address the latest snapshot build.
type mavenMetadata struct {
	Versioning struct {
		Snapshot struct {
			Timestamp   string `xml:"timestamp"`
			BuildNumber string `xml:"buildNumber"`
		} `xml:"snapshot"`
	} `xml:"versioning"`
}

func (r ResolverCore) snapshotCandidate(ctx context.Context, repo string, coord types.Coordinate) (string, error) {
	groupPath := strings.ReplaceAll(coord.GroupID(), ".", "/")
	versionDir := fmt.Sprintf("%s/%s/%s", groupPath, coord.ArtifactID(), coord.Version())

	metadataURL := repo + versionDir + "/maven-metadata.xml"
	resp, err := r.Transport.Get(ctx, metadataURL)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", shared.HTTPStatusError(resp.StatusCode, metadataURL)
	}

	var metadata mavenMetadata
	if err := xml.Unmarshal(resp.Body, &metadata); err != nil {
		return "", fmt.Errorf("metadata parse failed: %w", err)
	}
	snapshot := metadata.Versioning.Snapshot
	if snapshot.Timestamp == "" || snapshot.BuildNumber == "" {
		return "", fmt.Errorf("metadata has no snapshot timestamp or build number")
	}

	baseVersion := strings.TrimSuffix(coord.Version(), snapshotSuffix)
	name := fmt.Sprintf("%s-%s-%s-%s", coord.ArtifactID(), baseVersion, snapshot.Timestamp, snapshot.BuildNumber)
	if coord.HasClassifier() {
		name += "-" + coord.Classifier()
	}
	return fmt.Sprintf("%s%s/%s.jar", repo, versionDir, name), nil
}

func dedupe(values []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
