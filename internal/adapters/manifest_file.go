package adapters

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"libfetch/internal/ports"
	"libfetch/internal/types"
)

// ManifestFileAdapter loads a YAML artifact manifest:
//
//	repositories:
//	  - https://repo1.maven.org/maven2/
//	artifacts:
//	  - group: com{}zaxxer
//	    artifact: HikariCP
//	    version: 5.0.1
//	    checksum: <base64 sha-256>
//	    relocations:
//	      - pattern: com{}zaxxer{}hikari
//	        relocated: myplugin{}libs{}hikari
type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

type manifestFile struct {
	Repositories []string           `yaml:"repositories"`
	Artifacts    []manifestArtifact `yaml:"artifacts"`
}

type manifestArtifact struct {
	Group        string               `yaml:"group"`
	Artifact     string               `yaml:"artifact"`
	Version      string               `yaml:"version"`
	Classifier   string               `yaml:"classifier"`
	Checksum     string               `yaml:"checksum"`
	ID           string               `yaml:"id"`
	Isolated     bool                 `yaml:"isolated"`
	URLs         []string             `yaml:"urls"`
	Repositories []string             `yaml:"repositories"`
	Relocations  []manifestRelocation `yaml:"relocations"`
}

type manifestRelocation struct {
	Pattern   string   `yaml:"pattern"`
	Relocated string   `yaml:"relocated"`
	Includes  []string `yaml:"includes"`
	Excludes  []string `yaml:"excludes"`
}

func (a ManifestFileAdapter) Load(path string) (types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read manifest file").
			WithCause(err)
	}

	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse manifest file").
			WithCause(err)
	}

	manifest := types.Manifest{Repositories: file.Repositories}
	for i, entry := range file.Artifacts {
		coord, err := buildCoordinate(entry)
		if err != nil {
			return types.Manifest{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("manifest artifact %d is invalid", i)).
				WithCause(err)
		}
		manifest.Artifacts = append(manifest.Artifacts, coord)
	}
	return manifest, nil
}

func buildCoordinate(entry manifestArtifact) (types.Coordinate, error) {
	builder := types.NewCoordinateBuilder().
		GroupID(entry.Group).
		ArtifactID(entry.Artifact).
		Version(entry.Version).
		Classifier(entry.Classifier).
		ID(entry.ID).
		Isolated(entry.Isolated)
	if entry.Checksum != "" {
		builder.ChecksumBase64(entry.Checksum)
	}
	for _, url := range entry.URLs {
		builder.URL(url)
	}
	for _, repo := range entry.Repositories {
		builder.Repository(repo)
	}
	for _, rule := range entry.Relocations {
		relocation, err := types.NewRelocation(rule.Pattern, rule.Relocated, rule.Includes, rule.Excludes)
		if err != nil {
			return types.Coordinate{}, err
		}
		builder.Relocation(relocation)
	}
	return builder.Build()
}

var _ ports.ManifestPort = ManifestFileAdapter{}
