package adapters

import (
	"crypto/sha256"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "libfetch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestManifestLoadFull(t *testing.T) {
	sum := sha256.Sum256([]byte("hikari jar"))
	checksum := base64.StdEncoding.EncodeToString(sum[:])

	path := writeManifest(t, `
repositories:
  - https://repo1.maven.org/maven2/
  - https://oss.sonatype.org/content/repositories/snapshots/
artifacts:
  - group: com{}zaxxer
    artifact: HikariCP
    version: 5.0.1
    checksum: `+checksum+`
    relocations:
      - pattern: com{}zaxxer{}hikari
        relocated: myplugin{}libs{}hikari
        includes:
          - com{}zaxxer{}hikari{}pool
        excludes:
          - com{}zaxxer{}hikari{}metrics
  - group: org.example
    artifact: engine
    version: 2.0.0-SNAPSHOT
    classifier: sources
    id: engine-unit
    isolated: true
    urls:
      - https://cdn.example.com/engine.jar
    repositories:
      - https://repo.example.com/maven
`)

	manifest, err := NewManifestFileAdapter().Load(path)
	require.NoError(t, err)

	wantRepos := []string{
		"https://repo1.maven.org/maven2/",
		"https://oss.sonatype.org/content/repositories/snapshots/",
	}
	if diff := cmp.Diff(wantRepos, manifest.Repositories); diff != "" {
		t.Fatalf("unexpected repositories (-want +got):\n%s", diff)
	}
	require.Len(t, manifest.Artifacts, 2)

	hikari := manifest.Artifacts[0]
	require.Equal(t, "com.zaxxer", hikari.GroupID())
	require.Equal(t, "HikariCP", hikari.ArtifactID())
	require.True(t, hikari.HasChecksum())
	require.Equal(t, sum[:], hikari.Checksum())
	require.True(t, hikari.HasRelocations())
	rule := hikari.Relocations()[0]
	require.Equal(t, "com.zaxxer.hikari", rule.Pattern())
	require.Equal(t, "myplugin.libs.hikari", rule.RelocatedPattern())
	require.Equal(t, []string{"com.zaxxer.hikari.pool"}, rule.Includes())
	require.Equal(t, []string{"com.zaxxer.hikari.metrics"}, rule.Excludes())

	engine := manifest.Artifacts[1]
	require.Equal(t, "engine-unit", engine.ID())
	require.True(t, engine.Isolated())
	require.True(t, engine.HasClassifier())
	require.Equal(t, "sources", engine.Classifier())
	require.Equal(t, []string{"https://cdn.example.com/engine.jar"}, engine.URLs())
	require.Equal(t, []string{"https://repo.example.com/maven/"}, engine.Repositories())
}

func TestManifestLoadMissingFile(t *testing.T) {
	_, err := NewManifestFileAdapter().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestManifestLoadMalformedYAML(t *testing.T) {
	path := writeManifest(t, "artifacts: [unclosed")
	_, err := NewManifestFileAdapter().Load(path)
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestManifestLoadInvalidArtifact(t *testing.T) {
	path := writeManifest(t, `
artifacts:
  - group: com.example
    artifact: demo
`)
	_, err := NewManifestFileAdapter().Load(path)
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	require.Contains(t, err.Error(), "artifact 0")
}
