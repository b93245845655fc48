package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWellKnownRepositoriesAreSlashTerminated(t *testing.T) {
	for _, repo := range []string{MavenCentral, Sonatype, JitPack, SonatypeAlt(1)} {
		require.True(t, strings.HasSuffix(repo, "/"), "repository %s must end with a slash", repo)
	}
	require.Equal(t, "https://s1.oss.sonatype.org/content/repositories/snapshots/", SonatypeAlt(1))
}

func TestMavenLocalIsFileURL(t *testing.T) {
	repo := MavenLocal()
	require.NotEmpty(t, repo)
	require.True(t, strings.HasPrefix(repo, "file://"))
	require.True(t, strings.HasSuffix(repo, "/.m2/repository/"))
}
