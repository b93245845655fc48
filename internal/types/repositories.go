package types

import (
	"fmt"
	"os"
	"path/filepath"
)

// Well-known repository base URLs, slash-terminated for direct concatenation.
const (
	MavenCentral = "https://repo1.maven.org/maven2/"
	Sonatype     = "https://oss.sonatype.org/content/groups/public/"
	JitPack      = "https://jitpack.io/"
)

// SonatypeAlt returns the base URL of a numbered Sonatype snapshot host.
func SonatypeAlt(n int) string {
	return fmt.Sprintf("https://s%d.oss.sonatype.org/content/repositories/snapshots/", n)
}

// MavenLocal returns the current user's local Maven repository as a file URL.
func MavenLocal() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return "file://" + filepath.ToSlash(filepath.Join(home, ".m2", "repository")) + "/"
}
