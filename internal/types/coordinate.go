package types

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
)

// Group and relocation patterns accept "{}" in place of "." so callers can
// escape dotted names from build-tool shading rewrites.
const separatorPlaceholder = "{}"

// checksumLength is the size of a raw SHA-256 digest.
const checksumLength = 32

// Coordinate identifies a Maven-style artifact and its acquisition settings.
// Values are immutable once built; use CoordinateBuilder to construct one.
type Coordinate struct {
	id            string
	groupID       string
	artifactID    string
	version       string
	classifier    string
	checksum      []byte
	urls          []string
	repositories  []string
	relocations   []Relocation
	isolated      bool
	path          string
	relocatedPath string
}

// ID returns the isolation-group id. It is auto-generated when not set
// explicitly and is only meaningful as a sharing key, never for equality.
func (c Coordinate) ID() string { return c.id }

func (c Coordinate) GroupID() string    { return c.groupID }
func (c Coordinate) ArtifactID() string { return c.artifactID }
func (c Coordinate) Version() string    { return c.version }
func (c Coordinate) Classifier() string { return c.classifier }

func (c Coordinate) HasClassifier() bool { return c.classifier != "" }

// Checksum returns a copy of the expected SHA-256 digest, or nil.
func (c Coordinate) Checksum() []byte {
	if c.checksum == nil {
		return nil
	}
	return append([]byte(nil), c.checksum...)
}

func (c Coordinate) HasChecksum() bool { return len(c.checksum) > 0 }

// URLs returns the explicit direct-download URLs in declaration order.
func (c Coordinate) URLs() []string { return append([]string(nil), c.urls...) }

// Repositories returns the per-artifact repository base URLs, normalized
// to slash-terminated form, in declaration order.
func (c Coordinate) Repositories() []string { return append([]string(nil), c.repositories...) }

func (c Coordinate) Relocations() []Relocation { return append([]Relocation(nil), c.relocations...) }

func (c Coordinate) HasRelocations() bool { return len(c.relocations) > 0 }

// Isolated reports whether the artifact is loaded into an isolated loading
// unit instead of the host classpath.
func (c Coordinate) Isolated() bool { return c.isolated }

// Path is the canonical relative storage path:
// groupPath/artifactID/version/artifactID-version[-classifier].jar.
func (c Coordinate) Path() string { return c.path }

// RelocatedPath is Path with "-relocated" inserted before the extension.
// It is empty when the coordinate has no relocation rules.
func (c Coordinate) RelocatedPath() string { return c.relocatedPath }

func (c Coordinate) String() string {
	if c.HasClassifier() {
		return fmt.Sprintf("%s:%s:%s:%s", c.groupID, c.artifactID, c.version, c.classifier)
	}
	return fmt.Sprintf("%s:%s:%s", c.groupID, c.artifactID, c.version)
}

// CoordinateBuilder is the staged-construction side of Coordinate. A builder
// is configured, finalized with Build and then discarded.
type CoordinateBuilder struct {
	id           string
	groupID      string
	artifactID   string
	version      string
	classifier   string
	checksum     []byte
	checksumErr  error
	urls         []string
	repositories []string
	relocations  []Relocation
	isolated     bool
}

func NewCoordinateBuilder() *CoordinateBuilder {
	return &CoordinateBuilder{}
}

func (b *CoordinateBuilder) ID(id string) *CoordinateBuilder {
	b.id = strings.TrimSpace(id)
	return b
}

func (b *CoordinateBuilder) GroupID(groupID string) *CoordinateBuilder {
	b.groupID = strings.TrimSpace(groupID)
	return b
}

func (b *CoordinateBuilder) ArtifactID(artifactID string) *CoordinateBuilder {
	b.artifactID = strings.TrimSpace(artifactID)
	return b
}

func (b *CoordinateBuilder) Version(version string) *CoordinateBuilder {
	b.version = strings.TrimSpace(version)
	return b
}

func (b *CoordinateBuilder) Classifier(classifier string) *CoordinateBuilder {
	b.classifier = strings.TrimSpace(classifier)
	return b
}

// Checksum sets the expected raw SHA-256 digest of the artifact jar.
func (b *CoordinateBuilder) Checksum(sum []byte) *CoordinateBuilder {
	b.checksum = append([]byte(nil), sum...)
	return b
}

// ChecksumBase64 sets the expected SHA-256 digest from its base64 rendering.
// Decode failures are reported by Build.
func (b *CoordinateBuilder) ChecksumBase64(encoded string) *CoordinateBuilder {
	sum, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		b.checksumErr = err
		return b
	}
	b.checksum = sum
	return b
}

// URL adds a direct download URL attempted before any repository.
func (b *CoordinateBuilder) URL(url string) *CoordinateBuilder {
	b.urls = append(b.urls, strings.TrimSpace(url))
	return b
}

// Repository adds a per-artifact repository base URL.
func (b *CoordinateBuilder) Repository(url string) *CoordinateBuilder {
	b.repositories = append(b.repositories, url)
	return b
}

func (b *CoordinateBuilder) Relocation(rule Relocation) *CoordinateBuilder {
	b.relocations = append(b.relocations, rule)
	return b
}

func (b *CoordinateBuilder) Isolated(isolated bool) *CoordinateBuilder {
	b.isolated = isolated
	return b
}

// Build finalizes the coordinate. It fails when groupID, artifactID or
// version are missing or a supplied checksum is not a SHA-256 digest.
func (b *CoordinateBuilder) Build() (Coordinate, error) {
	groupID := strings.ReplaceAll(b.groupID, separatorPlaceholder, ".")
	if groupID == "" {
		return Coordinate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("coordinate group id is required")
	}
	if b.artifactID == "" {
		return Coordinate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("coordinate artifact id is required")
	}
	if b.version == "" {
		return Coordinate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("coordinate version is required")
	}
	if b.checksumErr != nil {
		return Coordinate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("coordinate checksum is not valid base64").
			WithCause(b.checksumErr)
	}
	if b.checksum != nil && len(b.checksum) != checksumLength {
		return Coordinate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("coordinate checksum must be %d bytes, got %d", checksumLength, len(b.checksum)))
	}

	id := b.id
	if id == "" {
		id = uuid.NewString()
	}

	path := fmt.Sprintf("%s/%s/%s/%s-%s",
		strings.ReplaceAll(groupID, ".", "/"), b.artifactID, b.version, b.artifactID, b.version)
	if b.classifier != "" {
		path += "-" + b.classifier
	}

	relocatedPath := ""
	if len(b.relocations) > 0 {
		relocatedPath = path + "-relocated.jar"
	}

	return Coordinate{
		id:            id,
		groupID:       groupID,
		artifactID:    b.artifactID,
		version:       b.version,
		classifier:    b.classifier,
		checksum:      append([]byte(nil), b.checksum...),
		urls:          dedupeStrings(b.urls),
		repositories:  dedupeStrings(normalizeRepositoryURLs(b.repositories)),
		relocations:   append([]Relocation(nil), b.relocations...),
		isolated:      b.isolated,
		path:          path + ".jar",
		relocatedPath: relocatedPath,
	}, nil
}

// NormalizeRepositoryURL trims whitespace and appends a trailing slash so
// candidate URLs can be derived by plain concatenation.
func NormalizeRepositoryURL(url string) string {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return ""
	}
	if strings.HasSuffix(trimmed, "/") {
		return trimmed
	}
	return trimmed + "/"
}

func normalizeRepositoryURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		if normalized := NormalizeRepositoryURL(url); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

func dedupeStrings(values []string) []string {
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
