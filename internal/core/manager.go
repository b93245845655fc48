package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"libfetch/internal/ports"
	"libfetch/internal/types"
)

// defaultDirName is the cache sub-directory under the data directory.
const defaultDirName = "libs"

// Manager coordinates the acquisition pipeline for one plugin: resolve a
// coordinate to candidate URLs, download the jar into the cache, apply
// relocations, and hand the file to either an isolated loading unit or the
// host's classpath injector. Batch loading is strictly sequential.
type Manager struct {
	transport ports.TransportPort
	relocator ports.RelocatorPort
	classpath ports.ClasspathPort
	saveDir   string

	mu           sync.Mutex
	repositories []string
	logger       zerolog.Logger

	isolated *IsolationRegistry
}

// ManagerConfig carries the collaborators and cache location for a Manager.
// Transport and DataDir are required; Relocator and Classpath are validated
// when an artifact actually needs them.
type ManagerConfig struct {
	Transport ports.TransportPort
	Relocator ports.RelocatorPort
	Classpath ports.ClasspathPort

	// DataDir is the plugin's data directory; jars are cached under
	// DataDir/DirName. DirName defaults to "libs".
	DataDir string
	DirName string

	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Transport == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manager requires a transport port")
	}
	if cfg.DataDir == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manager requires a data directory")
	}
	dirName := cfg.DirName
	if dirName == "" {
		dirName = defaultDirName
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Manager{
		transport: cfg.Transport,
		relocator: cfg.Relocator,
		classpath: cfg.Classpath,
		saveDir:   filepath.Join(cfg.DataDir, dirName),
		logger:    logger,
		isolated:  NewIsolationRegistry(),
	}, nil
}

// SaveDir is the root of the on-disk artifact cache.
func (m *Manager) SaveDir() string { return m.saveDir }

// LogLevel returns the severity threshold of the manager's logger.
func (m *Manager) LogLevel() zerolog.Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logger.GetLevel()
}

// SetLogLevel filters which severities the manager emits. It does not affect
// pipeline behavior.
func (m *Manager) SetLogLevel(level zerolog.Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = m.logger.Level(level)
}

// AddRepository appends a repository base URL to the ordered registry.
// URLs are normalized to slash-terminated form; duplicates are absorbed.
func (m *Manager) AddRepository(url string) {
	normalized := types.NormalizeRepositoryURL(url)
	if normalized == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.repositories {
		if existing == normalized {
			return
		}
	}
	m.repositories = append(m.repositories, normalized)
}

func (m *Manager) AddRepositories(urls ...string) {
	for _, url := range urls {
		m.AddRepository(url)
	}
}

// AddMavenCentral registers the Maven Central repository.
func (m *Manager) AddMavenCentral() { m.AddRepository(types.MavenCentral) }

// AddSonatype registers the Sonatype OSS repository.
func (m *Manager) AddSonatype() { m.AddRepository(types.Sonatype) }

// AddJitPack registers the JitPack repository.
func (m *Manager) AddJitPack() { m.AddRepository(types.JitPack) }

// AddMavenLocal registers the current user's local Maven repository.
func (m *Manager) AddMavenLocal() { m.AddRepository(types.MavenLocal()) }

// Repositories returns a snapshot of the registry in priority order.
func (m *Manager) Repositories() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.repositories...)
}

func (m *Manager) currentLogger() zerolog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logger
}

// ResolveArtifact returns the ordered candidate download URLs for coord
// against the coordinate's own repositories plus the manager's registry.
func (m *Manager) ResolveArtifact(ctx context.Context, coord types.Coordinate) []string {
	resolver := NewResolverCore(m.transport, m.currentLogger())
	return resolver.Resolve(ctx, coord, m.Repositories())
}

// DownloadArtifact resolves and downloads coord into the cache and returns
// the local path, without touching any classpath.
func (m *Manager) DownloadArtifact(ctx context.Context, coord types.Coordinate) (string, error) {
	assert.NotEmpty(ctx, coord.Path(), "coordinate path must be derived at build time")
	downloader := NewDownloaderCore(m.transport, m.saveDir, m.currentLogger())
	return downloader.Fetch(ctx, coord, m.ResolveArtifact(ctx, coord))
}

// PrepareArtifact downloads coord and applies its relocation rules, returning
// the path of the jar that would be loaded. Coordinates without rules skip
// the relocation step entirely.
func (m *Manager) PrepareArtifact(ctx context.Context, coord types.Coordinate) (string, error) {
	file, err := m.DownloadArtifact(ctx, coord)
	if err != nil {
		return "", err
	}
	if !coord.HasRelocations() {
		return file, nil
	}
	return m.relocate(ctx, coord, file)
}

// LoadArtifact runs the full pipeline for one coordinate: download, relocate,
// then hand the jar to the isolation registry or the host classpath injector.
func (m *Manager) LoadArtifact(ctx context.Context, coord types.Coordinate) error {
	file, err := m.PrepareArtifact(ctx, coord)
	if err != nil {
		return err
	}

	if coord.Isolated() {
		unit := m.isolated.GetOrCreate(coord.ID())
		unit.AddPath(file)
		logger := m.currentLogger()
		logger.Debug().
			Str("artifact", coord.String()).
			Str("isolation_id", coord.ID()).
			Msg("artifact added to isolated loading unit")
		return nil
	}

	if m.classpath == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("artifact %s needs a classpath port and none is configured", coord))
	}
	// Injection failures are the host's to diagnose; propagate unmodified.
	return m.classpath.Inject(ctx, file)
}

// LoadArtifacts loads coordinates sequentially in the given order. The first
// failure aborts the batch; artifacts loaded before it stay loaded.
func (m *Manager) LoadArtifacts(ctx context.Context, coords ...types.Coordinate) error {
	for _, coord := range coords {
		if err := m.LoadArtifact(ctx, coord); err != nil {
			return err
		}
	}
	return nil
}

// IsolatedUnit returns the loading unit registered under id, if any.
func (m *Manager) IsolatedUnit(id string) (*LoadingUnit, bool) {
	return m.isolated.Get(id)
}

// relocate applies coord's rules to in, caching the result at the
// coordinate's relocated path. An existing relocated jar is trusted the same
// way the downloader trusts existing downloads.
func (m *Manager) relocate(ctx context.Context, coord types.Coordinate, in string) (string, error) {
	out := filepath.Join(m.saveDir, filepath.FromSlash(coord.RelocatedPath()))
	if _, err := os.Stat(out); err == nil {
		return out, nil
	}

	if m.relocator == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("artifact %s declares relocations and no relocator is configured", coord))
	}

	tmp := out + ".tmp"
	defer os.Remove(tmp)

	if err := m.relocator.Relocate(ctx, in, tmp, coord.Relocations()); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("relocation failed for artifact %s", coord)).
			WithCause(err)
	}
	if err := os.Rename(tmp, out); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to publish relocated jar for artifact %s", coord)).
			WithCause(err)
	}

	logger := m.currentLogger()
	logger.Info().Str("artifact", coord.String()).Msg("relocations applied")
	return out, nil
}
