package ports

import "libfetch/internal/types"

// ManifestPort loads a declared artifact manifest from disk.
type ManifestPort interface {
	Load(path string) (types.Manifest, error)
}
