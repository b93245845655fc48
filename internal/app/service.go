package app

import (
	"time"

	"libfetch/internal/adapters"
	"libfetch/internal/ports"
)

// Service wires the default adapters behind the port interfaces used by the
// CLI operations. Tests swap individual ports for stubs.
type Service struct {
	Manifest  ports.ManifestPort
	Transport ports.TransportPort
	Relocator ports.RelocatorPort
	Clock     func() time.Time
}

func NewService() Service {
	return Service{
		Manifest:  adapters.NewManifestFileAdapter(),
		Transport: adapters.NewHTTPTransportAdapter(0, nil),
		Relocator: adapters.NewJarRelocatorAdapter(),
		Clock:     time.Now,
	}
}
