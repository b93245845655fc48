package ports

import "context"

// ClasspathPort is the host-specific side effect at the end of the pipeline:
// make the classes in the jar at path loadable by the running application.
type ClasspathPort interface {
	Inject(ctx context.Context, path string) error
}
