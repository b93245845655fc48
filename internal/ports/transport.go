package ports

import (
	"context"

	"libfetch/internal/types"
)

// TransportPort fetches the content behind a candidate URL (http, https or
// file scheme). Implementations own the connect/read timeout and identifying
// headers; a non-2xx response is returned as data, only transport-level
// failures produce an error.
type TransportPort interface {
	Get(ctx context.Context, url string) (*types.HTTPResponse, error)
}
