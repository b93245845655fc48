// Package shared provides common utility functions used across multiple
// packages in the libfetch codebase.
package shared

import (
	"fmt"
)

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
