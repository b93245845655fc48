package types

// Manifest is a declared set of repositories and artifacts, typically loaded
// from a libraries file by the CLI.
type Manifest struct {
	Repositories []string
	Artifacts    []Coordinate
}

// HTTPResponse is the raw result of a transport GET: status code plus the
// fully buffered body. Non-2xx statuses are data, not transport errors.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r HTTPResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
