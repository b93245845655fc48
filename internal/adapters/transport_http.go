package adapters

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"libfetch/internal/ports"
	"libfetch/internal/types"
)

const defaultTransportTimeout = 5 * time.Second
const defaultUserAgent = "libfetch"

// HTTPTransportAdapter is the production TransportPort: plain GETs with a
// short fixed timeout as hang protection and an identifying agent header.
// file:// URLs, as produced for local Maven repositories, are read straight
// from disk with HTTP-like status semantics.
type HTTPTransportAdapter struct {
	Client    *http.Client
	UserAgent string
	Headers   map[string]string
}

func NewHTTPTransportAdapter(timeout time.Duration, headers map[string]string) HTTPTransportAdapter {
	if timeout <= 0 {
		timeout = defaultTransportTimeout
	}
	return HTTPTransportAdapter{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: defaultUserAgent,
		Headers:   headers,
	}
}

// Get buffers the full response body. Non-2xx statuses are returned to the
// caller as data; only transport-level failures produce an error.
func (a HTTPTransportAdapter) Get(ctx context.Context, rawURL string) (*types.HTTPResponse, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed download URL").
			WithCause(err)
	}
	if parsed.Scheme == "file" {
		return readFileURL(parsed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed download URL").
			WithCause(err)
	}
	req.Header.Set("User-Agent", a.UserAgent)
	for key, value := range a.Headers {
		req.Header.Set(key, value)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("request failed").
			WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("failed to read response body").
			WithCause(err)
	}
	return &types.HTTPResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// readFileURL serves a file:// URL with HTTP-like semantics: a missing file
// is a 404 so the downloader moves on to the next candidate.
func readFileURL(parsed *url.URL) (*types.HTTPResponse, error) {
	body, err := os.ReadFile(filepath.FromSlash(parsed.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return &types.HTTPResponse{StatusCode: http.StatusNotFound}, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("failed to read local repository file").
			WithCause(err)
	}
	return &types.HTTPResponse{StatusCode: http.StatusOK, Body: body}, nil
}

var _ ports.TransportPort = HTTPTransportAdapter{}
