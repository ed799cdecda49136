// Package fetch retrieves remote objects referenced by OCR requests.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fetcher retrieves the bytes behind a remote-object reference. The hosting
// environment may swap in a provider for its own object store; the pipeline
// only depends on this contract.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// IsRemote reports whether ref looks like a remote-object reference rather
// than inline-encoded bytes.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// HTTPFetcher fetches objects over HTTP(S).
type HTTPFetcher struct {
	Client  *http.Client
	MaxSize int64 // maximum object size in bytes (0 = unlimited)
}

// NewHTTPFetcher returns a fetcher with a bounded timeout and size limit.
func NewHTTPFetcher(timeout time.Duration, maxSize int64) *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: timeout},
		MaxSize: maxSize,
	}
}

// Fetch downloads the object at uri into memory.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %q: %w", uri, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", uri, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %d", uri, resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if f.MaxSize > 0 {
		body = io.LimitReader(resp.Body, f.MaxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", uri, err)
	}
	if f.MaxSize > 0 && int64(len(data)) > f.MaxSize {
		return nil, fmt.Errorf("fetch %q: object exceeds %d bytes", uri, f.MaxSize)
	}
	return data, nil
}
