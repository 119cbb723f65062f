package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// MaxResourceSize bounds the body accepted by HTTPFetcher.
const MaxResourceSize = 4 << 20 // 4MB

// Fetcher retrieves the raw content of a resource.
type Fetcher interface {
	Fetch(ctx context.Context, resourceID string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, resourceID string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, resourceID string) (string, error) {
	return f(ctx, resourceID)
}

// StatusError is returned when the origin answers with a non-success status.
type StatusError struct {
	ResourceID string
	Code       int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.ResourceID, e.Code, http.StatusText(e.Code))
}

// HTTPFetcher reads resources with GET {BaseURL}/docs/{resourceID}.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client // nil means http.DefaultClient
}

// NewHTTPFetcher returns an HTTPFetcher for the origin at baseURL.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{BaseURL: baseURL, Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, resourceID string) (string, error) {
	u := strings.TrimRight(f.BaseURL, "/") + "/docs/" + url.PathEscape(resourceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", resourceID, err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", resourceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &StatusError{ResourceID: resourceID, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResourceSize+1))
	if err != nil {
		return "", fmt.Errorf("fetch %s: read body: %w", resourceID, err)
	}
	if len(body) > MaxResourceSize {
		return "", fmt.Errorf("fetch %s: body exceeds %d bytes", resourceID, MaxResourceSize)
	}
	return string(body), nil
}
