// Package httpds implements an HTTP-backed data source for deployments where
// the survey tool serves the export from a download URL instead of a file
// share.
package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"pitchboard/internal/datasource"
)

// Client fetches the export from a URL.
type Client struct {
	url string
	hc  *http.Client
}

// New returns a Client for url. When hc is nil a client with a 30s timeout is
// used; survey exports are small and a stalled download should not hold a
// render forever.
func New(url string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{url: url, hc: hc}
}

// Open issues a GET for the configured URL and returns the response body.
// A 404 maps to datasource.ErrNotFound so the loader can render its
// empty-table result; other non-200 statuses are plain errors. The body is
// closed before returning any error.
func (c *Client) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", c.url, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.url, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w", c.url, datasource.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", c.url, resp.Status)
	}
	return resp.Body, nil
}

// Version issues a HEAD request and builds a revision token from the
// response validators (ETag, Last-Modified, Content-Length). Servers that
// send no validators get an empty token, which disables caching rather than
// serving a stale table forever.
func (c *Client) Version(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", c.url, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", c.url, err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("fetch %s: %w", c.url, datasource.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: %s", c.url, resp.Status)
	}
	etag := resp.Header.Get("ETag")
	lastMod := resp.Header.Get("Last-Modified")
	if etag == "" && lastMod == "" {
		return "", nil
	}
	return etag + "|" + lastMod + "|" + resp.Header.Get("Content-Length"), nil
}
