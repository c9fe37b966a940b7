// Package fetch wraps outbound page fetches with a bounded timeout and a
// browser user-agent. Listing sites routinely block obvious bot clients, so
// every request goes out looking like a desktop browser.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 8 * time.Second

	// UserAgent mimics a desktop browser; several listing sites 403 anything else.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodyBytes = 4 << 20 // listing pages are big but not that big
)

// ErrTimeout marks a fetch that was aborted because its deadline passed, as
// opposed to a network-level failure. Callers distinguish the two with
// errors.Is.
var ErrTimeout = errors.New("fetch: deadline exceeded")

// Client issues bounded HTTP GETs against listing pages.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a Client whose requests abort after timeout. A non-positive
// timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{Transport: tr},
		timeout:    timeout,
	}
}

// Get fetches url and returns the response body. The request is cancelled
// when the client's timeout elapses or ctx is done, whichever comes first;
// timeouts are reported as ErrTimeout.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(reqCtx, err) {
			return nil, fmt.Errorf("fetching %s: %w", url, ErrTimeout)
		}
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(reqCtx, err) {
			return nil, fmt.Errorf("reading %s: %w", url, ErrTimeout)
		}
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

// isTimeout reports whether err (or the request context) indicates the fetch
// ran out of time rather than failing at the network level.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
