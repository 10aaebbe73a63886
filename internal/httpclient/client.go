package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/registrarlabs/namegate/internal/cache"
)

// Client is the HTTP client registry providers share. It rate-limits outgoing
// lookups (registrar APIs throttle aggressively), caches responses, and
// enforces a per-call timeout so a slow registry cannot stall a batch.
type Client struct {
	http    *http.Client
	cache   *cache.FileCache
	limiter *rate.Limiter
	noCache bool
}

// Option configures the Client.
type Option func(*Client)

// WithCache enables file-based response caching.
func WithCache(c *cache.FileCache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithRateLimit sets requests per second across all providers.
func WithRateLimit(rps float64) Option {
	return func(cl *Client) {
		cl.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.http.Timeout = d }
}

// WithNoCache disables caching.
func WithNoCache() Option {
	return func(cl *Client) { cl.noCache = true }
}

// New creates a client. The default timeout matches the lookup budget the
// pipeline expects; override it with WithTimeout.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response wraps a response body and metadata.
type Response struct {
	Body       []byte
	StatusCode int
	FromCache  bool
}

// Get performs an HTTP GET with rate limiting, caching, and conditional
// revalidation of stale entries.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var stale *cache.Entry
	if c.cache != nil && !c.noCache {
		entry, fresh := c.cache.Get(url)
		if fresh {
			return &Response{Body: entry.Body, StatusCode: http.StatusOK, FromCache: true}, nil
		}
		stale = entry
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if stale != nil {
		if etag := stale.Meta["etag"]; etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
		if lastMod := stale.Meta["last_modified"]; lastMod != "" {
			req.Header.Set("If-Modified-Since", lastMod)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && stale != nil {
		if c.cache != nil {
			_ = c.cache.Set(url, stale)
		}
		return &Response{Body: stale.Body, StatusCode: http.StatusOK, FromCache: true}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP GET %s: status %d: %s", url, resp.StatusCode, string(body))
	}

	if c.cache != nil && !c.noCache {
		_ = c.cache.Set(url, &cache.Entry{
			Body: body,
			Meta: map[string]string{
				"etag":          resp.Header.Get("ETag"),
				"last_modified": resp.Header.Get("Last-Modified"),
			},
		})
	}

	return &Response{Body: body, StatusCode: resp.StatusCode}, nil
}
