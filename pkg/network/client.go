package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/lcalzada-xor/blockscope/pkg/config"
)

// MaxBodySize caps how much of a remote script is read.
const MaxBodySize = 10 << 20

// ErrStatus is returned by Fetch for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// Client wraps http.Client with retry logic and rate limiting.
type Client struct {
	HTTPClient  *http.Client
	RateLimiter *RateLimiter
	MaxRetries  int
}

// NewClient creates a new Client instance with connection pooling sized for
// the worker count and optional rate limiting.
// rateLimit: requests per second (0 = unlimited)
func NewClient(timeout time.Duration, proxyURL string, concurrency int, rateLimit float64) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		// Connection pooling - scales with concurrency
		MaxIdleConns:        concurrency * 2,
		MaxIdleConnsPerHost: max(concurrency/2, 10),
		MaxConnsPerHost:     concurrency,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxyURL != "" {
		if pURL, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(pURL)
		}
	}

	return &Client{
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		RateLimiter: NewRateLimiter(rateLimit),
		MaxRetries:  3,
	}
}

// Do sends an HTTP request with automatic retries and rate limiting.
// Network errors and 5xx responses are retried with exponential backoff.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.RateLimiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	var resp *http.Response
	var err error

	for i := 0; i <= c.MaxRetries; i++ {
		if i > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(math.Pow(2, float64(i-1))*100) * time.Millisecond
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
			}
		}

		resp, err = c.HTTPClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if err != nil && req.Context().Err() != nil {
			return nil, err
		}

		// Close body if we are going to retry
		if resp != nil && i < c.MaxRetries {
			resp.Body.Close()
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d retries: %w", c.MaxRetries, err)
	}
	return resp, nil
}

// Fetch downloads the script at rawURL.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", config.DefaultUserAgent)
	req.Header.Set("Accept", "application/javascript, text/javascript, text/html;q=0.9, */*;q=0.5")

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: %w %d", rawURL, ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("fetching %s: body exceeds %d bytes", rawURL, MaxBodySize)
	}
	return body, nil
}
