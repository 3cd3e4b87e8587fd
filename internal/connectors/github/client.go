package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com/"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPerPage is the listing page size (the API maximum).
	DefaultPerPage = 100

	// mediaTypeDiff asks the API for a raw unified diff.
	mediaTypeDiff = "application/vnd.github.diff"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the REST API root. Empty means DefaultBaseURL.
	BaseURL string

	// Timeout bounds every request. Non-positive means DefaultTimeout.
	Timeout time.Duration

	// PerPage is the listing page size. Out of range means DefaultPerPage.
	PerPage int

	// RequestsPerSecond throttles requests proactively. Zero disables it.
	RequestsPerSecond float64
}

// DefaultOptions returns the options used against github.com.
func DefaultOptions() Options {
	return Options{
		BaseURL:           DefaultBaseURL,
		Timeout:           DefaultTimeout,
		PerPage:           DefaultPerPage,
		RequestsPerSecond: ProactiveRate,
	}
}

// Client wraps the go-github client with helper methods.
// It is safe for concurrent use; the sync engine issues one request at a time.
type Client struct {
	mu            sync.Mutex
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	opts          Options
}

// Ensure Client implements the interface.
var _ driven.PullRequestSource = (*Client)(nil)

// NewClient creates a new GitHub API client. tokenProvider may be nil for
// anonymous access to public repositories.
func NewClient(tokenProvider driven.TokenProvider, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.PerPage <= 0 || opts.PerPage > DefaultPerPage {
		opts.PerPage = DefaultPerPage
	}

	return &Client{
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(opts.RequestsPerSecond),
		opts:          opts,
	}
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so we can get the token when needed.
func (c *Client) ensureClient(ctx context.Context) (*gh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gh != nil {
		return c.gh, nil
	}

	httpClient := &http.Client{Timeout: c.opts.Timeout}

	if c.tokenProvider != nil && c.tokenProvider.IsAuthenticated() {
		token, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("get token: %w", err)
		}
		if token != "" {
			ts := oauth2.StaticTokenSource(
				&oauth2.Token{AccessToken: token},
			)
			httpClient = oauth2.NewClient(ctx, ts)
			httpClient.Timeout = c.opts.Timeout
		}
	}

	base := c.opts.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.opts.BaseURL)
	}

	client := gh.NewClient(httpClient)
	client.BaseURL = baseURL
	c.gh = client

	return client, nil
}

// get performs one GET of urlStr (absolute, or relative to the API root)
// and copies the response body into a buffer.
func (c *Client) get(ctx context.Context, urlStr, accept, operation string) (*bytes.Buffer, *gh.Response, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrTransport, err)
	}

	req, err := client.NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", domain.ErrTransport, operation, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	var body bytes.Buffer
	resp, err := client.Do(ctx, req, &body)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, resp, c.wrapError(err, resp, operation)
	}

	return &body, resp, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// PerPage returns the listing page size in use.
func (c *Client) PerPage() int {
	return c.opts.PerPage
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types. Every returned
// error matches domain.ErrTransport.
func (c *Client) wrapError(err error, resp *gh.Response, operation string) error {
	if err == nil {
		return nil
	}

	// Check for rate limit error
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%w: %s: %w", domain.ErrTransport, operation, &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		})
	}

	if resp != nil && resp.Response != nil {
		if rlErr := c.rateLimiter.CheckRateLimit(resp.Response); rlErr != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrTransport, operation, rlErr)
		}
	}

	// Check for GitHub error response
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrTransport, operation, apiErr)
	}

	return fmt.Errorf("%w: %s: %w", domain.ErrTransport, operation, err)
}
