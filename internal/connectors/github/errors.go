package github

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

// GitHub-specific errors.
var (
	// ErrInvalidBaseURL indicates the configured API URL cannot be used.
	ErrInvalidBaseURL = errors.New("github: invalid API base URL")

	// ErrMissingNumber indicates a listed pull request carried no number.
	ErrMissingNumber = errors.New("github: pull request without number")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is makes errors.Is(err, domain.ErrRateLimited) hold.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRateLimited
}

// APIError represents a non-success response from GitHub.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 403
	}
	return false
}
