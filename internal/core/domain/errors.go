package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport indicates a request to the code-review host failed,
	// timed out or returned a non-success status. Fatal to a sync run.
	ErrTransport = errors.New("transport error")

	// ErrMalformedResponse indicates a listing or diff payload could not be
	// understood. Handled exactly like ErrTransport.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
