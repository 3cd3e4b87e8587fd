package domain

import (
	"fmt"
	"time"
)

// PRState is the lifecycle state of a pull request as reported by the host.
type PRState string

const (
	// PRStateOpen marks a pull request that can still change.
	PRStateOpen PRState = "open"

	// PRStateClosed marks a merged or abandoned pull request.
	PRStateClosed PRState = "closed"
)

// ParsePRState converts the host's state string into a PRState.
func ParsePRState(s string) (PRState, error) {
	switch PRState(s) {
	case PRStateOpen, PRStateClosed:
		return PRState(s), nil
	default:
		return "", fmt.Errorf("%w: unknown pull request state %q", ErrMalformedResponse, s)
	}
}

// PullRequestSummary is one record of a pull request listing.
// Listings are ordered by UpdatedAt descending, within and across pages.
type PullRequestSummary struct {
	// ID is the pull request number within its repository.
	ID int

	// DiffURL is where the raw unified diff can be fetched.
	DiffURL string

	// UpdatedAt is the last modification instant reported by the host.
	UpdatedAt time.Time

	// State is open or closed.
	State PRState
}

// IsOpen reports whether the pull request is open.
func (s PullRequestSummary) IsOpen() bool {
	return s.State == PRStateOpen
}
