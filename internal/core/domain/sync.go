package domain

import "time"

// SyncMode selects how a run lists pull requests.
type SyncMode string

const (
	// SyncModeInitial lists open pull requests only and never stops early.
	SyncModeInitial SyncMode = "initial"

	// SyncModeIncremental lists every pull request, newest update first,
	// and stops at the first record older than the watermark.
	SyncModeIncremental SyncMode = "incremental"
)

// SyncAction is what a run does with one listed pull request.
type SyncAction int

const (
	// ActionSkip leaves a pull request already synchronised at the watermark.
	ActionSkip SyncAction = iota

	// ActionRefresh fetches the diff and overwrites the index entry.
	ActionRefresh

	// ActionRetire removes the index entry of a closed pull request.
	ActionRetire
)

// String returns a lowercase name for logs.
func (a SyncAction) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionRefresh:
		return "refresh"
	case ActionRetire:
		return "retire"
	default:
		return "unknown"
	}
}

// PullRequestState selects which pull requests a listing returns.
type PullRequestState string

const (
	// ListOpen is the host's default listing state.
	ListOpen PullRequestState = "open"

	// ListAll includes closed pull requests.
	ListAll PullRequestState = "all"
)

// ListQuery describes one pull request listing.
// Listings are always sorted by update time, newest first.
type ListQuery struct {
	State PullRequestState
}

// QueryFor returns the listing query used by mode.
func QueryFor(mode SyncMode) ListQuery {
	if mode == SyncModeIncremental {
		return ListQuery{State: ListAll}
	}
	return ListQuery{State: ListOpen}
}

// SyncReport summarises a completed run.
type SyncReport struct {
	// RunID identifies the run in history and logs.
	RunID string

	// Repo is the synchronised repository.
	Repo RepoRef

	// Mode is the listing mode chosen for the run.
	Mode SyncMode

	// Listed counts summaries visited by the traversal.
	Listed int

	// Refreshed, Retired and Skipped count applied actions.
	Refreshed int
	Retired   int
	Skipped   int

	// Stopped is true when the traversal hit a record older than the watermark.
	Stopped bool

	// Watermark is the watermark in effect after the run.
	Watermark *SyncWatermark

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// SyncRun is a persisted history record of a completed run.
type SyncRun struct {
	ID         string
	Repo       RepoRef
	Mode       SyncMode
	Listed     int
	Refreshed  int
	Retired    int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run converts the report into a history record.
func (r *SyncReport) Run() SyncRun {
	return SyncRun{
		ID:         r.RunID,
		Repo:       r.Repo,
		Mode:       r.Mode,
		Listed:     r.Listed,
		Refreshed:  r.Refreshed,
		Retired:    r.Retired,
		Skipped:    r.Skipped,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}
