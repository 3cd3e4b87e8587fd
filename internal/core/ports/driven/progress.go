package driven

import "github.com/custodia-labs/search-pr/internal/core/domain"

// ProgressReporter observes a sync run. Calls arrive in strict order on the
// goroutine running the sync and never influence its outcome.
type ProgressReporter interface {
	// ListingStarted is called once before the first listing request.
	ListingStarted(mode domain.SyncMode)

	// ListingFinished is called once the traversal has ended.
	ListingFinished(mode domain.SyncMode)

	// DiffProgress reports done of total diffs fetched; it is called with
	// done == 0 before the first fetch.
	DiffProgress(done, total int)

	// DiffsFinished is called after the last diff.
	DiffsFinished()
}
