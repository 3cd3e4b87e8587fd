package driving

import (
	"context"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

// SyncOrchestrator brings the local cache of a repository up to date.
type SyncOrchestrator interface {
	// Update runs one synchronisation. On failure no watermark is written;
	// index entries committed before the failure remain.
	Update(ctx context.Context, repo domain.RepoRef) (*domain.SyncReport, error)

	// Status returns what is currently cached for repo.
	Status(ctx context.Context, repo domain.RepoRef) (*CacheStatus, error)

	// Reset forgets everything cached for repo. The next run is an initial one.
	Reset(ctx context.Context, repo domain.RepoRef) error
}

// CacheStatus describes the cached state of a repository.
type CacheStatus struct {
	// Repo identifies the repository.
	Repo domain.RepoRef

	// Watermark is nil before the first successful run.
	Watermark *domain.SyncWatermark

	// IndexedPRs is the number of pull requests in the active index.
	IndexedPRs int

	// LastRun is nil when no history is available.
	LastRun *domain.SyncRun
}
