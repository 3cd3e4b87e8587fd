package driven

import (
	"context"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

// CacheStore persists, per repository, the sync watermark and the active
// index. Every method is synchronous and local.
type CacheStore interface {
	// Load returns the persisted cache, or domain.ErrNotFound when nothing
	// has been stored for repo.
	Load(ctx context.Context, repo domain.RepoRef) (*domain.RepositoryCache, error)

	// Save replaces the watermark and every index entry in one atomic step.
	Save(ctx context.Context, repo domain.RepoRef, cache *domain.RepositoryCache) error

	// SaveWatermark replaces the watermark. Timestamp and tie ids are
	// written as one record.
	SaveWatermark(ctx context.Context, repo domain.RepoRef, wm domain.SyncWatermark) error

	// PutEntry creates or overwrites the index entry of one pull request.
	PutEntry(ctx context.Context, repo domain.RepoRef, prID int, tokens []string) error

	// RemoveEntry deletes the index entry of one pull request.
	// Removing an absent entry is not an error.
	RemoveEntry(ctx context.Context, repo domain.RepoRef, prID int) error

	// Delete removes everything stored for repo.
	Delete(ctx context.Context, repo domain.RepoRef) error
}

// SyncHistoryStore records completed sync runs.
type SyncHistoryStore interface {
	// Record stores a completed run.
	Record(ctx context.Context, run domain.SyncRun) error

	// Last returns the most recent run for repo, or domain.ErrNotFound.
	Last(ctx context.Context, repo domain.RepoRef) (*domain.SyncRun, error)
}
