package driving

import (
	"context"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

// SearchService answers substring queries against the active index.
type SearchService interface {
	// Search returns the ascending numbers of every indexed pull request
	// with at least one changed line containing query.
	Search(ctx context.Context, repo domain.RepoRef, query string) ([]int, error)

	// Matches is Search with the matching lines of each pull request.
	Matches(ctx context.Context, repo domain.RepoRef, query string) ([]domain.SearchMatch, error)
}
