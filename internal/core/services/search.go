package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
	"github.com/custodia-labs/search-pr/internal/core/ports/driving"
	"github.com/custodia-labs/search-pr/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers exact, case-sensitive substring queries against
// the cached index. It never contacts the host.
type SearchService struct {
	store driven.CacheStore
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.CacheStore) *SearchService {
	return &SearchService{store: store}
}

// Search returns the ascending numbers of the pull requests with at least
// one token containing query. An empty query matches every pull request
// with at least one token.
func (s *SearchService) Search(ctx context.Context, repo domain.RepoRef, query string) ([]int, error) {
	matches, err := s.Matches(ctx, repo, query)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.PRID)
	}
	return ids, nil
}

// Matches returns, per matching pull request in ascending order, the
// tokens that contain query.
func (s *SearchService) Matches(ctx context.Context, repo domain.RepoRef, query string) ([]domain.SearchMatch, error) {
	if repo.IsZero() {
		return nil, fmt.Errorf("%w: repository not set", domain.ErrInvalidInput)
	}

	cache, err := s.store.Load(ctx, repo)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No cache for %s", repo)
		return []domain.SearchMatch{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	matches := []domain.SearchMatch{}
	for _, id := range cache.PRIDs() {
		var hits []string
		for _, token := range cache.Entries[id].Tokens {
			if strings.Contains(token, query) {
				hits = append(hits, token)
			}
		}
		if len(hits) > 0 {
			matches = append(matches, domain.SearchMatch{PRID: id, Tokens: hits})
		}
	}

	logger.Debug("Query %q on %s: %d of %d pull requests match", query, repo, len(matches), len(cache.Entries))
	return matches, nil
}
