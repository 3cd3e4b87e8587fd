package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore is an in-memory implementation of driven.CacheStore.
// Returned caches are copies; mutating them does not affect the store.
type CacheStore struct {
	mu    sync.RWMutex
	repos map[domain.RepoRef]*domain.RepositoryCache
}

// NewCacheStore creates a new in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{
		repos: make(map[domain.RepoRef]*domain.RepositoryCache),
	}
}

// Load returns a copy of the cache of repo.
func (s *CacheStore) Load(_ context.Context, repo domain.RepoRef) (*domain.RepositoryCache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.repos[repo]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCache(c), nil
}

// Save replaces the cache of repo.
func (s *CacheStore) Save(_ context.Context, repo domain.RepoRef, cache *domain.RepositoryCache) error {
	if cache == nil {
		return domain.ErrInvalidInput
	}
	c := cloneCache(cache)
	c.Repo = repo

	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos[repo] = c
	return nil
}

// SaveWatermark replaces the watermark of repo.
func (s *CacheStore) SaveWatermark(_ context.Context, repo domain.RepoRef, wm domain.SyncWatermark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(repo).Watermark = cloneWatermark(&wm)
	return nil
}

// PutEntry creates or overwrites one index entry.
func (s *CacheStore) PutEntry(_ context.Context, repo domain.RepoRef, prID int, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(repo).Entries[prID] = domain.IndexEntry{PRID: prID, Tokens: slices.Clone(tokens)}
	return nil
}

// RemoveEntry deletes one index entry.
func (s *CacheStore) RemoveEntry(_ context.Context, repo domain.RepoRef, prID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.repos[repo]; ok {
		delete(c.Entries, prID)
	}
	return nil
}

// Delete removes everything stored for repo.
func (s *CacheStore) Delete(_ context.Context, repo domain.RepoRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.repos, repo)
	return nil
}

// ensure returns the cache of repo, creating it. Caller holds the write lock.
func (s *CacheStore) ensure(repo domain.RepoRef) *domain.RepositoryCache {
	c, ok := s.repos[repo]
	if !ok {
		c = domain.NewRepositoryCache(repo)
		s.repos[repo] = c
	}
	return c
}

func cloneCache(c *domain.RepositoryCache) *domain.RepositoryCache {
	out := domain.NewRepositoryCache(c.Repo)
	out.Watermark = cloneWatermark(c.Watermark)
	for id, e := range c.Entries {
		out.Entries[id] = domain.IndexEntry{PRID: e.PRID, Tokens: slices.Clone(e.Tokens)}
	}
	return out
}

func cloneWatermark(w *domain.SyncWatermark) *domain.SyncWatermark {
	if w == nil {
		return nil
	}
	return &domain.SyncWatermark{Timestamp: w.Timestamp, TieIDs: slices.Clone(w.TieIDs)}
}
