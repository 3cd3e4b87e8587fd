package domain

import "slices"

// IndexEntry holds the searchable tokens of one open pull request.
type IndexEntry struct {
	PRID   int
	Tokens []string
}

// RepositoryCache is everything persisted for one repository.
type RepositoryCache struct {
	// Repo identifies the repository.
	Repo RepoRef

	// Watermark is nil before the first run that observed a pull request.
	Watermark *SyncWatermark

	// Entries is the active index keyed by pull request number.
	Entries map[int]IndexEntry
}

// NewRepositoryCache creates an empty cache for repo.
func NewRepositoryCache(repo RepoRef) *RepositoryCache {
	return &RepositoryCache{
		Repo:    repo,
		Entries: make(map[int]IndexEntry),
	}
}

// PRIDs returns the indexed pull request numbers, ascending.
func (c *RepositoryCache) PRIDs() []int {
	ids := make([]int, 0, len(c.Entries))
	for id := range c.Entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
