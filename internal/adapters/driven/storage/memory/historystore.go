package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.SyncHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.SyncHistoryStore.
type HistoryStore struct {
	mu   sync.RWMutex
	runs map[domain.RepoRef][]domain.SyncRun
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		runs: make(map[domain.RepoRef][]domain.SyncRun),
	}
}

// Record stores a completed run.
func (s *HistoryStore) Record(_ context.Context, run domain.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.Repo] = append(s.runs[run.Repo], run)
	return nil
}

// Last returns the most recently recorded run of repo.
func (s *HistoryStore) Last(_ context.Context, repo domain.RepoRef) (*domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := s.runs[repo]
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	run := runs[len(runs)-1]
	return &run, nil
}
