package mcp

import (
	"context"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	matches   []domain.SearchMatch
	err       error
	lastRepo  domain.RepoRef
	lastQuery string
}

func (m *mockSearchService) Search(ctx context.Context, repo domain.RepoRef, query string) ([]int, error) {
	matches, err := m.Matches(ctx, repo, query)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(matches))
	for i, match := range matches {
		ids[i] = match.PRID
	}
	return ids, nil
}

func (m *mockSearchService) Matches(_ context.Context, repo domain.RepoRef, query string) ([]domain.SearchMatch, error) {
	m.lastRepo = repo
	m.lastQuery = query
	return m.matches, m.err
}

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	report   *domain.SyncReport
	status   *driving.CacheStatus
	err      error
	updated  []domain.RepoRef
	resetted []domain.RepoRef
}

func (m *mockSyncOrchestrator) Update(_ context.Context, repo domain.RepoRef) (*domain.SyncReport, error) {
	m.updated = append(m.updated, repo)
	return m.report, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context, repo domain.RepoRef) (*driving.CacheStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.status == nil {
		return &driving.CacheStatus{Repo: repo}, nil
	}
	return m.status, nil
}

func (m *mockSyncOrchestrator) Reset(_ context.Context, repo domain.RepoRef) error {
	m.resetted = append(m.resetted, repo)
	return m.err
}
