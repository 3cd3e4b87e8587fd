package services

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// mockSource implements driven.PullRequestSource for testing. Listings are
// served per query state as a sequence of pages.
type mockSource struct {
	mu sync.Mutex

	pages map[domain.PullRequestState][][]domain.PullRequestSummary
	diffs map[string]string

	// pageErr fails the listing when page index pageErrAt (0-based) is requested.
	pageErr   error
	pageErrAt int

	// diffErr fails FetchDiff for the given location.
	diffErr   error
	diffErrOn string

	queries        []domain.ListQuery
	pagesRequested int
	fetched        []string
}

var _ driven.PullRequestSource = (*mockSource)(nil)

func newMockSource() *mockSource {
	return &mockSource{
		pages: make(map[domain.PullRequestState][][]domain.PullRequestSummary),
		diffs: make(map[string]string),
	}
}

func (m *mockSource) ListPullRequests(
	_ context.Context, _ domain.RepoRef, query domain.ListQuery,
) iter.Seq2[domain.PullRequestSummary, error] {
	return func(yield func(domain.PullRequestSummary, error) bool) {
		m.mu.Lock()
		m.queries = append(m.queries, query)
		pages := m.pages[query.State]
		m.mu.Unlock()

		for i, page := range pages {
			m.mu.Lock()
			m.pagesRequested++
			m.mu.Unlock()

			if m.pageErr != nil && i == m.pageErrAt {
				yield(domain.PullRequestSummary{}, m.pageErr)
				return
			}
			for _, s := range page {
				if !yield(s, nil) {
					return
				}
			}
		}
	}
}

func (m *mockSource) FetchDiff(_ context.Context, location string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, location)
	if m.diffErr != nil && location == m.diffErrOn {
		return "", m.diffErr
	}
	d, ok := m.diffs[location]
	if !ok {
		return "", fmt.Errorf("%w: no diff at %s", domain.ErrTransport, location)
	}
	return d, nil
}

// reset forgets the recorded calls.
func (m *mockSource) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = nil
	m.pagesRequested = 0
	m.fetched = nil
}

// recordingProgress implements driven.ProgressReporter and records every call.
type recordingProgress struct {
	calls []string
}

var _ driven.ProgressReporter = (*recordingProgress)(nil)

func (p *recordingProgress) ListingStarted(mode domain.SyncMode) {
	p.calls = append(p.calls, "listing "+string(mode))
}

func (p *recordingProgress) ListingFinished(mode domain.SyncMode) {
	p.calls = append(p.calls, "listed "+string(mode))
}

func (p *recordingProgress) DiffProgress(done, total int) {
	p.calls = append(p.calls, fmt.Sprintf("diff %d/%d", done, total))
}

func (p *recordingProgress) DiffsFinished() {
	p.calls = append(p.calls, "diffs done")
}

// failingStore wraps a CacheStore and fails selected operations.
type failingStore struct {
	driven.CacheStore
	loadErr      error
	watermarkErr error
}

func (s *failingStore) Load(ctx context.Context, repo domain.RepoRef) (*domain.RepositoryCache, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.CacheStore.Load(ctx, repo)
}

func (s *failingStore) SaveWatermark(ctx context.Context, repo domain.RepoRef, wm domain.SyncWatermark) error {
	if s.watermarkErr != nil {
		return s.watermarkErr
	}
	return s.CacheStore.SaveWatermark(ctx, repo, wm)
}

// failingHistory implements driven.SyncHistoryStore and always fails.
type failingHistory struct{}

func (failingHistory) Record(context.Context, domain.SyncRun) error {
	return fmt.Errorf("disk full")
}

func (failingHistory) Last(context.Context, domain.RepoRef) (*domain.SyncRun, error) {
	return nil, fmt.Errorf("disk full")
}

// --- fixtures ---

var testRepo = domain.RepoRef{Owner: "testOwner", Name: "testRepo"}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func pr(id int, updatedAt string, state domain.PRState) domain.PullRequestSummary {
	return domain.PullRequestSummary{
		ID:        id,
		DiffURL:   fmt.Sprintf("test://path/to/diff/%d", id),
		UpdatedAt: at(updatedAt),
		State:     state,
	}
}

func diffURL(id int) string {
	return fmt.Sprintf("test://path/to/diff/%d", id)
}

const (
	diff1 = "diff --git a/1.txt b/1.txt\n" +
		"index 8a5cb96..c65f630 100644\n" +
		"--- a/1.txt\n" +
		"+++ b/1.txt\n" +
		"@@ -1,3 +1,2 @@\n" +
		" 12345\n" +
		"-34567\n" +
		" 56789\n"

	diff2 = "diff --git a/1.txt b/1.txt\n" +
		"index 8a5cb96..4eb6cfb 100644\n" +
		"--- a/1.txt\n" +
		"+++ b/1.txt\n" +
		"@@ -1,3 +1,2 @@\n" +
		" 12345\n" +
		" 34567\n" +
		"-56789\n" +
		"diff --git a/a.txt b/a.txt\n" +
		"index aa410fc..eeaeebf 100644\n" +
		"--- a/a.txt\n" +
		"+++ b/a.txt\n" +
		"@@ -1,3 +1,2 @@\n" +
		"-abcde\n" +
		" bcdef\n" +
		" acegi\n"

	diff3 = "diff --git a/1.txt b/1.txt\n" +
		"index 8a5cb96..e2f2476 100644\n" +
		"--- a/1.txt\n" +
		"+++ b/1.txt\n" +
		"@@ -1,3 +1 @@\n" +
		"-12345\n" +
		"-34567\n" +
		" 56789\n" +
		"diff --git a/a.txt b/a.txt\n" +
		"index aa410fc..70ecb1d 100644\n" +
		"--- a/a.txt\n" +
		"+++ b/a.txt\n" +
		"@@ -1,3 +1,2 @@\n" +
		" abcde\n" +
		" bcdef\n" +
		"-acegi\n"

	diff4 = "diff --git a/1.txt b/1.txt\n" +
		"index 8a5cb96..f92c3c3 100644\n" +
		"--- a/1.txt\n" +
		"+++ b/1.txt\n" +
		"@@ -1,3 +1,2 @@\n" +
		"-12345\n" +
		" 34567\n" +
		" 56789\n"
)

// withDiffs registers the four fixture diffs.
func (m *mockSource) withDiffs() *mockSource {
	m.diffs[diffURL(1)] = diff1
	m.diffs[diffURL(2)] = diff2
	m.diffs[diffURL(3)] = diff3
	m.diffs[diffURL(4)] = diff4
	return m
}
