package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driving"
)

var testRepo = domain.RepoRef{Owner: "testOwner", Name: "testRepo"}

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	report  *domain.SyncReport
	status  *driving.CacheStatus
	err     error
	updated []domain.RepoRef
	reset   []domain.RepoRef
}

func (m *mockSyncOrchestrator) Update(_ context.Context, repo domain.RepoRef) (*domain.SyncReport, error) {
	m.updated = append(m.updated, repo)
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.SyncReport{Repo: repo, Mode: domain.SyncModeInitial}, nil
}

func (m *mockSyncOrchestrator) Status(_ context.Context, repo domain.RepoRef) (*driving.CacheStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.status != nil {
		return m.status, nil
	}
	return &driving.CacheStatus{Repo: repo}, nil
}

func (m *mockSyncOrchestrator) Reset(_ context.Context, repo domain.RepoRef) error {
	m.reset = append(m.reset, repo)
	return m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	matches []domain.SearchMatch
	err     error
	queries []string
}

func (m *mockSearchService) Search(ctx context.Context, repo domain.RepoRef, query string) ([]int, error) {
	matches, err := m.Matches(ctx, repo, query)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.PRID)
	}
	return ids, nil
}

func (m *mockSearchService) Matches(_ context.Context, _ domain.RepoRef, query string) ([]domain.SearchMatch, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

// setupTestServices wires mocks into the command globals and returns them
// with a cleanup restoring the previous state.
func setupTestServices() (*mockSyncOrchestrator, *mockSearchService, func()) {
	oldSync, oldSearch, oldClose, oldBuilder := syncOrchestrator, searchService, closeServices, serviceBuilder
	oldGit := gitRemoteURL

	sync := &mockSyncOrchestrator{}
	search := &mockSearchService{
		matches: []domain.SearchMatch{
			{PRID: 2, Tokens: []string{"56789"}},
			{PRID: 3, Tokens: []string{"34567"}},
		},
	}
	syncOrchestrator = sync
	searchService = search
	closeServices = nil
	serviceBuilder = nil
	gitRemoteURL = func(context.Context, string) (string, error) {
		return "", errors.New("not a git repository")
	}

	return sync, search, func() {
		syncOrchestrator, searchService, closeServices, serviceBuilder = oldSync, oldSearch, oldClose, oldBuilder
		gitRemoteURL = oldGit
		resetFlags()
	}
}

// resetFlags restores flag variables that persist between executions.
func resetFlags() {
	verbose = false
	configDir = ""
	cacheRoot = ""
	repoFlag = ""
	remoteName = "origin"
	searchJSON = false
	searchLines = false
	rootCmd.SetArgs(nil)
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "search-pr", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"sync", "search", "status", "reset", "config", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "cache-root", "repo", "remote"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "origin", rootCmd.PersistentFlags().Lookup("remote").DefValue)
	assert.Equal(t, "r", rootCmd.PersistentFlags().Lookup("repo").Shorthand)
}

func TestEnsureServices_NoBuilder(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	original := version
	defer func() { version = original }()
	syncOrchestrator, searchService = nil, nil

	out, err := execute(t, "status", "--repo", "testOwner/testRepo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "services not configured")
	assert.NotContains(t, out, "Repository:")
}

func TestEnsureServices_UsesBuilder(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	original := version
	defer func() { version = original }()
	syncOrchestrator, searchService = nil, nil

	sync := &mockSyncOrchestrator{}
	closed := 0
	var got Options
	SetServiceBuilder(func(opts Options) (*Services, error) {
		got = opts
		return &Services{
			Sync:   sync,
			Search: &mockSearchService{},
			Close: func() error {
				closed++
				return nil
			},
		}, nil
	})

	_, err := execute(t, "sync", "--repo", "testOwner/testRepo", "--config-dir", "/tmp/cfg", "--cache-root", "/tmp/cache")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/cfg", got.ConfigDir)
	assert.Equal(t, "/tmp/cache", got.CacheRoot)
	assert.NotNil(t, got.Progress)
	assert.Equal(t, []domain.RepoRef{testRepo}, sync.updated)
	assert.Equal(t, 1, closed)
	assert.Nil(t, syncOrchestrator)
	assert.Nil(t, searchService)
}

func TestEnsureServices_SearchHasNoProgress(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	original := version
	defer func() { version = original }()
	syncOrchestrator, searchService = nil, nil

	var got Options
	SetServiceBuilder(func(opts Options) (*Services, error) {
		got = opts
		return &Services{Sync: &mockSyncOrchestrator{}, Search: &mockSearchService{}}, nil
	})

	_, err := execute(t, "search", "--repo", "testOwner/testRepo", "x")

	require.NoError(t, err)
	assert.Nil(t, got.Progress)
}

func TestEnsureServices_BuilderError(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	original := version
	defer func() { version = original }()
	syncOrchestrator, searchService = nil, nil

	SetServiceBuilder(func(Options) (*Services, error) {
		return nil, errors.New("disk full")
	})

	_, err := execute(t, "sync", "--repo", "testOwner/testRepo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening cache")
	assert.Contains(t, err.Error(), "disk full")
}

func TestExecute_SetsVersion(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	original := version
	defer func() { version = original }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, Execute("1.2.3"))
	assert.Contains(t, buf.String(), "search-pr version 1.2.3")
}

func TestPrintReport(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	printReport(rootCmd, &domain.SyncReport{
		Repo: testRepo, Mode: domain.SyncModeIncremental,
		Listed: 3, Refreshed: 1, Retired: 1, Skipped: 1,
		Watermark: &domain.SyncWatermark{Timestamp: time.Date(2005, 1, 29, 18, 23, 0, 0, time.UTC)},
	})

	assert.Contains(t, buf.String(), "Synchronised testOwner/testRepo (incremental): 3 listed, 1 refreshed, 1 retired, 1 unchanged.")
	assert.Contains(t, buf.String(), "Watermark: 2005-01-29T18:23:00+00:00")
}

func TestExecute_ReleasesServicesWhenCommandFails(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	original := version
	defer func() { version = original }()
	syncOrchestrator, searchService = nil, nil

	closed := 0
	SetServiceBuilder(func(Options) (*Services, error) {
		return &Services{
			Sync:   &mockSyncOrchestrator{err: domain.ErrTransport},
			Search: &mockSearchService{},
			Close: func() error {
				closed++
				return nil
			},
		}, nil
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sync", "--repo", "testOwner/testRepo"})

	err := Execute("test")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, 1, closed)
	assert.Nil(t, syncOrchestrator)
	assert.Nil(t, closeServices)
}

func TestExecute_ReportsCloseError(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	original := version
	defer func() { version = original }()
	syncOrchestrator, searchService = nil, nil

	SetServiceBuilder(func(Options) (*Services, error) {
		return &Services{
			Sync:   &mockSyncOrchestrator{err: domain.ErrTransport},
			Search: &mockSearchService{},
			Close:  func() error { return errors.New("database is locked") },
		}, nil
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"status", "--repo", "testOwner/testRepo"})

	err := Execute("test")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "database is locked")
}
