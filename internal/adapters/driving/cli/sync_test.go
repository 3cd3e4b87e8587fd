package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
	assert.Equal(t, "Synchronise the pull request cache", syncCmd.Short)
}

func TestSyncCmd_RejectsArgs(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "sync", "--repo", "testOwner/testRepo", "extra")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestSyncCmd_Executes(t *testing.T) {
	sync, _, cleanup := setupTestServices()
	defer cleanup()
	sync.report = &domain.SyncReport{Repo: testRepo, Mode: domain.SyncModeInitial, Listed: 3, Refreshed: 3}

	out, err := execute(t, "sync", "--repo", "https://github.com/testOwner/testRepo.git")

	require.NoError(t, err)
	assert.Equal(t, []domain.RepoRef{testRepo}, sync.updated)
	assert.Contains(t, out, "Synchronised testOwner/testRepo (initial): 3 listed, 3 refreshed")
}

func TestSyncCmd_RepoFromGitRemote(t *testing.T) {
	sync, _, cleanup := setupTestServices()
	defer cleanup()

	var asked string
	gitRemoteURL = func(_ context.Context, remote string) (string, error) {
		asked = remote
		return "git@github.com:testOwner/testRepo.git", nil
	}

	_, err := execute(t, "sync", "--remote", "upstream")

	require.NoError(t, err)
	assert.Equal(t, "upstream", asked)
	assert.Equal(t, []domain.RepoRef{testRepo}, sync.updated)
}

func TestSyncCmd_NoRepo(t *testing.T) {
	sync, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "sync")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "no --repo given")
	assert.Empty(t, sync.updated)
}

func TestSyncCmd_InvalidRepo(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "sync", "--repo", "just-a-name")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncCmd_Failure(t *testing.T) {
	sync, _, cleanup := setupTestServices()
	defer cleanup()
	sync.err = domain.ErrTransport

	_, err := execute(t, "sync", "--repo", "testOwner/testRepo")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "sync failed")
}
