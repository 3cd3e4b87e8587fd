package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/search-pr/internal/adapters/driven/config/file"
	"github.com/custodia-labs/search-pr/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/search-pr/internal/adapters/driving/cli"
	"github.com/custodia-labs/search-pr/internal/core/domain"
)

func TestBuildServices_CacheRootOverride(t *testing.T) {
	configDir := t.TempDir()
	cacheRoot := filepath.Join(t.TempDir(), "elsewhere")

	svc, err := buildServices(cli.Options{ConfigDir: configDir, CacheRoot: cacheRoot})
	require.NoError(t, err)
	defer svc.Close()

	assert.NotNil(t, svc.Sync)
	assert.NotNil(t, svc.Search)
	assert.FileExists(t, filepath.Join(cacheRoot, sqlite.DatabaseFile))

	ids, err := svc.Search.Search(context.Background(), domain.RepoRef{Owner: "o", Name: "r"}, "")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBuildServices_ConfiguredCacheRoot(t *testing.T) {
	configDir := t.TempDir()
	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(file.KeyCacheRoot, "mirror"))

	svc, err := buildServices(cli.Options{ConfigDir: configDir})
	require.NoError(t, err)
	defer svc.Close()

	assert.FileExists(t, filepath.Join(configDir, "mirror", sqlite.DatabaseFile))
}

func TestBuildServices_InvalidConfig(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, file.ConfigFile),
		[]byte("[github]\ntimeout_seconds = 0\n"), 0600))

	_, err := buildServices(cli.Options{ConfigDir: configDir})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
