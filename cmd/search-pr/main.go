// Command search-pr mirrors the diffs of a repository's pull requests into a
// local cache and searches their changed lines.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/search-pr/internal/adapters/driven/auth"
	"github.com/custodia-labs/search-pr/internal/adapters/driven/config/file"
	"github.com/custodia-labs/search-pr/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/search-pr/internal/adapters/driving/cli"
	"github.com/custodia-labs/search-pr/internal/connectors/github"
	"github.com/custodia-labs/search-pr/internal/core/services"
	"github.com/custodia-labs/search-pr/internal/logger"
	"github.com/custodia-labs/search-pr/internal/normalisers/diff"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetServiceBuilder(buildServices)
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the core services over the configured cache and host.
func buildServices(opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settings, err := file.LoadSettings(configStore, configDir)
	if err != nil {
		return nil, err
	}
	if opts.CacheRoot != "" {
		settings.CacheRoot = opts.CacheRoot
	}

	store, err := sqlite.NewStore(settings.CacheRoot)
	if err != nil {
		return nil, err
	}
	logger.Debug("cache database: %s", store.Path())

	tokens := auth.NewTokenProvider(settings.Token)
	logger.Debug("authentication: %s", tokens.AuthMethod())
	client := github.NewClient(tokens, settings.ClientOptions())

	cache := store.CacheStore()
	return &cli.Services{
		Sync:   services.NewSyncOrchestrator(client, diff.New(), cache, store.HistoryStore(), opts.Progress),
		Search: services.NewSearchService(cache),
		Close:  store.Close,
	}, nil
}
