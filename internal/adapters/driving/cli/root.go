// Package cli provides the search-pr command line interface.
//
// Commands drive the core through the driving ports. The concrete services
// are built lazily by a ServiceBuilder registered from main, so commands
// that need no cache (version, config) never open one.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/search-pr/internal/adapters/driven/config/file"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
	"github.com/custodia-labs/search-pr/internal/core/ports/driving"
	"github.com/custodia-labs/search-pr/internal/logger"
)

var version = "dev"

// Persistent flags.
var (
	verbose    bool
	configDir  string
	cacheRoot  string
	repoFlag   string
	remoteName string
)

// Services wired for the running command.
var (
	syncOrchestrator driving.SyncOrchestrator
	searchService    driving.SearchService
	closeServices    func() error
)

// Options carries what the command line knows when services are built.
type Options struct {
	// ConfigDir overrides the configuration directory. Empty means the default.
	ConfigDir string

	// CacheRoot overrides the configured cache root. Empty means configured.
	CacheRoot string

	// Progress observes sync runs. Nil disables progress output.
	Progress driven.ProgressReporter
}

// Services are the core services a command drives.
type Services struct {
	Sync   driving.SyncOrchestrator
	Search driving.SearchService

	// Close releases the cache. May be nil.
	Close func() error
}

// ServiceBuilder constructs the services from command line options.
type ServiceBuilder func(opts Options) (*Services, error)

var serviceBuilder ServiceBuilder

// SetServiceBuilder registers the builder used by commands that need the cache.
func SetServiceBuilder(b ServiceBuilder) {
	serviceBuilder = b
}

var rootCmd = &cobra.Command{
	Use:   "search-pr",
	Short: "Search the diffs of a repository's pull requests",
	Long: `search-pr mirrors the diffs of a GitHub repository's open pull requests
into a local cache and finds the pull requests whose added or removed lines
contain a substring.

Run "search-pr sync" to bring the cache up to date; only pull requests
updated since the previous run are fetched again.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return releaseServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.search-pr)")
	rootCmd.PersistentFlags().StringVar(&cacheRoot, "cache-root", "", "cache directory (overrides cache_root)")
	rootCmd.PersistentFlags().StringVarP(&repoFlag, "repo", "r", "", "repository as owner/name or URL (default: the git remote)")
	rootCmd.PersistentFlags().StringVar(&remoteName, "remote", "origin", "git remote used when --repo is not given")
}

// Execute runs the root command. Services are released even when the
// command fails, since cobra skips the post-run hooks on error.
func Execute(v string) error {
	version = v
	err := rootCmd.Execute()
	return errors.Join(err, releaseServices())
}

// ensureServices builds the services unless they are already wired.
// withProgress attaches a console progress reporter on stderr.
func ensureServices(cmd *cobra.Command, withProgress bool) error {
	if syncOrchestrator != nil && searchService != nil {
		return nil
	}
	if serviceBuilder == nil {
		return errors.New("services not configured")
	}

	opts := Options{
		ConfigDir: configDir,
		CacheRoot: cacheRoot,
	}
	if withProgress {
		opts.Progress = newProgressReporter(cmd.ErrOrStderr(), isTerminal(cmd.ErrOrStderr()))
	}

	svc, err := serviceBuilder(opts)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	syncOrchestrator = svc.Sync
	searchService = svc.Search
	closeServices = svc.Close
	return nil
}

// releaseServices closes services built by ensureServices.
func releaseServices() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	syncOrchestrator = nil
	searchService = nil
	return err
}

// resolveConfigDir returns --config-dir or the default directory.
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return file.DefaultConfigDir()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && termCheck(int(f.Fd()))
}
