package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/search-pr/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in config.toml.

Keys:
  cache_root                  directory holding the cache database
  github.api_url              REST API root (GitHub Enterprise: https://host/api/v3/)
  github.token                personal access token (GITHUB_TOKEN takes precedence)
  github.timeout_seconds      per-request timeout, must be positive
  github.per_page             listing page size, 1 to 100
  github.requests_per_second  request throttle, 0 disables it`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var knownKeys = []string{
	file.KeyCacheRoot,
	file.KeyAPIURL,
	file.KeyToken,
	file.KeyTimeoutSeconds,
	file.KeyPerPage,
	file.KeyRequestsPerSecond,
}

func openConfig() (*file.ConfigStore, string, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, "", err
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, "", fmt.Errorf("opening config: %w", err)
	}
	return store, dir, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, dir, err := openConfig()
	if err != nil {
		return err
	}

	settings, err := file.LoadSettings(store, dir)
	if err != nil {
		return err
	}

	token := "(not set)"
	if settings.Token != "" {
		token = "(set)"
	}

	cmd.Printf("Config file:         %s\n", store.Path())
	cmd.Println()
	cmd.Printf("Cache root:          %s\n", settings.CacheRoot)
	cmd.Printf("API URL:             %s\n", settings.APIURL)
	cmd.Printf("Token:               %s\n", token)
	cmd.Printf("Timeout:             %s\n", settings.Timeout)
	cmd.Printf("Page size:           %d\n", settings.PerPage)
	cmd.Printf("Requests per second: %g\n", settings.RequestsPerSecond)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	known := false
	for _, k := range knownKeys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(knownKeys, ", "))
	}

	store, dir, err := openConfig()
	if err != nil {
		return err
	}

	previous, hadPrevious := store.Get(key)
	if err := store.Set(key, parseValue(key, raw)); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	// Reject values that would leave the configuration unusable.
	if _, err := file.LoadSettings(store, dir); err != nil {
		if hadPrevious {
			_ = store.Set(key, previous)
		} else {
			_ = store.Unset(key)
		}
		return err
	}

	cmd.Printf("%s = %s\n", key, raw)
	return nil
}

// parseValue turns a command line value into the TOML type of key.
func parseValue(key, raw string) any {
	switch key {
	case file.KeyCacheRoot, file.KeyAPIURL, file.KeyToken:
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
