package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/search-pr/internal/connectors/github"
	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyCacheRoot         = "cache_root"
	KeyAPIURL            = "github.api_url"
	KeyToken             = "github.token"
	KeyTimeoutSeconds    = "github.timeout_seconds"
	KeyPerPage           = "github.per_page"
	KeyRequestsPerSecond = "github.requests_per_second"
)

// Settings is the typed, validated configuration of search-pr.
type Settings struct {
	// CacheRoot is the directory holding the cache database.
	CacheRoot string

	// APIURL is the REST API root.
	APIURL string

	// Token is the configured personal access token, possibly empty.
	Token string

	// Timeout bounds every request. Always positive.
	Timeout time.Duration

	// PerPage is the listing page size, 1 to 100.
	PerPage int

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64
}

// DefaultSettings returns the settings used when nothing is configured.
// configDir anchors the default cache root.
func DefaultSettings(configDir string) Settings {
	return Settings{
		CacheRoot:         filepath.Join(configDir, "cache"),
		APIURL:            github.DefaultBaseURL,
		Timeout:           github.DefaultTimeout,
		PerPage:           github.DefaultPerPage,
		RequestsPerSecond: github.ProactiveRate,
	}
}

// LoadSettings reads settings from store over the defaults and validates them.
func LoadSettings(store driven.ConfigStore, configDir string) (Settings, error) {
	s := DefaultSettings(configDir)

	if v := strings.TrimSpace(store.GetString(KeyCacheRoot)); v != "" {
		s.CacheRoot = expandHome(v, configDir)
	}
	if v := strings.TrimSpace(store.GetString(KeyAPIURL)); v != "" {
		s.APIURL = v
	}
	s.Token = store.GetString(KeyToken)

	if _, ok := store.Get(KeyTimeoutSeconds); ok {
		secs := store.GetFloat(KeyTimeoutSeconds)
		if secs <= 0 {
			return Settings{}, fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, KeyTimeoutSeconds)
		}
		s.Timeout = time.Duration(secs * float64(time.Second))
	}
	if _, ok := store.Get(KeyPerPage); ok {
		s.PerPage = store.GetInt(KeyPerPage)
	}
	if _, ok := store.Get(KeyRequestsPerSecond); ok {
		s.RequestsPerSecond = store.GetFloat(KeyRequestsPerSecond)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every field.
func (s Settings) Validate() error {
	if s.CacheRoot == "" {
		return fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, KeyCacheRoot)
	}
	if !strings.HasPrefix(s.APIURL, "http://") && !strings.HasPrefix(s.APIURL, "https://") {
		return fmt.Errorf("%w: %s %q is not an http(s) URL", domain.ErrInvalidInput, KeyAPIURL, s.APIURL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, KeyTimeoutSeconds)
	}
	if s.PerPage < 1 || s.PerPage > github.DefaultPerPage {
		return fmt.Errorf("%w: %s must be between 1 and %d", domain.ErrInvalidInput, KeyPerPage, github.DefaultPerPage)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, KeyRequestsPerSecond)
	}
	return nil
}

// ClientOptions converts the settings into GitHub client options.
func (s Settings) ClientOptions() github.Options {
	return github.Options{
		BaseURL:           s.APIURL,
		Timeout:           s.Timeout,
		PerPage:           s.PerPage,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// expandHome resolves a leading "~/" and makes relative paths relative to configDir.
func expandHome(path, configDir string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if !filepath.IsAbs(path) {
		return filepath.Join(configDir, path)
	}
	return path
}
