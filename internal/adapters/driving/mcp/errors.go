// Package mcp provides an MCP (Model Context Protocol) server adapter for search-pr.
// It lets AI assistants search the pull requests mirrored in the local cache
// and bring that cache up to date.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrSyncUnavailable is returned by sync operations when no orchestrator is wired.
var ErrSyncUnavailable = errors.New("mcp: sync is not available")
