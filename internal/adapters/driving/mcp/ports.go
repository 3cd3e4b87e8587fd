package mcp

import (
	"github.com/custodia-labs/search-pr/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search answers queries against the cache.
	Search driving.SearchService

	// Sync updates the cache and reports its status. Optional: without it
	// the server is read-only.
	Sync driving.SyncOrchestrator
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
