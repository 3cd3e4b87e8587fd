// Package domain defines the core entities of search-pr.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PullRequestSummary: One record of a pull request listing
//   - SyncWatermark: How far a previous run has synchronised
//   - IndexEntry: The searchable tokens of one open pull request
//   - RepositoryCache: Everything persisted for one repository
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
