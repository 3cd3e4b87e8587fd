// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PullRequestSource: Lists pull requests and fetches their diffs
//   - DiffTokenizer: Turns a unified diff into searchable tokens
//   - CacheStore: Watermark and active index persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ProgressReporter: Observes a sync run. Without it, runs are silent.
//   - SyncHistoryStore: Records completed runs. Without it, no history is kept.
//   - TokenProvider: Authenticates requests. Without it, requests are anonymous.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
