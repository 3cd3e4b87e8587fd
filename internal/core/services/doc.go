// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SyncOrchestrator owns the watermark protocol that decides which pull
// requests a run must fetch; SearchService answers queries from the cache
// alone. Neither touches the network or disk directly.
package services
