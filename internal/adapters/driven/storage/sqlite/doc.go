// Package sqlite provides the SQLite implementation of the cache ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. One database file holds every repository's cache:
//
//   - CacheStore: watermark and active index per repository
//   - SyncHistoryStore: completed sync runs
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory ("NNN_name.up.sql"). Applied versions are recorded in
// schema_migrations.
//
// # Data Location
//
// The database is stored at <cache root>/cache.db, by default
// ~/.search-pr/cache/cache.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. Multi-row updates run in a
// transaction, so a watermark and its tie ids, or an entry and its tokens,
// are never observed half written.
package sqlite
