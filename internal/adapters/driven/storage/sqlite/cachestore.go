package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// cacheStore implements driven.CacheStore.
type cacheStore struct {
	store *Store
}

var _ driven.CacheStore = (*cacheStore)(nil)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Load returns the watermark and every index entry of repo.
func (s *cacheStore) Load(ctx context.Context, repo domain.RepoRef) (*domain.RepositoryCache, error) {
	key := repo.String()
	cache := domain.NewRepositoryCache(repo)

	wm, err := s.loadWatermark(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	cache.Watermark = wm

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT e.pr_id, t.token
		FROM index_entries e
		LEFT JOIN index_tokens t ON t.repo = e.repo AND t.pr_id = e.pr_id
		WHERE e.repo = ?
		ORDER BY e.pr_id, t.position
	`, key)
	if err != nil {
		return nil, fmt.Errorf("querying index entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var prID int
		var token sql.NullString
		if err := rows.Scan(&prID, &token); err != nil {
			return nil, fmt.Errorf("scanning index entry: %w", err)
		}
		entry, ok := cache.Entries[prID]
		if !ok {
			entry = domain.IndexEntry{PRID: prID, Tokens: []string{}}
		}
		if token.Valid {
			entry.Tokens = append(entry.Tokens, token.String)
		}
		cache.Entries[prID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index entries: %w", err)
	}

	if cache.Watermark == nil && len(cache.Entries) == 0 {
		return nil, domain.ErrNotFound
	}
	return cache, nil
}

func (s *cacheStore) loadWatermark(ctx context.Context, key string) (*domain.SyncWatermark, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT updated_at, tie_ids FROM watermarks WHERE repo = ?
	`, key)

	var updatedAt, tieJSON string
	if err := row.Scan(&updatedAt, &tieJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning watermark: %w", err)
	}

	ts, err := domain.ParseTimestamp(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing watermark timestamp %q: %w", updatedAt, err)
	}
	var ties []int
	if err := json.Unmarshal([]byte(tieJSON), &ties); err != nil {
		return nil, fmt.Errorf("parsing watermark tie ids: %w", err)
	}
	if ties == nil {
		ties = []int{}
	}

	return &domain.SyncWatermark{Timestamp: ts, TieIDs: ties}, nil
}

// Save replaces the watermark and every index entry of repo in one transaction.
func (s *cacheStore) Save(ctx context.Context, repo domain.RepoRef, cache *domain.RepositoryCache) error {
	if cache == nil {
		return domain.ErrInvalidInput
	}
	key := repo.String()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := deleteRepo(ctx, tx, key); err != nil {
		return err
	}
	if cache.Watermark != nil {
		if err := writeWatermark(ctx, tx, key, *cache.Watermark); err != nil {
			return err
		}
	}
	for _, id := range cache.PRIDs() {
		if err := writeEntry(ctx, tx, key, id, cache.Entries[id].Tokens); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cache: %w", err)
	}
	return nil
}

// SaveWatermark replaces the watermark row of repo.
func (s *cacheStore) SaveWatermark(ctx context.Context, repo domain.RepoRef, wm domain.SyncWatermark) error {
	return writeWatermark(ctx, s.store.db, repo.String(), wm)
}

// PutEntry replaces one index entry and its tokens in one transaction.
func (s *cacheStore) PutEntry(ctx context.Context, repo domain.RepoRef, prID int, tokens []string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := writeEntry(ctx, tx, repo.String(), prID, tokens); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entry %d: %w", prID, err)
	}
	return nil
}

// RemoveEntry deletes one index entry; its tokens cascade.
func (s *cacheStore) RemoveEntry(ctx context.Context, repo domain.RepoRef, prID int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM index_entries WHERE repo = ? AND pr_id = ?
	`, repo.String(), prID)
	if err != nil {
		return fmt.Errorf("removing entry %d: %w", prID, err)
	}
	return nil
}

// Delete removes the watermark and every index entry of repo.
// Sync history is kept.
func (s *cacheStore) Delete(ctx context.Context, repo domain.RepoRef) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := deleteRepo(ctx, tx, repo.String()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

func deleteRepo(ctx context.Context, db execer, key string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM watermarks WHERE repo = ?", key); err != nil {
		return fmt.Errorf("deleting watermark: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM index_entries WHERE repo = ?", key); err != nil {
		return fmt.Errorf("deleting index entries: %w", err)
	}
	return nil
}

// writeWatermark upserts the watermark row. An unchanged watermark leaves
// the row, saved_at included, as it was.
func writeWatermark(ctx context.Context, db execer, key string, wm domain.SyncWatermark) error {
	ties := wm.TieIDs
	if ties == nil {
		ties = []int{}
	}
	tieJSON, err := json.Marshal(ties)
	if err != nil {
		return fmt.Errorf("marshalling tie ids: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO watermarks (repo, updated_at, tie_ids, saved_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(repo) DO UPDATE SET
			updated_at = excluded.updated_at,
			tie_ids = excluded.tie_ids,
			saved_at = excluded.saved_at
		WHERE watermarks.updated_at <> excluded.updated_at
			OR watermarks.tie_ids <> excluded.tie_ids
	`, key, domain.FormatTimestamp(wm.Timestamp), string(tieJSON))
	if err != nil {
		return fmt.Errorf("saving watermark: %w", err)
	}
	return nil
}

func writeEntry(ctx context.Context, db execer, key string, prID int, tokens []string) error {
	// Deleting the entry first drops its old tokens through the cascade.
	if _, err := db.ExecContext(ctx, `
		DELETE FROM index_entries WHERE repo = ? AND pr_id = ?
	`, key, prID); err != nil {
		return fmt.Errorf("clearing entry %d: %w", prID, err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO index_entries (repo, pr_id, indexed_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	`, key, prID); err != nil {
		return fmt.Errorf("saving entry %d: %w", prID, err)
	}

	for i, token := range tokens {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO index_tokens (repo, pr_id, position, token) VALUES (?, ?, ?, ?)
		`, key, prID, i, token); err != nil {
			return fmt.Errorf("saving token %d of entry %d: %w", i, prID, err)
		}
	}
	return nil
}
