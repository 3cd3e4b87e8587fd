package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// runTimeLayout is fixed width so stored times sort lexically.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// historyStore implements driven.SyncHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.SyncHistoryStore = (*historyStore)(nil)

// Record stores a completed run.
func (s *historyStore) Record(ctx context.Context, run domain.SyncRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, repo, mode, listed, refreshed, retired, skipped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			listed = excluded.listed,
			refreshed = excluded.refreshed,
			retired = excluded.retired,
			skipped = excluded.skipped,
			finished_at = excluded.finished_at
	`, run.ID, run.Repo.String(), string(run.Mode),
		run.Listed, run.Refreshed, run.Retired, run.Skipped,
		run.StartedAt.UTC().Format(runTimeLayout), run.FinishedAt.UTC().Format(runTimeLayout))
	if err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}

// Last returns the most recently finished run of repo.
func (s *historyStore) Last(ctx context.Context, repo domain.RepoRef) (*domain.SyncRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, mode, listed, refreshed, retired, skipped, started_at, finished_at
		FROM sync_runs WHERE repo = ?
		ORDER BY finished_at DESC, rowid DESC
		LIMIT 1
	`, repo.String())

	run := domain.SyncRun{Repo: repo}
	var mode, startedAt, finishedAt string
	err := row.Scan(&run.ID, &mode, &run.Listed, &run.Refreshed, &run.Retired, &run.Skipped, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}

	run.Mode = domain.SyncMode(mode)
	if run.StartedAt, err = time.Parse(runTimeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(runTimeLayout, finishedAt); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	return &run, nil
}
