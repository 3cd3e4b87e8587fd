package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
	"github.com/custodia-labs/search-pr/internal/core/ports/driving"
	"github.com/custodia-labs/search-pr/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator mirrors the pull requests of a repository into the cache.
// Runs are serialised: concurrent Update and Reset calls wait for the
// run in progress.
type SyncOrchestrator struct {
	mu sync.Mutex

	source    driven.PullRequestSource
	tokenizer driven.DiffTokenizer
	store     driven.CacheStore
	history   driven.SyncHistoryStore
	progress  driven.ProgressReporter

	now func() time.Time
}

// NewSyncOrchestrator creates a new sync orchestrator.
// history and progress are optional (can be nil).
func NewSyncOrchestrator(
	source driven.PullRequestSource,
	tokenizer driven.DiffTokenizer,
	store driven.CacheStore,
	history driven.SyncHistoryStore,
	progress driven.ProgressReporter,
) *SyncOrchestrator {
	if progress == nil {
		progress = nopProgress{}
	}
	return &SyncOrchestrator{
		source:    source,
		tokenizer: tokenizer,
		store:     store,
		history:   history,
		progress:  progress,
		now:       time.Now,
	}
}

// plannedAction is one classified summary awaiting application.
type plannedAction struct {
	summary domain.PullRequestSummary
	action  domain.SyncAction
}

// Update runs one synchronisation of repo.
//
// Without a watermark the run is initial: open pull requests are listed in
// full. Otherwise every pull request is listed newest update first and the
// traversal stops at the first one older than the watermark. Actions are
// applied after the traversal, then the watermark is replaced by the one
// computed over every visited summary.
func (o *SyncOrchestrator) Update(ctx context.Context, repo domain.RepoRef) (*domain.SyncReport, error) {
	if repo.IsZero() {
		return nil, fmt.Errorf("%w: repository not set", domain.ErrInvalidInput)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	cache, err := o.store.Load(ctx, repo)
	if errors.Is(err, domain.ErrNotFound) {
		cache = domain.NewRepositoryCache(repo)
	} else if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	watermark := cache.Watermark
	mode := domain.SyncModeIncremental
	if watermark == nil {
		mode = domain.SyncModeInitial
	}

	report := &domain.SyncReport{
		RunID:     uuid.NewString(),
		Repo:      repo,
		Mode:      mode,
		Watermark: watermark,
		StartedAt: o.now(),
	}

	logger.Section("Sync " + repo.String())
	logger.Info("Run %s: %s sync of %s", report.RunID, mode, repo)
	if watermark != nil {
		logger.Debug("Watermark %s, tie ids %v", domain.FormatTimestamp(watermark.Timestamp), watermark.TieIDs)
	}

	plan, seen, err := o.traverse(ctx, repo, mode, watermark, report)
	if err != nil {
		logger.Warn("Run %s aborted while listing: %v", report.RunID, err)
		return nil, fmt.Errorf("list pull requests: %w", err)
	}

	if err := o.apply(ctx, repo, plan, report); err != nil {
		logger.Warn("Run %s aborted while applying: %v", report.RunID, err)
		return nil, err
	}

	if mode == domain.SyncModeInitial {
		if err := o.pruneStale(ctx, repo, cache, seen, report); err != nil {
			return nil, err
		}
	}

	if next := domain.NewWatermark(seen); next != nil {
		if err := o.store.SaveWatermark(ctx, repo, *next); err != nil {
			return nil, fmt.Errorf("save watermark: %w", err)
		}
		report.Watermark = next
		logger.Info("New watermark %s, tie ids %v", domain.FormatTimestamp(next.Timestamp), next.TieIDs)
	} else {
		logger.Info("No pull requests listed, watermark unchanged")
	}

	report.FinishedAt = o.now()
	o.record(ctx, report)

	logger.Info("Run %s done: listed %d, refreshed %d, retired %d, skipped %d",
		report.RunID, report.Listed, report.Refreshed, report.Retired, report.Skipped)

	return report, nil
}

// traverse consumes the listing and classifies every visited summary.
func (o *SyncOrchestrator) traverse(
	ctx context.Context,
	repo domain.RepoRef,
	mode domain.SyncMode,
	watermark *domain.SyncWatermark,
	report *domain.SyncReport,
) ([]plannedAction, []domain.PullRequestSummary, error) {
	o.progress.ListingStarted(mode)

	var (
		plan []plannedAction
		seen []domain.PullRequestSummary
	)

	for summary, err := range o.source.ListPullRequests(ctx, repo, domain.QueryFor(mode)) {
		if err != nil {
			return nil, nil, err
		}

		if mode == domain.SyncModeIncremental && watermark.IsBefore(summary.UpdatedAt) {
			logger.Debug("PR #%d updated %s is older than the watermark, stopping",
				summary.ID, domain.FormatTimestamp(summary.UpdatedAt))
			report.Stopped = true
			break
		}

		seen = append(seen, summary)
		action := classify(mode, watermark, summary)
		plan = append(plan, plannedAction{summary: summary, action: action})
		logger.Debug("PR #%d (%s, %s): %s",
			summary.ID, summary.State, domain.FormatTimestamp(summary.UpdatedAt), action)
	}

	report.Listed = len(seen)
	o.progress.ListingFinished(mode)

	return plan, seen, nil
}

// classify decides what a run does with one visited summary.
func classify(mode domain.SyncMode, watermark *domain.SyncWatermark, s domain.PullRequestSummary) domain.SyncAction {
	if mode == domain.SyncModeIncremental && watermark != nil && watermark.AlreadySynced(s) {
		return domain.ActionSkip
	}
	if s.IsOpen() {
		return domain.ActionRefresh
	}
	return domain.ActionRetire
}

// apply executes the plan in encounter order. Entries written before a
// failure stay written.
func (o *SyncOrchestrator) apply(ctx context.Context, repo domain.RepoRef, plan []plannedAction, report *domain.SyncReport) error {
	total := 0
	for _, p := range plan {
		if p.action == domain.ActionRefresh {
			total++
		}
	}

	done := 0
	o.progress.DiffProgress(done, total)

	for _, p := range plan {
		id := p.summary.ID

		switch p.action {
		case domain.ActionRefresh:
			diff, err := o.source.FetchDiff(ctx, p.summary.DiffURL)
			if err != nil {
				return fmt.Errorf("fetch diff of #%d: %w", id, err)
			}
			tokens := o.tokenizer.Tokenize(diff)
			if err := o.store.PutEntry(ctx, repo, id, tokens); err != nil {
				return fmt.Errorf("store entry #%d: %w", id, err)
			}
			logger.Debug("Indexed PR #%d: %d tokens", id, len(tokens))
			report.Refreshed++
			done++
			o.progress.DiffProgress(done, total)

		case domain.ActionRetire:
			if err := o.store.RemoveEntry(ctx, repo, id); err != nil {
				return fmt.Errorf("remove entry #%d: %w", id, err)
			}
			logger.Debug("Retired PR #%d", id)
			report.Retired++

		case domain.ActionSkip:
			report.Skipped++
		}
	}

	o.progress.DiffsFinished()
	return nil
}

// pruneStale retires entries left by an earlier, failed initial run whose
// pull requests are no longer listed as open.
func (o *SyncOrchestrator) pruneStale(
	ctx context.Context,
	repo domain.RepoRef,
	before *domain.RepositoryCache,
	seen []domain.PullRequestSummary,
	report *domain.SyncReport,
) error {
	listed := make(map[int]struct{}, len(seen))
	for _, s := range seen {
		listed[s.ID] = struct{}{}
	}

	for _, id := range before.PRIDs() {
		if _, ok := listed[id]; ok {
			continue
		}
		if err := o.store.RemoveEntry(ctx, repo, id); err != nil {
			return fmt.Errorf("remove stale entry #%d: %w", id, err)
		}
		logger.Debug("Retired stale PR #%d", id)
		report.Retired++
	}
	return nil
}

// record stores the run in history. Failures are logged only.
func (o *SyncOrchestrator) record(ctx context.Context, report *domain.SyncReport) {
	if o.history == nil {
		return
	}
	if err := o.history.Record(ctx, report.Run()); err != nil {
		logger.Warn("Failed to record run %s: %v", report.RunID, err)
	}
}

// Status returns the cached state of repo.
func (o *SyncOrchestrator) Status(ctx context.Context, repo domain.RepoRef) (*driving.CacheStatus, error) {
	if repo.IsZero() {
		return nil, fmt.Errorf("%w: repository not set", domain.ErrInvalidInput)
	}

	status := &driving.CacheStatus{Repo: repo}

	cache, err := o.store.Load(ctx, repo)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load cache: %w", err)
	default:
		status.Watermark = cache.Watermark
		status.IndexedPRs = len(cache.Entries)
	}

	if o.history != nil {
		run, err := o.history.Last(ctx, repo)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("load history: %w", err)
		default:
			status.LastRun = run
		}
	}

	return status, nil
}

// Reset deletes the cache of repo.
func (o *SyncOrchestrator) Reset(ctx context.Context, repo domain.RepoRef) error {
	if repo.IsZero() {
		return fmt.Errorf("%w: repository not set", domain.ErrInvalidInput)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.Delete(ctx, repo); err != nil {
		return fmt.Errorf("delete cache: %w", err)
	}
	logger.Info("Cache of %s deleted", repo)
	return nil
}

// nopProgress discards progress notifications.
type nopProgress struct{}

func (nopProgress) ListingStarted(domain.SyncMode)  {}
func (nopProgress) ListingFinished(domain.SyncMode) {}
func (nopProgress) DiffProgress(int, int)           {}
func (nopProgress) DiffsFinished()                  {}
