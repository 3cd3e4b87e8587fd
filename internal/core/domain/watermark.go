package domain

import (
	"slices"
	"time"
)

// TimestampLayout is the persisted watermark timestamp format: ISO-8601 with a
// numeric offset ("+00:00" rather than "Z"). Fractional seconds appear only
// when non-zero.
const TimestampLayout = "2006-01-02T15:04:05.999999-07:00"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a timestamp written by FormatTimestamp. RFC 3339
// input ("...Z") is accepted too.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// SyncWatermark marks how far a previous run has synchronised.
// TieIDs is only meaningful together with Timestamp; the pair is always
// persisted and loaded as one record.
type SyncWatermark struct {
	// Timestamp is the greatest UpdatedAt observed by the run.
	Timestamp time.Time

	// TieIDs are the pull requests observed at exactly Timestamp, ascending.
	TieIDs []int
}

// NewWatermark computes the watermark for a run that visited seen.
// It returns nil when seen is empty.
func NewWatermark(seen []PullRequestSummary) *SyncWatermark {
	if len(seen) == 0 {
		return nil
	}

	latest := seen[0].UpdatedAt
	for _, s := range seen[1:] {
		if s.UpdatedAt.After(latest) {
			latest = s.UpdatedAt
		}
	}

	ties := make([]int, 0, 1)
	for _, s := range seen {
		if s.UpdatedAt.Equal(latest) && !slices.Contains(ties, s.ID) {
			ties = append(ties, s.ID)
		}
	}
	slices.Sort(ties)

	return &SyncWatermark{Timestamp: latest, TieIDs: ties}
}

// IsBefore reports whether t is strictly older than the watermark.
func (w *SyncWatermark) IsBefore(t time.Time) bool {
	return t.Before(w.Timestamp)
}

// AlreadySynced reports whether s was processed at exactly this boundary.
func (w *SyncWatermark) AlreadySynced(s PullRequestSummary) bool {
	return s.UpdatedAt.Equal(w.Timestamp) && slices.Contains(w.TieIDs, s.ID)
}

// Equal reports whether two watermarks denote the same boundary.
func (w *SyncWatermark) Equal(o *SyncWatermark) bool {
	if w == nil || o == nil {
		return w == o
	}
	return w.Timestamp.Equal(o.Timestamp) && slices.Equal(w.TieIDs, o.TieIDs)
}
