package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

// PullRequestSource is the code-review host as seen by the sync engine.
// Implementations issue one request at a time and every request carries a
// timeout; failures wrap domain.ErrTransport or domain.ErrMalformedResponse.
type PullRequestSource interface {
	// ListPullRequests streams summaries sorted by update time, newest first,
	// following pagination lazily. A page failure is yielded as the error of
	// a final pair. Stopping the iteration stops further page requests.
	ListPullRequests(
		ctx context.Context, repo domain.RepoRef, query domain.ListQuery,
	) iter.Seq2[domain.PullRequestSummary, error]

	// FetchDiff downloads the raw unified diff at location.
	FetchDiff(ctx context.Context, location string) (string, error)
}

// DiffTokenizer turns one unified diff into its changed-content tokens.
type DiffTokenizer interface {
	Tokenize(diff string) []string
}
