package github

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/logger"
)

// ListPullRequests streams the pull requests of repo matching query,
// most recently updated first. Pages are requested one at a time by
// following the Link header; the next page is only requested once the
// consumer has taken every summary of the current one.
func (c *Client) ListPullRequests(
	ctx context.Context, repo domain.RepoRef, query domain.ListQuery,
) iter.Seq2[domain.PullRequestSummary, error] {
	return func(yield func(domain.PullRequestSummary, error) bool) {
		next := c.listURL(repo, query)

		for page := 1; next != ""; page++ {
			summaries, link, err := c.fetchPage(ctx, next)
			if err != nil {
				yield(domain.PullRequestSummary{}, err)
				return
			}
			logger.Debug("Listed page %d of %s: %d pull requests", page, repo, len(summaries))

			for _, s := range summaries {
				if !yield(s, nil) {
					return
				}
			}

			next = ParseNextLink(link)
		}
	}
}

// FetchDiff downloads the raw unified diff at location.
func (c *Client) FetchDiff(ctx context.Context, location string) (string, error) {
	body, _, err := c.get(ctx, location, mediaTypeDiff, "fetch diff")
	if err != nil {
		return "", err
	}
	return body.String(), nil
}

// listURL builds the first page URL, relative to the API root.
func (c *Client) listURL(repo domain.RepoRef, query domain.ListQuery) string {
	v := url.Values{}
	v.Set("sort", "updated")
	v.Set("direction", "desc")
	v.Set("per_page", strconv.Itoa(c.opts.PerPage))
	v.Set("page", "1")
	if query.State != "" && query.State != domain.ListOpen {
		v.Set("state", string(query.State))
	}

	return fmt.Sprintf("repos/%s/%s/pulls?%s",
		url.PathEscape(repo.Owner), url.PathEscape(repo.Name), v.Encode())
}

// fetchPage requests one listing page and returns its summaries and Link header.
func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]domain.PullRequestSummary, string, error) {
	body, resp, err := c.get(ctx, pageURL, "", "list pull requests")
	if err != nil {
		return nil, "", err
	}

	var prs []*gh.PullRequest
	if err := json.Unmarshal(body.Bytes(), &prs); err != nil {
		return nil, "", fmt.Errorf("%w: decode pull request list: %w", domain.ErrMalformedResponse, err)
	}

	summaries := make([]domain.PullRequestSummary, 0, len(prs))
	for _, pr := range prs {
		s, err := toSummary(pr)
		if err != nil {
			return nil, "", err
		}
		summaries = append(summaries, s)
	}

	return summaries, resp.Header.Get("Link"), nil
}

// toSummary extracts the fields the sync engine needs from a listing record.
func toSummary(pr *gh.PullRequest) (domain.PullRequestSummary, error) {
	if pr == nil {
		return domain.PullRequestSummary{}, fmt.Errorf("%w: null pull request", domain.ErrMalformedResponse)
	}

	id := pr.GetNumber()
	if id == 0 {
		id = numberFromURL(pr.GetURL())
	}
	if id <= 0 {
		return domain.PullRequestSummary{}, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, ErrMissingNumber)
	}

	updated := pr.GetUpdatedAt()
	if updated.IsZero() {
		return domain.PullRequestSummary{}, fmt.Errorf("%w: pull request %d has no updated_at", domain.ErrMalformedResponse, id)
	}

	state, err := domain.ParsePRState(pr.GetState())
	if err != nil {
		return domain.PullRequestSummary{}, fmt.Errorf("pull request %d: %w", id, err)
	}

	diffURL := pr.GetDiffURL()
	if diffURL == "" {
		return domain.PullRequestSummary{}, fmt.Errorf("%w: pull request %d has no diff_url", domain.ErrMalformedResponse, id)
	}

	return domain.PullRequestSummary{
		ID:        id,
		DiffURL:   diffURL,
		UpdatedAt: updated.Time,
		State:     state,
	}, nil
}

// numberFromURL returns the trailing integer of a pull request API URL
// (".../pulls/42"), or 0.
func numberFromURL(u string) int {
	u = strings.TrimRight(u, "/")
	idx := strings.LastIndex(u, "/")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(u[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
