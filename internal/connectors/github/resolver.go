package github

import (
	"fmt"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

// WebBaseURL is the root of github.com web pages.
const WebBaseURL = "https://github.com/"

// PullRequestWebURL returns the browser URL of a pull request.
func PullRequestWebURL(repo domain.RepoRef, number int) string {
	return fmt.Sprintf("%s%s/%s/pull/%d", WebBaseURL, repo.Owner, repo.Name, number)
}
