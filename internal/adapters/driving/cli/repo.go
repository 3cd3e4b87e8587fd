package cli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

// gitRemoteURL reads the URL of a remote of the repository in the working
// directory.
var gitRemoteURL = func(ctx context.Context, remote string) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "remote", "get-url", remote).Output()
	if err != nil {
		return "", fmt.Errorf("git remote get-url %s: %w", remote, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// resolveRepo returns the repository named by --repo, falling back to the
// URL of the configured git remote.
func resolveRepo(ctx context.Context) (domain.RepoRef, error) {
	if repoFlag != "" {
		return domain.ParseRepoRef(repoFlag)
	}

	url, err := gitRemoteURL(ctx, remoteName)
	if err != nil {
		return domain.RepoRef{}, fmt.Errorf("%w: no --repo given and %v", domain.ErrInvalidInput, err)
	}
	return domain.ParseRepoRef(url)
}
