package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/search-pr/internal/connectors/github"
	"github.com/custodia-labs/search-pr/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Repo  string `json:"repo" jsonschema:"repository as owner/name or a GitHub URL"`
	Query string `json:"query" jsonschema:"substring to look for in added or removed lines; empty matches every indexed pull request"`
	Lines bool   `json:"lines,omitempty" jsonschema:"include the matching changed lines of each pull request"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Repo    string              `json:"repo"`
	Query   string              `json:"query"`
	Results []PullRequestOutput `json:"results"`
	Count   int                 `json:"count"`
}

// PullRequestOutput represents one matching pull request.
type PullRequestOutput struct {
	Number int      `json:"number"`
	URL    string   `json:"url"`
	Lines  []string `json:"lines,omitempty"`
}

// SyncInput is the input schema for the sync tool.
type SyncInput struct {
	Repo string `json:"repo" jsonschema:"repository as owner/name or a GitHub URL"`
}

// SyncOutput is the output schema for the sync tool.
type SyncOutput struct {
	RunID     string `json:"run_id"`
	Repo      string `json:"repo"`
	Mode      string `json:"mode"`
	Listed    int    `json:"listed"`
	Refreshed int    `json:"refreshed"`
	Retired   int    `json:"retired"`
	Skipped   int    `json:"skipped"`
	Watermark string `json:"watermark,omitempty"`
	TieIDs    []int  `json:"tie_ids,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_pull_requests",
		Description: "Find pull requests whose diff adds or removes a line containing a substring (exact, case-sensitive)",
	}, s.handleSearch)

	if s.ports.Sync != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "sync_pull_requests",
			Description: "Bring the local pull request cache of a repository up to date",
		}, s.handleSync)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	repo, err := domain.ParseRepoRef(input.Repo)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	matches, err := s.ports.Search.Matches(ctx, repo, input.Query)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("searching %s: %w", repo, err)
	}

	output := SearchOutput{
		Repo:    repo.String(),
		Query:   input.Query,
		Results: make([]PullRequestOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Results[i] = PullRequestOutput{
			Number: m.PRID,
			URL:    github.PullRequestWebURL(repo, m.PRID),
		}
		if input.Lines {
			output.Results[i].Lines = m.Tokens
		}
	}

	return nil, output, nil
}

// handleSync handles the sync tool invocation.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	if s.ports.Sync == nil {
		return nil, SyncOutput{}, ErrSyncUnavailable
	}

	repo, err := domain.ParseRepoRef(input.Repo)
	if err != nil {
		return nil, SyncOutput{}, err
	}

	report, err := s.ports.Sync.Update(ctx, repo)
	if err != nil {
		return nil, SyncOutput{}, fmt.Errorf("syncing %s: %w", repo, err)
	}

	output := SyncOutput{
		RunID:     report.RunID,
		Repo:      repo.String(),
		Mode:      string(report.Mode),
		Listed:    report.Listed,
		Refreshed: report.Refreshed,
		Retired:   report.Retired,
		Skipped:   report.Skipped,
	}
	if report.Watermark != nil {
		output.Watermark = domain.FormatTimestamp(report.Watermark.Timestamp)
		output.TieIDs = report.Watermark.TieIDs
	}

	return nil, output, nil
}
