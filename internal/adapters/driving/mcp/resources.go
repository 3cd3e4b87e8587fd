package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for search-pr resources.
	uriScheme = "search-pr://"
)

// statusInfo is the JSON body of a repository status resource.
type statusInfo struct {
	Repo       string   `json:"repo"`
	Watermark  string   `json:"watermark,omitempty"`
	TieIDs     []int    `json:"tie_ids,omitempty"`
	IndexedPRs int      `json:"indexed_prs"`
	LastRun    *runInfo `json:"last_run,omitempty"`
}

type runInfo struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Refreshed  int    `json:"refreshed"`
	Retired    int    `json:"retired"`
	Skipped    int    `json:"skipped"`
	FinishedAt string `json:"finished_at"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "repos/{owner}/{repo}/status",
		Name:        "repository-status",
		Description: "Watermark, index size and last sync run of a cached repository",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleStatusResource returns the cache status of one repository.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sync == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	repo, ok := extractRepo(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	status, err := s.ports.Sync.Status(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	info := statusInfo{
		Repo:       repo.String(),
		IndexedPRs: status.IndexedPRs,
	}
	if status.Watermark != nil {
		info.Watermark = domain.FormatTimestamp(status.Watermark.Timestamp)
		info.TieIDs = status.Watermark.TieIDs
	}
	if run := status.LastRun; run != nil {
		info.LastRun = &runInfo{
			ID:         run.ID,
			Mode:       string(run.Mode),
			Refreshed:  run.Refreshed,
			Retired:    run.Retired,
			Skipped:    run.Skipped,
			FinishedAt: run.FinishedAt.UTC().Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRepo extracts the repository from a URI like search-pr://repos/{owner}/{repo}/status.
func extractRepo(uri string) (domain.RepoRef, bool) {
	const prefix = uriScheme + "repos/"
	const suffix = "/status"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return domain.RepoRef{}, false
	}

	path := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	owner, name, ok := strings.Cut(path, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return domain.RepoRef{}, false
	}
	return domain.RepoRef{Owner: owner, Name: name}, true
}
