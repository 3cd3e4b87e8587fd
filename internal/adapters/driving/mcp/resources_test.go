package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driving"
)

func TestExtractRepo(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		want   domain.RepoRef
		wantOK bool
	}{
		{"valid", "search-pr://repos/testOwner/testRepo/status", domain.RepoRef{Owner: "testOwner", Name: "testRepo"}, true},
		{"invalid prefix", "file://repos/testOwner/testRepo/status", domain.RepoRef{}, false},
		{"missing status suffix", "search-pr://repos/testOwner/testRepo", domain.RepoRef{}, false},
		{"missing name", "search-pr://repos/testOwner/status", domain.RepoRef{}, false},
		{"too many segments", "search-pr://repos/a/b/c/status", domain.RepoRef{}, false},
		{"empty URI", "", domain.RepoRef{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractRepo(tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatusResource(t *testing.T) {
	ctx := context.Background()
	const uri = "search-pr://repos/testOwner/testRepo/status"

	t.Run("returns status JSON", func(t *testing.T) {
		finished := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		sync := &mockSyncOrchestrator{status: &driving.CacheStatus{
			Repo:       domain.RepoRef{Owner: "testOwner", Name: "testRepo"},
			Watermark:  &domain.SyncWatermark{Timestamp: time.Date(2005, 1, 29, 18, 23, 0, 0, time.UTC), TieIDs: []int{1}},
			IndexedPRs: 3,
			LastRun:    &domain.SyncRun{ID: "run-2", Mode: domain.SyncModeIncremental, Refreshed: 1, FinishedAt: finished},
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Sync: sync})
		require.NoError(t, err)

		result, err := server.handleStatusResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var info statusInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.Equal(t, "testOwner/testRepo", info.Repo)
		assert.Equal(t, "2005-01-29T18:23:00+00:00", info.Watermark)
		assert.Equal(t, []int{1}, info.TieIDs)
		assert.Equal(t, 3, info.IndexedPRs)
		require.NotNil(t, info.LastRun)
		assert.Equal(t, "run-2", info.LastRun.ID)
		assert.Equal(t, "2024-03-01T12:00:00Z", info.LastRun.FinishedAt)
	})

	t.Run("never synced repository", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Sync: &mockSyncOrchestrator{}})
		require.NoError(t, err)

		result, err := server.handleStatusResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		assert.JSONEq(t, `{"repo":"testOwner/testRepo","indexed_prs":0}`, result.Contents[0].Text)
	})

	t.Run("nil sync service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, err = server.handleStatusResource(ctx, makeReadResourceRequest(uri))

		assert.Error(t, err)
	})

	t.Run("malformed URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Sync: &mockSyncOrchestrator{}})
		require.NoError(t, err)

		_, err = server.handleStatusResource(ctx, makeReadResourceRequest("search-pr://repos/x/status"))

		assert.Error(t, err)
	})

	t.Run("status error", func(t *testing.T) {
		sync := &mockSyncOrchestrator{err: errors.New("corrupt")}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Sync: sync})
		require.NoError(t, err)

		_, err = server.handleStatusResource(ctx, makeReadResourceRequest(uri))

		assert.ErrorContains(t, err, "corrupt")
	})
}
