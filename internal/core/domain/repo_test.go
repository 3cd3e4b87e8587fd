package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want RepoRef
	}{
		{"owner/repo", "testOwner/testRepo", RepoRef{Owner: "testOwner", Name: "testRepo"}},
		{"https clone url", "https://github.com/testOwner/testRepo.git", RepoRef{Owner: "testOwner", Name: "testRepo"}},
		{"web url with slash", "https://github.com/testOwner/testRepo/", RepoRef{Owner: "testOwner", Name: "testRepo"}},
		{"scp ssh remote", "git@github.com:testOwner/testRepo.git", RepoRef{Owner: "testOwner", Name: "testRepo"}},
		{"ssh url", "ssh://git@github.com/testOwner/testRepo.git", RepoRef{Owner: "testOwner", Name: "testRepo"}},
		{"surrounding space", "  a/b ", RepoRef{Owner: "a", Name: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoRef(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Owner+"/"+tt.want.Name, got.String())
		})
	}
}

func TestParseRepoRef_Invalid(t *testing.T) {
	for _, in := range []string{"", "justone", "a/b/c", "/repo", "owner/", "https://github.com"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRepoRef(in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParsePRState(t *testing.T) {
	open, err := ParsePRState("open")
	require.NoError(t, err)
	assert.Equal(t, PRStateOpen, open)

	closed, err := ParsePRState("closed")
	require.NoError(t, err)
	assert.Equal(t, PRStateClosed, closed)

	_, err = ParsePRState("merged")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestRepositoryCache_PRIDs(t *testing.T) {
	cache := NewRepositoryCache(RepoRef{Owner: "o", Name: "r"})
	cache.Entries[3] = IndexEntry{PRID: 3}
	cache.Entries[1] = IndexEntry{PRID: 1}

	assert.Equal(t, []int{1, 3}, cache.PRIDs())
}

func TestQueryFor(t *testing.T) {
	assert.Equal(t, ListOpen, QueryFor(SyncModeInitial).State)
	assert.Equal(t, ListAll, QueryFor(SyncModeIncremental).State)
}
