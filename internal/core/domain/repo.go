package domain

import (
	"fmt"
	"strings"
)

// RepoRef identifies a repository on the code-review host.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the "owner/repo" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether the reference is empty.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// ParseRepoRef accepts "owner/repo", an https clone or web URL
// (https://github.com/owner/repo.git) or an scp-style SSH remote
// (git@github.com:owner/repo.git).
func ParseRepoRef(s string) (RepoRef, error) {
	orig := s
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "ssh://"):
		// Drop scheme and host.
		s = s[strings.Index(s, "://")+3:]
		idx := strings.Index(s, "/")
		if idx < 0 {
			return RepoRef{}, fmt.Errorf("%w: repository %q", ErrInvalidInput, orig)
		}
		s = s[idx+1:]
	case strings.Contains(s, "@") && strings.Contains(s, ":"):
		s = s[strings.Index(s, ":")+1:]
	}

	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("%w: repository %q, want owner/repo", ErrInvalidInput, orig)
	}

	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}
