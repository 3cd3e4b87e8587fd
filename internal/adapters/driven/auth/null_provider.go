package auth

import (
	"context"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is used when no token is configured. Requests are sent
// anonymously, which works for public repositories at a lower rate limit.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider for anonymous access.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetToken returns an empty string since no authentication is used.
func (p *NullTokenProvider) GetToken(_ context.Context) (string, error) {
	return "", nil
}

// AuthMethod returns AuthMethodNone.
func (p *NullTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodNone
}

// IsAuthenticated always returns false; there is no token to send.
func (p *NullTokenProvider) IsAuthenticated() bool {
	return false
}
