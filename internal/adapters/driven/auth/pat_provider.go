package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// TokenEnvVar is the environment variable that overrides the configured token.
const TokenEnvVar = "GITHUB_TOKEN"

// Ensure PATProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*PATProvider)(nil)

// PATProvider provides a static Personal Access Token.
// PATs don't expire and don't require refresh.
type PATProvider struct {
	token string
}

// NewPATProvider creates a token provider for PAT-based authentication.
func NewPATProvider(token string) *PATProvider {
	return &PATProvider{token: strings.TrimSpace(token)}
}

// GetToken returns the PAT.
func (p *PATProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("%w: empty personal access token", domain.ErrInvalidInput)
	}
	return p.token, nil
}

// AuthMethod returns AuthMethodPAT.
func (p *PATProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodPAT
}

// IsAuthenticated returns true if a token is set.
func (p *PATProvider) IsAuthenticated() bool {
	return p.token != ""
}

// NewTokenProvider picks the provider for a configured token. A non-empty
// GITHUB_TOKEN takes precedence over configured; with neither, requests
// are anonymous.
func NewTokenProvider(configured string) driven.TokenProvider {
	token := strings.TrimSpace(os.Getenv(TokenEnvVar))
	if token == "" {
		token = strings.TrimSpace(configured)
	}
	if token == "" {
		return NewNullTokenProvider()
	}
	return NewPATProvider(token)
}
