package domain

// AuthMethod is how requests to the code-review host are authenticated.
type AuthMethod string

const (
	// AuthMethodNone sends anonymous requests (public repositories only).
	AuthMethodNone AuthMethod = "none"

	// AuthMethodPAT sends a personal access token.
	AuthMethodPAT AuthMethod = "pat"
)
