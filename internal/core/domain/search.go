package domain

// SearchMatch is one pull request whose changed lines contain the query.
type SearchMatch struct {
	// PRID is the pull request number.
	PRID int

	// Tokens are the changed lines that contain the query, in diff order.
	Tokens []string
}
