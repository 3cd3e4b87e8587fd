// Package github lists pull requests and downloads their diffs from the
// GitHub REST API.
//
// Listing uses GET /repos/{owner}/{repo}/pulls sorted by update time,
// newest first, and follows the Link header's rel="next" URL until it is
// absent. Each page is fetched only when the consumer of the iterator
// asks for more. Diffs are fetched from the record's diff_url with the
// diff media type.
//
// Every transport failure (connection, timeout, non-2xx status) matches
// domain.ErrTransport. Response bodies that cannot be decoded, or records
// missing a field the sync engine needs, match domain.ErrMalformedResponse.
package github
