package github

import (
	"regexp"
	"strings"
)

// linkRegex matches Link header entries: <url>; rel="type".
var linkRegex = regexp.MustCompile(`<([^>]+)>;\s*rel="([^"]+)"`)

// ParseNextLink extracts the "next" URL from a Link header.
// Returns empty string if no next link is found.
func ParseNextLink(linkHeader string) string {
	return ParseAllLinks(linkHeader)["next"]
}

// ParseAllLinks extracts all URLs from a Link header by relationship type.
// Returns a map of rel type to URL. Malformed and empty entries are ignored.
func ParseAllLinks(linkHeader string) map[string]string {
	links := make(map[string]string)
	if linkHeader == "" {
		return links
	}

	parts := strings.Split(linkHeader, ",")
	for _, part := range parts {
		matches := linkRegex.FindStringSubmatch(strings.TrimSpace(part))
		if len(matches) == 3 {
			if _, seen := links[matches[2]]; !seen {
				links[matches[2]] = matches[1]
			}
		}
	}

	return links
}
