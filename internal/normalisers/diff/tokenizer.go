// Package diff turns unified diffs into the tokens the search index stores.
//
// A token is one changed line of a hunk body with its "+" or "-" marker
// stripped. File headers ("diff --git", "index", "---", "+++") and hunk
// headers ("@@") are structural and never produce tokens, even though
// "---" and "+++" start with change markers: they only occur before the
// first hunk of a file segment.
package diff

import (
	"strings"

	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

// Ensure Tokenizer implements the interface.
var _ driven.DiffTokenizer = (*Tokenizer)(nil)

const (
	fileHeaderPrefix = "diff --git"
	hunkHeaderPrefix = "@@"
)

// Tokenizer extracts changed-content lines from unified diffs.
type Tokenizer struct{}

// New creates a new diff tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize returns the changed lines of every hunk in diff, in order.
func (t *Tokenizer) Tokenize(diff string) []string {
	return Tokenize(diff)
}

// Tokenize returns the changed lines of every hunk in text, in order and
// with duplicates kept. Tokens of all file segments are pooled.
// Lines inside a hunk that are neither changes nor context are skipped.
func Tokenize(text string) []string {
	tokens := make([]string, 0)
	inHunk := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		switch {
		case strings.HasPrefix(line, fileHeaderPrefix):
			inHunk = false
		case strings.HasPrefix(line, hunkHeaderPrefix):
			inHunk = true
		case !inHunk:
			// index, ---, +++, mode and rename lines of the file header.
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, "-"):
			tokens = append(tokens, line[1:])
		}
	}

	return tokens
}
