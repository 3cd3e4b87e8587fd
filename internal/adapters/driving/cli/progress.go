package cli

import (
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/custodia-labs/search-pr/internal/core/domain"
	"github.com/custodia-labs/search-pr/internal/core/ports/driven"
)

var termCheck = term.IsTerminal

const (
	fetchingLine = "Fetching diffs of pull requests......"
	doneSuffix   = " done.                   \n"
)

// Ensure progressReporter implements the interface.
var _ driven.ProgressReporter = (*progressReporter)(nil)

// progressReporter prints sync progress. On a terminal, intermediate states
// are redrawn in place with a carriage return; elsewhere only the completed
// steps are written.
type progressReporter struct {
	out         io.Writer
	interactive bool
}

func newProgressReporter(out io.Writer, interactive bool) *progressReporter {
	return &progressReporter{out: out, interactive: interactive}
}

func listingLine(mode domain.SyncMode) string {
	label := "open"
	if mode == domain.SyncModeIncremental {
		label = "updated"
	}
	return fmt.Sprintf("Listing %s pull requests......", label)
}

func (p *progressReporter) ListingStarted(mode domain.SyncMode) {
	if p.interactive {
		fmt.Fprint(p.out, listingLine(mode)+" \r")
	}
}

func (p *progressReporter) ListingFinished(mode domain.SyncMode) {
	fmt.Fprint(p.out, listingLine(mode)+doneSuffix)
}

func (p *progressReporter) DiffProgress(done, total int) {
	if p.interactive {
		fmt.Fprintf(p.out, "%s (%d/%d)\r", fetchingLine, done, total)
	}
}

func (p *progressReporter) DiffsFinished() {
	fmt.Fprint(p.out, fetchingLine+doneSuffix)
}
