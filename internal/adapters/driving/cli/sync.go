package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the pull request cache",
	Long: `Brings the local cache of a repository up to date.

The first run lists every open pull request and fetches its diff. Later runs
list pull requests by update time, newest first, stop at the first one older
than the previous run and only fetch diffs of pull requests that changed.
Closed pull requests leave the cache.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	repo, err := resolveRepo(cmd.Context())
	if err != nil {
		return err
	}
	if err := ensureServices(cmd, true); err != nil {
		return err
	}

	report, err := syncOrchestrator.Update(cmd.Context(), repo)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report *domain.SyncReport) {
	cmd.Printf("Synchronised %s (%s): %d listed, %d refreshed, %d retired, %d unchanged.\n",
		report.Repo, report.Mode, report.Listed, report.Refreshed, report.Retired, report.Skipped)
	if report.Watermark != nil {
		cmd.Printf("Watermark: %s\n", domain.FormatTimestamp(report.Watermark.Timestamp))
	}
}
