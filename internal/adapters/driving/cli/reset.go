package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the cache of a repository",
	Long: `Deletes the watermark and every indexed pull request of a repository.
The next sync lists every open pull request again.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	repo, err := resolveRepo(cmd.Context())
	if err != nil {
		return err
	}
	if err := ensureServices(cmd, false); err != nil {
		return err
	}

	if err := syncOrchestrator.Reset(cmd.Context(), repo); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Printf("Cache of %s deleted.\n", repo)
	return nil
}
