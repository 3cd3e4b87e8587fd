package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/search-pr/internal/connectors/github"
	"github.com/custodia-labs/search-pr/internal/core/domain"
)

var (
	searchJSON  bool
	searchLines bool
)

var matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search cached pull request diffs",
	Long: `Lists the open pull requests whose diff adds or removes a line containing
the query. Matching is exact and case-sensitive. An empty query lists every
pull request with at least one changed line.

Only the local cache is read; run "search-pr sync" first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVarP(&searchLines, "lines", "l", false, "show the matching lines")
	rootCmd.AddCommand(searchCmd)
}

// searchResult is the JSON form of one match.
type searchResult struct {
	Number int      `json:"number"`
	URL    string   `json:"url"`
	Lines  []string `json:"lines,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	repo, err := resolveRepo(cmd.Context())
	if err != nil {
		return err
	}
	if err := ensureServices(cmd, false); err != nil {
		return err
	}

	matches, err := searchService.Matches(cmd.Context(), repo, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, repo, matches)
	}

	outputSearchTable(cmd, repo, query, matches)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, repo domain.RepoRef, matches []domain.SearchMatch) error {
	results := make([]searchResult, len(matches))
	for i, m := range matches {
		results[i] = searchResult{Number: m.PRID, URL: github.PullRequestWebURL(repo, m.PRID)}
		if searchLines {
			results[i].Lines = m.Tokens
		}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, repo domain.RepoRef, query string, matches []domain.SearchMatch) {
	if len(matches) == 0 {
		cmd.Println("No matching pull requests.")
		return
	}

	for _, m := range matches {
		cmd.Printf("#%d %s\n", m.PRID, github.PullRequestWebURL(repo, m.PRID))
		if !searchLines {
			continue
		}
		for _, line := range m.Tokens {
			cmd.Printf("    %s\n", highlight(line, query))
		}
	}
}

// highlight renders every occurrence of query in line with matchStyle.
func highlight(line, query string) string {
	if query == "" {
		return line
	}

	var b strings.Builder
	for {
		idx := strings.Index(line, query)
		if idx < 0 {
			b.WriteString(line)
			return b.String()
		}
		b.WriteString(line[:idx])
		b.WriteString(matchStyle.Render(query))
		line = line[idx+len(query):]
	}
}
