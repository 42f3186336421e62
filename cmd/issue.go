package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tsheet/internal/search"
)

var issueAllPages bool

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Look up tracker issues",
}

var issueSearchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search tracker issues incrementally",
	Long: `Search issues in the configured tracker. Without a search text the
command lists issues assigned to you. Exact key matches sort first and
are marked 🟢; everything else is marked 🔵.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) == 1 {
			term = args[0]
		}
		return issueSearchRun(term)
	},
}

func init() {
	issueSearchCmd.Flags().BoolVar(&issueAllPages, "all", false, "Fetch every result page, not just the first")
	issueCmd.AddCommand(issueSearchCmd)
	rootCmd.AddCommand(issueCmd)
}

func issueSearchRun(term string) error {
	client, err := getTracker()
	if err != nil {
		return err
	}
	ctx := context.Background()

	acc := search.New()
	acc.SetSearch(term)

	for {
		var (
			page search.Page
			err  error
		)
		if acc.Mode() == search.ModeSearch {
			page, err = client.SearchIssues(ctx, acc.Search(), acc.Page())
		} else {
			page, err = client.UserIssues(ctx, acc.Page())
		}
		if err != nil {
			return fmt.Errorf("search issues: %w", err)
		}

		acc.Commit(acc.Search(), acc.Mode(), acc.Page(), page)
		ui.VerboseLog("Fetched page %d/%d", acc.Page(), page.TotalPages)

		if !issueAllPages || !acc.LoadMore() {
			break
		}
	}

	options := acc.Options(nil)
	if len(options) == 0 {
		ui.Info("No issues found")
		return nil
	}
	for _, opt := range options {
		fmt.Fprintln(ui.Out, opt.Label)
	}
	if acc.HasMore() && !issueAllPages {
		ui.Info("More results available (rerun with --all)")
	}
	return nil
}
