package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tsheet/internal/aggregate"
	"tsheet/internal/duration"
	"tsheet/internal/models"
	"tsheet/internal/output"
	"tsheet/internal/store"
)

var (
	reportFrom   string
	reportTo     string
	reportFormat string
	reportByUser int64
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate logged time per issue and per team member",
	Long: `Aggregate cached time tracks into a per-issue table with one column
per team member, sorted by total duration descending.

With --by-user, show one user's per-day totals against the expected
working hours instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportRun()
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Start date YYYY-MM-DD (inclusive)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "End date YYYY-MM-DD (inclusive)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "Output format: table, json, csv, markdown")
	reportCmd.Flags().Int64Var(&reportByUser, "by-user", 0, "Show per-day totals for one user id")
	rootCmd.AddCommand(reportCmd)
}

func reportRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	tracks, err := s.ListTracks(ctx, store.TrackListFilter{From: reportFrom, To: reportTo})
	if err != nil {
		return err
	}
	members, err := s.ListMembers(ctx)
	if err != nil {
		return err
	}

	byUser := make([]models.TrackByUser, 0, len(tracks))
	for _, t := range tracks {
		byUser = append(byUser, *t)
	}

	if reportByUser != 0 {
		return reportDays(byUser, reportByUser)
	}

	users := make([]aggregate.User, 0, len(members))
	for _, m := range members {
		users = append(users, aggregate.User{UID: m.UID, Display: m.Display})
	}
	res := aggregate.ByIssue(byUser, users)

	displays := make(map[int64]string, len(members))
	for _, m := range members {
		displays[m.UID] = m.Display
	}

	switch reportFormat {
	case "table":
		return reportTable(res, displays)
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Rows)
	case "csv":
		return reportCSV(res, displays)
	case "markdown":
		return reportMarkdown(res, displays)
	default:
		return fmt.Errorf("unknown format: %s (use: table, json, csv, markdown)", reportFormat)
	}
}

func userHeaders(res aggregate.ByIssueResult, displays map[int64]string) []string {
	headers := make([]string, 0, len(res.UserIDs))
	for _, uid := range res.UserIDs {
		name := displays[uid]
		if name == "" {
			name = strconv.FormatInt(uid, 10)
		}
		headers = append(headers, name)
	}
	return headers
}

func rowCells(row models.IssueSummaryRow, userIDs []int64) []string {
	cells := make([]string, 0, len(userIDs)+1)
	for _, uid := range userIDs {
		d, ok := row.Users[uid]
		if !ok {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, duration.Format(d))
	}
	cells = append(cells, duration.Format(row.Total))
	return cells
}

func reportTable(res aggregate.ByIssueResult, displays map[int64]string) error {
	if len(res.Rows) == 0 {
		ui.Info("No tracks in the selected period")
		return nil
	}

	headers := append([]string{"Issue", "Summary"}, userHeaders(res, displays)...)
	headers = append(headers, "Total")
	table := ui.Table(headers)
	for _, row := range res.Rows {
		cells := append([]string{output.Cyan(row.IssueKey), row.IssueSummary}, rowCells(row, res.UserIDs)...)
		table.Append(cells)
	}
	return table.Render()
}

func reportCSV(res aggregate.ByIssueResult, displays map[int64]string) error {
	w := csv.NewWriter(ui.Out)
	headers := append([]string{"Issue", "Summary"}, userHeaders(res, displays)...)
	headers = append(headers, "Total")
	_ = w.Write(headers)
	for _, row := range res.Rows {
		_ = w.Write(append([]string{row.IssueKey, row.IssueSummary}, rowCells(row, res.UserIDs)...))
	}
	w.Flush()
	return w.Error()
}

func reportMarkdown(res aggregate.ByIssueResult, displays map[int64]string) error {
	fmt.Fprintln(ui.Out, "# Time Report")
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, "| Issue | Summary |")
	for _, h := range userHeaders(res, displays) {
		fmt.Fprintf(ui.Out, " %s |", h)
	}
	fmt.Fprintln(ui.Out, " Total |")
	fmt.Fprint(ui.Out, "|-------|---------|")
	for range res.UserIDs {
		fmt.Fprint(ui.Out, "---|")
	}
	fmt.Fprintln(ui.Out, "---|")
	for _, row := range res.Rows {
		fmt.Fprintf(ui.Out, "| %s | %s |", row.IssueKey, row.IssueSummary)
		for _, c := range rowCells(row, res.UserIDs) {
			fmt.Fprintf(ui.Out, " %s |", c)
		}
		fmt.Fprintln(ui.Out)
	}
	return nil
}

// reportDays prints one user's per-day totals colored against the norm.
func reportDays(tracks []models.TrackByUser, uid int64) error {
	days := aggregate.ByDay(tracks, uid)
	if len(days) == 0 {
		ui.Info("No tracks for user %d in the selected period", uid)
		return nil
	}

	table := ui.Table([]string{"Day", "Logged", "Expected"})
	for _, d := range days {
		loggedMinutes := int(duration.BusinessToMs(d.Logged) / 60000)
		table.Append([]string{
			d.Day,
			output.BalanceColor(duration.Format(d.Logged), loggedMinutes, d.Expected),
			fmt.Sprintf("%dh", d.Expected),
		})
	}
	return table.Render()
}
