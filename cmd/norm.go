package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tsheet/internal/workcal"
)

var normCmd = &cobra.Command{
	Use:   "norm <date|month>",
	Short: "Expected working hours for a date or month",
	Long: `Show the production-calendar working-hours norm.

Accepts a single date (2024-03-06), a month (2024-03), or a full ISO
timestamp. Holidays and moved days off count 0 hours, pre-holiday days
7, regular workdays 8.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return normRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(normCmd)
}

func normRun(arg string) error {
	if month, err := time.Parse("2006-01", arg); err == nil {
		hours := workcal.MonthExpected(month.Year(), month.Month())
		ui.Info("%s: %d working hours expected", arg, hours)
		return nil
	}

	day := workcal.NormalizeDay(arg)
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return fmt.Errorf("invalid date: %q (use YYYY-MM-DD or YYYY-MM)", arg)
	}
	hours := workcal.ExpectedHours(day)
	switch hours {
	case 0:
		ui.Info("%s: day off", day)
	default:
		ui.Info("%s: %d working hours expected", day, hours)
	}
	return nil
}
