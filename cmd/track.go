package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tsheet/internal/duration"
	"tsheet/internal/models"
	"tsheet/internal/output"
	"tsheet/internal/store"
)

var (
	trackComment string
	trackStart   string
	trackUID     int64

	trackListFrom  string
	trackListTo    string
	trackListIssue string

	trackSyncFrom string
	trackSyncTo   string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Manage cached time tracks",
}

var trackAddCmd = &cobra.Command{
	Use:   "add <issue-key> <duration>",
	Short: "Log a time entry with a human-readable duration",
	Long: `Log a time entry against an issue. The duration is human-readable,
e.g. "1h 30m", "30min", "2d", or Cyrillic units like "2ч".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return trackAddRun(args[0], args[1])
	},
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached tracks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return trackListRun()
	},
}

var trackValidateCmd = &cobra.Command{
	Use:   "validate <duration>",
	Short: "Check a human-readable duration and show its ISO form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return trackValidateRun(args[0])
	},
}

var trackSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull worklogs from the configured tracker into the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return trackSyncRun()
	},
}

func init() {
	trackAddCmd.Flags().StringVar(&trackComment, "comment", "", "Track comment")
	trackAddCmd.Flags().StringVar(&trackStart, "start", "", "Start timestamp (default: now)")
	trackAddCmd.Flags().Int64Var(&trackUID, "uid", 0, "Team member uid the entry belongs to")

	trackListCmd.Flags().StringVar(&trackListFrom, "from", "", "Start date YYYY-MM-DD (inclusive)")
	trackListCmd.Flags().StringVar(&trackListTo, "to", "", "End date YYYY-MM-DD (inclusive)")
	trackListCmd.Flags().StringVar(&trackListIssue, "issue", "", "Filter by issue key")

	trackSyncCmd.Flags().StringVar(&trackSyncFrom, "from", "", "Start date YYYY-MM-DD (inclusive)")
	trackSyncCmd.Flags().StringVar(&trackSyncTo, "to", "", "End date YYYY-MM-DD (inclusive)")
	_ = trackSyncCmd.MarkFlagRequired("from")
	_ = trackSyncCmd.MarkFlagRequired("to")

	trackCmd.AddCommand(trackAddCmd)
	trackCmd.AddCommand(trackListCmd)
	trackCmd.AddCommand(trackValidateCmd)
	trackCmd.AddCommand(trackSyncCmd)
	rootCmd.AddCommand(trackCmd)
}

func trackAddRun(issueKey, text string) error {
	iso, ok := duration.HumanToISO(text)
	if !ok {
		return fmt.Errorf("invalid duration: %q (use e.g. \"1h 30m\")", text)
	}

	start := trackStart
	if start == "" {
		start = time.Now().Format(time.RFC3339)
	}

	t := &models.Track{
		IssueKey: issueKey,
		Comment:  trackComment,
		Start:    start,
		Duration: iso,
	}

	if dryRun {
		ui.DryRunMsg("Would log %s against %s", iso, issueKey)
		return nil
	}

	s, err := getStore()
	if err != nil {
		return err
	}
	if err := s.UpsertTrack(context.Background(), t, trackUID); err != nil {
		return err
	}
	ui.Success("Logged %s against %s (%s)", duration.Format(duration.MsToBusiness(mustISOToMs(iso))), output.Cyan(issueKey), t.ID)
	return nil
}

// mustISOToMs is for ISO strings we just produced ourselves.
func mustISOToMs(iso string) int64 {
	ms, _ := duration.ISOToMs(iso)
	return ms
}

func trackListRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	tracks, err := s.ListTracks(context.Background(), store.TrackListFilter{
		From:     trackListFrom,
		To:       trackListTo,
		IssueKey: trackListIssue,
	})
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		ui.Info("No tracks found")
		return nil
	}

	table := ui.Table([]string{"Issue", "Start", "Duration", "UID", "Comment"})
	for _, t := range tracks {
		dur := t.Duration
		if ms, ok := duration.ISOToMs(t.Duration); ok {
			dur = duration.Format(duration.MsToBusiness(ms))
		}
		table.Append([]string{output.Cyan(t.IssueKey), t.Start, dur, fmt.Sprintf("%d", t.UID), t.Comment})
	}
	return table.Render()
}

func trackValidateRun(text string) error {
	iso, ok := duration.HumanToISO(text)
	if !ok {
		ui.Error("Invalid duration: %q", text)
		return fmt.Errorf("invalid duration")
	}
	minutes, _ := duration.HumanToMinutes(text)
	ui.Success("%s = %s (%d minutes)", text, iso, minutes)
	return nil
}

func trackSyncRun() error {
	client, err := getTracker()
	if err != nil {
		return err
	}
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	tracks, err := client.Worklogs(ctx, trackSyncFrom, trackSyncTo)
	if err != nil {
		return fmt.Errorf("fetch worklogs: %w", err)
	}
	ui.VerboseLog("Fetched %d worklogs from tracker", len(tracks))

	if dryRun {
		ui.DryRunMsg("Would cache %d tracks", len(tracks))
		return nil
	}

	for i := range tracks {
		t := tracks[i]
		// Tracker authors map onto the roster by uid; unknown authors are
		// still cached so the report degrades instead of losing time.
		if err := s.UpsertTrack(ctx, &t, t.AuthorID); err != nil {
			return err
		}
	}
	ui.Success("Cached %d tracks (%s .. %s)", len(tracks), trackSyncFrom, trackSyncTo)
	return nil
}
