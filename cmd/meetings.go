package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tsheet/internal/duration"
	"tsheet/internal/llm"
	"tsheet/internal/models"
	"tsheet/internal/output"
	"tsheet/internal/rules"
)

var meetingsClassify bool

var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "Import calendar meetings as time tracks",
}

var meetingsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Classify exported calendar meetings and cache them as tracks",
	Long: `Read a JSON export of calendar meetings, run the classification rules
over them, and cache the resulting time tracks. Meetings a skip rule
matches are dropped; set_task and set_duration rules resolve the issue
key and effective duration.

With --classify, meetings no rule assigned an issue to are sent to the
Anthropic API together with your open issues, and its suggestions fill
the gaps. Needs anthropic.api_key configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return meetingsImportRun(args[0])
	},
}

func init() {
	meetingsImportCmd.Flags().BoolVar(&meetingsClassify, "classify", false, "Use the LLM for meetings no rule matched")
	meetingsCmd.AddCommand(meetingsImportCmd)
	rootCmd.AddCommand(meetingsCmd)
}

func meetingsImportRun(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read meetings file: %w", err)
	}
	var meetings []models.Meeting
	if err := json.Unmarshal(data, &meetings); err != nil {
		return fmt.Errorf("parse meetings file: %w", err)
	}
	ui.VerboseLog("Read %d meetings from %s", len(meetings), path)

	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	stored, err := s.ListRules(ctx)
	if err != nil {
		return err
	}
	ruleSet := make([]models.Rule, 0, len(stored))
	for _, r := range stored {
		ruleSet = append(ruleSet, *r)
	}

	classified := rules.Apply(meetings, ruleSet)
	ui.VerboseLog("%d meetings survived rule application", len(classified))

	if meetingsClassify {
		if err := classifyRemainder(ctx, classified); err != nil {
			return err
		}
	}

	assigned, unassigned := 0, 0
	for _, cm := range classified {
		if cm.IssueKey == "" {
			unassigned++
		} else {
			assigned++
		}
	}

	if dryRun {
		ui.DryRunMsg("Would cache %d tracks (%d without an issue)", assigned, unassigned)
		printClassified(classified)
		return nil
	}

	for _, cm := range classified {
		if cm.IssueKey == "" {
			continue
		}
		iso := duration.BusinessToISO(duration.MsToBusiness(int64(cm.DurationMinutes) * 60000))
		t := &models.Track{
			ID:       "meeting-" + cm.Key,
			IssueKey: cm.IssueKey,
			Comment:  cm.Subject,
			Start:    cm.Start,
			Duration: iso,
		}
		if err := s.UpsertTrack(ctx, t, 0); err != nil {
			return err
		}
	}

	ui.Success("Cached %d tracks from %d meetings", assigned, len(meetings))
	if unassigned > 0 {
		ui.Warning("%d meeting(s) left unclassified", unassigned)
	}
	return nil
}

// classifyRemainder fills in issue keys for meetings the rules left
// unassigned, using the LLM against the user's open issues.
func classifyRemainder(ctx context.Context, classified []models.ClassifiedMeeting) error {
	var pending []models.Meeting
	for _, cm := range classified {
		if cm.IssueKey == "" {
			pending = append(pending, cm.Meeting)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		return fmt.Errorf("anthropic.api_key is not configured (required for --classify)")
	}

	client, err := getTracker()
	if err != nil {
		return err
	}

	// Candidate issues: the user's own, first page is enough context.
	page, err := client.UserIssues(ctx, 1)
	if err != nil {
		return fmt.Errorf("list candidate issues: %w", err)
	}

	lc := llm.NewClient(apiKey, viper.GetString("anthropic.model"))
	suggestions, err := lc.ClassifyMeetings(ctx, pending, page.Issues)
	if err != nil {
		return fmt.Errorf("classify meetings: %w", err)
	}

	byKey := make(map[string]string, len(suggestions))
	for _, sug := range suggestions {
		byKey[sug.MeetingKey] = sug.IssueKey
	}
	for i := range classified {
		if classified[i].IssueKey == "" {
			classified[i].IssueKey = byKey[classified[i].Key]
		}
	}
	return nil
}

func printClassified(classified []models.ClassifiedMeeting) {
	table := ui.Table([]string{"Meeting", "Issue", "Duration"})
	for _, cm := range classified {
		issue := cm.IssueKey
		if issue == "" {
			issue = output.Yellow("(unclassified)")
		} else {
			issue = output.Cyan(issue)
		}
		table.Append([]string{cm.Subject, issue, fmt.Sprintf("%dm", cm.DurationMinutes)})
	}
	_ = table.Render()
}
