package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"tsheet/internal/models"
)

// Classification maps a meeting to an issue key suggested by the model.
type Classification struct {
	MeetingKey string `json:"meeting_key"`
	IssueKey   string `json:"issue_key"` // empty when no issue fits
	Reason     string `json:"reason"`
}

// Client wraps the Anthropic API for meeting classification.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// issueLine renders one candidate issue for the prompt.
func issueLine(issue models.Issue) string {
	return fmt.Sprintf("- %s: %s", issue.Key, issue.Summary)
}

// meetingLine renders one meeting for the prompt.
func meetingLine(m models.Meeting) string {
	attendees := append(append([]string{}, m.RequiredAttendees...), m.OptionalAttendees...)
	return fmt.Sprintf("- key=%s subject=%q organizer=%q duration=%dm attendees=%s",
		m.Key, m.Subject, m.Organizer, m.Duration, strings.Join(attendees, ","))
}

// buildPrompt constructs the system and user prompts for meeting classification.
func buildPrompt(meetings []models.Meeting, issues []models.Issue) (system string, user string) {
	system = `You classify calendar meetings against a tracker issue list for timesheet logging. Return ONLY a JSON array of objects with these fields:
- "meeting_key": the key of the meeting, copied verbatim from the input
- "issue_key": the key of the single best-matching issue, or "" when no listed issue plausibly covers the meeting
- "reason": one short sentence explaining the match

Rules:
- Emit exactly one object per input meeting, in input order
- Match on subject wording first, then organizer and participants
- Never invent issue keys that are not in the candidate list
- Recurring ceremonies (standups, 1:1s, syncs) match process issues only if the list has one
- Return valid JSON only, no markdown fencing or explanation`

	var sb strings.Builder
	sb.WriteString("Candidate issues:\n")
	for _, issue := range issues {
		sb.WriteString(issueLine(issue))
		sb.WriteString("\n")
	}
	sb.WriteString("\nMeetings to classify:\n")
	for _, m := range meetings {
		sb.WriteString(meetingLine(m))
		sb.WriteString("\n")
	}
	user = sb.String()
	return
}

// ClassifyMeetings asks the model to map each meeting to an issue key.
// Only meetings the rule engine left unclassified should be passed here.
func (c *Client) ClassifyMeetings(ctx context.Context, meetings []models.Meeting, issues []models.Issue) ([]Classification, error) {
	if len(meetings) == 0 {
		return nil, nil
	}
	systemPrompt, userPrompt := buildPrompt(meetings, issues)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	text = stripFencing(text)

	var out []Classification
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parse LLM response as JSON: %w\nraw response: %s", err, text)
	}

	// Drop hallucinated issue keys.
	known := make(map[string]bool, len(issues))
	for _, issue := range issues {
		known[issue.Key] = true
	}
	for i := range out {
		if out[i].IssueKey != "" && !known[out[i].IssueKey] {
			out[i].IssueKey = ""
		}
	}
	return out, nil
}

// stripFencing removes markdown code fencing around a model response.
func stripFencing(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
