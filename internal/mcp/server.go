package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tsheet/internal/aggregate"
	"tsheet/internal/duration"
	"tsheet/internal/models"
	"tsheet/internal/store"
	"tsheet/internal/workcal"
)

// Server wraps the tsheet data layer and exposes it as MCP tools.
type Server struct {
	store store.Store
}

// NewServer creates the MCP server wrapper.
func NewServer(s store.Store) *Server {
	return &Server{store: s}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("tsheet", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.reportTool())
	srv.AddTool(s.expectedHoursTool())
	srv.AddTool(s.listRulesTool())
	srv.AddTool(s.validateDurationTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// tsheet_report
func (s *Server) reportTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("tsheet_report",
		mcp.WithDescription("Aggregate cached time tracks per issue and per team member. Returns JSON rows sorted by total duration descending."),
		mcp.WithString("from", mcp.Description("Start date YYYY-MM-DD (inclusive)")),
		mcp.WithString("to", mcp.Description("End date YYYY-MM-DD (inclusive)")),
	)
	return tool, s.handleReport
}

func (s *Server) handleReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := store.TrackListFilter{
		From: request.GetString("from", ""),
		To:   request.GetString("to", ""),
	}

	tracks, err := s.store.ListTracks(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tracks: %v", err)), nil
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list members: %v", err)), nil
	}

	users := make([]aggregate.User, len(members))
	for i, m := range members {
		users[i] = aggregate.User{UID: m.UID, Display: m.Display}
	}
	byUser := make([]models.TrackByUser, len(tracks))
	for i, t := range tracks {
		byUser[i] = *t
	}

	res := aggregate.ByIssue(byUser, users)

	type rowOut struct {
		IssueKey     string `json:"issue_key"`
		IssueSummary string `json:"issue_summary"`
		Total        string `json:"total"`
	}
	out := make([]rowOut, len(res.Rows))
	for i, row := range res.Rows {
		out[i] = rowOut{
			IssueKey:     row.IssueKey,
			IssueSummary: row.IssueSummary,
			Total:        duration.Format(row.Total),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// tsheet_expected_hours
func (s *Server) expectedHoursTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("tsheet_expected_hours",
		mcp.WithDescription("Expected working hours for a date: 0 for holidays and days off, 7 for pre-holiday days, 8 otherwise."),
		mcp.WithString("day", mcp.Required(), mcp.Description("Date YYYY-MM-DD or ISO timestamp")),
	)
	return tool, s.handleExpectedHours
}

func (s *Server) handleExpectedHours(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := request.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: day"), nil
	}

	data, _ := json.Marshal(map[string]any{
		"day":      workcal.NormalizeDay(day),
		"expected": workcal.ExpectedHours(day),
	})
	return mcp.NewToolResultText(string(data)), nil
}

// tsheet_list_rules
func (s *Server) listRulesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("tsheet_list_rules",
		mcp.WithDescription("List the meeting classification rules. Returns a JSON array with id, name, conditions, and actions."),
	)
	return tool, s.handleListRules
}

func (s *Server) handleListRules(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ruleSet, err := s.store.ListRules(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list rules: %v", err)), nil
	}

	data, err := json.Marshal(ruleSet)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal rules: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// tsheet_validate_duration
func (s *Server) validateDurationTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("tsheet_validate_duration",
		mcp.WithDescription("Validate a human-readable duration like '1h 30m' or '2ч' and return its ISO-8601 form and total minutes."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Duration text to validate")),
	)
	return tool, s.handleValidateDuration
}

func (s *Server) handleValidateDuration(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	iso, ok := duration.HumanToISO(text)
	out := map[string]any{"valid": ok}
	if ok {
		minutes, _ := duration.HumanToMinutes(text)
		out["iso"] = iso
		out["minutes"] = minutes
	}
	data, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(data)), nil
}
