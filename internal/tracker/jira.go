package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tsheet/internal/duration"
	"tsheet/internal/models"
	"tsheet/internal/query"
	"tsheet/internal/search"
)

// JiraClient talks to the Jira Server/DC REST API v2 with Bearer token
// authentication. Search queries are JQL built via query.JQLSyntax.
type JiraClient struct {
	baseURL    string
	token      string
	project    string
	httpClient *http.Client
}

// NewJiraClient creates a Jira client. The project scopes user issue
// listings and worklog collection; empty means all projects.
func NewJiraClient(baseURL, token, project string) *JiraClient {
	return &JiraClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		project: project,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type jiraIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

type jiraSearchResponse struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []jiraIssue `json:"issues"`
}

type jiraWorklog struct {
	ID               string `json:"id"`
	Comment          string `json:"comment"`
	Started          string `json:"started"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
	Author           struct {
		Key         string `json:"key"`
		DisplayName string `json:"displayName"`
	} `json:"author"`
}

type jiraWorklogPage struct {
	Total    int           `json:"total"`
	Worklogs []jiraWorklog `json:"worklogs"`
}

func (c *JiraClient) SearchIssues(ctx context.Context, text string, page int) (search.Page, error) {
	b := query.NewBuilder(query.JQLSyntax{})
	if c.project != "" {
		b.Add(query.Param("project", "=", c.project))
	}
	b.Add(query.Param("text", "~", text))
	b.SortBy("updated", "DESC")
	return c.searchPage(ctx, b.Query(), page)
}

func (c *JiraClient) UserIssues(ctx context.Context, page int) (search.Page, error) {
	b := query.NewBuilder(query.JQLSyntax{}).
		Add(query.Param("assignee", "=", "currentUser()")).
		SortBy("updated", "DESC")
	if c.project != "" {
		b.Add(query.Param("project", "=", c.project))
	}
	return c.searchPage(ctx, b.Query(), page)
}

func (c *JiraClient) searchPage(ctx context.Context, jql string, page int) (search.Page, error) {
	body := map[string]any{
		"jql":        jql,
		"startAt":    (page - 1) * PageSize,
		"maxResults": PageSize,
		"fields":     []string{"summary"},
	}

	var resp jiraSearchResponse
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/search", body, &resp); err != nil {
		return search.Page{}, err
	}

	out := search.Page{TotalPages: totalPages(resp.Total)}
	for _, is := range resp.Issues {
		out.Issues = append(out.Issues, models.Issue{Key: is.Key, Summary: is.Fields.Summary})
	}
	return out, nil
}

func (c *JiraClient) GetIssue(ctx context.Context, key string) (*models.Issue, error) {
	var is jiraIssue
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/issue/"+key+"?fields=summary", nil, &is); err != nil {
		return nil, err
	}
	return &models.Issue{Key: is.Key, Summary: is.Fields.Summary}, nil
}

// Worklogs finds issues with worklogs in the date range, then collects and
// filters each issue's worklog entries. Durations come back from Jira as
// seconds and are normalized into the ISO form the codec speaks.
func (c *JiraClient) Worklogs(ctx context.Context, from, to string) ([]models.Track, error) {
	b := query.NewBuilder(query.JQLSyntax{}).
		Add(query.Param("worklogDate", ">=", from)).
		Add(query.Param("worklogDate", "<=", to))
	if c.project != "" {
		b.Add(query.Param("project", "=", c.project))
	}

	body := map[string]any{
		"jql":        b.Query(),
		"startAt":    0,
		"maxResults": 200,
		"fields":     []string{"summary"},
	}
	var resp jiraSearchResponse
	if err := c.do(ctx, http.MethodPost, "/rest/api/2/search", body, &resp); err != nil {
		return nil, err
	}

	var out []models.Track
	for _, is := range resp.Issues {
		var page jiraWorklogPage
		path := "/rest/api/2/issue/" + url.PathEscape(is.Key) + "/worklog"
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		for _, wl := range page.Worklogs {
			day := wl.Started
			if len(day) > 10 {
				day = day[:10]
			}
			if day < from || day > to {
				continue
			}
			iso := duration.BusinessToISO(duration.MsToBusiness(wl.TimeSpentSeconds * 1000))
			out = append(out, models.Track{
				ID:           wl.ID,
				IssueKey:     is.Key,
				IssueSummary: is.Fields.Summary,
				Comment:      wl.Comment,
				Start:        wl.Started,
				Duration:     iso,
			})
		}
	}
	return out, nil
}

func (c *JiraClient) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("jira API %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
