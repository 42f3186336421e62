package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tsheet/internal/models"
	"tsheet/internal/query"
	"tsheet/internal/search"
)

// YandexClient talks to the Yandex Tracker REST API v2 using OAuth token
// authentication. Search queries are written in the Tracker filter query
// language via query.YandexSyntax.
type YandexClient struct {
	baseURL    string
	token      string
	orgID      string
	queue      string
	httpClient *http.Client
}

// NewYandexClient creates a Yandex Tracker client. The queue scopes user
// issue listings; an empty queue searches across all queues.
func NewYandexClient(baseURL, token, orgID, queue string) *YandexClient {
	return &YandexClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		orgID:   orgID,
		queue:   queue,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type yandexIssue struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

type yandexWorklog struct {
	ID       json.Number `json:"id"`
	Comment  string      `json:"comment"`
	Start    string      `json:"start"`
	Duration string      `json:"duration"`
	Issue    struct {
		Key     string `json:"key"`
		Display string `json:"display"`
	} `json:"issue"`
	CreatedBy struct {
		ID      string `json:"id"`
		Display string `json:"display"`
	} `json:"createdBy"`
}

func (c *YandexClient) SearchIssues(ctx context.Context, text string, page int) (search.Page, error) {
	q := query.NewBuilder(query.YandexSyntax{})
	if c.queue != "" {
		q.Add(query.Param("Queue", "", c.queue))
	}
	// Free text matches either the key or the summary.
	q.Add(query.Or(
		query.Param("Key", "", text),
		query.Param("Summary", "", text),
	))
	q.SortBy("Updated", "DESC")
	return c.searchPage(ctx, q.Query(), page)
}

func (c *YandexClient) UserIssues(ctx context.Context, page int) (search.Page, error) {
	q := query.NewBuilder(query.YandexSyntax{}).
		Add(query.Param("Assignee", "", "me()")).
		SortBy("Updated", "DESC")
	if c.queue != "" {
		q.Add(query.Param("Queue", "", c.queue))
	}
	return c.searchPage(ctx, q.Query(), page)
}

func (c *YandexClient) searchPage(ctx context.Context, queryText string, page int) (search.Page, error) {
	path := fmt.Sprintf("/v2/issues/_search?perPage=%d&page=%d", PageSize, page)
	body := map[string]string{"query": queryText}

	var issues []yandexIssue
	header, err := c.do(ctx, http.MethodPost, path, body, &issues)
	if err != nil {
		return search.Page{}, err
	}

	pages, _ := strconv.Atoi(header.Get("X-Total-Pages"))
	out := search.Page{TotalPages: pages}
	for _, is := range issues {
		out.Issues = append(out.Issues, models.Issue{Key: is.Key, Summary: is.Summary})
	}
	return out, nil
}

func (c *YandexClient) GetIssue(ctx context.Context, key string) (*models.Issue, error) {
	var is yandexIssue
	if _, err := c.do(ctx, http.MethodGet, "/v2/issues/"+key, nil, &is); err != nil {
		return nil, err
	}
	return &models.Issue{Key: is.Key, Summary: is.Summary}, nil
}

func (c *YandexClient) Worklogs(ctx context.Context, from, to string) ([]models.Track, error) {
	body := map[string]any{
		"start": map[string]string{
			"from": from,
			"to":   to,
		},
	}

	var logs []yandexWorklog
	if _, err := c.do(ctx, http.MethodPost, "/v2/worklog/_search", body, &logs); err != nil {
		return nil, err
	}

	out := make([]models.Track, 0, len(logs))
	for _, wl := range logs {
		authorID, _ := strconv.ParseInt(wl.CreatedBy.ID, 10, 64)
		out = append(out, models.Track{
			ID:           wl.ID.String(),
			IssueKey:     wl.Issue.Key,
			IssueSummary: wl.Issue.Display,
			Comment:      wl.Comment,
			Start:        wl.Start,
			Duration:     wl.Duration,
			AuthorID:     authorID,
		})
	}
	return out, nil
}

// do performs one API request, decoding the JSON response into result when
// it is non-nil, and returns the response headers for paging metadata.
func (c *YandexClient) do(ctx context.Context, method, path string, body, result any) (http.Header, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("X-Org-ID", c.orgID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tracker API %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}
