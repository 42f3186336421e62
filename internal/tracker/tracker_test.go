package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Client = (*YandexClient)(nil)
	_ Client = (*JiraClient)(nil)
)

func TestYandexSearchIssues(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/issues/_search", r.URL.Path)
		require.Equal(t, "OAuth tok", r.Header.Get("Authorization"))
		require.Equal(t, "42", r.Header.Get("X-Org-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotQuery = body["query"]

		w.Header().Set("X-Total-Pages", "3")
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"key": "PROJ-1", "summary": "first"},
			{"key": "PROJ-2", "summary": "second"},
		})
	}))
	defer srv.Close()

	c := NewYandexClient(srv.URL, "tok", "42", "PROJ")
	page, err := c.SearchIssues(context.Background(), "login form", 1)
	require.NoError(t, err)

	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Issues, 2)
	assert.Equal(t, "PROJ-1", page.Issues[0].Key)
	assert.Contains(t, gotQuery, `"Queue": PROJ`)
	assert.Contains(t, gotQuery, `"Sort by": Updated DESC`)
}

func TestYandexWorklogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/worklog/_search", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":       1001,
				"comment":  "review",
				"start":    "2024-03-06T10:00:00+03:00",
				"duration": "PT2H",
				"issue":    map[string]string{"key": "PROJ-1", "display": "Login form"},
				"createdBy": map[string]string{
					"id":      "100",
					"display": "Alice",
				},
			},
		})
	}))
	defer srv.Close()

	c := NewYandexClient(srv.URL, "tok", "42", "")
	tracks, err := c.Worklogs(context.Background(), "2024-03-01", "2024-03-31")
	require.NoError(t, err)

	require.Len(t, tracks, 1)
	assert.Equal(t, "1001", tracks[0].ID)
	assert.Equal(t, "PROJ-1", tracks[0].IssueKey)
	assert.Equal(t, "PT2H", tracks[0].Duration)
	assert.Equal(t, int64(100), tracks[0].AuthorID)
}

func TestYandexErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewYandexClient(srv.URL, "tok", "42", "")
	_, err := c.SearchIssues(context.Background(), "x", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestJiraSearchIssues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/2/search", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["jql"], `project = "PROJ"`)
		assert.EqualValues(t, 50, body["startAt"], "page 2 starts after one full page")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 120,
			"issues": []map[string]any{
				{"key": "PROJ-7", "fields": map[string]string{"summary": "seventh"}},
			},
		})
	}))
	defer srv.Close()

	c := NewJiraClient(srv.URL, "tok", "PROJ")
	page, err := c.SearchIssues(context.Background(), "form", 2)
	require.NoError(t, err)

	assert.Equal(t, 3, page.TotalPages, "120 results at 50 per page")
	require.Len(t, page.Issues, 1)
	assert.Equal(t, "PROJ-7", page.Issues[0].Key)
}

func TestJiraWorklogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/api/2/search":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"total": 1,
				"issues": []map[string]any{
					{"key": "PROJ-1", "fields": map[string]string{"summary": "Login form"}},
				},
			})
		case "/rest/api/2/issue/PROJ-1/worklog":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"total": 2,
				"worklogs": []map[string]any{
					{
						"id":               "5",
						"started":          "2024-03-06T10:00:00.000+0300",
						"timeSpentSeconds": 5400,
					},
					{
						"id":               "6",
						"started":          "2024-02-01T10:00:00.000+0300",
						"timeSpentSeconds": 3600,
					},
				},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewJiraClient(srv.URL, "tok", "PROJ")
	tracks, err := c.Worklogs(context.Background(), "2024-03-01", "2024-03-31")
	require.NoError(t, err)

	require.Len(t, tracks, 1, "out-of-range worklog filtered out")
	assert.Equal(t, "5", tracks[0].ID)
	assert.Equal(t, "PT1H30M0S", tracks[0].Duration, "seconds normalized into ISO form")
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0))
	assert.Equal(t, 1, totalPages(1))
	assert.Equal(t, 1, totalPages(50))
	assert.Equal(t, 2, totalPages(51))
}
