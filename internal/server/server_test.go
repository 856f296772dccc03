package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchora/fetchora/internal/models"
	"github.com/fetchora/fetchora/internal/pipeline"
)

type stubFetcher struct {
	records []models.CommentRecord
	err     error
}

func (s *stubFetcher) FetchComments(ctx context.Context, videoID, apiKey string, includeReplies bool) ([]models.CommentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// blockingFetcher holds until the request context expires, the way a slow
// upstream does when the fetch deadline fires mid-page.
type blockingFetcher struct{}

func (blockingFetcher) FetchComments(ctx context.Context, videoID, apiKey string, includeReplies bool) ([]models.CommentRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fixedLabeler struct{}

func (fixedLabeler) Label(text string) int { return models.SentimentPositive }

func newTestServer(fetcher pipeline.CommentFetcher) *Server {
	return New(pipeline.New(fetcher, fixedLabeler{}), Config{FetchTimeout: 5 * time.Second})
}

func postFetch(t *testing.T, srv http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/fetch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

type errResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func TestHandleFetchCSVDownload(t *testing.T) {
	srv := newTestServer(&stubFetcher{records: []models.CommentRecord{
		{Author: "a", Text: "nice video", PublishedAt: "2024-05-01T12:00:00Z", LikeCount: 2},
		{Author: "b", Text: "thanks for this", PublishedAt: "2024-05-01T13:00:00Z", LikeCount: 0},
	}})

	// No format in the body: csv is the default.
	w := postFetch(t, srv, `{"api_key":"test-key","video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="yt_comments.csv"`, w.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "a", rows[1][0])
	assert.Equal(t, "1", rows[1][4], "records come back labeled")
}

func TestHandleFetchFormats(t *testing.T) {
	tests := []struct {
		format   string
		wantType string
		wantName string
	}{
		{"json", "application/json", "yt_comments.json"},
		{"html", "text/html", "yt_comments.html"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "yt_comments.xlsx"},
		{"excel", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "yt_comments.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			srv := newTestServer(&stubFetcher{records: []models.CommentRecord{
				{Author: "a", Text: "fine"},
			}})

			body := fmt.Sprintf(`{"api_key":"k","video_url":"https://youtu.be/dQw4w9WgXcQ","format":%q}`, tt.format)
			w := postFetch(t, srv, body)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantType, w.Header().Get("Content-Type"))
			assert.Equal(t, fmt.Sprintf("attachment; filename=%q", tt.wantName), w.Header().Get("Content-Disposition"))
			assert.NotZero(t, w.Body.Len())
		})
	}
}

func TestHandleFetchValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{"api_key":`, http.StatusBadRequest, "invalid JSON body"},
		{"missing api key", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`, http.StatusBadRequest, "api_key is required"},
		{"missing video url", `{"api_key":"k"}`, http.StatusBadRequest, "video_url is required"},
		{"unsupported format", `{"api_key":"k","video_url":"https://youtu.be/dQw4w9WgXcQ","format":"pdf"}`, http.StatusBadRequest, "unsupported export format"},
		{"unusable video url", `{"api_key":"k","video_url":"not a video ref"}`, http.StatusBadRequest, "invalid input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubFetcher{})

			w := postFetch(t, srv, tt.body)
			require.Equal(t, tt.wantCode, w.Code)

			var resp errResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Status)
			assert.Contains(t, resp.Error, tt.wantErr)
		})
	}
}

func TestHandleFetchUpstreamFailure(t *testing.T) {
	srv := newTestServer(&stubFetcher{err: &models.ExternalAPIError{
		StatusCode: 403,
		Reason:     "quotaExceeded",
		Message:    "daily limit reached",
	}})

	w := postFetch(t, srv, `{"api_key":"k","video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp errResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadGateway, resp.Status)
	assert.Contains(t, resp.Error, "quotaExceeded")
}

func TestHandleFetchTimeout(t *testing.T) {
	srv := New(pipeline.New(blockingFetcher{}, fixedLabeler{}), Config{FetchTimeout: 10 * time.Millisecond})

	w := postFetch(t, srv, `{"api_key":"k","video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusGatewayTimeout, w.Code)

	var resp errResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusGatewayTimeout, resp.Status)
	assert.Contains(t, resp.Error, "timed out")
}

func TestHandleFetchEmptyJSON(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	w := postFetch(t, srv, `{"api_key":"k","video_url":"https://youtu.be/dQw4w9WgXcQ","format":"json"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestHandleFetchMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/fetch", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "requests ")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	req := httptest.NewRequest(http.MethodOptions, "/fetch", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
