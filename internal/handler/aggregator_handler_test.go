package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rssagg/backend/internal/cache"
	"rssagg/backend/internal/model"
	repomock "rssagg/backend/internal/repository/mock"
	"rssagg/backend/internal/service"
	servicemock "rssagg/backend/internal/service/mock"
	rssmock "rssagg/backend/internal/service/rss/mock"
)

const feedURL = "https://news.example.com/feed"

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(h *AggregatorHandler) *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	h.RegisterRoutes(e.Group("/api"))
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func requireFailure(t *testing.T, rec *httptest.ResponseRecorder, env testEnvelope, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code)
	require.False(t, env.Success)
	var msg string
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	require.Equal(t, message, msg)
}

func TestPreview_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), servicemock.NewMockFeedSourceService(ctrl), servicemock.NewMockPostService(ctrl), AggregatorOptions{})
	e := newTestServer(h)

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "empty body", body: `{}`, want: "feedUrl missing."},
		{name: "feedUrl checked first", body: `{"feedId": 3}`, want: "feedUrl missing."},
		{name: "missing feedId", body: `{"feedUrl": "` + feedURL + `"}`, want: "feedId missing."},
		{name: "null feedId", body: `{"feedUrl": "` + feedURL + `", "feedId": null}`, want: "feedId missing."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doJSON(t, e, http.MethodPost, "/api/rss/preview", tc.body)
			requireFailure(t, rec, env, http.StatusBadRequest, tc.want)
		})
	}
}

func TestPreview_InvalidURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), servicemock.NewMockFeedSourceService(ctrl), servicemock.NewMockPostService(ctrl), AggregatorOptions{})
	e := newTestServer(h)

	for _, raw := range []string{"not a url", "", "ftp://example.com/feed"} {
		rec, env := doJSON(t, e, http.MethodPost, "/api/rss/preview", fmt.Sprintf(`{"feedUrl": %q, "feedId": 0}`, raw))
		requireFailure(t, rec, env, http.StatusBadRequest, "feedUrl is not a valid URL.")
	}
}

// Lookup miss, create returns 7, parser yields three items.
func TestPreview_EndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sourceRepo := repomock.NewMockFeedSourceRepository(ctrl)
	parser := rssmock.NewMockParser(ctrl)

	sourceRepo.EXPECT().FindByName(gomock.Any(), feedURL).Return(nil, nil)
	sourceRepo.EXPECT().Create(gomock.Any(), feedURL).Return(model.FeedSource{ID: 7, Name: feedURL}, nil)

	published := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	feed := &gofeed.Feed{}
	for i := 1; i <= 3; i++ {
		feed.Items = append(feed.Items, &gofeed.Item{
			Title:           fmt.Sprintf("Story %d", i),
			Link:            fmt.Sprintf("https://news.example.com/%d", i),
			Description:     "Short body",
			Author:          &gofeed.Person{Name: "Reporter"},
			PublishedParsed: &published,
		})
	}
	parser.EXPECT().Parse(gomock.Any(), feedURL).Return(feed, nil)

	h := NewAggregatorHandler(
		service.NewFetchService(parser, cache.NewMemory(), nil),
		service.NewFeedSourceService(sourceRepo),
		servicemock.NewMockPostService(ctrl),
		AggregatorOptions{PreviewItemCount: 20, CacheTTL: 24 * time.Hour},
	)
	e := newTestServer(h)

	rec, env := doJSON(t, e, http.MethodPost, "/api/rss/preview", `{"feedUrl": "`+feedURL+`", "feedId": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var data previewResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, feedURL, data.FeedURL)
	require.Equal(t, "7", data.FeedID)
	require.Len(t, data.Items, 3)
	for i, item := range data.Items {
		require.Equal(t, i, item.Index)
		require.Equal(t, fmt.Sprintf("Story %d", i+1), item.Title)
		require.Equal(t, "news.example.com", item.Source)
		require.NotNil(t, item.Summary)
		require.Equal(t, "Short body", *item.Summary)
		require.Equal(t, "Reporter", *item.Author)
		require.Equal(t, "May 1, 2024", *item.Date)
		require.NotNil(t, item.Image)
	}

	// Second preview with a known id is served from the cache.
	rec, env = doJSON(t, e, http.MethodPost, "/api/rss/preview", `{"feedUrl": "`+feedURL+`", "feedId": "7"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "7", data.FeedID)
	require.Len(t, data.Items, 3)
}

func TestPreview_UsesConfiguredOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := servicemock.NewMockFetchService(ctrl)
	sources := servicemock.NewMockFeedSourceService(ctrl)

	sources.EXPECT().Resolve(gomock.Any(), feedURL, int64(12)).Return(int64(12), nil)
	fetcher.EXPECT().FetchItems(gomock.Any(), feedURL, service.FetchOptions{
		ShowAuthor:   true,
		ShowDate:     true,
		ShowSummary:  true,
		ShowImage:    true,
		ItemCount:    20,
		CacheSeconds: 3600,
	}, true).Return([]model.FeedItem{}, nil)

	h := NewAggregatorHandler(fetcher, sources, servicemock.NewMockPostService(ctrl), AggregatorOptions{PreviewItemCount: 20, CacheTTL: time.Hour})
	e := newTestServer(h)

	rec, env := doJSON(t, e, http.MethodPost, "/api/rss/preview", `{"feedUrl": " `+feedURL+` ", "feedId": "12abc", "refresh": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
}

func TestPreview_FormValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := servicemock.NewMockFetchService(ctrl)
	sources := servicemock.NewMockFeedSourceService(ctrl)
	sources.EXPECT().Resolve(gomock.Any(), feedURL, int64(5)).Return(int64(5), nil)
	fetcher.EXPECT().FetchItems(gomock.Any(), feedURL, gomock.Any(), false).Return([]model.FeedItem{{Title: "One", Source: "news.example.com", FeedURL: feedURL}}, nil)

	h := NewAggregatorHandler(fetcher, sources, servicemock.NewMockPostService(ctrl), AggregatorOptions{})
	e := newTestServer(h)

	form := url.Values{}
	form.Set("feedUrl", feedURL)
	form.Set("feedId", "-5")
	req := httptest.NewRequest(http.MethodPost, "/api/rss/preview", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
}

func TestPreview_FetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := servicemock.NewMockFetchService(ctrl)
	sources := servicemock.NewMockFeedSourceService(ctrl)
	sources.EXPECT().Resolve(gomock.Any(), feedURL, int64(0)).Return(int64(3), nil)
	fetcher.EXPECT().FetchItems(gomock.Any(), feedURL, gomock.Any(), false).
		Return(nil, &service.FetchError{Message: "RSS Error: Failed to detect feed type"})

	h := NewAggregatorHandler(fetcher, sources, servicemock.NewMockPostService(ctrl), AggregatorOptions{})
	e := newTestServer(h)

	rec, env := doJSON(t, e, http.MethodPost, "/api/rss/preview", `{"feedUrl": "`+feedURL+`", "feedId": 0}`)
	requireFailure(t, rec, env, http.StatusBadGateway, "RSS Error: Failed to detect feed type")
}

func TestPreview_SourceCreationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sources := servicemock.NewMockFeedSourceService(ctrl)
	sources.EXPECT().Resolve(gomock.Any(), feedURL, int64(0)).
		Return(int64(0), fmt.Errorf("%w: %v", service.ErrSourceCreation, errors.New("db locked")))

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), sources, servicemock.NewMockPostService(ctrl), AggregatorOptions{})
	e := newTestServer(h)

	rec, env := doJSON(t, e, http.MethodPost, "/api/rss/preview", `{"feedUrl": "`+feedURL+`", "feedId": 0}`)
	requireFailure(t, rec, env, http.StatusInternalServerError, "There was an error with the RSS feed link creation.")
}

func TestSave_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), servicemock.NewMockFeedSourceService(ctrl), servicemock.NewMockPostService(ctrl), AggregatorOptions{})
	e := newTestServer(h)

	cases := []struct {
		body string
		want string
	}{
		{body: `{"feedUrl": "` + feedURL + `", "feedId": 1}`, want: "toAdd missing."},
		{body: `{"toAdd": [], "feedId": 1}`, want: "feedUrl missing."},
		{body: `{"toAdd": [], "feedUrl": "` + feedURL + `"}`, want: "feedId missing."},
	}
	for _, tc := range cases {
		rec, env := doJSON(t, e, http.MethodPost, "/api/rss/save", tc.body)
		requireFailure(t, rec, env, http.StatusBadRequest, tc.want)
	}
}

func TestSave_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := servicemock.NewMockPostService(ctrl)
	id := int64(1001)
	posts.EXPECT().SaveAll(gomock.Any(), gomock.Any(), int64(7)).DoAndReturn(
		func(_ context.Context, items []model.FeedItem, _ int64) (map[string]service.SaveResult, error) {
			require.Len(t, items, 2)
			require.Equal(t, "A", items[0].Title)
			require.Equal(t, 1, items[1].Index)
			return map[string]service.SaveResult{
				"A": {ID: &id},
				"B": {Error: "disk full"},
			}, nil
		},
	)

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), servicemock.NewMockFeedSourceService(ctrl), posts, AggregatorOptions{})
	e := newTestServer(h)

	body := `{"feedUrl": "` + feedURL + `", "feedId": 7, "toAdd": [
		{"title": "A", "link": "https://news.example.com/a", "source": "news.example.com", "feedUrl": "` + feedURL + `", "index": 0},
		{"title": "B", "link": "https://news.example.com/b", "source": "news.example.com", "feedUrl": "` + feedURL + `", "index": 1}
	]}`
	rec, env := doJSON(t, e, http.MethodPost, "/api/rss/save", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var data struct {
		Request struct {
			FeedURL string           `json:"feedUrl"`
			FeedID  int64            `json:"feedId"`
			ToAdd   []model.FeedItem `json:"toAdd"`
		} `json:"request"`
		SavedMap map[string]saveResultResponse `json:"savedMap"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, feedURL, data.Request.FeedURL)
	require.Equal(t, int64(7), data.Request.FeedID)
	require.Len(t, data.Request.ToAdd, 2)
	require.Equal(t, "1001", *data.SavedMap["A"].ID)
	require.Nil(t, data.SavedMap["B"].ID)
	require.Equal(t, "disk full", data.SavedMap["B"].Error)
}

func TestSave_EchoesOriginalRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := servicemock.NewMockPostService(ctrl)
	posts.EXPECT().SaveAll(gomock.Any(), gomock.Any(), int64(7)).Return(map[string]service.SaveResult{}, nil)

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), servicemock.NewMockFeedSourceService(ctrl), posts, AggregatorOptions{})
	e := newTestServer(h)

	body := `{"toAdd":[{"title":"A","link":"http://a","category":"news"}],"feedUrl":"http://x","feedId":"7","nonce":"abc"}`
	rec, env := doJSON(t, e, http.MethodPost, "/api/rss/save", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Request json.RawMessage `json:"request"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.JSONEq(t, body, string(data.Request))
}

func TestSave_FormWithoutItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), servicemock.NewMockFeedSourceService(ctrl), servicemock.NewMockPostService(ctrl), AggregatorOptions{})
	e := newTestServer(h)

	form := url.Values{"feedUrl": {feedURL}, "feedId": {"7"}}
	req := httptest.NewRequest(http.MethodPost, "/api/rss/save", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	requireFailure(t, rec, env, http.StatusBadRequest, "toAdd missing.")
}

func TestSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sources := servicemock.NewMockFeedSourceService(ctrl)
	sources.EXPECT().List(gomock.Any()).Return([]model.FeedSource{{ID: 7, Name: feedURL}}, nil)

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), sources, servicemock.NewMockPostService(ctrl), AggregatorOptions{})
	e := newTestServer(h)

	rec, env := doJSON(t, e, http.MethodGet, "/api/rss/sources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data []feedSourceResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, []feedSourceResponse{{ID: "7", URL: feedURL}}, data)
}

func TestPosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := servicemock.NewMockPostService(ctrl)
	feedID := int64(7)
	created := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	posts.EXPECT().List(gomock.Any(), &feedID, 5, 10).Return([]model.Post{
		{ID: 99, FeedSourceID: &feedID, Title: "A", Link: "https://news.example.com/a", FeedURL: feedURL, CreatedAt: created},
	}, nil)

	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), servicemock.NewMockFeedSourceService(ctrl), posts, AggregatorOptions{})
	e := newTestServer(h)

	rec, env := doJSON(t, e, http.MethodGet, "/api/rss/posts?feedId=7&limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data []postResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	require.Equal(t, "99", data[0].ID)
	require.Equal(t, "7", *data[0].FeedID)
	require.Equal(t, "2024-02-03T04:05:06Z", data[0].CreatedAt)
}

func TestPosts_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := servicemock.NewMockPostService(ctrl)
	h := NewAggregatorHandler(servicemock.NewMockFetchService(ctrl), servicemock.NewMockFeedSourceService(ctrl), posts, AggregatorOptions{})
	e := newTestServer(h)

	rec, env := doJSON(t, e, http.MethodGet, "/api/rss/posts?limit=abc", "")
	requireFailure(t, rec, env, http.StatusBadRequest, "invalid request")

	rec, env = doJSON(t, e, http.MethodGet, "/api/rss/posts?feedId=-1", "")
	requireFailure(t, rec, env, http.StatusBadRequest, "invalid request")

	posts.EXPECT().List(gomock.Any(), gomock.Any(), 0, 0).Return(nil, service.ErrNotFound)
	rec, env = doJSON(t, e, http.MethodGet, "/api/rss/posts?feedId=404", "")
	requireFailure(t, rec, env, http.StatusNotFound, "resource not found")
}

func TestSourceID_UnmarshalJSON(t *testing.T) {
	cases := map[string]sourceID{
		`7`:        7,
		`"7"`:      7,
		`"\u0037"`: 7,
		`"12abc"`:  12,
		`-5`:       5,
		`null`:     0,
	}
	for raw, want := range cases {
		var got sourceID
		require.NoError(t, json.Unmarshal([]byte(raw), &got), raw)
		require.Equal(t, want, got, raw)
	}
}

func TestAbsint(t *testing.T) {
	cases := map[string]int64{
		"7":     7,
		" 12 ":  12,
		"12abc": 12,
		"-5":    5,
		"3.9":   3,
		"abc":   0,
		"":      0,
		"true":  0,
	}
	for raw, want := range cases {
		require.Equal(t, want, absint(raw), raw)
	}
}
