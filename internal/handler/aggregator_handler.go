package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"rssagg/backend/internal/model"
	"rssagg/backend/internal/service"
)

const invalidFeedURLMessage = "feedUrl is not a valid URL."

type AggregatorHandler struct {
	fetcher      service.FetchService
	sources      service.FeedSourceService
	posts        service.PostService
	itemCount    int
	cacheSeconds int
}

// AggregatorOptions sets the fetch options used by preview.
type AggregatorOptions struct {
	PreviewItemCount int
	CacheTTL         time.Duration
}

type previewRequest struct {
	FeedURL *string   `json:"feedUrl" form:"feedUrl" validate:"required,http_url"`
	FeedID  *sourceID `json:"feedId" form:"feedId" swaggertype:"integer"`
	Refresh bool      `json:"refresh" form:"refresh"`
}

type saveRequest struct {
	ToAdd   []model.FeedItem `json:"toAdd"`
	FeedURL *string          `json:"feedUrl" form:"feedUrl"`
	FeedID  *sourceID        `json:"feedId" form:"feedId" swaggertype:"integer"`
}

type previewResponse struct {
	FeedURL string           `json:"feedUrl"`
	FeedID  string           `json:"feedId"`
	Items   []model.FeedItem `json:"items"`
}

type saveResultResponse struct {
	ID    *string `json:"id,omitempty"`
	Error string  `json:"error,omitempty"`
}

type saveResponse struct {
	Request  json.RawMessage               `json:"request" swaggertype:"object"`
	SavedMap map[string]saveResultResponse `json:"savedMap"`
}

type feedSourceResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type postResponse struct {
	ID            string  `json:"id"`
	FeedID        *string `json:"feedId,omitempty"`
	Title         string  `json:"title"`
	Link          string  `json:"link"`
	Image         string  `json:"image"`
	Summary       string  `json:"summary"`
	Author        string  `json:"author"`
	PublishedDate string  `json:"date"`
	Source        string  `json:"source"`
	FeedURL       string  `json:"feedUrl"`
	Index         int     `json:"index"`
	CreatedAt     string  `json:"createdAt"`
}

func NewAggregatorHandler(fetcher service.FetchService, sources service.FeedSourceService, posts service.PostService, opts AggregatorOptions) *AggregatorHandler {
	itemCount := opts.PreviewItemCount
	if itemCount < 1 || itemCount > service.MaxItemCount {
		itemCount = service.MaxItemCount
	}
	return &AggregatorHandler{
		fetcher:      fetcher,
		sources:      sources,
		posts:        posts,
		itemCount:    itemCount,
		cacheSeconds: int(opts.CacheTTL / time.Second),
	}
}

func (h *AggregatorHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/rss/preview", h.Preview)
	g.POST("/rss/save", h.Save)
	g.GET("/rss/sources", h.Sources)
	g.GET("/rss/posts", h.Posts)
}

// Preview fetches the items of a feed and resolves its feed source.
// @Summary Preview feed items
// @Description Resolve (or create) the feed source for a URL and return up to 20 normalized items
// @Tags rss
// @Accept json
// @Produce json
// @Param request body previewRequest true "Preview request"
// @Success 200 {object} envelope{data=previewResponse}
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /rss/preview [post]
func (h *AggregatorHandler) Preview(c echo.Context) error {
	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request")
	}
	if req.FeedURL == nil {
		return writeServiceError(c, &service.MissingFieldError{Field: "feedUrl"})
	}
	if req.FeedID == nil {
		return writeServiceError(c, &service.MissingFieldError{Field: "feedId"})
	}
	trimmed := strings.TrimSpace(*req.FeedURL)
	req.FeedURL = &trimmed
	if err := c.Validate(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return Error(c, http.StatusBadRequest, invalidFeedURLMessage)
		}
		return writeServiceError(c, err)
	}

	ctx := c.Request().Context()
	feedID, err := h.sources.Resolve(ctx, trimmed, int64(*req.FeedID))
	if err != nil {
		return writeServiceError(c, err)
	}

	items, err := h.fetcher.FetchItems(ctx, trimmed, service.FetchOptions{
		ShowAuthor:   true,
		ShowDate:     true,
		ShowSummary:  true,
		ShowImage:    true,
		ItemCount:    h.itemCount,
		CacheSeconds: h.cacheSeconds,
	}, req.Refresh)
	if err != nil {
		return writeServiceError(c, err)
	}

	return success(c, previewResponse{
		FeedURL: trimmed,
		FeedID:  idToString(feedID),
		Items:   items,
	})
}

// Save stores the selected items as posts.
// @Summary Save feed items
// @Description Insert each selected item as a post tagged with the feed source. Inserts are independent.
// @Tags rss
// @Accept json
// @Produce json
// @Param request body saveRequest true "Save request"
// @Success 200 {object} envelope{data=saveResponse}
// @Failure 400 {object} errorResponse
// @Router /rss/save [post]
func (h *AggregatorHandler) Save(c echo.Context) error {
	req, echoed, err := bindSaveRequest(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid request")
	}
	if req.ToAdd == nil {
		return writeServiceError(c, &service.MissingFieldError{Field: "toAdd"})
	}
	if req.FeedURL == nil {
		return writeServiceError(c, &service.MissingFieldError{Field: "feedUrl"})
	}
	if req.FeedID == nil {
		return writeServiceError(c, &service.MissingFieldError{Field: "feedId"})
	}

	results, err := h.posts.SaveAll(c.Request().Context(), req.ToAdd, int64(*req.FeedID))
	if err != nil {
		return writeServiceError(c, err)
	}

	savedMap := make(map[string]saveResultResponse, len(results))
	for title, result := range results {
		savedMap[title] = saveResultResponse{ID: idPtrToString(result.ID), Error: result.Error}
	}
	return success(c, saveResponse{Request: echoed, SavedMap: savedMap})
}

// bindSaveRequest binds the save payload and returns the request as the client
// sent it. JSON bodies are echoed byte for byte; form posts are echoed as their
// decoded values.
func bindSaveRequest(c echo.Context) (saveRequest, json.RawMessage, error) {
	var req saveRequest
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		if err := c.Bind(&req); err != nil {
			return req, nil, err
		}
		params, err := c.FormParams()
		if err != nil {
			return req, nil, err
		}
		echoed, err := json.Marshal(flattenValues(params))
		return req, echoed, err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return req, nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, json.RawMessage("{}"), nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, nil, err
	}
	return req, json.RawMessage(body), nil
}

func flattenValues(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, list := range values {
		if len(list) == 1 {
			out[key] = list[0]
			continue
		}
		out[key] = list
	}
	return out
}

// Sources lists known feed sources.
// @Summary List feed sources
// @Tags rss
// @Produce json
// @Success 200 {object} envelope{data=[]feedSourceResponse}
// @Router /rss/sources [get]
func (h *AggregatorHandler) Sources(c echo.Context) error {
	sources, err := h.sources.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]feedSourceResponse, 0, len(sources))
	for _, source := range sources {
		response = append(response, feedSourceResponse{ID: idToString(source.ID), URL: source.Name})
	}
	return success(c, response)
}

// Posts lists saved posts, newest first.
// @Summary List saved posts
// @Tags rss
// @Produce json
// @Param feedId query int false "Filter by feed source ID"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} envelope{data=[]postResponse}
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /rss/posts [get]
func (h *AggregatorHandler) Posts(c echo.Context) error {
	var feedID *int64
	if raw := strings.TrimSpace(c.QueryParam("feedId")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return Error(c, http.StatusBadRequest, "invalid request")
		}
		feedID = &parsed
	}
	limit, ok := parseOptionalInt(c.QueryParam("limit"))
	if !ok {
		return Error(c, http.StatusBadRequest, "invalid request")
	}
	offset, ok := parseOptionalInt(c.QueryParam("offset"))
	if !ok {
		return Error(c, http.StatusBadRequest, "invalid request")
	}

	posts, err := h.posts.List(c.Request().Context(), feedID, limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		response = append(response, toPostResponse(post))
	}
	return success(c, response)
}

func toPostResponse(post model.Post) postResponse {
	return postResponse{
		ID:            idToString(post.ID),
		FeedID:        idPtrToString(post.FeedSourceID),
		Title:         post.Title,
		Link:          post.Link,
		Image:         post.Image,
		Summary:       post.Summary,
		Author:        post.Author,
		PublishedDate: post.PublishedDate,
		Source:        post.Source,
		FeedURL:       post.FeedURL,
		Index:         post.ItemIndex,
		CreatedAt:     post.CreatedAt.UTC().Format(time.RFC3339),
	}
}
