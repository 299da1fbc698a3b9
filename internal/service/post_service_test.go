package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rssagg/backend/internal/model"
	"rssagg/backend/internal/repository"
	"rssagg/backend/internal/repository/mock"
	"rssagg/backend/internal/service"
)

func strPtr(s string) *string {
	return &s
}

func TestPostService_SaveAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := mock.NewMockPostRepository(ctrl)
	sources := mock.NewMockFeedSourceRepository(ctrl)

	items := []model.FeedItem{
		{Title: "A", Link: "https://example.com/a", Summary: strPtr("sa"), Date: strPtr("March 1, 2024"), Source: "example.com", FeedURL: testFeedURL, Index: 0},
		{Title: "B", Link: "https://example.com/b", Source: "example.com", FeedURL: testFeedURL, Index: 1},
	}

	var nextID int64 = 100
	posts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, post model.Post) (model.Post, error) {
			require.NotNil(t, post.FeedSourceID)
			require.Equal(t, int64(7), *post.FeedSourceID)
			require.Equal(t, testFeedURL, post.FeedURL)
			nextID++
			post.ID = nextID
			return post, nil
		},
	).Times(2)

	svc := service.NewPostService(posts, sources)
	results, err := svc.SaveAll(context.Background(), items, 7)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, int64(101), *results["A"].ID)
	require.Equal(t, int64(102), *results["B"].ID)
}

func TestPostService_SaveAll_MapsFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := mock.NewMockPostRepository(ctrl)
	item := model.FeedItem{
		Title:   "Title",
		Link:    "https://example.com/x",
		Image:   strPtr("https://example.com/x.png"),
		Summary: strPtr("Summary"),
		Date:    strPtr("May 5, 2024"),
		Author:  strPtr("Ann"),
		Source:  "example.com",
		FeedURL: testFeedURL,
		Index:   4,
	}
	posts.EXPECT().Create(gomock.Any(), model.Post{
		Title:         "Title",
		Link:          "https://example.com/x",
		Image:         "https://example.com/x.png",
		Summary:       "Summary",
		Author:        "Ann",
		PublishedDate: "May 5, 2024",
		Source:        "example.com",
		FeedURL:       testFeedURL,
		ItemIndex:     4,
	}).Return(model.Post{ID: 1}, nil)

	svc := service.NewPostService(posts, mock.NewMockFeedSourceRepository(ctrl))
	results, err := svc.SaveAll(context.Background(), []model.FeedItem{item}, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), *results["Title"].ID)
}

func TestPostService_SaveAll_ContinuesAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := mock.NewMockPostRepository(ctrl)
	items := make([]model.FeedItem, 3)
	for i := range items {
		items[i] = model.FeedItem{Title: fmt.Sprintf("T%d", i), Index: i}
	}

	gomock.InOrder(
		posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Post{ID: 1}, nil),
		posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Post{}, errors.New("disk full")),
		posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Post{ID: 3}, nil),
	)

	svc := service.NewPostService(posts, mock.NewMockFeedSourceRepository(ctrl))
	results, err := svc.SaveAll(context.Background(), items, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), *results["T0"].ID)
	require.Nil(t, results["T1"].ID)
	require.Equal(t, "disk full", results["T1"].Error)
	require.Equal(t, int64(3), *results["T2"].ID)
}

func TestPostService_SaveAll_DuplicateTitlesLastWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := mock.NewMockPostRepository(ctrl)
	gomock.InOrder(
		posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Post{ID: 1}, nil),
		posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Post{ID: 2}, nil),
	)

	svc := service.NewPostService(posts, mock.NewMockFeedSourceRepository(ctrl))
	results, err := svc.SaveAll(context.Background(), []model.FeedItem{{Title: "Same"}, {Title: "Same"}}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int64(2), *results["Same"].ID)
}

func TestPostService_SaveAll_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewPostService(mock.NewMockPostRepository(ctrl), mock.NewMockFeedSourceRepository(ctrl))
	_, err := svc.SaveAll(context.Background(), nil, 1)
	require.ErrorIs(t, err, service.ErrMissingField)
	require.EqualError(t, err, "toAdd missing.")

	results, err := svc.SaveAll(context.Background(), []model.FeedItem{}, 1)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestPostService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	posts := mock.NewMockPostRepository(ctrl)
	sources := mock.NewMockFeedSourceRepository(ctrl)
	feedID := int64(7)

	sources.EXPECT().GetByID(gomock.Any(), feedID).Return(model.FeedSource{ID: feedID}, nil)
	posts.EXPECT().List(gomock.Any(), repository.PostListFilter{FeedSourceID: &feedID, Limit: service.MaxPostLimit, Offset: 10}).
		Return([]model.Post{{ID: 1}}, nil)

	svc := service.NewPostService(posts, sources)
	list, err := svc.List(context.Background(), &feedID, 1000, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	posts.EXPECT().List(gomock.Any(), repository.PostListFilter{Limit: service.DefaultPostLimit}).Return(nil, nil)
	_, err = svc.List(context.Background(), nil, 0, 0)
	require.NoError(t, err)
}

func TestPostService_List_UnknownSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sources := mock.NewMockFeedSourceRepository(ctrl)
	feedID := int64(404)
	sources.EXPECT().GetByID(gomock.Any(), feedID).Return(model.FeedSource{}, fmt.Errorf("get feed source: %w", sql.ErrNoRows))

	svc := service.NewPostService(mock.NewMockPostRepository(ctrl), sources)
	_, err := svc.List(context.Background(), &feedID, 10, 0)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.List(context.Background(), nil, 10, -1)
	require.ErrorIs(t, err, service.ErrInvalid)
}
