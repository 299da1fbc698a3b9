package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"rssagg/backend/internal/db"
	"rssagg/backend/internal/model"
	"rssagg/backend/internal/snowflake"

	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated SQLite database in a temp dir that is removed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	require.NoError(t, snowflake.Init(1))

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// SeedFeedSource inserts a feed source row and returns its id.
func SeedFeedSource(t *testing.T, database *sql.DB, name string) int64 {
	t.Helper()
	id := snowflake.NextID()
	_, err := database.Exec(
		`INSERT INTO feed_sources (id, name, created_at) VALUES (?, ?, ?)`,
		id, name, "2024-01-01T00:00:00Z",
	)
	require.NoError(t, err)
	return id
}

// SeedPost inserts a post row with the given created_at and returns its id.
func SeedPost(t *testing.T, database *sql.DB, post model.Post, createdAt string) int64 {
	t.Helper()
	id := snowflake.NextID()
	var feedSourceID interface{}
	if post.FeedSourceID != nil {
		feedSourceID = *post.FeedSourceID
	}
	_, err := database.Exec(
		`INSERT INTO posts (id, feed_source_id, title, link, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, feedSourceID, post.Title, post.Link, createdAt,
	)
	require.NoError(t, err)
	return id
}
