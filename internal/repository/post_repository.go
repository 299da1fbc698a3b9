package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rssagg/backend/internal/model"
	"rssagg/backend/internal/snowflake"
)

//go:generate mockgen -source=post_repository.go -destination=mock/post_repository.go -package=mock

type PostListFilter struct {
	FeedSourceID *int64
	Limit        int
	Offset       int
}

type PostRepository interface {
	Create(ctx context.Context, post model.Post) (model.Post, error)
	List(ctx context.Context, filter PostListFilter) ([]model.Post, error)
}

type postRepository struct {
	db dbtx
}

func NewPostRepository(db dbtx) PostRepository {
	return &postRepository{db: db}
}

// Create always inserts a new row; posts with the same title are not merged.
func (r *postRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	post.ID = snowflake.NextID()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO posts (id, feed_source_id, title, link, image, summary, author, published_date, source, feed_url, item_index, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		nullableInt64(post.FeedSourceID),
		post.Title,
		post.Link,
		post.Image,
		post.Summary,
		post.Author,
		post.PublishedDate,
		post.Source,
		post.FeedURL,
		post.ItemIndex,
		formatTime(now),
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	post.CreatedAt = now
	return post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostListFilter) ([]model.Post, error) {
	var args []interface{}
	query := `SELECT id, feed_source_id, title, link, image, summary, author, published_date, source, feed_url, item_index, created_at FROM posts`

	var conditions []string
	if filter.FeedSourceID != nil {
		conditions = append(conditions, "feed_source_id = ?")
		args = append(args, *filter.FeedSourceID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

func scanPost(scanner interface {
	Scan(dest ...interface{}) error
}) (model.Post, error) {
	var post model.Post
	var feedSourceID sql.NullInt64
	var createdAt string
	if err := scanner.Scan(
		&post.ID,
		&feedSourceID,
		&post.Title,
		&post.Link,
		&post.Image,
		&post.Summary,
		&post.Author,
		&post.PublishedDate,
		&post.Source,
		&post.FeedURL,
		&post.ItemIndex,
		&createdAt,
	); err != nil {
		return model.Post{}, fmt.Errorf("scan post: %w", err)
	}
	if feedSourceID.Valid {
		post.FeedSourceID = &feedSourceID.Int64
	}
	var err error
	post.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Post{}, fmt.Errorf("parse post created_at: %w", err)
	}
	return post, nil
}
