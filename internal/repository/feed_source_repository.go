package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rssagg/backend/internal/model"
	"rssagg/backend/internal/snowflake"
)

//go:generate mockgen -source=feed_source_repository.go -destination=mock/feed_source_repository.go -package=mock

type FeedSourceRepository interface {
	Create(ctx context.Context, name string) (model.FeedSource, error)
	GetByID(ctx context.Context, id int64) (model.FeedSource, error)
	FindByName(ctx context.Context, name string) (*model.FeedSource, error)
	List(ctx context.Context) ([]model.FeedSource, error)
}

type feedSourceRepository struct {
	db dbtx
}

func NewFeedSourceRepository(db dbtx) FeedSourceRepository {
	return &feedSourceRepository{db: db}
}

func (r *feedSourceRepository) Create(ctx context.Context, name string) (model.FeedSource, error) {
	id := snowflake.NextID()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO feed_sources (id, name, created_at) VALUES (?, ?, ?)`,
		id,
		name,
		formatTime(now),
	)
	if err != nil {
		return model.FeedSource{}, fmt.Errorf("create feed source: %w", err)
	}

	return model.FeedSource{ID: id, Name: name, CreatedAt: now}, nil
}

func (r *feedSourceRepository) GetByID(ctx context.Context, id int64) (model.FeedSource, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM feed_sources WHERE id = ?`, id)
	source, err := scanFeedSource(row)
	if err != nil {
		return model.FeedSource{}, fmt.Errorf("get feed source: %w", err)
	}
	return source, nil
}

func (r *feedSourceRepository) FindByName(ctx context.Context, name string) (*model.FeedSource, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM feed_sources WHERE name = ?`, name)
	source, err := scanFeedSource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find feed source: %w", err)
	}
	return &source, nil
}

func (r *feedSourceRepository) List(ctx context.Context) ([]model.FeedSource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM feed_sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list feed sources: %w", err)
	}
	defer rows.Close()

	var sources []model.FeedSource
	for rows.Next() {
		source, err := scanFeedSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feed source: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed sources: %w", err)
	}

	return sources, nil
}

func scanFeedSource(scanner interface {
	Scan(dest ...interface{}) error
}) (model.FeedSource, error) {
	var source model.FeedSource
	var createdAt string
	if err := scanner.Scan(&source.ID, &source.Name, &createdAt); err != nil {
		return model.FeedSource{}, err
	}
	var err error
	source.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.FeedSource{}, fmt.Errorf("parse feed source created_at: %w", err)
	}
	return source, nil
}
