package db

import (
	"database/sql"
	"fmt"
)

// Base schema - uses Snowflake IDs (no AUTOINCREMENT)
const baseSchema = `
CREATE TABLE IF NOT EXISTS feed_sources (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
  id INTEGER PRIMARY KEY,
  feed_source_id INTEGER,
  title TEXT NOT NULL,
  link TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  summary TEXT NOT NULL DEFAULT '',
  author TEXT NOT NULL DEFAULT '',
  published_date TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  feed_url TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  FOREIGN KEY (feed_source_id) REFERENCES feed_sources(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_feed_source_id ON posts(feed_source_id);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: created_at ordering index for post listing
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at)`); err != nil {
		return fmt.Errorf("create idx_posts_created_at: %w", err)
	}

	// Migration 2: original item position in the preview batch
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('posts') WHERE name = 'item_index'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("check item_index column: %w", err)
	}

	if count == 0 {
		if _, err := db.Exec(`ALTER TABLE posts ADD COLUMN item_index INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("add item_index column: %w", err)
		}
	}

	return nil
}
