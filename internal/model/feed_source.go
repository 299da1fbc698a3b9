package model

import "time"

// FeedSource groups saved posts by the feed URL they came from.
type FeedSource struct {
	ID        int64
	Name      string // the feed URL
	CreatedAt time.Time
}
