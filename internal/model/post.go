package model

import "time"

type Post struct {
	ID            int64
	FeedSourceID  *int64
	Title         string
	Link          string
	Image         string
	Summary       string
	Author        string
	PublishedDate string
	Source        string
	FeedURL       string
	ItemIndex     int
	CreatedAt     time.Time
}
