package model

// FeedItem is one normalized entry of a fetched feed. Optional fields are nil
// when the caller did not ask for them and point to "" when the feed lacks them.
type FeedItem struct {
	Link    string  `json:"link"`
	Title   string  `json:"title"`
	Image   *string `json:"image,omitempty"`
	Summary *string `json:"summary,omitempty"`
	Date    *string `json:"date,omitempty"`
	Author  *string `json:"author,omitempty"`
	Source  string  `json:"source"`
	FeedURL string  `json:"feedUrl"`
	Index   int     `json:"index"`
}
