package rss

import (
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"rssagg/backend/internal/model"
)

const (
	summaryWordLimit = 100
	untitled         = "Untitled"
	ellipsis         = " […]"
)

// Fields selects which optional item fields are populated.
type Fields struct {
	Author  bool
	Date    bool
	Summary bool
	Image   bool
}

// Normalizer converts parsed feed items into FeedItem records. It holds no
// mutable state and may be shared between goroutines.
type Normalizer struct {
	dateLayout string
	location   *time.Location
	strict     *bluemonday.Policy
}

func NewNormalizer(dateLayout string, location *time.Location) *Normalizer {
	if dateLayout == "" {
		dateLayout = "January 2, 2006"
	}
	if location == nil {
		location = time.UTC
	}
	return &Normalizer{
		dateLayout: dateLayout,
		location:   location,
		strict:     bluemonday.StrictPolicy(),
	}
}

// Item builds the record for item at position index of the feed at feedURL.
func (n *Normalizer) Item(item *gofeed.Item, index int, feedURL string, fields Fields) model.FeedItem {
	out := model.FeedItem{
		Link:    n.link(item.Link),
		Title:   n.title(item.Title),
		Source:  sourceName(feedURL),
		FeedURL: feedURL,
		Index:   index,
	}
	if fields.Image {
		image := firstImage(html.UnescapeString(firstNonEmpty(item.Content, item.Description)))
		out.Image = &image
	}
	if fields.Summary {
		summary := n.summary(firstNonEmpty(item.Description, item.Content))
		out.Summary = &summary
	}
	if fields.Date {
		date := n.date(item)
		out.Date = &date
	}
	if fields.Author {
		author := n.author(item)
		out.Author = &author
	}
	return out
}

// stripTags removes all markup and returns plain text.
func (n *Normalizer) stripTags(value string) string {
	return html.UnescapeString(n.strict.Sanitize(value))
}

func (n *Normalizer) link(raw string) string {
	idx := indexHTTP(raw)
	if idx < 0 {
		return ""
	}
	link := n.stripTags(strings.TrimSpace(raw[idx:]))
	link = strings.TrimSpace(link)
	if _, err := url.ParseRequestURI(link); err != nil {
		return ""
	}
	return link
}

// indexHTTP returns the byte offset of the first case-insensitive "http" in raw.
func indexHTTP(raw string) int {
	for i := 0; i+4 <= len(raw); i++ {
		if strings.EqualFold(raw[i:i+4], "http") {
			return i
		}
	}
	return -1
}

func (n *Normalizer) title(raw string) string {
	title := strings.TrimSpace(n.stripTags(raw))
	if title == "" {
		return untitled
	}
	return html.EscapeString(title)
}

func (n *Normalizer) summary(raw string) string {
	text := n.stripTags(html.UnescapeString(raw))
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	truncated := len(words) > summaryWordLimit
	if truncated {
		words = words[:summaryWordLimit]
	}
	text = strings.Join(words, " ")

	marked := false
	for _, marker := range []string{"[...]", "[…]"} {
		if strings.HasSuffix(text, marker) {
			text = strings.TrimSpace(strings.TrimSuffix(text, marker))
			marked = true
			break
		}
	}
	if truncated || marked {
		text += ellipsis
	}
	return html.EscapeString(text)
}

func (n *Normalizer) date(item *gofeed.Item) string {
	t := item.PublishedParsed
	if t == nil {
		t = item.UpdatedParsed
	}
	if t == nil {
		return ""
	}
	return t.In(n.location).Format(n.dateLayout)
}

func (n *Normalizer) author(item *gofeed.Item) string {
	person := item.Author
	if person == nil && len(item.Authors) > 0 {
		person = item.Authors[0]
	}
	if person == nil {
		return ""
	}
	return html.EscapeString(strings.TrimSpace(n.stripTags(person.Name)))
}

// firstImage returns the src of the first <img> in content that has one.
func firstImage(content string) string {
	if !strings.Contains(strings.ToLower(content), "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	var src string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if value, ok := s.Attr("src"); ok && strings.TrimSpace(value) != "" {
			src = strings.TrimSpace(value)
			return false
		}
		return true
	})
	return src
}

func sourceName(feedURL string) string {
	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Hostname() == "" {
		return feedURL
	}
	return parsed.Hostname()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
