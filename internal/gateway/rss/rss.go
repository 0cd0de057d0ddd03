// Package rss serves any RSS or Atom feed as a news source.
package rss

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"newstyping/config"
	"newstyping/internal/article/model"
	"newstyping/internal/ports"
)

const userAgent = "News-Typing-App/1.0"

// Fetcher implements ports.NewsSource over a single feed URL.
type Fetcher struct {
	url    string
	label  string
	parser *gofeed.Parser
}

var _ ports.NewsSource = (*Fetcher)(nil)

func New(cfg config.RSSConfig, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: timeout}

	label := cfg.Label
	if label == "" {
		label = "RSS"
	}
	return &Fetcher{url: cfg.URL, label: label, parser: parser}
}

func (f *Fetcher) Name() string { return f.label }

// Latest returns up to limit feed items, newest first. Items without a
// publish date keep their feed order after the dated ones.
func (f *Fetcher) Latest(ctx context.Context, limit int) ([]model.SourceArticle, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", f.label, err)
	}

	items := append([]*gofeed.Item(nil), feed.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := published(items[i]), published(items[j])
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	articles := make([]model.SourceArticle, 0, len(items))
	for _, item := range items {
		id := item.GUID
		if id == "" {
			id = item.Link
		}
		articles = append(articles, model.SourceArticle{
			ID:        id,
			WebTitle:  item.Title,
			WebURL:    item.Link,
			Body:      item.Content,
			TrailText: item.Description,
			Headline:  item.Title,
		})
	}
	return articles, nil
}

func published(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return *item.PublishedParsed
	case item.UpdatedParsed != nil:
		return *item.UpdatedParsed
	default:
		return time.Time{}
	}
}
