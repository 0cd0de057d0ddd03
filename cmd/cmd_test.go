package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newstyping/config"
	"newstyping/internal/article/model"
	"newstyping/internal/gateway/guardian"
	"newstyping/internal/gateway/rss"
)

func TestPrintStatusListsFiveMostRecent(t *testing.T) {
	now := time.Now()
	status := model.Status{TotalArticles: 7, ActiveArticles: 6, ExpiredArticles: 1}
	for i := 0; i < 7; i++ {
		status.Articles = append(status.Articles, model.StatusEntry{
			ID:        "id-" + string(rune('a'+i)),
			Title:     "Story " + string(rune('A'+i)),
			WordCount: 120,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
			ExpiresAt: now.Add(time.Hour),
			Active:    true,
		})
	}
	status.Articles[1].ExpiresAt = now.Add(-time.Minute)
	status.Articles[1].Active = false

	var buf bytes.Buffer
	printStatus(&buf, status)
	out := buf.String()

	assert.Contains(t, out, "Total articles: 7")
	assert.Contains(t, out, "Expired articles: 1")
	assert.Contains(t, out, "1. Story A (ACTIVE)")
	assert.Contains(t, out, "2. Story B (EXPIRED)")
	assert.Contains(t, out, "5. Story E")
	assert.NotContains(t, out, "Story F")
	assert.Contains(t, out, "Words: 120")
}

func TestPrintStatusUsesServiceVerdict(t *testing.T) {
	now := time.Now()
	var buf bytes.Buffer
	printStatus(&buf, model.Status{
		TotalArticles:  1,
		ActiveArticles: 1,
		Articles:       []model.StatusEntry{{ID: "edge", Title: "Boundary", ExpiresAt: now, Active: true}},
	})
	assert.Contains(t, buf.String(), "1. Boundary (ACTIVE)")
}

func TestPrintStatusEmpty(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, model.Status{})
	assert.Contains(t, buf.String(), "Total articles: 0")
	assert.NotContains(t, buf.String(), "Recent Articles")
}

func TestPrintCleanupNamesDeletedTitles(t *testing.T) {
	var buf bytes.Buffer
	printCleanup(&buf, model.CleanupResult{
		DeletedCount: 2,
		DeletedArticles: []model.DeletedArticle{
			{ID: "a", Title: "Old one"},
			{ID: "b", Title: "Older one"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Successfully deleted 2 expired articles")
	assert.Contains(t, out, "1. Old one")
	assert.Contains(t, out, "2. Older one")

	buf.Reset()
	printCleanup(&buf, model.CleanupResult{})
	assert.Equal(t, "Successfully deleted 0 expired articles\n", buf.String())
}

func TestNewsSourceFollowsProvider(t *testing.T) {
	cfg := config.Default()
	assert.Nil(t, newsSource(cfg), "guardian without a key is disabled")

	cfg.News.Guardian.APIKey = "key"
	assert.IsType(t, &guardian.Client{}, newsSource(cfg))

	cfg.News.Provider = config.ProviderRSS
	assert.Nil(t, newsSource(cfg), "rss without a feed url is disabled")

	cfg.News.RSS.URL = "https://example.com/feed.xml"
	assert.IsType(t, &rss.Fetcher{}, newsSource(cfg))
}

func TestServeRoutesPrintsRouteTable(t *testing.T) {
	t.Cleanup(func() { flagRoutes = false })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"serve", "--routes"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "/news")
	assert.Contains(t, out, "/db-status")
	assert.Contains(t, out, "/ws")
}
