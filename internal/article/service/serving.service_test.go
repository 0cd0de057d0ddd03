package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newstyping/internal/article/model"
	"newstyping/internal/fakes"
	"newstyping/internal/freshness"
)

var now = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func stored(id string, expiresIn time.Duration) model.Article {
	return model.Article{
		ID:        id,
		Title:     "Stored " + id,
		Source:    "The Guardian",
		Words:     []string{"stored", "words"},
		URL:       "https://example.org/" + id,
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(expiresIn),
	}
}

// text returns n characters of clean text.
func text(n int) string {
	return strings.Repeat("a", n)
}

func newServing(store *fakes.ArticleStore, source *fakes.NewsSource) *ServingService {
	s := NewServingService(store, source, freshness.New(nil))
	s.Now = clock
	return s
}

func TestGetArticleServesFreshRecord(t *testing.T) {
	store := &fakes.ArticleStore{}
	store.Seed(stored("a1", time.Hour))
	source := &fakes.NewsSource{}

	got, err := newServing(store, source).GetArticle(context.Background(), freshness.ParseExclusion(""))
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, []string{"stored", "words"}, got.Words)
	assert.Zero(t, source.Calls(), "a cache hit never touches the news source")
}

func TestGetArticleFallsBackWhenOnlyExpired(t *testing.T) {
	store := &fakes.ArticleStore{}
	store.Seed(stored("a1", -time.Hour))
	source := &fakes.NewsSource{
		Label:    "The Guardian",
		Articles: []model.SourceArticle{{ID: "g1", WebTitle: "Live", WebURL: "https://example.org/live", Body: "<p>" + text(120) + "</p>"}},
	}

	got, err := newServing(store, source).GetArticle(context.Background(), freshness.Exclusion{})
	require.NoError(t, err)
	assert.NotEqual(t, "a1", got.ID)
	assert.Equal(t, model.TempID, got.ID)
	assert.Equal(t, "Live", got.Title)
	assert.Equal(t, "The Guardian", got.Source)
	assert.Equal(t, []int{DefaultFallbackPageSize}, source.Limits)
	assert.Len(t, store.All(), 1, "fallback articles are never stored")
}

func TestGetArticleFallsBackWhenAllViewed(t *testing.T) {
	store := &fakes.ArticleStore{}
	store.Seed(stored("a1", time.Hour), stored("a2", time.Hour))
	source := &fakes.NewsSource{Articles: []model.SourceArticle{{Headline: "H", Body: text(150)}}}

	got, err := newServing(store, source).GetArticle(context.Background(), freshness.ParseExclusion("a1,a2"))
	require.NoError(t, err)
	assert.Equal(t, model.TempID, got.ID)
	assert.Equal(t, "H", got.Title)
}

func TestFallbackSkipsShortContentAndCapsWords(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 250))
	source := &fakes.NewsSource{Articles: []model.SourceArticle{
		{ID: "short", Headline: "Short", Body: "<b>" + text(90) + "</b>&amp;"},
		{ID: "long", Headline: "Long", WebURL: "https://example.org/long", Body: "<p>" + long + "</p>"},
	}}

	got, err := newServing(&fakes.ArticleStore{}, source).GetArticle(context.Background(), freshness.Exclusion{})
	require.NoError(t, err)
	assert.Equal(t, "Long", got.Title)
	assert.Equal(t, "https://example.org/long", got.URL)
	assert.Len(t, got.Words, FallbackWordLimit)
}

func TestFallbackUsesFirstUsableOnly(t *testing.T) {
	source := &fakes.NewsSource{Articles: []model.SourceArticle{
		{ID: "first", Headline: "First", Body: text(150)},
		{ID: "second", Headline: "Second", Body: text(300)},
	}}

	got, err := newServing(&fakes.ArticleStore{}, source).GetArticle(context.Background(), freshness.Exclusion{})
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
}

func TestFallbackErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newServing(&fakes.ArticleStore{}, &fakes.NewsSource{}).GetArticle(ctx, freshness.Exclusion{})
	assert.ErrorIs(t, err, ErrNoArticle)

	short := &fakes.NewsSource{Articles: []model.SourceArticle{{Body: text(99)}}}
	_, err = newServing(&fakes.ArticleStore{}, short).GetArticle(ctx, freshness.Exclusion{})
	assert.ErrorIs(t, err, ErrNoArticle)

	down := &fakes.NewsSource{Err: errors.New("status 503")}
	_, err = newServing(&fakes.ArticleStore{}, down).GetArticle(ctx, freshness.Exclusion{})
	assert.ErrorIs(t, err, ErrUpstream)

	s := NewServingService(&fakes.ArticleStore{}, nil, nil)
	_, err = s.GetArticle(ctx, freshness.Exclusion{})
	assert.ErrorIs(t, err, ErrSourceNotConfigured)
}

func TestGetArticleStoreFailure(t *testing.T) {
	boom := errors.New("db down")
	source := &fakes.NewsSource{Articles: []model.SourceArticle{{Body: text(150)}}}

	_, err := newServing(&fakes.ArticleStore{Err: boom}, source).GetArticle(context.Background(), freshness.Exclusion{})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, source.Calls())
}

func TestGetArticleNeverReturnsStoredRecordWithoutEligible(t *testing.T) {
	store := &fakes.ArticleStore{}
	store.Seed(stored("a1", -time.Minute), stored("a2", time.Hour), stored("a3", -time.Second))
	source := &fakes.NewsSource{Articles: []model.SourceArticle{{Headline: "Live", Body: text(200)}}}
	svc := newServing(store, source)

	for i := 0; i < 20; i++ {
		got, err := svc.GetArticle(context.Background(), freshness.ParseExclusion("a2"))
		require.NoError(t, err)
		assert.Equal(t, model.TempID, got.ID)
	}
	assert.Equal(t, 20, source.Calls())
}
