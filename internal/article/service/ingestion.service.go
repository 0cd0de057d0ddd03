package service

import (
	"context"
	"fmt"
	"time"

	"newstyping/internal/article/model"
	"newstyping/internal/freshness"
	"newstyping/internal/ports"
	"newstyping/internal/sanitize"
	"newstyping/pkg/logger"
)

const (
	DefaultBatchSize = 10
	// MaxContentRunes bounds the text sent to the summarizer.
	MaxContentRunes = 4000
	SummaryMinWords = 100
	SummaryMaxWords = 150
	// StoredWordLimit caps the words kept from a summary.
	StoredWordLimit = 200
)

// IngestionService refreshes the article cache from the news source.
type IngestionService struct {
	Store      ports.ArticleStore
	Source     ports.NewsSource
	Summarizer ports.Summarizer
	Notifier   ports.ArticleNotifier
	Now        func() time.Time

	Retention time.Duration
	BatchSize int
}

func NewIngestionService(store ports.ArticleStore, source ports.NewsSource, summarizer ports.Summarizer, notifier ports.ArticleNotifier) *IngestionService {
	return &IngestionService{
		Store:      store,
		Source:     source,
		Summarizer: summarizer,
		Notifier:   notifier,
		Now:        time.Now,
		Retention:  freshness.DefaultRetention,
		BatchSize:  DefaultBatchSize,
	}
}

// Refresh fetches the newest articles, summarizes every usable one and
// stores it. Per-article failures are logged and skipped; only a failed
// fetch aborts the run. It returns how many articles were stored.
func (s *IngestionService) Refresh(ctx context.Context) (int, error) {
	if s.Summarizer == nil {
		return 0, ErrSummarizerNotConfigured
	}
	if s.Source == nil {
		return 0, ErrSourceNotConfigured
	}

	size := s.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	articles, err := s.Source.Latest(ctx, size)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	retention := s.Retention
	if retention <= 0 {
		retention = freshness.DefaultRetention
	}

	var stored []model.PublicArticle
	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return len(stored), err
		}
		rec, ok := s.ingest(ctx, a, retention)
		if ok {
			stored = append(stored, rec.Public())
		}
	}

	if len(stored) > 0 && s.Notifier != nil {
		s.Notifier.ArticlesAdded(stored)
	}
	logger.Sugar.Infow("Article refresh finished", "fetched", len(articles), "stored", len(stored))
	return len(stored), nil
}

func (s *IngestionService) ingest(ctx context.Context, a model.SourceArticle, retention time.Duration) (model.Article, bool) {
	title := a.DisplayTitle()

	clean := sanitize.TruncateRunes(sanitize.Clean(a.Content()), MaxContentRunes)
	if !sanitize.Usable(clean) {
		logger.Sugar.Debugw("Skipping article", "title", title, "reason", "content too short")
		return model.Article{}, false
	}

	summary, err := s.Summarizer.Summarize(ctx, clean, SummaryMinWords, SummaryMaxWords)
	if err != nil {
		logger.Sugar.Warnw("Skipping article", "title", title, "reason", "summarization failed", "error", err)
		return model.Article{}, false
	}

	words := sanitize.Words(summary, StoredWordLimit)
	if len(words) == 0 {
		logger.Sugar.Warnw("Skipping article", "title", title, "reason", "empty summary")
		return model.Article{}, false
	}

	rec, err := s.Store.Insert(ctx, model.NewArticle{
		Title:     title,
		Source:    s.Source.Name(),
		Summary:   summary,
		Words:     words,
		URL:       a.WebURL,
		ExpiresAt: freshness.ExpiresAt(s.Now(), retention),
	})
	if err != nil {
		logger.Sugar.Warnw("Skipping article", "title", title, "reason", "insert failed", "error", err)
		return model.Article{}, false
	}
	logger.Sugar.Infow("Inserted article", "id", rec.ID, "title", title)
	return rec, true
}
