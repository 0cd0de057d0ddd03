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
	DefaultFallbackPageSize = 20
	// FallbackWordLimit caps the words of an article served straight from the source.
	FallbackWordLimit = 200
)

// ServingService picks one article for a typing session.
type ServingService struct {
	Store  ports.ArticleStore
	Source ports.NewsSource // nil when no provider is configured
	Policy *freshness.Policy
	Now    func() time.Time

	FallbackPageSize int
}

func NewServingService(store ports.ArticleStore, source ports.NewsSource, policy *freshness.Policy) *ServingService {
	if policy == nil {
		policy = freshness.New(nil)
	}
	return &ServingService{
		Store:            store,
		Source:           source,
		Policy:           policy,
		Now:              time.Now,
		FallbackPageSize: DefaultFallbackPageSize,
	}
}

// GetArticle serves a random cached article the caller has not seen. On a
// cache miss it falls back to the first usable article of the live feed,
// which is served with the "temp" id and never stored.
func (s *ServingService) GetArticle(ctx context.Context, excluded freshness.Exclusion) (model.PublicArticle, error) {
	now := s.Now()

	candidates, err := s.Store.ListServable(ctx, now, excluded.IDs())
	if err != nil {
		return model.PublicArticle{}, fmt.Errorf("list servable articles: %w", err)
	}
	if a, ok := s.Policy.Select(candidates, now, excluded); ok {
		return a.Public(), nil
	}

	logger.Sugar.Debugw("Article cache miss, falling back to news source",
		"candidates", len(candidates), "excluded", len(excluded))
	return s.fallback(ctx)
}

func (s *ServingService) fallback(ctx context.Context) (model.PublicArticle, error) {
	if s.Source == nil {
		return model.PublicArticle{}, ErrSourceNotConfigured
	}

	size := s.FallbackPageSize
	if size <= 0 {
		size = DefaultFallbackPageSize
	}
	articles, err := s.Source.Latest(ctx, size)
	if err != nil {
		return model.PublicArticle{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	for _, a := range articles {
		clean := sanitize.Clean(a.Content())
		if !sanitize.Usable(clean) {
			continue
		}
		return model.PublicArticle{
			ID:     model.TempID,
			Title:  a.DisplayTitle(),
			Source: s.Source.Name(),
			Words:  sanitize.Words(clean, FallbackWordLimit),
			URL:    a.WebURL,
		}, nil
	}
	return model.PublicArticle{}, ErrNoArticle
}
