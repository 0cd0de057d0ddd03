package service

import (
	"context"
	"fmt"
	"time"

	"newstyping/internal/article/model"
	"newstyping/internal/freshness"
	"newstyping/internal/ports"
)

// Removal reasons announced to the article feed.
const (
	ReasonExpired = "expired"
	ReasonReset   = "reset"
)

type MaintenanceService struct {
	Store    ports.ArticleStore
	Notifier ports.ArticleNotifier
	Now      func() time.Time
}

func NewMaintenanceService(store ports.ArticleStore, notifier ports.ArticleNotifier) *MaintenanceService {
	return &MaintenanceService{Store: store, Notifier: notifier, Now: time.Now}
}

// Status lists every stored article, newest first, with servable and expired counts.
func (s *MaintenanceService) Status(ctx context.Context) (model.Status, error) {
	articles, err := s.Store.ListAll(ctx)
	if err != nil {
		return model.Status{}, fmt.Errorf("list articles: %w", err)
	}

	now := s.Now()
	status := model.Status{
		TotalArticles: len(articles),
		Articles:      make([]model.StatusEntry, 0, len(articles)),
	}
	for _, a := range articles {
		active := freshness.Eligible(a, now, nil)
		if active {
			status.ActiveArticles++
		} else {
			status.ExpiredArticles++
		}
		status.Articles = append(status.Articles, model.StatusEntry{
			ID:        a.ID,
			Title:     a.Title,
			Source:    a.Source,
			CreatedAt: a.CreatedAt,
			ExpiresAt: a.ExpiresAt,
			WordCount: len(a.Words),
			Active:    active,
		})
	}
	return status, nil
}

func (s *MaintenanceService) Cleanup(ctx context.Context) (model.CleanupResult, error) {
	deleted, err := s.Store.DeleteExpired(ctx, s.Now())
	if err != nil {
		return model.CleanupResult{}, fmt.Errorf("delete expired articles: %w", err)
	}

	result := model.CleanupResult{
		Message:         "Cleanup completed",
		DeletedCount:    len(deleted),
		DeletedArticles: make([]model.DeletedArticle, 0, len(deleted)),
	}
	for _, a := range deleted {
		result.DeletedArticles = append(result.DeletedArticles, model.DeletedArticle{
			ID:        a.ID,
			Title:     a.Title,
			ExpiredAt: a.ExpiresAt,
		})
	}
	s.announce(ReasonExpired, result.DeletedCount)
	return result, nil
}

func (s *MaintenanceService) Reset(ctx context.Context) (model.ResetResult, error) {
	n, err := s.Store.DeleteAll(ctx)
	if err != nil {
		return model.ResetResult{}, fmt.Errorf("delete all articles: %w", err)
	}
	s.announce(ReasonReset, n)
	return model.ResetResult{Message: "Database reset completed", DeletedCount: n}, nil
}

func (s *MaintenanceService) announce(reason string, count int) {
	if count > 0 && s.Notifier != nil {
		s.Notifier.ArticlesRemoved(reason, count)
	}
}
