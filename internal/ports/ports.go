package ports

import (
	"context"
	"time"

	article "newstyping/internal/article/model"
	testresult "newstyping/internal/testresult/model"
)

// ArticleStore persists summarized articles.
type ArticleStore interface {
	Insert(ctx context.Context, a article.NewArticle) (article.Article, error)
	// ListServable returns records with expires_at >= now, newest first,
	// leaving out the excluded ids where the store can filter them.
	ListServable(ctx context.Context, now time.Time, excluded []string) ([]article.Article, error)
	ListAll(ctx context.Context) ([]article.Article, error)
	DeleteExpired(ctx context.Context, now time.Time) ([]article.Article, error)
	DeleteAll(ctx context.Context) (int, error)
}

// NewsSource pulls the newest articles from an upstream provider.
type NewsSource interface {
	// Name is the fixed provenance label stored with every article.
	Name() string
	Latest(ctx context.Context, limit int) ([]article.SourceArticle, error)
}

// Summarizer condenses article text to roughly minWords-maxWords words.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// ArticleNotifier announces cache changes to live subscribers.
type ArticleNotifier interface {
	ArticlesAdded(articles []article.PublicArticle)
	ArticlesRemoved(reason string, count int)
}

// User is the principal resolved from a bearer token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentityProvider resolves a bearer token to its user.
type IdentityProvider interface {
	CurrentUser(ctx context.Context, token string) (User, error)
}

// TestResultStore persists typing-test results.
type TestResultStore interface {
	Insert(ctx context.Context, userID string, req testresult.SaveTestRequest) (testresult.TestResult, error)
	ListByUser(ctx context.Context, userID string) ([]testresult.TestResult, error)
	MetricsByUser(ctx context.Context, userID string) ([]testresult.Metrics, error)
}
