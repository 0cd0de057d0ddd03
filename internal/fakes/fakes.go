// Package fakes holds in-memory stand-ins for the ports, used by tests.
package fakes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	article "newstyping/internal/article/model"
	"newstyping/internal/ports"
	testresult "newstyping/internal/testresult/model"
)

var (
	_ ports.ArticleStore     = (*ArticleStore)(nil)
	_ ports.NewsSource       = (*NewsSource)(nil)
	_ ports.Summarizer       = SummarizerFunc(nil)
	_ ports.ArticleNotifier  = (*Notifier)(nil)
	_ ports.IdentityProvider = Identity(nil)
	_ ports.TestResultStore  = (*TestResultStore)(nil)
)

// ArticleStore keeps articles in memory. Setting Err makes every call fail.
type ArticleStore struct {
	mu       sync.Mutex
	articles []article.Article
	seq      int

	Err       error
	InsertErr func(a article.NewArticle) error
	// Now stamps CreatedAt; defaults to time.Now.
	Now func() time.Time
}

func (s *ArticleStore) Seed(articles ...article.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, articles...)
}

func (s *ArticleStore) All() []article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]article.Article(nil), s.articles...)
}

func (s *ArticleStore) Insert(_ context.Context, a article.NewArticle) (article.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return article.Article{}, s.Err
	}
	if s.InsertErr != nil {
		if err := s.InsertErr(a); err != nil {
			return article.Article{}, err
		}
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	s.seq++
	stored := article.Article{
		ID:        fmt.Sprintf("article-%d", s.seq),
		Title:     a.Title,
		Source:    a.Source,
		Summary:   a.Summary,
		Words:     a.Words,
		URL:       a.URL,
		CreatedAt: now(),
		ExpiresAt: a.ExpiresAt,
	}
	s.articles = append(s.articles, stored)
	return stored, nil
}

func (s *ArticleStore) ListServable(_ context.Context, now time.Time, excluded []string) ([]article.Article, error) {
	skip := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	return s.list(func(a article.Article) bool {
		return !a.ExpiresAt.Before(now) && !skip[a.ID]
	})
}

func (s *ArticleStore) ListAll(context.Context) ([]article.Article, error) {
	return s.list(func(article.Article) bool { return true })
}

func (s *ArticleStore) DeleteExpired(_ context.Context, now time.Time) ([]article.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	kept := s.articles[:0]
	deleted := []article.Article{}
	for _, a := range s.articles {
		if a.ExpiresAt.Before(now) {
			deleted = append(deleted, a)
			continue
		}
		kept = append(kept, a)
	}
	s.articles = kept
	return deleted, nil
}

func (s *ArticleStore) DeleteAll(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	n := len(s.articles)
	s.articles = nil
	return n, nil
}

func (s *ArticleStore) list(keep func(article.Article) bool) ([]article.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []article.Article{}
	for _, a := range s.articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// NewsSource returns a fixed list of articles.
type NewsSource struct {
	Label    string
	Articles []article.SourceArticle
	Err      error

	mu     sync.Mutex
	Limits []int
}

func (n *NewsSource) Name() string {
	if n.Label == "" {
		return "Fake News"
	}
	return n.Label
}

func (n *NewsSource) Latest(_ context.Context, limit int) ([]article.SourceArticle, error) {
	n.mu.Lock()
	n.Limits = append(n.Limits, limit)
	n.mu.Unlock()
	if n.Err != nil {
		return nil, n.Err
	}
	if limit > 0 && len(n.Articles) > limit {
		return n.Articles[:limit], nil
	}
	return n.Articles, nil
}

// Calls reports how many times Latest was invoked.
func (n *NewsSource) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Limits)
}

type SummarizerFunc func(ctx context.Context, text string, minWords, maxWords int) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	return f(ctx, text, minWords, maxWords)
}

// Echo summarizes by returning the input unchanged.
func Echo() SummarizerFunc {
	return func(_ context.Context, text string, _, _ int) (string, error) { return text, nil }
}

// Removal is one ArticlesRemoved call.
type Removal struct {
	Reason string
	Count  int
}

// Notifier records every announcement.
type Notifier struct {
	mu       sync.Mutex
	Added    [][]article.PublicArticle
	Removals []Removal
}

func (n *Notifier) ArticlesAdded(articles []article.PublicArticle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Added = append(n.Added, articles)
}

func (n *Notifier) ArticlesRemoved(reason string, count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Removals = append(n.Removals, Removal{Reason: reason, Count: count})
}

var ErrUnknownToken = errors.New("unknown token")

// Identity maps tokens to users.
type Identity map[string]ports.User

func (i Identity) CurrentUser(_ context.Context, token string) (ports.User, error) {
	u, ok := i[token]
	if !ok {
		return ports.User{}, ErrUnknownToken
	}
	return u, nil
}

// TestResultStore keeps typing tests in memory.
type TestResultStore struct {
	mu    sync.Mutex
	tests []testresult.TestResult
	seq   int
	clock time.Time

	Err error
}

func (s *TestResultStore) Insert(_ context.Context, userID string, req testresult.SaveTestRequest) (testresult.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return testresult.TestResult{}, s.Err
	}
	s.seq++
	if s.clock.IsZero() {
		s.clock = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	s.clock = s.clock.Add(time.Second)
	t := testresult.TestResult{
		ID:           fmt.Sprintf("test-%d", s.seq),
		UserID:       userID,
		Topic:        req.Topic,
		ArticleTitle: req.ArticleTitle,
		WPM:          req.WPM,
		Accuracy:     req.Accuracy,
		Time:         req.Time,
		CompletedAt:  s.clock,
	}
	s.tests = append(s.tests, t)
	return t, nil
}

func (s *TestResultStore) ListByUser(_ context.Context, userID string) ([]testresult.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []testresult.TestResult{}
	for _, t := range s.tests {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (s *TestResultStore) MetricsByUser(ctx context.Context, userID string) ([]testresult.Metrics, error) {
	tests, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	metrics := make([]testresult.Metrics, 0, len(tests))
	for _, t := range tests {
		metrics = append(metrics, testresult.Metrics{WPM: t.WPM, Accuracy: t.Accuracy, Time: t.Time})
	}
	return metrics, nil
}

// Count returns how many tests are stored.
func (s *TestResultStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tests)
}
