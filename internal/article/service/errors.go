package service

import "errors"

var (
	// ErrNoArticle means neither the cache nor the news source had anything usable.
	ErrNoArticle = errors.New("no suitable articles found")
	// ErrUpstream wraps news source failures.
	ErrUpstream                = errors.New("news source failed")
	ErrSourceNotConfigured     = errors.New("news source not configured")
	ErrSummarizerNotConfigured = errors.New("summarizer not configured")
)
