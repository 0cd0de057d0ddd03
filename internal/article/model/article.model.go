package model

import "time"

// TempID marks an article served straight from the news source. Such
// articles are never persisted.
const TempID = "temp"

// Article is a stored typing-practice article.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Summary   string    `json:"-"`
	Words     []string  `json:"words"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewArticle is what ingestion hands to the store; the store assigns ID and CreatedAt.
type NewArticle struct {
	Title     string
	Source    string
	Summary   string
	Words     []string
	URL       string
	ExpiresAt time.Time
}

// PublicArticle is the shape served by /api/news.
type PublicArticle struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Source string   `json:"source"`
	Words  []string `json:"words"`
	URL    string   `json:"url"`
}

func (a Article) Public() PublicArticle {
	return PublicArticle{
		ID:     a.ID,
		Title:  a.Title,
		Source: a.Source,
		Words:  a.Words,
		URL:    a.URL,
	}
}

// SourceArticle is one upstream article as returned by a news source.
type SourceArticle struct {
	ID        string
	WebTitle  string
	WebURL    string
	Body      string
	TrailText string
	Headline  string
}

// Content returns the richest non-empty text field: body, then trail text, then headline.
func (s SourceArticle) Content() string {
	for _, field := range []string{s.Body, s.TrailText, s.Headline} {
		if field != "" {
			return field
		}
	}
	return ""
}

func (s SourceArticle) DisplayTitle() string {
	switch {
	case s.Headline != "":
		return s.Headline
	case s.WebTitle != "":
		return s.WebTitle
	default:
		return "Untitled"
	}
}

// StatusEntry is one row of /api/db-status.
type StatusEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	WordCount int       `json:"word_count"`
	Active    bool      `json:"active"`
}

type Status struct {
	TotalArticles   int           `json:"total_articles"`
	ActiveArticles  int           `json:"active_articles"`
	ExpiredArticles int           `json:"expired_articles"`
	Articles        []StatusEntry `json:"articles"`
}

// DeletedArticle describes a record removed by cleanup.
type DeletedArticle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ExpiredAt time.Time `json:"expired_at"`
}

type CleanupResult struct {
	Message         string           `json:"message"`
	DeletedCount    int              `json:"deleted_count"`
	DeletedArticles []DeletedArticle `json:"deleted_articles"`
}

type ResetResult struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

type PreloadResult struct {
	Message       string `json:"message"`
	InsertedCount int    `json:"inserted_count"`
}
