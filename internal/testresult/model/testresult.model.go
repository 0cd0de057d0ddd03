package model

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// TestResult is one finished typing test.
type TestResult struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Topic        string    `json:"topic"`
	ArticleTitle string    `json:"article_title"`
	WPM          int       `json:"wpm"`
	Accuracy     int       `json:"accuracy"`
	Time         int       `json:"time"`
	CompletedAt  time.Time `json:"completed_at"`
}

// SaveTestRequest is the POST /api/tests payload. The owner comes from the
// verified token, never from the body.
type SaveTestRequest struct {
	Topic        string `json:"topic"`
	ArticleTitle string `json:"article_title"`
	WPM          int    `json:"wpm"`
	Accuracy     int    `json:"accuracy"`
	Time         int    `json:"time"`
}

// Bind validates the payload after render decodes it.
func (r *SaveTestRequest) Bind(_ *http.Request) error {
	r.Topic = strings.TrimSpace(r.Topic)
	r.ArticleTitle = strings.TrimSpace(r.ArticleTitle)

	switch {
	case r.Topic == "":
		return errors.New("topic is required")
	case r.WPM < 0:
		return errors.New("wpm must not be negative")
	case r.Accuracy < 0 || r.Accuracy > 100:
		return errors.New("accuracy must be between 0 and 100")
	case r.Time < 0:
		return errors.New("time must not be negative")
	}
	return nil
}

// Metrics is the slice of a test used for aggregation.
type Metrics struct {
	WPM      int
	Accuracy int
	Time     int
}

type Stats struct {
	TotalTests      int `json:"total_tests"`
	AverageWPM      int `json:"average_wpm"`
	AverageAccuracy int `json:"average_accuracy"`
	TotalTime       int `json:"total_time"`
}

type History struct {
	Tests []TestResult `json:"tests"`
}

type SaveResponse struct {
	Success bool       `json:"success"`
	Test    TestResult `json:"test"`
}

// Render refuses to report success for a record the store did not identify.
func (s *SaveResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if s.Test.ID == "" {
		return errors.New("saved test has no id")
	}
	return nil
}
