// Package guardian reads the newest articles from The Guardian content API.
package guardian

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newstyping/config"
	"newstyping/internal/article/model"
	"newstyping/internal/ports"
)

const (
	// Label is the provenance stored with every Guardian article.
	Label     = "The Guardian"
	userAgent = "News-Typing-App/1.0"
)

// Client implements ports.NewsSource.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ ports.NewsSource = (*Client)(nil)

func New(cfg config.GuardianConfig, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return Label }

type searchResponse struct {
	Response struct {
		Status  string   `json:"status"`
		Results []result `json:"results"`
	} `json:"response"`
}

type result struct {
	ID       string `json:"id"`
	WebTitle string `json:"webTitle"`
	WebURL   string `json:"webUrl"`
	Fields   struct {
		Body      string `json:"body"`
		Headline  string `json:"headline"`
		TrailText string `json:"trailText"`
	} `json:"fields"`
}

// Latest returns up to limit articles, newest first.
func (c *Client) Latest(ctx context.Context, limit int) ([]model.SourceArticle, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return nil, fmt.Errorf("guardian client misconfigured")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse guardian endpoint: %w", err)
	}
	q := u.Query()
	q.Set("api-key", c.apiKey)
	q.Set("show-fields", "body,headline,trailText")
	q.Set("page-size", strconv.Itoa(limit))
	q.Set("order-by", "newest")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guardian request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("guardian error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode guardian response: %w", err)
	}

	articles := make([]model.SourceArticle, 0, len(sr.Response.Results))
	for _, r := range sr.Response.Results {
		articles = append(articles, model.SourceArticle{
			ID:        r.ID,
			WebTitle:  r.WebTitle,
			WebURL:    r.WebURL,
			Body:      r.Fields.Body,
			TrailText: r.Fields.TrailText,
			Headline:  r.Fields.Headline,
		})
	}
	return articles, nil
}
