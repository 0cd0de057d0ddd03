// Package claude summarizes article text with the Anthropic Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newstyping/config"
	"newstyping/internal/ports"
)

const (
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 500
	summarizePrompt  = "Summarize this news article in %d-%d words:\n\n%s"
)

// Client implements ports.Summarizer.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

var _ ports.Summarizer = (*Client)(nil)

func New(cfg config.SummarizerConfig, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Summarize asks the model for a minWords-maxWords summary and returns the
// first text block of the reply.
func (c *Client) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("claude client misconfigured")
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: fmt.Sprintf(summarizePrompt, minWords, maxWords, text)}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal claude payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("claude API %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var mr messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("decode claude response: %w", err)
	}
	if len(mr.Content) == 0 {
		return "", fmt.Errorf("empty claude response")
	}
	return mr.Content[0].Text, nil
}
