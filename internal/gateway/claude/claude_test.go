package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newstyping/config"
)

func testConfig(endpoint string) config.SummarizerConfig {
	return config.SummarizerConfig{
		Endpoint: endpoint,
		APIKey:   "sk-test",
		Model:    "claude-haiku-4-5-20251001",
	}
}

func TestSummarizeSendsMessagesRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-haiku-4-5-20251001", req.Model)
		assert.Equal(t, defaultMaxTokens, req.MaxTokens)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "Summarize this news article in 100-150 words:\n\nthe article text", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"A tidy summary."}]}`))
	}))
	defer srv.Close()

	got, err := New(testConfig(srv.URL), time.Second).Summarize(context.Background(), "the article text", 100, 150)
	require.NoError(t, err)
	assert.Equal(t, "A tidy summary.", got)
}

func TestSummarizeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL), time.Second).Summarize(context.Background(), "text", 100, 150)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestSummarizeEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL), time.Second).Summarize(context.Background(), "text", 100, 150)
	assert.Error(t, err)
}

func TestSummarizeMisconfigured(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.APIKey = ""
	_, err := New(cfg, 0).Summarize(context.Background(), "text", 100, 150)
	assert.Error(t, err)
}
