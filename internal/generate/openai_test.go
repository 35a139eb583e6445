package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, status int, body map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completion(content string, usage map[string]any) map[string]any {
	body := map[string]any{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "deepseek-chat",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
	if usage != nil {
		body["usage"] = usage
	}
	return body
}

func newTestOpenAI(url string) *OpenAIClient {
	return NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: url, Model: "deepseek-chat"}, nil)
}

func TestEstimateTokens(t *testing.T) {
	assert.Zero(t, EstimateTokens(""))
	assert.Zero(t, EstimateTokens(" \n\t"))
	assert.Equal(t, 200, EstimateTokens(strings.Repeat("слово ", 100)))
}

func TestOpenAIClient_RecordsReportedUsage(t *testing.T) {
	srv := completionServer(t, http.StatusOK, completion("Текст раздела.", map[string]any{
		"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42,
	}))
	c := newTestOpenAI(srv.URL)

	text, err := c.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "Текст раздела.", text)

	snap := c.Stats().Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(42), snap.TotalTokens)
}

func TestOpenAIClient_EstimatesMissingUsage(t *testing.T) {
	srv := completionServer(t, http.StatusOK, completion("три слова ответа", nil))
	c := newTestOpenAI(srv.URL)

	_, err := c.Complete(context.Background(), "одно", "два слова")
	require.NoError(t, err)
	assert.Equal(t, int64(2*(1+2+3)), c.Stats().Snapshot().TotalTokens)
}

func TestOpenAIClient_ServerErrorIsRetryable(t *testing.T) {
	srv := completionServer(t, http.StatusServiceUnavailable, map[string]any{
		"error": map[string]any{"message": "overloaded", "type": "server_error"},
	})
	c := newTestOpenAI(srv.URL)

	_, err := c.Complete(context.Background(), "system", "user")
	var re *RetryableError
	require.True(t, errors.As(err, &re), "expected RetryableError, got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, re.StatusCode)
}
