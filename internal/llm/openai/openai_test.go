package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftwise/internal/config"
	"draftwise/internal/llm"
	"draftwise/internal/llm/openai"
	"draftwise/internal/port"
)

func newServer(t *testing.T, h http.HandlerFunc) *openai.Model {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return openai.New(&config.ProviderConfig{APIKey: "test-key", BaseURL: srv.URL, TimeoutSecs: 5})
}

func TestComplete_Success(t *testing.T) {
	m := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body["model"])
		assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"},"finish_reason":"stop"}]}`))
	})

	out, err := m.Complete(context.Background(), "hello", port.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestComplete_TextFormatOmitsResponseFormat(t *testing.T) {
	m := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, present := body["response_format"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi"},"finish_reason":"stop"}]}`))
	})

	out, err := m.Complete(context.Background(), "hello", port.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestComplete_RateLimited(t *testing.T) {
	m := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	})

	_, err := m.Complete(context.Background(), "hello", port.FormatJSON)

	var rl *llm.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
	assert.True(t, llm.IsTransient(err))
}

func TestComplete_ServerError(t *testing.T) {
	m := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := m.Complete(context.Background(), "hello", port.FormatJSON)

	var se *llm.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestComplete_Truncated(t *testing.T) {
	m := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"a\":"},"finish_reason":"length"}]}`))
	})

	_, err := m.Complete(context.Background(), "hello", port.FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestComplete_NoChoices(t *testing.T) {
	m := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := m.Complete(context.Background(), "hello", port.FormatJSON)
	assert.Error(t, err)
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	_, err := openai.Factory(&config.ProviderConfig{Provider: openai.Name})
	assert.Error(t, err)
}
