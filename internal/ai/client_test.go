package ai_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepbrowser/deepbrowser-server/internal/ai"
	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/errors"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "fence with payload on first line",
			input: "```{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```json\n{\"a\": 1}\n```\n  ",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ai.StripFences(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", ai.Truncate("abc", 10))
	assert.Equal(t, "abcde", ai.Truncate("abcdefgh", 5))
}

func testClient(t *testing.T, srvURL string) *ai.Client {
	t.Helper()
	return ai.NewClient(config.AIConfig{
		BaseURL: srvURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, slog.New(slog.DiscardHandler))
}

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	content, err := c.Complete(context.Background(), []ai.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	require.Equal(t, "hello", content)
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	_, err := c.Complete(context.Background(), []ai.Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	require.Equal(t, http.StatusBadGateway, errors.HTTPStatus(err))
}

func TestCompleteJSON_FencedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + "```json\\n{\\\"topic\\\":\\\"go\\\"}\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	var out struct {
		Topic string `json:"topic"`
	}
	err := c.CompleteJSON(context.Background(), []ai.Message{{Role: "user", Content: "analyze"}}, &out)
	require.NoError(t, err)
	require.Equal(t, "go", out.Topic)
}

func TestCompleteJSON_UnparseableReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"sorry, I cannot do that"}}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	var out map[string]any
	err := c.CompleteJSON(context.Background(), []ai.Message{{Role: "user", Content: "analyze"}}, &out)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))

	// The raw reply rides along for diagnosis.
	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	require.Contains(t, domainErr.Details, "sorry")
}

func TestOptional(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	absent := ai.Configure(config.AIConfig{}, logger)
	require.False(t, absent.Enabled())
	_, err := absent.Client()
	require.Equal(t, http.StatusServiceUnavailable, errors.HTTPStatus(err))

	present := ai.Configure(config.AIConfig{APIKey: "k", BaseURL: "http://x", Model: "m", Timeout: time.Second}, logger)
	require.True(t, present.Enabled())
	c, err := present.Client()
	require.NoError(t, err)
	require.NotNil(t, c)
}
