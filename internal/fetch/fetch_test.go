package fetch_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepbrowser/deepbrowser-server/internal/fetch"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host", "example.com/page", "https://example.com/page"},
		{"bare localhost", "localhost:3000", "http://localhost:3000"},
		{"bare loopback", "127.0.0.1:8080/x", "http://127.0.0.1:8080/x"},
		{"https stays", "https://example.com", "https://example.com"},
		{"http stays", "http://example.com", "http://example.com"},
		{"https localhost downgraded", "https://localhost:3000/app", "http://localhost:3000/app"},
		{"https loopback downgraded", "https://127.0.0.1:3000", "http://127.0.0.1:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fetch.NormalizeURL(tt.in))
		})
	}
}

func TestInjectBaseTag(t *testing.T) {
	t.Run("existing head", func(t *testing.T) {
		out := fetch.InjectBaseTag("<html><head><title>x</title></head><body></body></html>", "https://example.com/")
		assert.Contains(t, out, `<head><base href="https://example.com/"><title>x</title>`)
	})

	t.Run("no head", func(t *testing.T) {
		out := fetch.InjectBaseTag("<html><body>hi</body></html>", "https://example.com/")
		assert.Contains(t, out, `<html><head><base href="https://example.com/"></head><body>`)
	})

	t.Run("fragment untouched", func(t *testing.T) {
		out := fetch.InjectBaseTag("<div>hi</div>", "https://example.com/")
		assert.Equal(t, "<div>hi</div>", out)
	})
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := fetch.NewClient(5*time.Second, slog.New(slog.DiscardHandler))

	page, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", page.ContentType)
	assert.Equal(t, "<html>ok</html>", string(page.Body))
}

func TestGet_ConnRefused(t *testing.T) {
	c := fetch.NewClient(2*time.Second, slog.New(slog.DiscardHandler))

	// Port 1 is essentially never listening.
	_, err := c.Get(context.Background(), "http://127.0.0.1:1/")
	require.Error(t, err)
	assert.True(t, fetch.IsConnRefused(err))
	assert.False(t, fetch.IsTimeout(err))
}
