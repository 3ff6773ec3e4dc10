package provider_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/provider"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestExchange_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "ext-session-1", r.Header.Get("X-Session-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"jane@example.com","name":"Jane","picture":"https://img.example.com/j.png"}`))
	}))
	defer srv.Close()

	c := provider.NewClient(srv.URL, 5*time.Second, discardLogger())

	assertion, err := c.Exchange(context.Background(), "ext-session-1")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", assertion.Email)
	require.Equal(t, "Jane", assertion.Name)
	require.Equal(t, "https://img.example.com/j.png", assertion.Picture)
}

func TestExchange_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := provider.NewClient(srv.URL, 5*time.Second, discardLogger())

	_, err := c.Exchange(context.Background(), "bad-session")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, errors.HTTPStatus(err))
}

func TestExchange_MissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"No Email"}`))
	}))
	defer srv.Close()

	c := provider.NewClient(srv.URL, 5*time.Second, discardLogger())

	_, err := c.Exchange(context.Background(), "ext-session-1")
	require.Error(t, err)
	require.Equal(t, http.StatusBadGateway, errors.HTTPStatus(err))
}

func TestExchange_NotConfigured(t *testing.T) {
	c := provider.NewClient("", 5*time.Second, discardLogger())

	_, err := c.Exchange(context.Background(), "ext-session-1")
	require.Error(t, err)
	require.Equal(t, http.StatusServiceUnavailable, errors.HTTPStatus(err))
}

func TestExchange_EmptySessionID(t *testing.T) {
	c := provider.NewClient("http://127.0.0.1:1", 5*time.Second, discardLogger())

	_, err := c.Exchange(context.Background(), "")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, errors.HTTPStatus(err))
}
