package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractToken_CookieWinsOverHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", extractToken(r))
}

func TestExtractToken_BearerFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "header-token", extractToken(r))
}

func TestExtractToken_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"no scheme", "just-a-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Empty(t, extractToken(r))
		})
	}
}

func TestGuestIdentity_SharedPolicy(t *testing.T) {
	server := setupTestServer(t, nil, nil)

	// Two anonymous requests act as the same shared guest.
	w1, env1 := doJSON(t, server, http.MethodPost, "/api/notes", `{"content":"one"}`, nil)
	assert.Equal(t, http.StatusCreated, w1.Code)

	_, env2 := doJSON(t, server, http.MethodGet, "/api/notes", "", nil)

	note1, ok := env1.Data.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "guest_user", note1["user_id"])

	notes, ok := env2.Data.([]any)
	assert.True(t, ok)
	assert.Len(t, notes, 1)
}
