package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	"github.com/deepbrowser/deepbrowser-server/internal/http/response"
	"github.com/deepbrowser/deepbrowser-server/internal/id"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUser contextKey = "user"

const (
	sessionCookieName = "session_token"
	guestCookieName   = "guest_id"
)

// extractToken pulls the session token from the request: the session cookie
// wins, the Authorization bearer header is the fallback.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// requireAuth rejects requests that do not resolve to a real user.
// Guests never pass; bad tokens and valid tokens behave identically from the
// caller's perspective except for the 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.services.Auth.Resolve(r.Context(), extractToken(r))
		if user == nil {
			response.Unauthorized(w, "Not authenticated", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withIdentity resolves the acting identity, substituting a guest when no
// valid session is presented. It never rejects.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.services.Auth.Resolve(r.Context(), extractToken(r))
		if user == nil {
			user = s.guestIdentity(w, r)
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// guestIdentity returns the identity anonymous requests act as. Under the
// shared policy every guest is the same well-known pseudo-user; under the
// isolated policy each browser gets its own guest ID, carried in a cookie.
func (s *Server) guestIdentity(w http.ResponseWriter, r *http.Request) *domain.User {
	if s.cfg.Auth.GuestPolicy != config.GuestIsolated {
		return &domain.User{ID: domain.GuestUserID, Name: "Guest"}
	}

	if cookie, err := r.Cookie(guestCookieName); err == nil && domain.IsGuestID(cookie.Value) {
		return &domain.User{ID: cookie.Value, Name: "Guest"}
	}

	guestID, err := id.Generate("guest")
	if err != nil {
		// ID generation only fails when the system RNG does; fall back to
		// the shared guest rather than erroring an anonymous request.
		s.logger.Error("failed to mint guest ID", "error", err)
		return &domain.User{ID: domain.GuestUserID, Name: "Guest"}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    guestID,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return &domain.User{ID: guestID, Name: "Guest"}
}

// actingUser extracts the resolved identity from request context.
func actingUser(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(contextKeyUser).(*domain.User); ok {
		return user
	}
	return nil
}
