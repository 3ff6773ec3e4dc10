package api

import (
	"net/http"

	"github.com/deepbrowser/deepbrowser-server/internal/http/response"
)

// handleCreateSession exchanges the X-Session-ID header for a local session
// and sets the session cookie.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	externalSessionID := r.Header.Get("X-Session-ID")
	if externalSessionID == "" {
		response.BadRequest(w, "X-Session-ID header required", s.logger)
		return
	}

	result, err := s.services.Auth.Login(r.Context(), externalSessionID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.setSessionCookie(w, result.Session.Token)

	response.Success(w, map[string]any{
		"user":          result.User,
		"session_token": result.Session.Token,
	}, s.logger)
}

// handleMe returns the authenticated user. Guarded by requireAuth.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	response.Success(w, actingUser(r.Context()), s.logger)
}

// handleLogout deletes the presented session, if any, and clears the cookie.
// Always succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.services.Auth.Logout(r.Context(), extractToken(r))
	s.clearSessionCookie(w)

	response.Success(w, map[string]string{"message": "Logged out"}, s.logger)
}

// setSessionCookie installs the HTTP-only session cookie, matching the
// session's seven-day lifetime.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.Auth.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
