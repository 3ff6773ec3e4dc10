package domain

import (
	"strings"
	"time"
)

// GuestUserID is the shared pseudo-user owning all anonymous data under the
// shared guest policy. It is never present in the users collection.
const GuestUserID = "guest_user"

// guestPrefix marks per-browser guest identities minted under the isolated policy.
const guestPrefix = "guest-"

// IsGuestID reports whether a user ID denotes a guest identity of either policy.
func IsGuestID(id string) bool {
	return id == GuestUserID || strings.HasPrefix(id, guestPrefix)
}

// User represents an account created through the external identity exchange.
// The ID is assigned once; email is the natural key across repeated logins.
type User struct {
	ID        string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a user record with a UTC creation timestamp.
func NewUser(id, email, name, picture string) *User {
	return &User{
		ID:        id,
		Email:     email,
		Name:      name,
		Picture:   picture,
		CreatedAt: time.Now().UTC(),
	}
}

// Session is an opaque bearer credential proving a prior successful login.
// Sessions are keyed by token; one user may hold several concurrent sessions.
type Session struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"session_token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates a session expiring after ttl, with UTC timestamps.
func NewSession(userID, token string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired checks if the session has passed its expiration time.
// Comparison is in UTC; stored timestamps are normalized on write.
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}
