package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/id"
	"github.com/deepbrowser/deepbrowser-server/internal/provider"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

// Exchanger exchanges an external session identifier for an identity assertion.
type Exchanger interface {
	Exchange(ctx context.Context, externalSessionID string) (*provider.Assertion, error)
}

// AuthService handles login, identity resolution, and logout.
type AuthService struct {
	store     *store.Store
	exchanger Exchanger
	cfg       config.AuthConfig
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, exchanger Exchanger, cfg config.AuthConfig, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		exchanger: exchanger,
		cfg:       cfg,
		logger:    logger,
	}
}

// AuthResult is the outcome of a successful login.
type AuthResult struct {
	User    *domain.User
	Session *domain.Session
}

// Login exchanges an external session identifier for a local session.
// The user is upserted by email: the first login creates the account, later
// logins refresh display fields only. A fresh opaque token is minted per login,
// so one user may hold several concurrent sessions.
func (s *AuthService) Login(ctx context.Context, externalSessionID string) (*AuthResult, error) {
	assertion, err := s.exchanger.Exchange(ctx, externalSessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.upsertUser(ctx, assertion)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	token := assertion.SessionToken
	if token == "" {
		token = mintToken()
	}
	session := domain.NewSession(user.ID, token, s.cfg.SessionDuration)
	// Put rather than Create: a provider-supplied token may repeat across
	// logins, in which case the session row is refreshed.
	if err := s.store.Sessions.Put(ctx, token, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user logged in",
		"user_id", user.ID,
	)

	return &AuthResult{User: user, Session: session}, nil
}

// upsertUser finds or creates the account for an identity assertion.
// user_id and email are immutable once assigned; name and picture track the
// provider. Concurrent first logins race on the unique email index, so a
// create conflict falls back to one more lookup.
func (s *AuthService) upsertUser(ctx context.Context, assertion *provider.Assertion) (*domain.User, error) {
	existing, err := s.store.Users.GetByIndex(ctx, "email", assertion.Email)
	if err == nil {
		return s.refreshProfile(ctx, existing, assertion)
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := domain.NewUser(userID, assertion.Email, assertion.Name, assertion.Picture)
	err = s.store.Users.Create(ctx, user.ID, user)
	if err == nil {
		s.logger.Info("user created", "user_id", user.ID)
		return user, nil
	}
	if !domainerrors.Is(err, store.ErrAlreadyExists) {
		return nil, err
	}

	// Lost the race to a concurrent first login; the winner's row must exist now.
	existing, lookupErr := s.store.Users.GetByIndex(ctx, "email", assertion.Email)
	if lookupErr != nil {
		return nil, fmt.Errorf("lookup after create conflict: %w", lookupErr)
	}

	return s.refreshProfile(ctx, existing, assertion)
}

// refreshProfile updates mutable display fields when the provider reports
// new values.
func (s *AuthService) refreshProfile(ctx context.Context, user *domain.User, assertion *provider.Assertion) (*domain.User, error) {
	if user.Name == assertion.Name && user.Picture == assertion.Picture {
		return user, nil
	}

	user.Name = assertion.Name
	user.Picture = assertion.Picture
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}

	return user, nil
}

// Resolve maps a presented token to its user. It never errors: bad, expired,
// and orphaned tokens all come back as absent (nil). Expired rows are purged
// on sight.
func (s *AuthService) Resolve(ctx context.Context, token string) *domain.User {
	if token == "" {
		return nil
	}

	session, err := s.store.Sessions.Get(ctx, token)
	if err != nil {
		return nil
	}

	if session.IsExpired() {
		if err := s.store.Sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("failed to purge expired session", "error", err)
		}
		return nil
	}

	user, err := s.store.Users.Get(ctx, session.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Orphaned session; its user no longer exists.
			if delErr := s.store.Sessions.Delete(ctx, token); delErr != nil {
				s.logger.Warn("failed to purge orphaned session", "error", delErr)
			}
		}
		return nil
	}

	return user
}

// Logout deletes the session a token points to. Idempotent: unknown and
// already-deleted tokens succeed silently.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}

	if err := s.store.Sessions.Delete(ctx, token); err != nil {
		s.logger.Warn("failed to delete session on logout", "error", err)
	}
}

// SweepExpired deletes all expired session rows and reports the count.
func (s *AuthService) SweepExpired(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredSessions(ctx)
}

// mintToken generates an opaque, unguessable session token.
func mintToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
