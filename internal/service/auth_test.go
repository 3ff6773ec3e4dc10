package service_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deepbrowser/deepbrowser-server/internal/config"
	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/provider"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

// fakeExchanger returns a canned assertion or error.
type fakeExchanger struct {
	assertion *provider.Assertion
	err       error
	calls     int
}

func (f *fakeExchanger) Exchange(_ context.Context, _ string) (*provider.Assertion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.assertion, nil
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return s
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SessionDuration: 168 * time.Hour,
		GuestPolicy:     config.GuestShared,
	}
}

func newAuthService(t *testing.T, s *store.Store, exchanger service.Exchanger) *service.AuthService {
	t.Helper()
	return service.NewAuthService(s, exchanger, testAuthConfig(), slog.New(slog.DiscardHandler))
}

func TestLogin_CreatesUserAndSession(t *testing.T) {
	s := setupTestStore(t)
	exchanger := &fakeExchanger{assertion: &provider.Assertion{
		Email: "jane@example.com", Name: "Jane", Picture: "https://img/j.png",
	}}
	auth := newAuthService(t, s, exchanger)

	result, err := auth.Login(context.Background(), "ext-1")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", result.User.Email)
	require.NotEmpty(t, result.Session.Token)
	require.Equal(t, result.User.ID, result.Session.UserID)

	// Expiry is roughly seven days out.
	ttl := time.Until(result.Session.ExpiresAt)
	require.InDelta(t, (168 * time.Hour).Seconds(), ttl.Seconds(), 60)
}

func TestLogin_SameEmailTwice_OneUserTwoSessions(t *testing.T) {
	s := setupTestStore(t)
	exchanger := &fakeExchanger{assertion: &provider.Assertion{
		Email: "jane@example.com", Name: "Jane",
	}}
	auth := newAuthService(t, s, exchanger)

	first, err := auth.Login(context.Background(), "ext-1")
	require.NoError(t, err)

	// Second login refreshes display fields but keeps the identity.
	exchanger.assertion = &provider.Assertion{Email: "jane@example.com", Name: "Jane Doe"}
	second, err := auth.Login(context.Background(), "ext-2")
	require.NoError(t, err)

	require.Equal(t, first.User.ID, second.User.ID)
	require.Equal(t, "Jane Doe", second.User.Name)
	require.NotEqual(t, first.Session.Token, second.Session.Token)

	// Both sessions resolve concurrently.
	require.NotNil(t, auth.Resolve(context.Background(), first.Session.Token))
	require.NotNil(t, auth.Resolve(context.Background(), second.Session.Token))
}

func TestLogin_ProviderRejection(t *testing.T) {
	s := setupTestStore(t)
	exchanger := &fakeExchanger{err: domainerrors.Unauthorized("invalid or expired session")}
	auth := newAuthService(t, s, exchanger)

	_, err := auth.Login(context.Background(), "bad")
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestResolve_ValidToken(t *testing.T) {
	s := setupTestStore(t)
	exchanger := &fakeExchanger{assertion: &provider.Assertion{Email: "a@example.com", Name: "A"}}
	auth := newAuthService(t, s, exchanger)

	result, err := auth.Login(context.Background(), "ext-1")
	require.NoError(t, err)

	user := auth.Resolve(context.Background(), result.Session.Token)
	require.NotNil(t, user)
	require.Equal(t, result.User.ID, user.ID)
}

func TestResolve_UnknownAndEmptyTokens(t *testing.T) {
	s := setupTestStore(t)
	auth := newAuthService(t, s, &fakeExchanger{})

	require.Nil(t, auth.Resolve(context.Background(), ""))
	require.Nil(t, auth.Resolve(context.Background(), "no-such-token"))
}

func TestResolve_ExpiredTokenPurged(t *testing.T) {
	s := setupTestStore(t)
	exchanger := &fakeExchanger{assertion: &provider.Assertion{Email: "a@example.com", Name: "A"}}

	cfg := testAuthConfig()
	cfg.SessionDuration = -time.Hour // Already expired when minted.
	auth := service.NewAuthService(s, exchanger, cfg, slog.New(slog.DiscardHandler))

	result, err := auth.Login(context.Background(), "ext-1")
	require.NoError(t, err)

	require.Nil(t, auth.Resolve(context.Background(), result.Session.Token))

	// Lazy purge removed the row.
	_, err = s.Sessions.Get(context.Background(), result.Session.Token)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolve_OrphanedSession(t *testing.T) {
	s := setupTestStore(t)
	exchanger := &fakeExchanger{assertion: &provider.Assertion{Email: "a@example.com", Name: "A"}}
	auth := newAuthService(t, s, exchanger)

	result, err := auth.Login(context.Background(), "ext-1")
	require.NoError(t, err)

	// Delete the user behind the session.
	require.NoError(t, s.Users.Delete(context.Background(), result.User.ID))

	require.Nil(t, auth.Resolve(context.Background(), result.Session.Token))

	// The orphaned row is purged too.
	_, err = s.Sessions.Get(context.Background(), result.Session.Token)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogout_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	exchanger := &fakeExchanger{assertion: &provider.Assertion{Email: "a@example.com", Name: "A"}}
	auth := newAuthService(t, s, exchanger)

	result, err := auth.Login(context.Background(), "ext-1")
	require.NoError(t, err)

	auth.Logout(context.Background(), result.Session.Token)
	require.Nil(t, auth.Resolve(context.Background(), result.Session.Token))

	// Logging out again, or with garbage, never fails.
	auth.Logout(context.Background(), result.Session.Token)
	auth.Logout(context.Background(), "")
	auth.Logout(context.Background(), "garbage")
}

func TestSweepExpired(t *testing.T) {
	s := setupTestStore(t)
	exchanger := &fakeExchanger{assertion: &provider.Assertion{Email: "a@example.com", Name: "A"}}

	cfg := testAuthConfig()
	cfg.SessionDuration = -time.Hour
	expiredAuth := service.NewAuthService(s, exchanger, cfg, slog.New(slog.DiscardHandler))
	_, err := expiredAuth.Login(context.Background(), "ext-1")
	require.NoError(t, err)

	liveAuth := newAuthService(t, s, exchanger)
	live, err := liveAuth.Login(context.Background(), "ext-2")
	require.NoError(t, err)

	deleted, err := liveAuth.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	require.NotNil(t, liveAuth.Resolve(context.Background(), live.Session.Token))
}
