package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
)

func TestNotes_CreateAndList_SortedByUpdatedAt(t *testing.T) {
	s := setupTestStore(t)
	notes := service.NewNoteService(s, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	first, err := notes.Create(ctx, "user-1", service.CreateNoteRequest{Content: "first", Title: "First"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	second, err := notes.Create(ctx, "user-1", service.CreateNoteRequest{Content: "second"})
	require.NoError(t, err)

	listed, err := notes.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, second.ID, listed[0].ID)

	// Updating the older note moves it to the front.
	time.Sleep(5 * time.Millisecond)
	body := "first, edited"
	_, err = notes.Update(ctx, "user-1", first.ID, service.UpdateNoteRequest{Content: &body})
	require.NoError(t, err)

	listed, err = notes.List(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, first.ID, listed[0].ID)
	require.Equal(t, "first, edited", listed[0].Content)
}

func TestNotes_Create_Validation(t *testing.T) {
	s := setupTestStore(t)
	notes := service.NewNoteService(s, slog.New(slog.DiscardHandler))

	_, err := notes.Create(context.Background(), "user-1", service.CreateNoteRequest{})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestNotes_TenantIsolation(t *testing.T) {
	s := setupTestStore(t)
	notes := service.NewNoteService(s, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	note, err := notes.Create(ctx, "user-1", service.CreateNoteRequest{Content: "private"})
	require.NoError(t, err)

	// Another user's listing is empty.
	other, err := notes.List(ctx, "user-2")
	require.NoError(t, err)
	require.Empty(t, other)

	// Cross-tenant update and delete behave exactly like a missing note.
	title := "stolen"
	_, err = notes.Update(ctx, "user-2", note.ID, service.UpdateNoteRequest{Title: &title})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = notes.Delete(ctx, "user-2", note.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The owner still sees the untouched note.
	listed, err := notes.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "private", listed[0].Content)
}

func TestNotes_DeleteMissing(t *testing.T) {
	s := setupTestStore(t)
	notes := service.NewNoteService(s, slog.New(slog.DiscardHandler))

	err := notes.Delete(context.Background(), "user-1", "note-missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestHistory_LimitAndClear(t *testing.T) {
	s := setupTestStore(t)
	history := service.NewHistoryService(s, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	for range 3 {
		_, err := history.Add(ctx, "user-1", service.AddHistoryRequest{URL: "https://example.com", Title: "Example"})
		require.NoError(t, err)
	}

	listed, err := history.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 3)

	require.NoError(t, history.Clear(ctx, "user-1"))

	listed, err = history.List(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestSettings_DefaultsOnFirstRead(t *testing.T) {
	s := setupTestStore(t)
	settings := service.NewUserSettingsService(s, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	got, err := settings.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "dark", got.Theme)
	require.Equal(t, "medium", got.FontSize)
	require.Equal(t, "comfortable", got.SpacingDensity)
	require.Equal(t, "google", got.DefaultSearchEngine)

	theme := "light"
	updated, err := settings.Update(ctx, "user-1", service.UpdateSettingsRequest{Theme: &theme})
	require.NoError(t, err)
	require.Equal(t, "light", updated.Theme)
	require.Equal(t, "medium", updated.FontSize)

	// The update persisted.
	got, err = settings.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "light", got.Theme)
}

func TestClips_WorkspaceFilter(t *testing.T) {
	s := setupTestStore(t)
	clips := service.NewClipService(s, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	_, err := clips.Create(ctx, "user-1", service.CreateClipRequest{Content: "in ws", WorkspaceID: "workspace-a"})
	require.NoError(t, err)
	_, err = clips.Create(ctx, "user-1", service.CreateClipRequest{Content: "loose"})
	require.NoError(t, err)

	all, err := clips.List(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	scoped, err := clips.List(ctx, "user-1", "workspace-a")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, "in ws", scoped[0].Content)
}
