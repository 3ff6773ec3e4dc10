package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/id"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

// NoteService manages free-form notes.
type NoteService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store *store.Store, logger *slog.Logger) *NoteService {
	return &NoteService{store: store, logger: logger}
}

// CreateNoteRequest contains the new note's attributes.
type CreateNoteRequest struct {
	Content     string `json:"content" validate:"required"`
	Title       string `json:"title"`
	WorkspaceID string `json:"workspace_id"`
}

// UpdateNoteRequest contains the fields a note update may change.
// Nil fields are left untouched.
type UpdateNoteRequest struct {
	Content     *string `json:"content"`
	Title       *string `json:"title"`
	WorkspaceID *string `json:"workspace_id"`
}

// List returns the user's notes, most recently updated first.
func (s *NoteService) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	notes, err := s.store.Notes.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})

	return notes, nil
}

// Create creates a note for the user.
func (s *NoteService) Create(ctx context.Context, userID string, req CreateNoteRequest) (*domain.Note, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	note := domain.NewNote(noteID, userID, req.WorkspaceID, req.Title, req.Content)
	if err := s.store.Notes.Create(ctx, note.ID, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	return note, nil
}

// Update applies a partial update to the user's note and bumps updated_at.
// Someone else's note is indistinguishable from a missing one.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.store.Notes.Get(ctx, noteID)
	if err != nil || note.UserID != userID {
		return nil, domainerrors.NotFound("note not found")
	}

	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.WorkspaceID != nil {
		note.WorkspaceID = *req.WorkspaceID
	}
	note.Touch()

	if err := s.store.Notes.Update(ctx, noteID, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	return note, nil
}

// Delete removes the user's note.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	note, err := s.store.Notes.Get(ctx, noteID)
	if err != nil || note.UserID != userID {
		return domainerrors.NotFound("note not found")
	}

	return s.store.Notes.Delete(ctx, noteID)
}
