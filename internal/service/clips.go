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

// ClipService manages captured text clips.
type ClipService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewClipService creates a new clip service.
func NewClipService(store *store.Store, logger *slog.Logger) *ClipService {
	return &ClipService{store: store, logger: logger}
}

// CreateClipRequest contains the new clip's attributes.
type CreateClipRequest struct {
	Content     string   `json:"content" validate:"required"`
	WorkspaceID string   `json:"workspace_id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
}

// List returns the user's clips, newest first, optionally filtered by workspace.
func (s *ClipService) List(ctx context.Context, userID, workspaceID string) ([]*domain.Clip, error) {
	clips, err := s.store.Clips.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}

	if workspaceID != "" {
		filtered := clips[:0]
		for _, c := range clips {
			if c.WorkspaceID == workspaceID {
				filtered = append(filtered, c)
			}
		}
		clips = filtered
	}

	sort.Slice(clips, func(i, j int) bool {
		return clips[i].CreatedAt.After(clips[j].CreatedAt)
	})

	return clips, nil
}

// Create creates a clip for the user.
func (s *ClipService) Create(ctx context.Context, userID string, req CreateClipRequest) (*domain.Clip, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	clipID, err := id.Generate("clip")
	if err != nil {
		return nil, fmt.Errorf("generate clip ID: %w", err)
	}

	clip := domain.NewClip(clipID, userID, req.WorkspaceID, req.Content, req.URL, req.Title, req.Tags)
	if err := s.store.Clips.Create(ctx, clip.ID, clip); err != nil {
		return nil, fmt.Errorf("create clip: %w", err)
	}

	return clip, nil
}

// Delete removes the user's clip. A clip that does not exist or belongs to
// someone else is NotFound either way.
func (s *ClipService) Delete(ctx context.Context, userID, clipID string) error {
	clip, err := s.store.Clips.Get(ctx, clipID)
	if err != nil || clip.UserID != userID {
		return domainerrors.NotFound("clip not found")
	}

	return s.store.Clips.Delete(ctx, clipID)
}
