package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

// focusListLimit caps focus session listings.
const focusListLimit = 100

// FocusService manages stored focus sessions. Creation happens through the
// AI session-init flow; this service covers listing and status updates.
type FocusService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFocusService creates a new focus session service.
func NewFocusService(store *store.Store, logger *slog.Logger) *FocusService {
	return &FocusService{store: store, logger: logger}
}

// UpdateFocusSessionRequest contains the fields a focus session update may change.
type UpdateFocusSessionRequest struct {
	Status      *string  `json:"status" validate:"omitempty,oneof=active paused completed"`
	Notes       []string `json:"notes"`
	WorkspaceID *string  `json:"workspace_id"`
}

// List returns the user's focus sessions, newest first, capped at 100.
func (s *FocusService) List(ctx context.Context, userID string) ([]*domain.FocusSession, error) {
	sessions, err := s.store.FocusSessions.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	if len(sessions) > focusListLimit {
		sessions = sessions[:focusListLimit]
	}

	return sessions, nil
}

// Update applies a partial update to the user's focus session.
func (s *FocusService) Update(ctx context.Context, userID, sessionID string, req UpdateFocusSessionRequest) (*domain.FocusSession, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	session, err := s.store.FocusSessions.Get(ctx, sessionID)
	if err != nil || session.UserID != userID {
		return nil, domainerrors.NotFound("focus session not found")
	}

	if req.Status != nil {
		session.Status = *req.Status
	}
	if req.Notes != nil {
		session.Notes = req.Notes
	}
	if req.WorkspaceID != nil {
		session.WorkspaceID = *req.WorkspaceID
	}

	if err := s.store.FocusSessions.Update(ctx, sessionID, session); err != nil {
		return nil, fmt.Errorf("update focus session: %w", err)
	}

	return session, nil
}
