package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	"github.com/deepbrowser/deepbrowser-server/internal/id"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

// WorkspaceService manages per-user workspaces.
type WorkspaceService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewWorkspaceService creates a new workspace service.
func NewWorkspaceService(store *store.Store, logger *slog.Logger) *WorkspaceService {
	return &WorkspaceService{store: store, logger: logger}
}

// CreateWorkspaceRequest contains the new workspace's attributes.
type CreateWorkspaceRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// List returns the user's workspaces, newest first.
func (s *WorkspaceService) List(ctx context.Context, userID string) ([]*domain.Workspace, error) {
	workspaces, err := s.store.Workspaces.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	sort.Slice(workspaces, func(i, j int) bool {
		return workspaces[i].CreatedAt.After(workspaces[j].CreatedAt)
	})

	return workspaces, nil
}

// Create creates a workspace for the user.
func (s *WorkspaceService) Create(ctx context.Context, userID string, req CreateWorkspaceRequest) (*domain.Workspace, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	workspaceID, err := id.Generate("workspace")
	if err != nil {
		return nil, fmt.Errorf("generate workspace ID: %w", err)
	}

	workspace := domain.NewWorkspace(workspaceID, userID, req.Name, req.Description)
	if err := s.store.Workspaces.Create(ctx, workspace.ID, workspace); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return workspace, nil
}
