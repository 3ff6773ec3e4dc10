package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

// UserSettingsService manages per-user UI preferences.
type UserSettingsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserSettingsService creates a new user settings service.
func NewUserSettingsService(store *store.Store, logger *slog.Logger) *UserSettingsService {
	return &UserSettingsService{store: store, logger: logger}
}

// UpdateSettingsRequest contains the fields a settings update may change.
type UpdateSettingsRequest struct {
	Theme               *string `json:"theme" validate:"omitempty,oneof=dark light"`
	FontSize            *string `json:"font_size" validate:"omitempty,oneof=small medium large"`
	SpacingDensity      *string `json:"spacing_density" validate:"omitempty,oneof=compact comfortable spacious"`
	DefaultSearchEngine *string `json:"default_search_engine"`
}

// Get returns the user's settings, creating the defaults on first read.
func (s *UserSettingsService) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	settings, err := s.store.Settings.Get(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings = domain.DefaultSettings(userID)
	if err := s.store.Settings.Put(ctx, userID, settings); err != nil {
		return nil, fmt.Errorf("create default settings: %w", err)
	}

	return settings, nil
}

// Update applies a partial settings update, creating the row if needed.
func (s *UserSettingsService) Update(ctx context.Context, userID string, req UpdateSettingsRequest) (*domain.Settings, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.FontSize != nil {
		settings.FontSize = *req.FontSize
	}
	if req.SpacingDensity != nil {
		settings.SpacingDensity = *req.SpacingDensity
	}
	if req.DefaultSearchEngine != nil {
		settings.DefaultSearchEngine = *req.DefaultSearchEngine
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := s.store.Settings.Put(ctx, userID, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	return settings, nil
}
