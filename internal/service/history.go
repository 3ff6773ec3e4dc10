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

// historyListLimit caps history responses to the most recent visits.
const historyListLimit = 100

// HistoryService manages browsing history.
type HistoryService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(store *store.Store, logger *slog.Logger) *HistoryService {
	return &HistoryService{store: store, logger: logger}
}

// AddHistoryRequest records a page visit.
type AddHistoryRequest struct {
	URL   string `json:"url" validate:"required"`
	Title string `json:"title"`
}

// List returns the user's most recent visits, newest first, capped at 100.
func (s *HistoryService) List(ctx context.Context, userID string) ([]*domain.HistoryEntry, error) {
	entries, err := s.store.History.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].VisitedAt.After(entries[j].VisitedAt)
	})

	if len(entries) > historyListLimit {
		entries = entries[:historyListLimit]
	}

	return entries, nil
}

// Add records a visit for the user.
func (s *HistoryService) Add(ctx context.Context, userID string, req AddHistoryRequest) (*domain.HistoryEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	entryID, err := id.Generate("history")
	if err != nil {
		return nil, fmt.Errorf("generate history ID: %w", err)
	}

	entry := domain.NewHistoryEntry(entryID, userID, req.URL, req.Title)
	if err := s.store.History.Create(ctx, entry.ID, entry); err != nil {
		return nil, fmt.Errorf("add history entry: %w", err)
	}

	return entry, nil
}

// Clear deletes the user's entire history.
func (s *HistoryService) Clear(ctx context.Context, userID string) error {
	deleted, err := s.store.History.DeleteOwned(ctx, userID)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	s.logger.Debug("history cleared", "user_id", userID, "deleted", deleted)
	return nil
}
