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

// BookmarkService manages saved page references.
type BookmarkService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(store *store.Store, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{store: store, logger: logger}
}

// CreateBookmarkRequest contains the new bookmark's attributes.
type CreateBookmarkRequest struct {
	URL     string   `json:"url" validate:"required"`
	Title   string   `json:"title"`
	Favicon string   `json:"favicon"`
	Tags    []string `json:"tags"`
}

// List returns the user's bookmarks, newest first.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	bookmarks, err := s.store.Bookmarks.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	sort.Slice(bookmarks, func(i, j int) bool {
		return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt)
	})

	return bookmarks, nil
}

// Create creates a bookmark for the user.
func (s *BookmarkService) Create(ctx context.Context, userID string, req CreateBookmarkRequest) (*domain.Bookmark, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	bookmarkID, err := id.Generate("bookmark")
	if err != nil {
		return nil, fmt.Errorf("generate bookmark ID: %w", err)
	}

	bookmark := domain.NewBookmark(bookmarkID, userID, req.URL, req.Title, req.Favicon, req.Tags)
	if err := s.store.Bookmarks.Create(ctx, bookmark.ID, bookmark); err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}

	return bookmark, nil
}

// Delete removes the user's bookmark.
func (s *BookmarkService) Delete(ctx context.Context, userID, bookmarkID string) error {
	bookmark, err := s.store.Bookmarks.Get(ctx, bookmarkID)
	if err != nil || bookmark.UserID != userID {
		return domainerrors.NotFound("bookmark not found")
	}

	return s.store.Bookmarks.Delete(ctx, bookmarkID)
}
