// Package store implements the document store on top of an embedded Badger database.
//
// Every record is a JSON document under a type prefix. Secondary indexes
// (unique lookups and per-owner listings) are maintained as extra keys inside
// the same transaction as the primary write. The owner index is the sole
// isolation boundary between tenants: all per-user queries go through it.
package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
)

// Store wraps a Badger database instance and exposes typed entities.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Users         *Entity[domain.User]
	Sessions      *Entity[domain.Session]
	Workspaces    *Entity[domain.Workspace]
	Clips         *Entity[domain.Clip]
	Notes         *Entity[domain.Note]
	Tasks         *Entity[domain.Task]
	Bookmarks     *Entity[domain.Bookmark]
	History       *Entity[domain.HistoryEntry]
	Settings      *Entity[domain.Settings]
	FocusSessions *Entity[domain.FocusSession]
	PageSummaries *Entity[domain.PageSummary]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.initEntities()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// initEntities wires the typed entities and their indexes.
// Users get a unique, case-insensitive email index; sessions are keyed by
// token with a per-user index; resource records carry a per-owner index.
func (s *Store) initEntities() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithUniqueIndex("email",
			func(u *domain.User) string { return normalizeEmail(u.Email) },
			normalizeEmail,
		)

	s.Sessions = NewEntity[domain.Session](s, "session:").
		WithOwner(func(sess *domain.Session) string { return sess.UserID })

	s.Workspaces = NewEntity[domain.Workspace](s, "ws:").
		WithOwner(func(w *domain.Workspace) string { return w.UserID })

	s.Clips = NewEntity[domain.Clip](s, "clip:").
		WithOwner(func(c *domain.Clip) string { return c.UserID })

	s.Notes = NewEntity[domain.Note](s, "note:").
		WithOwner(func(n *domain.Note) string { return n.UserID })

	s.Tasks = NewEntity[domain.Task](s, "task:").
		WithOwner(func(t *domain.Task) string { return t.UserID })

	s.Bookmarks = NewEntity[domain.Bookmark](s, "bm:").
		WithOwner(func(b *domain.Bookmark) string { return b.UserID })

	s.History = NewEntity[domain.HistoryEntry](s, "hist:").
		WithOwner(func(h *domain.HistoryEntry) string { return h.UserID })

	// Settings are keyed by user ID directly; no owner index needed.
	s.Settings = NewEntity[domain.Settings](s, "settings:")

	s.FocusSessions = NewEntity[domain.FocusSession](s, "focus:").
		WithOwner(func(f *domain.FocusSession) string { return f.UserID })

	s.PageSummaries = NewEntity[domain.PageSummary](s, "summary:").
		WithOwner(func(p *domain.PageSummary) string { return p.UserID })
}

// normalizeEmail lowercases and trims an email for case-insensitive matching.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeleteExpiredSessions removes all expired session rows (periodic sweep).
// The resolver also purges lazily on lookup; this closes the gap for tokens
// that are never presented again.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	prefix := []byte(s.Sessions.prefix)
	var expired []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			if isIndexKey(s.Sessions.prefix, key) {
				continue
			}

			err := it.Item().Value(func(val []byte) error {
				var sess domain.Session
				if unmarshalErr := json.Unmarshal(val, &sess); unmarshalErr != nil {
					// Skip malformed rows rather than aborting the sweep.
					return nil
				}
				if sess.IsExpired() {
					expired = append(expired, sess.Token)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("find expired sessions: %w", err)
	}

	deleted := 0
	for _, token := range expired {
		if err := s.Sessions.Delete(ctx, token); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to delete expired session", "error", err)
			}
			continue
		}
		deleted++
	}

	return deleted, nil
}

// Sentinel errors, aliased from the domain error package so callers can use a
// single errors.Is vocabulary across store and service layers.
var (
	ErrNotFound      = domainerrors.ErrNotFound
	ErrAlreadyExists = domainerrors.ErrAlreadyExists
)
