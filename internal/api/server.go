// Package api provides the HTTP API server and handlers for the DeepBrowser backend.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/fetch"
	"github.com/deepbrowser/deepbrowser-server/internal/http/response"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
)

// Services bundles the service dependencies handlers need.
type Services struct {
	Auth       *service.AuthService
	Workspaces *service.WorkspaceService
	Clips      *service.ClipService
	Notes      *service.NoteService
	Tasks      *service.TaskService
	Bookmarks  *service.BookmarkService
	History    *service.HistoryService
	Settings   *service.UserSettingsService
	Focus      *service.FocusService
	Assist     *service.AssistService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	fetcher  *fetch.Client
	suggest  *suggestClient
	cfg      *config.Config
	router   *chi.Mux
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, fetcher *fetch.Client, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		fetcher:  fetcher,
		suggest:  newSuggestClient(cfg.Fetch.SuggestTimeout, logger),
		cfg:      cfg,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-ID"},
		AllowCredentials: true,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/", s.handleRoot)

		// Auth endpoints.
		r.Post("/auth/session", s.handleCreateSession)
		r.Post("/auth/logout", s.handleLogout)
		r.With(s.requireAuth).Get("/auth/me", s.handleMe)

		// Resource endpoints run as the resolved user or the guest identity.
		r.Group(func(r chi.Router) {
			r.Use(s.withIdentity)

			r.Get("/workspaces", s.handleListWorkspaces)
			r.Post("/workspaces", s.handleCreateWorkspace)

			r.Get("/clips", s.handleListClips)
			r.Post("/clips", s.handleCreateClip)
			r.Delete("/clips/{id}", s.handleDeleteClip)

			r.Get("/notes", s.handleListNotes)
			r.Post("/notes", s.handleCreateNote)
			r.Put("/notes/{id}", s.handleUpdateNote)
			r.Delete("/notes/{id}", s.handleDeleteNote)

			r.Get("/tasks", s.handleListTasks)
			r.Post("/tasks", s.handleCreateTask)
			r.Put("/tasks/{id}", s.handleUpdateTask)
			r.Delete("/tasks/{id}", s.handleDeleteTask)

			r.Get("/bookmarks", s.handleListBookmarks)
			r.Post("/bookmarks", s.handleCreateBookmark)
			r.Delete("/bookmarks/{id}", s.handleDeleteBookmark)

			r.Get("/history", s.handleListHistory)
			r.Post("/history", s.handleAddHistory)
			r.Delete("/history", s.handleClearHistory)

			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleUpdateSettings)

			r.Get("/focus_sessions", s.handleListFocusSessions)
			r.Put("/focus_sessions/{id}", s.handleUpdateFocusSession)

			r.Post("/session_init", s.handleSessionInit)
			r.Post("/summarize_page", s.handleSummarizePage)
			r.Post("/reader_mode", s.handleReaderMode)
		})

		// Passthrough endpoints, no identity needed.
		r.Get("/proxy", s.handleProxy)
		r.Get("/suggestions", s.handleSuggestions)
	})
}

// handleHealthCheck reports liveness.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}

// handleRoot answers the API root probe.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{
		"message": "DeepBrowser API",
		"status":  "ok",
	}, s.logger)
}
