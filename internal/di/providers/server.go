package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/deepbrowser/deepbrowser-server/internal/api"
	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/fetch"
	"github.com/deepbrowser/deepbrowser-server/internal/logger"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server, started in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	fetcher := do.MustInvoke[*fetch.Client](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Workspaces: do.MustInvoke[*service.WorkspaceService](i),
		Clips:      do.MustInvoke[*service.ClipService](i),
		Notes:      do.MustInvoke[*service.NoteService](i),
		Tasks:      do.MustInvoke[*service.TaskService](i),
		Bookmarks:  do.MustInvoke[*service.BookmarkService](i),
		History:    do.MustInvoke[*service.HistoryService](i),
		Settings:   do.MustInvoke[*service.UserSettingsService](i),
		Focus:      do.MustInvoke[*service.FocusService](i),
		Assist:     do.MustInvoke[*service.AssistService](i),
	}

	handler := api.NewServer(services, fetcher, cfg, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
