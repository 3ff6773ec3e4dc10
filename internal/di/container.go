// Package di provides dependency injection configuration for the DeepBrowser server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/deepbrowser/deepbrowser-server/internal/ai"
	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/di/providers"
	"github.com/deepbrowser/deepbrowser-server/internal/fetch"
	"github.com/deepbrowser/deepbrowser-server/internal/logger"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Outbound clients
	do.Provide(injector, providers.ProvideIdentityClient)
	do.Provide(injector, providers.ProvideAICapability)
	do.Provide(injector, providers.ProvideFetchClient)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideWorkspaceService)
	do.Provide(injector, providers.ProvideClipService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideTaskService)
	do.Provide(injector, providers.ProvideBookmarkService)
	do.Provide(injector, providers.ProvideHistoryService)
	do.Provide(injector, providers.ProvideUserSettingsService)
	do.Provide(injector, providers.ProvideFocusService)
	do.Provide(injector, providers.ProvideAssistService)

	// Workers
	do.Provide(injector, providers.ProvideSessionSweepJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once everything is running.
// This triggers lazy initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	_ = do.MustInvoke[ai.Optional](injector)
	_ = do.MustInvoke[*fetch.Client](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.WorkspaceService](injector)
	_ = do.MustInvoke[*service.ClipService](injector)
	_ = do.MustInvoke[*service.NoteService](injector)
	_ = do.MustInvoke[*service.TaskService](injector)
	_ = do.MustInvoke[*service.BookmarkService](injector)
	_ = do.MustInvoke[*service.HistoryService](injector)
	_ = do.MustInvoke[*service.UserSettingsService](injector)
	_ = do.MustInvoke[*service.FocusService](injector)
	_ = do.MustInvoke[*service.AssistService](injector)

	_ = do.MustInvoke[*providers.SessionSweepJob](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
