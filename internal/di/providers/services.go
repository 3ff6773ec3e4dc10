package providers

import (
	"github.com/samber/do/v2"

	"github.com/deepbrowser/deepbrowser-server/internal/ai"
	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/fetch"
	"github.com/deepbrowser/deepbrowser-server/internal/logger"
	"github.com/deepbrowser/deepbrowser-server/internal/provider"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
)

// ProvideAuthService provides the session and identity service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	identityClient := do.MustInvoke[*provider.Client](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, identityClient, cfg.Auth, log.Logger), nil
}

// ProvideWorkspaceService provides the workspace service.
func ProvideWorkspaceService(i do.Injector) (*service.WorkspaceService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewWorkspaceService(storeHandle.Store, log.Logger), nil
}

// ProvideClipService provides the clip service.
func ProvideClipService(i do.Injector) (*service.ClipService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewClipService(storeHandle.Store, log.Logger), nil
}

// ProvideNoteService provides the note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, log.Logger), nil
}

// ProvideTaskService provides the task service.
func ProvideTaskService(i do.Injector) (*service.TaskService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTaskService(storeHandle.Store, log.Logger), nil
}

// ProvideBookmarkService provides the bookmark service.
func ProvideBookmarkService(i do.Injector) (*service.BookmarkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookmarkService(storeHandle.Store, log.Logger), nil
}

// ProvideHistoryService provides the browsing-history service.
func ProvideHistoryService(i do.Injector) (*service.HistoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHistoryService(storeHandle.Store, log.Logger), nil
}

// ProvideUserSettingsService provides the per-user settings service.
func ProvideUserSettingsService(i do.Injector) (*service.UserSettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserSettingsService(storeHandle.Store, log.Logger), nil
}

// ProvideFocusService provides the focus-session service.
func ProvideFocusService(i do.Injector) (*service.FocusService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFocusService(storeHandle.Store, log.Logger), nil
}

// ProvideAssistService provides the model-backed assist service.
func ProvideAssistService(i do.Injector) (*service.AssistService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	optional := do.MustInvoke[ai.Optional](i)
	fetcher := do.MustInvoke[*fetch.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAssistService(storeHandle.Store, optional, fetcher, log.Logger), nil
}
