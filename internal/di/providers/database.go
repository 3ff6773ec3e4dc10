package providers

import (
	"github.com/samber/do/v2"

	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/logger"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := store.New(cfg.Data.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Document store opened", "path", cfg.Data.Path)

	return &StoreHandle{Store: s}, nil
}
