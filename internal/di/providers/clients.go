package providers

import (
	"github.com/samber/do/v2"

	"github.com/deepbrowser/deepbrowser-server/internal/ai"
	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/fetch"
	"github.com/deepbrowser/deepbrowser-server/internal/logger"
	"github.com/deepbrowser/deepbrowser-server/internal/provider"
)

// ProvideIdentityClient provides the identity-provider exchange client.
func ProvideIdentityClient(i do.Injector) (*provider.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.ProviderURL == "" {
		log.Warn("AUTH_PROVIDER_URL not set, session exchange will be unavailable")
	}

	return provider.NewClient(cfg.Auth.ProviderURL, cfg.Auth.ExchangeTimeout, log.Logger), nil
}

// ProvideAICapability provides the optional completion-API client.
func ProvideAICapability(i do.Injector) (ai.Optional, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return ai.Configure(cfg.AI, log.Logger), nil
}

// ProvideFetchClient provides the outbound page fetcher.
func ProvideFetchClient(i do.Injector) (*fetch.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return fetch.NewClient(cfg.Fetch.PageTimeout, log.Logger), nil
}
