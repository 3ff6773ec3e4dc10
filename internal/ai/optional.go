package ai

import (
	"log/slog"

	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/errors"
)

// Optional wraps a completion client that may be absent.
// The decision is made once at startup from configuration; handlers check
// Enabled and fail with a service-unavailable error instead of probing.
type Optional struct {
	client *Client
}

// Configure builds the optional capability. Without an API key the capability
// stays absent and the server runs degraded.
func Configure(cfg config.AIConfig, logger *slog.Logger) Optional {
	if cfg.APIKey == "" {
		logger.Warn("AI API key not configured, AI features disabled")
		return Optional{}
	}

	logger.Info("AI client configured",
		"base_url", cfg.BaseURL,
		"model", cfg.Model,
	)
	return Optional{client: NewClient(cfg, logger)}
}

// Enabled reports whether the completion capability is present.
func (o Optional) Enabled() bool {
	return o.client != nil
}

// Client returns the underlying client, or an unavailable error when the
// capability is absent.
func (o Optional) Client() (*Client, error) {
	if o.client == nil {
		return nil, errors.Unavailable("AI client not configured")
	}
	return o.client, nil
}
