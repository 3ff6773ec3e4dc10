package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/deepbrowser/deepbrowser-server/internal/config"
	"github.com/deepbrowser/deepbrowser-server/internal/logger"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
)

// SessionSweepJob runs periodic expired-session cleanup.
type SessionSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionSweepJob provides the periodic expired-session sweep.
// A zero sweep interval disables the job.
func ProvideSessionSweepJob(i do.Injector) (*SessionSweepJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authService := do.MustInvoke[*service.AuthService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.Auth.SweepInterval <= 0 {
		log.Info("Session sweep disabled")
		return &SessionSweepJob{cancel: cancel}, nil
	}

	go func() {
		ticker := time.NewTicker(cfg.Auth.SweepInterval)
		defer ticker.Stop()

		// Initial sweep on startup
		if count, err := authService.SweepExpired(ctx); err != nil {
			log.Warn("Initial session sweep failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session sweep completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := authService.SweepExpired(ctx); err != nil {
					log.Warn("Session sweep failed", "error", err)
				} else if count > 0 {
					log.Info("Session sweep completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session sweep started", "interval", cfg.Auth.SweepInterval)

	return &SessionSweepJob{cancel: cancel}, nil
}
