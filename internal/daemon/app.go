// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/petrolab/wellcore/internal/config"
	"github.com/petrolab/wellcore/internal/jobs"
	"github.com/petrolab/wellcore/internal/log"
)

// App owns the long-lived runtime lifecycle (config watching, reload wiring,
// background scanning) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.Holder
	scans        *jobs.Manager
	reloadSignal os.Signal
}

// NewApp creates the App orchestrator.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.Holder, scans *jobs.Manager) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		scans:        scans,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run starts all owned background subsystems and blocks until ctx is
// cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)
	cfg := a.cfgHolder.Get()

	// config watcher is best-effort: startup must not fail without it
	if err := a.cfgHolder.StartWatcher(ctx); err != nil {
		a.logger.Warn().Err(err).Str(log.FieldEvent, "config.watcher_start_failed").Msg("failed to start config watcher")
	}

	// SIGHUP triggers a manual config reload
	if a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str(log.FieldEvent, "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")
					if err := a.cfgHolder.Reload(context.Background()); err != nil {
						a.logger.Warn().
							Err(err).
							Str(log.FieldEvent, "config.reload_failed").
							Msg("config reload failed")
					}
				}
			}
		})
	}

	if a.scans != nil {
		if cfg.ScanOnStart {
			g.Go(func() error {
				if _, err := a.scans.Run(ctx); err != nil {
					// the daemon stays up on a failed initial scan; the API
					// reports the failure and a later scan can recover
					a.logger.Error().
						Err(err).
						Str(log.FieldEvent, "scan.initial_failed").
						Msg("initial scan failed")
				}
				return nil
			})
		}
		if cfg.ScanInterval > 0 {
			a.scans.StartTicker(ctx, cfg.ScanInterval)
		}
		if cfg.Watch {
			if err := a.scans.StartWatcher(ctx); err != nil {
				a.logger.Warn().
					Err(err).
					Str(log.FieldEvent, "scan.watcher_start_failed").
					Msg("failed to start data directory watcher")
			}
		}
	}

	// main server lifecycle
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}
