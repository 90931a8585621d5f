package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/folio/internal/adapters/driven/config/file"
	"github.com/custodia-labs/folio/internal/adapters/driven/contentstore"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/folio/internal/adapters/driven/upstream"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/services"
	"github.com/custodia-labs/folio/internal/logger"
)

// runtime holds what a command needs once the configuration is resolved.
type runtime struct {
	store    *file.ConfigStore
	settings *services.SettingsService
	config   domain.Config
	closers  []io.Closer
}

// loadRuntime opens the config file and resolves the effective configuration.
func loadRuntime() (*runtime, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	settings := services.NewSettingsService(store)
	cfg, err := settings.Get()
	if err != nil {
		return nil, fmt.Errorf("resolving config from %s: %w", store.Path(), err)
	}

	if err := logger.SetFormat(cfg.Log.Format); err != nil {
		return nil, err
	}
	logger.SetVerbose(verbose || cfg.Log.Verbose)
	logger.Debug("config loaded from %s", store.Path())

	return &runtime{store: store, settings: settings, config: cfg}, nil
}

// contentSource returns a content store client honouring the configured
// timeout and polling limit.
func (rt *runtime) contentSource() *contentstore.Client {
	up := upstream.NewClient(upstream.Config{
		Timeout:           rt.config.Content.Timeout,
		Accept:            upstream.AcceptSuccess,
		RequestsPerSecond: rt.config.Content.RequestsPerSecond,
		Burst:             rt.config.Content.Burst,
	})
	return contentstore.NewClient(rt.config.Content.URL, up)
}

// schedulerStore returns the SQLite state store when state.dir is set and
// an in-memory store otherwise.
func (rt *runtime) schedulerStore() (driven.SchedulerStore, error) {
	if rt.config.State.Dir == "" {
		return memory.NewSchedulerStore(), nil
	}
	db, err := sqlite.NewStore(rt.config.State.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	rt.closers = append(rt.closers, db)
	logger.Debug("scheduler state in %s", db.Path())
	return db.SchedulerStore(), nil
}

// watchConfig applies log.verbose changes from the config file until ctx
// is done. The --verbose flag keeps debug output on regardless.
func (rt *runtime) watchConfig(ctx context.Context) {
	go func() {
		err := rt.store.Watch(ctx, func() {
			cfg, err := rt.settings.Get()
			if err != nil {
				logger.Warn("ignoring config change: %v", err)
				return
			}
			logger.SetVerbose(verbose || cfg.Log.Verbose)
			logger.Info("config reloaded (verbose=%t)", logger.IsVerbose())
		})
		if err != nil {
			logger.Warn("config watcher stopped: %v", err)
		}
	}()
}

// Close releases resources opened by the runtime.
func (rt *runtime) Close() error {
	var errs []error
	for _, c := range rt.closers {
		errs = append(errs, c.Close())
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// scheduler creates a scheduler over the configured state store.
func (rt *runtime) scheduler() (*services.Scheduler, error) {
	store, err := rt.schedulerStore()
	if err != nil {
		return nil, err
	}
	return services.NewScheduler(rt.config.SchedulerConfig(), store), nil
}
