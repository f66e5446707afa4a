package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/storeadmin/internal/api"
	"github.com/five82/storeadmin/internal/config"
	"github.com/five82/storeadmin/internal/mockapi"
	"github.com/five82/storeadmin/internal/persist"
	"github.com/five82/storeadmin/internal/state"
	"github.com/five82/storeadmin/internal/ui"
)

// flushTimeout bounds the final save after the UI exits.
const flushTimeout = 5 * time.Second

// Options configure the console. Zero values keep the config file settings.
type Options struct {
	ConfigPath string
	Autosave   time.Duration
	// MockDelay overrides the simulated backend latency when set.
	MockDelay *time.Duration
}

// Run boots the console and blocks until the UI exits or ctx is cancelled.
// The state snapshot is saved on the way out.
func Run(ctx context.Context, opts Options) (err error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Autosave > 0 {
		cfg.Autosave = opts.Autosave
	}
	if opts.MockDelay != nil {
		cfg.MockDelay = *opts.MockDelay
	}

	logger, logFile, err := openActivityLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	storage, err := persist.Open(persist.Backend(cfg.Storage), cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open state storage: %w", err)
	}
	defer func() { _ = storage.Close() }()

	store := state.NewStore(state.ParseTheme(cfg.Theme))
	persistor := persist.NewPersistor(store, storage, logger)
	if _, err := persistor.Rehydrate(ctx); err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	dispatcher := state.NewDispatcher(store, client, client, state.WithLogger(logger))

	runCtx, stop := context.WithCancel(ctx)
	autosaved := StartAutosave(runCtx, persistor, cfg.Autosave, logger)
	defer func() {
		stop()
		<-autosaved

		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if _, ferr := persistor.Flush(flushCtx); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	return ui.Run(ui.Options{
		Context:     runCtx,
		Dispatcher:  dispatcher,
		ActivityLog: cfg.LogFile,
	})
}

// newClient returns a client for the configured API, or for an in-process
// mock backend when no API base is set.
func newClient(cfg config.Config) (*api.Client, error) {
	if cfg.APIBase != "" {
		client, err := api.NewClient(cfg.APIBase)
		if err != nil {
			return nil, fmt.Errorf("init api client: %w", err)
		}
		return client, nil
	}

	mode, err := mockapi.ParseMode(cfg.MockRoutes)
	if err != nil {
		return nil, err
	}
	srv, err := mockapi.New(mockapi.WithDelay(cfg.MockDelay), mockapi.WithMode(mode))
	if err != nil {
		return nil, fmt.Errorf("init mock backend: %w", err)
	}
	client, err := api.NewClient("", api.WithTransport(mockapi.Transport(srv)))
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	return client, nil
}

// openActivityLog opens path for appending and returns a logger writing to
// it. The terminal belongs to the UI, so nothing is logged to stderr.
func openActivityLog(path string) (*log.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open activity log: %w", err)
	}
	return log.New(f, "", log.LstdFlags), f, nil
}
