// Package app wires configuration, storage, state and the HTTP client
// together. It is the only place that knows which concrete backends exist.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/localtodo/internal/config"
	"github.com/Makepad-fr/localtodo/internal/logging"
	"github.com/Makepad-fr/localtodo/internal/metrics"
	"github.com/Makepad-fr/localtodo/internal/request"
	"github.com/Makepad-fr/localtodo/internal/state"
	"github.com/Makepad-fr/localtodo/internal/store"
	"github.com/Makepad-fr/localtodo/internal/store/jsonstore"
	"github.com/Makepad-fr/localtodo/internal/store/memstore"
	"github.com/Makepad-fr/localtodo/internal/store/sqlitestore"
)

// App owns the long-lived collaborators of one CLI invocation.
type App struct {
	Config  config.Config
	Logger  *log.Logger
	Storage store.Storage
	Client  *request.Client
	Metrics *metrics.PrometheusRecorder

	root    *state.Root
	closers []func() error
}

// New opens storage and builds the HTTP client. State modules are not built
// until State is called, so a broken stored value does not stop commands
// that only need storage.
func New(cfg config.Config, logw io.Writer) (*App, error) {
	logger, err := logging.New(logw, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewPrometheusRecorder(nil),
	}

	raw, closer, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.Storage = metrics.Instrument(raw, a.Metrics, logger.WithPrefix("storage"))

	a.Client, err = request.New(request.Config{
		BaseURL: cfg.BaseAPI,
		Timeout: cfg.Timeout(),
		Token:   cfg.Token,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	logger.Debug("app ready", "backend", cfg.Backend, "data_dir", cfg.DataDir, "config", cfg.Source)
	return a, nil
}

// OpenStorage builds the backend named by cfg.Backend. The returned closer
// may be nil.
func OpenStorage(cfg config.Config) (store.Storage, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return jsonstore.New(cfg.DataDir, cfg.QuotaBytes), nil, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, store.Unavailable("mkdir", err)
		}
		s, err := sqlitestore.Open(cfg.DataDir, cfg.QuotaBytes)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendMemory:
		return memstore.New(cfg.QuotaBytes), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// State constructs the state root on first use. The todo module loads from
// storage here; a load failure is returned and retried on the next call.
func (a *App) State() (*state.Root, error) {
	if a.root != nil {
		return a.root, nil
	}
	todo, err := state.NewTodoModule(a.Storage, state.WithLogger(a.Logger.WithPrefix("state")))
	if err != nil {
		return nil, err
	}
	root, err := state.NewRoot(todo)
	if err != nil {
		return nil, err
	}
	a.root = root
	return root, nil
}

// Todo is shorthand for State().Todo().
func (a *App) Todo() (*state.TodoModule, error) {
	root, err := a.State()
	if err != nil {
		return nil, err
	}
	return root.Todo(), nil
}

// Close flushes metrics (when configured) and releases storage.
func (a *App) Close() error {
	var errs []error
	if a.Config.MetricsFile != "" && a.Metrics != nil {
		if err := a.Metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
