// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artpar/occigate/adapters/idgen"
	"github.com/artpar/occigate/adapters/metrics"
	osclient "github.com/artpar/occigate/adapters/openstack"
	"github.com/artpar/occigate/app"
	"github.com/artpar/occigate/config"
	"github.com/artpar/occigate/core/registry"
	"github.com/artpar/occigate/core/render"
	"github.com/artpar/occigate/web"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Holder     *config.Holder
	HTTPServer *http.Server
	Registry   *registry.Registry
	Metrics    *metrics.Collector

	backend *osclient.Client
}

// New creates and initializes the application from a loaded configuration.
func New(cfg *config.Config) (*App, error) {
	return build(cfg, nil)
}

// NewWithHotReload creates the application with a watched config file.
// Backend settings reload in place; server settings need a restart.
func NewWithHotReload(path string) (*App, error) {
	logger := setupLogger(config.LoggingConfig{Level: "info", Format: "json"})

	holder, err := config.NewHolder(path, logger)
	if err != nil {
		return nil, err
	}

	a, err := build(holder.Get(), holder)
	if err != nil {
		return nil, err
	}

	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return a, nil
}

func build(cfg *config.Config, holder *config.Holder) (*App, error) {
	logger := setupLogger(cfg.Logging)
	logger.Info().Msg("initializing occigate")

	a := &App{
		Logger: logger,
		Holder: holder,
	}

	a.Registry = NewTaxonomy()
	logger.Info().Int("categories", a.Registry.Len()).Msg("category registry built")

	collector, promReg := metrics.New()
	a.Metrics = collector

	backend, err := osclient.NewClient(osclient.Config{
		BaseURL:         cfg.Backend.URL,
		Timeout:         cfg.Backend.Timeout,
		MaxIdleConns:    cfg.Backend.MaxIdleConns,
		IdleConnTimeout: cfg.Backend.IdleConnTimeout,
		Metrics:         collector,
	})
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	a.backend = backend
	logger.Info().Str("url", cfg.Backend.URL).Msg("backend client initialized")

	if holder != nil {
		holder.OnChange(func(newCfg *config.Config) {
			if err := backend.Update(osclient.Config{
				BaseURL: newCfg.Backend.URL,
				Timeout: newCfg.Backend.Timeout,
			}); err != nil {
				logger.Error().Err(err).Msg("reloaded backend settings not applied")
				collector.ConfigReloadErrors.Inc()
				return
			}
			if level, err := zerolog.ParseLevel(newCfg.Logging.Level); err == nil {
				zerolog.SetGlobalLevel(level)
			}
			collector.ConfigReloads.Inc()
			logger.Info().Str("backend_url", newCfg.Backend.URL).Msg("reloadable settings applied")
		})
		holder.OnReloadError(func(error) {
			collector.ConfigReloadErrors.Inc()
		})
	}

	compute := app.NewComputeService(backend, idgen.UUID{}, logger)
	storage := app.NewStorageService(backend, logger)
	query := app.NewQueryService(a.Registry)

	deps := web.Deps{
		Compute:   compute,
		Storage:   storage,
		Query:     query,
		Renderers: render.NewRegistry(),
		Logger:    logger,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = collector
	}
	handler := web.NewHandler(deps)

	root := chi.NewRouter()
	root.Mount("/", handler.Router())
	if cfg.Metrics.Enabled {
		root.Method(http.MethodGet, cfg.Metrics.Path,
			promhttp.HandlerFor(promReg, promhttp.HandlerOpts{Registry: promReg}))
		logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("server listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-sigCh:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if a.Holder != nil {
		a.Holder.Stop()
	}
	a.backend.Close()
	a.Logger.Info().Msg("stopped")
	return nil
}

// setupLogger builds the zerolog root logger from the logging config.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	// The global level governs so a config reload can change verbosity
	// without rebuilding the logger chain.
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.With().Timestamp().Logger()
}
