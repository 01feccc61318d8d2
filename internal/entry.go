// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/gistlens/internal/api"
	"github.com/starford/gistlens/internal/devwatch"
	"github.com/starford/gistlens/internal/previewservice"
	"github.com/starford/gistlens/internal/sse"
	"github.com/starford/gistlens/internal/storage"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	logger := app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("api_url", cfg.GitHub.APIURL),
		slog.String("preview_base_path", cfg.Preview.BasePath),
		slog.String("watch_dir", cfg.Preview.WatchDir),
		slog.String("sqlite_path", cfg.Credentials.SQLitePath),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker receives every surface transition.
	broker := sse.NewBroker()
	defer broker.Close()

	d, err := app.buildDeps(broker.PublishStatus)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("close dependencies", slog.String("error", err.Error()))
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRootRouter(cfg, d, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Re-preview a local checkout on every change.
	if cfg.Preview.WatchDir != "" {
		local, err := storage.NewFS(cfg.Preview.WatchDir)
		if err != nil {
			return fmt.Errorf("init watch dir: %w", err)
		}
		g.Go(func() error {
			reload := func(changed []string) {
				if len(changed) > 0 {
					logger.Info("local change detected", slog.Int("files", len(changed)))
				}
				loadLocal(gCtx, d.svc, local, logger)
			}
			reload(nil)
			return devwatch.Watch(gCtx, local.Root(), devwatch.DefaultDebounce, logger, reload)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Returning an error cancels gCtx so the watcher stops too.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

func newRootRouter(cfg *Config, d *deps, broker *sse.Broker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(d.svc, d.creds, api.RouterConfig{
		AuthEnabled:    cfg.Auth.AuthEnabled(),
		AuthToken:      cfg.Auth.Token,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Events:         broker,
	}))

	// Composed documents live outside /api.
	r.Mount(cfg.Preview.BasePath, api.NewPreviewRouter(d.surface))

	return r
}

// loadLocal previews the current contents of a local checkout. Failures are
// already recorded on the surface and logged by the service.
func loadLocal(ctx context.Context, svc *previewservice.Service, local *storage.FS, logger *slog.Logger) {
	files, err := local.List()
	if err != nil {
		logger.Warn("list local files failed", slog.String("error", err.Error()))
		return
	}
	_, _ = svc.LoadLocal(ctx, "local:"+local.Root(), files, local)
}
