package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"heritageportal/webfront/internal/audit"
	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/config"
	"heritageportal/webfront/internal/observability"
	"heritageportal/webfront/internal/session"
	"heritageportal/webfront/internal/web"
)

// readinessClient is the namespace probed by /readyz; nothing is written
// to it.
const readinessClient = "readiness-probe"

type App struct {
	cfg     config.Config
	log     *slog.Logger
	storage session.Backend
	server  *web.Server
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := observability.NewLogger(cfg.LogLevel)

	storage, err := session.NewStorage(ctx, session.Config{
		Driver:      cfg.Storage.Driver,
		FilePath:    cfg.Storage.File,
		DatabaseURL: cfg.Storage.DatabaseURL,
		SQLitePath:  cfg.Storage.SQLitePath,
		Redis: session.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Prefix:   cfg.Storage.Redis.Prefix,
			TTL:      cfg.Storage.TTL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create client storage: %w", err)
	}
	logger.Info("client storage ready", "driver", cfg.Storage.Driver)

	api, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("create backend client: %w", err)
	}

	server, err := web.New(cfg.HTTP, web.Deps{
		API:       api,
		Storage:   storage,
		Audit:     audit.NewLogger(cfg.AuditLogFile),
		Log:       logger,
		Cookies:   cfg.Cookies,
		StaticDir: cfg.StaticDir,
		Ready: func(ctx context.Context) error {
			_, err := storage.Load(ctx, readinessClient)
			return err
		},
	})
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("create web server: %w", err)
	}

	return &App{
		cfg:     cfg,
		log:     logger,
		storage: storage,
		server:  server,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.storage.Close(); err != nil {
			a.log.Warn("close client storage", "error", err)
		}
	}()

	errCh := make(chan error, 1)

	go func() {
		a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr, "backend", a.cfg.Backend.BaseURL)
		errCh <- a.server.Start()
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}
