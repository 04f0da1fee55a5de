package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	trackingservice "tracker/contexts/audience-insights/tracking-service"
	postgresadapter "tracker/contexts/audience-insights/tracking-service/adapters/postgres"
	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	"tracker/internal/platform/config"
	"tracker/internal/platform/db"
	"tracker/internal/platform/httpserver"
	"tracker/internal/platform/mail"
	"tracker/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	module   trackingservice.Module
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel).With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, cfg.DBPoolMin, cfg.DBPoolMax)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	repo := postgresadapter.NewRepository(pg.DB, logger)
	mailer := mail.NewMailjet(cfg.MailjetKey, cfg.MailjetSecret, logger)

	module := trackingservice.NewModule(trackingservice.Dependencies{
		Events:        repo,
		Publisher:     bus,
		Subscriber:    bus,
		Mailer:        mailer,
		Clock:         postgresadapter.SystemClock{},
		IDGenerator:   postgresadapter.UUIDGenerator{},
		ActionPolicy:  entities.ActionPolicy(cfg.ActionPolicy),
		NotifyAddress: cfg.NotifyAddress,
		Logger:        logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort), cfg.ProxyPrefix)
	return &APIApp{
		server:   server,
		module:   module,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if err := a.module.Notifier.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":5000"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
