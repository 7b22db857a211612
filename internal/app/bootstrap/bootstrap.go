package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tokenledger "stakevote/contexts/staking-governance/token-ledger"
	ledgerpostgres "stakevote/contexts/staking-governance/token-ledger/adapters/postgres"
	ledgerworkers "stakevote/contexts/staking-governance/token-ledger/application/workers"
	votingengine "stakevote/contexts/staking-governance/voting-engine"
	enginepostgres "stakevote/contexts/staking-governance/voting-engine/adapters/postgres"
	engineworkers "stakevote/contexts/staking-governance/voting-engine/application/workers"
	"stakevote/internal/platform/config"
	"stakevote/internal/platform/db"
	"stakevote/internal/platform/httpserver"
	"stakevote/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	engineRelay  engineworkers.OutboxRelay
	ledgerRelay  ledgerworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	ledgerModule := tokenledger.NewModule(tokenledger.Dependencies{
		Balances:        ledgerRepo,
		Outbox:          ledgerRepo,
		Clock:           ledgerpostgres.SystemClock{},
		IDGen:           ledgerpostgres.UUIDGenerator{},
		AdminIdentity:   cfg.AdminIdentity,
		TreasuryAccount: cfg.TreasuryAccount,
		Logger:          logger,
	})

	engineRepo := enginepostgres.NewRepository(pg.DB, logger)
	engineModule := votingengine.NewModule(votingengine.Dependencies{
		Projects:      engineRepo,
		Stakes:        engineRepo,
		Ledger:        ledgerModule.Ledger,
		Outbox:        engineRepo,
		Clock:         enginepostgres.SystemClock{},
		IDGen:         enginepostgres.UUIDGenerator{},
		AdminIdentity: cfg.AdminIdentity,
		Logger:        logger,
	})

	server := httpserver.New(engineModule, ledgerModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	engineRepo := enginepostgres.NewRepository(pg.DB, logger)
	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		engineRelay: engineworkers.OutboxRelay{
			Outbox:    engineRepo,
			Publisher: kafka,
			Clock:     enginepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		ledgerRelay: ledgerworkers.OutboxRelay{
			Outbox:    ledgerRepo,
			Publisher: kafka,
			Clock:     ledgerpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.engineRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.ledgerRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
