package main

import (
	"context"
	"fmt"

	"github.com/arlet-trading/arlet_service/internal/infrastructure/config"
	"github.com/arlet-trading/arlet_service/internal/infrastructure/firebase"
	"github.com/arlet-trading/arlet_service/internal/infrastructure/repositories"
	"github.com/arlet-trading/arlet_service/pkg/logger"
)

func main() {
	// Load configuration. Validation failures are fatal: a misconfigured
	// parameter must stop startup with a message naming the field.
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger. Built exactly once per process, then injected.
	log := logger.New(cfg.LogLevel, cfg.Environment, cfg.Paths.Logs)
	defer log.Sync()

	log.Info("configuration loaded",
		"environment", cfg.Environment,
		"trading_mode", cfg.Trading.Mode,
		"data_source", cfg.Data.Source,
		"symbols", cfg.Data.Symbols,
		"initial_balance", cfg.Trading.InitialBalance)

	// Backend initialization is a soft failure: a missing or broken
	// Firestore must never prevent startup in local-only mode.
	ctx := context.Background()
	client, err := firebase.Connect(ctx, cfg, log)
	if err != nil {
		if cfg.Firebase.ProjectID == "" {
			log.Warn("firestore not configured, running in local mode")
		} else {
			log.Error("firestore initialization failed, running in local mode", "error", err)
		}
	} else {
		defer client.Close()

		repo := repositories.NewTradingRepository(client.Firestore(), cfg.Firebase.Collection, log.Zap())
		if _, err := repo.ListRecentTrades(ctx, 1); err != nil {
			log.Error("firestore connectivity check failed, running in local mode", "error", err)
		} else {
			log.Info("trading repository ready", "collection", cfg.Firebase.Collection)
		}
	}

	log.Info("arlet configuration initialized",
		"checkpoint_path", cfg.Paths.Checkpoints,
		"log_path", cfg.Paths.Logs)
}
