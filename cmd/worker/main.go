package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"webgen/internal/bootstrap"
	"webgen/internal/infra"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.QueueDriver != infra.DriverRedis || cfg.StoreDriver != infra.DriverPostgres {
		logger.Fatal().
			Str("store", cfg.StoreDriver).
			Str("queue", cfg.QueueDriver).
			Msg("worker: a standalone worker needs STORE_DRIVER=postgres and QUEUE_DRIVER=redis")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to initialise dependencies")
	}
	defer deps.Close()

	if n, err := deps.RecoverQueue(ctx); err != nil {
		logger.Error().Err(err).Msg("worker: failed to recover claimed deliveries")
	} else if n > 0 {
		logger.Info().Int("tasks", n).Msg("worker: recovered claimed deliveries")
	}

	pool := deps.DeliveryPool(cfg, logger, nil)
	logger.Info().Int("workers", pool.Size()).Msg("worker: started")
	if err := pool.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("worker: pool stopped with errors")
	}
	logger.Info().Msg("worker: stopped")
}
