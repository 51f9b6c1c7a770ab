package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hotelbook/config"
	"hotelbook/di"
	"hotelbook/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("driver", cfg.Broker.Driver).Str("topic", cfg.Broker.Topics.Booking).Msg("Starting booking worker")

	if err := di.InitializeWorker().Run(ctx); err != nil {
		log.Error().Err(err).Msg("Worker stopped with error")
	}
}
