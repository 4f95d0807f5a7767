package main

import (
	"hotel/config"
	"hotel/di"
	"hotel/helper"
	"hotel/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	cfg := config.Get()
	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		log.Info().Msg("applying pending migrations before start")

		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	di.InitializeService().Serve()
}
