package main

import (
	"eventdesk/config"
	"eventdesk/di"
	"eventdesk/helper"
	"eventdesk/shared/logger"
	"eventdesk/shared/timezone"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	timezone.Init(cfg.App.Timezone)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}
	defer cleanup()

	if err := http.Serve(); err != nil {
		logger.ErrorWithStack(err)
	}
}
