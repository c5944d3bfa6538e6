package handler

import (
	"eventdesk/config"
	"eventdesk/di"
	"eventdesk/shared/logger"
	"eventdesk/shared/timezone"
	"eventdesk/transport/http/response"
	"net/http"

	"github.com/rs/zerolog/log"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	timezone.Init(cfg.App.Timezone)

	handler, cleanup, err := di.InitializeService()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize service")
		response.WithUnhealthy(w)

		return
	}
	defer cleanup()

	handler.ServeHTTP(w, r)
}
