package event

import (
	"eventdesk/infras/otel"
	"eventdesk/internal/domains/event/service"
	"eventdesk/shared/constant"
	"eventdesk/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Event
	otel    otel.Otel
}

func New(service service.Event, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/events", handler.GetEvents)
}

// GetEvents lists approved bookings as public events.
// @Summary Get public events
// @Description List approved bookings grouped by month. The filter defaults to upcoming.
// @Tags Event
// @Produce json
// @Param filter query string false "all, upcoming or today"
// @Success 200 {object} response.Data[dto.GetEventsResponse] "Events grouped by month"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/events [get]
func (handler *Handler) GetEvents(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEvents")
	defer scope.End()

	events, err := handler.service.GetAll(ctx, request.URL.Query().Get(constant.RequestParamFilter))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get events")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Events retrieved successfully")

	response.WithJSON(writer, http.StatusOK, events)
}
