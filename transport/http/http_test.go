package http

import (
	"eventdesk/config"
	otelMocks "eventdesk/infras/otel/mocks"
	eventMocks "eventdesk/internal/domains/event/mocks"
	"eventdesk/internal/domains/event/model/dto"
	eventHandler "eventdesk/internal/handlers/event"
	"eventdesk/permissions"
	"eventdesk/transport/http/middleware"
	"eventdesk/transport/http/router"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T) (*HTTP, *eventMocks.MockEvent) {
	t.Helper()

	ctrl := gomock.NewController(t)
	events := eventMocks.NewMockEvent(ctrl)
	ot := otelMocks.NewOtel()

	perms, err := permissions.Get()
	require.NoError(t, err)

	cfg := &config.Config{}

	r := router.New(
		router.DomainHandlers{Event: eventHandler.New(events, ot)},
		middleware.NewAppMiddleware(ot, cfg, nil),
		middleware.NewAuthRoleMiddleware(nil, ot, perms, cfg),
		cfg,
	)

	return New(cfg, r), events
}

func serve(server *HTTP, method, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(method, target, nil))

	return recorder
}

func TestHealth(t *testing.T) {
	server, _ := newServer(t)

	recorder := serve(server, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())

	server.setState(ServerStateInGracePeriod)

	recorder = serve(server, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestRoutes(t *testing.T) {
	t.Run("public events", func(t *testing.T) {
		server, events := newServer(t)

		events.EXPECT().GetAll(gomock.Any(), "all").Return(dto.GetEventsResponse{Filter: "all"}, nil)

		recorder := serve(server, http.MethodGet, "/v1/events?filter=all")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
	})

	t.Run("bookings need a session", func(t *testing.T) {
		server, _ := newServer(t)

		recorder := serve(server, http.MethodGet, "/v1/bookings/mine")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		server, _ := newServer(t)

		recorder := serve(server, http.MethodGet, "/v2/nothing")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
