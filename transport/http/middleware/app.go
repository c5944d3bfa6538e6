package middleware

import (
	"eventdesk/config"
	"eventdesk/infras/otel"
	"eventdesk/shared"
	"eventdesk/shared/cache"
	"eventdesk/shared/constant"
	"eventdesk/transport/http/response"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	otelHTTPScopeName = "http"
	cacheKeyRateLimit = "limiter"
	unknownUserAgent  = "unknown"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	RateLimit(next http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

// Tracing opens the request span. The route pattern is only known once chi
// has matched, so it is recorded after the handler returns.
func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := a.otel.NewScope(request.Context(), otelHTTPScopeName, fmt.Sprintf("%s %s", request.Method, request.URL.Path))
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
			"http.user_agent": request.Header.Get(constant.RequestHeaderUserAgent),
			"http.host":       request.Host,
			"http.source":     request.RemoteAddr,
			"http.request_id": chiMiddleware.GetReqID(ctx),
		})

		if requestID := chiMiddleware.GetReqID(ctx); requestID != "" {
			writer.Header().Set(constant.RequestHeaderRequestID, requestID)
		}

		wrapped := chiMiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(wrapped, request.WithContext(ctx))

		attributes := map[string]any{"http.status_code": wrapped.Status()}
		if rctx := chi.RouteContext(request.Context()); rctx != nil {
			attributes["http.route"] = rctx.RoutePattern()
		}

		scope.SetAttributes(attributes)

		if wrapped.Status() >= http.StatusInternalServerError {
			scope.TraceError(fmt.Errorf("request failed with status %d", wrapped.Status()))
		}
	})
}

// RateLimit counts requests per client IP and user agent in fixed windows.
// The client IP is RemoteAddr as rewritten by chi's RealIP. When Redis is
// unavailable requests pass through.
func (a *appMiddleware) RateLimit(next http.Handler) http.Handler {
	limiter := a.config.App.RateLimiter
	if !limiter.Enable {
		return next
	}

	window := time.Duration(limiter.WindowSeconds) * time.Second

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		userAgent := request.Header.Get(constant.RequestHeaderUserAgent)
		if userAgent == constant.Empty {
			userAgent = unknownUserAgent
		}

		cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, clientIP(request), userAgent)

		count, err := a.cache.Increment(request.Context(), cacheKey, window)
		if err != nil {
			log.Error().Err(err).Msg("failed to count request, skipping rate limit")
			next.ServeHTTP(writer, request)

			return
		}

		writer.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
		writer.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limiter.MaxRequests)-count), 10))
		writer.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

		if count > int64(limiter.MaxRequests) {
			response.WithRequestLimitExceeded(writer)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// clientIP drops the port RemoteAddr carries when it was not rewritten.
func clientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}

	return host
}
