package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/common/ratelimit"
	"interactions-relay/internal/handlers"
	"interactions-relay/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application. keyFunc
// selects the rate limit bucket and is ignored when rateLimiter is nil.
func SetupRoutes(router *mux.Router, h *handlers.Handlers, logger logging.Logger, rateLimiter ratelimit.Limiter, keyFunc func(*http.Request) string) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(logger))

	// Health check is never rate limited
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	var interactions http.Handler = http.HandlerFunc(h.HandleInteraction)
	if rateLimiter != nil {
		if keyFunc == nil {
			keyFunc = ratelimit.IPKey
		}
		interactions = ratelimit.HTTPMiddleware(rateLimiter, keyFunc)(interactions)
	}
	router.Handle("/", interactions).Methods(http.MethodPost)
	router.Handle("/interactions", interactions).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// instrument wraps the router with OpenTelemetry server spans.
func instrument(handler http.Handler) http.Handler {
	return otelhttp.NewHandler(handler, "interactions-relay",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
