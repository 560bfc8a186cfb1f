// Package api exposes the parking flow over HTTP for presentation code.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter registers all API routes on a new router.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware(h.log))

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/suggestion", h.getSuggestion).Methods(http.MethodGet)
	apiRouter.HandleFunc("/positions", h.postPosition).Methods(http.MethodPost)
	apiRouter.HandleFunc("/spots", h.listSpots).Methods(http.MethodGet)
	apiRouter.HandleFunc("/spots/{id}/confirm", h.confirmSpot).Methods(http.MethodPost)
	apiRouter.HandleFunc("/spots/{id}/directions", h.spotDirections).Methods(http.MethodGet)
	apiRouter.HandleFunc("/zones", h.listZones).Methods(http.MethodGet)
	apiRouter.HandleFunc("/zones/{id}/quote", h.quoteZone).Methods(http.MethodGet)

	return router
}

func loggingMiddleware(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.DebugContext(r.Context(), "Request handled",
				"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
