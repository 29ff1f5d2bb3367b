package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// health
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.getHealth)
		r.Get("/api/version", h.getServerVersion)
	})

	// device batches
	router.Group(func(r chi.Router) {
		r.Use(h.auth, withGZip)
		r.Post("/api/sync/batch", h.applyBatch)
		r.Post("/api/sync/records", h.fetchRecords)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
