package device

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withLogging)

	router.Route("/device", func(r chi.Router) {
		r.Post("/notifications", h.pushNotification)
		r.Post("/network", h.reportNetwork)
		r.Post("/lifecycle/{state}", h.changeLifecycle)

		r.Post("/sync", h.syncNow)
		r.Post("/cancel", h.cancelSync)
		r.Get("/state", h.getState)

		r.Get("/dead-letters", h.listDeadLetters)
		r.Post("/dead-letters/{operationID}/retry", h.retryDeadLetter)
	})

	return router
}
