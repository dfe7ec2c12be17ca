package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/assigned", h.ListAssigned)
	r.Get("/{id}", h.Get)

	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/start", h.Start)
	r.Post("/{id}/complete", h.Complete)
	r.Post("/{id}/cancel", h.Cancel)

	return r
}
