package availability

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homepro/homepro-api/internal/middleware"
)

// Routes returns availability routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/providers/{providerID}", h.ListForProvider)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireProvider())

		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
