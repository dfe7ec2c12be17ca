package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homepro/homepro-api/internal/middleware"
)

// Routes returns catalog routes. Reads are public, writes need the
// provider role.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{slug}", h.GetCategory)
	r.Get("/services", h.ListServices)
	r.Get("/services/{id}", h.GetService)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireProvider())

		r.Post("/services", h.CreateService)
		r.Put("/services/{id}", h.UpdateService)
		r.Delete("/services/{id}", h.DeactivateService)
	})

	return r
}
