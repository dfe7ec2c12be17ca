package provider

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homepro/homepro-api/internal/middleware"
)

// Routes returns provider routes. Listing and profile reads are public,
// everything else needs auth.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/", h.Apply)
		r.Get("/me", h.GetMine)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/images/{kind}", h.UploadImage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Get("/verification/queue", h.ListPendingVerification)
			r.Post("/{id}/verify", h.Verify)
			r.Post("/{id}/reject", h.Reject)
		})
	})

	r.Get("/{id}", h.Get)

	return r
}
