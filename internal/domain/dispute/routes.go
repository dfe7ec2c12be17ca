package dispute

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homepro/homepro-api/internal/middleware"
)

// Routes returns dispute routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Raise)
	r.Get("/{id}", h.Get)
	r.Get("/bookings/{bookingID}", h.ListForBooking)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Get("/queue", h.ListQueue)
		r.Post("/{id}/investigate", h.Investigate)
		r.Post("/{id}/resolve", h.Resolve)
		r.Post("/{id}/close", h.Close)
	})

	return r
}
