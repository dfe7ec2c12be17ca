package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homepro/homepro-api/internal/middleware"
)

// Routes returns payment routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.With(middleware.RequireProvider()).Get("/provider", h.ListMine)
	r.Get("/bookings/{bookingID}", h.GetForBooking)
	r.With(middleware.RequireAdmin()).Post("/bookings/{bookingID}/release", h.Release)

	return r
}
