package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/middleware"
	"github.com/homepro/homepro-api/internal/pkg/response"
)

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetForBooking returns the payment attached to a booking.
// GET /api/payments/bookings/{bookingID}
func (h *Handler) GetForBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	p, err := h.service.GetForBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, p.ToResponse())
}

// ListMine returns the authenticated provider's payout history.
// GET /api/payments/provider
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if !sess.ProviderID.Valid {
		response.Forbidden(w, "Provider profile required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.service.ListForProvider(r.Context(), sess.ProviderID.UUID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, payments[i].ToResponse())
	}
	response.OK(w, resp)
}

// Release releases a held payout to the provider.
// POST /api/payments/bookings/{bookingID}/release
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	p, err := h.service.Release(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, p.ToResponse())
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Payment not found")
	case errors.Is(err, ErrNotHeld):
		response.Conflict(w, "Payment is not in a held state")
	case errors.Is(err, ErrReleaseBlocked):
		response.Conflict(w, "Payout cannot be released yet")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
