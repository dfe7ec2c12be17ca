package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
	"github.com/homepro/homepro-api/internal/middleware"
	"github.com/homepro/homepro-api/internal/pkg/response"
	"github.com/homepro/homepro-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new booking handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	b, err := h.service.Create(r.Context(), sess, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, b.ToResponse())
}

// Get handles GET /bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, b.ToResponse())
}

// ListMine handles GET /bookings (customer view)
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	limit, offset := pagination(r)

	bookings, err := h.service.ListForCustomer(r.Context(), sess, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toResponses(bookings))
}

// ListAssigned handles GET /bookings/assigned (provider view)
func (h *Handler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	limit, offset := pagination(r)

	bookings, err := h.service.ListForProvider(r.Context(), sess, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toResponses(bookings))
}

// Accept handles POST /bookings/{id}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Accept)
}

// Start handles POST /bookings/{id}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Start)
}

// Complete handles POST /bookings/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req CompleteRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	b, err := h.service.Complete(r.Context(), sess, id, req.Notes)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, b.ToResponse())
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, sess session.Session, id uuid.UUID) (*Booking, error)) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := op(r.Context(), sess, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, b.ToResponse())
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, "Booking status does not allow this action")
	case errors.Is(err, ErrNotBookingParty):
		response.Forbidden(w, "You are not a party to this booking")
	case errors.Is(err, ErrServiceNotFound):
		response.NotFound(w, "Service not found")
	case errors.Is(err, ErrServiceInactive):
		response.Conflict(w, "Service is not active")
	case errors.Is(err, ErrInvalidTimeRange):
		response.BadRequest(w, "end_time must be after start_time")
	default:
		response.InternalError(w)
	}
}

func toResponses(bookings []Booking) []*BookingResponse {
	out := make([]*BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = bookings[i].ToResponse()
	}
	return out
}

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
