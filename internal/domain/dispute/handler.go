package dispute

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/booking"
	"github.com/homepro/homepro-api/internal/middleware"
	"github.com/homepro/homepro-api/internal/pkg/response"
	"github.com/homepro/homepro-api/internal/pkg/validator"
)

// Handler handles dispute HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates dispute handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Raise handles POST /disputes
func (h *Handler) Raise(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var req RaiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	d, err := h.service.Raise(r.Context(), sess, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, d.ToResponse(false))
}

// Get handles GET /disputes/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid dispute ID")
		return
	}

	d, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, d.ToResponse(sess.IsAdmin()))
}

// ListForBooking handles GET /disputes/bookings/{bookingID}
func (h *Handler) ListForBooking(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	disputes, err := h.service.ListForBooking(r.Context(), sess, bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*DisputeResponse, 0, len(disputes))
	for i := range disputes {
		resp = append(resp, disputes[i].ToResponse(sess.IsAdmin()))
	}
	response.OK(w, resp)
}

// ListQueue handles GET /disputes/queue (admin)
func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	disputes, err := h.service.ListQueue(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*DisputeResponse, 0, len(disputes))
	for i := range disputes {
		resp = append(resp, disputes[i].ToResponse(true))
	}
	response.OK(w, resp)
}

// Investigate handles POST /disputes/{id}/investigate (admin)
func (h *Handler) Investigate(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, id uuid.UUID, req *AdminUpdateRequest) (*Dispute, error) {
		return h.service.Investigate(ctx, id, req.AdminNotes)
	})
}

// Resolve handles POST /disputes/{id}/resolve (admin)
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, id uuid.UUID, req *AdminUpdateRequest) (*Dispute, error) {
		return h.service.Resolve(ctx, id, req.Resolution, req.AdminNotes)
	})
}

// Close handles POST /disputes/{id}/close (admin)
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, id uuid.UUID, req *AdminUpdateRequest) (*Dispute, error) {
		return h.service.Close(ctx, id, req.Resolution, req.AdminNotes)
	})
}

func (h *Handler) adminTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID, req *AdminUpdateRequest) (*Dispute, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid dispute ID")
		return
	}

	var req AdminUpdateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
		if fieldErrors := validator.Validate(req); fieldErrors != nil {
			response.ValidationError(w, fieldErrors)
			return
		}
	}

	d, err := op(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, d.ToResponse(true))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Dispute not found")
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, booking.ErrNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrNotBookingParty):
		response.Forbidden(w, "You are not a party to this booking")
	case errors.Is(err, ErrAlreadyOpen):
		response.Conflict(w, "Booking already has an open dispute")
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, booking.ErrInvalidTransition):
		response.Conflict(w, "Dispute cannot change to that status")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
