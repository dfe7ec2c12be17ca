package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/middleware"
	"github.com/homepro/homepro-api/internal/pkg/response"
	"github.com/homepro/homepro-api/internal/pkg/validator"
)

// Handler handles review HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates review handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reviews
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

	rev, err := h.service.Create(r.Context(), sess, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, rev.ToResponse())
}

// ListForProvider handles GET /reviews/providers/{providerID} (public)
func (h *Handler) ListForProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	reviews, err := h.service.ListForProvider(r.Context(), providerID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, reviews[i].ToResponse())
	}
	response.OK(w, resp)
}

// Hide handles POST /reviews/{id}/hide (admin)
func (h *Handler) Hide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	if err := h.service.Hide(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Review not found")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrNotCustomer):
		response.Forbidden(w, "Only the booking customer can review")
	case errors.Is(err, ErrBookingNotComplete):
		response.Conflict(w, "Booking must be completed before reviewing")
	case errors.Is(err, ErrAlreadyReviewed):
		response.Conflict(w, "Booking already reviewed")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
