package availability

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/middleware"
	"github.com/homepro/homepro-api/internal/pkg/response"
	"github.com/homepro/homepro-api/internal/pkg/validator"
)

// Handler handles availability HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates availability handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /availability
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

	slot, err := h.service.Create(r.Context(), sess, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, slot.ToResponse())
}

// ListForProvider handles GET /availability/providers/{providerID} (public)
func (h *Handler) ListForProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	slots, err := h.service.ListForProvider(r.Context(), providerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*SlotResponse, 0, len(slots))
	for i := range slots {
		resp = append(resp, slots[i].ToResponse())
	}
	response.OK(w, resp)
}

// Update handles PUT /availability/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid slot ID")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	slot, err := h.service.Update(r.Context(), sess, id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, slot.ToResponse())
}

// Delete handles DELETE /availability/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid slot ID")
		return
	}

	if err := h.service.Delete(r.Context(), sess, id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Slot not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "You do not own this slot")
	case errors.Is(err, ErrProviderRequired):
		response.Forbidden(w, "Provider profile required")
	case errors.Is(err, ErrInvalidWindow):
		response.BadRequest(w, "Slot end must be after start")
	case errors.Is(err, ErrOverlappingSlot):
		response.Conflict(w, "Slot overlaps an existing one")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
