package provider

import (
	"context"
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

// Handler handles provider HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates provider handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Apply handles POST /providers
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	p, err := h.service.Apply(r.Context(), sess, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, p.ToResponse())
}

// Get handles GET /providers/{id} (public)
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, p.ToResponse())
}

// GetMine handles GET /providers/me
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	p, err := h.service.GetMine(r.Context(), sess)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, p.ToResponse())
}

// Update handles PUT /providers/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
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

	p, err := h.service.Update(r.Context(), sess, id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, p.ToResponse())
}

// List handles GET /providers (public search)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	filter := SearchFilter{
		City:     r.URL.Query().Get("city"),
		Verified: r.URL.Query().Get("verified") == "true",
		Limit:    limit,
		Offset:   offset,
	}

	providers, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toResponses(providers))
}

// UploadImage handles POST /providers/{id}/images/{kind}
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	kind := ImageKind(chi.URLParam(r, "kind"))
	if kind != ImageProfile && kind != ImageCover {
		response.BadRequest(w, "Image kind must be profile or cover")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	p, err := h.service.UploadImage(r.Context(), sess, id, kind, header.Filename, header.Size, file)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, p.ToResponse())
}

// ListPendingVerification handles GET /providers/verification/queue (admin)
func (h *Handler) ListPendingVerification(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	providers, err := h.service.ListPendingVerification(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toResponses(providers))
}

// Verify handles POST /providers/{id}/verify (admin)
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Verify)
}

// Reject handles POST /providers/{id}/reject (admin)
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*Provider, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid provider ID")
		return
	}

	p, err := op(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, p.ToResponse())
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Provider not found")
	case errors.Is(err, ErrAlreadyExists):
		response.Conflict(w, "You already have a provider profile")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "You do not own this provider profile")
	case errors.Is(err, ErrAlreadyDecided):
		response.Conflict(w, "Verification has already been decided")
	case errors.Is(err, ErrInvalidImage):
		response.BadRequest(w, "Invalid image file")
	case errors.Is(err, ErrImageTooLarge):
		response.BadRequest(w, "Image file too large")
	default:
		response.InternalError(w, "Something went wrong")
	}
}

func toResponses(providers []Provider) []*ProviderResponse {
	resp := make([]*ProviderResponse, 0, len(providers))
	for i := range providers {
		resp = append(resp, providers[i].ToResponse())
	}
	return resp
}
