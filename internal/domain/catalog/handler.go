package catalog

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

// Handler handles catalog HTTP requests
type Handler struct {
	catalog *Catalog
}

// NewHandler creates catalog handler
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// ListCategories handles GET /catalog/categories (public)
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, categories[i].ToResponse())
	}
	response.OK(w, resp)
}

// GetCategory handles GET /catalog/categories/{slug} (public)
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, c.ToResponse())
}

// ListServices handles GET /catalog/services (public)
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	filter := ServiceFilter{
		ActiveOnly: true,
		Limit:      limit,
		Offset:     offset,
	}
	if v := r.URL.Query().Get("provider_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "Invalid provider ID")
			return
		}
		filter.ProviderID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "Invalid category ID")
			return
		}
		filter.CategoryID = uuid.NullUUID{UUID: id, Valid: true}
	}

	services, err := h.catalog.ListServices(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*ServiceResponse, 0, len(services))
	for i := range services {
		resp = append(resp, services[i].ToResponse())
	}
	response.OK(w, resp)
}

// GetService handles GET /catalog/services/{id} (public)
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	s, err := h.catalog.GetService(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, s.ToResponse())
}

// CreateService handles POST /catalog/services (provider)
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	s, err := h.catalog.CreateService(r.Context(), sess, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, s.ToResponse())
}

// UpdateService handles PUT /catalog/services/{id} (provider)
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	s, err := h.catalog.UpdateService(r.Context(), sess, id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, s.ToResponse())
}

// DeactivateService handles DELETE /catalog/services/{id} (provider)
func (h *Handler) DeactivateService(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	s, err := h.catalog.Deactivate(r.Context(), sess, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, s.ToResponse())
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		response.NotFound(w, "Service not found")
	case errors.Is(err, ErrCategoryNotFound):
		response.NotFound(w, "Category not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "You do not own this service")
	case errors.Is(err, ErrProviderRequired):
		response.Forbidden(w, "Provider profile required")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
