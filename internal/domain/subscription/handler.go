package subscription

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/homepro/homepro-api/internal/middleware"
	"github.com/homepro/homepro-api/internal/pkg/response"
	"github.com/homepro/homepro-api/internal/pkg/validator"
)

// Handler handles subscription HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates subscription handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Purchase handles POST /subscriptions
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	sub, err := h.service.Purchase(r.Context(), sess, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, sub.ToResponse())
}

// ListMine handles GET /subscriptions
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	subs, err := h.service.ListMine(r.Context(), sess)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*SubscriptionResponse, 0, len(subs))
	for i := range subs {
		resp = append(resp, subs[i].ToResponse())
	}
	response.OK(w, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Subscription not found")
	case errors.Is(err, ErrInvalidType):
		response.BadRequest(w, "Invalid subscription type")
	case errors.Is(err, ErrAlreadyActive):
		response.Conflict(w, "You already have an active subscription of this type")
	case errors.Is(err, ErrProviderRequired):
		response.Forbidden(w, "Provider profile required")
	default:
		response.InternalError(w, "Something went wrong")
	}
}
