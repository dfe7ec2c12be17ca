package dispute

import (
	"time"

	"github.com/google/uuid"
)

// RaiseRequest represents dispute creation payload
type RaiseRequest struct {
	BookingID   uuid.UUID `json:"booking_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
}

// AdminUpdateRequest represents an admin's resolution payload
type AdminUpdateRequest struct {
	Resolution string `json:"resolution" validate:"omitempty,max=2000"`
	AdminNotes string `json:"admin_notes" validate:"omitempty,max=2000"`
}

// DisputeResponse for API responses
type DisputeResponse struct {
	ID             string  `json:"id"`
	BookingID      string  `json:"booking_id"`
	RaisedByUserID *string `json:"raised_by_user_id,omitempty"`
	Reason         string  `json:"reason"`
	Description    *string `json:"description,omitempty"`
	Status         Status  `json:"status"`
	Resolution     *string `json:"resolution,omitempty"`
	AdminNotes     *string `json:"admin_notes,omitempty"`
	ResolvedAt     *string `json:"resolved_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// ToResponse converts entity to response. Admin notes are only included
// when requested by an admin.
func (d *Dispute) ToResponse(includeAdminNotes bool) *DisputeResponse {
	resp := &DisputeResponse{
		ID:        d.ID.String(),
		BookingID: d.BookingID.String(),
		Reason:    d.Reason,
		Status:    d.Status,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
	if d.RaisedByUserID.Valid {
		s := d.RaisedByUserID.UUID.String()
		resp.RaisedByUserID = &s
	}
	if d.Description.Valid {
		resp.Description = &d.Description.String
	}
	if d.Resolution.Valid {
		resp.Resolution = &d.Resolution.String
	}
	if includeAdminNotes && d.AdminNotes.Valid {
		resp.AdminNotes = &d.AdminNotes.String
	}
	if d.ResolvedAt.Valid {
		s := d.ResolvedAt.Time.Format(time.RFC3339)
		resp.ResolvedAt = &s
	}
	return resp
}
