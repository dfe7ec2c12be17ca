package review

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Review represents a reviews table row. One per completed booking.
type Review struct {
	ID         uuid.UUID      `db:"id"`
	BookingID  uuid.NullUUID  `db:"booking_id"`
	CustomerID uuid.NullUUID  `db:"customer_id"`
	ProviderID uuid.NullUUID  `db:"provider_id"`
	Rating     int            `db:"rating"`
	Comment    sql.NullString `db:"comment"`
	IsVisible  bool           `db:"is_visible"`
	CreatedAt  time.Time      `db:"created_at"`
}

// ReviewResponse for API responses
type ReviewResponse struct {
	ID         string  `json:"id"`
	BookingID  *string `json:"booking_id,omitempty"`
	CustomerID *string `json:"customer_id,omitempty"`
	ProviderID *string `json:"provider_id,omitempty"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// ToResponse converts entity to response
func (r *Review) ToResponse() *ReviewResponse {
	resp := &ReviewResponse{
		ID:        r.ID.String(),
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
	if r.BookingID.Valid {
		s := r.BookingID.UUID.String()
		resp.BookingID = &s
	}
	if r.CustomerID.Valid {
		s := r.CustomerID.UUID.String()
		resp.CustomerID = &s
	}
	if r.ProviderID.Valid {
		s := r.ProviderID.UUID.String()
		resp.ProviderID = &s
	}
	if r.Comment.Valid {
		resp.Comment = &r.Comment.String
	}
	return resp
}
