package payment

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents payment status
type Status string

const (
	StatusPending  Status = "pending"
	StatusHeld     Status = "held"
	StatusReleased Status = "released"
	StatusRefunded Status = "refunded"
	StatusFailed   Status = "failed"
)

// Payment mirrors a booking's money fields at the time of payment. One per
// booking in the normal flow.
type Payment struct {
	ID               uuid.UUID      `db:"id"`
	BookingID        uuid.NullUUID  `db:"booking_id"`
	Amount           int64          `db:"amount"`
	CommissionAmount int64          `db:"commission_amount"`
	PayoutAmount     int64          `db:"payout_amount"`
	Status           Status         `db:"status"`
	PaymentMethod    sql.NullString `db:"payment_method"`
	PaymentReference sql.NullString `db:"payment_reference"`
	PaidAt           sql.NullTime   `db:"paid_at"`
	ReleasedAt       sql.NullTime   `db:"released_at"`
	CreatedAt        time.Time      `db:"created_at"`
}

// PaymentResponse for API responses
type PaymentResponse struct {
	ID               string  `json:"id"`
	BookingID        *string `json:"booking_id,omitempty"`
	Amount           int64   `json:"amount"`
	CommissionAmount int64   `json:"commission_amount"`
	PayoutAmount     int64   `json:"payout_amount"`
	Status           Status  `json:"status"`
	PaidAt           *string `json:"paid_at,omitempty"`
	ReleasedAt       *string `json:"released_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// ToResponse converts entity to response
func (p *Payment) ToResponse() *PaymentResponse {
	resp := &PaymentResponse{
		ID:               p.ID.String(),
		Amount:           p.Amount,
		CommissionAmount: p.CommissionAmount,
		PayoutAmount:     p.PayoutAmount,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	if p.BookingID.Valid {
		s := p.BookingID.UUID.String()
		resp.BookingID = &s
	}
	if p.PaidAt.Valid {
		s := p.PaidAt.Time.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	if p.ReleasedAt.Valid {
		s := p.ReleasedAt.Time.Format(time.RFC3339)
		resp.ReleasedAt = &s
	}
	return resp
}
