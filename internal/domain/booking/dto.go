package booking

import (
	"database/sql"
	"time"
)

// CreateRequest for submitting a booking
type CreateRequest struct {
	ServiceID   string    `json:"service_id" validate:"required,uuid"`
	BookingDate time.Time `json:"booking_date" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required"`
	EndTime     string    `json:"end_time" validate:"required"`
	Address     string    `json:"address" validate:"required,max=500"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

// CompleteRequest for marking a booking done
type CompleteRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// BookingResponse for API responses
type BookingResponse struct {
	ID               string  `json:"id"`
	CustomerID       *string `json:"customer_id,omitempty"`
	ProviderID       *string `json:"provider_id,omitempty"`
	ServiceID        *string `json:"service_id,omitempty"`
	BookingDate      string  `json:"booking_date"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	TotalAmount      int64   `json:"total_amount"`
	CommissionAmount int64   `json:"commission_amount"`
	ProviderPayout   int64   `json:"provider_payout"`
	Status           Status  `json:"status"`
	CustomerAddress  string  `json:"customer_address,omitempty"`
	CustomerNotes    string  `json:"customer_notes,omitempty"`
	ProviderNotes    string  `json:"provider_notes,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// ToResponse converts entity to response
func (b *Booking) ToResponse() *BookingResponse {
	resp := &BookingResponse{
		ID:               b.ID.String(),
		BookingDate:      b.BookingDate.Format("2006-01-02"),
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		TotalAmount:      b.TotalAmount,
		CommissionAmount: b.CommissionAmount,
		ProviderPayout:   b.ProviderPayout,
		Status:           b.Status,
		CreatedAt:        b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        b.UpdatedAt.Format(time.RFC3339),
	}
	if b.CustomerID.Valid {
		s := b.CustomerID.UUID.String()
		resp.CustomerID = &s
	}
	if b.ProviderID.Valid {
		s := b.ProviderID.UUID.String()
		resp.ProviderID = &s
	}
	if b.ServiceID.Valid {
		s := b.ServiceID.UUID.String()
		resp.ServiceID = &s
	}
	if b.CustomerAddress.Valid {
		resp.CustomerAddress = b.CustomerAddress.String
	}
	if b.CustomerNotes.Valid {
		resp.CustomerNotes = b.CustomerNotes.String
	}
	if b.ProviderNotes.Valid {
		resp.ProviderNotes = b.ProviderNotes.String
	}
	return resp
}

func setNullString(dst *sql.NullString, value string) {
	if value != "" {
		*dst = sql.NullString{String: value, Valid: true}
	}
}
