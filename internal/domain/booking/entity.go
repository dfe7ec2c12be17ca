package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking lifecycle status
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusDisputed   Status = "disputed"
)

// Valid reports whether s is a known booking status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusDisputed:
		return true
	}
	return false
}

// transitions is the allowed status graph. Cancellation is only possible
// before work starts; disputes only once work has started or finished.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusDisputed},
	StatusCompleted:  {StatusDisputed},
	StatusCancelled:  {},
	StatusDisputed:   {},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking represents one scheduled service engagement
type Booking struct {
	ID               uuid.UUID      `db:"id"`
	CustomerID       uuid.NullUUID  `db:"customer_id"`
	ProviderID       uuid.NullUUID  `db:"provider_id"`
	ServiceID        uuid.NullUUID  `db:"service_id"`
	BookingDate      time.Time      `db:"booking_date"`
	StartTime        string         `db:"start_time"`
	EndTime          string         `db:"end_time"`
	TotalAmount      int64          `db:"total_amount"`
	CommissionAmount int64          `db:"commission_amount"`
	ProviderPayout   int64          `db:"provider_payout"`
	Status           Status         `db:"status"`
	CustomerAddress  sql.NullString `db:"customer_address"`
	CustomerNotes    sql.NullString `db:"customer_notes"`
	ProviderNotes    sql.NullString `db:"provider_notes"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

// Transition moves the booking to the given status. On ErrInvalidTransition
// the booking is left unchanged.
func (b *Booking) Transition(to Status) error {
	if !CanTransition(b.Status, to) {
		return ErrInvalidTransition
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return nil
}

// Snapshot is the wire representation of a booking carried by change events.
type Snapshot struct {
	ID               uuid.UUID  `json:"id"`
	CustomerID       *uuid.UUID `json:"customer_id,omitempty"`
	ProviderID       *uuid.UUID `json:"provider_id,omitempty"`
	ServiceID        *uuid.UUID `json:"service_id,omitempty"`
	Status           Status     `json:"status,omitempty"`
	TotalAmount      int64      `json:"total_amount"`
	CommissionAmount int64      `json:"commission_amount"`
	ProviderPayout   int64      `json:"provider_payout"`
}

// ToSnapshot converts the entity to its event wire form.
func (b *Booking) ToSnapshot() Snapshot {
	s := Snapshot{
		ID:               b.ID,
		Status:           b.Status,
		TotalAmount:      b.TotalAmount,
		CommissionAmount: b.CommissionAmount,
		ProviderPayout:   b.ProviderPayout,
	}
	if b.CustomerID.Valid {
		id := b.CustomerID.UUID
		s.CustomerID = &id
	}
	if b.ProviderID.Valid {
		id := b.ProviderID.UUID
		s.ProviderID = &id
	}
	if b.ServiceID.Valid {
		id := b.ServiceID.UUID
		s.ServiceID = &id
	}
	return s
}
