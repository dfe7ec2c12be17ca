package dispute

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents dispute status
type Status string

const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
	StatusClosed        Status = "closed"
)

// Valid reports whether the status is a known one.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInvestigating, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Open reports whether the dispute still blocks payout release.
func (s Status) Open() bool {
	return s == StatusOpen || s == StatusInvestigating
}

var transitions = map[Status][]Status{
	StatusOpen:          {StatusInvestigating, StatusResolved, StatusClosed},
	StatusInvestigating: {StatusResolved, StatusClosed},
	StatusResolved:      {},
	StatusClosed:        {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Dispute represents a disputes table row
type Dispute struct {
	ID             uuid.UUID      `db:"id"`
	BookingID      uuid.UUID      `db:"booking_id"`
	RaisedByUserID uuid.NullUUID  `db:"raised_by_user_id"`
	Reason         string         `db:"reason"`
	Description    sql.NullString `db:"description"`
	Status         Status         `db:"status"`
	Resolution     sql.NullString `db:"resolution"`
	AdminNotes     sql.NullString `db:"admin_notes"`
	ResolvedAt     sql.NullTime   `db:"resolved_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// Transition moves the dispute to a new status. The record is left
// untouched when the change is not allowed.
func (d *Dispute) Transition(to Status) error {
	if !CanTransition(d.Status, to) {
		return ErrInvalidTransition
	}
	d.Status = to
	if to == StatusResolved || to == StatusClosed {
		d.ResolvedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}
	d.UpdatedAt = time.Now()
	return nil
}
