package availability

import (
	"time"

	"github.com/google/uuid"
)

// Slot represents an availability_slots table row: a recurring weekly
// window during which a provider takes bookings. Times are "HH:MM" in
// the provider's local time.
type Slot struct {
	ID          uuid.UUID `db:"id"`
	ProviderID  uuid.UUID `db:"provider_id"`
	DayOfWeek   int       `db:"day_of_week"`
	StartTime   string    `db:"start_time"`
	EndTime     string    `db:"end_time"`
	IsAvailable bool      `db:"is_available"`
	CreatedAt   time.Time `db:"created_at"`
}

// SlotResponse for API responses
type SlotResponse struct {
	ID          string `json:"id"`
	ProviderID  string `json:"provider_id"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// ToResponse converts entity to response
func (s *Slot) ToResponse() *SlotResponse {
	return &SlotResponse{
		ID:          s.ID.String(),
		ProviderID:  s.ProviderID.String(),
		DayOfWeek:   s.DayOfWeek,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsAvailable: s.IsAvailable,
	}
}
