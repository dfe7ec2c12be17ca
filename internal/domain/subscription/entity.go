package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Type represents subscription type
type Type string

const (
	TypeFeatured       Type = "featured"
	TypeVerifiedBadge  Type = "verified_badge"
	TypeZeroCommission Type = "zero_commission"
)

// Valid reports whether the type is a known one.
func (t Type) Valid() bool {
	switch t {
	case TypeFeatured, TypeVerifiedBadge, TypeZeroCommission:
		return true
	}
	return false
}

// Subscription represents a subscriptions table row
type Subscription struct {
	ID         uuid.UUID `db:"id"`
	ProviderID uuid.UUID `db:"provider_id"`
	Type       Type      `db:"type"`
	PricePaid  int64     `db:"price_paid"`
	StartsAt   time.Time `db:"starts_at"`
	EndsAt     time.Time `db:"ends_at"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
}

// Current reports whether the subscription is active right now.
func (s *Subscription) Current(now time.Time) bool {
	return s.IsActive && !now.Before(s.StartsAt) && now.Before(s.EndsAt)
}

// SubscriptionResponse for API responses
type SubscriptionResponse struct {
	ID         string `json:"id"`
	ProviderID string `json:"provider_id"`
	Type       Type   `json:"type"`
	PricePaid  int64  `json:"price_paid"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	IsActive   bool   `json:"is_active"`
}

// ToResponse converts entity to response
func (s *Subscription) ToResponse() *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:         s.ID.String(),
		ProviderID: s.ProviderID.String(),
		Type:       s.Type,
		PricePaid:  s.PricePaid,
		StartsAt:   s.StartsAt.Format(time.RFC3339),
		EndsAt:     s.EndsAt.Format(time.RFC3339),
		IsActive:   s.IsActive,
	}
}
