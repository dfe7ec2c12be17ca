package provider

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus represents provider verification state
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Valid reports whether the status is a known one.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// Provider represents a providers table row
type Provider struct {
	ID                 uuid.UUID          `db:"id"`
	UserID             uuid.UUID          `db:"user_id"`
	BusinessName       string             `db:"business_name"`
	Bio                sql.NullString     `db:"bio"`
	City               string             `db:"city"`
	Suburb             sql.NullString     `db:"suburb"`
	ServiceRadiusKm    sql.NullInt32      `db:"service_radius_km"`
	CommissionRate     sql.NullFloat64    `db:"commission_rate"`
	VerificationStatus VerificationStatus `db:"verification_status"`
	IsFeatured         bool               `db:"is_featured"`
	AverageRating      float64            `db:"average_rating"`
	TotalReviews       int                `db:"total_reviews"`
	TotalBookings      int                `db:"total_bookings"`
	ProfileImageURL    sql.NullString     `db:"profile_image_url"`
	CoverImageURL      sql.NullString     `db:"cover_image_url"`
	CreatedAt          time.Time          `db:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at"`
}
