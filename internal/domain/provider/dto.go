package provider

import (
	"database/sql"
	"time"
)

// ApplyRequest represents a provider application payload
type ApplyRequest struct {
	BusinessName    string `json:"business_name" validate:"required,min=2,max=100"`
	Bio             string `json:"bio" validate:"omitempty,max=2000"`
	City            string `json:"city" validate:"required,min=2,max=100"`
	Suburb          string `json:"suburb" validate:"omitempty,max=100"`
	ServiceRadiusKm int    `json:"service_radius_km" validate:"omitempty,min=1,max=500"`
}

// UpdateRequest represents a profile update payload
type UpdateRequest struct {
	BusinessName    *string `json:"business_name" validate:"omitempty,min=2,max=100"`
	Bio             *string `json:"bio" validate:"omitempty,max=2000"`
	City            *string `json:"city" validate:"omitempty,min=2,max=100"`
	Suburb          *string `json:"suburb" validate:"omitempty,max=100"`
	ServiceRadiusKm *int    `json:"service_radius_km" validate:"omitempty,min=1,max=500"`
}

// ProviderResponse for API responses
type ProviderResponse struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	BusinessName       string             `json:"business_name"`
	Bio                *string            `json:"bio,omitempty"`
	City               string             `json:"city"`
	Suburb             *string            `json:"suburb,omitempty"`
	ServiceRadiusKm    *int               `json:"service_radius_km,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	IsFeatured         bool               `json:"is_featured"`
	AverageRating      float64            `json:"average_rating"`
	TotalReviews       int                `json:"total_reviews"`
	TotalBookings      int                `json:"total_bookings"`
	ProfileImageURL    *string            `json:"profile_image_url,omitempty"`
	CoverImageURL      *string            `json:"cover_image_url,omitempty"`
	CreatedAt          string             `json:"created_at"`
}

// ToResponse converts entity to response
func (p *Provider) ToResponse() *ProviderResponse {
	resp := &ProviderResponse{
		ID:                 p.ID.String(),
		UserID:             p.UserID.String(),
		BusinessName:       p.BusinessName,
		City:               p.City,
		VerificationStatus: p.VerificationStatus,
		IsFeatured:         p.IsFeatured,
		AverageRating:      p.AverageRating,
		TotalReviews:       p.TotalReviews,
		TotalBookings:      p.TotalBookings,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
	}
	if p.Bio.Valid {
		resp.Bio = &p.Bio.String
	}
	if p.Suburb.Valid {
		resp.Suburb = &p.Suburb.String
	}
	if p.ServiceRadiusKm.Valid {
		v := int(p.ServiceRadiusKm.Int32)
		resp.ServiceRadiusKm = &v
	}
	if p.ProfileImageURL.Valid {
		resp.ProfileImageURL = &p.ProfileImageURL.String
	}
	if p.CoverImageURL.Valid {
		resp.CoverImageURL = &p.CoverImageURL.String
	}
	return resp
}

func setNullString(dst *sql.NullString, v string) {
	if v == "" {
		*dst = sql.NullString{}
		return
	}
	*dst = sql.NullString{String: v, Valid: true}
}
