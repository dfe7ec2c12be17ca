package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles provider database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new provider repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new provider
func (r *Repository) Create(ctx context.Context, p *Provider) error {
	query := `
		INSERT INTO providers (
			id, user_id, business_name, bio, city, suburb, service_radius_km,
			commission_rate, verification_status, is_featured, average_rating,
			total_reviews, total_bookings, profile_image_url, cover_image_url,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.BusinessName, p.Bio, p.City, p.Suburb, p.ServiceRadiusKm,
		p.CommissionRate, p.VerificationStatus, p.IsFeatured, p.AverageRating,
		p.TotalReviews, p.TotalBookings, p.ProfileImageURL, p.CoverImageURL,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID returns a provider by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	query := `SELECT * FROM providers WHERE id = $1`
	var p Provider
	err := r.db.GetContext(ctx, &p, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

// GetByUserID returns a provider by owning user
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Provider, error) {
	query := `SELECT * FROM providers WHERE user_id = $1`
	var p Provider
	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

// Update persists profile changes
func (r *Repository) Update(ctx context.Context, p *Provider) error {
	query := `
		UPDATE providers
		SET business_name = $2, bio = $3, city = $4, suburb = $5,
		    service_radius_km = $6, commission_rate = $7,
		    verification_status = $8, is_featured = $9,
		    profile_image_url = $10, cover_image_url = $11, updated_at = $12
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.BusinessName, p.Bio, p.City, p.Suburb,
		p.ServiceRadiusKm, p.CommissionRate,
		p.VerificationStatus, p.IsFeatured,
		p.ProfileImageURL, p.CoverImageURL, p.UpdatedAt,
	)
	return err
}

// UpdateRating recalculates the cached rating counters from reviews
func (r *Repository) UpdateRating(ctx context.Context, providerID uuid.UUID) error {
	query := `
		UPDATE providers
		SET average_rating = COALESCE(sub.avg_rating, 0),
		    total_reviews = COALESCE(sub.review_count, 0),
		    updated_at = NOW()
		FROM (
			SELECT AVG(rating)::numeric(3,2) AS avg_rating, COUNT(*) AS review_count
			FROM reviews WHERE provider_id = $1
		) sub
		WHERE providers.id = $1
	`
	_, err := r.db.ExecContext(ctx, query, providerID)
	return err
}

// IncrementBookings bumps the cached booking counter
func (r *Repository) IncrementBookings(ctx context.Context, providerID uuid.UUID) error {
	query := `UPDATE providers SET total_bookings = total_bookings + 1, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, providerID)
	return err
}

// SetFeatured flips the featured flag
func (r *Repository) SetFeatured(ctx context.Context, providerID uuid.UUID, featured bool) error {
	query := `UPDATE providers SET is_featured = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, providerID, featured)
	return err
}

// SearchFilter narrows provider listings
type SearchFilter struct {
	City     string
	Verified bool
	Limit    int
	Offset   int
}

// List returns providers matching the filter, featured first, then by
// rating
func (r *Repository) List(ctx context.Context, filter SearchFilter) ([]Provider, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("city ILIKE $%d", argNum))
		args = append(args, filter.City)
		argNum++
	}
	if filter.Verified {
		conditions = append(conditions, fmt.Sprintf("verification_status = $%d", argNum))
		args = append(args, VerificationVerified)
		argNum++
	}

	query := `SELECT * FROM providers`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY is_featured DESC, average_rating DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var providers []Provider
	err := r.db.SelectContext(ctx, &providers, query, args...)
	return providers, err
}

// ListPendingVerification returns providers awaiting review, oldest first
func (r *Repository) ListPendingVerification(ctx context.Context, limit, offset int) ([]Provider, error) {
	query := `
		SELECT * FROM providers
		WHERE verification_status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`
	var providers []Provider
	err := r.db.SelectContext(ctx, &providers, query, limit, offset)
	return providers, err
}
