package review

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles review database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new review repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new review
func (r *Repository) Create(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (
			id, booking_id, customer_id, provider_id, rating, comment,
			is_visible, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		rev.ID, rev.BookingID, rev.CustomerID, rev.ProviderID,
		rev.Rating, rev.Comment, rev.IsVisible, rev.CreatedAt,
	)
	return err
}

// GetByBookingID returns the review left on a booking
func (r *Repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Review, error) {
	query := `SELECT * FROM reviews WHERE booking_id = $1`
	var rev Review
	err := r.db.GetContext(ctx, &rev, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &rev, err
}

// ListByProvider returns visible reviews for a provider, newest first
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]Review, error) {
	query := `
		SELECT * FROM reviews
		WHERE provider_id = $1 AND is_visible = true
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var reviews []Review
	err := r.db.SelectContext(ctx, &reviews, query, providerID, limit, offset)
	return reviews, err
}

// SetVisible flips a review's visibility (admin moderation)
func (r *Repository) SetVisible(ctx context.Context, id uuid.UUID, visible bool) error {
	query := `UPDATE reviews SET is_visible = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, visible)
	return err
}
