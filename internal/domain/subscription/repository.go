package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles subscription database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new subscription repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new subscription
func (r *Repository) Create(ctx context.Context, s *Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, provider_id, type, price_paid, starts_at, ends_at, is_active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProviderID, s.Type, s.PricePaid, s.StartsAt, s.EndsAt, s.IsActive, s.CreatedAt,
	)
	return err
}

// HasActive reports whether a provider holds an active subscription of
// the given type right now
func (r *Repository) HasActive(ctx context.Context, providerID uuid.UUID, typ Type, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE provider_id = $1 AND type = $2 AND is_active = true
			  AND starts_at <= $3 AND ends_at > $3
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, providerID, typ, now)
	return exists, err
}

// ListByProvider returns a provider's subscriptions, newest first
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Subscription, error) {
	query := `SELECT * FROM subscriptions WHERE provider_id = $1 ORDER BY created_at DESC`
	var subs []Subscription
	err := r.db.SelectContext(ctx, &subs, query, providerID)
	return subs, err
}

// ExpireDue deactivates subscriptions whose window has passed and
// returns the affected rows
func (r *Repository) ExpireDue(ctx context.Context, now time.Time) ([]Subscription, error) {
	query := `
		UPDATE subscriptions
		SET is_active = false
		WHERE is_active = true AND ends_at <= $1
		RETURNING *
	`
	var expired []Subscription
	err := r.db.SelectContext(ctx, &expired, query, now)
	return expired, err
}
