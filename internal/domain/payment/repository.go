package payment

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles payment database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new payment
func (r *Repository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (
			id, booking_id, amount, commission_amount, payout_amount,
			status, payment_method, payment_reference, paid_at, released_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.BookingID,
		p.Amount,
		p.CommissionAmount,
		p.PayoutAmount,
		p.Status,
		p.PaymentMethod,
		p.PaymentReference,
		p.PaidAt,
		p.ReleasedAt,
		p.CreatedAt,
	)
	return err
}

// GetByBookingID returns the payment attached to a booking
func (r *Repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	query := `SELECT * FROM payments WHERE booking_id = $1`
	var p Payment
	err := r.db.GetContext(ctx, &p, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

// UpdateStatus persists a payment status change
func (r *Repository) UpdateStatus(ctx context.Context, p *Payment) error {
	query := `
		UPDATE payments
		SET status = $2, released_at = $3
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Status, p.ReleasedAt)
	return err
}

// ListByProvider returns payments for a provider's bookings, newest first
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]Payment, error) {
	query := `
		SELECT p.* FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.provider_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, query, providerID, limit, offset)
	return payments, err
}
