package booking

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles booking database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new booking repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new booking
func (r *Repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, customer_id, provider_id, service_id, booking_date, start_time, end_time,
			total_amount, commission_amount, provider_payout, status,
			customer_address, customer_notes, provider_notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.CustomerID,
		b.ProviderID,
		b.ServiceID,
		b.BookingDate,
		b.StartTime,
		b.EndTime,
		b.TotalAmount,
		b.CommissionAmount,
		b.ProviderPayout,
		b.Status,
		b.CustomerAddress,
		b.CustomerNotes,
		b.ProviderNotes,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

// GetByID returns a booking by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT * FROM bookings WHERE id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &b, err
}

// UpdateStatus persists a status change and bumps updated_at
func (r *Repository) UpdateStatus(ctx context.Context, b *Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, provider_notes = $3, updated_at = $4
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.Status, b.ProviderNotes, b.UpdatedAt)
	return err
}

// ListByCustomer returns bookings made by a customer, newest first
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, customerID, limit, offset)
	return bookings, err
}

// ListByProvider returns bookings assigned to a provider, newest first
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE provider_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, providerID, limit, offset)
	return bookings, err
}

// CountByProviderAndStatus returns the number of a provider's bookings in a status
func (r *Repository) CountByProviderAndStatus(ctx context.Context, providerID uuid.UUID, status Status) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE provider_id = $1 AND status = $2`
	var count int
	err := r.db.GetContext(ctx, &count, query, providerID, status)
	return count, err
}
