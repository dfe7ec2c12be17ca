package dispute

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles dispute database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new dispute repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new dispute
func (r *Repository) Create(ctx context.Context, d *Dispute) error {
	query := `
		INSERT INTO disputes (
			id, booking_id, raised_by_user_id, reason, description,
			status, resolution, admin_notes, resolved_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.BookingID,
		d.RaisedByUserID,
		d.Reason,
		d.Description,
		d.Status,
		d.Resolution,
		d.AdminNotes,
		d.ResolvedAt,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

// GetByID returns a dispute by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Dispute, error) {
	query := `SELECT * FROM disputes WHERE id = $1`
	var d Dispute
	err := r.db.GetContext(ctx, &d, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &d, err
}

// HasOpenByBooking reports whether a booking has an unresolved dispute
func (r *Repository) HasOpenByBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM disputes
			WHERE booking_id = $1 AND status IN ('open', 'investigating')
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, bookingID)
	return exists, err
}

// Update persists status, resolution and admin notes changes
func (r *Repository) Update(ctx context.Context, d *Dispute) error {
	query := `
		UPDATE disputes
		SET status = $2, resolution = $3, admin_notes = $4, resolved_at = $5, updated_at = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.Status, d.Resolution, d.AdminNotes, d.ResolvedAt, d.UpdatedAt)
	return err
}

// ListByBooking returns disputes raised on a booking, newest first
func (r *Repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Dispute, error) {
	query := `SELECT * FROM disputes WHERE booking_id = $1 ORDER BY created_at DESC`
	var disputes []Dispute
	err := r.db.SelectContext(ctx, &disputes, query, bookingID)
	return disputes, err
}

// ListByStatus returns disputes in the given statuses, oldest first, for
// the admin queue
func (r *Repository) ListByStatus(ctx context.Context, statuses []Status, limit, offset int) ([]Dispute, error) {
	query, args, err := sqlx.In(
		`SELECT * FROM disputes WHERE status IN (?) ORDER BY created_at ASC LIMIT ? OFFSET ?`,
		statuses, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var disputes []Dispute
	err = r.db.SelectContext(ctx, &disputes, query, args...)
	return disputes, err
}
