package availability

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles availability database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new availability repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new slot
func (r *Repository) Create(ctx context.Context, s *Slot) error {
	query := `
		INSERT INTO availability_slots (
			id, provider_id, day_of_week, start_time, end_time, is_available, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProviderID, s.DayOfWeek, s.StartTime, s.EndTime, s.IsAvailable, s.CreatedAt,
	)
	return err
}

// GetByID returns a slot by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	query := `SELECT * FROM availability_slots WHERE id = $1`
	var s Slot
	err := r.db.GetContext(ctx, &s, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &s, err
}

// ListByProvider returns a provider's weekly slots ordered by day and time
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Slot, error) {
	query := `
		SELECT * FROM availability_slots
		WHERE provider_id = $1
		ORDER BY day_of_week ASC, start_time ASC
	`
	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query, providerID)
	return slots, err
}

// Update persists slot changes
func (r *Repository) Update(ctx context.Context, s *Slot) error {
	query := `
		UPDATE availability_slots
		SET day_of_week = $2, start_time = $3, end_time = $4, is_available = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.DayOfWeek, s.StartTime, s.EndTime, s.IsAvailable)
	return err
}

// Delete removes a slot
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM availability_slots WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
