package catalog

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Category represents a service_categories table row
type Category struct {
	ID           uuid.UUID      `db:"id"`
	Name         string         `db:"name"`
	Slug         string         `db:"slug"`
	Description  sql.NullString `db:"description"`
	Icon         sql.NullString `db:"icon"`
	ImageURL     sql.NullString `db:"image_url"`
	DisplayOrder int            `db:"display_order"`
	IsActive     bool           `db:"is_active"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Service represents a services table row: a bookable offering with a
// fixed price in minor units.
type Service struct {
	ID              uuid.UUID      `db:"id"`
	ProviderID      uuid.UUID      `db:"provider_id"`
	CategoryID      uuid.NullUUID  `db:"category_id"`
	Name            string         `db:"name"`
	Description     sql.NullString `db:"description"`
	Price           int64          `db:"price"`
	DurationMinutes int            `db:"duration_minutes"`
	IsActive        bool           `db:"is_active"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
