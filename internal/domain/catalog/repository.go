package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles catalog database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new catalog repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ListCategories returns active categories in display order
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT * FROM service_categories
		WHERE is_active = true
		ORDER BY display_order ASC, name ASC
	`
	var categories []Category
	err := r.db.SelectContext(ctx, &categories, query)
	return categories, err
}

// GetCategoryBySlug returns a category by its slug
func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	query := `SELECT * FROM service_categories WHERE slug = $1`
	var c Category
	err := r.db.GetContext(ctx, &c, query, slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &c, err
}

// CreateService inserts a new service
func (r *Repository) CreateService(ctx context.Context, s *Service) error {
	query := `
		INSERT INTO services (
			id, provider_id, category_id, name, description, price,
			duration_minutes, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProviderID, s.CategoryID, s.Name, s.Description, s.Price,
		s.DurationMinutes, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetServiceByID returns a service by ID
func (r *Repository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	query := `SELECT * FROM services WHERE id = $1`
	var s Service
	err := r.db.GetContext(ctx, &s, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &s, err
}

// UpdateService persists service changes
func (r *Repository) UpdateService(ctx context.Context, s *Service) error {
	query := `
		UPDATE services
		SET category_id = $2, name = $3, description = $4, price = $5,
		    duration_minutes = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.CategoryID, s.Name, s.Description, s.Price,
		s.DurationMinutes, s.IsActive, s.UpdatedAt,
	)
	return err
}

// ServiceFilter narrows service listings
type ServiceFilter struct {
	ProviderID uuid.NullUUID
	CategoryID uuid.NullUUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListServices returns services matching the filter, newest first
func (r *Repository) ListServices(ctx context.Context, filter ServiceFilter) ([]Service, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.ProviderID.Valid {
		conditions = append(conditions, fmt.Sprintf("provider_id = $%d", argNum))
		args = append(args, filter.ProviderID.UUID)
		argNum++
	}
	if filter.CategoryID.Valid {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argNum))
		args = append(args, filter.CategoryID.UUID)
		argNum++
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = true")
	}

	query := `SELECT * FROM services`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var services []Service
	err := r.db.SelectContext(ctx, &services, query, args...)
	return services, err
}
