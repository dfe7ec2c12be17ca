package auth

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/homepro/homepro-api/internal/domain/session"
)

// Repository handles profile and role database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new profile and its initial role
func (r *Repository) Create(ctx context.Context, p *Profile, role session.Role) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (
			id, user_id, email, password_hash, full_name, phone, city, suburb,
			avatar_url, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		p.ID, p.UserID, p.Email, p.PasswordHash, p.FullName, p.Phone, p.City,
		p.Suburb, p.AvatarURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, NOW())
	`, uuid.New(), p.UserID, role)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByEmail returns a profile by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `SELECT * FROM profiles WHERE email = $1`
	var p Profile
	err := r.db.GetContext(ctx, &p, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

// GetByUserID returns a profile by user ID
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `SELECT * FROM profiles WHERE user_id = $1`
	var p Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

// GetRoles returns a user's role set
func (r *Repository) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY created_at ASC`
	var roles []string
	err := r.db.SelectContext(ctx, &roles, query, userID)
	return roles, err
}

// GrantRole adds a role to a user's role set, ignoring duplicates
func (r *Repository) GrantRole(ctx context.Context, userID uuid.UUID, role session.Role) error {
	query := `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, role) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, role)
	return err
}
