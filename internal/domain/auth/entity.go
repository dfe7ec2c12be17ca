package auth

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Profile represents a profiles table row: account credentials plus the
// customer-facing profile fields.
type Profile struct {
	ID           uuid.UUID      `db:"id"`
	UserID       uuid.UUID      `db:"user_id"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	FullName     sql.NullString `db:"full_name"`
	Phone        sql.NullString `db:"phone"`
	City         sql.NullString `db:"city"`
	Suburb       sql.NullString `db:"suburb"`
	AvatarURL    sql.NullString `db:"avatar_url"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
