package auth

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents registration payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	City     string `json:"city" validate:"omitempty,max=100"`
}

// LoginRequest represents login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse for API responses
type UserResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FullName  *string  `json:"full_name,omitempty"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
}

// TokensResponse carries the token pair
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResponse combines user info and tokens
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

func newUserResponse(userID uuid.UUID, p *Profile, roles []string) UserResponse {
	resp := UserResponse{
		ID:        userID.String(),
		Email:     p.Email,
		Roles:     roles,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.FullName.Valid {
		resp.FullName = &p.FullName.String
	}
	return resp
}
