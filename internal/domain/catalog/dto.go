package catalog

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateServiceRequest represents service creation payload
type CreateServiceRequest struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	Name            string     `json:"name" validate:"required,min=2,max=100"`
	Description     string     `json:"description" validate:"omitempty,max=2000"`
	Price           int64      `json:"price" validate:"required,min=0"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,min=15,max=1440"`
}

// UpdateServiceRequest represents service update payload
type UpdateServiceRequest struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	Name            *string    `json:"name" validate:"omitempty,min=2,max=100"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	Price           *int64     `json:"price" validate:"omitempty,min=0"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,min=15,max=1440"`
	IsActive        *bool      `json:"is_active"`
}

// CategoryResponse for API responses
type CategoryResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	DisplayOrder int     `json:"display_order"`
}

// ToResponse converts entity to response
func (c *Category) ToResponse() *CategoryResponse {
	resp := &CategoryResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Slug:         c.Slug,
		DisplayOrder: c.DisplayOrder,
	}
	if c.Description.Valid {
		resp.Description = &c.Description.String
	}
	if c.Icon.Valid {
		resp.Icon = &c.Icon.String
	}
	if c.ImageURL.Valid {
		resp.ImageURL = &c.ImageURL.String
	}
	return resp
}

// ServiceResponse for API responses
type ServiceResponse struct {
	ID              string  `json:"id"`
	ProviderID      string  `json:"provider_id"`
	CategoryID      *string `json:"category_id,omitempty"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Price           int64   `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	IsActive        bool    `json:"is_active"`
	CreatedAt       string  `json:"created_at"`
}

// ToResponse converts entity to response
func (s *Service) ToResponse() *ServiceResponse {
	resp := &ServiceResponse{
		ID:              s.ID.String(),
		ProviderID:      s.ProviderID.String(),
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
	if s.CategoryID.Valid {
		id := s.CategoryID.UUID.String()
		resp.CategoryID = &id
	}
	if s.Description.Valid {
		resp.Description = &s.Description.String
	}
	return resp
}

func setNullString(dst *sql.NullString, v string) {
	if v == "" {
		*dst = sql.NullString{}
		return
	}
	*dst = sql.NullString{String: v, Valid: true}
}
