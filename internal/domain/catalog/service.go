package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
)

// CatalogRepository is the persistence interface used by the catalog.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CreateService(ctx context.Context, s *Service) error
	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)
	UpdateService(ctx context.Context, s *Service) error
	ListServices(ctx context.Context, filter ServiceFilter) ([]Service, error)
}

// Catalog handles service and category logic
type Catalog struct {
	repo CatalogRepository
}

// NewCatalog creates the catalog
func NewCatalog(repo CatalogRepository) *Catalog {
	return &Catalog{repo: repo}
}

// ListCategories returns active categories in display order.
func (c *Catalog) ListCategories(ctx context.Context) ([]Category, error) {
	return c.repo.ListCategories(ctx)
}

// GetCategoryBySlug returns a category by slug.
func (c *Catalog) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	cat, err := c.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}
	return cat, nil
}

// CreateService adds a new offering to the provider's catalog.
func (c *Catalog) CreateService(ctx context.Context, sess session.Session, req *CreateServiceRequest) (*Service, error) {
	if !sess.ProviderID.Valid {
		return nil, ErrProviderRequired
	}

	now := time.Now()
	s := &Service{
		ID:              uuid.New(),
		ProviderID:      sess.ProviderID.UUID,
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.CategoryID != nil {
		s.CategoryID = uuid.NullUUID{UUID: *req.CategoryID, Valid: true}
	}
	setNullString(&s.Description, req.Description)

	if err := c.repo.CreateService(ctx, s); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return s, nil
}

// GetService returns a service by ID.
func (c *Catalog) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	return c.load(ctx, id)
}

// UpdateService applies changes from the owning provider.
func (c *Catalog) UpdateService(ctx context.Context, sess session.Session, id uuid.UUID, req *UpdateServiceRequest) (*Service, error) {
	s, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.ProviderID.Valid || s.ProviderID != sess.ProviderID.UUID {
		return nil, ErrNotOwner
	}

	if req.CategoryID != nil {
		s.CategoryID = uuid.NullUUID{UUID: *req.CategoryID, Valid: true}
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Description != nil {
		setNullString(&s.Description, *req.Description)
	}
	if req.Price != nil {
		s.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		s.DurationMinutes = *req.DurationMinutes
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	s.UpdatedAt = time.Now()

	if err := c.repo.UpdateService(ctx, s); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	return s, nil
}

// Deactivate hides a service from customers without deleting its history.
func (c *Catalog) Deactivate(ctx context.Context, sess session.Session, id uuid.UUID) (*Service, error) {
	inactive := false
	return c.UpdateService(ctx, sess, id, &UpdateServiceRequest{IsActive: &inactive})
}

// ListServices returns services matching the filter.
func (c *Catalog) ListServices(ctx context.Context, filter ServiceFilter) ([]Service, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return c.repo.ListServices(ctx, filter)
}

func (c *Catalog) load(ctx context.Context, id uuid.UUID) (*Service, error) {
	s, err := c.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if s == nil {
		return nil, ErrServiceNotFound
	}
	return s, nil
}
