package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
)

type repoStub struct {
	services map[uuid.UUID]*Service
}

func newRepoStub() *repoStub {
	return &repoStub{services: make(map[uuid.UUID]*Service)}
}

func (r *repoStub) ListCategories(_ context.Context) ([]Category, error) { return nil, nil }

func (r *repoStub) GetCategoryBySlug(_ context.Context, _ string) (*Category, error) {
	return nil, nil
}

func (r *repoStub) CreateService(_ context.Context, s *Service) error {
	cp := *s
	r.services[s.ID] = &cp
	return nil
}

func (r *repoStub) GetServiceByID(_ context.Context, id uuid.UUID) (*Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *repoStub) UpdateService(_ context.Context, s *Service) error {
	cp := *s
	r.services[s.ID] = &cp
	return nil
}

func (r *repoStub) ListServices(_ context.Context, _ ServiceFilter) ([]Service, error) {
	return nil, nil
}

func providerSession() session.Session {
	return session.Session{
		UserID:     uuid.New(),
		ProviderID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
		Roles:      []session.Role{session.RoleProvider},
	}
}

func TestCreateServiceRequiresProviderProfile(t *testing.T) {
	c := NewCatalog(newRepoStub())

	sess := session.Session{UserID: uuid.New(), Roles: []session.Role{session.RoleCustomer}}
	_, err := c.CreateService(context.Background(), sess, &CreateServiceRequest{
		Name:            "Gutter cleaning",
		Price:           450,
		DurationMinutes: 120,
	})
	if !errors.Is(err, ErrProviderRequired) {
		t.Fatalf("expected ErrProviderRequired, got %v", err)
	}
}

func TestCreateServiceStartsActive(t *testing.T) {
	repo := newRepoStub()
	c := NewCatalog(repo)

	sess := providerSession()
	s, err := c.CreateService(context.Background(), sess, &CreateServiceRequest{
		Name:            "Gutter cleaning",
		Price:           450,
		DurationMinutes: 120,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if !s.IsActive {
		t.Fatal("new service must start active")
	}
	if s.ProviderID != sess.ProviderID.UUID {
		t.Fatal("service must belong to the creating provider")
	}
}

func TestUpdateServiceByNonOwnerForbidden(t *testing.T) {
	repo := newRepoStub()
	c := NewCatalog(repo)

	owner := providerSession()
	s, err := c.CreateService(context.Background(), owner, &CreateServiceRequest{
		Name:            "Gutter cleaning",
		Price:           450,
		DurationMinutes: 120,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	price := int64(900)
	_, err = c.UpdateService(context.Background(), providerSession(), s.ID, &UpdateServiceRequest{Price: &price})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestDeactivateHidesService(t *testing.T) {
	repo := newRepoStub()
	c := NewCatalog(repo)

	sess := providerSession()
	s, err := c.CreateService(context.Background(), sess, &CreateServiceRequest{
		Name:            "Gutter cleaning",
		Price:           450,
		DurationMinutes: 120,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	updated, err := c.Deactivate(context.Background(), sess, s.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if updated.IsActive {
		t.Fatal("deactivated service must not be active")
	}
}
