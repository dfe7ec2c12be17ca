package provider

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
)

type repoStub struct {
	providers map[uuid.UUID]*Provider
	byUser    map[uuid.UUID]uuid.UUID
	bookings  map[uuid.UUID]int
}

func newRepoStub() *repoStub {
	return &repoStub{
		providers: make(map[uuid.UUID]*Provider),
		byUser:    make(map[uuid.UUID]uuid.UUID),
		bookings:  make(map[uuid.UUID]int),
	}
}

func (r *repoStub) Create(_ context.Context, p *Provider) error {
	cp := *p
	r.providers[p.ID] = &cp
	r.byUser[p.UserID] = p.ID
	return nil
}

func (r *repoStub) GetByID(_ context.Context, id uuid.UUID) (*Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *repoStub) GetByUserID(_ context.Context, userID uuid.UUID) (*Provider, error) {
	id, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	return r.GetByID(context.Background(), id)
}

func (r *repoStub) Update(_ context.Context, p *Provider) error {
	cp := *p
	r.providers[p.ID] = &cp
	return nil
}

func (r *repoStub) UpdateRating(_ context.Context, _ uuid.UUID) error { return nil }

func (r *repoStub) IncrementBookings(_ context.Context, providerID uuid.UUID) error {
	r.bookings[providerID]++
	return nil
}

func (r *repoStub) List(_ context.Context, _ SearchFilter) ([]Provider, error) { return nil, nil }

func (r *repoStub) ListPendingVerification(_ context.Context, _, _ int) ([]Provider, error) {
	var out []Provider
	for _, p := range r.providers {
		if p.VerificationStatus == VerificationPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

type rolesStub struct {
	granted map[uuid.UUID][]session.Role
}

func newRolesStub() *rolesStub {
	return &rolesStub{granted: make(map[uuid.UUID][]session.Role)}
}

func (r *rolesStub) GrantRole(_ context.Context, userID uuid.UUID, role session.Role) error {
	r.granted[userID] = append(r.granted[userID], role)
	return nil
}

type subsStub struct {
	zero bool
}

func (s *subsStub) HasActiveZeroCommission(_ context.Context, _ uuid.UUID) (bool, error) {
	return s.zero, nil
}

func newTestService(repo *repoStub, roles *rolesStub, subs *subsStub) *Service {
	return NewService(repo, roles, subs, nil, nil, 0.12)
}

func seedProvider(repo *repoStub, status VerificationStatus) *Provider {
	p := &Provider{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		BusinessName:       "Spark Electrical",
		City:               "Sydney",
		VerificationStatus: status,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	repo.providers[p.ID] = p
	repo.byUser[p.UserID] = p.ID
	return p
}

func TestApplyGrantsProviderRole(t *testing.T) {
	repo := newRepoStub()
	roles := newRolesStub()
	svc := newTestService(repo, roles, &subsStub{})

	sess := session.Session{UserID: uuid.New(), Roles: []session.Role{session.RoleCustomer}}
	p, err := svc.Apply(context.Background(), sess, &ApplyRequest{
		BusinessName: "Spark Electrical",
		City:         "Sydney",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if p.VerificationStatus != VerificationPending {
		t.Fatalf("expected pending verification, got %s", p.VerificationStatus)
	}
	granted := roles.granted[sess.UserID]
	if len(granted) != 1 || granted[0] != session.RoleProvider {
		t.Fatalf("expected provider role grant, got %v", granted)
	}
}

func TestSecondApplicationRejected(t *testing.T) {
	repo := newRepoStub()
	svc := newTestService(repo, newRolesStub(), &subsStub{})

	sess := session.Session{UserID: uuid.New()}
	if _, err := svc.Apply(context.Background(), sess, &ApplyRequest{BusinessName: "A", City: "Sydney"}); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	_, err := svc.Apply(context.Background(), sess, &ApplyRequest{BusinessName: "B", City: "Sydney"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestEffectiveRateDefault(t *testing.T) {
	repo := newRepoStub()
	p := seedProvider(repo, VerificationVerified)
	svc := newTestService(repo, newRolesStub(), &subsStub{})

	rate, err := svc.EffectiveCommissionRate(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("effective rate: %v", err)
	}
	if rate != 0.12 {
		t.Fatalf("expected platform default 0.12, got %v", rate)
	}
}

func TestEffectiveRateProviderOverride(t *testing.T) {
	repo := newRepoStub()
	p := seedProvider(repo, VerificationVerified)
	p.CommissionRate = sql.NullFloat64{Float64: 0.08, Valid: true}
	svc := newTestService(repo, newRolesStub(), &subsStub{})

	rate, err := svc.EffectiveCommissionRate(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("effective rate: %v", err)
	}
	if rate != 0.08 {
		t.Fatalf("expected override 0.08, got %v", rate)
	}
}

func TestEffectiveRateZeroCommissionSubscription(t *testing.T) {
	repo := newRepoStub()
	p := seedProvider(repo, VerificationVerified)
	p.CommissionRate = sql.NullFloat64{Float64: 0.08, Valid: true}
	svc := newTestService(repo, newRolesStub(), &subsStub{zero: true})

	rate, err := svc.EffectiveCommissionRate(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("effective rate: %v", err)
	}
	if rate != 0 {
		t.Fatalf("expected zero rate under subscription, got %v", rate)
	}
}

func TestVerifyPendingProvider(t *testing.T) {
	repo := newRepoStub()
	p := seedProvider(repo, VerificationPending)
	svc := newTestService(repo, newRolesStub(), &subsStub{})

	verified, err := svc.Verify(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.VerificationStatus != VerificationVerified {
		t.Fatalf("expected verified, got %s", verified.VerificationStatus)
	}
}

func TestVerifyDecidedProviderRejected(t *testing.T) {
	repo := newRepoStub()
	p := seedProvider(repo, VerificationRejected)
	svc := newTestService(repo, newRolesStub(), &subsStub{})

	_, err := svc.Verify(context.Background(), p.ID)
	if !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	repo := newRepoStub()
	p := seedProvider(repo, VerificationVerified)
	svc := newTestService(repo, newRolesStub(), &subsStub{})

	name := "Hijacked"
	sess := session.Session{UserID: uuid.New()}
	_, err := svc.Update(context.Background(), sess, p.ID, &UpdateRequest{BusinessName: &name})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestBookingCompletedBumpsCounter(t *testing.T) {
	repo := newRepoStub()
	p := seedProvider(repo, VerificationVerified)
	svc := newTestService(repo, newRolesStub(), &subsStub{})

	if err := svc.BookingCompleted(context.Background(), p.ID); err != nil {
		t.Fatalf("booking completed: %v", err)
	}
	if repo.bookings[p.ID] != 1 {
		t.Fatalf("expected counter 1, got %d", repo.bookings[p.ID])
	}
}
