package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
)

type repoStub struct {
	bookings map[uuid.UUID]*Booking
}

func newRepoStub() *repoStub {
	return &repoStub{bookings: make(map[uuid.UUID]*Booking)}
}

func (r *repoStub) Create(_ context.Context, b *Booking) error {
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *repoStub) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (r *repoStub) UpdateStatus(_ context.Context, b *Booking) error {
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *repoStub) ListByCustomer(context.Context, uuid.UUID, int, int) ([]Booking, error) {
	return nil, nil
}

func (r *repoStub) ListByProvider(context.Context, uuid.UUID, int, int) ([]Booking, error) {
	return nil, nil
}

type catalogStub struct{ svc *CatalogService }

func (c *catalogStub) GetService(context.Context, uuid.UUID) (*CatalogService, error) {
	return c.svc, nil
}

type rateStub struct{ rate float64 }

func (r *rateStub) EffectiveCommissionRate(context.Context, uuid.UUID) (float64, error) {
	return r.rate, nil
}

type paymentStub struct {
	opened   []uuid.UUID
	refunded []uuid.UUID
}

func (p *paymentStub) OpenHeld(_ context.Context, bookingID uuid.UUID, _, _, _ int64) error {
	p.opened = append(p.opened, bookingID)
	return nil
}

func (p *paymentStub) Refund(_ context.Context, bookingID uuid.UUID) error {
	p.refunded = append(p.refunded, bookingID)
	return nil
}

type publisherStub struct{ events []ChangeEvent }

func (p *publisherStub) PublishChange(_ context.Context, event ChangeEvent) error {
	p.events = append(p.events, event)
	return nil
}

func fixture() (*Service, *repoStub, *paymentStub, *publisherStub, uuid.UUID) {
	providerID := uuid.New()
	repo := newRepoStub()
	payments := &paymentStub{}
	events := &publisherStub{}
	svc := NewService(repo,
		&catalogStub{svc: &CatalogService{ID: uuid.New(), ProviderID: providerID, Price: 450, IsActive: true}},
		&rateStub{rate: 0.12},
		payments,
		events,
		nil,
	)
	return svc, repo, payments, events, providerID
}

func customerSession() session.Session {
	return session.Session{UserID: uuid.New(), Roles: []session.Role{session.RoleCustomer}}
}

func providerSession(providerID uuid.UUID) session.Session {
	return session.Session{
		UserID:     uuid.New(),
		ProviderID: uuid.NullUUID{UUID: providerID, Valid: true},
		Roles:      []session.Role{session.RoleProvider},
	}
}

func createRequest() *CreateRequest {
	return &CreateRequest{
		ServiceID:   uuid.New().String(),
		BookingDate: time.Now().AddDate(0, 0, 1),
		StartTime:   "09:00",
		EndTime:     "10:30",
		Address:     "12 Main Rd, Sandton",
	}
}

func TestCreateFreezesCommissionSplit(t *testing.T) {
	svc, _, payments, events, _ := fixture()
	sess := customerSession()

	b, err := svc.Create(context.Background(), sess, createRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if b.Status != StatusPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	if b.TotalAmount != 450 || b.CommissionAmount != 54 || b.ProviderPayout != 396 {
		t.Fatalf("unexpected split: %d/%d/%d", b.TotalAmount, b.CommissionAmount, b.ProviderPayout)
	}
	if !b.CustomerID.Valid || b.CustomerID.UUID != sess.UserID {
		t.Fatal("customer not recorded on booking")
	}
	if len(payments.opened) != 1 || payments.opened[0] != b.ID {
		t.Fatal("expected a held payment to be opened")
	}
	if len(events.events) != 1 || events.events[0].Kind != ChangeInsert {
		t.Fatalf("expected one insert event, got %+v", events.events)
	}
}

func TestAcceptEmitsUpdateEvent(t *testing.T) {
	svc, _, _, events, providerID := fixture()

	b, err := svc.Create(context.Background(), customerSession(), createRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	accepted, err := svc.Accept(context.Background(), providerSession(providerID), b.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if accepted.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", accepted.Status)
	}

	last := events.events[len(events.events)-1]
	if last.Kind != ChangeUpdate {
		t.Fatalf("expected update event, got %s", last.Kind)
	}
	if last.Old == nil || last.Old.Status != StatusPending || last.New.Status != StatusConfirmed {
		t.Fatalf("event snapshots wrong: %+v", last)
	}
}

func TestCompletePendingIsRejected(t *testing.T) {
	svc, repo, _, events, providerID := fixture()

	b, err := svc.Create(context.Background(), customerSession(), createRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	eventsBefore := len(events.events)

	if _, err := svc.Complete(context.Background(), providerSession(providerID), b.ID, ""); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), b.ID)
	if stored.Status != StatusPending {
		t.Fatalf("record must be unchanged, got %s", stored.Status)
	}
	if len(events.events) != eventsBefore {
		t.Fatal("rejected transition must not emit an event")
	}
}

func TestAcceptByWrongProviderIsForbidden(t *testing.T) {
	svc, _, _, _, _ := fixture()

	b, err := svc.Create(context.Background(), customerSession(), createRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := svc.Accept(context.Background(), providerSession(uuid.New()), b.ID); err != ErrNotBookingParty {
		t.Fatalf("expected ErrNotBookingParty, got %v", err)
	}
}

func TestCancelRefundsHeldPayment(t *testing.T) {
	svc, _, payments, _, _ := fixture()
	sess := customerSession()

	b, err := svc.Create(context.Background(), sess, createRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), sess, b.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if len(payments.refunded) != 1 || payments.refunded[0] != b.ID {
		t.Fatal("expected held payment refund")
	}
}

func TestCancelAfterStartIsRejected(t *testing.T) {
	svc, _, _, _, providerID := fixture()
	sess := customerSession()

	b, err := svc.Create(context.Background(), sess, createRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Accept(context.Background(), providerSession(providerID), b.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Start(context.Background(), providerSession(providerID), b.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), sess, b.ID); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestZeroCommissionRate(t *testing.T) {
	providerID := uuid.New()
	svc := NewService(newRepoStub(),
		&catalogStub{svc: &CatalogService{ID: uuid.New(), ProviderID: providerID, Price: 750, IsActive: true}},
		&rateStub{rate: 0},
		&paymentStub{},
		&publisherStub{},
		nil,
	)

	b, err := svc.Create(context.Background(), customerSession(), createRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.CommissionAmount != 0 || b.ProviderPayout != 750 {
		t.Fatalf("expected full payout under zero commission, got %d/%d", b.CommissionAmount, b.ProviderPayout)
	}
}

func TestCreateInactiveService(t *testing.T) {
	svc := NewService(newRepoStub(),
		&catalogStub{svc: &CatalogService{ID: uuid.New(), ProviderID: uuid.New(), Price: 450, IsActive: false}},
		&rateStub{rate: 0.12},
		&paymentStub{},
		&publisherStub{},
		nil,
	)

	if _, err := svc.Create(context.Background(), customerSession(), createRequest()); err != ErrServiceInactive {
		t.Fatalf("expected ErrServiceInactive, got %v", err)
	}
}
