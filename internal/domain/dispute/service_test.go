package dispute

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/booking"
	"github.com/homepro/homepro-api/internal/domain/session"
)

type repoStub struct {
	disputes map[uuid.UUID]*Dispute
	created  []*Dispute
	updated  []*Dispute
}

func newRepoStub() *repoStub {
	return &repoStub{disputes: make(map[uuid.UUID]*Dispute)}
}

func (r *repoStub) Create(_ context.Context, d *Dispute) error {
	cp := *d
	r.created = append(r.created, &cp)
	r.disputes[d.ID] = &cp
	return nil
}

func (r *repoStub) GetByID(_ context.Context, id uuid.UUID) (*Dispute, error) {
	d, ok := r.disputes[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *repoStub) HasOpenByBooking(_ context.Context, bookingID uuid.UUID) (bool, error) {
	for _, d := range r.disputes {
		if d.BookingID == bookingID && d.Status.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (r *repoStub) Update(_ context.Context, d *Dispute) error {
	cp := *d
	r.updated = append(r.updated, &cp)
	r.disputes[d.ID] = &cp
	return nil
}

func (r *repoStub) ListByBooking(_ context.Context, bookingID uuid.UUID) ([]Dispute, error) {
	var out []Dispute
	for _, d := range r.disputes {
		if d.BookingID == bookingID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *repoStub) ListByStatus(_ context.Context, statuses []Status, _, _ int) ([]Dispute, error) {
	var out []Dispute
	for _, d := range r.disputes {
		for _, s := range statuses {
			if d.Status == s {
				out = append(out, *d)
			}
		}
	}
	return out, nil
}

type bookingsStub struct {
	bookings map[uuid.UUID]*booking.Booking
	marked   []uuid.UUID
}

func newBookingsStub() *bookingsStub {
	return &bookingsStub{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (b *bookingsStub) GetBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	bk, ok := b.bookings[id]
	if !ok {
		return nil, nil
	}
	return bk, nil
}

func (b *bookingsStub) MarkDisputed(_ context.Context, id uuid.UUID) error {
	b.marked = append(b.marked, id)
	return nil
}

type fixture struct {
	repo     *repoStub
	bookings *bookingsStub
	svc      *Service

	bookingID  uuid.UUID
	customer   session.Session
	provider   session.Session
	providerID uuid.UUID
}

func newFixture(status booking.Status) *fixture {
	f := &fixture{
		repo:       newRepoStub(),
		bookings:   newBookingsStub(),
		bookingID:  uuid.New(),
		providerID: uuid.New(),
	}
	f.svc = NewService(f.repo, f.bookings)

	customerID := uuid.New()
	f.customer = session.Session{UserID: customerID, Roles: []session.Role{session.RoleCustomer}}
	f.provider = session.Session{
		UserID:     uuid.New(),
		ProviderID: uuid.NullUUID{UUID: f.providerID, Valid: true},
		Roles:      []session.Role{session.RoleProvider},
	}
	f.bookings.bookings[f.bookingID] = &booking.Booking{
		ID:         f.bookingID,
		CustomerID: uuid.NullUUID{UUID: customerID, Valid: true},
		ProviderID: uuid.NullUUID{UUID: f.providerID, Valid: true},
		Status:     status,
	}
	return f
}

func TestRaiseByCustomerOpensDispute(t *testing.T) {
	f := newFixture(booking.StatusInProgress)

	d, err := f.svc.Raise(context.Background(), f.customer, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Work not finished",
	})
	if err != nil {
		t.Fatalf("raise: %v", err)
	}

	if d.Status != StatusOpen {
		t.Fatalf("expected open status, got %s", d.Status)
	}
	if !d.RaisedByUserID.Valid || d.RaisedByUserID.UUID != f.customer.UserID {
		t.Fatal("expected raised_by to be the customer")
	}
	if len(f.bookings.marked) != 1 || f.bookings.marked[0] != f.bookingID {
		t.Fatal("expected the booking to be marked disputed")
	}
}

func TestRaiseByProviderAllowed(t *testing.T) {
	f := newFixture(booking.StatusCompleted)

	_, err := f.svc.Raise(context.Background(), f.provider, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Customer refused access",
	})
	if err != nil {
		t.Fatalf("raise: %v", err)
	}
}

func TestRaiseOnPendingBookingRejected(t *testing.T) {
	f := newFixture(booking.StatusPending)

	_, err := f.svc.Raise(context.Background(), f.customer, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Changed my mind",
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(f.repo.created) != 0 {
		t.Fatal("no dispute must be created")
	}
	if len(f.bookings.marked) != 0 {
		t.Fatal("booking must not be marked disputed")
	}
}

func TestSecondOpenDisputeRejected(t *testing.T) {
	f := newFixture(booking.StatusInProgress)

	if _, err := f.svc.Raise(context.Background(), f.customer, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Work not finished",
	}); err != nil {
		t.Fatalf("first raise: %v", err)
	}

	// the booking is now disputed; reset it so only the open-dispute rule fires
	f.bookings.bookings[f.bookingID].Status = booking.StatusInProgress

	_, err := f.svc.Raise(context.Background(), f.provider, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Counter claim",
	})
	if !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
}

func TestRaiseByOutsiderForbidden(t *testing.T) {
	f := newFixture(booking.StatusInProgress)
	outsider := session.Session{UserID: uuid.New(), Roles: []session.Role{session.RoleCustomer}}

	_, err := f.svc.Raise(context.Background(), outsider, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Not my booking",
	})
	if !errors.Is(err, ErrNotBookingParty) {
		t.Fatalf("expected ErrNotBookingParty, got %v", err)
	}
}

func TestResolveSetsResolutionAndTimestamp(t *testing.T) {
	f := newFixture(booking.StatusCompleted)

	d, err := f.svc.Raise(context.Background(), f.customer, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Poor quality",
	})
	if err != nil {
		t.Fatalf("raise: %v", err)
	}

	resolved, err := f.svc.Resolve(context.Background(), d.ID, "Partial refund issued", "Photos reviewed")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != StatusResolved {
		t.Fatalf("expected resolved status, got %s", resolved.Status)
	}
	if !resolved.Resolution.Valid || resolved.Resolution.String != "Partial refund issued" {
		t.Fatalf("unexpected resolution: %+v", resolved.Resolution)
	}
	if !resolved.ResolvedAt.Valid {
		t.Fatal("expected resolved_at to be set")
	}

	open, err := f.svc.HasOpenDispute(context.Background(), f.bookingID)
	if err != nil {
		t.Fatalf("has open dispute: %v", err)
	}
	if open {
		t.Fatal("resolved dispute must not count as open")
	}
}

func TestResolveClosedDisputeRejected(t *testing.T) {
	f := newFixture(booking.StatusCompleted)

	d, err := f.svc.Raise(context.Background(), f.customer, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Poor quality",
	})
	if err != nil {
		t.Fatalf("raise: %v", err)
	}
	if _, err := f.svc.Close(context.Background(), d.ID, "", "No response from customer"); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = f.svc.Resolve(context.Background(), d.ID, "Too late", "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAdminNotesHiddenFromParties(t *testing.T) {
	f := newFixture(booking.StatusCompleted)

	d, err := f.svc.Raise(context.Background(), f.customer, &RaiseRequest{
		BookingID: f.bookingID,
		Reason:    "Poor quality",
	})
	if err != nil {
		t.Fatalf("raise: %v", err)
	}
	if _, err := f.svc.Investigate(context.Background(), d.ID, "Provider has prior complaints"); err != nil {
		t.Fatalf("investigate: %v", err)
	}

	stored, err := f.svc.Get(context.Background(), f.customer, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp := stored.ToResponse(false); resp.AdminNotes != nil {
		t.Fatal("admin notes must not leak to booking parties")
	}
	if resp := stored.ToResponse(true); resp.AdminNotes == nil {
		t.Fatal("admin notes must be visible to admins")
	}
}

func TestDisputeTransitionMatrix(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusOpen, StatusInvestigating, true},
		{StatusOpen, StatusResolved, true},
		{StatusOpen, StatusClosed, true},
		{StatusInvestigating, StatusResolved, true},
		{StatusInvestigating, StatusClosed, true},
		{StatusInvestigating, StatusOpen, false},
		{StatusResolved, StatusClosed, false},
		{StatusClosed, StatusOpen, false},
		{StatusResolved, StatusInvestigating, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}
