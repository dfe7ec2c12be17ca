package review

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/booking"
	"github.com/homepro/homepro-api/internal/domain/session"
)

type repoStub struct {
	byBooking map[uuid.UUID]*Review
}

func newRepoStub() *repoStub {
	return &repoStub{byBooking: make(map[uuid.UUID]*Review)}
}

func (r *repoStub) Create(_ context.Context, rev *Review) error {
	cp := *rev
	if rev.BookingID.Valid {
		r.byBooking[rev.BookingID.UUID] = &cp
	}
	return nil
}

func (r *repoStub) GetByBookingID(_ context.Context, bookingID uuid.UUID) (*Review, error) {
	rev, ok := r.byBooking[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *rev
	return &cp, nil
}

func (r *repoStub) ListByProvider(_ context.Context, _ uuid.UUID, _, _ int) ([]Review, error) {
	return nil, nil
}

func (r *repoStub) SetVisible(_ context.Context, _ uuid.UUID, _ bool) error { return nil }

type bookingsStub struct {
	b *booking.Booking
}

func (s *bookingsStub) GetBooking(_ context.Context, _ uuid.UUID) (*booking.Booking, error) {
	return s.b, nil
}

type ratingsStub struct {
	refreshed []uuid.UUID
}

func (s *ratingsStub) ReviewPosted(_ context.Context, providerID uuid.UUID) error {
	s.refreshed = append(s.refreshed, providerID)
	return nil
}

func completedBooking(customerID, providerID uuid.UUID) *booking.Booking {
	return &booking.Booking{
		ID:         uuid.New(),
		CustomerID: uuid.NullUUID{UUID: customerID, Valid: true},
		ProviderID: uuid.NullUUID{UUID: providerID, Valid: true},
		Status:     booking.StatusCompleted,
	}
}

func TestCreateReviewRefreshesProviderRating(t *testing.T) {
	customerID := uuid.New()
	providerID := uuid.New()
	b := completedBooking(customerID, providerID)

	ratings := &ratingsStub{}
	svc := NewService(newRepoStub(), &bookingsStub{b: b}, ratings)

	sess := session.Session{UserID: customerID, Roles: []session.Role{session.RoleCustomer}}
	rev, err := svc.Create(context.Background(), sess, &CreateRequest{
		BookingID: b.ID,
		Rating:    5,
		Comment:   "Great work, on time",
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	if rev.Rating != 5 || !rev.IsVisible {
		t.Fatalf("unexpected review: %+v", rev)
	}
	if len(ratings.refreshed) != 1 || ratings.refreshed[0] != providerID {
		t.Fatal("expected provider rating refresh")
	}
}

func TestReviewRequiresCompletedBooking(t *testing.T) {
	customerID := uuid.New()
	b := completedBooking(customerID, uuid.New())
	b.Status = booking.StatusInProgress

	svc := NewService(newRepoStub(), &bookingsStub{b: b}, &ratingsStub{})

	sess := session.Session{UserID: customerID}
	_, err := svc.Create(context.Background(), sess, &CreateRequest{BookingID: b.ID, Rating: 4})
	if !errors.Is(err, ErrBookingNotComplete) {
		t.Fatalf("expected ErrBookingNotComplete, got %v", err)
	}
}

func TestOnlyCustomerCanReview(t *testing.T) {
	b := completedBooking(uuid.New(), uuid.New())
	svc := NewService(newRepoStub(), &bookingsStub{b: b}, &ratingsStub{})

	sess := session.Session{UserID: uuid.New()}
	_, err := svc.Create(context.Background(), sess, &CreateRequest{BookingID: b.ID, Rating: 4})
	if !errors.Is(err, ErrNotCustomer) {
		t.Fatalf("expected ErrNotCustomer, got %v", err)
	}
}

func TestSecondReviewRejected(t *testing.T) {
	customerID := uuid.New()
	b := completedBooking(customerID, uuid.New())
	svc := NewService(newRepoStub(), &bookingsStub{b: b}, &ratingsStub{})

	sess := session.Session{UserID: customerID}
	if _, err := svc.Create(context.Background(), sess, &CreateRequest{BookingID: b.ID, Rating: 4}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	_, err := svc.Create(context.Background(), sess, &CreateRequest{BookingID: b.ID, Rating: 1})
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}
