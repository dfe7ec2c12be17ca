package dispute

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/booking"
	"github.com/homepro/homepro-api/internal/domain/session"
)

// DisputeRepository is the persistence interface used by the service.
type DisputeRepository interface {
	Create(ctx context.Context, d *Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*Dispute, error)
	HasOpenByBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	Update(ctx context.Context, d *Dispute) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Dispute, error)
	ListByStatus(ctx context.Context, statuses []Status, limit, offset int) ([]Dispute, error)
}

// BookingGateway exposes the booking operations the dispute flow needs.
type BookingGateway interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	MarkDisputed(ctx context.Context, id uuid.UUID) error
}

// Service handles dispute logic
type Service struct {
	repo     DisputeRepository
	bookings BookingGateway
}

// NewService creates dispute service
func NewService(repo DisputeRepository, bookings BookingGateway) *Service {
	return &Service{repo: repo, bookings: bookings}
}

// Raise opens a dispute on a booking. Either party may raise one while the
// booking is in progress or completed. The booking itself is moved to
// disputed as part of the same call.
func (s *Service) Raise(ctx context.Context, sess session.Session, req *RaiseRequest) (*Dispute, error) {
	b, err := s.bookings.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !isParty(sess, b) {
		return nil, ErrNotBookingParty
	}
	if !booking.CanTransition(b.Status, booking.StatusDisputed) {
		return nil, ErrInvalidTransition
	}

	open, err := s.repo.HasOpenByBooking(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("check open dispute: %w", err)
	}
	if open {
		return nil, ErrAlreadyOpen
	}

	now := time.Now()
	d := &Dispute{
		ID:             uuid.New(),
		BookingID:      req.BookingID,
		RaisedByUserID: uuid.NullUUID{UUID: sess.UserID, Valid: true},
		Reason:         req.Reason,
		Status:         StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Description != "" {
		d.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create dispute: %w", err)
	}
	if err := s.bookings.MarkDisputed(ctx, req.BookingID); err != nil {
		return nil, fmt.Errorf("mark booking disputed: %w", err)
	}

	return d, nil
}

// Investigate moves an open dispute into investigation.
func (s *Service) Investigate(ctx context.Context, id uuid.UUID, adminNotes string) (*Dispute, error) {
	return s.adminTransition(ctx, id, StatusInvestigating, "", adminNotes)
}

// Resolve closes a dispute with a resolution in the customer's or
// provider's favor.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, resolution, adminNotes string) (*Dispute, error) {
	return s.adminTransition(ctx, id, StatusResolved, resolution, adminNotes)
}

// Close dismisses a dispute without a resolution.
func (s *Service) Close(ctx context.Context, id uuid.UUID, resolution, adminNotes string) (*Dispute, error) {
	return s.adminTransition(ctx, id, StatusClosed, resolution, adminNotes)
}

// Get returns a dispute visible to the actor (booking party or admin).
func (s *Service) Get(ctx context.Context, sess session.Session, id uuid.UUID) (*Dispute, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsAdmin() {
		return d, nil
	}

	b, err := s.bookings.GetBooking(ctx, d.BookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b == nil || !isParty(sess, b) {
		return nil, ErrNotBookingParty
	}
	return d, nil
}

// ListForBooking returns a booking's disputes to one of its parties.
func (s *Service) ListForBooking(ctx context.Context, sess session.Session, bookingID uuid.UUID) ([]Dispute, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !isParty(sess, b) && !sess.IsAdmin() {
		return nil, ErrNotBookingParty
	}
	return s.repo.ListByBooking(ctx, bookingID)
}

// ListQueue returns unresolved disputes for the admin queue, oldest first.
func (s *Service) ListQueue(ctx context.Context, limit, offset int) ([]Dispute, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByStatus(ctx, []Status{StatusOpen, StatusInvestigating}, limit, offset)
}

// HasOpenDispute reports whether a booking has an unresolved dispute.
// Used by the payment service to gate payout release.
func (s *Service) HasOpenDispute(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	return s.repo.HasOpenByBooking(ctx, bookingID)
}

func (s *Service) adminTransition(ctx context.Context, id uuid.UUID, to Status, resolution, adminNotes string) (*Dispute, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.Transition(to); err != nil {
		return nil, err
	}
	if resolution != "" {
		d.Resolution = sql.NullString{String: resolution, Valid: true}
	}
	if adminNotes != "" {
		d.AdminNotes = sql.NullString{String: adminNotes, Valid: true}
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update dispute: %w", err)
	}
	return d, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Dispute, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func isParty(sess session.Session, b *booking.Booking) bool {
	if b.CustomerID.Valid && b.CustomerID.UUID == sess.UserID {
		return true
	}
	if b.ProviderID.Valid && sess.ProviderID.Valid && b.ProviderID.UUID == sess.ProviderID.UUID {
		return true
	}
	return false
}
