package payment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/booking"
)

// PaymentRepository is the persistence interface used by the service.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
	UpdateStatus(ctx context.Context, p *Payment) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]Payment, error)
}

// BookingStatusSource reports a booking's current status.
type BookingStatusSource interface {
	BookingStatus(ctx context.Context, bookingID uuid.UUID) (booking.Status, error)
}

// DisputeChecker reports whether a booking has an unresolved dispute.
type DisputeChecker interface {
	HasOpenDispute(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

// Service handles payment logic
type Service struct {
	repo     PaymentRepository
	bookings BookingStatusSource
	disputes DisputeChecker
}

// NewService creates payment service
func NewService(repo PaymentRepository, bookings BookingStatusSource, disputes DisputeChecker) *Service {
	return &Service{repo: repo, bookings: bookings, disputes: disputes}
}

// OpenHeld records a held payment for a freshly created booking, mirroring
// the booking's frozen money split.
func (s *Service) OpenHeld(ctx context.Context, bookingID uuid.UUID, amount, commission, payout int64) error {
	p := &Payment{
		ID:               uuid.New(),
		BookingID:        uuid.NullUUID{UUID: bookingID, Valid: true},
		Amount:           amount,
		CommissionAmount: commission,
		PayoutAmount:     payout,
		Status:           StatusHeld,
		PaidAt:           sql.NullTime{Time: time.Now(), Valid: true},
		CreatedAt:        time.Now(),
	}
	return s.repo.Create(ctx, p)
}

// Refund refunds the held payment of a cancelled booking.
func (s *Service) Refund(ctx context.Context, bookingID uuid.UUID) error {
	p, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if p.Status != StatusHeld && p.Status != StatusPending {
		return ErrNotHeld
	}

	p.Status = StatusRefunded
	return s.repo.UpdateStatus(ctx, p)
}

// Release releases a held payout to the provider. Only possible once the
// booking is completed and any dispute on it is resolved or closed.
func (s *Service) Release(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	p, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusHeld {
		return nil, ErrNotHeld
	}

	status, err := s.bookings.BookingStatus(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking status: %w", err)
	}
	if status != booking.StatusCompleted {
		return nil, ErrReleaseBlocked
	}

	open, err := s.disputes.HasOpenDispute(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("dispute check: %w", err)
	}
	if open {
		return nil, ErrReleaseBlocked
	}

	p.Status = StatusReleased
	p.ReleasedAt = sql.NullTime{Time: time.Now(), Valid: true}
	if err := s.repo.UpdateStatus(ctx, p); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return p, nil
}

// GetForBooking returns the payment attached to a booking.
func (s *Service) GetForBooking(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	return s.load(ctx, bookingID)
}

// ListForProvider returns a provider's payments (payout history).
func (s *Service) ListForProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByProvider(ctx, providerID, limit, offset)
}

func (s *Service) load(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
