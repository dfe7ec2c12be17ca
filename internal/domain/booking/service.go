package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/homepro/homepro-api/internal/domain/session"
	"github.com/homepro/homepro-api/internal/pkg/money"
)

// BookingRepository is the persistence interface used by the service.
type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	UpdateStatus(ctx context.Context, b *Booking) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Booking, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]Booking, error)
}

// CatalogService is the slice of a provider's service offering the booking
// flow needs: who provides it and what it costs.
type CatalogService struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	Price      int64
	IsActive   bool
}

// Catalog looks up bookable services.
type Catalog interface {
	GetService(ctx context.Context, id uuid.UUID) (*CatalogService, error)
}

// RateSource resolves the commission rate in effect for a provider
// (platform default, per-provider override, or zero under an active
// zero_commission subscription).
type RateSource interface {
	EffectiveCommissionRate(ctx context.Context, providerID uuid.UUID) (float64, error)
}

// PaymentRecorder mirrors booking money into payment records.
type PaymentRecorder interface {
	OpenHeld(ctx context.Context, bookingID uuid.UUID, amount, commission, payout int64) error
	Refund(ctx context.Context, bookingID uuid.UUID) error
}

// ProviderStats receives booking counters for provider profiles. May be
// nil when no stats sink is wired.
type ProviderStats interface {
	BookingCompleted(ctx context.Context, providerID uuid.UUID) error
}

// Service handles booking business logic
type Service struct {
	repo     BookingRepository
	catalog  Catalog
	rates    RateSource
	payments PaymentRecorder
	events   Publisher
	stats    ProviderStats
}

// NewService creates booking service
func NewService(repo BookingRepository, catalog Catalog, rates RateSource, payments PaymentRecorder, events Publisher, stats ProviderStats) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		rates:    rates,
		payments: payments,
		events:   events,
		stats:    stats,
	}
}

// Create submits a new booking. The commission split is computed from the
// service price and the provider's effective rate, then frozen on the record.
func (s *Service) Create(ctx context.Context, sess session.Session, req *CreateRequest) (*Booking, error) {
	if req.EndTime <= req.StartTime {
		return nil, ErrInvalidTimeRange
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, ErrServiceNotFound
	}

	svc, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("lookup service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	rate, err := s.rates.EffectiveCommissionRate(ctx, svc.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("resolve commission rate: %w", err)
	}

	split, err := money.Split(svc.Price, rate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	b := &Booking{
		ID:               uuid.New(),
		CustomerID:       uuid.NullUUID{UUID: sess.UserID, Valid: true},
		ProviderID:       uuid.NullUUID{UUID: svc.ProviderID, Valid: true},
		ServiceID:        uuid.NullUUID{UUID: svc.ID, Valid: true},
		BookingDate:      req.BookingDate,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		TotalAmount:      svc.Price,
		CommissionAmount: split.Commission,
		ProviderPayout:   split.Payout,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	setNullString(&b.CustomerAddress, req.Address)
	setNullString(&b.CustomerNotes, req.Notes)

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.payments.OpenHeld(ctx, b.ID, b.TotalAmount, b.CommissionAmount, b.ProviderPayout); err != nil {
		return nil, fmt.Errorf("open payment: %w", err)
	}

	s.publish(ctx, ChangeEvent{Table: "bookings", Kind: ChangeInsert, New: b.ToSnapshot()})
	return b, nil
}

// Accept moves a pending booking to confirmed. Provider only.
func (s *Service) Accept(ctx context.Context, sess session.Session, id uuid.UUID) (*Booking, error) {
	return s.providerTransition(ctx, sess, id, StatusConfirmed, "")
}

// Start moves a confirmed booking to in_progress. Provider only.
func (s *Service) Start(ctx context.Context, sess session.Session, id uuid.UUID) (*Booking, error) {
	return s.providerTransition(ctx, sess, id, StatusInProgress, "")
}

// Complete moves an in_progress booking to completed, making its payout
// eligible for release. Provider only.
func (s *Service) Complete(ctx context.Context, sess session.Session, id uuid.UUID, notes string) (*Booking, error) {
	return s.providerTransition(ctx, sess, id, StatusCompleted, notes)
}

// Cancel cancels a pending or confirmed booking and refunds the held
// payment. Either party may cancel.
func (s *Service) Cancel(ctx context.Context, sess session.Session, id uuid.UUID) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParty(sess, b) {
		return nil, ErrNotBookingParty
	}

	old := b.ToSnapshot()
	if err := b.Transition(StatusCancelled); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	if err := s.payments.Refund(ctx, b.ID); err != nil {
		log.Error().Err(err).Str("booking_id", b.ID.String()).Msg("Failed to refund cancelled booking")
	}

	s.publish(ctx, ChangeEvent{Table: "bookings", Kind: ChangeUpdate, Old: &old, New: b.ToSnapshot()})
	return b, nil
}

// MarkDisputed forces the booking into disputed. Called by the dispute
// service once a dispute row exists; party authorization happens there.
func (s *Service) MarkDisputed(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	old := b.ToSnapshot()
	if err := b.Transition(StatusDisputed); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.publish(ctx, ChangeEvent{Table: "bookings", Kind: ChangeUpdate, Old: &old, New: b.ToSnapshot()})
	return b, nil
}

// Get returns a booking visible to the actor (party or admin).
func (s *Service) Get(ctx context.Context, sess session.Session, id uuid.UUID) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParty(sess, b) && !sess.IsAdmin() {
		return nil, ErrNotBookingParty
	}
	return b, nil
}

// ListForCustomer returns the actor's bookings as a customer.
func (s *Service) ListForCustomer(ctx context.Context, sess session.Session, limit, offset int) ([]Booking, error) {
	return s.repo.ListByCustomer(ctx, sess.UserID, normalizeLimit(limit), offset)
}

// ListForProvider returns the actor's bookings as a provider.
func (s *Service) ListForProvider(ctx context.Context, sess session.Session, limit, offset int) ([]Booking, error) {
	if !sess.ProviderID.Valid {
		return nil, ErrNotBookingParty
	}
	return s.repo.ListByProvider(ctx, sess.ProviderID.UUID, normalizeLimit(limit), offset)
}

func (s *Service) providerTransition(ctx context.Context, sess session.Session, id uuid.UUID, to Status, notes string) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.ProviderID.Valid || !b.ProviderID.Valid || sess.ProviderID.UUID != b.ProviderID.UUID {
		return nil, ErrNotBookingParty
	}

	old := b.ToSnapshot()
	if err := b.Transition(to); err != nil {
		return nil, err
	}
	setNullString(&b.ProviderNotes, notes)

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	if to == StatusCompleted && s.stats != nil && b.ProviderID.Valid {
		if err := s.stats.BookingCompleted(ctx, b.ProviderID.UUID); err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("failed to bump provider booking counter")
		}
	}

	s.publish(ctx, ChangeEvent{Table: "bookings", Kind: ChangeUpdate, Old: &old, New: b.ToSnapshot()})
	return b, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *Service) publish(ctx context.Context, event ChangeEvent) {
	if s.events == nil {
		return
	}
	// Best effort: a lost event degrades notifications, never the booking.
	_ = s.events.PublishChange(ctx, event)
}

func isParty(sess session.Session, b *Booking) bool {
	if b.CustomerID.Valid && b.CustomerID.UUID == sess.UserID {
		return true
	}
	if sess.ProviderID.Valid && b.ProviderID.Valid && sess.ProviderID.UUID == b.ProviderID.UUID {
		return true
	}
	return false
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
