package review

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/homepro/homepro-api/internal/domain/booking"
	"github.com/homepro/homepro-api/internal/domain/session"
)

// ReviewRepository is the persistence interface used by the service.
type ReviewRepository interface {
	Create(ctx context.Context, rev *Review) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Review, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]Review, error)
	SetVisible(ctx context.Context, id uuid.UUID, visible bool) error
}

// BookingSource looks up the booking being reviewed.
type BookingSource interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

// RatingSink refreshes a provider's cached rating counters after a
// review changes.
type RatingSink interface {
	ReviewPosted(ctx context.Context, providerID uuid.UUID) error
}

// CreateRequest represents review creation payload
type CreateRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"omitempty,max=2000"`
}

// Service handles review logic
type Service struct {
	repo     ReviewRepository
	bookings BookingSource
	ratings  RatingSink
}

// NewService creates review service
func NewService(repo ReviewRepository, bookings BookingSource, ratings RatingSink) *Service {
	return &Service{repo: repo, bookings: bookings, ratings: ratings}
}

// Create posts a review on a completed booking. Only the booking's
// customer may review, once per booking.
func (s *Service) Create(ctx context.Context, sess session.Session, req *CreateRequest) (*Review, error) {
	b, err := s.bookings.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !b.CustomerID.Valid || b.CustomerID.UUID != sess.UserID {
		return nil, ErrNotCustomer
	}
	if b.Status != booking.StatusCompleted {
		return nil, ErrBookingNotComplete
	}

	existing, err := s.repo.GetByBookingID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	rev := &Review{
		ID:         uuid.New(),
		BookingID:  uuid.NullUUID{UUID: req.BookingID, Valid: true},
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		Rating:     req.Rating,
		IsVisible:  true,
		CreatedAt:  time.Now(),
	}
	if req.Comment != "" {
		rev.Comment = sql.NullString{String: req.Comment, Valid: true}
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if s.ratings != nil && b.ProviderID.Valid {
		if err := s.ratings.ReviewPosted(ctx, b.ProviderID.UUID); err != nil {
			log.Warn().Err(err).Str("provider_id", b.ProviderID.UUID.String()).Msg("failed to refresh provider rating")
		}
	}
	return rev, nil
}

// ListForProvider returns visible reviews for a provider.
func (s *Service) ListForProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByProvider(ctx, providerID, limit, offset)
}

// Hide makes a review invisible (admin moderation).
func (s *Service) Hide(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetVisible(ctx, id, false)
}
