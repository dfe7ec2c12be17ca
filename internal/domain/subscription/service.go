package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/homepro/homepro-api/internal/domain/session"
)

// SubscriptionRepository is the persistence interface used by the service.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *Subscription) error
	HasActive(ctx context.Context, providerID uuid.UUID, typ Type, now time.Time) (bool, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Subscription, error)
	ExpireDue(ctx context.Context, now time.Time) ([]Subscription, error)
}

// FeatureSink flips a provider's featured flag as featured subscriptions
// start and lapse.
type FeatureSink interface {
	SetFeatured(ctx context.Context, providerID uuid.UUID, featured bool) error
}

// Monthly prices in minor units per type.
var prices = map[Type]int64{
	TypeFeatured:       4900,
	TypeVerifiedBadge:  1900,
	TypeZeroCommission: 9900,
}

// PurchaseRequest represents subscription purchase payload
type PurchaseRequest struct {
	Type   Type `json:"type" validate:"required,subscription_type"`
	Months int  `json:"months" validate:"omitempty,min=1,max=12"`
}

// Service handles subscription logic
type Service struct {
	repo     SubscriptionRepository
	features FeatureSink
	now      func() time.Time
}

// NewService creates subscription service
func NewService(repo SubscriptionRepository, features FeatureSink) *Service {
	return &Service{repo: repo, features: features, now: time.Now}
}

// Purchase starts a subscription for the provider. One active
// subscription per type at a time.
func (s *Service) Purchase(ctx context.Context, sess session.Session, req *PurchaseRequest) (*Subscription, error) {
	if !sess.ProviderID.Valid {
		return nil, ErrProviderRequired
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}

	now := s.now()
	active, err := s.repo.HasActive(ctx, sess.ProviderID.UUID, req.Type, now)
	if err != nil {
		return nil, fmt.Errorf("check active subscription: %w", err)
	}
	if active {
		return nil, ErrAlreadyActive
	}

	months := req.Months
	if months <= 0 {
		months = 1
	}

	sub := &Subscription{
		ID:         uuid.New(),
		ProviderID: sess.ProviderID.UUID,
		Type:       req.Type,
		PricePaid:  prices[req.Type] * int64(months),
		StartsAt:   now,
		EndsAt:     now.AddDate(0, months, 0),
		IsActive:   true,
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	if sub.Type == TypeFeatured && s.features != nil {
		if err := s.features.SetFeatured(ctx, sub.ProviderID, true); err != nil {
			log.Warn().Err(err).Str("provider_id", sub.ProviderID.String()).Msg("failed to set featured flag")
		}
	}
	return sub, nil
}

// ListMine returns the provider's subscription history.
func (s *Service) ListMine(ctx context.Context, sess session.Session) ([]Subscription, error) {
	if !sess.ProviderID.Valid {
		return nil, ErrProviderRequired
	}
	return s.repo.ListByProvider(ctx, sess.ProviderID.UUID)
}

// HasActiveZeroCommission reports whether the provider currently holds a
// zero_commission subscription. Feeds the commission rate resolution.
func (s *Service) HasActiveZeroCommission(ctx context.Context, providerID uuid.UUID) (bool, error) {
	return s.repo.HasActive(ctx, providerID, TypeZeroCommission, s.now())
}

// ExpireDue deactivates lapsed subscriptions and clears featured flags.
// Run periodically.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", err)
	}

	for i := range expired {
		if expired[i].Type != TypeFeatured || s.features == nil {
			continue
		}
		// featured stays on if another active featured sub remains
		stillFeatured, err := s.repo.HasActive(ctx, expired[i].ProviderID, TypeFeatured, s.now())
		if err != nil || stillFeatured {
			continue
		}
		if err := s.features.SetFeatured(ctx, expired[i].ProviderID, false); err != nil {
			log.Warn().Err(err).Str("provider_id", expired[i].ProviderID.String()).Msg("failed to clear featured flag")
		}
	}
	return len(expired), nil
}
