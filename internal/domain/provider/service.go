package provider

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/homepro/homepro-api/internal/domain/session"
	"github.com/homepro/homepro-api/internal/pkg/imaging"
	"github.com/homepro/homepro-api/internal/pkg/storage"
)

// ProviderRepository is the persistence interface used by the service.
type ProviderRepository interface {
	Create(ctx context.Context, p *Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Provider, error)
	Update(ctx context.Context, p *Provider) error
	UpdateRating(ctx context.Context, providerID uuid.UUID) error
	IncrementBookings(ctx context.Context, providerID uuid.UUID) error
	List(ctx context.Context, filter SearchFilter) ([]Provider, error)
	ListPendingVerification(ctx context.Context, limit, offset int) ([]Provider, error)
}

// RoleGranter adds a role to a user's role set.
type RoleGranter interface {
	GrantRole(ctx context.Context, userID uuid.UUID, role session.Role) error
}

// ZeroCommissionChecker reports whether a provider has an active
// zero_commission subscription.
type ZeroCommissionChecker interface {
	HasActiveZeroCommission(ctx context.Context, providerID uuid.UUID) (bool, error)
}

// ImageKind selects which provider image an upload replaces.
type ImageKind string

const (
	ImageProfile ImageKind = "profile"
	ImageCover   ImageKind = "cover"
)

// Service handles provider logic
type Service struct {
	repo          ProviderRepository
	roles         RoleGranter
	subscriptions ZeroCommissionChecker
	storage       storage.Storage
	images        *imaging.Processor
	platformRate  float64
}

// NewService creates provider service
func NewService(repo ProviderRepository, roles RoleGranter, subscriptions ZeroCommissionChecker, store storage.Storage, images *imaging.Processor, platformRate float64) *Service {
	return &Service{
		repo:          repo,
		roles:         roles,
		subscriptions: subscriptions,
		storage:       store,
		images:        images,
		platformRate:  platformRate,
	}
}

// Apply creates a provider profile for the authenticated user and grants
// the provider role. Verification starts as pending.
func (s *Service) Apply(ctx context.Context, sess session.Session, req *ApplyRequest) (*Provider, error) {
	existing, err := s.repo.GetByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("check existing provider: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}

	now := time.Now()
	p := &Provider{
		ID:                 uuid.New(),
		UserID:             sess.UserID,
		BusinessName:       req.BusinessName,
		City:               req.City,
		VerificationStatus: VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	setNullString(&p.Bio, req.Bio)
	setNullString(&p.Suburb, req.Suburb)
	if req.ServiceRadiusKm > 0 {
		p.ServiceRadiusKm = sql.NullInt32{Int32: int32(req.ServiceRadiusKm), Valid: true}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	if err := s.roles.GrantRole(ctx, sess.UserID, session.RoleProvider); err != nil {
		return nil, fmt.Errorf("grant provider role: %w", err)
	}
	return p, nil
}

// Get returns a provider by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.load(ctx, id)
}

// GetMine returns the authenticated user's provider profile.
func (s *Service) GetMine(ctx context.Context, sess session.Session) (*Provider, error) {
	p, err := s.repo.GetByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Update applies profile changes from the owning user.
func (s *Service) Update(ctx context.Context, sess session.Session, id uuid.UUID, req *UpdateRequest) (*Provider, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != sess.UserID {
		return nil, ErrNotOwner
	}

	if req.BusinessName != nil {
		p.BusinessName = *req.BusinessName
	}
	if req.Bio != nil {
		setNullString(&p.Bio, *req.Bio)
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.Suburb != nil {
		setNullString(&p.Suburb, *req.Suburb)
	}
	if req.ServiceRadiusKm != nil {
		p.ServiceRadiusKm = sql.NullInt32{Int32: int32(*req.ServiceRadiusKm), Valid: *req.ServiceRadiusKm > 0}
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update provider: %w", err)
	}
	return p, nil
}

// List returns providers matching the filter.
func (s *Service) List(ctx context.Context, filter SearchFilter) ([]Provider, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// ListPendingVerification returns the admin verification queue.
func (s *Service) ListPendingVerification(ctx context.Context, limit, offset int) ([]Provider, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListPendingVerification(ctx, limit, offset)
}

// Verify marks a pending provider as verified.
func (s *Service) Verify(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.decideVerification(ctx, id, VerificationVerified)
}

// Reject marks a pending provider as rejected.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.decideVerification(ctx, id, VerificationRejected)
}

// EffectiveCommissionRate resolves the commission rate in effect for a
// provider. An active zero_commission subscription wins, then a
// per-provider override, then the platform default.
func (s *Service) EffectiveCommissionRate(ctx context.Context, providerID uuid.UUID) (float64, error) {
	if s.subscriptions != nil {
		zero, err := s.subscriptions.HasActiveZeroCommission(ctx, providerID)
		if err != nil {
			return 0, fmt.Errorf("check subscription: %w", err)
		}
		if zero {
			return 0, nil
		}
	}

	p, err := s.load(ctx, providerID)
	if err != nil {
		return 0, err
	}
	if p.CommissionRate.Valid {
		return p.CommissionRate.Float64, nil
	}
	return s.platformRate, nil
}

// BookingCompleted bumps the provider's cached booking counter.
func (s *Service) BookingCompleted(ctx context.Context, providerID uuid.UUID) error {
	return s.repo.IncrementBookings(ctx, providerID)
}

// ReviewPosted refreshes the provider's cached rating counters.
func (s *Service) ReviewPosted(ctx context.Context, providerID uuid.UUID) error {
	return s.repo.UpdateRating(ctx, providerID)
}

// SetFeatured flips the featured flag. Driven by the subscription
// lifecycle.
func (s *Service) SetFeatured(ctx context.Context, providerID uuid.UUID, featured bool) error {
	p, err := s.load(ctx, providerID)
	if err != nil {
		return err
	}
	p.IsFeatured = featured
	p.UpdatedAt = time.Now()
	return s.repo.Update(ctx, p)
}

// UploadImage processes and stores a profile or cover image for the
// provider, replacing the previous one.
func (s *Service) UploadImage(ctx context.Context, sess session.Session, id uuid.UUID, kind ImageKind, filename string, size int64, reader io.Reader) (*Provider, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != sess.UserID {
		return nil, ErrNotOwner
	}
	if !imaging.ValidateType(filename) {
		return nil, ErrInvalidImage
	}
	if size > imaging.MaxFileSize {
		return nil, ErrImageTooLarge
	}

	processed, err := s.images.Process(reader)
	if err != nil {
		return nil, ErrInvalidImage
	}

	key := fmt.Sprintf("providers/%s/%s-%s", p.ID, kind, uuid.New())
	if err := s.storage.Put(ctx, key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	url := s.storage.URL(key)
	var old sql.NullString
	switch kind {
	case ImageCover:
		old = p.CoverImageURL
		p.CoverImageURL = sql.NullString{String: url, Valid: true}
	default:
		old = p.ProfileImageURL
		p.ProfileImageURL = sql.NullString{String: url, Valid: true}
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update provider: %w", err)
	}

	if old.Valid {
		base := strings.TrimSuffix(url, key)
		if oldKey := strings.TrimPrefix(old.String, base); oldKey != old.String {
			if err := s.storage.Delete(ctx, oldKey); err != nil {
				log.Warn().Err(err).Str("key", oldKey).Msg("failed to delete old provider image")
			}
		}
	}
	return p, nil
}

func (s *Service) decideVerification(ctx context.Context, id uuid.UUID, status VerificationStatus) (*Provider, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.VerificationStatus != VerificationPending {
		return nil, ErrAlreadyDecided
	}

	p.VerificationStatus = status
	p.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update provider: %w", err)
	}
	return p, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Provider, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
