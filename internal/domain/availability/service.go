package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
)

// SlotRepository is the persistence interface used by the service.
type SlotRepository interface {
	Create(ctx context.Context, s *Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Slot, error)
	Update(ctx context.Context, s *Slot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateRequest represents slot creation payload
type CreateRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
}

// UpdateRequest represents slot update payload
type UpdateRequest struct {
	DayOfWeek   *int    `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	StartTime   *string `json:"start_time" validate:"omitempty,len=5"`
	EndTime     *string `json:"end_time" validate:"omitempty,len=5"`
	IsAvailable *bool   `json:"is_available"`
}

// Service handles availability logic
type Service struct {
	repo SlotRepository
}

// NewService creates availability service
func NewService(repo SlotRepository) *Service {
	return &Service{repo: repo}
}

// Create adds a weekly slot to the provider's schedule. Overlapping
// windows on the same day are rejected.
func (s *Service) Create(ctx context.Context, sess session.Session, req *CreateRequest) (*Slot, error) {
	if !sess.ProviderID.Valid {
		return nil, ErrProviderRequired
	}
	if req.EndTime <= req.StartTime {
		return nil, ErrInvalidWindow
	}

	existing, err := s.repo.ListByProvider(ctx, sess.ProviderID.UUID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	for i := range existing {
		if existing[i].DayOfWeek == req.DayOfWeek && overlaps(req.StartTime, req.EndTime, existing[i].StartTime, existing[i].EndTime) {
			return nil, ErrOverlappingSlot
		}
	}

	slot := &Slot{
		ID:          uuid.New(),
		ProviderID:  sess.ProviderID.UUID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

// ListForProvider returns a provider's weekly schedule.
func (s *Service) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]Slot, error) {
	return s.repo.ListByProvider(ctx, providerID)
}

// Update applies changes from the owning provider.
func (s *Service) Update(ctx context.Context, sess session.Session, id uuid.UUID, req *UpdateRequest) (*Slot, error) {
	slot, err := s.loadOwned(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		slot.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if slot.EndTime <= slot.StartTime {
		return nil, ErrInvalidWindow
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}
	return slot, nil
}

// Delete removes a slot from the provider's schedule.
func (s *Service) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, sess, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) loadOwned(ctx context.Context, sess session.Session, id uuid.UUID) (*Slot, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrNotFound
	}
	if !sess.ProviderID.Valid || slot.ProviderID != sess.ProviderID.UUID {
		return nil, ErrNotOwner
	}
	return slot, nil
}

// overlaps relies on "HH:MM" strings comparing lexicographically.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
