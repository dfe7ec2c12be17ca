package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
)

type repoStub struct {
	slots map[uuid.UUID]*Slot
}

func newRepoStub() *repoStub {
	return &repoStub{slots: make(map[uuid.UUID]*Slot)}
}

func (r *repoStub) Create(_ context.Context, s *Slot) error {
	cp := *s
	r.slots[s.ID] = &cp
	return nil
}

func (r *repoStub) GetByID(_ context.Context, id uuid.UUID) (*Slot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *repoStub) ListByProvider(_ context.Context, providerID uuid.UUID) ([]Slot, error) {
	var out []Slot
	for _, s := range r.slots {
		if s.ProviderID == providerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *repoStub) Update(_ context.Context, s *Slot) error {
	cp := *s
	r.slots[s.ID] = &cp
	return nil
}

func (r *repoStub) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.slots, id)
	return nil
}

func providerSession() session.Session {
	return session.Session{
		UserID:     uuid.New(),
		ProviderID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
		Roles:      []session.Role{session.RoleProvider},
	}
}

func TestCreateSlot(t *testing.T) {
	svc := NewService(newRepoStub())
	sess := providerSession()

	slot, err := svc.Create(context.Background(), sess, &CreateRequest{
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}
	if !slot.IsAvailable {
		t.Fatal("new slot must start available")
	}
}

func TestCreateInvertedWindowRejected(t *testing.T) {
	svc := NewService(newRepoStub())

	_, err := svc.Create(context.Background(), providerSession(), &CreateRequest{
		DayOfWeek: 1,
		StartTime: "12:00",
		EndTime:   "09:00",
	})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestOverlappingSlotRejected(t *testing.T) {
	svc := NewService(newRepoStub())
	sess := providerSession()

	if _, err := svc.Create(context.Background(), sess, &CreateRequest{
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "12:00",
	}); err != nil {
		t.Fatalf("first slot: %v", err)
	}

	_, err := svc.Create(context.Background(), sess, &CreateRequest{
		DayOfWeek: 1,
		StartTime: "11:00",
		EndTime:   "14:00",
	})
	if !errors.Is(err, ErrOverlappingSlot) {
		t.Fatalf("expected ErrOverlappingSlot, got %v", err)
	}

	// same window on another day is fine
	if _, err := svc.Create(context.Background(), sess, &CreateRequest{
		DayOfWeek: 2,
		StartTime: "11:00",
		EndTime:   "14:00",
	}); err != nil {
		t.Fatalf("slot on another day: %v", err)
	}
}

func TestDeleteByNonOwnerForbidden(t *testing.T) {
	svc := NewService(newRepoStub())
	sess := providerSession()

	slot, err := svc.Create(context.Background(), sess, &CreateRequest{
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}

	if err := svc.Delete(context.Background(), providerSession(), slot.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}
