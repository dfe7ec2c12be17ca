package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/booking"
	"github.com/homepro/homepro-api/internal/domain/session"
)

type sinkStub struct {
	mu     sync.Mutex
	toasts []Toast
	signal chan struct{}
}

func newSinkStub() *sinkStub {
	return &sinkStub{signal: make(chan struct{}, 16)}
}

func (s *sinkStub) Notify(_ context.Context, toast Toast) {
	s.mu.Lock()
	s.toasts = append(s.toasts, toast)
	s.mu.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *sinkStub) all() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Toast(nil), s.toasts...)
}

type streamStub struct {
	ch        chan booking.ChangeEvent
	closeOnce sync.Once
	closes    int
}

func newStreamStub() *streamStub {
	return &streamStub{ch: make(chan booking.ChangeEvent, 16)}
}

func (s *streamStub) Events() <-chan booking.ChangeEvent { return s.ch }

func (s *streamStub) Close() error {
	s.closes++
	s.closeOnce.Do(func() { close(s.ch) })
	return nil
}

type sourceStub struct {
	stream *streamStub
	err    error
	opens  int
}

func (s *sourceStub) SubscribeChanges(context.Context) (EventStream, error) {
	s.opens++
	if s.err != nil {
		return nil, s.err
	}
	return s.stream, nil
}

func customerSess(userID uuid.UUID) session.Session {
	return session.Session{UserID: userID, Roles: []session.Role{session.RoleCustomer}}
}

func providerSess(userID, providerID uuid.UUID) session.Session {
	return session.Session{
		UserID:     userID,
		ProviderID: uuid.NullUUID{UUID: providerID, Valid: true},
		Roles:      []session.Role{session.RoleProvider},
	}
}

func snapshot(customerID, providerID uuid.UUID, status booking.Status) booking.Snapshot {
	return booking.Snapshot{
		ID:         uuid.New(),
		CustomerID: &customerID,
		ProviderID: &providerID,
		Status:     status,
	}
}

func updateEvent(old, new booking.Snapshot) booking.ChangeEvent {
	return booking.ChangeEvent{Table: "bookings", Kind: booking.ChangeUpdate, Old: &old, New: new}
}

func TestCustomerNotifiedOnConfirmation(t *testing.T) {
	userID := uuid.New()
	listener := NewListener(customerSess(userID), nil, nil)
	sink := newSinkStub()
	listener.sink = sink

	old := snapshot(userID, uuid.New(), booking.StatusPending)
	new := old
	new.Status = booking.StatusConfirmed

	listener.handle(context.Background(), updateEvent(old, new), map[string]struct{}{})

	toasts := sink.all()
	if len(toasts) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(toasts))
	}
	if toasts[0].Title != "Booking Confirmed" {
		t.Fatalf("expected 'Booking Confirmed', got %q", toasts[0].Title)
	}
	if toasts[0].Description != "Great news! Your booking has been confirmed." {
		t.Fatalf("wrong customer wording: %q", toasts[0].Description)
	}
}

func TestProviderWordingOnOwnBooking(t *testing.T) {
	providerID := uuid.New()
	listener := NewListener(providerSess(uuid.New(), providerID), nil, nil)
	sink := newSinkStub()
	listener.sink = sink

	snap := snapshot(uuid.New(), providerID, booking.StatusPending)
	listener.handle(context.Background(), booking.ChangeEvent{
		Table: "bookings", Kind: booking.ChangeInsert, New: snap,
	}, map[string]struct{}{})

	toasts := sink.all()
	if len(toasts) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(toasts))
	}
	if toasts[0].Title != "New Booking Request" {
		t.Fatalf("expected provider wording, got %q", toasts[0].Title)
	}
}

func TestNoToastOnNoopUpdate(t *testing.T) {
	userID := uuid.New()
	listener := NewListener(customerSess(userID), nil, nil)
	sink := newSinkStub()
	listener.sink = sink

	old := snapshot(userID, uuid.New(), booking.StatusConfirmed)
	listener.handle(context.Background(), updateEvent(old, old), map[string]struct{}{})

	if len(sink.all()) != 0 {
		t.Fatal("no-op update must not notify")
	}
}

func TestUnrelatedActorNotNotified(t *testing.T) {
	listener := NewListener(customerSess(uuid.New()), nil, nil)
	sink := newSinkStub()
	listener.sink = sink

	snap := snapshot(uuid.New(), uuid.New(), booking.StatusPending)
	listener.handle(context.Background(), booking.ChangeEvent{
		Table: "bookings", Kind: booking.ChangeInsert, New: snap,
	}, map[string]struct{}{})

	if len(sink.all()) != 0 {
		t.Fatal("unrelated actor must not be notified")
	}
}

func TestProviderNotNotifiedForOtherProvidersBooking(t *testing.T) {
	listener := NewListener(providerSess(uuid.New(), uuid.New()), nil, nil)
	sink := newSinkStub()
	listener.sink = sink

	snap := snapshot(uuid.New(), uuid.New(), booking.StatusPending)
	listener.handle(context.Background(), booking.ChangeEvent{
		Table: "bookings", Kind: booking.ChangeInsert, New: snap,
	}, map[string]struct{}{})

	if len(sink.all()) != 0 {
		t.Fatal("provider relevance is scoped to own bookings")
	}
}

func TestMalformedEventFallsBackToPending(t *testing.T) {
	userID := uuid.New()
	listener := NewListener(customerSess(userID), nil, nil)
	sink := newSinkStub()
	listener.sink = sink

	// Status missing entirely.
	snap := booking.Snapshot{ID: uuid.New(), CustomerID: &userID}
	listener.handle(context.Background(), booking.ChangeEvent{
		Table: "bookings", Kind: booking.ChangeInsert, New: snap,
	}, map[string]struct{}{})

	toasts := sink.all()
	if len(toasts) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(toasts))
	}
	if toasts[0].Title != "Booking Submitted" {
		t.Fatalf("expected pending fallback, got %q", toasts[0].Title)
	}
}

func TestRedeliveredEventDeduplicated(t *testing.T) {
	userID := uuid.New()
	listener := NewListener(customerSess(userID), nil, nil)
	sink := newSinkStub()
	listener.sink = sink

	old := snapshot(userID, uuid.New(), booking.StatusPending)
	new := old
	new.Status = booking.StatusConfirmed
	seen := map[string]struct{}{}

	listener.handle(context.Background(), updateEvent(old, new), seen)
	listener.handle(context.Background(), updateEvent(old, new), seen)

	if got := len(sink.all()); got != 1 {
		t.Fatalf("expected 1 toast after redelivery, got %d", got)
	}
}

func TestSubscribeProcessesInOrder(t *testing.T) {
	userID := uuid.New()
	stream := newStreamStub()
	source := &sourceStub{stream: stream}
	sink := newSinkStub()
	listener := NewListener(customerSess(userID), source, sink)

	sub, err := listener.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer sub.Unsubscribe()

	providerID := uuid.New()
	first := snapshot(userID, providerID, booking.StatusPending)
	confirmed := first
	confirmed.Status = booking.StatusConfirmed
	done := confirmed
	done.Status = booking.StatusInProgress

	stream.ch <- booking.ChangeEvent{Table: "bookings", Kind: booking.ChangeInsert, New: first}
	stream.ch <- updateEvent(first, confirmed)
	stream.ch <- updateEvent(confirmed, done)

	waitFor(t, sink, 3)

	toasts := sink.all()
	want := []string{"Booking Submitted", "Booking Confirmed", "Service In Progress"}
	for i, title := range want {
		if toasts[i].Title != title {
			t.Fatalf("toast %d: expected %q, got %q", i, title, toasts[i].Title)
		}
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	stream := newStreamStub()
	source := &sourceStub{stream: stream}
	sink := newSinkStub()
	listener := NewListener(customerSess(uuid.New()), source, sink)

	sub, err := listener.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()

	if stream.closes != 1 {
		t.Fatalf("expected exactly one close, got %d", stream.closes)
	}
	if len(sink.all()) != 0 {
		t.Fatal("teardown must not invoke the sink")
	}
}

func TestResubscribeTearsDownPreviousSubscription(t *testing.T) {
	first := newStreamStub()
	source := &sourceStub{stream: first}
	listener := NewListener(customerSess(uuid.New()), source, newSinkStub())

	if _, err := listener.Subscribe(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	second := newStreamStub()
	source.stream = second
	sub2, err := listener.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer sub2.Unsubscribe()

	if first.closes != 1 {
		t.Fatal("previous subscription must be torn down before resubscribing")
	}
	if source.opens != 2 {
		t.Fatalf("expected 2 opens, got %d", source.opens)
	}
}

func TestSubscribeFailure(t *testing.T) {
	source := &sourceStub{err: ErrSubscribeFailed}
	listener := NewListener(customerSess(uuid.New()), source, newSinkStub())

	if _, err := listener.Subscribe(context.Background()); err != ErrSubscribeFailed {
		t.Fatalf("expected ErrSubscribeFailed, got %v", err)
	}
}

func waitFor(t *testing.T, sink *sinkStub, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if len(sink.all()) >= n {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d toasts, have %d", n, len(sink.all()))
		case <-sink.signal:
		case <-time.After(10 * time.Millisecond):
		}
	}
}
