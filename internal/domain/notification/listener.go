package notification

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/homepro/homepro-api/internal/domain/booking"
	"github.com/homepro/homepro-api/internal/domain/session"
)

// Toast is the payload handed to the notification sink.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

// Notifier displays a toast to the listener's user. Delivery is
// fire-and-forget; implementations must not block on slow consumers.
type Notifier interface {
	Notify(ctx context.Context, toast Toast)
}

// EventStream is one open subscription to booking change events. Events is
// closed after Close returns.
type EventStream interface {
	Events() <-chan booking.ChangeEvent
	Close() error
}

// EventSource opens subscriptions to the booking store's change feed.
type EventSource interface {
	SubscribeChanges(ctx context.Context) (EventStream, error)
}

// Listener watches booking change events for one authenticated session and
// turns the relevant ones into toasts. Events are processed one at a time,
// in arrival order, by a single goroutine.
type Listener struct {
	sess   session.Session
	source EventSource
	sink   Notifier

	mu     sync.Mutex
	active *Subscription
}

// NewListener creates a listener for the given session. The session is
// passed explicitly; the listener holds no ambient auth state.
func NewListener(sess session.Session, source EventSource, sink Notifier) *Listener {
	return &Listener{sess: sess, source: source, sink: sink}
}

// Subscribe opens the change subscription and starts the processing loop.
// Any previous subscription held by this listener is torn down first, so a
// listener never carries more than one live subscription.
func (l *Listener) Subscribe(ctx context.Context) (*Subscription, error) {
	l.mu.Lock()
	if l.active != nil {
		l.active.Unsubscribe()
		l.active = nil
	}
	l.mu.Unlock()

	stream, err := l.source.SubscribeChanges(ctx)
	if err != nil {
		log.Error().Err(err).
			Str("user_id", l.sess.UserID.String()).
			Msg("Booking change subscription failed")
		return nil, ErrSubscribeFailed
	}

	sub := &Subscription{stream: stream}

	l.mu.Lock()
	l.active = sub
	l.mu.Unlock()

	go l.run(ctx, sub)
	return sub, nil
}

// run drains the stream until it is closed. Each event is handled to
// completion before the next one is read.
func (l *Listener) run(ctx context.Context, sub *Subscription) {
	// Tracks (booking, status) pairs already notified, in case the
	// upstream feed redelivers.
	seen := make(map[string]struct{})

	for event := range sub.stream.Events() {
		l.handle(ctx, event, seen)
	}
}

func (l *Listener) handle(ctx context.Context, event booking.ChangeEvent, seen map[string]struct{}) {
	if event.Table != "bookings" {
		return
	}

	asProvider, relevant := l.relevance(event.New)
	if !relevant {
		return
	}

	// Updates only notify on an actual status change.
	if event.Kind == booking.ChangeUpdate && event.Old != nil && event.Old.Status == event.New.Status {
		return
	}

	key := event.New.ID.String() + "|" + string(event.New.Status)
	if _, done := seen[key]; done {
		return
	}
	seen[key] = struct{}{}

	msg := StatusMessage(event.New.Status, asProvider)
	l.sink.Notify(ctx, Toast{Title: msg.Title, Description: msg.Description})
}

// relevance decides whether the event concerns this session's actor, and in
// which capacity. Providers are only notified about their own bookings.
func (l *Listener) relevance(snap booking.Snapshot) (asProvider, relevant bool) {
	if l.sess.ProviderID.Valid && snap.ProviderID != nil && *snap.ProviderID == l.sess.ProviderID.UUID {
		return true, true
	}
	if snap.CustomerID != nil && *snap.CustomerID == l.sess.UserID {
		return false, true
	}
	return false, false
}

// Subscription is one cancellable change subscription.
type Subscription struct {
	stream    EventStream
	closeOnce sync.Once
}

// Unsubscribe tears the subscription down. Safe to call more than once;
// events still in flight when it returns are dropped silently.
func (s *Subscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		if err := s.stream.Close(); err != nil {
			log.Debug().Err(err).Msg("Closing booking change stream")
		}
	})
}
