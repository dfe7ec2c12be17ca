package booking

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ChangesChannel is the Redis Pub/Sub channel carrying booking change events.
const ChangesChannel = "bookings:changes"

// ChangeKind is the kind of store mutation an event describes
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
)

// ChangeEvent is emitted after every committed booking mutation. Update
// events carry both the before and after snapshots so subscribers can
// detect status changes.
type ChangeEvent struct {
	Table string     `json:"table"`
	Kind  ChangeKind `json:"kind"`
	Old   *Snapshot  `json:"old,omitempty"`
	New   Snapshot   `json:"new"`
}

// Publisher emits booking change events to subscribers.
type Publisher interface {
	PublishChange(ctx context.Context, event ChangeEvent) error
}

// RedisPublisher publishes change events to the Redis changes channel.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a Redis-backed change event publisher.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// PublishChange sends the event to the changes channel. Delivery is
// best-effort: a publish failure is logged and never fails the mutation
// that produced it.
func (p *RedisPublisher) PublishChange(ctx context.Context, event ChangeEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, ChangesChannel, data).Err(); err != nil {
		log.Error().Err(err).
			Str("booking_id", event.New.ID.String()).
			Str("kind", string(event.Kind)).
			Msg("Failed to publish booking change event")
		return err
	}
	return nil
}
