package notification

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/homepro/homepro-api/internal/domain/booking"
)

// RedisSource subscribes to the booking changes channel on Redis Pub/Sub.
type RedisSource struct {
	client *redis.Client
}

// NewRedisSource creates a Redis-backed change event source.
func NewRedisSource(client *redis.Client) *RedisSource {
	return &RedisSource{client: client}
}

// SubscribeChanges opens a dedicated Pub/Sub subscription. Each call owns
// its own channel handle; no two listeners share one.
func (s *RedisSource) SubscribeChanges(ctx context.Context) (EventStream, error) {
	if s.client == nil {
		return nil, ErrSubscribeFailed
	}

	pubsub := s.client.Subscribe(ctx, booking.ChangesChannel)
	// Force the subscription to be established before returning so an
	// unreachable Redis surfaces here, not silently in the loop.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	stream := &redisStream{
		pubsub: pubsub,
		events: make(chan booking.ChangeEvent, 16),
	}
	go stream.decodeLoop()
	return stream, nil
}

type redisStream struct {
	pubsub *redis.PubSub
	events chan booking.ChangeEvent
}

func (s *redisStream) Events() <-chan booking.ChangeEvent {
	return s.events
}

func (s *redisStream) Close() error {
	return s.pubsub.Close()
}

// decodeLoop turns raw pub/sub messages into typed events. It exits, and
// closes the events channel, when the subscription is closed.
func (s *redisStream) decodeLoop() {
	defer close(s.events)

	for msg := range s.pubsub.Channel() {
		var event booking.ChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Warn().Err(err).Msg("Dropping undecodable booking change event")
			continue
		}
		s.events <- event
	}
}
