package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/superodds/superodds/internal/domain"
)

const eventTTL = 5 * time.Minute

// EventCache implements domain.EventCache with JSON-serialized merged
// documents keyed by normalized identity.
//
// Key schema:
//
//	event:{identity} - JSON document
type EventCache struct {
	rdb *redis.Client
}

// NewEventCache creates an EventCache backed by the given Client.
func NewEventCache(c *Client) *EventCache {
	return &EventCache{rdb: c.Underlying()}
}

func eventKey(identity string) string { return "event:" + identity }

// Set stores a merged document with a 5-minute TTL.
func (ec *EventCache) Set(ctx context.Context, event domain.UnifiedEvent) error {
	identity := event.Key()
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event %s: %w", identity, err)
	}
	if err := ec.rdb.Set(ctx, eventKey(identity), data, eventTTL).Err(); err != nil {
		return fmt.Errorf("redis: set event %s: %w", identity, err)
	}
	return nil
}

// Get retrieves a merged document by identity. It returns domain.ErrNotFound
// when the key does not exist.
func (ec *EventCache) Get(ctx context.Context, identity string) (domain.UnifiedEvent, error) {
	data, err := ec.rdb.Get(ctx, eventKey(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.UnifiedEvent{}, domain.ErrNotFound
		}
		return domain.UnifiedEvent{}, fmt.Errorf("redis: get event %s: %w", identity, err)
	}

	var event domain.UnifiedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return domain.UnifiedEvent{}, fmt.Errorf("redis: unmarshal event %s: %w", identity, err)
	}
	return event, nil
}

// Invalidate removes a document from the cache.
func (ec *EventCache) Invalidate(ctx context.Context, identity string) error {
	if err := ec.rdb.Del(ctx, eventKey(identity)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate event %s: %w", identity, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.EventCache = (*EventCache)(nil)
