package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/superodds/superodds/internal/domain"
)

// EventService answers read queries over merged event documents, fronting
// the store with the identity cache.
type EventService struct {
	store domain.EventStore
	cache domain.EventCache
	log   *slog.Logger
}

func NewEventService(store domain.EventStore, cache domain.EventCache, log *slog.Logger) *EventService {
	if log == nil {
		log = slog.Default()
	}
	return &EventService{
		store: store,
		cache: cache,
		log:   log.With(slog.String("component", "events")),
	}
}

// GetByIdentity returns one merged document, cache first. A store hit
// back-fills the cache.
func (s *EventService) GetByIdentity(ctx context.Context, identity string) (domain.UnifiedEvent, error) {
	if s.cache != nil {
		ev, err := s.cache.Get(ctx, identity)
		if err == nil {
			return ev, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Debug("cache get failed",
				slog.String("identity", identity),
				slog.String("error", err.Error()))
		}
	}

	ev, err := s.store.GetByIdentity(ctx, identity)
	if err != nil {
		return domain.UnifiedEvent{}, err
	}

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, ev); cerr != nil {
			s.log.Debug("cache backfill failed",
				slog.String("identity", identity),
				slog.String("error", cerr.Error()))
		}
	}
	return ev, nil
}

// ListUpcoming returns merged documents starting inside [from, to), newest
// window first capped at limit.
func (s *EventService) ListUpcoming(ctx context.Context, sport string, from, to time.Time, limit int) ([]domain.UnifiedEvent, error) {
	return s.store.ListUpcoming(ctx, sport, from, to, limit)
}

// Count returns the number of stored documents.
func (s *EventService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
