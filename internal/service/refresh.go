// Package service holds the application services behind the HTTP handlers and
// the scheduled refresh loop.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/superodds/superodds/internal/domain"
	"github.com/superodds/superodds/internal/merge"
	"github.com/superodds/superodds/internal/pipeline"
)

const (
	defaultBatchSize = 100
	lockTTL          = 30 * time.Second
)

// RefreshService runs one full refresh cycle: collect every provider's
// snapshot, then read-lock-merge-write the documents in identity batches.
//
// Persistence is per-batch and never rolled back: a failing batch lands in
// the summary under the reserved "database" error key while the other
// batches' writes stand.
type RefreshService struct {
	collector *pipeline.Collector
	store     domain.EventStore
	cache     domain.EventCache
	locks     domain.LockManager
	batchSize int
	log       *slog.Logger
}

func NewRefreshService(
	collector *pipeline.Collector,
	store domain.EventStore,
	cache domain.EventCache,
	locks domain.LockManager,
	batchSize int,
	log *slog.Logger,
) *RefreshService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &RefreshService{
		collector: collector,
		store:     store,
		cache:     cache,
		locks:     locks,
		batchSize: batchSize,
		log:       log.With(slog.String("component", "refresh")),
	}
}

// Refresh runs one cycle and reports what happened. It returns an error only
// when the context is done; provider and persistence failures are summary
// entries, not errors.
func (s *RefreshService) Refresh(ctx context.Context) (domain.RefreshSummary, error) {
	summary := domain.RefreshSummary{
		StartedAt:        time.Now().UTC(),
		EventsByProvider: make(map[string]int),
		Errors:           make(map[string]string),
	}

	snapshots := s.collector.Collect(ctx)
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	// Group incoming documents by identity, keeping first-seen order so the
	// batching below is deterministic.
	byIdentity := make(map[string][]domain.UnifiedEvent)
	var order []string
	for _, snap := range snapshots {
		if snap.Err != nil {
			summary.Errors[snap.Provider] = snap.Err.Error()
			continue
		}
		summary.EventsByProvider[snap.Provider] = len(snap.Events)
		summary.TotalEvents += len(snap.Events)
		for _, ev := range snap.Events {
			key := ev.Key()
			if key == "" {
				continue
			}
			if _, seen := byIdentity[key]; !seen {
				order = append(order, key)
			}
			byIdentity[key] = append(byIdentity[key], ev)
		}
	}

	for start := 0; start < len(order); start += s.batchSize {
		end := min(start+s.batchSize, len(order))
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = time.Now().UTC()
			return summary, err
		}
		s.mergeBatch(ctx, order[start:end], byIdentity, &summary)
	}

	summary.FinishedAt = time.Now().UTC()
	s.log.Info("refresh cycle complete",
		slog.Int("events", summary.TotalEvents),
		slog.Int("upserted", summary.TotalUpserted),
		slog.Int("errors", len(summary.Errors)))
	return summary, nil
}

// mergeBatch locks, reads, merges, and writes one identity batch. Identities
// whose lock cannot be taken are skipped this cycle; the next cycle converges
// them, since merging is idempotent.
func (s *RefreshService) mergeBatch(ctx context.Context, identities []string, byIdentity map[string][]domain.UnifiedEvent, summary *domain.RefreshSummary) {
	locked := make([]string, 0, len(identities))
	unlocks := make([]func(), 0, len(identities))
	defer func() {
		for _, unlock := range unlocks {
			unlock()
		}
	}()

	for _, identity := range identities {
		unlock, err := s.locks.Acquire(ctx, "merge:"+identity, lockTTL)
		if err != nil {
			s.log.Warn("skipping locked identity",
				slog.String("identity", identity),
				slog.String("error", err.Error()))
			continue
		}
		locked = append(locked, identity)
		unlocks = append(unlocks, unlock)
	}
	if len(locked) == 0 {
		return
	}

	existing, err := s.store.FetchByIdentities(ctx, locked)
	if err != nil {
		summary.Errors[domain.ErrorSourceDatabase] = err.Error()
		s.log.Error("merge base fetch failed", slog.String("error", err.Error()))
		return
	}

	merged := make([]domain.UnifiedEvent, 0, len(locked))
	for _, identity := range locked {
		var base *domain.UnifiedEvent
		if prior, ok := existing[identity]; ok {
			base = &prior
		}
		doc := fold(base, byIdentity[identity])
		// Stored documents are order-stable regardless of merge history.
		merge.SortMarkets(doc.Markets)
		merged = append(merged, doc)
	}

	if err := s.store.UpsertBatch(ctx, merged); err != nil {
		summary.Errors[domain.ErrorSourceDatabase] = err.Error()
		s.log.Error("upsert batch failed",
			slog.Int("size", len(merged)),
			slog.String("error", err.Error()))
		return
	}
	summary.TotalUpserted += len(merged)

	if s.cache != nil {
		for _, doc := range merged {
			// Cache refresh is best-effort.
			if err := s.cache.Set(ctx, doc); err != nil {
				s.log.Debug("cache set failed",
					slog.String("identity", doc.Key()),
					slog.String("error", err.Error()))
			}
		}
	}
}

// fold reduces every incoming document for one identity onto the stored base.
func fold(base *domain.UnifiedEvent, incoming []domain.UnifiedEvent) domain.UnifiedEvent {
	var doc domain.UnifiedEvent
	for i, ev := range incoming {
		if i == 0 {
			doc = merge.Event(base, ev)
			continue
		}
		doc = merge.Event(&doc, ev)
	}
	return doc
}
