package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/superodds/superodds/internal/domain"
	"github.com/superodds/superodds/internal/pipeline"
)

type fakeScraper struct {
	name   string
	events []domain.UnifiedEvent
	err    error
}

func (f *fakeScraper) Name() string { return f.name }

func (f *fakeScraper) Scrape(context.Context) ([]domain.UnifiedEvent, error) {
	return f.events, f.err
}

type memStore struct {
	docs       map[string]domain.UnifiedEvent
	failFetch  bool
	failUpsert bool
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]domain.UnifiedEvent)}
}

func (m *memStore) FetchByIdentities(_ context.Context, identities []string) (map[string]domain.UnifiedEvent, error) {
	if m.failFetch {
		return nil, errors.New("connection refused")
	}
	out := make(map[string]domain.UnifiedEvent)
	for _, id := range identities {
		if doc, ok := m.docs[id]; ok {
			out[id] = doc
		}
	}
	return out, nil
}

func (m *memStore) UpsertBatch(_ context.Context, events []domain.UnifiedEvent) error {
	if m.failUpsert {
		return errors.New("deadline exceeded")
	}
	for _, ev := range events {
		m.docs[ev.Key()] = ev
	}
	return nil
}

func (m *memStore) GetByIdentity(_ context.Context, identity string) (domain.UnifiedEvent, error) {
	doc, ok := m.docs[identity]
	if !ok {
		return domain.UnifiedEvent{}, domain.ErrNotFound
	}
	return doc, nil
}

func (m *memStore) ListUpcoming(context.Context, string, time.Time, time.Time, int) ([]domain.UnifiedEvent, error) {
	return nil, nil
}

func (m *memStore) Count(context.Context) (int64, error) { return int64(len(m.docs)), nil }

func (m *memStore) PurgeExpired(context.Context, time.Duration) (int64, error) { return 0, nil }

type memLocks struct {
	held map[string]bool
}

func (m *memLocks) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	if m.held[key] {
		return nil, domain.ErrLockHeld
	}
	return func() {}, nil
}

func providerEvent(provider, id string, price float64) domain.UnifiedEvent {
	now := time.Now().UTC()
	return domain.UnifiedEvent{
		NormalizedID: id,
		Meta:         domain.EventMeta{StartDate: now.Add(24 * time.Hour), Sport: "Futebol"},
		Participants: domain.Participants{Home: "Grêmio", Away: "Fluminense"},
		Sources: map[string]domain.SourceSnapshot{
			provider: {EventSourceID: provider + "-1", CapturedAt: now, UpdatedAt: now},
		},
		EarlyPayoutBySource: map[string]bool{provider: false},
		Markets: []domain.UnifiedMarket{{
			Canonical: domain.MarketResultadoFinal,
			Period:    domain.PeriodRegularTime,
			Happening: domain.HappeningGoals,
			UpdatedAt: now,
			Options: []domain.UnifiedMarketOption{{
				Outcome: domain.OutcomeHome,
				Label:   "1",
				Sources: map[string]domain.OptionSourceData{
					provider: {CapturedAt: now, UpdatedAt: now, Price: domain.Price{Decimal: price}},
				},
			}},
		}},
	}
}

func newService(store *memStore, locks domain.LockManager, scrapers ...domain.Scraper) *RefreshService {
	collector := pipeline.NewCollector(scrapers, 0, 4, nil, nil)
	return NewRefreshService(collector, store, nil, locks, 0, nil)
}

func TestRefreshMergesProvidersOnOneIdentity(t *testing.T) {
	const id = "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE"
	store := newMemStore()
	svc := newService(store, &memLocks{},
		&fakeScraper{name: "superbet", events: []domain.UnifiedEvent{providerEvent("superbet", id, 1.85)}},
		&fakeScraper{name: "betmgm", events: []domain.UnifiedEvent{providerEvent("betmgm", id, 1.9)}},
	)

	summary, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if summary.TotalEvents != 2 || summary.TotalUpserted != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.EventsByProvider["superbet"] != 1 || summary.EventsByProvider["betmgm"] != 1 {
		t.Errorf("eventsByProvider = %v", summary.EventsByProvider)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("errors = %v", summary.Errors)
	}

	doc, ok := store.docs[id]
	if !ok {
		t.Fatal("merged document not persisted")
	}
	if len(doc.Sources) != 2 {
		t.Errorf("sources = %v, want both providers", doc.Sources)
	}
	if len(doc.Markets) != 1 || len(doc.Markets[0].Options[0].Sources) != 2 {
		t.Errorf("markets not merged: %+v", doc.Markets)
	}
}

func TestRefreshIsolatesProviderFailure(t *testing.T) {
	const id = "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE"
	store := newMemStore()
	svc := newService(store, &memLocks{},
		&fakeScraper{name: "superbet", events: []domain.UnifiedEvent{providerEvent("superbet", id, 1.85)}},
		&fakeScraper{name: "sportingbet", err: errors.New("listing 503")},
	)

	summary, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if summary.Errors["sportingbet"] == "" {
		t.Error("sportingbet error missing from summary")
	}
	if summary.TotalUpserted != 1 {
		t.Errorf("upserted = %d, want the healthy provider's document", summary.TotalUpserted)
	}
}

func TestRefreshReportsStoreFailureUnderDatabaseKey(t *testing.T) {
	const id = "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE"
	store := newMemStore()
	store.failUpsert = true
	svc := newService(store, &memLocks{},
		&fakeScraper{name: "superbet", events: []domain.UnifiedEvent{providerEvent("superbet", id, 1.85)}},
	)

	summary, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if summary.Errors[domain.ErrorSourceDatabase] == "" {
		t.Errorf("errors = %v, want a database entry", summary.Errors)
	}
	if summary.TotalUpserted != 0 {
		t.Errorf("upserted = %d, want 0", summary.TotalUpserted)
	}
	// The scrape itself settled; the provider still reports its count.
	if summary.EventsByProvider["superbet"] != 1 {
		t.Errorf("eventsByProvider = %v", summary.EventsByProvider)
	}
}

func TestRefreshSkipsLockedIdentities(t *testing.T) {
	const id = "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE"
	store := newMemStore()
	locks := &memLocks{held: map[string]bool{"merge:" + id: true}}
	svc := newService(store, locks,
		&fakeScraper{name: "superbet", events: []domain.UnifiedEvent{providerEvent("superbet", id, 1.85)}},
	)

	summary, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if summary.TotalUpserted != 0 {
		t.Errorf("upserted = %d, want 0 while identity is locked", summary.TotalUpserted)
	}
	if _, ok := store.docs[id]; ok {
		t.Error("locked identity must not be written")
	}
}

func TestRefreshIsIdempotentAcrossCycles(t *testing.T) {
	const id = "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE"
	store := newMemStore()
	svc := newService(store, &memLocks{},
		&fakeScraper{name: "superbet", events: []domain.UnifiedEvent{providerEvent("superbet", id, 1.85)}},
	)

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	first := store.docs[id]

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	second := store.docs[id]

	if len(second.Sources) != 1 || len(second.Markets) != 1 {
		t.Errorf("second cycle changed shape: %+v", second)
	}
	if second.Markets[0].Options[0].Sources["superbet"].Price != first.Markets[0].Options[0].Sources["superbet"].Price {
		t.Error("price should be unchanged across identical cycles")
	}
}
