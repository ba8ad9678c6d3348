package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/superodds/superodds/internal/domain"
)

// EventStore implements domain.EventStore on PostgreSQL. Each merged document
// is one JSONB row keyed by normalized identity; sport and start_at are
// extracted columns so listing and retention queries stay indexed.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore creates an EventStore backed by the given connection pool.
func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

// FetchByIdentities reads the merge base for a batch of keys. Keys with no
// stored document are absent from the result.
func (s *EventStore) FetchByIdentities(ctx context.Context, identities []string) (map[string]domain.UnifiedEvent, error) {
	out := make(map[string]domain.UnifiedEvent, len(identities))
	if len(identities) == 0 {
		return out, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT normalized_id, doc FROM events WHERE normalized_id = ANY($1)`,
		identities,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			identity string
			doc      []byte
		)
		if err := rows.Scan(&identity, &doc); err != nil {
			return nil, fmt.Errorf("postgres: scan event row: %w", err)
		}
		var ev domain.UnifiedEvent
		if err := json.Unmarshal(doc, &ev); err != nil {
			return nil, fmt.Errorf("postgres: decode event %s: %w", identity, err)
		}
		out[identity] = ev
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: fetch events: %w", err)
	}
	return out, nil
}

// UpsertBatch writes merged documents in one round trip via a pgx batch.
// Writes are unordered and per-key; no cross-document transactionality.
func (s *EventStore) UpsertBatch(ctx context.Context, events []domain.UnifiedEvent) error {
	if len(events) == 0 {
		return nil
	}

	const query = `
		INSERT INTO events (normalized_id, sport, start_at, doc, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (normalized_id) DO UPDATE SET
			sport      = EXCLUDED.sport,
			start_at   = EXCLUDED.start_at,
			doc        = EXCLUDED.doc,
			updated_at = NOW()`

	batch := &pgx.Batch{}
	for _, ev := range events {
		key := ev.Key()
		if key == "" {
			continue
		}
		doc, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("postgres: encode event %s: %w", key, err)
		}
		batch.Queue(query, key, ev.Meta.Sport, ev.Meta.StartDate, doc)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: upsert batch entry %d: %w", i, err)
		}
	}
	return nil
}

// GetByIdentity returns one merged document or domain.ErrNotFound.
func (s *EventStore) GetByIdentity(ctx context.Context, identity string) (domain.UnifiedEvent, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM events WHERE normalized_id = $1`,
		identity,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UnifiedEvent{}, fmt.Errorf("postgres: event %s: %w", identity, domain.ErrNotFound)
	}
	if err != nil {
		return domain.UnifiedEvent{}, fmt.Errorf("postgres: get event %s: %w", identity, err)
	}

	var ev domain.UnifiedEvent
	if err := json.Unmarshal(doc, &ev); err != nil {
		return domain.UnifiedEvent{}, fmt.Errorf("postgres: decode event %s: %w", identity, err)
	}
	return ev, nil
}

// ListUpcoming returns documents whose start time falls in [from, to),
// earliest first. An empty sport matches every sport.
func (s *EventStore) ListUpcoming(ctx context.Context, sport string, from, to time.Time, limit int) ([]domain.UnifiedEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	var sb strings.Builder
	sb.WriteString(`SELECT doc FROM events WHERE start_at >= $1 AND start_at < $2`)
	args := []any{from, to}
	if sport != "" {
		sb.WriteString(` AND sport = $3`)
		args = append(args, sport)
	}
	sb.WriteString(fmt.Sprintf(` ORDER BY start_at ASC LIMIT %d`, limit))

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list events: %w", err)
	}
	defer rows.Close()

	var out []domain.UnifiedEvent
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("postgres: scan event row: %w", err)
		}
		var ev domain.UnifiedEvent
		if err := json.Unmarshal(doc, &ev); err != nil {
			return nil, fmt.Errorf("postgres: decode event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list events: %w", err)
	}
	return out, nil
}

// Count returns the number of stored documents.
func (s *EventStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count events: %w", err)
	}
	return count, nil
}

// PurgeExpired deletes events whose start time is older than the retention
// window and returns how many rows went.
func (s *EventStore) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE start_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("postgres: purge events before %v: %w", cutoff, err)
	}
	return tag.RowsAffected(), nil
}

var _ domain.EventStore = (*EventStore)(nil)
