package domain

import (
	"context"
	"io"
	"time"
)

// RawEvent is one provider-native event descriptor, already lifted out of the
// provider's wire schema by its adapter but not yet classified. Everything in
// it is provider vocabulary; the classifier and builder turn it canonical.
type RawEvent struct {
	SourceID    string
	Sport       string
	StartAt     time.Time
	CutOff      *time.Time
	Home        string
	Away        string
	Region      string
	Competition string

	// EarlyPayout is true when the provider flags any early-payout market on
	// the event. PriceBoostCount counts boosted prices the provider reports.
	EarlyPayout     bool
	PriceBoostCount int

	Markets []RawMarket
}

// RawMarket is one provider-native market descriptor.
type RawMarket struct {
	ProviderMarketID string
	Name             string

	// Params carries structured provider attributes when the provider has
	// them (e.g. sportingbet's MarketType/Period/RangeValue parameters).
	Params map[string]string

	// OfferType is a provider-level market shape hint (e.g. Kambi's OT_TWO).
	OfferType string

	Outcomes []RawOutcome
}

// RawOutcome is one provider-native outcome descriptor within a market.
type RawOutcome struct {
	ProviderOptionID string
	Label            string

	// Code is the provider's structured outcome code when one exists
	// (e.g. "1", "X", "2", "Over").
	Code string

	Status      string
	Price       Price
	EarlyPayout bool
	Meta        map[string]any
}

// MarketMapping is the canonical classification of one raw market.
type MarketMapping struct {
	Canonical   MarketType
	Period      PeriodType
	Line        *float64
	Happening   HappeningType
	Participant ParticipantSide
	Interval    string
}

// Classifier maps one provider's raw vocabulary onto the canonical taxonomy.
// Implementations are pure ordered rule tables: the first matching rule wins,
// and a descriptor no rule matches is discarded (ok=false), never an error.
type Classifier interface {
	ClassifyMarket(m RawMarket) (mapping MarketMapping, ok bool)
	ClassifyOutcome(o RawOutcome, mapping MarketMapping) (outcome OutcomeType, ok bool)
}

// Scraper fetches one provider's snapshot and returns it fully canonicalized:
// adapter, classifier, and builder run inside. Output events carry exactly
// one provider key in every per-source map.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) ([]UnifiedEvent, error)
}

// ErrorSourceDatabase is the reserved pseudo-provider key refresh summaries
// file persistence failures under. No scraper may use it as a name.
const ErrorSourceDatabase = "database"

// RefreshSummary is the outcome of one refresh cycle. A provider appears in
// EventsByProvider when its scrape settled cleanly and in Errors when it did
// not; persistence failures appear under ErrorSourceDatabase.
type RefreshSummary struct {
	StartedAt        time.Time         `json:"startedAt"`
	FinishedAt       time.Time         `json:"finishedAt"`
	EventsByProvider map[string]int    `json:"eventsByProvider"`
	Errors           map[string]string `json:"errors,omitempty"`
	TotalEvents      int               `json:"totalEvents"`
	TotalUpserted    int               `json:"totalUpserted"`
}

// EventStore is the persistence gateway for merged event documents, keyed by
// normalized identity.
type EventStore interface {
	// FetchByIdentities reads the merge base for a batch of keys. Missing
	// keys are simply absent from the result, not errors.
	FetchByIdentities(ctx context.Context, identities []string) (map[string]UnifiedEvent, error)

	// UpsertBatch writes merged documents, unordered, at most once per key.
	// No cross-document transactionality is promised.
	UpsertBatch(ctx context.Context, events []UnifiedEvent) error

	GetByIdentity(ctx context.Context, identity string) (UnifiedEvent, error)
	ListUpcoming(ctx context.Context, sport string, from, to time.Time, limit int) ([]UnifiedEvent, error)
	Count(ctx context.Context) (int64, error)

	// PurgeExpired deletes events whose start time is older than the given
	// retention window and returns how many were removed.
	PurgeExpired(ctx context.Context, retention time.Duration) (int64, error)
}

// EventCache fronts the store with merged-document lookups by identity.
type EventCache interface {
	Set(ctx context.Context, event UnifiedEvent) error
	Get(ctx context.Context, identity string) (UnifiedEvent, error)
	Invalidate(ctx context.Context, identity string) error
}

// LockManager provides distributed locking, used to serialize concurrent
// merges on the same event identity.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}
