package merge

import (
	"reflect"
	"testing"
	"time"

	"github.com/superodds/superodds/internal/domain"
)

var (
	t0 = time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	t1 = time.Date(2025, 12, 1, 11, 0, 0, 0, time.UTC)
	t2 = time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
)

func quote(price float64, captured, updated time.Time) domain.OptionSourceData {
	return domain.OptionSourceData{
		CapturedAt: captured,
		UpdatedAt:  updated,
		StatusRaw:  "OPEN",
		Price:      domain.Price{Decimal: price},
	}
}

func option(outcome domain.OutcomeType, provider string, q domain.OptionSourceData) domain.UnifiedMarketOption {
	return domain.UnifiedMarketOption{
		Outcome: outcome,
		Label:   string(outcome),
		Sources: map[string]domain.OptionSourceData{provider: q},
	}
}

func resultMarket(updated time.Time, options ...domain.UnifiedMarketOption) domain.UnifiedMarket {
	return domain.UnifiedMarket{
		Canonical: domain.MarketResultadoFinal,
		Period:    domain.PeriodRegularTime,
		UpdatedAt: updated,
		Options:   options,
	}
}

func snapshot(provider string, markets ...domain.UnifiedMarket) domain.UnifiedEvent {
	return domain.UnifiedEvent{
		NormalizedID: "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE",
		Meta: domain.EventMeta{
			StartDate: time.Date(2025, 12, 3, 0, 30, 0, 0, time.UTC),
			Sport:     "Futebol",
		},
		Participants: domain.Participants{Home: "Grêmio", Away: "Fluminense"},
		Sources: map[string]domain.SourceSnapshot{
			provider: {EventSourceID: provider + "-123", CapturedAt: t0, UpdatedAt: t1},
		},
		EarlyPayoutBySource: map[string]bool{provider: false},
		Markets:             markets,
	}
}

func TestEventFreshPassThrough(t *testing.T) {
	in := snapshot("superbet", resultMarket(t1, option(domain.OutcomeHome, "superbet", quote(1.85, t0, t1))))
	in.EarlyPayoutBySource["superbet"] = true

	got := Event(nil, in)

	if got.NormalizedID != in.NormalizedID {
		t.Fatalf("identity changed: %s", got.NormalizedID)
	}
	if !got.EarlyPayout {
		t.Error("global early payout not recomputed from per-source map")
	}
	if len(got.Markets) != 1 || len(got.Markets[0].Options) != 1 {
		t.Fatalf("markets not carried: %+v", got.Markets)
	}
}

func TestEventIdempotent(t *testing.T) {
	in := snapshot("superbet", resultMarket(t1,
		option(domain.OutcomeHome, "superbet", quote(1.85, t0, t1)),
		option(domain.OutcomeAway, "superbet", quote(4.2, t0, t1)),
	))

	once := Event(nil, in)
	twice := Event(&once, in)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging the same snapshot twice diverged:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestEventCommutativeAcrossProviders(t *testing.T) {
	a := snapshot("superbet", resultMarket(t1, option(domain.OutcomeHome, "superbet", quote(1.85, t0, t1))))
	b := snapshot("sportingbet", resultMarket(t1, option(domain.OutcomeHome, "sportingbet", quote(1.9, t0, t1))))

	ab1 := Event(nil, a)
	ab := Event(&ab1, b)
	ba1 := Event(nil, b)
	ba := Event(&ba1, a)

	if !reflect.DeepEqual(keysOf(ab.Sources), keysOf(ba.Sources)) {
		t.Errorf("source keys differ: %v vs %v", keysOf(ab.Sources), keysOf(ba.Sources))
	}
	abQuotes := ab.Markets[0].Options[0].Sources
	baQuotes := ba.Markets[0].Options[0].Sources
	if !reflect.DeepEqual(abQuotes, baQuotes) {
		t.Errorf("per-provider quotes differ by merge order:\nA,B: %+v\nB,A: %+v", abQuotes, baQuotes)
	}
}

func TestEventNewProviderOptionJoinsExistingMarket(t *testing.T) {
	stored := Event(nil, snapshot("p1", resultMarket(t1,
		option(domain.OutcomeHome, "p1", quote(1.85, t0, t1)),
		option(domain.OutcomeAway, "p1", quote(4.2, t0, t1)),
	)))

	incoming := snapshot("p2", resultMarket(t2, option(domain.OutcomeDraw, "p2", quote(3.4, t2, t2))))

	got := Event(&stored, incoming)

	if len(got.Markets) != 1 {
		t.Fatalf("expected one merged market, got %d", len(got.Markets))
	}
	m := got.Markets[0]
	if len(m.Options) != 3 {
		t.Fatalf("expected HOME+AWAY+DRAW, got %d options", len(m.Options))
	}
	byOutcome := map[domain.OutcomeType]domain.UnifiedMarketOption{}
	for _, o := range m.Options {
		byOutcome[o.Outcome] = o
	}
	if _, ok := byOutcome[domain.OutcomeHome].Sources["p1"]; !ok {
		t.Error("p1 HOME quote lost")
	}
	if _, ok := byOutcome[domain.OutcomeDraw].Sources["p2"]; !ok {
		t.Error("p2 DRAW quote missing")
	}
	if !m.UpdatedAt.Equal(t2) {
		t.Errorf("market UpdatedAt = %v, want max %v", m.UpdatedAt, t2)
	}
}

func TestEventProviderQuoteReplacedWholesale(t *testing.T) {
	stored := Event(nil, snapshot("superbet", resultMarket(t1,
		option(domain.OutcomeHome, "superbet", domain.OptionSourceData{
			CapturedAt: t0,
			UpdatedAt:  t1,
			StatusRaw:  "OPEN",
			Price:      domain.Price{Decimal: 1.85, Fractional: "17/20"},
		}),
	)))

	// Next scrape from the same provider drops the fractional price.
	incoming := snapshot("superbet", resultMarket(t2,
		option(domain.OutcomeHome, "superbet", quote(1.9, t2, t2)),
	))

	got := Event(&stored, incoming)
	q := got.Markets[0].Options[0].Sources["superbet"]

	if q.Price.Decimal != 1.9 {
		t.Errorf("price not replaced: %v", q.Price.Decimal)
	}
	if q.Price.Fractional != "" {
		t.Error("stale fractional price survived a wholesale quote replace")
	}
	if !q.CapturedAt.Equal(t0) {
		t.Errorf("first-capture time lost: %v", q.CapturedAt)
	}
	if !q.UpdatedAt.Equal(t2) {
		t.Errorf("UpdatedAt = %v, want %v", q.UpdatedAt, t2)
	}
}

func TestEventNonDestructiveAcrossProviders(t *testing.T) {
	stored := Event(nil, snapshot("p1", resultMarket(t1, option(domain.OutcomeHome, "p1", quote(1.85, t0, t1)))))
	before := stored.Markets[0].Options[0].Sources["p1"]

	got := Event(&stored, snapshot("p2", resultMarket(t2, option(domain.OutcomeHome, "p2", quote(1.9, t2, t2)))))

	after, ok := got.Markets[0].Options[0].Sources["p1"]
	if !ok {
		t.Fatal("p1 quote removed by p2 merge")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("p1 quote altered by p2 merge: %+v -> %+v", before, after)
	}
}

func TestEventKeepsMarketsAbsentThisCycle(t *testing.T) {
	over := 2.5
	totals := domain.UnifiedMarket{
		Canonical: domain.MarketTotalGolsOverUnder,
		Period:    domain.PeriodRegularTime,
		Line:      &over,
		Happening: domain.HappeningGoals,
		UpdatedAt: t1,
		Options:   []domain.UnifiedMarketOption{option(domain.OutcomeOver, "p1", quote(1.95, t0, t1))},
	}
	stored := Event(nil, snapshot("p1", resultMarket(t1, option(domain.OutcomeHome, "p1", quote(1.85, t0, t1))), totals))

	// This cycle only reports the 1X2 market.
	got := Event(&stored, snapshot("p1", resultMarket(t2, option(domain.OutcomeHome, "p1", quote(1.8, t0, t2)))))

	if len(got.Markets) != 2 {
		t.Fatalf("absent market dropped: %d markets", len(got.Markets))
	}
}

func TestEventMetadataFirstWriteWins(t *testing.T) {
	stored := Event(nil, snapshot("p1", resultMarket(t1, option(domain.OutcomeHome, "p1", quote(1.85, t0, t1)))))
	stored.Meta.Region = "Brasil"
	stored.Meta.Competition = "Brasileiro A"

	incoming := snapshot("p2", resultMarket(t1, option(domain.OutcomeDraw, "p2", quote(3.3, t0, t1))))
	incoming.Meta.Region = "Brazil"
	incoming.Meta.Competition = "Serie A"

	got := Event(&stored, incoming)

	if got.Meta.Region != "Brasil" || got.Meta.Competition != "Brasileiro A" {
		t.Errorf("metadata flapped to a later provider: %+v", got.Meta)
	}
}

func TestEventDoesNotMutateInputs(t *testing.T) {
	stored := Event(nil, snapshot("p1", resultMarket(t1, option(domain.OutcomeHome, "p1", quote(1.85, t0, t1)))))
	storedCopy := Event(nil, snapshot("p1", resultMarket(t1, option(domain.OutcomeHome, "p1", quote(1.85, t0, t1)))))

	incoming := snapshot("p2", resultMarket(t2, option(domain.OutcomeHome, "p2", quote(1.9, t2, t2))))
	_ = Event(&stored, incoming)

	if !reflect.DeepEqual(stored, storedCopy) {
		t.Error("Event mutated the existing document")
	}
}

func keysOf(m map[string]domain.SourceSnapshot) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}
