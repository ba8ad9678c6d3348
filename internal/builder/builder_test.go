package builder

import (
	"errors"
	"testing"
	"time"

	"github.com/superodds/superodds/internal/domain"
)

// stubClassifier maps market "known" to resultado_final and outcomes by a
// fixed label table. Everything else is a miss.
type stubClassifier struct{}

func (stubClassifier) ClassifyMarket(m domain.RawMarket) (domain.MarketMapping, bool) {
	switch m.Name {
	case "known":
		return domain.MarketMapping{
			Canonical: domain.MarketResultadoFinal,
			Period:    domain.PeriodRegularTime,
			Happening: domain.HappeningGoals,
		}, true
	case "other-only":
		return domain.MarketMapping{
			Canonical: domain.MarketHandicapAsian2Way,
			Period:    domain.PeriodRegularTime,
			Happening: domain.HappeningGoals,
		}, true
	}
	return domain.MarketMapping{}, false
}

func (stubClassifier) ClassifyOutcome(o domain.RawOutcome, _ domain.MarketMapping) (domain.OutcomeType, bool) {
	switch o.Label {
	case "home":
		return domain.OutcomeHome, true
	case "away":
		return domain.OutcomeAway, true
	case "weird":
		return domain.OutcomeOther, true
	}
	return "", false
}

var start = time.Date(2025, 12, 3, 0, 30, 0, 0, time.UTC)

func rawEvent() domain.RawEvent {
	return domain.RawEvent{
		SourceID:    "src-1",
		Sport:       "Futebol",
		StartAt:     start,
		Home:        "Grêmio",
		Away:        "Fluminense",
		Region:      "Brasil",
		Competition: "Brasileirão",
		Markets: []domain.RawMarket{
			{
				ProviderMarketID: "m1",
				Name:             "known",
				Outcomes: []domain.RawOutcome{
					{ProviderOptionID: "o1", Label: "home", Price: domain.Price{Decimal: 1.85}},
					{ProviderOptionID: "o2", Label: "away", Price: domain.Price{Decimal: 4.1}},
				},
			},
		},
	}
}

func TestBuildAssemblesSingleProviderDocument(t *testing.T) {
	b := New("superbet", stubClassifier{}, nil)
	now := time.Now().UTC()

	ev, err := b.Build(rawEvent(), now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if ev.NormalizedID != "FUTEBOL-20251203T003000Z-GREMIO-FLUMINENSE" {
		t.Errorf("identity = %s", ev.NormalizedID)
	}
	if len(ev.Sources) != 1 {
		t.Fatalf("sources = %v, want exactly one key", ev.Sources)
	}
	src, ok := ev.Sources["superbet"]
	if !ok {
		t.Fatal("missing superbet source snapshot")
	}
	if src.EventSourceID != "src-1" || !src.CapturedAt.Equal(now) {
		t.Errorf("snapshot = %+v", src)
	}
	if len(ev.Markets) != 1 || len(ev.Markets[0].Options) != 2 {
		t.Fatalf("markets = %+v", ev.Markets)
	}
	opt := ev.Markets[0].Options[0]
	if opt.Outcome != domain.OutcomeHome {
		t.Errorf("outcome = %s", opt.Outcome)
	}
	q, ok := opt.Sources["superbet"]
	if !ok {
		t.Fatal("missing superbet quote")
	}
	if q.Price.Decimal != 1.85 || q.MarketID != "m1" || q.OptionID != "o1" {
		t.Errorf("quote = %+v", q)
	}
	if ev.EarlyPayout || ev.EarlyPayoutBySource["superbet"] {
		t.Error("early payout should be off")
	}
	if ev.TagsBySource != nil {
		t.Errorf("tags = %v, want nil without price boosts", ev.TagsBySource)
	}
}

func TestBuildRejectsMissingIdentityInputs(t *testing.T) {
	b := New("superbet", stubClassifier{}, nil)
	now := time.Now().UTC()

	noStart := rawEvent()
	noStart.StartAt = time.Time{}
	if _, err := b.Build(noStart, now); !errors.Is(err, domain.ErrNotBuildable) {
		t.Errorf("missing start: err = %v", err)
	}

	blankHome := rawEvent()
	blankHome.Home = " ··· "
	if _, err := b.Build(blankHome, now); !errors.Is(err, domain.ErrNotBuildable) {
		t.Errorf("blank home: err = %v", err)
	}
}

func TestBuildDiscardsUnmappableMarketsAndOutcomes(t *testing.T) {
	b := New("superbet", stubClassifier{}, nil)
	raw := rawEvent()
	raw.Markets = append(raw.Markets,
		// Unknown market name: whole market dropped.
		domain.RawMarket{ProviderMarketID: "m2", Name: "mystery", Outcomes: []domain.RawOutcome{
			{Label: "home", Price: domain.Price{Decimal: 2.0}},
		}},
		// Known market whose outcomes all miss: dropped as optionless.
		domain.RawMarket{ProviderMarketID: "m3", Name: "known", Outcomes: []domain.RawOutcome{
			{Label: "banana", Price: domain.Price{Decimal: 3.0}},
		}},
		// OTHER is a debug sentinel and never survives into a document.
		domain.RawMarket{ProviderMarketID: "m4", Name: "other-only", Outcomes: []domain.RawOutcome{
			{Label: "weird", Price: domain.Price{Decimal: 1.5}},
		}},
	)

	ev, err := b.Build(raw, time.Now().UTC())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(ev.Markets) != 1 {
		t.Fatalf("markets = %d, want only the clean one", len(ev.Markets))
	}
	if ev.Markets[0].Canonical != domain.MarketResultadoFinal {
		t.Errorf("canonical = %s", ev.Markets[0].Canonical)
	}
}

func TestBuildEarlyPayoutAndTags(t *testing.T) {
	b := New("superbet", stubClassifier{}, nil)
	raw := rawEvent()
	raw.Markets[0].Outcomes[0].EarlyPayout = true
	raw.PriceBoostCount = 2

	ev, err := b.Build(raw, time.Now().UTC())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !ev.EarlyPayout {
		t.Error("event early payout should be on")
	}
	if !ev.EarlyPayoutBySource["superbet"] {
		t.Error("per-source early payout should be on")
	}
	q := ev.Markets[0].Options[0].Sources["superbet"]
	if !q.EarlyPayout {
		t.Error("quote early payout should be on")
	}
	if got := ev.TagsBySource["superbet"].PriceBoostCount; got != 2 {
		t.Errorf("price boost count = %d, want 2", got)
	}
}

func TestBuildAllSkipsUnbuildable(t *testing.T) {
	b := New("superbet", stubClassifier{}, nil)

	bad := rawEvent()
	bad.StartAt = time.Time{}
	events := b.BuildAll([]domain.RawEvent{rawEvent(), bad}, time.Now().UTC())
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
}
