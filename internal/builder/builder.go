// Package builder assembles one provider's classified snapshot into canonical
// event documents. It is single-provider by construction: every per-source
// map in its output carries exactly one key, the provider's own. Merging with
// other providers happens later, in the merge package.
package builder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/superodds/superodds/internal/domain"
)

// Builder turns raw provider events into domain.UnifiedEvent documents using
// the provider's classifier. Classification misses are silent discards, not
// errors; they are logged at debug level for observability only.
type Builder struct {
	provider   string
	classifier domain.Classifier
	log        *slog.Logger
}

func New(provider string, classifier domain.Classifier, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		provider:   provider,
		classifier: classifier,
		log:        log.With(slog.String("component", "builder"), slog.String("provider", provider)),
	}
}

// BuildAll builds every buildable event in the snapshot, dropping the rest.
func (b *Builder) BuildAll(raws []domain.RawEvent, now time.Time) []domain.UnifiedEvent {
	out := make([]domain.UnifiedEvent, 0, len(raws))
	for _, raw := range raws {
		ev, err := b.Build(raw, now)
		if err != nil {
			b.log.Debug("dropping unbuildable event",
				slog.String("source_id", raw.SourceID),
				slog.String("reason", err.Error()))
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Build assembles one raw event. It returns domain.ErrNotBuildable when the
// event lacks the inputs identity derivation needs: a start time and both
// participant names.
func (b *Builder) Build(raw domain.RawEvent, now time.Time) (domain.UnifiedEvent, error) {
	if raw.StartAt.IsZero() {
		return domain.UnifiedEvent{}, fmt.Errorf("%s: missing start time: %w", b.provider, domain.ErrNotBuildable)
	}
	if domain.NormalizeText(raw.Home) == "" || domain.NormalizeText(raw.Away) == "" {
		return domain.UnifiedEvent{}, fmt.Errorf("%s: blank participant name: %w", b.provider, domain.ErrNotBuildable)
	}

	markets, earlyPayout := b.buildMarkets(raw, now)

	ev := domain.UnifiedEvent{
		NormalizedID: domain.EventIdentity(raw.Sport, raw.StartAt, raw.Home, raw.Away),
		Meta: domain.EventMeta{
			StartDate:   raw.StartAt.UTC(),
			CutOffDate:  raw.CutOff,
			Sport:       raw.Sport,
			Region:      raw.Region,
			Competition: raw.Competition,
		},
		Participants: domain.Participants{Home: raw.Home, Away: raw.Away},
		Sources: map[string]domain.SourceSnapshot{
			b.provider: {EventSourceID: raw.SourceID, CapturedAt: now, UpdatedAt: now},
		},
		EarlyPayout:         earlyPayout,
		EarlyPayoutBySource: map[string]bool{b.provider: earlyPayout},
		Markets:             markets,
	}
	if raw.PriceBoostCount > 0 {
		ev.TagsBySource = map[string]domain.SourceTags{
			b.provider: {PriceBoostCount: raw.PriceBoostCount},
		}
	}
	return ev, nil
}

// buildMarkets classifies every raw market and outcome, discarding what the
// taxonomy cannot hold: unclassifiable markets, unclassifiable outcomes, and
// markets left with zero options. The returned flag is the OR of the event's
// own early-payout flag and every surviving outcome's.
func (b *Builder) buildMarkets(raw domain.RawEvent, now time.Time) ([]domain.UnifiedMarket, bool) {
	earlyPayout := raw.EarlyPayout

	markets := make([]domain.UnifiedMarket, 0, len(raw.Markets))
	for _, rm := range raw.Markets {
		mapping, ok := b.classifier.ClassifyMarket(rm)
		if !ok {
			b.log.Debug("discarding unmapped market",
				slog.String("market_id", rm.ProviderMarketID),
				slog.String("name", rm.Name))
			continue
		}

		options := make([]domain.UnifiedMarketOption, 0, len(rm.Outcomes))
		for _, ro := range rm.Outcomes {
			outcome, ok := b.classifier.ClassifyOutcome(ro, mapping)
			if !ok || outcome == domain.OutcomeOther {
				b.log.Debug("discarding unmapped outcome",
					slog.String("market_id", rm.ProviderMarketID),
					slog.String("label", ro.Label))
				continue
			}
			if ro.EarlyPayout {
				earlyPayout = true
			}
			options = append(options, domain.UnifiedMarketOption{
				Outcome: outcome,
				Label:   ro.Label,
				Sources: map[string]domain.OptionSourceData{
					b.provider: {
						EarlyPayout: ro.EarlyPayout,
						CapturedAt:  now,
						UpdatedAt:   now,
						StatusRaw:   ro.Status,
						MarketID:    rm.ProviderMarketID,
						OptionID:    ro.ProviderOptionID,
						Price:       ro.Price,
						Meta:        ro.Meta,
					},
				},
			})
		}
		if len(options) == 0 {
			continue
		}

		markets = append(markets, domain.UnifiedMarket{
			Canonical:   mapping.Canonical,
			Period:      mapping.Period,
			Line:        mapping.Line,
			Happening:   mapping.Happening,
			Participant: mapping.Participant,
			Interval:    mapping.Interval,
			UpdatedAt:   now,
			Options:     options,
		})
	}
	return markets, earlyPayout
}
