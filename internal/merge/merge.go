// Package merge folds freshly scraped canonical events into their previously
// stored versions. All three reducers are pure: they never mutate their
// inputs, which makes idempotence and cross-provider commutativity directly
// testable.
package merge

import (
	"sort"

	"github.com/superodds/superodds/internal/domain"
)

// Event merges an incoming single-cycle event into the stored document for
// the same identity. A nil existing means the event was never stored; the
// incoming document then passes through (with the global early-payout flag
// recomputed).
//
// Rules: identity is kept from the existing side when present; metadata is
// first-write-wins; every per-provider map merges key by key, the incoming
// provider's entry replacing its own prior entry and never touching other
// providers'; markets and options recurse with the same keyed semantics.
func Event(existing *domain.UnifiedEvent, incoming domain.UnifiedEvent) domain.UnifiedEvent {
	if existing == nil {
		out := incoming
		out.Sources = copySourceMap(incoming.Sources)
		out.EarlyPayoutBySource = copyBoolMap(incoming.EarlyPayoutBySource)
		out.TagsBySource = copyTagsMap(incoming.TagsBySource)
		out.Markets = copyMarkets(incoming.Markets)
		out.EarlyPayout = anyTrue(out.EarlyPayoutBySource)
		return out
	}

	out := *existing

	if out.NormalizedID == "" {
		out.NormalizedID = incoming.NormalizedID
	}
	if out.EventID == "" {
		out.EventID = incoming.EventID
	}

	out.Meta = mergeMeta(existing.Meta, incoming.Meta)
	out.Participants = mergeParticipants(existing.Participants, incoming.Participants)

	out.Sources = copySourceMap(existing.Sources)
	for name, snap := range incoming.Sources {
		if out.Sources == nil {
			out.Sources = make(map[string]domain.SourceSnapshot)
		}
		if prev, ok := out.Sources[name]; ok {
			// Keep the first capture time; the rest of the snapshot is the
			// provider's latest word.
			if !prev.CapturedAt.IsZero() {
				snap.CapturedAt = prev.CapturedAt
			}
		}
		out.Sources[name] = snap
	}

	out.EarlyPayoutBySource = copyBoolMap(existing.EarlyPayoutBySource)
	for name, v := range incoming.EarlyPayoutBySource {
		if out.EarlyPayoutBySource == nil {
			out.EarlyPayoutBySource = make(map[string]bool)
		}
		out.EarlyPayoutBySource[name] = v
	}
	out.EarlyPayout = anyTrue(out.EarlyPayoutBySource)

	out.TagsBySource = copyTagsMap(existing.TagsBySource)
	for name, tags := range incoming.TagsBySource {
		if out.TagsBySource == nil {
			out.TagsBySource = make(map[string]domain.SourceTags)
		}
		out.TagsBySource[name] = tags
	}

	out.Markets = mergeMarkets(existing.Markets, incoming.Markets)
	return out
}

// mergeMeta fills absent fields only. Metadata is provider-agnostic, so the
// first provider to report a value wins and later scrapes cannot flap it.
func mergeMeta(existing, incoming domain.EventMeta) domain.EventMeta {
	out := existing
	if out.StartDate.IsZero() {
		out.StartDate = incoming.StartDate
	}
	if out.CutOffDate == nil {
		out.CutOffDate = incoming.CutOffDate
	}
	if out.Sport == "" {
		out.Sport = incoming.Sport
	}
	if out.Region == "" {
		out.Region = incoming.Region
	}
	if out.Competition == "" {
		out.Competition = incoming.Competition
	}
	return out
}

func mergeParticipants(existing, incoming domain.Participants) domain.Participants {
	out := existing
	if out.Home == "" {
		out.Home = incoming.Home
	}
	if out.Away == "" {
		out.Away = incoming.Away
	}
	return out
}

// mergeMarkets folds incoming markets into the existing set by composite key.
// Markets the incoming cycle does not mention are kept untouched: a provider
// not reporting a market this cycle is not evidence of its removal.
func mergeMarkets(existing, incoming []domain.UnifiedMarket) []domain.UnifiedMarket {
	byKey := make(map[string]domain.UnifiedMarket, len(existing))
	order := make([]string, 0, len(existing)+len(incoming))
	for _, m := range existing {
		k := m.Key()
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = copyMarket(m)
	}
	for _, m := range incoming {
		k := m.Key()
		if prev, ok := byKey[k]; ok {
			byKey[k] = mergeMarket(prev, m)
		} else {
			order = append(order, k)
			byKey[k] = copyMarket(m)
		}
	}

	out := make([]domain.UnifiedMarket, 0, len(byKey))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}

// mergeMarket merges two markets that share a composite key. UpdatedAt
// advances to the max of both sides.
func mergeMarket(existing, incoming domain.UnifiedMarket) domain.UnifiedMarket {
	out := existing
	if incoming.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = incoming.UpdatedAt
	}
	out.Options = mergeOptions(existing.Options, incoming.Options)
	return out
}

// mergeOptions folds incoming options into the existing set by outcome type.
// Within one option, the incoming provider's quote replaces that provider's
// prior quote wholesale; other providers' quotes are untouched.
func mergeOptions(existing, incoming []domain.UnifiedMarketOption) []domain.UnifiedMarketOption {
	byOutcome := make(map[domain.OutcomeType]domain.UnifiedMarketOption, len(existing))
	order := make([]domain.OutcomeType, 0, len(existing)+len(incoming))
	for _, o := range existing {
		if _, ok := byOutcome[o.Outcome]; !ok {
			order = append(order, o.Outcome)
		}
		byOutcome[o.Outcome] = copyOption(o)
	}
	for _, o := range incoming {
		prev, ok := byOutcome[o.Outcome]
		if !ok {
			order = append(order, o.Outcome)
			byOutcome[o.Outcome] = copyOption(o)
			continue
		}
		merged := prev
		if o.Label != "" {
			merged.Label = o.Label
		}
		merged.Sources = copyQuoteMap(prev.Sources)
		for name, quote := range o.Sources {
			if merged.Sources == nil {
				merged.Sources = make(map[string]domain.OptionSourceData)
			}
			if prior, held := merged.Sources[name]; held && !prior.CapturedAt.IsZero() {
				quote.CapturedAt = prior.CapturedAt
			}
			merged.Sources[name] = quote
		}
		byOutcome[o.Outcome] = merged
	}

	out := make([]domain.UnifiedMarketOption, 0, len(byOutcome))
	for _, k := range order {
		out = append(out, byOutcome[k])
	}
	return out
}

// SortMarkets orders markets by composite key for stable serialization.
// Merge itself preserves insertion order; this is for callers that want a
// deterministic document regardless of merge history.
func SortMarkets(markets []domain.UnifiedMarket) {
	sort.Slice(markets, func(i, j int) bool { return markets[i].Key() < markets[j].Key() })
}

func anyTrue(m map[string]bool) bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

func copyMarkets(in []domain.UnifiedMarket) []domain.UnifiedMarket {
	if in == nil {
		return nil
	}
	out := make([]domain.UnifiedMarket, len(in))
	for i, m := range in {
		out[i] = copyMarket(m)
	}
	return out
}

func copyMarket(m domain.UnifiedMarket) domain.UnifiedMarket {
	out := m
	if m.Options != nil {
		out.Options = make([]domain.UnifiedMarketOption, len(m.Options))
		for i, o := range m.Options {
			out.Options[i] = copyOption(o)
		}
	}
	return out
}

func copyOption(o domain.UnifiedMarketOption) domain.UnifiedMarketOption {
	out := o
	out.Sources = copyQuoteMap(o.Sources)
	return out
}

func copyQuoteMap(in map[string]domain.OptionSourceData) map[string]domain.OptionSourceData {
	if in == nil {
		return nil
	}
	out := make(map[string]domain.OptionSourceData, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copySourceMap(in map[string]domain.SourceSnapshot) map[string]domain.SourceSnapshot {
	if in == nil {
		return nil
	}
	out := make(map[string]domain.SourceSnapshot, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyBoolMap(in map[string]bool) map[string]bool {
	if in == nil {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyTagsMap(in map[string]domain.SourceTags) map[string]domain.SourceTags {
	if in == nil {
		return nil
	}
	out := make(map[string]domain.SourceTags, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
