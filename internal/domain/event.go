package domain

import (
	"strconv"
	"strings"
	"time"
)

// UnifiedEvent is the canonical document for one sporting fixture, shared by
// every provider that reports it. NormalizedID is the sole primary key; it is
// derived once (EventIdentity) and never mutated after that.
type UnifiedEvent struct {
	NormalizedID string `json:"normalizedId"`

	// EventID is an optional legacy identifier, used as a fallback key only
	// when NormalizedID is absent.
	EventID string `json:"eventId,omitempty"`

	Meta         EventMeta    `json:"meta"`
	Participants Participants `json:"participants"`

	// Sources holds per-provider event bookkeeping, keyed by provider name
	// ("superbet", "sportingbet", "betmgm"). Entries from different providers
	// never overwrite each other.
	Sources map[string]SourceSnapshot `json:"sources,omitempty"`

	// EarlyPayout is true iff any provider in EarlyPayoutBySource is true.
	// Recomputed on every merge, never set directly.
	EarlyPayout         bool            `json:"earlyPayout"`
	EarlyPayoutBySource map[string]bool `json:"earlyPayoutBySource,omitempty"`

	// TagsBySource carries small provider-reported counters, e.g. how many
	// boosted prices the provider currently offers on this event.
	TagsBySource map[string]SourceTags `json:"tagsBySource,omitempty"`

	Markets []UnifiedMarket `json:"markets,omitempty"`
}

// Key returns the merge key for the event: NormalizedID, falling back to the
// legacy EventID when the normalized one is absent.
func (e UnifiedEvent) Key() string {
	if e.NormalizedID != "" {
		return e.NormalizedID
	}
	return e.EventID
}

// EventMeta holds provider-agnostic fixture metadata. Filled first-write-wins
// during merge so it does not flap between providers.
type EventMeta struct {
	StartDate   time.Time  `json:"startDate"`
	CutOffDate  *time.Time `json:"cutOffDate,omitempty"`
	Sport       string     `json:"sport"`
	Region      string     `json:"region,omitempty"`
	Competition string     `json:"competition,omitempty"`
}

// Participants holds the home and away team names as reported, pre-normalization.
type Participants struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// SourceSnapshot records when one provider first reported and last updated
// this event, together with its native event id.
type SourceSnapshot struct {
	EventSourceID string    `json:"eventSourceId"`
	CapturedAt    time.Time `json:"capturedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SourceTags is a small bag of per-provider counters.
type SourceTags struct {
	PriceBoostCount int `json:"priceBoostCount,omitempty"`
}

// UnifiedMarket is one canonical market inside an event. Its identity for
// merge purposes is the composite key returned by Key.
type UnifiedMarket struct {
	Canonical MarketType `json:"marketCanonical"`
	Period    PeriodType `json:"period"`

	// Line is the handicap or total threshold, when the market has one.
	Line *float64 `json:"line,omitempty"`

	Happening   HappeningType   `json:"happening,omitempty"`
	Participant ParticipantSide `json:"participant,omitempty"`

	// Interval is a free-form sub-period marker such as "0-60 min".
	Interval string `json:"interval,omitempty"`

	// UpdatedAt is the max over all per-provider update times ever merged in.
	UpdatedAt time.Time `json:"updatedAt"`

	Options []UnifiedMarketOption `json:"options,omitempty"`
}

// Key returns the composite identity of the market. Two markets with equal
// keys, from any provider at any time, must fold into one record.
func (m UnifiedMarket) Key() string {
	line := ""
	if m.Line != nil {
		line = strconv.FormatFloat(*m.Line, 'f', -1, 64)
	}
	parts := []string{
		string(m.Canonical),
		string(m.Period),
		line,
		string(m.Happening),
		string(m.Participant),
		m.Interval,
	}
	return strings.Join(parts, "|")
}

// UnifiedMarketOption is one canonical outcome within a market, unique by
// outcome type. Per-provider quote data lives under Sources.
type UnifiedMarketOption struct {
	Outcome OutcomeType `json:"outcome"`

	// Label is display text, last write wins.
	Label string `json:"label,omitempty"`

	// Sources maps provider name to that provider's quote. A provider's entry
	// is replaced wholesale on each scrape from that provider.
	Sources map[string]OptionSourceData `json:"sources,omitempty"`
}

// OptionSourceData is one provider's quote for one option.
type OptionSourceData struct {
	EarlyPayout bool      `json:"earlyPayout"`
	CapturedAt  time.Time `json:"capturedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// StatusRaw is the provider's status string verbatim (OPEN, Visible, ...).
	StatusRaw string `json:"statusRaw,omitempty"`

	MarketID string `json:"marketId,omitempty"`
	OptionID string `json:"optionId,omitempty"`

	Price Price `json:"price"`

	// Meta carries provider extras (criterion ids, lifetimes, tags).
	Meta map[string]any `json:"meta,omitempty"`
}

// Price holds the odds formats a provider exposes. Decimal is always set;
// fractional and american pass through only when the provider reports them.
type Price struct {
	Decimal    float64 `json:"decimal"`
	Fractional string  `json:"fractional,omitempty"`
	American   string  `json:"american,omitempty"`
}
