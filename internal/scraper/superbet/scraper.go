package superbet

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/superodds/superodds/internal/builder"
	"github.com/superodds/superodds/internal/domain"
)

// ProviderName is the key this provider uses in every per-source map.
const ProviderName = "superbet"

const matchDateLayout = "2006-01-02 15:04:05"

// Scraper fetches the Superbet snapshot and canonicalizes it.
type Scraper struct {
	client  *Client
	builder *builder.Builder
	log     *slog.Logger
}

func NewScraper(client *Client, log *slog.Logger) *Scraper {
	if log == nil {
		log = slog.Default()
	}
	return &Scraper{
		client:  client,
		builder: builder.New(ProviderName, Mapper{}, log),
		log:     log.With(slog.String("component", "scraper"), slog.String("provider", ProviderName)),
	}
}

func (s *Scraper) Name() string { return ProviderName }

// Scrape lists upcoming events, fetches each one's markets, and builds the
// canonical snapshot. A single event failing to fetch is skipped, not fatal.
func (s *Scraper) Scrape(ctx context.Context) ([]domain.UnifiedEvent, error) {
	now := time.Now().UTC()

	ids, err := s.client.ListEventIDs(ctx, now)
	if err != nil {
		return nil, err
	}
	s.log.Info("fetched event list", slog.Int("count", len(ids)))

	raws := make([]domain.RawEvent, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("superbet: %w", err)
		}
		ev, err := s.client.GetEvent(ctx, id)
		if err != nil {
			s.log.Warn("skipping event", slog.String("event_id", id), slog.String("error", err.Error()))
			continue
		}
		raws = append(raws, toRawEvent(ev))
	}

	events := s.builder.BuildAll(raws, now)
	s.log.Info("normalized events", slog.Int("count", len(events)))
	return events, nil
}

// toRawEvent lifts the wire event into the provider-neutral raw form. The
// match name carries both teams separated by a middle dot; the match date is
// a zoneless UTC stamp.
func toRawEvent(ev apiEvent) domain.RawEvent {
	home, away := splitMatchName(ev.MatchName)

	start, err := time.ParseInLocation(matchDateLayout, ev.MatchDate, time.UTC)
	if err != nil {
		start = time.Time{}
	}

	raw := domain.RawEvent{
		SourceID: ev.EventID,
		Sport:    "Futebol",
		StartAt:  start,
		Home:     home,
		Away:     away,
		Region:   "Brasil",
	}
	if strings.Contains(ev.MatchTags, "price_boost") {
		raw.PriceBoostCount = 1
	}

	// Superbet flattens markets into one odds list; group rows by market id.
	byMarket := make(map[int]*domain.RawMarket)
	order := make([]int, 0)
	for _, odd := range ev.Odds {
		m, ok := byMarket[odd.MarketID]
		if !ok {
			m = &domain.RawMarket{
				ProviderMarketID: strconv.Itoa(odd.MarketID),
				Name:             odd.MarketName,
			}
			byMarket[odd.MarketID] = m
			order = append(order, odd.MarketID)
		}
		m.Outcomes = append(m.Outcomes, domain.RawOutcome{
			ProviderOptionID: odd.OutcomeID,
			Label:            odd.Name,
			Status:           odd.Status,
			Price:            domain.Price{Decimal: odd.Price},
		})
	}
	for _, id := range order {
		raw.Markets = append(raw.Markets, *byMarket[id])
	}
	return raw
}

func splitMatchName(name string) (home, away string) {
	parts := strings.SplitN(name, "·", 2)
	if len(parts) > 0 {
		home = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		away = strings.TrimSpace(parts[1])
	}
	return home, away
}

var _ domain.Scraper = (*Scraper)(nil)
