package betmgm

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/superodds/superodds/internal/builder"
	"github.com/superodds/superodds/internal/domain"
)

// ProviderName is the key this provider uses in every per-source map.
const ProviderName = "betmgm"

// enrichWorkers bounds the per-event offering fan-out.
const enrichWorkers = 8

// nameSplitRe splits "Grêmio v Fluminense" / "A vs B" / "A x B" listings.
var nameSplitRe = regexp.MustCompile(`\s+(?:vs|v|x)\s+`)

// Scraper fetches the BetMGM snapshot and canonicalizes it.
//
// Discovery goes through the GraphQL listing; market detail comes from the
// Kambi offering CDN, one request per event.
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

func (s *Scraper) Scrape(ctx context.Context) ([]domain.UnifiedEvent, error) {
	listed, err := s.client.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("fetched event listing", slog.Int("count", len(listed)))

	seen := make(map[string]bool)
	var unique []listedEvent
	for _, ev := range listed {
		if ev.ID == "" || seen[ev.ID] {
			continue
		}
		seen[ev.ID] = true
		unique = append(unique, ev)
	}

	// Fetch each event's offering in parallel. A failed event is skipped so
	// one flaky CDN response does not sink the whole cycle.
	var (
		mu   sync.Mutex
		raws []domain.RawEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichWorkers)
	for _, ev := range unique {
		g.Go(func() error {
			offers, err := s.client.GetEventOffers(gctx, ev.ID)
			if err != nil {
				s.log.Warn("skipping event",
					slog.String("event_id", ev.ID),
					slog.String("error", err.Error()))
				return nil
			}
			raw, ok := toRawEvent(ev, offers)
			if !ok {
				return nil
			}
			mu.Lock()
			raws = append(raws, raw)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	events := s.builder.BuildAll(raws, time.Now().UTC())
	s.log.Info("normalized events", slog.Int("count", len(events)))
	return events, nil
}

// toRawEvent lifts a listing entry plus its offering view into the
// provider-neutral raw form.
func toRawEvent(ev listedEvent, offers offeringResponse) (domain.RawEvent, bool) {
	if len(offers.BetOffers) == 0 {
		return domain.RawEvent{}, false
	}

	home, away, ok := participants(ev, offers)
	if !ok {
		return domain.RawEvent{}, false
	}

	start := parseStart(ev.Start)
	if start.IsZero() && len(offers.Events) > 0 {
		start = parseStart(offers.Events[0].Start)
	}

	raw := domain.RawEvent{
		SourceID:    ev.ID,
		Sport:       "Futebol",
		StartAt:     start,
		Home:        home,
		Away:        away,
		Region:      ev.League.Country.Name,
		Competition: ev.League.Name,
	}

	for _, offer := range offers.BetOffers {
		rm := domain.RawMarket{
			ProviderMarketID: strconv.FormatInt(offer.ID, 10),
			Name:             offer.Criterion.Label,
			OfferType:        offer.BetOfferType.Name,
			Params:           map[string]string{"label": offer.Label},
		}
		for _, out := range offer.Outcomes {
			price, ok := outcomePrice(out)
			if !ok {
				continue
			}
			rm.Outcomes = append(rm.Outcomes, domain.RawOutcome{
				ProviderOptionID: strconv.FormatInt(out.ID, 10),
				Label:            out.Label,
				Status:           out.Status,
				Price:            price,
			})
		}
		raw.Markets = append(raw.Markets, rm)
	}
	return raw, true
}

// participants prefers the offering's typed participant list and falls back
// to splitting the listing name on a v/vs/x separator.
func participants(ev listedEvent, offers offeringResponse) (home, away string, ok bool) {
	if len(offers.Events) > 0 && len(offers.Events[0].Participants) >= 2 {
		p := offers.Events[0].Participants
		return p[0].Name, p[1].Name, true
	}
	name := ev.EnglishName
	if name == "" {
		name = ev.Name
	}
	parts := nameSplitRe.Split(name, 2)
	if len(parts) == 2 {
		home = strings.TrimSpace(parts[0])
		away = strings.TrimSpace(parts[1])
		if home != "" && away != "" {
			return home, away, true
		}
	}
	return "", "", false
}

// outcomePrice prefers the formatted decimal string Kambi ships alongside the
// milli-odds integer; the integer divided by 1000 is the fallback.
func outcomePrice(out kambiOutcome) (domain.Price, bool) {
	price := domain.Price{
		Fractional: out.Fractional,
		American:   out.American,
	}
	if out.OddsDec != "" {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(out.OddsDec, ",", "."), 64); err == nil && v > 0 {
			price.Decimal = v
			return price, true
		}
	}
	if out.Odds > 0 {
		price.Decimal = float64(out.Odds) / 1000
		return price, true
	}
	return domain.Price{}, false
}

func parseStart(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

var _ domain.Scraper = (*Scraper)(nil)
