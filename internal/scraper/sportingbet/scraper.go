package sportingbet

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/superodds/superodds/internal/builder"
	"github.com/superodds/superodds/internal/domain"
)

// ProviderName is the key this provider uses in every per-source map.
const ProviderName = "sportingbet"

// enrichWorkers bounds the per-fixture detail fan-out.
const enrichWorkers = 8

// Scraper fetches the Sportingbet snapshot and canonicalizes it.
//
// Flow: list competitions from the taxonomy endpoint, collect fixture ids
// from each competition lobby, then fetch every fixture's full market view
// in parallel and build the canonical events.
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
	comps, err := s.client.ListCompetitions(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("fetched competitions", slog.Int("count", len(comps)))

	// Collect fixture ids per competition, remembering which competition a
	// fixture was first seen in for region/competition metadata.
	type fixtureRef struct {
		id   string
		comp competition
	}
	seen := make(map[string]bool)
	var refs []fixtureRef
	for _, comp := range comps {
		ids, err := s.client.ListFixtureIDs(ctx, comp)
		if err != nil {
			s.log.Warn("skipping competition",
				slog.Int("competition_id", comp.ID),
				slog.String("error", err.Error()))
			continue
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			refs = append(refs, fixtureRef{id: id, comp: comp})
		}
	}
	s.log.Info("collected fixtures", slog.Int("count", len(refs)))

	// Enrich fixtures with full market views in parallel. A fixture that
	// fails to fetch is skipped; the scrape carries on.
	var (
		mu   sync.Mutex
		raws []domain.RawEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichWorkers)
	for _, ref := range refs {
		g.Go(func() error {
			detail, err := s.client.GetFixture(gctx, ref.id)
			if err != nil {
				s.log.Warn("skipping fixture",
					slog.String("fixture_id", ref.id),
					slog.String("error", err.Error()))
				return nil
			}
			raw, ok := toRawEvent(detail, ref.comp)
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

// toRawEvent lifts a fixture detail into the provider-neutral raw form. It
// rejects fixtures for other sports, non-pair fixtures, and fixtures without
// markets.
func toRawEvent(fx fixtureDetail, comp competition) (domain.RawEvent, bool) {
	if fx.Sport.ID != 0 && fx.Sport.ID != sportID {
		return domain.RawEvent{}, false
	}
	if fx.FixtureType != "" && !strings.EqualFold(fx.FixtureType, "PairGame") {
		return domain.RawEvent{}, false
	}
	if len(fx.OptionMarkets) == 0 {
		return domain.RawEvent{}, false
	}

	home, away, ok := pickParticipants(fx.Participants)
	if !ok {
		return domain.RawEvent{}, false
	}

	start := parseDate(fx.StartDate)
	cutOff := parseDate(fx.CutOffDate)

	raw := domain.RawEvent{
		SourceID:    fx.ID,
		Sport:       "Futebol",
		StartAt:     start,
		Home:        home,
		Away:        away,
		Region:      comp.RegionName,
		Competition: comp.Name,
	}
	if !cutOff.IsZero() {
		raw.CutOff = &cutOff
	}

	for _, m := range fx.OptionMarkets {
		rm := domain.RawMarket{
			ProviderMarketID: strconv.FormatInt(m.ID, 10),
			Name:             m.Name.Value,
			Params:           m.paramMap(),
		}
		for _, opt := range m.Options {
			if opt.Price.Decimal == 0 {
				continue
			}
			out := domain.RawOutcome{
				ProviderOptionID: strconv.FormatInt(opt.ID, 10),
				Label:            opt.Name.Value,
				Code:             opt.Code,
				Status:           opt.Status,
				Price:            domain.Price{Decimal: opt.Price.Decimal},
			}
			if opt.BoostedPrice != "" {
				out.Meta = map[string]any{
					"priceBoost":   "true",
					"boostedPrice": opt.BoostedPrice.String(),
				}
				raw.PriceBoostCount++
			}
			rm.Outcomes = append(rm.Outcomes, out)
		}
		raw.Markets = append(raw.Markets, rm)
	}
	return raw, true
}

// pickParticipants resolves home and away from the typed participant list,
// falling back to positional order when the types are absent.
func pickParticipants(parts []participant) (home, away string, ok bool) {
	for _, p := range parts {
		switch p.Properties.Type {
		case "HomeTeam", "1":
			home = p.Name.Value
		case "AwayTeam", "2":
			away = p.Name.Value
		}
	}
	if home != "" && away != "" {
		return home, away, true
	}
	if len(parts) >= 2 {
		return parts[0].Name.Value, parts[1].Name.Value, true
	}
	return "", "", false
}

// parseDate tolerates the API's date variants: ISO-8601 with or without a
// zone, with a space instead of the T.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	s = strings.Replace(s, " ", "T", 1)
	if !strings.HasSuffix(s, "Z") && !strings.Contains(s, "+") {
		s += "Z"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

var _ domain.Scraper = (*Scraper)(nil)
