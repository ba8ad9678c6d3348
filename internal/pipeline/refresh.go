// Package pipeline coordinates the periodic refresh cycle: fanning out to the
// provider scrapers, archiving their snapshots, and running retention purges.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/superodds/superodds/internal/domain"
)

// minWorkers is the worker-pool floor; with few providers the pool still
// leaves headroom for slow ones.
const minWorkers = 4

// Snapshot is one provider's settled scrape result within a cycle.
type Snapshot struct {
	Provider string
	Events   []domain.UnifiedEvent
	Err      error
}

// Collector fans the refresh cycle out over every configured provider scraper
// and waits for all of them to settle. A provider failure never cancels the
// cycle; it is carried in that provider's snapshot instead.
type Collector struct {
	scrapers []domain.Scraper
	timeout  time.Duration
	workers  int
	archiver *Archiver
	log      *slog.Logger
}

// NewCollector builds a collector. timeout bounds each provider's scrape;
// zero means no per-provider bound beyond the cycle context. archiver may be
// nil to disable snapshot archival.
func NewCollector(scrapers []domain.Scraper, timeout time.Duration, workers int, archiver *Archiver, log *slog.Logger) *Collector {
	if workers < minWorkers {
		workers = minWorkers
	}
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		scrapers: scrapers,
		timeout:  timeout,
		workers:  workers,
		archiver: archiver,
		log:      log.With(slog.String("component", "collector")),
	}
}

// Collect runs every provider scrape concurrently and returns one snapshot
// per provider, in scraper order, after all of them have settled.
func (c *Collector) Collect(ctx context.Context) []Snapshot {
	snapshots := make([]Snapshot, len(c.scrapers))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, sc := range c.scrapers {
		g.Go(func() error {
			snapshots[i] = c.collectOne(ctx, sc)
			return nil
		})
	}
	// Workers only ever return nil; Wait is a barrier, not an error source.
	_ = g.Wait()

	for _, snap := range snapshots {
		if snap.Err != nil {
			c.log.Warn("provider scrape failed",
				slog.String("provider", snap.Provider),
				slog.String("error", snap.Err.Error()))
			continue
		}
		c.log.Info("provider scrape settled",
			slog.String("provider", snap.Provider),
			slog.Int("events", len(snap.Events)))
	}
	return snapshots
}

func (c *Collector) collectOne(ctx context.Context, sc domain.Scraper) Snapshot {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	events, err := sc.Scrape(ctx)
	snap := Snapshot{Provider: sc.Name(), Events: events, Err: err}
	if err != nil {
		return snap
	}

	if c.archiver != nil && len(events) > 0 {
		// Archival is best-effort; a cold-storage hiccup must not taint the
		// provider's snapshot.
		if aerr := c.archiver.ArchiveSnapshot(ctx, snap.Provider, events); aerr != nil {
			c.log.Warn("snapshot archive failed",
				slog.String("provider", snap.Provider),
				slog.String("error", aerr.Error()))
		}
	}
	return snap
}
