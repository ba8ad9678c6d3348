package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/superodds/superodds/internal/domain"
)

// Refresher runs one full refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) (domain.RefreshSummary, error)
}

// Orchestrator drives the scheduled refresh loop: an immediate cycle on
// start, then one per tick, plus manual triggers from the HTTP surface. After
// each cycle it purges documents past the retention window.
type Orchestrator struct {
	refresher Refresher
	store     domain.EventStore
	archiver  *Archiver
	interval  time.Duration
	retention time.Duration
	trigger   chan chan domain.RefreshSummary
	log       *slog.Logger
}

func NewOrchestrator(refresher Refresher, store domain.EventStore, archiver *Archiver, interval, retention time.Duration, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		refresher: refresher,
		store:     store,
		archiver:  archiver,
		interval:  interval,
		retention: retention,
		trigger:   make(chan chan domain.RefreshSummary),
		log:       log.With(slog.String("component", "orchestrator")),
	}
}

// TriggerRefresh requests an out-of-band cycle and waits for its summary.
// The running loop serializes manual and scheduled cycles.
func (o *Orchestrator) TriggerRefresh(ctx context.Context) (domain.RefreshSummary, error) {
	reply := make(chan domain.RefreshSummary, 1)
	select {
	case o.trigger <- reply:
	case <-ctx.Done():
		return domain.RefreshSummary{}, ctx.Err()
	}
	select {
	case summary := <-reply:
		return summary, nil
	case <-ctx.Done():
		return domain.RefreshSummary{}, ctx.Err()
	}
}

// Run loops until the context is done. It always returns nil on clean
// shutdown so the caller's run-group treats cancellation as success.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.log.Info("refresh loop starting", slog.Duration("interval", o.interval))

	o.cycle(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.log.Info("refresh loop stopped")
			return nil
		case <-ticker.C:
			o.cycle(ctx)
		case reply := <-o.trigger:
			reply <- o.cycle(ctx)
		}
	}
}

func (o *Orchestrator) cycle(ctx context.Context) domain.RefreshSummary {
	if o.archiver != nil {
		o.archiver.NextCycle()
	}

	summary, err := o.refresher.Refresh(ctx)
	if err != nil {
		o.log.Warn("refresh cycle aborted", slog.String("error", err.Error()))
		return summary
	}

	if ctx.Err() == nil && o.retention > 0 {
		purged, err := o.store.PurgeExpired(ctx, o.retention)
		if err != nil {
			o.log.Error("retention purge failed", slog.String("error", err.Error()))
		} else if purged > 0 {
			o.log.Info("purged expired events", slog.Int64("count", purged))
		}
	}
	return summary
}
