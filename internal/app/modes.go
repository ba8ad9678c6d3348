package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/superodds/superodds/internal/pipeline"
	"github.com/superodds/superodds/internal/server"
	"github.com/superodds/superodds/internal/server/handler"
	"github.com/superodds/superodds/internal/service"
)

// refreshStack bundles the pieces of the collect-merge-persist pipeline shared
// by both operating modes.
type refreshStack struct {
	archiver *pipeline.Archiver
	refresh  *service.RefreshService
}

// buildRefreshStack assembles the collector and refresh service from the wired
// dependencies. The snapshot archiver is only attached when a blob writer was
// configured.
func (a *App) buildRefreshStack(deps *Dependencies) refreshStack {
	var archiver *pipeline.Archiver
	if deps.BlobWriter != nil {
		archiver = pipeline.NewArchiver(deps.BlobWriter, a.logger)
	}

	collector := pipeline.NewCollector(
		deps.Scrapers,
		a.cfg.Refresh.ProviderTimeout.Duration,
		a.cfg.Refresh.Workers,
		archiver,
		a.logger,
	)

	refresh := service.NewRefreshService(
		collector,
		deps.Store,
		deps.Cache,
		deps.LockManager,
		a.cfg.Refresh.BatchSize,
		a.logger,
	)

	return refreshStack{archiver: archiver, refresh: refresh}
}

// retention converts the configured retention in days to a duration.
func (a *App) retention() time.Duration {
	return time.Duration(a.cfg.Refresh.RetentionDays) * 24 * time.Hour
}

// ServeMode runs the long-lived service: the scheduled refresh loop plus,
// when enabled, the HTTP API. It blocks until the context is cancelled and
// then shuts the HTTP server down gracefully.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	stack := a.buildRefreshStack(deps)

	orchestrator := pipeline.NewOrchestrator(
		stack.refresh,
		deps.Store,
		stack.archiver,
		a.cfg.Refresh.Interval.Duration,
		a.retention(),
		a.logger,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return orchestrator.Run(gctx)
	})

	if a.cfg.Server.Enabled {
		events := service.NewEventService(deps.Store, deps.Cache, a.logger)

		srv := server.NewServer(
			server.Config{
				Port:        a.cfg.Server.Port,
				CORSOrigins: a.cfg.Server.CORSOrigins,
			},
			server.Handlers{
				Health:  handler.NewHealthHandler(a.logger),
				Events:  handler.NewEventsHandler(events, a.logger),
				Refresh: handler.NewRefreshHandler(orchestrator, a.logger),
			},
			a.logger,
		)

		g.Go(func() error {
			return srv.Start()
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("app: serve: %w", err)
	}
	return nil
}

// RefreshMode runs exactly one refresh cycle and exits. It is intended for
// cron-style invocations and ad-hoc operator runs.
func (a *App) RefreshMode(ctx context.Context, deps *Dependencies) error {
	stack := a.buildRefreshStack(deps)

	if stack.archiver != nil {
		stack.archiver.NextCycle()
	}

	summary, err := stack.refresh.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("app: refresh: %w", err)
	}

	if retention := a.retention(); retention > 0 {
		purged, err := deps.Store.PurgeExpired(ctx, retention)
		if err != nil {
			a.logger.ErrorContext(ctx, "retention purge failed", slog.String("error", err.Error()))
		} else if purged > 0 {
			a.logger.InfoContext(ctx, "purged expired events", slog.Int64("count", purged))
		}
	}

	attrs := []any{
		slog.Int("total_events", summary.TotalEvents),
		slog.Int("total_upserted", summary.TotalUpserted),
		slog.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	}
	for provider, count := range summary.EventsByProvider {
		attrs = append(attrs, slog.Int("events_"+provider, count))
	}
	a.logger.InfoContext(ctx, "refresh cycle complete", attrs...)

	for source, msg := range summary.Errors {
		a.logger.WarnContext(ctx, "refresh cycle error",
			slog.String("source", source),
			slog.String("error", msg),
		)
	}
	return nil
}
