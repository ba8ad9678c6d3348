package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/superodds/superodds/internal/blob/s3"
	"github.com/superodds/superodds/internal/cache/redis"
	"github.com/superodds/superodds/internal/config"
	"github.com/superodds/superodds/internal/domain"
	"github.com/superodds/superodds/internal/scraper/betmgm"
	"github.com/superodds/superodds/internal/scraper/sportingbet"
	"github.com/superodds/superodds/internal/scraper/superbet"
	"github.com/superodds/superodds/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	Store       domain.EventStore
	Cache       domain.EventCache
	LockManager domain.LockManager
	BlobWriter  domain.BlobWriter // nil when S3 archival is disabled
	Scrapers    []domain.Scraper
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}
	deps.Store = postgres.NewEventStore(pgClient.Pool())

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.Cache = redis.NewEventCache(redisClient)
	deps.LockManager = redis.NewLockManager(redisClient)

	// --- S3 blob storage (snapshot archival, optional) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })
		deps.BlobWriter = s3blob.NewWriter(s3Client)
	}

	// --- Provider scrapers ---
	if cfg.Providers.Superbet.Enabled {
		client := superbet.NewClient(cfg.Providers.Superbet.BaseURL)
		deps.Scrapers = append(deps.Scrapers, superbet.NewScraper(client, logger))
	}
	if cfg.Providers.Sportingbet.Enabled {
		client := sportingbet.NewClient(cfg.Providers.Sportingbet.BaseURL, cfg.Providers.Sportingbet.AccessID)
		deps.Scrapers = append(deps.Scrapers, sportingbet.NewScraper(client, logger))
	}
	if cfg.Providers.BetMGM.Enabled {
		client := betmgm.NewClient(cfg.Providers.BetMGM.GraphQLURL, cfg.Providers.BetMGM.OfferingURL)
		deps.Scrapers = append(deps.Scrapers, betmgm.NewScraper(client, logger))
	}

	return deps, cleanup, nil
}
