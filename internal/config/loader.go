package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SUPERODDS_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SUPERODDS_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Providers ──
	setBool(&cfg.Providers.Superbet.Enabled, "SUPERODDS_PROVIDERS_SUPERBET_ENABLED")
	setStr(&cfg.Providers.Superbet.BaseURL, "SUPERODDS_PROVIDERS_SUPERBET_BASE_URL")
	setBool(&cfg.Providers.Sportingbet.Enabled, "SUPERODDS_PROVIDERS_SPORTINGBET_ENABLED")
	setStr(&cfg.Providers.Sportingbet.BaseURL, "SUPERODDS_PROVIDERS_SPORTINGBET_BASE_URL")
	setStr(&cfg.Providers.Sportingbet.AccessID, "SUPERODDS_PROVIDERS_SPORTINGBET_ACCESS_ID")
	setBool(&cfg.Providers.BetMGM.Enabled, "SUPERODDS_PROVIDERS_BETMGM_ENABLED")
	setStr(&cfg.Providers.BetMGM.GraphQLURL, "SUPERODDS_PROVIDERS_BETMGM_GRAPHQL_URL")
	setStr(&cfg.Providers.BetMGM.OfferingURL, "SUPERODDS_PROVIDERS_BETMGM_OFFERING_URL")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "SUPERODDS_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "SUPERODDS_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "SUPERODDS_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "SUPERODDS_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "SUPERODDS_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "SUPERODDS_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "SUPERODDS_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "SUPERODDS_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "SUPERODDS_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "SUPERODDS_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "SUPERODDS_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SUPERODDS_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SUPERODDS_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SUPERODDS_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "SUPERODDS_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "SUPERODDS_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "SUPERODDS_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "SUPERODDS_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "SUPERODDS_S3_REGION")
	setStr(&cfg.S3.Bucket, "SUPERODDS_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "SUPERODDS_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "SUPERODDS_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "SUPERODDS_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "SUPERODDS_S3_FORCE_PATH_STYLE")

	// ── Refresh ──
	setDuration(&cfg.Refresh.Interval, "SUPERODDS_REFRESH_INTERVAL")
	setDuration(&cfg.Refresh.ProviderTimeout, "SUPERODDS_REFRESH_PROVIDER_TIMEOUT")
	setInt(&cfg.Refresh.BatchSize, "SUPERODDS_REFRESH_BATCH_SIZE")
	setInt(&cfg.Refresh.Workers, "SUPERODDS_REFRESH_WORKERS")
	setInt(&cfg.Refresh.RetentionDays, "SUPERODDS_REFRESH_RETENTION_DAYS")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "SUPERODDS_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "SUPERODDS_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "SUPERODDS_SERVER_CORS_ORIGINS")

	// ── Top-level ──
	setStr(&cfg.Mode, "SUPERODDS_MODE")
	setStr(&cfg.LogLevel, "SUPERODDS_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
