package database

import (
	"context"
	"fmt"
	"time"

	"dish-analyzer/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ApplicationName is reported to Postgres so catalogue connections can be
// told apart in pg_stat_activity.
const ApplicationName = "dish-analyzer-catalogue"

// PingTimeout bounds the connectivity check in NewPool.
const PingTimeout = 10 * time.Second

// NewPool creates the reference catalogue connection pool and verifies it
// with a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfigFor(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.With().
		Str("component", "catalogue_db").
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Logger()

	log.Info().
		Int("min_connections", cfg.MinConnections).
		Int("max_connections", cfg.MaxConnections).
		Str("application_name", ApplicationName).
		Msg("connecting to reference catalogue database")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("reference catalogue database unreachable")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Int32("open_connections", pool.Stat().TotalConns()).Msg("reference catalogue pool ready")

	return pool, nil
}

// poolConfigFor translates the database section into a pgxpool config.
func poolConfigFor(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	return poolConfig, nil
}
