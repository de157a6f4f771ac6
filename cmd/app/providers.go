package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/finsight/coverage-console/internal/domain/coverage"
	"github.com/finsight/coverage-console/internal/infra/config"
	"github.com/finsight/coverage-console/internal/infra/historyrepo"
	"github.com/finsight/coverage-console/internal/infra/marketdata/restclient"
	"github.com/finsight/coverage-console/internal/infra/snaparchive"
	"github.com/finsight/coverage-console/internal/infra/snapcache"
	"github.com/finsight/coverage-console/internal/infra/taskrunner"
)

func provideCoverageConfig(cfg *config.Config) coverage.Config {
	return coverage.Config{
		StaleThreshold:        time.Duration(cfg.Coverage.StaleThresholdSeconds) * time.Second,
		PollInterval:          cfg.Coverage.PollInterval,
		AutoRefreshOnStale:    cfg.Coverage.AutoRefreshOnStale,
		HistoryLimit:          cfg.Coverage.HistoryLimit,
		FillTradingDaysWindow: cfg.Upstream.FillTradingDaysWindow,
		FillLookbackDays:      cfg.Upstream.FillLookbackDays,
	}
}

func provideSnapshotClient(cfg *config.Config) *restclient.Client {
	return restclient.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
}

func provideActionRunner(cfg *config.Config) coverage.ActionRunner {
	return taskrunner.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
}

func provideSnapshotCache(cfg *config.Config, logger *slog.Logger) coverage.SnapshotCache {
	if cfg.Cache.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return snapcache.NewMemoryStore(cfg.Cache.TTL)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return snapcache.NewMemoryStore(cfg.Cache.TTL)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("valkey snapshot cache enabled", "addr", cfg.Cache.Addr)
			return snapcache.NewValkeyStore(client, "coverage", cfg.Cache.TTL)
		}
	}
	return snapcache.NewMemoryStore(cfg.Cache.TTL)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideHistoryRepository(cfg *config.Config, logger *slog.Logger) coverage.HistoryRepository {
	fallback := historyrepo.NewMemoryRepository(cfg.History.Retention)
	dsn := strings.TrimSpace(cfg.History.Postgres.DSN)
	if dsn == "" {
		logger.Info("history postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.History.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.History.Postgres.MaxConns
	}
	if cfg.History.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.History.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("history postgres repository enabled")
	return historyrepo.NewPostgresRepository(pool)
}

func provideSnapshotArchiver(cfg *config.Config, logger *slog.Logger) coverage.SnapshotArchiver {
	if !cfg.Archive.Enabled {
		return snaparchive.Disabled{}
	}
	archive, err := snaparchive.NewS3Archive(
		cfg.Archive.Endpoint,
		cfg.Archive.AccessKey,
		cfg.Archive.SecretKey,
		cfg.Archive.Bucket,
		cfg.Archive.Region,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize snapshot archive, archival disabled", "error", err)
		return snaparchive.Disabled{}
	}
	logger.Info("snapshot archive enabled", "bucket", cfg.Archive.Bucket)
	return archive
}
