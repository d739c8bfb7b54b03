package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ingestion"
	"github.com/spigell/resume-matcher/internal/reports"
	"github.com/spigell/resume-matcher/internal/secrets"
)

func newUploadStore(ctx context.Context, cfg *UploadsConfig) (ingestion.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "local":
		return ingestion.NewLocalStore(afero.NewOsFs(), cfg.Dir), nil
	case "s3":
		store, err := ingestion.NewS3StoreFromEnv(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported uploads backend: %s", cfg.Backend)
	}
}

func newReportStore(ctx context.Context, cfg *ReportsConfig, logger *zap.Logger) (reports.Store, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "memory":
		return reports.NewMemoryStore(cfg.TTL), noop, nil
	case "redis":
		password, err := secrets.LoadOptional(secrets.Source{
			Name: "redis password",
			File: cfg.Redis.PasswordFile,
			Env:  "RESUME_MATCHER_REDIS_PASSWORD",
		})
		if err != nil {
			return nil, noop, err
		}

		store := reports.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: password,
			DB:       cfg.Redis.DB,
		}), cfg.TTL)

		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, noop, err
		}

		logger.Info("report store connected", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported reports backend: %s", cfg.Backend)
	}
}
